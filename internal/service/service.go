// Package service implements validation and orchestration between HTTP
// handlers and the activity registry.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Shivanand-hulikatti/mergington-activities/internal/metrics"
	"github.com/Shivanand-hulikatti/mergington-activities/internal/model"
	"github.com/Shivanand-hulikatti/mergington-activities/internal/repository"
	"go.uber.org/zap"
)

// ErrEmailRequired is returned when a signup or unregister request has no email.
var ErrEmailRequired = errors.New("email is required")

const (
	opSignup     = "signup"
	opUnregister = "unregister"
)

// ActivityService orchestrates activity roster operations.
type ActivityService struct {
	registry *repository.Registry
	log      *zap.Logger
}

// NewActivityService constructs an ActivityService.
func NewActivityService(registry *repository.Registry, log *zap.Logger) *ActivityService {
	return &ActivityService{registry: registry, log: log.Named("service")}
}

// ListActivities returns every activity keyed by name.
func (s *ActivityService) ListActivities(ctx context.Context) map[string]model.Activity {
	return s.registry.List()
}

// GetActivity returns a single activity.
func (s *ActivityService) GetActivity(ctx context.Context, name string) (model.Activity, error) {
	return s.registry.Get(name)
}

// ListRegistrations returns the registrations for an activity in enrollment order.
func (s *ActivityService) ListRegistrations(ctx context.Context, name string) ([]model.Registration, error) {
	return s.registry.Registrations(name)
}

// Signup enrolls email in the named activity.
func (s *ActivityService) Signup(ctx context.Context, name, email string) (*model.Registration, error) {
	email, err := s.prepare(ctx, opSignup, email)
	if err != nil {
		return nil, err
	}

	reg, err := s.registry.Enroll(name, email)
	if err != nil {
		s.recordFailure(opSignup, name, email, err)
		if isDomainError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("signup: %w", err)
	}

	metrics.Signups.WithLabelValues(name).Inc()
	s.log.Info("participant signed up",
		zap.String("activity", name),
		zap.String("email", email),
		zap.String("registration_id", reg.ID),
	)
	return reg, nil
}

// Unregister removes email from the named activity.
func (s *ActivityService) Unregister(ctx context.Context, name, email string) error {
	email, err := s.prepare(ctx, opUnregister, email)
	if err != nil {
		return err
	}

	if err := s.registry.Withdraw(name, email); err != nil {
		s.recordFailure(opUnregister, name, email, err)
		if isDomainError(err) {
			return err
		}
		return fmt.Errorf("unregister: %w", err)
	}

	metrics.Unregistrations.WithLabelValues(name).Inc()
	s.log.Info("participant unregistered",
		zap.String("activity", name),
		zap.String("email", email),
	)
	return nil
}

// prepare rejects cancelled requests and blank emails before the registry
// is touched.
func (s *ActivityService) prepare(ctx context.Context, op, email string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	email = strings.TrimSpace(email)
	if email == "" {
		metrics.OperationFailures.WithLabelValues(op, "email_required").Inc()
		return "", ErrEmailRequired
	}
	return email, nil
}

func (s *ActivityService) recordFailure(op, name, email string, err error) {
	metrics.OperationFailures.WithLabelValues(op, failureReason(err)).Inc()
	s.log.Debug("roster operation rejected",
		zap.String("operation", op),
		zap.String("activity", name),
		zap.String("email", email),
		zap.Error(err),
	)
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return "not_found"
	case errors.Is(err, repository.ErrAlreadyEnrolled):
		return "already_enrolled"
	case errors.Is(err, repository.ErrNotEnrolled):
		return "not_enrolled"
	case errors.Is(err, repository.ErrActivityFull):
		return "activity_full"
	default:
		return "internal"
	}
}

func isDomainError(err error) bool {
	return errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrInvalidTransition)
}
