// Package repository implements the in-memory activity registry.
package repository

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/Shivanand-hulikatti/mergington-activities/internal/model"
	"github.com/google/uuid"
)

// ErrNotFound is returned when an activity name is not in the registry.
var ErrNotFound = errors.New("activity not found")

// ErrInvalidTransition is the base error for roster changes attempted from
// the wrong state.
var ErrInvalidTransition = errors.New("invalid roster transition")

// ErrAlreadyEnrolled is returned when the participant is already on the roster.
var ErrAlreadyEnrolled = fmt.Errorf("%w: participant already signed up", ErrInvalidTransition)

// ErrNotEnrolled is returned when withdrawing a participant who is not on the roster.
var ErrNotEnrolled = fmt.Errorf("%w: participant not registered", ErrInvalidTransition)

// ErrActivityFull is returned when capacity enforcement is on and no spots remain.
var ErrActivityFull = fmt.Errorf("%w: activity is full", ErrInvalidTransition)

type entry struct {
	activity      model.Activity
	registrations []model.Registration
}

// Option configures a Registry.
type Option func(*Registry)

// WithCapacityEnforcement makes Enroll reject participants once an activity
// reaches max_participants. Off by default.
func WithCapacityEnforcement(enforce bool) Option {
	return func(r *Registry) { r.enforceCapacity = enforce }
}

// WithClock overrides the time source used to stamp registrations.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

// Registry owns the mapping from activity name to activity record.
//
// A single RWMutex guards the whole mapping. Enroll and Withdraw hold the
// write lock across their check-then-mutate step so two concurrent signups
// cannot both pass the duplicate check, and neither can lose the other's
// append.
type Registry struct {
	mu              sync.RWMutex
	seed            map[string]model.Activity
	entries         map[string]*entry
	enforceCapacity bool
	now             func() time.Time
}

// NewRegistry builds a registry seeded with a copy of seed.
func NewRegistry(seed map[string]model.Activity, opts ...Option) *Registry {
	r := &Registry{
		seed: cloneCatalog(seed),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.entries = r.buildEntries()
	return r
}

// Reset restores the registry to its seed state.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = r.buildEntries()
}

// List returns a snapshot of every activity keyed by name.
func (r *Registry) List() map[string]model.Activity {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]model.Activity, len(r.entries))
	for name, e := range r.entries {
		out[name] = e.activity.Clone()
	}
	return out
}

// Get returns a snapshot of a single activity or ErrNotFound.
func (r *Registry) Get(name string) (model.Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[name]
	if !ok {
		return model.Activity{}, ErrNotFound
	}
	return e.activity.Clone(), nil
}

// Registrations returns the activity's registrations in enrollment order.
func (r *Registry) Registrations(name string) ([]model.Registration, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[name]
	if !ok {
		return nil, ErrNotFound
	}
	return slices.Clone(e.registrations), nil
}

// Enroll appends participant to the named activity's roster.
//
// Checks run in order: the activity must exist, the participant must not
// already be enrolled, and, with capacity enforcement on, a spot must remain.
// A failed check leaves the registry untouched.
func (r *Registry) Enroll(name, participant string) (*model.Registration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[name]
	if !ok {
		return nil, ErrNotFound
	}
	if e.activity.HasParticipant(participant) {
		return nil, ErrAlreadyEnrolled
	}
	if r.enforceCapacity && e.activity.IsFull() {
		return nil, ErrActivityFull
	}

	reg := r.newRegistration(name, participant)
	e.activity.Participants = append(e.activity.Participants, participant)
	e.registrations = append(e.registrations, reg)
	return &reg, nil
}

// Withdraw removes participant from the named activity's roster, keeping the
// remaining participants in order.
func (r *Registry) Withdraw(name, participant string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[name]
	if !ok {
		return ErrNotFound
	}
	idx := slices.Index(e.activity.Participants, participant)
	if idx < 0 {
		return ErrNotEnrolled
	}

	e.activity.Participants = slices.Delete(e.activity.Participants, idx, idx+1)
	e.registrations = slices.DeleteFunc(e.registrations, func(reg model.Registration) bool {
		return reg.Email == participant
	})
	return nil
}

func (r *Registry) buildEntries() map[string]*entry {
	entries := make(map[string]*entry, len(r.seed))
	for name, a := range r.seed {
		e := &entry{activity: a.Clone()}
		for _, p := range a.Participants {
			e.registrations = append(e.registrations, r.newRegistration(name, p))
		}
		entries[name] = e
	}
	return entries
}

func (r *Registry) newRegistration(name, participant string) model.Registration {
	return model.Registration{
		ID:        uuid.New().String(),
		Activity:  name,
		Email:     participant,
		CreatedAt: r.now().UTC(),
	}
}

func cloneCatalog(in map[string]model.Activity) map[string]model.Activity {
	out := make(map[string]model.Activity, len(in))
	for name, a := range in {
		out[name] = a.Clone()
	}
	return out
}
