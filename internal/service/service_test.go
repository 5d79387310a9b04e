package service

import (
	"context"
	"testing"

	"github.com/Shivanand-hulikatti/mergington-activities/internal/catalog"
	"github.com/Shivanand-hulikatti/mergington-activities/internal/metrics"
	"github.com/Shivanand-hulikatti/mergington-activities/internal/repository"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestService(t *testing.T) (*ActivityService, *repository.Registry) {
	t.Helper()
	reg := repository.NewRegistry(catalog.Default())
	return NewActivityService(reg, zaptest.NewLogger(t)), reg
}

func TestSignup_Success(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	before := testutil.ToFloat64(metrics.Signups.WithLabelValues("Chess Club"))

	reg, err := svc.Signup(ctx, "Chess Club", "newstudent@mergington.edu")
	require.NoError(t, err)
	assert.Equal(t, "newstudent@mergington.edu", reg.Email)

	activities := svc.ListActivities(ctx)
	assert.Contains(t, activities["Chess Club"].Participants, "newstudent@mergington.edu")
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.Signups.WithLabelValues("Chess Club")))
}

func TestSignup_TrimsEmail(t *testing.T) {
	svc, _ := newTestService(t)

	reg, err := svc.Signup(context.Background(), "Chess Club", "  padded@mergington.edu ")
	require.NoError(t, err)
	assert.Equal(t, "padded@mergington.edu", reg.Email)

	_, err = svc.Signup(context.Background(), "Chess Club", "padded@mergington.edu")
	assert.ErrorIs(t, err, repository.ErrAlreadyEnrolled)
}

func TestSignup_EmailRequired(t *testing.T) {
	svc, reg := newTestService(t)
	before := testutil.ToFloat64(metrics.OperationFailures.WithLabelValues(opSignup, "email_required"))

	for _, email := range []string{"", "   "} {
		_, err := svc.Signup(context.Background(), "Chess Club", email)
		assert.ErrorIs(t, err, ErrEmailRequired)
	}
	assert.Len(t, reg.List()["Chess Club"].Participants, 2)
	assert.Equal(t, before+2, testutil.ToFloat64(metrics.OperationFailures.WithLabelValues(opSignup, "email_required")))
}

func TestSignup_DomainErrorsPassThrough(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	before := testutil.ToFloat64(metrics.OperationFailures.WithLabelValues(opSignup, "already_enrolled"))

	_, err := svc.Signup(ctx, "Nonexistent Club", "x@mergington.edu")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = svc.Signup(ctx, "Chess Club", "michael@mergington.edu")
	assert.ErrorIs(t, err, repository.ErrAlreadyEnrolled)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.OperationFailures.WithLabelValues(opSignup, "already_enrolled")))
}

func TestSignup_CancelledContext(t *testing.T) {
	svc, reg := newTestService(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Signup(ctx, "Chess Club", "late@mergington.edu")
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotContains(t, reg.List()["Chess Club"].Participants, "late@mergington.edu")
}

func TestUnregister_Success(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	before := testutil.ToFloat64(metrics.Unregistrations.WithLabelValues("Chess Club"))

	require.NoError(t, svc.Unregister(ctx, "Chess Club", "michael@mergington.edu"))

	activities := svc.ListActivities(ctx)
	assert.NotContains(t, activities["Chess Club"].Participants, "michael@mergington.edu")
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.Unregistrations.WithLabelValues("Chess Club")))
}

func TestUnregister_Errors(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	assert.ErrorIs(t, svc.Unregister(ctx, "Nonexistent Club", "x@mergington.edu"), repository.ErrNotFound)
	assert.ErrorIs(t, svc.Unregister(ctx, "Chess Club", "notregistered@mergington.edu"), repository.ErrNotEnrolled)
	assert.ErrorIs(t, svc.Unregister(ctx, "Chess Club", ""), ErrEmailRequired)
}

func TestGetActivityAndRegistrations(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	a, err := svc.GetActivity(ctx, "Programming Class")
	require.NoError(t, err)
	assert.Equal(t, 20, a.MaxParticipants)

	regs, err := svc.ListRegistrations(ctx, "Programming Class")
	require.NoError(t, err)
	require.Len(t, regs, 2)
	assert.Equal(t, "emma@mergington.edu", regs[0].Email)

	_, err = svc.GetActivity(ctx, "Nonexistent Club")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestFailureReason(t *testing.T) {
	cases := map[error]string{
		repository.ErrNotFound:        "not_found",
		repository.ErrAlreadyEnrolled: "already_enrolled",
		repository.ErrNotEnrolled:     "not_enrolled",
		repository.ErrActivityFull:    "activity_full",
		context.Canceled:              "internal",
	}
	for err, want := range cases {
		assert.Equal(t, want, failureReason(err), err.Error())
	}
}
