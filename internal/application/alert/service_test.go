package alert

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/training-mne-api/internal/domain"
)

// --- mocks ---

type mockAlertStore struct{ mock.Mock }

func (m *mockAlertStore) Put(ctx context.Context, a *domain.Alert) error {
	return m.Called(ctx, a).Error(0)
}
func (m *mockAlertStore) Get(ctx context.Context, alertID string) (*domain.Alert, error) {
	args := m.Called(ctx, alertID)
	if a, _ := args.Get(0).(*domain.Alert); a != nil {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockAlertStore) ListByPartner(ctx context.Context, partnerID string, resolved *bool) ([]domain.Alert, error) {
	args := m.Called(ctx, partnerID, resolved)
	return args.Get(0).([]domain.Alert), args.Error(1)
}
func (m *mockAlertStore) MarkResolved(ctx context.Context, alertID, actorID string, at time.Time) error {
	return m.Called(ctx, alertID, actorID, at).Error(0)
}

type mockKeyStore struct{ mock.Mock }

func (m *mockKeyStore) Acquire(ctx context.Context, partnerID, dedupKey, alertID string, at time.Time) error {
	return m.Called(ctx, partnerID, dedupKey, alertID, at).Error(0)
}
func (m *mockKeyStore) Release(ctx context.Context, partnerID, dedupKey string) error {
	return m.Called(ctx, partnerID, dedupKey).Error(0)
}

type mockAuditStore struct{ mock.Mock }

func (m *mockAuditStore) Append(ctx context.Context, e *domain.AuditEntry) error {
	return m.Called(ctx, e).Error(0)
}

type mockEmitter struct{ mock.Mock }

func (m *mockEmitter) EmitForAlert(ctx context.Context, a *domain.Alert) {
	m.Called(ctx, a)
}

// --- helpers ---

func newService(as *mockAlertStore, ks *mockKeyStore, aud *mockAuditStore, em *mockEmitter) Service {
	deps := ServiceDeps{AlertRepo: as, OpenKeyRepo: ks}
	if aud != nil {
		deps.AuditRepo = aud
	}
	if em != nil {
		deps.Emitter = em
	}
	return NewService(deps)
}

func candidate() domain.AlertCandidate {
	return domain.AlertCandidate{
		Type:              domain.AlertTypeAttendanceCheck,
		Severity:          domain.SeverityCritical,
		Title:             "No recent attendance",
		Description:       "Cohort has no attendance in the last 48 hours",
		IssueCount:        3,
		RelatedEntityType: domain.EntityCohort,
		RelatedEntityID:   "cohort-1",
	}
}

// --- Raise ---

func TestRaise_PersistsAndEmits(t *testing.T) {
	as := &mockAlertStore{}
	ks := &mockKeyStore{}
	em := &mockEmitter{}
	ks.On("Acquire", mock.Anything, "p1", "ATTENDANCE_CHECK#cohort-1", mock.Anything, mock.Anything).Return(nil)
	as.On("Put", mock.Anything, mock.Anything).Return(nil)
	em.On("EmitForAlert", mock.Anything, mock.Anything).Return()

	svc := newService(as, ks, nil, em)
	a, err := svc.Raise(context.Background(), "p1", candidate())

	require.NoError(t, err)
	require.NotNil(t, a)
	assert.Equal(t, "p1", a.PartnerID)
	assert.Equal(t, domain.AlertTypeAttendanceCheck, a.Type)
	assert.Equal(t, 3, a.IssueCount)
	assert.False(t, a.Resolved)
	assert.NotEmpty(t, a.AlertID)
	assert.Equal(t, domain.AlertTypeAttendanceCheck.CallToAction(), a.CallToAction)
	as.AssertExpectations(t)
	ks.AssertExpectations(t)
	em.AssertExpectations(t)
}

func TestRaise_DuplicateIsNoOp(t *testing.T) {
	as := &mockAlertStore{}
	ks := &mockKeyStore{}
	ks.On("Acquire", mock.Anything, "p1", "ATTENDANCE_CHECK#cohort-1", mock.Anything, mock.Anything).
		Return(domain.ErrConflict)

	svc := newService(as, ks, nil, nil)
	a, err := svc.Raise(context.Background(), "p1", candidate())

	require.NoError(t, err)
	assert.Nil(t, a)
	as.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
}

func TestRaise_PutFailureReleasesKey(t *testing.T) {
	as := &mockAlertStore{}
	ks := &mockKeyStore{}
	ks.On("Acquire", mock.Anything, "p1", "ATTENDANCE_CHECK#cohort-1", mock.Anything, mock.Anything).Return(nil)
	as.On("Put", mock.Anything, mock.Anything).Return(errors.New("throttled"))
	ks.On("Release", mock.Anything, "p1", "ATTENDANCE_CHECK#cohort-1").Return(nil)

	svc := newService(as, ks, nil, nil)
	_, err := svc.Raise(context.Background(), "p1", candidate())

	require.Error(t, err)
	ks.AssertExpectations(t)
}

func TestRaise_EmitterAbsent_StillSucceeds(t *testing.T) {
	as := &mockAlertStore{}
	ks := &mockKeyStore{}
	ks.On("Acquire", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	as.On("Put", mock.Anything, mock.Anything).Return(nil)

	svc := newService(as, ks, nil, nil)
	a, err := svc.Raise(context.Background(), "p1", candidate())

	require.NoError(t, err)
	assert.NotNil(t, a)
}

func TestRaise_AuditFailureDoesNotPropagate(t *testing.T) {
	as := &mockAlertStore{}
	ks := &mockKeyStore{}
	aud := &mockAuditStore{}
	ks.On("Acquire", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	as.On("Put", mock.Anything, mock.Anything).Return(nil)
	aud.On("Append", mock.Anything, mock.Anything).Return(errors.New("audit store down"))

	svc := newService(as, ks, aud, nil)
	a, err := svc.Raise(context.Background(), "p1", candidate())

	require.NoError(t, err)
	assert.NotNil(t, a)
	aud.AssertExpectations(t)
}

// --- List ---

func TestList_TriageOrdering(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	// Store order is creation-time descending; severity must dominate.
	stored := []domain.Alert{
		{AlertID: "a4", Severity: domain.SeverityInfo, CreatedAt: base.Add(3 * time.Hour)},
		{AlertID: "a3", Severity: domain.SeverityWarning, CreatedAt: base.Add(2 * time.Hour)},
		{AlertID: "a2", Severity: domain.SeverityCritical, CreatedAt: base.Add(time.Hour)},
		{AlertID: "a1", Severity: domain.SeverityCritical, CreatedAt: base},
	}
	as := &mockAlertStore{}
	ks := &mockKeyStore{}
	as.On("ListByPartner", mock.Anything, "p1", (*bool)(nil)).Return(stored, nil)

	svc := newService(as, ks, nil, nil)
	got, err := svc.List(context.Background(), "p1", ListFilter{})

	require.NoError(t, err)
	ids := make([]string, len(got))
	for i, a := range got {
		ids[i] = a.AlertID
	}
	assert.Equal(t, []string{"a2", "a1", "a3", "a4"}, ids)
}

func TestList_PassesResolvedFilter(t *testing.T) {
	resolved := true
	as := &mockAlertStore{}
	ks := &mockKeyStore{}
	as.On("ListByPartner", mock.Anything, "p1", &resolved).Return([]domain.Alert{}, nil)

	svc := newService(as, ks, nil, nil)
	_, err := svc.List(context.Background(), "p1", ListFilter{Resolved: &resolved})

	require.NoError(t, err)
	as.AssertExpectations(t)
}

// --- Resolve ---

func TestResolve_Success(t *testing.T) {
	as := &mockAlertStore{}
	ks := &mockKeyStore{}
	stored := &domain.Alert{
		AlertID:         "a1",
		PartnerID:       "p1",
		Type:            domain.AlertTypeScoreMismatch,
		RelatedEntityID: "score-9",
	}
	as.On("Get", mock.Anything, "a1").Return(stored, nil)
	as.On("MarkResolved", mock.Anything, "a1", "u1", mock.Anything).Return(nil)
	ks.On("Release", mock.Anything, "p1", "SCORE_MISMATCH#score-9").Return(nil)

	svc := newService(as, ks, nil, nil)
	a, err := svc.Resolve(context.Background(), "p1", "a1", "u1")

	require.NoError(t, err)
	assert.True(t, a.Resolved)
	assert.Equal(t, "u1", a.ResolvedBy)
	require.NotNil(t, a.ResolvedAt)
	ks.AssertExpectations(t)
}

func TestResolve_NotFound(t *testing.T) {
	as := &mockAlertStore{}
	ks := &mockKeyStore{}
	as.On("Get", mock.Anything, "missing").Return(nil, domain.ErrNotFound)

	svc := newService(as, ks, nil, nil)
	_, err := svc.Resolve(context.Background(), "p1", "missing", "u1")

	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestResolve_ForeignTenant_LooksLikeNotFound(t *testing.T) {
	as := &mockAlertStore{}
	ks := &mockKeyStore{}
	as.On("Get", mock.Anything, "a1").Return(&domain.Alert{AlertID: "a1", PartnerID: "p2"}, nil)

	svc := newService(as, ks, nil, nil)
	_, err := svc.Resolve(context.Background(), "p1", "a1", "u1")

	assert.True(t, errors.Is(err, domain.ErrNotFound))
	as.AssertNotCalled(t, "MarkResolved", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestResolve_AlreadyResolved_ConflictKeepsMetadata(t *testing.T) {
	firstAt := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	as := &mockAlertStore{}
	ks := &mockKeyStore{}
	as.On("Get", mock.Anything, "a1").Return(&domain.Alert{
		AlertID:    "a1",
		PartnerID:  "p1",
		Resolved:   true,
		ResolvedBy: "u-first",
		ResolvedAt: &firstAt,
	}, nil)

	svc := newService(as, ks, nil, nil)
	a, err := svc.Resolve(context.Background(), "p1", "a1", "u-second")

	assert.True(t, errors.Is(err, domain.ErrConflict))
	require.NotNil(t, a)
	assert.Equal(t, "u-first", a.ResolvedBy)
	assert.Equal(t, firstAt, *a.ResolvedAt)
	as.AssertNotCalled(t, "MarkResolved", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	ks.AssertNotCalled(t, "Release", mock.Anything, mock.Anything, mock.Anything)
}
