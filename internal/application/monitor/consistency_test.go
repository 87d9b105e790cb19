package monitor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/training-mne-api/internal/domain"
)

// findCandidate returns the first candidate matching type, severity and
// related entity id. Candidate order within a scan is not part of the
// contract (participant findings come out of a map).
func findCandidate(cands []domain.AlertCandidate, typ domain.AlertType, sev domain.Severity, relatedID string) *domain.AlertCandidate {
	for i := range cands {
		c := &cands[i]
		if c.Type == typ && c.Severity == sev && c.RelatedEntityID == relatedID {
			return c
		}
	}
	return nil
}

func quietScanner(t *testing.T) (*mockCohortStore, *mockEnrollmentStore, *mockAttendanceStore, *mockScoreStore) {
	t.Helper()
	cs := &mockCohortStore{}
	es := &mockEnrollmentStore{}
	as := &mockAttendanceStore{}
	scs := &mockScoreStore{}
	cs.On("ListActiveByPartner", mock.Anything, "p1").Return([]domain.Cohort{}, nil)
	es.On("ListActiveByPartner", mock.Anything, "p1").Return([]domain.Enrollment{}, nil)
	es.On("ListByPartner", mock.Anything, "p1").Return([]domain.Enrollment{}, nil)
	scs.On("ListByPartner", mock.Anything, "p1").Return([]domain.Score{}, nil)
	return cs, es, as, scs
}

func TestConsistency_ScoreAboveMaximumIsCritical(t *testing.T) {
	cs, es, as, _ := quietScanner(t)
	scs := &mockScoreStore{}
	scs.On("ListByPartner", mock.Anything, "p1").Return([]domain.Score{
		{ScoreID: "sc1", EnrollmentID: "e1", Module: "numeracy", Value: 105, MaxScore: 100},
	}, nil)

	d := NewConsistencyScanner(cs, es, as, scs, 7*24*time.Hour)
	got, err := d.Detect(context.Background(), "p1", time.Now())

	require.NoError(t, err)
	c := findCandidate(got, domain.AlertTypeScoreMismatch, domain.SeverityCritical, "sc1")
	require.NotNil(t, c)
	assert.Equal(t, domain.EntityScore, c.RelatedEntityType)
	// Corrupt values short-circuit; no attendance lookup for this score.
	as.AssertNotCalled(t, "HasOnDate", mock.Anything, "e1", mock.Anything)
}

func TestConsistency_ScoreWithoutAttendanceIsWarning(t *testing.T) {
	day := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)
	cs, es, as, _ := quietScanner(t)
	scs := &mockScoreStore{}
	scs.On("ListByPartner", mock.Anything, "p1").Return([]domain.Score{
		{ScoreID: "sc1", EnrollmentID: "e1", Module: "literacy", Value: 80, MaxScore: 100, AssessmentDate: day},
	}, nil)
	as.On("HasOnDate", mock.Anything, "e1", day).Return(false, nil)

	d := NewConsistencyScanner(cs, es, as, scs, 7*24*time.Hour)
	got, err := d.Detect(context.Background(), "p1", time.Now())

	require.NoError(t, err)
	c := findCandidate(got, domain.AlertTypeScoreMismatch, domain.SeverityWarning, "sc1")
	require.NotNil(t, c)
}

func TestConsistency_MissingAttendanceHistory(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	cs, _, as, scs := quietScanner(t)
	es := &mockEnrollmentStore{}
	es.On("ListActiveByPartner", mock.Anything, "p1").Return([]domain.Enrollment{
		{EnrollmentID: "e-none", CohortID: "c1", Status: domain.EnrollmentStatusActive},
		{EnrollmentID: "e-stale", CohortID: "c1", Status: domain.EnrollmentStatusActive},
		{EnrollmentID: "e-fresh", CohortID: "c1", Status: domain.EnrollmentStatusActive},
	}, nil)
	es.On("ListByPartner", mock.Anything, "p1").Return([]domain.Enrollment{}, nil)
	as.On("Latest", mock.Anything, "e-none").Return((*domain.AttendanceRecord)(nil), domain.ErrNotFound)
	as.On("Latest", mock.Anything, "e-stale").Return(&domain.AttendanceRecord{
		EnrollmentID: "e-stale", SessionDate: now.Add(-10 * 24 * time.Hour),
	}, nil)
	as.On("Latest", mock.Anything, "e-fresh").Return(&domain.AttendanceRecord{
		EnrollmentID: "e-fresh", SessionDate: now.Add(-24 * time.Hour),
	}, nil)

	d := NewConsistencyScanner(cs, es, as, scs, 7*24*time.Hour)
	got, err := d.Detect(context.Background(), "p1", now)

	require.NoError(t, err)
	require.Len(t, got, 2)
	require.NotNil(t, findCandidate(got, domain.AlertTypeMissingAttendance, domain.SeverityCritical, "e-none"))
	require.NotNil(t, findCandidate(got, domain.AlertTypeMissingAttendance, domain.SeverityWarning, "e-stale"))
}

func TestConsistency_ActiveEnrollmentInInactiveCohort(t *testing.T) {
	cs := &mockCohortStore{}
	cs.On("ListActiveByPartner", mock.Anything, "p1").Return([]domain.Cohort{
		{CohortID: "c-active", Status: domain.CohortStatusActive},
	}, nil)
	es := &mockEnrollmentStore{}
	es.On("ListActiveByPartner", mock.Anything, "p1").Return([]domain.Enrollment{}, nil)
	es.On("ListByPartner", mock.Anything, "p1").Return([]domain.Enrollment{
		{EnrollmentID: "e1", CohortID: "c-archived", ParticipantID: "pp1", Status: domain.EnrollmentStatusActive},
		{EnrollmentID: "e2", CohortID: "c-active", ParticipantID: "pp2", Status: domain.EnrollmentStatusActive},
	}, nil)
	as := &mockAttendanceStore{}
	scs := &mockScoreStore{}
	scs.On("ListByPartner", mock.Anything, "p1").Return([]domain.Score{}, nil)

	d := NewConsistencyScanner(cs, es, as, scs, 7*24*time.Hour)
	got, err := d.Detect(context.Background(), "p1", time.Now())

	require.NoError(t, err)
	require.Len(t, got, 1)
	c := findCandidate(got, domain.AlertTypeEnrollmentGap, domain.SeverityCritical, "e1")
	require.NotNil(t, c)
	assert.Equal(t, domain.EntityEnrollment, c.RelatedEntityType)
}

func TestConsistency_ParticipantLeftWithoutActiveEnrollment(t *testing.T) {
	cs := &mockCohortStore{}
	cs.On("ListActiveByPartner", mock.Anything, "p1").Return([]domain.Cohort{
		{CohortID: "c1", Status: domain.CohortStatusActive},
	}, nil)
	es := &mockEnrollmentStore{}
	es.On("ListActiveByPartner", mock.Anything, "p1").Return([]domain.Enrollment{}, nil)
	es.On("ListByPartner", mock.Anything, "p1").Return([]domain.Enrollment{
		{EnrollmentID: "e1", CohortID: "c1", ParticipantID: "pp1", Status: domain.EnrollmentStatusDropped},
		{EnrollmentID: "e2", CohortID: "c1", ParticipantID: "pp1", Status: domain.EnrollmentStatusCompleted},
		{EnrollmentID: "e3", CohortID: "c1", ParticipantID: "pp2", Status: domain.EnrollmentStatusActive},
	}, nil)
	as := &mockAttendanceStore{}
	scs := &mockScoreStore{}
	scs.On("ListByPartner", mock.Anything, "p1").Return([]domain.Score{}, nil)

	d := NewConsistencyScanner(cs, es, as, scs, 7*24*time.Hour)
	got, err := d.Detect(context.Background(), "p1", time.Now())

	require.NoError(t, err)
	require.Len(t, got, 1)
	c := findCandidate(got, domain.AlertTypeEnrollmentGap, domain.SeverityWarning, "pp1")
	require.NotNil(t, c)
	assert.Equal(t, domain.EntityParticipant, c.RelatedEntityType)
	assert.Equal(t, 2, c.IssueCount)
}
