package monitor

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

func activeEnrollments(cohortID string, ids ...string) []domain.Enrollment {
	out := make([]domain.Enrollment, len(ids))
	for i, id := range ids {
		out[i] = domain.Enrollment{EnrollmentID: id, CohortID: cohortID, Status: domain.EnrollmentStatusActive}
	}
	return out
}

func TestAttendanceGap_SilentCohortRaisesCritical(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	cs := &mockCohortStore{}
	es := &mockEnrollmentStore{}
	as := &mockAttendanceStore{}

	cs.On("ListActiveByPartner", mock.Anything, "p1").Return([]domain.Cohort{
		{CohortID: "c1", PartnerID: "p1", Name: "Cohort One", Status: domain.CohortStatusActive},
	}, nil)
	es.On("ListActiveByCohort", mock.Anything, "c1").Return(activeEnrollments("c1", "e1", "e2", "e3"), nil)
	as.On("HasSince", mock.Anything, "e1", now.Add(-48*time.Hour)).Return(false, nil)
	as.On("HasSince", mock.Anything, "e2", now.Add(-48*time.Hour)).Return(false, nil)
	as.On("HasSince", mock.Anything, "e3", now.Add(-48*time.Hour)).Return(false, nil)

	d := NewAttendanceGapDetector(cs, es, as, 48*time.Hour)
	got, err := d.Detect(context.Background(), "p1", now)

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, domain.AlertTypeAttendanceCheck, got[0].Type)
	assert.Equal(t, domain.SeverityCritical, got[0].Severity)
	assert.Equal(t, 3, got[0].IssueCount)
	assert.Equal(t, domain.EntityCohort, got[0].RelatedEntityType)
	assert.Equal(t, "c1", got[0].RelatedEntityID)
}

func TestAttendanceGap_AnyRecentAttendanceSuppresses(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	cs := &mockCohortStore{}
	es := &mockEnrollmentStore{}
	as := &mockAttendanceStore{}

	cs.On("ListActiveByPartner", mock.Anything, "p1").Return([]domain.Cohort{
		{CohortID: "c1", Name: "Cohort One", Status: domain.CohortStatusActive},
	}, nil)
	es.On("ListActiveByCohort", mock.Anything, "c1").Return(activeEnrollments("c1", "e1", "e2"), nil)
	as.On("HasSince", mock.Anything, "e1", mock.Anything).Return(false, nil)
	as.On("HasSince", mock.Anything, "e2", mock.Anything).Return(true, nil)

	d := NewAttendanceGapDetector(cs, es, as, 48*time.Hour)
	got, err := d.Detect(context.Background(), "p1", now)

	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestAttendanceGap_EmptyCohortSkipped(t *testing.T) {
	cs := &mockCohortStore{}
	es := &mockEnrollmentStore{}
	as := &mockAttendanceStore{}

	cs.On("ListActiveByPartner", mock.Anything, "p1").Return([]domain.Cohort{
		{CohortID: "c1", Name: "Empty", Status: domain.CohortStatusActive},
	}, nil)
	es.On("ListActiveByCohort", mock.Anything, "c1").Return([]domain.Enrollment{}, nil)

	d := NewAttendanceGapDetector(cs, es, as, 48*time.Hour)
	got, err := d.Detect(context.Background(), "p1", time.Now())

	require.NoError(t, err)
	assert.Empty(t, got)
	as.AssertNotCalled(t, "HasSince", mock.Anything, mock.Anything, mock.Anything)
}

func TestAttendanceGap_StoreErrorPropagates(t *testing.T) {
	cs := &mockCohortStore{}
	es := &mockEnrollmentStore{}
	as := &mockAttendanceStore{}

	cs.On("ListActiveByPartner", mock.Anything, "p1").Return([]domain.Cohort(nil), errors.New("throttled"))

	d := NewAttendanceGapDetector(cs, es, as, 48*time.Hour)
	_, err := d.Detect(context.Background(), "p1", time.Now())

	assert.Error(t, err)
}
