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

func TestSurveyStatusMonitor_RecentDraftFlagged(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	ss := &mockSurveyStore{}
	ss.On("ListByPartnerStatus", mock.Anything, "p1", domain.SurveyStatusDraft).Return([]domain.Survey{
		{SurveyID: "s1", Title: "Midline", Status: domain.SurveyStatusDraft, CreatedAt: now.Add(-30 * time.Minute)},
		{SurveyID: "s2", Title: "Baseline", Status: domain.SurveyStatusDraft, CreatedAt: now.Add(-3 * time.Hour)},
	}, nil)

	d := NewSurveyStatusMonitor(ss, time.Hour)
	got, err := d.Detect(context.Background(), "p1", now)

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, domain.AlertTypeStatusMonitor, got[0].Type)
	assert.Equal(t, domain.SeverityInfo, got[0].Severity)
	assert.Equal(t, "s1", got[0].RelatedEntityID)
	assert.Equal(t, domain.EntitySurvey, got[0].RelatedEntityType)
}

func TestSurveyStatusMonitor_NoDraftsNoCandidates(t *testing.T) {
	ss := &mockSurveyStore{}
	ss.On("ListByPartnerStatus", mock.Anything, "p1", domain.SurveyStatusDraft).Return([]domain.Survey{}, nil)

	d := NewSurveyStatusMonitor(ss, time.Hour)
	got, err := d.Detect(context.Background(), "p1", time.Now())

	require.NoError(t, err)
	assert.Empty(t, got)
}
