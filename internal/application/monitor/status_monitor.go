package monitor

import (
	"context"
	"fmt"
	"time"

	"github.com/training-mne-api/internal/domain"
)

// SurveyStatusMonitor surfaces operational events rather than problems:
// a survey created within the look-back window that is still a draft gets
// an INFO candidate nudging the monitor to publish it.
type SurveyStatusMonitor struct {
	surveys surveyStore
	window  time.Duration
}

func NewSurveyStatusMonitor(surveys surveyStore, window time.Duration) *SurveyStatusMonitor {
	return &SurveyStatusMonitor{surveys: surveys, window: window}
}

func (d *SurveyStatusMonitor) Name() string { return "survey-status" }

func (d *SurveyStatusMonitor) Detect(ctx context.Context, partnerID string, now time.Time) ([]domain.AlertCandidate, error) {
	drafts, err := d.surveys.ListByPartnerStatus(ctx, partnerID, domain.SurveyStatusDraft)
	if err != nil {
		return nil, fmt.Errorf("list draft surveys: %w", err)
	}

	cutoff := now.Add(-d.window)
	var candidates []domain.AlertCandidate
	for _, s := range drafts {
		if s.CreatedAt.Before(cutoff) {
			continue
		}
		candidates = append(candidates, domain.AlertCandidate{
			Type:              domain.AlertTypeStatusMonitor,
			Severity:          domain.SeverityInfo,
			Title:             fmt.Sprintf("New survey %q is still a draft", s.Title),
			Description:       fmt.Sprintf("Survey %q was created recently and has not been published yet.", s.Title),
			IssueCount:        1,
			RelatedEntityType: domain.EntitySurvey,
			RelatedEntityID:   s.SurveyID,
		})
	}
	return candidates, nil
}
