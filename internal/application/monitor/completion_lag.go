package monitor

import (
	"context"
	"fmt"
	"time"

	"github.com/training-mne-api/internal/domain"
)

// CompletionLagDetector compares each published survey's completion rate
// against the partner-wide average and flags surveys lagging behind it by
// more than the configured fraction of the average.
type CompletionLagDetector struct {
	surveys          surveyStore
	lagFraction      float64
	criticalFraction float64
}

func NewCompletionLagDetector(surveys surveyStore, lagFraction, criticalFraction float64) *CompletionLagDetector {
	return &CompletionLagDetector{
		surveys:          surveys,
		lagFraction:      lagFraction,
		criticalFraction: criticalFraction,
	}
}

func (d *CompletionLagDetector) Name() string { return "completion-lag" }

func (d *CompletionLagDetector) Detect(ctx context.Context, partnerID string, now time.Time) ([]domain.AlertCandidate, error) {
	surveys, err := d.surveys.ListByPartnerStatus(ctx, partnerID, domain.SurveyStatusPublished)
	if err != nil {
		return nil, fmt.Errorf("list published surveys: %w", err)
	}
	if len(surveys) == 0 {
		return nil, nil
	}

	type surveyStats struct {
		survey      domain.Survey
		total       int
		submitted   int
		unsubmitted int
	}
	stats := make([]surveyStats, 0, len(surveys))
	totalResponses := 0
	totalSubmitted := 0
	for _, s := range surveys {
		responses, err := d.surveys.ListResponses(ctx, s.SurveyID)
		if err != nil {
			return nil, fmt.Errorf("list responses for survey %s: %w", s.SurveyID, err)
		}
		st := surveyStats{survey: s, total: len(responses)}
		for _, r := range responses {
			if r.Submitted {
				st.submitted++
			}
		}
		st.unsubmitted = st.total - st.submitted
		stats = append(stats, st)
		totalResponses += st.total
		totalSubmitted += st.submitted
	}

	if totalResponses == 0 {
		return nil, nil
	}
	programAverage := float64(totalSubmitted) / float64(totalResponses)
	if programAverage == 0 {
		// No submissions anywhere: the comparison is meaningless.
		return nil, nil
	}

	var candidates []domain.AlertCandidate
	for _, st := range stats {
		if st.total == 0 {
			continue
		}
		rate := float64(st.submitted) / float64(st.total)
		lag := programAverage - rate
		if lag <= programAverage*d.lagFraction {
			continue
		}
		severity := domain.SeverityWarning
		if lag > programAverage*d.criticalFraction {
			severity = domain.SeverityCritical
		}
		candidates = append(candidates, domain.AlertCandidate{
			Type:     domain.AlertTypeCompletionCheck,
			Severity: severity,
			Title:    fmt.Sprintf("Survey %q completion is lagging", st.survey.Title),
			Description: fmt.Sprintf(
				"Survey %q is at %.0f%% completion against a program average of %.0f%%; %d responses are still unsubmitted.",
				st.survey.Title, rate*100, programAverage*100, st.unsubmitted),
			IssueCount:        st.unsubmitted,
			RelatedEntityType: domain.EntitySurvey,
			RelatedEntityID:   st.survey.SurveyID,
		})
	}
	return candidates, nil
}
