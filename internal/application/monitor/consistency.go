package monitor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/training-mne-api/internal/domain"
)

// ConsistencyScanner runs three independent referential checks over a
// partner's data: attendance coverage, score validity, and enrollment/
// cohort state agreement. It emits a flat candidate list; overlapping
// findings are deduplicated downstream by the alert service.
type ConsistencyScanner struct {
	cohorts     cohortStore
	enrollments enrollmentStore
	attendance  attendanceStore
	scores      scoreStore
	staleAfter  time.Duration
}

func NewConsistencyScanner(cohorts cohortStore, enrollments enrollmentStore, attendance attendanceStore, scores scoreStore, staleAfter time.Duration) *ConsistencyScanner {
	return &ConsistencyScanner{
		cohorts:     cohorts,
		enrollments: enrollments,
		attendance:  attendance,
		scores:      scores,
		staleAfter:  staleAfter,
	}
}

func (d *ConsistencyScanner) Name() string { return "data-consistency" }

func (d *ConsistencyScanner) Detect(ctx context.Context, partnerID string, now time.Time) ([]domain.AlertCandidate, error) {
	var candidates []domain.AlertCandidate

	attendanceFindings, err := d.checkAttendanceCoverage(ctx, partnerID, now)
	if err != nil {
		return nil, err
	}
	candidates = append(candidates, attendanceFindings...)

	scoreFindings, err := d.checkScores(ctx, partnerID)
	if err != nil {
		return nil, err
	}
	candidates = append(candidates, scoreFindings...)

	stateFindings, err := d.checkEnrollmentState(ctx, partnerID)
	if err != nil {
		return nil, err
	}
	candidates = append(candidates, stateFindings...)

	return candidates, nil
}

// checkAttendanceCoverage flags active enrollments with no attendance at
// all (critical) or whose latest record is older than staleAfter (warning).
func (d *ConsistencyScanner) checkAttendanceCoverage(ctx context.Context, partnerID string, now time.Time) ([]domain.AlertCandidate, error) {
	enrollments, err := d.enrollments.ListActiveByPartner(ctx, partnerID)
	if err != nil {
		return nil, fmt.Errorf("list active enrollments: %w", err)
	}

	var candidates []domain.AlertCandidate
	for _, e := range enrollments {
		latest, err := d.attendance.Latest(ctx, e.EnrollmentID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				candidates = append(candidates, domain.AlertCandidate{
					Type:              domain.AlertTypeMissingAttendance,
					Severity:          domain.SeverityCritical,
					Title:             "Enrollment has no attendance records",
					Description:       fmt.Sprintf("Active enrollment %s has never had attendance recorded.", e.EnrollmentID),
					IssueCount:        1,
					RelatedEntityType: domain.EntityEnrollment,
					RelatedEntityID:   e.EnrollmentID,
				})
				continue
			}
			return nil, fmt.Errorf("latest attendance for enrollment %s: %w", e.EnrollmentID, err)
		}
		if latest.SessionDate.Before(now.Add(-d.staleAfter)) {
			days := int(d.staleAfter.Hours() / 24)
			candidates = append(candidates, domain.AlertCandidate{
				Type:              domain.AlertTypeMissingAttendance,
				Severity:          domain.SeverityWarning,
				Title:             "Enrollment attendance has gone stale",
				Description:       fmt.Sprintf("Active enrollment %s has no attendance recorded in over %d days.", e.EnrollmentID, days),
				IssueCount:        1,
				RelatedEntityType: domain.EntityEnrollment,
				RelatedEntityID:   e.EnrollmentID,
			})
		}
	}
	return candidates, nil
}

// checkScores flags scores exceeding their declared maximum (critical,
// data corruption) and scores with no attendance on the assessment date
// (warning, referential inconsistency).
func (d *ConsistencyScanner) checkScores(ctx context.Context, partnerID string) ([]domain.AlertCandidate, error) {
	scores, err := d.scores.ListByPartner(ctx, partnerID)
	if err != nil {
		return nil, fmt.Errorf("list scores: %w", err)
	}

	var candidates []domain.AlertCandidate
	for _, s := range scores {
		if s.Value > s.MaxScore {
			candidates = append(candidates, domain.AlertCandidate{
				Type:     domain.AlertTypeScoreMismatch,
				Severity: domain.SeverityCritical,
				Title:    "Score exceeds declared maximum",
				Description: fmt.Sprintf("Score %s records %.1f against a maximum of %.1f for module %q.",
					s.ScoreID, s.Value, s.MaxScore, s.Module),
				IssueCount:        1,
				RelatedEntityType: domain.EntityScore,
				RelatedEntityID:   s.ScoreID,
			})
			continue
		}
		attended, err := d.attendance.HasOnDate(ctx, s.EnrollmentID, s.AssessmentDate)
		if err != nil {
			return nil, fmt.Errorf("attendance on assessment date for score %s: %w", s.ScoreID, err)
		}
		if !attended {
			candidates = append(candidates, domain.AlertCandidate{
				Type:     domain.AlertTypeScoreMismatch,
				Severity: domain.SeverityWarning,
				Title:    "Score recorded without matching attendance",
				Description: fmt.Sprintf("Score %s is dated %s but the enrollment has no attendance record that day.",
					s.ScoreID, s.AssessmentDate.Format("2006-01-02")),
				IssueCount:        1,
				RelatedEntityType: domain.EntityScore,
				RelatedEntityID:   s.ScoreID,
			})
		}
	}
	return candidates, nil
}

// checkEnrollmentState flags enrollments marked active inside a non-active
// cohort (critical, stale state) and participants left with only inactive
// enrollments while the partner still runs active cohorts (warning, a lost
// enrollment is likely).
func (d *ConsistencyScanner) checkEnrollmentState(ctx context.Context, partnerID string) ([]domain.AlertCandidate, error) {
	activeCohorts, err := d.cohorts.ListActiveByPartner(ctx, partnerID)
	if err != nil {
		return nil, fmt.Errorf("list active cohorts: %w", err)
	}
	activeCohortIDs := make(map[string]bool, len(activeCohorts))
	for _, c := range activeCohorts {
		activeCohortIDs[c.CohortID] = true
	}

	enrollments, err := d.enrollments.ListByPartner(ctx, partnerID)
	if err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}

	var candidates []domain.AlertCandidate
	activeByParticipant := make(map[string]int)
	totalByParticipant := make(map[string]int)
	for _, e := range enrollments {
		totalByParticipant[e.ParticipantID]++
		if e.Status == domain.EnrollmentStatusActive {
			activeByParticipant[e.ParticipantID]++
			if !activeCohortIDs[e.CohortID] {
				candidates = append(candidates, domain.AlertCandidate{
					Type:     domain.AlertTypeEnrollmentGap,
					Severity: domain.SeverityCritical,
					Title:    "Active enrollment in a non-active cohort",
					Description: fmt.Sprintf("Enrollment %s is marked active but its cohort %s is not active.",
						e.EnrollmentID, e.CohortID),
					IssueCount:        1,
					RelatedEntityType: domain.EntityEnrollment,
					RelatedEntityID:   e.EnrollmentID,
				})
			}
		}
	}

	if len(activeCohortIDs) > 0 {
		for participantID, total := range totalByParticipant {
			if total > 0 && activeByParticipant[participantID] == 0 {
				candidates = append(candidates, domain.AlertCandidate{
					Type:     domain.AlertTypeEnrollmentGap,
					Severity: domain.SeverityWarning,
					Title:    "Participant has no active enrollment",
					Description: fmt.Sprintf("Participant %s has only inactive enrollments while %d active cohorts are running.",
						participantID, len(activeCohortIDs)),
					IssueCount:        total,
					RelatedEntityType: domain.EntityParticipant,
					RelatedEntityID:   participantID,
				})
			}
		}
	}
	return candidates, nil
}
