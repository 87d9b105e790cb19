package monitor

import (
	"context"
	"fmt"
	"time"

	"github.com/training-mne-api/internal/domain"
)

// AttendanceGapDetector flags active cohorts where no enrollment has an
// attendance record within the configured window. One candidate per cohort,
// not per participant, so a silent cohort produces a single alert instead
// of flooding the monitor.
type AttendanceGapDetector struct {
	cohorts     cohortStore
	enrollments enrollmentStore
	attendance  attendanceStore
	window      time.Duration
}

func NewAttendanceGapDetector(cohorts cohortStore, enrollments enrollmentStore, attendance attendanceStore, window time.Duration) *AttendanceGapDetector {
	return &AttendanceGapDetector{
		cohorts:     cohorts,
		enrollments: enrollments,
		attendance:  attendance,
		window:      window,
	}
}

func (d *AttendanceGapDetector) Name() string { return "attendance-gap" }

func (d *AttendanceGapDetector) Detect(ctx context.Context, partnerID string, now time.Time) ([]domain.AlertCandidate, error) {
	cohorts, err := d.cohorts.ListActiveByPartner(ctx, partnerID)
	if err != nil {
		return nil, fmt.Errorf("list active cohorts: %w", err)
	}

	cutoff := now.Add(-d.window)
	var candidates []domain.AlertCandidate
	for _, cohort := range cohorts {
		enrollments, err := d.enrollments.ListActiveByCohort(ctx, cohort.CohortID)
		if err != nil {
			return nil, fmt.Errorf("list enrollments for cohort %s: %w", cohort.CohortID, err)
		}
		if len(enrollments) == 0 {
			continue
		}

		recent := false
		for _, e := range enrollments {
			ok, err := d.attendance.HasSince(ctx, e.EnrollmentID, cutoff)
			if err != nil {
				return nil, fmt.Errorf("check attendance for enrollment %s: %w", e.EnrollmentID, err)
			}
			if ok {
				recent = true
				break
			}
		}
		if recent {
			continue
		}

		hours := int(d.window.Hours())
		candidates = append(candidates, domain.AlertCandidate{
			Type:     domain.AlertTypeAttendanceCheck,
			Severity: domain.SeverityCritical,
			Title:    fmt.Sprintf("No attendance recorded for cohort %q", cohort.Name),
			Description: fmt.Sprintf(
				"None of the %d active enrollments in cohort %q have an attendance record in the last %d hours.",
				len(enrollments), cohort.Name, hours),
			IssueCount:        len(enrollments),
			RelatedEntityType: domain.EntityCohort,
			RelatedEntityID:   cohort.CohortID,
		})
	}
	return candidates, nil
}
