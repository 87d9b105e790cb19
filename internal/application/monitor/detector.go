// Package monitor holds the detection rules of the monitoring engine.
// Detectors are read-only: they query the data store for one partner and
// return candidate anomalies. Deduplication and persistence belong to the
// alert service, never to a detector.
package monitor

import (
	"context"
	"time"

	"github.com/training-mne-api/internal/domain"
)

// Detector evaluates one anomaly class for one partner at one point in time.
type Detector interface {
	Name() string
	Detect(ctx context.Context, partnerID string, now time.Time) ([]domain.AlertCandidate, error)
}

// Narrow read interfaces over the data store. Every query is partner- or
// entity-scoped; detectors never see another tenant's rows.

type cohortStore interface {
	ListActiveByPartner(ctx context.Context, partnerID string) ([]domain.Cohort, error)
}

type enrollmentStore interface {
	ListActiveByCohort(ctx context.Context, cohortID string) ([]domain.Enrollment, error)
	ListByPartner(ctx context.Context, partnerID string) ([]domain.Enrollment, error)
	ListActiveByPartner(ctx context.Context, partnerID string) ([]domain.Enrollment, error)
}

type attendanceStore interface {
	Latest(ctx context.Context, enrollmentID string) (*domain.AttendanceRecord, error)
	HasSince(ctx context.Context, enrollmentID string, cutoff time.Time) (bool, error)
	HasOnDate(ctx context.Context, enrollmentID string, day time.Time) (bool, error)
}

type scoreStore interface {
	ListByPartner(ctx context.Context, partnerID string) ([]domain.Score, error)
}

type surveyStore interface {
	ListByPartnerStatus(ctx context.Context, partnerID string, status domain.SurveyStatus) ([]domain.Survey, error)
	ListResponses(ctx context.Context, surveyID string) ([]domain.SurveyResponse, error)
}
