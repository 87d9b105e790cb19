package monitor

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/training-mne-api/internal/domain"
)

type mockCohortStore struct{ mock.Mock }

func (m *mockCohortStore) ListActiveByPartner(ctx context.Context, partnerID string) ([]domain.Cohort, error) {
	args := m.Called(ctx, partnerID)
	return args.Get(0).([]domain.Cohort), args.Error(1)
}

type mockEnrollmentStore struct{ mock.Mock }

func (m *mockEnrollmentStore) ListActiveByCohort(ctx context.Context, cohortID string) ([]domain.Enrollment, error) {
	args := m.Called(ctx, cohortID)
	return args.Get(0).([]domain.Enrollment), args.Error(1)
}
func (m *mockEnrollmentStore) ListByPartner(ctx context.Context, partnerID string) ([]domain.Enrollment, error) {
	args := m.Called(ctx, partnerID)
	return args.Get(0).([]domain.Enrollment), args.Error(1)
}
func (m *mockEnrollmentStore) ListActiveByPartner(ctx context.Context, partnerID string) ([]domain.Enrollment, error) {
	args := m.Called(ctx, partnerID)
	return args.Get(0).([]domain.Enrollment), args.Error(1)
}

type mockAttendanceStore struct{ mock.Mock }

func (m *mockAttendanceStore) Latest(ctx context.Context, enrollmentID string) (*domain.AttendanceRecord, error) {
	args := m.Called(ctx, enrollmentID)
	if r, _ := args.Get(0).(*domain.AttendanceRecord); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockAttendanceStore) HasSince(ctx context.Context, enrollmentID string, cutoff time.Time) (bool, error) {
	args := m.Called(ctx, enrollmentID, cutoff)
	return args.Bool(0), args.Error(1)
}
func (m *mockAttendanceStore) HasOnDate(ctx context.Context, enrollmentID string, day time.Time) (bool, error) {
	args := m.Called(ctx, enrollmentID, day)
	return args.Bool(0), args.Error(1)
}

type mockScoreStore struct{ mock.Mock }

func (m *mockScoreStore) ListByPartner(ctx context.Context, partnerID string) ([]domain.Score, error) {
	args := m.Called(ctx, partnerID)
	return args.Get(0).([]domain.Score), args.Error(1)
}

type mockSurveyStore struct{ mock.Mock }

func (m *mockSurveyStore) ListByPartnerStatus(ctx context.Context, partnerID string, status domain.SurveyStatus) ([]domain.Survey, error) {
	args := m.Called(ctx, partnerID, status)
	return args.Get(0).([]domain.Survey), args.Error(1)
}
func (m *mockSurveyStore) ListResponses(ctx context.Context, surveyID string) ([]domain.SurveyResponse, error) {
	args := m.Called(ctx, surveyID)
	return args.Get(0).([]domain.SurveyResponse), args.Error(1)
}

// responses builds n survey responses of which submitted are marked submitted.
func responses(surveyID string, n, submitted int) []domain.SurveyResponse {
	out := make([]domain.SurveyResponse, n)
	for i := range out {
		out[i] = domain.SurveyResponse{
			ResponseID: surveyID + "-r" + string(rune('a'+i)),
			SurveyID:   surveyID,
			Submitted:  i < submitted,
		}
	}
	return out
}
