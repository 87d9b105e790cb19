package domain

import "time"

// CohortStatus is the lifecycle of a training cohort.
type CohortStatus string

const (
	CohortStatusActive    CohortStatus = "ACTIVE"
	CohortStatusCompleted CohortStatus = "COMPLETED"
	CohortStatusArchived  CohortStatus = "ARCHIVED"
)

// Cohort is a training group run by a partner.
type Cohort struct {
	CohortID  string       `json:"id" dynamodbav:"cohort_id"`
	PartnerID string       `json:"partner_id" dynamodbav:"partner_id"`
	Name      string       `json:"name" dynamodbav:"name"`
	Status    CohortStatus `json:"status" dynamodbav:"status"`
	StartDate time.Time    `json:"start_date" dynamodbav:"start_date"`
	EndDate   *time.Time   `json:"end_date,omitempty" dynamodbav:"end_date"`
}

// EnrollmentStatus is the lifecycle of a participant's enrollment.
type EnrollmentStatus string

const (
	EnrollmentStatusActive    EnrollmentStatus = "ACTIVE"
	EnrollmentStatusDropped   EnrollmentStatus = "DROPPED"
	EnrollmentStatusCompleted EnrollmentStatus = "COMPLETED"
)

// Enrollment registers a participant into a cohort.
type Enrollment struct {
	EnrollmentID  string           `json:"id" dynamodbav:"enrollment_id"`
	CohortID      string           `json:"cohort_id" dynamodbav:"cohort_id"`
	ParticipantID string           `json:"participant_id" dynamodbav:"participant_id"`
	PartnerID     string           `json:"partner_id" dynamodbav:"partner_id"`
	Status        EnrollmentStatus `json:"status" dynamodbav:"status"`
	EnrolledAt    time.Time        `json:"enrolled_at" dynamodbav:"enrolled_at"`
}

// AttendanceRecord is one session attendance mark for an enrollment.
type AttendanceRecord struct {
	AttendanceID string    `json:"id" dynamodbav:"attendance_id"`
	EnrollmentID string    `json:"enrollment_id" dynamodbav:"enrollment_id"`
	PartnerID    string    `json:"partner_id" dynamodbav:"partner_id"`
	SessionDate  time.Time `json:"session_date" dynamodbav:"session_date"`
	Present      bool      `json:"present" dynamodbav:"present"`
}

// Score is an assessment result for an enrollment in a module.
type Score struct {
	ScoreID        string    `json:"id" dynamodbav:"score_id"`
	EnrollmentID   string    `json:"enrollment_id" dynamodbav:"enrollment_id"`
	PartnerID      string    `json:"partner_id" dynamodbav:"partner_id"`
	Module         string    `json:"module" dynamodbav:"module"`
	Value          float64   `json:"value" dynamodbav:"value"`
	MaxScore       float64   `json:"max_score" dynamodbav:"max_score"`
	AssessmentDate time.Time `json:"assessment_date" dynamodbav:"assessment_date"`
}

// Participant is a person registered with a partner. Enrollment records,
// not this struct, carry cohort membership.
type Participant struct {
	ParticipantID string    `json:"id" dynamodbav:"participant_id"`
	PartnerID     string    `json:"partner_id" dynamodbav:"partner_id"`
	FirstName     string    `json:"first_name" dynamodbav:"first_name"`
	LastName      string    `json:"last_name" dynamodbav:"last_name"`
	CreatedAt     time.Time `json:"created_at" dynamodbav:"created_at"`
}
