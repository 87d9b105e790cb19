package domain

import "time"

// SurveyStatus is the publication lifecycle of a survey.
type SurveyStatus string

const (
	SurveyStatusDraft     SurveyStatus = "DRAFT"
	SurveyStatusPublished SurveyStatus = "PUBLISHED"
	SurveyStatusClosed    SurveyStatus = "CLOSED"
)

// Survey is a questionnaire a partner sends to its participants.
type Survey struct {
	SurveyID  string       `json:"id" dynamodbav:"survey_id"`
	PartnerID string       `json:"partner_id" dynamodbav:"partner_id"`
	Title     string       `json:"title" dynamodbav:"title"`
	Status    SurveyStatus `json:"status" dynamodbav:"status"`
	CreatedAt time.Time    `json:"created_at" dynamodbav:"created_at"`
}

// SurveyResponse tracks whether a participant has submitted a survey.
type SurveyResponse struct {
	ResponseID    string     `json:"id" dynamodbav:"response_id"`
	SurveyID      string     `json:"survey_id" dynamodbav:"survey_id"`
	PartnerID     string     `json:"partner_id" dynamodbav:"partner_id"`
	ParticipantID string     `json:"participant_id" dynamodbav:"participant_id"`
	Submitted     bool       `json:"submitted" dynamodbav:"submitted"`
	SubmittedAt   *time.Time `json:"submitted_at,omitempty" dynamodbav:"submitted_at"`
}
