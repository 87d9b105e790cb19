package domain

import "time"

// AlertType classifies what an alert is about. The set is closed: every
// switch over it must handle all values so a new type cannot slip through
// uninterpreted.
type AlertType string

const (
	AlertTypeAttendanceCheck   AlertType = "ATTENDANCE_CHECK"
	AlertTypeCompletionCheck   AlertType = "COMPLETION_CHECK"
	AlertTypeStatusMonitor     AlertType = "STATUS_MONITOR"
	AlertTypeMissingAttendance AlertType = "MISSING_ATTENDANCE"
	AlertTypeScoreMismatch     AlertType = "SCORE_MISMATCH"
	AlertTypeEnrollmentGap     AlertType = "ENROLLMENT_GAP"
)

// CallToAction returns the relative UI action a monitor should take for
// alerts of this type.
func (t AlertType) CallToAction() string {
	switch t {
	case AlertTypeAttendanceCheck:
		return "/cohorts/attendance"
	case AlertTypeCompletionCheck:
		return "/surveys/responses"
	case AlertTypeStatusMonitor:
		return "/surveys/drafts"
	case AlertTypeMissingAttendance:
		return "/enrollments/attendance"
	case AlertTypeScoreMismatch:
		return "/scores/review"
	case AlertTypeEnrollmentGap:
		return "/enrollments/review"
	}
	return ""
}

// Severity orders alerts for triage: INFO < WARNING < CRITICAL.
type Severity string

const (
	SeverityInfo     Severity = "INFO"
	SeverityWarning  Severity = "WARNING"
	SeverityCritical Severity = "CRITICAL"
)

// Rank returns the numeric triage order of the severity, higher is more urgent.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 3
	case SeverityWarning:
		return 2
	case SeverityInfo:
		return 1
	}
	return 0
}

// RelatedEntityType tags the polymorphic back-reference an alert carries.
type RelatedEntityType string

const (
	EntityCohort      RelatedEntityType = "COHORT"
	EntityEnrollment  RelatedEntityType = "ENROLLMENT"
	EntitySurvey      RelatedEntityType = "SURVEY"
	EntityScore       RelatedEntityType = "SCORE"
	EntityParticipant RelatedEntityType = "PARTICIPANT"
)

// Alert is a persisted operational issue scoped to exactly one partner.
// At most one unresolved alert exists per (partner, type, related entity);
// the alert service enforces that on every raise.
type Alert struct {
	AlertID           string            `json:"id" dynamodbav:"alert_id"`
	PartnerID         string            `json:"partner_id" dynamodbav:"partner_id"`
	Type              AlertType         `json:"type" dynamodbav:"alert_type"`
	Severity          Severity          `json:"severity" dynamodbav:"severity"`
	Title             string            `json:"title" dynamodbav:"title"`
	Description       string            `json:"description" dynamodbav:"description"`
	IssueCount        int               `json:"issue_count" dynamodbav:"issue_count"`
	CallToAction      string            `json:"call_to_action,omitempty" dynamodbav:"call_to_action"`
	RelatedEntityType RelatedEntityType `json:"related_entity_type" dynamodbav:"related_entity_type"`
	RelatedEntityID   string            `json:"related_entity_id" dynamodbav:"related_entity_id"`
	Resolved          bool              `json:"resolved" dynamodbav:"resolved"`
	ResolvedBy        string            `json:"resolved_by,omitempty" dynamodbav:"resolved_by"`
	ResolvedAt        *time.Time        `json:"resolved_at,omitempty" dynamodbav:"resolved_at"`
	CreatedAt         time.Time         `json:"created_at" dynamodbav:"created_at"`
}

// DedupKey is the uniqueness key for the unresolved-alert invariant within
// a partner: one open alert per (type, related entity).
func (a *Alert) DedupKey() string {
	return DedupKey(a.Type, a.RelatedEntityID)
}

// DedupKey builds the (type, related entity) uniqueness key.
func DedupKey(t AlertType, relatedEntityID string) string {
	return string(t) + "#" + relatedEntityID
}

// AlertCandidate is a detector finding that has not been persisted yet.
// It carries the alert payload without identity or lifecycle fields.
type AlertCandidate struct {
	Type              AlertType
	Severity          Severity
	Title             string
	Description       string
	IssueCount        int
	RelatedEntityType RelatedEntityType
	RelatedEntityID   string
}
