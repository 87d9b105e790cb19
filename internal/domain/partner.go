package domain

import "time"

// Partner is the tenant boundary. Every cohort, enrollment, alert and
// notification belongs to exactly one partner, and every store query is
// filtered by partner id.
type Partner struct {
	PartnerID     string    `json:"id" dynamodbav:"partner_id"`
	Name          string    `json:"name" dynamodbav:"name"`
	Enable        int       `json:"enable" dynamodbav:"enable"` // 1 = enabled; numeric so it can key the enable-index GSI
	MonitorUserID string    `json:"monitor_user_id,omitempty" dynamodbav:"monitor_user_id"`
	CreatedAt     time.Time `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" dynamodbav:"updated_at"`
}

// User roles referenced by the transport layer.
const (
	RoleAdmin   = "admin"
	RoleMonitor = "monitor"
)

// User is an actor. The monitoring core only reads users: the partner's
// designated monitor as a notification recipient, and token subjects as
// resolvers of alerts.
type User struct {
	UserID    string    `json:"id" dynamodbav:"user_id"`
	PartnerID string    `json:"partner_id" dynamodbav:"partner_id"`
	Role      string    `json:"role" dynamodbav:"role"`
	Email     string    `json:"email" dynamodbav:"email"`
	Phone     string    `json:"phone,omitempty" dynamodbav:"phone"`
	FirstName string    `json:"first_name" dynamodbav:"first_name"`
	LastName  string    `json:"last_name" dynamodbav:"last_name"`
	Enable    bool      `json:"enable" dynamodbav:"enable"`
	CreatedAt time.Time `json:"created_at" dynamodbav:"created_at"`
}
