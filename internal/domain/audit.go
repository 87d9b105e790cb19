package domain

import "time"

// AuditEntry is an append-only record of a state-changing action.
// Writes are fire-and-forget: audit failures never block the action.
type AuditEntry struct {
	EntryID     string    `json:"id" dynamodbav:"entry_id"`
	PartnerID   string    `json:"partner_id" dynamodbav:"partner_id"`
	ActorID     string    `json:"actor_id" dynamodbav:"actor_id"`
	Action      string    `json:"action" dynamodbav:"action"`
	EntityType  string    `json:"entity_type" dynamodbav:"entity_type"`
	EntityID    string    `json:"entity_id" dynamodbav:"entity_id"`
	Description string    `json:"description" dynamodbav:"description"`
	CreatedAt   time.Time `json:"created_at" dynamodbav:"created_at"`
}
