package alert

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/training-mne-api/internal/domain"
	"github.com/training-mne-api/internal/pkg/id"
)

// alertStore is the minimal alert persistence interface the service needs.
type alertStore interface {
	Put(ctx context.Context, a *domain.Alert) error
	Get(ctx context.Context, alertID string) (*domain.Alert, error)
	ListByPartner(ctx context.Context, partnerID string, resolved *bool) ([]domain.Alert, error)
	MarkResolved(ctx context.Context, alertID, actorID string, at time.Time) error
}

// openKeyStore anchors the dedup invariant: Acquire succeeds for exactly one
// concurrent raise of the same (partner, type, entity) tuple.
type openKeyStore interface {
	Acquire(ctx context.Context, partnerID, dedupKey, alertID string, at time.Time) error
	Release(ctx context.Context, partnerID, dedupKey string) error
}

type auditStore interface {
	Append(ctx context.Context, e *domain.AuditEntry) error
}

// Emitter delivers a notification for a freshly raised alert. Implementations
// must be best-effort: emission failure never surfaces to the raise path.
type Emitter interface {
	EmitForAlert(ctx context.Context, a *domain.Alert)
}

type ListFilter struct {
	Resolved *bool
}

// Service is the only legitimate path to alert creation and resolution.
type Service interface {
	// Raise persists a candidate as an OPEN alert unless an unresolved alert
	// already exists for the same (partner, type, related entity) tuple, in
	// which case it is an idempotent no-op returning (nil, nil).
	Raise(ctx context.Context, partnerID string, c domain.AlertCandidate) (*domain.Alert, error)
	// List returns the partner's alerts sorted by severity descending, then
	// creation time descending.
	List(ctx context.Context, partnerID string, f ListFilter) ([]domain.Alert, error)
	// Resolve marks an alert resolved, once. A missing or foreign-tenant
	// alert yields domain.ErrNotFound; an already-resolved alert yields
	// domain.ErrConflict together with the alert carrying the original
	// resolution metadata.
	Resolve(ctx context.Context, partnerID, alertID, actorID string) (*domain.Alert, error)
}

type service struct {
	repo    alertStore
	keys    openKeyStore
	audit   auditStore
	emitter Emitter
}

type ServiceDeps struct {
	AlertRepo   alertStore
	OpenKeyRepo openKeyStore
	AuditRepo   auditStore
	Emitter     Emitter
}

func NewService(deps ServiceDeps) Service {
	return &service{
		repo:    deps.AlertRepo,
		keys:    deps.OpenKeyRepo,
		audit:   deps.AuditRepo,
		emitter: deps.Emitter,
	}
}

func (s *service) Raise(ctx context.Context, partnerID string, c domain.AlertCandidate) (*domain.Alert, error) {
	now := time.Now().UTC()
	a := &domain.Alert{
		AlertID:           id.New(),
		PartnerID:         partnerID,
		Type:              c.Type,
		Severity:          c.Severity,
		Title:             c.Title,
		Description:       c.Description,
		IssueCount:        c.IssueCount,
		CallToAction:      c.Type.CallToAction(),
		RelatedEntityType: c.RelatedEntityType,
		RelatedEntityID:   c.RelatedEntityID,
		CreatedAt:         now,
	}

	key := domain.DedupKey(c.Type, c.RelatedEntityID)
	if err := s.keys.Acquire(ctx, partnerID, key, a.AlertID, now); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			// Unresolved alert already open for this tuple.
			slog.Debug("duplicate raise suppressed",
				"partner_id", partnerID, "alert_type", c.Type, "related_entity_id", c.RelatedEntityID)
			return nil, nil
		}
		return nil, fmt.Errorf("acquire dedup key: %w", err)
	}

	if err := s.repo.Put(ctx, a); err != nil {
		// Free the key so the issue can be raised on the next pass.
		if relErr := s.keys.Release(ctx, partnerID, key); relErr != nil {
			slog.Error("could not release dedup key after failed put",
				"partner_id", partnerID, "dedup_key", key, "err", relErr)
		}
		return nil, fmt.Errorf("persist alert: %w", err)
	}

	s.appendAudit(ctx, partnerID, "system", "alert.raised", a)
	if s.emitter != nil {
		s.emitter.EmitForAlert(ctx, a)
	}
	return a, nil
}

func (s *service) List(ctx context.Context, partnerID string, f ListFilter) ([]domain.Alert, error) {
	alerts, err := s.repo.ListByPartner(ctx, partnerID, f.Resolved)
	if err != nil {
		return nil, err
	}
	// Triage order is a contract: severity descending, then newest first.
	sort.SliceStable(alerts, func(i, j int) bool {
		if alerts[i].Severity.Rank() != alerts[j].Severity.Rank() {
			return alerts[i].Severity.Rank() > alerts[j].Severity.Rank()
		}
		return alerts[i].CreatedAt.After(alerts[j].CreatedAt)
	})
	return alerts, nil
}

func (s *service) Resolve(ctx context.Context, partnerID, alertID, actorID string) (*domain.Alert, error) {
	a, err := s.repo.Get(ctx, alertID)
	if err != nil {
		return nil, err
	}
	if a.PartnerID != partnerID {
		// Cross-tenant access attempt. Logged, but indistinguishable from
		// not-found for the caller so tenants cannot probe each other's ids.
		slog.Warn("cross-tenant alert access denied",
			"alert_id", alertID, "alert_partner", a.PartnerID, "caller_partner", partnerID)
		return nil, fmt.Errorf("alert %s: %w", alertID, domain.ErrNotFound)
	}
	if a.Resolved {
		return a, fmt.Errorf("alert %s already resolved: %w", alertID, domain.ErrConflict)
	}

	now := time.Now().UTC()
	if err := s.repo.MarkResolved(ctx, alertID, actorID, now); err != nil {
		return nil, fmt.Errorf("mark resolved: %w", err)
	}
	if err := s.keys.Release(ctx, partnerID, a.DedupKey()); err != nil {
		slog.Error("could not release dedup key on resolve",
			"partner_id", partnerID, "dedup_key", a.DedupKey(), "err", err)
	}

	a.Resolved = true
	a.ResolvedBy = actorID
	a.ResolvedAt = &now
	s.appendAudit(ctx, partnerID, actorID, "alert.resolved", a)
	return a, nil
}

// appendAudit is fire-and-forget: audit failures are logged, never returned.
func (s *service) appendAudit(ctx context.Context, partnerID, actorID, action string, a *domain.Alert) {
	if s.audit == nil {
		return
	}
	entry := &domain.AuditEntry{
		EntryID:     id.New(),
		PartnerID:   partnerID,
		ActorID:     actorID,
		Action:      action,
		EntityType:  "alert",
		EntityID:    a.AlertID,
		Description: a.Title,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.audit.Append(ctx, entry); err != nil {
		slog.Error("audit append failed", "action", action, "alert_id", a.AlertID, "err", err)
	}
}
