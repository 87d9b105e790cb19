package notification

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/training-mne-api/internal/domain"
	"github.com/training-mne-api/internal/pkg/id"
)

type partnerStore interface {
	Get(ctx context.Context, partnerID string) (*domain.Partner, error)
}

type userStore interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
}

type smsSender interface {
	SendSMS(ctx context.Context, to, message string) error
}

type emailSender interface {
	SendEmail(to, subject, body string) error
}

// Emitter turns a raised alert into a notification for the partner's
// designated monitor. Everything here is best-effort: the alert is already
// persisted, and no delivery failure may undo that.
type Emitter struct {
	repo     notificationStore
	partners partnerStore
	users    userStore
	sms      smsSender
	email    emailSender
}

type EmitterDeps struct {
	NotificationRepo notificationStore
	PartnerRepo      partnerStore
	UserRepo         userStore
	SMSSender        smsSender
	Mailer           emailSender
}

func NewEmitter(deps EmitterDeps) *Emitter {
	return &Emitter{
		repo:     deps.NotificationRepo,
		partners: deps.PartnerRepo,
		users:    deps.UserRepo,
		sms:      deps.SMSSender,
		email:    deps.Mailer,
	}
}

// EmitForAlert resolves the monitor for the alert's partner and writes a
// notification with priority derived from the alert severity. URGENT
// notifications additionally go out by SMS and email when the monitor has
// a phone or email on file.
func (e *Emitter) EmitForAlert(ctx context.Context, a *domain.Alert) {
	partner, err := e.partners.Get(ctx, a.PartnerID)
	if err != nil {
		slog.Warn("emit: partner lookup failed", "partner_id", a.PartnerID, "alert_id", a.AlertID, "err", err)
		return
	}
	if partner.MonitorUserID == "" {
		slog.Info("emit: partner has no designated monitor", "partner_id", a.PartnerID, "alert_id", a.AlertID)
		return
	}
	monitor, err := e.users.Get(ctx, partner.MonitorUserID)
	if err != nil {
		slog.Warn("emit: monitor lookup failed", "partner_id", a.PartnerID, "monitor_user_id", partner.MonitorUserID, "err", err)
		return
	}

	n := &domain.Notification{
		NotificationID: id.New(),
		UserID:         monitor.UserID,
		PartnerID:      a.PartnerID,
		Title:          a.Title,
		Message:        fmt.Sprintf("[%s] %s", a.Severity, a.Description),
		Type:           domain.NotificationTypeAlert,
		Priority:       domain.PriorityFor(a.Severity),
		CreatedAt:      time.Now().UTC(),
	}
	if err := e.repo.Put(ctx, n); err != nil {
		slog.Error("emit: notification write failed", "alert_id", a.AlertID, "user_id", monitor.UserID, "err", err)
		return
	}

	if n.Priority != domain.PriorityUrgent {
		return
	}
	if e.sms != nil && monitor.Phone != "" {
		if err := e.sms.SendSMS(ctx, monitor.Phone, n.Title+": "+n.Message); err != nil {
			slog.Warn("emit: sms delivery failed", "alert_id", a.AlertID, "err", err)
		}
	}
	if e.email != nil && monitor.Email != "" {
		if err := e.email.SendEmail(monitor.Email, n.Title, n.Message); err != nil {
			slog.Warn("emit: email delivery failed", "alert_id", a.AlertID, "err", err)
		}
	}
}
