package notification

import (
	"context"
	"fmt"

	"github.com/training-mne-api/internal/domain"
)

type notificationStore interface {
	Put(ctx context.Context, n *domain.Notification) error
	Get(ctx context.Context, notificationID string) (*domain.Notification, error)
	ListUnread(ctx context.Context, userID string) ([]domain.Notification, error)
	MarkAsRead(ctx context.Context, notificationID string) error
}

// Service exposes the recipient-facing notification operations.
type Service interface {
	ListUnread(ctx context.Context, partnerID, userID string) ([]domain.Notification, error)
	MarkAsRead(ctx context.Context, partnerID, notificationID, userID string) (*domain.Notification, error)
}

type service struct {
	repo notificationStore
}

func NewService(repo notificationStore) Service {
	return &service{repo: repo}
}

func (s *service) ListUnread(ctx context.Context, partnerID, userID string) ([]domain.Notification, error) {
	return s.repo.ListUnread(ctx, userID)
}

func (s *service) MarkAsRead(ctx context.Context, partnerID, notificationID, userID string) (*domain.Notification, error) {
	n, err := s.repo.Get(ctx, notificationID)
	if err != nil {
		return nil, err
	}
	// Foreign-tenant and foreign-recipient lookups both read as not-found.
	if n.PartnerID != partnerID || n.UserID != userID {
		return nil, fmt.Errorf("notification %s: %w", notificationID, domain.ErrNotFound)
	}
	if err := s.repo.MarkAsRead(ctx, notificationID); err != nil {
		return nil, err
	}
	n.Read = true
	return n, nil
}
