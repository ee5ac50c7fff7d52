package notifications

import (
	"context"
	"log/slog"

	"appraisal/internal/domain/auth"
)

type Service struct {
	store        StoreAPI
	DefaultLimit int
	// OnFailure is called after a notification write is dropped.
	OnFailure func()
}

func New(store StoreAPI) *Service {
	return &Service{store: store, DefaultLimit: DefaultListLimit}
}

// Notify records a notification for recipientID. Failures are logged and
// dropped so the triggering write is never affected.
func (s *Service) Notify(ctx context.Context, recipientID, ntype, message, relatedID string) {
	if recipientID == "" {
		return
	}
	if !ValidType(ntype) {
		slog.Warn("notification type rejected", "type", ntype, "recipient", recipientID)
		return
	}
	err := s.store.CreateNotification(ctx, Notification{
		UserID:    recipientID,
		Type:      ntype,
		Message:   message,
		RelatedID: relatedID,
	})
	if err != nil {
		slog.Warn("notification create failed", "type", ntype, "recipient", recipientID, "err", err)
		if s.OnFailure != nil {
			s.OnFailure()
		}
	}
}

func (s *Service) List(ctx context.Context, actor auth.Actor, limit, offset int) (Page, error) {
	if err := auth.Can(actor, auth.ActionNotificationRead, auth.Resource{OwnerID: actor.ID}); err != nil {
		return Page{}, err
	}
	if limit <= 0 {
		limit = s.DefaultLimit
		if limit <= 0 {
			limit = DefaultListLimit
		}
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	items, err := s.store.ListNotifications(ctx, actor.ID, limit, offset)
	if err != nil {
		return Page{}, err
	}
	unread, err := s.store.CountUnread(ctx, actor.ID)
	if err != nil {
		return Page{}, err
	}
	return Page{Items: items, Unread: unread, Limit: limit, Offset: offset}, nil
}

func (s *Service) MarkRead(ctx context.Context, actor auth.Actor, notificationID string) error {
	if err := auth.Can(actor, auth.ActionNotificationUpdate, auth.Resource{OwnerID: actor.ID}); err != nil {
		return err
	}
	return s.store.MarkRead(ctx, actor.ID, notificationID)
}

func (s *Service) MarkAllRead(ctx context.Context, actor auth.Actor) (int, error) {
	if err := auth.Can(actor, auth.ActionNotificationUpdate, auth.Resource{OwnerID: actor.ID}); err != nil {
		return 0, err
	}
	return s.store.MarkAllRead(ctx, actor.ID)
}
