package notifications

import (
	"context"

	"appraisal/internal/apperror"
)

func (s *Store) CreateNotification(ctx context.Context, n Notification) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO notifications (user_id, type, message, related_id)
    VALUES ($1,$2,$3,$4)
  `, n.UserID, n.Type, n.Message, nullIfEmpty(n.RelatedID))
	return translate(err, "create notification")
}

func (s *Store) ListNotifications(ctx context.Context, userID string, limit, offset int) ([]Notification, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, user_id::text, type, message, is_read, COALESCE(related_id, ''), created_at
    FROM notifications
    WHERE user_id::text = $1
    ORDER BY created_at DESC
    LIMIT $2 OFFSET $3
  `, userID, limit, offset)
	if err != nil {
		return nil, translate(err, "list notifications")
	}
	defer rows.Close()

	out := []Notification{}
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Message, &n.IsRead, &n.RelatedID, &n.CreatedAt); err != nil {
			return nil, translate(err, "scan notification")
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, translate(err, "list notifications")
	}
	return out, nil
}

func (s *Store) CountUnread(ctx context.Context, userID string) (int, error) {
	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM notifications WHERE user_id::text = $1 AND NOT is_read", userID).Scan(&total); err != nil {
		return 0, translate(err, "count notifications")
	}
	return total, nil
}

// MarkRead flips the read flag of a notification owned by userID. A
// notification owned by someone else is reported as not found.
func (s *Store) MarkRead(ctx context.Context, userID, notificationID string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE notifications SET is_read = true
    WHERE user_id::text = $1 AND id::text = $2
  `, userID, notificationID)
	if err != nil {
		return translate(err, "mark notification read")
	}
	if tag.RowsAffected() == 0 {
		return apperror.NotFound("notification")
	}
	return nil
}

func (s *Store) MarkAllRead(ctx context.Context, userID string) (int, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE notifications SET is_read = true
    WHERE user_id::text = $1 AND NOT is_read
  `, userID)
	if err != nil {
		return 0, translate(err, "mark notifications read")
	}
	return int(tag.RowsAffected()), nil
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}
