package notification

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/wb-go/wbf/dbpg"

	"github.com/aliskhannn/push-reminder/internal/errs"
	"github.com/aliskhannn/push-reminder/internal/model"
	"github.com/aliskhannn/push-reminder/internal/window"
)

var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrNoNotificationsFound = errors.New("no notifications found")
)

const notificationColumns = `n.id, n.user_id, n.event_id, n.title, n.body, n.send_at, n.sent, n.sent_at, n.created_at`

// Repository provides methods to interact with the notifications table.
type Repository struct {
	db *dbpg.DB
}

// NewRepository creates a new notification repository.
func NewRepository(db *dbpg.DB) *Repository {
	return &Repository{db: db}
}

// Insert stores all notifications in a single transaction and returns their IDs
// in input order. Nothing is committed if any row fails.
func (r *Repository) Insert(ctx context.Context, notifications []model.Notification) ([]uuid.UUID, error) {
	if len(notifications) == 0 {
		return nil, nil
	}

	query := `
		INSERT INTO notifications (
		    user_id, event_id, title, body, send_at
		) VALUES ($1, $2, $3, $4, $5)
		RETURNING id;
    `

	tx, err := r.db.Master.BeginTx(ctx, nil)
	if err != nil {
		return nil, errs.NewStoreError("begin insert", err)
	}
	defer func() { _ = tx.Rollback() }()

	ids := make([]uuid.UUID, 0, len(notifications))
	for _, n := range notifications {
		var id uuid.UUID
		err := tx.QueryRowContext(
			ctx, query, n.UserID, nullUUID(n.EventID), n.Title, n.Body, n.SendAt.UTC(),
		).Scan(&id)
		if err != nil {
			return nil, errs.NewStoreError("insert notification", err)
		}

		ids = append(ids, id)
	}

	if err := tx.Commit(); err != nil {
		return nil, errs.NewStoreError("commit insert", err)
	}

	return ids, nil
}

// QueryDue returns every unsent notification whose send_at lies in w, joined
// with the owner's current device token. Reads go to the master so a row that
// was just marked sent is never seen as pending.
func (r *Repository) QueryDue(ctx context.Context, w window.Window) ([]model.DueNotification, error) {
	query := `
		SELECT ` + notificationColumns + `, p.device_token
		FROM notifications n
		LEFT JOIN profiles p ON p.id = n.user_id
		WHERE n.sent = false
		  AND n.send_at >= $1
		  AND n.send_at <= $2;
    `
	args := []any{w.Lower, w.Upper}

	if !w.Bounded {
		query = `
		SELECT ` + notificationColumns + `, p.device_token
		FROM notifications n
		LEFT JOIN profiles p ON p.id = n.user_id
		WHERE n.sent = false
		  AND n.send_at <= $1;
    `
		args = []any{w.Upper}
	}

	rows, err := r.db.Master.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errs.NewStoreError("query due", err)
	}
	defer rows.Close()

	var due []model.DueNotification
	for rows.Next() {
		var (
			d     model.DueNotification
			token sql.NullString
		)

		dest := append(notificationDest(&d.Notification), &token)
		if err := rows.Scan(dest...); err != nil {
			return nil, errs.NewStoreError("scan due", err)
		}

		if token.Valid {
			d.DeviceToken = &token.String
		}

		due = append(due, d)
	}

	if err := rows.Err(); err != nil {
		return nil, errs.NewStoreError("iterate due", err)
	}

	return due, nil
}

// MarkSent flips sent to true and records sentAt, but only if the row is still
// unsent. It reports whether this call performed the transition; a row that
// was already sent is a successful no-op.
func (r *Repository) MarkSent(ctx context.Context, id uuid.UUID, sentAt time.Time) (bool, error) {
	query := `
		UPDATE notifications
		SET sent = true, sent_at = $2
		WHERE id = $1 AND sent = false;
    `

	res, err := r.db.ExecContext(ctx, query, id, sentAt.UTC())
	if err != nil {
		return false, errs.NewStoreError("mark sent", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, errs.NewStoreError("mark sent rows", err)
	}

	return rows == 1, nil
}

// GetNotificationByID retrieves a notification by its ID.
func (r *Repository) GetNotificationByID(ctx context.Context, id uuid.UUID) (model.Notification, error) {
	query := `
		SELECT ` + notificationColumns + `
		FROM notifications n
		WHERE n.id = $1;
    `

	var n model.Notification
	err := r.db.QueryRowContext(ctx, query, id).Scan(notificationDest(&n)...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Notification{}, ErrNotificationNotFound
		}

		return model.Notification{}, fmt.Errorf("failed to get notification: %w", errs.NewStoreError("get notification", err))
	}

	return n, nil
}

// GetNotificationsByUser retrieves the latest notifications of a subscriber
// ordered by send_at descending.
func (r *Repository) GetNotificationsByUser(ctx context.Context, userID uuid.UUID, limit int) ([]model.Notification, error) {
	query := `
		SELECT ` + notificationColumns + `
		FROM notifications n
		WHERE n.user_id = $1
		ORDER BY n.send_at DESC
		LIMIT $2;
    `

	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, errs.NewStoreError("get user notifications", err)
	}
	defer rows.Close()

	var notifications []model.Notification
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(notificationDest(&n)...); err != nil {
			return nil, errs.NewStoreError("scan user notification", err)
		}

		notifications = append(notifications, n)
	}

	if err := rows.Err(); err != nil {
		return nil, errs.NewStoreError("iterate user notifications", err)
	}

	if len(notifications) == 0 {
		return nil, ErrNoNotificationsFound
	}

	return notifications, nil
}

// notificationDest returns scan targets matching notificationColumns.
func notificationDest(n *model.Notification) []any {
	return []any{
		&n.ID,
		&n.UserID,
		nullUUIDDest{dst: &n.EventID},
		&n.Title,
		&n.Body,
		&n.SendAt,
		&n.Sent,
		nullTimeDest{dst: &n.SentAt},
		&n.CreatedAt,
	}
}

type nullUUIDDest struct{ dst **uuid.UUID }

func (d nullUUIDDest) Scan(src any) error {
	var v uuid.NullUUID
	if err := v.Scan(src); err != nil {
		return err
	}

	*d.dst = nil
	if v.Valid {
		id := v.UUID
		*d.dst = &id
	}

	return nil
}

type nullTimeDest struct{ dst **time.Time }

func (d nullTimeDest) Scan(src any) error {
	var v sql.NullTime
	if err := v.Scan(src); err != nil {
		return err
	}

	*d.dst = nil
	if v.Valid {
		t := v.Time
		*d.dst = &t
	}

	return nil
}

func nullUUID(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}

	return uuid.NullUUID{UUID: *id, Valid: true}
}
