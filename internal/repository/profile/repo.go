package profile

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/wb-go/wbf/dbpg"

	"github.com/aliskhannn/push-reminder/internal/errs"
)

var ErrProfileNotFound = errors.New("profile not found")

// Repository provides access to subscriber profiles. Profiles are owned by the
// account system; this service only reads them and records device tokens.
type Repository struct {
	db *dbpg.DB
}

// NewRepository creates a new profile repository.
func NewRepository(db *dbpg.DB) *Repository {
	return &Repository{db: db}
}

// SetDeviceToken stores the push address of a subscriber. An empty token
// clears it, making the subscriber unreachable.
func (r *Repository) SetDeviceToken(ctx context.Context, userID uuid.UUID, token string) error {
	query := `
		UPDATE profiles
		SET device_token = $2, updated_at = now()
		WHERE id = $1;
    `

	var value sql.NullString
	if token = strings.TrimSpace(token); token != "" {
		value = sql.NullString{String: token, Valid: true}
	}

	res, err := r.db.ExecContext(ctx, query, userID, value)
	if err != nil {
		return errs.NewStoreError("set device token", err)
	}

	rows, _ := res.RowsAffected()
	if rows == 0 {
		return ErrProfileNotFound
	}

	return nil
}

// ListSubscriberIDs returns the IDs of all profiles. Public events remind
// every subscriber.
func (r *Repository) ListSubscriberIDs(ctx context.Context) ([]uuid.UUID, error) {
	query := `
		SELECT id
		FROM profiles
		ORDER BY id;
    `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errs.NewStoreError("list subscribers", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, errs.NewStoreError("scan subscriber", err)
		}

		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, errs.NewStoreError("iterate subscribers", err)
	}

	return ids, nil
}
