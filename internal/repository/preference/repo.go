package preference

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/wb-go/wbf/dbpg"

	"github.com/aliskhannn/push-reminder/internal/errs"
	"github.com/aliskhannn/push-reminder/internal/model"
)

var ErrPreferenceNotFound = errors.New("preference not found")

// Repository stores per-subscriber reminder offsets.
type Repository struct {
	db *dbpg.DB
}

func NewRepository(db *dbpg.DB) *Repository {
	return &Repository{db: db}
}

// GetOffsets returns the stored offsets of a subscriber in hours.
func (r *Repository) GetOffsets(ctx context.Context, userID uuid.UUID) (model.Preference, error) {
	query := `
		SELECT user_id, reminder_offsets, updated_at
		FROM user_preferences
		WHERE user_id = $1;
    `

	var p model.Preference
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&p.UserID, pq.Array(&p.Offsets), &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Preference{}, ErrPreferenceNotFound
		}

		return model.Preference{}, errs.NewStoreError("get preference", err)
	}

	return p, nil
}

// UpsertOffsets replaces the offsets of a subscriber.
func (r *Repository) UpsertOffsets(ctx context.Context, userID uuid.UUID, offsets []float64) error {
	query := `
		INSERT INTO user_preferences (user_id, reminder_offsets, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (user_id) DO UPDATE
		SET reminder_offsets = EXCLUDED.reminder_offsets, updated_at = now();
    `

	if _, err := r.db.ExecContext(ctx, query, userID, pq.Array(offsets)); err != nil {
		return errs.NewStoreError("upsert preference", err)
	}

	return nil
}
