package profile

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/wb-go/wbf/dbpg"
)

func setupMockDB(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open mock db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return NewRepository(&dbpg.DB{Master: db}), mock
}

func TestSetDeviceToken(t *testing.T) {
	repo, mock := setupMockDB(t)
	id := uuid.New()
	query := regexp.QuoteMeta(`UPDATE profiles`)

	mock.ExpectExec(query).
		WithArgs(id, sql.NullString{String: "fcm-token", Valid: true}).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.SetDeviceToken(context.Background(), id, "  fcm-token "))

	mock.ExpectExec(query).
		WithArgs(id, sql.NullString{}).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.SetDeviceToken(context.Background(), id, ""))

	mock.ExpectExec(query).
		WithArgs(id, sql.NullString{String: "fcm-token", Valid: true}).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.SetDeviceToken(context.Background(), id, "fcm-token"), ErrProfileNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListSubscriberIDs(t *testing.T) {
	repo, mock := setupMockDB(t)
	a, b := uuid.New(), uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(a.String()).AddRow(b.String()))

	ids, err := repo.ListSubscriberIDs(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, []uuid.UUID{a, b}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}
