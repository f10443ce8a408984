package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"backoffice/internal/domain"
)

func TestPostgresLogs_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	uid := primitive.NewObjectID()
	mock.ExpectExec("^INSERT INTO audit_logs").
		WithArgs(sqlmock.AnyArg(), uid.Hex(), "Asha", "admin", "DELETE", "/api/products/1", "Deleted products", "Deleted product: Tee (ID: 1)", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewPostgresLogs(db)
	l := domain.Log{
		UserID: &uid, UserName: "Asha", UserRole: "admin",
		Method: "DELETE", Endpoint: "/api/products/1",
		Action: "Deleted products", Details: "Deleted product: Tee (ID: 1)",
	}
	require.NoError(t, repo.Create(context.Background(), &l))
	assert.False(t, l.ID.IsZero())
	assert.False(t, l.Timestamp.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresLogs_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	id := primitive.NewObjectID()
	ts := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "user_id", "user_name", "user_role", "method", "endpoint", "action", "details", "created_at"}).
		AddRow(id.Hex(), nil, "Unknown User", "Unknown Role", "POST", "/api/enquiries", "Created/Added enquiries", nil, ts)
	mock.ExpectQuery("^SELECT (.+) FROM audit_logs").WillReturnRows(rows)

	list, err := NewPostgresLogs(db).List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, id, list[0].ID)
	assert.Nil(t, list[0].UserID)
	assert.Equal(t, "", list[0].Details)
	assert.True(t, list[0].Timestamp.Equal(ts))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresLogs_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	id := primitive.NewObjectID()
	mock.ExpectExec("^DELETE FROM audit_logs WHERE id").WithArgs(id.Hex()).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("^DELETE FROM audit_logs$").WillReturnResult(sqlmock.NewResult(0, 4))

	repo := NewPostgresLogs(db)
	err = repo.Delete(context.Background(), id)
	assert.True(t, errors.Is(err, ErrNotFound))

	n, err := repo.DeleteAll(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 4, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresLogs_EnsureSchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS audit_logs").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE INDEX IF NOT EXISTS idx_audit_logs_created").WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, NewPostgresLogs(db).EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
