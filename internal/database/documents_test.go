package database

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shimizu-Technology/wows-catalog/internal/models"
)

func TestCreateDocument(t *testing.T) {
	db, mock := newMockDB(t)
	payload := `{"movie":"Heat"}`
	mock.ExpectQuery(`INSERT INTO data (data) VALUES ($1::jsonb) RETURNING id`).
		WithArgs(payload).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))

	id, err := db.CreateDocument(context.Background(), []byte(payload))
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetDocument(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`SELECT id, data FROM data WHERE id = $1`).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "data"}).AddRow(3, []byte(`{"movie":"Heat"}`)))
	mock.ExpectQuery(`SELECT id, data FROM data WHERE id = $1`).
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "data"}))

	row, err := db.GetDocument(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, int64(3), row.ID)
	assert.JSONEq(t, `{"movie":"Heat"}`, string(row.Data))

	_, err = db.GetDocument(context.Background(), 4)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateDocument(t *testing.T) {
	db, mock := newMockDB(t)
	query := `UPDATE data SET data = $1::jsonb, updated_at = NOW() WHERE id = $2`
	mock.ExpectExec(query).WithArgs(`{}`, int64(1)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(query).WithArgs(`{}`, int64(99)).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, db.UpdateDocument(context.Background(), 1, []byte(`{}`)))
	assert.ErrorIs(t, db.UpdateDocument(context.Background(), 99, []byte(`{}`)), ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteDocumentIsIdempotent(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec(`DELETE FROM data WHERE id = $1`).WithArgs(int64(5)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM data WHERE id = $1`).WithArgs(int64(5)).WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, db.DeleteDocument(context.Background(), 5))
	assert.NoError(t, db.DeleteDocument(context.Background(), 5))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUsers(t *testing.T) {
	db, mock := newMockDB(t)
	now := time.Now()
	mock.ExpectQuery(`INSERT INTO users (username, password_hash) VALUES ($1, $2) RETURNING id, created_at`).
		WithArgs("admin", "hash").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(1, now))
	mock.ExpectQuery(`SELECT * FROM users WHERE username = $1`).
		WithArgs("admin").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password_hash", "created_at"}).AddRow(1, "admin", "hash", now))
	mock.ExpectQuery(`SELECT * FROM users WHERE username = $1`).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password_hash", "created_at"}))

	u := &models.User{Username: "admin", PasswordHash: "hash"}
	require.NoError(t, db.CreateUser(context.Background(), u))
	assert.Equal(t, int64(1), u.ID)

	got, err := db.GetUserByUsername(context.Background(), "admin")
	require.NoError(t, err)
	assert.Equal(t, "hash", got.PasswordHash)

	_, err = db.GetUserByUsername(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
