package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"user-service/internal/data/entity"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var userCols = []string{
	"id", "username", "email", "password", "first_name", "last_name",
	"phone_number", "is_active", "created_at", "updated_at",
}

func newRepoWithMock(t *testing.T) (UserRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewUserRepository(mock, zap.NewNop()), mock
}

func strPtr(s string) *string { return &s }

func TestExistsByUsername(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM users WHERE username = \$1\)`).
		WithArgs("alice").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.ExistsByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExistsByEmail_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM users WHERE email = \$1\)`).
		WithArgs("alice@x.com").
		WillReturnError(errors.New("db down"))

	_, err := repo.ExistsByEmail(context.Background(), "alice@x.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db down")
}

func TestFindByID_Found(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now()

	mock.ExpectQuery(`FROM users\s+WHERE id = \$1`).
		WithArgs(int64(7)).
		WillReturnRows(pgxmock.NewRows(userCols).
			AddRow(int64(7), "alice", "alice@x.com", "hash", "A", "L", strPtr("555"), true, now, now))

	user, err := repo.FindByID(context.Background(), 7)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, int64(7), user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "555", *user.PhoneNumber)
	assert.True(t, user.IsActive)
}

func TestFindByID_Missing(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`FROM users\s+WHERE id = \$1`).
		WithArgs(int64(99)).
		WillReturnError(pgx.ErrNoRows)

	user, err := repo.FindByID(context.Background(), 99)
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestFindByUsername_Missing(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`FROM users\s+WHERE username = \$1`).
		WithArgs("ghost").
		WillReturnError(pgx.ErrNoRows)

	user, err := repo.FindByUsername(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestFindAllActive_OrderedByID(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now()

	mock.ExpectQuery(`WHERE is_active = TRUE\s+ORDER BY id ASC`).
		WillReturnRows(pgxmock.NewRows(userCols).
			AddRow(int64(1), "alice", "a@x.com", "h", "A", "L", (*string)(nil), true, now, now).
			AddRow(int64(2), "bob", "b@x.com", "h", "B", "M", strPtr("1"), true, now, now))

	users, err := repo.FindAllActive(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "alice", users[0].Username)
	assert.Nil(t, users[0].PhoneNumber)
	assert.Equal(t, "bob", users[1].Username)
}

func TestFindAllActive_Empty(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`WHERE is_active = TRUE`).
		WillReturnRows(pgxmock.NewRows(userCols))

	users, err := repo.FindAllActive(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, users)
	assert.Empty(t, users)
}

func TestCountActive(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users WHERE is_active = TRUE`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(3)))

	count, err := repo.CountActive(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestSave_InsertAssignsID(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("alice", "alice@x.com", "hash", "A", "L", (*string)(nil), true).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(1), now, now))

	in := &entity.User{Username: "alice", Email: "alice@x.com", PasswordHash: "hash", FirstName: "A", LastName: "L", IsActive: true}
	saved, err := repo.Save(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, int64(1), saved.ID)
	assert.Equal(t, now, saved.CreatedAt)
	assert.Zero(t, in.ID, "input must not be mutated")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSave_InsertUniqueViolation(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	_, err := repo.Save(context.Background(), &entity.User{Username: "alice", Email: "dup@x.com"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestSave_Update(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	created := time.Now().Add(-time.Hour)
	updated := time.Now()

	mock.ExpectQuery(`UPDATE users`).
		WithArgs(int64(5), "alice", "alice@x.com", "hash", "A", "L", (*string)(nil), false).
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(created, updated))

	u := &entity.User{Base: entity.Base{ID: 5}, Username: "alice", Email: "alice@x.com", PasswordHash: "hash", FirstName: "A", LastName: "L"}
	saved, err := repo.Save(context.Background(), u)
	require.NoError(t, err)
	assert.Equal(t, updated, saved.UpdatedAt)
	assert.False(t, saved.IsActive)
}

func TestSave_UpdateMissing(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`UPDATE users`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.Save(context.Background(), &entity.User{Base: entity.Base{ID: 42}})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestTranslateUniqueViolation(t *testing.T) {
	assert.Equal(t, ErrUsernameTaken, translateUniqueViolation(&pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"}))
	assert.Nil(t, translateUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.Nil(t, translateUniqueViolation(errors.New("plain")))
}
