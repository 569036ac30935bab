package users

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/phoneauth/internal/common"
	"github.com/dmitrijs2005/phoneauth/internal/server/models"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	insertQ  = `(?s)^INSERT\s+INTO\s+users\s*\(first_name,\s*last_name,\s*phone,\s*email,\s*password_hash\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5\)\s*RETURNING\s+id,\s*created_at,\s*updated_at\s*$`
	byPhoneQ = `(?s)^SELECT\s+id,\s*first_name,\s*last_name,\s*phone,\s*email,\s*password_hash,\s*created_at,\s*updated_at\s+FROM\s+users\s+WHERE\s+phone\s*=\s*\$1$`
	byIDQ    = `(?s)^SELECT\s+id,.*\s+FROM\s+users\s+WHERE\s+id\s*=\s*\$1$`
)

var userColumns = []string{"id", "first_name", "last_name", "phone", "email", "password_hash", "created_at", "updated_at"}

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func strPtr(s string) *string { return &s }

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow("u-1", now, now)
	mock.ExpectQuery(insertQ).
		WithArgs("A", "B", "312345678", strPtr("a@example.com"), "hash").
		WillReturnRows(rows)

	u := &models.User{FirstName: "A", LastName: "B", Phone: "312345678", Email: strPtr("a@example.com"), PasswordHash: "hash"}
	got, err := repo.Create(context.Background(), u)
	require.NoError(t, err)
	assert.Equal(t, "u-1", got.ID)
	assert.Equal(t, now, got.CreatedAt)
	assert.Equal(t, now, got.UpdatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_WithoutEmail(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectQuery(insertQ).
		WithArgs("A", "B", "312345678", nil, "hash").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow("u-2", now, now))

	got, err := repo.Create(context.Background(), &models.User{FirstName: "A", LastName: "B", Phone: "312345678", PasswordHash: "hash"})
	require.NoError(t, err)
	assert.Equal(t, "u-2", got.ID)
	assert.Nil(t, got.Email)
}

func TestCreate_UniqueViolation(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(insertQ).
		WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "users_phone_key"})

	_, err := repo.Create(context.Background(), &models.User{Phone: "312345678"})
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(insertQ).
		WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), &models.User{Phone: "312345678"})
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
	assert.NotErrorIs(t, err, common.ErrorAlreadyExists)
}

func TestGetByPhone_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now().UTC()
	rows := sqlmock.NewRows(userColumns).
		AddRow("u-1", "A", "B", "312345678", "a@example.com", "hash", now, now)
	mock.ExpectQuery(byPhoneQ).WithArgs("312345678").WillReturnRows(rows)

	got, err := repo.GetByPhone(context.Background(), "312345678")
	require.NoError(t, err)
	assert.Equal(t, "u-1", got.ID)
	assert.Equal(t, "hash", got.PasswordHash)
	require.NotNil(t, got.Email)
	assert.Equal(t, "a@example.com", *got.Email)
}

func TestGetByPhone_NullEmail(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now().UTC()
	rows := sqlmock.NewRows(userColumns).
		AddRow("u-1", "A", "B", "312345678", nil, "hash", now, now)
	mock.ExpectQuery(byPhoneQ).WithArgs("312345678").WillReturnRows(rows)

	got, err := repo.GetByPhone(context.Background(), "312345678")
	require.NoError(t, err)
	assert.Nil(t, got.Email)
}

func TestGetByPhone_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(byPhoneQ).WithArgs("999999999").WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByPhone(context.Background(), "999999999")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestGetByID(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectQuery(byIDQ).WithArgs("u-1").
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow("u-1", "A", "B", "312345678", nil, "hash", now, now))
	mock.ExpectQuery(byIDQ).WithArgs("u-2").WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(byIDQ).WithArgs("u-3").WillReturnError(errors.New("db err"))

	got, err := repo.GetByID(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, "312345678", got.Phone)

	_, err = repo.GetByID(context.Background(), "u-2")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	_, err = repo.GetByID(context.Background(), "u-3")
	if err == nil || !regexp.MustCompile(`db error: .*db err`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestExistsByPhone(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+EXISTS\s*\(SELECT\s+1\s+FROM\s+users\s+WHERE\s+phone\s*=\s*\$1\)$`
	mock.ExpectQuery(q).WithArgs("312345678").WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(q).WithArgs("512345678").WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(q).WithArgs("612345678").WillReturnError(errors.New("db err"))

	found, err := repo.ExistsByPhone(context.Background(), "312345678")
	require.NoError(t, err)
	assert.True(t, found)

	found, err = repo.ExistsByPhone(context.Background(), "512345678")
	require.NoError(t, err)
	assert.False(t, found)

	_, err = repo.ExistsByPhone(context.Background(), "612345678")
	assert.Error(t, err)
}

func TestExistsByEmail_CaseInsensitive(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+EXISTS\s*\(SELECT\s+1\s+FROM\s+users\s+WHERE\s+lower\(email\)\s*=\s*lower\(\$1\)\)$`
	mock.ExpectQuery(q).WithArgs("A@Example.com").WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	found, err := repo.ExistsByEmail(context.Background(), "A@Example.com")
	require.NoError(t, err)
	assert.True(t, found)
	assert.NoError(t, mock.ExpectationsWereMet())
}
