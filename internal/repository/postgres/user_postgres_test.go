package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"papyr/internal/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func userRow(u *model.User) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "email", "name", "created_at"}).
		AddRow(u.ID, u.Email, u.Name, u.CreatedAt)
}

func TestUserPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewUserPostgres(db)
	ctx := context.Background()

	user := &model.User{ID: "user-1", Email: "ana@example.com", Name: "Ana", CreatedAt: time.Now().UTC()}

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO users").
			WithArgs(user.ID, user.Email, user.Name, user.CreatedAt).
			WillReturnRows(userRow(user))

		got, err := repo.Create(ctx, user)

		assert.NoError(t, err)
		assert.Equal(t, user.Email, got.Email)
	})

	t.Run("duplicate email", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO users").
			WithArgs(user.ID, user.Email, user.Name, user.CreatedAt).
			WillReturnError(&pgconn.PgError{Code: "23505"})

		got, err := repo.Create(ctx, user)

		assert.Error(t, err)
		assert.True(t, IsUniqueViolation(err))
		assert.Nil(t, got)
	})
}

func TestUserPostgres_FindByEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewUserPostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		user := &model.User{ID: "user-1", Email: "ana@example.com", Name: "Ana", CreatedAt: time.Now().UTC()}

		mock.ExpectQuery("SELECT (.+) FROM users WHERE email = ?").
			WithArgs(user.Email).
			WillReturnRows(userRow(user))

		got, err := repo.FindByEmail(ctx, user.Email)

		assert.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM users WHERE email = ?").
			WithArgs("nobody@example.com").
			WillReturnError(sql.ErrNoRows)

		got, err := repo.FindByEmail(ctx, "nobody@example.com")

		assert.True(t, IsNoRowsError(err))
		assert.Nil(t, got)
	})
}
