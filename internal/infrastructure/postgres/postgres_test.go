package postgres

import (
	"fmt"
	"io/fs"
	"testing"
	"time"

	"github.com/barangay-cms/internal/domain"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPgx5DSN(t *testing.T) {
	assert.Equal(t, "pgx5://u:p@db:5432/cms", pgx5DSN("postgres://u:p@db:5432/cms"))
	assert.Equal(t, "pgx5://u:p@db/cms", pgx5DSN("postgresql://u:p@db/cms"))
	assert.Equal(t, "pgx5://db/cms", pgx5DSN("pgx5://db/cms"))
}

func TestIsUniqueViolation(t *testing.T) {
	err := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})
	assert.True(t, isUniqueViolation(err))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(nil))
}

func TestMigrationsEmbedded(t *testing.T) {
	files, err := fs.Glob(migrationFS, "migrations/*.sql")
	require.NoError(t, err)
	assert.Contains(t, files, "migrations/000001_auth_core.up.sql")
	assert.Contains(t, files, "migrations/000001_auth_core.down.sql")
}

func TestIdentityRow_RoundTrip(t *testing.T) {
	created := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	admin := &domain.Identity{
		IdentityID:   "01HADMIN",
		Email:        " Captain@X.com",
		Role:         domain.RoleAdmin,
		PasswordHash: "p",
		Admin:        &domain.AdminProfile{Barangay: "San Isidro", AccessKeyHash: "k", IsStaff: true},
		CreatedAt:    created,
	}
	row := toRow(admin)
	assert.Equal(t, "captain@x.com", row.Email)
	assert.Equal(t, "San Isidro", row.Barangay)

	back := row.toDomain()
	require.NotNil(t, back.Admin)
	assert.Nil(t, back.User)
	assert.Equal(t, "k", back.Admin.AccessKeyHash)
	assert.True(t, back.Admin.IsStaff)

	user := toRow(&domain.Identity{
		Role: domain.RoleUser,
		User: &domain.UserProfile{FullName: "Ana", Barangay: "Poblacion", EmailVerified: true},
	}).toDomain()
	require.NotNil(t, user.User)
	assert.Nil(t, user.Admin)
	assert.True(t, user.User.EmailVerified)
}
