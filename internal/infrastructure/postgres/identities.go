package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/barangay-cms/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// IdentityRepo stores identities in one table for both roles; the unique
// index on lower(email) enforces cross-role uniqueness.
type IdentityRepo struct {
	pool *pgxpool.Pool
}

func NewIdentityRepo(pool *pgxpool.Pool) *IdentityRepo {
	return &IdentityRepo{pool: pool}
}

const identityColumns = `identity_id, email, role, password_hash, full_name, barangay,
	email_verified, access_key_hash, is_staff, created_at`

func (r *IdentityRepo) Create(ctx context.Context, id *domain.Identity) error {
	row := toRow(id)
	_, err := r.pool.Exec(ctx, `INSERT INTO identities (`+identityColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		row.IdentityID, row.Email, row.Role, row.PasswordHash, row.FullName, row.Barangay,
		row.EmailVerified, row.AccessKeyHash, row.IsStaff, row.CreatedAt)
	if isUniqueViolation(err) {
		return fmt.Errorf("identity %s: %w", row.Email, domain.ErrDuplicateEmail)
	}
	return err
}

func (r *IdentityRepo) GetByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+identityColumns+`
		FROM identities WHERE lower(email) = $1`, domain.NormalizeEmail(email))
	if err != nil {
		return nil, err
	}
	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[identityRow])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("identity not found: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return row.toDomain(), nil
}

func (r *IdentityRepo) ListAdminBarangays(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT DISTINCT barangay FROM identities
		WHERE role = 'admin' AND barangay <> '' ORDER BY barangay`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}
