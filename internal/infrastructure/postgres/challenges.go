package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/barangay-cms/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ChallengeRepo stores OTP challenges. Consumed rows are kept as history;
// the partial unique index allows one live row per email.
type ChallengeRepo struct {
	pool *pgxpool.Pool
}

func NewChallengeRepo(pool *pgxpool.Pool) *ChallengeRepo {
	return &ChallengeRepo{pool: pool}
}

// Replace upserts against the live-row index, so concurrent issues for the
// same email leave exactly one live challenge.
func (r *ChallengeRepo) Replace(ctx context.Context, c *domain.OTPChallenge) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO otp_challenges (email, code, issued_at, expires_at, consumed)
		VALUES ($1, $2, $3, $4, FALSE)
		ON CONFLICT (email) WHERE NOT consumed
		DO UPDATE SET code = EXCLUDED.code, issued_at = EXCLUDED.issued_at, expires_at = EXCLUDED.expires_at`,
		c.Email, c.Code, c.IssuedAt, c.ExpiresAt)
	return err
}

func (r *ChallengeRepo) Find(ctx context.Context, email, code string) (*domain.OTPChallenge, error) {
	rows, err := r.pool.Query(ctx, `SELECT email, code, issued_at, expires_at, consumed
		FROM otp_challenges WHERE email = $1 AND code = $2 AND NOT consumed`, email, code)
	if err != nil {
		return nil, err
	}
	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[challengeRow])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("challenge not found: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return row.toDomain(), nil
}

func (r *ChallengeRepo) Consume(ctx context.Context, email, code string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE otp_challenges SET consumed = TRUE
		WHERE email = $1 AND code = $2 AND NOT consumed`, email, code)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("challenge already consumed: %w", domain.ErrConflict)
	}
	return nil
}
