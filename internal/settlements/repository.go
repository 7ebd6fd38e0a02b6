// Package settlements records per-partner accruals for redeemed coupons,
// written asynchronously by the worker.
package settlements

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists settlement accruals.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a settlements repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Accrue records one settlement row for a redeemed coupon. Idempotent on
// coupon_id, so a retried job never double-counts.
func (r *Repository) Accrue(ctx context.Context, partnerID, couponID uuid.UUID) error {
	const q = `INSERT INTO partner_settlements (partner_id, coupon_id)
		VALUES ($1, $2)
		ON CONFLICT (coupon_id) DO NOTHING`
	if _, err := r.pool.Exec(ctx, q, partnerID, couponID); err != nil {
		return fmt.Errorf("accrue settlement: %w", err)
	}
	return nil
}

// CountByPartner returns the number of redeemed coupons accrued for a partner.
func (r *Repository) CountByPartner(ctx context.Context, partnerID uuid.UUID) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM partner_settlements WHERE partner_id = $1`, partnerID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count settlements: %w", err)
	}
	return n, nil
}
