package coupons

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ys6448761-hue/yeosu-coupon-system/internal/models"
)

const couponColumns = `id, coupon_code, reservation_id, customer_id, leisure_product_id,
	partner_id, qr_data, customer_name, customer_phone, status, valid_from, valid_until,
	used_at, used_by_partner_id, used_by_staff_name, created_at, updated_at`

// maxCodeAttempts bounds coupon-code collision retries per unit.
const maxCodeAttempts = 3

// IssueUnit is one coupon to be minted: one (product, person) pair.
type IssueUnit struct {
	ReservationID uuid.UUID
	CustomerID    *uuid.UUID
	ProductID     uuid.UUID
	PartnerID     uuid.UUID
	ProductName   string
	Code          string
	QRData        string
	CustomerName  string
	CustomerPhone string
	ValidFrom     time.Time
	ValidUntil    time.Time
}

// UseStamp carries the redemption fields written on the transition to used.
type UseStamp struct {
	UsedAt    time.Time
	PartnerID uuid.UUID
	StaffName string
}

// RemintFunc produces a replacement code and QR payload after a code collision.
type RemintFunc func(ctx context.Context) (code, qrData string, err error)

// Repository handles coupon and usage-log persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a coupons repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// GetByCode returns the coupon for a code, or nil when absent.
func (r *Repository) GetByCode(ctx context.Context, code string) (*models.Coupon, error) {
	q := `SELECT ` + couponColumns + ` FROM coupons WHERE coupon_code = $1`
	c, err := scanCoupon(r.pool.QueryRow(ctx, q, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get coupon: %w", err)
	}
	return c, nil
}

// TryTransition atomically moves a coupon from one of the allowed statuses to
// the target status, stamping redemption fields when given. Returns false when
// the coupon's current status is not in the allowed set (a concurrent writer
// won, or the precondition no longer holds).
func (r *Repository) TryTransition(ctx context.Context, id uuid.UUID, from []models.Status, to models.Status, stamp *UseStamp) (bool, error) {
	allowed := make([]string, len(from))
	for i, s := range from {
		allowed[i] = string(s)
	}

	var tag pgconn.CommandTag
	var err error
	if stamp != nil {
		const q = `UPDATE coupons
			SET status = $1, used_at = $2, used_by_partner_id = $3, used_by_staff_name = $4, updated_at = NOW()
			WHERE id = $5 AND status = ANY($6)`
		tag, err = r.pool.Exec(ctx, q, string(to), stamp.UsedAt, stamp.PartnerID, stamp.StaffName, id, allowed)
	} else {
		const q = `UPDATE coupons SET status = $1, updated_at = NOW() WHERE id = $2 AND status = ANY($3)`
		tag, err = r.pool.Exec(ctx, q, string(to), id, allowed)
	}
	if err != nil {
		return false, fmt.Errorf("transition coupon: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// IssueAll inserts every coupon and its issued log entry in one transaction:
// either all units are persisted or none are. remint replaces a unit's code on
// a coupon_code collision, up to maxCodeAttempts per unit.
func (r *Repository) IssueAll(ctx context.Context, units []IssueUnit, remint RemintFunc) ([]models.Coupon, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	issued := make([]models.Coupon, 0, len(units))
	for _, u := range units {
		c, err := insertCouponWithRetry(ctx, tx, u, remint)
		if err != nil {
			return nil, err
		}
		const logQ = `INSERT INTO coupon_usage_logs (coupon_id, action, partner_id, partner_name)
			VALUES ($1, $2, $3, $4)`
		if _, err := tx.Exec(ctx, logQ, c.ID, models.ActionIssued, u.PartnerID, u.ProductName); err != nil {
			return nil, fmt.Errorf("insert usage log: %w", err)
		}
		issued = append(issued, *c)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return issued, nil
}

func insertCouponWithRetry(ctx context.Context, tx pgx.Tx, u IssueUnit, remint RemintFunc) (*models.Coupon, error) {
	const q = `INSERT INTO coupons (
			coupon_code, reservation_id, customer_id, leisure_product_id, partner_id,
			qr_data, customer_name, customer_phone, status, valid_from, valid_until
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (coupon_code) DO NOTHING
		RETURNING ` + couponColumns

	code, qrData := u.Code, u.QRData
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		c, err := scanCoupon(tx.QueryRow(ctx, q, code, u.ReservationID, u.CustomerID,
			u.ProductID, u.PartnerID, qrData, u.CustomerName, u.CustomerPhone,
			string(models.StatusIssued), u.ValidFrom, u.ValidUntil))
		if err == nil {
			return c, nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("insert coupon: %w", err)
		}
		// coupon_code collided with an existing row; mint a fresh one
		code, qrData, err = remint(ctx)
		if err != nil {
			return nil, err
		}
	}
	return nil, fmt.Errorf("coupon code collisions exhausted %d attempts", maxCodeAttempts)
}

// AppendLog inserts one append-only usage log entry.
func (r *Repository) AppendLog(ctx context.Context, entry models.UsageLog) error {
	const q = `INSERT INTO coupon_usage_logs (coupon_id, action, partner_id, partner_name, staff_name)
		VALUES ($1, $2, $3, $4, $5)`
	if _, err := r.pool.Exec(ctx, q, entry.CouponID, entry.Action, entry.PartnerID, entry.PartnerName, entry.StaffName); err != nil {
		return fmt.Errorf("append usage log: %w", err)
	}
	return nil
}

// ListByReservation returns every coupon minted for a reservation.
func (r *Repository) ListByReservation(ctx context.Context, reservationID uuid.UUID) ([]models.Coupon, error) {
	q := `SELECT ` + couponColumns + ` FROM coupons WHERE reservation_id = $1 ORDER BY created_at`
	rows, err := r.pool.Query(ctx, q, reservationID)
	if err != nil {
		return nil, fmt.Errorf("list coupons: %w", err)
	}
	defer rows.Close()

	var list []models.Coupon
	for rows.Next() {
		c, err := scanCoupon(rows)
		if err != nil {
			return nil, fmt.Errorf("scan coupon: %w", err)
		}
		list = append(list, *c)
	}
	return list, rows.Err()
}

func scanCoupon(row pgx.Row) (*models.Coupon, error) {
	var c models.Coupon
	var status string
	err := row.Scan(&c.ID, &c.CouponCode, &c.ReservationID, &c.CustomerID, &c.LeisureProductID,
		&c.PartnerID, &c.QRData, &c.CustomerName, &c.CustomerPhone, &status, &c.ValidFrom,
		&c.ValidUntil, &c.UsedAt, &c.UsedByPartnerID, &c.UsedByStaffName, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	c.Status = models.Status(status)
	return &c, nil
}
