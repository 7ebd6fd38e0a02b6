// Package reservations reads bookings and their covered products. The data is
// owned by the booking subsystem; this service never writes it.
package reservations

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ys6448761-hue/yeosu-coupon-system/internal/models"
)

// Repository reads reservation and product data.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a reservations repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// GetByID returns a reservation, or nil when absent.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Reservation, error) {
	const q = `SELECT id, customer_name, customer_phone, num_people, payment_status,
		check_in_date, check_out_date, created_at, updated_at
		FROM reservations WHERE id = $1`
	var res models.Reservation
	err := r.pool.QueryRow(ctx, q, id).Scan(&res.ID, &res.CustomerName, &res.CustomerPhone,
		&res.NumPeople, &res.PaymentStatus, &res.CheckInDate, &res.CheckOutDate,
		&res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get reservation: %w", err)
	}
	return &res, nil
}

// ListEligibleProducts returns the leisure products covered by a reservation,
// via the reservation_products association.
func (r *Repository) ListEligibleProducts(ctx context.Context, reservationID uuid.UUID) ([]models.LeisureProduct, error) {
	const q = `SELECT p.id, p.partner_id, p.name, p.created_at, p.updated_at
		FROM leisure_products p
		JOIN reservation_products rp ON rp.leisure_product_id = p.id
		WHERE rp.reservation_id = $1
		ORDER BY p.name`
	rows, err := r.pool.Query(ctx, q, reservationID)
	if err != nil {
		return nil, fmt.Errorf("list eligible products: %w", err)
	}
	defer rows.Close()

	var list []models.LeisureProduct
	for rows.Next() {
		var p models.LeisureProduct
		if err := rows.Scan(&p.ID, &p.PartnerID, &p.Name, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}
