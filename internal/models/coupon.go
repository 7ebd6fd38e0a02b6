package models

import (
	"time"

	"github.com/google/uuid"
)

// Status is a coupon lifecycle state. Transitions are monotonic: used,
// expired and cancelled are terminal; in_use may be re-entered by
// repeated scans until a terminal state is reached.
type Status string

const (
	StatusIssued    Status = "issued"
	StatusInUse     Status = "in_use"
	StatusUsed      Status = "used"
	StatusExpired   Status = "expired"
	StatusCancelled Status = "cancelled"
)

// Terminal reports whether no further transition is allowed out of s.
func (s Status) Terminal() bool {
	return s == StatusUsed || s == StatusExpired || s == StatusCancelled
}

// Usage log actions.
const (
	ActionIssued    = "issued"
	ActionUsed      = "used"
	ActionCancelled = "cancelled"
)

// Coupon is a single-use entitlement to one unit of one leisure product,
// tied to one reservation. coupon_code is unique and immutable after creation.
type Coupon struct {
	ID               uuid.UUID  `json:"id"`
	CouponCode       string     `json:"coupon_code"`
	ReservationID    uuid.UUID  `json:"reservation_id"`
	CustomerID       *uuid.UUID `json:"customer_id,omitempty"`
	LeisureProductID uuid.UUID  `json:"leisure_product_id"`
	PartnerID        uuid.UUID  `json:"partner_id"`
	QRData           string     `json:"qr_data"`
	CustomerName     string     `json:"customer_name"`
	CustomerPhone    string     `json:"customer_phone"`
	Status           Status     `json:"status"`
	ValidFrom        time.Time  `json:"valid_from"`
	ValidUntil       time.Time  `json:"valid_until"`
	UsedAt           *time.Time `json:"used_at,omitempty"`
	UsedByPartnerID  *uuid.UUID `json:"used_by_partner_id,omitempty"`
	UsedByStaffName  *string    `json:"used_by_staff_name,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// UsageLog is an append-only audit record of one lifecycle transition.
type UsageLog struct {
	ID          uuid.UUID  `json:"id"`
	CouponID    uuid.UUID  `json:"coupon_id"`
	Action      string     `json:"action"`
	PartnerID   *uuid.UUID `json:"partner_id,omitempty"`
	PartnerName *string    `json:"partner_name,omitempty"`
	StaffName   *string    `json:"staff_name,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}
