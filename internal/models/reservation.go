package models

import (
	"time"

	"github.com/google/uuid"
)

// PaymentStatus values for reservations (owned by the booking subsystem).
const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
	PaymentStatusRefunded  = "refunded"
)

// Reservation is a paid booking; read-only here.
type Reservation struct {
	ID            uuid.UUID `json:"id"`
	CustomerName  string    `json:"customer_name"`
	CustomerPhone string    `json:"customer_phone"`
	NumPeople     int       `json:"num_people"`
	PaymentStatus string    `json:"payment_status"`
	CheckInDate   time.Time `json:"check_in_date"`
	CheckOutDate  time.Time `json:"check_out_date"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
