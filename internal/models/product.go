package models

import (
	"time"

	"github.com/google/uuid"
)

// LeisureProduct is a redeemable activity offered by a partner venue; read-only here.
type LeisureProduct struct {
	ID        uuid.UUID `json:"id"`
	PartnerID uuid.UUID `json:"partner_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
