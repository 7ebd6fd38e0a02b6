package coupons

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ys6448761-hue/yeosu-coupon-system/pkg/response"
)

// Lifecycle is the service surface the HTTP handler depends on.
type Lifecycle interface {
	Issue(ctx context.Context, req IssueRequest) ([]CouponView, error)
	Scan(ctx context.Context, code string, partnerID *uuid.UUID) (CouponView, error)
	Redeem(ctx context.Context, req RedeemRequest) (CouponView, error)
	Cancel(ctx context.Context, code string) (CouponView, error)
	ListForReservation(ctx context.Context, reservationID uuid.UUID) ([]CouponView, error)
}

// Handler handles coupon HTTP endpoints.
type Handler struct {
	svc    Lifecycle
	logger *zap.Logger
}

// NewHandler creates a coupons handler.
func NewHandler(svc Lifecycle, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{svc: svc, logger: logger}
}

// IssueCouponsRequest is the body for POST /api/coupons/issue.
type IssueCouponsRequest struct {
	ReservationID string `json:"reservation_id"`
	CustomerID    string `json:"customer_id,omitempty"`
	PaymentKey    string `json:"payment_key"`
}

// UseCouponRequest is the body for POST /api/coupons/:code/use.
type UseCouponRequest struct {
	PartnerID string `json:"partner_id"`
	StaffID   string `json:"staff_id,omitempty"`
	StaffName string `json:"staff_name"`
}

// Issue handles POST /api/coupons/issue.
func (h *Handler) Issue(c *gin.Context) {
	var req IssueCouponsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, string(KindInvalidInput), "invalid request body")
		return
	}
	if req.ReservationID == "" || req.PaymentKey == "" {
		response.BadRequest(c, string(KindInvalidInput), "reservation_id and payment_key are required")
		return
	}
	reservationID, err := uuid.Parse(req.ReservationID)
	if err != nil {
		response.BadRequest(c, string(KindInvalidInput), "invalid reservation_id")
		return
	}
	var customerID *uuid.UUID
	if req.CustomerID != "" {
		id, err := uuid.Parse(req.CustomerID)
		if err != nil {
			response.BadRequest(c, string(KindInvalidInput), "invalid customer_id")
			return
		}
		customerID = &id
	}

	issued, err := h.svc.Issue(c.Request.Context(), IssueRequest{
		ReservationID: reservationID,
		CustomerID:    customerID,
		PaymentKey:    req.PaymentKey,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, gin.H{"issued_coupons": issued, "count": len(issued)})
}

// Scan handles GET /api/coupons/:code. A successful scan transitions the
// coupon to in_use.
func (h *Handler) Scan(c *gin.Context) {
	code := c.Param("code")
	var partnerID *uuid.UUID
	if raw := c.Query("partner_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(c, string(KindInvalidInput), "invalid partner_id")
			return
		}
		partnerID = &id
	}

	v, err := h.svc.Scan(c.Request.Context(), code, partnerID)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, gin.H{"coupon": v})
}

// Use handles POST /api/coupons/:code/use.
func (h *Handler) Use(c *gin.Context) {
	var req UseCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, string(KindInvalidInput), "invalid request body")
		return
	}
	if req.PartnerID == "" || req.StaffName == "" {
		response.BadRequest(c, string(KindInvalidInput), "partner_id and staff_name are required")
		return
	}
	partnerID, err := uuid.Parse(req.PartnerID)
	if err != nil {
		response.BadRequest(c, string(KindInvalidInput), "invalid partner_id")
		return
	}
	var staffID *uuid.UUID
	if req.StaffID != "" {
		id, err := uuid.Parse(req.StaffID)
		if err != nil {
			response.BadRequest(c, string(KindInvalidInput), "invalid staff_id")
			return
		}
		staffID = &id
	}

	v, err := h.svc.Redeem(c.Request.Context(), RedeemRequest{
		Code:      c.Param("code"),
		PartnerID: partnerID,
		StaffID:   staffID,
		StaffName: req.StaffName,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, gin.H{"coupon": v})
}

// CancelCoupon handles POST /api/coupons/:code/cancel.
func (h *Handler) CancelCoupon(c *gin.Context) {
	v, err := h.svc.Cancel(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, gin.H{"coupon": v})
}

// ListByReservation handles GET /api/reservations/:id/coupons.
func (h *Handler) ListByReservation(c *gin.Context) {
	reservationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, string(KindInvalidInput), "invalid reservation id")
		return
	}
	list, err := h.svc.ListForReservation(c.Request.Context(), reservationID)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, gin.H{"coupons": list, "count": len(list)})
}

// fail maps a domain error kind to its HTTP status. Unexpected errors are
// logged in full and surfaced as a generic internal error.
func (h *Handler) fail(c *gin.Context, err error) {
	kind := KindOf(err)
	msg := MessageOf(err)
	switch kind {
	case KindInvalidInput, KindReservationNotFound, KindNoProducts:
		response.BadRequest(c, string(kind), msg)
	case KindPaymentNotCompleted:
		response.Unauthorized(c, string(kind), msg)
	case KindPartnerMismatch:
		response.Forbidden(c, string(kind), msg)
	case KindCouponNotFound:
		response.NotFound(c, string(kind), msg)
	case KindCouponAlreadyUsed, KindCouponCancelled:
		response.Conflict(c, string(kind), msg)
	case KindCouponExpired:
		response.Gone(c, string(kind), msg)
	case KindStoreUnavailable:
		response.ServiceUnavailable(c, string(kind), msg)
	case KindRenderError:
		h.logger.Error("qr render failed", zap.Error(err), zap.String("path", c.Request.URL.Path))
		response.Internal(c, string(kind), msg)
	default:
		h.logger.Error("unexpected error", zap.Error(err), zap.String("path", c.Request.URL.Path))
		response.Internal(c, string(KindInternal), "internal server error")
	}
}
