// Package coupons implements the coupon lifecycle: issuance for a paid
// reservation, scan (display) transitions, staff redemption, cancellation and
// lazy expiry, backed by an atomic conditional-update store primitive.
package coupons

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ys6448761-hue/yeosu-coupon-system/internal/models"
	"github.com/ys6448761-hue/yeosu-coupon-system/pkg/queue"
)

// CouponStore is the persistence interface the service needs.
type CouponStore interface {
	GetByCode(ctx context.Context, code string) (*models.Coupon, error)
	TryTransition(ctx context.Context, id uuid.UUID, from []models.Status, to models.Status, stamp *UseStamp) (bool, error)
	IssueAll(ctx context.Context, units []IssueUnit, remint RemintFunc) ([]models.Coupon, error)
	AppendLog(ctx context.Context, entry models.UsageLog) error
	ListByReservation(ctx context.Context, reservationID uuid.UUID) ([]models.Coupon, error)
}

// ReservationStore reads bookings and their covered products.
type ReservationStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Reservation, error)
	ListEligibleProducts(ctx context.Context, reservationID uuid.UUID) ([]models.LeisureProduct, error)
}

// QRRenderer renders a coupon code into displayable QR data and recovers
// codes from encrypted QR payloads.
type QRRenderer interface {
	DataURL(code string) (string, error)
	Decrypt(payload string) (string, error)
}

// Notifier enqueues post-redemption jobs.
type Notifier interface {
	EnqueueCouponUsed(ctx context.Context, payload queue.CouponUsedPayload) error
}

// Service implements the coupon lifecycle operations.
type Service struct {
	coupons      CouponStore
	reservations ReservationStore
	renderer     QRRenderer
	notifier     Notifier
	logger       *zap.Logger
	storeTimeout time.Duration
	now          func() time.Time
}

// NewService creates the coupon lifecycle service. notifier may be nil.
func NewService(coupons CouponStore, reservations ReservationStore, renderer QRRenderer, notifier Notifier, storeTimeout time.Duration, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if storeTimeout <= 0 {
		storeTimeout = 5 * time.Second
	}
	return &Service{
		coupons:      coupons,
		reservations: reservations,
		renderer:     renderer,
		notifier:     notifier,
		logger:       logger,
		storeTimeout: storeTimeout,
		now:          time.Now,
	}
}

// IssueRequest is the input for Issue.
type IssueRequest struct {
	ReservationID uuid.UUID
	CustomerID    *uuid.UUID
	PaymentKey    string
}

// RedeemRequest is the input for Redeem.
type RedeemRequest struct {
	Code      string
	PartnerID uuid.UUID
	StaffID   *uuid.UUID
	StaffName string
}

// CouponView is the caller-facing projection of a coupon.
type CouponView struct {
	ID            uuid.UUID     `json:"id"`
	CouponCode    string        `json:"coupon_code"`
	Status        models.Status `json:"status"`
	QRCodeURL     string        `json:"qr_code_url,omitempty"`
	CustomerName  string        `json:"customer_name,omitempty"`
	CustomerPhone string        `json:"customer_phone,omitempty"`
	ValidFrom     time.Time     `json:"valid_from"`
	ValidUntil    time.Time     `json:"valid_until"`
	UsedAt        *time.Time    `json:"used_at,omitempty"`
	UsedByStaff   string        `json:"used_by_staff,omitempty"`
}

// Issue validates a paid reservation and mints one coupon per eligible product
// per covered person, all in a single transaction.
func (s *Service) Issue(ctx context.Context, req IssueRequest) ([]CouponView, error) {
	if req.ReservationID == uuid.Nil || req.PaymentKey == "" {
		return nil, domainErr(KindInvalidInput, "reservation_id and payment_key are required")
	}

	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	resv, err := s.reservations.GetByID(ctx, req.ReservationID)
	if err != nil {
		return nil, storeFail(err)
	}
	if resv == nil {
		return nil, domainErr(KindReservationNotFound, "reservation not found")
	}
	if resv.PaymentStatus != models.PaymentStatusCompleted {
		return nil, domainErr(KindPaymentNotCompleted, "payment has not been completed")
	}

	products, err := s.reservations.ListEligibleProducts(ctx, req.ReservationID)
	if err != nil {
		return nil, storeFail(err)
	}
	if len(products) == 0 {
		return nil, domainErr(KindNoProducts, "no eligible leisure products for reservation")
	}

	units, err := s.buildUnits(ctx, resv, products, req.CustomerID)
	if err != nil {
		return nil, err
	}

	issued, err := s.coupons.IssueAll(ctx, units, s.mintUnit)
	if err != nil {
		var de *Error
		if errors.As(err, &de) {
			return nil, err
		}
		return nil, storeFail(err)
	}

	s.logger.Info("coupons issued",
		zap.String("reservation_id", resv.ID.String()),
		zap.Int("count", len(issued)))
	return views(issued), nil
}

// buildUnits generates a code and renders QR data for every (product, person)
// pair. Rendering runs concurrently; each unit is independent and write-once.
func (s *Service) buildUnits(ctx context.Context, resv *models.Reservation, products []models.LeisureProduct, customerID *uuid.UUID) ([]IssueUnit, error) {
	units := make([]IssueUnit, 0, len(products)*resv.NumPeople)
	for _, p := range products {
		for i := 0; i < resv.NumPeople; i++ {
			units = append(units, IssueUnit{
				ReservationID: resv.ID,
				CustomerID:    customerID,
				ProductID:     p.ID,
				PartnerID:     p.PartnerID,
				ProductName:   p.Name,
				CustomerName:  resv.CustomerName,
				CustomerPhone: resv.CustomerPhone,
				ValidFrom:     resv.CheckInDate,
				ValidUntil:    resv.CheckOutDate,
			})
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	for i := range units {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return storeFail(err)
			}
			code, qrData, err := s.mintUnit(ctx)
			if err != nil {
				return err
			}
			units[i].Code = code
			units[i].QRData = qrData
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return units, nil
}

// mintUnit generates one coupon code and its QR payload. Also used by the
// store to replace a code on collision.
func (s *Service) mintUnit(_ context.Context) (string, string, error) {
	code, err := GenerateCode()
	if err != nil {
		return "", "", wrapErr(KindInternal, "internal server error", err)
	}
	qrData, err := s.renderer.DataURL(code)
	if err != nil {
		return "", "", wrapErr(KindRenderError, "failed to render coupon QR", err)
	}
	return code, qrData, nil
}

// Scan resolves a presented coupon and transitions issued → in_use. Re-scans
// of an in_use coupon succeed again; used, cancelled and expired fail with
// their own kinds, and a scan past the validity window persists the expiry.
func (s *Service) Scan(ctx context.Context, code string, partnerID *uuid.UUID) (CouponView, error) {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	code = s.resolveCode(code)
	c, err := s.coupons.GetByCode(ctx, code)
	if err != nil {
		return CouponView{}, storeFail(err)
	}
	if c == nil {
		return CouponView{}, domainErr(KindCouponNotFound, "coupon not found")
	}
	if partnerID != nil && *partnerID != c.PartnerID {
		return CouponView{}, domainErr(KindPartnerMismatch, "coupon belongs to another partner")
	}

	if err := s.precheck(ctx, c); err != nil {
		return CouponView{}, err
	}

	ok, err := s.coupons.TryTransition(ctx, c.ID, []models.Status{models.StatusIssued, models.StatusInUse}, models.StatusInUse, nil)
	if err != nil {
		return CouponView{}, storeFail(err)
	}
	if !ok {
		// a concurrent writer moved the coupon to a terminal state
		return CouponView{}, s.rereadFailure(ctx, code)
	}

	c.Status = models.StatusInUse
	return view(*c), nil
}

// Redeem commits final consumption: staff confirms entry and the coupon
// transitions to used. The same precheck as Scan runs first, so expired or
// cancelled coupons cannot be redeemed through this path either.
func (s *Service) Redeem(ctx context.Context, req RedeemRequest) (CouponView, error) {
	if req.PartnerID == uuid.Nil || req.StaffName == "" {
		return CouponView{}, domainErr(KindInvalidInput, "partner_id and staff_name are required")
	}

	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	req.Code = s.resolveCode(req.Code)
	c, err := s.coupons.GetByCode(ctx, req.Code)
	if err != nil {
		return CouponView{}, storeFail(err)
	}
	if c == nil {
		return CouponView{}, domainErr(KindCouponNotFound, "coupon not found")
	}

	if err := s.precheck(ctx, c); err != nil {
		return CouponView{}, err
	}

	usedAt := s.now().UTC()
	stamp := &UseStamp{UsedAt: usedAt, PartnerID: req.PartnerID, StaffName: req.StaffName}
	ok, err := s.coupons.TryTransition(ctx, c.ID, []models.Status{models.StatusIssued, models.StatusInUse}, models.StatusUsed, stamp)
	if err != nil {
		return CouponView{}, storeFail(err)
	}
	if !ok {
		return CouponView{}, s.rereadFailure(ctx, req.Code)
	}

	entry := models.UsageLog{
		CouponID:  c.ID,
		Action:    models.ActionUsed,
		PartnerID: &req.PartnerID,
		StaffName: &req.StaffName,
	}
	if err := s.coupons.AppendLog(ctx, entry); err != nil {
		s.logger.Warn("usage log append failed", zap.Error(err), zap.String("coupon_id", c.ID.String()))
	}

	if s.notifier != nil {
		payload := queue.CouponUsedPayload{
			CouponID:  c.ID,
			PartnerID: req.PartnerID,
			StaffName: req.StaffName,
			UsedAt:    usedAt,
		}
		if err := s.notifier.EnqueueCouponUsed(ctx, payload); err != nil {
			s.logger.Warn("settlement enqueue failed", zap.Error(err), zap.String("coupon_id", c.ID.String()))
		}
	}

	s.logger.Info("coupon redeemed",
		zap.String("coupon_code", c.CouponCode),
		zap.String("partner_id", req.PartnerID.String()),
		zap.String("staff_name", req.StaffName))

	c.Status = models.StatusUsed
	c.UsedAt = &usedAt
	c.UsedByPartnerID = &req.PartnerID
	c.UsedByStaffName = &req.StaffName
	return view(*c), nil
}

// Cancel voids a coupon that has not been consumed yet (issued or in_use).
func (s *Service) Cancel(ctx context.Context, code string) (CouponView, error) {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	code = s.resolveCode(code)
	c, err := s.coupons.GetByCode(ctx, code)
	if err != nil {
		return CouponView{}, storeFail(err)
	}
	if c == nil {
		return CouponView{}, domainErr(KindCouponNotFound, "coupon not found")
	}

	if err := s.precheck(ctx, c); err != nil {
		return CouponView{}, err
	}

	ok, err := s.coupons.TryTransition(ctx, c.ID, []models.Status{models.StatusIssued, models.StatusInUse}, models.StatusCancelled, nil)
	if err != nil {
		return CouponView{}, storeFail(err)
	}
	if !ok {
		return CouponView{}, s.rereadFailure(ctx, code)
	}

	entry := models.UsageLog{CouponID: c.ID, Action: models.ActionCancelled, PartnerID: &c.PartnerID}
	if err := s.coupons.AppendLog(ctx, entry); err != nil {
		s.logger.Warn("usage log append failed", zap.Error(err), zap.String("coupon_id", c.ID.String()))
	}

	c.Status = models.StatusCancelled
	return view(*c), nil
}

// ListForReservation returns every coupon minted for a reservation.
func (s *Service) ListForReservation(ctx context.Context, reservationID uuid.UUID) ([]CouponView, error) {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	list, err := s.coupons.ListByReservation(ctx, reservationID)
	if err != nil {
		return nil, storeFail(err)
	}
	return views(list), nil
}

// precheck rejects terminal coupons and persists lazy expiry. Shared by Scan,
// Redeem and Cancel so no path can move an expired or cancelled coupon.
func (s *Service) precheck(ctx context.Context, c *models.Coupon) error {
	switch c.Status {
	case models.StatusUsed:
		msg := "coupon already used"
		if c.UsedAt != nil {
			msg = fmt.Sprintf("coupon already used at %s", c.UsedAt.UTC().Format(time.RFC3339))
		}
		return domainErr(KindCouponAlreadyUsed, msg)
	case models.StatusCancelled:
		return domainErr(KindCouponCancelled, "coupon has been cancelled")
	case models.StatusExpired:
		return expiredErr(c.ValidUntil)
	}

	if pastValidity(s.now(), c.ValidUntil) {
		// persist the expiry; the guard keeps terminal states intact
		ok, err := s.coupons.TryTransition(ctx, c.ID, []models.Status{models.StatusIssued, models.StatusInUse}, models.StatusExpired, nil)
		if err != nil {
			return storeFail(err)
		}
		if !ok {
			// a concurrent writer reached a terminal state first; report that
			// state instead of the expiry
			fresh, err := s.coupons.GetByCode(ctx, c.CouponCode)
			if err != nil {
				return storeFail(err)
			}
			if fresh != nil && fresh.Status != c.Status {
				return s.precheck(ctx, fresh)
			}
		}
		return expiredErr(c.ValidUntil)
	}
	return nil
}

// resolveCode recovers the coupon code from an encrypted QR payload. Plain
// codes (manual entry, or no encryption key configured) pass through unchanged.
func (s *Service) resolveCode(raw string) string {
	code, err := s.renderer.Decrypt(raw)
	if err != nil {
		return raw
	}
	return code
}

// rereadFailure reports the terminal state that won a transition race.
func (s *Service) rereadFailure(ctx context.Context, code string) error {
	c, err := s.coupons.GetByCode(ctx, code)
	if err != nil {
		return storeFail(err)
	}
	if c == nil {
		return domainErr(KindCouponNotFound, "coupon not found")
	}
	if err := s.precheck(ctx, c); err != nil {
		return err
	}
	return domainErr(KindCouponAlreadyUsed, "coupon state changed concurrently")
}

// pastValidity reports whether now falls after the inclusive valid_until date.
func pastValidity(now, validUntil time.Time) bool {
	return !now.Before(validUntil.AddDate(0, 0, 1))
}

func expiredErr(validUntil time.Time) *Error {
	return domainErr(KindCouponExpired, fmt.Sprintf("coupon expired on %s", validUntil.Format("2006-01-02")))
}

// storeFail maps infrastructure errors: deadline and connection timeouts are
// retryable StoreUnavailable, everything else degrades to Internal.
func storeFail(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) || pgconn.Timeout(err) {
		return wrapErr(KindStoreUnavailable, "datastore unavailable, retry later", err)
	}
	return wrapErr(KindInternal, "internal server error", err)
}

func view(c models.Coupon) CouponView {
	v := CouponView{
		ID:            c.ID,
		CouponCode:    c.CouponCode,
		Status:        c.Status,
		QRCodeURL:     c.QRData,
		CustomerName:  c.CustomerName,
		CustomerPhone: c.CustomerPhone,
		ValidFrom:     c.ValidFrom,
		ValidUntil:    c.ValidUntil,
		UsedAt:        c.UsedAt,
	}
	if c.UsedByStaffName != nil {
		v.UsedByStaff = *c.UsedByStaffName
	}
	return v
}

func views(list []models.Coupon) []CouponView {
	out := make([]CouponView, 0, len(list))
	for _, c := range list {
		out = append(out, view(c))
	}
	return out
}
