package coupons

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/ys6448761-hue/yeosu-coupon-system/internal/models"
	"github.com/ys6448761-hue/yeosu-coupon-system/pkg/queue"
)

var testNow = time.Date(2026, 7, 15, 12, 0, 0, 0, time.UTC)

// --- fakes ---

type fakeCouponStore struct {
	mu    sync.Mutex
	byID  map[uuid.UUID]*models.Coupon
	codes map[string]uuid.UUID
	logs  []models.UsageLog

	// beforeTransition runs once inside the next TryTransition, before the
	// status check, to simulate a writer winning the race.
	beforeTransition func()
}

func newFakeCouponStore() *fakeCouponStore {
	return &fakeCouponStore{
		byID:  make(map[uuid.UUID]*models.Coupon),
		codes: make(map[string]uuid.UUID),
	}
}

func (f *fakeCouponStore) GetByCode(_ context.Context, code string) (*models.Coupon, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id, ok := f.codes[code]
	if !ok {
		return nil, nil
	}
	c := *f.byID[id]
	return &c, nil
}

func (f *fakeCouponStore) TryTransition(_ context.Context, id uuid.UUID, from []models.Status, to models.Status, stamp *UseStamp) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.beforeTransition != nil {
		hook := f.beforeTransition
		f.beforeTransition = nil
		hook()
	}
	c, ok := f.byID[id]
	if !ok {
		return false, nil
	}
	allowed := false
	for _, s := range from {
		if c.Status == s {
			allowed = true
			break
		}
	}
	if !allowed {
		return false, nil
	}
	c.Status = to
	if stamp != nil {
		usedAt := stamp.UsedAt
		partnerID := stamp.PartnerID
		staff := stamp.StaffName
		c.UsedAt = &usedAt
		c.UsedByPartnerID = &partnerID
		c.UsedByStaffName = &staff
	}
	return true, nil
}

func (f *fakeCouponStore) IssueAll(ctx context.Context, units []IssueUnit, remint RemintFunc) ([]models.Coupon, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	issued := make([]models.Coupon, 0, len(units))
	for _, u := range units {
		code, qrData := u.Code, u.QRData
		for attempt := 0; ; attempt++ {
			if _, taken := f.codes[code]; !taken {
				break
			}
			if attempt >= 2 {
				return nil, fmt.Errorf("code collisions exhausted")
			}
			var err error
			code, qrData, err = remint(ctx)
			if err != nil {
				return nil, err
			}
		}
		c := models.Coupon{
			ID:               uuid.New(),
			CouponCode:       code,
			ReservationID:    u.ReservationID,
			CustomerID:       u.CustomerID,
			LeisureProductID: u.ProductID,
			PartnerID:        u.PartnerID,
			QRData:           qrData,
			CustomerName:     u.CustomerName,
			CustomerPhone:    u.CustomerPhone,
			Status:           models.StatusIssued,
			ValidFrom:        u.ValidFrom,
			ValidUntil:       u.ValidUntil,
			CreatedAt:        testNow,
			UpdatedAt:        testNow,
		}
		f.byID[c.ID] = &c
		f.codes[c.CouponCode] = c.ID
		pid := u.PartnerID
		name := u.ProductName
		f.logs = append(f.logs, models.UsageLog{CouponID: c.ID, Action: models.ActionIssued, PartnerID: &pid, PartnerName: &name})
		issued = append(issued, c)
	}
	return issued, nil
}

func (f *fakeCouponStore) AppendLog(_ context.Context, entry models.UsageLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logs = append(f.logs, entry)
	return nil
}

func (f *fakeCouponStore) ListByReservation(_ context.Context, reservationID uuid.UUID) ([]models.Coupon, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var list []models.Coupon
	for _, c := range f.byID {
		if c.ReservationID == reservationID {
			list = append(list, *c)
		}
	}
	return list, nil
}

// seed inserts a coupon directly, bypassing issuance.
func (f *fakeCouponStore) seed(c models.Coupon) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := c
	f.byID[cp.ID] = &cp
	f.codes[cp.CouponCode] = cp.ID
}

func (f *fakeCouponStore) statusOf(id uuid.UUID) models.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.byID[id].Status
}

func (f *fakeCouponStore) logActions() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	actions := make([]string, 0, len(f.logs))
	for _, l := range f.logs {
		actions = append(actions, l.Action)
	}
	return actions
}

type fakeReservationStore struct {
	reservations map[uuid.UUID]*models.Reservation
	products     map[uuid.UUID][]models.LeisureProduct
}

func newFakeReservationStore() *fakeReservationStore {
	return &fakeReservationStore{
		reservations: make(map[uuid.UUID]*models.Reservation),
		products:     make(map[uuid.UUID][]models.LeisureProduct),
	}
}

func (f *fakeReservationStore) GetByID(_ context.Context, id uuid.UUID) (*models.Reservation, error) {
	r, ok := f.reservations[id]
	if !ok {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

func (f *fakeReservationStore) ListEligibleProducts(_ context.Context, reservationID uuid.UUID) ([]models.LeisureProduct, error) {
	return f.products[reservationID], nil
}

type fakeRenderer struct {
	fail bool
	// decoded maps encrypted QR payloads to plain codes; nil means no
	// encryption key is configured and payloads pass through unchanged.
	decoded map[string]string
}

func (f *fakeRenderer) DataURL(code string) (string, error) {
	if f.fail {
		return "", fmt.Errorf("qr encoder broke")
	}
	return "data:image/png;base64,TEST-" + code, nil
}

func (f *fakeRenderer) Decrypt(payload string) (string, error) {
	if f.decoded == nil {
		return payload, nil
	}
	if code, ok := f.decoded[payload]; ok {
		return code, nil
	}
	return "", fmt.Errorf("malformed encrypted payload")
}

type fakeNotifier struct {
	mu       sync.Mutex
	payloads []queue.CouponUsedPayload
}

func (f *fakeNotifier) EnqueueCouponUsed(_ context.Context, p queue.CouponUsedPayload) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.payloads = append(f.payloads, p)
	return nil
}

// --- fixture ---

type fixture struct {
	svc      *Service
	coupons  *fakeCouponStore
	resv     *fakeReservationStore
	notifier *fakeNotifier
	renderer *fakeRenderer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		coupons:  newFakeCouponStore(),
		resv:     newFakeReservationStore(),
		notifier: &fakeNotifier{},
		renderer: &fakeRenderer{},
	}
	f.svc = NewService(f.coupons, f.resv, f.renderer, f.notifier, 5*time.Second, nil)
	f.svc.now = func() time.Time { return testNow }
	return f
}

func (f *fixture) addReservation(numPeople int, paymentStatus string) uuid.UUID {
	id := uuid.New()
	f.resv.reservations[id] = &models.Reservation{
		ID:            id,
		CustomerName:  "Hong Gildong",
		CustomerPhone: "010-1234-5678",
		NumPeople:     numPeople,
		PaymentStatus: paymentStatus,
		CheckInDate:   time.Date(2026, 7, 14, 0, 0, 0, 0, time.UTC),
		CheckOutDate:  time.Date(2026, 7, 16, 0, 0, 0, 0, time.UTC),
	}
	return id
}

func (f *fixture) addProducts(reservationID uuid.UUID, n int) []models.LeisureProduct {
	for i := 0; i < n; i++ {
		f.resv.products[reservationID] = append(f.resv.products[reservationID], models.LeisureProduct{
			ID:        uuid.New(),
			PartnerID: uuid.New(),
			Name:      fmt.Sprintf("Activity %d", i+1),
		})
	}
	return f.resv.products[reservationID]
}

func (f *fixture) seedCoupon(status models.Status, validUntil time.Time) models.Coupon {
	code, _ := GenerateCode()
	c := models.Coupon{
		ID:            uuid.New(),
		CouponCode:    code,
		ReservationID: uuid.New(),
		PartnerID:     uuid.New(),
		Status:        status,
		ValidFrom:     validUntil.AddDate(0, 0, -2),
		ValidUntil:    validUntil,
	}
	f.coupons.seed(c)
	return c
}

func issueRequest(reservationID uuid.UUID) IssueRequest {
	return IssueRequest{ReservationID: reservationID, PaymentKey: "pay_abc123"}
}

// --- issuance ---

func TestIssueCreatesCouponPerProductPerPerson(t *testing.T) {
	f := newFixture(t)
	resvID := f.addReservation(3, models.PaymentStatusCompleted)
	f.addProducts(resvID, 2)

	issued, err := f.svc.Issue(context.Background(), issueRequest(resvID))
	require.NoError(t, err)
	require.Len(t, issued, 6)

	codes := make(map[string]bool)
	for _, v := range issued {
		require.Equal(t, models.StatusIssued, v.Status)
		require.Len(t, v.CouponCode, 9)
		require.False(t, codes[v.CouponCode], "duplicate code %s", v.CouponCode)
		codes[v.CouponCode] = true
		require.Equal(t, "data:image/png;base64,TEST-"+v.CouponCode, v.QRCodeURL)
		require.Equal(t, "Hong Gildong", v.CustomerName)
		require.Equal(t, time.Date(2026, 7, 14, 0, 0, 0, 0, time.UTC), v.ValidFrom)
		require.Equal(t, time.Date(2026, 7, 16, 0, 0, 0, 0, time.UTC), v.ValidUntil)
	}

	actions := f.coupons.logActions()
	require.Len(t, actions, 6)
	for _, a := range actions {
		require.Equal(t, models.ActionIssued, a)
	}
}

func TestIssueValidationOrder(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Issue(context.Background(), IssueRequest{PaymentKey: "pay_abc"})
	require.Equal(t, KindInvalidInput, KindOf(err))

	_, err = f.svc.Issue(context.Background(), IssueRequest{ReservationID: uuid.New()})
	require.Equal(t, KindInvalidInput, KindOf(err))

	_, err = f.svc.Issue(context.Background(), issueRequest(uuid.New()))
	require.Equal(t, KindReservationNotFound, KindOf(err))

	pending := f.addReservation(2, models.PaymentStatusPending)
	f.addProducts(pending, 1)
	_, err = f.svc.Issue(context.Background(), issueRequest(pending))
	require.Equal(t, KindPaymentNotCompleted, KindOf(err))
	require.Empty(t, f.coupons.byID, "no coupons may be persisted for unpaid reservations")

	noProducts := f.addReservation(2, models.PaymentStatusCompleted)
	_, err = f.svc.Issue(context.Background(), issueRequest(noProducts))
	require.Equal(t, KindNoProducts, KindOf(err))
	require.Empty(t, f.coupons.byID)
}

func TestIssueRenderFailureIssuesNothing(t *testing.T) {
	f := newFixture(t)
	f.renderer.fail = true
	resvID := f.addReservation(2, models.PaymentStatusCompleted)
	f.addProducts(resvID, 1)

	_, err := f.svc.Issue(context.Background(), issueRequest(resvID))
	require.Equal(t, KindRenderError, KindOf(err))
	require.Empty(t, f.coupons.byID)
}

// --- scan ---

func TestScanTransitionsIssuedToInUse(t *testing.T) {
	f := newFixture(t)
	c := f.seedCoupon(models.StatusIssued, time.Date(2026, 7, 16, 0, 0, 0, 0, time.UTC))

	v, err := f.svc.Scan(context.Background(), c.CouponCode, nil)
	require.NoError(t, err)
	require.Equal(t, models.StatusInUse, v.Status)
	require.Equal(t, models.StatusInUse, f.coupons.statusOf(c.ID))

	// re-scan of an in_use coupon succeeds again
	v, err = f.svc.Scan(context.Background(), c.CouponCode, nil)
	require.NoError(t, err)
	require.Equal(t, models.StatusInUse, v.Status)
}

func TestScanUnknownCode(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Scan(context.Background(), "NOPE12345", nil)
	require.Equal(t, KindCouponNotFound, KindOf(err))
}

func TestScanPartnerMismatch(t *testing.T) {
	f := newFixture(t)
	c := f.seedCoupon(models.StatusIssued, time.Date(2026, 7, 16, 0, 0, 0, 0, time.UTC))

	other := uuid.New()
	_, err := f.svc.Scan(context.Background(), c.CouponCode, &other)
	require.Equal(t, KindPartnerMismatch, KindOf(err))
	require.Equal(t, models.StatusIssued, f.coupons.statusOf(c.ID), "mismatch must not transition")

	v, err := f.svc.Scan(context.Background(), c.CouponCode, &c.PartnerID)
	require.NoError(t, err)
	require.Equal(t, models.StatusInUse, v.Status)
}

func TestScanExpiredCouponPersistsExpiry(t *testing.T) {
	f := newFixture(t)
	c := f.seedCoupon(models.StatusIssued, time.Date(2026, 7, 10, 0, 0, 0, 0, time.UTC))

	_, err := f.svc.Scan(context.Background(), c.CouponCode, nil)
	require.Equal(t, KindCouponExpired, KindOf(err))
	require.Equal(t, models.StatusExpired, f.coupons.statusOf(c.ID))

	// stays expired on subsequent scans
	_, err = f.svc.Scan(context.Background(), c.CouponCode, nil)
	require.Equal(t, KindCouponExpired, KindOf(err))
}

func TestScanResolvesEncryptedQRPayload(t *testing.T) {
	f := newFixture(t)
	c := f.seedCoupon(models.StatusIssued, time.Date(2026, 7, 16, 0, 0, 0, 0, time.UTC))
	payload := "6976a1b2:63741c2d3e4f5061"
	f.renderer.decoded = map[string]string{payload: c.CouponCode}

	v, err := f.svc.Scan(context.Background(), payload, nil)
	require.NoError(t, err)
	require.Equal(t, c.CouponCode, v.CouponCode)
	require.Equal(t, models.StatusInUse, v.Status)

	// a manually entered plain code still resolves with a key configured
	v, err = f.svc.Scan(context.Background(), c.CouponCode, nil)
	require.NoError(t, err)
	require.Equal(t, c.CouponCode, v.CouponCode)

	// redeem accepts the scanned payload as-is
	redeemed, err := f.svc.Redeem(context.Background(), RedeemRequest{
		Code:      payload,
		PartnerID: c.PartnerID,
		StaffName: "Kim Staff",
	})
	require.NoError(t, err)
	require.Equal(t, models.StatusUsed, redeemed.Status)
}

func TestScanValidThroughEntireLastDay(t *testing.T) {
	f := newFixture(t)
	// valid_until equals today; coupon is still usable all day
	c := f.seedCoupon(models.StatusIssued, time.Date(2026, 7, 15, 0, 0, 0, 0, time.UTC))

	v, err := f.svc.Scan(context.Background(), c.CouponCode, nil)
	require.NoError(t, err)
	require.Equal(t, models.StatusInUse, v.Status)
}

func TestScanExpiryLosingRaceReportsWinner(t *testing.T) {
	f := newFixture(t)
	c := f.seedCoupon(models.StatusIssued, time.Date(2026, 7, 10, 0, 0, 0, 0, time.UTC))

	// a redeem commits between the read and the expiry write
	usedAt := testNow
	f.coupons.beforeTransition = func() {
		won := f.coupons.byID[c.ID]
		won.Status = models.StatusUsed
		won.UsedAt = &usedAt
	}

	_, err := f.svc.Scan(context.Background(), c.CouponCode, nil)
	require.Equal(t, KindCouponAlreadyUsed, KindOf(err))
	require.Equal(t, models.StatusUsed, f.coupons.statusOf(c.ID))
}

func TestScanTerminalStatesTakePrecedenceOverExpiry(t *testing.T) {
	f := newFixture(t)
	past := time.Date(2026, 7, 10, 0, 0, 0, 0, time.UTC)

	used := f.seedCoupon(models.StatusUsed, past)
	_, err := f.svc.Scan(context.Background(), used.CouponCode, nil)
	require.Equal(t, KindCouponAlreadyUsed, KindOf(err))
	require.Equal(t, models.StatusUsed, f.coupons.statusOf(used.ID))

	cancelled := f.seedCoupon(models.StatusCancelled, past)
	_, err = f.svc.Scan(context.Background(), cancelled.CouponCode, nil)
	require.Equal(t, KindCouponCancelled, KindOf(err))
	require.Equal(t, models.StatusCancelled, f.coupons.statusOf(cancelled.ID))
}

// --- redeem ---

func TestRedeemStampsAndLogs(t *testing.T) {
	f := newFixture(t)
	c := f.seedCoupon(models.StatusInUse, time.Date(2026, 7, 16, 0, 0, 0, 0, time.UTC))

	v, err := f.svc.Redeem(context.Background(), RedeemRequest{
		Code:      c.CouponCode,
		PartnerID: c.PartnerID,
		StaffName: "Kim Staff",
	})
	require.NoError(t, err)
	require.Equal(t, models.StatusUsed, v.Status)
	require.NotNil(t, v.UsedAt)
	require.Equal(t, testNow, v.UsedAt.UTC())
	require.Equal(t, "Kim Staff", v.UsedByStaff)

	require.Contains(t, f.coupons.logActions(), models.ActionUsed)
	require.Len(t, f.notifier.payloads, 1)
	require.Equal(t, c.ID, f.notifier.payloads[0].CouponID)
}

func TestRedeemRequiresPartnerAndStaff(t *testing.T) {
	f := newFixture(t)
	c := f.seedCoupon(models.StatusIssued, time.Date(2026, 7, 16, 0, 0, 0, 0, time.UTC))

	_, err := f.svc.Redeem(context.Background(), RedeemRequest{Code: c.CouponCode, StaffName: "Kim"})
	require.Equal(t, KindInvalidInput, KindOf(err))

	_, err = f.svc.Redeem(context.Background(), RedeemRequest{Code: c.CouponCode, PartnerID: uuid.New()})
	require.Equal(t, KindInvalidInput, KindOf(err))
}

func TestRedeemTwiceRejectsSecond(t *testing.T) {
	f := newFixture(t)
	c := f.seedCoupon(models.StatusIssued, time.Date(2026, 7, 16, 0, 0, 0, 0, time.UTC))
	req := RedeemRequest{Code: c.CouponCode, PartnerID: c.PartnerID, StaffName: "Kim Staff"}

	_, err := f.svc.Redeem(context.Background(), req)
	require.NoError(t, err)

	_, err = f.svc.Redeem(context.Background(), req)
	require.Equal(t, KindCouponAlreadyUsed, KindOf(err))
	require.Len(t, f.notifier.payloads, 1, "no double settlement accrual")
}

func TestRedeemRejectsExpiredAndCancelled(t *testing.T) {
	f := newFixture(t)

	// expired by date but not yet persisted as such: redeem must refuse and
	// persist the expiry instead of consuming the coupon
	stale := f.seedCoupon(models.StatusIssued, time.Date(2026, 7, 10, 0, 0, 0, 0, time.UTC))
	_, err := f.svc.Redeem(context.Background(), RedeemRequest{Code: stale.CouponCode, PartnerID: stale.PartnerID, StaffName: "Kim"})
	require.Equal(t, KindCouponExpired, KindOf(err))
	require.Equal(t, models.StatusExpired, f.coupons.statusOf(stale.ID))

	cancelled := f.seedCoupon(models.StatusCancelled, time.Date(2026, 7, 16, 0, 0, 0, 0, time.UTC))
	_, err = f.svc.Redeem(context.Background(), RedeemRequest{Code: cancelled.CouponCode, PartnerID: cancelled.PartnerID, StaffName: "Kim"})
	require.Equal(t, KindCouponCancelled, KindOf(err))
	require.Equal(t, models.StatusCancelled, f.coupons.statusOf(cancelled.ID))
}

func TestConcurrentRedeemExactlyOneSucceeds(t *testing.T) {
	f := newFixture(t)
	c := f.seedCoupon(models.StatusIssued, time.Date(2026, 7, 16, 0, 0, 0, 0, time.UTC))

	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.Redeem(context.Background(), RedeemRequest{
				Code:      c.CouponCode,
				PartnerID: c.PartnerID,
				StaffName: fmt.Sprintf("Staff %d", i),
			})
		}(i)
	}
	wg.Wait()

	successes, alreadyUsed := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		case KindOf(err) == KindCouponAlreadyUsed:
			alreadyUsed++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	require.Equal(t, 1, successes)
	require.Equal(t, workers-1, alreadyUsed)
	require.Len(t, f.notifier.payloads, 1)
}

// --- cancel ---

func TestCancelLifecycle(t *testing.T) {
	f := newFixture(t)
	c := f.seedCoupon(models.StatusIssued, time.Date(2026, 7, 16, 0, 0, 0, 0, time.UTC))

	v, err := f.svc.Cancel(context.Background(), c.CouponCode)
	require.NoError(t, err)
	require.Equal(t, models.StatusCancelled, v.Status)
	require.Contains(t, f.coupons.logActions(), models.ActionCancelled)

	// cancellation is terminal
	_, err = f.svc.Cancel(context.Background(), c.CouponCode)
	require.Equal(t, KindCouponCancelled, KindOf(err))

	used := f.seedCoupon(models.StatusUsed, time.Date(2026, 7, 16, 0, 0, 0, 0, time.UTC))
	_, err = f.svc.Cancel(context.Background(), used.CouponCode)
	require.Equal(t, KindCouponAlreadyUsed, KindOf(err))
	require.Equal(t, models.StatusUsed, f.coupons.statusOf(used.ID))
}

// --- listing ---

func TestListForReservation(t *testing.T) {
	f := newFixture(t)
	resvID := f.addReservation(2, models.PaymentStatusCompleted)
	f.addProducts(resvID, 1)

	issued, err := f.svc.Issue(context.Background(), issueRequest(resvID))
	require.NoError(t, err)
	require.Len(t, issued, 2)

	list, err := f.svc.ListForReservation(context.Background(), resvID)
	require.NoError(t, err)
	require.Len(t, list, 2)
}

// --- full lifecycle example ---

func TestLifecycleEndToEnd(t *testing.T) {
	f := newFixture(t)
	resvID := f.addReservation(2, models.PaymentStatusCompleted)
	products := f.addProducts(resvID, 1)

	issued, err := f.svc.Issue(context.Background(), issueRequest(resvID))
	require.NoError(t, err)
	require.Len(t, issued, 2)
	a, b := issued[0], issued[1]

	scanned, err := f.svc.Scan(context.Background(), a.CouponCode, &products[0].PartnerID)
	require.NoError(t, err)
	require.Equal(t, models.StatusInUse, scanned.Status)

	redeemed, err := f.svc.Redeem(context.Background(), RedeemRequest{
		Code:      a.CouponCode,
		PartnerID: products[0].PartnerID,
		StaffName: "Kim Staff",
	})
	require.NoError(t, err)
	require.Equal(t, models.StatusUsed, redeemed.Status)
	require.NotNil(t, redeemed.UsedAt)

	_, err = f.svc.Redeem(context.Background(), RedeemRequest{
		Code:      a.CouponCode,
		PartnerID: products[0].PartnerID,
		StaffName: "Kim Staff",
	})
	require.Equal(t, KindCouponAlreadyUsed, KindOf(err))

	// push the clock past B's validity window and scan it
	f.svc.now = func() time.Time { return testNow.AddDate(0, 0, 30) }
	_, err = f.svc.Scan(context.Background(), b.CouponCode, nil)
	require.Equal(t, KindCouponExpired, KindOf(err))

	list, err := f.svc.ListForReservation(context.Background(), resvID)
	require.NoError(t, err)
	statuses := map[models.Status]int{}
	for _, v := range list {
		statuses[v.Status]++
	}
	require.Equal(t, 1, statuses[models.StatusUsed])
	require.Equal(t, 1, statuses[models.StatusExpired])
}
