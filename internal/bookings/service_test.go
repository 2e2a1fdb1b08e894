package bookings

import (
	"context"
	"testing"
	"time"

	"tiketku/internal/events"
	"tiketku/internal/pricing"
	"tiketku/internal/rewards"
	"tiketku/internal/shared/config"
	"tiketku/internal/shared/errs"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ---- in-memory fakes ----

type fakeRepo struct {
	bookings    map[uuid.UUID]*Booking
	attendances []Attendance
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{bookings: make(map[uuid.UUID]*Booking)}
}

func (f *fakeRepo) WithinTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func (f *fakeRepo) Create(tx *gorm.DB, booking *Booking) error {
	booking.ID = uuid.New()
	booking.CreatedAt = time.Now()
	f.bookings[booking.ID] = booking
	return nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	booking, ok := f.bookings[id]
	if !ok {
		return nil, errs.New(errs.KindBookingNotFound, "booking not found")
	}
	return booking, nil
}

func (f *fakeRepo) GetByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*Booking, error) {
	return f.GetByID(context.Background(), id)
}

func (f *fakeRepo) TransitionStatus(tx *gorm.DB, id uuid.UUID, from, to BookingStatus) (bool, error) {
	booking, ok := f.bookings[id]
	if !ok || booking.Status != from {
		return false, nil
	}
	booking.Status = to
	return true, nil
}

func (f *fakeRepo) SubmitProof(tx *gorm.DB, id uuid.UUID, proofURL string) (bool, error) {
	booking, ok := f.bookings[id]
	if !ok || booking.Status != StatusAwaitingPayment {
		return false, nil
	}
	booking.Status = StatusAwaitingConfirmation
	booking.PaymentProofURL = proofURL
	return true, nil
}

func (f *fakeRepo) FindExpired(ctx context.Context, now time.Time, limit int) ([]Booking, error) {
	var out []Booking
	for _, b := range f.bookings {
		if b.Status == StatusAwaitingPayment && now.After(b.PaymentDeadline) {
			out = append(out, *b)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeRepo) ListForUser(ctx context.Context, userID uuid.UUID, q ListBookingsQuery) ([]Booking, int64, error) {
	var out []Booking
	for _, b := range f.bookings {
		if b.UserID == userID && (q.Status == "" || string(b.Status) == q.Status) {
			out = append(out, *b)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeRepo) ListForEvent(ctx context.Context, eventID uuid.UUID, q ListBookingsQuery) ([]Booking, int64, error) {
	var out []Booking
	for _, b := range f.bookings {
		if b.EventID == eventID && (q.Status == "" || string(b.Status) == q.Status) {
			out = append(out, *b)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeRepo) CreateAttendance(tx *gorm.DB, attendance *Attendance) error {
	f.attendances = append(f.attendances, *attendance)
	return nil
}

type fakeCatalog struct {
	event     *events.Event
	organizer uuid.UUID
}

func (f *fakeCatalog) GetBookableForUpdate(tx *gorm.DB, id uuid.UUID) (*events.Event, error) {
	if f.event == nil || f.event.ID != id {
		return nil, errs.New(errs.KindNotFound, "event not found")
	}
	return f.event, nil
}

func (f *fakeCatalog) IsEventOrganizer(ctx context.Context, eventID, userID uuid.UUID) (bool, error) {
	return f.event != nil && f.event.ID == eventID && f.organizer == userID, nil
}

type fakeInventory struct {
	capacity    map[uuid.UUID]int
	reserved    map[uuid.UUID]int
	eventBudget map[uuid.UUID]int
	eventBooked map[uuid.UUID]int
}

func newFakeInventory() *fakeInventory {
	return &fakeInventory{
		capacity:    make(map[uuid.UUID]int),
		reserved:    make(map[uuid.UUID]int),
		eventBudget: make(map[uuid.UUID]int),
		eventBooked: make(map[uuid.UUID]int),
	}
}

func (f *fakeInventory) Reserve(tx *gorm.DB, eventID, ticketTypeID uuid.UUID, quantity int) error {
	if f.reserved[ticketTypeID]+quantity > f.capacity[ticketTypeID] {
		return errs.New(errs.KindInsufficientInventory, "not enough seats")
	}
	f.reserved[ticketTypeID] += quantity
	if f.eventBooked[eventID]+quantity > f.eventBudget[eventID] {
		return errs.New(errs.KindInsufficientSeats, "event seat budget exceeded")
	}
	f.eventBooked[eventID] += quantity
	return nil
}

func (f *fakeInventory) Release(tx *gorm.DB, eventID, ticketTypeID uuid.UUID, quantity int) error {
	if f.reserved[ticketTypeID] < quantity {
		return errs.New(errs.KindInvariantViolation, "release exceeds reserved")
	}
	f.reserved[ticketTypeID] -= quantity
	f.eventBooked[eventID] -= quantity
	return nil
}

type fakeVoucherState struct {
	used int
	max  int
}

type fakeRewardsLedger struct {
	balance  int64
	credited int64
	vouchers map[uuid.UUID]*fakeVoucherState
	coupons  map[uuid.UUID]bool
}

func newFakeRewardsLedger(balance int64) *fakeRewardsLedger {
	return &fakeRewardsLedger{
		balance:  balance,
		vouchers: make(map[uuid.UUID]*fakeVoucherState),
		coupons:  make(map[uuid.UUID]bool),
	}
}

func (f *fakeRewardsLedger) DebitPoints(tx *gorm.DB, userID uuid.UUID, amount int64, now time.Time) error {
	if f.balance < amount {
		return errs.New(errs.KindInsufficientPoints, "insufficient points")
	}
	f.balance -= amount
	return nil
}

func (f *fakeRewardsLedger) CreditPoints(tx *gorm.DB, userID uuid.UUID, amount int64, source rewards.LotSource, expiresAt time.Time) error {
	f.balance += amount
	f.credited += amount
	return nil
}

func (f *fakeRewardsLedger) RedeemVoucher(tx *gorm.DB, voucherID uuid.UUID) error {
	state := f.vouchers[voucherID]
	if state == nil || state.used >= state.max {
		return errs.New(errs.KindVoucherExhausted, "voucher usage limit reached")
	}
	state.used++
	return nil
}

func (f *fakeRewardsLedger) UnredeemVoucher(tx *gorm.DB, voucherID uuid.UUID) error {
	state := f.vouchers[voucherID]
	if state == nil || state.used == 0 {
		return errs.New(errs.KindInvariantViolation, "no usage to release")
	}
	state.used--
	return nil
}

func (f *fakeRewardsLedger) RedeemCoupon(tx *gorm.DB, couponID uuid.UUID) error {
	if f.coupons[couponID] {
		return errs.New(errs.KindCouponAlreadyUsed, "coupon already used")
	}
	f.coupons[couponID] = true
	return nil
}

func (f *fakeRewardsLedger) UnredeemCoupon(tx *gorm.DB, couponID uuid.UUID) error {
	if !f.coupons[couponID] {
		return errs.New(errs.KindInvariantViolation, "coupon not marked used")
	}
	f.coupons[couponID] = false
	return nil
}

type fakeCodes struct {
	vouchers map[string]*rewards.Voucher
	coupons  map[string]*rewards.Coupon
}

func (f *fakeCodes) FindVoucherByCode(ctx context.Context, code string) (*rewards.Voucher, error) {
	if v, ok := f.vouchers[code]; ok {
		return v, nil
	}
	return nil, errs.New(errs.KindNotFound, "voucher not found")
}

func (f *fakeCodes) FindCouponByCodeForUser(ctx context.Context, userID uuid.UUID, code string) (*rewards.Coupon, error) {
	if c, ok := f.coupons[code]; ok && c.UserID == userID {
		return c, nil
	}
	return nil, errs.New(errs.KindNotFound, "coupon not found")
}

type fakeNotifier struct {
	created   int
	received  int
	confirmed int
	rejected  int
	expired   int
}

func (f *fakeNotifier) BookingCreated(ctx context.Context, b *Booking)   { f.created++ }
func (f *fakeNotifier) PaymentReceived(ctx context.Context, b *Booking) { f.received++ }
func (f *fakeNotifier) BookingConfirmed(ctx context.Context, b *Booking) {
	f.confirmed++
}
func (f *fakeNotifier) BookingRejected(ctx context.Context, b *Booking) { f.rejected++ }
func (f *fakeNotifier) BookingExpired(ctx context.Context, b *Booking)  { f.expired++ }

// ---- fixture ----

type fixture struct {
	service   Service
	repo      *fakeRepo
	catalog   *fakeCatalog
	inventory *fakeInventory
	ledger    *fakeRewardsLedger
	codes     *fakeCodes
	notifier  *fakeNotifier

	eventID      uuid.UUID
	ticketTypeID uuid.UUID
	organizerID  uuid.UUID
	userID       uuid.UUID
}

func testConfig() *config.Config {
	return &config.Config{
		Booking: config.BookingConfig{
			PaymentDeadline: 2 * time.Hour,
			SweeperBatch:    100,
		},
		Rewards: config.RewardsConfig{
			RestoreLotExpiry: 90 * 24 * time.Hour,
		},
	}
}

// newFixture builds a bookable event with one ticket type priced at
// unitPrice with the given capacity, and a buyer holding pointBalance.
func newFixture(t *testing.T, unitPrice int64, capacity int, pointBalance int64) *fixture {
	t.Helper()

	eventID := uuid.New()
	ticketTypeID := uuid.New()
	organizerID := uuid.New()

	event := &events.Event{
		ID:             eventID,
		Name:           "Jazz Night",
		Status:         events.StatusPublished,
		StartDate:      time.Now().Add(30 * 24 * time.Hour),
		EndDate:        time.Now().Add(31 * 24 * time.Hour),
		AvailableSeats: capacity,
		OrganizerID:    organizerID,
		TicketTypes: []events.TicketType{
			{ID: ticketTypeID, EventID: eventID, Name: "Regular", Price: unitPrice, Capacity: capacity},
		},
	}

	f := &fixture{
		repo:      newFakeRepo(),
		catalog:   &fakeCatalog{event: event, organizer: organizerID},
		inventory: newFakeInventory(),
		ledger:    newFakeRewardsLedger(pointBalance),
		codes: &fakeCodes{
			vouchers: make(map[string]*rewards.Voucher),
			coupons:  make(map[string]*rewards.Coupon),
		},
		notifier:     &fakeNotifier{},
		eventID:      eventID,
		ticketTypeID: ticketTypeID,
		organizerID:  organizerID,
		userID:       uuid.New(),
	}
	f.inventory.capacity[ticketTypeID] = capacity
	f.inventory.eventBudget[eventID] = capacity
	f.service = NewService(f.repo, f.catalog, f.inventory, f.ledger, f.codes, f.notifier, testConfig())
	return f
}

func (f *fixture) addVoucher(code string, maxUsage, usedCount int, value, cap int64) *rewards.Voucher {
	voucher := &rewards.Voucher{
		ID:            uuid.New(),
		EventID:       f.eventID,
		Code:          code,
		DiscountType:  pricing.RulePercentage,
		DiscountValue: value,
		MaxDiscount:   cap,
		MaxUsage:      maxUsage,
		UsedCount:     usedCount,
		StartDate:     time.Now().Add(-time.Hour),
		EndDate:       time.Now().Add(24 * time.Hour),
	}
	f.codes.vouchers[code] = voucher
	f.ledger.vouchers[voucher.ID] = &fakeVoucherState{used: usedCount, max: maxUsage}
	return voucher
}

func (f *fixture) addCoupon(code string, used bool, value int64) *rewards.Coupon {
	coupon := &rewards.Coupon{
		ID:        uuid.New(),
		UserID:    f.userID,
		Code:      code,
		IsUsed:    used,
		ExpiresAt: time.Now().Add(24 * time.Hour),
		Template: &rewards.CouponTemplate{
			DiscountType:  pricing.RuleFixed,
			DiscountValue: value,
		},
	}
	f.codes.coupons[code] = coupon
	f.ledger.coupons[coupon.ID] = used
	return coupon
}

func (f *fixture) createRequest(quantity int) CreateBookingRequest {
	return CreateBookingRequest{
		EventID: f.eventID.String(),
		Items: []BookingItemRequest{
			{TicketTypeID: f.ticketTypeID.String(), Quantity: quantity},
		},
	}
}

// ---- creation ----

func TestCreateBooking_ReservesSeatsAndSetsDeadline(t *testing.T) {
	f := newFixture(t, 100000, 10, 0)

	booking, err := f.service.CreateBooking(context.Background(), f.userID, f.createRequest(2))
	require.NoError(t, err)

	assert.Equal(t, string(StatusAwaitingPayment), booking.Status)
	assert.Equal(t, int64(200000), booking.TotalAmount)
	assert.Equal(t, int64(200000), booking.FinalAmount)
	assert.Equal(t, 2, f.inventory.reserved[f.ticketTypeID])
	assert.Contains(t, booking.InvoiceNumber, "INV-")
	assert.WithinDuration(t, time.Now().Add(2*time.Hour), booking.PaymentDeadline, time.Minute)
	assert.Equal(t, 1, f.notifier.created)
	require.Len(t, booking.LineItems, 1)
	assert.Equal(t, int64(100000), booking.LineItems[0].UnitPrice)
}

func TestCreateBooking_StackedDiscounts(t *testing.T) {
	f := newFixture(t, 120000, 10, 50000)
	f.addVoucher("JAZZ10", 5, 0, 10, 20000)

	req := f.createRequest(1)
	req.PointsToUse = 50000
	req.VoucherCode = "JAZZ10"

	booking, err := f.service.CreateBooking(context.Background(), f.userID, req)
	require.NoError(t, err)

	assert.Equal(t, int64(120000), booking.TotalAmount)
	assert.Equal(t, int64(50000), booking.PointsApplied)
	assert.Equal(t, int64(12000), booking.VoucherDiscount)
	assert.Equal(t, int64(58000), booking.FinalAmount)
	assert.Equal(t, int64(0), f.ledger.balance)
}

func TestCreateBooking_FinalAmountFloorsAtZero(t *testing.T) {
	f := newFixture(t, 50000, 10, 40000)
	f.addCoupon("BIGCPN", false, 30000)

	req := f.createRequest(1)
	req.PointsToUse = 40000
	req.CouponCode = "BIGCPN"

	booking, err := f.service.CreateBooking(context.Background(), f.userID, req)
	require.NoError(t, err)
	assert.Equal(t, int64(0), booking.FinalAmount)
}

func TestCreateBooking_LastSeatGoesToOneBuyer(t *testing.T) {
	f := newFixture(t, 100000, 1, 0)

	first, err := f.service.CreateBooking(context.Background(), f.userID, f.createRequest(1))
	require.NoError(t, err)
	assert.Equal(t, int64(100000), first.FinalAmount)

	_, err = f.service.CreateBooking(context.Background(), uuid.New(), f.createRequest(1))
	require.Error(t, err)
	assert.True(t, errs.IsKind(err, errs.KindInsufficientInventory))
	assert.Equal(t, 1, f.inventory.reserved[f.ticketTypeID])
}

func TestCreateBooking_EventSeatBudgetCapsAcrossTicketTypes(t *testing.T) {
	f := newFixture(t, 100000, 10, 0)

	// Second category with its own headroom; the event-level budget stays 10,
	// so the per-type guards alone would admit this order.
	vipID := uuid.New()
	f.catalog.event.TicketTypes = append(f.catalog.event.TicketTypes,
		events.TicketType{ID: vipID, EventID: f.eventID, Name: "VIP", Price: 250000, Capacity: 10})
	f.inventory.capacity[vipID] = 10

	req := CreateBookingRequest{
		EventID: f.eventID.String(),
		Items: []BookingItemRequest{
			{TicketTypeID: f.ticketTypeID.String(), Quantity: 8},
			{TicketTypeID: vipID.String(), Quantity: 5},
		},
	}

	_, err := f.service.CreateBooking(context.Background(), f.userID, req)
	require.Error(t, err)
	assert.True(t, errs.IsKind(err, errs.KindInsufficientSeats))
	assert.Empty(t, f.repo.bookings)
}

func TestCreateBooking_PointsCannotExceedTotal(t *testing.T) {
	f := newFixture(t, 50000, 10, 100000)

	req := f.createRequest(1)
	req.PointsToUse = 60000

	_, err := f.service.CreateBooking(context.Background(), f.userID, req)
	require.Error(t, err)
	assert.True(t, errs.IsKind(err, errs.KindPointsExceedAmount))
}

func TestCreateBooking_InsufficientPointBalance(t *testing.T) {
	f := newFixture(t, 100000, 10, 10000)

	req := f.createRequest(1)
	req.PointsToUse = 50000

	_, err := f.service.CreateBooking(context.Background(), f.userID, req)
	require.Error(t, err)
	assert.True(t, errs.IsKind(err, errs.KindInsufficientPoints))
}

func TestCreateBooking_UnknownVoucherIsSkipped(t *testing.T) {
	f := newFixture(t, 100000, 10, 0)

	req := f.createRequest(1)
	req.VoucherCode = "NO-SUCH-CODE"

	booking, err := f.service.CreateBooking(context.Background(), f.userID, req)
	require.NoError(t, err)
	assert.Equal(t, int64(0), booking.VoucherDiscount)
	assert.Equal(t, int64(100000), booking.FinalAmount)
}

func TestCreateBooking_WrongEventVoucherIsSkipped(t *testing.T) {
	f := newFixture(t, 100000, 10, 0)
	voucher := f.addVoucher("OTHER", 5, 0, 10, 0)
	voucher.EventID = uuid.New()

	req := f.createRequest(1)
	req.VoucherCode = "OTHER"

	booking, err := f.service.CreateBooking(context.Background(), f.userID, req)
	require.NoError(t, err)
	assert.Equal(t, int64(0), booking.VoucherDiscount)
}

func TestCreateBooking_ExhaustedVoucherFails(t *testing.T) {
	f := newFixture(t, 100000, 10, 0)
	f.addVoucher("GONE", 3, 3, 10, 0)

	req := f.createRequest(1)
	req.VoucherCode = "GONE"

	_, err := f.service.CreateBooking(context.Background(), f.userID, req)
	require.Error(t, err)
	assert.True(t, errs.IsKind(err, errs.KindVoucherExhausted))
	assert.Empty(t, f.repo.bookings)
}

func TestCreateBooking_UsedCouponFails(t *testing.T) {
	f := newFixture(t, 100000, 10, 0)
	f.addCoupon("DEAD", true, 10000)

	req := f.createRequest(1)
	req.CouponCode = "DEAD"

	_, err := f.service.CreateBooking(context.Background(), f.userID, req)
	require.Error(t, err)
	assert.True(t, errs.IsKind(err, errs.KindCouponAlreadyUsed))
}

func TestCreateBooking_ExpiredCouponIsSkipped(t *testing.T) {
	f := newFixture(t, 100000, 10, 0)
	coupon := f.addCoupon("OLD", false, 10000)
	coupon.ExpiresAt = time.Now().Add(-time.Hour)

	req := f.createRequest(1)
	req.CouponCode = "OLD"

	booking, err := f.service.CreateBooking(context.Background(), f.userID, req)
	require.NoError(t, err)
	assert.Equal(t, int64(0), booking.CouponDiscount)
}

func TestCreateBooking_ExpiredUsedCouponIsSkippedNotRejected(t *testing.T) {
	// Expiry classifies the code as dead before usage does.
	f := newFixture(t, 100000, 10, 0)
	coupon := f.addCoupon("OLDUSED", true, 10000)
	coupon.ExpiresAt = time.Now().Add(-time.Hour)

	req := f.createRequest(1)
	req.CouponCode = "OLDUSED"

	booking, err := f.service.CreateBooking(context.Background(), f.userID, req)
	require.NoError(t, err)
	assert.Equal(t, int64(0), booking.CouponDiscount)
	assert.Equal(t, int64(100000), booking.FinalAmount)
}

func TestCreateBooking_UnpublishedEventRejected(t *testing.T) {
	f := newFixture(t, 100000, 10, 0)
	f.catalog.event.Status = events.StatusDraft

	_, err := f.service.CreateBooking(context.Background(), f.userID, f.createRequest(1))
	require.Error(t, err)
	assert.True(t, errs.IsKind(err, errs.KindEventNotBookable))
}

// ---- payment and confirmation ----

func TestSubmitPaymentProof_AdvancesStatus(t *testing.T) {
	f := newFixture(t, 100000, 10, 0)
	created, err := f.service.CreateBooking(context.Background(), f.userID, f.createRequest(1))
	require.NoError(t, err)

	booking, err := f.service.SubmitPaymentProof(context.Background(), f.userID, created.ID, "/uploads/proof.jpg")
	require.NoError(t, err)
	assert.Equal(t, string(StatusAwaitingConfirmation), booking.Status)
	assert.Equal(t, "/uploads/proof.jpg", booking.PaymentProofURL)
	assert.Equal(t, 1, f.notifier.received)
}

func TestSubmitPaymentProof_WrongUserForbidden(t *testing.T) {
	f := newFixture(t, 100000, 10, 0)
	created, err := f.service.CreateBooking(context.Background(), f.userID, f.createRequest(1))
	require.NoError(t, err)

	_, err = f.service.SubmitPaymentProof(context.Background(), uuid.New(), created.ID, "/uploads/proof.jpg")
	require.Error(t, err)
	assert.True(t, errs.IsKind(err, errs.KindForbidden))
}

func TestSubmitPaymentProof_AfterDeadlineExpiresBooking(t *testing.T) {
	f := newFixture(t, 100000, 10, 20000)

	req := f.createRequest(1)
	req.PointsToUse = 20000
	created, err := f.service.CreateBooking(context.Background(), f.userID, req)
	require.NoError(t, err)
	assert.Equal(t, int64(0), f.ledger.balance)

	f.repo.bookings[created.ID].PaymentDeadline = time.Now().Add(-time.Minute)

	_, err = f.service.SubmitPaymentProof(context.Background(), f.userID, created.ID, "/uploads/late.jpg")
	require.Error(t, err)
	assert.True(t, errs.IsKind(err, errs.KindBookingExpired))

	assert.Equal(t, StatusExpired, f.repo.bookings[created.ID].Status)
	assert.Equal(t, 0, f.inventory.reserved[f.ticketTypeID])
	assert.Equal(t, int64(20000), f.ledger.balance)
	assert.Equal(t, 1, f.notifier.expired)
}

func TestConfirmBooking_AcceptCreatesAttendance(t *testing.T) {
	f := newFixture(t, 100000, 10, 0)
	created, err := f.service.CreateBooking(context.Background(), f.userID, f.createRequest(1))
	require.NoError(t, err)
	_, err = f.service.SubmitPaymentProof(context.Background(), f.userID, created.ID, "/uploads/proof.jpg")
	require.NoError(t, err)

	booking, err := f.service.ConfirmBooking(context.Background(), f.organizerID, created.ID, true)
	require.NoError(t, err)

	assert.Equal(t, string(StatusConfirmed), booking.Status)
	require.Len(t, f.repo.attendances, 1)
	assert.Equal(t, created.ID, f.repo.attendances[0].BookingID)
	// Confirmed bookings keep their seats.
	assert.Equal(t, 1, f.inventory.reserved[f.ticketTypeID])
	assert.Equal(t, 1, f.notifier.confirmed)
}

func TestConfirmBooking_RejectReleasesEverything(t *testing.T) {
	f := newFixture(t, 120000, 10, 50000)
	voucher := f.addVoucher("JAZZ10", 5, 0, 10, 20000)
	coupon := f.addCoupon("CPN", false, 5000)

	req := f.createRequest(1)
	req.PointsToUse = 50000
	req.VoucherCode = "JAZZ10"
	req.CouponCode = "CPN"

	created, err := f.service.CreateBooking(context.Background(), f.userID, req)
	require.NoError(t, err)
	assert.Equal(t, 1, f.ledger.vouchers[voucher.ID].used)
	assert.True(t, f.ledger.coupons[coupon.ID])

	_, err = f.service.SubmitPaymentProof(context.Background(), f.userID, created.ID, "/uploads/proof.jpg")
	require.NoError(t, err)

	booking, err := f.service.ConfirmBooking(context.Background(), f.organizerID, created.ID, false)
	require.NoError(t, err)

	assert.Equal(t, string(StatusRejected), booking.Status)
	assert.Equal(t, 0, f.inventory.reserved[f.ticketTypeID])
	assert.Equal(t, int64(50000), f.ledger.balance)
	assert.Equal(t, 0, f.ledger.vouchers[voucher.ID].used)
	assert.False(t, f.ledger.coupons[coupon.ID])
	assert.Equal(t, 1, f.notifier.rejected)
}

func TestConfirmBooking_NonOrganizerForbidden(t *testing.T) {
	f := newFixture(t, 100000, 10, 0)
	created, err := f.service.CreateBooking(context.Background(), f.userID, f.createRequest(1))
	require.NoError(t, err)
	_, err = f.service.SubmitPaymentProof(context.Background(), f.userID, created.ID, "/uploads/proof.jpg")
	require.NoError(t, err)

	_, err = f.service.ConfirmBooking(context.Background(), uuid.New(), created.ID, true)
	require.Error(t, err)
	assert.True(t, errs.IsKind(err, errs.KindForbidden))
}

func TestConfirmBooking_BeforeProofConflicts(t *testing.T) {
	f := newFixture(t, 100000, 10, 0)
	created, err := f.service.CreateBooking(context.Background(), f.userID, f.createRequest(1))
	require.NoError(t, err)

	_, err = f.service.ConfirmBooking(context.Background(), f.organizerID, created.ID, true)
	require.Error(t, err)
	assert.True(t, errs.IsKind(err, errs.KindConflict))
}

func TestCancelBooking_ReleasesHolds(t *testing.T) {
	f := newFixture(t, 100000, 10, 30000)

	req := f.createRequest(2)
	req.PointsToUse = 30000
	created, err := f.service.CreateBooking(context.Background(), f.userID, req)
	require.NoError(t, err)

	booking, err := f.service.CancelBooking(context.Background(), f.userID, created.ID)
	require.NoError(t, err)

	assert.Equal(t, string(StatusCanceled), booking.Status)
	assert.Equal(t, 0, f.inventory.reserved[f.ticketTypeID])
	assert.Equal(t, int64(30000), f.ledger.balance)
}

func TestCancelBooking_TerminalStatusConflicts(t *testing.T) {
	f := newFixture(t, 100000, 10, 0)
	created, err := f.service.CreateBooking(context.Background(), f.userID, f.createRequest(1))
	require.NoError(t, err)

	_, err = f.service.CancelBooking(context.Background(), f.userID, created.ID)
	require.NoError(t, err)

	// Second cancel hits a terminal booking.
	_, err = f.service.CancelBooking(context.Background(), f.userID, created.ID)
	require.Error(t, err)
	assert.True(t, errs.IsKind(err, errs.KindConflict))
	assert.Equal(t, 0, f.inventory.reserved[f.ticketTypeID])
}

// ---- sweeper ----

func TestExpireOverdue_SweepsOnlyOverdueBookings(t *testing.T) {
	f := newFixture(t, 100000, 10, 40000)

	req := f.createRequest(1)
	req.PointsToUse = 40000
	overdue, err := f.service.CreateBooking(context.Background(), f.userID, req)
	require.NoError(t, err)

	fresh, err := f.service.CreateBooking(context.Background(), uuid.New(), f.createRequest(1))
	require.NoError(t, err)

	f.repo.bookings[overdue.ID].PaymentDeadline = time.Now().Add(-time.Minute)

	expired, err := f.service.ExpireOverdue(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, expired)

	assert.Equal(t, StatusExpired, f.repo.bookings[overdue.ID].Status)
	assert.Equal(t, StatusAwaitingPayment, f.repo.bookings[fresh.ID].Status)
	assert.Equal(t, 1, f.inventory.reserved[f.ticketTypeID])
	assert.Equal(t, int64(40000), f.ledger.balance)
	assert.Equal(t, 1, f.notifier.expired)
}

func TestExpireOverdue_SkipsBookingPaidDuringScan(t *testing.T) {
	f := newFixture(t, 100000, 10, 0)
	created, err := f.service.CreateBooking(context.Background(), f.userID, f.createRequest(1))
	require.NoError(t, err)

	f.repo.bookings[created.ID].PaymentDeadline = time.Now().Add(-time.Minute)
	// Proof lands after the scan would have picked the booking up.
	f.repo.bookings[created.ID].Status = StatusAwaitingConfirmation

	expired, err := f.service.ExpireOverdue(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, 0, expired)
	assert.Equal(t, StatusAwaitingConfirmation, f.repo.bookings[created.ID].Status)
	assert.Equal(t, 1, f.inventory.reserved[f.ticketTypeID])
}

// ---- queries ----

func TestGetBooking_AccessControl(t *testing.T) {
	f := newFixture(t, 100000, 10, 0)
	created, err := f.service.CreateBooking(context.Background(), f.userID, f.createRequest(1))
	require.NoError(t, err)

	_, err = f.service.GetBooking(context.Background(), f.userID, "USER", created.ID)
	assert.NoError(t, err)

	_, err = f.service.GetBooking(context.Background(), f.organizerID, "ORGANIZER", created.ID)
	assert.NoError(t, err)

	_, err = f.service.GetBooking(context.Background(), uuid.New(), "ADMIN", created.ID)
	assert.NoError(t, err)

	_, err = f.service.GetBooking(context.Background(), uuid.New(), "USER", created.ID)
	require.Error(t, err)
	assert.True(t, errs.IsKind(err, errs.KindForbidden))
}

func TestListBookingsForEvent_RequiresOrganizer(t *testing.T) {
	f := newFixture(t, 100000, 10, 0)
	_, err := f.service.CreateBooking(context.Background(), f.userID, f.createRequest(1))
	require.NoError(t, err)

	listed, err := f.service.ListBookingsForEvent(context.Background(), f.organizerID, f.eventID, ListBookingsQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), listed.Total)

	_, err = f.service.ListBookingsForEvent(context.Background(), uuid.New(), f.eventID, ListBookingsQuery{})
	require.Error(t, err)
	assert.True(t, errs.IsKind(err, errs.KindForbidden))
}

// ---- state machine ----

func TestStatusTransitions(t *testing.T) {
	assert.True(t, StatusAwaitingPayment.CanTransitionTo(StatusAwaitingConfirmation))
	assert.True(t, StatusAwaitingPayment.CanTransitionTo(StatusExpired))
	assert.True(t, StatusAwaitingPayment.CanTransitionTo(StatusCanceled))
	assert.True(t, StatusAwaitingConfirmation.CanTransitionTo(StatusConfirmed))
	assert.True(t, StatusAwaitingConfirmation.CanTransitionTo(StatusRejected))

	assert.False(t, StatusAwaitingPayment.CanTransitionTo(StatusConfirmed))
	assert.False(t, StatusConfirmed.CanTransitionTo(StatusRejected))
	assert.False(t, StatusExpired.CanTransitionTo(StatusAwaitingPayment))

	for _, s := range []BookingStatus{StatusConfirmed, StatusRejected, StatusExpired, StatusCanceled} {
		assert.True(t, s.IsTerminal())
	}
	assert.False(t, StatusAwaitingPayment.IsTerminal())
	assert.False(t, StatusAwaitingConfirmation.IsTerminal())

	assert.True(t, StatusRejected.ReleasesInventory())
	assert.True(t, StatusExpired.ReleasesInventory())
	assert.True(t, StatusCanceled.ReleasesInventory())
	assert.False(t, StatusConfirmed.ReleasesInventory())
}
