package bookings

import (
	"context"
	"time"

	"tiketku/internal/events"
	"tiketku/internal/pricing"
	"tiketku/internal/rewards"
	"tiketku/internal/shared/config"
	"tiketku/internal/shared/errs"
	"tiketku/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Catalog is the slice of the events feature bookings depend on. Defined
// locally to avoid a circular dependency on the events package.
type Catalog interface {
	GetBookableForUpdate(tx *gorm.DB, id uuid.UUID) (*events.Event, error)
	IsEventOrganizer(ctx context.Context, eventID, userID uuid.UUID) (bool, error)
}

// InventoryLedger reserves and releases seats inside the booking transaction.
type InventoryLedger interface {
	Reserve(tx *gorm.DB, eventID, ticketTypeID uuid.UUID, quantity int) error
	Release(tx *gorm.DB, eventID, ticketTypeID uuid.UUID, quantity int) error
}

// RewardsLedger applies and reverses point, voucher and coupon effects
// inside the booking transaction.
type RewardsLedger interface {
	DebitPoints(tx *gorm.DB, userID uuid.UUID, amount int64, now time.Time) error
	CreditPoints(tx *gorm.DB, userID uuid.UUID, amount int64, source rewards.LotSource, expiresAt time.Time) error
	RedeemVoucher(tx *gorm.DB, voucherID uuid.UUID) error
	UnredeemVoucher(tx *gorm.DB, voucherID uuid.UUID) error
	RedeemCoupon(tx *gorm.DB, couponID uuid.UUID) error
	UnredeemCoupon(tx *gorm.DB, couponID uuid.UUID) error
}

// RewardsCatalog resolves discount codes to their records.
type RewardsCatalog interface {
	FindVoucherByCode(ctx context.Context, code string) (*rewards.Voucher, error)
	FindCouponByCodeForUser(ctx context.Context, userID uuid.UUID, code string) (*rewards.Coupon, error)
}

// Notifier publishes booking lifecycle notifications. Implementations are
// fire-and-forget; a failed publish never fails the booking operation.
type Notifier interface {
	BookingCreated(ctx context.Context, booking *Booking)
	PaymentReceived(ctx context.Context, booking *Booking)
	BookingConfirmed(ctx context.Context, booking *Booking)
	BookingRejected(ctx context.Context, booking *Booking)
	BookingExpired(ctx context.Context, booking *Booking)
}

type Service interface {
	CreateBooking(ctx context.Context, userID uuid.UUID, req CreateBookingRequest) (*BookingResponse, error)
	SubmitPaymentProof(ctx context.Context, userID, bookingID uuid.UUID, proofURL string) (*BookingResponse, error)
	ConfirmBooking(ctx context.Context, organizerID, bookingID uuid.UUID, accept bool) (*BookingResponse, error)
	CancelBooking(ctx context.Context, userID, bookingID uuid.UUID) (*BookingResponse, error)

	GetBooking(ctx context.Context, requesterID uuid.UUID, requesterRole string, bookingID uuid.UUID) (*BookingResponse, error)
	ListBookingsForUser(ctx context.Context, userID uuid.UUID, q ListBookingsQuery) (*PaginatedBookings, error)
	ListBookingsForEvent(ctx context.Context, organizerID, eventID uuid.UUID, q ListBookingsQuery) (*PaginatedBookings, error)

	// ExpireOverdue transitions a batch of overdue bookings to EXPIRED and
	// releases everything they held. Returns how many were expired.
	ExpireOverdue(ctx context.Context, now time.Time) (int, error)
}

type service struct {
	repo      Repository
	catalog   Catalog
	inventory InventoryLedger
	ledger    RewardsLedger
	codes     RewardsCatalog
	notifier  Notifier
	config    *config.Config
}

func NewService(repo Repository, catalog Catalog, inventory InventoryLedger, ledger RewardsLedger, codes RewardsCatalog, notifier Notifier, cfg *config.Config) Service {
	return &service{
		repo:      repo,
		catalog:   catalog,
		inventory: inventory,
		ledger:    ledger,
		codes:     codes,
		notifier:  notifier,
		config:    cfg,
	}
}

func (s *service) CreateBooking(ctx context.Context, userID uuid.UUID, req CreateBookingRequest) (*BookingResponse, error) {
	eventID, err := uuid.Parse(req.EventID)
	if err != nil {
		return nil, errs.New(errs.KindValidation, "invalid event id")
	}

	now := time.Now()

	// Stage one: resolve discount codes outside the transaction. Unknown,
	// out-of-window and below-minimum codes are skipped rather than
	// failing the booking; the redeem step re-checks usage limits with
	// conditional updates so stale reads cannot over-redeem.
	voucher, err := s.resolveVoucher(ctx, eventID, req.VoucherCode, now)
	if err != nil {
		return nil, err
	}
	coupon, err := s.resolveCoupon(ctx, userID, req.CouponCode, now)
	if err != nil {
		return nil, err
	}

	var booking *Booking
	err = s.repo.WithinTx(ctx, func(tx *gorm.DB) error {
		event, err := s.catalog.GetBookableForUpdate(tx, eventID)
		if err != nil {
			return err
		}
		if !event.IsBookable(now) {
			return errs.New(errs.KindEventNotBookable, "event is not open for booking")
		}

		items, totalAmount, totalQuantity, err := buildLineItems(event, req.Items)
		if err != nil {
			return err
		}

		for _, item := range items {
			if err := s.inventory.Reserve(tx, eventID, item.TicketTypeID, item.Quantity); err != nil {
				return err
			}
		}

		if req.PointsToUse > 0 {
			if req.PointsToUse > totalAmount {
				return errs.New(errs.KindPointsExceedAmount,
					"points applied cannot exceed the booking total")
			}
			if err := s.ledger.DebitPoints(tx, userID, req.PointsToUse, now); err != nil {
				return err
			}
		}

		var voucherDiscount int64
		var appliedVoucherID *uuid.UUID
		if voucher != nil && voucher.Rule().MeetsMinPurchase(totalAmount) {
			if err := s.ledger.RedeemVoucher(tx, voucher.ID); err != nil {
				return err
			}
			voucherDiscount = pricing.Compute(totalAmount, voucher.Rule())
			id := voucher.ID
			appliedVoucherID = &id
		}

		var couponDiscount int64
		var appliedCouponID *uuid.UUID
		if coupon != nil && coupon.Template.Rule().MeetsMinPurchase(totalAmount) {
			if err := s.ledger.RedeemCoupon(tx, coupon.ID); err != nil {
				return err
			}
			couponDiscount = pricing.Compute(totalAmount, coupon.Template.Rule())
			id := coupon.ID
			appliedCouponID = &id
		}

		invoiceNumber, err := generateInvoiceNumber(now)
		if err != nil {
			return errs.Wrap(err, errs.KindInternal, "failed to generate invoice number")
		}

		booking = &Booking{
			InvoiceNumber:    invoiceNumber,
			UserID:           userID,
			EventID:          eventID,
			Status:           StatusAwaitingPayment,
			Quantity:         totalQuantity,
			TotalAmount:      totalAmount,
			PointsApplied:    req.PointsToUse,
			VoucherDiscount:  voucherDiscount,
			CouponDiscount:   couponDiscount,
			FinalAmount:      pricing.FinalAmount(totalAmount, req.PointsToUse, voucherDiscount, couponDiscount),
			AppliedVoucherID: appliedVoucherID,
			AppliedCouponID:  appliedCouponID,
			PaymentDeadline:  now.Add(s.config.Booking.PaymentDeadline),
			LineItems:        items,
		}
		return s.repo.Create(tx, booking)
	})
	if err != nil {
		return nil, err
	}

	logger.GetDefault().LogBookingCreated(ctx, booking.ID.String(), booking.InvoiceNumber,
		booking.EventID.String(), booking.UserID.String(), booking.FinalAmount)
	if s.notifier != nil {
		s.notifier.BookingCreated(ctx, booking)
	}

	resp := toBookingResponse(booking)
	return &resp, nil
}

// resolveVoucher returns nil without error when the code should be silently
// skipped: unknown code, wrong event, or outside the usage window.
func (s *service) resolveVoucher(ctx context.Context, eventID uuid.UUID, code string, now time.Time) (*rewards.Voucher, error) {
	if code == "" {
		return nil, nil
	}
	voucher, err := s.codes.FindVoucherByCode(ctx, code)
	if err != nil {
		if errs.IsKind(err, errs.KindNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if voucher.EventID != eventID || !voucher.InWindow(now) {
		return nil, nil
	}
	if voucher.Exhausted() {
		return nil, errs.New(errs.KindVoucherExhausted, "voucher usage limit reached")
	}
	return voucher, nil
}

// resolveCoupon skips unknown and expired codes silently but surfaces an
// already-used coupon as an error, since the buyer presented a dead code.
func (s *service) resolveCoupon(ctx context.Context, userID uuid.UUID, code string, now time.Time) (*rewards.Coupon, error) {
	if code == "" {
		return nil, nil
	}
	coupon, err := s.codes.FindCouponByCodeForUser(ctx, userID, code)
	if err != nil {
		if errs.IsKind(err, errs.KindNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if now.After(coupon.ExpiresAt) || coupon.Template == nil {
		return nil, nil
	}
	if coupon.IsUsed {
		return nil, errs.New(errs.KindCouponAlreadyUsed, "coupon has already been used")
	}
	return coupon, nil
}

func buildLineItems(event *events.Event, items []BookingItemRequest) ([]LineItem, int64, int, error) {
	lineItems := make([]LineItem, 0, len(items))
	var totalAmount int64
	var totalQuantity int
	seen := make(map[uuid.UUID]bool, len(items))

	for _, item := range items {
		ticketTypeID, err := uuid.Parse(item.TicketTypeID)
		if err != nil {
			return nil, 0, 0, errs.New(errs.KindValidation, "invalid ticket type id")
		}
		if seen[ticketTypeID] {
			return nil, 0, 0, errs.New(errs.KindValidation, "duplicate ticket type in booking")
		}
		seen[ticketTypeID] = true

		ticketType := event.TicketType(ticketTypeID)
		if ticketType == nil {
			return nil, 0, 0, errs.Newf(errs.KindValidation,
				"ticket type %s does not belong to this event", ticketTypeID)
		}

		subtotal := ticketType.Price * int64(item.Quantity)
		lineItems = append(lineItems, LineItem{
			TicketTypeID:   ticketType.ID,
			TicketTypeName: ticketType.Name,
			UnitPrice:      ticketType.Price,
			Quantity:       item.Quantity,
			Subtotal:       subtotal,
		})
		totalAmount += subtotal
		totalQuantity += item.Quantity
	}
	return lineItems, totalAmount, totalQuantity, nil
}

func (s *service) SubmitPaymentProof(ctx context.Context, userID, bookingID uuid.UUID, proofURL string) (*BookingResponse, error) {
	var booking *Booking
	var expired bool

	err := s.repo.WithinTx(ctx, func(tx *gorm.DB) error {
		var err error
		booking, err = s.repo.GetByIDForUpdate(tx, bookingID)
		if err != nil {
			return err
		}
		if booking.UserID != userID {
			return errs.New(errs.KindForbidden, "booking belongs to another user")
		}

		switch booking.Status {
		case StatusAwaitingPayment:
		case StatusExpired:
			return errs.New(errs.KindBookingExpired, "booking payment window has closed")
		default:
			return errs.Newf(errs.KindConflict,
				"cannot submit payment proof for a %s booking", booking.Status)
		}

		// Lazy expiry: a booking the sweeper has not reached yet is still
		// expired the moment its deadline passes.
		if booking.DeadlinePassed(time.Now()) {
			if err := s.expireLocked(tx, booking); err != nil {
				return err
			}
			expired = true
			return nil
		}

		ok, err := s.repo.SubmitProof(tx, bookingID, proofURL)
		if err != nil {
			return err
		}
		if !ok {
			return errs.New(errs.KindConflict, "booking status changed, please retry")
		}
		booking.Status = StatusAwaitingConfirmation
		booking.PaymentProofURL = proofURL
		return nil
	})
	if err != nil {
		return nil, err
	}

	if expired {
		if s.notifier != nil {
			s.notifier.BookingExpired(ctx, booking)
		}
		return nil, errs.New(errs.KindBookingExpired, "booking payment window has closed")
	}

	logger.GetDefault().LogBookingTransition(ctx, booking.ID.String(),
		StatusAwaitingPayment.String(), StatusAwaitingConfirmation.String())
	if s.notifier != nil {
		s.notifier.PaymentReceived(ctx, booking)
	}

	resp := toBookingResponse(booking)
	return &resp, nil
}

func (s *service) ConfirmBooking(ctx context.Context, organizerID, bookingID uuid.UUID, accept bool) (*BookingResponse, error) {
	var booking *Booking

	err := s.repo.WithinTx(ctx, func(tx *gorm.DB) error {
		var err error
		booking, err = s.repo.GetByIDForUpdate(tx, bookingID)
		if err != nil {
			return err
		}

		owns, err := s.catalog.IsEventOrganizer(ctx, booking.EventID, organizerID)
		if err != nil {
			return err
		}
		if !owns {
			return errs.New(errs.KindForbidden, "only the event organizer can confirm bookings")
		}

		if booking.Status != StatusAwaitingConfirmation {
			return errs.Newf(errs.KindConflict,
				"cannot confirm a %s booking", booking.Status)
		}

		target := StatusConfirmed
		if !accept {
			target = StatusRejected
		}

		ok, err := s.repo.TransitionStatus(tx, bookingID, StatusAwaitingConfirmation, target)
		if err != nil {
			return err
		}
		if !ok {
			return errs.New(errs.KindConflict, "booking status changed, please retry")
		}

		booking.Status = target
		if accept {
			return s.repo.CreateAttendance(tx, &Attendance{
				BookingID: booking.ID,
				EventID:   booking.EventID,
				UserID:    booking.UserID,
			})
		}
		return s.releaseHolds(tx, booking)
	})
	if err != nil {
		return nil, err
	}

	logger.GetDefault().LogBookingTransition(ctx, booking.ID.String(),
		StatusAwaitingConfirmation.String(), booking.Status.String())
	if s.notifier != nil {
		if accept {
			s.notifier.BookingConfirmed(ctx, booking)
		} else {
			s.notifier.BookingRejected(ctx, booking)
		}
	}

	resp := toBookingResponse(booking)
	return &resp, nil
}

func (s *service) CancelBooking(ctx context.Context, userID, bookingID uuid.UUID) (*BookingResponse, error) {
	var booking *Booking

	err := s.repo.WithinTx(ctx, func(tx *gorm.DB) error {
		var err error
		booking, err = s.repo.GetByIDForUpdate(tx, bookingID)
		if err != nil {
			return err
		}
		if booking.UserID != userID {
			return errs.New(errs.KindForbidden, "booking belongs to another user")
		}
		if booking.Status != StatusAwaitingPayment {
			return errs.Newf(errs.KindConflict, "cannot cancel a %s booking", booking.Status)
		}

		ok, err := s.repo.TransitionStatus(tx, bookingID, StatusAwaitingPayment, StatusCanceled)
		if err != nil {
			return err
		}
		if !ok {
			return errs.New(errs.KindConflict, "booking status changed, please retry")
		}
		booking.Status = StatusCanceled
		return s.releaseHolds(tx, booking)
	})
	if err != nil {
		return nil, err
	}

	logger.GetDefault().LogBookingTransition(ctx, booking.ID.String(),
		StatusAwaitingPayment.String(), StatusCanceled.String())

	resp := toBookingResponse(booking)
	return &resp, nil
}

func (s *service) GetBooking(ctx context.Context, requesterID uuid.UUID, requesterRole string, bookingID uuid.UUID) (*BookingResponse, error) {
	booking, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.UserID != requesterID && requesterRole != "ADMIN" {
		owns, err := s.catalog.IsEventOrganizer(ctx, booking.EventID, requesterID)
		if err != nil {
			return nil, err
		}
		if !owns {
			return nil, errs.New(errs.KindForbidden, "not allowed to view this booking")
		}
	}

	resp := toBookingResponse(booking)
	return &resp, nil
}

func (s *service) ListBookingsForUser(ctx context.Context, userID uuid.UUID, q ListBookingsQuery) (*PaginatedBookings, error) {
	bookings, total, err := s.repo.ListForUser(ctx, userID, q)
	if err != nil {
		return nil, err
	}
	return paginate(bookings, total, q), nil
}

func (s *service) ListBookingsForEvent(ctx context.Context, organizerID, eventID uuid.UUID, q ListBookingsQuery) (*PaginatedBookings, error) {
	owns, err := s.catalog.IsEventOrganizer(ctx, eventID, organizerID)
	if err != nil {
		return nil, err
	}
	if !owns {
		return nil, errs.New(errs.KindForbidden, "only the event organizer can list its bookings")
	}

	bookings, total, err := s.repo.ListForEvent(ctx, eventID, q)
	if err != nil {
		return nil, err
	}
	return paginate(bookings, total, q), nil
}

func (s *service) ExpireOverdue(ctx context.Context, now time.Time) (int, error) {
	candidates, err := s.repo.FindExpired(ctx, now, s.config.Booking.SweeperBatch)
	if err != nil {
		return 0, err
	}

	expired := 0
	for i := range candidates {
		bookingID := candidates[i].ID
		var booking *Booking

		err := s.repo.WithinTx(ctx, func(tx *gorm.DB) error {
			var err error
			booking, err = s.repo.GetByIDForUpdate(tx, bookingID)
			if err != nil {
				return err
			}
			// A payment proof may have landed between the scan and this
			// transaction; first committed transition wins.
			if booking.Status != StatusAwaitingPayment || !booking.DeadlinePassed(now) {
				return nil
			}
			return s.expireLocked(tx, booking)
		})
		if err != nil {
			logger.GetDefault().ErrorWithContext(ctx, "failed to expire booking", err,
				map[string]interface{}{"booking_id": bookingID.String()})
			continue
		}
		if booking != nil && booking.Status == StatusExpired {
			expired++
			if s.notifier != nil {
				s.notifier.BookingExpired(ctx, booking)
			}
		}
	}
	return expired, nil
}

// expireLocked transitions a locked, overdue booking to EXPIRED and releases
// its holds. The caller must hold the row lock and have verified the status.
func (s *service) expireLocked(tx *gorm.DB, booking *Booking) error {
	ok, err := s.repo.TransitionStatus(tx, booking.ID, StatusAwaitingPayment, StatusExpired)
	if err != nil {
		return err
	}
	if !ok {
		return errs.New(errs.KindConflict, "booking status changed, please retry")
	}
	booking.Status = StatusExpired
	return s.releaseHolds(tx, booking)
}

// releaseHolds is the compensation path: it hands back every seat the
// booking reserved and reverses every discount it applied. The status
// transition guarding the call runs exactly once per booking, so the
// release cannot double-apply.
func (s *service) releaseHolds(tx *gorm.DB, booking *Booking) error {
	for _, item := range booking.LineItems {
		if err := s.inventory.Release(tx, booking.EventID, item.TicketTypeID, item.Quantity); err != nil {
			return err
		}
	}
	if booking.PointsApplied > 0 {
		expiresAt := time.Now().Add(s.config.Rewards.RestoreLotExpiry)
		if err := s.ledger.CreditPoints(tx, booking.UserID, booking.PointsApplied,
			rewards.LotSourceRefund, expiresAt); err != nil {
			return err
		}
	}
	if booking.AppliedVoucherID != nil {
		if err := s.ledger.UnredeemVoucher(tx, *booking.AppliedVoucherID); err != nil {
			return err
		}
	}
	if booking.AppliedCouponID != nil {
		if err := s.ledger.UnredeemCoupon(tx, *booking.AppliedCouponID); err != nil {
			return err
		}
	}
	logger.GetDefault().LogBookingRolledBack(context.Background(),
		booking.ID.String(), booking.Status.String())
	return nil
}

func paginate(bookings []Booking, total int64, q ListBookingsQuery) *PaginatedBookings {
	page := q.Page
	if page < 1 {
		page = 1
	}
	limit := q.Limit
	if limit < 1 || limit > 100 {
		limit = 10
	}

	resp := &PaginatedBookings{
		Bookings: make([]BookingResponse, 0, len(bookings)),
		Total:    total,
		Page:     page,
		Limit:    limit,
	}
	resp.TotalPages = int((total + int64(limit) - 1) / int64(limit))
	for i := range bookings {
		resp.Bookings = append(resp.Bookings, toBookingResponse(&bookings[i]))
	}
	return resp
}
