package bookings

import (
	"context"
	"errors"
	"time"

	"tiketku/internal/shared/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	// WithinTx runs fn inside a database transaction. Every booking
	// mutation and its inventory and rewards side effects go through
	// this so they commit or roll back together.
	WithinTx(ctx context.Context, fn func(tx *gorm.DB) error) error

	Create(tx *gorm.DB, booking *Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	GetByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*Booking, error)

	// TransitionStatus moves the booking from one status to another with
	// a conditional update. Returns false when the booking was not in
	// the expected status, which is how concurrent transitions lose.
	TransitionStatus(tx *gorm.DB, id uuid.UUID, from, to BookingStatus) (bool, error)

	// SubmitProof records the proof URL and advances to awaiting
	// confirmation in one conditional update.
	SubmitProof(tx *gorm.DB, id uuid.UUID, proofURL string) (bool, error)

	// FindExpired returns a batch of bookings still awaiting payment
	// whose deadline has passed.
	FindExpired(ctx context.Context, now time.Time, limit int) ([]Booking, error)

	ListForUser(ctx context.Context, userID uuid.UUID, q ListBookingsQuery) ([]Booking, int64, error)
	ListForEvent(ctx context.Context, eventID uuid.UUID, q ListBookingsQuery) ([]Booking, int64, error)

	CreateAttendance(tx *gorm.DB, attendance *Attendance) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithinTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func (r *repository) Create(tx *gorm.DB, booking *Booking) error {
	if err := tx.Create(booking).Error; err != nil {
		return errs.Wrap(err, errs.KindInternal, "failed to create booking")
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	var booking Booking
	err := r.db.WithContext(ctx).
		Preload("LineItems").
		Where("id = ?", id).
		First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.New(errs.KindBookingNotFound, "booking not found")
		}
		return nil, errs.Wrap(err, errs.KindInternal, "failed to get booking")
	}
	return &booking, nil
}

func (r *repository) GetByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*Booking, error) {
	var booking Booking
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.New(errs.KindBookingNotFound, "booking not found")
		}
		return nil, errs.Wrap(err, errs.KindInternal, "failed to lock booking")
	}
	if err := tx.Where("booking_id = ?", id).Find(&booking.LineItems).Error; err != nil {
		return nil, errs.Wrap(err, errs.KindInternal, "failed to load line items")
	}
	return &booking, nil
}

func (r *repository) TransitionStatus(tx *gorm.DB, id uuid.UUID, from, to BookingStatus) (bool, error) {
	res := tx.Model(&Booking{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return false, errs.Wrap(res.Error, errs.KindInternal, "failed to transition booking status")
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) SubmitProof(tx *gorm.DB, id uuid.UUID, proofURL string) (bool, error) {
	res := tx.Model(&Booking{}).
		Where("id = ? AND status = ?", id, StatusAwaitingPayment).
		Updates(map[string]interface{}{
			"status":            StatusAwaitingConfirmation,
			"payment_proof_url": proofURL,
		})
	if res.Error != nil {
		return false, errs.Wrap(res.Error, errs.KindInternal, "failed to record payment proof")
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) FindExpired(ctx context.Context, now time.Time, limit int) ([]Booking, error) {
	var bookings []Booking
	err := r.db.WithContext(ctx).
		Where("status = ? AND payment_deadline <= ?", StatusAwaitingPayment, now).
		Order("payment_deadline ASC").
		Limit(limit).
		Find(&bookings).Error
	if err != nil {
		return nil, errs.Wrap(err, errs.KindInternal, "failed to find expired bookings")
	}
	return bookings, nil
}

func (r *repository) ListForUser(ctx context.Context, userID uuid.UUID, q ListBookingsQuery) ([]Booking, int64, error) {
	return r.list(ctx, "user_id = ?", userID, q)
}

func (r *repository) ListForEvent(ctx context.Context, eventID uuid.UUID, q ListBookingsQuery) ([]Booking, int64, error) {
	return r.list(ctx, "event_id = ?", eventID, q)
}

func (r *repository) list(ctx context.Context, scope string, scopeArg interface{}, q ListBookingsQuery) ([]Booking, int64, error) {
	query := r.db.WithContext(ctx).Model(&Booking{}).Where(scope, scopeArg)
	if q.Status != "" {
		query = query.Where("status = ?", q.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, errs.Wrap(err, errs.KindInternal, "failed to count bookings")
	}

	page := q.Page
	if page < 1 {
		page = 1
	}
	limit := q.Limit
	if limit < 1 || limit > 100 {
		limit = 10
	}

	var bookings []Booking
	err := query.
		Preload("LineItems").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&bookings).Error
	if err != nil {
		return nil, 0, errs.Wrap(err, errs.KindInternal, "failed to list bookings")
	}
	return bookings, total, nil
}

func (r *repository) CreateAttendance(tx *gorm.DB, attendance *Attendance) error {
	if err := tx.Create(attendance).Error; err != nil {
		return errs.Wrap(err, errs.KindInternal, "failed to create attendance record")
	}
	return nil
}
