package rewards

import (
	"context"
	"errors"
	"time"

	"tiketku/internal/shared/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	FindVoucherByCode(ctx context.Context, code string) (*Voucher, error)
	GetVoucherByID(ctx context.Context, id uuid.UUID) (*Voucher, error)
	CreateVoucher(ctx context.Context, voucher *Voucher) error
	ListVouchersForEvent(ctx context.Context, eventID uuid.UUID) ([]Voucher, error)

	FindCouponByCodeForUser(ctx context.Context, userID uuid.UUID, code string) (*Coupon, error)
	GetCouponByID(ctx context.Context, id uuid.UUID) (*Coupon, error)
	CreateCoupon(ctx context.Context, coupon *Coupon) error
	ListCouponsForUser(ctx context.Context, userID uuid.UUID) ([]Coupon, error)

	CreateCouponTemplate(ctx context.Context, template *CouponTemplate) error
	GetCouponTemplateByID(ctx context.Context, id uuid.UUID) (*CouponTemplate, error)

	ListLotsForUser(ctx context.Context, userID uuid.UUID, now time.Time) ([]PointLot, error)
	AvailablePoints(ctx context.Context, userID uuid.UUID, now time.Time) (int64, error)
	MarkExpiredLots(ctx context.Context, now time.Time) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindVoucherByCode(ctx context.Context, code string) (*Voucher, error) {
	var voucher Voucher
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&voucher).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.New(errs.KindNotFound, "voucher not found")
		}
		return nil, errs.Wrap(err, errs.KindInternal, "failed to find voucher")
	}
	return &voucher, nil
}

func (r *repository) GetVoucherByID(ctx context.Context, id uuid.UUID) (*Voucher, error) {
	var voucher Voucher
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&voucher).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.New(errs.KindNotFound, "voucher not found")
		}
		return nil, errs.Wrap(err, errs.KindInternal, "failed to get voucher")
	}
	return &voucher, nil
}

func (r *repository) CreateVoucher(ctx context.Context, voucher *Voucher) error {
	if err := r.db.WithContext(ctx).Create(voucher).Error; err != nil {
		return errs.Wrap(err, errs.KindInternal, "failed to create voucher")
	}
	return nil
}

func (r *repository) ListVouchersForEvent(ctx context.Context, eventID uuid.UUID) ([]Voucher, error) {
	var vouchers []Voucher
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("created_at DESC").
		Find(&vouchers).Error
	if err != nil {
		return nil, errs.Wrap(err, errs.KindInternal, "failed to list vouchers")
	}
	return vouchers, nil
}

func (r *repository) FindCouponByCodeForUser(ctx context.Context, userID uuid.UUID, code string) (*Coupon, error) {
	var coupon Coupon
	err := r.db.WithContext(ctx).
		Preload("Template").
		Where("user_id = ? AND code = ?", userID, code).
		First(&coupon).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.New(errs.KindNotFound, "coupon not found")
		}
		return nil, errs.Wrap(err, errs.KindInternal, "failed to find coupon")
	}
	return &coupon, nil
}

func (r *repository) GetCouponByID(ctx context.Context, id uuid.UUID) (*Coupon, error) {
	var coupon Coupon
	err := r.db.WithContext(ctx).Preload("Template").Where("id = ?", id).First(&coupon).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.New(errs.KindNotFound, "coupon not found")
		}
		return nil, errs.Wrap(err, errs.KindInternal, "failed to get coupon")
	}
	return &coupon, nil
}

func (r *repository) CreateCoupon(ctx context.Context, coupon *Coupon) error {
	if err := r.db.WithContext(ctx).Create(coupon).Error; err != nil {
		return errs.Wrap(err, errs.KindInternal, "failed to create coupon")
	}
	return nil
}

func (r *repository) ListCouponsForUser(ctx context.Context, userID uuid.UUID) ([]Coupon, error) {
	var coupons []Coupon
	err := r.db.WithContext(ctx).
		Preload("Template").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&coupons).Error
	if err != nil {
		return nil, errs.Wrap(err, errs.KindInternal, "failed to list coupons")
	}
	return coupons, nil
}

func (r *repository) CreateCouponTemplate(ctx context.Context, template *CouponTemplate) error {
	if err := r.db.WithContext(ctx).Create(template).Error; err != nil {
		return errs.Wrap(err, errs.KindInternal, "failed to create coupon template")
	}
	return nil
}

func (r *repository) GetCouponTemplateByID(ctx context.Context, id uuid.UUID) (*CouponTemplate, error) {
	var template CouponTemplate
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&template).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.New(errs.KindNotFound, "coupon template not found")
		}
		return nil, errs.Wrap(err, errs.KindInternal, "failed to get coupon template")
	}
	return &template, nil
}

func (r *repository) ListLotsForUser(ctx context.Context, userID uuid.UUID, now time.Time) ([]PointLot, error) {
	var lots []PointLot
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_expired = false AND amount > 0 AND expires_at > ?", userID, now).
		Order("expires_at ASC").
		Find(&lots).Error
	if err != nil {
		return nil, errs.Wrap(err, errs.KindInternal, "failed to list point lots")
	}
	return lots, nil
}

func (r *repository) AvailablePoints(ctx context.Context, userID uuid.UUID, now time.Time) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&PointLot{}).
		Where("user_id = ? AND is_expired = false AND expires_at > ?", userID, now).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, errs.Wrap(err, errs.KindInternal, "failed to sum point lots")
	}
	return total, nil
}

// MarkExpiredLots flips the expired flag on lots whose window has passed.
// Balance reads already exclude them by expiry time; the flag keeps the
// table honest for reporting.
func (r *repository) MarkExpiredLots(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&PointLot{}).
		Where("is_expired = false AND expires_at <= ?", now).
		UpdateColumn("is_expired", true)
	if res.Error != nil {
		return 0, errs.Wrap(res.Error, errs.KindInternal, "failed to mark expired lots")
	}
	return res.RowsAffected, nil
}
