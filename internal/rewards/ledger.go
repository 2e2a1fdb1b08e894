package rewards

import (
	"time"

	"tiketku/internal/shared/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Ledger mutates reward balances. Every method runs inside a caller-supplied
// transaction so booking creation and rollback stay atomic with inventory
// and booking-row changes.
type Ledger interface {
	// DebitPoints consumes amount points from the user's unexpired lots,
	// oldest expiry first. All-or-nothing: if the usable balance is short,
	// no lot is touched and KindInsufficientPoints is returned.
	DebitPoints(tx *gorm.DB, userID uuid.UUID, amount int64, now time.Time) error

	// CreditPoints creates a fresh lot for the user. Rollback restores use
	// this with LotSourceRefund and a forward expiry window, so restored
	// points never come back pre-expired.
	CreditPoints(tx *gorm.DB, userID uuid.UUID, amount int64, source LotSource, expiresAt time.Time) error

	// RedeemVoucher increments the voucher's usage counter, failing with
	// KindVoucherExhausted when the ceiling has been reached.
	RedeemVoucher(tx *gorm.DB, voucherID uuid.UUID) error

	// UnredeemVoucher decrements the usage counter.
	UnredeemVoucher(tx *gorm.DB, voucherID uuid.UUID) error

	// RedeemCoupon flips the coupon's single-use latch, failing with
	// KindCouponAlreadyUsed when it is already set.
	RedeemCoupon(tx *gorm.DB, couponID uuid.UUID) error

	// UnredeemCoupon clears the single-use latch.
	UnredeemCoupon(tx *gorm.DB, couponID uuid.UUID) error
}

type ledger struct{}

func NewLedger() Ledger {
	return &ledger{}
}

// lotDebit records how much of one lot a debit plan consumes.
type lotDebit struct {
	LotID  uuid.UUID
	Amount int64
}

// planDebit walks lots in the given order and assigns consumption until
// amount is covered. Lots must already be filtered to usable ones and
// sorted by expiry ascending. Returns KindInsufficientPoints when the
// lots cannot cover the amount.
func planDebit(lots []PointLot, amount int64) ([]lotDebit, error) {
	if amount <= 0 {
		return nil, nil
	}
	var plan []lotDebit
	remaining := amount
	for _, lot := range lots {
		if remaining == 0 {
			break
		}
		take := lot.Amount
		if take > remaining {
			take = remaining
		}
		if take <= 0 {
			continue
		}
		plan = append(plan, lotDebit{LotID: lot.ID, Amount: take})
		remaining -= take
	}
	if remaining > 0 {
		return nil, errs.Newf(errs.KindInsufficientPoints,
			"insufficient points: short by %d", remaining)
	}
	return plan, nil
}

// lockedLotScan selects the user's spendable lots oldest-expiry-first with a
// row lock, so concurrent debits serialize instead of planning against the
// same snapshot.
func lockedLotScan(tx *gorm.DB, userID uuid.UUID, now time.Time) *gorm.DB {
	return tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND is_expired = false AND amount > 0 AND expires_at > ?", userID, now).
		Order("expires_at ASC, created_at ASC")
}

func (l *ledger) DebitPoints(tx *gorm.DB, userID uuid.UUID, amount int64, now time.Time) error {
	if amount <= 0 {
		return nil
	}

	var lots []PointLot
	if err := lockedLotScan(tx, userID, now).Find(&lots).Error; err != nil {
		return errs.Wrap(err, errs.KindInternal, "failed to load point lots")
	}

	plan, err := planDebit(lots, amount)
	if err != nil {
		return err
	}

	for _, d := range plan {
		res := tx.Model(&PointLot{}).
			Where("id = ? AND amount >= ?", d.LotID, d.Amount).
			UpdateColumn("amount", gorm.Expr("amount - ?", d.Amount))
		if res.Error != nil {
			return errs.Wrap(res.Error, errs.KindInternal, "failed to debit point lot")
		}
		if res.RowsAffected == 0 {
			return errs.Newf(errs.KindInvariantViolation,
				"point lot %s changed underneath debit", d.LotID)
		}
	}
	return nil
}

func (l *ledger) CreditPoints(tx *gorm.DB, userID uuid.UUID, amount int64, source LotSource, expiresAt time.Time) error {
	if amount <= 0 {
		return nil
	}
	lot := PointLot{
		UserID:        userID,
		Amount:        amount,
		InitialAmount: amount,
		Source:        source,
		ExpiresAt:     expiresAt,
	}
	if err := tx.Create(&lot).Error; err != nil {
		return errs.Wrap(err, errs.KindInternal, "failed to credit point lot")
	}
	return nil
}

func (l *ledger) RedeemVoucher(tx *gorm.DB, voucherID uuid.UUID) error {
	res := tx.Model(&Voucher{}).
		Where("id = ? AND used_count < max_usage", voucherID).
		UpdateColumn("used_count", gorm.Expr("used_count + 1"))
	if res.Error != nil {
		return errs.Wrap(res.Error, errs.KindInternal, "failed to redeem voucher")
	}
	if res.RowsAffected == 0 {
		return errs.New(errs.KindVoucherExhausted, "voucher usage limit reached")
	}
	return nil
}

func (l *ledger) UnredeemVoucher(tx *gorm.DB, voucherID uuid.UUID) error {
	res := tx.Model(&Voucher{}).
		Where("id = ? AND used_count > 0", voucherID).
		UpdateColumn("used_count", gorm.Expr("used_count - 1"))
	if res.Error != nil {
		return errs.Wrap(res.Error, errs.KindInternal, "failed to unredeem voucher")
	}
	if res.RowsAffected == 0 {
		return errs.Newf(errs.KindInvariantViolation,
			"voucher %s has no usage to release", voucherID)
	}
	return nil
}

func (l *ledger) RedeemCoupon(tx *gorm.DB, couponID uuid.UUID) error {
	res := tx.Model(&Coupon{}).
		Where("id = ? AND is_used = false", couponID).
		UpdateColumn("is_used", true)
	if res.Error != nil {
		return errs.Wrap(res.Error, errs.KindInternal, "failed to redeem coupon")
	}
	if res.RowsAffected == 0 {
		return errs.New(errs.KindCouponAlreadyUsed, "coupon has already been used")
	}
	return nil
}

func (l *ledger) UnredeemCoupon(tx *gorm.DB, couponID uuid.UUID) error {
	res := tx.Model(&Coupon{}).
		Where("id = ? AND is_used = true", couponID).
		UpdateColumn("is_used", false)
	if res.Error != nil {
		return errs.Wrap(res.Error, errs.KindInternal, "failed to unredeem coupon")
	}
	if res.RowsAffected == 0 {
		return errs.Newf(errs.KindInvariantViolation,
			"coupon %s is not marked used", couponID)
	}
	return nil
}
