package rewards

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"tiketku/internal/shared/config"
	"tiketku/internal/shared/errs"
	"tiketku/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EventAccess answers organizer ownership checks for voucher management.
// Defined locally to avoid a circular dependency on the events package.
type EventAccess interface {
	IsEventOrganizer(ctx context.Context, eventID, organizerID uuid.UUID) (bool, error)
}

type Service interface {
	GetBalance(ctx context.Context, userID uuid.UUID) (*BalanceResponse, error)
	ListCoupons(ctx context.Context, userID uuid.UUID) ([]CouponResponse, error)

	CreateVoucher(ctx context.Context, organizerID uuid.UUID, req CreateVoucherRequest) (*VoucherResponse, error)
	ListVouchersForEvent(ctx context.Context, eventID uuid.UUID) ([]VoucherResponse, error)

	CreateCouponTemplate(ctx context.Context, req CreateCouponTemplateRequest) (*CouponTemplate, error)
	MintCoupon(ctx context.Context, userID, templateID uuid.UUID) (*CouponResponse, error)

	GrantSignupBonus(ctx context.Context, userID uuid.UUID) error
	GrantReferralReward(ctx context.Context, referrerID, referredID uuid.UUID) error

	MarkExpiredLots(ctx context.Context, now time.Time) (int64, error)
}

type service struct {
	db     *gorm.DB
	repo   Repository
	ledger Ledger
	events EventAccess
	config *config.Config
}

func NewService(db *gorm.DB, repo Repository, ledger Ledger, events EventAccess, cfg *config.Config) Service {
	return &service{
		db:     db,
		repo:   repo,
		ledger: ledger,
		events: events,
		config: cfg,
	}
}

func (s *service) GetBalance(ctx context.Context, userID uuid.UUID) (*BalanceResponse, error) {
	now := time.Now()
	lots, err := s.repo.ListLotsForUser(ctx, userID, now)
	if err != nil {
		return nil, err
	}
	resp := &BalanceResponse{Lots: make([]PointLotResponse, 0, len(lots))}
	for _, lot := range lots {
		resp.Total += lot.Amount
		resp.Lots = append(resp.Lots, PointLotResponse{
			ID:        lot.ID,
			Amount:    lot.Amount,
			Source:    string(lot.Source),
			ExpiresAt: lot.ExpiresAt,
		})
	}
	return resp, nil
}

func (s *service) ListCoupons(ctx context.Context, userID uuid.UUID) ([]CouponResponse, error) {
	coupons, err := s.repo.ListCouponsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := make([]CouponResponse, 0, len(coupons))
	for i := range coupons {
		resp = append(resp, toCouponResponse(&coupons[i]))
	}
	return resp, nil
}

func (s *service) CreateVoucher(ctx context.Context, organizerID uuid.UUID, req CreateVoucherRequest) (*VoucherResponse, error) {
	eventID, err := uuid.Parse(req.EventID)
	if err != nil {
		return nil, errs.New(errs.KindValidation, "invalid event id")
	}

	owns, err := s.events.IsEventOrganizer(ctx, eventID, organizerID)
	if err != nil {
		return nil, err
	}
	if !owns {
		return nil, errs.New(errs.KindForbidden, "only the event organizer can create vouchers")
	}

	if !req.EndDate.After(req.StartDate) {
		return nil, errs.New(errs.KindValidation, "voucher end date must be after start date")
	}

	voucher := &Voucher{
		EventID:           eventID,
		Code:              req.Code,
		DiscountType:      req.DiscountType,
		DiscountValue:     req.DiscountValue,
		MaxDiscount:       req.MaxDiscount,
		MinPurchaseAmount: req.MinPurchaseAmount,
		MaxUsage:          req.MaxUsage,
		StartDate:         req.StartDate,
		EndDate:           req.EndDate,
	}
	if err := s.repo.CreateVoucher(ctx, voucher); err != nil {
		return nil, err
	}
	resp := toVoucherResponse(voucher)
	return &resp, nil
}

func (s *service) ListVouchersForEvent(ctx context.Context, eventID uuid.UUID) ([]VoucherResponse, error) {
	vouchers, err := s.repo.ListVouchersForEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	resp := make([]VoucherResponse, 0, len(vouchers))
	for i := range vouchers {
		resp = append(resp, toVoucherResponse(&vouchers[i]))
	}
	return resp, nil
}

func (s *service) CreateCouponTemplate(ctx context.Context, req CreateCouponTemplateRequest) (*CouponTemplate, error) {
	template := &CouponTemplate{
		Name:              req.Name,
		DiscountType:      req.DiscountType,
		DiscountValue:     req.DiscountValue,
		MaxDiscount:       req.MaxDiscount,
		MinPurchaseAmount: req.MinPurchaseAmount,
		ValidityDays:      req.ValidityDays,
	}
	if err := s.repo.CreateCouponTemplate(ctx, template); err != nil {
		return nil, err
	}
	return template, nil
}

func (s *service) MintCoupon(ctx context.Context, userID, templateID uuid.UUID) (*CouponResponse, error) {
	template, err := s.repo.GetCouponTemplateByID(ctx, templateID)
	if err != nil {
		return nil, err
	}

	code, err := generateCouponCode()
	if err != nil {
		return nil, errs.Wrap(err, errs.KindInternal, "failed to generate coupon code")
	}

	coupon := &Coupon{
		UserID:     userID,
		TemplateID: template.ID,
		Code:       code,
		ExpiresAt:  time.Now().AddDate(0, 0, template.ValidityDays),
	}
	if err := s.repo.CreateCoupon(ctx, coupon); err != nil {
		return nil, err
	}
	coupon.Template = template
	resp := toCouponResponse(coupon)
	return &resp, nil
}

func (s *service) GrantSignupBonus(ctx context.Context, userID uuid.UUID) error {
	amount := s.config.Rewards.SignupBonus
	if amount <= 0 {
		return nil
	}
	expiresAt := time.Now().Add(s.config.Rewards.GrantLotExpiry)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.ledger.CreditPoints(tx, userID, amount, LotSourceSignup, expiresAt)
	})
	if err != nil {
		return err
	}
	logger.GetDefault().Info("signup bonus granted",
		"user_id", userID.String(), "amount", amount)
	return nil
}

func (s *service) GrantReferralReward(ctx context.Context, referrerID, referredID uuid.UUID) error {
	amount := s.config.Rewards.ReferralBonus
	if amount <= 0 {
		return nil
	}
	expiresAt := time.Now().Add(s.config.Rewards.GrantLotExpiry)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.ledger.CreditPoints(tx, referrerID, amount, LotSourceReferral, expiresAt)
	})
	if err != nil {
		return err
	}
	logger.GetDefault().Info("referral reward granted",
		"referrer_id", referrerID.String(),
		"referred_id", referredID.String(),
		"amount", amount)
	return nil
}

func (s *service) MarkExpiredLots(ctx context.Context, now time.Time) (int64, error) {
	return s.repo.MarkExpiredLots(ctx, now)
}

const couponCodeCharset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

func generateCouponCode() (string, error) {
	code := make([]byte, 10)
	for i := range code {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(couponCodeCharset))))
		if err != nil {
			return "", err
		}
		code[i] = couponCodeCharset[n.Int64()]
	}
	return fmt.Sprintf("CPN-%s", string(code)), nil
}
