package rewards

import (
	"net/http"

	"tiketku/internal/shared/errs"
	"tiketku/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

func currentUserID(ctx *gin.Context) (uuid.UUID, error) {
	raw, exists := ctx.Get("user_id")
	if !exists {
		return uuid.Nil, errs.New(errs.KindUnauthorized, "missing authentication")
	}
	id, err := uuid.Parse(raw.(string))
	if err != nil {
		return uuid.Nil, errs.New(errs.KindUnauthorized, "invalid user id in token")
	}
	return id, nil
}

func (c *Controller) GetBalance(ctx *gin.Context) {
	userID, err := currentUserID(ctx)
	if err != nil {
		response.Error(ctx, err)
		return
	}

	balance, err := c.service.GetBalance(ctx.Request.Context(), userID)
	if err != nil {
		response.Error(ctx, err)
		return
	}
	response.Success(ctx, http.StatusOK, "Point balance retrieved", balance)
}

func (c *Controller) ListCoupons(ctx *gin.Context) {
	userID, err := currentUserID(ctx)
	if err != nil {
		response.Error(ctx, err)
		return
	}

	coupons, err := c.service.ListCoupons(ctx.Request.Context(), userID)
	if err != nil {
		response.Error(ctx, err)
		return
	}
	response.Success(ctx, http.StatusOK, "Coupons retrieved", coupons)
}

func (c *Controller) CreateVoucher(ctx *gin.Context) {
	organizerID, err := currentUserID(ctx)
	if err != nil {
		response.Error(ctx, err)
		return
	}

	var req CreateVoucherRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, errs.Wrap(err, errs.KindValidation, "invalid voucher payload"))
		return
	}

	voucher, err := c.service.CreateVoucher(ctx.Request.Context(), organizerID, req)
	if err != nil {
		response.Error(ctx, err)
		return
	}
	response.Success(ctx, http.StatusCreated, "Voucher created", voucher)
}

func (c *Controller) ListVouchersForEvent(ctx *gin.Context) {
	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.Error(ctx, errs.New(errs.KindValidation, "invalid event id"))
		return
	}

	vouchers, err := c.service.ListVouchersForEvent(ctx.Request.Context(), eventID)
	if err != nil {
		response.Error(ctx, err)
		return
	}
	response.Success(ctx, http.StatusOK, "Vouchers retrieved", vouchers)
}

func (c *Controller) CreateCouponTemplate(ctx *gin.Context) {
	var req CreateCouponTemplateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, errs.Wrap(err, errs.KindValidation, "invalid coupon template payload"))
		return
	}

	template, err := c.service.CreateCouponTemplate(ctx.Request.Context(), req)
	if err != nil {
		response.Error(ctx, err)
		return
	}
	response.Success(ctx, http.StatusCreated, "Coupon template created", template)
}

func (c *Controller) MintCoupon(ctx *gin.Context) {
	var req MintCouponRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, errs.Wrap(err, errs.KindValidation, "invalid mint payload"))
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		response.Error(ctx, errs.New(errs.KindValidation, "invalid user id"))
		return
	}
	templateID, err := uuid.Parse(req.TemplateID)
	if err != nil {
		response.Error(ctx, errs.New(errs.KindValidation, "invalid template id"))
		return
	}

	coupon, err := c.service.MintCoupon(ctx.Request.Context(), userID, templateID)
	if err != nil {
		response.Error(ctx, err)
		return
	}
	response.Success(ctx, http.StatusCreated, "Coupon minted", coupon)
}
