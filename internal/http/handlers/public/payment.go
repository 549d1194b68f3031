package public

import (
	"errors"

	"github.com/lgpay-gateway/internal/http/response"
	"github.com/lgpay-gateway/internal/service"

	"github.com/gin-gonic/gin"
)

const callbackLogValueLimit = 4096

// CreateOrderRequest 下单请求
type CreateOrderRequest struct {
	Amount string `json:"amount" binding:"required"`
	Remark string `json:"remark"`
}

// CreateOrder 创建 LG-Pay 支付订单
func (h *Handler) CreateOrder(c *gin.Context) {
	log := requestLog(c)
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnw("create_order_bind_failed", "error", err)
		response.BadRequest(c, "amount is required")
		return
	}

	result, err := h.PaymentService.CreateOrder(c.Request.Context(), service.CreateOrderInput{
		Amount:   req.Amount,
		ClientIP: c.ClientIP(),
		Remark:   req.Remark,
	})
	if err != nil {
		respondOrderError(c, err)
		return
	}

	log.Infow("order_created",
		"order_sn", result.OrderSN,
		"amount_minor", result.AmountMinor,
		"client_ip", c.ClientIP(),
	)
	response.Success(c, gin.H{
		"order_sn":     result.OrderSN,
		"pay_url":      result.PayURL,
		"amount_minor": result.AmountMinor,
	})
}

// CreateRazorpayOrder 创建 Razorpay 支付订单
func (h *Handler) CreateRazorpayOrder(c *gin.Context) {
	log := requestLog(c)
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnw("create_razorpay_order_bind_failed", "error", err)
		response.BadRequest(c, "amount is required")
		return
	}

	result, err := h.PaymentService.CreateRazorpayOrder(service.CreateOrderInput{
		Amount:   req.Amount,
		ClientIP: c.ClientIP(),
		Remark:   req.Remark,
	})
	if err != nil {
		respondOrderError(c, err)
		return
	}

	log.Infow("razorpay_order_created", "order_sn", result.OrderSN)
	response.Success(c, gin.H{
		"order_sn":     result.OrderSN,
		"amount_minor": result.AmountMinor,
		"order":        result.Raw,
	})
}

func respondOrderError(c *gin.Context, err error) {
	log := requestLog(c)
	var belowErr *service.BelowMinimumError
	switch {
	case errors.As(err, &belowErr):
		log.Warnw("create_order_below_minimum",
			"required", belowErr.Required.String(),
			"actual", belowErr.Actual.String(),
		)
		response.ErrorWithData(c, response.CodeBadRequest, "amount below minimum", gin.H{
			"required":  belowErr.Required.String(),
			"actual":    belowErr.Actual.String(),
			"shortfall": belowErr.Shortfall().String(),
		})
	case errors.Is(err, service.ErrInvalidAmount):
		log.Warnw("create_order_invalid_amount", "error", err)
		response.BadRequest(c, "invalid amount")
	case errors.Is(err, service.ErrConfigMissing):
		log.Errorw("create_order_config_missing", "error", err)
		response.Internal(c, "payment gateway not configured")
	case errors.Is(err, service.ErrGatewayError):
		log.Warnw("create_order_gateway_rejected", "error", err)
		response.Error(c, response.CodeBadGateway, err.Error())
	case errors.Is(err, service.ErrNetworkError):
		log.Warnw("create_order_gateway_unreachable", "error", err)
		response.Error(c, response.CodeBadGateway, err.Error())
	default:
		log.Errorw("create_order_failed", "error", err)
		response.Internal(c, "create order failed")
	}
}
