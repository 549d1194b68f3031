package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/lgpay-gateway/internal/config"
	"github.com/lgpay-gateway/internal/constants"
	"github.com/lgpay-gateway/internal/logger"
	"github.com/lgpay-gateway/internal/payment/lgpay"
	"github.com/lgpay-gateway/internal/payment/razorpay"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrBelowMinimum     = errors.New("amount below minimum")
	ErrConfigMissing    = errors.New("payment config missing")
	ErrGatewayError     = errors.New("gateway rejected order")
	ErrNetworkError     = errors.New("gateway unreachable")
	ErrInvalidSignature = errors.New("notify signature invalid")
	ErrNotifyHookFailed = errors.New("notify hook failed")
)

// BelowMinimumError 金额低于下限错误，携带差额明细
type BelowMinimumError struct {
	Required decimal.Decimal
	Actual   decimal.Decimal
}

func (e *BelowMinimumError) Error() string {
	return fmt.Sprintf("amount %s below minimum %s, short by %s",
		e.Actual.String(), e.Required.String(), e.Shortfall().String())
}

func (e *BelowMinimumError) Unwrap() error {
	return ErrBelowMinimum
}

// Shortfall 距离下限的差额（主货币单位）
func (e *BelowMinimumError) Shortfall() decimal.Decimal {
	return e.Required.Sub(e.Actual)
}

// NotifyHook 回调验签通过后执行的业务钩子
// 入参为完整的通知参数表（含 sign 字段），核心不做任何业务处理。
type NotifyHook func(params map[string]string) error

// PaymentService 支付服务
// 无状态：每次下单/验签都是入参加进程级配置的纯函数，无需加锁。
type PaymentService struct {
	gateway    *lgpay.Config
	minAmount  decimal.Decimal // 零值表示不启用下限校验
	razorpay   razorpay.Client
	rzCurrency string
	notifyHook NotifyHook
}

// NewPaymentService 创建支付服务
func NewPaymentService(cfg config.GatewayConfig, rzClient razorpay.Client, rzCurrency string, hook NotifyHook) *PaymentService {
	gatewayCfg := &lgpay.Config{
		GatewayURL:  cfg.GatewayURL,
		APIPath:     cfg.APIPath,
		MerchantID:  cfg.MerchantID,
		SecretKey:   cfg.SecretKey,
		TradeType:   cfg.TradeType,
		NotifyURL:   cfg.NotifyURL,
		PayURLField: cfg.ResponseURLFields,
	}
	gatewayCfg.Normalize()

	minAmount := decimal.Zero
	if raw := strings.TrimSpace(cfg.MinAmount); raw != "" {
		if parsed, err := decimal.NewFromString(raw); err == nil && parsed.IsPositive() {
			minAmount = parsed
		}
	}
	if rzCurrency == "" {
		rzCurrency = "INR"
	}
	return &PaymentService{
		gateway:    gatewayCfg,
		minAmount:  minAmount,
		razorpay:   rzClient,
		rzCurrency: rzCurrency,
		notifyHook: hook,
	}
}

// CreateOrderInput 下单输入
type CreateOrderInput struct {
	Amount   string // 主货币单位金额，十进制文本
	ClientIP string
	Remark   string
}

// CreateOrderResult 下单结果
type CreateOrderResult struct {
	OrderSN     string
	PayURL      string
	AmountMinor int64
	Raw         map[string]interface{}
}

// CreateOrder 校验金额并向 LG-Pay 网关发起签名下单
func (s *PaymentService) CreateOrder(ctx context.Context, input CreateOrderInput) (*CreateOrderResult, error) {
	if err := s.checkGatewayConfig(); err != nil {
		return nil, err
	}
	amount, err := ParseAmount(input.Amount)
	if err != nil {
		return nil, err
	}
	if !s.minAmount.IsZero() && amount.LessThan(s.minAmount) {
		return nil, &BelowMinimumError{Required: s.minAmount, Actual: amount}
	}

	// 金额换算必须在校验之后，避免对失真值做校验
	amountMinor := MinorUnits(amount)
	orderSN := generateOrderSN()

	result, err := lgpay.CreatePayment(ctx, s.gateway, lgpay.CreateInput{
		OrderSN:  orderSN,
		Money:    fmt.Sprintf("%d", amountMinor),
		ClientIP: clientIPOrDefault(input.ClientIP),
		Remark:   input.Remark,
	})
	switch {
	case errors.Is(err, lgpay.ErrResponseInvalid):
		logger.Warnw("lgpay_order_rejected", "order_sn", orderSN, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrGatewayError, err)
	case errors.Is(err, lgpay.ErrRequestFailed):
		logger.Warnw("lgpay_order_transport_failed", "order_sn", orderSN, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrNetworkError, err)
	case err != nil:
		return nil, err
	}

	logger.Infow("lgpay_order_created",
		"order_sn", orderSN,
		"amount_minor", amountMinor,
		"pay_url_found", result.PayURL != "",
	)
	return &CreateOrderResult{
		OrderSN:     orderSN,
		PayURL:      result.PayURL,
		AmountMinor: amountMinor,
		Raw:         result.Raw,
	}, nil
}

// HandleNotify 校验回调签名并触发业务钩子
// 返回网关期望的明文应答；任何失败都不会触发钩子。
func (s *PaymentService) HandleNotify(form map[string][]string) (string, error) {
	if err := s.checkGatewayConfig(); err != nil {
		return constants.NotifyAckFail, err
	}
	if err := lgpay.VerifyNotify(s.gateway, form); err != nil {
		return constants.NotifyAckFail, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	params := make(map[string]string, len(form))
	for key, values := range form {
		if len(values) > 0 {
			params[key] = values[0]
		}
	}
	if s.notifyHook != nil {
		if err := s.notifyHook(params); err != nil {
			return constants.NotifyAckFail, fmt.Errorf("%w: %v", ErrNotifyHookFailed, err)
		}
	}
	return constants.NotifyAckSuccess, nil
}

// CreateRazorpayOrder 通过 Razorpay 创建订单
func (s *PaymentService) CreateRazorpayOrder(input CreateOrderInput) (*CreateOrderResult, error) {
	if s.razorpay == nil {
		return nil, fmt.Errorf("%w: razorpay not configured", ErrConfigMissing)
	}
	amount, err := ParseAmount(input.Amount)
	if err != nil {
		return nil, err
	}
	if !s.minAmount.IsZero() && amount.LessThan(s.minAmount) {
		return nil, &BelowMinimumError{Required: s.minAmount, Actual: amount}
	}
	amountMinor := MinorUnits(amount)
	orderSN := generateOrderSN()

	raw, err := s.razorpay.CreateOrder(amountMinor, s.rzCurrency, orderSN, map[string]interface{}{
		"remark": input.Remark,
	})
	if err != nil {
		logger.Warnw("razorpay_order_failed", "order_sn", orderSN, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrGatewayError, err)
	}
	logger.Infow("razorpay_order_created", "order_sn", orderSN, "amount_minor", amountMinor)
	return &CreateOrderResult{
		OrderSN:     orderSN,
		AmountMinor: amountMinor,
		Raw:         raw,
	}, nil
}

// VerifyRazorpayWebhook 校验 Razorpay webhook 签名
func (s *PaymentService) VerifyRazorpayWebhook(body []byte, signature string) error {
	if s.razorpay == nil {
		return fmt.Errorf("%w: razorpay not configured", ErrConfigMissing)
	}
	if err := s.razorpay.VerifyWebhookSignature(string(body), signature); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	return nil
}

// ParseAmount 解析并校验主货币单位金额
func ParseAmount(raw string) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return decimal.Zero, fmt.Errorf("%w: amount is required", ErrInvalidAmount)
	}
	amount, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: not a number", ErrInvalidAmount)
	}
	if !amount.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: must be positive", ErrInvalidAmount)
	}
	return amount, nil
}

// MinorUnits 主货币单位转最小货币单位（四舍五入）
func MinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

func (s *PaymentService) checkGatewayConfig() error {
	if s == nil || s.gateway == nil {
		return fmt.Errorf("%w: gateway config is nil", ErrConfigMissing)
	}
	if err := lgpay.ValidateConfig(s.gateway); err != nil {
		return fmt.Errorf("%w: %v", ErrConfigMissing, err)
	}
	return nil
}

func clientIPOrDefault(ip string) string {
	trimmed := strings.TrimSpace(ip)
	if trimmed == "" {
		return constants.DefaultClientIP
	}
	return trimmed
}

// generateOrderSN 生成订单号：LG + 时间戳 + 6 位随机数字
func generateOrderSN() string {
	now := time.Now().Format("20060102150405")
	return fmt.Sprintf("LG%s%s", now, randNumeric(6))
}

func randNumeric(length int) string {
	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			b.WriteString("0")
			continue
		}
		b.WriteString(fmt.Sprintf("%d", n.Int64()))
	}
	return b.String()
}
