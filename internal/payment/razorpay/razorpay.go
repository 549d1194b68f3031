package razorpay

import (
	"errors"
	"fmt"
	"strings"

	razorpaySDK "github.com/razorpay/razorpay-go"
	"github.com/razorpay/razorpay-go/utils"
)

var (
	ErrConfigInvalid    = errors.New("razorpay config invalid")
	ErrRequestFailed    = errors.New("razorpay request failed")
	ErrSignatureInvalid = errors.New("razorpay webhook signature invalid")
)

// Client Razorpay 操作接口
// 抽象 SDK 调用，便于 handler 层用假实现做测试。
type Client interface {
	CreateOrder(amountMinor int64, currency, receipt string, notes map[string]interface{}) (map[string]interface{}, error)
	FetchPayment(paymentID string) (map[string]interface{}, error)
	VerifyWebhookSignature(body, signature string) error
}

// Config Razorpay 配置
type Config struct {
	KeyID         string `json:"key_id"`
	KeySecret     string `json:"key_secret"`
	WebhookSecret string `json:"webhook_secret"`
	Currency      string `json:"currency"`
}

// ValidateConfig 校验 Razorpay 配置完整性
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("%w: config is nil", ErrConfigInvalid)
	}
	if strings.TrimSpace(cfg.KeyID) == "" {
		return fmt.Errorf("%w: key_id is required", ErrConfigInvalid)
	}
	if strings.TrimSpace(cfg.KeySecret) == "" {
		return fmt.Errorf("%w: key_secret is required", ErrConfigInvalid)
	}
	return nil
}

// Normalize 补齐默认配置
func (c *Config) Normalize() {
	c.KeyID = strings.TrimSpace(c.KeyID)
	c.KeySecret = strings.TrimSpace(c.KeySecret)
	c.WebhookSecret = strings.TrimSpace(c.WebhookSecret)
	c.Currency = strings.ToUpper(strings.TrimSpace(c.Currency))
	if c.Currency == "" {
		c.Currency = "INR"
	}
}

type sdkClient struct {
	client        *razorpaySDK.Client
	webhookSecret string
}

// NewClient 创建基于官方 SDK 的客户端
func NewClient(cfg *Config) (Client, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return &sdkClient{
		client:        razorpaySDK.NewClient(cfg.KeyID, cfg.KeySecret),
		webhookSecret: cfg.WebhookSecret,
	}, nil
}

// CreateOrder 创建 Razorpay 订单（金额为最小货币单位）
func (c *sdkClient) CreateOrder(amountMinor int64, currency, receipt string, notes map[string]interface{}) (map[string]interface{}, error) {
	data := map[string]interface{}{
		"amount":   amountMinor,
		"currency": currency,
		"receipt":  receipt,
	}
	if len(notes) > 0 {
		data["notes"] = notes
	}
	body, err := c.client.Order.Create(data, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	return body, nil
}

// FetchPayment 查询支付记录
func (c *sdkClient) FetchPayment(paymentID string) (map[string]interface{}, error) {
	body, err := c.client.Payment.Fetch(paymentID, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	return body, nil
}

// VerifyWebhookSignature 校验 webhook 签名
// 签名由网关对原始请求体做 HMAC-SHA256，密钥为商户 webhook secret。
func (c *sdkClient) VerifyWebhookSignature(body, signature string) error {
	if strings.TrimSpace(c.webhookSecret) == "" {
		return fmt.Errorf("%w: webhook_secret is required", ErrConfigInvalid)
	}
	if strings.TrimSpace(signature) == "" {
		return ErrSignatureInvalid
	}
	if !utils.VerifyWebhookSignature(body, signature, c.webhookSecret) {
		return ErrSignatureInvalid
	}
	return nil
}
