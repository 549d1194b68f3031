package lgpay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/lgpay-gateway/internal/sign"
)

var (
	ErrConfigInvalid    = errors.New("lgpay config invalid")
	ErrInputInvalid     = errors.New("lgpay order input invalid")
	ErrRequestFailed    = errors.New("lgpay request failed")
	ErrResponseInvalid  = errors.New("lgpay response invalid")
	ErrSignatureMissing = errors.New("lgpay callback signature missing")
	ErrSignatureInvalid = errors.New("lgpay callback signature invalid")
)

const requestTimeout = 30 * time.Second

// defaultPayURLFields 网关响应中支付链接字段的默认探测顺序
// 不同版本的 LG-Pay 网关返回的字段名不一致，逐个探测后统一为 pay_url。
var defaultPayURLFields = []string{
	"pay_url",
	"payment_url",
	"payUrl",
	"url",
	"redirect_url",
	"qr_url",
}

// Config LG-Pay 网关配置
type Config struct {
	GatewayURL  string   `json:"gateway_url"`  // 网关地址
	APIPath     string   `json:"api_path"`     // 下单接口路径
	MerchantID  string   `json:"merchant_id"`  // 商户号
	SecretKey   string   `json:"secret_key"`   // 商户密钥
	TradeType   string   `json:"trade_type"`   // 交易类型
	NotifyURL   string   `json:"notify_url"`   // 异步通知地址
	PayURLField []string `json:"pay_url_field"` // 支付链接字段探测顺序
}

// CreateInput LG-Pay 下单输入
type CreateInput struct {
	OrderSN  string
	Money    string // 最小货币单位（分），十进制文本
	ClientIP string
	Remark   string
}

// CreateResult LG-Pay 下单结果
type CreateResult struct {
	OrderSN string
	PayURL  string
	Raw     map[string]interface{}
}

// ParseConfig 解析配置
func ParseConfig(raw map[string]interface{}) (*Config, error) {
	if raw == nil {
		return nil, fmt.Errorf("%w: empty config", ErrConfigInvalid)
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal config failed", ErrConfigInvalid)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: unmarshal config failed", ErrConfigInvalid)
	}
	cfg.Normalize()
	return &cfg, nil
}

// ValidateConfig 校验 LG-Pay 配置完整性
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("%w: config is nil", ErrConfigInvalid)
	}
	if strings.TrimSpace(cfg.GatewayURL) == "" {
		return fmt.Errorf("%w: gateway_url is required", ErrConfigInvalid)
	}
	if strings.TrimSpace(cfg.MerchantID) == "" {
		return fmt.Errorf("%w: merchant_id is required", ErrConfigInvalid)
	}
	if strings.TrimSpace(cfg.SecretKey) == "" {
		return fmt.Errorf("%w: secret_key is required", ErrConfigInvalid)
	}
	if strings.TrimSpace(cfg.TradeType) == "" {
		return fmt.Errorf("%w: trade_type is required", ErrConfigInvalid)
	}
	if strings.TrimSpace(cfg.NotifyURL) == "" {
		return fmt.Errorf("%w: notify_url is required", ErrConfigInvalid)
	}
	return nil
}

// Normalize 补齐默认配置
func (c *Config) Normalize() {
	c.GatewayURL = strings.TrimRight(strings.TrimSpace(c.GatewayURL), "/")
	c.MerchantID = strings.TrimSpace(c.MerchantID)
	c.TradeType = strings.TrimSpace(c.TradeType)
	c.NotifyURL = strings.TrimSpace(c.NotifyURL)
	if strings.TrimSpace(c.APIPath) == "" {
		c.APIPath = "/api/order/create"
	}
	if len(c.PayURLField) == 0 {
		c.PayURLField = defaultPayURLFields
	}
}

// CreatePayment 发起 LG-Pay 下单
func CreatePayment(ctx context.Context, cfg *Config, input CreateInput) (*CreateResult, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	if input.OrderSN == "" || input.Money == "" {
		return nil, fmt.Errorf("%w: order_sn and money are required", ErrInputInvalid)
	}
	clientIP := strings.TrimSpace(input.ClientIP)
	if clientIP == "" {
		clientIP = "127.0.0.1"
	}

	params := map[string]string{
		"mch_id":     cfg.MerchantID,
		"trade_type": cfg.TradeType,
		"order_sn":   input.OrderSN,
		"money":      input.Money,
		"notify_url": cfg.NotifyURL,
		"client_ip":  clientIP,
		"remark":     input.Remark,
	}
	sign.Attach(params, cfg.SecretKey)

	endpoint := buildEndpoint(cfg.GatewayURL, cfg.APIPath)
	respBytes, err := postForm(ctx, endpoint, params)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(respBytes, &raw); err != nil {
		return nil, fmt.Errorf("%w: non-json body", ErrResponseInvalid)
	}
	if msg, ok := failureMessage(raw); ok {
		return nil, fmt.Errorf("%w: %s", ErrResponseInvalid, msg)
	}

	return &CreateResult{
		OrderSN: input.OrderSN,
		PayURL:  ProbePayURL(raw, cfg.PayURLField),
		Raw:     raw,
	}, nil
}

// VerifyNotify 验证 LG-Pay 回调签名
// 缺失签名的回调一律拒绝，不兼容旧网关的免签名模式。
func VerifyNotify(cfg *Config, form map[string][]string) error {
	if cfg == nil || strings.TrimSpace(cfg.SecretKey) == "" {
		return ErrConfigInvalid
	}
	params := make(map[string]string, len(form))
	for key, values := range form {
		if len(values) == 0 {
			continue
		}
		params[key] = values[0]
	}
	switch err := sign.Verify(params, cfg.SecretKey); {
	case errors.Is(err, sign.ErrSignatureMissing):
		return ErrSignatureMissing
	case err != nil:
		return ErrSignatureInvalid
	}
	return nil
}

// ProbePayURL 在网关响应中按优先级探测支付链接
// 顶层字段优先，其次探测嵌套的 data 对象。
func ProbePayURL(raw map[string]interface{}, fields []string) string {
	if len(fields) == 0 {
		fields = defaultPayURLFields
	}
	if found := probeFields(raw, fields); found != "" {
		return found
	}
	if data, ok := raw["data"].(map[string]interface{}); ok {
		return probeFields(data, fields)
	}
	return ""
}

func probeFields(m map[string]interface{}, fields []string) string {
	for _, field := range fields {
		if value, ok := m[field].(string); ok {
			if trimmed := strings.TrimSpace(value); trimmed != "" {
				return trimmed
			}
		}
	}
	return ""
}

// failureMessage 提取网关返回的失败信息
// LG-Pay 成功响应 code 为 0 或 1（版本差异），其余均视为网关侧失败。
func failureMessage(raw map[string]interface{}) (string, bool) {
	code, ok := raw["code"]
	if !ok {
		return "", false
	}
	numeric, ok := code.(float64)
	if !ok {
		return "", false
	}
	if numeric == 0 || numeric == 1 {
		return "", false
	}
	if msg, ok := raw["msg"].(string); ok && strings.TrimSpace(msg) != "" {
		return strings.TrimSpace(msg), true
	}
	if msg, ok := raw["message"].(string); ok && strings.TrimSpace(msg) != "" {
		return strings.TrimSpace(msg), true
	}
	return fmt.Sprintf("gateway code %v", code), true
}

func buildEndpoint(gatewayURL, apiPath string) string {
	base := strings.TrimRight(strings.TrimSpace(gatewayURL), "/")
	path := strings.TrimSpace(apiPath)
	if path == "" {
		return base
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path
}

func postForm(ctx context.Context, endpoint string, params map[string]string) ([]byte, error) {
	values := url.Values{}
	for k, v := range params {
		if v == "" {
			continue
		}
		values.Set(k, v)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(values.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json, text/plain, */*")
	client := &http.Client{Timeout: requestTimeout}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("http status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return body, nil
}
