package public

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/lgpay-gateway/internal/constants"
	"github.com/lgpay-gateway/internal/service"

	"github.com/gin-gonic/gin"
)

// PaymentNotify LG-Pay 异步通知入口
// 网关以表单或 JSON 提交通知，应答为明文 success/fail。
func (h *Handler) PaymentNotify(c *gin.Context) {
	log := requestLog(c)
	form, err := parseNotifyParams(c)
	if err != nil {
		log.Warnw("payment_notify_parse_failed",
			"client_ip", c.ClientIP(),
			"content_type", strings.TrimSpace(c.GetHeader("Content-Type")),
			"error", err,
		)
		c.String(http.StatusBadRequest, constants.NotifyAckFail)
		return
	}
	log.Infow("payment_notify_received",
		"client_ip", c.ClientIP(),
		"order_sn", getFirstValue(form, "order_sn"),
		"trade_status", getFirstValue(form, "trade_status"),
		"raw_form", notifyRawFormForLog(form),
	)

	ack, err := h.PaymentService.HandleNotify(form)
	switch {
	case errors.Is(err, service.ErrInvalidSignature):
		log.Warnw("payment_notify_signature_invalid",
			"client_ip", c.ClientIP(),
			"order_sn", getFirstValue(form, "order_sn"),
			"error", err,
		)
		c.String(http.StatusBadRequest, ack)
	case errors.Is(err, service.ErrConfigMissing):
		log.Errorw("payment_notify_config_missing", "error", err)
		c.String(http.StatusInternalServerError, ack)
	case err != nil:
		log.Errorw("payment_notify_hook_failed",
			"order_sn", getFirstValue(form, "order_sn"),
			"error", err,
		)
		c.String(http.StatusInternalServerError, ack)
	default:
		log.Infow("payment_notify_processed", "order_sn", getFirstValue(form, "order_sn"))
		c.String(http.StatusOK, ack)
	}
}

// parseNotifyParams 解析通知参数（表单或 JSON）
// 参与验签的只能是扁平标量字段，嵌套结构视为非法通知。
func parseNotifyParams(c *gin.Context) (map[string][]string, error) {
	contentType := strings.ToLower(strings.TrimSpace(c.GetHeader("Content-Type")))
	if strings.Contains(contentType, "application/json") {
		return parseJSONNotify(c.Request.Body)
	}
	if err := c.Request.ParseForm(); err != nil {
		return nil, err
	}
	if len(c.Request.PostForm) > 0 {
		return c.Request.PostForm, nil
	}
	return c.Request.Form, nil
}

func parseJSONNotify(body io.Reader) (map[string][]string, error) {
	decoder := json.NewDecoder(body)
	decoder.UseNumber()
	var payload map[string]interface{}
	if err := decoder.Decode(&payload); err != nil {
		return nil, err
	}
	form := make(map[string][]string, len(payload))
	for key, value := range payload {
		rendered, err := renderScalar(value)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", key, err)
		}
		form[key] = []string{rendered}
	}
	return form, nil
}

// renderScalar 将 JSON 标量渲染为规范十进制文本
func renderScalar(value interface{}) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case json.Number:
		return v.String(), nil
	case bool:
		if v {
			return "true", nil
		}
		return "false", nil
	default:
		return "", errors.New("nested value not allowed")
	}
}

func getFirstValue(form map[string][]string, key string) string {
	if values, ok := form[key]; ok && len(values) > 0 {
		return strings.TrimSpace(values[0])
	}
	return ""
}

func truncateNotifyLogValue(raw string) string {
	raw = strings.TrimSpace(raw)
	if len(raw) <= callbackLogValueLimit {
		return raw
	}
	return raw[:callbackLogValueLimit] + "...(truncated)"
}

func notifyRawFormForLog(form map[string][]string) map[string]interface{} {
	result := make(map[string]interface{}, len(form))
	for key, values := range form {
		if len(values) == 0 {
			result[key] = ""
			continue
		}
		result[key] = truncateNotifyLogValue(values[0])
	}
	return result
}
