package public

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/lgpay-gateway/internal/constants"
	"github.com/lgpay-gateway/internal/http/response"
	"github.com/lgpay-gateway/internal/service"

	"github.com/gin-gonic/gin"
)

// RazorpayWebhook Razorpay webhook 入口
// 签名覆盖原始请求体，必须在任何解析之前完成校验。
func (h *Handler) RazorpayWebhook(c *gin.Context) {
	log := requestLog(c)
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		log.Warnw("razorpay_webhook_read_failed", "error", err)
		response.BadRequest(c, "read body failed")
		return
	}

	signature := c.GetHeader(constants.RazorpaySignatureHeader)
	if err := h.PaymentService.VerifyRazorpayWebhook(body, signature); err != nil {
		switch {
		case errors.Is(err, service.ErrConfigMissing):
			log.Errorw("razorpay_webhook_config_missing", "error", err)
			response.Internal(c, "razorpay not configured")
		default:
			log.Warnw("razorpay_webhook_signature_invalid",
				"client_ip", c.ClientIP(),
				"error", err,
			)
			response.BadRequest(c, "signature invalid")
		}
		return
	}

	var event struct {
		Event string `json:"event"`
	}
	_ = json.Unmarshal(body, &event)
	log.Infow("razorpay_webhook_received",
		"event", event.Event,
		"client_ip", c.ClientIP(),
		"raw_body", truncateNotifyLogValue(string(body)),
	)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
