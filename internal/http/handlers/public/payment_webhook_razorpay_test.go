package public

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/lgpay-gateway/internal/constants"

	"github.com/gin-gonic/gin"
)

func postWebhook(h *Handler, body, signature string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/webhook/razorpay", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if signature != "" {
		req.Header.Set(constants.RazorpaySignatureHeader, signature)
	}
	c.Request = req
	h.RazorpayWebhook(c)
	return w
}

func TestRazorpayWebhookValid(t *testing.T) {
	gin.SetMode(gin.TestMode)

	stub := &stubRazorpayClient{}
	h := newTestHandler(testGatewayConfig("https://pay.example.com"), stub, nil)

	w := postWebhook(h, `{"event":"payment.captured"}`, "sig")
	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"status":"ok"`) {
		t.Fatalf("expected ok ack, got %s", w.Body.String())
	}
}

func TestRazorpayWebhookInvalidSignature(t *testing.T) {
	gin.SetMode(gin.TestMode)

	stub := &stubRazorpayClient{verifyErr: errors.New("signature mismatch")}
	h := newTestHandler(testGatewayConfig("https://pay.example.com"), stub, nil)

	w := postWebhook(h, `{"event":"payment.captured"}`, "bad")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status want 400 got %d", w.Code)
	}
}

func TestRazorpayWebhookNotConfigured(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h := newTestHandler(testGatewayConfig("https://pay.example.com"), nil, nil)
	w := postWebhook(h, `{"event":"payment.captured"}`, "sig")

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status want 500 got %d", w.Code)
	}
}
