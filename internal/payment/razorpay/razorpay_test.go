package razorpay

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"testing"
)

func TestValidateConfig(t *testing.T) {
	if err := ValidateConfig(nil); !errors.Is(err, ErrConfigInvalid) {
		t.Fatalf("nil config should be invalid")
	}
	if err := ValidateConfig(&Config{KeyID: "rzp_test_abc"}); !errors.Is(err, ErrConfigInvalid) {
		t.Fatalf("missing key_secret should be invalid")
	}
	if err := ValidateConfig(&Config{KeyID: "rzp_test_abc", KeySecret: "s"}); err != nil {
		t.Fatalf("complete config should validate: %v", err)
	}
}

func TestNormalizeDefaultsCurrency(t *testing.T) {
	cfg := &Config{KeyID: " rzp_test_abc ", KeySecret: "s", Currency: "inr"}
	cfg.Normalize()
	if cfg.KeyID != "rzp_test_abc" || cfg.Currency != "INR" {
		t.Fatalf("unexpected normalized config: %+v", cfg)
	}
	cfg = &Config{KeyID: "k", KeySecret: "s"}
	cfg.Normalize()
	if cfg.Currency != "INR" {
		t.Fatalf("currency default expected INR, got %s", cfg.Currency)
	}
}

func TestVerifyWebhookSignature(t *testing.T) {
	secret := "whsec-test"
	body := `{"event":"payment.captured"}`
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(body))
	valid := hex.EncodeToString(mac.Sum(nil))

	client := &sdkClient{webhookSecret: secret}
	if err := client.VerifyWebhookSignature(body, valid); err != nil {
		t.Fatalf("valid webhook signature rejected: %v", err)
	}
	if err := client.VerifyWebhookSignature(body, "deadbeef"); !errors.Is(err, ErrSignatureInvalid) {
		t.Fatalf("expected ErrSignatureInvalid, got %v", err)
	}
	if err := client.VerifyWebhookSignature(body, ""); !errors.Is(err, ErrSignatureInvalid) {
		t.Fatalf("empty signature must be rejected, got %v", err)
	}

	unconfigured := &sdkClient{}
	if err := unconfigured.VerifyWebhookSignature(body, valid); !errors.Is(err, ErrConfigInvalid) {
		t.Fatalf("missing webhook secret should be config error, got %v", err)
	}
}
