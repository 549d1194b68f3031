package sign

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"strings"
	"testing"
)

func md5Upper(content string) string {
	sum := md5.Sum([]byte(content))
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}

func TestSignSortsFieldsByteWise(t *testing.T) {
	params := map[string]string{
		"mch_id":     "10001",
		"order_sn":   "LG20240101000000123456",
		"money":      "19950",
		"trade_type": "native",
	}
	expected := md5Upper("mch_id=10001&money=19950&order_sn=LG20240101000000123456&trade_type=native&key=secret")
	if got := Sign(params, "secret"); got != expected {
		t.Fatalf("unexpected signature: got=%s expected=%s", got, expected)
	}
}

func TestSignInsensitiveToInsertionOrder(t *testing.T) {
	a := map[string]string{}
	a["b"] = "2"
	a["a"] = "1"
	a["c"] = "3"
	b := map[string]string{}
	b["c"] = "3"
	b["a"] = "1"
	b["b"] = "2"
	if Sign(a, "k") != Sign(b, "k") {
		t.Fatalf("signature must not depend on insertion order")
	}
}

func TestSignExcludesEmptyValues(t *testing.T) {
	base := map[string]string{"order_sn": "p123", "money": "100"}
	withEmpty := map[string]string{"order_sn": "p123", "money": "100", "remark": ""}
	if Sign(base, "k") != Sign(withEmpty, "k") {
		t.Fatalf("empty-valued field must not change signature")
	}
}

func TestSignExcludesSignatureField(t *testing.T) {
	base := map[string]string{"order_sn": "p123"}
	withSign := map[string]string{"order_sn": "p123", "sign": "GARBAGE"}
	if Sign(base, "k") != Sign(withSign, "k") {
		t.Fatalf("pre-existing sign field must not change signature")
	}
}

func TestContentDegeneratesToKeyOnly(t *testing.T) {
	if got := Content(map[string]string{}, "secret"); got != "key=secret" {
		t.Fatalf("unexpected degenerate content: %s", got)
	}
	if got := Content(map[string]string{"a": ""}, "secret"); got != "key=secret" {
		t.Fatalf("unexpected degenerate content with empty field: %s", got)
	}
}

func TestVerifyRoundTrip(t *testing.T) {
	params := Attach(map[string]string{
		"order_sn": "p123",
		"money":    "100",
	}, "secret")
	if err := Verify(params, "secret"); err != nil {
		t.Fatalf("verify attached signature failed: %v", err)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	params := Attach(map[string]string{"order_sn": "p123", "money": "100"}, "secret-a")
	if err := Verify(params, "secret-b"); !errors.Is(err, ErrSignatureInvalid) {
		t.Fatalf("expected ErrSignatureInvalid, got %v", err)
	}
}

func TestVerifyRejectsMissingSignature(t *testing.T) {
	err := Verify(map[string]string{"order_sn": "p123"}, "secret")
	if !errors.Is(err, ErrSignatureMissing) {
		t.Fatalf("expected ErrSignatureMissing, got %v", err)
	}
}

func TestVerifyRejectsTamperedField(t *testing.T) {
	params := Attach(map[string]string{"order_sn": "p123", "money": "100"}, "secret")
	params["money"] = "999"
	if err := Verify(params, "secret"); !errors.Is(err, ErrSignatureInvalid) {
		t.Fatalf("expected ErrSignatureInvalid, got %v", err)
	}
}
