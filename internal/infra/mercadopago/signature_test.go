//go:build !integration

package mercadopago

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"testing"
	"time"

	"ecoponto-backend/internal/domain"
)

const testSecret = "whsec_test"

func signedHeader(secret, eventID, requestID string, ts time.Time) string {
	tsStr := fmt.Sprintf("%d", ts.Unix())
	manifest := fmt.Sprintf("id:%s;request-id:%s;ts:%s;", eventID, requestID, tsStr)
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(manifest))
	return fmt.Sprintf("ts=%s,v1=%s", tsStr, hex.EncodeToString(mac.Sum(nil)))
}

func fixedVerifier(secret string, dev bool, now time.Time) *SignatureVerifier {
	v := NewSignatureVerifier(secret, dev)
	v.now = func() time.Time { return now }
	return v
}

func TestSignatureVerifier(t *testing.T) {
	now := time.Unix(1756600000, 0)

	t.Run("valid signature passes", func(t *testing.T) {
		v := fixedVerifier(testSecret, false, now)
		header := signedHeader(testSecret, "evt-1", "req-1", now)
		if err := v.Verify(header, "req-1", "evt-1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("reversed header order passes", func(t *testing.T) {
		v := fixedVerifier(testSecret, false, now)
		tsStr := fmt.Sprintf("%d", now.Unix())
		manifest := fmt.Sprintf("id:%s;request-id:%s;ts:%s;", "evt-1", "req-1", tsStr)
		mac := hmac.New(sha256.New, []byte(testSecret))
		mac.Write([]byte(manifest))
		header := fmt.Sprintf("v1=%s, ts=%s", hex.EncodeToString(mac.Sum(nil)), tsStr)
		if err := v.Verify(header, "req-1", "evt-1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("stale timestamp rejected even with valid hmac", func(t *testing.T) {
		v := fixedVerifier(testSecret, false, now)
		header := signedHeader(testSecret, "evt-1", "req-1", now.Add(-10*time.Minute))
		if err := v.Verify(header, "req-1", "evt-1"); !errors.Is(err, domain.ErrSignatureStale) {
			t.Fatalf("want ErrSignatureStale, got %v", err)
		}
	})

	t.Run("future timestamp rejected", func(t *testing.T) {
		v := fixedVerifier(testSecret, false, now)
		header := signedHeader(testSecret, "evt-1", "req-1", now.Add(10*time.Minute))
		if err := v.Verify(header, "req-1", "evt-1"); !errors.Is(err, domain.ErrSignatureStale) {
			t.Fatalf("want ErrSignatureStale, got %v", err)
		}
	})

	t.Run("tampered event id rejected", func(t *testing.T) {
		v := fixedVerifier(testSecret, false, now)
		header := signedHeader(testSecret, "evt-1", "req-1", now)
		if err := v.Verify(header, "req-1", "evt-2"); !errors.Is(err, domain.ErrSignatureInvalid) {
			t.Fatalf("want ErrSignatureInvalid, got %v", err)
		}
	})

	t.Run("wrong secret rejected", func(t *testing.T) {
		v := fixedVerifier(testSecret, false, now)
		header := signedHeader("whsec_other", "evt-1", "req-1", now)
		if err := v.Verify(header, "req-1", "evt-1"); !errors.Is(err, domain.ErrSignatureInvalid) {
			t.Fatalf("want ErrSignatureInvalid, got %v", err)
		}
	})

	t.Run("garbage header rejected", func(t *testing.T) {
		v := fixedVerifier(testSecret, false, now)
		for _, header := range []string{"nope", "ts=abc,v1=def", "v1=deadbeef", "ts=1756600000"} {
			if err := v.Verify(header, "req-1", "evt-1"); err == nil {
				t.Errorf("header %q: want error, got nil", header)
			}
		}
	})

	t.Run("missing headers rejected in production", func(t *testing.T) {
		v := fixedVerifier(testSecret, false, now)
		if err := v.Verify("", "", "evt-1"); !errors.Is(err, domain.ErrSignatureMissing) {
			t.Fatalf("want ErrSignatureMissing, got %v", err)
		}
	})

	t.Run("missing headers pass in dev", func(t *testing.T) {
		v := fixedVerifier(testSecret, true, now)
		if err := v.Verify("", "", "evt-1"); err != nil {
			t.Fatalf("dev mode must accept unsigned notifications: %v", err)
		}
	})

	t.Run("unconfigured secret rejected in production", func(t *testing.T) {
		v := fixedVerifier("", false, now)
		header := signedHeader(testSecret, "evt-1", "req-1", now)
		if err := v.Verify(header, "req-1", "evt-1"); !errors.Is(err, domain.ErrSignatureUnconfigured) {
			t.Fatalf("want ErrSignatureUnconfigured, got %v", err)
		}
	})

	t.Run("unconfigured secret passes in dev", func(t *testing.T) {
		v := fixedVerifier("", true, now)
		if err := v.Verify("", "", "evt-1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("dev mode still verifies when headers present", func(t *testing.T) {
		v := fixedVerifier(testSecret, true, now)
		header := signedHeader("whsec_other", "evt-1", "req-1", now)
		if err := v.Verify(header, "req-1", "evt-1"); !errors.Is(err, domain.ErrSignatureInvalid) {
			t.Fatalf("want ErrSignatureInvalid, got %v", err)
		}
	})
}
