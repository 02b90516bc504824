package mercadopago

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"ecoponto-backend/internal/domain"
)

// SignatureVerifier checks that an inbound notification really came from the
// provider and is fresh. The check is pure: no storage, no network.
//
// The x-signature header carries "ts=<unix>,v1=<hex hmac>"; the HMAC-SHA256
// is computed over the manifest "id:{event_id};request-id:{request_id};ts:{ts};"
// with the shared webhook secret.
type SignatureVerifier struct {
	secret string
	dev    bool
	window time.Duration
	now    func() time.Time
}

func NewSignatureVerifier(secret string, dev bool) *SignatureVerifier {
	return &SignatureVerifier{
		secret: secret,
		dev:    dev,
		window: 5 * time.Minute,
		now:    time.Now,
	}
}

// Verify returns nil when the notification is authentic and fresh, otherwise
// one of the domain signature errors. In dev mode an unconfigured secret or
// missing headers pass through; in production they never do.
func (v *SignatureVerifier) Verify(signatureHeader, requestID, eventID string) error {
	if v.secret == "" {
		if v.dev {
			return nil
		}
		return domain.ErrSignatureUnconfigured
	}
	if signatureHeader == "" || requestID == "" {
		if v.dev {
			return nil
		}
		return domain.ErrSignatureMissing
	}

	ts, received, ok := parseSignatureHeader(signatureHeader)
	if !ok {
		return domain.ErrSignatureInvalid
	}

	tsUnix, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return domain.ErrSignatureInvalid
	}
	skew := v.now().Sub(time.Unix(tsUnix, 0))
	if skew > v.window || skew < -v.window {
		return domain.ErrSignatureStale
	}

	manifest := fmt.Sprintf("id:%s;request-id:%s;ts:%s;", eventID, requestID, ts)
	mac := hmac.New(sha256.New, []byte(v.secret))
	mac.Write([]byte(manifest))
	expected := hex.EncodeToString(mac.Sum(nil))

	// hmac.Equal keeps the comparison constant-time.
	if !hmac.Equal([]byte(expected), []byte(strings.ToLower(received))) {
		return domain.ErrSignatureInvalid
	}
	return nil
}

// parseSignatureHeader splits "ts=...,v1=..." in either order.
func parseSignatureHeader(header string) (ts, v1 string, ok bool) {
	for _, part := range strings.Split(header, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "ts":
			ts = kv[1]
		case "v1":
			v1 = kv[1]
		}
	}
	return ts, v1, ts != "" && v1 != ""
}
