package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"ecoponto-backend/internal/domain"
	"ecoponto-backend/internal/infra/logging"
	"ecoponto-backend/internal/infra/metrics"
)

// webhookPayload is the strictly-parsed notification body. Anything beyond
// this shape is ignored; anything missing from it is rejected.
type webhookPayload struct {
	Type string `json:"type"`
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

func (s *Server) handleWebhookPreflight(w http.ResponseWriter, r *http.Request) {
	h := w.Header()
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	h.Set("Access-Control-Allow-Headers", "Content-Type, X-Signature, X-Request-Id")
	w.WriteHeader(http.StatusNoContent)
}

// handleWebhook processes provider-pushed payment events. Non-2xx responses
// make the provider redeliver, so only authenticity failures (401, provider
// retries under its own policy) and retry-safe internal failures (500)
// return errors; everything terminal is acknowledged with 200.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	l := logging.With(r.Context(), s.log)

	var payload webhookPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		l.Warn().Err(err).Msg("webhook body undecodable")
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	metrics.IncWebhookEvent(payload.Type)
	if payload.Type != "payment" {
		// Acknowledged and ignored; the provider pushes several event
		// families through one endpoint.
		s.ack(w)
		return
	}
	if payload.Data.ID == "" {
		l.Warn().Msg("payment webhook without data.id")
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	err := s.verifier.Verify(
		r.Header.Get("X-Signature"),
		r.Header.Get("X-Request-Id"),
		payload.Data.ID,
	)
	if err != nil {
		metrics.IncWebhookVerification(verificationLabel(err))
		l.Warn().
			Err(err).
			Str("payment_id", payload.Data.ID).
			Str("request_id", r.Header.Get("X-Request-Id")).
			Msg("webhook rejected")
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	metrics.IncWebhookVerification("verified")

	ctx := logging.WithPaymentID(r.Context(), payload.Data.ID)
	if err := s.paymentUC.ProcessNotification(ctx, payload.Data.ID); err != nil {
		logging.With(ctx, s.log).Error().Err(err).Msg("webhook processing failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	s.ack(w)
}

func (s *Server) ack(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"received"}`))
}

func verificationLabel(err error) string {
	switch {
	case errors.Is(err, domain.ErrSignatureStale):
		return "stale_or_future"
	case errors.Is(err, domain.ErrSignatureMissing):
		return "missing_headers"
	case errors.Is(err, domain.ErrSignatureUnconfigured):
		return "unconfigured"
	default:
		return "invalid_signature"
	}
}
