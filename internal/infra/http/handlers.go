package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ecoponto-backend/internal/domain"
	"ecoponto-backend/internal/infra/logging"
	"ecoponto-backend/internal/usecase"
)

type paymentStatusResponse struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	StatusDetail string `json:"status_detail"`
}

// handlePaymentStatus answers the checkout poller. Reconcile refreshes from
// the provider when needed and falls back to the last known local status, so
// this call only fails when the payment is unknown.
func (s *Server) handlePaymentStatus(w http.ResponseWriter, r *http.Request) {
	paymentID := chi.URLParam(r, "id")
	if paymentID == "" {
		http.Error(w, "payment id is required", http.StatusBadRequest)
		return
	}

	ctx := logging.WithPaymentID(r.Context(), paymentID)
	rec, err := s.paymentUC.Reconcile(ctx, paymentID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.Error(w, "payment not found", http.StatusNotFound)
			return
		}
		logging.With(ctx, s.log).Error().Err(err).Msg("reconcile failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, paymentStatusResponse{
		ID:           rec.ID,
		Status:       string(rec.Status),
		StatusDetail: rec.StatusDetail,
	})
}

type createPaymentRequest struct {
	UserID       string `json:"user_id"` // optional; defaults to the caller
	PlanToken    string `json:"plan_token"`
	Amount       string `json:"amount"`
	Description  string `json:"description"`
	PayerContact string `json:"payer_contact"`
}

type createPaymentResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Amount string `json:"amount"`
}

func (s *Server) handleCreatePayment(w http.ResponseWriter, r *http.Request) {
	principal, err := s.auth.Principal(r)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req createPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.PlanToken == "" || req.Amount == "" {
		http.Error(w, "plan_token and amount are required", http.StatusBadRequest)
		return
	}

	ctx := logging.WithUserID(r.Context(), principal)
	rec, err := s.paymentUC.CreatePayment(ctx, usecase.CreatePaymentInput{
		PrincipalUserID: principal,
		UserID:          req.UserID,
		PlanToken:       req.PlanToken,
		Amount:          req.Amount,
		Description:     req.Description,
		PayerContact:    req.PayerContact,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrPrincipalMismatch):
			http.Error(w, "cannot create payments for another user", http.StatusForbidden)
		case errors.Is(err, domain.ErrAmountOutOfRange), errors.Is(err, domain.ErrInvalidArgument):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			logging.With(ctx, s.log).Error().Err(err).Msg("payment creation failed")
			http.Error(w, "internal error", http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusCreated, createPaymentResponse{
		ID:     rec.ID,
		Status: string(rec.Status),
		Amount: rec.Amount,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
