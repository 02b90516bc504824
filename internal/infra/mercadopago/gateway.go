package mercadopago

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"ecoponto-backend/internal/config"
	"ecoponto-backend/internal/domain"
	"ecoponto-backend/internal/domain/ports/adapter"
)

// Compile-time check
var _ adapter.PaymentGateway = (*Gateway)(nil)

// Gateway implements the provider boundary using direct HTTP calls against
// the Mercado Pago payments API.
type Gateway struct {
	accessToken string
	baseURL     string
	client      *http.Client
}

func NewGateway(cfg config.MercadoPagoConfig) *Gateway {
	return &Gateway{
		accessToken: cfg.AccessToken,
		baseURL:     cfg.BaseURL,
		client:      &http.Client{Timeout: cfg.Timeout},
	}
}

func (g *Gateway) Name() string { return "mercadopago" }

// paymentResponse is the subset of the provider payment object we consume.
// Payloads are parsed strictly at this boundary and never passed through as
// open maps.
type paymentResponse struct {
	ID                json.Number `json:"id"`
	Status            string      `json:"status"`
	StatusDetail      string      `json:"status_detail"`
	TransactionAmount json.Number `json:"transaction_amount"`
	ExternalReference string      `json:"external_reference"`
	Payer             struct {
		Email string `json:"email"`
	} `json:"payer"`
}

func (p *paymentResponse) toAdapter() *adapter.ProviderPayment {
	return &adapter.ProviderPayment{
		ID:               p.ID.String(),
		Status:           p.Status,
		StatusDetail:     p.StatusDetail,
		Amount:           p.TransactionAmount.String(),
		CorrelationToken: p.ExternalReference,
		PayerContact:     p.Payer.Email,
	}
}

// GetPayment fetches the authoritative payment state.
func (g *Gateway) GetPayment(ctx context.Context, paymentID string) (*adapter.ProviderPayment, error) {
	url := fmt.Sprintf("%s/v1/payments/%s", g.baseURL, paymentID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build payment query: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+g.accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("query payment %s: %w", paymentID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, domain.ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("provider returned %d: %s", resp.StatusCode, string(body))
	}

	var p paymentResponse
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, fmt.Errorf("decode payment response: %w", err)
	}
	if p.ID.String() == "" {
		return nil, fmt.Errorf("provider payment response missing id")
	}
	return p.toAdapter(), nil
}

// CreatePayment opens a payment on the provider. The per-attempt idempotency
// key goes out as X-Idempotency-Key so provider-side retries of one attempt
// collapse while two deliberate attempts stay distinct.
func (g *Gateway) CreatePayment(ctx context.Context, in adapter.CreatePaymentRequest) (*adapter.ProviderPayment, error) {
	amount, err := strconv.ParseFloat(in.Amount, 64)
	if err != nil || amount <= 0 {
		return nil, domain.ErrInvalidArgument
	}

	body := map[string]any{
		"transaction_amount": amount,
		"description":        in.Description,
		"external_reference": in.CorrelationToken,
		"payer": map[string]any{
			"email": in.PayerContact,
		},
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal payment request: %w", err)
	}

	url := g.baseURL + "/v1/payments"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("build payment request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+g.accessToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Idempotency-Key", in.IdempotencyKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("create payment: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("provider returned %d: %s", resp.StatusCode, string(respBody))
	}

	var p paymentResponse
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, fmt.Errorf("decode payment response: %w", err)
	}
	if p.ID.String() == "" {
		return nil, fmt.Errorf("provider payment response missing id")
	}
	return p.toAdapter(), nil
}
