// File: internal/infra/http/server.go
package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"ecoponto-backend/internal/config"
	"ecoponto-backend/internal/infra/mercadopago"
	redisinfra "ecoponto-backend/internal/infra/redis"
	"ecoponto-backend/internal/usecase"
)

type Server struct {
	cfg       *config.Config
	paymentUC usecase.PaymentUseCase
	verifier  *mercadopago.SignatureVerifier
	auth      *AuthManager
	limiter   *redisinfra.RateLimiter
	log       *zerolog.Logger
	server    *http.Server
}

func NewServer(
	cfg *config.Config,
	paymentUC usecase.PaymentUseCase,
	verifier *mercadopago.SignatureVerifier,
	auth *AuthManager,
	limiter *redisinfra.RateLimiter,
	logger *zerolog.Logger,
) *Server {
	return &Server{
		cfg:       cfg,
		paymentUC: paymentUC,
		verifier:  verifier,
		auth:      auth,
		limiter:   limiter,
		log:       logger,
	}
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(traceID())
	r.Use(recoverer(s.log))
	r.Use(requestLog(s.log))

	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	rl := rateLimit(s.limiter, "public", s.cfg.RateLimit.Limit, s.cfg.RateLimit.Window, s.log)

	r.Group(func(r chi.Router) {
		r.Use(rl)
		// The provider posts server-to-server; OPTIONS is answered for
		// browser-origin testing convenience only.
		r.Options("/webhooks/payments", s.handleWebhookPreflight)
		r.Post("/webhooks/payments", s.handleWebhook)

		r.Get("/api/v1/payments/{id}/status", s.handlePaymentStatus)
		r.Post("/api/v1/payments", s.handleCreatePayment)
	})

	return r
}

func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Server.Port),
		Handler:      s.routes(),
		ReadTimeout:  s.cfg.Server.RequestTimeout,
		WriteTimeout: s.cfg.Server.RequestTimeout,
	}

	s.log.Info().Int("port", s.cfg.Server.Port).Msg("http server listening")
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprint(w, `{"status":"healthy","service":"ecoponto-backend"}`)
}
