// File: internal/usecase/period_resolver.go
package usecase

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"ecoponto-backend/internal/domain"
	"ecoponto-backend/internal/domain/model"
	"ecoponto-backend/internal/domain/ports/repository"
	"ecoponto-backend/internal/infra/metrics"
)

// PeriodResolution is the outcome of mapping a plan token to coverage days.
// Degraded means the default length was applied; billing-sensitive reporting
// must not trust degraded resolutions silently.
type PeriodResolution struct {
	Days     int
	PlanType string
	Degraded bool
}

// PlanPeriodResolver maps a plan token or id to a positive number of
// coverage days. Resolution never fails: money has already been captured by
// the time this runs, so a best-effort default beats rejecting the payment.
type PlanPeriodResolver interface {
	ResolvePeriod(ctx context.Context, tx repository.Tx, planToken string) PeriodResolution
}

// Compile-time check
var _ PlanPeriodResolver = (*planPeriodResolver)(nil)

type planPeriodResolver struct {
	plans repository.PlanRepository
	log   *zerolog.Logger
}

func NewPlanPeriodResolver(plans repository.PlanRepository, logger *zerolog.Logger) *planPeriodResolver {
	return &planPeriodResolver{plans: plans, log: logger}
}

// ResolvePeriod walks the fallback chain, first match wins:
//  1. active descriptor by plan category, period text parsed
//  2. descriptor by plan id, period text parsed
//  3. keyword match on the raw token itself
//  4. default length, logged and counted as degraded
func (r *planPeriodResolver) ResolvePeriod(ctx context.Context, tx repository.Tx, planToken string) PeriodResolution {
	if desc, err := r.plans.FindActiveByType(ctx, tx, planToken); err == nil && !desc.IsZero() {
		if days, ok := model.ParsePeriodDays(desc.Period); ok {
			return PeriodResolution{Days: days, PlanType: desc.PlanType}
		}
	} else if err != nil && !errors.Is(err, domain.ErrNotFound) {
		r.log.Warn().Err(err).Str("plan_token", planToken).Msg("plan lookup by type failed")
	}

	if desc, err := r.plans.FindByID(ctx, tx, planToken); err == nil && !desc.IsZero() {
		if days, ok := model.ParsePeriodDays(desc.Period); ok {
			return PeriodResolution{Days: days, PlanType: desc.PlanType}
		}
	} else if err != nil && !errors.Is(err, domain.ErrNotFound) {
		r.log.Warn().Err(err).Str("plan_token", planToken).Msg("plan lookup by id failed")
	}

	if days, ok := model.ParsePeriodDays(planToken); ok {
		return PeriodResolution{Days: days, PlanType: planToken}
	}

	metrics.IncDegradedPeriodResolution()
	r.log.Warn().
		Str("plan_token", planToken).
		Int("default_days", model.DefaultPeriodDays).
		Msg("period resolution degraded to default")
	return PeriodResolution{Days: model.DefaultPeriodDays, PlanType: planToken, Degraded: true}
}
