//go:build !integration

package usecase_test

import (
	"context"
	"testing"

	"ecoponto-backend/internal/domain/model"
	"ecoponto-backend/internal/domain/ports/repository"
	"ecoponto-backend/internal/usecase"
)

func TestResolvePeriod(t *testing.T) {
	plans := NewMockPlanRepo()
	plans.Add(&model.PlanDescriptor{PlanID: "plan-anual", PlanType: "anual", Period: "365 dias", IsActive: true})
	plans.Add(&model.PlanDescriptor{PlanID: "plan-legado", PlanType: "legado", Period: "90 dias", IsActive: false})
	plans.Add(&model.PlanDescriptor{PlanID: "plan-quebrado", PlanType: "quebrado", Period: "indefinido", IsActive: true})

	r := usecase.NewPlanPeriodResolver(plans, newTestLogger())
	ctx := context.Background()

	t.Run("active descriptor by type", func(t *testing.T) {
		got := r.ResolvePeriod(ctx, repository.NoTX, "anual")
		if got.Days != 365 || got.PlanType != "anual" || got.Degraded {
			t.Fatalf("got %+v", got)
		}
	})

	t.Run("descriptor by id when type misses", func(t *testing.T) {
		got := r.ResolvePeriod(ctx, repository.NoTX, "plan-anual")
		if got.Days != 365 || got.PlanType != "anual" || got.Degraded {
			t.Fatalf("got %+v", got)
		}
	})

	t.Run("inactive descriptor still resolvable by id", func(t *testing.T) {
		got := r.ResolvePeriod(ctx, repository.NoTX, "plan-legado")
		if got.Days != 90 || got.Degraded {
			t.Fatalf("got %+v", got)
		}
	})

	t.Run("keyword match on raw token", func(t *testing.T) {
		got := r.ResolvePeriod(ctx, repository.NoTX, "promo mensal 2026")
		if got.Days != 30 || got.Degraded {
			t.Fatalf("got %+v", got)
		}
	})

	t.Run("unparseable descriptor falls through the chain", func(t *testing.T) {
		// Type lookup hits plan-quebrado but its period text parses to nothing,
		// and "quebrado" itself carries no keyword.
		got := r.ResolvePeriod(ctx, repository.NoTX, "quebrado")
		if got.Days != model.DefaultPeriodDays || !got.Degraded {
			t.Fatalf("got %+v", got)
		}
	})

	t.Run("unknown token degrades to default", func(t *testing.T) {
		got := r.ResolvePeriod(ctx, repository.NoTX, "ref#9981")
		if got.Days != model.DefaultPeriodDays || !got.Degraded {
			t.Fatalf("got %+v", got)
		}
		if got.PlanType != "ref#9981" {
			t.Fatalf("degraded resolution must keep the raw token as plan type, got %q", got.PlanType)
		}
	})
}
