package model

import "time"

// PlanDescriptor is externally-owned reference data describing a sellable
// plan. This core only reads it to resolve coverage periods; it never writes
// plan rows outside of seeding.
type PlanDescriptor struct {
	PlanID    string
	PlanType  string // category token, e.g. "mensal", "anual"
	Period    string // human descriptor, e.g. "30 dias", "1 ano"
	IsActive  bool   // whether the plan is currently sellable
	CreatedAt time.Time
}

func (p *PlanDescriptor) IsZero() bool { return p == nil || p.PlanID == "" }
