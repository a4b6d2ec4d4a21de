package subscription

import (
	"context"
	"strings"
	"time"

	"github.com/sandyspetshop/petshop-scheduler/internal/audit"
	domain "github.com/sandyspetshop/petshop-scheduler/internal/domain/subscription"
	"github.com/sandyspetshop/petshop-scheduler/internal/metrics"
	"github.com/sandyspetshop/petshop-scheduler/internal/models"
	"github.com/sandyspetshop/petshop-scheduler/internal/recurrence"
)

type EditSubscription struct {
	repo    domain.Repository
	planner Planner
	audit   *audit.Dispatcher
	metrics *metrics.SchedulingMetrics
}

func NewEditSubscription(
	repo domain.Repository,
	planner Planner,
	audit *audit.Dispatcher,
	m *metrics.SchedulingMetrics,
) *EditSubscription {
	return &EditSubscription{
		repo:    repo,
		planner: planner,
		audit:   audit,
		metrics: m,
	}
}

// Execute replaces every future occurrence with ones from the new rule. Past
// occurrences are left alone.
func (uc *EditSubscription) Execute(
	ctx context.Context,
	id string,
	in Input,
) (*Result, error) {

	mc, err := uc.repo.GetMonthlyClient(ctx, id)
	if err != nil {
		return nil, err
	}

	// Without a new start date the stored one stands.
	if strings.TrimSpace(in.StartDate) == "" {
		in.StartDate = mc.StartDate
	}

	pl, err := uc.planner.validate(in)
	if err != nil {
		return nil, err
	}

	now := uc.planner.now()
	pl.apply(mc)

	// --------------------------------------------------
	// 1. Troca as ocorrências futuras (ambas as coleções) numa transação
	// --------------------------------------------------
	var generated int
	regen := func(kept []time.Time) ([]models.Appointment, error) {
		instants, err := uc.planner.instants(mc, laterOf(now, pl.start))
		if err != nil {
			return nil, ErrInvalidRecurrence
		}
		instants = recurrence.ExcludeExisting(instants, kept)
		generated = len(instants)
		return uc.planner.rows(mc, instants), nil
	}
	if !mc.IsActive {
		regen = nil
	}

	removed, err := uc.repo.ReplaceFutureOccurrences(ctx, mc, now, regen)
	if err != nil {
		return nil, err
	}

	res := &Result{Client: mc, Removed: removed, Generated: generated}

	switch {
	case !mc.IsActive:
		res.Outcome = OutcomeInactive
	case generated == 0:
		res.Outcome = OutcomeNoAppointments
	default:
		res.Outcome = OutcomeUpdated
	}
	if mc.IsActive {
		uc.metrics.ObserveOccurrences(mc.RecurrenceType, generated)
	}

	uc.dispatch(in.ActorID, mc.ID, res)
	return res, nil
}

func (uc *EditSubscription) dispatch(actorID, id string, res *Result) {
	uc.audit.Dispatch(audit.Event{
		ActorID:  actorID,
		Action:   "subscription_updated",
		Entity:   "monthly_client",
		EntityID: id,
		Metadata: map[string]any{
			"removed":     res.Removed,
			"occurrences": res.Generated,
		},
	})
}
