package subscription

import (
	"context"

	"github.com/google/uuid"

	"github.com/sandyspetshop/petshop-scheduler/internal/audit"
	domain "github.com/sandyspetshop/petshop-scheduler/internal/domain/subscription"
	"github.com/sandyspetshop/petshop-scheduler/internal/metrics"
	"github.com/sandyspetshop/petshop-scheduler/internal/models"
)

type CreateSubscription struct {
	repo    domain.Repository
	planner Planner
	audit   *audit.Dispatcher
	metrics *metrics.SchedulingMetrics
}

func NewCreateSubscription(
	repo domain.Repository,
	planner Planner,
	audit *audit.Dispatcher,
	m *metrics.SchedulingMetrics,
) *CreateSubscription {
	return &CreateSubscription{
		repo:    repo,
		planner: planner,
		audit:   audit,
		metrics: m,
	}
}

// Execute stores the client and generates its occurrences from the start date on.
// Occurrences already behind today are stored as completed.
func (uc *CreateSubscription) Execute(
	ctx context.Context,
	in Input,
) (*Result, error) {

	// --------------------------------------------------
	// 1. Validação + preço
	// --------------------------------------------------
	pl, err := uc.planner.validate(in)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 2. Mensalista
	// --------------------------------------------------
	mc := &models.MonthlyClient{
		ID:            uuid.NewString(),
		IsActive:      true,
		PaymentStatus: string(domain.PaymentPending),
	}
	pl.apply(mc)

	// --------------------------------------------------
	// 3. Ocorrências (mesma transação do mensalista)
	// --------------------------------------------------
	instants, err := uc.planner.instants(mc, pl.start)
	if err != nil {
		return nil, ErrInvalidRecurrence
	}

	if err := uc.repo.CreateMonthlyClient(ctx, mc, uc.planner.rows(mc, instants)); err != nil {
		return nil, err
	}

	uc.metrics.ObserveOccurrences(mc.RecurrenceType, len(instants))

	uc.audit.Dispatch(audit.Event{
		ActorID:  in.ActorID,
		Action:   "subscription_created",
		Entity:   "monthly_client",
		EntityID: mc.ID,
		Metadata: map[string]any{
			"occurrences": len(instants),
			"service":     mc.Service,
		},
	})

	res := &Result{Client: mc, Outcome: OutcomeCreated, Generated: len(instants)}
	if len(instants) == 0 {
		res.Outcome = OutcomeNoAppointments
	}
	return res, nil
}
