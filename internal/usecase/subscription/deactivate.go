package subscription

import (
	"context"

	"github.com/sandyspetshop/petshop-scheduler/internal/audit"
	domain "github.com/sandyspetshop/petshop-scheduler/internal/domain/subscription"
	"github.com/sandyspetshop/petshop-scheduler/internal/timezone"
)

type DeactivateSubscription struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	now   timezone.Clock
}

func NewDeactivateSubscription(
	repo domain.Repository,
	audit *audit.Dispatcher,
	clock timezone.Clock,
) *DeactivateSubscription {
	if clock == nil {
		clock = timezone.SystemClock
	}
	return &DeactivateSubscription{repo: repo, audit: audit, now: clock}
}

// Execute stops the subscription and frees its future slots.
func (uc *DeactivateSubscription) Execute(
	ctx context.Context,
	actorID string,
	id string,
) (*Result, error) {

	mc, err := uc.repo.GetMonthlyClient(ctx, id)
	if err != nil {
		return nil, err
	}

	mc.IsActive = false
	removed, err := uc.repo.ReplaceFutureOccurrences(ctx, mc, uc.now(), nil)
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  actorID,
		Action:   "subscription_deactivated",
		Entity:   "monthly_client",
		EntityID: mc.ID,
		Metadata: map[string]any{"removed": removed},
	})

	return &Result{Client: mc, Outcome: OutcomeInactive, Removed: removed}, nil
}
