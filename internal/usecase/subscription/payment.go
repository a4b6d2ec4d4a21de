package subscription

import (
	"context"
	"errors"
	"fmt"

	"github.com/sandyspetshop/petshop-scheduler/internal/audit"
	domain "github.com/sandyspetshop/petshop-scheduler/internal/domain/subscription"
	"github.com/sandyspetshop/petshop-scheduler/internal/httperr"
	"github.com/sandyspetshop/petshop-scheduler/internal/infra/payments"
	"github.com/sandyspetshop/petshop-scheduler/internal/models"
	"github.com/sandyspetshop/petshop-scheduler/internal/timezone"
)

var (
	ErrPaymentsDisabled = httperr.ErrBusiness("payments_not_configured")
	ErrNothingToCharge  = httperr.ErrBusiness("invalid_amount")
	ErrInactive         = httperr.ErrBusiness("subscription_inactive")
)

// Gateway creates hosted checkout links.
type Gateway interface {
	CreateLink(ctx context.Context, req payments.LinkRequest) (*payments.Link, error)
}

type CreatePaymentLink struct {
	repo    domain.Repository
	gateway Gateway
	audit   *audit.Dispatcher
}

func NewCreatePaymentLink(
	repo domain.Repository,
	gateway Gateway,
	audit *audit.Dispatcher,
) *CreatePaymentLink {
	return &CreatePaymentLink{repo: repo, gateway: gateway, audit: audit}
}

// Execute charges the package price and leaves the subscription pending until paid.
func (uc *CreatePaymentLink) Execute(
	ctx context.Context,
	actorID string,
	id string,
) (*models.MonthlyClient, error) {

	mc, err := uc.repo.GetMonthlyClient(ctx, id)
	if err != nil {
		return nil, err
	}
	if !mc.IsActive {
		return nil, ErrInactive
	}
	if mc.PackagePrice <= 0 {
		return nil, ErrNothingToCharge
	}

	link, err := uc.gateway.CreateLink(ctx, payments.LinkRequest{
		ExternalReference: mc.ID,
		Title:             fmt.Sprintf("Pacote mensal - %s", mc.PetName),
		Description:       mc.Service.Label(),
		Amount:            mc.PackagePrice,
		PayerName:         mc.OwnerName,
	})
	if errors.Is(err, payments.ErrNotConfigured) {
		return nil, ErrPaymentsDisabled
	}
	if err != nil {
		return nil, err
	}

	mc.PaymentLink = link.URL
	mc.PaymentPreferenceID = link.PreferenceID
	mc.PaymentStatus = string(domain.PaymentPending)

	if err := uc.repo.UpdateMonthlyClient(ctx, mc); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  actorID,
		Action:   "payment_link_created",
		Entity:   "monthly_client",
		EntityID: mc.ID,
		Metadata: map[string]any{"preference_id": link.PreferenceID},
	})

	return mc, nil
}

type MarkPaid struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	now   timezone.Clock
}

func NewMarkPaid(
	repo domain.Repository,
	audit *audit.Dispatcher,
	clock timezone.Clock,
) *MarkPaid {
	if clock == nil {
		clock = timezone.SystemClock
	}
	return &MarkPaid{repo: repo, audit: audit, now: clock}
}

func (uc *MarkPaid) Execute(
	ctx context.Context,
	actorID string,
	id string,
) (*models.MonthlyClient, error) {

	mc, err := uc.repo.GetMonthlyClient(ctx, id)
	if err != nil {
		return nil, err
	}

	due := domain.NextDueDate(mc.PaymentDueDate, uc.now())
	mc.PaymentStatus = string(domain.PaymentPaid)
	mc.PaymentDueDate = &due

	if err := uc.repo.UpdateMonthlyClient(ctx, mc); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  actorID,
		Action:   "subscription_paid",
		Entity:   "monthly_client",
		EntityID: mc.ID,
	})

	return mc, nil
}

var _ Gateway = (*payments.MercadoPago)(nil)
