package appointment

import (
	"context"

	"github.com/sandyspetshop/petshop-scheduler/internal/audit"
	domain "github.com/sandyspetshop/petshop-scheduler/internal/domain/appointment"
	"github.com/sandyspetshop/petshop-scheduler/internal/domain/service"
	"github.com/sandyspetshop/petshop-scheduler/internal/models"
	"github.com/sandyspetshop/petshop-scheduler/internal/webhook"
)

type CompleteAppointment struct {
	repo     domain.Repository
	sched    Schedule
	audit    *audit.Dispatcher
	webhooks *webhook.Dispatcher
}

func NewCompleteAppointment(
	repo domain.Repository,
	sched Schedule,
	audit *audit.Dispatcher,
	webhooks *webhook.Dispatcher,
) *CompleteAppointment {
	return &CompleteAppointment{
		repo:     repo,
		sched:    sched,
		audit:    audit,
		webhooks: webhooks,
	}
}

func (uc *CompleteAppointment) Execute(
	ctx context.Context,
	actorID string,
	family service.Family,
	appointmentID string,
) (*models.Appointment, error) {

	if !family.Valid() {
		return nil, ErrInvalidFamily
	}

	ap, err := uc.repo.GetAppointment(ctx, family, appointmentID)
	if err != nil {
		return nil, err
	}

	if err := domain.Complete(ap, uc.sched.now()); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  actorID,
		Action:   "appointment_completed",
		Entity:   "appointment",
		EntityID: ap.ID,
	})

	// Visits feed a different follow-up automation.
	event := webhook.EventCompleted
	if ap.Service.IsVisit() {
		event = webhook.EventCompletedVisit
	}
	uc.webhooks.Notify(event, webhook.NewAppointmentPayload(uc.sched.Zone, ap))

	return ap, nil
}
