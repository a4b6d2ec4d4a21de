package appointment

import (
	"context"

	"github.com/sandyspetshop/petshop-scheduler/internal/audit"
	domain "github.com/sandyspetshop/petshop-scheduler/internal/domain/appointment"
	"github.com/sandyspetshop/petshop-scheduler/internal/domain/service"
	"github.com/sandyspetshop/petshop-scheduler/internal/models"
)

type CancelAppointment struct {
	repo  domain.Repository
	sched Schedule
	audit *audit.Dispatcher
}

func NewCancelAppointment(
	repo domain.Repository,
	sched Schedule,
	audit *audit.Dispatcher,
) *CancelAppointment {
	return &CancelAppointment{
		repo:  repo,
		sched: sched,
		audit: audit,
	}
}

func (uc *CancelAppointment) Execute(
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

	if err := domain.Cancel(ap, uc.sched.now()); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  actorID,
		Action:   "appointment_cancelled",
		Entity:   "appointment",
		EntityID: ap.ID,
	})

	return ap, nil
}
