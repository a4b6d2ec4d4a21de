package appointment

import (
	"context"

	"github.com/sandyspetshop/petshop-scheduler/internal/audit"
	domain "github.com/sandyspetshop/petshop-scheduler/internal/domain/appointment"
	"github.com/sandyspetshop/petshop-scheduler/internal/domain/service"
)

type DeleteAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewDeleteAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *DeleteAppointment {
	return &DeleteAppointment{
		repo:  repo,
		audit: audit,
	}
}

func (uc *DeleteAppointment) Execute(
	ctx context.Context,
	actorID string,
	family service.Family,
	appointmentID string,
) error {

	if !family.Valid() {
		return ErrInvalidFamily
	}

	if err := uc.repo.DeleteAppointment(ctx, family, appointmentID); err != nil {
		return err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  actorID,
		Action:   "appointment_deleted",
		Entity:   "appointment",
		EntityID: appointmentID,
		Metadata: map[string]any{"family": family},
	})

	return nil
}
