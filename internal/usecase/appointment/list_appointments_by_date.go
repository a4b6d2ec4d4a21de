package appointment

import (
	"context"

	domain "github.com/sandyspetshop/petshop-scheduler/internal/domain/appointment"
	"github.com/sandyspetshop/petshop-scheduler/internal/domain/service"
	"github.com/sandyspetshop/petshop-scheduler/internal/dto"
)

type ListAppointmentsByDate struct {
	repo  domain.Repository
	sched Schedule
}

func NewListAppointmentsByDate(
	repo domain.Repository,
	sched Schedule,
) *ListAppointmentsByDate {
	return &ListAppointmentsByDate{
		repo:  repo,
		sched: sched,
	}
}

func (uc *ListAppointmentsByDate) Execute(
	ctx context.Context,
	family service.Family,
	date string,
) ([]dto.AppointmentListDTO, error) {

	if !family.Valid() {
		return nil, ErrInvalidFamily
	}

	_, start, end, err := uc.sched.day(date)
	if err != nil {
		return nil, err
	}

	appointments, err := uc.repo.ListAppointmentsForPeriod(ctx, family, start, end)
	if err != nil {
		return nil, err
	}

	out := make([]dto.AppointmentListDTO, 0, len(appointments))
	for _, ap := range appointments {
		out = append(out, dto.NewAppointmentListDTO(uc.sched.Zone, ap))
	}

	return out, nil
}
