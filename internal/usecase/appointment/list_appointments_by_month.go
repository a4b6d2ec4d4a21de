package appointment

import (
	"context"
	"time"

	domain "github.com/sandyspetshop/petshop-scheduler/internal/domain/appointment"
	"github.com/sandyspetshop/petshop-scheduler/internal/domain/service"
	"github.com/sandyspetshop/petshop-scheduler/internal/dto"
)

type ListAppointmentsByMonth struct {
	repo  domain.Repository
	sched Schedule
}

func NewListAppointmentsByMonth(
	repo domain.Repository,
	sched Schedule,
) *ListAppointmentsByMonth {
	return &ListAppointmentsByMonth{
		repo:  repo,
		sched: sched,
	}
}

// Execute lists a civil month; month is 1-indexed.
func (uc *ListAppointmentsByMonth) Execute(
	ctx context.Context,
	family service.Family,
	year int,
	month int,
) ([]dto.AppointmentListDTO, error) {

	if !family.Valid() {
		return nil, ErrInvalidFamily
	}

	start, err := uc.sched.Zone.Instant(year, time.Month(month), 1, 0, 0, 0)
	if err != nil {
		return nil, ErrInvalidDate
	}

	next := time.Date(year, time.Month(month)+1, 1, 0, 0, 0, 0, time.UTC)
	end := uc.sched.Zone.MustInstant(next.Year(), next.Month(), 1, 0, 0, 0)

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
