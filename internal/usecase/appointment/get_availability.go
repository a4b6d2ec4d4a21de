package appointment

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/sandyspetshop/petshop-scheduler/internal/availability"
	domain "github.com/sandyspetshop/petshop-scheduler/internal/domain/appointment"
	"github.com/sandyspetshop/petshop-scheduler/internal/domain/service"
	"github.com/sandyspetshop/petshop-scheduler/internal/metrics"
)

type AvailabilityInput struct {
	Date        string
	Service     service.Type
	Condominium string
	Admin       bool
	ExcludeID   string
}

type TimeSlot struct {
	Hour  int                    `json:"hour"`
	Time  string                 `json:"time"`
	State availability.SlotState `json:"state"`
}

type GetAvailability struct {
	repo    domain.Repository
	sched   Schedule
	metrics *metrics.SchedulingMetrics
}

func NewGetAvailability(
	repo domain.Repository,
	sched Schedule,
	m *metrics.SchedulingMetrics,
) *GetAvailability {
	return &GetAvailability{repo: repo, sched: sched, metrics: m}
}

func (uc *GetAvailability) Execute(
	ctx context.Context,
	in AvailabilityInput,
) ([]TimeSlot, error) {

	started := time.Now()

	if !in.Service.Valid() {
		return nil, ErrUnknownService
	}

	date, snapshot, disabled, err := loadDay(ctx, uc.repo, uc.sched, in.Date)
	if err != nil {
		return nil, err
	}

	states, err := uc.sched.Calc.Compute(availability.Request{
		Date:        date,
		Service:     in.Service,
		Condominium: in.Condominium,
		Now:         uc.sched.now(),
		AllowPast:   in.Admin,
		ExcludeID:   in.ExcludeID,
	}, snapshot, disabled)
	if err != nil {
		return nil, availabilityError(err)
	}

	hours := make([]int, 0, len(states))
	for h := range states {
		hours = append(hours, h)
	}
	slices.Sort(hours)

	slots := make([]TimeSlot, 0, len(hours))
	for _, h := range hours {
		slots = append(slots, TimeSlot{
			Hour:  h,
			Time:  fmt.Sprintf("%02d:00", h),
			State: states[h],
		})
	}

	uc.metrics.ObserveAvailability(string(in.Service.Family()), time.Since(started).Seconds())
	return slots, nil
}
