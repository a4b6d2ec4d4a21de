package appointment

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/sandyspetshop/petshop-scheduler/internal/audit"
	"github.com/sandyspetshop/petshop-scheduler/internal/availability"
	domain "github.com/sandyspetshop/petshop-scheduler/internal/domain/appointment"
	"github.com/sandyspetshop/petshop-scheduler/internal/domain/service"
	"github.com/sandyspetshop/petshop-scheduler/internal/infra/slotlock"
	"github.com/sandyspetshop/petshop-scheduler/internal/models"
	"github.com/sandyspetshop/petshop-scheduler/internal/webhook"
)

type RescheduleInput struct {
	ActorID string
	Family  service.Family
	ID      string
	Date    string
	Hour    int
}

type RescheduleAppointment struct {
	repo     domain.Repository
	sched    Schedule
	locker   SlotLocker
	audit    *audit.Dispatcher
	webhooks *webhook.Dispatcher
	log      *zap.Logger
}

func NewRescheduleAppointment(
	repo domain.Repository,
	sched Schedule,
	locker SlotLocker,
	audit *audit.Dispatcher,
	webhooks *webhook.Dispatcher,
	log *zap.Logger,
) *RescheduleAppointment {
	if log == nil {
		log = zap.NewNop()
	}
	return &RescheduleAppointment{
		repo:     repo,
		sched:    sched,
		locker:   locker,
		audit:    audit,
		webhooks: webhooks,
		log:      log,
	}
}

// Execute moves an appointment with the admin rules: past hours are allowed and the
// appointment does not count against its own new slot.
func (uc *RescheduleAppointment) Execute(
	ctx context.Context,
	in RescheduleInput,
) (*models.Appointment, error) {

	if !in.Family.Valid() {
		return nil, ErrInvalidFamily
	}

	ap, err := uc.repo.GetAppointment(ctx, in.Family, in.ID)
	if err != nil {
		return nil, err
	}
	if err := domain.CanReschedule(domain.Status(ap.Status)); err != nil {
		return nil, err
	}

	noon, _, _, err := uc.sched.day(in.Date)
	if err != nil {
		return nil, err
	}
	p := uc.sched.Zone.Parts(noon)
	to, err := uc.sched.Zone.Instant(p.Year, p.Month, p.Day, in.Hour, 0, 0)
	if err != nil {
		return nil, ErrInvalidHour
	}

	if uc.locker != nil {
		unlock, err := uc.locker.Acquire(ctx, slotlock.Key(string(ap.Family), to))
		if errors.Is(err, slotlock.ErrLocked) {
			return nil, ErrSlotLocked
		}
		if err != nil {
			uc.log.Warn("slot lock unavailable", zap.Error(err))
		} else {
			defer unlock()
		}
	}

	date, snapshot, disabled, err := loadDay(ctx, uc.repo, uc.sched, in.Date)
	if err != nil {
		return nil, err
	}

	condo := ""
	if ap.Condominium != nil {
		condo = *ap.Condominium
	}

	if err := uc.sched.Calc.Check(availability.Request{
		Date:        date,
		Service:     ap.Service,
		Condominium: condo,
		Now:         uc.sched.now(),
		AllowPast:   true,
		ExcludeID:   ap.ID,
	}, in.Hour, snapshot, disabled); err != nil {
		return nil, availabilityError(err)
	}

	from := ap.AppointmentTime
	if err := domain.Reschedule(ap, to); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  in.ActorID,
		Action:   "appointment_rescheduled",
		Entity:   "appointment",
		EntityID: ap.ID,
		Metadata: map[string]any{
			"from": from,
			"to":   to,
		},
	})

	uc.webhooks.Notify(webhook.EventRescheduled, webhook.NewAppointmentPayload(uc.sched.Zone, ap))

	return ap, nil
}
