package appointment

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/sandyspetshop/petshop-scheduler/internal/audit"
	"github.com/sandyspetshop/petshop-scheduler/internal/availability"
	"github.com/sandyspetshop/petshop-scheduler/internal/booking"
	domain "github.com/sandyspetshop/petshop-scheduler/internal/domain/appointment"
	"github.com/sandyspetshop/petshop-scheduler/internal/domain/service"
	"github.com/sandyspetshop/petshop-scheduler/internal/httperr"
	"github.com/sandyspetshop/petshop-scheduler/internal/infra/slotlock"
	"github.com/sandyspetshop/petshop-scheduler/internal/metrics"
	"github.com/sandyspetshop/petshop-scheduler/internal/models"
	"github.com/sandyspetshop/petshop-scheduler/internal/pricing"
	"github.com/sandyspetshop/petshop-scheduler/internal/webhook"
)

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	ActorID string
	Admin   bool

	OwnerName    string
	OwnerPhone   string
	OwnerAddress string
	PetName      string
	PetBreed     string

	Service     service.Type
	WeightTier  service.WeightTier
	Addons      []string
	Condominium string

	Date        string
	Hour        int
	Observation string
}

// SlotLocker serializes bookings of one slot across instances.
type SlotLocker interface {
	Acquire(ctx context.Context, key string) (func(), error)
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo     domain.Repository
	sched    Schedule
	catalog  pricing.Catalog
	locker   SlotLocker
	audit    *audit.Dispatcher
	webhooks *webhook.Dispatcher
	metrics  *metrics.SchedulingMetrics
	log      *zap.Logger
}

func NewCreateAppointment(
	repo domain.Repository,
	sched Schedule,
	catalog pricing.Catalog,
	locker SlotLocker,
	audit *audit.Dispatcher,
	webhooks *webhook.Dispatcher,
	m *metrics.SchedulingMetrics,
	log *zap.Logger,
) *CreateAppointment {
	if log == nil {
		log = zap.NewNop()
	}
	return &CreateAppointment{
		repo:     repo,
		sched:    sched,
		catalog:  catalog,
		locker:   locker,
		audit:    audit,
		webhooks: webhooks,
		metrics:  m,
		log:      log,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	ap, err := uc.execute(ctx, in)
	if err != nil {
		uc.metrics.ObserveRejection(rejectionReason(err))
		return nil, err
	}
	return ap, nil
}

func (uc *CreateAppointment) execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	// --------------------------------------------------
	// 1. Serviço / família
	// --------------------------------------------------
	def, ok := service.Lookup(in.Service)
	if !ok {
		return nil, ErrUnknownService
	}

	condo := strings.TrimSpace(in.Condominium)
	if def.Family == service.FamilyMobile && condo == "" {
		return nil, ErrCondoRequired
	}

	// --------------------------------------------------
	// 2. Data / hora civil
	// --------------------------------------------------
	noon, _, _, err := uc.sched.day(in.Date)
	if err != nil {
		return nil, err
	}
	p := uc.sched.Zone.Parts(noon)
	instant, err := uc.sched.Zone.Instant(p.Year, p.Month, p.Day, in.Hour, 0, 0)
	if err != nil {
		return nil, ErrInvalidHour
	}

	// --------------------------------------------------
	// 3. Trava do horário
	// --------------------------------------------------
	if uc.locker != nil {
		unlock, err := uc.locker.Acquire(ctx, slotlock.Key(string(def.Family), instant))
		if errors.Is(err, slotlock.ErrLocked) {
			return nil, ErrSlotLocked
		}
		if err != nil {
			// CreateAppointment still enforces capacity.
			uc.log.Warn("slot lock unavailable", zap.Error(err))
		} else {
			defer unlock()
		}
	}

	// --------------------------------------------------
	// 4. Revalidação contra o snapshot atual
	// --------------------------------------------------
	if err := uc.check(ctx, in, condo); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 5. Preço
	// --------------------------------------------------
	tier := in.WeightTier
	addons := in.Addons
	if def.Kind == service.KindVisit {
		tier = service.TierNotApplicable
		addons = nil
	}

	unit, err := uc.catalog.UnitPrice(tier, in.Service)
	if err != nil {
		return nil, ErrUnknownTier
	}
	price := unit + uc.catalog.AddonsTotal(addons)

	// --------------------------------------------------
	// 6. Persistência (checagem + insert atômicos)
	// --------------------------------------------------
	ap := &models.Appointment{
		Family:          def.Family,
		PetName:         strings.TrimSpace(in.PetName),
		PetBreed:        strings.TrimSpace(in.PetBreed),
		OwnerName:       strings.TrimSpace(in.OwnerName),
		OwnerAddress:    strings.TrimSpace(in.OwnerAddress),
		OwnerPhone:      in.OwnerPhone,
		Service:         in.Service,
		WeightTier:      tier,
		Addons:          models.StringList(addons),
		Price:           price,
		Status:          string(domain.InitialStatus()),
		AppointmentTime: instant,
		Observation:     strings.TrimSpace(in.Observation),
	}
	if def.Family == service.FamilyMobile {
		ap.Condominium = &condo
	}

	capacity := uc.sched.Calc.Policy().Capacity(def.Family)
	if err := uc.repo.CreateAppointment(ctx, ap, capacity); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 7. Cliente (best-effort)
	// --------------------------------------------------
	if _, err := uc.repo.GetOrCreateClient(ctx, &models.Client{
		Name:    ap.OwnerName,
		Phone:   ap.OwnerPhone,
		PetName: ap.PetName,
		Address: ap.OwnerAddress,
	}); err != nil {
		uc.log.Warn("client auto-registration failed",
			zap.String("appointment_id", ap.ID),
			zap.Error(err),
		)
	}

	// --------------------------------------------------
	// 8. Auditoria / webhook / métricas
	// --------------------------------------------------
	uc.audit.Dispatch(audit.Event{
		ActorID:  in.ActorID,
		Action:   "appointment_created",
		Entity:   "appointment",
		EntityID: ap.ID,
		Metadata: map[string]any{
			"family":  ap.Family,
			"service": ap.Service,
			"admin":   in.Admin,
		},
	})

	event := webhook.EventStoreCreated
	if def.Family == service.FamilyMobile {
		event = webhook.EventMobileCreated
	}
	uc.webhooks.Notify(event, webhook.NewAppointmentPayload(uc.sched.Zone, ap))

	uc.metrics.ObserveBooking(string(def.Family), in.Admin)

	return ap, nil
}

func (uc *CreateAppointment) check(ctx context.Context, in CreateAppointmentInput, condo string) error {
	date, snapshot, disabled, err := loadDay(ctx, uc.repo, uc.sched, in.Date)
	if err != nil {
		return err
	}

	err = uc.sched.Calc.Check(availability.Request{
		Date:        date,
		Service:     in.Service,
		Condominium: condo,
		Now:         uc.sched.now(),
		AllowPast:   in.Admin,
	}, in.Hour, snapshot, disabled)

	return availabilityError(err)
}

// ======================================================
// BOOKING WIZARD ADAPTERS
// ======================================================

// Submit persists a reviewed wizard.
func (uc *CreateAppointment) Submit(ctx context.Context, sub booking.Submission) (*booking.Receipt, error) {
	ap, err := uc.Execute(ctx, inputOf(sub))
	if err != nil {
		return nil, err
	}
	return &booking.Receipt{AppointmentID: ap.ID, Price: ap.Price}, nil
}

// CheckSlot runs only the availability re-check for a wizard's candidate hour.
func (uc *CreateAppointment) CheckSlot(ctx context.Context, sub booking.Submission) error {
	in := inputOf(sub)
	if !in.Service.Valid() {
		return ErrUnknownService
	}
	return uc.check(ctx, in, strings.TrimSpace(in.Condominium))
}

func inputOf(sub booking.Submission) CreateAppointmentInput {
	in := CreateAppointmentInput{
		Admin:        sub.Admin,
		OwnerName:    sub.Customer.OwnerName,
		OwnerPhone:   sub.Customer.OwnerPhone,
		OwnerAddress: sub.Customer.OwnerAddress,
		PetName:      sub.Customer.PetName,
		PetBreed:     sub.Customer.PetBreed,
		Service:      sub.Selection.Service,
		WeightTier:   sub.Selection.WeightTier,
		Addons:       sub.Selection.Addons,
		Condominium:  sub.Selection.Condominium,
		Date:         sub.Date,
		Hour:         sub.Hour,
		Observation:  sub.Observation,
	}
	if sub.Admin {
		in.ActorID = "admin"
	}
	return in
}

func rejectionReason(err error) string {
	if code := httperr.CodeOf(err); code != "" {
		return code
	}
	return "persistence_error"
}

var (
	_ booking.Submitter   = (*CreateAppointment)(nil)
	_ booking.SlotChecker = (*CreateAppointment)(nil)
	_ SlotLocker          = (*slotlock.Locker)(nil)
)
