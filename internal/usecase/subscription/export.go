package subscription

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/sandyspetshop/petshop-scheduler/internal/audit"
	domain "github.com/sandyspetshop/petshop-scheduler/internal/domain/subscription"
	"github.com/sandyspetshop/petshop-scheduler/internal/infra/export"
	"github.com/sandyspetshop/petshop-scheduler/internal/pricing"
	"github.com/sandyspetshop/petshop-scheduler/internal/timezone"
	"github.com/sandyspetshop/petshop-scheduler/internal/webhook"
)

// Uploader stores the export file and returns where it went ("" when disabled).
type Uploader interface {
	Upload(ctx context.Context, name string, body []byte, contentType string) (string, error)
}

type Reminder struct {
	ClientID      string `json:"client_id"`
	OwnerName     string `json:"owner_name"`
	OwnerPhone    string `json:"owner_phone"`
	PetName       string `json:"pet_name"`
	Service       string `json:"service"`
	ServiceLabel  string `json:"service_label"`
	Condominium   string `json:"condominium,omitempty"`
	PackagePrice  string `json:"package_price"`
	PaymentStatus string `json:"payment_status"`
	PaymentDue    string `json:"payment_due"`
	NextDate      string `json:"next_date"`
	NextTime      string `json:"next_time"`
}

type ExportReport struct {
	GeneratedAt time.Time  `json:"generated_at"`
	Location    string     `json:"location,omitempty"`
	Reminders   []Reminder `json:"reminders"`
}

type ExportReminders struct {
	repo     domain.Repository
	zone     timezone.Zone
	uploader Uploader
	webhooks *webhook.Dispatcher
	audit    *audit.Dispatcher
	now      timezone.Clock
	log      *zap.Logger
}

func NewExportReminders(
	repo domain.Repository,
	zone timezone.Zone,
	uploader Uploader,
	webhooks *webhook.Dispatcher,
	audit *audit.Dispatcher,
	clock timezone.Clock,
	log *zap.Logger,
) *ExportReminders {
	if clock == nil {
		clock = timezone.SystemClock
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &ExportReminders{
		repo:     repo,
		zone:     zone,
		uploader: uploader,
		webhooks: webhooks,
		audit:    audit,
		now:      clock,
		log:      log,
	}
}

// Execute lists every active subscription with its next live occurrence. Upload and
// webhook failures are logged; the report is still returned.
func (uc *ExportReminders) Execute(ctx context.Context, actorID string) (*ExportReport, error) {
	now := uc.now()

	clients, err := uc.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	report := &ExportReport{GeneratedAt: now, Reminders: make([]Reminder, 0, len(clients))}

	for i := range clients {
		mc := &clients[i]

		r := Reminder{
			ClientID:      mc.ID,
			OwnerName:     mc.OwnerName,
			OwnerPhone:    mc.OwnerPhone,
			PetName:       mc.PetName,
			Service:       string(mc.Service),
			ServiceLabel:  mc.Service.Label(),
			PackagePrice:  pricing.FormatBRL(mc.PackagePrice),
			PaymentStatus: mc.PaymentStatus,
			PaymentDue:    uc.zone.FormatOrPlaceholder(mc.PaymentDueDate, timezone.DateLayout),
			NextDate:      "N/A",
			NextTime:      "N/A",
		}
		if mc.Condominium != nil {
			r.Condominium = *mc.Condominium
		}

		next, err := uc.repo.NextAppointment(ctx, mc.ID, now)
		if err != nil {
			return nil, err
		}
		if next != nil {
			r.NextDate = uc.zone.DateString(next.AppointmentTime)
			r.NextTime = uc.zone.FormatOrPlaceholder(&next.AppointmentTime, "15:04")
		}

		report.Reminders = append(report.Reminders, r)
	}

	if uc.uploader != nil {
		body, err := json.Marshal(report.Reminders)
		if err != nil {
			return nil, err
		}
		location, err := uc.uploader.Upload(ctx, uc.zone.DateString(now)+".json", body, "application/json")
		if err != nil {
			uc.log.Warn("reminder export upload failed", zap.Error(err))
		}
		report.Location = location
	}

	uc.webhooks.Notify(webhook.EventSubscriptionExport, report)

	uc.audit.Dispatch(audit.Event{
		ActorID:  actorID,
		Action:   "subscriptions_exported",
		Entity:   "monthly_client",
		Metadata: map[string]any{"count": len(report.Reminders), "location": report.Location},
	})

	return report, nil
}

var _ Uploader = (*export.Store)(nil)
