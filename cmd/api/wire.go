package main

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/sandyspetshop/petshop-scheduler/internal/audit"
	"github.com/sandyspetshop/petshop-scheduler/internal/booking"
	"github.com/sandyspetshop/petshop-scheduler/internal/config"
	"github.com/sandyspetshop/petshop-scheduler/internal/handlers"
	"github.com/sandyspetshop/petshop-scheduler/internal/infra/export"
	"github.com/sandyspetshop/petshop-scheduler/internal/infra/payments"
	infraRepo "github.com/sandyspetshop/petshop-scheduler/internal/infra/repository"
	"github.com/sandyspetshop/petshop-scheduler/internal/infra/sessionstore"
	"github.com/sandyspetshop/petshop-scheduler/internal/infra/slotlock"
	"github.com/sandyspetshop/petshop-scheduler/internal/metrics"
	"github.com/sandyspetshop/petshop-scheduler/internal/routes"
	"github.com/sandyspetshop/petshop-scheduler/internal/timezone"
	ucAppointment "github.com/sandyspetshop/petshop-scheduler/internal/usecase/appointment"
	ucBilling "github.com/sandyspetshop/petshop-scheduler/internal/usecase/billing"
	ucSubscription "github.com/sandyspetshop/petshop-scheduler/internal/usecase/subscription"
	"github.com/sandyspetshop/petshop-scheduler/internal/webhook"
)

type app struct {
	handlers routes.Handlers
	close    func()
}

func build(cfg *config.Config, db *gorm.DB, log *zap.Logger) (*app, error) {

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	zone := cfg.Schedule.Zone()
	policy := cfg.Schedule.Policy()
	catalog := cfg.Pricing
	clock := timezone.SystemClock

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewSchedulingMetrics(registry)

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	appointmentRepo := infraRepo.NewAppointmentGormRepository(db)
	subscriptionRepo := infraRepo.NewSubscriptionGormRepository(db)
	backofficeRepo := infraRepo.NewBackofficeGormRepository(db)

	auditDispatcher := audit.NewDispatcher(audit.New(db), log)

	hooks := webhook.NewDispatcher(
		webhook.NewClient(map[webhook.Event]string{
			webhook.EventStoreCreated:       cfg.Webhooks.StoreCreated,
			webhook.EventMobileCreated:      cfg.Webhooks.MobileCreated,
			webhook.EventRescheduled:        cfg.Webhooks.Rescheduled,
			webhook.EventCompleted:          cfg.Webhooks.Completed,
			webhook.EventCompletedVisit:     cfg.Webhooks.CompletedVisit,
			webhook.EventSubscriptionExport: cfg.Webhooks.SubscriptionExport,
		}, cfg.Webhooks.Timeout, m),
		cfg.Webhooks.Timeout,
		log,
	)

	gateway, err := payments.NewMercadoPago(cfg.MercadoPago.AccessToken, payments.URLs{
		Success:      cfg.MercadoPago.SuccessURL,
		Failure:      cfg.MercadoPago.FailureURL,
		Pending:      cfg.MercadoPago.PendingURL,
		Notification: cfg.MercadoPago.NotificationURL,
	})
	if err != nil {
		return nil, fmt.Errorf("payments: %w", err)
	}

	exports := export.NewStore(export.NewS3Client(export.Options{
		Bucket:          cfg.S3.Bucket,
		Region:          cfg.S3.Region,
		Endpoint:        cfg.S3.Endpoint,
		Prefix:          cfg.S3.Prefix,
		AccessKeyID:     cfg.S3.AccessKeyID,
		SecretAccessKey: cfg.S3.SecretAccessKey,
	}), cfg.S3.Bucket, cfg.S3.Prefix)
	if !exports.Enabled() {
		log.Warn("s3 bucket not configured, reminder exports are not uploaded")
	}

	locker := slotlock.New(rdb, cfg.Booking.LockTTL)

	// ======================================================
	// USE CASES - APPOINTMENTS
	// ======================================================
	sched := ucAppointment.NewSchedule(zone, policy, clock)

	createAppointmentUC := ucAppointment.NewCreateAppointment(
		appointmentRepo, sched, catalog, locker, auditDispatcher, hooks, m, log,
	)
	availabilityUC := ucAppointment.NewGetAvailability(appointmentRepo, sched, m)

	bookingSvc := booking.NewService(
		sessionstore.New(rdb, "petshop:booking"),
		createAppointmentUC,
		createAppointmentUC,
		catalog,
		booking.Options{
			SessionTTL:    cfg.Booking.SessionTTL,
			ResetDelay:    cfg.Booking.ResetDelay,
			SubmitTimeout: cfg.Booking.SubmitTimeout,
			Clock:         clock,
			Logger:        log,
		},
	)

	// ======================================================
	// USE CASES - MENSALISTAS
	// ======================================================
	planner := ucSubscription.Planner{
		Zone:    zone,
		Catalog: catalog,
		Policy:  policy,
		Horizon: cfg.Schedule.RecurrenceHorizon,
		Clock:   clock,
	}

	// ======================================================
	// HANDLERS
	// ======================================================
	h := routes.Handlers{
		Public: handlers.NewPublicHandler(availabilityUC, catalog, policy, cfg.Schedule.UTCOffsetHours),

		Booking:      handlers.NewBookingHandler(bookingSvc, booking.VariantCustomer),
		AdminBooking: handlers.NewBookingHandler(bookingSvc, booking.VariantAdmin),

		Appointments: handlers.NewAppointmentHandler(
			ucAppointment.NewCompleteAppointment(appointmentRepo, sched, auditDispatcher, hooks),
			ucAppointment.NewCancelAppointment(appointmentRepo, sched, auditDispatcher),
			ucAppointment.NewRescheduleAppointment(appointmentRepo, sched, locker, auditDispatcher, hooks, log),
			ucAppointment.NewDeleteAppointment(appointmentRepo, auditDispatcher),
			ucAppointment.NewListAppointmentsByDate(appointmentRepo, sched),
			ucAppointment.NewListAppointmentsByMonth(appointmentRepo, sched),
		),

		Subscriptions: handlers.NewSubscriptionHandler(
			ucSubscription.NewCreateSubscription(subscriptionRepo, planner, auditDispatcher, m),
			ucSubscription.NewEditSubscription(subscriptionRepo, planner, auditDispatcher, m),
			ucSubscription.NewDeactivateSubscription(subscriptionRepo, auditDispatcher, clock),
			ucSubscription.NewCreatePaymentLink(subscriptionRepo, gateway, auditDispatcher),
			ucSubscription.NewMarkPaid(subscriptionRepo, auditDispatcher, clock),
			ucSubscription.NewExportReminders(subscriptionRepo, zone, exports, hooks, auditDispatcher, clock, log),
			ucSubscription.NewListSubscriptions(subscriptionRepo),
		),

		DisabledDates: handlers.NewDisabledDateHandler(backofficeRepo, zone, auditDispatcher),

		Billing: handlers.NewBillingHandler(
			ucBilling.NewCreateDaycareEnrollment(backofficeRepo, catalog, zone, auditDispatcher),
			ucBilling.NewDaycareInvoice(backofficeRepo, catalog),
			ucBilling.NewCreateHotelRegistration(backofficeRepo, auditDispatcher),
			ucBilling.NewHotelInvoice(backofficeRepo, catalog),
		),

		Clients:   handlers.NewClientHandler(backofficeRepo),
		AuditLogs: handlers.NewAuditLogsHandler(backofficeRepo, zone),
		Me:        handlers.NewMeHandler(),

		Health: handlers.NewHealthHandler(map[string]handlers.Pinger{
			"postgres": func(ctx context.Context) error {
				sqlDB, err := db.DB()
				if err != nil {
					return err
				}
				return sqlDB.PingContext(ctx)
			},
			"redis": func(ctx context.Context) error {
				return rdb.Ping(ctx).Err()
			},
		}),

		Gatherer: registry,
	}

	return &app{
		handlers: h,
		close: func() {
			hooks.Close()
			auditDispatcher.Close()
			_ = rdb.Close()
		},
	}, nil
}
