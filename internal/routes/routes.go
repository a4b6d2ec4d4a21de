package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/sandyspetshop/petshop-scheduler/internal/handlers"
	"github.com/sandyspetshop/petshop-scheduler/internal/middleware"
)

// Handlers is everything the router mounts. Built once in main.
type Handlers struct {
	Public        *handlers.PublicHandler
	Booking       *handlers.BookingHandler
	AdminBooking  *handlers.BookingHandler
	Appointments  *handlers.AppointmentHandler
	Subscriptions *handlers.SubscriptionHandler
	DisabledDates *handlers.DisabledDateHandler
	Billing       *handlers.BillingHandler
	Clients       *handlers.ClientHandler
	AuditLogs     *handlers.AuditLogsHandler
	Me            *handlers.MeHandler
	Health        *handlers.HealthHandler

	// Gatherer backs /metrics; nil leaves the endpoint out.
	Gatherer prometheus.Gatherer
}

// Security holds what the middleware chain needs from configuration.
type Security struct {
	JWTSecret      string
	AllowedOrigins []string
}

func RegisterRoutes(r *gin.Engine, h Handlers, sec Security, log *zap.Logger) {

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.RequestID())
	r.Use(middleware.AccessLog(log))
	r.Use(middleware.CORSMiddleware(sec.AllowedOrigins))

	r.GET("/health", h.Health.Health)
	if h.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(h.Gatherer, promhttp.HandlerOpts{})))
	}

	api := r.Group("/api")
	{
		// ------------------------------
		// API PÚBLICA
		// ------------------------------
		public := api.Group("/public")
		{
			public.GET("/catalog", h.Public.Catalog)
			public.GET("/schedule", h.Public.Schedule)
			public.GET("/availability", h.Public.Availability)

			bookingRoutes(public.Group("/bookings"), h.Booking)
		}

		// ------------------------------
		// API ADMIN
		// ------------------------------
		admin := api.Group("/admin")
		admin.Use(middleware.AuthMiddleware(sec.JWTSecret), middleware.RequireRole(middleware.RoleAdmin))
		{
			admin.GET("/me", h.Me.GetMe)
			admin.GET("/availability", h.Public.AdminAvailability)

			bookingRoutes(admin.Group("/bookings"), h.AdminBooking)

			// APPOINTMENTS
			admin.GET("/appointments", h.Appointments.ListByDate)
			admin.GET("/appointments/month", h.Appointments.ListByMonth)
			admin.PATCH("/appointments/:family/:id/complete", h.Appointments.Complete)
			admin.PATCH("/appointments/:family/:id/cancel", h.Appointments.Cancel)
			admin.PATCH("/appointments/:family/:id/reschedule", h.Appointments.Reschedule)
			admin.DELETE("/appointments/:family/:id", h.Appointments.Delete)

			// MENSALISTAS
			admin.GET("/subscriptions", h.Subscriptions.List)
			admin.POST("/subscriptions", h.Subscriptions.Create)
			admin.POST("/subscriptions/export", h.Subscriptions.Export)
			admin.PUT("/subscriptions/:id", h.Subscriptions.Update)
			admin.PATCH("/subscriptions/:id/deactivate", h.Subscriptions.Deactivate)
			admin.POST("/subscriptions/:id/payment-link", h.Subscriptions.PaymentLink)
			admin.PATCH("/subscriptions/:id/paid", h.Subscriptions.MarkPaid)

			// BLOQUEIOS
			admin.GET("/disabled-dates", h.DisabledDates.List)
			admin.POST("/disabled-dates", h.DisabledDates.Create)
			admin.DELETE("/disabled-dates/:id", h.DisabledDates.Delete)

			// CRECHE / HOTEL
			admin.POST("/daycare", h.Billing.CreateDaycare)
			admin.GET("/daycare/:id/invoice", h.Billing.DaycareInvoice)
			admin.POST("/hotel", h.Billing.CreateHotel)
			admin.GET("/hotel/:id/invoice", h.Billing.HotelInvoice)

			admin.GET("/clients", h.Clients.List)
			admin.GET("/audit-logs", h.AuditLogs.List)
		}
	}
}

func bookingRoutes(g *gin.RouterGroup, h *handlers.BookingHandler) {
	g.POST("", h.Start)
	g.GET("/:id", h.Get)
	g.DELETE("/:id", h.Discard)
	g.PUT("/:id/customer", h.UpdateCustomer)
	g.PUT("/:id/service", h.UpdateService)
	g.PUT("/:id/datetime", h.UpdateDateTime)
	g.POST("/:id/back", h.Back)
	g.POST("/:id/submit", h.Submit)
	g.POST("/:id/recover", h.Recover)
}
