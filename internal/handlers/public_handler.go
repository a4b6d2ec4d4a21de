package handlers

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"

	"github.com/sandyspetshop/petshop-scheduler/internal/availability"
	"github.com/sandyspetshop/petshop-scheduler/internal/domain/service"
	"github.com/sandyspetshop/petshop-scheduler/internal/httperr"
	"github.com/sandyspetshop/petshop-scheduler/internal/pricing"
	"github.com/sandyspetshop/petshop-scheduler/internal/usecase/appointment"
)

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

type PublicHandler struct {
	availability *appointment.GetAvailability
	catalog      pricing.Catalog
	policy       availability.Policy
	offsetHours  int
}

func NewPublicHandler(
	availability *appointment.GetAvailability,
	catalog pricing.Catalog,
	policy availability.Policy,
	offsetHours int,
) *PublicHandler {
	return &PublicHandler{
		availability: availability,
		catalog:      catalog,
		policy:       policy,
		offsetHours:  offsetHours,
	}
}

////////////////////////////////////////////////////////
// DTOs
////////////////////////////////////////////////////////

type ServiceDTO struct {
	ID            service.Type   `json:"id"`
	Label         string         `json:"label"`
	DurationHours int            `json:"duration_hours"`
	Family        service.Family `json:"family"`
	Kind          service.Kind   `json:"kind"`
}

type CondominiumDTO struct {
	Name    string `json:"name"`
	Weekday int    `json:"weekday"`
}

////////////////////////////////////////////////////////
// CATALOG
////////////////////////////////////////////////////////

// Catalog lists services, weight tiers and add-ons. With tier and service in the query
// only the add-ons allowed for that pair are returned.
func (h *PublicHandler) Catalog(c *gin.Context) {
	services := make([]ServiceDTO, 0)
	for _, d := range service.All() {
		services = append(services, ServiceDTO{
			ID:            d.Type,
			Label:         d.Label,
			DurationHours: d.DurationHours,
			Family:        d.Family,
			Kind:          d.Kind,
		})
	}

	addons := h.catalog.Addons
	tier := service.WeightTier(c.Query("tier"))
	svc := service.Type(c.Query("service"))
	if tier != "" && svc != "" {
		addons = h.catalog.AvailableAddons(tier, svc)
	}

	c.JSON(http.StatusOK, gin.H{
		"services":              services,
		"tiers":                 h.catalog.Tiers,
		"addons":                addons,
		"subscription_discount": h.catalog.SubscriptionDiscount,
		"daycare_plans":         h.catalog.DaycarePlans,
		"hotel":                 h.catalog.Hotel,
	})
}

////////////////////////////////////////////////////////
// SCHEDULE
////////////////////////////////////////////////////////

func (h *PublicHandler) Schedule(c *gin.Context) {
	condos := make([]CondominiumDTO, 0, len(h.policy.Condominiums))
	for name, wd := range h.policy.Condominiums {
		condos = append(condos, CondominiumDTO{Name: name, Weekday: int(wd)})
	}
	slices.SortFunc(condos, func(a, b CondominiumDTO) int { return a.Weekday - b.Weekday })

	weekdays := make([]int, 0, len(h.policy.StoreWeekdays))
	for _, wd := range h.policy.StoreWeekdays {
		weekdays = append(weekdays, int(wd))
	}

	c.JSON(http.StatusOK, gin.H{
		"utc_offset_hours": h.offsetHours,
		"store_hours":      h.policy.StoreHours,
		"visit_hours":      h.policy.VisitHours,
		"store_capacity":   h.policy.StoreCapacity,
		"mobile_capacity":  h.policy.MobileCapacity,
		"store_weekdays":   weekdays,
		"condominiums":     condos,
	})
}

////////////////////////////////////////////////////////
// AVAILABILITY
////////////////////////////////////////////////////////

func (h *PublicHandler) Availability(c *gin.Context) {
	h.availabilityFor(c, false)
}

// AdminAvailability skips the past-hour filter and can leave one appointment out of
// the count, for rescheduling it.
func (h *PublicHandler) AdminAvailability(c *gin.Context) {
	h.availabilityFor(c, true)
}

func (h *PublicHandler) availabilityFor(c *gin.Context, admin bool) {
	date := c.Query("date")
	svc := c.Query("service")
	if date == "" || svc == "" {
		httperr.BadRequest(c, "invalid_request", httperr.Message("invalid_request"))
		return
	}

	in := appointment.AvailabilityInput{
		Date:        date,
		Service:     service.Type(svc),
		Condominium: c.Query("condominium"),
		Admin:       admin,
	}
	if admin {
		in.ExcludeID = c.Query("exclude_id")
	}

	slots, err := h.availability.Execute(c.Request.Context(), in)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":  date,
		"slots": slots,
	})
}
