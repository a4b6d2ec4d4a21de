package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sandyspetshop/petshop-scheduler/internal/audit"
	"github.com/sandyspetshop/petshop-scheduler/internal/domain/service"
	"github.com/sandyspetshop/petshop-scheduler/internal/httperr"
	"github.com/sandyspetshop/petshop-scheduler/internal/httpresp"
	"github.com/sandyspetshop/petshop-scheduler/internal/middleware"
	"github.com/sandyspetshop/petshop-scheduler/internal/models"
	"github.com/sandyspetshop/petshop-scheduler/internal/timezone"
)

type DisabledDateStore interface {
	CreateDisabledDate(ctx context.Context, d *models.DisabledDate) error
	ListDisabledDates(ctx context.Context, from string) ([]models.DisabledDate, error)
	DeleteDisabledDate(ctx context.Context, id uint) error
}

type DisabledDateHandler struct {
	store DisabledDateStore
	zone  timezone.Zone
	audit *audit.Dispatcher
}

func NewDisabledDateHandler(store DisabledDateStore, zone timezone.Zone, audit *audit.Dispatcher) *DisabledDateHandler {
	return &DisabledDateHandler{store: store, zone: zone, audit: audit}
}

type DisabledDateRequest struct {
	Date   string         `json:"date" binding:"required"`
	Family service.Family `json:"family" binding:"required"`
	Reason string         `json:"reason"`
}

// List returns blocks from ?from=YYYY-MM-DD on, or all of them.
func (h *DisabledDateHandler) List(c *gin.Context) {
	list, err := h.store.ListDisabledDates(c.Request.Context(), c.Query("from"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, list)
}

func (h *DisabledDateHandler) Create(c *gin.Context) {
	var req DisabledDateRequest
	if !bind(c, &req) {
		return
	}

	if !req.Family.Valid() {
		httperr.Respond(c, httperr.ErrBusiness("invalid_family"))
		return
	}
	noon, err := h.zone.ParseDateNoon(req.Date)
	if err != nil {
		httperr.Respond(c, httperr.ErrBusiness("invalid_date"))
		return
	}

	d := &models.DisabledDate{
		Date:   h.zone.DateString(noon),
		Family: req.Family,
		Reason: strings.TrimSpace(req.Reason),
	}
	if err := h.store.CreateDisabledDate(c.Request.Context(), d); err != nil {
		httperr.Respond(c, err)
		return
	}

	h.audit.Dispatch(audit.Event{
		ActorID:  middleware.UserID(c),
		Action:   "date_disabled",
		Entity:   "disabled_date",
		EntityID: strconv.FormatUint(uint64(d.ID), 10),
		Metadata: map[string]any{"date": d.Date, "family": d.Family},
	})

	c.JSON(http.StatusCreated, d)
}

func (h *DisabledDateHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_request", httperr.Message("invalid_request"))
		return
	}

	if err := h.store.DeleteDisabledDate(c.Request.Context(), uint(id)); err != nil {
		httperr.Respond(c, err)
		return
	}

	h.audit.Dispatch(audit.Event{
		ActorID:  middleware.UserID(c),
		Action:   "date_enabled",
		Entity:   "disabled_date",
		EntityID: c.Param("id"),
	})

	c.Status(http.StatusNoContent)
}
