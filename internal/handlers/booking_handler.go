package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sandyspetshop/petshop-scheduler/internal/booking"
	"github.com/sandyspetshop/petshop-scheduler/internal/httperr"
)

// ======================================================
// HANDLER
// ======================================================

// BookingHandler drives wizard sessions of one variant. A session started on the
// public routes is invisible to the admin routes and the other way round.
type BookingHandler struct {
	svc     *booking.Service
	variant booking.Variant
}

func NewBookingHandler(svc *booking.Service, variant booking.Variant) *BookingHandler {
	return &BookingHandler{svc: svc, variant: variant}
}

// ======================================================
// REQUESTS
// ======================================================

type DateTimeRequest struct {
	Date        string `json:"date"`
	Hour        *int   `json:"hour"`
	Observation string `json:"observation"`
}

// ======================================================
// ROUTES
// ======================================================

func (h *BookingHandler) Start(c *gin.Context) {
	w, err := h.svc.Start(c.Request.Context(), h.variant)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, w)
}

func (h *BookingHandler) Get(c *gin.Context) {
	w, ok := h.owned(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, w)
}

func (h *BookingHandler) UpdateCustomer(c *gin.Context) {
	var req booking.Customer
	if !bind(c, &req) {
		return
	}
	h.step(c, func(id string) (*booking.Wizard, error) {
		return h.svc.UpdateCustomer(c.Request.Context(), id, req)
	})
}

func (h *BookingHandler) UpdateService(c *gin.Context) {
	var req booking.Selection
	if !bind(c, &req) {
		return
	}
	h.step(c, func(id string) (*booking.Wizard, error) {
		return h.svc.UpdateService(c.Request.Context(), id, req)
	})
}

func (h *BookingHandler) UpdateDateTime(c *gin.Context) {
	var req DateTimeRequest
	if !bind(c, &req) {
		return
	}
	h.step(c, func(id string) (*booking.Wizard, error) {
		return h.svc.UpdateDateTime(c.Request.Context(), id, req.Date, req.Hour, req.Observation)
	})
}

func (h *BookingHandler) Back(c *gin.Context) {
	h.step(c, func(id string) (*booking.Wizard, error) {
		return h.svc.Back(c.Request.Context(), id)
	})
}

func (h *BookingHandler) Recover(c *gin.Context) {
	h.step(c, func(id string) (*booking.Wizard, error) {
		return h.svc.Recover(c.Request.Context(), id)
	})
}

// Submit answers 200 even when the booking failed; the wizard carries the error code.
func (h *BookingHandler) Submit(c *gin.Context) {
	h.step(c, func(id string) (*booking.Wizard, error) {
		return h.svc.Submit(c.Request.Context(), id)
	})
}

func (h *BookingHandler) Discard(c *gin.Context) {
	if _, ok := h.owned(c); !ok {
		return
	}
	if err := h.svc.Discard(c.Request.Context(), c.Param("id")); err != nil {
		httperr.Respond(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ======================================================
// HELPERS
// ======================================================

func (h *BookingHandler) owned(c *gin.Context) (*booking.Wizard, bool) {
	w, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err == nil && w.Variant != h.variant {
		err = booking.ErrSessionNotFound
	}
	if err != nil {
		httperr.Respond(c, err)
		return nil, false
	}
	return w, true
}

func (h *BookingHandler) step(c *gin.Context, fn func(id string) (*booking.Wizard, error)) {
	if _, ok := h.owned(c); !ok {
		return
	}
	w, err := fn(c.Param("id"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, w)
}

func bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		httperr.BadRequest(c, "invalid_request", httperr.Message("invalid_request"))
		return false
	}
	return true
}
