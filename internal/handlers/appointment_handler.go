package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sandyspetshop/petshop-scheduler/internal/domain/service"
	"github.com/sandyspetshop/petshop-scheduler/internal/httperr"
	"github.com/sandyspetshop/petshop-scheduler/internal/middleware"
	"github.com/sandyspetshop/petshop-scheduler/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	complete      *appointment.CompleteAppointment
	cancel        *appointment.CancelAppointment
	reschedule    *appointment.RescheduleAppointment
	remove        *appointment.DeleteAppointment
	listByDateUC  *appointment.ListAppointmentsByDate
	listByMonthUC *appointment.ListAppointmentsByMonth
}

func NewAppointmentHandler(
	complete *appointment.CompleteAppointment,
	cancel *appointment.CancelAppointment,
	reschedule *appointment.RescheduleAppointment,
	remove *appointment.DeleteAppointment,
	listByDate *appointment.ListAppointmentsByDate,
	listByMonth *appointment.ListAppointmentsByMonth,
) *AppointmentHandler {
	return &AppointmentHandler{
		complete:      complete,
		cancel:        cancel,
		reschedule:    reschedule,
		remove:        remove,
		listByDateUC:  listByDate,
		listByMonthUC: listByMonth,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type RescheduleRequest struct {
	Date string `json:"date" binding:"required"`
	Hour *int   `json:"hour" binding:"required"`
}

// ======================================================
// LIST
// ======================================================

func (h *AppointmentHandler) ListByDate(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		httperr.Respond(c, appointment.ErrInvalidDate)
		return
	}

	list, err := h.listByDateUC.Execute(c.Request.Context(), familyQuery(c), date)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":         date,
		"appointments": list,
	})
}

func (h *AppointmentHandler) ListByMonth(c *gin.Context) {
	year, err1 := strconv.Atoi(c.Query("year"))
	month, err2 := strconv.Atoi(c.Query("month"))
	if err1 != nil || err2 != nil {
		httperr.Respond(c, appointment.ErrInvalidDate)
		return
	}

	list, err := h.listByMonthUC.Execute(c.Request.Context(), familyQuery(c), year, month)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"year":         year,
		"month":        month,
		"appointments": list,
	})
}

// ======================================================
// STATUS
// ======================================================

func (h *AppointmentHandler) Complete(c *gin.Context) {
	ap, err := h.complete.Execute(c.Request.Context(), middleware.UserID(c), familyParam(c), c.Param("id"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, ap)
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	ap, err := h.cancel.Execute(c.Request.Context(), middleware.UserID(c), familyParam(c), c.Param("id"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, ap)
}

func (h *AppointmentHandler) Reschedule(c *gin.Context) {
	var req RescheduleRequest
	if !bind(c, &req) {
		return
	}

	ap, err := h.reschedule.Execute(c.Request.Context(), appointment.RescheduleInput{
		ActorID: middleware.UserID(c),
		Family:  familyParam(c),
		ID:      c.Param("id"),
		Date:    req.Date,
		Hour:    *req.Hour,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, ap)
}

func (h *AppointmentHandler) Delete(c *gin.Context) {
	err := h.remove.Execute(c.Request.Context(), middleware.UserID(c), familyParam(c), c.Param("id"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ======================================================
// HELPERS
// ======================================================

// familyQuery defaults to the store agenda.
func familyQuery(c *gin.Context) service.Family {
	return service.Family(c.DefaultQuery("family", string(service.FamilyStore)))
}

func familyParam(c *gin.Context) service.Family {
	return service.Family(c.Param("family"))
}
