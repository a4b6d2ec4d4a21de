package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sandyspetshop/petshop-scheduler/internal/httperr"
	"github.com/sandyspetshop/petshop-scheduler/internal/middleware"
	"github.com/sandyspetshop/petshop-scheduler/internal/pricing"
	"github.com/sandyspetshop/petshop-scheduler/internal/usecase/billing"
)

// ======================================================
// HANDLER
// ======================================================

type BillingHandler struct {
	createDaycare  *billing.CreateDaycareEnrollment
	daycareInvoice *billing.DaycareInvoice
	createHotel    *billing.CreateHotelRegistration
	hotelInvoice   *billing.HotelInvoice
}

func NewBillingHandler(
	createDaycare *billing.CreateDaycareEnrollment,
	daycareInvoice *billing.DaycareInvoice,
	createHotel *billing.CreateHotelRegistration,
	hotelInvoice *billing.HotelInvoice,
) *BillingHandler {
	return &BillingHandler{
		createDaycare:  createDaycare,
		daycareInvoice: daycareInvoice,
		createHotel:    createHotel,
		hotelInvoice:   hotelInvoice,
	}
}

// ======================================================
// REQUESTS
// ======================================================

// Extras accept both the nested and the legacy flat shape.
type DaycareRequest struct {
	PetName    string                `json:"pet_name"`
	OwnerName  string                `json:"owner_name"`
	OwnerPhone string                `json:"owner_phone"`
	Plan       string                `json:"plan"`
	TotalPrice pricing.Amount        `json:"total_price"`
	Extras     pricing.ExtraServices `json:"extra_services"`
	StartDate  string                `json:"start_date"`
}

type HotelRequest struct {
	PetName    string                `json:"pet_name"`
	OwnerName  string                `json:"owner_name"`
	OwnerPhone string                `json:"owner_phone"`
	CheckIn    time.Time             `json:"check_in"`
	CheckOut   time.Time             `json:"check_out"`
	Extras     pricing.ExtraServices `json:"extra_services"`

	Transport bool `json:"transport"`
	Vet       bool `json:"vet"`
	Training  bool `json:"training"`
	Bath      bool `json:"bath"`

	TotalServicesPrice *pricing.Amount `json:"total_services_price"`
}

// ======================================================
// DAYCARE
// ======================================================

func (h *BillingHandler) CreateDaycare(c *gin.Context) {
	var req DaycareRequest
	if !bind(c, &req) {
		return
	}

	e, err := h.createDaycare.Execute(c.Request.Context(), billing.DaycareInput{
		ActorID:    middleware.UserID(c),
		PetName:    req.PetName,
		OwnerName:  req.OwnerName,
		OwnerPhone: req.OwnerPhone,
		Plan:       req.Plan,
		TotalPrice: float64(req.TotalPrice),
		Extras:     req.Extras,
		StartDate:  req.StartDate,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, e)
}

func (h *BillingHandler) DaycareInvoice(c *gin.Context) {
	inv, err := h.daycareInvoice.Execute(c.Request.Context(), c.Param("id"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}

// ======================================================
// HOTEL
// ======================================================

func (h *BillingHandler) CreateHotel(c *gin.Context) {
	var req HotelRequest
	if !bind(c, &req) {
		return
	}

	reg, err := h.createHotel.Execute(c.Request.Context(), billing.HotelInput{
		ActorID:            middleware.UserID(c),
		PetName:            req.PetName,
		OwnerName:          req.OwnerName,
		OwnerPhone:         req.OwnerPhone,
		CheckIn:            req.CheckIn,
		CheckOut:           req.CheckOut,
		Extras:             req.Extras,
		Transport:          req.Transport,
		Vet:                req.Vet,
		Training:           req.Training,
		Bath:               req.Bath,
		TotalServicesPrice: amountPtr(req.TotalServicesPrice),
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, reg)
}

func (h *BillingHandler) HotelInvoice(c *gin.Context) {
	inv, err := h.hotelInvoice.Execute(c.Request.Context(), c.Param("id"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}

func amountPtr(a *pricing.Amount) *float64 {
	if a == nil {
		return nil
	}
	v := float64(*a)
	return &v
}
