package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sandyspetshop/petshop-scheduler/internal/domain/service"
	"github.com/sandyspetshop/petshop-scheduler/internal/httperr"
	"github.com/sandyspetshop/petshop-scheduler/internal/httpresp"
	"github.com/sandyspetshop/petshop-scheduler/internal/middleware"
	"github.com/sandyspetshop/petshop-scheduler/internal/recurrence"
	"github.com/sandyspetshop/petshop-scheduler/internal/usecase/subscription"
)

// ======================================================
// HANDLER
// ======================================================

type SubscriptionHandler struct {
	create      *subscription.CreateSubscription
	edit        *subscription.EditSubscription
	deactivate  *subscription.DeactivateSubscription
	paymentLink *subscription.CreatePaymentLink
	markPaid    *subscription.MarkPaid
	export      *subscription.ExportReminders
	list        *subscription.ListSubscriptions
}

func NewSubscriptionHandler(
	create *subscription.CreateSubscription,
	edit *subscription.EditSubscription,
	deactivate *subscription.DeactivateSubscription,
	paymentLink *subscription.CreatePaymentLink,
	markPaid *subscription.MarkPaid,
	export *subscription.ExportReminders,
	list *subscription.ListSubscriptions,
) *SubscriptionHandler {
	return &SubscriptionHandler{
		create:      create,
		edit:        edit,
		deactivate:  deactivate,
		paymentLink: paymentLink,
		markPaid:    markPaid,
		export:      export,
		list:        list,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type SubscriptionRequest struct {
	OwnerName    string `json:"owner_name"`
	OwnerPhone   string `json:"owner_phone"`
	OwnerAddress string `json:"owner_address"`
	PetName      string `json:"pet_name"`
	PetBreed     string `json:"pet_breed"`
	Condominium  string `json:"condominium"`

	Quantities map[service.Type]int `json:"service_quantities"`
	WeightTier service.WeightTier   `json:"weight_tier"`
	Addons     []string             `json:"addons"`

	Recurrence recurrence.Rule `json:"recurrence"`
	StartDate  string          `json:"start_date"`
}

func (r SubscriptionRequest) input(actorID string) subscription.Input {
	return subscription.Input{
		ActorID:      actorID,
		OwnerName:    r.OwnerName,
		OwnerPhone:   r.OwnerPhone,
		OwnerAddress: r.OwnerAddress,
		PetName:      r.PetName,
		PetBreed:     r.PetBreed,
		Condominium:  r.Condominium,
		Quantities:   r.Quantities,
		WeightTier:   r.WeightTier,
		Addons:       r.Addons,
		Recurrence:   r.Recurrence,
		StartDate:    r.StartDate,
	}
}

// ======================================================
// ROUTES
// ======================================================

func (h *SubscriptionHandler) List(c *gin.Context) {
	list, err := h.list.Execute(c.Request.Context())
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, list)
}

func (h *SubscriptionHandler) Create(c *gin.Context) {
	var req SubscriptionRequest
	if !bind(c, &req) {
		return
	}

	res, err := h.create.Execute(c.Request.Context(), req.input(middleware.UserID(c)))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *SubscriptionHandler) Update(c *gin.Context) {
	var req SubscriptionRequest
	if !bind(c, &req) {
		return
	}

	res, err := h.edit.Execute(c.Request.Context(), c.Param("id"), req.input(middleware.UserID(c)))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *SubscriptionHandler) Deactivate(c *gin.Context) {
	res, err := h.deactivate.Execute(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *SubscriptionHandler) PaymentLink(c *gin.Context) {
	mc, err := h.paymentLink.Execute(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, mc)
}

func (h *SubscriptionHandler) MarkPaid(c *gin.Context) {
	mc, err := h.markPaid.Execute(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, mc)
}

func (h *SubscriptionHandler) Export(c *gin.Context) {
	report, err := h.export.Execute(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
