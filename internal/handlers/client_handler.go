package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/sandyspetshop/petshop-scheduler/internal/httperr"
	"github.com/sandyspetshop/petshop-scheduler/internal/httpresp"
	"github.com/sandyspetshop/petshop-scheduler/internal/models"
)

type ClientLister interface {
	ListClients(ctx context.Context, query string) ([]models.Client, error)
}

type ClientHandler struct {
	clients ClientLister
}

func NewClientHandler(clients ClientLister) *ClientHandler {
	return &ClientHandler{clients: clients}
}

// ======================================================
// LIST CLIENTS (ADMIN)
// ======================================================
func (h *ClientHandler) List(c *gin.Context) {
	clients, err := h.clients.ListClients(c.Request.Context(), c.Query("query"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, clients)
}
