package handlers

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sandyspetshop/petshop-scheduler/internal/httperr"
	"github.com/sandyspetshop/petshop-scheduler/internal/httpresp"
	"github.com/sandyspetshop/petshop-scheduler/internal/infra/repository"
	"github.com/sandyspetshop/petshop-scheduler/internal/models"
	"github.com/sandyspetshop/petshop-scheduler/internal/timezone"
)

// ======================================================
// HANDLER
// ======================================================

type AuditLogLister interface {
	ListAuditLogs(ctx context.Context, f repository.AuditLogFilter) ([]models.AuditLog, int64, error)
}

type AuditLogsHandler struct {
	logs AuditLogLister
	zone timezone.Zone
}

func NewAuditLogsHandler(logs AuditLogLister, zone timezone.Zone) *AuditLogsHandler {
	return &AuditLogsHandler{logs: logs, zone: zone}
}

func (h *AuditLogsHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page <= 0 {
		page = 1
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	f := repository.AuditLogFilter{
		Action: c.Query("action"),
		Entity: c.Query("entity"),
		Page:   page,
		Limit:  limit,
	}

	// --------------------------------------------------
	// Filtros de data (dias civis da loja)
	// --------------------------------------------------

	if from, ok := h.dayStart(c.Query("from")); ok {
		f.From = &from
	}
	if to, ok := h.dayStart(c.Query("to")); ok {
		end := to.Add(24 * time.Hour)
		f.To = &end
	}

	logs, total, err := h.logs.ListAuditLogs(c.Request.Context(), f)
	if err != nil {
		httperr.Internal(c, "audit_list_failed", "Erro ao listar logs.")
		return
	}

	httpresp.Page(c, logs, page, limit, total)
}

func (h *AuditLogsHandler) dayStart(date string) (time.Time, bool) {
	if date == "" {
		return time.Time{}, false
	}
	noon, err := h.zone.ParseDateNoon(date)
	if err != nil {
		return time.Time{}, false
	}
	return h.zone.StartOfDay(noon), true
}
