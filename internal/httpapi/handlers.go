// Package httpapi is the admin HTTP surface of cadence.
package httpapi

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/alexanderramin/cadence/internal/repository"
	"github.com/alexanderramin/cadence/internal/service"
	"github.com/gin-gonic/gin"
)

// Handlers serves the admin endpoints.
type Handlers struct {
	schedule service.ScheduleService
	logger   *slog.Logger
}

func NewHandlers(schedule service.ScheduleService, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handlers{schedule: schedule, logger: logger}
}

type errorResponse struct {
	Error string `json:"error"`
}

// Recalculate rebuilds every derived date of one organization.
//
//	POST /v1/organizations/:orgID/schedule/recalculate
func (h *Handlers) Recalculate(c *gin.Context) {
	orgID := c.Param("orgID")

	rep, err := h.schedule.RecalculateAll(c.Request.Context(), orgID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, errorResponse{Error: "organization not found"})
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "schedule recalculation failed",
			"organization_id", orgID, "error", err)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	h.logger.InfoContext(c.Request.Context(), "schedule recalculated",
		"organization_id", orgID, "nodes_updated", rep.Updated, "duration_ms", rep.Duration.Milliseconds())
	c.Status(http.StatusNoContent)
}

func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
