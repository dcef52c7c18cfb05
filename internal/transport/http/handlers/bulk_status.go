package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/JJProjectStash/aibarangay-be/internal/core/port"
	"github.com/JJProjectStash/aibarangay-be/internal/transport/http/middleware"
	"github.com/JJProjectStash/aibarangay-be/internal/usecase"
)

// Bulk batches get a hard deadline so a wedged database cannot pin the
// request forever; processed items keep their results.
const bulkStatusTimeout = 30 * time.Second

type metricsRecorder interface {
	RecordBulkItems(updated, failed int)
}

// BulkStatusHandler serves a bulk-status endpoint for one request kind.
// Partial failure is still HTTP 200; the per-item results carry the detail.
type BulkStatusHandler struct {
	bulk    *usecase.BulkStatusService
	store   port.RequestStore
	metrics metricsRecorder
}

func newBulkStatusHandler(bulk *usecase.BulkStatusService, store port.RequestStore, metrics metricsRecorder) *BulkStatusHandler {
	return &BulkStatusHandler{bulk: bulk, store: store, metrics: metrics}
}

func (h *BulkStatusHandler) apply(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	var req BulkStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid bulk status payload"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), bulkStatusTimeout)
	defer cancel()

	result, err := h.bulk.Apply(ctx, h.store, usecase.BulkStatusInput{
		IDs:    req.IDs,
		Status: req.Status,
		Note:   req.Note,
	}, actor)
	if err != nil {
		RespondWithMappedError(c, err, nil, http.StatusInternalServerError, "failed to apply bulk status update")
		return
	}

	if h.metrics != nil {
		h.metrics.RecordBulkItems(result.Updated, result.Failed)
	}

	c.JSON(http.StatusOK, result)
}
