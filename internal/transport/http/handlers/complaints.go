package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/JJProjectStash/aibarangay-be/internal/core/port"
	"github.com/JJProjectStash/aibarangay-be/internal/transport/http/middleware"
	"github.com/JJProjectStash/aibarangay-be/internal/usecase"
)

// ComplaintHandler exposes the complaint lifecycle endpoints.
type ComplaintHandler struct {
	complaints *usecase.ComplaintService
	bulk       *BulkStatusHandler
}

// NewComplaintHandler constructs ComplaintHandler.
func NewComplaintHandler(complaints *usecase.ComplaintService, bulk *usecase.BulkStatusService, store port.ComplaintRepository, metrics metricsRecorder) *ComplaintHandler {
	return &ComplaintHandler{
		complaints: complaints,
		bulk:       newBulkStatusHandler(bulk, store, metrics),
	}
}

// RegisterRoutes binds complaint routes. The group must already require auth.
func (h *ComplaintHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("", h.file)
	r.GET("", h.list)
	r.GET("/:id", h.get)
	r.GET("/:id/history", h.history)
	r.PATCH("/:id/status", middleware.RequirePrivileged(), h.updateStatus)
	r.POST("/bulk-status", middleware.RequirePrivileged(), h.bulk.apply)
}

func (h *ComplaintHandler) file(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	var req FileComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid complaint payload"))
		return
	}

	complaint, err := h.complaints.File(c.Request.Context(), actor, usecase.FileComplaintInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Priority:    req.Priority,
	})
	if err != nil {
		RespondWithMappedError(c, err, nil, http.StatusInternalServerError, "failed to file complaint")
		return
	}

	c.JSON(http.StatusCreated, newComplaintResponse(*complaint))
}

func (h *ComplaintHandler) list(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	params := parseListParams(c)
	complaints, total, err := h.complaints.List(c.Request.Context(), actor, params)
	if err != nil {
		RespondWithMappedError(c, err, nil, http.StatusInternalServerError, "failed to list complaints")
		return
	}

	items := make([]ComplaintResponse, 0, len(complaints))
	for _, complaint := range complaints {
		items = append(items, newComplaintResponse(complaint))
	}

	respondList(c, items, total, params.Page, params.PageSize)
}

func (h *ComplaintHandler) get(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	complaint, err := h.complaints.Get(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		RespondWithMappedError(c, err, nil, http.StatusInternalServerError, "failed to load complaint")
		return
	}

	c.JSON(http.StatusOK, newComplaintResponse(*complaint))
}

func (h *ComplaintHandler) history(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	entries, err := h.complaints.History(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		RespondWithMappedError(c, err, nil, http.StatusInternalServerError, "failed to load complaint history")
		return
	}

	c.JSON(http.StatusOK, newHistoryResponse(entries))
}

func (h *ComplaintHandler) updateStatus(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	var req StatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid status payload"))
		return
	}

	if err := h.complaints.UpdateStatus(c.Request.Context(), actor, c.Param("id"), req.Status, req.Note); err != nil {
		RespondWithMappedError(c, err, nil, http.StatusInternalServerError, "failed to update complaint status")
		return
	}

	c.Status(http.StatusNoContent)
}
