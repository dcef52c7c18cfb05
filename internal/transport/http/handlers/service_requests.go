package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/JJProjectStash/aibarangay-be/internal/core/port"
	"github.com/JJProjectStash/aibarangay-be/internal/transport/http/middleware"
	"github.com/JJProjectStash/aibarangay-be/internal/usecase"
)

// ServiceRequestHandler exposes the service request lifecycle endpoints.
type ServiceRequestHandler struct {
	requests *usecase.ServiceRequestService
	bulk     *BulkStatusHandler
}

// NewServiceRequestHandler constructs ServiceRequestHandler.
func NewServiceRequestHandler(requests *usecase.ServiceRequestService, bulk *usecase.BulkStatusService, store port.ServiceRequestRepository, metrics metricsRecorder) *ServiceRequestHandler {
	return &ServiceRequestHandler{
		requests: requests,
		bulk:     newBulkStatusHandler(bulk, store, metrics),
	}
}

// RegisterRoutes binds service request routes. The group must already require auth.
func (h *ServiceRequestHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("", h.file)
	r.GET("", h.list)
	r.GET("/:id", h.get)
	r.GET("/:id/history", h.history)
	r.PATCH("/:id/status", middleware.RequirePrivileged(), h.updateStatus)
	r.POST("/bulk-status", middleware.RequirePrivileged(), h.bulk.apply)
}

func (h *ServiceRequestHandler) file(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	var req FileServiceRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid service request payload"))
		return
	}

	request, err := h.requests.File(c.Request.Context(), actor, usecase.FileServiceRequestInput{
		ItemName: req.ItemName,
		Purpose:  req.Purpose,
		Category: req.Category,
		Quantity: req.Quantity,
		DueDate:  req.DueDate,
	})
	if err != nil {
		RespondWithMappedError(c, err, nil, http.StatusInternalServerError, "failed to file service request")
		return
	}

	c.JSON(http.StatusCreated, newServiceRequestResponse(*request))
}

func (h *ServiceRequestHandler) list(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	params := parseListParams(c)
	requests, total, err := h.requests.List(c.Request.Context(), actor, params)
	if err != nil {
		RespondWithMappedError(c, err, nil, http.StatusInternalServerError, "failed to list service requests")
		return
	}

	items := make([]ServiceRequestResponse, 0, len(requests))
	for _, request := range requests {
		items = append(items, newServiceRequestResponse(request))
	}

	respondList(c, items, total, params.Page, params.PageSize)
}

func (h *ServiceRequestHandler) get(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	request, err := h.requests.Get(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		RespondWithMappedError(c, err, nil, http.StatusInternalServerError, "failed to load service request")
		return
	}

	c.JSON(http.StatusOK, newServiceRequestResponse(*request))
}

func (h *ServiceRequestHandler) history(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	entries, err := h.requests.History(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		RespondWithMappedError(c, err, nil, http.StatusInternalServerError, "failed to load service request history")
		return
	}

	c.JSON(http.StatusOK, newHistoryResponse(entries))
}

func (h *ServiceRequestHandler) updateStatus(c *gin.Context) {
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

	if err := h.requests.UpdateStatus(c.Request.Context(), actor, c.Param("id"), req.Status, req.Note); err != nil {
		RespondWithMappedError(c, err, nil, http.StatusInternalServerError, "failed to update service request status")
		return
	}

	c.Status(http.StatusNoContent)
}
