package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/JJProjectStash/aibarangay-be/internal/transport/http/middleware"
	"github.com/JJProjectStash/aibarangay-be/internal/usecase"
)

// EventHandler exposes community event reads, staff writes, and registration.
type EventHandler struct {
	events *usecase.EventService
}

// NewEventHandler constructs EventHandler.
func NewEventHandler(events *usecase.EventService) *EventHandler {
	return &EventHandler{events: events}
}

// RegisterPublicRoutes binds the unauthenticated read endpoints.
func (h *EventHandler) RegisterPublicRoutes(r *gin.RouterGroup, cacheMiddlewares ...gin.HandlerFunc) {
	group := r
	if len(cacheMiddlewares) > 0 {
		group = r.Group("")
		group.Use(cacheMiddlewares...)
	}
	group.GET("", h.list)
	group.GET("/:id", h.get)
}

// RegisterAuthenticatedRoutes binds registration plus privileged writes.
func (h *EventHandler) RegisterAuthenticatedRoutes(r *gin.RouterGroup) {
	r.POST("/:id/register", h.register)
	r.POST("", middleware.RequirePrivileged(), h.create)
	r.PUT("/:id", middleware.RequirePrivileged(), h.update)
	r.DELETE("/:id", middleware.RequirePrivileged(), h.remove)
}

func (h *EventHandler) list(c *gin.Context) {
	filter, page, limit := parseContentFilter(c)
	events, total, err := h.events.List(c.Request.Context(), filter)
	if err != nil {
		RespondWithMappedError(c, err, nil, http.StatusInternalServerError, "failed to list events")
		return
	}

	items := make([]EventResponse, 0, len(events))
	for _, event := range events {
		items = append(items, newEventResponse(event))
	}

	respondList(c, items, total, page, limit)
}

func (h *EventHandler) get(c *gin.Context) {
	event, err := h.events.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondWithMappedError(c, err, nil, http.StatusInternalServerError, "failed to load event")
		return
	}

	c.JSON(http.StatusOK, newEventResponse(*event))
}

func (h *EventHandler) create(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid event payload"))
		return
	}

	event, err := h.events.Create(c.Request.Context(), actor, usecase.EventInput{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
		Capacity:    req.Capacity,
	})
	if err != nil {
		RespondWithMappedError(c, err, nil, http.StatusInternalServerError, "failed to create event")
		return
	}

	c.JSON(http.StatusCreated, newEventResponse(*event))
}

func (h *EventHandler) update(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid event payload"))
		return
	}

	event, err := h.events.Update(c.Request.Context(), actor, c.Param("id"), usecase.EventInput{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
		Capacity:    req.Capacity,
	})
	if err != nil {
		RespondWithMappedError(c, err, nil, http.StatusInternalServerError, "failed to update event")
		return
	}

	c.JSON(http.StatusOK, newEventResponse(*event))
}

func (h *EventHandler) remove(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	if err := h.events.Delete(c.Request.Context(), actor, c.Param("id")); err != nil {
		RespondWithMappedError(c, err, nil, http.StatusInternalServerError, "failed to delete event")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *EventHandler) register(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	registration, err := h.events.Register(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrEventFull, Status: http.StatusConflict, Message: "event is full"},
			{Err: usecase.ErrAlreadyRegistered, Status: http.StatusConflict, Message: "already registered for event"},
			{Err: usecase.ErrEventEnded, Status: http.StatusConflict, Message: "event has ended"},
		}, http.StatusInternalServerError, "failed to register for event")
		return
	}

	c.JSON(http.StatusCreated, EventRegistrationResponse{
		ID:           registration.ID,
		EventID:      registration.EventID,
		RegisteredAt: registration.RegisteredAt,
	})
}
