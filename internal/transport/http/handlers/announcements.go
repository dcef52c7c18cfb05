package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/JJProjectStash/aibarangay-be/internal/core/port"
	"github.com/JJProjectStash/aibarangay-be/internal/transport/http/middleware"
	"github.com/JJProjectStash/aibarangay-be/internal/usecase"
)

// AnnouncementHandler exposes public announcement reads and staff writes.
type AnnouncementHandler struct {
	announcements *usecase.AnnouncementService
}

// NewAnnouncementHandler constructs AnnouncementHandler.
func NewAnnouncementHandler(announcements *usecase.AnnouncementService) *AnnouncementHandler {
	return &AnnouncementHandler{announcements: announcements}
}

// RegisterPublicRoutes binds the unauthenticated read endpoints.
func (h *AnnouncementHandler) RegisterPublicRoutes(r *gin.RouterGroup, cacheMiddlewares ...gin.HandlerFunc) {
	group := r
	if len(cacheMiddlewares) > 0 {
		group = r.Group("")
		group.Use(cacheMiddlewares...)
	}
	group.GET("", h.list)
	group.GET("/:id", h.get)
}

// RegisterStaffRoutes binds the privileged write endpoints.
func (h *AnnouncementHandler) RegisterStaffRoutes(r *gin.RouterGroup) {
	r.POST("", h.create)
	r.PUT("/:id", h.update)
	r.DELETE("/:id", h.remove)
}

func parseContentFilter(c *gin.Context) (port.ContentFilter, int, int) {
	filter := port.ContentFilter{
		Category: c.Query("category"),
		Search:   strings.TrimSpace(c.Query("q")),
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	if page > 0 && limit > 0 {
		filter.Skip = (page - 1) * limit
		filter.Limit = limit
	}

	return filter, page, limit
}

func (h *AnnouncementHandler) list(c *gin.Context) {
	filter, page, limit := parseContentFilter(c)
	announcements, total, err := h.announcements.List(c.Request.Context(), filter)
	if err != nil {
		RespondWithMappedError(c, err, nil, http.StatusInternalServerError, "failed to list announcements")
		return
	}

	items := make([]AnnouncementResponse, 0, len(announcements))
	for _, announcement := range announcements {
		items = append(items, newAnnouncementResponse(announcement))
	}

	respondList(c, items, total, page, limit)
}

func (h *AnnouncementHandler) get(c *gin.Context) {
	announcement, err := h.announcements.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondWithMappedError(c, err, nil, http.StatusInternalServerError, "failed to load announcement")
		return
	}

	c.JSON(http.StatusOK, newAnnouncementResponse(*announcement))
}

func (h *AnnouncementHandler) create(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	var req AnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid announcement payload"))
		return
	}

	announcement, err := h.announcements.Create(c.Request.Context(), actor, usecase.AnnouncementInput{
		Title:    req.Title,
		Body:     req.Body,
		Category: req.Category,
		Pinned:   req.Pinned,
	})
	if err != nil {
		RespondWithMappedError(c, err, nil, http.StatusInternalServerError, "failed to create announcement")
		return
	}

	c.JSON(http.StatusCreated, newAnnouncementResponse(*announcement))
}

func (h *AnnouncementHandler) update(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	var req AnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid announcement payload"))
		return
	}

	announcement, err := h.announcements.Update(c.Request.Context(), actor, c.Param("id"), usecase.AnnouncementInput{
		Title:    req.Title,
		Body:     req.Body,
		Category: req.Category,
		Pinned:   req.Pinned,
	})
	if err != nil {
		RespondWithMappedError(c, err, nil, http.StatusInternalServerError, "failed to update announcement")
		return
	}

	c.JSON(http.StatusOK, newAnnouncementResponse(*announcement))
}

func (h *AnnouncementHandler) remove(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	if err := h.announcements.Delete(c.Request.Context(), actor, c.Param("id")); err != nil {
		RespondWithMappedError(c, err, nil, http.StatusInternalServerError, "failed to delete announcement")
		return
	}

	c.Status(http.StatusNoContent)
}
