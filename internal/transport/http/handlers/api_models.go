package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/JJProjectStash/aibarangay-be/internal/core/domain"
	"github.com/JJProjectStash/aibarangay-be/internal/usecase"
)

// ErrorResponse is the generic error payload.
type ErrorResponse struct {
	Error   string `json:"error"`
	TraceID string `json:"trace_id,omitempty"`
}

// NewErrorResponse creates an error response with trace ID from context
func NewErrorResponse(c *gin.Context, errorMsg string) ErrorResponse {
	traceID, _ := c.Get("trace_id")
	traceIDStr, _ := traceID.(string)

	return ErrorResponse{
		Error:   errorMsg,
		TraceID: traceIDStr,
	}
}

// ValidationErrorResponse carries field-level validation messages.
type ValidationErrorResponse struct {
	Error    string   `json:"error"`
	Messages []string `json:"messages"`
	TraceID  string   `json:"trace_id,omitempty"`
}

// NewValidationErrorResponse maps a usecase validation error onto the payload.
func NewValidationErrorResponse(c *gin.Context, verr *usecase.ValidationError) ValidationErrorResponse {
	traceID, _ := c.Get("trace_id")
	traceIDStr, _ := traceID.(string)

	return ValidationErrorResponse{
		Error:    "validation failed",
		Messages: verr.Messages,
		TraceID:  traceIDStr,
	}
}

// LoginRequest is the credential payload for POST /auth/login.
type LoginRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

// LoginResponse returns the issued token and the authenticated account.
type LoginResponse struct {
	AccessToken string         `json:"access_token"`
	TokenType   string         `json:"token_type"`
	ExpiresIn   int            `json:"expires_in"`
	Account     AccountSummary `json:"account"`
}

// LockedResponse reports an active lockout window.
type LockedResponse struct {
	Error            string    `json:"error"`
	LockedUntil      time.Time `json:"locked_until"`
	RemainingSeconds int       `json:"remaining_seconds"`
}

// RejectedCredentialsResponse reports a failed login with attempts left.
type RejectedCredentialsResponse struct {
	Error             string `json:"error"`
	RemainingAttempts int    `json:"remaining_attempts"`
}

// RegisterRequest is the signup payload for POST /auth/register.
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Phone    string `json:"phone"`
	Password string `json:"password" binding:"required"`
}

// AccountSummary is the public projection of an account.
type AccountSummary struct {
	ID           string     `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	Phone        *string    `json:"phone,omitempty"`
	Role         string     `json:"role"`
	RegisteredAt time.Time  `json:"registered_at"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
}

func newAccountSummary(account domain.Account) AccountSummary {
	return AccountSummary{
		ID:           account.ID,
		Username:     account.Username,
		Email:        account.Email,
		Phone:        account.Phone,
		Role:         string(account.Role),
		RegisteredAt: account.RegisteredAt,
		LastLogin:    account.LastLogin,
	}
}

// FileComplaintRequest is the payload for POST /complaints.
type FileComplaintRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required"`
	Category    string `json:"category"`
	Priority    string `json:"priority"`
}

// ComplaintResponse is the public projection of a complaint.
type ComplaintResponse struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category,omitempty"`
	Priority    string    `json:"priority"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func newComplaintResponse(complaint domain.Complaint) ComplaintResponse {
	return ComplaintResponse{
		ID:          complaint.ID,
		OwnerID:     complaint.OwnerID,
		Title:       complaint.Title,
		Description: complaint.Description,
		Category:    complaint.Category,
		Priority:    complaint.Priority,
		Status:      string(complaint.Status),
		CreatedAt:   complaint.CreatedAt,
		UpdatedAt:   complaint.UpdatedAt,
	}
}

// Pagination describes one page of a paginated listing.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

type paginatedResponse struct {
	Data       any        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// respondList writes a listing response: a flat array when the client did
// not paginate, or a {data, pagination} envelope when page and limit are
// both positive.
func respondList(c *gin.Context, items any, total, page, limit int) {
	if page > 0 && limit > 0 {
		c.JSON(http.StatusOK, paginatedResponse{
			Data: items,
			Pagination: Pagination{
				Page:       page,
				Limit:      limit,
				Total:      total,
				TotalPages: (total + limit - 1) / limit,
			},
		})
		return
	}

	c.JSON(http.StatusOK, items)
}

// FileServiceRequestRequest is the payload for POST /services.
type FileServiceRequestRequest struct {
	ItemName string     `json:"item_name" binding:"required"`
	Purpose  string     `json:"purpose" binding:"required"`
	Category string     `json:"category"`
	Quantity int        `json:"quantity"`
	DueDate  *time.Time `json:"due_date"`
}

// ServiceRequestResponse is the public projection of a service request.
type ServiceRequestResponse struct {
	ID        string     `json:"id"`
	OwnerID   string     `json:"owner_id"`
	ItemName  string     `json:"item_name"`
	Purpose   string     `json:"purpose"`
	Category  string     `json:"category,omitempty"`
	Quantity  int        `json:"quantity"`
	Status    string     `json:"status"`
	Note      *string    `json:"note,omitempty"`
	DueDate   *time.Time `json:"due_date,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func newServiceRequestResponse(request domain.ServiceRequest) ServiceRequestResponse {
	return ServiceRequestResponse{
		ID:        request.ID,
		OwnerID:   request.OwnerID,
		ItemName:  request.ItemName,
		Purpose:   request.Purpose,
		Category:  request.Category,
		Quantity:  request.Quantity,
		Status:    string(request.Status),
		Note:      request.Note,
		DueDate:   request.DueDate,
		CreatedAt: request.CreatedAt,
		UpdatedAt: request.UpdatedAt,
	}
}

// StatusUpdateRequest is the payload for single-item status transitions.
type StatusUpdateRequest struct {
	Status string `json:"status" binding:"required"`
	Note   string `json:"note"`
}

// BulkStatusRequest is the payload for POST bulk-status endpoints.
type BulkStatusRequest struct {
	IDs    []string `json:"ids"`
	Status string   `json:"status"`
	Note   string   `json:"note"`
}

// HistoryEntryResponse is one row of a request's status trail.
type HistoryEntryResponse struct {
	ID        string    `json:"id"`
	Action    string    `json:"action"`
	ActorName string    `json:"actor_name"`
	Note      *string   `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func newHistoryResponse(entries []domain.StatusHistoryEntry) []HistoryEntryResponse {
	out := make([]HistoryEntryResponse, 0, len(entries))
	for _, entry := range entries {
		out = append(out, HistoryEntryResponse{
			ID:        entry.ID,
			Action:    entry.Action,
			ActorName: entry.ActorName,
			Note:      entry.Note,
			CreatedAt: entry.CreatedAt,
		})
	}
	return out
}

// AnnouncementRequest is the payload for announcement create/update.
type AnnouncementRequest struct {
	Title    string `json:"title" binding:"required"`
	Body     string `json:"body" binding:"required"`
	Category string `json:"category"`
	Pinned   bool   `json:"pinned"`
}

// AnnouncementResponse is the public projection of an announcement.
type AnnouncementResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	Category    string    `json:"category,omitempty"`
	Pinned      bool      `json:"pinned"`
	PublishedAt time.Time `json:"published_at"`
}

func newAnnouncementResponse(announcement domain.Announcement) AnnouncementResponse {
	return AnnouncementResponse{
		ID:          announcement.ID,
		Title:       announcement.Title,
		Body:        announcement.Body,
		Category:    announcement.Category,
		Pinned:      announcement.Pinned,
		PublishedAt: announcement.PublishedAt,
	}
}

// EventRequest is the payload for event create/update.
type EventRequest struct {
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	StartsAt    time.Time `json:"starts_at" binding:"required"`
	EndsAt      time.Time `json:"ends_at"`
	Capacity    int       `json:"capacity"`
}

// EventResponse is the public projection of a community event.
type EventResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Location    string    `json:"location,omitempty"`
	StartsAt    time.Time `json:"starts_at"`
	EndsAt      time.Time `json:"ends_at,omitempty"`
	Capacity    int       `json:"capacity"`
}

func newEventResponse(event domain.Event) EventResponse {
	return EventResponse{
		ID:          event.ID,
		Title:       event.Title,
		Description: event.Description,
		Location:    event.Location,
		StartsAt:    event.StartsAt,
		EndsAt:      event.EndsAt,
		Capacity:    event.Capacity,
	}
}

// EventRegistrationResponse confirms a resident's event signup.
type EventRegistrationResponse struct {
	ID           string    `json:"id"`
	EventID      string    `json:"event_id"`
	RegisteredAt time.Time `json:"registered_at"`
}

// NotificationResponse is one inbox entry.
type NotificationResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Severity  string    `json:"severity"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

func newNotificationResponses(notifications []domain.Notification) []NotificationResponse {
	out := make([]NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		out = append(out, NotificationResponse{
			ID:        n.ID,
			Title:     n.Title,
			Message:   n.Message,
			Severity:  string(n.Severity),
			Read:      n.Read,
			CreatedAt: n.CreatedAt,
		})
	}
	return out
}

// HealthResponse describes the service health payload.
type HealthResponse struct {
	Status    string    `json:"status"`
	StartedAt time.Time `json:"started_at"`
}

// ReadyResponse describes readiness probe results with dependency checks.
type ReadyResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// parseListParams extracts the shared listing filters from the query string.
func parseListParams(c *gin.Context) usecase.ListParams {
	params := usecase.ListParams{
		Status:   c.Query("status"),
		Category: c.Query("category"),
		Priority: c.Query("priority"),
		Search:   strings.TrimSpace(c.Query("q")),
	}

	if page, err := strconv.Atoi(c.DefaultQuery("page", "0")); err == nil {
		params.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "0")); err == nil {
		params.PageSize = size
	}

	if from, err := time.Parse(time.RFC3339, c.Query("from")); err == nil {
		params.CreatedFrom = &from
	}
	if to, err := time.Parse(time.RFC3339, c.Query("to")); err == nil {
		params.CreatedTo = &to
	}

	return params
}
