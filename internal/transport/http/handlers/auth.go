package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/JJProjectStash/aibarangay-be/internal/infra/telemetry"
	"github.com/JJProjectStash/aibarangay-be/internal/usecase"
)

// AuthHandler exposes login and registration endpoints.
type AuthHandler struct {
	auth         *usecase.AuthService
	registration *usecase.RegistrationService
	metrics      *telemetry.Metrics
}

// NewAuthHandler constructs AuthHandler.
func NewAuthHandler(auth *usecase.AuthService, registration *usecase.RegistrationService, metrics *telemetry.Metrics) *AuthHandler {
	return &AuthHandler{auth: auth, registration: registration, metrics: metrics}
}

// RegisterRoutes binds authentication routes, applying optional rate limit
// middleware ahead of each handler.
func (h *AuthHandler) RegisterRoutes(r *gin.RouterGroup, loginMiddlewares, registerMiddlewares []gin.HandlerFunc) {
	registerChain := append([]gin.HandlerFunc{}, registerMiddlewares...)
	registerChain = append(registerChain, h.register)
	r.POST("/register", registerChain...)

	loginChain := append([]gin.HandlerFunc{}, loginMiddlewares...)
	loginChain = append(loginChain, h.login)
	r.POST("/login", loginChain...)
}

func (h *AuthHandler) login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid login payload"))
		return
	}

	input := usecase.LoginInput{
		Identifier: strings.TrimSpace(req.Identifier),
		Password:   req.Password,
		IP:         strings.TrimSpace(c.ClientIP()),
		UserAgent:  strings.TrimSpace(c.Request.UserAgent()),
	}

	result, err := h.auth.Login(c.Request.Context(), input)
	if err != nil {
		h.respondLoginError(c, err)
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		AccessToken: result.AccessToken,
		TokenType:   "Bearer",
		ExpiresIn:   result.ExpiresIn,
		Account:     newAccountSummary(result.Account),
	})
}

func (h *AuthHandler) respondLoginError(c *gin.Context, err error) {
	var lockedErr *usecase.LockedError
	if errors.As(err, &lockedErr) {
		if h.metrics != nil {
			h.metrics.LoginFailures.Inc()
			h.metrics.AccountLockouts.Inc()
		}
		c.JSON(http.StatusLocked, LockedResponse{
			Error:            "account temporarily locked",
			LockedUntil:      lockedErr.Until,
			RemainingSeconds: lockedErr.RemainingSeconds,
		})
		return
	}

	var credErr *usecase.CredentialsError
	if errors.As(err, &credErr) {
		if h.metrics != nil {
			h.metrics.LoginFailures.Inc()
		}
		c.JSON(http.StatusUnauthorized, RejectedCredentialsResponse{
			Error:             "invalid credentials",
			RemainingAttempts: credErr.RemainingAttempts,
		})
		return
	}

	switch {
	case errors.Is(err, usecase.ErrAccountLocked):
		if h.metrics != nil {
			h.metrics.LoginFailures.Inc()
		}
		c.JSON(http.StatusLocked, NewErrorResponse(c, "account temporarily locked"))
	case errors.Is(err, usecase.ErrInvalidCredentials):
		if h.metrics != nil {
			h.metrics.LoginFailures.Inc()
		}
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "invalid credentials"))
	case errors.Is(err, usecase.ErrInactiveAccount):
		c.JSON(http.StatusForbidden, NewErrorResponse(c, "account inactive"))
	default:
		var verr *usecase.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, NewValidationErrorResponse(c, verr))
			return
		}
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "authentication failed"))
	}
}

func (h *AuthHandler) register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid registration payload"))
		return
	}

	account, err := h.registration.Register(c.Request.Context(), usecase.RegisterInput{
		Username: strings.TrimSpace(req.Username),
		Email:    strings.TrimSpace(req.Email),
		Phone:    strings.TrimSpace(req.Phone),
		Password: req.Password,
	})
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrIdentifierTaken, Status: http.StatusConflict, Message: "username or email already registered"},
		}, http.StatusInternalServerError, "failed to register account")
		return
	}

	c.JSON(http.StatusCreated, newAccountSummary(*account))
}
