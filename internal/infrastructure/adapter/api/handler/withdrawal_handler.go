package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/coinbridge/withdrawal-processor/internal/domain/entity"
	domainerr "github.com/coinbridge/withdrawal-processor/internal/domain/error"
	coreport "github.com/coinbridge/withdrawal-processor/internal/domain/port/core"
	withdrawalUseCase "github.com/coinbridge/withdrawal-processor/internal/domain/usecase/withdrawal"
	"github.com/coinbridge/withdrawal-processor/internal/infrastructure/adapter/api/dto"
)

// List pagination bounds
const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// WithdrawalHandler handles withdrawal-related HTTP requests
type WithdrawalHandler struct {
	engine *withdrawalUseCase.Engine
	logger coreport.Logger
}

// NewWithdrawalHandler creates a new withdrawal handler instance
func NewWithdrawalHandler(engine *withdrawalUseCase.Engine, logger coreport.Logger) *WithdrawalHandler {
	return &WithdrawalHandler{
		engine: engine,
		logger: logger,
	}
}

// Create handles the POST /withdrawals endpoint
func (h *WithdrawalHandler) Create(c *gin.Context) {
	var req dto.CreateWithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid withdrawal request format", map[string]any{
			"error": err.Error(),
		})
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInvalidRequest),
			Message: "Invalid request format: " + err.Error(),
		})
		return
	}

	request, err := h.engine.Create(c.Request.Context(), withdrawalUseCase.CreateRequest{
		PlayerName:    req.PlayerName,
		PlayerUUID:    req.PlayerUUID,
		WalletAddress: req.WalletAddress,
		Amount:        req.Amount,
		Currency:      req.Currency,
		Metadata:      req.Metadata,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromEntity(request))
}

// Get handles the GET /withdrawals/:id endpoint
func (h *WithdrawalHandler) Get(c *gin.Context) {
	request, err := h.engine.GetStatus(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromEntity(request))
}

// List handles the GET /withdrawals endpoint with optional status and limit filters
func (h *WithdrawalHandler) List(c *gin.Context) {
	var status *entity.Status
	if raw := c.Query("status"); raw != "" {
		parsed, err := entity.ParseStatus(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Code:    domainerr.ErrorCode(err),
				Message: "Invalid status filter: " + raw,
			})
			return
		}
		status = &parsed
	}

	limit := defaultListLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > maxListLimit {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Code:    domainerr.ErrorCode(domainerr.ErrInvalidRequest),
				Message: "Limit must be an integer between 1 and " + strconv.Itoa(maxListLimit),
			})
			return
		}
		limit = parsed
	}

	requests, err := h.engine.List(c.Request.Context(), status, limit)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromEntities(requests))
}

// Approve handles the POST /withdrawals/:id/approve endpoint
func (h *WithdrawalHandler) Approve(c *gin.Context) {
	actor, ok := h.bindActor(c)
	if !ok {
		return
	}

	request, err := h.engine.Approve(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromEntity(request))
}

// Reject handles the POST /withdrawals/:id/reject endpoint
func (h *WithdrawalHandler) Reject(c *gin.Context) {
	actor, ok := h.bindActor(c)
	if !ok {
		return
	}

	request, err := h.engine.Reject(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromEntity(request))
}

// bindActor extracts the acting operator from the request body
func (h *WithdrawalHandler) bindActor(c *gin.Context) (string, bool) {
	var req dto.ActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInvalidRequest),
			Message: "Invalid request format: actor is required",
		})
		return "", false
	}
	return req.Actor, true
}

// respondError maps domain errors to HTTP status codes. The diagnostic message
// is preserved for client errors; server-side failures return a generic body.
func (h *WithdrawalHandler) respondError(c *gin.Context, err error) {
	switch {
	case domainerr.IsValidationError(err):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(err),
			Message: err.Error(),
		})
	case domainerr.IsNotFoundError(err):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(err),
			Message: "Withdrawal request not found",
		})
	case domainerr.IsInvalidTransitionError(err):
		c.JSON(http.StatusConflict, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(err),
			Message: err.Error(),
		})
	default:
		h.logger.Error("Unhandled error in withdrawal API", map[string]any{
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
			"error":  err.Error(),
		})
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(err),
			Message: "Internal server error",
		})
	}
}
