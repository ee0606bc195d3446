package loginattempt

import (
	"net/http"

	"github.com/yhnjiuy4321/BankSystem/internal/shared/apperror"
	"github.com/yhnjiuy4321/BankSystem/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("loginattempt.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("loginattempt.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("lock request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

// SetLock toggles an account lock by admin override.
func (h *Handler) SetLock(c *gin.Context) {
	var req SetLockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpErr := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, nil)
		return
	}

	if err := h.service.SetLock(c.Request.Context(), req.Account, req.Role, req.Locked); err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"account": req.Account, "locked": req.Locked}, nil)
}

func (h *Handler) LockStatuses(c *gin.Context) {
	role := c.DefaultQuery("role", "user")

	resp, err := h.service.LockStatuses(c.Request.Context(), role)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}
