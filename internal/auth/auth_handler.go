package auth

import (
	"net/http"

	"github.com/yhnjiuy4321/BankSystem/internal/shared/apperror"
	"github.com/yhnjiuy4321/BankSystem/internal/shared/orgcode"
	"github.com/yhnjiuy4321/BankSystem/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("auth.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("auth request failed",
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) login(c *gin.Context, role string) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpErr := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, nil)
		return
	}

	resp, err := h.service.Login(c.Request.Context(), req, role, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) UserLogin(c *gin.Context) {
	h.login(c, orgcode.RoleUser)
}

func (h *Handler) AdminLogin(c *gin.Context) {
	h.login(c, orgcode.RoleAdmin)
}

// VerifyUnlock trades the emailed code for an immediate unlock. The client
// still has to log in again afterwards.
func (h *Handler) VerifyUnlock(c *gin.Context) {
	var req VerifyUnlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpErr := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, nil)
		return
	}

	if err := h.service.VerifyUnlock(c.Request.Context(), req); err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"unlocked": true}, nil)
}

func (h *Handler) Logout(c *gin.Context) {
	account := c.GetString("account")
	role := c.GetString("role")

	if err := h.service.Logout(c.Request.Context(), account, role); err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"logged_out": true}, nil)
}
