package autherrors

import (
	"net/http"

	"github.com/yhnjiuy4321/BankSystem/internal/shared/apperror"
)

var (
	ErrInvalidCredentials = apperror.New(
		apperror.CodeInvalidInput,
		"account or password is incorrect",
		http.StatusBadRequest,
	)
	ErrAccountNotFound = apperror.New(
		apperror.CodeNotFound,
		"account not found",
		http.StatusNotFound,
	)
	ErrInvalidToken = apperror.New(
		apperror.CodeUnauthorized,
		"invalid token",
		http.StatusUnauthorized,
	)
	ErrTokenExpired = apperror.New(
		apperror.CodeUnauthorized,
		"token has expired",
		http.StatusUnauthorized,
	)
	ErrSessionInactive = apperror.New(
		apperror.CodeUnauthorized,
		"session expired due to inactivity",
		http.StatusUnauthorized,
	)
	ErrAccountLocked = apperror.New(
		apperror.CodeLocked,
		"account is locked",
		http.StatusForbidden,
	)
	ErrTokenGenerationFailed = apperror.New(
		apperror.CodeInternalError,
		"failed to generate token",
		http.StatusInternalServerError,
	)
	ErrInvalidVerificationCode = apperror.New(
		apperror.CodeInvalidInput,
		"verification code is invalid or already used",
		http.StatusBadRequest,
	)
)
