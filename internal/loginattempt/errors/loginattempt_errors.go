package loginattempterrors

import (
	"net/http"

	"github.com/yhnjiuy4321/BankSystem/internal/shared/apperror"
)

var (
	ErrAccountLocked = apperror.New(
		apperror.CodeLocked,
		"account is locked due to too many failed attempts",
		http.StatusForbidden,
	)
	ErrInvalidVerificationCode = apperror.New(
		apperror.CodeInvalidInput,
		"verification code is invalid or already used",
		http.StatusBadRequest,
	)
	ErrNotLocked = apperror.New(
		apperror.CodeInvalidState,
		"account is not locked",
		http.StatusBadRequest,
	)
)
