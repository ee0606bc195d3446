package accounterrors

import (
	"net/http"

	"github.com/yhnjiuy4321/BankSystem/internal/shared/apperror"
)

var (
	ErrEmployeeIDExhausted = apperror.New(
		apperror.CodeExhausted,
		"monthly employee id sequence is exhausted",
		http.StatusConflict,
	)
	ErrAccountExhausted = apperror.New(
		apperror.CodeExhausted,
		"account sequence for this department and position is exhausted",
		http.StatusConflict,
	)
	ErrSequenceCollision = apperror.New(
		apperror.CodeConflict,
		"generated identifier already exists",
		http.StatusConflict,
	)
	ErrUnknownOrgCode = apperror.New(
		apperror.CodeInvalidInput,
		"department or position code is unknown",
		http.StatusBadRequest,
	)
)
