package usererrors

import (
	"net/http"

	"github.com/yhnjiuy4321/BankSystem/internal/shared/apperror"
)

var (
	ErrUserNotFound = apperror.New(
		apperror.CodeNotFound,
		"user not found",
		http.StatusNotFound,
	)
	ErrAccountAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"account already exists",
		http.StatusConflict,
	)
	ErrEmployeeIDAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"employee id already exists",
		http.StatusConflict,
	)
	ErrInvalidDepartment = apperror.New(
		apperror.CodeInvalidInput,
		"unknown department code",
		http.StatusBadRequest,
	)
	ErrInvalidPosition = apperror.New(
		apperror.CodeInvalidInput,
		"unknown position code",
		http.StatusBadRequest,
	)
	ErrInvalidEmail = apperror.New(
		apperror.CodeInvalidInput,
		"email must be a valid gmail address",
		http.StatusBadRequest,
	)
	ErrInvalidBirthday = apperror.New(
		apperror.CodeInvalidInput,
		"birthday must be YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidPhone = apperror.New(
		apperror.CodeInvalidInput,
		"phone must match 09xxxxxxxx",
		http.StatusBadRequest,
	)
	ErrWrongOldPassword = apperror.New(
		apperror.CodeInvalidInput,
		"old password is incorrect",
		http.StatusBadRequest,
	)
	ErrSamePassword = apperror.New(
		apperror.CodeInvalidInput,
		"new password must differ from the old password",
		http.StatusBadRequest,
	)
	ErrAvatarTooLarge = apperror.New(
		apperror.CodeInvalidInput,
		"avatar exceeds the 2MB limit",
		http.StatusBadRequest,
	)
	ErrInvalidAvatar = apperror.New(
		apperror.CodeInvalidInput,
		"avatar must be a base64 encoded image",
		http.StatusBadRequest,
	)
	ErrSupervisorOnly = apperror.New(
		apperror.CodeForbidden,
		"only supervisors and managers can access department employees",
		http.StatusForbidden,
	)
)
