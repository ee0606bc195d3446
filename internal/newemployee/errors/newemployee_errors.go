package newemployeeerrors

import (
	"net/http"

	"github.com/yhnjiuy4321/BankSystem/internal/shared/apperror"
)

var (
	ErrNewEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"onboarding submission not found",
		http.StatusNotFound,
	)
	ErrInvalidEmail = apperror.New(
		apperror.CodeInvalidInput,
		"email must be a gmail address",
		http.StatusBadRequest,
	)
	ErrStartDateInPast = apperror.New(
		apperror.CodeInvalidInput,
		"start date must not be in the past",
		http.StatusBadRequest,
	)
	ErrEmptyBatch = apperror.New(
		apperror.CodeInvalidInput,
		"at least one new employee is required",
		http.StatusBadRequest,
	)
	ErrReviewConflict = apperror.New(
		apperror.CodeConflict,
		"onboarding submission was already processed",
		http.StatusConflict,
	)
	ErrNotApproved = apperror.New(
		apperror.CodeInvalidState,
		"onboarding submission is not approved",
		http.StatusUnprocessableEntity,
	)
	ErrAlreadyProvisioned = apperror.New(
		apperror.CodeConflict,
		"account was already provisioned for this submission",
		http.StatusConflict,
	)
)
