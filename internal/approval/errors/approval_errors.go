package approvalerrors

import (
	"net/http"

	"github.com/yhnjiuy4321/BankSystem/internal/shared/apperror"
)

var (
	ErrCrossDepartment = apperror.New(
		apperror.CodeForbidden,
		"reviewers may only act on requests from their own department",
		http.StatusForbidden,
	)
	ErrSelfReview = apperror.New(
		apperror.CodeForbidden,
		"you cannot review your own request",
		http.StatusForbidden,
	)
	ErrDuplicateReviewer = apperror.New(
		apperror.CodeConflict,
		"you have already reviewed this request",
		http.StatusConflict,
	)
	ErrAlreadyProcessed = apperror.New(
		apperror.CodeConflict,
		"request has already been processed",
		http.StatusConflict,
	)
	ErrNotEligible = apperror.New(
		apperror.CodeForbidden,
		"your position is not eligible to review this request",
		http.StatusForbidden,
	)
	ErrBelowEscalationAmount = apperror.New(
		apperror.CodeInvalidState,
		"request does not require manager review",
		http.StatusBadRequest,
	)
	ErrInvalidDecision = apperror.New(
		apperror.CodeInvalidInput,
		"decision must be approved or rejected",
		http.StatusBadRequest,
	)
)
