package loanerrors

import (
	"net/http"

	"github.com/yhnjiuy4321/BankSystem/internal/shared/apperror"
)

var (
	ErrLoanNotFound = apperror.New(
		apperror.CodeNotFound,
		"loan application not found",
		http.StatusNotFound,
	)
	ErrLoanDepartmentOnly = apperror.New(
		apperror.CodeForbidden,
		"only loan department employees may file loan applications",
		http.StatusForbidden,
	)
	ErrInvalidCustomerID = apperror.New(
		apperror.CodeInvalidInput,
		"customer national ID format is invalid",
		http.StatusBadRequest,
	)
	ErrInvalidCustomerPhone = apperror.New(
		apperror.CodeInvalidInput,
		"customer phone must be a 09 mobile number",
		http.StatusBadRequest,
	)
	ErrInvalidPurpose = apperror.New(
		apperror.CodeInvalidInput,
		"unknown loan purpose",
		http.StatusBadRequest,
	)
	ErrInvalidTerm = apperror.New(
		apperror.CodeInvalidInput,
		"loan term must be 12, 24, 36, 48 or 60 months",
		http.StatusBadRequest,
	)
	ErrAmountTooSmall = apperror.New(
		apperror.CodeInvalidInput,
		"loan amount is below the minimum",
		http.StatusBadRequest,
	)
	ErrApplicationIDExhausted = apperror.New(
		apperror.CodeExhausted,
		"monthly loan application sequence is exhausted",
		http.StatusConflict,
	)
	ErrApplicationIDCollision = apperror.New(
		apperror.CodeConflict,
		"loan application id collision detected",
		http.StatusConflict,
	)
	ErrReviewConflict = apperror.New(
		apperror.CodeConflict,
		"loan application was updated by another reviewer",
		http.StatusConflict,
	)
	ErrAssigneeNotReviewer = apperror.New(
		apperror.CodeInvalidInput,
		"assignee must be a supervisor or manager in the loan department",
		http.StatusBadRequest,
	)
)
