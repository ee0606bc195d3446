package leaveerrors

import (
	"net/http"

	"github.com/yhnjiuy4321/BankSystem/internal/shared/apperror"
)

var (
	ErrLeaveNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave request not found",
		http.StatusNotFound,
	)
	ErrInvalidLeaveType = apperror.New(
		apperror.CodeInvalidInput,
		"unknown leave type",
		http.StatusBadRequest,
	)
	ErrInvalidPeriod = apperror.New(
		apperror.CodeInvalidInput,
		"end time must be after start time",
		http.StatusBadRequest,
	)
	ErrOutsideWorkHours = apperror.New(
		apperror.CodeInvalidInput,
		"period contains no working hours",
		http.StatusBadRequest,
	)
	ErrPeriodTooShort = apperror.New(
		apperror.CodeInvalidInput,
		"leave must cover at least half an hour",
		http.StatusBadRequest,
	)
	ErrPeriodTooLong = apperror.New(
		apperror.CodeInvalidInput,
		"leave cannot exceed fourteen working days",
		http.StatusBadRequest,
	)
	ErrPastDate = apperror.New(
		apperror.CodeInvalidInput,
		"leave cannot start in the past",
		http.StatusBadRequest,
	)
	ErrOverlappingLeave = apperror.New(
		apperror.CodeConflict,
		"period overlaps an existing leave request",
		http.StatusConflict,
	)
	ErrInsufficientBalance = apperror.New(
		apperror.CodeInvalidState,
		"remaining annual leave balance is insufficient",
		http.StatusUnprocessableEntity,
	)
	ErrNotPending = apperror.New(
		apperror.CodeInvalidState,
		"only pending leave requests can be cancelled",
		http.StatusUnprocessableEntity,
	)
	ErrAlreadyStarted = apperror.New(
		apperror.CodeInvalidState,
		"a leave that has already started cannot be cancelled",
		http.StatusUnprocessableEntity,
	)
	ErrNotOwner = apperror.New(
		apperror.CodeForbidden,
		"leave request belongs to another employee",
		http.StatusForbidden,
	)
	ErrReviewConflict = apperror.New(
		apperror.CodeConflict,
		"leave request was updated by another reviewer",
		http.StatusConflict,
	)
)
