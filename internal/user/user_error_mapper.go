package user

import (
	"errors"
	"strings"

	usererrors "github.com/yhnjiuy4321/BankSystem/internal/user/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// MapRepositoryError translates gorm and postgres errors into domain errors.
// Exported so callers inserting users inside their own transaction get the
// same constraint mapping.
func MapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return usererrors.ErrUserNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" {
			switch pgErr.ConstraintName {
			case "uq_users_account":
				return usererrors.ErrAccountAlreadyExists
			case "uq_users_employee_id":
				return usererrors.ErrEmployeeIDAlreadyExists
			}
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "uq_users_account") {
		return usererrors.ErrAccountAlreadyExists
	}
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "uq_users_employee_id") {
		return usererrors.ErrEmployeeIDAlreadyExists
	}

	return err
}
