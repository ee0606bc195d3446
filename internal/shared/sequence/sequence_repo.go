// Package sequence computes the next suffix for the formatted business
// identifiers (employee IDs, account names, loan application IDs). Callers
// must run these queries inside the same transaction that inserts the row and
// re-check existence before commit; the unique index is the last line of
// defense against concurrent winners.
package sequence

import (
	"context"
	"database/sql"
	"fmt"
)

//go:generate mockgen -source=sequence_repo.go -destination=mock/sequence_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	MaxEmployeeIDSeq(ctx context.Context, prefix string) (int, error)
	EmployeeIDExists(ctx context.Context, employeeID string) (bool, error)
	MaxAccountSeq(ctx context.Context, prefix string) (int, error)
	AccountExists(ctx context.Context, account string) (bool, error)
	MaxLoanApplicationSeq(ctx context.Context, prefix string) (int, error)
	LoanApplicationIDExists(ctx context.Context, applicationID string) (bool, error)
}

type repository struct {
	db *sql.DB
	tx *sql.Tx
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (r *repository) q() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

func (r *repository) maxSuffix(ctx context.Context, table, column, prefix string) (int, error) {
	// table and column come from the fixed call sites below, never from input
	query := fmt.Sprintf(`
SELECT COALESCE(MAX(CAST(RIGHT(%s, 3) AS INT)), 0)
FROM %s
WHERE %s LIKE $1
`, column, table, column)

	var max int
	err := r.q().QueryRowContext(ctx, query, prefix+"%").Scan(&max)
	if err != nil {
		return 0, err
	}
	return max, nil
}

func (r *repository) exists(ctx context.Context, table, column, value string) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1)`, table, column)

	var found bool
	err := r.q().QueryRowContext(ctx, query, value).Scan(&found)
	if err != nil {
		return false, err
	}
	return found, nil
}

func (r *repository) MaxEmployeeIDSeq(ctx context.Context, prefix string) (int, error) {
	return r.maxSuffix(ctx, "users", "employee_id", prefix)
}

func (r *repository) EmployeeIDExists(ctx context.Context, employeeID string) (bool, error) {
	return r.exists(ctx, "users", "employee_id", employeeID)
}

func (r *repository) MaxAccountSeq(ctx context.Context, prefix string) (int, error) {
	return r.maxSuffix(ctx, "users", "account", prefix)
}

func (r *repository) AccountExists(ctx context.Context, account string) (bool, error) {
	return r.exists(ctx, "users", "account", account)
}

func (r *repository) MaxLoanApplicationSeq(ctx context.Context, prefix string) (int, error) {
	return r.maxSuffix(ctx, "loan_applications", "application_id", prefix)
}

func (r *repository) LoanApplicationIDExists(ctx context.Context, applicationID string) (bool, error) {
	return r.exists(ctx, "loan_applications", "application_id", applicationID)
}
