package newemployee

import (
	"context"
	"database/sql"
	"time"

	"github.com/yhnjiuy4321/BankSystem/internal/approval"

	"gorm.io/gorm"
)

// ApprovedFilter narrows the admin provisioning view.
type ApprovedFilter struct {
	HasAccount *bool
	Department string
	From       time.Time
	To         time.Time
}

//go:generate mockgen -source=newemployee_repo.go -destination=mock/newemployee_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	CreateBatch(ctx context.Context, items []*NewEmployee) error
	FindByID(ctx context.Context, id string) (*NewEmployee, error)
	ListBySubmitter(ctx context.Context, submitterEmployeeID string) ([]NewEmployee, error)
	ListByDepartment(ctx context.Context, department string) ([]NewEmployee, error)
	ListPending(ctx context.Context, department string) ([]NewEmployee, error)
	ListApproved(ctx context.Context, filter ApprovedFilter, page, pageSize int) ([]NewEmployee, int64, error)
	UpdateReview(ctx context.Context, id, fromStatus, toStatus string, chain approval.Chain) (int64, error)
	MarkProvisioned(ctx context.Context, id, employeeID, account, createdBy string, at time.Time) (int64, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) CreateBatch(ctx context.Context, items []*NewEmployee) error {
	return r.db.WithContext(ctx).Create(items).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*NewEmployee, error) {
	var n NewEmployee
	err := r.db.WithContext(ctx).First(&n, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// ListBySubmitter hides submissions whose account already exists, matching
// the supervisor's working view.
func (r *repository) ListBySubmitter(ctx context.Context, submitterEmployeeID string) ([]NewEmployee, error) {
	var items []NewEmployee
	err := r.db.WithContext(ctx).
		Where("submitter_employee_id = ?", submitterEmployeeID).
		Where("has_account = false").
		Order("created_at DESC").
		Find(&items).Error
	return items, err
}

func (r *repository) ListByDepartment(ctx context.Context, department string) ([]NewEmployee, error) {
	var items []NewEmployee
	err := r.db.WithContext(ctx).
		Where("department = ?", department).
		Where("has_account = false").
		Order("created_at DESC").
		Find(&items).Error
	return items, err
}

func (r *repository) ListPending(ctx context.Context, department string) ([]NewEmployee, error) {
	var items []NewEmployee
	err := r.db.WithContext(ctx).
		Where("department = ?", department).
		Where("status = ?", approval.StatusPending).
		Order("created_at ASC").
		Find(&items).Error
	return items, err
}

func (r *repository) ListApproved(ctx context.Context, filter ApprovedFilter, page, pageSize int) ([]NewEmployee, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&NewEmployee{}).
		Where("status = ?", approval.StatusApproved)

	if filter.HasAccount != nil {
		query = query.Where("has_account = ?", *filter.HasAccount)
	}
	if filter.Department != "" {
		query = query.Where("department = ?", filter.Department)
	}
	if !filter.From.IsZero() {
		query = query.Where("start_date >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		query = query.Where("start_date <= ?", filter.To)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []NewEmployee
	err := query.
		Order("start_date ASC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&items).Error
	return items, total, err
}

func (r *repository) UpdateReview(ctx context.Context, id, fromStatus, toStatus string, chain approval.Chain) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&NewEmployee{}).
		Where("id = ? AND status = ?", id, fromStatus).
		Updates(map[string]any{
			"status": toStatus,
			"chain":  chain,
		})
	return result.RowsAffected, result.Error
}

// MarkProvisioned stamps the account fields, guarded on has_account so a
// submission is provisioned at most once. The account starts deactivated
// until its owner logs in. Runs through the caller's sql.Tx when set so it
// commits atomically with the user insert.
func (r *repository) MarkProvisioned(ctx context.Context, id, employeeID, account, createdBy string, at time.Time) (int64, error) {
	if r.tx != nil {
		query := `
UPDATE new_employees
SET has_account = true,
	employee_id = $2,
	account = $3,
	is_activated = false,
	account_created_by = $4,
	account_created_at = $5,
	updated_at = NOW()
WHERE id = $1 AND has_account = false
`
		result, err := r.tx.ExecContext(ctx, query, id, employeeID, account, createdBy, at)
		if err != nil {
			return 0, err
		}
		return result.RowsAffected()
	}

	result := r.db.WithContext(ctx).
		Model(&NewEmployee{}).
		Where("id = ? AND has_account = false", id).
		Updates(map[string]any{
			"has_account":        true,
			"employee_id":        employeeID,
			"account":            account,
			"is_activated":       false,
			"account_created_by": createdBy,
			"account_created_at": at,
		})
	return result.RowsAffected, result.Error
}
