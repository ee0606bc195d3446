package loan

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/yhnjiuy4321/BankSystem/internal/approval"

	"gorm.io/gorm"
)

// ListFilter narrows the applicant's own list. Zero values mean no filter.
type ListFilter struct {
	Status    string
	MinAmount int64
}

// TrendPoint is one day of status counts.
type TrendPoint struct {
	Date     string           `json:"date"`
	ByStatus map[string]int64 `json:"by_status"`
}

//go:generate mockgen -source=loan_repo.go -destination=mock/loan_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, l *Loan) error
	FindByApplicationID(ctx context.Context, applicationID string) (*Loan, error)
	ListByEmployee(ctx context.Context, employeeID string, filter ListFilter, page, pageSize int) ([]Loan, int64, error)
	ListByStatus(ctx context.Context, status string) ([]Loan, error)
	ListReviewedBy(ctx context.Context, reviewerEmployeeID string, page, pageSize int) ([]Loan, int64, error)
	UpdateReview(ctx context.Context, applicationID, fromStatus, toStatus string, chain approval.Chain) (int64, error)
	UpdateNotes(ctx context.Context, applicationID string, notes Notes) error
	UpdateAssignee(ctx context.Context, applicationID, assigneeEmployeeID, assigneeName string) error
	CountByStatus(ctx context.Context) (map[string]int64, error)
	Trend(ctx context.Context, days int) ([]TrendPoint, error)
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

func (r *repository) Create(ctx context.Context, l *Loan) error {
	if r.tx != nil {
		return r.createTx(ctx, l)
	}
	return r.db.WithContext(ctx).Create(l).Error
}

// createTx inserts through the caller's sql.Tx so the insert commits in the
// same transaction that reserved the application id.
func (r *repository) createTx(ctx context.Context, l *Loan) error {
	chain, err := l.Chain.Value()
	if err != nil {
		return err
	}
	notes, err := l.Notes.Value()
	if err != nil {
		return err
	}

	query := `
INSERT INTO loan_applications (
	id, application_id, employee_id, applicant_name, department, position,
	customer_name, customer_id_number, customer_phone,
	purpose, amount, term_months, is_urgent,
	status, chain, notes, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, NOW(), NOW())
`
	_, err = r.tx.ExecContext(
		ctx, query,
		l.ID, l.ApplicationID, l.EmployeeID, l.ApplicantName, l.Department, l.Position,
		l.CustomerName, l.CustomerIDNumber, l.CustomerPhone,
		l.Purpose, l.Amount, l.TermMonths, l.IsUrgent,
		l.Status, chain, notes,
	)
	return err
}

func (r *repository) FindByApplicationID(ctx context.Context, applicationID string) (*Loan, error) {
	var l Loan
	err := r.db.WithContext(ctx).
		Where("application_id = ?", applicationID).
		First(&l).Error
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *repository) ListByEmployee(ctx context.Context, employeeID string, filter ListFilter, page, pageSize int) ([]Loan, int64, error) {
	query := r.db.WithContext(ctx).Model(&Loan{}).Where("employee_id = ?", employeeID)
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.MinAmount > 0 {
		query = query.Where("amount >= ?", filter.MinAmount)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var loans []Loan
	err := query.
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&loans).Error
	return loans, total, err
}

func (r *repository) ListByStatus(ctx context.Context, status string) ([]Loan, error) {
	var loans []Loan
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("is_urgent DESC, created_at ASC").
		Find(&loans).Error
	return loans, err
}

// ListReviewedBy finds applications whose chain contains the reviewer,
// using a JSONB containment match.
func (r *repository) ListReviewedBy(ctx context.Context, reviewerEmployeeID string, page, pageSize int) ([]Loan, int64, error) {
	match := fmt.Sprintf(`[{"approver_employee_id": %q}]`, reviewerEmployeeID)
	query := r.db.WithContext(ctx).Model(&Loan{}).Where("chain @> ?", match)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var loans []Loan
	err := query.
		Order("updated_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&loans).Error
	return loans, total, err
}

func (r *repository) UpdateReview(ctx context.Context, applicationID, fromStatus, toStatus string, chain approval.Chain) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&Loan{}).
		Where("application_id = ? AND status = ?", applicationID, fromStatus).
		Updates(map[string]any{
			"status": toStatus,
			"chain":  chain,
		})
	return result.RowsAffected, result.Error
}

func (r *repository) UpdateNotes(ctx context.Context, applicationID string, notes Notes) error {
	return r.db.WithContext(ctx).
		Model(&Loan{}).
		Where("application_id = ?", applicationID).
		Update("notes", notes).Error
}

func (r *repository) UpdateAssignee(ctx context.Context, applicationID, assigneeEmployeeID, assigneeName string) error {
	return r.db.WithContext(ctx).
		Model(&Loan{}).
		Where("application_id = ?", applicationID).
		Updates(map[string]any{
			"assignee_employee_id": assigneeEmployeeID,
			"assignee_name":        assigneeName,
		}).Error
}

func (r *repository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	rows, err := r.db.WithContext(ctx).
		Model(&Loan{}).
		Select("status, COUNT(*)").
		Group("status").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

func (r *repository) Trend(ctx context.Context, days int) ([]TrendPoint, error) {
	rows, err := r.db.WithContext(ctx).
		Model(&Loan{}).
		Select("TO_CHAR(created_at, 'YYYY-MM-DD') AS day, status, COUNT(*)").
		Where("created_at >= NOW() - ? * INTERVAL '1 day'", days).
		Group("day, status").
		Order("day ASC").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []TrendPoint
	index := make(map[string]int)
	for rows.Next() {
		var day, status string
		var count int64
		if err := rows.Scan(&day, &status, &count); err != nil {
			return nil, err
		}
		i, ok := index[day]
		if !ok {
			points = append(points, TrendPoint{Date: day, ByStatus: make(map[string]int64)})
			i = len(points) - 1
			index[day] = i
		}
		points[i].ByStatus[status] = count
	}
	return points, rows.Err()
}
