package leave

import (
	"context"
	"time"

	"github.com/yhnjiuy4321/BankSystem/internal/approval"

	"gorm.io/gorm"
)

// ListFilter narrows list queries. Zero values mean no filter.
type ListFilter struct {
	LeaveType string
	Status    string
	Year      int
}

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	Create(ctx context.Context, l *Leave) error
	FindByID(ctx context.Context, id string) (*Leave, error)
	ListByEmployee(ctx context.Context, employeeID string, filter ListFilter, page, pageSize int) ([]Leave, int64, error)
	ListByDepartment(ctx context.Context, department string, filter ListFilter, page, pageSize int) ([]Leave, int64, error)
	ListPending(ctx context.Context, department string, positions []string) ([]Leave, error)
	UpdateReview(ctx context.Context, id, fromStatus, toStatus string, chain approval.Chain) (int64, error)
	CancelOwned(ctx context.Context, id, employeeID string) (int64, error)
	UsedHours(ctx context.Context, employeeID string, year int) (float64, error)
	HasOverlap(ctx context.Context, employeeID string, start, end time.Time) (bool, error)
	CountByStatus(ctx context.Context, department string, year int) (map[string]int64, error)
	HoursByType(ctx context.Context, department string, year int) (map[string]float64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, l *Leave) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*Leave, error) {
	var l Leave
	err := r.db.WithContext(ctx).First(&l, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func applyFilter(db *gorm.DB, filter ListFilter) *gorm.DB {
	if filter.LeaveType != "" {
		db = db.Where("leave_type = ?", filter.LeaveType)
	}
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if filter.Year > 0 {
		db = db.Where("EXTRACT(YEAR FROM start_time) = ?", filter.Year)
	}
	return db
}

func (r *repository) ListByEmployee(ctx context.Context, employeeID string, filter ListFilter, page, pageSize int) ([]Leave, int64, error) {
	query := applyFilter(r.db.WithContext(ctx).Model(&Leave{}).Where("employee_id = ?", employeeID), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var leaves []Leave
	err := query.
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&leaves).Error
	return leaves, total, err
}

func (r *repository) ListByDepartment(ctx context.Context, department string, filter ListFilter, page, pageSize int) ([]Leave, int64, error) {
	query := applyFilter(r.db.WithContext(ctx).Model(&Leave{}).Where("department = ?", department), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var leaves []Leave
	err := query.
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&leaves).Error
	return leaves, total, err
}

func (r *repository) ListPending(ctx context.Context, department string, positions []string) ([]Leave, error) {
	var leaves []Leave
	err := r.db.WithContext(ctx).
		Where("department = ?", department).
		Where("status = ?", approval.StatusPending).
		Where("position IN ?", positions).
		Order("created_at ASC").
		Find(&leaves).Error
	return leaves, err
}

// UpdateReview moves the request out of fromStatus. Zero rows affected
// means another reviewer got there first.
func (r *repository) UpdateReview(ctx context.Context, id, fromStatus, toStatus string, chain approval.Chain) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&Leave{}).
		Where("id = ? AND status = ?", id, fromStatus).
		Updates(map[string]any{
			"status": toStatus,
			"chain":  chain,
		})
	return result.RowsAffected, result.Error
}

// CancelOwned flips a pending request to cancelled and stamps the time,
// guarded on both the owner and the status.
func (r *repository) CancelOwned(ctx context.Context, id, employeeID string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&Leave{}).
		Where("id = ? AND employee_id = ? AND status = ?", id, employeeID, approval.StatusPending).
		Updates(map[string]any{
			"status":       approval.StatusCancelled,
			"cancelled_at": time.Now(),
		})
	return result.RowsAffected, result.Error
}

// UsedHours sums annual leave hours charged against the year's pool.
// Pending and processing requests count so the pool cannot be overdrawn
// by parallel applications.
func (r *repository) UsedHours(ctx context.Context, employeeID string, year int) (float64, error) {
	var used float64
	err := r.db.WithContext(ctx).
		Model(&Leave{}).
		Select("COALESCE(SUM(hours), 0)").
		Where("employee_id = ?", employeeID).
		Where("leave_type = ?", TypeAnnual).
		Where("status IN ?", []string{approval.StatusPending, approval.StatusProcessing, approval.StatusApproved}).
		Where("EXTRACT(YEAR FROM start_time) = ?", year).
		Scan(&used).Error
	return used, err
}

func (r *repository) HasOverlap(ctx context.Context, employeeID string, start, end time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Leave{}).
		Where("employee_id = ?", employeeID).
		Where("status IN ?", []string{approval.StatusPending, approval.StatusProcessing, approval.StatusApproved}).
		Where("start_time < ? AND end_time > ?", end, start).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) CountByStatus(ctx context.Context, department string, year int) (map[string]int64, error) {
	rows, err := r.db.WithContext(ctx).
		Model(&Leave{}).
		Select("status, COUNT(*)").
		Where("department = ?", department).
		Where("EXTRACT(YEAR FROM start_time) = ?", year).
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

func (r *repository) HoursByType(ctx context.Context, department string, year int) (map[string]float64, error) {
	rows, err := r.db.WithContext(ctx).
		Model(&Leave{}).
		Select("leave_type, COALESCE(SUM(hours), 0)").
		Where("department = ?", department).
		Where("status = ?", approval.StatusApproved).
		Where("EXTRACT(YEAR FROM start_time) = ?", year).
		Group("leave_type").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	hours := make(map[string]float64)
	for rows.Next() {
		var leaveType string
		var sum float64
		if err := rows.Scan(&leaveType, &sum); err != nil {
			return nil, err
		}
		hours[leaveType] = sum
	}
	return hours, rows.Err()
}
