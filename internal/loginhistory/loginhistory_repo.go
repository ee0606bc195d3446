package loginhistory

import (
	"context"
	"time"

	"gorm.io/gorm"
)

//go:generate mockgen -source=loginhistory_repo.go -destination=mock/loginhistory_repo_mock.go -package=mock
type Repository interface {
	Create(ctx context.Context, record *LoginHistory) error
	List(ctx context.Context, filter ListFilter, page, pageSize int) ([]LoginHistory, int64, error)
	CountByStatusSince(ctx context.Context, since time.Time) (map[string]int64, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// ListFilter narrows the admin history view. Zero values mean no filter.
type ListFilter struct {
	Account string
	Role    string
	Status  string
	From    time.Time
	To      time.Time
}

type repository struct {
	gormDB *gorm.DB
}

func NewRepository(gormDB *gorm.DB) Repository {
	return &repository{gormDB: gormDB}
}

func (r *repository) Create(ctx context.Context, record *LoginHistory) error {
	return r.gormDB.WithContext(ctx).Create(record).Error
}

func (r *repository) List(ctx context.Context, filter ListFilter, page, pageSize int) ([]LoginHistory, int64, error) {
	query := r.gormDB.WithContext(ctx).Model(&LoginHistory{})

	if filter.Account != "" {
		query = query.Where("account = ?", filter.Account)
	}
	if filter.Role != "" {
		query = query.Where("role = ?", filter.Role)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if !filter.From.IsZero() {
		query = query.Where("created_at >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		query = query.Where("created_at <= ?", filter.To)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []LoginHistory
	err := query.
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&records).Error
	if err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

// CountByStatusSince groups record counts by status. A zero since counts
// the whole table.
func (r *repository) CountByStatusSince(ctx context.Context, since time.Time) (map[string]int64, error) {
	query := r.gormDB.WithContext(ctx).Model(&LoginHistory{})
	if !since.IsZero() {
		query = query.Where("created_at >= ?", since)
	}

	rows, err := query.
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

func (r *repository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.gormDB.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&LoginHistory{})
	return result.RowsAffected, result.Error
}
