package loginattempt

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"gorm.io/gorm"
)

//go:generate mockgen -source=loginattempt_repo.go -destination=mock/loginattempt_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Find(ctx context.Context, account, role string) (*LoginAttempt, error)
	IncrementAttempts(ctx context.Context, account, role, ip string) (int, error)
	Lock(ctx context.Context, account, role string, until time.Time) error
	Reset(ctx context.Context, account, role string) error
	ListByRole(ctx context.Context, role string) ([]LoginAttempt, error)
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

func (r *repository) Find(ctx context.Context, account, role string) (*LoginAttempt, error) {
	var a LoginAttempt
	err := r.db.WithContext(ctx).
		Where("account = ?", account).
		Where("role = ?", role).
		First(&a).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

// IncrementAttempts bumps the counter in a single atomic UPSERT so two
// concurrent failures cannot read the same value. Returns the new count.
func (r *repository) IncrementAttempts(ctx context.Context, account, role, ip string) (int, error) {
	var attempts int
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO login_attempts (account, role, attempts, status, ip_address, last_attempt, created_at, updated_at)
		VALUES (?, ?, 1, 'normal', ?, now(), now(), now())
		ON CONFLICT (account, role) DO UPDATE
		SET attempts = login_attempts.attempts + 1,
		    ip_address = EXCLUDED.ip_address,
		    last_attempt = now(),
		    updated_at = now()
		RETURNING attempts
	`, account, role, ip).Scan(&attempts).Error

	if err != nil {
		return 0, err
	}
	return attempts, nil
}

func (r *repository) Lock(ctx context.Context, account, role string, until time.Time) error {
	return r.db.WithContext(ctx).
		Model(&LoginAttempt{}).
		Where("account = ?", account).
		Where("role = ?", role).
		Updates(map[string]any{
			"status":     StatusLocked,
			"lock_until": until,
		}).Error
}

func (r *repository) Reset(ctx context.Context, account, role string) error {
	return r.db.WithContext(ctx).
		Model(&LoginAttempt{}).
		Where("account = ?", account).
		Where("role = ?", role).
		Updates(map[string]any{
			"attempts":   0,
			"status":     StatusNormal,
			"lock_until": nil,
		}).Error
}

func (r *repository) ListByRole(ctx context.Context, role string) ([]LoginAttempt, error) {
	var attempts []LoginAttempt
	err := r.db.WithContext(ctx).
		Where("role = ?", role).
		Order("last_attempt DESC").
		Find(&attempts).Error
	return attempts, err
}
