package user

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
)

//go:generate mockgen -source=user_repo.go -destination=mock/user_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, u *User) error
	FindByAccount(ctx context.Context, account, role string) (*User, error)
	FindByEmployeeID(ctx context.Context, employeeID string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	Update(ctx context.Context, u *User) error
	Delete(ctx context.Context, id string) error
	ListByRole(ctx context.Context, role string, department, name string, page, pageSize int) ([]User, int64, error)
	ListByDepartment(ctx context.Context, department string, positions []string) ([]User, error)
	TouchActivity(ctx context.Context, account string, at time.Time) error
	StampLogin(ctx context.Context, account string, at time.Time) error
	SetVerificationCode(ctx context.Context, account, code string) error
	ClearVerificationCode(ctx context.Context, account string) error
	UpdatePassword(ctx context.Context, account, hashed string, firstLogin bool) error
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

func (r *repository) Create(ctx context.Context, u *User) error {
	if r.tx != nil {
		return r.createTx(ctx, u)
	}
	return r.db.WithContext(ctx).Create(u).Error
}

// createTx inserts through the caller's sql.Tx so user creation can commit
// atomically with the onboarding row update during provisioning.
func (r *repository) createTx(ctx context.Context, u *User) error {
	query := `
INSERT INTO users (
	id, employee_id, name, account, password, role, department, position,
	email, is_first_login, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
`
	_, err := r.tx.ExecContext(
		ctx, query,
		u.ID, u.EmployeeID, u.Name, u.Account, u.Password,
		u.Role, u.Department, u.Position, u.Email, u.IsFirstLogin,
	)
	return err
}

func (r *repository) FindByAccount(ctx context.Context, account, role string) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).
		Where("account = ?", account).
		Where("role = ?", role).
		First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repository) FindByEmployeeID(ctx context.Context, employeeID string) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repository) FindByID(ctx context.Context, id string) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repository) Update(ctx context.Context, u *User) error {
	return r.db.WithContext(ctx).Save(u).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&User{}, "id = ?", id).Error
}

func (r *repository) ListByRole(ctx context.Context, role string, department, name string, page, pageSize int) ([]User, int64, error) {
	db := r.db.WithContext(ctx).Model(&User{}).Where("role = ?", role)
	if department != "" {
		db = db.Where("department = ?", department)
	}
	if name != "" {
		db = db.Where("name LIKE ?", "%"+name+"%")
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []User
	err := db.
		Order("employee_id ASC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&users).Error
	return users, total, err
}

func (r *repository) ListByDepartment(ctx context.Context, department string, positions []string) ([]User, error) {
	db := r.db.WithContext(ctx).
		Where("department = ?", department).
		Where("role = ?", "user")
	if len(positions) > 0 {
		db = db.Where("position IN ?", positions)
	}

	var users []User
	err := db.Order("employee_id ASC").Find(&users).Error
	return users, err
}

func (r *repository) TouchActivity(ctx context.Context, account string, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&User{}).
		Where("account = ?", account).
		Update("last_activity_time", at).Error
}

func (r *repository) StampLogin(ctx context.Context, account string, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&User{}).
		Where("account = ?", account).
		Updates(map[string]any{
			"last_login_time":    at,
			"last_activity_time": at,
		}).Error
}

func (r *repository) SetVerificationCode(ctx context.Context, account, code string) error {
	return r.db.WithContext(ctx).
		Model(&User{}).
		Where("account = ?", account).
		Updates(map[string]any{
			"verification_code":     code,
			"verification_is_valid": true,
		}).Error
}

func (r *repository) ClearVerificationCode(ctx context.Context, account string) error {
	return r.db.WithContext(ctx).
		Model(&User{}).
		Where("account = ?", account).
		Updates(map[string]any{
			"verification_code":     "",
			"verification_is_valid": false,
		}).Error
}

func (r *repository) UpdatePassword(ctx context.Context, account, hashed string, firstLogin bool) error {
	return r.db.WithContext(ctx).
		Model(&User{}).
		Where("account = ?", account).
		Updates(map[string]any{
			"password":       hashed,
			"is_first_login": firstLogin,
		}).Error
}
