package loginattempt

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusNormal = "normal"
	StatusLocked = "locked"
)

// LoginAttempt tracks consecutive failures per (account, role). Successful
// logins reset the row; reaching MaxAttempts locks it.
type LoginAttempt struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Account string    `gorm:"type:varchar(20);not null;uniqueIndex:uq_login_attempts_account_role"`
	Role    string    `gorm:"type:varchar(10);not null;uniqueIndex:uq_login_attempts_account_role"`

	Attempts  int        `gorm:"not null;default:0"`
	Status    string     `gorm:"type:varchar(10);not null;default:'normal'"`
	LockUntil *time.Time `gorm:""`
	IPAddress string     `gorm:"type:varchar(45)"`

	LastAttempt time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (LoginAttempt) TableName() string {
	return "login_attempts"
}
