package loginhistory

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// LoginHistory is an append only audit record. Rows older than the
// retention window are swept by the worker.
type LoginHistory struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Account   string    `gorm:"type:varchar(10);not null;index:idx_login_histories_account"`
	Role      string    `gorm:"type:varchar(10);not null;default:'user'"`
	Name      string    `gorm:"type:varchar(50)"`
	Status    string    `gorm:"type:varchar(10);not null"`
	IPAddress string    `gorm:"type:varchar(45)"`
	UserAgent string    `gorm:"type:varchar(255)"`
	Reason    string    `gorm:"type:varchar(100)"`
	CreatedAt time.Time `gorm:"autoCreateTime;index:idx_login_histories_created_at"`
}

func (LoginHistory) TableName() string {
	return "login_histories"
}
