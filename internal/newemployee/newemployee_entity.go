package newemployee

import (
	"time"

	"github.com/yhnjiuy4321/BankSystem/internal/approval"

	"github.com/google/uuid"
)

// NewEmployee is an onboarding submission. After manager approval the
// account module provisions the user row and stamps the provisioning
// fields here.
type NewEmployee struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`

	Name      string    `gorm:"type:varchar(50);not null"`
	Email     string    `gorm:"type:varchar(100);not null"`
	Phone     string    `gorm:"type:varchar(10)"`
	StartDate time.Time `gorm:"type:date;not null"`

	Department string `gorm:"type:varchar(2);not null;index:idx_new_employees_dept_status"`
	Position   string `gorm:"type:varchar(1);not null"`

	SubmitterEmployeeID string `gorm:"type:varchar(9);not null;index:idx_new_employees_submitter"`
	SubmitterName       string `gorm:"type:varchar(50);not null"`
	SubmitterPosition   string `gorm:"type:varchar(1);not null"`

	Status string         `gorm:"type:varchar(12);not null;default:'pending';index:idx_new_employees_dept_status"`
	Chain  approval.Chain `gorm:"type:jsonb;not null;default:'[]'"`

	HasAccount       bool       `gorm:"not null;default:false"`
	EmployeeID       string     `gorm:"type:varchar(9)"`
	Account          string     `gorm:"type:varchar(6)"`
	IsActivated      bool       `gorm:"not null;default:false"`
	AccountCreatedAt *time.Time `gorm:""`
	AccountCreatedBy string     `gorm:"type:varchar(10)"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (NewEmployee) TableName() string {
	return "new_employees"
}
