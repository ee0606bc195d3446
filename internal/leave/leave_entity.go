package leave

import (
	"time"

	"github.com/yhnjiuy4321/BankSystem/internal/approval"

	"github.com/google/uuid"
)

const (
	TypeAnnual    = "annual"
	TypeSick      = "sick"
	TypePersonal  = "personal"
	TypeFuneral   = "funeral"
	TypeMarriage  = "marriage"
	TypeMaternity = "maternity"
)

// Types lists the accepted leave types. Only annual draws from the yearly
// entitlement pool.
var Types = []string{TypeAnnual, TypeSick, TypePersonal, TypeFuneral, TypeMarriage, TypeMaternity}

func ValidType(t string) bool {
	for _, candidate := range Types {
		if candidate == t {
			return true
		}
	}
	return false
}

type Leave struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`

	EmployeeID    string `gorm:"type:varchar(9);not null;index:idx_leave_requests_employee"`
	ApplicantName string `gorm:"type:varchar(50);not null"`
	Department    string `gorm:"type:varchar(2);not null;index:idx_leave_requests_dept_status"`
	Position      string `gorm:"type:varchar(1);not null"`

	LeaveType string         `gorm:"type:varchar(20);not null"`
	StartTime time.Time      `gorm:"not null"`
	EndTime   time.Time      `gorm:"not null"`
	Hours     float64        `gorm:"type:numeric(5,1);not null"`
	Reason    string         `gorm:"type:text"`
	Status    string         `gorm:"type:varchar(12);not null;default:'pending';index:idx_leave_requests_dept_status"`
	Chain     approval.Chain `gorm:"type:jsonb;not null;default:'[]'"`

	CancelledAt *time.Time

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Leave) TableName() string {
	return "leave_requests"
}
