package loan

import (
	"time"

	"github.com/yhnjiuy4321/BankSystem/internal/approval"

	"github.com/google/uuid"
)

const (
	PurposeHouse  = "house"
	PurposeCar    = "car"
	PurposeCredit = "credit"
	PurposeOther  = "other"

	// MinAmount is the smallest acceptable loan, in NTD.
	MinAmount int64 = 10_000
)

var Purposes = []string{PurposeHouse, PurposeCar, PurposeCredit, PurposeOther}

// Terms lists the accepted repayment terms in months.
var Terms = []int{12, 24, 36, 48, 60}

func ValidPurpose(p string) bool {
	for _, candidate := range Purposes {
		if candidate == p {
			return true
		}
	}
	return false
}

func ValidTerm(months int) bool {
	for _, candidate := range Terms {
		if candidate == months {
			return true
		}
	}
	return false
}

type Loan struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ApplicationID string    `gorm:"type:varchar(10);not null;uniqueIndex:uq_loan_applications_application_id"`

	EmployeeID    string `gorm:"type:varchar(9);not null;index:idx_loan_applications_employee"`
	ApplicantName string `gorm:"type:varchar(50);not null"`
	Department    string `gorm:"type:varchar(2);not null"`
	Position      string `gorm:"type:varchar(1);not null"`

	CustomerName     string `gorm:"type:varchar(50);not null"`
	CustomerIDNumber string `gorm:"type:varchar(10);not null"`
	CustomerPhone    string `gorm:"type:varchar(10);not null"`

	Purpose    string `gorm:"type:varchar(10);not null"`
	Amount     int64  `gorm:"not null"`
	TermMonths int    `gorm:"not null"`
	IsUrgent   bool   `gorm:"not null;default:false"`

	Status string         `gorm:"type:varchar(12);not null;default:'pending';index:idx_loan_applications_status"`
	Chain  approval.Chain `gorm:"type:jsonb;not null;default:'[]'"`
	Notes  Notes          `gorm:"type:jsonb;not null;default:'[]'"`

	AssigneeEmployeeID string `gorm:"type:varchar(9)"`
	AssigneeName       string `gorm:"type:varchar(50)"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Loan) TableName() string {
	return "loan_applications"
}
