package user

import (
	"time"

	"github.com/google/uuid"
)

type EmergencyContact struct {
	Name         string `gorm:"type:varchar(50)" json:"name"`
	Phone        string `gorm:"type:varchar(20)" json:"phone"`
	Relationship string `gorm:"type:varchar(20)" json:"relationship"`
}

type VerificationCode struct {
	Code    string `gorm:"type:varchar(6)"`
	IsValid bool   `gorm:"default:false"`
}

type User struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID string    `gorm:"type:varchar(9);not null;uniqueIndex:uq_users_employee_id"`
	Name       string    `gorm:"type:varchar(50);not null"`
	Account    string    `gorm:"type:varchar(20);not null;uniqueIndex:uq_users_account"`
	Password   string    `gorm:"type:varchar(100);not null"`

	Role       string `gorm:"type:varchar(10);not null;default:'user';index:idx_users_role"`
	Department string `gorm:"type:varchar(2);not null;index:idx_users_department"`
	Position   string `gorm:"type:varchar(1);not null"`

	Email         string     `gorm:"type:varchar(100)"`
	Extension     string     `gorm:"type:varchar(10)"`
	Birthday      *time.Time `gorm:"type:date"`
	PersonalPhone string     `gorm:"type:varchar(20)"`

	EmergencyContact EmergencyContact `gorm:"embedded;embeddedPrefix:emergency_"`

	Avatar string `gorm:"type:text"`

	IsFirstLogin     bool       `gorm:"not null;default:true"`
	LastLoginTime    *time.Time `gorm:""`
	LastActivityTime *time.Time `gorm:""`

	VerificationCode VerificationCode `gorm:"embedded;embeddedPrefix:verification_"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (User) TableName() string {
	return "users"
}
