package users

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleUser      Role = "USER"
	RoleOrganizer Role = "ORGANIZER"
	RoleAdmin     Role = "ADMIN"
)

func IsValidRole(role string) bool {
	switch Role(role) {
	case RoleUser, RoleOrganizer, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	FirstName    string    `gorm:"not null;size:100" json:"first_name"`
	LastName     string    `gorm:"not null;size:100" json:"last_name"`
	Email        string    `gorm:"unique;not null;size:255" json:"email"`
	Password     string    `gorm:"not null" json:"-"`
	Role         Role      `gorm:"type:varchar(20);default:'USER'" json:"role"`
	ReferralCode string    `gorm:"unique;size:12" json:"referral_code"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
