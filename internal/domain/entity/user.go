package entity

import (
	"time"

	"github.com/google/uuid"
)

// UserRole is the account type chosen at signup
type UserRole string

const (
	RoleCustomer UserRole = "customer"
	RoleDoctor   UserRole = "doctor"
)

// User is an account that can log in. Password holds the bcrypt hash.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Email     string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"type:text;not null" json:"-"`
	Role      UserRole  `gorm:"type:varchar(20);not null;index" json:"role"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// IsDoctor checks if the account belongs to a doctor
func (u *User) IsDoctor() bool {
	return u.Role == RoleDoctor
}

// ValidRole reports whether r is a known account type
func ValidRole(r UserRole) bool {
	return r == RoleCustomer || r == RoleDoctor
}
