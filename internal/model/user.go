package model

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User is a local operator account. It only appears in the ledger as the
// optional actor of an audit entry.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"user_id"`
	Username     string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	Role         string    `gorm:"type:varchar(20);not null;default:'viewer'" json:"role"`
	TokenVersion string    `gorm:"type:varchar(64);default:''" json:"-"` // single session enforcement
	CreatedAt    time.Time `json:"created_at"`
}

func (User) TableName() string {
	return "users"
}

// SetPassword hashes and sets the user's password
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

// CheckPassword verifies if the provided password matches the stored hash
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}

// HasPrivilege reports whether the user's role grants code.
func (u *User) HasPrivilege(code string) bool {
	for _, p := range RolePrivileges(u.Role) {
		if p == code {
			return true
		}
	}
	return false
}

// UserResponse is used for API responses (without sensitive data)
type UserResponse struct {
	ID         uint      `json:"user_id"`
	Username   string    `json:"username"`
	Role       string    `json:"role"`
	Privileges []string  `json:"privileges"`
	CreatedAt  time.Time `json:"created_at"`
}

// ToResponse converts User to UserResponse
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:         u.ID,
		Username:   u.Username,
		Role:       u.Role,
		Privileges: RolePrivileges(u.Role),
		CreatedAt:  u.CreatedAt,
	}
}
