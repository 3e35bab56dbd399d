package models

import "time"

// User represents an account holder.
type User struct {
	ID              string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name            string     `json:"name" gorm:"type:varchar(255);not null"`
	Email           string     `json:"email" gorm:"uniqueIndex;type:varchar(255);not null"`
	EmailVerifiedAt *time.Time `json:"email_verified_at"`
	Password        string     `json:"-" gorm:"type:varchar(255);not null"` // bcrypt hash
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// IsEmailVerified reports whether the current email address has been verified.
func (u *User) IsEmailVerified() bool {
	return u.EmailVerifiedAt != nil
}
