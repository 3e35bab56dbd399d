package repositories

import "akun/internal/models"

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	UpdateProfile(id, name, email string) (*models.User, error)
	Delete(id string) error
}
