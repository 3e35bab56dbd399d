package repositories

import (
	"errors"
	"fmt"
	"strings"

	"akun/internal/apperr"
	"akun/internal/models"
	"akun/internal/validation"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMUserRepository is a GORM implementation of UserRepository.
// The *gorm.DB should be opened with TranslateError so unique-index
// violations surface as gorm.ErrDuplicatedKey.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

// Create creates a new user in the database. The email is stored normalized.
func (r *GORMUserRepository) Create(user *models.User) error {
	user.Email = validation.NormalizeEmail(user.Email)
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if err := r.db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return &apperr.ConflictError{Field: "email", Value: user.Email}
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByEmail retrieves a user by their email from the database.
func (r *GORMUserRepository) GetByEmail(email string) (*models.User, error) {
	email = validation.NormalizeEmail(email)
	var user models.User
	if err := r.db.First(&user, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &apperr.NotFoundError{Resource: "user", ID: email}
		}
		return nil, fmt.Errorf("failed to get user by email %s: %w", email, err)
	}
	return &user, nil
}

// GetByID retrieves a user by their ID from the database.
func (r *GORMUserRepository) GetByID(id string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &apperr.NotFoundError{Resource: "user", ID: id}
		}
		return nil, fmt.Errorf("failed to get user by ID %s: %w", id, err)
	}
	return &user, nil
}

// UpdateProfile sets the name and email of a user in one transaction. A
// changed email resets the verification timestamp; a difference in case only
// is not a change.
func (r *GORMUserRepository) UpdateProfile(id, name, email string) (*models.User, error) {
	email = validation.NormalizeEmail(email)
	var updated models.User
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&updated, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &apperr.NotFoundError{Resource: "user", ID: id}
			}
			return err
		}

		cols := map[string]interface{}{"name": name}
		if !strings.EqualFold(email, updated.Email) {
			cols["email"] = email
			cols["email_verified_at"] = nil
		}
		if err := tx.Model(&updated).Updates(cols).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return &apperr.ConflictError{Field: "email", Value: email}
			}
			return err
		}
		return tx.First(&updated, "id = ?", id).Error
	})
	if err != nil {
		var nf *apperr.NotFoundError
		var ce *apperr.ConflictError
		if errors.As(err, &nf) || errors.As(err, &ce) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update profile of user %s: %w", id, err)
	}
	return &updated, nil
}

// Delete permanently removes a user.
func (r *GORMUserRepository) Delete(id string) error {
	res := r.db.Delete(&models.User{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return &apperr.NotFoundError{Resource: "user", ID: id}
	}
	return nil
}
