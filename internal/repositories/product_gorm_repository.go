package repositories

import (
	"errors"
	"fmt"

	"akun/internal/apperr"
	"akun/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// GetAll retrieves all products, oldest first.
func (r *GORMProductRepository) GetAll() ([]models.Product, error) {
	products := []models.Product{}
	if err := r.db.Order("created_at ASC").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get all products: %w", err)
	}
	return products, nil
}

// GetByID retrieves a single product by its ID from the database.
func (r *GORMProductRepository) GetByID(id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &apperr.NotFoundError{Resource: "product", ID: id}
		}
		return nil, fmt.Errorf("failed to get product by ID %s: %w", id, err)
	}
	return &product, nil
}

// Create creates a new product in the database.
func (r *GORMProductRepository) Create(product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if err := r.db.Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update writes only the changed columns of a product and returns the
// stored record.
func (r *GORMProductRepository) Update(id string, changes models.ProductChanges) (*models.Product, error) {
	var product models.Product
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&product, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &apperr.NotFoundError{Resource: "product", ID: id}
			}
			return err
		}
		if changes.Empty() {
			return nil
		}
		if err := tx.Model(&product).Updates(changes.Columns()).Error; err != nil {
			return err
		}
		return tx.First(&product, "id = ?", id).Error
	})
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update product %s: %w", id, err)
	}
	return &product, nil
}

// Delete permanently removes a product by its ID.
func (r *GORMProductRepository) Delete(id string) error {
	res := r.db.Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return &apperr.NotFoundError{Resource: "product", ID: id}
	}
	return nil
}
