package repositories

import (
	"akun/internal/models"
)

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	GetAll() ([]models.Product, error)
	GetByID(id string) (*models.Product, error)
	Create(product *models.Product) error
	Update(id string, changes models.ProductChanges) (*models.Product, error)
	Delete(id string) error
}
