package services

import (
	"akun/internal/models"
	"akun/internal/repositories"
	"akun/internal/validation"

	"github.com/sirupsen/logrus"
)

// ProductService handles business logic related to products.
type ProductService struct {
	repo   repositories.ProductRepository
	events EventPublisher
	logger *logrus.Logger
}

// NewProductService creates a new ProductService. events may be nil.
func NewProductService(repo repositories.ProductRepository, events EventPublisher, logger *logrus.Logger) *ProductService {
	return &ProductService{
		repo:   repo,
		events: events,
		logger: orStandard(logger),
	}
}

// GetAllProducts retrieves all products.
func (s *ProductService) GetAllProducts() ([]models.Product, error) {
	return s.repo.GetAll()
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(id string) (*models.Product, error) {
	return s.repo.GetByID(id)
}

// CreateProduct validates the input and stores a new product.
func (s *ProductService) CreateProduct(in validation.ProductInput) (*models.Product, error) {
	fields, err := validation.ValidateProduct(in)
	if err != nil {
		return nil, err
	}

	product := &models.Product{Name: fields.Name, Description: fields.Description, Price: *fields.Price}
	if err := s.repo.Create(product); err != nil {
		return nil, err
	}

	publish(s.events, s.logger, EventProductCreated, product)
	return product, nil
}

// UpdateProduct applies the fields present in the input to an existing product.
func (s *ProductService) UpdateProduct(id string, in validation.ProductInput) (*models.Product, error) {
	changes, err := validation.ValidateProductPatch(in)
	if err != nil {
		return nil, err
	}

	product, err := s.repo.Update(id, changes)
	if err != nil {
		return nil, err
	}

	if !changes.Empty() {
		publish(s.events, s.logger, EventProductUpdated, product)
	}
	return product, nil
}

// DeleteProduct deletes a product by its ID.
func (s *ProductService) DeleteProduct(id string) error {
	if err := s.repo.Delete(id); err != nil {
		return err
	}
	publish(s.events, s.logger, EventProductDeleted, map[string]string{"id": id})
	return nil
}
