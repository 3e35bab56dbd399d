package services_test

import (
	"fmt"
	"testing"

	"akun/internal/apperr"
	"akun/internal/models"
	"akun/internal/services"
	"akun/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestProductService_GetAllProducts(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil, quietLogger())

	expectedProducts := []models.Product{
		{ID: "1", Name: "Product A", Price: 10.0},
		{ID: "2", Name: "Product B", Price: 20.0},
	}

	mockRepo.On("GetAll").Return(expectedProducts, nil).Once()

	products, err := service.GetAllProducts()

	assert.NoError(t, err)
	assert.Equal(t, expectedProducts, products)
	mockRepo.AssertExpectations(t)
}

func TestProductService_GetProductByID(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil, quietLogger())

	expectedProduct := &models.Product{ID: "1", Name: "Product A", Price: 10.0}

	mockRepo.On("GetByID", "1").Return(expectedProduct, nil).Once()
	product, err := service.GetProductByID("1")
	assert.NoError(t, err)
	assert.Equal(t, expectedProduct, product)

	mockRepo.On("GetByID", "99").Return(nil, &apperr.NotFoundError{Resource: "product", ID: "99"}).Once()
	product, err = service.GetProductByID("99")
	assert.Nil(t, product)
	assert.True(t, apperr.IsNotFound(err))
	mockRepo.AssertExpectations(t)
}

func TestProductService_CreateProduct(t *testing.T) {
	mockRepo := new(MockProductRepository)
	mockEvents := new(MockEventPublisher)
	service := services.NewProductService(mockRepo, mockEvents, quietLogger())

	mockRepo.On("Create", mock.MatchedBy(func(p *models.Product) bool {
		return p.Name == "Test Product" && p.Price == 9.99
	})).Return(nil).Once()
	mockEvents.On("PublishEvent", services.EventProductCreated, mock.AnythingOfType("*models.Product")).Return(nil).Once()

	product, err := service.CreateProduct(validation.ProductInput{Name: strPtr("Test Product"), Price: floatPtr(9.99)})
	assert.NoError(t, err)
	assert.Equal(t, "Test Product", product.Name)
	assert.Equal(t, 9.99, product.Price)
	mockRepo.AssertExpectations(t)
	mockEvents.AssertExpectations(t)
}

func TestProductService_CreateProductInvalidInputSkipsRepository(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil, quietLogger())

	_, err := service.CreateProduct(validation.ProductInput{Name: strPtr(""), Price: floatPtr(-5)})
	ve, ok := apperr.AsValidation(err)
	assert.True(t, ok)
	assert.True(t, ve.Has("name"))
	assert.True(t, ve.Has("price"))
	mockRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestProductService_CreateProductRepositoryFailure(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil, quietLogger())

	mockRepo.On("Create", mock.Anything).Return(fmt.Errorf("database error")).Once()
	_, err := service.CreateProduct(validation.ProductInput{Name: strPtr("New Product"), Price: floatPtr(50)})
	assert.ErrorContains(t, err, "database error")
	mockRepo.AssertExpectations(t)
}

func TestProductService_UpdateProduct(t *testing.T) {
	mockRepo := new(MockProductRepository)
	mockEvents := new(MockEventPublisher)
	service := services.NewProductService(mockRepo, mockEvents, quietLogger())

	price := 19.99
	updated := &models.Product{ID: "1", Name: "Test Product", Price: price}
	mockRepo.On("Update", "1", models.ProductChanges{Price: &price}).Return(updated, nil).Once()
	mockEvents.On("PublishEvent", services.EventProductUpdated, updated).Return(nil).Once()

	product, err := service.UpdateProduct("1", validation.ProductInput{Price: &price})
	assert.NoError(t, err)
	assert.Equal(t, 19.99, product.Price)
	mockRepo.AssertExpectations(t)
	mockEvents.AssertExpectations(t)

	mockRepo.On("Update", "99", mock.Anything).Return(nil, &apperr.NotFoundError{Resource: "product", ID: "99"}).Once()
	_, err = service.UpdateProduct("99", validation.ProductInput{Name: strPtr("NonExistent")})
	assert.True(t, apperr.IsNotFound(err))
	mockRepo.AssertExpectations(t)
}

func TestProductService_UpdateProductRejectsNegativePrice(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil, quietLogger())

	_, err := service.UpdateProduct("1", validation.ProductInput{Price: floatPtr(-1)})
	ve, ok := apperr.AsValidation(err)
	assert.True(t, ok)
	assert.True(t, ve.Has("price"))
	mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestProductService_DeleteProduct(t *testing.T) {
	mockRepo := new(MockProductRepository)
	mockEvents := new(MockEventPublisher)
	service := services.NewProductService(mockRepo, mockEvents, quietLogger())

	mockRepo.On("Delete", "1").Return(nil).Once()
	mockEvents.On("PublishEvent", services.EventProductDeleted, map[string]string{"id": "1"}).Return(fmt.Errorf("broker down")).Once()
	assert.NoError(t, service.DeleteProduct("1"), "publish failures must not fail the delete")

	mockRepo.On("Delete", "99").Return(&apperr.NotFoundError{Resource: "product", ID: "99"}).Once()
	err := service.DeleteProduct("99")
	assert.True(t, apperr.IsNotFound(err))
	mockRepo.AssertExpectations(t)
	mockEvents.AssertExpectations(t)
}
