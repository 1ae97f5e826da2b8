package services_test

import (
	"context"
	"testing"

	"storefront/internal/apperr"
	"storefront/internal/models"
	"storefront/internal/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func moneyPtr(f float64) *models.Money {
	m := models.MoneyFromFloat(f)
	return &m
}

func intPtr(i int) *int { return &i }

func TestProductService_GetAllProducts(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo)

	expectedProducts := []models.Product{
		{ID: 1, Name: "Product A", Price: models.MoneyFromFloat(10), Stock: 100},
		{ID: 2, Name: "Product B", Price: models.MoneyFromFloat(20), Stock: 50},
	}

	mockRepo.On("GetAll", mock.Anything).Return(expectedProducts, nil).Once()

	products, err := service.GetAllProducts(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, expectedProducts, products)
	mockRepo.AssertExpectations(t)
}

func TestProductService_GetProductByID(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo)

	expectedProduct := &models.Product{ID: 1, Name: "Product A", Price: models.MoneyFromFloat(10), Stock: 100}

	mockRepo.On("GetByID", mock.Anything, uint(1)).Return(expectedProduct, nil).Once()
	product, err := service.GetProductByID(context.Background(), 1)
	assert.NoError(t, err)
	assert.Equal(t, expectedProduct, product)

	mockRepo.On("GetByID", mock.Anything, uint(99)).Return(nil, apperr.ErrNotFound).Once()
	product, err = service.GetProductByID(context.Background(), 99)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.Nil(t, product)

	mockRepo.On("GetByID", mock.Anything, uint(100)).Return(nil, assert.AnError).Once()
	_, err = service.GetProductByID(context.Background(), 100)
	assert.ErrorIs(t, err, apperr.ErrInternal)
	mockRepo.AssertExpectations(t)
}

func TestProductService_CreateProduct(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo)

	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Product")).Return(nil).Once()

	product, err := service.CreateProduct(context.Background(), services.CreateProductInput{
		Name:  strPtr("  Lamp "),
		Price: &models.Money{Decimal: decimal.RequireFromString("19.999")},
		Stock: intPtr(0),
	})

	require.NoError(t, err)
	assert.Equal(t, "Lamp", product.Name)
	assert.Equal(t, "20.00", product.Price.StringFixed(2))
	assert.Equal(t, 0, product.Stock)
	mockRepo.AssertExpectations(t)
}

func TestProductService_CreateProduct_Invalid(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo)

	_, err := service.CreateProduct(context.Background(), services.CreateProductInput{
		Name:  strPtr(""),
		Price: moneyPtr(-1),
	})

	verr, ok := apperr.AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, []string{"name", "price", "stock"}, verr.Fields())
	assert.Equal(t, "The stock field is required.", verr.Errors["stock"][0])
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestProductService_UpdateProduct(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo)

	existing := &models.Product{ID: 1, Name: "Lamp", Price: models.MoneyFromFloat(20), Stock: 3}
	mockRepo.On("GetByID", mock.Anything, uint(1)).Return(existing, nil).Once()
	mockRepo.On("Update", mock.Anything, existing).Return(nil).Once()

	product, err := service.UpdateProduct(context.Background(), 1, services.UpdateProductInput{
		Price: moneyPtr(15),
		Stock: intPtr(-2),
	})

	require.NoError(t, err)
	assert.Equal(t, "Lamp", product.Name)
	assert.Equal(t, "15.00", product.Price.StringFixed(2))
	assert.Equal(t, -2, product.Stock)

	mockRepo.On("GetByID", mock.Anything, uint(2)).Return(nil, apperr.ErrNotFound).Once()
	_, err = service.UpdateProduct(context.Background(), 2, services.UpdateProductInput{Name: strPtr("x")})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	mockRepo.AssertExpectations(t)
}

func TestProductService_DeleteProduct(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo)

	mockRepo.On("Delete", mock.Anything, uint(1)).Return(nil).Once()
	mockRepo.On("Delete", mock.Anything, uint(99)).Return(apperr.ErrNotFound).Once()

	assert.NoError(t, service.DeleteProduct(context.Background(), 1))
	assert.ErrorIs(t, service.DeleteProduct(context.Background(), 99), apperr.ErrNotFound)
	mockRepo.AssertExpectations(t)
}
