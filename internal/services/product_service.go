package services

import (
	"context"
	"strings"

	"storefront/internal/apperr"
	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/validation"
)

// ProductService handles business logic related to the catalog. Access
// control is applied by the routes that expose the writes.
type ProductService struct {
	repo     repositories.ProductRepository
	validate *validation.Validator
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository) *ProductService {
	return &ProductService{
		repo:     repo,
		validate: validation.New(),
	}
}

// CreateProductInput is the payload for a new catalog entry.
type CreateProductInput struct {
	Name        *string       `json:"name" validate:"required,notblank,max=255"`
	Description *string       `json:"description"`
	Price       *models.Money `json:"price" validate:"required,gte=0,lte=99999999.99"`
	Stock       *int          `json:"stock" validate:"required,gte=0"`
}

// UpdateProductInput is a partial update. Nil fields are left unchanged.
type UpdateProductInput struct {
	Name        *string       `json:"name" validate:"omitempty,notblank,max=255"`
	Description *string       `json:"description"`
	Price       *models.Money `json:"price" validate:"omitempty,gte=0,lte=99999999.99"`
	Stock       *int          `json:"stock"`
}

// GetAllProducts retrieves all products.
func (s *ProductService) GetAllProducts(ctx context.Context) ([]models.Product, error) {
	products, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, apperr.Internal("list products", err)
	}
	return products, nil
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(ctx context.Context, id uint) (*models.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr("get product", err)
	}
	return product, nil
}

// CreateProduct validates and stores a new product.
func (s *ProductService) CreateProduct(ctx context.Context, in CreateProductInput) (*models.Product, error) {
	if verr := s.validate.Struct(in); verr != nil {
		return nil, verr
	}
	product := &models.Product{
		Name:        strings.TrimSpace(*in.Name),
		Description: in.Description,
		Price:       models.NewMoney(in.Price.Decimal),
		Stock:       *in.Stock,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, storeErr("create product", err)
	}
	return product, nil
}

// UpdateProduct applies a partial update to an existing product.
func (s *ProductService) UpdateProduct(ctx context.Context, id uint, in UpdateProductInput) (*models.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr("get product", err)
	}
	if verr := s.validate.Struct(in); verr != nil {
		return nil, verr
	}

	if in.Name != nil {
		product.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		product.Description = in.Description
	}
	if in.Price != nil {
		product.Price = models.NewMoney(in.Price.Decimal)
	}
	if in.Stock != nil {
		product.Stock = *in.Stock
	}

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, storeErr("update product", err)
	}
	return product, nil
}

// DeleteProduct deletes a product by its ID.
func (s *ProductService) DeleteProduct(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return storeErr("delete product", err)
	}
	return nil
}
