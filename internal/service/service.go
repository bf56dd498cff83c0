package service

import (
	"context"

	"dscatalog/internal/model"
)

// ProductService defines operations for product management.
type ProductService interface {
	// FindAllPaged retrieves one page of products. Out of range paging
	// parameters are clamped rather than rejected.
	FindAllPaged(ctx context.Context, req model.PageRequest) (*model.Page[model.Product], error)

	// FindByID retrieves a single product by ID.
	FindByID(ctx context.Context, id int64) (*model.Product, error)

	// Insert validates and stores a new product.
	Insert(ctx context.Context, p *model.Product) (*model.Product, error)

	// Update validates and replaces the product with the given ID.
	Update(ctx context.Context, id int64, p *model.Product) (*model.Product, error)

	// Delete removes a product.
	Delete(ctx context.Context, id int64) error
}

// CategoryService defines operations for category management.
type CategoryService interface {
	FindAllPaged(ctx context.Context, req model.PageRequest) (*model.Page[model.Category], error)
	FindByID(ctx context.Context, id int64) (*model.Category, error)
	Insert(ctx context.Context, c *model.Category) (*model.Category, error)
	Update(ctx context.Context, id int64, c *model.Category) (*model.Category, error)
	Delete(ctx context.Context, id int64) error
}

// normalisePage clamps paging parameters to the supported range.
func normalisePage(req model.PageRequest) model.PageRequest {
	if req.Page < 0 {
		req.Page = 0
	}
	if req.Page > model.MaxPage {
		req.Page = model.MaxPage
	}
	if req.Size <= 0 {
		req.Size = model.DefaultPageSize
	}
	if req.Size > model.MaxPageSize {
		req.Size = model.MaxPageSize
	}
	return req
}
