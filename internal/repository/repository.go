package repository

import (
	"context"

	"dscatalog/internal/model"
)

// ProductRepository defines the interface for product data access operations.
type ProductRepository interface {
	// FindAll retrieves one sorted page of products with their categories.
	FindAll(ctx context.Context, req model.PageRequest) ([]model.Product, error)

	// Count returns the total number of products.
	Count(ctx context.Context) (int64, error)

	// FindByID retrieves a single product by its ID.
	// Returns nil without error when the product does not exist.
	FindByID(ctx context.Context, id int64) (*model.Product, error)

	// Insert stores a new product and its category links, setting p.ID.
	// Returns model.ErrResourceNotFound if a category does not exist.
	Insert(ctx context.Context, p *model.Product) error

	// Update replaces the product fields and category links.
	// Returns model.ErrResourceNotFound if the product or a category does not exist.
	Update(ctx context.Context, p *model.Product) error

	// Delete removes a product. Returns model.ErrResourceNotFound if it does not exist.
	Delete(ctx context.Context, id int64) error
}

// CategoryRepository defines the interface for category data access operations.
type CategoryRepository interface {
	// FindAll retrieves one sorted page of categories.
	FindAll(ctx context.Context, req model.PageRequest) ([]model.Category, error)

	// Count returns the total number of categories.
	Count(ctx context.Context) (int64, error)

	// FindByID retrieves a single category by its ID.
	// Returns nil without error when the category does not exist.
	FindByID(ctx context.Context, id int64) (*model.Category, error)

	// FindByName retrieves a category by its unique name.
	// Returns nil without error when the category does not exist.
	FindByName(ctx context.Context, name string) (*model.Category, error)

	// Insert stores a new category, setting its ID and timestamps.
	Insert(ctx context.Context, c *model.Category) error

	// Update renames a category. Returns model.ErrResourceNotFound if it does not exist.
	Update(ctx context.Context, c *model.Category) error

	// ProductIDs returns the IDs of the products linked to a category.
	ProductIDs(ctx context.Context, categoryID int64) ([]int64, error)

	// Delete removes a category. Returns model.ErrIntegrityViolation while
	// products still reference it.
	Delete(ctx context.Context, id int64) error
}
