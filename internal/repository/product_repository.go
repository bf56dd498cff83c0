package repository

import (
	"context"
	"errors"
	"fmt"

	"dscatalog/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// productSortColumns maps sortable product properties to columns.
var productSortColumns = map[string]string{
	"id":    "p.id",
	"name":  "p.name",
	"price": "p.price",
	"date":  "p.date",
}

// productRepository implements the ProductRepository interface using PostgreSQL.
type productRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool *pgxpool.Pool, logger zerolog.Logger) ProductRepository {
	return &productRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "product").Logger(),
	}
}

// FindAll retrieves one sorted page of products with their categories.
func (r *productRepository) FindAll(ctx context.Context, req model.PageRequest) ([]model.Product, error) {
	order, err := orderClause(req.Sort, productSortColumns, "p.id")
	if err != nil {
		return nil, err
	}

	query := `
		SELECT p.id, p.name, p.description, p.price, p.img_url, p.date
		FROM products p
		` + order + `
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, req.Size, req.Offset())
	if err != nil {
		r.logger.Error().Err(err).
			Int("page", req.Page).
			Int("size", req.Size).
			Msg("failed to query products")
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := []model.Product{}
	for rows.Next() {
		var p model.Product
		err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.ImgURL, &p.Date)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan product row")
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		p.Categories = []model.Category{}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating product rows")
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	if err := r.attachCategories(ctx, products); err != nil {
		return nil, err
	}

	return products, nil
}

// Count returns the total number of products.
func (r *productRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM products").Scan(&count); err != nil {
		r.logger.Error().Err(err).Msg("failed to count products")
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return count, nil
}

// FindByID retrieves a single product by its ID.
func (r *productRepository) FindByID(ctx context.Context, id int64) (*model.Product, error) {
	query := `
		SELECT p.id, p.name, p.description, p.price, p.img_url, p.date
		FROM products p
		WHERE p.id = $1
	`

	var p model.Product
	err := r.pool.QueryRow(ctx, query, id).Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.ImgURL, &p.Date)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Int64("product_id", id).Msg("product not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Int64("product_id", id).Msg("failed to query product")
		return nil, fmt.Errorf("failed to query product: %w", err)
	}
	p.Categories = []model.Category{}

	products := []model.Product{p}
	if err := r.attachCategories(ctx, products); err != nil {
		return nil, err
	}

	return &products[0], nil
}

// Insert stores a new product and its category links, setting p.ID.
func (r *productRepository) Insert(ctx context.Context, p *model.Product) error {
	return withTx(ctx, r.pool, func(tx pgx.Tx) error {
		categories, err := r.resolveCategories(ctx, tx, p.CategoryIDs())
		if err != nil {
			return err
		}

		query := `
			INSERT INTO products (name, description, price, img_url, date)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`

		err = tx.QueryRow(ctx, query, p.Name, p.Description, p.Price, p.ImgURL, p.Date).Scan(&p.ID)
		if err != nil {
			r.logger.Error().Err(err).Str("name", p.Name).Msg("failed to insert product")
			return fmt.Errorf("failed to insert product: %w", err)
		}

		if err := r.linkCategories(ctx, tx, p.ID, categories); err != nil {
			return err
		}
		p.Categories = categories

		r.logger.Debug().Int64("product_id", p.ID).Msg("product inserted")
		return nil
	})
}

// Update replaces the product fields and category links.
func (r *productRepository) Update(ctx context.Context, p *model.Product) error {
	return withTx(ctx, r.pool, func(tx pgx.Tx) error {
		query := `
			UPDATE products
			SET name = $1, description = $2, price = $3, img_url = $4, date = $5, updated_at = NOW()
			WHERE id = $6
		`

		tag, err := tx.Exec(ctx, query, p.Name, p.Description, p.Price, p.ImgURL, p.Date, p.ID)
		if err != nil {
			r.logger.Error().Err(err).Int64("product_id", p.ID).Msg("failed to update product")
			return fmt.Errorf("failed to update product: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return model.ErrResourceNotFound
		}

		categories, err := r.resolveCategories(ctx, tx, p.CategoryIDs())
		if err != nil {
			return err
		}

		if _, err := tx.Exec(ctx, "DELETE FROM product_categories WHERE product_id = $1", p.ID); err != nil {
			r.logger.Error().Err(err).Int64("product_id", p.ID).Msg("failed to clear product categories")
			return fmt.Errorf("failed to clear product categories: %w", err)
		}

		if err := r.linkCategories(ctx, tx, p.ID, categories); err != nil {
			return err
		}
		p.Categories = categories

		return nil
	})
}

// Delete removes a product. Category links cascade.
func (r *productRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM products WHERE id = $1", id)
	if err != nil {
		r.logger.Error().Err(err).Int64("product_id", id).Msg("failed to delete product")
		return fmt.Errorf("failed to delete product: %w", err)
	}

	if tag.RowsAffected() == 0 {
		r.logger.Debug().Int64("product_id", id).Msg("product to delete not found")
		return model.ErrResourceNotFound
	}

	return nil
}

// attachCategories loads the categories of all given products in one query.
func (r *productRepository) attachCategories(ctx context.Context, products []model.Product) error {
	if len(products) == 0 {
		return nil
	}

	ids := make([]int64, len(products))
	index := make(map[int64]int, len(products))
	for i, p := range products {
		ids[i] = p.ID
		index[p.ID] = i
	}

	query := `
		SELECT pc.product_id, c.id, c.name
		FROM product_categories pc
		JOIN categories c ON c.id = pc.category_id
		WHERE pc.product_id = ANY($1)
		ORDER BY pc.product_id, pc.position, c.id
	`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		r.logger.Error().Err(err).Int("count", len(ids)).Msg("failed to query product categories")
		return fmt.Errorf("failed to query product categories: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var productID int64
		var c model.Category
		if err := rows.Scan(&productID, &c.ID, &c.Name); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan product category row")
			return fmt.Errorf("failed to scan product category: %w", err)
		}
		i := index[productID]
		products[i].Categories = append(products[i].Categories, c)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating product category rows")
		return fmt.Errorf("error iterating product categories: %w", err)
	}

	return nil
}

// resolveCategories loads the named categories in the requested order.
// Returns model.ErrResourceNotFound if any ID is unknown.
func (r *productRepository) resolveCategories(ctx context.Context, tx pgx.Tx, ids []int64) ([]model.Category, error) {
	if len(ids) == 0 {
		return []model.Category{}, nil
	}

	rows, err := tx.Query(ctx, "SELECT id, name FROM categories WHERE id = ANY($1)", ids)
	if err != nil {
		r.logger.Error().Err(err).Int("count", len(ids)).Msg("failed to resolve categories")
		return nil, fmt.Errorf("failed to resolve categories: %w", err)
	}
	defer rows.Close()

	found := make(map[int64]model.Category, len(ids))
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		found[c.ID] = c
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	categories := make([]model.Category, 0, len(ids))
	seen := make(map[int64]bool, len(ids))
	for _, id := range ids {
		c, ok := found[id]
		if !ok {
			r.logger.Warn().Int64("category_id", id).Msg("category does not exist")
			return nil, model.ErrResourceNotFound
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		categories = append(categories, c)
	}

	return categories, nil
}

// linkCategories inserts product_categories rows preserving order.
func (r *productRepository) linkCategories(ctx context.Context, tx pgx.Tx, productID int64, categories []model.Category) error {
	if len(categories) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for pos, c := range categories {
		batch.Queue(
			"INSERT INTO product_categories (product_id, category_id, position) VALUES ($1, $2, $3)",
			productID, c.ID, pos,
		)
	}

	results := tx.SendBatch(ctx, batch)
	for range categories {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			r.logger.Error().Err(err).Int64("product_id", productID).Msg("failed to link category")
			return fmt.Errorf("failed to link category: %w", err)
		}
	}

	if err := results.Close(); err != nil {
		return fmt.Errorf("failed to link categories: %w", err)
	}

	return nil
}
