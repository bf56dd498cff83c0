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

var categorySortColumns = map[string]string{
	"id":   "id",
	"name": "name",
}

// categoryRepository implements the CategoryRepository interface using PostgreSQL.
type categoryRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCategoryRepository creates a new PostgreSQL-backed category repository.
func NewCategoryRepository(pool *pgxpool.Pool, logger zerolog.Logger) CategoryRepository {
	return &categoryRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "category").Logger(),
	}
}

func (r *categoryRepository) FindAll(ctx context.Context, req model.PageRequest) ([]model.Category, error) {
	order, err := orderClause(req.Sort, categorySortColumns, "id")
	if err != nil {
		return nil, err
	}

	query := `
		SELECT id, name, created_at, updated_at
		FROM categories
		` + order + `
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, req.Size, req.Offset())
	if err != nil {
		r.logger.Error().Err(err).
			Int("page", req.Page).
			Int("size", req.Size).
			Msg("failed to query categories")
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	categories := []model.Category{}
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan category row")
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating category rows")
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	return categories, nil
}

func (r *categoryRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM categories").Scan(&count); err != nil {
		r.logger.Error().Err(err).Msg("failed to count categories")
		return 0, fmt.Errorf("failed to count categories: %w", err)
	}
	return count, nil
}

func (r *categoryRepository) FindByID(ctx context.Context, id int64) (*model.Category, error) {
	query := `
		SELECT id, name, created_at, updated_at
		FROM categories
		WHERE id = $1
	`

	var c model.Category
	err := r.pool.QueryRow(ctx, query, id).Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Int64("category_id", id).Msg("category not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Int64("category_id", id).Msg("failed to query category")
		return nil, fmt.Errorf("failed to query category: %w", err)
	}

	return &c, nil
}

func (r *categoryRepository) FindByName(ctx context.Context, name string) (*model.Category, error) {
	query := `
		SELECT id, name, created_at, updated_at
		FROM categories
		WHERE name = $1
	`

	var c model.Category
	err := r.pool.QueryRow(ctx, query, name).Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("name", name).Msg("failed to query category by name")
		return nil, fmt.Errorf("failed to query category: %w", err)
	}

	return &c, nil
}

func (r *categoryRepository) Insert(ctx context.Context, c *model.Category) error {
	query := `
		INSERT INTO categories (name)
		VALUES ($1)
		RETURNING id, created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query, c.Name).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if pgErrorCode(err) == pgUniqueViolation {
			return model.NewValidationError("name", "category name already exists")
		}
		r.logger.Error().Err(err).Str("name", c.Name).Msg("failed to insert category")
		return fmt.Errorf("failed to insert category: %w", err)
	}

	return nil
}

func (r *categoryRepository) Update(ctx context.Context, c *model.Category) error {
	query := `
		UPDATE categories
		SET name = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query, c.Name, c.ID).Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrResourceNotFound
		}
		if pgErrorCode(err) == pgUniqueViolation {
			return model.NewValidationError("name", "category name already exists")
		}
		r.logger.Error().Err(err).Int64("category_id", c.ID).Msg("failed to update category")
		return fmt.Errorf("failed to update category: %w", err)
	}

	return nil
}

func (r *categoryRepository) ProductIDs(ctx context.Context, categoryID int64) ([]int64, error) {
	rows, err := r.pool.Query(ctx,
		"SELECT product_id FROM product_categories WHERE category_id = $1 ORDER BY product_id",
		categoryID)
	if err != nil {
		r.logger.Error().Err(err).Int64("category_id", categoryID).Msg("failed to query category products")
		return nil, fmt.Errorf("failed to query category products: %w", err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("failed to scan category products: %w", err)
	}

	return ids, nil
}

func (r *categoryRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM categories WHERE id = $1", id)
	if err != nil {
		if pgErrorCode(err) == pgForeignKeyViolation {
			r.logger.Warn().Int64("category_id", id).Msg("category still referenced by products")
			return model.ErrIntegrityViolation
		}
		r.logger.Error().Err(err).Int64("category_id", id).Msg("failed to delete category")
		return fmt.Errorf("failed to delete category: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.ErrResourceNotFound
	}

	return nil
}
