package service

import (
	"context"
	"fmt"
	"strings"

	"dscatalog/internal/cache"
	"dscatalog/internal/model"
	"dscatalog/internal/repository"

	"github.com/rs/zerolog"
)

type categoryService struct {
	categoryRepo repository.CategoryRepository
	productCache cache.ProductCache
	logger       zerolog.Logger
}

// NewCategoryService creates a new category service. Cached products embed
// their category names, so renames evict them from productCache.
func NewCategoryService(
	categoryRepo repository.CategoryRepository,
	productCache cache.ProductCache,
	logger zerolog.Logger,
) CategoryService {
	return &categoryService{
		categoryRepo: categoryRepo,
		productCache: productCache,
		logger:       logger.With().Str("service", "category").Logger(),
	}
}

func (s *categoryService) FindAllPaged(ctx context.Context, req model.PageRequest) (*model.Page[model.Category], error) {
	req = normalisePage(req)

	categories, err := s.categoryRepo.FindAll(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}

	total, err := s.categoryRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count categories: %w", err)
	}

	return model.NewPage(categories, req, total), nil
}

func (s *categoryService) FindByID(ctx context.Context, id int64) (*model.Category, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	if category == nil {
		s.logger.Debug().Int64("category_id", id).Msg("category not found")
		return nil, model.ErrResourceNotFound
	}

	return category, nil
}

func (s *categoryService) Insert(ctx context.Context, c *model.Category) (*model.Category, error) {
	c.ID = 0
	c.Name = strings.TrimSpace(c.Name)
	if err := validateCategory(c); err != nil {
		return nil, err
	}

	if err := s.categoryRepo.Insert(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to insert category: %w", err)
	}

	s.logger.Info().Int64("category_id", c.ID).Str("name", c.Name).Msg("category created")
	return c, nil
}

func (s *categoryService) Update(ctx context.Context, id int64, c *model.Category) (*model.Category, error) {
	c.ID = id
	c.Name = strings.TrimSpace(c.Name)
	if err := validateCategory(c); err != nil {
		return nil, err
	}

	if err := s.categoryRepo.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	s.evictProducts(ctx, id)
	s.logger.Info().Int64("category_id", id).Msg("category updated")
	return c, nil
}

func (s *categoryService) Delete(ctx context.Context, id int64) error {
	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	s.logger.Info().Int64("category_id", id).Msg("category deleted")
	return nil
}

// evictProducts drops cached products that carry the category. The rename is
// already committed, so failures are only logged.
func (s *categoryService) evictProducts(ctx context.Context, categoryID int64) {
	ids, err := s.categoryRepo.ProductIDs(ctx, categoryID)
	if err != nil {
		s.logger.Warn().Err(err).Int64("category_id", categoryID).Msg("failed to list category products for cache eviction")
		return
	}
	if len(ids) == 0 {
		return
	}

	if err := s.productCache.Delete(ctx, ids...); err != nil {
		s.logger.Warn().Err(err).Int64("category_id", categoryID).Msg("product cache eviction failed")
	}
}
