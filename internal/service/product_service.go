package service

import (
	"context"
	"fmt"
	"time"

	"dscatalog/internal/cache"
	"dscatalog/internal/events"
	"dscatalog/internal/model"
	"dscatalog/internal/repository"

	"github.com/rs/zerolog"
)

// productService implements ProductService.
type productService struct {
	productRepo repository.ProductRepository
	cache       cache.ProductCache
	publisher   events.Publisher
	now         func() time.Time
	logger      zerolog.Logger
}

// NewProductService creates a new product service.
func NewProductService(
	productRepo repository.ProductRepository,
	productCache cache.ProductCache,
	publisher events.Publisher,
	logger zerolog.Logger,
) ProductService {
	return &productService{
		productRepo: productRepo,
		cache:       productCache,
		publisher:   publisher,
		now:         func() time.Time { return time.Now().UTC() },
		logger:      logger.With().Str("service", "product").Logger(),
	}
}

// FindAllPaged retrieves one page of products.
func (s *productService) FindAllPaged(ctx context.Context, req model.PageRequest) (*model.Page[model.Product], error) {
	req = normalisePage(req)

	products, err := s.productRepo.FindAll(ctx, req)
	if err != nil {
		s.logger.Error().Err(err).
			Int("page", req.Page).
			Int("size", req.Size).
			Msg("failed to get products")
		return nil, fmt.Errorf("failed to get products: %w", err)
	}

	total, err := s.productRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	s.logger.Debug().
		Int("count", len(products)).
		Int("page", req.Page).
		Int("size", req.Size).
		Msg("retrieved products")

	return model.NewPage(products, req, total), nil
}

// FindByID retrieves a single product, reading through the cache.
func (s *productService) FindByID(ctx context.Context, id int64) (*model.Product, error) {
	cached, err := s.cache.Get(ctx, id)
	if err != nil {
		s.logger.Warn().Err(err).Int64("product_id", id).Msg("product cache read failed")
	}
	if cached != nil {
		return cached, nil
	}

	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Int64("product_id", id).Msg("failed to get product by ID")
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	if product == nil {
		s.logger.Debug().Int64("product_id", id).Msg("product not found")
		return nil, model.ErrResourceNotFound
	}

	if err := s.cache.Set(ctx, product); err != nil {
		s.logger.Warn().Err(err).Int64("product_id", id).Msg("product cache write failed")
	}

	return product, nil
}

// Insert validates and stores a new product. A zero date defaults to now.
func (s *productService) Insert(ctx context.Context, p *model.Product) (*model.Product, error) {
	p.ID = 0
	if p.Date.IsZero() {
		p.Date = s.now()
	}

	if err := validateProduct(p); err != nil {
		return nil, err
	}

	if err := s.productRepo.Insert(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to insert product: %w", err)
	}

	s.logger.Info().Int64("product_id", p.ID).Str("name", p.Name).Msg("product created")
	s.publish(ctx, model.ProductCreated, p.ID, p)

	return p, nil
}

// Update validates and replaces the product with the given ID.
func (s *productService) Update(ctx context.Context, id int64, p *model.Product) (*model.Product, error) {
	p.ID = id

	if err := validateProduct(p); err != nil {
		return nil, err
	}

	if err := s.productRepo.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	s.evict(ctx, id)
	s.logger.Info().Int64("product_id", id).Msg("product updated")
	s.publish(ctx, model.ProductUpdated, id, p)

	return p, nil
}

// Delete removes a product.
func (s *productService) Delete(ctx context.Context, id int64) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	s.evict(ctx, id)
	s.logger.Info().Int64("product_id", id).Msg("product deleted")
	s.publish(ctx, model.ProductDeleted, id, nil)

	return nil
}

func (s *productService) evict(ctx context.Context, id int64) {
	if err := s.cache.Delete(ctx, id); err != nil {
		s.logger.Warn().Err(err).Int64("product_id", id).Msg("product cache eviction failed")
	}
}

// publish emits a change event. Failures are logged; the change is already committed.
func (s *productService) publish(ctx context.Context, eventType string, id int64, p *model.Product) {
	event := model.ProductEvent{
		Type:       eventType,
		ProductID:  id,
		OccurredAt: s.now(),
		Product:    p,
	}

	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error().Err(err).
			Str("type", eventType).
			Int64("product_id", id).
			Msg("failed to publish product event")
	}
}
