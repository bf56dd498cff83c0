package seed

import (
	"context"
	"fmt"
	"sync"
	"time"

	"dscatalog/internal/model"
	"dscatalog/internal/repository"

	"github.com/rs/zerolog"
)

// Seeder fills an empty catalogue from seed files.
type Seeder struct {
	loader     Loader
	products   repository.ProductRepository
	categories repository.CategoryRepository
	logger     zerolog.Logger
}

// NewSeeder creates a new catalogue seeder.
func NewSeeder(loader Loader, products repository.ProductRepository, categories repository.CategoryRepository, logger zerolog.Logger) *Seeder {
	return &Seeder{
		loader:     loader,
		products:   products,
		categories: categories,
		logger:     logger.With().Str("component", "seeder").Logger(),
	}
}

// LoadAll loads all files concurrently and returns their records in file order.
func (s *Seeder) LoadAll(ctx context.Context, paths []string) ([]Record, error) {
	type loadResult struct {
		index   int
		records []Record
		err     error
	}

	resultChan := make(chan loadResult, len(paths))
	var wg sync.WaitGroup

	for i, path := range paths {
		wg.Add(1)
		go func(index int, path string) {
			defer wg.Done()

			records, err := s.loader.Load(ctx, path)
			resultChan <- loadResult{
				index:   index,
				records: records,
				err:     err,
			}
		}(i, path)
	}

	wg.Wait()
	close(resultChan)

	results := make([]loadResult, len(paths))
	for result := range resultChan {
		results[result.index] = result
	}

	var all []Record
	for i, result := range results {
		if result.err != nil {
			return nil, fmt.Errorf("failed to load seed file %s: %w", paths[i], result.err)
		}
		all = append(all, result.records...)
	}

	return all, nil
}

// Run seeds the catalogue when it holds no products and reports how many
// products were inserted. A non-empty catalogue is left untouched.
func (s *Seeder) Run(ctx context.Context, paths []string) (int, error) {
	count, err := s.products.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	if count > 0 {
		s.logger.Info().Int64("products", count).Msg("catalogue not empty, skipping seed")
		return 0, nil
	}

	records, err := s.LoadAll(ctx, paths)
	if err != nil {
		return 0, err
	}

	categoryIDs, err := s.ensureCategories(ctx, records)
	if err != nil {
		return 0, err
	}

	for i, record := range records {
		product := &model.Product{
			Name:        record.Name,
			Description: record.Description,
			Price:       record.Price,
			ImgURL:      record.ImgURL,
			Date:        record.Date,
			Categories:  make([]model.Category, 0, len(record.Categories)),
		}
		if product.Date.IsZero() {
			product.Date = time.Now().UTC()
		}
		for _, name := range record.Categories {
			product.Categories = append(product.Categories, model.Category{ID: categoryIDs[name], Name: name})
		}

		if err := s.products.Insert(ctx, product); err != nil {
			return i, fmt.Errorf("failed to seed product %q: %w", record.Name, err)
		}
	}

	s.logger.Info().
		Int("products", len(records)).
		Int("categories", len(categoryIDs)).
		Msg("catalogue seeded")

	return len(records), nil
}

// ensureCategories creates missing categories in order of first appearance
// and returns the ID of every referenced category by name.
func (s *Seeder) ensureCategories(ctx context.Context, records []Record) (map[string]int64, error) {
	ids := make(map[string]int64)

	for _, record := range records {
		for _, name := range record.Categories {
			if _, ok := ids[name]; ok {
				continue
			}

			existing, err := s.categories.FindByName(ctx, name)
			if err != nil {
				return nil, fmt.Errorf("failed to look up category %q: %w", name, err)
			}
			if existing != nil {
				ids[name] = existing.ID
				continue
			}

			category := &model.Category{Name: name}
			if err := s.categories.Insert(ctx, category); err != nil {
				return nil, fmt.Errorf("failed to seed category %q: %w", name, err)
			}
			ids[name] = category.ID
		}
	}

	return ids, nil
}
