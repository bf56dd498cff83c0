package seed

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"dscatalog/internal/model"
	"dscatalog/internal/repository"
	"dscatalog/internal/testutil"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockProductRepository is a mock implementation of repository.ProductRepository.
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindAll(ctx context.Context, req model.PageRequest) ([]model.Product, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockProductRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) FindByID(ctx context.Context, id int64) (*model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductRepository) Insert(ctx context.Context, p *model.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProductRepository) Update(ctx context.Context, p *model.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockCategoryRepository is a mock implementation of repository.CategoryRepository.
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) FindAll(ctx context.Context, req model.PageRequest) ([]model.Category, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Category), args.Error(1)
}

func (m *MockCategoryRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCategoryRepository) FindByID(ctx context.Context, id int64) (*model.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindByName(ctx context.Context, name string) (*model.Category, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Category), args.Error(1)
}

func (m *MockCategoryRepository) Insert(ctx context.Context, c *model.Category) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCategoryRepository) Update(ctx context.Context, c *model.Category) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCategoryRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCategoryRepository) ProductIDs(ctx context.Context, categoryID int64) ([]int64, error) {
	args := m.Called(ctx, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func TestSeeder_LoadAll_KeepsFileOrder(t *testing.T) {
	loader := &mockLoader{loadFunc: func(ctx context.Context, path string) ([]Record, error) {
		// The first file finishes last.
		if path == "a.jsonl" {
			time.Sleep(20 * time.Millisecond)
		}
		return []Record{{Name: path + "-1"}, {Name: path + "-2"}}, nil
	}}

	seeder := NewSeeder(loader, nil, nil, zerolog.Nop())

	records, err := seeder.LoadAll(context.Background(), []string{"a.jsonl", "b.jsonl"})
	require.NoError(t, err)

	names := make([]string, 0, len(records))
	for _, r := range records {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"a.jsonl-1", "a.jsonl-2", "b.jsonl-1", "b.jsonl-2"}, names)
}

func TestSeeder_LoadAll_LoadsConcurrently(t *testing.T) {
	var inFlight, maxInFlight int32
	loader := &mockLoader{loadFunc: func(ctx context.Context, path string) ([]Record, error) {
		n := atomic.AddInt32(&inFlight, 1)
		for {
			current := atomic.LoadInt32(&maxInFlight)
			if n <= current || atomic.CompareAndSwapInt32(&maxInFlight, current, n) {
				break
			}
		}
		time.Sleep(50 * time.Millisecond)
		atomic.AddInt32(&inFlight, -1)
		return []Record{}, nil
	}}

	seeder := NewSeeder(loader, nil, nil, zerolog.Nop())

	_, err := seeder.LoadAll(context.Background(), []string{"a", "b", "c"})
	require.NoError(t, err)
	assert.Greater(t, atomic.LoadInt32(&maxInFlight), int32(1))
}

func TestSeeder_LoadAll_Error(t *testing.T) {
	loader := &mockLoader{loadFunc: func(ctx context.Context, path string) ([]Record, error) {
		if path == "bad.jsonl" {
			return nil, errors.New("boom")
		}
		return []Record{{Name: "ok"}}, nil
	}}

	seeder := NewSeeder(loader, nil, nil, zerolog.Nop())

	records, err := seeder.LoadAll(context.Background(), []string{"good.jsonl", "bad.jsonl"})
	require.Error(t, err)
	assert.Nil(t, records)
	assert.Contains(t, err.Error(), "bad.jsonl")
}

func TestSeeder_Run(t *testing.T) {
	records := []Record{
		{Name: "The Lord of the Rings", Price: 90.5, Categories: []string{"Livros"}, Date: time.Date(2020, 7, 13, 20, 50, 7, 0, time.UTC)},
		{Name: "Smart TV", Price: 2190.0, Categories: []string{"Eletrônicos", "Computadores"}},
	}
	loader := &mockLoader{loadFunc: func(ctx context.Context, path string) ([]Record, error) {
		return records, nil
	}}

	tests := []struct {
		name          string
		setupMocks    func(p *MockProductRepository, c *MockCategoryRepository)
		expectedCount int
		expectError   bool
	}{
		{
			name: "Seeds empty catalogue",
			setupMocks: func(p *MockProductRepository, c *MockCategoryRepository) {
				p.On("Count", mock.Anything).Return(int64(0), nil)

				c.On("FindByName", mock.Anything, "Livros").Return(&model.Category{ID: 1, Name: "Livros"}, nil)
				c.On("FindByName", mock.Anything, mock.Anything).Return(nil, nil)
				nextID := int64(2)
				c.On("Insert", mock.Anything, mock.AnythingOfType("*model.Category")).
					Run(func(args mock.Arguments) {
						args.Get(1).(*model.Category).ID = nextID
						nextID++
					}).Return(nil)

				p.On("Insert", mock.Anything, mock.MatchedBy(func(prod *model.Product) bool {
					return prod.Name == "The Lord of the Rings" &&
						assert.ObjectsAreEqual([]int64{1}, prod.CategoryIDs())
				})).Return(nil).Once()
				p.On("Insert", mock.Anything, mock.MatchedBy(func(prod *model.Product) bool {
					return prod.Name == "Smart TV" &&
						!prod.Date.IsZero() &&
						assert.ObjectsAreEqual([]int64{2, 3}, prod.CategoryIDs())
				})).Return(nil).Once()
			},
			expectedCount: 2,
		},
		{
			name: "Non-empty catalogue is left alone",
			setupMocks: func(p *MockProductRepository, c *MockCategoryRepository) {
				p.On("Count", mock.Anything).Return(int64(25), nil)
			},
			expectedCount: 0,
		},
		{
			name: "Count failure",
			setupMocks: func(p *MockProductRepository, c *MockCategoryRepository) {
				p.On("Count", mock.Anything).Return(int64(0), errors.New("db down"))
			},
			expectError: true,
		},
		{
			name: "Category insert failure",
			setupMocks: func(p *MockProductRepository, c *MockCategoryRepository) {
				p.On("Count", mock.Anything).Return(int64(0), nil)
				c.On("FindByName", mock.Anything, "Livros").Return(nil, nil)
				c.On("Insert", mock.Anything, mock.Anything).Return(errors.New("db down"))
			},
			expectError: true,
		},
		{
			name: "Product insert failure",
			setupMocks: func(p *MockProductRepository, c *MockCategoryRepository) {
				p.On("Count", mock.Anything).Return(int64(0), nil)
				c.On("FindByName", mock.Anything, mock.Anything).Return(&model.Category{ID: 1}, nil)
				p.On("Insert", mock.Anything, mock.Anything).Return(errors.New("db down"))
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			products := new(MockProductRepository)
			categories := new(MockCategoryRepository)
			tt.setupMocks(products, categories)

			seeder := NewSeeder(loader, products, categories, zerolog.Nop())

			count, err := seeder.Run(context.Background(), []string{"catalog.jsonl"})

			if tt.expectError {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expectedCount, count)
			}
			products.AssertExpectations(t)
			categories.AssertExpectations(t)
		})
	}
}

func TestSeeder_Run_Integration(t *testing.T) {
	testDB := testutil.SetupTestDB(t)
	logger := zerolog.Nop()

	products := repository.NewProductRepository(testDB.Pool, logger)
	categories := repository.NewCategoryRepository(testDB.Pool, logger)
	seeder := NewSeeder(NewFileLoader(logger), products, categories, logger)
	ctx := context.Background()
	paths := []string{"../../data/seed/catalog.jsonl"}

	count, err := seeder.Run(ctx, paths)
	require.NoError(t, err)
	assert.Equal(t, 25, count)

	total, err := products.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(25), total)

	first, err := products.FindByID(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, "The Lord of the Rings", first.Name)

	livros, err := categories.FindByID(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, livros)
	assert.Equal(t, "Livros", livros.Name)

	page, err := products.FindAll(ctx, model.PageRequest{Page: 0, Size: 3, Sort: []model.SortOrder{
		{Property: "name", Direction: model.SortAsc},
	}})
	require.NoError(t, err)
	require.Len(t, page, 3)
	assert.Equal(t, "Macbook Pro", page[0].Name)
	assert.Equal(t, "PC Gamer", page[1].Name)
	assert.Equal(t, "PC Gamer Alfa", page[2].Name)

	// Second run is a no-op.
	count, err = seeder.Run(ctx, paths)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}
