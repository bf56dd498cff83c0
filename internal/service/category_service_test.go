package service

import (
	"context"
	"errors"
	"testing"

	"dscatalog/internal/cache"
	"dscatalog/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCategoryRepository is a mock implementation of CategoryRepository.
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

func TestCategoryService_FindAllPaged(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockCategoryRepository)
	svc := NewCategoryService(mockRepo, cache.NewNopProductCache(), zerolog.Nop())

	categories := []model.Category{{ID: 1, Name: "Livros"}, {ID: 2, Name: "Eletrônicos"}, {ID: 3, Name: "Computadores"}}
	mockRepo.On("FindAll", ctx, model.PageRequest{Page: 0, Size: 12}).Return(categories, nil)
	mockRepo.On("Count", ctx).Return(int64(3), nil)

	page, err := svc.FindAllPaged(ctx, model.PageRequest{Page: -1, Size: 0})

	require.NoError(t, err)
	assert.Len(t, page.Content, 3)
	assert.Equal(t, 1, page.TotalPages)
	assert.True(t, page.Last)
	mockRepo.AssertExpectations(t)
}

func TestCategoryService_FindByID(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		mockReturn  *model.Category
		mockError   error
		expectError error
	}{
		{
			name:       "Found",
			mockReturn: &model.Category{ID: 1, Name: "Livros"},
		},
		{
			name:        "Not found",
			expectError: model.ErrResourceNotFound,
		},
		{
			name:        "Repository error",
			mockError:   errors.New("database error"),
			expectError: errors.New("database error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockCategoryRepository)
			svc := NewCategoryService(mockRepo, cache.NewNopProductCache(), zerolog.Nop())

			if tt.mockReturn != nil {
				mockRepo.On("FindByID", ctx, int64(1)).Return(tt.mockReturn, nil)
			} else {
				mockRepo.On("FindByID", ctx, int64(1)).Return(nil, tt.mockError)
			}

			category, err := svc.FindByID(ctx, 1)

			if tt.expectError != nil {
				require.Error(t, err)
				assert.Nil(t, category)
				if tt.mockError == nil {
					assert.ErrorIs(t, err, model.ErrResourceNotFound)
				}
			} else {
				require.NoError(t, err)
				assert.Equal(t, "Livros", category.Name)
			}
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestCategoryService_Insert(t *testing.T) {
	ctx := context.Background()

	t.Run("Trims the name", func(t *testing.T) {
		mockRepo := new(MockCategoryRepository)
		mockRepo.On("Insert", ctx, mock.MatchedBy(func(c *model.Category) bool {
			return c.Name == "Games"
		})).Return(nil)

		svc := NewCategoryService(mockRepo, cache.NewNopProductCache(), zerolog.Nop())

		category, err := svc.Insert(ctx, &model.Category{ID: 99, Name: "  Games "})

		require.NoError(t, err)
		assert.Equal(t, "Games", category.Name)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Blank name", func(t *testing.T) {
		mockRepo := new(MockCategoryRepository)
		svc := NewCategoryService(mockRepo, cache.NewNopProductCache(), zerolog.Nop())

		_, err := svc.Insert(ctx, &model.Category{Name: ""})

		assert.ErrorIs(t, err, model.ErrValidation)
		mockRepo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	})

	t.Run("Duplicate name", func(t *testing.T) {
		mockRepo := new(MockCategoryRepository)
		mockRepo.On("Insert", ctx, mock.Anything).Return(model.NewValidationError("name", "category name already exists"))
		svc := NewCategoryService(mockRepo, cache.NewNopProductCache(), zerolog.Nop())

		_, err := svc.Insert(ctx, &model.Category{Name: "Livros"})

		assert.ErrorIs(t, err, model.ErrValidation)
	})
}

func TestCategoryService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("Rename evicts cached products of the category", func(t *testing.T) {
		mockRepo := new(MockCategoryRepository)
		mockCache := new(MockProductCache)
		svc := NewCategoryService(mockRepo, mockCache, zerolog.Nop())

		mockRepo.On("Update", ctx, mock.MatchedBy(func(c *model.Category) bool { return c.ID == 3 })).Return(nil)
		mockRepo.On("ProductIDs", ctx, int64(3)).Return([]int64{2, 3, 4}, nil)
		mockCache.On("Delete", ctx, []int64{2, 3, 4}).Return(nil)

		category, err := svc.Update(ctx, 3, &model.Category{Name: " Informática "})

		require.NoError(t, err)
		assert.Equal(t, int64(3), category.ID)
		assert.Equal(t, "Informática", category.Name)
		mockRepo.AssertExpectations(t)
		mockCache.AssertExpectations(t)
	})

	t.Run("Category without products skips the cache", func(t *testing.T) {
		mockRepo := new(MockCategoryRepository)
		mockCache := new(MockProductCache)
		svc := NewCategoryService(mockRepo, mockCache, zerolog.Nop())

		mockRepo.On("Update", ctx, mock.Anything).Return(nil)
		mockRepo.On("ProductIDs", ctx, int64(2)).Return([]int64{}, nil)

		_, err := svc.Update(ctx, 2, &model.Category{Name: "Eletrodomésticos"})

		require.NoError(t, err)
		mockCache.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("Eviction failures do not fail the rename", func(t *testing.T) {
		mockRepo := new(MockCategoryRepository)
		mockCache := new(MockProductCache)
		svc := NewCategoryService(mockRepo, mockCache, zerolog.Nop())

		mockRepo.On("Update", ctx, mock.Anything).Return(nil)
		mockRepo.On("ProductIDs", ctx, int64(1)).Return([]int64{1, 2}, nil)
		mockCache.On("Delete", ctx, []int64{1, 2}).Return(errors.New("redis down"))

		_, err := svc.Update(ctx, 1, &model.Category{Name: "Books"})

		require.NoError(t, err)
		mockCache.AssertExpectations(t)
	})

	t.Run("Lookup failure is logged only", func(t *testing.T) {
		mockRepo := new(MockCategoryRepository)
		mockCache := new(MockProductCache)
		svc := NewCategoryService(mockRepo, mockCache, zerolog.Nop())

		mockRepo.On("Update", ctx, mock.Anything).Return(nil)
		mockRepo.On("ProductIDs", ctx, int64(1)).Return(nil, errors.New("database error"))

		_, err := svc.Update(ctx, 1, &model.Category{Name: "Books"})

		require.NoError(t, err)
		mockCache.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("Missing category", func(t *testing.T) {
		mockRepo := new(MockCategoryRepository)
		mockCache := new(MockProductCache)
		svc := NewCategoryService(mockRepo, mockCache, zerolog.Nop())

		mockRepo.On("Update", ctx, mock.Anything).Return(model.ErrResourceNotFound)

		_, err := svc.Update(ctx, 1000, &model.Category{Name: "Nothing"})

		assert.ErrorIs(t, err, model.ErrResourceNotFound)
		mockRepo.AssertNotCalled(t, "ProductIDs", mock.Anything, mock.Anything)
		mockCache.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}

func TestCategoryService_Delete(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockCategoryRepository)
	svc := NewCategoryService(mockRepo, cache.NewNopProductCache(), zerolog.Nop())

	mockRepo.On("Delete", ctx, int64(1)).Return(model.ErrIntegrityViolation)
	mockRepo.On("Delete", ctx, int64(2)).Return(nil)

	assert.ErrorIs(t, svc.Delete(ctx, 1), model.ErrIntegrityViolation)
	assert.NoError(t, svc.Delete(ctx, 2))
	mockRepo.AssertExpectations(t)
}
