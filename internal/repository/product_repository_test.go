package repository

import (
	"context"
	"testing"
	"time"

	"dscatalog/internal/model"
	"dscatalog/internal/testutil"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductRepository_FindAll(t *testing.T) {
	testDB := testutil.SetupTestDB(t)
	testutil.SeedCatalog(t, testDB.Pool)

	repo := NewProductRepository(testDB.Pool, zerolog.Nop())

	tests := []struct {
		name          string
		req           model.PageRequest
		expectedNames []string
		expectError   bool
	}{
		{
			name:          "Default order is by id",
			req:           model.PageRequest{Page: 0, Size: 10},
			expectedNames: []string{"The Lord of the Rings", "Smart TV", "Macbook Pro", "PC Gamer", "Rails for Dummies"},
		},
		{
			name: "Sorted by name",
			req: model.PageRequest{Page: 0, Size: 3, Sort: []model.SortOrder{
				{Property: "name", Direction: model.SortAsc},
			}},
			expectedNames: []string{"Macbook Pro", "PC Gamer", "Rails for Dummies"},
		},
		{
			name: "Second page sorted by price descending",
			req: model.PageRequest{Page: 1, Size: 2, Sort: []model.SortOrder{
				{Property: "price", Direction: model.SortDesc},
			}},
			expectedNames: []string{"PC Gamer", "Rails for Dummies"},
		},
		{
			name:          "Page beyond results",
			req:           model.PageRequest{Page: 50, Size: 10},
			expectedNames: []string{},
		},
		{
			name: "Unknown sort property",
			req: model.PageRequest{Page: 0, Size: 10, Sort: []model.SortOrder{
				{Property: "secret", Direction: model.SortAsc},
			}},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			products, err := repo.FindAll(context.Background(), tt.req)

			if tt.expectError {
				require.Error(t, err)
				assert.ErrorIs(t, err, model.ErrValidation)
				return
			}

			require.NoError(t, err)
			names := make([]string, 0, len(products))
			for _, p := range products {
				names = append(names, p.Name)
			}
			assert.Equal(t, tt.expectedNames, names)
		})
	}

	t.Run("Categories are attached in order", func(t *testing.T) {
		products, err := repo.FindAll(context.Background(), model.PageRequest{Page: 0, Size: 10})
		require.NoError(t, err)
		require.Len(t, products, 5)

		smartTV := products[1]
		require.Len(t, smartTV.Categories, 2)
		assert.Equal(t, model.Category{ID: 1, Name: "Livros"}, smartTV.Categories[0])
		assert.Equal(t, model.Category{ID: 3, Name: "Computadores"}, smartTV.Categories[1])
	})
}

func TestProductRepository_Count(t *testing.T) {
	testDB := testutil.SetupTestDB(t)
	repo := NewProductRepository(testDB.Pool, zerolog.Nop())
	ctx := context.Background()

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	testutil.SeedCatalog(t, testDB.Pool)

	count, err = repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(5), count)
}

func TestProductRepository_FindByID(t *testing.T) {
	testDB := testutil.SetupTestDB(t)
	testutil.SeedCatalog(t, testDB.Pool)

	repo := NewProductRepository(testDB.Pool, zerolog.Nop())

	tests := []struct {
		name         string
		id           int64
		expectNil    bool
		expectedName string
	}{
		{
			name:         "Product exists",
			id:           2,
			expectNil:    false,
			expectedName: "Smart TV",
		},
		{
			name:      "Product does not exist",
			id:        1000,
			expectNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			product, err := repo.FindByID(context.Background(), tt.id)

			require.NoError(t, err)

			if tt.expectNil {
				assert.Nil(t, product)
				return
			}

			require.NotNil(t, product)
			assert.Equal(t, tt.id, product.ID)
			assert.Equal(t, tt.expectedName, product.Name)
			assert.Equal(t, 2190.0, product.Price)
			assert.Equal(t, []int64{1, 3}, product.CategoryIDs())
		})
	}
}

func TestProductRepository_Insert(t *testing.T) {
	testDB := testutil.SetupTestDB(t)
	testutil.SeedCatalog(t, testDB.Pool)

	repo := NewProductRepository(testDB.Pool, zerolog.Nop())
	ctx := context.Background()

	t.Run("Persists with autoincrement id", func(t *testing.T) {
		product := &model.Product{
			Name:        "Phone X",
			Description: "Good phone",
			Price:       800.0,
			ImgURL:      "https://example.com/phone.jpg",
			Date:        time.Date(2020, 10, 20, 3, 0, 0, 0, time.UTC),
			Categories:  []model.Category{{ID: 2}},
		}

		err := repo.Insert(ctx, product)
		require.NoError(t, err)

		assert.Equal(t, int64(6), product.ID)
		require.Len(t, product.Categories, 1)
		assert.Equal(t, "Eletrônicos", product.Categories[0].Name)

		stored, err := repo.FindByID(ctx, product.ID)
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, "Phone X", stored.Name)
		assert.True(t, product.Date.Equal(stored.Date))
	})

	t.Run("Unknown category rolls back", func(t *testing.T) {
		before, err := repo.Count(ctx)
		require.NoError(t, err)

		product := &model.Product{
			Name:        "Ghost",
			Description: "Nope",
			Price:       1.0,
			ImgURL:      "https://example.com/ghost.jpg",
			Date:        time.Now(),
			Categories:  []model.Category{{ID: 99}},
		}

		err = repo.Insert(ctx, product)
		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrResourceNotFound)

		after, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})
}

func TestProductRepository_Update(t *testing.T) {
	testDB := testutil.SetupTestDB(t)
	testutil.SeedCatalog(t, testDB.Pool)

	repo := NewProductRepository(testDB.Pool, zerolog.Nop())
	ctx := context.Background()

	t.Run("Replaces fields and categories", func(t *testing.T) {
		product := &model.Product{
			ID:          1,
			Name:        "The Lord of the Rings - Deluxe",
			Description: "Updated",
			Price:       120.0,
			ImgURL:      "https://example.com/lotr.jpg",
			Date:        time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC),
			Categories:  []model.Category{{ID: 3}, {ID: 1}},
		}

		require.NoError(t, repo.Update(ctx, product))

		stored, err := repo.FindByID(ctx, 1)
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, "The Lord of the Rings - Deluxe", stored.Name)
		assert.Equal(t, 120.0, stored.Price)
		assert.Equal(t, []int64{3, 1}, stored.CategoryIDs())
	})

	t.Run("Missing product", func(t *testing.T) {
		err := repo.Update(ctx, &model.Product{ID: 1000, Name: "Nobody", Date: time.Now()})

		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrResourceNotFound)
	})
}

func TestProductRepository_Delete(t *testing.T) {
	testDB := testutil.SetupTestDB(t)
	testutil.SeedCatalog(t, testDB.Pool)

	repo := NewProductRepository(testDB.Pool, zerolog.Nop())
	ctx := context.Background()

	require.NoError(t, repo.Delete(ctx, 1))

	product, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, product)

	err = repo.Delete(ctx, 1000)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrResourceNotFound)
}

func TestProductRepository_ErrorPaths(t *testing.T) {
	testDB := testutil.SetupTestDB(t)
	repo := NewProductRepository(testDB.Pool, zerolog.Nop())

	// Close the pool to simulate database errors
	testDB.Pool.Close()

	ctx := context.Background()

	t.Run("FindAll with closed pool", func(t *testing.T) {
		products, err := repo.FindAll(ctx, model.PageRequest{Page: 0, Size: 10})

		require.Error(t, err)
		assert.Nil(t, products)
	})

	t.Run("FindByID with closed pool", func(t *testing.T) {
		product, err := repo.FindByID(ctx, 1)

		require.Error(t, err)
		assert.Nil(t, product)
	})

	t.Run("Count with closed pool", func(t *testing.T) {
		_, err := repo.Count(ctx)

		require.Error(t, err)
	})

	t.Run("Delete with closed pool", func(t *testing.T) {
		err := repo.Delete(ctx, 1)

		require.Error(t, err)
		assert.NotErrorIs(t, err, model.ErrResourceNotFound)
	})
}
