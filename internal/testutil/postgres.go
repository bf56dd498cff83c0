// Package testutil holds helpers shared by integration tests.
package testutil

import (
	"context"
	"testing"
	"time"

	"dscatalog/internal/config"
	"dscatalog/internal/database"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB represents a migrated test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB starts a PostgreSQL container, applies the migrations and
// returns a connection pool. The container is terminated on test cleanup.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	t.Cleanup(func() {
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	logger := zerolog.Nop()

	if err := database.Migrate(connStr, logger); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	dbConfig := config.DatabaseConfig{
		MaxConnections:  10,
		MinConnections:  2,
		MaxConnLifetime: 300,
	}

	pool, err := database.NewPoolFromConnString(ctx, connStr, dbConfig, logger)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}
	t.Cleanup(pool.Close)

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// CleanupDB removes all rows and resets the identity sequences.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	_, err := pool.Exec(context.Background(),
		"TRUNCATE product_categories, products, categories RESTART IDENTITY CASCADE")
	if err != nil {
		t.Fatalf("failed to clean tables: %v", err)
	}
}

// SeedCatalog inserts three categories and five products. Product IDs are 1..5
// and category IDs 1..3 on a clean database.
func SeedCatalog(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	for _, name := range []string{"Livros", "Eletrônicos", "Computadores"} {
		if _, err := pool.Exec(ctx, "INSERT INTO categories (name) VALUES ($1)", name); err != nil {
			t.Fatalf("failed to seed category %s: %v", name, err)
		}
	}

	date := time.Date(2020, 7, 14, 10, 0, 0, 0, time.UTC)
	products := []struct {
		name       string
		price      float64
		categories []int64
	}{
		{"The Lord of the Rings", 90.5, []int64{1}},
		{"Smart TV", 2190.0, []int64{1, 3}},
		{"Macbook Pro", 1250.0, []int64{3}},
		{"PC Gamer", 1200.0, []int64{3}},
		{"Rails for Dummies", 100.99, []int64{1}},
	}

	for i, p := range products {
		var id int64
		err := pool.QueryRow(ctx, `
			INSERT INTO products (name, description, price, img_url, date)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id`,
			p.name, "Lorem ipsum dolor sit amet", p.price,
			"https://example.com/img/"+p.name+".jpg", date.AddDate(0, 0, i),
		).Scan(&id)
		if err != nil {
			t.Fatalf("failed to seed product %s: %v", p.name, err)
		}

		for pos, categoryID := range p.categories {
			_, err := pool.Exec(ctx,
				"INSERT INTO product_categories (product_id, category_id, position) VALUES ($1, $2, $3)",
				id, categoryID, pos)
			if err != nil {
				t.Fatalf("failed to link product %s: %v", p.name, err)
			}
		}
	}
}
