package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"dscatalog/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgreSQL error codes translated into domain errors.
const (
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
)

// withTx runs fn inside a transaction, committing on success.
func withTx(ctx context.Context, pool *pgxpool.Pool, fn func(tx pgx.Tx) error) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// pgErrorCode returns the SQLSTATE of a PostgreSQL error, or "".
func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// orderClause builds an ORDER BY clause from sort orders. Properties are mapped
// through columns so only whitelisted column names reach the query.
func orderClause(sort []model.SortOrder, columns map[string]string, fallback string) (string, error) {
	if len(sort) == 0 {
		return "ORDER BY " + fallback, nil
	}

	parts := make([]string, 0, len(sort)+1)
	for _, s := range sort {
		column, ok := columns[s.Property]
		if !ok {
			return "", model.NewValidationError("sort", fmt.Sprintf("cannot sort by %s", s.Property))
		}
		direction := "ASC"
		if s.Direction == model.SortDesc {
			direction = "DESC"
		}
		parts = append(parts, column+" "+direction)
	}
	// Stable pagination when the requested property has duplicates.
	parts = append(parts, fallback)

	return "ORDER BY " + strings.Join(parts, ", "), nil
}
