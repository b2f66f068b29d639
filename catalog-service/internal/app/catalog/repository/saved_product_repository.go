package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"web3dir/pkg/metrics"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier - подмножество pgxpool.Pool, которое используют pgx репозитории
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type savedProductRepository struct {
	db Querier
}

// NewSavedProductRepository создает репозиторий сохраненных товаров
func NewSavedProductRepository(db Querier) SavedProductRepository {
	return &savedProductRepository{db: db}
}

// ListIDs возвращает ID сохраненных товаров пользователя, последние сохраненные первыми
func (r *savedProductRepository) ListIDs(ctx context.Context, userID string) ([]uuid.UUID, error) {
	defer metrics.NewDbTimer(serviceName, metrics.DbOpSelect, "saved_products").ObserveDuration()

	query := `SELECT product_id FROM saved_products WHERE user_id = $1 ORDER BY created_at DESC, product_id`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpSelect)
		return nil, fmt.Errorf("failed to get saved products: %w", err)
	}
	defer rows.Close()

	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan saved product: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating saved products: %w", err)
	}

	return ids, nil
}

// Add сохраняет товар для пользователя. Повторное сохранение ничего не меняет
func (r *savedProductRepository) Add(ctx context.Context, userID string, productID uuid.UUID) error {
	defer metrics.NewDbTimer(serviceName, metrics.DbOpInsert, "saved_products").ObserveDuration()

	query := `
		INSERT INTO saved_products (user_id, product_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, product_id) DO NOTHING
	`

	if _, err := r.db.Exec(ctx, query, userID, productID, time.Now()); err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpInsert)
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" { // foreign_key_violation
			return ErrUnknownProduct
		}
		return fmt.Errorf("failed to save product: %w", err)
	}

	return nil
}

// Remove убирает товар из сохраненных. Отсутствие записи не ошибка
func (r *savedProductRepository) Remove(ctx context.Context, userID string, productID uuid.UUID) error {
	defer metrics.NewDbTimer(serviceName, metrics.DbOpDelete, "saved_products").ObserveDuration()

	query := `DELETE FROM saved_products WHERE user_id = $1 AND product_id = $2`

	if _, err := r.db.Exec(ctx, query, userID, productID); err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpDelete)
		return fmt.Errorf("failed to unsave product: %w", err)
	}

	return nil
}
