package repository

import (
	"context"
	"errors"
	"fmt"

	"web3dir/catalog-service/internal/app/catalog/entity"
	"web3dir/pkg/metrics"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type curatedListRepository struct {
	db Querier
}

// NewCuratedListRepository создает репозиторий редакционных подборок
func NewCuratedListRepository(db Querier) CuratedListRepository {
	return &curatedListRepository{db: db}
}

// GetAll возвращает подборки: закрепленные первыми, затем новые
func (r *curatedListRepository) GetAll(ctx context.Context) ([]entity.CuratedList, error) {
	defer metrics.NewDbTimer(serviceName, metrics.DbOpSelect, "curated_lists").ObserveDuration()

	query := `
		SELECT id, title, description, cover_image, is_pinned, created_at
		FROM curated_lists
		ORDER BY is_pinned DESC, created_at DESC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpSelect)
		return nil, fmt.Errorf("failed to get curated lists: %w", err)
	}
	defer rows.Close()

	lists := make([]entity.CuratedList, 0)
	for rows.Next() {
		var list entity.CuratedList
		if err := rows.Scan(
			&list.ID,
			&list.Title,
			&list.Description,
			&list.CoverImage,
			&list.IsPinned,
			&list.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan curated list: %w", err)
		}
		lists = append(lists, list)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating curated lists: %w", err)
	}

	return lists, nil
}

// GetByID получает подборку по ID
func (r *curatedListRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.CuratedList, error) {
	defer metrics.NewDbTimer(serviceName, metrics.DbOpSelect, "curated_lists").ObserveDuration()

	query := `
		SELECT id, title, description, cover_image, is_pinned, created_at
		FROM curated_lists
		WHERE id = $1
	`

	var list entity.CuratedList
	err := r.db.QueryRow(ctx, query, id).Scan(
		&list.ID,
		&list.Title,
		&list.Description,
		&list.CoverImage,
		&list.IsPinned,
		&list.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCuratedListNotFound
		}
		metrics.RecordDbError(serviceName, metrics.DbOpSelect)
		return nil, fmt.Errorf("failed to get curated list by id: %w", err)
	}

	return &list, nil
}

// GetProductIDs возвращает ID товаров подборки, упорядоченные по position
func (r *curatedListRepository) GetProductIDs(ctx context.Context, listID uuid.UUID) ([]uuid.UUID, error) {
	defer metrics.NewDbTimer(serviceName, metrics.DbOpSelect, "curated_list_products").ObserveDuration()

	query := `
		SELECT product_id
		FROM curated_list_products
		WHERE list_id = $1
		ORDER BY position ASC
	`

	rows, err := r.db.Query(ctx, query, listID)
	if err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpSelect)
		return nil, fmt.Errorf("failed to get curated list products: %w", err)
	}
	defer rows.Close()

	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan curated list product: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating curated list products: %w", err)
	}

	return ids, nil
}
