package repository

import (
	"context"
	"errors"
	"time"

	"github.com/dmarto21/finanzas-tracker/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]models.Category, error)
	GetByType(ctx context.Context, userID uuid.UUID, categoryType models.CategoryType) ([]models.Category, error)
	GetSystemByName(ctx context.Context, name string) (*models.Category, error)
	Update(ctx context.Context, id uuid.UUID, update *models.CategoryUpdate) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type categoryRepository struct {
	pool *pgxpool.Pool
}

func NewCategoryRepository(pool *pgxpool.Pool) CategoryRepository {
	return &categoryRepository{pool: pool}
}

func (r *categoryRepository) db(ctx context.Context) DBTX {
	return GetTxOrPool(ctx, r.pool)
}

func (r *categoryRepository) Create(ctx context.Context, category *models.Category) error {
	query := `
		INSERT INTO categories (id, user_id, name, type, icon, color, is_system, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}
	now := time.Now()
	category.CreatedAt = now
	category.UpdatedAt = now

	_, err := r.db(ctx).Exec(ctx, query,
		category.ID, category.UserID, category.Name, category.Type,
		category.Icon, category.Color, category.IsSystem,
		category.CreatedAt, category.UpdatedAt,
	)
	return err
}

func (r *categoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	query := `
		SELECT id, user_id, name, type, icon, color, is_system, created_at, updated_at
		FROM categories
		WHERE id = $1
	`

	var category models.Category
	err := r.db(ctx).QueryRow(ctx, query, id).Scan(
		&category.ID, &category.UserID, &category.Name, &category.Type,
		&category.Icon, &category.Color, &category.IsSystem,
		&category.CreatedAt, &category.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]models.Category, error) {
	query := `
		SELECT id, user_id, name, type, icon, color, is_system, created_at, updated_at
		FROM categories
		WHERE (user_id = $1 OR is_system = true)
		ORDER BY name
	`
	return r.queryCategories(ctx, query, userID)
}

func (r *categoryRepository) GetByType(ctx context.Context, userID uuid.UUID, categoryType models.CategoryType) ([]models.Category, error) {
	query := `
		SELECT id, user_id, name, type, icon, color, is_system, created_at, updated_at
		FROM categories
		WHERE (user_id = $1 OR is_system = true) AND type = $2
		ORDER BY name
	`
	return r.queryCategories(ctx, query, userID, categoryType)
}

func (r *categoryRepository) GetSystemByName(ctx context.Context, name string) (*models.Category, error) {
	query := `
		SELECT id, user_id, name, type, icon, color, is_system, created_at, updated_at
		FROM categories
		WHERE is_system = true AND name = $1
	`

	var category models.Category
	err := r.db(ctx).QueryRow(ctx, query, name).Scan(
		&category.ID, &category.UserID, &category.Name, &category.Type,
		&category.Icon, &category.Color, &category.IsSystem,
		&category.CreatedAt, &category.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) queryCategories(ctx context.Context, query string, args ...interface{}) ([]models.Category, error) {
	rows, err := r.db(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var category models.Category
		err := rows.Scan(
			&category.ID, &category.UserID, &category.Name, &category.Type,
			&category.Icon, &category.Color, &category.IsSystem,
			&category.CreatedAt, &category.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

func (r *categoryRepository) Update(ctx context.Context, id uuid.UUID, update *models.CategoryUpdate) error {
	query := `
		UPDATE categories SET
			name = COALESCE($2, name),
			icon = COALESCE($3, icon),
			color = COALESCE($4, color),
			updated_at = $5
		WHERE id = $1 AND is_system = false
	`

	_, err := r.db(ctx).Exec(ctx, query, id, update.Name, update.Icon, update.Color, time.Now())
	return err
}

func (r *categoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM categories WHERE id = $1 AND is_system = false`
	_, err := r.db(ctx).Exec(ctx, query, id)
	return err
}
