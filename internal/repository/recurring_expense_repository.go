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

type RecurringExpenseRepository interface {
	Create(ctx context.Context, expense *models.RecurringExpense) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.RecurringExpense, error)
	GetByName(ctx context.Context, userID uuid.UUID, name string) (*models.RecurringExpense, error)
	GetByUserID(ctx context.Context, userID uuid.UUID, activeOnly bool) ([]models.RecurringExpense, error)
	Update(ctx context.Context, id uuid.UUID, update *models.RecurringExpenseUpdate) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type recurringExpenseRepository struct {
	pool *pgxpool.Pool
}

func NewRecurringExpenseRepository(pool *pgxpool.Pool) RecurringExpenseRepository {
	return &recurringExpenseRepository{pool: pool}
}

func (r *recurringExpenseRepository) db(ctx context.Context) DBTX {
	return GetTxOrPool(ctx, r.pool)
}

func (r *recurringExpenseRepository) Create(ctx context.Context, expense *models.RecurringExpense) error {
	query := `
		INSERT INTO recurring_expenses (id, user_id, name, fixed_amount, is_active, is_auto_debit, instrument_id, category_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	if expense.ID == uuid.Nil {
		expense.ID = uuid.New()
	}
	now := time.Now()
	expense.CreatedAt = now
	expense.UpdatedAt = now
	expense.IsActive = true

	_, err := r.db(ctx).Exec(ctx, query,
		expense.ID, expense.UserID, expense.Name, expense.FixedAmount,
		expense.IsActive, expense.IsAutoDebit, expense.InstrumentID, expense.CategoryID,
		expense.CreatedAt, expense.UpdatedAt,
	)
	return err
}

func (r *recurringExpenseRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.RecurringExpense, error) {
	query := `
		SELECT id, user_id, name, fixed_amount, is_active, is_auto_debit, instrument_id, category_id, created_at, updated_at
		FROM recurring_expenses
		WHERE id = $1 AND deleted_at IS NULL
	`
	return r.queryExpense(ctx, query, id)
}

// GetByName поиск без учета регистра, имя уникально в рамках пользователя
func (r *recurringExpenseRepository) GetByName(ctx context.Context, userID uuid.UUID, name string) (*models.RecurringExpense, error) {
	query := `
		SELECT id, user_id, name, fixed_amount, is_active, is_auto_debit, instrument_id, category_id, created_at, updated_at
		FROM recurring_expenses
		WHERE user_id = $1 AND LOWER(name) = LOWER($2) AND deleted_at IS NULL
	`
	return r.queryExpense(ctx, query, userID, name)
}

func (r *recurringExpenseRepository) queryExpense(ctx context.Context, query string, args ...interface{}) (*models.RecurringExpense, error) {
	var expense models.RecurringExpense
	err := r.db(ctx).QueryRow(ctx, query, args...).Scan(
		&expense.ID, &expense.UserID, &expense.Name, &expense.FixedAmount,
		&expense.IsActive, &expense.IsAutoDebit, &expense.InstrumentID, &expense.CategoryID,
		&expense.CreatedAt, &expense.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &expense, nil
}

func (r *recurringExpenseRepository) GetByUserID(ctx context.Context, userID uuid.UUID, activeOnly bool) ([]models.RecurringExpense, error) {
	query := `
		SELECT id, user_id, name, fixed_amount, is_active, is_auto_debit, instrument_id, category_id, created_at, updated_at
		FROM recurring_expenses
		WHERE user_id = $1 AND deleted_at IS NULL
	`
	if activeOnly {
		query += ` AND is_active = true`
	}
	query += ` ORDER BY name`

	rows, err := r.db(ctx).Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expenses []models.RecurringExpense
	for rows.Next() {
		var expense models.RecurringExpense
		err := rows.Scan(
			&expense.ID, &expense.UserID, &expense.Name, &expense.FixedAmount,
			&expense.IsActive, &expense.IsAutoDebit, &expense.InstrumentID, &expense.CategoryID,
			&expense.CreatedAt, &expense.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, expense)
	}
	return expenses, rows.Err()
}

func (r *recurringExpenseRepository) Update(ctx context.Context, id uuid.UUID, update *models.RecurringExpenseUpdate) error {
	query := `
		UPDATE recurring_expenses SET
			name = COALESCE($2, name),
			fixed_amount = COALESCE($3, fixed_amount),
			is_active = COALESCE($4, is_active),
			is_auto_debit = COALESCE($5, is_auto_debit),
			instrument_id = COALESCE($6, instrument_id),
			category_id = COALESCE($7, category_id),
			updated_at = $8
		WHERE id = $1 AND deleted_at IS NULL
	`

	_, err := r.db(ctx).Exec(ctx, query,
		id, update.Name, update.FixedAmount, update.IsActive,
		update.IsAutoDebit, update.InstrumentID, update.CategoryID, time.Now(),
	)
	return err
}

func (r *recurringExpenseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE recurring_expenses SET deleted_at = $2 WHERE id = $1`
	_, err := r.db(ctx).Exec(ctx, query, id, time.Now())
	return err
}
