package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmarto21/finanzas-tracker/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TransactionRepository interface {
	Create(ctx context.Context, tx *models.Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error)
	GetByPeriod(ctx context.Context, periodID uuid.UUID) ([]models.Transaction, error)
	GetByFilter(ctx context.Context, userID uuid.UUID, filter *models.TransactionFilter) (*models.TransactionList, error)
	Update(ctx context.Context, id uuid.UUID, update *models.TransactionUpdate) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type transactionRepository struct {
	pool *pgxpool.Pool
}

func NewTransactionRepository(pool *pgxpool.Pool) TransactionRepository {
	return &transactionRepository{pool: pool}
}

func (r *transactionRepository) db(ctx context.Context) DBTX {
	return GetTxOrPool(ctx, r.pool)
}

func (r *transactionRepository) Create(ctx context.Context, tx *models.Transaction) error {
	query := `
		INSERT INTO transactions (id, user_id, period_id, category_id, instrument_id, kind, amount, date, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	if tx.ID == uuid.Nil {
		tx.ID = uuid.New()
	}
	now := time.Now()
	tx.CreatedAt = now
	tx.UpdatedAt = now

	_, err := r.db(ctx).Exec(ctx, query,
		tx.ID, tx.UserID, tx.PeriodID, tx.CategoryID, tx.InstrumentID,
		tx.Kind, tx.Amount, tx.Date, tx.Description,
		tx.CreatedAt, tx.UpdatedAt,
	)
	return err
}

func (r *transactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	query := `
		SELECT t.id, t.user_id, t.period_id, t.category_id, t.instrument_id, t.kind, t.amount, t.date, t.description, t.created_at, t.updated_at
		FROM transactions t
		WHERE t.id = $1 AND t.deleted_at IS NULL
	`

	var tx models.Transaction
	err := r.db(ctx).QueryRow(ctx, query, id).Scan(
		&tx.ID, &tx.UserID, &tx.PeriodID, &tx.CategoryID, &tx.InstrumentID,
		&tx.Kind, &tx.Amount, &tx.Date, &tx.Description,
		&tx.CreatedAt, &tx.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &tx, nil
}

// GetByPeriod все неудаленные транзакции периода, для балансов и отчетов
func (r *transactionRepository) GetByPeriod(ctx context.Context, periodID uuid.UUID) ([]models.Transaction, error) {
	query := `
		SELECT t.id, t.user_id, t.period_id, t.category_id, t.instrument_id, t.kind, t.amount, t.date, t.description, t.created_at, t.updated_at
		FROM transactions t
		WHERE t.period_id = $1 AND t.deleted_at IS NULL
		ORDER BY t.date
	`

	rows, err := r.db(ctx).Query(ctx, query, periodID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTransactions(rows)
}

func (r *transactionRepository) GetByFilter(ctx context.Context, userID uuid.UUID, filter *models.TransactionFilter) (*models.TransactionList, error) {
	baseQuery := `
		SELECT t.id, t.user_id, t.period_id, t.category_id, t.instrument_id, t.kind, t.amount, t.date, t.description, t.created_at, t.updated_at
		FROM transactions t
		WHERE t.user_id = $1 AND t.deleted_at IS NULL
	`
	countQuery := `SELECT COUNT(*) FROM transactions t WHERE t.user_id = $1 AND t.deleted_at IS NULL`

	var conditions []string
	args := []interface{}{userID}
	argIndex := 2

	if filter.PeriodID != nil {
		conditions = append(conditions, fmt.Sprintf("t.period_id = $%d", argIndex))
		args = append(args, *filter.PeriodID)
		argIndex++
	}

	if filter.CategoryID != nil {
		conditions = append(conditions, fmt.Sprintf("t.category_id = $%d", argIndex))
		args = append(args, *filter.CategoryID)
		argIndex++
	}

	if filter.InstrumentID != nil {
		conditions = append(conditions, fmt.Sprintf("t.instrument_id = $%d", argIndex))
		args = append(args, *filter.InstrumentID)
		argIndex++
	}

	if filter.Kind != nil {
		conditions = append(conditions, fmt.Sprintf("t.kind = $%d", argIndex))
		args = append(args, *filter.Kind)
		argIndex++
	}

	if filter.DateFrom != nil {
		conditions = append(conditions, fmt.Sprintf("t.date >= $%d", argIndex))
		args = append(args, *filter.DateFrom)
		argIndex++
	}

	if filter.DateTo != nil {
		conditions = append(conditions, fmt.Sprintf("t.date <= $%d", argIndex))
		args = append(args, *filter.DateTo)
		argIndex++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " AND " + strings.Join(conditions, " AND ")
	}

	var total int64
	err := r.db(ctx).QueryRow(ctx, countQuery+whereClause, args...).Scan(&total)
	if err != nil {
		return nil, err
	}

	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	offset := (filter.Page - 1) * filter.Limit

	sortBy := "date"
	switch filter.SortBy {
	case "date", "amount", "created_at":
		sortBy = filter.SortBy
	}
	sortOrder := "DESC"
	if filter.SortOrder == "asc" {
		sortOrder = "ASC"
	}

	finalQuery := baseQuery + whereClause + fmt.Sprintf(" ORDER BY t.%s %s LIMIT $%d OFFSET $%d", sortBy, sortOrder, argIndex, argIndex+1)
	args = append(args, filter.Limit, offset)

	rows, err := r.db(ctx).Query(ctx, finalQuery, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transactions, err := scanTransactions(rows)
	if err != nil {
		return nil, err
	}

	totalPages := int(total) / filter.Limit
	if int(total)%filter.Limit > 0 {
		totalPages++
	}

	return &models.TransactionList{
		Transactions: transactions,
		Total:        total,
		Page:         filter.Page,
		Limit:        filter.Limit,
		TotalPages:   totalPages,
	}, nil
}

func scanTransactions(rows pgx.Rows) ([]models.Transaction, error) {
	var transactions []models.Transaction
	for rows.Next() {
		var tx models.Transaction
		err := rows.Scan(
			&tx.ID, &tx.UserID, &tx.PeriodID, &tx.CategoryID, &tx.InstrumentID,
			&tx.Kind, &tx.Amount, &tx.Date, &tx.Description,
			&tx.CreatedAt, &tx.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, tx)
	}
	return transactions, rows.Err()
}

func (r *transactionRepository) Update(ctx context.Context, id uuid.UUID, update *models.TransactionUpdate) error {
	query := `
		UPDATE transactions SET
			category_id = COALESCE($2, category_id),
			instrument_id = COALESCE($3, instrument_id),
			kind = COALESCE($4, kind),
			amount = COALESCE($5, amount),
			date = COALESCE($6, date),
			description = COALESCE($7, description),
			updated_at = $8
		WHERE id = $1 AND deleted_at IS NULL
	`

	_, err := r.db(ctx).Exec(ctx, query,
		id, update.CategoryID, update.InstrumentID, update.Kind,
		update.Amount, update.Date, update.Description, time.Now(),
	)
	return err
}

func (r *transactionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE transactions SET deleted_at = $2 WHERE id = $1`
	_, err := r.db(ctx).Exec(ctx, query, id, time.Now())
	return err
}
