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

type RecurringPaymentRepository interface {
	Create(ctx context.Context, payment *models.RecurringPayment) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.RecurringPayment, error)
	// GetByPeriod строки оплат периода вместе с их обязательствами
	GetByPeriod(ctx context.Context, periodID uuid.UUID) ([]models.RecurringPayment, error)
	GetExpenseIDsByPeriod(ctx context.Context, periodID uuid.UUID) ([]uuid.UUID, error)
	GetByFilter(ctx context.Context, userID uuid.UUID, filter *models.RecurringPaymentFilter) ([]models.RecurringPayment, error)
	Update(ctx context.Context, id uuid.UUID, update *models.RecurringPaymentUpdate) error
}

type recurringPaymentRepository struct {
	pool *pgxpool.Pool
}

func NewRecurringPaymentRepository(pool *pgxpool.Pool) RecurringPaymentRepository {
	return &recurringPaymentRepository{pool: pool}
}

func (r *recurringPaymentRepository) db(ctx context.Context) DBTX {
	return GetTxOrPool(ctx, r.pool)
}

func (r *recurringPaymentRepository) Create(ctx context.Context, payment *models.RecurringPayment) error {
	query := `
		INSERT INTO recurring_payments (id, expense_id, period_id, amount_paid, paid, instrument_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	now := time.Now()
	payment.CreatedAt = now
	payment.UpdatedAt = now

	_, err := r.db(ctx).Exec(ctx, query,
		payment.ID, payment.ExpenseID, payment.PeriodID,
		payment.AmountPaid, payment.Paid, payment.InstrumentID,
		payment.CreatedAt, payment.UpdatedAt,
	)
	return err
}

func (r *recurringPaymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.RecurringPayment, error) {
	query := `
		SELECT p.id, p.expense_id, p.period_id, p.amount_paid, p.paid, p.instrument_id, p.created_at, p.updated_at,
		       e.id, e.user_id, e.name, e.fixed_amount, e.is_active, e.is_auto_debit, e.instrument_id, e.category_id, e.created_at, e.updated_at
		FROM recurring_payments p
		JOIN recurring_expenses e ON e.id = p.expense_id
		WHERE p.id = $1
	`

	var payment models.RecurringPayment
	var expense models.RecurringExpense
	err := r.db(ctx).QueryRow(ctx, query, id).Scan(
		&payment.ID, &payment.ExpenseID, &payment.PeriodID,
		&payment.AmountPaid, &payment.Paid, &payment.InstrumentID,
		&payment.CreatedAt, &payment.UpdatedAt,
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
	payment.Expense = &expense
	return &payment, nil
}

func (r *recurringPaymentRepository) GetByPeriod(ctx context.Context, periodID uuid.UUID) ([]models.RecurringPayment, error) {
	query := `
		SELECT p.id, p.expense_id, p.period_id, p.amount_paid, p.paid, p.instrument_id, p.created_at, p.updated_at,
		       e.id, e.user_id, e.name, e.fixed_amount, e.is_active, e.is_auto_debit, e.instrument_id, e.category_id, e.created_at, e.updated_at
		FROM recurring_payments p
		JOIN recurring_expenses e ON e.id = p.expense_id
		WHERE p.period_id = $1
		ORDER BY e.name
	`

	rows, err := r.db(ctx).Query(ctx, query, periodID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanPayments(rows)
}

// GetExpenseIDsByPeriod множество обязательств, у которых уже есть строка
// оплаты в периоде. Вычитанием из активных получается что досоздавать -
// идемпотентность провижининга строится на этом, а не на ловле констрейнта
func (r *recurringPaymentRepository) GetExpenseIDsByPeriod(ctx context.Context, periodID uuid.UUID) ([]uuid.UUID, error) {
	query := `SELECT expense_id FROM recurring_payments WHERE period_id = $1`

	rows, err := r.db(ctx).Query(ctx, query, periodID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *recurringPaymentRepository) GetByFilter(ctx context.Context, userID uuid.UUID, filter *models.RecurringPaymentFilter) ([]models.RecurringPayment, error) {
	baseQuery := `
		SELECT p.id, p.expense_id, p.period_id, p.amount_paid, p.paid, p.instrument_id, p.created_at, p.updated_at,
		       e.id, e.user_id, e.name, e.fixed_amount, e.is_active, e.is_auto_debit, e.instrument_id, e.category_id, e.created_at, e.updated_at
		FROM recurring_payments p
		JOIN recurring_expenses e ON e.id = p.expense_id
		WHERE e.user_id = $1
	`

	var conditions []string
	args := []interface{}{userID}
	argIndex := 2

	if filter.PeriodID != nil {
		conditions = append(conditions, fmt.Sprintf("p.period_id = $%d", argIndex))
		args = append(args, *filter.PeriodID)
		argIndex++
	}

	if filter.ExpenseID != nil {
		conditions = append(conditions, fmt.Sprintf("p.expense_id = $%d", argIndex))
		args = append(args, *filter.ExpenseID)
		argIndex++
	}

	if filter.Paid != nil {
		conditions = append(conditions, fmt.Sprintf("p.paid = $%d", argIndex))
		args = append(args, *filter.Paid)
		argIndex++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " AND " + strings.Join(conditions, " AND ")
	}

	rows, err := r.db(ctx).Query(ctx, baseQuery+whereClause+` ORDER BY e.name`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanPayments(rows)
}

func scanPayments(rows pgx.Rows) ([]models.RecurringPayment, error) {
	var payments []models.RecurringPayment
	for rows.Next() {
		var payment models.RecurringPayment
		var expense models.RecurringExpense
		err := rows.Scan(
			&payment.ID, &payment.ExpenseID, &payment.PeriodID,
			&payment.AmountPaid, &payment.Paid, &payment.InstrumentID,
			&payment.CreatedAt, &payment.UpdatedAt,
			&expense.ID, &expense.UserID, &expense.Name, &expense.FixedAmount,
			&expense.IsActive, &expense.IsAutoDebit, &expense.InstrumentID, &expense.CategoryID,
			&expense.CreatedAt, &expense.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		payment.Expense = &expense
		payments = append(payments, payment)
	}
	return payments, rows.Err()
}

func (r *recurringPaymentRepository) Update(ctx context.Context, id uuid.UUID, update *models.RecurringPaymentUpdate) error {
	query := `
		UPDATE recurring_payments SET
			amount_paid = COALESCE($2, amount_paid),
			paid = COALESCE($3, paid),
			instrument_id = COALESCE($4, instrument_id),
			updated_at = $5
		WHERE id = $1
	`

	_, err := r.db(ctx).Exec(ctx, query,
		id, update.AmountPaid, update.Paid, update.InstrumentID, time.Now(),
	)
	return err
}
