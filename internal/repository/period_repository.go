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

type PeriodRepository interface {
	Create(ctx context.Context, period *models.Period) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Period, error)
	FindByMonth(ctx context.Context, userID uuid.UUID, year int, month models.Month) (*models.Period, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]models.Period, error)
	Update(ctx context.Context, id uuid.UUID, year int, month models.Month) error
	Delete(ctx context.Context, id uuid.UUID) error

	InsertBalances(ctx context.Context, periodID uuid.UUID, amounts []models.InstrumentAmount) error
	GetBalances(ctx context.Context, periodID uuid.UUID) ([]models.PeriodBalance, error)
	SoftDeleteBalances(ctx context.Context, periodID uuid.UUID) error
}

type periodRepository struct {
	pool *pgxpool.Pool
}

func NewPeriodRepository(pool *pgxpool.Pool) PeriodRepository {
	return &periodRepository{pool: pool}
}

func (r *periodRepository) db(ctx context.Context) DBTX {
	return GetTxOrPool(ctx, r.pool)
}

func (r *periodRepository) Create(ctx context.Context, period *models.Period) error {
	query := `
		INSERT INTO periods (id, user_id, year, month, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	if period.ID == uuid.Nil {
		period.ID = uuid.New()
	}
	now := time.Now()
	period.CreatedAt = now
	period.UpdatedAt = now

	_, err := r.db(ctx).Exec(ctx, query,
		period.ID, period.UserID, period.Year, period.Month,
		period.CreatedAt, period.UpdatedAt,
	)
	return err
}

func (r *periodRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Period, error) {
	query := `
		SELECT id, user_id, year, month, created_at, updated_at
		FROM periods
		WHERE id = $1 AND deleted_at IS NULL
	`
	return r.queryPeriod(ctx, query, id)
}

func (r *periodRepository) FindByMonth(ctx context.Context, userID uuid.UUID, year int, month models.Month) (*models.Period, error) {
	query := `
		SELECT id, user_id, year, month, created_at, updated_at
		FROM periods
		WHERE user_id = $1 AND year = $2 AND month = $3 AND deleted_at IS NULL
	`
	return r.queryPeriod(ctx, query, userID, year, month)
}

func (r *periodRepository) queryPeriod(ctx context.Context, query string, args ...interface{}) (*models.Period, error) {
	var period models.Period
	err := r.db(ctx).QueryRow(ctx, query, args...).Scan(
		&period.ID, &period.UserID, &period.Year, &period.Month,
		&period.CreatedAt, &period.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &period, nil
}

func (r *periodRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]models.Period, error) {
	query := `
		SELECT id, user_id, year, month, created_at, updated_at
		FROM periods
		WHERE user_id = $1 AND deleted_at IS NULL
		ORDER BY year DESC, created_at DESC
	`

	rows, err := r.db(ctx).Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var periods []models.Period
	for rows.Next() {
		var period models.Period
		err := rows.Scan(
			&period.ID, &period.UserID, &period.Year, &period.Month,
			&period.CreatedAt, &period.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		periods = append(periods, period)
	}
	return periods, rows.Err()
}

func (r *periodRepository) Update(ctx context.Context, id uuid.UUID, year int, month models.Month) error {
	query := `
		UPDATE periods SET year = $2, month = $3, updated_at = $4
		WHERE id = $1 AND deleted_at IS NULL
	`
	_, err := r.db(ctx).Exec(ctx, query, id, year, month, time.Now())
	return err
}

func (r *periodRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE periods SET deleted_at = $2 WHERE id = $1`
	_, err := r.db(ctx).Exec(ctx, query, id, time.Now())
	return err
}

func (r *periodRepository) InsertBalances(ctx context.Context, periodID uuid.UUID, amounts []models.InstrumentAmount) error {
	query := `
		INSERT INTO period_balances (id, period_id, instrument_id, starting_amount, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	now := time.Now()
	for _, a := range amounts {
		_, err := r.db(ctx).Exec(ctx, query, uuid.New(), periodID, a.InstrumentID, a.StartingAmount, now)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *periodRepository) GetBalances(ctx context.Context, periodID uuid.UUID) ([]models.PeriodBalance, error) {
	query := `
		SELECT b.id, b.period_id, b.instrument_id, b.starting_amount, b.created_at,
		       i.id, i.user_id, i.name, i.type, i.icon, i.color, i.is_active, i.created_at, i.updated_at
		FROM period_balances b
		JOIN instruments i ON i.id = b.instrument_id
		WHERE b.period_id = $1 AND b.deleted_at IS NULL
		ORDER BY i.name
	`

	rows, err := r.db(ctx).Query(ctx, query, periodID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var balances []models.PeriodBalance
	for rows.Next() {
		var balance models.PeriodBalance
		var instrument models.PaymentInstrument
		err := rows.Scan(
			&balance.ID, &balance.PeriodID, &balance.InstrumentID,
			&balance.StartingAmount, &balance.CreatedAt,
			&instrument.ID, &instrument.UserID, &instrument.Name, &instrument.Type,
			&instrument.Icon, &instrument.Color, &instrument.IsActive,
			&instrument.CreatedAt, &instrument.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		balance.Instrument = &instrument
		balances = append(balances, balance)
	}
	return balances, rows.Err()
}

// SoftDeleteBalances помечает удаленными все балансы периода, замена набора
// инструментов это всегда delete-all-then-insert, не merge
func (r *periodRepository) SoftDeleteBalances(ctx context.Context, periodID uuid.UUID) error {
	query := `UPDATE period_balances SET deleted_at = $2 WHERE period_id = $1 AND deleted_at IS NULL`
	_, err := r.db(ctx).Exec(ctx, query, periodID, time.Now())
	return err
}
