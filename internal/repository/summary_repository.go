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

type SummaryRepository interface {
	Create(ctx context.Context, summary *models.PeriodSummary) error
	GetByPeriod(ctx context.Context, periodID uuid.UUID) (*models.PeriodSummary, error)
	UpdateTotals(ctx context.Context, id uuid.UUID, summary *models.PeriodSummary) error
}

type summaryRepository struct {
	pool *pgxpool.Pool
}

func NewSummaryRepository(pool *pgxpool.Pool) SummaryRepository {
	return &summaryRepository{pool: pool}
}

func (r *summaryRepository) db(ctx context.Context) DBTX {
	return GetTxOrPool(ctx, r.pool)
}

func (r *summaryRepository) Create(ctx context.Context, summary *models.PeriodSummary) error {
	query := `
		INSERT INTO period_summaries (id, period_id, user_id, total_amount, total_paid, count_total, count_paid, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	if summary.ID == uuid.Nil {
		summary.ID = uuid.New()
	}
	now := time.Now()
	summary.CreatedAt = now
	summary.UpdatedAt = now

	_, err := r.db(ctx).Exec(ctx, query,
		summary.ID, summary.PeriodID, summary.UserID,
		summary.TotalAmount, summary.TotalPaid,
		summary.CountTotal, summary.CountPaid,
		summary.CreatedAt, summary.UpdatedAt,
	)
	return err
}

func (r *summaryRepository) GetByPeriod(ctx context.Context, periodID uuid.UUID) (*models.PeriodSummary, error) {
	query := `
		SELECT id, period_id, user_id, total_amount, total_paid, count_total, count_paid, created_at, updated_at
		FROM period_summaries
		WHERE period_id = $1
	`

	var summary models.PeriodSummary
	err := r.db(ctx).QueryRow(ctx, query, periodID).Scan(
		&summary.ID, &summary.PeriodID, &summary.UserID,
		&summary.TotalAmount, &summary.TotalPaid,
		&summary.CountTotal, &summary.CountPaid,
		&summary.CreatedAt, &summary.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &summary, nil
}

func (r *summaryRepository) UpdateTotals(ctx context.Context, id uuid.UUID, summary *models.PeriodSummary) error {
	query := `
		UPDATE period_summaries SET
			total_amount = $2,
			total_paid = $3,
			count_total = $4,
			count_paid = $5,
			updated_at = $6
		WHERE id = $1
	`

	_, err := r.db(ctx).Exec(ctx, query,
		id, summary.TotalAmount, summary.TotalPaid,
		summary.CountTotal, summary.CountPaid, time.Now(),
	)
	return err
}
