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

type InstrumentRepository interface {
	Create(ctx context.Context, instrument *models.PaymentInstrument) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.PaymentInstrument, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]models.PaymentInstrument, error)
	Update(ctx context.Context, id uuid.UUID, update *models.InstrumentUpdate) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type instrumentRepository struct {
	pool *pgxpool.Pool
}

func NewInstrumentRepository(pool *pgxpool.Pool) InstrumentRepository {
	return &instrumentRepository{pool: pool}
}

func (r *instrumentRepository) db(ctx context.Context) DBTX {
	return GetTxOrPool(ctx, r.pool)
}

func (r *instrumentRepository) Create(ctx context.Context, instrument *models.PaymentInstrument) error {
	query := `
		INSERT INTO instruments (id, user_id, name, type, icon, color, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	if instrument.ID == uuid.Nil {
		instrument.ID = uuid.New()
	}
	now := time.Now()
	instrument.CreatedAt = now
	instrument.UpdatedAt = now
	instrument.IsActive = true

	_, err := r.db(ctx).Exec(ctx, query,
		instrument.ID, instrument.UserID, instrument.Name, instrument.Type,
		instrument.Icon, instrument.Color, instrument.IsActive,
		instrument.CreatedAt, instrument.UpdatedAt,
	)
	return err
}

func (r *instrumentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.PaymentInstrument, error) {
	query := `
		SELECT id, user_id, name, type, icon, color, is_active, created_at, updated_at
		FROM instruments
		WHERE id = $1 AND deleted_at IS NULL
	`

	var instrument models.PaymentInstrument
	err := r.db(ctx).QueryRow(ctx, query, id).Scan(
		&instrument.ID, &instrument.UserID, &instrument.Name, &instrument.Type,
		&instrument.Icon, &instrument.Color, &instrument.IsActive,
		&instrument.CreatedAt, &instrument.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &instrument, nil
}

func (r *instrumentRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]models.PaymentInstrument, error) {
	query := `
		SELECT id, user_id, name, type, icon, color, is_active, created_at, updated_at
		FROM instruments
		WHERE user_id = $1 AND deleted_at IS NULL
		ORDER BY created_at
	`

	rows, err := r.db(ctx).Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var instruments []models.PaymentInstrument
	for rows.Next() {
		var instrument models.PaymentInstrument
		err := rows.Scan(
			&instrument.ID, &instrument.UserID, &instrument.Name, &instrument.Type,
			&instrument.Icon, &instrument.Color, &instrument.IsActive,
			&instrument.CreatedAt, &instrument.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		instruments = append(instruments, instrument)
	}
	return instruments, rows.Err()
}

func (r *instrumentRepository) Update(ctx context.Context, id uuid.UUID, update *models.InstrumentUpdate) error {
	query := `
		UPDATE instruments SET
			name = COALESCE($2, name),
			icon = COALESCE($3, icon),
			color = COALESCE($4, color),
			is_active = COALESCE($5, is_active),
			updated_at = $6
		WHERE id = $1 AND deleted_at IS NULL
	`

	_, err := r.db(ctx).Exec(ctx, query,
		id, update.Name, update.Icon, update.Color, update.IsActive, time.Now(),
	)
	return err
}

func (r *instrumentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE instruments SET deleted_at = $2 WHERE id = $1`
	_, err := r.db(ctx).Exec(ctx, query, id, time.Now())
	return err
}
