package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Period финансовый период: одна пара (год, месяц) на пользователя
type Period struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	UserID    uuid.UUID  `json:"user_id" db:"user_id"`
	Year      int        `json:"year" db:"year"`
	Month     Month      `json:"month" db:"month"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt *time.Time `json:"-" db:"deleted_at"`

	// заполняется при чтении
	Balances []PeriodBalance `json:"balances,omitempty"`
}

// PeriodBalance стартовый баланс одного инструмента внутри периода
type PeriodBalance struct {
	ID             uuid.UUID       `json:"id" db:"id"`
	PeriodID       uuid.UUID       `json:"period_id" db:"period_id"`
	InstrumentID   uuid.UUID       `json:"instrument_id" db:"instrument_id"`
	StartingAmount decimal.Decimal `json:"starting_amount" db:"starting_amount"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
	DeletedAt      *time.Time      `json:"-" db:"deleted_at"`

	Instrument *PaymentInstrument `json:"instrument,omitempty"`
}

type InstrumentAmount struct {
	InstrumentID   uuid.UUID       `json:"instrument_id" binding:"required"`
	StartingAmount decimal.Decimal `json:"starting_amount"`
}

type PeriodCreate struct {
	Year        int                `json:"year" binding:"required"`
	Month       Month              `json:"month" binding:"required"`
	Instruments []InstrumentAmount `json:"instruments" binding:"required"`
}

// PeriodUpdate частичное обновление; если Instruments не nil, набор
// балансов заменяется целиком (delete-all-then-insert)
type PeriodUpdate struct {
	Year        *int               `json:"year"`
	Month       *Month             `json:"month"`
	Instruments []InstrumentAmount `json:"instruments"`
}

// InstrumentBalance вычисляемый баланс инструмента за период
type InstrumentBalance struct {
	InstrumentID   uuid.UUID       `json:"instrument_id"`
	InstrumentName string          `json:"instrument_name"`
	StartingAmount decimal.Decimal `json:"starting_amount"`
	TotalIncome    decimal.Decimal `json:"total_income"`
	TotalExpense   decimal.Decimal `json:"total_expense"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
}

type PeriodBalances struct {
	PeriodID       uuid.UUID           `json:"period_id"`
	Balances       []InstrumentBalance `json:"balances"`
	OverallBalance decimal.Decimal     `json:"overall_balance"`
}
