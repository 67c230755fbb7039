package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionKind string

const (
	TransactionKindIncome  TransactionKind = "INCOME"
	TransactionKindExpense TransactionKind = "EXPENSE"
)

// Transaction датированное событие дохода или расхода внутри периода.
// Amount всегда положительная, направление задает Kind
type Transaction struct {
	ID           uuid.UUID       `json:"id" db:"id"`
	UserID       uuid.UUID       `json:"user_id" db:"user_id"`
	PeriodID     uuid.UUID       `json:"period_id" db:"period_id"`
	CategoryID   uuid.UUID       `json:"category_id" db:"category_id"`
	InstrumentID uuid.UUID       `json:"instrument_id" db:"instrument_id"`
	Kind         TransactionKind `json:"kind" db:"kind"`
	Amount       decimal.Decimal `json:"amount" db:"amount"`
	Date         time.Time       `json:"date" db:"date"`
	Description  string          `json:"description" db:"description"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at" db:"updated_at"`
	DeletedAt    *time.Time      `json:"-" db:"deleted_at"`

	Category   *Category          `json:"category,omitempty"`
	Instrument *PaymentInstrument `json:"instrument,omitempty"`
}

type TransactionCreate struct {
	PeriodID     uuid.UUID       `json:"period_id" binding:"required"`
	CategoryID   uuid.UUID       `json:"category_id" binding:"required"`
	InstrumentID uuid.UUID       `json:"instrument_id" binding:"required"`
	Kind         TransactionKind `json:"kind" binding:"required"`
	Amount       decimal.Decimal `json:"amount" binding:"required"`
	Date         *time.Time      `json:"date"` // nil = сейчас
	Description  string          `json:"description"`
}

type TransactionUpdate struct {
	CategoryID   *uuid.UUID       `json:"category_id"`
	InstrumentID *uuid.UUID       `json:"instrument_id"`
	Kind         *TransactionKind `json:"kind"`
	Amount       *decimal.Decimal `json:"amount"`
	Date         *time.Time       `json:"date"`
	Description  *string          `json:"description"`
}

type TransactionFilter struct {
	PeriodID     *uuid.UUID       `form:"period_id"`
	CategoryID   *uuid.UUID       `form:"category_id"`
	InstrumentID *uuid.UUID       `form:"instrument_id"`
	Kind         *TransactionKind `form:"kind"`
	DateFrom     *time.Time       `form:"date_from"`
	DateTo       *time.Time       `form:"date_to"`
	Page         int              `form:"page"`
	Limit        int              `form:"limit"`
	SortBy       string           `form:"sort_by"`
	SortOrder    string           `form:"sort_order"`
}

type TransactionList struct {
	Transactions []Transaction `json:"transactions"`
	Total        int64         `json:"total"`
	Page         int           `json:"page"`
	Limit        int           `json:"limit"`
	TotalPages   int           `json:"total_pages"`
}

// TransferCreate перевод между двумя инструментами одного периода
type TransferCreate struct {
	PeriodID         uuid.UUID       `json:"period_id" binding:"required"`
	SourceInstrument uuid.UUID       `json:"source_instrument_id" binding:"required"`
	DestInstrument   uuid.UUID       `json:"dest_instrument_id" binding:"required"`
	Amount           decimal.Decimal `json:"amount" binding:"required"`
	Description      string          `json:"description"`
}

// TransferResult обе созданные ноги перевода
type TransferResult struct {
	Outgoing *Transaction `json:"outgoing"`
	Incoming *Transaction `json:"incoming"`
}
