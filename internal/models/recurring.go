package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RecurringExpense постоянное обязательство пользователя (аренда, интернет).
// FixedAmount nil = "переменное" обязательство, сумма известна только по факту
type RecurringExpense struct {
	ID           uuid.UUID        `json:"id" db:"id"`
	UserID       uuid.UUID        `json:"user_id" db:"user_id"`
	Name         string           `json:"name" db:"name"`
	FixedAmount  *decimal.Decimal `json:"fixed_amount" db:"fixed_amount"`
	IsActive     bool             `json:"is_active" db:"is_active"`
	IsAutoDebit  bool             `json:"is_auto_debit" db:"is_auto_debit"`
	InstrumentID *uuid.UUID       `json:"instrument_id" db:"instrument_id"` // обязателен при IsAutoDebit
	CategoryID   uuid.UUID        `json:"category_id" db:"category_id"`
	CreatedAt    time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at" db:"updated_at"`
	DeletedAt    *time.Time       `json:"-" db:"deleted_at"`

	Category   *Category          `json:"category,omitempty"`
	Instrument *PaymentInstrument `json:"instrument,omitempty"`
}

type RecurringExpenseCreate struct {
	Name         string           `json:"name" binding:"required"`
	FixedAmount  *decimal.Decimal `json:"fixed_amount"`
	IsAutoDebit  bool             `json:"is_auto_debit"`
	InstrumentID *uuid.UUID       `json:"instrument_id"`
	CategoryID   uuid.UUID        `json:"category_id" binding:"required"`
}

type RecurringExpenseUpdate struct {
	Name         *string          `json:"name"`
	FixedAmount  *decimal.Decimal `json:"fixed_amount"`
	IsActive     *bool            `json:"is_active"`
	IsAutoDebit  *bool            `json:"is_auto_debit"`
	InstrumentID *uuid.UUID       `json:"instrument_id"`
	CategoryID   *uuid.UUID       `json:"category_id"`
}

// RecurringPayment статус оплаты обязательства в конкретном периоде.
// Не больше одной строки на пару (обязательство, период)
type RecurringPayment struct {
	ID           uuid.UUID       `json:"id" db:"id"`
	ExpenseID    uuid.UUID       `json:"expense_id" db:"expense_id"`
	PeriodID     uuid.UUID       `json:"period_id" db:"period_id"`
	AmountPaid   decimal.Decimal `json:"amount_paid" db:"amount_paid"`
	Paid         bool            `json:"paid" db:"paid"`
	InstrumentID *uuid.UUID      `json:"instrument_id" db:"instrument_id"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at" db:"updated_at"`

	Expense *RecurringExpense `json:"expense,omitempty"`
}

type RecurringPaymentUpdate struct {
	AmountPaid   *decimal.Decimal `json:"amount_paid"`
	Paid         *bool            `json:"paid"`
	InstrumentID *uuid.UUID       `json:"instrument_id"`
}

type RecurringPaymentFilter struct {
	PeriodID  *uuid.UUID `form:"period_id"`
	ExpenseID *uuid.UUID `form:"expense_id"`
	Paid      *bool      `form:"paid"`
}

// PeriodSummary денормализованная сводка по обязательствам периода.
// Всегда производный кэш, пересчитывается с нуля из строк RecurringPayment
type PeriodSummary struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	PeriodID    uuid.UUID       `json:"period_id" db:"period_id"`
	UserID      uuid.UUID       `json:"user_id" db:"user_id"`
	TotalAmount decimal.Decimal `json:"total_defined_amount" db:"total_amount"`
	TotalPaid   decimal.Decimal `json:"total_paid" db:"total_paid"`
	CountTotal  int             `json:"count_total" db:"count_total"`
	CountPaid   int             `json:"count_paid" db:"count_paid"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}
