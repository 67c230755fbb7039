package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MonthlyReport агрегированный отчет по одному периоду, считается по запросу
type MonthlyReport struct {
	Year         int             `json:"year"`
	Month        Month           `json:"month"`
	TotalIncome  decimal.Decimal `json:"total_income"`
	TotalExpense decimal.Decimal `json:"total_expense"`
	Balance      decimal.Decimal `json:"balance"` // TotalIncome - TotalExpense

	InstrumentBalances []InstrumentBalance  `json:"instrument_balances"`
	ByCategory         []CategoryExpense    `json:"by_category"`    // только расходы, по убыванию
	TopCategories      []CategoryExpense    `json:"top_categories"` // первые 5 из ByCategory
	ByInstrument       []InstrumentMovement `json:"by_instrument"`
	Comparison         PeriodComparison     `json:"comparison"`
}

type CategoryExpense struct {
	CategoryID   uuid.UUID       `json:"category_id"`
	CategoryName string          `json:"category_name"`
	Total        decimal.Decimal `json:"total"`
	Percentage   decimal.Decimal `json:"percentage"` // Total / TotalExpense * 100
}

// InstrumentMovement доля инструмента в общем числе движений периода
type InstrumentMovement struct {
	InstrumentID   uuid.UUID       `json:"instrument_id"`
	InstrumentName string          `json:"instrument_name"`
	Count          int             `json:"count"`
	Total          decimal.Decimal `json:"total"`
	PercentOfCount decimal.Decimal `json:"percent_of_movement_count"`
}

// PeriodComparison сравнение с календарно-предыдущим периодом.
// Если предыдущего периода нет - нулевые отклонения без прежних итогов
type PeriodComparison struct {
	HasPrevious     bool            `json:"has_previous"`
	PrevYear        int             `json:"prev_year"`
	PrevMonth       Month           `json:"prev_month"`
	PrevIncome      decimal.Decimal `json:"prev_income"`
	PrevExpense     decimal.Decimal `json:"prev_expense"`
	PrevBalance     decimal.Decimal `json:"prev_balance"`
	IncomeVariance  decimal.Decimal `json:"income_variance_pct"`
	ExpenseVariance decimal.Decimal `json:"expense_variance_pct"`
	BalanceVariance decimal.Decimal `json:"balance_variance_pct"`
}
