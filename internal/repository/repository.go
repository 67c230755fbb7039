package repository

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repositories struct {
	TxManager        TxManager
	User             UserRepository
	RefreshToken     RefreshTokenRepository
	Category         CategoryRepository
	Instrument       InstrumentRepository
	Period           PeriodRepository
	Transaction      TransactionRepository
	RecurringExpense RecurringExpenseRepository
	RecurringPayment RecurringPaymentRepository
	Summary          SummaryRepository
}

func NewRepositories(pool *pgxpool.Pool) *Repositories {
	return &Repositories{
		TxManager:        NewTxManager(pool),
		User:             NewUserRepository(pool),
		RefreshToken:     NewRefreshTokenRepository(pool),
		Category:         NewCategoryRepository(pool),
		Instrument:       NewInstrumentRepository(pool),
		Period:           NewPeriodRepository(pool),
		Transaction:      NewTransactionRepository(pool),
		RecurringExpense: NewRecurringExpenseRepository(pool),
		RecurringPayment: NewRecurringPaymentRepository(pool),
		Summary:          NewSummaryRepository(pool),
	}
}
