package service

import (
	"github.com/dmarto21/finanzas-tracker/internal/config"
	"github.com/dmarto21/finanzas-tracker/internal/repository"
)

type Services struct {
	Auth        AuthService
	User        UserService
	Category    CategoryService
	Instrument  InstrumentService
	Period      PeriodService
	Transaction TransactionService
	Recurring   RecurringService
	Summary     SummaryService
	Report      ReportService
}

func NewServices(repos *repository.Repositories, cfg *config.Config) *Services {
	// порядок сборки важен: period-сервис дергает provisioning и summary
	summary := NewSummaryService(repos.Summary, repos.RecurringPayment)
	recurring := NewRecurringService(repos.RecurringExpense, repos.RecurringPayment, repos.Period, repos.Instrument, repos.Category, summary)

	return &Services{
		Auth:        NewAuthService(repos.User, repos.RefreshToken, cfg),
		User:        NewUserService(repos.User),
		Category:    NewCategoryService(repos.Category),
		Instrument:  NewInstrumentService(repos.Instrument),
		Summary:     summary,
		Recurring:   recurring,
		Period:      NewPeriodService(repos.TxManager, repos.Period, repos.Instrument, repos.Transaction, recurring, summary),
		Transaction: NewTransactionService(repos.TxManager, repos.Transaction, repos.Period, repos.Category, repos.Instrument),
		Report:      NewReportService(repos.Period, repos.Transaction, repos.Category, repos.Instrument),
	}
}
