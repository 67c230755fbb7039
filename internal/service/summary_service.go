package service

import (
	"context"

	"github.com/dmarto21/finanzas-tracker/internal/apperr"
	"github.com/dmarto21/finanzas-tracker/internal/models"
	"github.com/dmarto21/finanzas-tracker/internal/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type SummaryService interface {
	// Initialize создает сводку для нового периода из уже существующих
	// строк оплат
	Initialize(ctx context.Context, periodID, userID uuid.UUID) error
	// Recalculate полностью перестраивает сводку из строк оплат.
	// Если сводки еще нет - ничего не делает
	Recalculate(ctx context.Context, periodID uuid.UUID) error
	GetByPeriod(ctx context.Context, userID, periodID uuid.UUID) (*models.PeriodSummary, error)
}

type summaryService struct {
	summaryRepo repository.SummaryRepository
	paymentRepo repository.RecurringPaymentRepository
}

func NewSummaryService(summaryRepo repository.SummaryRepository, paymentRepo repository.RecurringPaymentRepository) SummaryService {
	return &summaryService{summaryRepo: summaryRepo, paymentRepo: paymentRepo}
}

func (s *summaryService) Initialize(ctx context.Context, periodID, userID uuid.UUID) error {
	existing, err := s.summaryRepo.GetByPeriod(ctx, periodID)
	if err != nil {
		return err
	}
	if existing != nil {
		return s.Recalculate(ctx, periodID)
	}

	payments, err := s.paymentRepo.GetByPeriod(ctx, periodID)
	if err != nil {
		return err
	}

	summary := &models.PeriodSummary{
		PeriodID: periodID,
		UserID:   userID,
	}
	applySummaryTotals(summary, payments)

	if err := s.summaryRepo.Create(ctx, summary); err != nil {
		if repository.IsUniqueViolation(err) {
			// кто-то успел создать параллельно, итоговые цифры все равно
			// сойдутся после пересчета
			return s.Recalculate(ctx, periodID)
		}
		return err
	}
	return nil
}

func (s *summaryService) Recalculate(ctx context.Context, periodID uuid.UUID) error {
	summary, err := s.summaryRepo.GetByPeriod(ctx, periodID)
	if err != nil {
		return err
	}
	if summary == nil {
		return nil
	}

	payments, err := s.paymentRepo.GetByPeriod(ctx, periodID)
	if err != nil {
		return err
	}
	applySummaryTotals(summary, payments)

	return s.summaryRepo.UpdateTotals(ctx, summary.ID, summary)
}

func (s *summaryService) GetByPeriod(ctx context.Context, userID, periodID uuid.UUID) (*models.PeriodSummary, error) {
	summary, err := s.summaryRepo.GetByPeriod(ctx, periodID)
	if err != nil {
		return nil, err
	}
	if summary == nil {
		return nil, apperr.NotFound("summary not found").WithDetail("period_id", periodID)
	}
	if summary.UserID != userID {
		return nil, apperr.Forbidden("summary belongs to another user").WithDetail("period_id", periodID)
	}
	return summary, nil
}

// applySummaryTotals пересчитывает все поля сводки с нуля. Обязательства без
// фиксированной суммы в totalAmount не входят: общая "сумма к оплате" для них
// заранее неизвестна
func applySummaryTotals(summary *models.PeriodSummary, payments []models.RecurringPayment) {
	totalAmount := decimal.Zero
	totalPaid := decimal.Zero
	countPaid := 0

	for _, p := range payments {
		if p.Expense != nil && p.Expense.FixedAmount != nil {
			totalAmount = totalAmount.Add(*p.Expense.FixedAmount)
		}
		if p.Paid {
			totalPaid = totalPaid.Add(p.AmountPaid)
			countPaid++
		}
	}

	summary.TotalAmount = totalAmount
	summary.TotalPaid = totalPaid
	summary.CountTotal = len(payments)
	summary.CountPaid = countPaid
}
