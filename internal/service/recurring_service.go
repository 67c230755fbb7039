package service

import (
	"context"
	"strings"
	"time"

	"github.com/dmarto21/finanzas-tracker/internal/apperr"
	"github.com/dmarto21/finanzas-tracker/internal/models"
	"github.com/dmarto21/finanzas-tracker/internal/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type RecurringService interface {
	Create(ctx context.Context, userID uuid.UUID, input *models.RecurringExpenseCreate) (*models.RecurringExpense, error)
	GetByID(ctx context.Context, userID, id uuid.UUID) (*models.RecurringExpense, error)
	List(ctx context.Context, userID uuid.UUID, activeOnly bool) ([]models.RecurringExpense, error)
	Update(ctx context.Context, userID, id uuid.UUID, update *models.RecurringExpenseUpdate) (*models.RecurringExpense, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error

	// ProvisionForPeriod досоздает недостающие строки оплат для периода.
	// Возвращает число вставленных строк
	ProvisionForPeriod(ctx context.Context, periodID, userID uuid.UUID) (int, error)
	UpdatePayment(ctx context.Context, userID, paymentID uuid.UUID, update *models.RecurringPaymentUpdate) (*models.RecurringPayment, error)
	PaymentsForPeriod(ctx context.Context, userID, periodID uuid.UUID) ([]models.RecurringPayment, error)
	SearchPayments(ctx context.Context, userID uuid.UUID, filter *models.RecurringPaymentFilter) ([]models.RecurringPayment, error)
}

type recurringService struct {
	expenseRepo    repository.RecurringExpenseRepository
	paymentRepo    repository.RecurringPaymentRepository
	periodRepo     repository.PeriodRepository
	instrumentRepo repository.InstrumentRepository
	categoryRepo   repository.CategoryRepository
	summary        SummaryService
}

func NewRecurringService(
	expenseRepo repository.RecurringExpenseRepository,
	paymentRepo repository.RecurringPaymentRepository,
	periodRepo repository.PeriodRepository,
	instrumentRepo repository.InstrumentRepository,
	categoryRepo repository.CategoryRepository,
	summary SummaryService,
) RecurringService {
	return &recurringService{
		expenseRepo:    expenseRepo,
		paymentRepo:    paymentRepo,
		periodRepo:     periodRepo,
		instrumentRepo: instrumentRepo,
		categoryRepo:   categoryRepo,
		summary:        summary,
	}
}

func (s *recurringService) Create(ctx context.Context, userID uuid.UUID, input *models.RecurringExpenseCreate) (*models.RecurringExpense, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperr.Validation("name is required")
	}
	if input.FixedAmount != nil && !input.FixedAmount.GreaterThan(decimal.Zero) {
		return nil, apperr.Validation("fixed amount must be positive when set")
	}
	if input.IsAutoDebit && input.InstrumentID == nil {
		return nil, apperr.Validation("auto-debit requires a payment instrument")
	}
	if input.InstrumentID != nil {
		instrument, err := s.instrumentRepo.GetByID(ctx, *input.InstrumentID)
		if err != nil {
			return nil, err
		}
		if instrument == nil || instrument.UserID != userID {
			return nil, apperr.NotFound("instrument not found").WithDetail("instrument_id", *input.InstrumentID)
		}
	}
	category, err := s.categoryRepo.GetByID(ctx, input.CategoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, apperr.NotFound("category not found").WithDetail("category_id", input.CategoryID)
	}

	existing, err := s.expenseRepo.GetByName(ctx, userID, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.Conflict("recurring expense with this name already exists").WithDetail("name", name)
	}

	expense := &models.RecurringExpense{
		UserID:       userID,
		Name:         name,
		FixedAmount:  input.FixedAmount,
		IsActive:     true,
		IsAutoDebit:  input.IsAutoDebit,
		InstrumentID: input.InstrumentID,
		CategoryID:   input.CategoryID,
	}
	if err := s.expenseRepo.Create(ctx, expense); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperr.Conflict("recurring expense with this name already exists").WithDetail("name", name)
		}
		return nil, err
	}

	// новое обязательство появляется только в текущем календарном месяце,
	// задним числом прошлые периоды не трогаем
	s.provisionIntoCurrentPeriod(ctx, userID, expense.ID)

	return expense, nil
}

func (s *recurringService) provisionIntoCurrentPeriod(ctx context.Context, userID, expenseID uuid.UUID) {
	now := time.Now()
	period, err := s.periodRepo.FindByMonth(ctx, userID, now.Year(), models.MonthFromTime(now.Month()))
	if err != nil {
		logrus.WithError(err).Warn("failed to look up current period for provisioning")
		return
	}
	if period == nil {
		return
	}

	existingIDs, err := s.paymentRepo.GetExpenseIDsByPeriod(ctx, period.ID)
	if err != nil {
		logrus.WithError(err).Warn("failed to list provisioned expenses for current period")
		return
	}
	for _, id := range existingIDs {
		if id == expenseID {
			return
		}
	}

	payment := &models.RecurringPayment{
		ExpenseID:  expenseID,
		PeriodID:   period.ID,
		AmountPaid: decimal.Zero,
		Paid:       false,
	}
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		logrus.WithError(err).Warn("failed to provision payment row in current period")
		return
	}
	if err := s.summary.Recalculate(ctx, period.ID); err != nil {
		logrus.WithError(err).WithField("period_id", period.ID).Warn("failed to recalculate summary")
	}
}

func (s *recurringService) GetByID(ctx context.Context, userID, id uuid.UUID) (*models.RecurringExpense, error) {
	return s.ownedExpense(ctx, userID, id)
}

func (s *recurringService) List(ctx context.Context, userID uuid.UUID, activeOnly bool) ([]models.RecurringExpense, error) {
	return s.expenseRepo.GetByUserID(ctx, userID, activeOnly)
}

func (s *recurringService) Update(ctx context.Context, userID, id uuid.UUID, update *models.RecurringExpenseUpdate) (*models.RecurringExpense, error) {
	expense, err := s.ownedExpense(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return nil, apperr.Validation("name is required")
		}
		if !strings.EqualFold(name, expense.Name) {
			existing, err := s.expenseRepo.GetByName(ctx, userID, name)
			if err != nil {
				return nil, err
			}
			if existing != nil {
				return nil, apperr.Conflict("recurring expense with this name already exists").WithDetail("name", name)
			}
		}
		update.Name = &name
	}
	if update.FixedAmount != nil && !update.FixedAmount.GreaterThan(decimal.Zero) {
		return nil, apperr.Validation("fixed amount must be positive when set")
	}
	if update.InstrumentID != nil {
		instrument, err := s.instrumentRepo.GetByID(ctx, *update.InstrumentID)
		if err != nil {
			return nil, err
		}
		if instrument == nil || instrument.UserID != userID {
			return nil, apperr.NotFound("instrument not found").WithDetail("instrument_id", *update.InstrumentID)
		}
	}
	if update.CategoryID != nil {
		category, err := s.categoryRepo.GetByID(ctx, *update.CategoryID)
		if err != nil {
			return nil, err
		}
		if category == nil {
			return nil, apperr.NotFound("category not found").WithDetail("category_id", *update.CategoryID)
		}
	}

	autoDebit := expense.IsAutoDebit
	if update.IsAutoDebit != nil {
		autoDebit = *update.IsAutoDebit
	}
	instrumentID := expense.InstrumentID
	if update.InstrumentID != nil {
		instrumentID = update.InstrumentID
	}
	if autoDebit && instrumentID == nil {
		return nil, apperr.Validation("auto-debit requires a payment instrument")
	}

	if err := s.expenseRepo.Update(ctx, id, update); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperr.Conflict("recurring expense with this name already exists")
		}
		return nil, err
	}
	return s.expenseRepo.GetByID(ctx, id)
}

func (s *recurringService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if _, err := s.ownedExpense(ctx, userID, id); err != nil {
		return err
	}
	// исторические строки оплат остаются, удаляется только само обязательство
	return s.expenseRepo.Delete(ctx, id)
}

// ProvisionForPeriod идемпотентен: множество активных обязательств минус
// множество уже покрытых строками оплат. Повторный вызов ничего не вставляет
// и не падает на уникальном индексе
func (s *recurringService) ProvisionForPeriod(ctx context.Context, periodID, userID uuid.UUID) (int, error) {
	period, err := s.periodRepo.GetByID(ctx, periodID)
	if err != nil {
		return 0, err
	}
	if period == nil {
		return 0, apperr.NotFound("period not found").WithDetail("period_id", periodID)
	}
	if period.UserID != userID {
		return 0, apperr.Forbidden("period belongs to another user").WithDetail("period_id", periodID)
	}

	expenses, err := s.expenseRepo.GetByUserID(ctx, userID, true)
	if err != nil {
		return 0, err
	}
	if len(expenses) == 0 {
		return 0, nil
	}

	existingIDs, err := s.paymentRepo.GetExpenseIDsByPeriod(ctx, periodID)
	if err != nil {
		return 0, err
	}
	covered := make(map[uuid.UUID]struct{}, len(existingIDs))
	for _, id := range existingIDs {
		covered[id] = struct{}{}
	}

	inserted := 0
	for _, expense := range expenses {
		if _, ok := covered[expense.ID]; ok {
			continue
		}
		payment := &models.RecurringPayment{
			ExpenseID:  expense.ID,
			PeriodID:   periodID,
			AmountPaid: decimal.Zero,
			Paid:       false,
		}
		if err := s.paymentRepo.Create(ctx, payment); err != nil {
			return inserted, err
		}
		inserted++
	}

	if inserted > 0 {
		if err := s.summary.Recalculate(ctx, periodID); err != nil {
			logrus.WithError(err).WithField("period_id", periodID).Warn("failed to recalculate summary")
		}
	}
	return inserted, nil
}

func (s *recurringService) UpdatePayment(ctx context.Context, userID, paymentID uuid.UUID, update *models.RecurringPaymentUpdate) (*models.RecurringPayment, error) {
	payment, err := s.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, apperr.NotFound("payment not found").WithDetail("payment_id", paymentID)
	}

	expense, err := s.expenseRepo.GetByID(ctx, payment.ExpenseID)
	if err != nil {
		return nil, err
	}
	if expense == nil || expense.UserID != userID {
		return nil, apperr.Forbidden("payment belongs to another user").WithDetail("payment_id", paymentID)
	}
	period, err := s.periodRepo.GetByID(ctx, payment.PeriodID)
	if err != nil {
		return nil, err
	}
	if period == nil || period.UserID != userID {
		return nil, apperr.Forbidden("payment belongs to another user").WithDetail("payment_id", paymentID)
	}

	if update.AmountPaid != nil && update.AmountPaid.IsNegative() {
		return nil, apperr.Validation("amount paid cannot be negative")
	}
	if update.InstrumentID != nil {
		instrument, err := s.instrumentRepo.GetByID(ctx, *update.InstrumentID)
		if err != nil {
			return nil, err
		}
		if instrument == nil || instrument.UserID != userID {
			return nil, apperr.NotFound("instrument not found").WithDetail("instrument_id", *update.InstrumentID)
		}
	}

	// отметка "оплачено" без суммы: для обязательства с фиксированной суммой
	// берем ее, для переменного требуем явную сумму
	if update.Paid != nil && *update.Paid && update.AmountPaid == nil && payment.AmountPaid.IsZero() {
		if expense.FixedAmount != nil && expense.FixedAmount.GreaterThan(decimal.Zero) {
			update.AmountPaid = expense.FixedAmount
		} else {
			return nil, apperr.Validation("amount required before marking as paid").WithDetail("payment_id", paymentID)
		}
	}

	if err := s.paymentRepo.Update(ctx, paymentID, update); err != nil {
		return nil, err
	}

	if err := s.summary.Recalculate(ctx, payment.PeriodID); err != nil {
		logrus.WithError(err).WithField("period_id", payment.PeriodID).Warn("failed to recalculate summary")
	}

	updated, err := s.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	updated.Expense = expense
	return updated, nil
}

// PaymentsForPeriod отдает все активные обязательства вместе с их строками
// оплат. Для обязательств без строки возвращается нулевая заглушка, чтобы
// клиент видел полный список того, что предстоит оплатить
func (s *recurringService) PaymentsForPeriod(ctx context.Context, userID, periodID uuid.UUID) ([]models.RecurringPayment, error) {
	period, err := s.periodRepo.GetByID(ctx, periodID)
	if err != nil {
		return nil, err
	}
	if period == nil {
		return nil, apperr.NotFound("period not found").WithDetail("period_id", periodID)
	}
	if period.UserID != userID {
		return nil, apperr.Forbidden("period belongs to another user").WithDetail("period_id", periodID)
	}

	payments, err := s.paymentRepo.GetByPeriod(ctx, periodID)
	if err != nil {
		return nil, err
	}
	byExpense := make(map[uuid.UUID]struct{}, len(payments))
	for _, p := range payments {
		byExpense[p.ExpenseID] = struct{}{}
	}

	expenses, err := s.expenseRepo.GetByUserID(ctx, userID, true)
	if err != nil {
		return nil, err
	}
	for i := range expenses {
		if _, ok := byExpense[expenses[i].ID]; ok {
			continue
		}
		payments = append(payments, models.RecurringPayment{
			ExpenseID:  expenses[i].ID,
			PeriodID:   periodID,
			AmountPaid: decimal.Zero,
			Paid:       false,
			Expense:    &expenses[i],
		})
	}
	return payments, nil
}

func (s *recurringService) SearchPayments(ctx context.Context, userID uuid.UUID, filter *models.RecurringPaymentFilter) ([]models.RecurringPayment, error) {
	return s.paymentRepo.GetByFilter(ctx, userID, filter)
}

func (s *recurringService) ownedExpense(ctx context.Context, userID, id uuid.UUID) (*models.RecurringExpense, error) {
	expense, err := s.expenseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if expense == nil {
		return nil, apperr.NotFound("recurring expense not found").WithDetail("expense_id", id)
	}
	if expense.UserID != userID {
		return nil, apperr.Forbidden("recurring expense belongs to another user").WithDetail("expense_id", id)
	}
	return expense, nil
}
