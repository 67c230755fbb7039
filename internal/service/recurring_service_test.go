package service

import (
	"context"
	"testing"
	"time"

	"github.com/dmarto21/finanzas-tracker/internal/apperr"
	"github.com/dmarto21/finanzas-tracker/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type recurringFixture struct {
	userID      uuid.UUID
	periodID    uuid.UUID
	categoryID  uuid.UUID
	expenseRepo *fakeExpenseRepo
	paymentRepo *fakePaymentRepo
	periodRepo  *fakePeriodRepo
	summaryRepo *fakeSummaryRepo
	service     RecurringService
	summary     SummaryService
}

func newRecurringFixture(t *testing.T) *recurringFixture {
	t.Helper()

	userID := uuid.New()
	categoryID := uuid.New()

	expenseRepo := newFakeExpenseRepo()
	paymentRepo := newFakePaymentRepo(expenseRepo)
	periodRepo := newFakePeriodRepo()
	summaryRepo := newFakeSummaryRepo()
	instrumentRepo := newFakeInstrumentRepo()
	categoryRepo := newFakeCategoryRepo(&models.Category{
		ID: categoryID, Name: "Servicios", Type: models.CategoryTypeExpense, IsSystem: true,
	})

	now := time.Now()
	period := &models.Period{
		ID:     uuid.New(),
		UserID: userID,
		Year:   now.Year(),
		Month:  models.MonthFromTime(now.Month()),
	}
	require.NoError(t, periodRepo.Create(context.Background(), period))

	summary := NewSummaryService(summaryRepo, paymentRepo)
	service := NewRecurringService(expenseRepo, paymentRepo, periodRepo, instrumentRepo, categoryRepo, summary)

	return &recurringFixture{
		userID:      userID,
		periodID:    period.ID,
		categoryID:  categoryID,
		expenseRepo: expenseRepo,
		paymentRepo: paymentRepo,
		periodRepo:  periodRepo,
		summaryRepo: summaryRepo,
		service:     service,
		summary:     summary,
	}
}

func (f *recurringFixture) addExpense(t *testing.T, name string, fixedAmount *decimal.Decimal) *models.RecurringExpense {
	t.Helper()
	expense := &models.RecurringExpense{
		ID:          uuid.New(),
		UserID:      f.userID,
		Name:        name,
		FixedAmount: fixedAmount,
		IsActive:    true,
		CategoryID:  f.categoryID,
	}
	require.NoError(t, f.expenseRepo.Create(context.Background(), expense))
	return expense
}

func TestProvisionForPeriod_Idempotent(t *testing.T) {
	ctx := context.Background()
	f := newRecurringFixture(t)

	amount := decimal.NewFromInt(5000)
	f.addExpense(t, "Internet", &amount)
	f.addExpense(t, "Alquiler", nil)

	inserted, err := f.service.ProvisionForPeriod(ctx, f.periodID, f.userID)
	require.NoError(t, err)
	require.Equal(t, 2, inserted)

	ids, err := f.paymentRepo.GetExpenseIDsByPeriod(ctx, f.periodID)
	require.NoError(t, err)
	countAfterFirst := len(ids)

	// повторный вызов ничего не добавляет и не падает
	inserted, err = f.service.ProvisionForPeriod(ctx, f.periodID, f.userID)
	require.NoError(t, err)
	require.Zero(t, inserted)

	ids, err = f.paymentRepo.GetExpenseIDsByPeriod(ctx, f.periodID)
	require.NoError(t, err)
	require.Equal(t, countAfterFirst, len(ids))
}

func TestProvisionForPeriod_ForeignPeriodForbidden(t *testing.T) {
	ctx := context.Background()
	f := newRecurringFixture(t)

	outsider := uuid.New()
	outsiderExpense := &models.RecurringExpense{
		ID:         uuid.New(),
		UserID:     outsider,
		Name:       "Internet",
		IsActive:   true,
		CategoryID: f.categoryID,
	}
	require.NoError(t, f.expenseRepo.Create(ctx, outsiderExpense))

	// чужой период: свои обязательства туда не попадают
	_, err := f.service.ProvisionForPeriod(ctx, f.periodID, outsider)
	require.Error(t, err)
	require.Equal(t, apperr.CodeForbidden, apperr.CodeOf(err))

	ids, err := f.paymentRepo.GetExpenseIDsByPeriod(ctx, f.periodID)
	require.NoError(t, err)
	require.Empty(t, ids)

	_, err = f.service.ProvisionForPeriod(ctx, uuid.New(), f.userID)
	require.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
}

func TestProvisionForPeriod_RecalculatesSummary(t *testing.T) {
	ctx := context.Background()
	f := newRecurringFixture(t)

	require.NoError(t, f.summary.Initialize(ctx, f.periodID, f.userID))
	before, err := f.summaryRepo.GetByPeriod(ctx, f.periodID)
	require.NoError(t, err)
	require.Zero(t, before.CountTotal)

	f.addExpense(t, "Internet", nil)
	inserted, err := f.service.ProvisionForPeriod(ctx, f.periodID, f.userID)
	require.NoError(t, err)
	require.Equal(t, 1, inserted)

	after, err := f.summaryRepo.GetByPeriod(ctx, f.periodID)
	require.NoError(t, err)
	require.Equal(t, 1, after.CountTotal)
}

func TestProvisionForPeriod_SkipsInactive(t *testing.T) {
	ctx := context.Background()
	f := newRecurringFixture(t)

	active := f.addExpense(t, "Internet", nil)
	inactive := f.addExpense(t, "Gimnasio", nil)
	off := false
	require.NoError(t, f.expenseRepo.Update(ctx, inactive.ID, &models.RecurringExpenseUpdate{IsActive: &off}))

	inserted, err := f.service.ProvisionForPeriod(ctx, f.periodID, f.userID)
	require.NoError(t, err)
	require.Equal(t, 1, inserted)

	ids, err := f.paymentRepo.GetExpenseIDsByPeriod(ctx, f.periodID)
	require.NoError(t, err)
	require.Equal(t, []uuid.UUID{active.ID}, ids)
}

func TestProvisionForPeriod_FillsOnlyMissing(t *testing.T) {
	ctx := context.Background()
	f := newRecurringFixture(t)

	first := f.addExpense(t, "Internet", nil)
	_, err := f.service.ProvisionForPeriod(ctx, f.periodID, f.userID)
	require.NoError(t, err)

	second := f.addExpense(t, "Luz", nil)
	inserted, err := f.service.ProvisionForPeriod(ctx, f.periodID, f.userID)
	require.NoError(t, err)
	require.Equal(t, 1, inserted)

	ids, err := f.paymentRepo.GetExpenseIDsByPeriod(ctx, f.periodID)
	require.NoError(t, err)
	require.ElementsMatch(t, []uuid.UUID{first.ID, second.ID}, ids)
}

func TestUpdatePayment_DerivesFixedAmountOnPaid(t *testing.T) {
	ctx := context.Background()
	f := newRecurringFixture(t)

	fixed := decimal.NewFromInt(5000)
	expense := f.addExpense(t, "Internet", &fixed)

	_, err := f.service.ProvisionForPeriod(ctx, f.periodID, f.userID)
	require.NoError(t, err)
	require.NoError(t, f.summary.Initialize(ctx, f.periodID, f.userID))

	ids, _ := f.paymentRepo.GetExpenseIDsByPeriod(ctx, f.periodID)
	require.Equal(t, []uuid.UUID{expense.ID}, ids)
	var paymentID uuid.UUID
	for id := range f.paymentRepo.payments {
		paymentID = id
	}

	paid := true
	payment, err := f.service.UpdatePayment(ctx, f.userID, paymentID, &models.RecurringPaymentUpdate{Paid: &paid})
	require.NoError(t, err)

	// сумма выводится из фиксированной суммы обязательства
	require.True(t, payment.Paid)
	require.True(t, payment.AmountPaid.Equal(fixed))

	summary, err := f.summary.GetByPeriod(ctx, f.userID, f.periodID)
	require.NoError(t, err)
	require.True(t, summary.TotalPaid.Equal(fixed))
	require.Equal(t, 1, summary.CountPaid)
}

func TestUpdatePayment_VariableAmountRequiresExplicitValue(t *testing.T) {
	ctx := context.Background()
	f := newRecurringFixture(t)

	f.addExpense(t, "Supermercado", nil)
	_, err := f.service.ProvisionForPeriod(ctx, f.periodID, f.userID)
	require.NoError(t, err)

	var paymentID uuid.UUID
	for id := range f.paymentRepo.payments {
		paymentID = id
	}

	paid := true
	_, err = f.service.UpdatePayment(ctx, f.userID, paymentID, &models.RecurringPaymentUpdate{Paid: &paid})
	require.Error(t, err)
	require.Equal(t, apperr.CodeValidation, apperr.CodeOf(err))

	// с явной суммой проходит
	amount := decimal.NewFromInt(12300)
	payment, err := f.service.UpdatePayment(ctx, f.userID, paymentID, &models.RecurringPaymentUpdate{Paid: &paid, AmountPaid: &amount})
	require.NoError(t, err)
	require.True(t, payment.AmountPaid.Equal(amount))
}

func TestUpdatePayment_ForeignUserForbidden(t *testing.T) {
	ctx := context.Background()
	f := newRecurringFixture(t)

	f.addExpense(t, "Internet", nil)
	_, err := f.service.ProvisionForPeriod(ctx, f.periodID, f.userID)
	require.NoError(t, err)

	var paymentID uuid.UUID
	for id := range f.paymentRepo.payments {
		paymentID = id
	}

	paid := true
	_, err = f.service.UpdatePayment(ctx, uuid.New(), paymentID, &models.RecurringPaymentUpdate{Paid: &paid})
	require.Error(t, err)
	require.Equal(t, apperr.CodeForbidden, apperr.CodeOf(err))
}

func TestCreateExpense_ProvisionsCurrentPeriod(t *testing.T) {
	ctx := context.Background()
	f := newRecurringFixture(t)

	expense, err := f.service.Create(ctx, f.userID, &models.RecurringExpenseCreate{
		Name:       "Internet",
		CategoryID: f.categoryID,
	})
	require.NoError(t, err)

	ids, err := f.paymentRepo.GetExpenseIDsByPeriod(ctx, f.periodID)
	require.NoError(t, err)
	require.Equal(t, []uuid.UUID{expense.ID}, ids)
}

func TestCreateExpense_DuplicateNameConflict(t *testing.T) {
	ctx := context.Background()
	f := newRecurringFixture(t)

	_, err := f.service.Create(ctx, f.userID, &models.RecurringExpenseCreate{
		Name:       "Internet",
		CategoryID: f.categoryID,
	})
	require.NoError(t, err)

	// имя уникально без учета регистра
	_, err = f.service.Create(ctx, f.userID, &models.RecurringExpenseCreate{
		Name:       "INTERNET",
		CategoryID: f.categoryID,
	})
	require.Error(t, err)
	require.Equal(t, apperr.CodeConflict, apperr.CodeOf(err))
}

func TestCreateExpense_AutoDebitRequiresInstrument(t *testing.T) {
	ctx := context.Background()
	f := newRecurringFixture(t)

	_, err := f.service.Create(ctx, f.userID, &models.RecurringExpenseCreate{
		Name:        "Alquiler",
		IsAutoDebit: true,
		CategoryID:  f.categoryID,
	})
	require.Error(t, err)
	require.Equal(t, apperr.CodeValidation, apperr.CodeOf(err))
}

func TestPaymentsForPeriod_PlaceholdersForUnprovisioned(t *testing.T) {
	ctx := context.Background()
	f := newRecurringFixture(t)

	provisioned := f.addExpense(t, "Internet", nil)
	_, err := f.service.ProvisionForPeriod(ctx, f.periodID, f.userID)
	require.NoError(t, err)

	pending := f.addExpense(t, "Luz", nil)

	payments, err := f.service.PaymentsForPeriod(ctx, f.userID, f.periodID)
	require.NoError(t, err)
	require.Len(t, payments, 2)

	byExpense := make(map[uuid.UUID]models.RecurringPayment)
	for _, p := range payments {
		byExpense[p.ExpenseID] = p
	}

	require.NotEqual(t, uuid.Nil, byExpense[provisioned.ID].ID)

	placeholder := byExpense[pending.ID]
	require.Equal(t, uuid.Nil, placeholder.ID)
	require.False(t, placeholder.Paid)
	require.True(t, placeholder.AmountPaid.IsZero())
	require.NotNil(t, placeholder.Expense)
}
