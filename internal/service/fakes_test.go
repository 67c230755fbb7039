package service

import (
	"context"
	"strings"

	"github.com/dmarto21/finanzas-tracker/internal/models"
	"github.com/google/uuid"
)

// ин-мемори реализации репозиториев для сервисных тестов

type fakeTxManager struct{}

func (m *fakeTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakePeriodRepo struct {
	periods   map[uuid.UUID]*models.Period
	balances  map[uuid.UUID][]models.PeriodBalance
	createErr error // подменяет результат Create, для имитации ошибок БД
}

func newFakePeriodRepo() *fakePeriodRepo {
	return &fakePeriodRepo{
		periods:  make(map[uuid.UUID]*models.Period),
		balances: make(map[uuid.UUID][]models.PeriodBalance),
	}
}

func (r *fakePeriodRepo) Create(_ context.Context, period *models.Period) error {
	if r.createErr != nil {
		return r.createErr
	}
	if period.ID == uuid.Nil {
		period.ID = uuid.New()
	}
	copied := *period
	r.periods[period.ID] = &copied
	return nil
}

func (r *fakePeriodRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Period, error) {
	period, ok := r.periods[id]
	if !ok {
		return nil, nil
	}
	copied := *period
	return &copied, nil
}

func (r *fakePeriodRepo) FindByMonth(_ context.Context, userID uuid.UUID, year int, month models.Month) (*models.Period, error) {
	for _, p := range r.periods {
		if p.UserID == userID && p.Year == year && p.Month == month {
			copied := *p
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakePeriodRepo) GetByUserID(_ context.Context, userID uuid.UUID) ([]models.Period, error) {
	var result []models.Period
	for _, p := range r.periods {
		if p.UserID == userID {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (r *fakePeriodRepo) Update(_ context.Context, id uuid.UUID, year int, month models.Month) error {
	if p, ok := r.periods[id]; ok {
		p.Year = year
		p.Month = month
	}
	return nil
}

func (r *fakePeriodRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.periods, id)
	return nil
}

func (r *fakePeriodRepo) InsertBalances(_ context.Context, periodID uuid.UUID, amounts []models.InstrumentAmount) error {
	for _, a := range amounts {
		r.balances[periodID] = append(r.balances[periodID], models.PeriodBalance{
			ID:             uuid.New(),
			PeriodID:       periodID,
			InstrumentID:   a.InstrumentID,
			StartingAmount: a.StartingAmount,
		})
	}
	return nil
}

func (r *fakePeriodRepo) GetBalances(_ context.Context, periodID uuid.UUID) ([]models.PeriodBalance, error) {
	return r.balances[periodID], nil
}

func (r *fakePeriodRepo) SoftDeleteBalances(_ context.Context, periodID uuid.UUID) error {
	r.balances[periodID] = nil
	return nil
}

type fakeInstrumentRepo struct {
	instruments map[uuid.UUID]*models.PaymentInstrument
}

func newFakeInstrumentRepo(instruments ...*models.PaymentInstrument) *fakeInstrumentRepo {
	repo := &fakeInstrumentRepo{instruments: make(map[uuid.UUID]*models.PaymentInstrument)}
	for _, i := range instruments {
		repo.instruments[i.ID] = i
	}
	return repo
}

func (r *fakeInstrumentRepo) Create(_ context.Context, instrument *models.PaymentInstrument) error {
	if instrument.ID == uuid.Nil {
		instrument.ID = uuid.New()
	}
	copied := *instrument
	r.instruments[instrument.ID] = &copied
	return nil
}

func (r *fakeInstrumentRepo) GetByID(_ context.Context, id uuid.UUID) (*models.PaymentInstrument, error) {
	instrument, ok := r.instruments[id]
	if !ok {
		return nil, nil
	}
	copied := *instrument
	return &copied, nil
}

func (r *fakeInstrumentRepo) GetByUserID(_ context.Context, userID uuid.UUID) ([]models.PaymentInstrument, error) {
	var result []models.PaymentInstrument
	for _, i := range r.instruments {
		if i.UserID == userID {
			result = append(result, *i)
		}
	}
	return result, nil
}

func (r *fakeInstrumentRepo) Update(_ context.Context, id uuid.UUID, update *models.InstrumentUpdate) error {
	if i, ok := r.instruments[id]; ok {
		if update.Name != nil {
			i.Name = *update.Name
		}
		if update.IsActive != nil {
			i.IsActive = *update.IsActive
		}
	}
	return nil
}

func (r *fakeInstrumentRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.instruments, id)
	return nil
}

type fakeCategoryRepo struct {
	categories map[uuid.UUID]*models.Category
}

func newFakeCategoryRepo(categories ...*models.Category) *fakeCategoryRepo {
	repo := &fakeCategoryRepo{categories: make(map[uuid.UUID]*models.Category)}
	for _, c := range categories {
		repo.categories[c.ID] = c
	}
	return repo
}

func (r *fakeCategoryRepo) Create(_ context.Context, category *models.Category) error {
	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}
	copied := *category
	r.categories[category.ID] = &copied
	return nil
}

func (r *fakeCategoryRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Category, error) {
	category, ok := r.categories[id]
	if !ok {
		return nil, nil
	}
	copied := *category
	return &copied, nil
}

func (r *fakeCategoryRepo) GetByUserID(_ context.Context, userID uuid.UUID) ([]models.Category, error) {
	var result []models.Category
	for _, c := range r.categories {
		if c.IsSystem || (c.UserID != nil && *c.UserID == userID) {
			result = append(result, *c)
		}
	}
	return result, nil
}

func (r *fakeCategoryRepo) GetByType(_ context.Context, userID uuid.UUID, categoryType models.CategoryType) ([]models.Category, error) {
	all, _ := r.GetByUserID(context.Background(), userID)
	var result []models.Category
	for _, c := range all {
		if c.Type == categoryType {
			result = append(result, c)
		}
	}
	return result, nil
}

func (r *fakeCategoryRepo) GetSystemByName(_ context.Context, name string) (*models.Category, error) {
	for _, c := range r.categories {
		if c.IsSystem && c.Name == name {
			copied := *c
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeCategoryRepo) Update(_ context.Context, id uuid.UUID, update *models.CategoryUpdate) error {
	if c, ok := r.categories[id]; ok && update.Name != nil {
		c.Name = *update.Name
	}
	return nil
}

func (r *fakeCategoryRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.categories, id)
	return nil
}

type fakeTransactionRepo struct {
	transactions map[uuid.UUID]*models.Transaction
	order        []uuid.UUID
}

func newFakeTransactionRepo() *fakeTransactionRepo {
	return &fakeTransactionRepo{transactions: make(map[uuid.UUID]*models.Transaction)}
}

func (r *fakeTransactionRepo) Create(_ context.Context, tx *models.Transaction) error {
	if tx.ID == uuid.Nil {
		tx.ID = uuid.New()
	}
	copied := *tx
	r.transactions[tx.ID] = &copied
	r.order = append(r.order, tx.ID)
	return nil
}

func (r *fakeTransactionRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Transaction, error) {
	tx, ok := r.transactions[id]
	if !ok || tx.DeletedAt != nil {
		return nil, nil
	}
	copied := *tx
	return &copied, nil
}

func (r *fakeTransactionRepo) GetByPeriod(_ context.Context, periodID uuid.UUID) ([]models.Transaction, error) {
	var result []models.Transaction
	for _, id := range r.order {
		tx := r.transactions[id]
		if tx.PeriodID == periodID && tx.DeletedAt == nil {
			result = append(result, *tx)
		}
	}
	return result, nil
}

func (r *fakeTransactionRepo) GetByFilter(_ context.Context, userID uuid.UUID, _ *models.TransactionFilter) (*models.TransactionList, error) {
	list := &models.TransactionList{Page: 1}
	for _, id := range r.order {
		tx := r.transactions[id]
		if tx.UserID == userID && tx.DeletedAt == nil {
			list.Transactions = append(list.Transactions, *tx)
			list.Total++
		}
	}
	return list, nil
}

func (r *fakeTransactionRepo) Update(_ context.Context, id uuid.UUID, update *models.TransactionUpdate) error {
	tx, ok := r.transactions[id]
	if !ok {
		return nil
	}
	if update.Amount != nil {
		tx.Amount = *update.Amount
	}
	if update.Kind != nil {
		tx.Kind = *update.Kind
	}
	if update.CategoryID != nil {
		tx.CategoryID = *update.CategoryID
	}
	if update.InstrumentID != nil {
		tx.InstrumentID = *update.InstrumentID
	}
	if update.Description != nil {
		tx.Description = *update.Description
	}
	return nil
}

func (r *fakeTransactionRepo) Delete(_ context.Context, id uuid.UUID) error {
	if tx, ok := r.transactions[id]; ok {
		now := tx.Date
		tx.DeletedAt = &now
	}
	return nil
}

type fakeExpenseRepo struct {
	expenses map[uuid.UUID]*models.RecurringExpense
}

func newFakeExpenseRepo() *fakeExpenseRepo {
	return &fakeExpenseRepo{expenses: make(map[uuid.UUID]*models.RecurringExpense)}
}

func (r *fakeExpenseRepo) Create(_ context.Context, expense *models.RecurringExpense) error {
	if expense.ID == uuid.Nil {
		expense.ID = uuid.New()
	}
	copied := *expense
	r.expenses[expense.ID] = &copied
	return nil
}

func (r *fakeExpenseRepo) GetByID(_ context.Context, id uuid.UUID) (*models.RecurringExpense, error) {
	expense, ok := r.expenses[id]
	if !ok || expense.DeletedAt != nil {
		return nil, nil
	}
	copied := *expense
	return &copied, nil
}

func (r *fakeExpenseRepo) GetByName(_ context.Context, userID uuid.UUID, name string) (*models.RecurringExpense, error) {
	for _, e := range r.expenses {
		if e.UserID == userID && e.DeletedAt == nil && strings.EqualFold(e.Name, name) {
			copied := *e
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeExpenseRepo) GetByUserID(_ context.Context, userID uuid.UUID, activeOnly bool) ([]models.RecurringExpense, error) {
	var result []models.RecurringExpense
	for _, e := range r.expenses {
		if e.UserID != userID || e.DeletedAt != nil {
			continue
		}
		if activeOnly && !e.IsActive {
			continue
		}
		result = append(result, *e)
	}
	return result, nil
}

func (r *fakeExpenseRepo) Update(_ context.Context, id uuid.UUID, update *models.RecurringExpenseUpdate) error {
	e, ok := r.expenses[id]
	if !ok {
		return nil
	}
	if update.Name != nil {
		e.Name = *update.Name
	}
	if update.FixedAmount != nil {
		e.FixedAmount = update.FixedAmount
	}
	if update.IsActive != nil {
		e.IsActive = *update.IsActive
	}
	if update.IsAutoDebit != nil {
		e.IsAutoDebit = *update.IsAutoDebit
	}
	if update.InstrumentID != nil {
		e.InstrumentID = update.InstrumentID
	}
	if update.CategoryID != nil {
		e.CategoryID = *update.CategoryID
	}
	return nil
}

func (r *fakeExpenseRepo) Delete(_ context.Context, id uuid.UUID) error {
	if e, ok := r.expenses[id]; ok {
		now := e.CreatedAt
		e.DeletedAt = &now
	}
	return nil
}

type fakePaymentRepo struct {
	payments map[uuid.UUID]*models.RecurringPayment
	expenses *fakeExpenseRepo
}

func newFakePaymentRepo(expenses *fakeExpenseRepo) *fakePaymentRepo {
	return &fakePaymentRepo{
		payments: make(map[uuid.UUID]*models.RecurringPayment),
		expenses: expenses,
	}
}

func (r *fakePaymentRepo) Create(_ context.Context, payment *models.RecurringPayment) error {
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	copied := *payment
	r.payments[payment.ID] = &copied
	return nil
}

func (r *fakePaymentRepo) GetByID(_ context.Context, id uuid.UUID) (*models.RecurringPayment, error) {
	payment, ok := r.payments[id]
	if !ok {
		return nil, nil
	}
	copied := *payment
	return &copied, nil
}

func (r *fakePaymentRepo) GetByPeriod(_ context.Context, periodID uuid.UUID) ([]models.RecurringPayment, error) {
	var result []models.RecurringPayment
	for _, p := range r.payments {
		if p.PeriodID != periodID {
			continue
		}
		copied := *p
		if r.expenses != nil {
			if e, ok := r.expenses.expenses[p.ExpenseID]; ok {
				expenseCopy := *e
				copied.Expense = &expenseCopy
			}
		}
		result = append(result, copied)
	}
	return result, nil
}

func (r *fakePaymentRepo) GetExpenseIDsByPeriod(_ context.Context, periodID uuid.UUID) ([]uuid.UUID, error) {
	var result []uuid.UUID
	for _, p := range r.payments {
		if p.PeriodID == periodID {
			result = append(result, p.ExpenseID)
		}
	}
	return result, nil
}

func (r *fakePaymentRepo) GetByFilter(_ context.Context, userID uuid.UUID, filter *models.RecurringPaymentFilter) ([]models.RecurringPayment, error) {
	var result []models.RecurringPayment
	for _, p := range r.payments {
		if filter.PeriodID != nil && p.PeriodID != *filter.PeriodID {
			continue
		}
		if filter.ExpenseID != nil && p.ExpenseID != *filter.ExpenseID {
			continue
		}
		if filter.Paid != nil && p.Paid != *filter.Paid {
			continue
		}
		result = append(result, *p)
	}
	return result, nil
}

func (r *fakePaymentRepo) Update(_ context.Context, id uuid.UUID, update *models.RecurringPaymentUpdate) error {
	p, ok := r.payments[id]
	if !ok {
		return nil
	}
	if update.AmountPaid != nil {
		p.AmountPaid = *update.AmountPaid
	}
	if update.Paid != nil {
		p.Paid = *update.Paid
	}
	if update.InstrumentID != nil {
		p.InstrumentID = update.InstrumentID
	}
	return nil
}

type fakeSummaryRepo struct {
	summaries map[uuid.UUID]*models.PeriodSummary // ключ period_id
}

func newFakeSummaryRepo() *fakeSummaryRepo {
	return &fakeSummaryRepo{summaries: make(map[uuid.UUID]*models.PeriodSummary)}
}

func (r *fakeSummaryRepo) Create(_ context.Context, summary *models.PeriodSummary) error {
	if summary.ID == uuid.Nil {
		summary.ID = uuid.New()
	}
	copied := *summary
	r.summaries[summary.PeriodID] = &copied
	return nil
}

func (r *fakeSummaryRepo) GetByPeriod(_ context.Context, periodID uuid.UUID) (*models.PeriodSummary, error) {
	summary, ok := r.summaries[periodID]
	if !ok {
		return nil, nil
	}
	copied := *summary
	return &copied, nil
}

func (r *fakeSummaryRepo) UpdateTotals(_ context.Context, id uuid.UUID, summary *models.PeriodSummary) error {
	for _, s := range r.summaries {
		if s.ID == id {
			s.TotalAmount = summary.TotalAmount
			s.TotalPaid = summary.TotalPaid
			s.CountTotal = summary.CountTotal
			s.CountPaid = summary.CountPaid
		}
	}
	return nil
}
