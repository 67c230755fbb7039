package service

import (
	"context"
	"sort"

	"github.com/dmarto21/finanzas-tracker/internal/apperr"
	"github.com/dmarto21/finanzas-tracker/internal/models"
	"github.com/dmarto21/finanzas-tracker/internal/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

type ReportService interface {
	GenerateReport(ctx context.Context, userID uuid.UUID, year int, month models.Month) (*models.MonthlyReport, error)
}

type reportService struct {
	periodRepo      repository.PeriodRepository
	transactionRepo repository.TransactionRepository
	categoryRepo    repository.CategoryRepository
	instrumentRepo  repository.InstrumentRepository
}

func NewReportService(
	periodRepo repository.PeriodRepository,
	transactionRepo repository.TransactionRepository,
	categoryRepo repository.CategoryRepository,
	instrumentRepo repository.InstrumentRepository,
) ReportService {
	return &reportService{
		periodRepo:      periodRepo,
		transactionRepo: transactionRepo,
		categoryRepo:    categoryRepo,
		instrumentRepo:  instrumentRepo,
	}
}

func (s *reportService) GenerateReport(ctx context.Context, userID uuid.UUID, year int, month models.Month) (*models.MonthlyReport, error) {
	if !month.Valid() {
		return nil, apperr.Validation("unknown month").WithDetail("month", month)
	}

	period, err := s.periodRepo.FindByMonth(ctx, userID, year, month)
	if err != nil {
		return nil, err
	}
	if period == nil {
		return nil, apperr.NotFound("period not found").
			WithDetail("year", year).
			WithDetail("month", month)
	}

	transactions, err := s.transactionRepo.GetByPeriod(ctx, period.ID)
	if err != nil {
		return nil, err
	}
	balances, err := s.periodRepo.GetBalances(ctx, period.ID)
	if err != nil {
		return nil, err
	}

	categoryNames, err := s.categoryNames(ctx, userID)
	if err != nil {
		return nil, err
	}
	instrumentNames, err := s.instrumentNames(ctx, userID)
	if err != nil {
		return nil, err
	}

	totalIncome, totalExpense := sumByKind(transactions)
	byCategory := buildCategoryBreakdown(transactions, totalExpense, categoryNames)
	top := byCategory
	if len(top) > 5 {
		top = top[:5]
	}

	report := &models.MonthlyReport{
		Year:               year,
		Month:              month,
		TotalIncome:        totalIncome,
		TotalExpense:       totalExpense,
		Balance:            totalIncome.Sub(totalExpense),
		InstrumentBalances: ComputeBalances(period.ID, balances, transactions, instrumentNames).Balances,
		ByCategory:         byCategory,
		TopCategories:      top,
		ByInstrument:       buildInstrumentMovements(transactions, instrumentNames),
	}

	report.Comparison, err = s.buildComparison(ctx, userID, year, month, totalIncome, totalExpense, report.Balance)
	if err != nil {
		return nil, err
	}
	return report, nil
}

func (s *reportService) buildComparison(ctx context.Context, userID uuid.UUID, year int, month models.Month, income, expense, balance decimal.Decimal) (models.PeriodComparison, error) {
	prevYear, prevMonth := models.PrevPeriod(year, month)
	comparison := models.PeriodComparison{PrevYear: prevYear, PrevMonth: prevMonth}

	prev, err := s.periodRepo.FindByMonth(ctx, userID, prevYear, prevMonth)
	if err != nil {
		return comparison, err
	}
	if prev == nil {
		// нет прошлого периода - нулевые отклонения, сравнивать не с чем
		return comparison, nil
	}

	prevTransactions, err := s.transactionRepo.GetByPeriod(ctx, prev.ID)
	if err != nil {
		return comparison, err
	}
	prevIncome, prevExpense := sumByKind(prevTransactions)

	comparison.HasPrevious = true
	comparison.PrevIncome = prevIncome
	comparison.PrevExpense = prevExpense
	comparison.PrevBalance = prevIncome.Sub(prevExpense)
	comparison.IncomeVariance = pctVariance(income, prevIncome)
	comparison.ExpenseVariance = pctVariance(expense, prevExpense)
	comparison.BalanceVariance = pctVariance(balance, comparison.PrevBalance)
	return comparison, nil
}

func sumByKind(transactions []models.Transaction) (income, expense decimal.Decimal) {
	for _, tx := range transactions {
		switch tx.Kind {
		case models.TransactionKindIncome:
			income = income.Add(tx.Amount)
		case models.TransactionKindExpense:
			expense = expense.Add(tx.Amount)
		}
	}
	return income, expense
}

// buildCategoryBreakdown разрез только по расходам, по убыванию суммы
func buildCategoryBreakdown(transactions []models.Transaction, totalExpense decimal.Decimal, categoryNames map[uuid.UUID]string) []models.CategoryExpense {
	totals := make(map[uuid.UUID]decimal.Decimal)
	var order []uuid.UUID
	for _, tx := range transactions {
		if tx.Kind != models.TransactionKindExpense {
			continue
		}
		if _, ok := totals[tx.CategoryID]; !ok {
			order = append(order, tx.CategoryID)
		}
		totals[tx.CategoryID] = totals[tx.CategoryID].Add(tx.Amount)
	}

	result := make([]models.CategoryExpense, 0, len(order))
	for _, id := range order {
		entry := models.CategoryExpense{
			CategoryID:   id,
			CategoryName: categoryNames[id],
			Total:        totals[id],
		}
		if totalExpense.GreaterThan(decimal.Zero) {
			entry.Percentage = entry.Total.Div(totalExpense).Mul(hundred)
		}
		result = append(result, entry)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Total.GreaterThan(result[j].Total)
	})
	return result
}

// buildInstrumentMovements разрез по числу движений, обе стороны леджера
func buildInstrumentMovements(transactions []models.Transaction, instrumentNames map[uuid.UUID]string) []models.InstrumentMovement {
	type acc struct {
		count int
		total decimal.Decimal
	}
	totals := make(map[uuid.UUID]*acc)
	var order []uuid.UUID
	for _, tx := range transactions {
		a, ok := totals[tx.InstrumentID]
		if !ok {
			a = &acc{}
			totals[tx.InstrumentID] = a
			order = append(order, tx.InstrumentID)
		}
		a.count++
		a.total = a.total.Add(tx.Amount)
	}

	totalCount := decimal.NewFromInt(int64(len(transactions)))
	result := make([]models.InstrumentMovement, 0, len(order))
	for _, id := range order {
		a := totals[id]
		entry := models.InstrumentMovement{
			InstrumentID:   id,
			InstrumentName: instrumentNames[id],
			Count:          a.count,
			Total:          a.total,
		}
		if len(transactions) > 0 {
			entry.PercentOfCount = decimal.NewFromInt(int64(a.count)).Div(totalCount).Mul(hundred)
		}
		result = append(result, entry)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Count > result[j].Count
	})
	return result
}

// pctVariance (текущее - прошлое) / |прошлое| * 100. Деление на модуль:
// баланс бывает отрицательным, знак отклонения должен отражать направление
// изменения, а не знак базы
func pctVariance(current, previous decimal.Decimal) decimal.Decimal {
	if previous.IsZero() {
		if current.GreaterThan(decimal.Zero) {
			return hundred
		}
		return decimal.Zero
	}
	return current.Sub(previous).Div(previous.Abs()).Mul(hundred)
}

func (s *reportService) categoryNames(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]string, error) {
	categories, err := s.categoryRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	names := make(map[uuid.UUID]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}
	return names, nil
}

func (s *reportService) instrumentNames(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]string, error) {
	instruments, err := s.instrumentRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	names := make(map[uuid.UUID]string, len(instruments))
	for _, i := range instruments {
		names[i.ID] = i.Name
	}
	return names, nil
}
