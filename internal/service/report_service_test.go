package service

import (
	"context"
	"testing"

	"github.com/dmarto21/finanzas-tracker/internal/apperr"
	"github.com/dmarto21/finanzas-tracker/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestPctVariance(t *testing.T) {
	cases := []struct {
		name     string
		current  int64
		previous int64
		want     int64
	}{
		{"growth", 150, 100, 50},
		{"decline", 50, 100, -50},
		{"zero prev positive current", 500, 0, 100},
		{"both zero", 0, 0, 0},
		{"zero prev zero current", 0, 0, 0},
		{"negative base", 50, -100, 150},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := pctVariance(decimal.NewFromInt(tc.current), decimal.NewFromInt(tc.previous))
			require.True(t, got.Equal(decimal.NewFromInt(tc.want)), "got %s", got)
		})
	}
}

func TestBuildCategoryBreakdown(t *testing.T) {
	comida := uuid.New()
	transporte := uuid.New()
	sueldo := uuid.New()

	transactions := []models.Transaction{
		{CategoryID: comida, Kind: models.TransactionKindExpense, Amount: d(3000)},
		{CategoryID: transporte, Kind: models.TransactionKindExpense, Amount: d(1000)},
		{CategoryID: comida, Kind: models.TransactionKindExpense, Amount: d(1000)},
		// доход в разрез расходов не попадает
		{CategoryID: sueldo, Kind: models.TransactionKindIncome, Amount: d(99999)},
	}
	names := map[uuid.UUID]string{comida: "Supermercado", transporte: "Transporte"}

	result := buildCategoryBreakdown(transactions, d(5000), names)

	require.Len(t, result, 2)
	require.Equal(t, "Supermercado", result[0].CategoryName)
	require.True(t, result[0].Total.Equal(d(4000)))
	require.True(t, result[0].Percentage.Equal(d(80)))
	require.True(t, result[1].Percentage.Equal(d(20)))

	// проценты в сумме дают 100
	sum := decimal.Zero
	for _, e := range result {
		sum = sum.Add(e.Percentage)
	}
	require.True(t, sum.Equal(d(100)))
}

func TestBuildCategoryBreakdown_ZeroExpenseTotal(t *testing.T) {
	category := uuid.New()
	transactions := []models.Transaction{
		{CategoryID: category, Kind: models.TransactionKindIncome, Amount: d(100)},
	}

	result := buildCategoryBreakdown(transactions, decimal.Zero, nil)
	require.Empty(t, result)
}

func TestBuildInstrumentMovements(t *testing.T) {
	efectivo := uuid.New()
	banco := uuid.New()

	transactions := []models.Transaction{
		{InstrumentID: efectivo, Kind: models.TransactionKindExpense, Amount: d(100)},
		{InstrumentID: efectivo, Kind: models.TransactionKindIncome, Amount: d(200)},
		{InstrumentID: efectivo, Kind: models.TransactionKindExpense, Amount: d(300)},
		{InstrumentID: banco, Kind: models.TransactionKindExpense, Amount: d(400)},
	}
	names := map[uuid.UUID]string{efectivo: "Efectivo", banco: "Banco"}

	result := buildInstrumentMovements(transactions, names)

	require.Len(t, result, 2)
	require.Equal(t, "Efectivo", result[0].InstrumentName)
	require.Equal(t, 3, result[0].Count)
	require.True(t, result[0].Total.Equal(d(600)))
	require.True(t, result[0].PercentOfCount.Equal(d(75)))
	require.True(t, result[1].PercentOfCount.Equal(d(25)))
}

type reportFixture struct {
	userID     uuid.UUID
	instrument uuid.UUID
	category   uuid.UUID

	periodRepo      *fakePeriodRepo
	transactionRepo *fakeTransactionRepo
	service         ReportService
}

func newReportFixture(t *testing.T) *reportFixture {
	t.Helper()

	userID := uuid.New()
	instrument := uuid.New()
	category := uuid.New()

	periodRepo := newFakePeriodRepo()
	transactionRepo := newFakeTransactionRepo()
	instrumentRepo := newFakeInstrumentRepo(
		&models.PaymentInstrument{ID: instrument, UserID: userID, Name: "Efectivo"},
	)
	categoryRepo := newFakeCategoryRepo(&models.Category{
		ID: category, Name: "Supermercado", Type: models.CategoryTypeExpense, IsSystem: true,
	})

	return &reportFixture{
		userID:          userID,
		instrument:      instrument,
		category:        category,
		periodRepo:      periodRepo,
		transactionRepo: transactionRepo,
		service:         NewReportService(periodRepo, transactionRepo, categoryRepo, instrumentRepo),
	}
}

func (f *reportFixture) addPeriod(t *testing.T, year int, month models.Month) uuid.UUID {
	t.Helper()
	period := &models.Period{ID: uuid.New(), UserID: f.userID, Year: year, Month: month}
	require.NoError(t, f.periodRepo.Create(context.Background(), period))
	return period.ID
}

func (f *reportFixture) addTx(t *testing.T, periodID uuid.UUID, kind models.TransactionKind, amount int64) {
	t.Helper()
	require.NoError(t, f.transactionRepo.Create(context.Background(), &models.Transaction{
		UserID:       f.userID,
		PeriodID:     periodID,
		CategoryID:   f.category,
		InstrumentID: f.instrument,
		Kind:         kind,
		Amount:       d(amount),
	}))
}

func TestGenerateReport_MissingPeriod(t *testing.T) {
	f := newReportFixture(t)

	_, err := f.service.GenerateReport(context.Background(), f.userID, 2026, models.MonthFebrero)
	require.Error(t, err)
	require.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
}

func TestGenerateReport_NoPriorPeriod(t *testing.T) {
	f := newReportFixture(t)
	periodID := f.addPeriod(t, 2026, models.MonthFebrero)
	f.addTx(t, periodID, models.TransactionKindIncome, 50000)
	f.addTx(t, periodID, models.TransactionKindExpense, 20000)

	report, err := f.service.GenerateReport(context.Background(), f.userID, 2026, models.MonthFebrero)
	require.NoError(t, err)

	require.True(t, report.TotalIncome.Equal(d(50000)))
	require.True(t, report.TotalExpense.Equal(d(20000)))
	require.True(t, report.Balance.Equal(d(30000)))

	require.False(t, report.Comparison.HasPrevious)
	require.Equal(t, 2026, report.Comparison.PrevYear)
	require.Equal(t, models.MonthEnero, report.Comparison.PrevMonth)
	require.True(t, report.Comparison.IncomeVariance.IsZero())
	require.True(t, report.Comparison.ExpenseVariance.IsZero())
	require.True(t, report.Comparison.BalanceVariance.IsZero())
}

func TestGenerateReport_PriorPeriodComparison(t *testing.T) {
	f := newReportFixture(t)

	prev := f.addPeriod(t, 2026, models.MonthEnero)
	f.addTx(t, prev, models.TransactionKindIncome, 40000)
	f.addTx(t, prev, models.TransactionKindExpense, 10000)

	current := f.addPeriod(t, 2026, models.MonthFebrero)
	f.addTx(t, current, models.TransactionKindIncome, 60000)
	f.addTx(t, current, models.TransactionKindExpense, 15000)

	report, err := f.service.GenerateReport(context.Background(), f.userID, 2026, models.MonthFebrero)
	require.NoError(t, err)

	c := report.Comparison
	require.True(t, c.HasPrevious)
	require.True(t, c.PrevIncome.Equal(d(40000)))
	require.True(t, c.PrevExpense.Equal(d(10000)))
	require.True(t, c.PrevBalance.Equal(d(30000)))
	require.True(t, c.IncomeVariance.Equal(d(50)))
	require.True(t, c.ExpenseVariance.Equal(d(50)))
	require.True(t, c.BalanceVariance.Equal(d(50)))
}

func TestGenerateReport_DecemberWrapsToPriorYear(t *testing.T) {
	f := newReportFixture(t)

	prev := f.addPeriod(t, 2025, models.MonthDiciembre)
	f.addTx(t, prev, models.TransactionKindIncome, 10000)

	current := f.addPeriod(t, 2026, models.MonthEnero)
	f.addTx(t, current, models.TransactionKindIncome, 20000)

	report, err := f.service.GenerateReport(context.Background(), f.userID, 2026, models.MonthEnero)
	require.NoError(t, err)

	require.True(t, report.Comparison.HasPrevious)
	require.Equal(t, 2025, report.Comparison.PrevYear)
	require.Equal(t, models.MonthDiciembre, report.Comparison.PrevMonth)
	require.True(t, report.Comparison.IncomeVariance.Equal(d(100)))
}

func TestGenerateReport_TopCategoriesSubsequence(t *testing.T) {
	f := newReportFixture(t)
	periodID := f.addPeriod(t, 2026, models.MonthFebrero)

	// семь категорий с разными суммами
	transactionRepo := f.transactionRepo
	for i := int64(1); i <= 7; i++ {
		require.NoError(t, transactionRepo.Create(context.Background(), &models.Transaction{
			UserID:       f.userID,
			PeriodID:     periodID,
			CategoryID:   uuid.New(),
			InstrumentID: f.instrument,
			Kind:         models.TransactionKindExpense,
			Amount:       d(i * 1000),
		}))
	}

	report, err := f.service.GenerateReport(context.Background(), f.userID, 2026, models.MonthFebrero)
	require.NoError(t, err)

	require.Len(t, report.ByCategory, 7)
	require.Len(t, report.TopCategories, 5)
	for i := range report.TopCategories {
		require.Equal(t, report.ByCategory[i].CategoryID, report.TopCategories[i].CategoryID)
	}
	// сортировка по убыванию
	for i := 1; i < len(report.ByCategory); i++ {
		require.True(t, report.ByCategory[i-1].Total.GreaterThanOrEqual(report.ByCategory[i].Total))
	}
}
