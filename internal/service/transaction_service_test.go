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

type transferFixture struct {
	userID      uuid.UUID
	periodID    uuid.UUID
	instrumentA uuid.UUID
	instrumentB uuid.UUID
	categoryID  uuid.UUID

	periodRepo      *fakePeriodRepo
	transactionRepo *fakeTransactionRepo
	service         TransactionService
}

func newTransferFixture(t *testing.T) *transferFixture {
	t.Helper()

	userID := uuid.New()
	instrumentA := uuid.New()
	instrumentB := uuid.New()
	categoryID := uuid.New()

	periodRepo := newFakePeriodRepo()
	transactionRepo := newFakeTransactionRepo()
	instrumentRepo := newFakeInstrumentRepo(
		&models.PaymentInstrument{ID: instrumentA, UserID: userID, Name: "Efectivo"},
		&models.PaymentInstrument{ID: instrumentB, UserID: userID, Name: "Banco"},
	)
	categoryRepo := newFakeCategoryRepo(&models.Category{
		ID:       categoryID,
		Name:     models.TransferCategoryName,
		Type:     models.CategoryTypeExpense,
		IsSystem: true,
	})

	period := &models.Period{ID: uuid.New(), UserID: userID, Year: 2026, Month: models.MonthFebrero}
	require.NoError(t, periodRepo.Create(context.Background(), period))
	require.NoError(t, periodRepo.InsertBalances(context.Background(), period.ID, []models.InstrumentAmount{
		{InstrumentID: instrumentA, StartingAmount: decimal.NewFromInt(16400)},
		{InstrumentID: instrumentB, StartingAmount: decimal.NewFromInt(30000)},
	}))

	service := NewTransactionService(&fakeTxManager{}, transactionRepo, periodRepo, categoryRepo, instrumentRepo)

	return &transferFixture{
		userID:          userID,
		periodID:        period.ID,
		instrumentA:     instrumentA,
		instrumentB:     instrumentB,
		categoryID:      categoryID,
		periodRepo:      periodRepo,
		transactionRepo: transactionRepo,
		service:         service,
	}
}

func TestTransfer_CreatesBothLegs(t *testing.T) {
	ctx := context.Background()
	f := newTransferFixture(t)

	amount := decimal.NewFromInt(5000)
	result, err := f.service.Transfer(ctx, f.userID, &models.TransferCreate{
		PeriodID:         f.periodID,
		SourceInstrument: f.instrumentA,
		DestInstrument:   f.instrumentB,
		Amount:           amount,
	})
	require.NoError(t, err)

	require.Equal(t, models.TransactionKindExpense, result.Outgoing.Kind)
	require.Equal(t, f.instrumentA, result.Outgoing.InstrumentID)
	require.Equal(t, models.TransactionKindIncome, result.Incoming.Kind)
	require.Equal(t, f.instrumentB, result.Incoming.InstrumentID)
	require.True(t, result.Outgoing.Amount.Equal(amount))
	require.True(t, result.Incoming.Amount.Equal(amount))
	require.Equal(t, f.categoryID, result.Outgoing.CategoryID)
	require.Equal(t, f.categoryID, result.Incoming.CategoryID)

	// описания ссылаются на встречный инструмент
	require.Contains(t, result.Outgoing.Description, "Banco")
	require.Contains(t, result.Incoming.Description, "Efectivo")
}

func TestTransfer_OverallBalanceUnchanged(t *testing.T) {
	ctx := context.Background()
	f := newTransferFixture(t)

	_, err := f.service.Transfer(ctx, f.userID, &models.TransferCreate{
		PeriodID:         f.periodID,
		SourceInstrument: f.instrumentA,
		DestInstrument:   f.instrumentB,
		Amount:           decimal.NewFromInt(5000),
	})
	require.NoError(t, err)

	balances, err := f.periodRepo.GetBalances(ctx, f.periodID)
	require.NoError(t, err)
	transactions, err := f.transactionRepo.GetByPeriod(ctx, f.periodID)
	require.NoError(t, err)
	require.Len(t, transactions, 2)

	result := ComputeBalances(f.periodID, balances, transactions, nil)
	require.True(t, result.Balances[0].CurrentBalance.Equal(decimal.NewFromInt(11400)))
	require.True(t, result.Balances[1].CurrentBalance.Equal(decimal.NewFromInt(35000)))
	require.True(t, result.OverallBalance.Equal(decimal.NewFromInt(46400)))
}

func TestTransfer_SameInstrumentRejected(t *testing.T) {
	ctx := context.Background()
	f := newTransferFixture(t)

	_, err := f.service.Transfer(ctx, f.userID, &models.TransferCreate{
		PeriodID:         f.periodID,
		SourceInstrument: f.instrumentA,
		DestInstrument:   f.instrumentA,
		Amount:           decimal.NewFromInt(100),
	})
	require.Error(t, err)
	require.Equal(t, apperr.CodeValidation, apperr.CodeOf(err))
}

func TestTransfer_ForeignPeriodForbidden(t *testing.T) {
	ctx := context.Background()
	f := newTransferFixture(t)

	_, err := f.service.Transfer(ctx, uuid.New(), &models.TransferCreate{
		PeriodID:         f.periodID,
		SourceInstrument: f.instrumentA,
		DestInstrument:   f.instrumentB,
		Amount:           decimal.NewFromInt(100),
	})
	require.Error(t, err)
	require.Equal(t, apperr.CodeForbidden, apperr.CodeOf(err))
}

func TestTransfer_UnknownInstrumentNotFound(t *testing.T) {
	ctx := context.Background()
	f := newTransferFixture(t)

	_, err := f.service.Transfer(ctx, f.userID, &models.TransferCreate{
		PeriodID:         f.periodID,
		SourceInstrument: f.instrumentA,
		DestInstrument:   uuid.New(),
		Amount:           decimal.NewFromInt(100),
	})
	require.Error(t, err)
	require.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
}

func TestCreateTransaction_Validation(t *testing.T) {
	ctx := context.Background()
	f := newTransferFixture(t)

	// неположительная сумма
	_, err := f.service.Create(ctx, f.userID, &models.TransactionCreate{
		PeriodID:     f.periodID,
		CategoryID:   f.categoryID,
		InstrumentID: f.instrumentA,
		Kind:         models.TransactionKindExpense,
		Amount:       decimal.Zero,
	})
	require.Equal(t, apperr.CodeValidation, apperr.CodeOf(err))

	// неизвестный вид
	_, err = f.service.Create(ctx, f.userID, &models.TransactionCreate{
		PeriodID:     f.periodID,
		CategoryID:   f.categoryID,
		InstrumentID: f.instrumentA,
		Kind:         "TRANSFER",
		Amount:       decimal.NewFromInt(100),
	})
	require.Equal(t, apperr.CodeValidation, apperr.CodeOf(err))

	// чужой инструмент
	_, err = f.service.Create(ctx, f.userID, &models.TransactionCreate{
		PeriodID:     f.periodID,
		CategoryID:   f.categoryID,
		InstrumentID: uuid.New(),
		Kind:         models.TransactionKindExpense,
		Amount:       decimal.NewFromInt(100),
	})
	require.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
}

func TestDeleteTransaction_SoftDeleteHidesFromBalances(t *testing.T) {
	ctx := context.Background()
	f := newTransferFixture(t)

	tx, err := f.service.Create(ctx, f.userID, &models.TransactionCreate{
		PeriodID:     f.periodID,
		CategoryID:   f.categoryID,
		InstrumentID: f.instrumentA,
		Kind:         models.TransactionKindExpense,
		Amount:       decimal.NewFromInt(3600),
	})
	require.NoError(t, err)

	require.NoError(t, f.service.Delete(ctx, f.userID, tx.ID))

	transactions, err := f.transactionRepo.GetByPeriod(ctx, f.periodID)
	require.NoError(t, err)
	require.Empty(t, transactions)

	_, err = f.service.GetByID(ctx, f.userID, tx.ID)
	require.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
}
