package service

import (
	"context"
	"fmt"
	"time"

	"github.com/dmarto21/finanzas-tracker/internal/apperr"
	"github.com/dmarto21/finanzas-tracker/internal/models"
	"github.com/dmarto21/finanzas-tracker/internal/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionService interface {
	Create(ctx context.Context, userID uuid.UUID, input *models.TransactionCreate) (*models.Transaction, error)
	GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Transaction, error)
	GetByFilter(ctx context.Context, userID uuid.UUID, filter *models.TransactionFilter) (*models.TransactionList, error)
	Update(ctx context.Context, userID, id uuid.UUID, update *models.TransactionUpdate) (*models.Transaction, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	Transfer(ctx context.Context, userID uuid.UUID, input *models.TransferCreate) (*models.TransferResult, error)
}

type transactionService struct {
	txManager       repository.TxManager
	transactionRepo repository.TransactionRepository
	periodRepo      repository.PeriodRepository
	categoryRepo    repository.CategoryRepository
	instrumentRepo  repository.InstrumentRepository
}

func NewTransactionService(
	txManager repository.TxManager,
	transactionRepo repository.TransactionRepository,
	periodRepo repository.PeriodRepository,
	categoryRepo repository.CategoryRepository,
	instrumentRepo repository.InstrumentRepository,
) TransactionService {
	return &transactionService{
		txManager:       txManager,
		transactionRepo: transactionRepo,
		periodRepo:      periodRepo,
		categoryRepo:    categoryRepo,
		instrumentRepo:  instrumentRepo,
	}
}

func (s *transactionService) Create(ctx context.Context, userID uuid.UUID, input *models.TransactionCreate) (*models.Transaction, error) {
	if input.Kind != models.TransactionKindIncome && input.Kind != models.TransactionKindExpense {
		return nil, apperr.Validation("invalid transaction kind").WithDetail("kind", input.Kind)
	}
	// сумма всегда положительная, направление задает kind
	if !input.Amount.GreaterThan(decimal.Zero) {
		return nil, apperr.Validation("amount must be positive")
	}

	if _, err := s.ownedPeriod(ctx, userID, input.PeriodID); err != nil {
		return nil, err
	}
	if err := s.checkCategory(ctx, input.CategoryID); err != nil {
		return nil, err
	}
	if err := s.checkInstrument(ctx, userID, input.InstrumentID); err != nil {
		return nil, err
	}

	date := time.Now()
	if input.Date != nil {
		date = *input.Date
	}

	tx := &models.Transaction{
		UserID:       userID,
		PeriodID:     input.PeriodID,
		CategoryID:   input.CategoryID,
		InstrumentID: input.InstrumentID,
		Kind:         input.Kind,
		Amount:       input.Amount,
		Date:         date,
		Description:  input.Description,
	}

	if err := s.transactionRepo.Create(ctx, tx); err != nil {
		return nil, err
	}

	// балансы и отчеты считаются по запросу прямо из леджера, сводка
	// обязательств от транзакций не зависит - пересчитывать нечего
	return tx, nil
}

func (s *transactionService) GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Transaction, error) {
	return s.ownedTransaction(ctx, userID, id)
}

func (s *transactionService) GetByFilter(ctx context.Context, userID uuid.UUID, filter *models.TransactionFilter) (*models.TransactionList, error) {
	return s.transactionRepo.GetByFilter(ctx, userID, filter)
}

func (s *transactionService) Update(ctx context.Context, userID, id uuid.UUID, update *models.TransactionUpdate) (*models.Transaction, error) {
	if _, err := s.ownedTransaction(ctx, userID, id); err != nil {
		return nil, err
	}

	if update.Kind != nil && *update.Kind != models.TransactionKindIncome && *update.Kind != models.TransactionKindExpense {
		return nil, apperr.Validation("invalid transaction kind").WithDetail("kind", *update.Kind)
	}
	if update.Amount != nil && !update.Amount.GreaterThan(decimal.Zero) {
		return nil, apperr.Validation("amount must be positive")
	}
	if update.CategoryID != nil {
		if err := s.checkCategory(ctx, *update.CategoryID); err != nil {
			return nil, err
		}
	}
	if update.InstrumentID != nil {
		if err := s.checkInstrument(ctx, userID, *update.InstrumentID); err != nil {
			return nil, err
		}
	}

	if err := s.transactionRepo.Update(ctx, id, update); err != nil {
		return nil, err
	}
	return s.transactionRepo.GetByID(ctx, id)
}

func (s *transactionService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if _, err := s.ownedTransaction(ctx, userID, id); err != nil {
		return err
	}
	return s.transactionRepo.Delete(ctx, id)
}

// Transfer создает две связанных транзакции: расход на инструменте-источнике
// и доход на инструменте-получателе. Обе ноги пишутся в одной транзакции БД -
// непарная нога после сбоя недопустима
func (s *transactionService) Transfer(ctx context.Context, userID uuid.UUID, input *models.TransferCreate) (*models.TransferResult, error) {
	if input.SourceInstrument == input.DestInstrument {
		return nil, apperr.Validation("source and destination instruments must differ")
	}
	if !input.Amount.GreaterThan(decimal.Zero) {
		return nil, apperr.Validation("amount must be positive")
	}

	if _, err := s.ownedPeriod(ctx, userID, input.PeriodID); err != nil {
		return nil, err
	}

	source, err := s.instrumentRepo.GetByID(ctx, input.SourceInstrument)
	if err != nil {
		return nil, err
	}
	if source == nil || source.UserID != userID {
		return nil, apperr.NotFound("instrument not found").WithDetail("instrument_id", input.SourceInstrument)
	}
	dest, err := s.instrumentRepo.GetByID(ctx, input.DestInstrument)
	if err != nil {
		return nil, err
	}
	if dest == nil || dest.UserID != userID {
		return nil, apperr.NotFound("instrument not found").WithDetail("instrument_id", input.DestInstrument)
	}

	category, err := s.categoryRepo.GetSystemByName(ctx, models.TransferCategoryName)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, apperr.Validation("transfer category is not configured")
	}

	outDescription := fmt.Sprintf("Transferencia a %s", dest.Name)
	inDescription := fmt.Sprintf("Transferencia desde %s", source.Name)
	if input.Description != "" {
		outDescription = fmt.Sprintf("%s: %s", outDescription, input.Description)
		inDescription = fmt.Sprintf("%s: %s", inDescription, input.Description)
	}

	now := time.Now()
	outgoing := &models.Transaction{
		UserID:       userID,
		PeriodID:     input.PeriodID,
		CategoryID:   category.ID,
		InstrumentID: input.SourceInstrument,
		Kind:         models.TransactionKindExpense,
		Amount:       input.Amount,
		Date:         now,
		Description:  outDescription,
	}
	incoming := &models.Transaction{
		UserID:       userID,
		PeriodID:     input.PeriodID,
		CategoryID:   category.ID,
		InstrumentID: input.DestInstrument,
		Kind:         models.TransactionKindIncome,
		Amount:       input.Amount,
		Date:         now,
		Description:  inDescription,
	}

	err = s.txManager.WithTx(ctx, func(txCtx context.Context) error {
		if err := s.transactionRepo.Create(txCtx, outgoing); err != nil {
			return err
		}
		return s.transactionRepo.Create(txCtx, incoming)
	})
	if err != nil {
		return nil, err
	}

	return &models.TransferResult{Outgoing: outgoing, Incoming: incoming}, nil
}

func (s *transactionService) ownedPeriod(ctx context.Context, userID, periodID uuid.UUID) (*models.Period, error) {
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
	return period, nil
}

func (s *transactionService) ownedTransaction(ctx context.Context, userID, id uuid.UUID) (*models.Transaction, error) {
	tx, err := s.transactionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, apperr.NotFound("transaction not found").WithDetail("transaction_id", id)
	}
	if tx.UserID != userID {
		return nil, apperr.Forbidden("transaction belongs to another user").WithDetail("transaction_id", id)
	}
	return tx, nil
}

func (s *transactionService) checkCategory(ctx context.Context, id uuid.UUID) error {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if category == nil {
		return apperr.NotFound("category not found").WithDetail("category_id", id)
	}
	return nil
}

func (s *transactionService) checkInstrument(ctx context.Context, userID, id uuid.UUID) error {
	instrument, err := s.instrumentRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if instrument == nil || instrument.UserID != userID {
		return apperr.NotFound("instrument not found").WithDetail("instrument_id", id)
	}
	return nil
}
