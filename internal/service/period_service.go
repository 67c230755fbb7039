package service

import (
	"context"

	"github.com/dmarto21/finanzas-tracker/internal/apperr"
	"github.com/dmarto21/finanzas-tracker/internal/models"
	"github.com/dmarto21/finanzas-tracker/internal/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type PeriodService interface {
	Create(ctx context.Context, userID uuid.UUID, input *models.PeriodCreate) (*models.Period, error)
	GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Period, error)
	FindByMonth(ctx context.Context, userID uuid.UUID, year int, month models.Month) (*models.Period, error)
	List(ctx context.Context, userID uuid.UUID) ([]models.Period, error)
	Update(ctx context.Context, userID, id uuid.UUID, update *models.PeriodUpdate) (*models.Period, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	GetBalances(ctx context.Context, userID, periodID uuid.UUID) (*models.PeriodBalances, error)
}

type periodService struct {
	txManager       repository.TxManager
	periodRepo      repository.PeriodRepository
	instrumentRepo  repository.InstrumentRepository
	transactionRepo repository.TransactionRepository
	recurring       RecurringService
	summary         SummaryService
}

func NewPeriodService(
	txManager repository.TxManager,
	periodRepo repository.PeriodRepository,
	instrumentRepo repository.InstrumentRepository,
	transactionRepo repository.TransactionRepository,
	recurring RecurringService,
	summary SummaryService,
) PeriodService {
	return &periodService{
		txManager:       txManager,
		periodRepo:      periodRepo,
		instrumentRepo:  instrumentRepo,
		transactionRepo: transactionRepo,
		recurring:       recurring,
		summary:         summary,
	}
}

func (s *periodService) Create(ctx context.Context, userID uuid.UUID, input *models.PeriodCreate) (*models.Period, error) {
	if !input.Month.Valid() {
		return nil, apperr.Validation("unknown month").WithDetail("month", input.Month)
	}
	if err := s.validateInstrumentAmounts(ctx, userID, input.Instruments); err != nil {
		return nil, err
	}

	period := &models.Period{
		UserID: userID,
		Year:   input.Year,
		Month:  input.Month,
	}

	// период и его стартовые балансы пишутся атомарно
	err := s.txManager.WithTx(ctx, func(txCtx context.Context) error {
		if err := s.periodRepo.Create(txCtx, period); err != nil {
			return err
		}
		return s.periodRepo.InsertBalances(txCtx, period.ID, input.Instruments)
	})
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperr.Conflict("period already exists for this month").
				WithDetail("year", input.Year).
				WithDetail("month", input.Month)
		}
		return nil, err
	}

	// провижининг обязательств и инициализация сводки идут после коммита,
	// best-effort: их сбой не отменяет уже созданный период
	if _, err := s.recurring.ProvisionForPeriod(ctx, period.ID, userID); err != nil {
		logrus.WithError(err).WithField("period_id", period.ID).
			Warn("failed to provision recurring payments for new period")
	}
	if err := s.summary.Initialize(ctx, period.ID, userID); err != nil {
		logrus.WithError(err).WithField("period_id", period.ID).
			Warn("failed to initialize period summary")
	}

	period.Balances, err = s.periodRepo.GetBalances(ctx, period.ID)
	if err != nil {
		return nil, err
	}
	return period, nil
}

func (s *periodService) GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Period, error) {
	period, err := s.ownedPeriod(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	period.Balances, err = s.periodRepo.GetBalances(ctx, id)
	if err != nil {
		return nil, err
	}
	return period, nil
}

func (s *periodService) FindByMonth(ctx context.Context, userID uuid.UUID, year int, month models.Month) (*models.Period, error) {
	if !month.Valid() {
		return nil, apperr.Validation("unknown month").WithDetail("month", month)
	}

	period, err := s.periodRepo.FindByMonth(ctx, userID, year, month)
	if err != nil || period == nil {
		return period, err
	}

	period.Balances, err = s.periodRepo.GetBalances(ctx, period.ID)
	if err != nil {
		return nil, err
	}
	return period, nil
}

func (s *periodService) List(ctx context.Context, userID uuid.UUID) ([]models.Period, error) {
	return s.periodRepo.GetByUserID(ctx, userID)
}

func (s *periodService) Update(ctx context.Context, userID, id uuid.UUID, update *models.PeriodUpdate) (*models.Period, error) {
	period, err := s.ownedPeriod(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	year := period.Year
	month := period.Month
	if update.Year != nil {
		year = *update.Year
	}
	if update.Month != nil {
		if !update.Month.Valid() {
			return nil, apperr.Validation("unknown month").WithDetail("month", *update.Month)
		}
		month = *update.Month
	}

	if update.Instruments != nil {
		if err := s.validateInstrumentAmounts(ctx, userID, update.Instruments); err != nil {
			return nil, err
		}
	}

	err = s.txManager.WithTx(ctx, func(txCtx context.Context) error {
		if year != period.Year || month != period.Month {
			if err := s.periodRepo.Update(txCtx, id, year, month); err != nil {
				return err
			}
		}
		if update.Instruments != nil {
			// замена набора инструментов: полный delete-then-insert
			if err := s.periodRepo.SoftDeleteBalances(txCtx, id); err != nil {
				return err
			}
			return s.periodRepo.InsertBalances(txCtx, id, update.Instruments)
		}
		return nil
	})
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperr.Conflict("period already exists for this month").
				WithDetail("year", year).
				WithDetail("month", month)
		}
		return nil, err
	}

	return s.GetByID(ctx, userID, id)
}

// Delete мягкое удаление, транзакции периода не трогаем
func (s *periodService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if _, err := s.ownedPeriod(ctx, userID, id); err != nil {
		return err
	}
	return s.periodRepo.Delete(ctx, id)
}

func (s *periodService) GetBalances(ctx context.Context, userID, periodID uuid.UUID) (*models.PeriodBalances, error) {
	period, err := s.ownedPeriod(ctx, userID, periodID)
	if err != nil {
		return nil, err
	}

	balances, err := s.periodRepo.GetBalances(ctx, period.ID)
	if err != nil {
		return nil, err
	}
	transactions, err := s.transactionRepo.GetByPeriod(ctx, period.ID)
	if err != nil {
		return nil, err
	}

	names, err := s.instrumentNames(ctx, userID)
	if err != nil {
		return nil, err
	}

	return ComputeBalances(period.ID, balances, transactions, names), nil
}

func (s *periodService) ownedPeriod(ctx context.Context, userID, id uuid.UUID) (*models.Period, error) {
	period, err := s.periodRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if period == nil {
		return nil, apperr.NotFound("period not found").WithDetail("period_id", id)
	}
	if period.UserID != userID {
		return nil, apperr.Forbidden("period belongs to another user").WithDetail("period_id", id)
	}
	return period, nil
}

func (s *periodService) validateInstrumentAmounts(ctx context.Context, userID uuid.UUID, amounts []models.InstrumentAmount) error {
	if len(amounts) == 0 {
		return apperr.Validation("at least one instrument is required")
	}

	seen := make(map[uuid.UUID]bool)
	for _, a := range amounts {
		if seen[a.InstrumentID] {
			return apperr.Validation("duplicate instrument").WithDetail("instrument_id", a.InstrumentID)
		}
		seen[a.InstrumentID] = true

		if a.StartingAmount.LessThan(decimal.Zero) {
			return apperr.Validation("starting amount cannot be negative").WithDetail("instrument_id", a.InstrumentID)
		}

		instrument, err := s.instrumentRepo.GetByID(ctx, a.InstrumentID)
		if err != nil {
			return err
		}
		if instrument == nil || instrument.UserID != userID {
			return apperr.Validation("unknown instrument").WithDetail("instrument_id", a.InstrumentID)
		}
	}
	return nil
}

func (s *periodService) instrumentNames(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]string, error) {
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
