package service

import (
	"context"
	"strings"

	"github.com/dmarto21/finanzas-tracker/internal/apperr"
	"github.com/dmarto21/finanzas-tracker/internal/models"
	"github.com/dmarto21/finanzas-tracker/internal/repository"
	"github.com/google/uuid"
)

type InstrumentService interface {
	Create(ctx context.Context, userID uuid.UUID, input *models.InstrumentCreate) (*models.PaymentInstrument, error)
	GetByID(ctx context.Context, userID, id uuid.UUID) (*models.PaymentInstrument, error)
	List(ctx context.Context, userID uuid.UUID) ([]models.PaymentInstrument, error)
	Update(ctx context.Context, userID, id uuid.UUID, update *models.InstrumentUpdate) (*models.PaymentInstrument, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type instrumentService struct {
	instrumentRepo repository.InstrumentRepository
}

func NewInstrumentService(instrumentRepo repository.InstrumentRepository) InstrumentService {
	return &instrumentService{instrumentRepo: instrumentRepo}
}

var instrumentTypes = map[models.InstrumentType]struct{}{
	models.InstrumentTypeCash:   {},
	models.InstrumentTypeBank:   {},
	models.InstrumentTypeCard:   {},
	models.InstrumentTypeWallet: {},
}

func (s *instrumentService) Create(ctx context.Context, userID uuid.UUID, input *models.InstrumentCreate) (*models.PaymentInstrument, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperr.Validation("name is required")
	}
	if _, ok := instrumentTypes[input.Type]; !ok {
		return nil, apperr.Validation("invalid instrument type").WithDetail("type", input.Type)
	}

	instrument := &models.PaymentInstrument{
		UserID:   userID,
		Name:     name,
		Type:     input.Type,
		Icon:     input.Icon,
		Color:    input.Color,
		IsActive: true,
	}
	if err := s.instrumentRepo.Create(ctx, instrument); err != nil {
		return nil, err
	}
	return instrument, nil
}

func (s *instrumentService) GetByID(ctx context.Context, userID, id uuid.UUID) (*models.PaymentInstrument, error) {
	instrument, err := s.instrumentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if instrument == nil {
		return nil, apperr.NotFound("instrument not found").WithDetail("instrument_id", id)
	}
	if instrument.UserID != userID {
		return nil, apperr.Forbidden("instrument belongs to another user").WithDetail("instrument_id", id)
	}
	return instrument, nil
}

func (s *instrumentService) List(ctx context.Context, userID uuid.UUID) ([]models.PaymentInstrument, error) {
	return s.instrumentRepo.GetByUserID(ctx, userID)
}

func (s *instrumentService) Update(ctx context.Context, userID, id uuid.UUID, update *models.InstrumentUpdate) (*models.PaymentInstrument, error) {
	if _, err := s.GetByID(ctx, userID, id); err != nil {
		return nil, err
	}
	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return nil, apperr.Validation("name is required")
		}
		update.Name = &name
	}

	if err := s.instrumentRepo.Update(ctx, id, update); err != nil {
		return nil, err
	}
	return s.instrumentRepo.GetByID(ctx, id)
}

func (s *instrumentService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if _, err := s.GetByID(ctx, userID, id); err != nil {
		return err
	}
	return s.instrumentRepo.Delete(ctx, id)
}
