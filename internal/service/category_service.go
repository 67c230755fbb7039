package service

import (
	"context"

	"github.com/dmarto21/finanzas-tracker/internal/apperr"
	"github.com/dmarto21/finanzas-tracker/internal/models"
	"github.com/dmarto21/finanzas-tracker/internal/repository"
	"github.com/google/uuid"
)

type CategoryService interface {
	Create(ctx context.Context, userID uuid.UUID, input *models.CategoryCreate) (*models.Category, error)
	GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Category, error)
	List(ctx context.Context, userID uuid.UUID) ([]models.Category, error)
	ListByType(ctx context.Context, userID uuid.UUID, categoryType models.CategoryType) ([]models.Category, error)
	Update(ctx context.Context, userID, id uuid.UUID, update *models.CategoryUpdate) (*models.Category, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
}

func NewCategoryService(categoryRepo repository.CategoryRepository) CategoryService {
	return &categoryService{categoryRepo: categoryRepo}
}

func (s *categoryService) Create(ctx context.Context, userID uuid.UUID, input *models.CategoryCreate) (*models.Category, error) {
	if input.Type != models.CategoryTypeIncome && input.Type != models.CategoryTypeExpense {
		return nil, apperr.Validation("invalid category type").WithDetail("type", input.Type)
	}

	category := &models.Category{
		UserID: &userID,
		Name:   input.Name,
		Type:   input.Type,
		Icon:   input.Icon,
		Color:  input.Color,
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *categoryService) GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, apperr.NotFound("category not found").WithDetail("category_id", id)
	}
	// системные категории видны всем, пользовательские только владельцу
	if !category.IsSystem && (category.UserID == nil || *category.UserID != userID) {
		return nil, apperr.Forbidden("category belongs to another user").WithDetail("category_id", id)
	}
	return category, nil
}

func (s *categoryService) List(ctx context.Context, userID uuid.UUID) ([]models.Category, error) {
	return s.categoryRepo.GetByUserID(ctx, userID)
}

func (s *categoryService) ListByType(ctx context.Context, userID uuid.UUID, categoryType models.CategoryType) ([]models.Category, error) {
	if categoryType != models.CategoryTypeIncome && categoryType != models.CategoryTypeExpense {
		return nil, apperr.Validation("invalid category type").WithDetail("type", categoryType)
	}
	return s.categoryRepo.GetByType(ctx, userID, categoryType)
}

func (s *categoryService) Update(ctx context.Context, userID, id uuid.UUID, update *models.CategoryUpdate) (*models.Category, error) {
	category, err := s.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if category.IsSystem {
		return nil, apperr.Forbidden("system categories cannot be modified").WithDetail("category_id", id)
	}

	if err := s.categoryRepo.Update(ctx, id, update); err != nil {
		return nil, err
	}
	return s.categoryRepo.GetByID(ctx, id)
}

func (s *categoryService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	category, err := s.GetByID(ctx, userID, id)
	if err != nil {
		return err
	}
	if category.IsSystem {
		return apperr.Forbidden("system categories cannot be modified").WithDetail("category_id", id)
	}
	return s.categoryRepo.Delete(ctx, id)
}
