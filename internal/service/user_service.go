package service

import (
	"context"

	"github.com/dmarto21/finanzas-tracker/internal/apperr"
	"github.com/dmarto21/finanzas-tracker/internal/models"
	"github.com/dmarto21/finanzas-tracker/internal/repository"
	"github.com/google/uuid"
)

type UserService interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	Update(ctx context.Context, id uuid.UUID, update *models.UserUpdate) (*models.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFound("user not found").WithDetail("user_id", id)
	}
	return user, nil
}

func (s *userService) Update(ctx context.Context, id uuid.UUID, update *models.UserUpdate) (*models.User, error) {
	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}
	if err := s.userRepo.Update(ctx, id, update); err != nil {
		return nil, err
	}
	return s.userRepo.GetByID(ctx, id)
}

func (s *userService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	return s.userRepo.Delete(ctx, id)
}
