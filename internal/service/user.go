package service

import (
	"context"

	"tush00nka/marketplace_chat/internal/model"
	"tush00nka/marketplace_chat/internal/repository"
)

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) GetUserByID(ctx context.Context, id uint) (*model.User, error) {
	if id == 0 {
		return nil, validationError("invalid user id")
	}

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "user not found")
	}

	if !user.IsActive {
		return nil, forbiddenError("user is inactive")
	}

	return user, nil
}
