package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/contextoduel/contexto-backend/internal/apperror"
	"github.com/contextoduel/contexto-backend/internal/entity"
)

type UserService interface {
	RegisterUser(ctx context.Context, email string) (*entity.User, error)
	GetUserByEmail(ctx context.Context, email string) (*entity.User, error)
	GetUserHistory(ctx context.Context, userID string) ([]*entity.MatchRecord, error)
}

type userRepo interface {
	Save(ctx context.Context, user *entity.User) error
	Find(ctx context.Context, email string) (*entity.User, error)
}

type historyReader interface {
	ListByUser(ctx context.Context, userID string) ([]*entity.MatchRecord, error)
}

type userService struct {
	userRepo userRepo
	history  historyReader
}

func NewUserService(userRepo userRepo, history historyReader) UserService {
	return &userService{
		userRepo: userRepo,
		history:  history,
	}
}

// RegisterUser creates an account for the email, or returns the existing one.
func (that *userService) RegisterUser(ctx context.Context, email string) (*entity.User, error) {
	existing, err := that.userRepo.Find(ctx, email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, apperror.ErrUserNotFound) {
		return nil, fmt.Errorf("could not look up user: %w", err)
	}

	user := &entity.User{
		ID:        uuid.NewString(),
		Email:     email,
		CreatedAt: time.Now().UTC(),
	}

	if err = that.userRepo.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("could not save user: %w", err)
	}

	return user, nil
}

func (that *userService) GetUserByEmail(ctx context.Context, email string) (*entity.User, error) {
	user, err := that.userRepo.Find(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("could not get user by email: %w", err)
	}

	return user, nil
}

func (that *userService) GetUserHistory(ctx context.Context, userID string) ([]*entity.MatchRecord, error) {
	records, err := that.history.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("could not list user history: %w", err)
	}

	return records, nil
}
