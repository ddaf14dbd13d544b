package service

import (
	"context"

	"go-asset-ledger/internal/audit"
	"go-asset-ledger/internal/model"
	"go-asset-ledger/internal/repository"
	"go-asset-ledger/pkg/validator"

	"gorm.io/gorm"
)

type UserService interface {
	CreateUser(ctx context.Context, req CreateUserRequest, actor *uint) (*model.User, error)
	GetAllUsers(ctx context.Context) ([]model.UserResponse, error)
	GetUserByID(ctx context.Context, id uint) (*model.UserResponse, error)
}

type CreateUserRequest struct {
	Username string `json:"username" validate:"required,notblank,max=100"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required,oneof=admin clerk viewer"`
}

type userService struct {
	db    *gorm.DB
	audit *audit.Logger
}

func NewUserService(db *gorm.DB, auditLog *audit.Logger) UserService {
	return &userService{db: db, audit: auditLog}
}

func (s *userService) CreateUser(ctx context.Context, req CreateUserRequest, actor *uint) (*model.User, error) {
	req.Username = clean(req.Username)
	if err := validator.Validate(&req); err != nil {
		return nil, err
	}

	user := &model.User{Username: req.Username, Role: req.Role}
	if err := user.SetPassword(req.Password); err != nil {
		return nil, err
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repository.NewUserRepo(tx).Create(ctx, user); err != nil {
			return err
		}
		s.audit.InTx(tx).Logf(ctx, audit.ActionCreateUser, actor, "created user %s with role %s", user.Username, user.Role)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) GetAllUsers(ctx context.Context) ([]model.UserResponse, error) {
	users, err := repository.NewUserRepo(s.db).FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.UserResponse, len(users))
	for i := range users {
		out[i] = users[i].ToResponse()
	}
	return out, nil
}

func (s *userService) GetUserByID(ctx context.Context, id uint) (*model.UserResponse, error) {
	user, err := repository.NewUserRepo(s.db).FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := user.ToResponse()
	return &resp, nil
}
