package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"go-asset-ledger/internal/audit"
	"go-asset-ledger/internal/model"
	"go-asset-ledger/internal/repository"
	"go-asset-ledger/pkg/jwt"
	"go-asset-ledger/pkg/validator"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrWrongPassword      = errors.New("current password is incorrect")
	ErrSessionReplaced    = errors.New("session expired (logged in elsewhere)")
)

type AuthService interface {
	Login(ctx context.Context, username, password string) (*LoginResponse, error)
	ValidateToken(ctx context.Context, tokenString string) (*model.User, error)
	ChangePassword(ctx context.Context, userID uint, req ChangePasswordRequest) error
	// ResetPassword is the operator path: no old password, all sessions revoked.
	ResetPassword(ctx context.Context, username, newPassword string) error
	// SeedAdmin creates the first admin account when no user exists yet.
	SeedAdmin(ctx context.Context, username, password string) (bool, error)
}

type LoginResponse struct {
	Token string             `json:"token"`
	User  model.UserResponse `json:"user"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

type authService struct {
	db     *gorm.DB
	audit  *audit.Logger
	tokens *jwt.Manager
	log    *slog.Logger
}

func NewAuthService(db *gorm.DB, auditLog *audit.Logger, tokens *jwt.Manager, log *slog.Logger) AuthService {
	if log == nil {
		log = slog.Default()
	}
	return &authService{db: db, audit: auditLog, tokens: tokens, log: log}
}

func (s *authService) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	users := repository.NewUserRepo(s.db)
	user, err := users.FindByUsername(ctx, clean(username))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}

	// A fresh version invalidates every token issued before this login.
	version := uuid.New().String()
	if err := users.UpdateTokenVersion(ctx, user.ID, version); err != nil {
		return nil, err
	}
	token, err := s.tokens.GenerateToken(user.ID, user.Username, user.Role, version)
	if err != nil {
		return nil, err
	}

	s.log.Info("user logged in", "user_id", user.ID, "username", user.Username)
	return &LoginResponse{Token: token, User: user.ToResponse()}, nil
}

func (s *authService) ValidateToken(ctx context.Context, tokenString string) (*model.User, error) {
	claims, err := s.tokens.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	user, err := repository.NewUserRepo(s.db).FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, jwt.ErrInvalidToken
		}
		return nil, err
	}
	if user.TokenVersion != claims.TokenVersion {
		return nil, ErrSessionReplaced
	}
	return user, nil
}

func (s *authService) ChangePassword(ctx context.Context, userID uint, req ChangePasswordRequest) error {
	if err := validator.Validate(&req); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := repository.NewUserRepo(tx)
		user, err := users.FindByID(ctx, userID)
		if err != nil {
			return err
		}
		if !user.CheckPassword(req.OldPassword) {
			return ErrWrongPassword
		}
		if err := user.SetPassword(req.NewPassword); err != nil {
			return err
		}
		if err := users.UpdatePassword(ctx, user.ID, user.PasswordHash); err != nil {
			return err
		}
		s.audit.InTx(tx).Logf(ctx, audit.ActionChangePassword, &user.ID, "user %s changed password", user.Username)
		return nil
	})
}

func (s *authService) ResetPassword(ctx context.Context, username, newPassword string) error {
	if len(newPassword) < 6 {
		return &validator.ValidationError{ErrorResponse: validator.ErrorResponse{
			FailedField: "password", Tag: "min", Value: "6",
		}}
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := repository.NewUserRepo(tx)
		user, err := users.FindByUsername(ctx, clean(username))
		if err != nil {
			return err
		}
		if err := user.SetPassword(newPassword); err != nil {
			return err
		}
		if err := users.UpdatePassword(ctx, user.ID, user.PasswordHash); err != nil {
			return err
		}
		if err := users.UpdateTokenVersion(ctx, user.ID, uuid.New().String()); err != nil {
			return err
		}
		s.audit.InTx(tx).Logf(ctx, audit.ActionChangePassword, nil, "password of %s reset by operator", user.Username)
		return nil
	})
}

func (s *authService) SeedAdmin(ctx context.Context, username, password string) (bool, error) {
	created := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := repository.NewUserRepo(tx)
		n, err := users.Count(ctx)
		if err != nil || n > 0 {
			return err
		}
		admin := &model.User{Username: clean(username), Role: model.RoleAdmin}
		if err := admin.SetPassword(password); err != nil {
			return err
		}
		if err := users.Create(ctx, admin); err != nil {
			return err
		}
		s.audit.InTx(tx).Logf(ctx, audit.ActionCreateUser, nil, "seeded admin account %s", admin.Username)
		created = true
		return nil
	})
	if created {
		s.log.Warn("seeded default admin account, change its password", "username", username)
	}
	return created, err
}
