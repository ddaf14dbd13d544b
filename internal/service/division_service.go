package service

import (
	"context"
	"errors"

	"go-asset-ledger/internal/audit"
	"go-asset-ledger/internal/model"
	"go-asset-ledger/internal/repository"
	"go-asset-ledger/pkg/validator"

	"gorm.io/gorm"
)

type DivisionRequest struct {
	Name string `json:"name" validate:"required,notblank,max=100"`
}

type DivisionService interface {
	Create(ctx context.Context, req DivisionRequest, actor *uint) (*model.Division, error)
	Get(ctx context.Context, id uint) (*model.Division, error)
	List(ctx context.Context) ([]model.Division, error)
	Update(ctx context.Context, id uint, req DivisionRequest, actor *uint) (*model.Division, error)
	Delete(ctx context.Context, id uint, actor *uint) (bool, error)
}

type divisionService struct {
	db    *gorm.DB
	audit *audit.Logger
}

func NewDivisionService(db *gorm.DB, auditLog *audit.Logger) DivisionService {
	return &divisionService{db: db, audit: auditLog}
}

func (s *divisionService) Create(ctx context.Context, req DivisionRequest, actor *uint) (*model.Division, error) {
	req.Name = clean(req.Name)
	if err := validator.Validate(&req); err != nil {
		return nil, err
	}

	division := &model.Division{Name: req.Name}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repository.NewDivisionRepo(tx).Create(ctx, division); err != nil {
			return err
		}
		s.audit.InTx(tx).Logf(ctx, audit.ActionCreateDivision, actor, "created division %d (%s)", division.ID, division.Name)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return division, nil
}

func (s *divisionService) Get(ctx context.Context, id uint) (*model.Division, error) {
	return repository.NewDivisionRepo(s.db).FindByID(ctx, id)
}

func (s *divisionService) List(ctx context.Context) ([]model.Division, error) {
	return repository.NewDivisionRepo(s.db).FindAll(ctx)
}

func (s *divisionService) Update(ctx context.Context, id uint, req DivisionRequest, actor *uint) (*model.Division, error) {
	req.Name = clean(req.Name)
	if err := validator.Validate(&req); err != nil {
		return nil, err
	}

	var updated *model.Division
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := repository.NewDivisionRepo(tx)
		old, err := repo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := repo.Rename(ctx, id, req.Name); err != nil {
			return err
		}
		s.audit.InTx(tx).Logf(ctx, audit.ActionUpdateDivision, actor, "renamed division %d from %s to %s", id, old.Name, req.Name)
		updated, err = repo.FindByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes the division and detaches its employees (division_id becomes
// NULL); employees are never deleted with their division. Reports false when
// the division does not exist.
func (s *divisionService) Delete(ctx context.Context, id uint, actor *uint) (bool, error) {
	deleted := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		division, err := repository.NewDivisionRepo(tx).FindByID(ctx, id)
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		detached, err := repository.NewEmployeeRepo(tx).DetachDivision(ctx, id)
		if err != nil {
			return err
		}
		if deleted, err = repository.NewDivisionRepo(tx).Delete(ctx, id); err != nil {
			return err
		}
		s.audit.InTx(tx).Logf(ctx, audit.ActionDeleteDivision, actor, "deleted division %d (%s), detached %d employees", id, division.Name, detached)
		return nil
	})
	return deleted, err
}
