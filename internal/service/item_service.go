package service

import (
	"context"

	"go-asset-ledger/internal/audit"
	"go-asset-ledger/internal/ledger"
	"go-asset-ledger/internal/model"
	"go-asset-ledger/internal/repository"
	"go-asset-ledger/pkg/validator"

	"gorm.io/gorm"
)

type ItemRequest struct {
	Name string `json:"name" validate:"required,notblank,max=255"`
}

type ItemService interface {
	Create(ctx context.Context, req ItemRequest, actor *uint) (*model.Item, error)
	Get(ctx context.Context, id uint) (*model.Item, error)
	List(ctx context.Context) ([]model.Item, error)
	Update(ctx context.Context, id uint, req ItemRequest, actor *uint) (*model.Item, error)
	Delete(ctx context.Context, id uint, actor *uint) (bool, error)
}

type itemService struct {
	db     *gorm.DB
	audit  *audit.Logger
	ledger *ledger.Ledger
}

func NewItemService(db *gorm.DB, auditLog *audit.Logger, l *ledger.Ledger) ItemService {
	return &itemService{db: db, audit: auditLog, ledger: l}
}

func (s *itemService) Create(ctx context.Context, req ItemRequest, actor *uint) (*model.Item, error) {
	req.Name = clean(req.Name)
	if err := validator.Validate(&req); err != nil {
		return nil, err
	}

	item := &model.Item{Name: req.Name}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repository.NewItemRepo(tx).Create(ctx, item); err != nil {
			return err
		}
		s.audit.InTx(tx).Logf(ctx, audit.ActionCreateItem, actor, "created item %d (%s)", item.ID, item.Name)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (s *itemService) Get(ctx context.Context, id uint) (*model.Item, error) {
	return repository.NewItemRepo(s.db).FindByID(ctx, id)
}

func (s *itemService) List(ctx context.Context) ([]model.Item, error) {
	return repository.NewItemRepo(s.db).FindAll(ctx)
}

func (s *itemService) Update(ctx context.Context, id uint, req ItemRequest, actor *uint) (*model.Item, error) {
	req.Name = clean(req.Name)
	if err := validator.Validate(&req); err != nil {
		return nil, err
	}

	var updated *model.Item
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := repository.NewItemRepo(tx)
		old, err := repo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := repo.Rename(ctx, id, req.Name); err != nil {
			return err
		}
		s.audit.InTx(tx).Logf(ctx, audit.ActionUpdateItem, actor, "renamed item %d from %s to %s", id, old.Name, req.Name)
		updated, err = repo.FindByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete cascades to the item's assignments and their attributes through the ledger.
func (s *itemService) Delete(ctx context.Context, id uint, actor *uint) (bool, error) {
	return s.ledger.DeleteItem(ctx, id, actor)
}
