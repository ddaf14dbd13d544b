package service

import (
	"context"

	"go-asset-ledger/internal/audit"
	"go-asset-ledger/internal/model"
	"go-asset-ledger/internal/repository"
	"go-asset-ledger/pkg/validator"

	"gorm.io/gorm"
)

type AttributeRequest struct {
	Name  string `json:"name" validate:"required,notblank,max=100"`
	Value string `json:"value" validate:"max=1000"`
}

// AttributeService manages the free-form name/value pairs attached to a unit.
type AttributeService interface {
	Add(ctx context.Context, assignmentID uint, req AttributeRequest, actor *uint) (*model.AssignmentAttribute, error)
	Update(ctx context.Context, assignmentID uint, req AttributeRequest, actor *uint) (*model.AssignmentAttribute, error)
	// Delete removes one attribute, or all of them when name is empty.
	Delete(ctx context.Context, assignmentID uint, name string, actor *uint) (int64, error)
	List(ctx context.Context, assignmentID uint) (map[string]string, error)
}

type attributeService struct {
	db    *gorm.DB
	audit *audit.Logger
}

func NewAttributeService(db *gorm.DB, auditLog *audit.Logger) AttributeService {
	return &attributeService{db: db, audit: auditLog}
}

func (s *attributeService) Add(ctx context.Context, assignmentID uint, req AttributeRequest, actor *uint) (*model.AssignmentAttribute, error) {
	req.Name = clean(req.Name)
	if err := validator.Validate(&req); err != nil {
		return nil, err
	}

	attr := &model.AssignmentAttribute{AssignmentID: assignmentID, Name: req.Name, Value: req.Value}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		unit, err := repository.NewAssignmentRepo(tx).FindByID(ctx, assignmentID)
		if err != nil {
			return err
		}
		if err := repository.NewAttributeRepo(tx).Create(ctx, attr); err != nil {
			return err
		}
		s.audit.InTx(tx).Logf(ctx, audit.ActionAddAttribute, actor, "set %s=%s on unit %s (assignment %d)", attr.Name, attr.Value, unit.UniqueKey, assignmentID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return attr, nil
}

func (s *attributeService) Update(ctx context.Context, assignmentID uint, req AttributeRequest, actor *uint) (*model.AssignmentAttribute, error) {
	req.Name = clean(req.Name)
	if err := validator.Validate(&req); err != nil {
		return nil, err
	}

	var updated *model.AssignmentAttribute
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := repository.NewAttributeRepo(tx)
		old, err := repo.Find(ctx, assignmentID, req.Name)
		if err != nil {
			return err
		}
		if err := repo.UpdateValue(ctx, assignmentID, req.Name, req.Value); err != nil {
			return err
		}
		s.audit.InTx(tx).Logf(ctx, audit.ActionUpdateAttribute, actor, "changed %s from %s to %s on assignment %d", req.Name, old.Value, req.Value, assignmentID)
		updated, err = repo.Find(ctx, assignmentID, req.Name)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *attributeService) Delete(ctx context.Context, assignmentID uint, name string, actor *uint) (int64, error) {
	name = clean(name)
	var removed int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := repository.NewAssignmentRepo(tx).FindByID(ctx, assignmentID); err != nil {
			return err
		}
		repo := repository.NewAttributeRepo(tx)
		var err error
		if name == "" {
			removed, err = repo.DeleteByAssignment(ctx, assignmentID)
		} else {
			removed, err = repo.Delete(ctx, assignmentID, name)
		}
		if err != nil {
			return err
		}
		if removed == 0 {
			return nil
		}
		if name == "" {
			s.audit.InTx(tx).Logf(ctx, audit.ActionDeleteAttribute, actor, "removed %d attributes from assignment %d", removed, assignmentID)
		} else {
			s.audit.InTx(tx).Logf(ctx, audit.ActionDeleteAttribute, actor, "removed %s from assignment %d", name, assignmentID)
		}
		return nil
	})
	return removed, err
}

func (s *attributeService) List(ctx context.Context, assignmentID uint) (map[string]string, error) {
	if _, err := repository.NewAssignmentRepo(s.db).FindByID(ctx, assignmentID); err != nil {
		return nil, err
	}
	rows, err := repository.NewAttributeRepo(s.db).FindByAssignment(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	return model.Attributes(rows), nil
}
