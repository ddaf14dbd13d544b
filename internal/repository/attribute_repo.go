package repository

import (
	"context"
	"fmt"

	"go-asset-ledger/internal/model"

	"gorm.io/gorm"
)

type AttributeRepository interface {
	Create(ctx context.Context, attr *model.AssignmentAttribute) error
	Find(ctx context.Context, assignmentID uint, name string) (*model.AssignmentAttribute, error)
	FindByAssignment(ctx context.Context, assignmentID uint) ([]model.AssignmentAttribute, error)
	FindByAssignments(ctx context.Context, assignmentIDs []uint) (map[uint]map[string]string, error)
	UpdateValue(ctx context.Context, assignmentID uint, name, value string) error
	Delete(ctx context.Context, assignmentID uint, name string) (int64, error)
	DeleteByAssignment(ctx context.Context, assignmentID uint) (int64, error)
	Reassign(ctx context.Context, fromAssignmentID, toAssignmentID uint) (int64, error)
}

type attributeRepo struct {
	db *gorm.DB
}

func NewAttributeRepo(db *gorm.DB) AttributeRepository {
	return &attributeRepo{db}
}

func attrKey(assignmentID uint, name string) string {
	return fmt.Sprintf("%d/%s", assignmentID, name)
}

func (r *attributeRepo) Create(ctx context.Context, attr *model.AssignmentAttribute) error {
	taken, err := exists(r.db.WithContext(ctx), &model.AssignmentAttribute{},
		"assignment_id = ? AND name = ?", attr.AssignmentID, attr.Name)
	if err != nil {
		return err
	}
	if taken {
		return &DuplicateKeyError{Entity: "attribute", Key: attrKey(attr.AssignmentID, attr.Name)}
	}
	return translate(r.db.WithContext(ctx).Create(attr).Error, "attribute", attrKey(attr.AssignmentID, attr.Name))
}

func (r *attributeRepo) Find(ctx context.Context, assignmentID uint, name string) (*model.AssignmentAttribute, error) {
	var attr model.AssignmentAttribute
	err := r.db.WithContext(ctx).Where("assignment_id = ? AND name = ?", assignmentID, name).First(&attr).Error
	if err != nil {
		return nil, translate(err, "attribute", attrKey(assignmentID, name))
	}
	return &attr, nil
}

func (r *attributeRepo) FindByAssignment(ctx context.Context, assignmentID uint) ([]model.AssignmentAttribute, error) {
	var rows []model.AssignmentAttribute
	err := r.db.WithContext(ctx).Where("assignment_id = ?", assignmentID).Order("name ASC").Find(&rows).Error
	return rows, err
}

// FindByAssignments loads the attribute maps of several assignments in one query.
func (r *attributeRepo) FindByAssignments(ctx context.Context, assignmentIDs []uint) (map[uint]map[string]string, error) {
	out := make(map[uint]map[string]string, len(assignmentIDs))
	if len(assignmentIDs) == 0 {
		return out, nil
	}
	var rows []model.AssignmentAttribute
	if err := r.db.WithContext(ctx).Where("assignment_id IN ?", assignmentIDs).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		if out[row.AssignmentID] == nil {
			out[row.AssignmentID] = map[string]string{}
		}
		out[row.AssignmentID][row.Name] = row.Value
	}
	return out, nil
}

func (r *attributeRepo) UpdateValue(ctx context.Context, assignmentID uint, name, value string) error {
	res := r.db.WithContext(ctx).Model(&model.AssignmentAttribute{}).
		Where("assignment_id = ? AND name = ?", assignmentID, name).
		Update("value", value)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound("attribute", attrKey(assignmentID, name))
	}
	return nil
}

func (r *attributeRepo) Delete(ctx context.Context, assignmentID uint, name string) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("assignment_id = ? AND name = ?", assignmentID, name).
		Delete(&model.AssignmentAttribute{})
	return res.RowsAffected, res.Error
}

func (r *attributeRepo) DeleteByAssignment(ctx context.Context, assignmentID uint) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("assignment_id = ?", assignmentID).
		Delete(&model.AssignmentAttribute{})
	return res.RowsAffected, res.Error
}

// Reassign moves every attribute of one assignment onto another, used when a unit changes hands.
func (r *attributeRepo) Reassign(ctx context.Context, fromAssignmentID, toAssignmentID uint) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.AssignmentAttribute{}).
		Where("assignment_id = ?", fromAssignmentID).
		Update("assignment_id", toAssignmentID)
	return res.RowsAffected, res.Error
}
