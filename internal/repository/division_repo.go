package repository

import (
	"context"

	"go-asset-ledger/internal/model"

	"gorm.io/gorm"
)

type DivisionRepository interface {
	Create(ctx context.Context, division *model.Division) error
	FindByID(ctx context.Context, id uint) (*model.Division, error)
	FindByName(ctx context.Context, name string) (*model.Division, error)
	FindAll(ctx context.Context) ([]model.Division, error)
	Rename(ctx context.Context, id uint, name string) error
	Delete(ctx context.Context, id uint) (bool, error)
}

type divisionRepo struct {
	db *gorm.DB
}

// NewDivisionRepo accepts either the root handle or a transaction.
func NewDivisionRepo(db *gorm.DB) DivisionRepository {
	return &divisionRepo{db}
}

func (r *divisionRepo) Create(ctx context.Context, division *model.Division) error {
	taken, err := exists(r.db.WithContext(ctx), &model.Division{}, "name = ?", division.Name)
	if err != nil {
		return err
	}
	if taken {
		return &DuplicateKeyError{Entity: "division", Key: division.Name}
	}
	return translate(r.db.WithContext(ctx).Create(division).Error, "division", division.Name)
}

func (r *divisionRepo) FindByID(ctx context.Context, id uint) (*model.Division, error) {
	var division model.Division
	if err := r.db.WithContext(ctx).First(&division, "id = ?", id).Error; err != nil {
		return nil, translate(err, "division", id)
	}
	return &division, nil
}

func (r *divisionRepo) FindByName(ctx context.Context, name string) (*model.Division, error) {
	var division model.Division
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&division).Error; err != nil {
		return nil, translate(err, "division", name)
	}
	return &division, nil
}

func (r *divisionRepo) FindAll(ctx context.Context) ([]model.Division, error) {
	var divisions []model.Division
	err := r.db.WithContext(ctx).Order("name ASC").Find(&divisions).Error
	return divisions, err
}

func (r *divisionRepo) Rename(ctx context.Context, id uint, name string) error {
	taken, err := exists(r.db.WithContext(ctx), &model.Division{}, "name = ? AND id <> ?", name, id)
	if err != nil {
		return err
	}
	if taken {
		return &DuplicateKeyError{Entity: "division", Key: name}
	}
	res := r.db.WithContext(ctx).Model(&model.Division{}).Where("id = ?", id).Update("name", name)
	if res.Error != nil {
		return translate(res.Error, "division", name)
	}
	if res.RowsAffected == 0 {
		return notFound("division", id)
	}
	return nil
}

// Delete removes the division row only; employees keep whatever division_id they had.
func (r *divisionRepo) Delete(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&model.Division{}, "id = ?", id)
	return res.RowsAffected > 0, res.Error
}

func exists(db *gorm.DB, table interface{}, query string, args ...interface{}) (bool, error) {
	var n int64
	if err := db.Model(table).Where(query, args...).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}
