package repository

import (
	"context"

	"go-asset-ledger/internal/model"

	"gorm.io/gorm"
)

type ItemRepository interface {
	Create(ctx context.Context, item *model.Item) error
	FindByID(ctx context.Context, id uint) (*model.Item, error)
	FindByName(ctx context.Context, name string) (*model.Item, error)
	FindAll(ctx context.Context) ([]model.Item, error)
	Rename(ctx context.Context, id uint, name string) error
	Delete(ctx context.Context, id uint) (bool, error)
}

type itemRepo struct {
	db *gorm.DB
}

func NewItemRepo(db *gorm.DB) ItemRepository {
	return &itemRepo{db}
}

func (r *itemRepo) Create(ctx context.Context, item *model.Item) error {
	taken, err := exists(r.db.WithContext(ctx), &model.Item{}, "name = ?", item.Name)
	if err != nil {
		return err
	}
	if taken {
		return &DuplicateKeyError{Entity: "item", Key: item.Name}
	}
	return translate(r.db.WithContext(ctx).Create(item).Error, "item", item.Name)
}

func (r *itemRepo) FindByID(ctx context.Context, id uint) (*model.Item, error) {
	var item model.Item
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, translate(err, "item", id)
	}
	return &item, nil
}

func (r *itemRepo) FindByName(ctx context.Context, name string) (*model.Item, error) {
	var item model.Item
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&item).Error; err != nil {
		return nil, translate(err, "item", name)
	}
	return &item, nil
}

func (r *itemRepo) FindAll(ctx context.Context) ([]model.Item, error) {
	var items []model.Item
	err := r.db.WithContext(ctx).Order("name ASC").Find(&items).Error
	return items, err
}

func (r *itemRepo) Rename(ctx context.Context, id uint, name string) error {
	taken, err := exists(r.db.WithContext(ctx), &model.Item{}, "name = ? AND id <> ?", name, id)
	if err != nil {
		return err
	}
	if taken {
		return &DuplicateKeyError{Entity: "item", Key: name}
	}
	res := r.db.WithContext(ctx).Model(&model.Item{}).Where("id = ?", id).Update("name", name)
	if res.Error != nil {
		return translate(res.Error, "item", name)
	}
	if res.RowsAffected == 0 {
		return notFound("item", id)
	}
	return nil
}

// Delete removes the catalog row only; the ledger's DeleteItem handles the cascade.
func (r *itemRepo) Delete(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&model.Item{}, "id = ?", id)
	return res.RowsAffected > 0, res.Error
}
