package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"orderflow/internal/model"
)

var ErrProductNotFound = errors.New("product not found")

// ProductRepository is the read-only slice of the catalog the order flows
// need; catalog CRUD lives outside this service.
type ProductRepository interface {
	FindByID(ctx context.Context, id string) (*model.Product, error)
}

type productRepoImpl struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepoImpl{
		db: db,
	}
}

func (r *productRepoImpl) FindByID(ctx context.Context, id string) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&product).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}

	return &product, nil
}
