package repository

import (
	"context"
	"errors"

	"go-cart-catalog/internal/model"

	"gorm.io/gorm"
)

type ProductRepository interface {
	WithTx(tx *gorm.DB) ProductRepository
	Create(ctx context.Context, product *model.Product) error
	FindOne(ctx context.Context, q Query) (*model.Product, error)
	FindByID(ctx context.Context, id uint) (*model.Product, error)
	FindByName(ctx context.Context, name string) (*model.Product, error)
	FindPage(ctx context.Context, q Query) ([]model.Product, int64, error)
	Update(ctx context.Context, product *model.Product) error
	UpdateQuantity(ctx context.Context, product *model.Product, newQuantity int) error
	Delete(ctx context.Context, id uint) error
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

// WithTx binds the repository to a running transaction
func (r *productRepo) WithTx(tx *gorm.DB) ProductRepository {
	return &productRepo{tx}
}

func (r *productRepo) Create(ctx context.Context, product *model.Product) error {
	return translateDuplicate(r.db.WithContext(ctx).Create(product).Error)
}

func (r *productRepo) FindOne(ctx context.Context, q Query) (*model.Product, error) {
	return FindOne[model.Product](ctx, r.db, q)
}

func (r *productRepo) FindByID(ctx context.Context, id uint) (*model.Product, error) {
	return r.FindOne(ctx, Query{Where: []Condition{Where("id = ?", id)}})
}

func (r *productRepo) FindByName(ctx context.Context, name string) (*model.Product, error) {
	return r.FindOne(ctx, Query{Where: []Condition{Where("name = ?", name)}})
}

func (r *productRepo) FindPage(ctx context.Context, q Query) ([]model.Product, int64, error) {
	return FindPage[model.Product](ctx, r.db, q)
}

// Update writes every editable column, guarded by the version the caller read.
func (r *productRepo) Update(ctx context.Context, product *model.Product) error {
	res := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ? AND version = ?", product.ID, product.Version).
		Updates(map[string]interface{}{
			"imageUrl":   product.ImageURL,
			"name":       product.Name,
			"price":      product.Price,
			"sale_price": product.SalePrice,
			"quantity":   product.Quantity,
			"version":    gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return translateDuplicate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrVersionConflict
	}
	product.Version++
	return nil
}

// UpdateQuantity only touches the stock column; same version guard as Update.
func (r *productRepo) UpdateQuantity(ctx context.Context, product *model.Product, newQuantity int) error {
	res := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ? AND version = ?", product.ID, product.Version).
		Updates(map[string]interface{}{
			"quantity": newQuantity,
			"version":  gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrVersionConflict
	}
	product.Quantity = newQuantity
	product.Version++
	return nil
}

func (r *productRepo) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&model.Product{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// translateDuplicate needs the connection opened with TranslateError.
func translateDuplicate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateName
	}
	return err
}
