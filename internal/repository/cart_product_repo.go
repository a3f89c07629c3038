package repository

import (
	"context"

	"go-cart-catalog/internal/model"

	"gorm.io/gorm"
)

type CartProductRepository interface {
	WithTx(tx *gorm.DB) CartProductRepository
	Create(ctx context.Context, item *model.CartProduct) error
	FindOne(ctx context.Context, q Query) (*model.CartProduct, error)
	FindAllByName(ctx context.Context, name string) ([]model.CartProduct, error)
	FindAllByCart(ctx context.Context, cartID uint) ([]model.CartProduct, error)
	UpdateSnapshotsByName(ctx context.Context, name string, product *model.Product) (int64, error)
	Delete(ctx context.Context, id uint) error
	DeleteAllByName(ctx context.Context, name string) (int64, error)
}

type cartProductRepo struct {
	db *gorm.DB
}

func NewCartProductRepo(db *gorm.DB) CartProductRepository {
	return &cartProductRepo{db}
}

func (r *cartProductRepo) WithTx(tx *gorm.DB) CartProductRepository {
	return &cartProductRepo{tx}
}

func (r *cartProductRepo) Create(ctx context.Context, item *model.CartProduct) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *cartProductRepo) FindOne(ctx context.Context, q Query) (*model.CartProduct, error) {
	return FindOne[model.CartProduct](ctx, r.db, q)
}

func (r *cartProductRepo) FindAllByName(ctx context.Context, name string) ([]model.CartProduct, error) {
	return FindAll[model.CartProduct](ctx, r.db, Query{
		Where: []Condition{Where("name = ?", name)},
		Order: []string{"id ASC"},
	})
}

func (r *cartProductRepo) FindAllByCart(ctx context.Context, cartID uint) ([]model.CartProduct, error) {
	return FindAll[model.CartProduct](ctx, r.db, Query{
		Where: []Condition{Where(`"cartId" = ?`, cartID)},
		Order: []string{"id ASC"},
	})
}

// UpdateSnapshotsByName overwrites the snapshot of every line item carrying
// name with the product's current fields, in a single statement.
func (r *cartProductRepo) UpdateSnapshotsByName(ctx context.Context, name string, product *model.Product) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.CartProduct{}).
		Where("name = ?", name).
		Updates(map[string]interface{}{
			"name":       product.Name,
			"price":      product.Price,
			"sale_price": product.SalePrice,
			"imageUrl":   product.ImageURL,
			"version":    gorm.Expr("version + 1"),
		})
	return res.RowsAffected, res.Error
}

func (r *cartProductRepo) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&model.CartProduct{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *cartProductRepo) DeleteAllByName(ctx context.Context, name string) (int64, error) {
	res := r.db.WithContext(ctx).Where("name = ?", name).Delete(&model.CartProduct{})
	return res.RowsAffected, res.Error
}
