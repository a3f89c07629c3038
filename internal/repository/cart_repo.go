package repository

import (
	"context"

	"go-cart-catalog/internal/model"

	"gorm.io/gorm"
)

// cartRelations are eager-loaded when reading a single cart.
var cartRelations = []string{"CartProducts"}

type CartRepository interface {
	WithTx(tx *gorm.DB) CartRepository
	Create(ctx context.Context, cart *model.Cart) error
	FindByID(ctx context.Context, id uint) (*model.Cart, error)
	FindPage(ctx context.Context, q Query) ([]model.Cart, int64, error)
}

type cartRepo struct {
	db *gorm.DB
}

func NewCartRepo(db *gorm.DB) CartRepository {
	return &cartRepo{db}
}

func (r *cartRepo) WithTx(tx *gorm.DB) CartRepository {
	return &cartRepo{tx}
}

func (r *cartRepo) Create(ctx context.Context, cart *model.Cart) error {
	return r.db.WithContext(ctx).Create(cart).Error
}

func (r *cartRepo) FindByID(ctx context.Context, id uint) (*model.Cart, error) {
	return FindOne[model.Cart](ctx, r.db, Query{
		Where:   []Condition{Where("id = ?", id)},
		Preload: cartRelations,
	})
}

// FindPage loads carts only; line items come along when q.Preload asks for
// them.
func (r *cartRepo) FindPage(ctx context.Context, q Query) ([]model.Cart, int64, error) {
	if len(q.Order) == 0 {
		q.Order = []string{"id ASC"}
	}
	return FindPage[model.Cart](ctx, r.db, q)
}
