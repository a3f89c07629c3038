package service

import (
	"context"

	"go-cart-catalog/internal/model"
	"go-cart-catalog/internal/repository"
	"go-cart-catalog/pkg/apperror"

	"gorm.io/gorm"
)

// CartProductService manages line items. Methods taking a tx run inside the
// caller's transaction; a nil tx uses the base connection.
type CartProductService interface {
	CreateLineItem(ctx context.Context, tx *gorm.DB, quantity int, product *model.Product, cartID uint) (*model.CartProduct, error)
	FindAllByName(ctx context.Context, name string) ([]model.CartProduct, error)
	FindLineItem(ctx context.Context, cartID, id uint) (*model.CartProduct, error)
	FindAllByCart(ctx context.Context, cartID uint) ([]model.CartProduct, error)
	PropagateProductEdit(ctx context.Context, tx *gorm.DB, oldName string, product *model.Product) (int64, error)
	DeleteLineItem(ctx context.Context, tx *gorm.DB, id uint) error
	DeleteAllByName(ctx context.Context, tx *gorm.DB, name string) (int64, error)
}

type cartProductService struct {
	repo repository.CartProductRepository
}

func NewCartProductService(repo repository.CartProductRepository) CartProductService {
	return &cartProductService{repo: repo}
}

func (s *cartProductService) repoFor(tx *gorm.DB) repository.CartProductRepository {
	if tx == nil {
		return s.repo
	}
	return s.repo.WithTx(tx)
}

func (s *cartProductService) CreateLineItem(ctx context.Context, tx *gorm.DB, quantity int, product *model.Product, cartID uint) (*model.CartProduct, error) {
	item := &model.CartProduct{Quantity: quantity, CartID: &cartID}
	item.Snapshot(product)
	if err := s.repoFor(tx).Create(ctx, item); err != nil {
		return nil, apperror.Wrapf(err, "failed to create line item for cart %d", cartID)
	}
	return item, nil
}

func (s *cartProductService) FindAllByName(ctx context.Context, name string) ([]model.CartProduct, error) {
	items, err := s.repo.FindAllByName(ctx, name)
	if err != nil {
		return nil, apperror.Wrapf(err, "failed to get cart products named %q", name)
	}
	return items, nil
}

func (s *cartProductService) FindAllByCart(ctx context.Context, cartID uint) ([]model.CartProduct, error) {
	items, err := s.repo.FindAllByCart(ctx, cartID)
	if err != nil {
		return nil, apperror.Wrapf(err, "failed to get line items of cart %d", cartID)
	}
	return items, nil
}

func (s *cartProductService) FindLineItem(ctx context.Context, cartID, id uint) (*model.CartProduct, error) {
	item, err := s.repo.FindOne(ctx, repository.Query{
		Where: []repository.Condition{
			repository.Where("id = ?", id),
			repository.Where(`"cartId" = ?`, cartID),
		},
	})
	if err != nil {
		return nil, notFound(err, "line item %d not found in cart %d", id, cartID)
	}
	return item, nil
}

// PropagateProductEdit rewrites the snapshot of every line item taken under
// oldName.
func (s *cartProductService) PropagateProductEdit(ctx context.Context, tx *gorm.DB, oldName string, product *model.Product) (int64, error) {
	n, err := s.repoFor(tx).UpdateSnapshotsByName(ctx, oldName, product)
	if err != nil {
		return 0, apperror.Wrapf(err, "failed to update cart products named %q", oldName)
	}
	return n, nil
}

func (s *cartProductService) DeleteLineItem(ctx context.Context, tx *gorm.DB, id uint) error {
	if err := s.repoFor(tx).Delete(ctx, id); err != nil {
		return apperror.Wrapf(notFound(err, "line item %d not found", id), "failed to delete line item %d", id)
	}
	return nil
}

func (s *cartProductService) DeleteAllByName(ctx context.Context, tx *gorm.DB, name string) (int64, error) {
	n, err := s.repoFor(tx).DeleteAllByName(ctx, name)
	if err != nil {
		return 0, apperror.Wrapf(err, "failed to delete cart products named %q", name)
	}
	return n, nil
}
