package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go-cart-catalog/internal/cache"
	"go-cart-catalog/internal/metrics"
	"go-cart-catalog/internal/model"
	"go-cart-catalog/internal/repository"
	"go-cart-catalog/internal/ws"
	"go-cart-catalog/pkg/apperror"
	"go-cart-catalog/pkg/database"
	"go-cart-catalog/pkg/logger"
	"go-cart-catalog/pkg/pagination"
	"go-cart-catalog/pkg/validator"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

// Product listing sorts and price bands.
const (
	SortPriceDesc = "price_desc"
	SortPriceAsc  = "price_asc"

	BandUnder100      = "under_100"
	Band100To1000     = "100_to_1000"
	BandOver1000      = "over_1000"
	bandLowerBoundary = 100
	bandUpperBoundary = 1000
)

// ProductInput carries the editable product fields from REST forms and
// GraphQL arguments.
type ProductInput struct {
	Name      string              `json:"name" validate:"required,min=3,max=30"`
	Price     decimal.Decimal     `json:"price" validate:"gte=0"`
	SalePrice decimal.NullDecimal `json:"sale_price" validate:"omitempty,gte=0"`
	Quantity  int                 `json:"quantity" validate:"gte=0"`
}

// ProductFilter narrows and orders ListProducts. The zero value lists every
// product in insertion order.
type ProductFilter struct {
	Sort   string
	Band   string
	OnSale bool
}

func (f ProductFilter) query() (repository.Query, error) {
	var q repository.Query
	switch f.Sort {
	case "":
	case SortPriceDesc:
		q.Order = append(q.Order, "price DESC")
	case SortPriceAsc:
		q.Order = append(q.Order, "price ASC")
	default:
		return q, apperror.Newf(apperror.CodeValidation, "unknown sort %q", f.Sort)
	}
	q.Order = append(q.Order, "id ASC")

	switch f.Band {
	case "":
	case BandUnder100:
		q.Where = append(q.Where, repository.Where("price < ?", bandLowerBoundary))
	case Band100To1000:
		q.Where = append(q.Where, repository.Where("price BETWEEN ? AND ?", bandLowerBoundary, bandUpperBoundary))
	case BandOver1000:
		q.Where = append(q.Where, repository.Where("price > ?", bandUpperBoundary))
	default:
		return q, apperror.Newf(apperror.CodeValidation, "unknown price band %q", f.Band)
	}
	if f.OnSale {
		q.Where = append(q.Where, repository.Where("sale_price IS NOT NULL"))
	}
	return q, nil
}

type ProductService interface {
	DecreaseQuantity(ctx context.Context, tx *gorm.DB, quantity int, product *model.Product) error
	IncreaseQuantity(ctx context.Context, tx *gorm.DB, quantity int, product *model.Product) error
	Restock(ctx context.Context, id uint, quantity int) (*model.Product, error)
	CreateProduct(ctx context.Context, input ProductInput, imageURL string) (*model.Product, error)
	UpdateProduct(ctx context.Context, id uint, input ProductInput, imageURL string) (updated *model.Product, replacedImage string, err error)
	DeleteProduct(ctx context.Context, id uint) (*Page[model.Product], error)
	FindProductByID(ctx context.Context, id uint) (*model.Product, error)
	FindProductByName(ctx context.Context, tx *gorm.DB, name string) (*model.Product, error)
	ReloadProduct(ctx context.Context, tx *gorm.DB, id uint) (*model.Product, error)
	ListProducts(ctx context.Context, filter ProductFilter, page, pageSize int) (*Page[model.Product], error)
}

type ProductServiceParams struct {
	DB        *gorm.DB
	Products  repository.ProductRepository
	Movements repository.StockMovementRepository
	LineItems CartProductService
	Cache     cache.ProductCache
	Events    EventPublisher
	Metrics   *metrics.CartMetrics
	Logger    *logger.Logger
}

type productService struct {
	db        *gorm.DB
	products  repository.ProductRepository
	movements repository.StockMovementRepository
	lineItems CartProductService
	cache     cache.ProductCache
	events    EventPublisher
	metrics   *metrics.CartMetrics
	log       *logger.Logger
	reads     singleflight.Group
}

func NewProductService(params ProductServiceParams) ProductService {
	s := &productService{
		db:        params.DB,
		products:  params.Products,
		movements: params.Movements,
		lineItems: params.LineItems,
		cache:     params.Cache,
		events:    params.Events,
		metrics:   params.Metrics,
		log:       params.Logger,
	}
	if s.cache == nil {
		s.cache = cache.NewNoop()
	}
	if s.events == nil {
		s.events = noopPublisher{}
	}
	if s.log == nil {
		s.log = logger.Nop()
	}
	return s
}

func (s *productService) repoFor(tx *gorm.DB) repository.ProductRepository {
	if tx == nil {
		return s.products
	}
	return s.products.WithTx(tx)
}

func (s *productService) DecreaseQuantity(ctx context.Context, tx *gorm.DB, quantity int, product *model.Product) error {
	if quantity < 0 {
		return apperror.Newf(apperror.CodeValidation, "quantity must not be negative, got %d", quantity)
	}
	if quantity > product.Quantity {
		return apperror.Newf(apperror.CodeInsufficientStock,
			"Not enough stock available for %s: requested %d, available %d", product.Name, quantity, product.Quantity)
	}
	return versionConflict(s.repoFor(tx).UpdateQuantity(ctx, product, product.Quantity-quantity), product.ID)
}

func (s *productService) IncreaseQuantity(ctx context.Context, tx *gorm.DB, quantity int, product *model.Product) error {
	if quantity < 0 {
		return apperror.Newf(apperror.CodeValidation, "quantity must not be negative, got %d", quantity)
	}
	return versionConflict(s.repoFor(tx).UpdateQuantity(ctx, product, product.Quantity+quantity), product.ID)
}

func (s *productService) Restock(ctx context.Context, id uint, quantity int) (*model.Product, error) {
	started := time.Now()
	if quantity < 1 {
		return nil, apperror.Newf(apperror.CodeValidation, "restock quantity must be at least 1, got %d", quantity)
	}

	var restocked *model.Product
	var oldStock int
	err := withStockRetry(ctx, s.metrics, "restock", func(ctx context.Context) error {
		return database.WithTx(ctx, s.db, func(tx *gorm.DB) error {
			product, err := s.ReloadProduct(ctx, tx, id)
			if err != nil {
				return err
			}
			oldStock = product.Quantity
			if err := s.IncreaseQuantity(ctx, tx, quantity, product); err != nil {
				return err
			}
			if err := s.movements.WithTx(tx).Create(ctx, &model.StockMovement{
				ProductID:   product.ID,
				ProductName: product.Name,
				Type:        model.MovementIn,
				Quantity:    quantity,
				Reason:      model.ReasonRestock,
			}); err != nil {
				return err
			}
			restocked = product
			return nil
		})
	})
	s.metrics.Observe("restock", started, err)
	if err != nil {
		return nil, apperror.Wrapf(err, "failed to restock product: %d", id)
	}

	s.invalidate(ctx, id)
	s.events.Publish(ctx, ws.Event{
		Action:  ws.ActionRestocked,
		Product: productState(restocked, oldStock),
		Message: fmt.Sprintf("'%s' restocked by %d", restocked.Name, quantity),
	})
	return restocked, nil
}

func (s *productService) CreateProduct(ctx context.Context, input ProductInput, imageURL string) (*model.Product, error) {
	if errs := validator.ValidateStruct(&input); len(errs) > 0 {
		return nil, apperror.New(apperror.CodeValidation, validator.Message(errs))
	}

	if err := s.ensureNameFree(ctx, s.products, input.Name, 0); err != nil {
		return nil, apperror.Wrap(err, "failed to create product")
	}

	product := &model.Product{
		ImageURL:  imageURL,
		Name:      input.Name,
		Price:     input.Price,
		SalePrice: input.SalePrice,
		Quantity:  input.Quantity,
	}
	if err := s.products.Create(ctx, product); err != nil {
		return nil, apperror.Wrap(duplicateName(err, input.Name), "failed to create product")
	}

	s.events.Publish(ctx, ws.Event{
		Action:  ws.ActionProductCreated,
		Product: productState(product, 0),
		Message: fmt.Sprintf("product '%s' created", product.Name),
	})
	return product, nil
}

// UpdateProduct overwrites the product and, in the same transaction, every
// line item snapshotted under its previous name. An empty imageURL keeps the
// current image; otherwise the image it replaced is returned so the caller can
// discard it.
func (s *productService) UpdateProduct(ctx context.Context, id uint, input ProductInput, imageURL string) (*model.Product, string, error) {
	if errs := validator.ValidateStruct(&input); len(errs) > 0 {
		return nil, "", apperror.Wrapf(apperror.New(apperror.CodeValidation, validator.Message(errs)), "failed to update product: %d", id)
	}

	var updated *model.Product
	var oldStock int
	var replaced string
	err := database.WithTx(ctx, s.db, func(tx *gorm.DB) error {
		products := s.products.WithTx(tx)
		product, err := products.FindByID(ctx, id)
		if err != nil {
			return notFound(err, "product %d not found", id)
		}
		oldName := product.Name
		oldStock = product.Quantity
		if input.Name != oldName {
			if err := s.ensureNameFree(ctx, products, input.Name, id); err != nil {
				return err
			}
		}

		product.Name = input.Name
		product.Price = input.Price
		product.SalePrice = input.SalePrice
		product.Quantity = input.Quantity
		if imageURL != "" && imageURL != product.ImageURL {
			replaced = product.ImageURL
			product.ImageURL = imageURL
		}
		if err := products.Update(ctx, product); err != nil {
			return versionConflict(duplicateName(err, input.Name), id)
		}

		n, err := s.lineItems.PropagateProductEdit(ctx, tx, oldName, product)
		if err != nil {
			return err
		}
		s.log.Debug(s.log.WithFields(ctx, map[string]any{"product_id": id, "line_items": n}), "propagated product edit")
		updated = product
		return nil
	})
	if err != nil {
		return nil, "", apperror.Wrapf(err, "failed to update product: %d", id)
	}

	s.invalidate(ctx, id)
	s.events.Publish(ctx, ws.Event{
		Action:  ws.ActionProductUpdated,
		Product: productState(updated, oldStock),
		Message: fmt.Sprintf("product '%s' updated", updated.Name),
	})
	return updated, replaced, nil
}

// DeleteProduct removes the product and every line item carrying its name,
// then returns the first page of what is left.
func (s *productService) DeleteProduct(ctx context.Context, id uint) (*Page[model.Product], error) {
	var deleted *model.Product
	err := database.WithTx(ctx, s.db, func(tx *gorm.DB) error {
		products := s.products.WithTx(tx)
		product, err := products.FindByID(ctx, id)
		if err != nil {
			return notFound(err, "product %d not found", id)
		}
		if _, err := s.lineItems.DeleteAllByName(ctx, tx, product.Name); err != nil {
			return err
		}
		if err := products.Delete(ctx, id); err != nil {
			return notFound(err, "product %d not found", id)
		}
		deleted = product
		return nil
	})
	if err != nil {
		return nil, apperror.Wrapf(err, "failed to delete product: %d", id)
	}

	s.invalidate(ctx, id)
	s.events.Publish(ctx, ws.Event{
		Action:  ws.ActionProductDeleted,
		Product: productState(deleted, deleted.Quantity),
		Message: fmt.Sprintf("product '%s' deleted", deleted.Name),
	})
	return s.ListProducts(ctx, ProductFilter{}, pagination.DefaultPage, pagination.DefaultPageSize)
}

// FindProductByID reads through the product cache. Concurrent misses for the
// same id share one database query.
func (s *productService) FindProductByID(ctx context.Context, id uint) (*model.Product, error) {
	cached, ok, err := s.cache.Get(ctx, id)
	if err != nil {
		s.log.Warn(s.log.WithField(ctx, "error", err.Error()), "product cache read failed")
	}
	if ok {
		return cached, nil
	}

	v, err, _ := s.reads.Do(strconv.FormatUint(uint64(id), 10), func() (interface{}, error) {
		product, err := s.products.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := s.cache.Set(ctx, product); err != nil {
			s.log.Warn(s.log.WithField(ctx, "error", err.Error()), "product cache write failed")
		}
		return product, nil
	})
	if err != nil {
		return nil, apperror.Wrapf(notFound(err, "product %d not found", id), "failed to get product: %d", id)
	}
	product := *v.(*model.Product)
	return &product, nil
}

func (s *productService) FindProductByName(ctx context.Context, tx *gorm.DB, name string) (*model.Product, error) {
	product, err := s.repoFor(tx).FindByName(ctx, name)
	if err != nil {
		return nil, notFound(err, "product %q not found", name)
	}
	return product, nil
}

// ReloadProduct reads the row straight from tx, bypassing the cache, so
// version-guarded writes start from the committed version.
func (s *productService) ReloadProduct(ctx context.Context, tx *gorm.DB, id uint) (*model.Product, error) {
	product, err := s.repoFor(tx).FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "product %d not found", id)
	}
	return product, nil
}

func (s *productService) ListProducts(ctx context.Context, filter ProductFilter, page, pageSize int) (*Page[model.Product], error) {
	q, err := filter.query()
	if err != nil {
		return nil, err
	}
	params := pagination.Normalize(page, pageSize)
	q.Page, q.PageSize = params.Page, params.PageSize

	items, total, err := s.products.FindPage(ctx, q)
	if err != nil {
		return nil, apperror.Wrap(err, "failed to find products")
	}
	return newPage(items, total, params), nil
}

// ensureNameFree rejects a name already used by another product. Line items
// find their product by name, so names stay unique; writers racing past this
// check are stopped by the unique name index.
func (s *productService) ensureNameFree(ctx context.Context, products repository.ProductRepository, name string, selfID uint) error {
	existing, err := products.FindByName(ctx, name)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.ID == selfID {
		return nil
	}
	return apperror.Newf(apperror.CodeConflict, "product name %q already exists", name)
}

func (s *productService) invalidate(ctx context.Context, ids ...uint) {
	if err := s.cache.Invalidate(ctx, ids...); err != nil {
		s.log.Warn(s.log.WithField(ctx, "error", err.Error()), "product cache invalidation failed")
	}
}

func productState(p *model.Product, oldStock int) *ws.ProductState {
	return &ws.ProductState{
		ID:       p.ID,
		Name:     p.Name,
		OldStock: oldStock,
		NewStock: p.Quantity,
		Price:    p.Price,
	}
}
