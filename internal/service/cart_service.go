package service

import (
	"context"
	"errors"
	"fmt"
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

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const (
	opAddProduct    = "add_product"
	opRemoveProduct = "remove_product"

	cartLoadWorkers = 4
)

type CartService interface {
	CreateCart(ctx context.Context) (*model.Cart, error)
	GetCart(ctx context.Context, id uint) (*model.CartWithTotal, error)
	ListCarts(ctx context.Context, page, pageSize int) (*Page[model.CartWithTotal], error)
	CalculateTotal(ctx context.Context, id uint) (decimal.Decimal, error)
	AddProductToCart(ctx context.Context, cartID, productID uint, quantity int) (*model.CartWithTotal, error)
	RemoveProductFromCart(ctx context.Context, cartID, lineItemID uint) (*model.CartWithTotal, error)
}

type CartServiceParams struct {
	DB        *gorm.DB
	Carts     repository.CartRepository
	Movements repository.StockMovementRepository
	Products  ProductService
	LineItems CartProductService
	Cache     cache.ProductCache
	Events    EventPublisher
	Metrics   *metrics.CartMetrics
	Logger    *logger.Logger
}

type cartService struct {
	db        *gorm.DB
	carts     repository.CartRepository
	movements repository.StockMovementRepository
	products  ProductService
	lineItems CartProductService
	cache     cache.ProductCache
	events    EventPublisher
	metrics   *metrics.CartMetrics
	log       *logger.Logger
}

func NewCartService(params CartServiceParams) CartService {
	s := &cartService{
		db:        params.DB,
		carts:     params.Carts,
		movements: params.Movements,
		products:  params.Products,
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

func (s *cartService) CreateCart(ctx context.Context) (*model.Cart, error) {
	cart := &model.Cart{CartProducts: []model.CartProduct{}}
	if err := s.carts.Create(ctx, cart); err != nil {
		return nil, apperror.Wrap(err, "failed to create cart")
	}
	return cart, nil
}

func (s *cartService) GetCart(ctx context.Context, id uint) (*model.CartWithTotal, error) {
	cart, err := s.carts.FindByID(ctx, id)
	if err != nil {
		return nil, apperror.Wrap(notFound(err, "cart %d not found", id), "failed to get cart")
	}
	return &model.CartWithTotal{Cart: cart, TotalPrice: cart.Total()}, nil
}

// ListCarts returns one page of carts. Each cart's line items are loaded and
// totalled concurrently, at most cartLoadWorkers at a time.
func (s *cartService) ListCarts(ctx context.Context, page, pageSize int) (*Page[model.CartWithTotal], error) {
	params := pagination.Normalize(page, pageSize)
	carts, total, err := s.carts.FindPage(ctx, repository.Query{Page: params.Page, PageSize: params.PageSize})
	if err != nil {
		return nil, apperror.Wrap(err, "failed to get all carts")
	}

	result := make([]model.CartWithTotal, len(carts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cartLoadWorkers)
	for i := range carts {
		g.Go(func() error {
			items, err := s.lineItems.FindAllByCart(gctx, carts[i].ID)
			if err != nil {
				return err
			}
			carts[i].CartProducts = items
			result[i] = model.CartWithTotal{Cart: &carts[i], TotalPrice: carts[i].Total()}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, apperror.Wrap(err, "failed to calc total prices in cart")
	}
	return newPage(result, total, params), nil
}

// CalculateTotal is zero for an empty or unknown cart.
func (s *cartService) CalculateTotal(ctx context.Context, id uint) (decimal.Decimal, error) {
	cart, err := s.carts.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, apperror.Wrap(err, "failed to calc total prices in cart")
	}
	return cart.Total(), nil
}

// AddProductToCart moves quantity units of a product into a cart. An unknown
// cartID gets a fresh cart; the result always describes the cart actually
// used. Stock decrement, line item and ledger entry commit together.
func (s *cartService) AddProductToCart(ctx context.Context, cartID, productID uint, quantity int) (*model.CartWithTotal, error) {
	started := time.Now()
	result, err := s.addProductToCart(ctx, cartID, productID, quantity)
	s.metrics.Observe(opAddProduct, started, err)
	if err != nil {
		return nil, apperror.Wrap(err, "failed to add product to cart")
	}
	return result, nil
}

func (s *cartService) addProductToCart(ctx context.Context, cartID, productID uint, quantity int) (*model.CartWithTotal, error) {
	if quantity < 1 {
		return nil, apperror.Newf(apperror.CodeValidation, "quantity must be at least 1, got %d", quantity)
	}

	cart, err := s.findOrCreateCart(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if _, err := s.products.FindProductByID(ctx, productID); err != nil {
		return nil, err
	}

	var product *model.Product
	var oldStock int
	err = withStockRetry(ctx, s.metrics, opAddProduct, func(ctx context.Context) error {
		return database.WithTx(ctx, s.db, func(tx *gorm.DB) error {
			current, err := s.products.ReloadProduct(ctx, tx, productID)
			if err != nil {
				return err
			}
			oldStock = current.Quantity
			if err := s.products.DecreaseQuantity(ctx, tx, quantity, current); err != nil {
				return err
			}
			if _, err := s.lineItems.CreateLineItem(ctx, tx, quantity, current, cart.ID); err != nil {
				return err
			}
			if err := s.movements.WithTx(tx).Create(ctx, &model.StockMovement{
				ProductID:   current.ID,
				ProductName: current.Name,
				Type:        model.MovementOut,
				Quantity:    quantity,
				Reason:      model.ReasonCartAdd,
				CartID:      &cart.ID,
			}); err != nil {
				return err
			}
			product = current
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	s.afterStockChange(ctx, cart.ID, product, oldStock, ws.ActionProductAdded,
		fmt.Sprintf("%d x '%s' added to cart %d", quantity, product.Name, cart.ID))
	return s.GetCart(ctx, cart.ID)
}

func (s *cartService) findOrCreateCart(ctx context.Context, cartID uint) (*model.Cart, error) {
	cart, err := s.carts.FindByID(ctx, cartID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	created, err := s.CreateCart(ctx)
	if err != nil {
		return nil, err
	}
	if cartID != 0 {
		s.log.Info(s.log.WithFields(ctx, map[string]any{"requested_cart_id": cartID, "cart_id": created.ID}), "requested cart missing, created a new one")
	}
	return created, nil
}

// RemoveProductFromCart returns a line item's quantity to the product it was
// snapshotted from, matched by name, and deletes the line item.
func (s *cartService) RemoveProductFromCart(ctx context.Context, cartID, lineItemID uint) (*model.CartWithTotal, error) {
	started := time.Now()
	result, err := s.removeProductFromCart(ctx, cartID, lineItemID)
	s.metrics.Observe(opRemoveProduct, started, err)
	if err != nil {
		return nil, apperror.Wrap(err, "failed to delete product form cart")
	}
	return result, nil
}

func (s *cartService) removeProductFromCart(ctx context.Context, cartID, lineItemID uint) (*model.CartWithTotal, error) {
	item, err := s.lineItems.FindLineItem(ctx, cartID, lineItemID)
	if err != nil {
		return nil, err
	}
	if _, err := s.products.FindProductByName(ctx, nil, item.Name); err != nil {
		return nil, err
	}

	var product *model.Product
	var oldStock int
	err = withStockRetry(ctx, s.metrics, opRemoveProduct, func(ctx context.Context) error {
		return database.WithTx(ctx, s.db, func(tx *gorm.DB) error {
			current, err := s.products.FindProductByName(ctx, tx, item.Name)
			if err != nil {
				return err
			}
			oldStock = current.Quantity
			if err := s.products.IncreaseQuantity(ctx, tx, item.Quantity, current); err != nil {
				return err
			}
			if err := s.lineItems.DeleteLineItem(ctx, tx, item.ID); err != nil {
				return err
			}
			if err := s.movements.WithTx(tx).Create(ctx, &model.StockMovement{
				ProductID:   current.ID,
				ProductName: current.Name,
				Type:        model.MovementIn,
				Quantity:    item.Quantity,
				Reason:      model.ReasonCartRemove,
				CartID:      &cartID,
			}); err != nil {
				return err
			}
			product = current
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	s.afterStockChange(ctx, cartID, product, oldStock, ws.ActionProductRemoved,
		fmt.Sprintf("%d x '%s' removed from cart %d", item.Quantity, product.Name, cartID))
	return s.GetCart(ctx, cartID)
}

func (s *cartService) afterStockChange(ctx context.Context, cartID uint, product *model.Product, oldStock int, action, message string) {
	if err := s.cache.Invalidate(ctx, product.ID); err != nil {
		s.log.Warn(s.log.WithField(ctx, "error", err.Error()), "product cache invalidation failed")
	}
	s.events.Publish(ctx, ws.Event{
		Action:  action,
		CartID:  cartID,
		Product: productState(product, oldStock),
		Message: message,
	})
}
