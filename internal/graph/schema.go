package graph

import (
	"fmt"
	"strconv"

	"go-cart-catalog/internal/service"
	"go-cart-catalog/pkg/apperror"
	"go-cart-catalog/pkg/pagination"

	"github.com/graphql-go/graphql"
)

// Resolver answers every query and mutation from the service layer.
type Resolver struct {
	products  service.ProductService
	carts     service.CartService
	lineItems service.CartProductService
}

func NewResolver(products service.ProductService, carts service.CartService, lineItems service.CartProductService) *Resolver {
	return &Resolver{products: products, carts: carts, lineItems: lineItems}
}

var pageArgs = graphql.FieldConfigArgument{
	"page":     &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: pagination.DefaultPage},
	"pageSize": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: pagination.DefaultPageSize},
}

// NewSchema builds the executable schema bound to r.
func NewSchema(r *Resolver) (graphql.Schema, error) {
	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"getCartWithTotal": &graphql.Field{
				Type: cartWithTotalType,
				Args: graphql.FieldConfigArgument{
					"cartId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: r.getCartWithTotal,
			},
			"getAllCarts": &graphql.Field{
				Type:    cartsResponseType,
				Args:    pageArgs,
				Resolve: r.getAllCarts,
			},
			"getAllCartProductsByName": &graphql.Field{
				Type: graphql.NewList(graphql.NewNonNull(cartProductType)),
				Args: graphql.FieldConfigArgument{
					"name": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: r.getAllCartProductsByName,
			},
			"getProductById": &graphql.Field{
				Type: productType,
				Args: graphql.FieldConfigArgument{
					"productId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: r.getProductByID,
			},
			"getAllProducts":                                  r.productList(service.ProductFilter{}),
			"getProductsHighestPrice":                         r.productList(service.ProductFilter{Sort: service.SortPriceDesc}),
			"getProductsLowestPrice":                          r.productList(service.ProductFilter{Sort: service.SortPriceAsc}),
			"getProductsAvailableSalePrice":                   r.productList(service.ProductFilter{OnSale: true}),
			"getProductsPriceLessThanOneHundered":             r.productList(service.ProductFilter{Band: service.BandUnder100}),
			"getProductsPriceBetweenOneHundredAndOneThousand": r.productList(service.ProductFilter{Band: service.Band100To1000}),
			"getProductsPriceAboveOneThousand":                r.productList(service.ProductFilter{Band: service.BandOver1000}),
		},
	})

	mutation := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"createCart": &graphql.Field{
				Type:    cartType,
				Resolve: r.createCart,
			},
			"addProductTocart": &graphql.Field{
				Type: cartWithTotalType,
				Args: graphql.FieldConfigArgument{
					"cartId":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"productId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
					"quantity":  &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 1},
				},
				Resolve: r.addProductToCart,
			},
			"deleteProductFromCart": &graphql.Field{
				Type: cartWithTotalType,
				Args: graphql.FieldConfigArgument{
					"cartId":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"productId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int), Description: "line item id"},
				},
				Resolve: r.deleteProductFromCart,
			},
			"deleteProduct": &graphql.Field{
				Type: paginatedProductsType,
				Args: graphql.FieldConfigArgument{
					"productId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: r.deleteProduct,
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{Query: query, Mutation: mutation})
}

func (r *Resolver) productList(filter service.ProductFilter) *graphql.Field {
	return &graphql.Field{
		Type: paginatedProductsType,
		Args: pageArgs,
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			page, pageSize := pageOf(p)
			result, err := r.products.ListProducts(p.Context, filter, page, pageSize)
			if err != nil {
				return nil, wrap(err)
			}
			return productPageData(result), nil
		},
	}
}

func (r *Resolver) getCartWithTotal(p graphql.ResolveParams) (interface{}, error) {
	id, err := idArg(p, "cartId")
	if err != nil {
		return nil, err
	}
	cart, err := r.carts.GetCart(p.Context, id)
	if err != nil {
		return nil, wrap(err)
	}
	return cartWithTotalData(cart), nil
}

func (r *Resolver) getAllCarts(p graphql.ResolveParams) (interface{}, error) {
	page, pageSize := pageOf(p)
	result, err := r.carts.ListCarts(p.Context, page, pageSize)
	if err != nil {
		return nil, wrap(err)
	}
	carts := make([]interface{}, len(result.Items))
	for i := range result.Items {
		carts[i] = cartWithTotalData(&result.Items[i])
	}
	return map[string]interface{}{"carts": carts, "totalCount": int(result.Total)}, nil
}

func (r *Resolver) getAllCartProductsByName(p graphql.ResolveParams) (interface{}, error) {
	name, _ := p.Args["name"].(string)
	items, err := r.lineItems.FindAllByName(p.Context, name)
	if err != nil {
		return nil, wrap(err)
	}
	out := make([]interface{}, len(items))
	for i := range items {
		out[i] = cartProductData(&items[i])
	}
	return out, nil
}

func (r *Resolver) getProductByID(p graphql.ResolveParams) (interface{}, error) {
	id, err := idArg(p, "productId")
	if err != nil {
		return nil, err
	}
	product, err := r.products.FindProductByID(p.Context, id)
	if err != nil {
		return nil, wrap(err)
	}
	return productData(product), nil
}

func (r *Resolver) createCart(p graphql.ResolveParams) (interface{}, error) {
	cart, err := r.carts.CreateCart(p.Context)
	if err != nil {
		return nil, wrap(err)
	}
	return cartData(cart), nil
}

func (r *Resolver) addProductToCart(p graphql.ResolveParams) (interface{}, error) {
	cartID, err := idArg(p, "cartId")
	if err != nil {
		return nil, err
	}
	productID, err := idArg(p, "productId")
	if err != nil {
		return nil, err
	}
	quantity, _ := p.Args["quantity"].(int)
	cart, err := r.carts.AddProductToCart(p.Context, cartID, productID, quantity)
	if err != nil {
		return nil, wrap(err)
	}
	return cartWithTotalData(cart), nil
}

func (r *Resolver) deleteProductFromCart(p graphql.ResolveParams) (interface{}, error) {
	cartID, err := idArg(p, "cartId")
	if err != nil {
		return nil, err
	}
	lineItemID, err := idArg(p, "productId")
	if err != nil {
		return nil, err
	}
	cart, err := r.carts.RemoveProductFromCart(p.Context, cartID, lineItemID)
	if err != nil {
		return nil, wrap(err)
	}
	return cartWithTotalData(cart), nil
}

func (r *Resolver) deleteProduct(p graphql.ResolveParams) (interface{}, error) {
	id, err := idArg(p, "productId")
	if err != nil {
		return nil, err
	}
	page, err := r.products.DeleteProduct(p.Context, id)
	if err != nil {
		return nil, wrap(err)
	}
	return productPageData(page), nil
}

func pageOf(p graphql.ResolveParams) (int, int) {
	page, _ := p.Args["page"].(int)
	pageSize, _ := p.Args["pageSize"].(int)
	return page, pageSize
}

// idArg reads an ID or Int argument as a non-negative id.
func idArg(p graphql.ResolveParams, name string) (uint, error) {
	switch v := p.Args[name].(type) {
	case int:
		if v >= 0 {
			return uint(v), nil
		}
	case string:
		if id, err := strconv.ParseUint(v, 10, 32); err == nil {
			return uint(id), nil
		}
	}
	return 0, wrap(apperror.Newf(apperror.CodeValidation, "invalid %s: %v", name, p.Args[name]))
}

// codedError exposes the error code under extensions.code.
type codedError struct {
	err error
}

func wrap(err error) error {
	return &codedError{err: err}
}

func (e *codedError) Error() string {
	return e.err.Error()
}

func (e *codedError) Unwrap() error {
	return e.err
}

func (e *codedError) Extensions() map[string]interface{} {
	return map[string]interface{}{"code": fmt.Sprint(apperror.CodeOf(e.err))}
}
