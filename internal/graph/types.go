package graph

import (
	"strconv"
	"time"

	"go-cart-catalog/internal/model"
	"go-cart-catalog/internal/service"

	"github.com/graphql-go/graphql"
	"github.com/shopspring/decimal"
)

var productType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Product",
	Fields: graphql.Fields{
		"id":         &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"name":       &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"price":      &graphql.Field{Type: graphql.NewNonNull(graphql.Float)},
		"sale_price": &graphql.Field{Type: graphql.Float},
		"quantity":   &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"imageUrl":   &graphql.Field{Type: graphql.String},
		"version":    &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"created_at": &graphql.Field{Type: graphql.String},
		"updated_at": &graphql.Field{Type: graphql.String},
	},
})

var cartProductType = graphql.NewObject(graphql.ObjectConfig{
	Name: "CartProduct",
	Fields: graphql.Fields{
		"id":         &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"name":       &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"price":      &graphql.Field{Type: graphql.NewNonNull(graphql.Float)},
		"sale_price": &graphql.Field{Type: graphql.Float},
		"quantity":   &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"imageUrl":   &graphql.Field{Type: graphql.String},
		"cartId":     &graphql.Field{Type: graphql.ID},
		"version":    &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"created_at": &graphql.Field{Type: graphql.String},
		"updated_at": &graphql.Field{Type: graphql.String},
	},
})

var cartType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Cart",
	Fields: graphql.Fields{
		"id":         &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"products":   &graphql.Field{Type: graphql.NewList(graphql.NewNonNull(cartProductType))},
		"version":    &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"created_at": &graphql.Field{Type: graphql.String},
		"updated_at": &graphql.Field{Type: graphql.String},
	},
})

var cartWithTotalType = graphql.NewObject(graphql.ObjectConfig{
	Name: "CartWithTotal",
	Fields: graphql.Fields{
		"cart":       &graphql.Field{Type: graphql.NewNonNull(cartType)},
		"totalprice": &graphql.Field{Type: graphql.NewNonNull(graphql.Float)},
	},
})

var paginatedProductsType = graphql.NewObject(graphql.ObjectConfig{
	Name: "PaginatedProducts",
	Fields: graphql.Fields{
		"products": &graphql.Field{Type: graphql.NewList(graphql.NewNonNull(productType))},
		"total":    &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
	},
})

var cartsResponseType = graphql.NewObject(graphql.ObjectConfig{
	Name: "CartsResponse",
	Fields: graphql.Fields{
		"carts":      &graphql.Field{Type: graphql.NewList(graphql.NewNonNull(cartWithTotalType))},
		"totalCount": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
	},
})

func formatID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func money(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}

func optionalMoney(d decimal.NullDecimal) interface{} {
	if !d.Valid {
		return nil
	}
	return d.Decimal.InexactFloat64()
}

func timestamp(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t.Format(time.RFC3339)
}

func productData(p *model.Product) map[string]interface{} {
	return map[string]interface{}{
		"id":         formatID(p.ID),
		"name":       p.Name,
		"price":      money(p.Price),
		"sale_price": optionalMoney(p.SalePrice),
		"quantity":   p.Quantity,
		"imageUrl":   p.ImageURL,
		"version":    p.Version,
		"created_at": timestamp(p.CreatedAt),
		"updated_at": timestamp(p.UpdatedAt),
	}
}

func cartProductData(cp *model.CartProduct) map[string]interface{} {
	var cartID interface{}
	if cp.CartID != nil {
		cartID = formatID(*cp.CartID)
	}
	return map[string]interface{}{
		"id":         formatID(cp.ID),
		"name":       cp.Name,
		"price":      money(cp.Price),
		"sale_price": optionalMoney(cp.SalePrice),
		"quantity":   cp.Quantity,
		"imageUrl":   cp.ImageURL,
		"cartId":     cartID,
		"version":    cp.Version,
		"created_at": timestamp(cp.CreatedAt),
		"updated_at": timestamp(cp.UpdatedAt),
	}
}

func cartData(c *model.Cart) map[string]interface{} {
	products := make([]interface{}, len(c.CartProducts))
	for i := range c.CartProducts {
		products[i] = cartProductData(&c.CartProducts[i])
	}
	return map[string]interface{}{
		"id":         formatID(c.ID),
		"products":   products,
		"version":    c.Version,
		"created_at": timestamp(c.CreatedAt),
		"updated_at": timestamp(c.UpdatedAt),
	}
}

func cartWithTotalData(c *model.CartWithTotal) map[string]interface{} {
	return map[string]interface{}{
		"cart":       cartData(c.Cart),
		"totalprice": money(c.TotalPrice),
	}
}

func productPageData(page *service.Page[model.Product]) map[string]interface{} {
	products := make([]interface{}, len(page.Items))
	for i := range page.Items {
		products[i] = productData(&page.Items[i])
	}
	return map[string]interface{}{
		"products": products,
		"total":    int(page.Total),
	}
}
