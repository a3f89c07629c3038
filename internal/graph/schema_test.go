package graph

import (
	"context"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"

	"go-cart-catalog/internal/repository"
	"go-cart-catalog/internal/service"
	"go-cart-catalog/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestSchema(t *testing.T) (graphql.Schema, *gorm.DB) {
	t.Helper()
	db := testutil.NewDB(t)
	movements := repository.NewStockMovementRepo(db)
	lineItems := service.NewCartProductService(repository.NewCartProductRepo(db))
	products := service.NewProductService(service.ProductServiceParams{
		DB:        db,
		Products:  repository.NewProductRepo(db),
		Movements: movements,
		LineItems: lineItems,
	})
	carts := service.NewCartService(service.CartServiceParams{
		DB:        db,
		Carts:     repository.NewCartRepo(db),
		Movements: movements,
		Products:  products,
		LineItems: lineItems,
	})
	schema, err := NewSchema(NewResolver(products, carts, lineItems))
	require.NoError(t, err)
	return schema, db
}

func run(t *testing.T, schema graphql.Schema, query string, vars map[string]interface{}) *graphql.Result {
	t.Helper()
	return graphql.Do(graphql.Params{
		Schema:         schema,
		RequestString:  query,
		VariableValues: vars,
		Context:        context.Background(),
	})
}

func data(t *testing.T, result *graphql.Result, field string) map[string]interface{} {
	t.Helper()
	require.Empty(t, result.Errors)
	root, ok := result.Data.(map[string]interface{})
	require.True(t, ok)
	out, ok := root[field].(map[string]interface{})
	require.True(t, ok, "missing %s in %v", field, root)
	return out
}

func TestCartMutations(t *testing.T) {
	schema, db := newTestSchema(t)
	lamp := testutil.SeedProduct(t, db, "Desk Lamp", "25.50", 5)

	created := data(t, run(t, schema, `mutation { createCart { id products { id } } }`, nil), "createCart")
	cartID := created["id"].(string)
	assert.Empty(t, created["products"])

	added := data(t, run(t, schema, `
		mutation Add($cartId: ID!, $productId: Int!, $quantity: Int) {
			addProductTocart(cartId: $cartId, productId: $productId, quantity: $quantity) {
				totalprice
				cart { id products { id name quantity price } }
			}
		}`, map[string]interface{}{"cartId": cartID, "productId": int(lamp.ID), "quantity": 2}), "addProductTocart")
	assert.Equal(t, 51.0, added["totalprice"])
	cart := added["cart"].(map[string]interface{})
	assert.Equal(t, cartID, cart["id"])
	lines := cart["products"].([]interface{})
	require.Len(t, lines, 1)
	line := lines[0].(map[string]interface{})
	assert.Equal(t, 2, line["quantity"])

	byName := run(t, schema, `{ getAllCartProductsByName(name: "Desk Lamp") { id cartId quantity } }`, nil)
	require.Empty(t, byName.Errors)
	assert.Len(t, byName.Data.(map[string]interface{})["getAllCartProductsByName"], 1)

	removed := data(t, run(t, schema, fmt.Sprintf(`
		mutation { deleteProductFromCart(cartId: %q, productId: %s) { totalprice cart { products { id } } } }`,
		cartID, line["id"].(string)), nil), "deleteProductFromCart")
	assert.Equal(t, 0.0, removed["totalprice"])

	withTotal := data(t, run(t, schema, fmt.Sprintf(`{ getCartWithTotal(cartId: %q) { totalprice } }`, cartID), nil), "getCartWithTotal")
	assert.Equal(t, 0.0, withTotal["totalprice"])

	all := data(t, run(t, schema, `{ getAllCarts { totalCount carts { totalprice } } }`, nil), "getAllCarts")
	assert.Equal(t, 1, all["totalCount"])

	product := data(t, run(t, schema, fmt.Sprintf(`{ getProductById(productId: %d) { name quantity sale_price } }`, lamp.ID), nil), "getProductById")
	assert.Equal(t, 5, product["quantity"])
	assert.Nil(t, product["sale_price"])
}

func TestAddProductTocartReportsServiceErrors(t *testing.T) {
	schema, db := newTestSchema(t)
	mug := testutil.SeedProduct(t, db, "Mug", "8", 1)

	result := run(t, schema, fmt.Sprintf(`mutation { addProductTocart(cartId: "1", productId: %d, quantity: 3) { totalprice } }`, mug.ID), nil)
	require.NotEmpty(t, result.Errors)
	assert.Contains(t, result.Errors[0].Message, "Not enough stock available")

	result = run(t, schema, `{ getProductById(productId: 999) { name } }`, nil)
	require.NotEmpty(t, result.Errors)
	assert.Contains(t, result.Errors[0].Message, "failed to get product: 999")
}

func TestPriceFilterQueries(t *testing.T) {
	schema, db := newTestSchema(t)
	testutil.SeedProduct(t, db, "Pencil", "2", 1)
	testutil.SeedProduct(t, db, "Chair", "150", 1)
	testutil.SeedProduct(t, db, "Laptop", "1500", 1)

	names := func(field string) []string {
		t.Helper()
		page := data(t, run(t, schema, fmt.Sprintf(`{ %s(page: 1, pageSize: 9) { total products { name } } }`, field), nil), field)
		var out []string
		for _, p := range page["products"].([]interface{}) {
			out = append(out, p.(map[string]interface{})["name"].(string))
		}
		return out
	}

	assert.Equal(t, []string{"Pencil", "Chair", "Laptop"}, names("getAllProducts"))
	assert.Equal(t, []string{"Laptop", "Chair", "Pencil"}, names("getProductsHighestPrice"))
	assert.Equal(t, []string{"Pencil", "Chair", "Laptop"}, names("getProductsLowestPrice"))
	assert.Equal(t, []string{"Pencil"}, names("getProductsPriceLessThanOneHundered"))
	assert.Equal(t, []string{"Chair"}, names("getProductsPriceBetweenOneHundredAndOneThousand"))
	assert.Equal(t, []string{"Laptop"}, names("getProductsPriceAboveOneThousand"))
	assert.Empty(t, names("getProductsAvailableSalePrice"))

	deleted := data(t, run(t, schema, `mutation { deleteProduct(productId: 1) { total products { name } } }`, nil), "deleteProduct")
	assert.Equal(t, 2, deleted["total"])
}

func TestHandlerServesQueries(t *testing.T) {
	schema, db := newTestSchema(t)
	testutil.SeedProduct(t, db, "Mug", "8", 1)
	app := fiber.New()
	app.Post("/graphql", Handler(schema))

	req := httptest.NewRequest("POST", "/graphql", strings.NewReader(`{"query":"{ getAllProducts { total } }"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	req = httptest.NewRequest("POST", "/graphql", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
