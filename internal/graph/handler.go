package graph

import (
	"go-cart-catalog/pkg/apperror"

	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"
)

type request struct {
	Query         string                 `json:"query"`
	Variables     map[string]interface{} `json:"variables"`
	OperationName string                 `json:"operationName"`
}

// Handler serves POST /graphql. Resolver failures come back in errors[]
// with a 200, the way GraphQL clients expect.
func Handler(schema graphql.Schema) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req request
		if err := c.BodyParser(&req); err != nil || req.Query == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "request body must carry a query",
				"code":  apperror.CodeValidation,
			})
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.UserContext(),
		})
		return c.JSON(result)
	}
}
