package model

import "github.com/shopspring/decimal"

type Cart struct {
	BaseModel
	CartProducts []CartProduct `gorm:"foreignKey:CartID" json:"cartProducts"`
}

func (Cart) TableName() string {
	return "carts"
}

// Total sums the effective price of every loaded line item. Callers must
// preload CartProducts.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	if c == nil {
		return total
	}
	for i := range c.CartProducts {
		total = total.Add(c.CartProducts[i].Subtotal())
	}
	return total
}

// CartWithTotal is what every cart operation hands back to callers
type CartWithTotal struct {
	Cart       *Cart           `json:"cart"`
	TotalPrice decimal.Decimal `json:"totalprice"`
}
