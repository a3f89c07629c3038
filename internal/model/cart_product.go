package model

import "github.com/shopspring/decimal"

// CartProduct is a line item: a snapshot of a product's name, prices and
// image taken when it was added, plus the requested quantity. It refers back
// to the catalog only through Name.
type CartProduct struct {
	BaseModel
	ImageURL  string              `gorm:"column:imageUrl;type:varchar(255)" json:"imageUrl"`
	Name      string              `gorm:"type:varchar(255);not null;index" json:"name"`
	Price     decimal.Decimal     `gorm:"type:decimal(10,2);not null" json:"price"`
	SalePrice decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"sale_price"`
	Quantity  int                 `gorm:"not null" json:"quantity"`

	CartID *uint `gorm:"column:cartId;index" json:"cartId"`
	Cart   *Cart `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"cart,omitempty"`
}

func (CartProduct) TableName() string {
	return "cart_products"
}

// Snapshot copies the product fields a line item keeps.
func (cp *CartProduct) Snapshot(p *Product) {
	cp.Name = p.Name
	cp.Price = p.Price
	cp.SalePrice = p.SalePrice
	cp.ImageURL = p.ImageURL
}

func (cp *CartProduct) Subtotal() decimal.Decimal {
	return EffectivePrice(cp.Price, cp.SalePrice).Mul(decimal.NewFromInt(int64(cp.Quantity)))
}
