package model

import "github.com/shopspring/decimal"

type Product struct {
	BaseModel
	ImageURL  string              `gorm:"column:imageUrl;type:varchar(255)" json:"imageUrl"`
	Name      string              `gorm:"type:varchar(255);not null;uniqueIndex" json:"name"`
	Price     decimal.Decimal     `gorm:"type:decimal(10,2);not null" json:"price"`
	SalePrice decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"sale_price"`
	Quantity  int                 `gorm:"not null;default:0" json:"quantity"`
}

func (Product) TableName() string {
	return "products"
}

// EffectivePrice is the sale price when one is set, the list price otherwise.
func EffectivePrice(price decimal.Decimal, sale decimal.NullDecimal) decimal.Decimal {
	if sale.Valid {
		return sale.Decimal
	}
	return price
}

func (p *Product) EffectivePrice() decimal.Decimal {
	return EffectivePrice(p.Price, p.SalePrice)
}
