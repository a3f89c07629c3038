package model

type MovementType string

const (
	MovementIn  MovementType = "IN"
	MovementOut MovementType = "OUT"
)

const (
	ReasonCartAdd    = "cart_add"
	ReasonCartRemove = "cart_remove"
	ReasonRestock    = "restock"
)

// StockMovement is the ledger row written for every stock adjustment.
type StockMovement struct {
	BaseModel
	ProductID   uint         `gorm:"not null;index" json:"product_id"`
	ProductName string       `gorm:"type:varchar(255);not null" json:"product_name"` // Snapshot, the product may be renamed or deleted later
	Type        MovementType `gorm:"type:varchar(10);not null" json:"type"`
	Quantity    int          `gorm:"not null" json:"quantity"`
	Reason      string       `gorm:"type:varchar(30);not null" json:"reason"`
	CartID      *uint        `json:"cart_id,omitempty"`
}

func (StockMovement) TableName() string {
	return "stock_movements"
}

// All lists every table the API owns, in migration order.
func All() []interface{} {
	return []interface{}{&Product{}, &Cart{}, &CartProduct{}, &StockMovement{}}
}
