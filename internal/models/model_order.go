package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/fatflowers/storetis/pkg/tool"
	"github.com/fatflowers/storetis/pkg/types"
)

// Order is a committed purchase. UserID is cleared when the owner is deleted.
type Order struct {
	ID         string            `gorm:"column:id;type:varchar(36);primaryKey" json:"id"`
	UserID     *string           `gorm:"column:user_id;type:varchar(36);index" json:"user_id"`
	User       *User             `gorm:"constraint:OnDelete:SET NULL" json:"user,omitempty"`
	Status     types.OrderStatus `gorm:"column:status;type:varchar(20);not null;default:'pending';index" json:"status"`
	TotalPrice decimal.Decimal   `gorm:"column:total_price;type:numeric(12,2);not null;default:0" json:"total_price"`
	Items      []OrderItem       `gorm:"constraint:OnDelete:CASCADE" json:"items,omitempty"`
	CreatedAt  time.Time         `gorm:"index" json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

func (Order) TableName() string {
	return "orders"
}

func (o *Order) BeforeCreate(*gorm.DB) error {
	if o.ID == "" {
		o.ID = tool.GenerateUUIDV7()
	}
	return nil
}

// ItemsTotal sums the line prices of the loaded items.
func (o *Order) ItemsTotal() decimal.Decimal {
	total := decimal.Zero
	for _, it := range o.Items {
		total = total.Add(it.Price)
	}
	return total
}

// OrderItem snapshots what was bought. Name, price and duration never change
// after creation; the foreign keys are nulled when their targets are deleted.
type OrderItem struct {
	ID           string          `gorm:"column:id;type:varchar(36);primaryKey" json:"id"`
	OrderID      string          `gorm:"column:order_id;type:varchar(36);not null;index" json:"order_id"`
	ServiceID    *string         `gorm:"column:service_id;type:varchar(36);index" json:"service_id"`
	Service      *Service        `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	ServiceName  string          `gorm:"column:service_name;type:varchar(255);not null" json:"service_name"`
	CategoryID   *string         `gorm:"column:category_id;type:varchar(36);index" json:"category_id"`
	Category     *Category       `gorm:"constraint:OnDelete:SET NULL" json:"category,omitempty"`
	SupplierID   *string         `gorm:"column:supplier_id;type:varchar(36);index" json:"supplier_id"`
	Supplier     *Supplier       `gorm:"constraint:OnDelete:SET NULL" json:"supplier,omitempty"`
	Price        decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null" json:"price"`
	DurationDays int             `gorm:"column:duration_days;not null" json:"duration_days"`
}

func (OrderItem) TableName() string {
	return "order_item"
}

func (i *OrderItem) BeforeCreate(*gorm.DB) error {
	if i.ID == "" {
		i.ID = tool.GenerateUUIDV7()
	}
	return nil
}
