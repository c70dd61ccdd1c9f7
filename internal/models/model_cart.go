package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/fatflowers/storetis/pkg/tool"
)

// CartItem is one (service, duration) pick awaiting checkout.
type CartItem struct {
	ID           string    `gorm:"column:id;type:varchar(36);primaryKey" json:"id"`
	UserID       string    `gorm:"column:user_id;type:varchar(36);not null;uniqueIndex:uk_cart_user_service_duration,priority:1" json:"user_id"`
	ServiceID    string    `gorm:"column:service_id;type:varchar(36);not null;uniqueIndex:uk_cart_user_service_duration,priority:2" json:"service_id"`
	Service      *Service  `gorm:"constraint:OnDelete:CASCADE" json:"service,omitempty"`
	DurationDays int       `gorm:"column:duration_days;not null;uniqueIndex:uk_cart_user_service_duration,priority:3" json:"duration_days"`
	CreatedAt    time.Time `json:"created_at"`
}

func (CartItem) TableName() string {
	return "cart_item"
}

func (c *CartItem) BeforeCreate(*gorm.DB) error {
	if c.ID == "" {
		c.ID = tool.GenerateUUIDV7()
	}
	return nil
}
