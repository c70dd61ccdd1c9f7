package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/fatflowers/storetis/pkg/tool"
	"github.com/fatflowers/storetis/pkg/types"
)

// SubscriptionLog records changes to user subscriptions for troubleshooting.
type SubscriptionLog struct {
	ID             string                                `gorm:"column:id;type:varchar(36);primaryKey"`
	SubscriptionID string                                `gorm:"column:subscription_id;type:varchar(36);index;not null"`
	ActorID        *string                               `gorm:"column:actor_id;type:varchar(36)"`
	Reason         types.SubscriptionChangeReason        `gorm:"column:reason;type:varchar(32);not null"`
	Before         datatypes.JSONType[*UserSubscription] `gorm:"column:before"`
	After          datatypes.JSONType[*UserSubscription] `gorm:"column:after"`
	Extra          datatypes.JSONMap                     `gorm:"column:extra"`
	CreatedAt      time.Time
}

func (SubscriptionLog) TableName() string {
	return "subscription_log"
}

// OrderLog records order status changes.
type OrderLog struct {
	ID        string                     `gorm:"column:id;type:varchar(36);primaryKey"`
	OrderID   string                     `gorm:"column:order_id;type:varchar(36);index;not null"`
	ActorID   *string                    `gorm:"column:actor_id;type:varchar(36)"`
	Reason    types.OrderChangeReason    `gorm:"column:reason;type:varchar(32);not null"`
	Before    datatypes.JSONType[*Order] `gorm:"column:before"`
	After     datatypes.JSONType[*Order] `gorm:"column:after"`
	Extra     datatypes.JSONMap          `gorm:"column:extra"`
	CreatedAt time.Time
}

func (OrderLog) TableName() string {
	return "order_log"
}

// NewSubscriptionLog snapshots a subscription change. before may be nil for creations.
func NewSubscriptionLog(reason types.SubscriptionChangeReason, actorID *string, before, after *UserSubscription) *SubscriptionLog {
	id := ""
	if after != nil {
		id = after.ID
	} else if before != nil {
		id = before.ID
	}
	return &SubscriptionLog{
		ID:             tool.GenerateUUIDV7(),
		SubscriptionID: id,
		ActorID:        actorID,
		Reason:         reason,
		Before:         datatypes.NewJSONType(before),
		After:          datatypes.NewJSONType(after),
		Extra:          datatypes.JSONMap{},
	}
}

// NewOrderLog snapshots an order change. Items are not included in the snapshot.
func NewOrderLog(reason types.OrderChangeReason, actorID *string, before, after *Order) *OrderLog {
	strip := func(o *Order) *Order {
		if o == nil {
			return nil
		}
		c := *o
		c.Items = nil
		c.User = nil
		return &c
	}
	id := ""
	if after != nil {
		id = after.ID
	} else if before != nil {
		id = before.ID
	}
	return &OrderLog{
		ID:      tool.GenerateUUIDV7(),
		OrderID: id,
		ActorID: actorID,
		Reason:  reason,
		Before:  datatypes.NewJSONType(strip(before)),
		After:   datatypes.NewJSONType(strip(after)),
		Extra:   datatypes.JSONMap{},
	}
}
