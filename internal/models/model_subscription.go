package models

import (
	"math"
	"time"

	"gorm.io/gorm"

	"github.com/fatflowers/storetis/pkg/tool"
)

// UserSubscription grants a user access to a service for DurationDays once
// staff verify payment. StartDate and ExpirationDate stay nil until then and
// are never recomputed afterwards.
type UserSubscription struct {
	ID             string     `gorm:"column:id;type:varchar(36);primaryKey" json:"id"`
	UserID         string     `gorm:"column:user_id;type:varchar(36);not null;index" json:"user_id"`
	User           *User      `gorm:"constraint:OnDelete:CASCADE" json:"user,omitempty"`
	ServiceID      string     `gorm:"column:service_id;type:varchar(36);not null;index" json:"service_id"`
	Service        *Service   `gorm:"constraint:OnDelete:CASCADE" json:"service,omitempty"`
	PurchasedByID  *string    `gorm:"column:purchased_by_id;type:varchar(36);index" json:"purchased_by_id"`
	PurchasedBy    *User      `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	OrderItemID    *string    `gorm:"column:order_item_id;type:varchar(36);index" json:"order_item_id"`
	DurationDays   int        `gorm:"column:duration_days;not null" json:"duration_days"`
	StartDate      *time.Time `gorm:"column:start_date;index" json:"start_date"`
	ExpirationDate *time.Time `gorm:"column:expiration_date" json:"expiration_date"`
	IsActive       bool       `gorm:"column:is_active;not null;default:true" json:"is_active"`
	IsVerified     bool       `gorm:"column:is_verified;not null;default:false;index" json:"is_verified"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (UserSubscription) TableName() string {
	return "user_subscription"
}

func (s *UserSubscription) BeforeCreate(*gorm.DB) error {
	if s.ID == "" {
		s.ID = tool.GenerateUUIDV7()
	}
	return nil
}

// IsExpired reports whether the verified window has ended at now. A
// subscription without an expiration never expires.
func (s *UserSubscription) IsExpired(now time.Time) bool {
	if s.ExpirationDate == nil {
		return false
	}
	return !now.Before(*s.ExpirationDate)
}

// RemainingDays is the number of started days left in the window at now.
func (s *UserSubscription) RemainingDays(now time.Time) int {
	if s.StartDate == nil || s.ExpirationDate == nil || s.IsExpired(now) {
		return 0
	}
	left := s.ExpirationDate.Sub(now)
	return int(math.Ceil(left.Hours() / 24))
}

// Usable reports whether the holder may use the service: active, and either
// still awaiting verification or inside its window.
func (s *UserSubscription) Usable(now time.Time) bool {
	return s.IsActive && (!s.IsVerified || (s.ExpirationDate != nil && now.Before(*s.ExpirationDate)))
}

// Expired is the dashboard notion of expiry: deactivated, or verified with the
// window behind it.
func (s *UserSubscription) Expired(now time.Time) bool {
	return !s.IsActive || (s.IsVerified && s.IsExpired(now))
}
