package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/fatflowers/storetis/pkg/tool"
)

// Post is a blog or advertising article.
type Post struct {
	ID        string    `gorm:"column:id;type:varchar(36);primaryKey" json:"id"`
	Title     string    `gorm:"column:title;type:varchar(255);not null" json:"title"`
	Slug      string    `gorm:"column:slug;type:varchar(255);not null;uniqueIndex" json:"slug"`
	Content   string    `gorm:"column:content;type:text" json:"content"`
	Image     string    `gorm:"column:image;type:varchar(512)" json:"image"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (Post) TableName() string {
	return "post"
}

func (p *Post) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = tool.GenerateUUIDV7()
	}
	return nil
}

// All lists every model for migrations.
func All() []any {
	return []any{
		&User{},
		&Category{},
		&Supplier{},
		&Service{},
		&ServiceDetail{},
		&ServiceImage{},
		&CartItem{},
		&Order{},
		&OrderItem{},
		&OrderLog{},
		&UserSubscription{},
		&SubscriptionLog{},
		&ConsultationRequest{},
		&Post{},
	}
}
