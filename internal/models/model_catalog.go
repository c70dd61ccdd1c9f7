package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/fatflowers/storetis/pkg/tool"
)

type Category struct {
	ID          string `gorm:"column:id;type:varchar(36);primaryKey" json:"id"`
	Name        string `gorm:"column:name;type:varchar(100);not null;uniqueIndex" json:"name"`
	Slug        string `gorm:"column:slug;type:varchar(110);not null;uniqueIndex" json:"slug"`
	Description string `gorm:"column:description;type:text" json:"description"`
	Color       string `gorm:"column:color;type:varchar(7);not null;default:'#333333'" json:"color"`
}

func (Category) TableName() string {
	return "category"
}

func (c *Category) BeforeCreate(*gorm.DB) error {
	if c.ID == "" {
		c.ID = tool.GenerateUUIDV7()
	}
	if c.Slug == "" {
		c.Slug = tool.Slugify(c.Name)
	}
	return nil
}

type Supplier struct {
	ID    string `gorm:"column:id;type:varchar(36);primaryKey" json:"id"`
	Name  string `gorm:"column:name;type:varchar(200);not null;uniqueIndex" json:"name"`
	Logo  string `gorm:"column:logo;type:varchar(512)" json:"logo"`
	Color string `gorm:"column:color;type:varchar(7);not null;default:'#333333'" json:"color"`
}

func (Supplier) TableName() string {
	return "supplier"
}

func (s *Supplier) BeforeCreate(*gorm.DB) error {
	if s.ID == "" {
		s.ID = tool.GenerateUUIDV7()
	}
	return nil
}

// Service is a sellable catalog entry. A null Price means the price is given
// on contact and the service cannot be checked out.
type Service struct {
	ID               string              `gorm:"column:id;type:varchar(36);primaryKey" json:"id"`
	Name             string              `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Description      string              `gorm:"column:description;type:text" json:"description"`
	CategoryID       *string             `gorm:"column:category_id;type:varchar(36);index" json:"category_id"`
	Category         *Category           `gorm:"constraint:OnDelete:SET NULL" json:"category,omitempty"`
	SupplierID       *string             `gorm:"column:supplier_id;type:varchar(36);index" json:"supplier_id"`
	Supplier         *Supplier           `gorm:"constraint:OnDelete:SET NULL" json:"supplier,omitempty"`
	Thumbnail        string              `gorm:"column:thumbnail;type:varchar(512)" json:"thumbnail"`
	Price            decimal.NullDecimal `gorm:"column:price;type:numeric(10,2)" json:"price"`
	IsPriceOnContact bool                `gorm:"column:is_price_on_contact;not null;default:false" json:"is_price_on_contact"`
	CreatedByID      *string             `gorm:"column:created_by_id;type:varchar(36)" json:"created_by_id"`
	Details          []ServiceDetail     `gorm:"constraint:OnDelete:CASCADE" json:"details,omitempty"`
	Images           []ServiceImage      `gorm:"constraint:OnDelete:CASCADE" json:"images,omitempty"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
}

func (Service) TableName() string {
	return "service"
}

func (s *Service) BeforeCreate(*gorm.DB) error {
	if s.ID == "" {
		s.ID = tool.GenerateUUIDV7()
	}
	return nil
}

// FixedPrice returns the checkout price, or false when the price is on contact.
func (s *Service) FixedPrice() (decimal.Decimal, bool) {
	if s == nil || s.IsPriceOnContact || !s.Price.Valid {
		return decimal.Zero, false
	}
	return s.Price.Decimal, true
}

// CategoryLabel is the category name shown next to a service.
func (s *Service) CategoryLabel() string {
	if s == nil || s.Category == nil || s.Category.Name == "" {
		return "Khác"
	}
	return s.Category.Name
}

type ServiceDetail struct {
	ID        string `gorm:"column:id;type:varchar(36);primaryKey" json:"id"`
	ServiceID string `gorm:"column:service_id;type:varchar(36);not null;index" json:"service_id"`
	Title     string `gorm:"column:title;type:varchar(255);not null" json:"title"`
	Content   string `gorm:"column:content;type:text" json:"content"`
}

func (ServiceDetail) TableName() string {
	return "service_detail"
}

func (d *ServiceDetail) BeforeCreate(*gorm.DB) error {
	if d.ID == "" {
		d.ID = tool.GenerateUUIDV7()
	}
	return nil
}

type ServiceImage struct {
	ID        string `gorm:"column:id;type:varchar(36);primaryKey" json:"id"`
	ServiceID string `gorm:"column:service_id;type:varchar(36);not null;index" json:"service_id"`
	Image     string `gorm:"column:image;type:varchar(512);not null" json:"image"`
	Caption   string `gorm:"column:caption;type:varchar(255)" json:"caption"`
}

func (ServiceImage) TableName() string {
	return "service_image"
}

func (i *ServiceImage) BeforeCreate(*gorm.DB) error {
	if i.ID == "" {
		i.ID = tool.GenerateUUIDV7()
	}
	return nil
}
