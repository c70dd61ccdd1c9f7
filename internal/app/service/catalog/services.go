package catalog

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/fatflowers/storetis/internal/models"
	"github.com/fatflowers/storetis/pkg/errs"
	"github.com/fatflowers/storetis/pkg/types"
)

type DetailInput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type ServiceInput struct {
	Name             string           `json:"name"`
	Description      string           `json:"description"`
	CategoryID       *string          `json:"category_id"`
	SupplierID       *string          `json:"supplier_id"`
	Price            *decimal.Decimal `json:"price"`
	IsPriceOnContact bool             `json:"is_price_on_contact"`
	Details          []DetailInput    `json:"details"`
}

type ServiceFilter struct {
	CategoryID string          `form:"category"`
	SupplierID string          `form:"supplier"`
	Price      types.PriceKind `form:"price"`
}

// applyPriceKind narrows q to services priced as kind.
func applyPriceKind(q *gorm.DB, kind types.PriceKind) *gorm.DB {
	switch kind {
	case types.PriceKindContact:
		return q.Where("is_price_on_contact = ?", true)
	case types.PriceKindPaid:
		return q.Where("is_price_on_contact = ? AND price > ?", false, 0)
	case types.PriceKindFree:
		return q.Where("is_price_on_contact = ? AND price = ?", false, 0)
	}
	return q
}

// ListPublic lists services for the storefront, optionally restricted to the
// category with categorySlug.
func (s *Service) ListPublic(ctx context.Context, categorySlug string) ([]models.Service, error) {
	q := s.db.WithContext(ctx).Preload("Category")
	if categorySlug != "" {
		c, err := s.GetCategoryBySlug(ctx, categorySlug)
		if err != nil {
			return nil, err
		}
		q = q.Where("category_id = ?", c.ID)
	}
	out := make([]models.Service, 0)
	err := q.Order("created_at DESC").Find(&out).Error
	return out, err
}

func (s *Service) ListForStaff(ctx context.Context, f *ServiceFilter) ([]models.Service, error) {
	q := s.db.WithContext(ctx).Preload("Category").Preload("Supplier")
	if f != nil {
		if f.CategoryID != "" {
			q = q.Where("category_id = ?", f.CategoryID)
		}
		if f.SupplierID != "" {
			q = q.Where("supplier_id = ?", f.SupplierID)
		}
		q = applyPriceKind(q, f.Price)
	}
	out := make([]models.Service, 0)
	err := q.Order("name").Find(&out).Error
	return out, err
}

func (s *Service) GetService(ctx context.Context, id string) (*models.Service, error) {
	var svc models.Service
	err := s.db.WithContext(ctx).
		Preload("Category").
		Preload("Supplier").
		Preload("Details").
		Preload("Images").
		First(&svc, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err, ErrServiceNotFound)
	}
	return &svc, nil
}

// buildService validates in and returns the record to persist. A service
// priced on contact never keeps a price.
func buildService(in *ServiceInput) (*models.Service, *errs.ValidationError) {
	verr := &errs.ValidationError{}
	svc := &models.Service{
		Name:             strings.TrimSpace(in.Name),
		Description:      strings.TrimSpace(in.Description),
		CategoryID:       nonEmpty(in.CategoryID),
		SupplierID:       nonEmpty(in.SupplierID),
		IsPriceOnContact: in.IsPriceOnContact,
	}
	if svc.Name == "" {
		verr.Add("name", "is required")
	}
	switch {
	case in.IsPriceOnContact:
		svc.Price = decimal.NullDecimal{}
	case in.Price == nil:
		verr.Add("price", "is required unless the price is given on contact")
	case in.Price.IsNegative():
		verr.Add("price", "must not be negative")
	default:
		svc.Price = decimal.NewNullDecimal(in.Price.Round(2))
	}
	for _, d := range in.Details {
		title := strings.TrimSpace(d.Title)
		if title == "" {
			verr.Add("details", "every detail needs a title")
			continue
		}
		svc.Details = append(svc.Details, models.ServiceDetail{Title: title, Content: d.Content})
	}
	return svc, verr
}

func nonEmpty(p *string) *string {
	if p == nil || strings.TrimSpace(*p) == "" {
		return nil
	}
	v := strings.TrimSpace(*p)
	return &v
}

func (s *Service) checkRefs(ctx context.Context, tx *gorm.DB, svc *models.Service, verr *errs.ValidationError) error {
	if svc.CategoryID != nil {
		var n int64
		if err := tx.WithContext(ctx).Model(&models.Category{}).Where("id = ?", *svc.CategoryID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			verr.Add("category_id", "unknown category")
		}
	}
	if svc.SupplierID != nil {
		var n int64
		if err := tx.WithContext(ctx).Model(&models.Supplier{}).Where("id = ?", *svc.SupplierID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			verr.Add("supplier_id", "unknown supplier")
		}
	}
	return nil
}

func (s *Service) CreateService(ctx context.Context, createdBy string, in *ServiceInput) (*models.Service, error) {
	svc, verr := buildService(in)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.checkRefs(ctx, tx, svc, verr); err != nil {
			return err
		}
		if err := verr.OrNil(); err != nil {
			return err
		}
		if createdBy != "" {
			svc.CreatedByID = &createdBy
		}
		return tx.Create(svc).Error
	})
	if err != nil {
		return nil, err
	}
	return s.GetService(ctx, svc.ID)
}

// UpdateService replaces the editable fields and the detail sections.
func (s *Service) UpdateService(ctx context.Context, id string, in *ServiceInput) (*models.Service, error) {
	next, verr := buildService(in)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cur models.Service
		if err := tx.First(&cur, "id = ?", id).Error; err != nil {
			return notFound(err, ErrServiceNotFound)
		}
		if err := s.checkRefs(ctx, tx, next, verr); err != nil {
			return err
		}
		if err := verr.OrNil(); err != nil {
			return err
		}
		cur.Name = next.Name
		cur.Description = next.Description
		cur.CategoryID = next.CategoryID
		cur.SupplierID = next.SupplierID
		cur.Price = next.Price
		cur.IsPriceOnContact = next.IsPriceOnContact
		if err := tx.Omit("Details", "Images", "Category", "Supplier").Save(&cur).Error; err != nil {
			return err
		}
		if err := tx.Where("service_id = ?", id).Delete(&models.ServiceDetail{}).Error; err != nil {
			return err
		}
		for i := range next.Details {
			next.Details[i].ServiceID = id
		}
		if len(next.Details) > 0 {
			return tx.Create(&next.Details).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetService(ctx, id)
}

func (s *Service) DeleteService(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&models.Service{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrServiceNotFound
	}
	return nil
}

func (s *Service) SetThumbnail(ctx context.Context, id, url string) error {
	res := s.db.WithContext(ctx).Model(&models.Service{}).Where("id = ?", id).Update("thumbnail", url)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrServiceNotFound
	}
	return nil
}

func (s *Service) AddImage(ctx context.Context, serviceID, url, caption string) (*models.ServiceImage, error) {
	if _, err := s.GetService(ctx, serviceID); err != nil {
		return nil, err
	}
	img := &models.ServiceImage{ServiceID: serviceID, Image: url, Caption: strings.TrimSpace(caption)}
	if err := s.db.WithContext(ctx).Create(img).Error; err != nil {
		return nil, err
	}
	return img, nil
}

func (s *Service) RemoveImage(ctx context.Context, serviceID, imageID string) error {
	res := s.db.WithContext(ctx).Delete(&models.ServiceImage{}, "id = ? AND service_id = ?", imageID, serviceID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.New(errs.ErrNotFound, "image not found")
	}
	return nil
}
