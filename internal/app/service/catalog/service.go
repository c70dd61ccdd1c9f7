package catalog

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fatflowers/storetis/internal/models"
	"github.com/fatflowers/storetis/pkg/errs"
	"github.com/fatflowers/storetis/pkg/tool"
)

var (
	ErrCategoryNotFound = errs.New(errs.ErrNotFound, "category not found")
	ErrSupplierNotFound = errs.New(errs.ErrNotFound, "supplier not found")
	ErrServiceNotFound  = errs.New(errs.ErrNotFound, "service not found")
	ErrSupplierInUse    = errs.New(errs.ErrConflict, "supplier still has services attached")
)

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

const defaultColor = "#333333"

type Service struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func NewService(db *gorm.DB, log *zap.SugaredLogger) *Service {
	return &Service{db: db, log: log}
}

func notFound(err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}

func normalizeColor(c string, verr *errs.ValidationError) string {
	c = strings.TrimSpace(c)
	if c == "" {
		return defaultColor
	}
	if !hexColor.MatchString(c) {
		verr.Add("color", "must be a hex colour such as #e4002b")
	}
	return c
}

type CategoryInput struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	Color       string `json:"color"`
}

func (s *Service) ListCategories(ctx context.Context) ([]models.Category, error) {
	out := make([]models.Category, 0)
	err := s.db.WithContext(ctx).Order("name").Find(&out).Error
	return out, err
}

func (s *Service) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	var c models.Category
	if err := s.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, notFound(err, ErrCategoryNotFound)
	}
	return &c, nil
}

func (s *Service) GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var c models.Category
	if err := s.db.WithContext(ctx).First(&c, "slug = ?", slug).Error; err != nil {
		return nil, notFound(err, ErrCategoryNotFound)
	}
	return &c, nil
}

// validateCategory checks the input and uniqueness of name (case-insensitive)
// and slug, ignoring the category being edited.
func (s *Service) validateCategory(ctx context.Context, tx *gorm.DB, in *CategoryInput, selfID string) (*models.Category, error) {
	verr := &errs.ValidationError{}
	c := &models.Category{
		Name:        strings.TrimSpace(in.Name),
		Slug:        tool.Slugify(in.Slug),
		Description: strings.TrimSpace(in.Description),
	}
	c.Color = normalizeColor(in.Color, verr)
	if c.Name == "" {
		verr.Add("name", "is required")
	}
	if c.Slug == "" {
		c.Slug = tool.Slugify(c.Name)
	}
	if c.Name != "" {
		var n int64
		q := tx.WithContext(ctx).Model(&models.Category{}).Where("LOWER(name) = ?", strings.ToLower(c.Name))
		if selfID != "" {
			q = q.Where("id <> ?", selfID)
		}
		if err := q.Count(&n).Error; err != nil {
			return nil, err
		}
		if n > 0 {
			verr.Add("name", "a category with this name already exists")
		}
	}
	if c.Slug != "" {
		var n int64
		q := tx.WithContext(ctx).Model(&models.Category{}).Where("slug = ?", c.Slug)
		if selfID != "" {
			q = q.Where("id <> ?", selfID)
		}
		if err := q.Count(&n).Error; err != nil {
			return nil, err
		}
		if n > 0 {
			verr.Add("slug", "already in use")
		}
	}
	return c, verr.OrNil()
}

func duplicateField(err error, field string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errs.Field(field, "already exists")
	}
	return err
}

func (s *Service) CreateCategory(ctx context.Context, in *CategoryInput) (*models.Category, error) {
	c, err := s.validateCategory(ctx, s.db, in, "")
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(c).Error; err != nil {
		return nil, duplicateField(err, "name")
	}
	return c, nil
}

func (s *Service) UpdateCategory(ctx context.Context, id string, in *CategoryInput) (*models.Category, error) {
	existing, err := s.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	c, err := s.validateCategory(ctx, s.db, in, id)
	if err != nil {
		return nil, err
	}
	c.ID = existing.ID
	if err := s.db.WithContext(ctx).Save(c).Error; err != nil {
		return nil, duplicateField(err, "name")
	}
	return c, nil
}

type SupplierInput struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

func (s *Service) ListSuppliers(ctx context.Context) ([]models.Supplier, error) {
	out := make([]models.Supplier, 0)
	err := s.db.WithContext(ctx).Order("name").Find(&out).Error
	return out, err
}

func (s *Service) GetSupplier(ctx context.Context, id string) (*models.Supplier, error) {
	var sp models.Supplier
	if err := s.db.WithContext(ctx).First(&sp, "id = ?", id).Error; err != nil {
		return nil, notFound(err, ErrSupplierNotFound)
	}
	return &sp, nil
}

func (s *Service) validateSupplier(ctx context.Context, in *SupplierInput, selfID string) (*models.Supplier, error) {
	verr := &errs.ValidationError{}
	sp := &models.Supplier{Name: strings.TrimSpace(in.Name)}
	sp.Color = normalizeColor(in.Color, verr)
	if sp.Name == "" {
		verr.Add("name", "is required")
	} else {
		var n int64
		q := s.db.WithContext(ctx).Model(&models.Supplier{}).Where("name = ?", sp.Name)
		if selfID != "" {
			q = q.Where("id <> ?", selfID)
		}
		if err := q.Count(&n).Error; err != nil {
			return nil, err
		}
		if n > 0 {
			verr.Add("name", "a supplier with this name already exists")
		}
	}
	return sp, verr.OrNil()
}

func (s *Service) CreateSupplier(ctx context.Context, in *SupplierInput) (*models.Supplier, error) {
	sp, err := s.validateSupplier(ctx, in, "")
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(sp).Error; err != nil {
		return nil, duplicateField(err, "name")
	}
	return sp, nil
}

func (s *Service) UpdateSupplier(ctx context.Context, id string, in *SupplierInput) (*models.Supplier, error) {
	existing, err := s.GetSupplier(ctx, id)
	if err != nil {
		return nil, err
	}
	sp, err := s.validateSupplier(ctx, in, id)
	if err != nil {
		return nil, err
	}
	existing.Name, existing.Color = sp.Name, sp.Color
	if err := s.db.WithContext(ctx).Save(existing).Error; err != nil {
		return nil, duplicateField(err, "name")
	}
	return existing, nil
}

func (s *Service) SetSupplierLogo(ctx context.Context, id, url string) (*models.Supplier, error) {
	sp, err := s.GetSupplier(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(sp).Update("logo", url).Error; err != nil {
		return nil, err
	}
	sp.Logo = url
	return sp, nil
}

// DeleteSupplier refuses while any service still references the supplier.
func (s *Service) DeleteSupplier(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.Service{}).Where("supplier_id = ?", id).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrSupplierInUse
		}
		res := tx.Delete(&models.Supplier{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrSupplierNotFound
		}
		return nil
	})
}
