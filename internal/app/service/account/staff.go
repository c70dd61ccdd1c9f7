package account

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/fatflowers/storetis/internal/models"
)

type UserQuery struct {
	Search string `form:"q"`
	Page   int    `form:"page"`
	Size   int    `form:"size"`
}

type UserPage struct {
	Items []models.User `json:"items"`
	Total int64         `json:"total"`
}

// ListUsers searches name, email, phone and CCCD case-insensitively, newest first.
func (s *Service) ListUsers(ctx context.Context, q *UserQuery) (*UserPage, error) {
	size := q.Size
	if size <= 0 || size > 100 {
		size = 20
	}
	page := max(q.Page, 1)

	tx := s.db.WithContext(ctx).Model(&models.User{})
	if term := strings.TrimSpace(q.Search); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		tx = tx.Where("LOWER(full_name) LIKE ? OR LOWER(email) LIKE ? OR phone LIKE ? OR cccd LIKE ?", like, like, like, like)
	}
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, err
	}
	items := make([]models.User, 0)
	if err := tx.Order("created_at DESC").Offset((page - 1) * size).Limit(size).Find(&items).Error; err != nil {
		return nil, err
	}
	return &UserPage{Items: items, Total: total}, nil
}

// UserFlags are the account switches staff may flip.
type UserFlags struct {
	IsActive     *bool   `json:"is_active"`
	IsParentUser *bool   `json:"is_parent_user"`
	FullName     *string `json:"full_name"`
}

func (s *Service) UpdateFlags(ctx context.Context, userID string, req *UserFlags) (*models.User, error) {
	u, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	updates := map[string]any{}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.IsParentUser != nil {
		updates["is_parent_user"] = *req.IsParentUser
	}
	if req.FullName != nil {
		updates["full_name"] = strings.TrimSpace(*req.FullName)
	}
	if len(updates) == 0 {
		return u, nil
	}
	if err := s.db.WithContext(ctx).Model(u).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.Get(ctx, userID)
}

func (s *Service) ListStaff(ctx context.Context) ([]models.User, error) {
	staff := make([]models.User, 0)
	err := s.db.WithContext(ctx).Where("is_staff = ?", true).Order("email").Find(&staff).Error
	return staff, err
}

// PromoteStaff grants staff rights to the user found by identifier.
func (s *Service) PromoteStaff(ctx context.Context, identifier string) (*models.User, error) {
	u, err := s.findByIdentifier(ctx, identifier)
	if err != nil {
		return nil, err
	}
	if u.IsStaff {
		return u, nil
	}
	if err := s.db.WithContext(ctx).Model(u).Update("is_staff", true).Error; err != nil {
		return nil, err
	}
	u.IsStaff = true
	return u, nil
}

func (s *Service) DemoteStaff(ctx context.Context, userID string) error {
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, "id = ? AND is_staff = ?", userID, true).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if u.IsSuperuser {
		return ErrDemoteSuperuser
	}
	return s.db.WithContext(ctx).Model(&u).Update("is_staff", false).Error
}
