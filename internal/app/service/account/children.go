package account

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/fatflowers/storetis/internal/models"
	"github.com/fatflowers/storetis/pkg/errs"
	"github.com/fatflowers/storetis/pkg/logctx"
	"github.com/fatflowers/storetis/pkg/tool"
)

const tempPasswordLen = 10

type AddChildRequest struct {
	Phone    string `json:"phone"`
	CCCD     string `json:"cccd"`
	FullName string `json:"full_name"`
}

// AddChildResult returns the new child and its temporary password. The
// password is only ever shown here.
type AddChildResult struct {
	Child        *models.User `json:"child"`
	TempPassword string       `json:"temp_password"`
}

// AddChild creates a child account identified by phone or CCCD under parentID.
func (s *Service) AddChild(ctx context.Context, parentID string, req *AddChildRequest) (*AddChildResult, error) {
	parent, err := s.Get(ctx, parentID)
	if err != nil {
		return nil, err
	}
	if !parent.IsParentUser {
		return nil, ErrNotParent
	}
	ids := Identifiers{Phone: optional(req.Phone), CCCD: optional(req.CCCD)}
	if ids.Phone == nil && ids.CCCD == nil {
		return nil, errs.Field("identifier", "provide the child's phone number or CCCD")
	}

	password := tool.RandomPassword(tempPasswordLen)
	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}
	child := &models.User{
		Phone:        ids.Phone,
		CCCD:         ids.CCCD,
		FullName:     strings.TrimSpace(req.FullName),
		PasswordHash: hash,
		ParentID:     &parent.ID,
		IsActive:     true,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.checkIdentifiersFree(ctx, tx, ids, ""); err != nil {
			return err
		}
		if err := tx.Create(child).Error; err != nil {
			return duplicateAsValidation(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	logctx.FromCtx(ctx, s.log).Infow("child user added", "parent_id", parent.ID, "child_id", child.ID)
	return &AddChildResult{Child: child, TempPassword: password}, nil
}

func (s *Service) ListChildren(ctx context.Context, parentID string) ([]models.User, error) {
	children := make([]models.User, 0)
	err := s.db.WithContext(ctx).
		Where("parent_id = ?", parentID).
		Order("created_at").
		Find(&children).Error
	return children, err
}

// GetChild returns childID when it belongs to parentID.
func (s *Service) GetChild(ctx context.Context, parentID, childID string) (*models.User, error) {
	var child models.User
	err := s.db.WithContext(ctx).First(&child, "id = ? AND parent_id = ?", childID, parentID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &child, nil
}

// RemoveChild detaches the child and deactivates the subscriptions the parent
// bought for it.
func (s *Service) RemoveChild(ctx context.Context, parentID, childID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.User{}).
			Where("id = ? AND parent_id = ?", childID, parentID).
			Update("parent_id", nil)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrUserNotFound
		}
		return tx.Model(&models.UserSubscription{}).
			Where("user_id = ? AND purchased_by_id = ?", childID, parentID).
			Update("is_active", false).Error
	})
}
