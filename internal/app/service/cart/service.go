package cart

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fatflowers/storetis/internal/models"
	"github.com/fatflowers/storetis/pkg/config"
	"github.com/fatflowers/storetis/pkg/errs"
)

var (
	ErrItemNotFound    = errs.New(errs.ErrNotFound, "cart item not found")
	ErrServiceNotFound = errs.New(errs.ErrNotFound, "service not found")
)

type Service struct {
	db  *gorm.DB
	log *zap.SugaredLogger
	cfg *config.Config
}

func NewService(db *gorm.DB, log *zap.SugaredLogger, cfg *config.Config) *Service {
	return &Service{db: db, log: log, cfg: cfg}
}

// AddResult reports the cart line and whether it was already in the cart.
type AddResult struct {
	Item    *models.CartItem `json:"item"`
	Existed bool             `json:"existed"`
}

// Add puts (service, duration) into the user's cart. Adding the same pair
// twice returns the existing line.
func (s *Service) Add(ctx context.Context, userID, serviceID string, durationDays int) (*AddResult, error) {
	if !s.cfg.ValidDuration(durationDays) {
		return nil, errs.Field("duration_days", fmt.Sprintf("choose one of %v days", s.cfg.DurationChoices))
	}
	var svc models.Service
	if err := s.db.WithContext(ctx).Select("id").First(&svc, "id = ?", serviceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, err
	}

	find := func() (*models.CartItem, error) {
		var item models.CartItem
		err := s.db.WithContext(ctx).
			Where("user_id = ? AND service_id = ? AND duration_days = ?", userID, serviceID, durationDays).
			First(&item).Error
		if err != nil {
			return nil, err
		}
		return &item, nil
	}

	if item, err := find(); err == nil {
		return &AddResult{Item: item, Existed: true}, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	item := &models.CartItem{UserID: userID, ServiceID: serviceID, DurationDays: durationDays}
	if err := s.db.WithContext(ctx).Create(item).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			existing, ferr := find()
			if ferr != nil {
				return nil, ferr
			}
			return &AddResult{Item: existing, Existed: true}, nil
		}
		return nil, err
	}
	return &AddResult{Item: item, Existed: false}, nil
}

func (s *Service) List(ctx context.Context, userID string) ([]models.CartItem, error) {
	items := make([]models.CartItem, 0)
	err := s.db.WithContext(ctx).
		Preload("Service").
		Preload("Service.Category").
		Where("user_id = ?", userID).
		Order("created_at").
		Find(&items).Error
	return items, err
}

// Remove deletes one of the user's own cart lines.
func (s *Service) Remove(ctx context.Context, userID, itemID string) error {
	res := s.db.WithContext(ctx).Delete(&models.CartItem{}, "id = ? AND user_id = ?", itemID, userID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrItemNotFound
	}
	return nil
}
