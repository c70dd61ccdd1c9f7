package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fatflowers/storetis/internal/app/service/account"
	"github.com/fatflowers/storetis/internal/models"
	"github.com/fatflowers/storetis/internal/platform/kafka"
	"github.com/fatflowers/storetis/pkg/errs"
	"github.com/fatflowers/storetis/pkg/logctx"
	"github.com/fatflowers/storetis/pkg/metrics"
	"github.com/fatflowers/storetis/pkg/types"
)

var (
	ErrForeignCartItem = errs.New(errs.ErrInvalid, "some selected items are not in your cart")
	ErrCreateOrder     = errors.New("could not create the order, please try again")
	errTotalMismatch   = errors.New("order items do not add up to the order total")
	errServiceGone     = errors.New("a service in the draft no longer exists")
)

type Service struct {
	db        *gorm.DB
	store     DraftStore
	log       *zap.SugaredLogger
	metrics   *metrics.Registry
	publisher kafka.Publisher
	now       func() time.Time
}

func NewService(db *gorm.DB, store DraftStore, log *zap.SugaredLogger, m *metrics.Registry, p kafka.Publisher) *Service {
	return &Service{db: db, store: store, log: log, metrics: m, publisher: p, now: time.Now}
}

func (s *Service) loadUser(ctx context.Context, userID string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, account.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// CreateDraft prices the selected cart lines and stages them for the user,
// replacing any previous draft.
func (s *Service) CreateDraft(ctx context.Context, userID string, cartItemIDs []string) (*Draft, error) {
	ids := lo.Uniq(lo.Compact(cartItemIDs))
	if len(ids) == 0 {
		return nil, ErrEmptySelection
	}
	u, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := account.RequireCompleteProfile(u); err != nil {
		return nil, err
	}

	var rows []models.CartItem
	err = s.db.WithContext(ctx).
		Preload("Service").
		Where("user_id = ? AND id IN ?", userID, ids).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) != len(ids) {
		return nil, ErrForeignCartItem
	}
	byID := lo.KeyBy(rows, func(it models.CartItem) string { return it.ID })
	ordered := lo.Map(ids, func(id string, _ int) models.CartItem { return byID[id] })

	d, err := BuildDraft(ordered, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, userID, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *Service) GetDraft(ctx context.Context, userID string) (*Draft, error) {
	return s.store.Load(ctx, userID)
}

// ConfirmDraft turns the user's draft into a pending order. The order, its
// items and the removal of the originating cart lines commit together; the
// draft is cleared only if they do.
func (s *Service) ConfirmDraft(ctx context.Context, userID string) (*models.Order, error) {
	lg := logctx.FromCtx(ctx, s.log)

	d, err := s.store.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	u, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := account.RequireCompleteProfile(u); err != nil {
		return nil, err
	}

	order, draftCleared, err := s.commitDraft(ctx, userID, d)
	if err != nil {
		lg.Errorw("create order failed", "user_id", userID, "err", err)
		if draftCleared {
			if rerr := s.store.Save(ctx, userID, d); rerr != nil {
				lg.Errorw("restore draft failed", "user_id", userID, "err", rerr)
			}
		}
		return nil, ErrCreateOrder
	}

	s.metrics.OrderCreated()
	s.publisher.Publish(ctx, kafka.EventOrderCreated, order.ID, order)
	lg.Infow("order created", "order_id", order.ID, "items", len(order.Items), "total", order.TotalPrice.String())
	return order, nil
}

func (s *Service) commitDraft(ctx context.Context, userID string, d *Draft) (*models.Order, bool, error) {
	total, err := d.Total()
	if err != nil {
		return nil, false, fmt.Errorf("parse draft total: %w", err)
	}
	draftCleared := false
	order := &models.Order{
		UserID:     &userID,
		Status:     types.OrderStatusPending,
		TotalPrice: total,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items", "User").Create(order).Error; err != nil {
			return fmt.Errorf("create order: %w", err)
		}

		items := make([]models.OrderItem, 0, len(d.Items))
		for _, di := range d.Items {
			var svc models.Service
			if err := tx.First(&svc, "id = ?", di.ServiceID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: %s", errServiceGone, di.ServiceID)
				}
				return err
			}
			price, err := decimal.NewFromString(di.Price)
			if err != nil {
				return fmt.Errorf("parse draft price: %w", err)
			}
			items = append(items, models.OrderItem{
				OrderID:      order.ID,
				ServiceID:    &svc.ID,
				ServiceName:  di.ServiceName,
				CategoryID:   svc.CategoryID,
				SupplierID:   svc.SupplierID,
				Price:        price,
				DurationDays: di.DurationDays,
			})
		}
		if err := tx.Create(&items).Error; err != nil {
			return fmt.Errorf("create order items: %w", err)
		}
		order.Items = items
		if !order.ItemsTotal().Equal(order.TotalPrice) {
			return errTotalMismatch
		}

		if err := tx.Where("user_id = ? AND id IN ?", userID, d.CartItemIDs()).
			Delete(&models.CartItem{}).Error; err != nil {
			return fmt.Errorf("clear cart: %w", err)
		}
		if err := tx.Create(models.NewOrderLog(types.OrderChangeReasonCreate, &userID, nil, order)).Error; err != nil {
			return fmt.Errorf("write order log: %w", err)
		}

		// Last step so a failure above leaves the draft in place.
		if err := s.store.Delete(ctx, userID); err != nil {
			return err
		}
		draftCleared = true
		return nil
	})
	if err != nil {
		return nil, draftCleared, err
	}
	return order, false, nil
}
