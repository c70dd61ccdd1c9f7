package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fatflowers/storetis/internal/app/service/subscription"
	"github.com/fatflowers/storetis/internal/models"
	"github.com/fatflowers/storetis/internal/platform/kafka"
	"github.com/fatflowers/storetis/pkg/errs"
	"github.com/fatflowers/storetis/pkg/logctx"
	"github.com/fatflowers/storetis/pkg/metrics"
	"github.com/fatflowers/storetis/pkg/types"
)

var (
	ErrOrderNotFound     = errs.New(errs.ErrNotFound, "order not found")
	ErrInvalidStatus     = errs.New(errs.ErrInvalid, "unknown order status")
	ErrInvalidTransition = errs.New(errs.ErrConflict, "invalid operation for this order")
)

type Service struct {
	db            *gorm.DB
	log           *zap.SugaredLogger
	subscriptions *subscription.Service
	metrics       *metrics.Registry
	publisher     kafka.Publisher
}

func NewService(db *gorm.DB, log *zap.SugaredLogger, subs *subscription.Service, m *metrics.Registry, p kafka.Publisher) *Service {
	return &Service{db: db, log: log, subscriptions: subs, metrics: m, publisher: p}
}

// checkTransition allows pending to move to confirmed or cancelled. Both
// targets are terminal.
func checkTransition(from, to types.OrderStatus) error {
	if !to.Valid() {
		return ErrInvalidStatus
	}
	if from != types.OrderStatusPending || to == types.OrderStatusPending {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}

// StatusUpdate is the outcome of UpdateStatus.
type StatusUpdate struct {
	Order         *models.Order             `json:"order"`
	Subscriptions []models.UserSubscription `json:"subscriptions,omitempty"`
}

// UpdateStatus moves a pending order to status. Confirming creates the
// subscriptions for every item in the same transaction.
func (s *Service) UpdateStatus(ctx context.Context, actorID, orderID string, status types.OrderStatus) (*StatusUpdate, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	res := &StatusUpdate{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.Order
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&order, "id = ?", orderID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}
		if err := checkTransition(order.Status, status); err != nil {
			return err
		}
		if err := itemsInOrder(tx.Where("order_id = ?", order.ID)).Find(&order.Items).Error; err != nil {
			return err
		}

		before := order
		order.Status = status
		order.UpdatedAt = time.Now()
		if err := tx.Model(&order).Select("status", "updated_at").Updates(&order).Error; err != nil {
			return err
		}

		if status == types.OrderStatusConfirmed {
			subs, err := s.subscriptions.CreateForOrder(ctx, tx, actorID, &order)
			if err != nil {
				return err
			}
			res.Subscriptions = subs
		}

		res.Order = &order
		return tx.Create(models.NewOrderLog(types.OrderChangeReasonStatus, &actorID, &before, &order)).Error
	})
	if err != nil {
		return nil, err
	}

	s.metrics.OrderTransition(string(status))
	s.metrics.SubscriptionsCreated(len(res.Subscriptions))
	event := kafka.EventOrderCancelled
	if status == types.OrderStatusConfirmed {
		event = kafka.EventOrderConfirmed
	}
	s.publisher.Publish(ctx, event, res.Order.ID, res.Order)
	logctx.FromCtx(ctx, s.log).Infow("order status updated",
		"order_id", res.Order.ID, "status", status, "subscriptions", len(res.Subscriptions))
	return res, nil
}

// ReviewFilter narrows the staff review queue. Empty fields are ignored.
type ReviewFilter struct {
	Status     types.OrderStatus `form:"status" json:"status"`
	CategoryID string            `form:"category" json:"category"`
	SupplierID string            `form:"supplier" json:"supplier"`
}

// ListForReview returns orders newest first. A nil filter shows pending orders.
func (s *Service) ListForReview(ctx context.Context, f *ReviewFilter) ([]models.Order, error) {
	if f == nil {
		f = &ReviewFilter{Status: types.OrderStatusPending}
	}
	q := s.db.WithContext(ctx).Model(&models.Order{})
	if f.Status != "" {
		if !f.Status.Valid() {
			return nil, ErrInvalidStatus
		}
		q = q.Where("orders.status = ?", f.Status)
	}
	if f.CategoryID != "" || f.SupplierID != "" {
		items := s.db.Model(&models.OrderItem{}).Select("order_id")
		if f.CategoryID != "" {
			items = items.Where("category_id = ?", f.CategoryID)
		}
		if f.SupplierID != "" {
			items = items.Where("supplier_id = ?", f.SupplierID)
		}
		q = q.Where("orders.id IN (?)", items)
	}

	orders := make([]models.Order, 0)
	err := q.Preload("User").
		Preload("Items", itemsInOrder).
		Order("orders.created_at DESC").
		Find(&orders).Error
	return orders, err
}

func (s *Service) ListForUser(ctx context.Context, userID string) ([]models.Order, error) {
	orders := make([]models.Order, 0)
	err := s.db.WithContext(ctx).
		Preload("Items", itemsInOrder).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

// itemsInOrder keeps order lines in the order they were drafted. Item ids are
// UUIDv7, so they sort by creation.
func itemsInOrder(db *gorm.DB) *gorm.DB {
	return db.Order("id")
}

func (s *Service) get(ctx context.Context, q *gorm.DB) (*models.Order, error) {
	var o models.Order
	err := q.WithContext(ctx).
		Preload("User").
		Preload("Items", itemsInOrder).
		Preload("Items.Category").
		Preload("Items.Supplier").
		First(&o).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &o, nil
}

// GetForUser returns orderID only when userID owns it.
func (s *Service) GetForUser(ctx context.Context, userID, orderID string) (*models.Order, error) {
	return s.get(ctx, s.db.Where("id = ? AND user_id = ?", orderID, userID))
}

func (s *Service) Get(ctx context.Context, orderID string) (*models.Order, error) {
	return s.get(ctx, s.db.Where("id = ?", orderID))
}
