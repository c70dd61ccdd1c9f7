package subscription

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fatflowers/storetis/internal/app/service/account"
	"github.com/fatflowers/storetis/internal/models"
	"github.com/fatflowers/storetis/internal/platform/kafka"
	"github.com/fatflowers/storetis/pkg/config"
	"github.com/fatflowers/storetis/pkg/errs"
	"github.com/fatflowers/storetis/pkg/logctx"
	"github.com/fatflowers/storetis/pkg/metrics"
	"github.com/fatflowers/storetis/pkg/types"
)

var (
	ErrSubscriptionNotFound = errs.New(errs.ErrNotFound, "subscription not found")
	ErrAlreadyVerified      = errs.New(errs.ErrConflict, "subscription is already verified")
	ErrServiceNotFound      = errs.New(errs.ErrNotFound, "service not found")
	ErrOrderWithoutUser     = errs.New(errs.ErrConflict, "order has no owner, subscriptions cannot be created")
	ErrOrderServiceDeleted  = errs.New(errs.ErrConflict, "a service in this order was deleted")
)

type Service struct {
	cfg       *config.Config
	db        *gorm.DB
	log       *zap.SugaredLogger
	accounts  *account.Service
	metrics   *metrics.Registry
	publisher kafka.Publisher
	now       func() time.Time
}

func NewService(cfg *config.Config, db *gorm.DB, log *zap.SugaredLogger, accounts *account.Service, m *metrics.Registry, p kafka.Publisher) *Service {
	return &Service{cfg: cfg, db: db, log: log, accounts: accounts, metrics: m, publisher: p, now: time.Now}
}

func (s *Service) Get(ctx context.Context, id string) (*models.UserSubscription, error) {
	var sub models.UserSubscription
	err := s.db.WithContext(ctx).
		Preload("User").
		Preload("Service").
		First(&sub, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}
	return &sub, nil
}

// CreateForOrder grants one unverified subscription per item of a confirmed
// order. It runs inside the caller's transaction.
func (s *Service) CreateForOrder(ctx context.Context, tx *gorm.DB, actorID string, order *models.Order) ([]models.UserSubscription, error) {
	if order.UserID == nil {
		return nil, ErrOrderWithoutUser
	}
	subs := make([]models.UserSubscription, 0, len(order.Items))
	for i := range order.Items {
		item := &order.Items[i]
		if item.ServiceID == nil {
			return nil, fmt.Errorf("%w: %s", ErrOrderServiceDeleted, item.ServiceName)
		}
		subs = append(subs, models.UserSubscription{
			UserID:        *order.UserID,
			ServiceID:     *item.ServiceID,
			PurchasedByID: order.UserID,
			OrderItemID:   &item.ID,
			DurationDays:  item.DurationDays,
			IsActive:      true,
		})
	}
	if len(subs) == 0 {
		return subs, nil
	}
	if err := tx.WithContext(ctx).Create(&subs).Error; err != nil {
		return nil, fmt.Errorf("create subscriptions: %w", err)
	}
	logs := make([]*models.SubscriptionLog, 0, len(subs))
	for i := range subs {
		logs = append(logs, models.NewSubscriptionLog(types.SubscriptionChangeReasonCreate, &actorID, nil, &subs[i]))
	}
	if err := tx.WithContext(ctx).Create(logs).Error; err != nil {
		return nil, fmt.Errorf("write subscription logs: %w", err)
	}
	return subs, nil
}

func (s *Service) checkDuration(days int) error {
	if !s.cfg.ValidDuration(days) {
		return errs.Field("duration_days", fmt.Sprintf("choose one of %v days", s.cfg.DurationChoices))
	}
	return nil
}

func (s *Service) loadService(ctx context.Context, serviceID string) (*models.Service, error) {
	var svc models.Service
	if err := s.db.WithContext(ctx).First(&svc, "id = ?", serviceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, err
	}
	return &svc, nil
}

func (s *Service) create(ctx context.Context, sub *models.UserSubscription, actorID string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(sub).Error; err != nil {
			return fmt.Errorf("create subscription: %w", err)
		}
		return tx.Create(models.NewSubscriptionLog(types.SubscriptionChangeReasonCreate, &actorID, nil, sub)).Error
	})
	if err != nil {
		return err
	}
	s.metrics.SubscriptionsCreated(1)
	return nil
}

// Purchase records a direct purchase by userID awaiting staff verification.
func (s *Service) Purchase(ctx context.Context, userID, serviceID string, durationDays int) (*models.UserSubscription, error) {
	if err := s.checkDuration(durationDays); err != nil {
		return nil, err
	}
	buyer, err := s.accounts.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := account.RequireCompleteProfile(buyer); err != nil {
		return nil, err
	}
	svc, err := s.loadService(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	sub := &models.UserSubscription{
		UserID:        buyer.ID,
		ServiceID:     svc.ID,
		PurchasedByID: &buyer.ID,
		DurationDays:  durationDays,
		IsActive:      true,
	}
	if err := s.create(ctx, sub, buyer.ID); err != nil {
		return nil, err
	}
	logctx.FromCtx(ctx, s.log).Infow("subscription purchased", "subscription_id", sub.ID, "service_id", svc.ID, "duration_days", durationDays)
	sub.Service = svc
	return sub, nil
}

// AssignToChild buys a subscription on behalf of one of the parent's children.
func (s *Service) AssignToChild(ctx context.Context, parentID, childID, serviceID string, durationDays int) (*models.UserSubscription, error) {
	if err := s.checkDuration(durationDays); err != nil {
		return nil, err
	}
	parent, err := s.accounts.Get(ctx, parentID)
	if err != nil {
		return nil, err
	}
	if !parent.IsParentUser {
		return nil, account.ErrNotParent
	}
	if err := account.RequireCompleteProfile(parent); err != nil {
		return nil, err
	}
	child, err := s.accounts.GetChild(ctx, parentID, childID)
	if err != nil {
		return nil, err
	}
	svc, err := s.loadService(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	sub := &models.UserSubscription{
		UserID:        child.ID,
		ServiceID:     svc.ID,
		PurchasedByID: &parent.ID,
		DurationDays:  durationDays,
		IsActive:      true,
	}
	if err := s.create(ctx, sub, parent.ID); err != nil {
		return nil, err
	}
	logctx.FromCtx(ctx, s.log).Infow("subscription assigned to child", "subscription_id", sub.ID, "child_id", child.ID, "service_id", svc.ID)
	sub.Service = svc
	return sub, nil
}
