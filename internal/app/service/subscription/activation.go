package subscription

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fatflowers/storetis/internal/models"
	"github.com/fatflowers/storetis/internal/platform/kafka"
	"github.com/fatflowers/storetis/pkg/logctx"
	"github.com/fatflowers/storetis/pkg/types"
)

const day = 24 * time.Hour

// applyVerification returns the verified state of before. The window is opened
// only when it was never set, so it is never shifted.
func applyVerification(before models.UserSubscription, now time.Time) (*models.UserSubscription, error) {
	if before.IsVerified {
		return nil, ErrAlreadyVerified
	}
	after := before
	after.IsVerified = true
	if after.StartDate == nil {
		start := now
		exp := start.Add(time.Duration(after.DurationDays) * day)
		after.StartDate = &start
		after.ExpirationDate = &exp
	}
	return &after, nil
}

func (s *Service) lockForUpdate(tx *gorm.DB, id string) (*models.UserSubscription, error) {
	var sub models.UserSubscription
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&sub, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}
	return &sub, nil
}

// Verify marks the subscription paid and starts its window.
func (s *Service) Verify(ctx context.Context, actorID, id string) (*models.UserSubscription, error) {
	var after *models.UserSubscription
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		before, err := s.lockForUpdate(tx, id)
		if err != nil {
			return err
		}
		after, err = applyVerification(*before, s.now())
		if err != nil {
			return err
		}
		err = tx.Model(after).
			Select("is_verified", "start_date", "expiration_date").
			Updates(after).Error
		if err != nil {
			return err
		}
		return tx.Create(models.NewSubscriptionLog(types.SubscriptionChangeReasonVerify, &actorID, before, after)).Error
	})
	if err != nil {
		return nil, err
	}
	s.metrics.SubscriptionVerified()
	s.publisher.Publish(ctx, kafka.EventSubscriptionVerified, after.ID, after)
	logctx.FromCtx(ctx, s.log).Infow("subscription verified", "subscription_id", after.ID, "expiration_date", after.ExpirationDate)
	return after, nil
}

// Deactivate switches the subscription off. Deactivating twice is a no-op.
func (s *Service) Deactivate(ctx context.Context, actorID, id string) (*models.UserSubscription, error) {
	var after *models.UserSubscription
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		before, err := s.lockForUpdate(tx, id)
		if err != nil {
			return err
		}
		cp := *before
		after = &cp
		if !before.IsActive {
			return nil
		}
		after.IsActive = false
		if err := tx.Model(after).Update("is_active", false).Error; err != nil {
			return err
		}
		return tx.Create(models.NewSubscriptionLog(types.SubscriptionChangeReasonDeactivate, &actorID, before, after)).Error
	})
	if err != nil {
		return nil, err
	}
	logctx.FromCtx(ctx, s.log).Infow("subscription deactivated", "subscription_id", id)
	return after, nil
}
