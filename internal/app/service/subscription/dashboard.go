package subscription

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/fatflowers/storetis/internal/models"
)

// Entry is a subscription as shown on the dashboard.
type Entry struct {
	models.UserSubscription
	RemainingDays int  `json:"remaining_days"`
	Pending       bool `json:"pending"`
}

// OthersSplit groups subscriptions a parent bought for other users.
type OthersSplit struct {
	Active  []Entry `json:"active"`
	Expired []Entry `json:"expired"`
}

type Dashboard struct {
	Active             []Entry      `json:"active"`
	ExpiringSoon       []Entry      `json:"expiring_soon"`
	Expired            []Entry      `json:"expired"`
	PurchasedForOthers *OthersSplit `json:"purchased_for_others,omitempty"`
}

func newEntry(sub models.UserSubscription, now time.Time) Entry {
	return Entry{UserSubscription: sub, RemainingDays: sub.RemainingDays(now), Pending: !sub.IsVerified}
}

// compareExpiration orders by expiration, ascending or descending, with unset
// dates last either way.
func compareExpiration(a, b *models.UserSubscription, desc bool) int {
	switch {
	case a.ExpirationDate == nil && b.ExpirationDate == nil:
		return 0
	case a.ExpirationDate == nil:
		return 1
	case b.ExpirationDate == nil:
		return -1
	}
	if desc {
		return b.ExpirationDate.Compare(*a.ExpirationDate)
	}
	return a.ExpirationDate.Compare(*b.ExpirationDate)
}

func ownerEmail(s *models.UserSubscription) string {
	if s.User == nil || s.User.Email == nil {
		return ""
	}
	return *s.User.Email
}

// splitOwn buckets the holder's own subscriptions. Usable ones are active,
// soonest expiry first and pending last; verified active ones ending within
// window are also expiring soon.
func splitOwn(subs []models.UserSubscription, now time.Time, window time.Duration) *Dashboard {
	d := &Dashboard{Active: []Entry{}, ExpiringSoon: []Entry{}, Expired: []Entry{}}
	active := make([]models.UserSubscription, 0, len(subs))
	expired := make([]models.UserSubscription, 0)
	for _, sub := range subs {
		switch {
		case sub.Usable(now):
			active = append(active, sub)
		case sub.Expired(now):
			expired = append(expired, sub)
		}
	}
	slices.SortStableFunc(active, func(a, b models.UserSubscription) int { return compareExpiration(&a, &b, false) })
	slices.SortStableFunc(expired, func(a, b models.UserSubscription) int { return compareExpiration(&a, &b, true) })

	threshold := now.Add(window)
	for _, sub := range active {
		d.Active = append(d.Active, newEntry(sub, now))
		if sub.IsVerified && !sub.ExpirationDate.After(threshold) {
			d.ExpiringSoon = append(d.ExpiringSoon, newEntry(sub, now))
		}
	}
	for _, sub := range expired {
		d.Expired = append(d.Expired, newEntry(sub, now))
	}
	return d
}

// splitOthers buckets subscriptions bought for others, grouped by holder email.
func splitOthers(subs []models.UserSubscription, now time.Time) *OthersSplit {
	o := &OthersSplit{Active: []Entry{}, Expired: []Entry{}}
	var active, expired []models.UserSubscription
	for _, sub := range subs {
		switch {
		case sub.Usable(now):
			active = append(active, sub)
		case sub.Expired(now):
			expired = append(expired, sub)
		}
	}
	slices.SortStableFunc(active, func(a, b models.UserSubscription) int {
		return cmp.Or(cmp.Compare(ownerEmail(&a), ownerEmail(&b)), compareExpiration(&a, &b, false))
	})
	slices.SortStableFunc(expired, func(a, b models.UserSubscription) int {
		return cmp.Or(cmp.Compare(ownerEmail(&a), ownerEmail(&b)), compareExpiration(&a, &b, true))
	})
	for _, sub := range active {
		o.Active = append(o.Active, newEntry(sub, now))
	}
	for _, sub := range expired {
		o.Expired = append(o.Expired, newEntry(sub, now))
	}
	return o
}

// Dashboard returns the user's subscriptions split by state. Parents who are
// not staff also get what they bought for others.
func (s *Service) Dashboard(ctx context.Context, userID string) (*Dashboard, error) {
	u, err := s.accounts.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := s.now()

	var own []models.UserSubscription
	err = s.db.WithContext(ctx).
		Preload("Service").
		Preload("PurchasedBy").
		Where("user_id = ?", u.ID).
		Find(&own).Error
	if err != nil {
		return nil, err
	}
	window := time.Duration(s.cfg.ExpiringSoonDays) * day
	d := splitOwn(own, now, window)

	if u.IsParentUser && !u.IsStaff {
		var others []models.UserSubscription
		err = s.db.WithContext(ctx).
			Preload("Service").
			Preload("User").
			Where("purchased_by_id = ? AND user_id <> ?", u.ID, u.ID).
			Find(&others).Error
		if err != nil {
			return nil, err
		}
		d.PurchasedForOthers = splitOthers(others, now)
	}
	return d, nil
}
