package subscription

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fatflowers/storetis/internal/models"
	"github.com/fatflowers/storetis/pkg/config"
	"github.com/fatflowers/storetis/pkg/errs"
	"github.com/fatflowers/storetis/pkg/types"
)

var t0 = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

func TestApplyVerification_OpensWindow(t *testing.T) {
	before := models.UserSubscription{ID: "s1", DurationDays: 30, IsActive: true}

	after, err := applyVerification(before, t0)
	require.NoError(t, err)
	require.True(t, after.IsVerified)
	require.Equal(t, t0, *after.StartDate)
	require.Equal(t, t0.Add(30*24*time.Hour), *after.ExpirationDate)

	// before is untouched
	require.False(t, before.IsVerified)
	require.Nil(t, before.StartDate)

	require.Equal(t, 30, after.RemainingDays(t0))
	require.Equal(t, 1, after.RemainingDays(t0.Add(30*24*time.Hour-time.Second)))
	require.Equal(t, 0, after.RemainingDays(t0.Add(30*24*time.Hour)))
	require.True(t, after.IsExpired(t0.Add(30*24*time.Hour)))
	require.False(t, after.IsExpired(t0.Add(30*24*time.Hour-time.Second)))
}

func TestApplyVerification_Idempotent(t *testing.T) {
	first, err := applyVerification(models.UserSubscription{DurationDays: 90}, t0)
	require.NoError(t, err)

	_, err = applyVerification(*first, t0.Add(48*time.Hour))
	require.ErrorIs(t, err, ErrAlreadyVerified)
	require.ErrorIs(t, err, errs.ErrConflict)
	require.Equal(t, t0, *first.StartDate)
}

func TestApplyVerification_KeepsExistingStart(t *testing.T) {
	start := t0.Add(-24 * time.Hour)
	exp := start.Add(10 * 24 * time.Hour)
	after, err := applyVerification(models.UserSubscription{DurationDays: 30, StartDate: &start, ExpirationDate: &exp}, t0)
	require.NoError(t, err)
	require.Equal(t, start, *after.StartDate)
	require.Equal(t, exp, *after.ExpirationDate)
}

func verified(id string, expiresIn time.Duration, active bool) models.UserSubscription {
	exp := t0.Add(expiresIn)
	start := exp.Add(-30 * 24 * time.Hour)
	return models.UserSubscription{ID: id, DurationDays: 30, IsVerified: true, IsActive: active, StartDate: &start, ExpirationDate: &exp}
}

func ids(entries []Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.ID)
	}
	return out
}

func TestSplitOwn(t *testing.T) {
	subs := []models.UserSubscription{
		{ID: "pending", DurationDays: 30, IsActive: true},
		verified("later", 20*24*time.Hour, true),
		verified("soon", 3*24*time.Hour, true),
		verified("gone", -time.Hour, true),
		verified("off", 10*24*time.Hour, false),
		{ID: "pending-off", DurationDays: 30, IsActive: false},
	}

	d := splitOwn(subs, t0, 7*24*time.Hour)
	assert.Equal(t, []string{"soon", "later", "pending"}, ids(d.Active))
	assert.Equal(t, []string{"soon"}, ids(d.ExpiringSoon))
	assert.Equal(t, []string{"off", "gone", "pending-off"}, ids(d.Expired))

	assert.Equal(t, 3, d.Active[0].RemainingDays)
	assert.True(t, d.Active[2].Pending)
	assert.Equal(t, 0, d.Active[2].RemainingDays)
	assert.Nil(t, d.PurchasedForOthers)
}

func TestSplitOwn_Empty(t *testing.T) {
	d := splitOwn(nil, t0, time.Hour)
	assert.NotNil(t, d.Active)
	assert.Empty(t, d.Active)
	assert.Empty(t, d.ExpiringSoon)
	assert.Empty(t, d.Expired)
}

func TestSplitOthers_GroupsByHolder(t *testing.T) {
	b := verified("b-1", 5*24*time.Hour, true)
	b.User = &models.User{Email: ptr("b@x.vn")}
	a2 := verified("a-2", 9*24*time.Hour, true)
	a2.User = &models.User{Email: ptr("a@x.vn")}
	a1 := verified("a-1", 2*24*time.Hour, true)
	a1.User = &models.User{Email: ptr("a@x.vn")}
	old := verified("a-old", -24*time.Hour, true)
	old.User = &models.User{Email: ptr("a@x.vn")}

	o := splitOthers([]models.UserSubscription{b, a2, a1, old}, t0)
	assert.Equal(t, []string{"a-1", "a-2", "b-1"}, ids(o.Active))
	assert.Equal(t, []string{"a-old"}, ids(o.Expired))
}

func TestScanRequest_Normalize(t *testing.T) {
	req := &ScanRequest{Filters: []*types.CommonFilter{{Field: "is_verified", Operator: types.CommonFilterOperatorEq, Values: []any{false}}}}
	require.NoError(t, req.normalize())
	require.Equal(t, "created_at", req.SortBy)
	require.Equal(t, 20, req.Size)

	bad := &ScanRequest{Filters: []*types.CommonFilter{{Field: "1=1; drop table user_subscription"}}}
	err := bad.normalize()
	require.ErrorIs(t, err, errs.ErrInvalid)

	badSort := &ScanRequest{SortBy: "password_hash"}
	require.ErrorIs(t, badSort.normalize(), errs.ErrInvalid)
}

func TestCreateForOrder_Guards(t *testing.T) {
	s := NewService(&config.Config{}, nil, nil, nil, nil, nil)
	ctx := context.Background()

	_, err := s.CreateForOrder(ctx, nil, "staff", &models.Order{ID: "o1"})
	require.ErrorIs(t, err, ErrOrderWithoutUser)

	order := &models.Order{ID: "o1", UserID: ptr("u1"), Items: []models.OrderItem{{ID: "i1", ServiceName: "Gói A"}}}
	_, err = s.CreateForOrder(ctx, nil, "staff", order)
	require.ErrorIs(t, err, ErrOrderServiceDeleted)
}

func TestPurchase_RejectsUnknownDuration(t *testing.T) {
	s := NewService(&config.Config{DurationChoices: []int{30, 90}}, nil, nil, nil, nil, nil)
	_, err := s.Purchase(context.Background(), "u1", "svc", 45)
	var verr *errs.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Contains(t, verr.Fields, "duration_days")
}
