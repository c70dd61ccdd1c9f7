package checkout

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/fatflowers/storetis/internal/models"
	"github.com/fatflowers/storetis/pkg/errs"
)

func cartItem(id, name string, price string) models.CartItem {
	svc := &models.Service{ID: "svc-" + id, Name: name}
	if price == "" {
		svc.IsPriceOnContact = true
	} else {
		svc.Price = decimal.NewNullDecimal(decimal.RequireFromString(price))
	}
	return models.CartItem{ID: id, ServiceID: svc.ID, Service: svc, DurationDays: 30}
}

func TestBuildDraft(t *testing.T) {
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	d, err := BuildDraft([]models.CartItem{
		cartItem("a", "Gói A", "100000.00"),
		cartItem("b", "Gói B", "50000"),
	}, now)
	require.NoError(t, err)
	require.Equal(t, "150000", d.TotalPrice)
	require.Equal(t, []string{"a", "b"}, d.CartItemIDs())
	require.Equal(t, "100000", d.Items[0].Price)
	require.Equal(t, now, d.CreatedAt)

	total, err := d.Total()
	require.NoError(t, err)
	require.True(t, total.Equal(decimal.NewFromInt(150000)))
}

func TestBuildDraft_Rejects(t *testing.T) {
	_, err := BuildDraft(nil, time.Now())
	require.ErrorIs(t, err, ErrEmptySelection)

	_, err = BuildDraft([]models.CartItem{
		cartItem("a", "Gói A", "10"),
		cartItem("b", "Tư vấn riêng", ""),
	}, time.Now())
	require.ErrorIs(t, err, ErrPriceOnContact)
	require.ErrorIs(t, err, errs.ErrInvalid)
	require.Contains(t, err.Error(), "Tư vấn riêng")
}

type fakeRedis struct {
	redis.Cmdable
	data map[string]string
	ttl  map[string]time.Duration
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: map[string]string{}, ttl: map[string]time.Duration{}}
}

func (f *fakeRedis) Set(_ context.Context, key string, value interface{}, exp time.Duration) *redis.StatusCmd {
	f.data[key] = string(value.([]byte))
	f.ttl[key] = exp
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Del(_ context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, k := range keys {
		if _, ok := f.data[k]; ok {
			delete(f.data, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func TestRedisDraftStore(t *testing.T) {
	ctx := context.Background()
	rdb := newFakeRedis()
	store := NewRedisDraftStore(rdb, time.Hour)

	_, err := store.Load(ctx, "u1")
	require.ErrorIs(t, err, ErrNoDraft)
	require.ErrorIs(t, err, errs.ErrNotFound)

	d, err := BuildDraft([]models.CartItem{cartItem("a", "Gói A", "99.5")}, time.Now().UTC().Truncate(time.Second))
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, "u1", d))
	require.Equal(t, time.Hour, rdb.ttl["storetis:draft:u1"])

	got, err := store.Load(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, d.Items, got.Items)
	require.Equal(t, "99.5", got.TotalPrice)
	require.True(t, d.CreatedAt.Equal(got.CreatedAt))

	// Drafts are per user.
	_, err = store.Load(ctx, "u2")
	require.True(t, errors.Is(err, ErrNoDraft))

	require.NoError(t, store.Delete(ctx, "u1"))
	_, err = store.Load(ctx, "u1")
	require.ErrorIs(t, err, ErrNoDraft)
}

func TestCreateDraft_EmptySelection(t *testing.T) {
	s := &Service{}
	_, err := s.CreateDraft(context.Background(), "u1", []string{"", ""})
	require.ErrorIs(t, err, ErrEmptySelection)
}
