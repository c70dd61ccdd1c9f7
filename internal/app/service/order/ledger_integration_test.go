package order_test

import (
	"context"
	"fmt"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fatflowers/storetis/internal/app/service/account"
	"github.com/fatflowers/storetis/internal/app/service/cart"
	"github.com/fatflowers/storetis/internal/app/service/checkout"
	"github.com/fatflowers/storetis/internal/app/service/order"
	"github.com/fatflowers/storetis/internal/app/service/subscription"
	"github.com/fatflowers/storetis/internal/models"
	"github.com/fatflowers/storetis/internal/platform/dockertest"
	"github.com/fatflowers/storetis/internal/platform/kafka"
	"github.com/fatflowers/storetis/pkg/config"
	"github.com/fatflowers/storetis/pkg/types"
)

type LedgerSuite struct {
	suite.Suite

	db       *gorm.DB
	carts    *cart.Service
	checkout *checkout.Service
	subs     *subscription.Service
	orders   *order.Service
	staff    *models.User
}

func TestLedgerSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("integration test")
	}
	suite.Run(t, new(LedgerSuite))
}

func (s *LedgerSuite) SetupSuite() {
	t := s.T()
	s.db = dockertest.StartupPostgres(t)
	rdb := dockertest.StartupRedis(t)

	log := zap.NewNop().Sugar()
	cfg := &config.Config{DurationChoices: []int{30, 90, 180, 365}, ExpiringSoonDays: 7}
	pub := kafka.NoopPublisher(log)
	accounts := account.NewService(s.db, log, cfg)

	s.carts = cart.NewService(s.db, log, cfg)
	s.checkout = checkout.NewService(s.db, checkout.NewRedisDraftStore(rdb, time.Hour), log, nil, pub)
	s.subs = subscription.NewService(cfg, s.db, log, accounts, nil, pub)
	s.orders = order.NewService(s.db, log, s.subs, nil, pub)
	s.staff = s.newUser(true, func(u *models.User) { u.IsStaff = true })
}

func ptr(s string) *string { return &s }

// newUser stores a user with unique identifiers. complete fills every field
// the checkout profile check asks for.
func (s *LedgerSuite) newUser(complete bool, opts ...func(*models.User)) *models.User {
	n := rand.IntN(1_000_000_000)
	u := &models.User{
		Email:        ptr(fmt.Sprintf("u%d@example.com", n)),
		PasswordHash: "x",
		FullName:     fmt.Sprintf("User %d", n),
		IsActive:     true,
	}
	if complete {
		u.Phone = ptr(fmt.Sprintf("09%09d", n))
		u.Address = "1 Le Loi"
		u.FaceIDImage = "/media/face_ids/x.png"
	}
	for _, opt := range opts {
		opt(u)
	}
	s.Require().NoError(s.db.Create(u).Error)
	return u
}

func (s *LedgerSuite) newService(price string) *models.Service {
	svc := &models.Service{
		Name:  fmt.Sprintf("Service %d", rand.IntN(1_000_000)),
		Price: decimal.NewNullDecimal(decimal.RequireFromString(price)),
	}
	s.Require().NoError(s.db.Create(svc).Error)
	return svc
}

func (s *LedgerSuite) addToCart(userID, serviceID string, days int) string {
	res, err := s.carts.Add(context.Background(), userID, serviceID, days)
	s.Require().NoError(err)
	return res.Item.ID
}

// placeOrder runs cart → draft → confirm and returns the pending order.
func (s *LedgerSuite) placeOrder(u *models.User, prices ...string) *models.Order {
	ctx := context.Background()
	ids := make([]string, 0, len(prices))
	for _, p := range prices {
		ids = append(ids, s.addToCart(u.ID, s.newService(p).ID, 30))
	}
	_, err := s.checkout.CreateDraft(ctx, u.ID, ids)
	s.Require().NoError(err)
	o, err := s.checkout.ConfirmDraft(ctx, u.ID)
	s.Require().NoError(err)
	return o
}

func (s *LedgerSuite) TestCheckoutToVerifiedSubscription() {
	require := s.Require()
	ctx := context.Background()
	u := s.newUser(true)

	first := s.addToCart(u.ID, s.newService("100000.00").ID, 30)
	second := s.addToCart(u.ID, s.newService("50000").ID, 30)

	d, err := s.checkout.CreateDraft(ctx, u.ID, []string{first, second})
	require.NoError(err)
	require.Len(d.Items, 2)
	require.True(decimal.RequireFromString(d.TotalPrice).Equal(decimal.NewFromInt(150000)))

	o, err := s.checkout.ConfirmDraft(ctx, u.ID)
	require.NoError(err)
	require.Equal(types.OrderStatusPending, o.Status)
	require.Len(o.Items, 2)
	require.True(o.TotalPrice.Equal(o.ItemsTotal()))

	left, err := s.carts.List(ctx, u.ID)
	require.NoError(err)
	require.Empty(left)
	_, err = s.checkout.GetDraft(ctx, u.ID)
	require.ErrorIs(err, checkout.ErrNoDraft)
	_, err = s.checkout.ConfirmDraft(ctx, u.ID)
	require.ErrorIs(err, checkout.ErrNoDraft)

	up, err := s.orders.UpdateStatus(ctx, s.staff.ID, o.ID, types.OrderStatusConfirmed)
	require.NoError(err)
	require.Equal(types.OrderStatusConfirmed, up.Order.Status)
	require.Len(up.Subscriptions, 2)
	for _, sub := range up.Subscriptions {
		require.False(sub.IsVerified)
		require.Nil(sub.StartDate)
	}

	_, err = s.orders.UpdateStatus(ctx, s.staff.ID, o.ID, types.OrderStatusCancelled)
	require.ErrorIs(err, order.ErrInvalidTransition)

	verified, err := s.subs.Verify(ctx, s.staff.ID, up.Subscriptions[0].ID)
	require.NoError(err)
	require.True(verified.IsVerified)
	require.NotNil(verified.StartDate)
	require.Equal(verified.StartDate.Add(30*24*time.Hour).Unix(), verified.ExpirationDate.Unix())

	_, err = s.subs.Verify(ctx, s.staff.ID, up.Subscriptions[0].ID)
	require.ErrorIs(err, subscription.ErrAlreadyVerified)

	dash, err := s.subs.Dashboard(ctx, u.ID)
	require.NoError(err)
	require.Len(dash.Active, 2)
	require.Empty(dash.Expired)
	require.Nil(dash.PurchasedForOthers)

	var logs int64
	require.NoError(s.db.Model(&models.SubscriptionLog{}).Where("subscription_id IN ?", []string{up.Subscriptions[0].ID, up.Subscriptions[1].ID}).Count(&logs).Error)
	require.EqualValues(3, logs)
}

func (s *LedgerSuite) TestCancelCreatesNoSubscriptions() {
	require := s.Require()
	ctx := context.Background()
	u := s.newUser(true)
	o := s.placeOrder(u, "20000")

	up, err := s.orders.UpdateStatus(ctx, s.staff.ID, o.ID, types.OrderStatusCancelled)
	require.NoError(err)
	require.Equal(types.OrderStatusCancelled, up.Order.Status)
	require.Empty(up.Subscriptions)

	var n int64
	require.NoError(s.db.Model(&models.UserSubscription{}).Where("user_id = ?", u.ID).Count(&n).Error)
	require.Zero(n)
}

func (s *LedgerSuite) TestReviewQueueDefaultsToPending() {
	require := s.Require()
	ctx := context.Background()
	u := s.newUser(true)
	pending := s.placeOrder(u, "10000")
	cancelled := s.placeOrder(u, "10000")
	_, err := s.orders.UpdateStatus(ctx, s.staff.ID, cancelled.ID, types.OrderStatusCancelled)
	require.NoError(err)

	queue, err := s.orders.ListForReview(ctx, nil)
	require.NoError(err)
	ids := map[string]bool{}
	for _, o := range queue {
		require.Equal(types.OrderStatusPending, o.Status)
		ids[o.ID] = true
	}
	require.True(ids[pending.ID])
	require.False(ids[cancelled.ID])

	all, err := s.orders.ListForReview(ctx, &order.ReviewFilter{})
	require.NoError(err)
	require.GreaterOrEqual(len(all), len(queue)+1)
}

func (s *LedgerSuite) TestDraftRejectsForeignCartItems() {
	ctx := context.Background()
	owner := s.newUser(true)
	other := s.newUser(true)
	item := s.addToCart(owner.ID, s.newService("10000").ID, 30)

	_, err := s.checkout.CreateDraft(ctx, other.ID, []string{item})
	s.Require().ErrorIs(err, checkout.ErrForeignCartItem)
}

func (s *LedgerSuite) TestIncompleteProfileCannotCheckout() {
	ctx := context.Background()
	u := s.newUser(false)
	item := s.addToCart(u.ID, s.newService("10000").ID, 30)

	_, err := s.checkout.CreateDraft(ctx, u.ID, []string{item})
	s.Require().ErrorIs(err, account.ErrProfileIncomplete)
}

func (s *LedgerSuite) TestUserCannotReadOthersOrder() {
	ctx := context.Background()
	owner := s.newUser(true)
	other := s.newUser(true)
	o := s.placeOrder(owner, "10000")

	_, err := s.orders.GetForUser(ctx, other.ID, o.ID)
	s.Require().ErrorIs(err, order.ErrOrderNotFound)

	got, err := s.orders.GetForUser(ctx, owner.ID, o.ID)
	s.Require().NoError(err)
	s.Require().Equal(o.ID, got.ID)
}

func (s *LedgerSuite) TestCartAddIsIdempotent() {
	require := s.Require()
	ctx := context.Background()
	u := s.newUser(true)
	other := s.newUser(true)
	svc := s.newService("10000")

	first, err := s.carts.Add(ctx, u.ID, svc.ID, 30)
	require.NoError(err)
	require.False(first.Existed)
	again, err := s.carts.Add(ctx, u.ID, svc.ID, 30)
	require.NoError(err)
	require.True(again.Existed)
	require.Equal(first.Item.ID, again.Item.ID)

	_, err = s.carts.Add(ctx, u.ID, svc.ID, 31)
	require.Error(err)

	require.ErrorIs(s.carts.Remove(ctx, other.ID, first.Item.ID), cart.ErrItemNotFound)
	require.NoError(s.carts.Remove(ctx, u.ID, first.Item.ID))
}

func (s *LedgerSuite) TestOrderItemsSurviveCatalogChanges() {
	require := s.Require()
	ctx := context.Background()
	u := s.newUser(true)

	n := rand.IntN(1_000_000)
	category := &models.Category{Name: fmt.Sprintf("Viễn thông %d", n)}
	supplier := &models.Supplier{Name: fmt.Sprintf("Nhà cung cấp %d", n)}
	require.NoError(s.db.Create(category).Error)
	require.NoError(s.db.Create(supplier).Error)
	svc := s.newService("75000")
	require.NoError(s.db.Model(svc).Updates(map[string]any{"category_id": category.ID, "supplier_id": supplier.ID}).Error)
	other := s.newService("100000")

	ids := []string{s.addToCart(u.ID, svc.ID, 30), s.addToCart(u.ID, other.ID, 30)}
	_, err := s.checkout.CreateDraft(ctx, u.ID, ids)
	require.NoError(err)
	placed, err := s.checkout.ConfirmDraft(ctx, u.ID)
	require.NoError(err)

	boughtAs := svc.Name
	require.NoError(s.db.Model(svc).Updates(map[string]any{"price": decimal.NewFromInt(999), "name": "Renamed"}).Error)
	require.NoError(s.db.Delete(&models.Category{}, "id = ?", category.ID).Error)

	got, err := s.orders.Get(ctx, placed.ID)
	require.NoError(err)
	require.True(got.TotalPrice.Equal(decimal.NewFromInt(175000)))
	require.True(got.TotalPrice.Equal(got.ItemsTotal()))

	var line *models.OrderItem
	for i := range got.Items {
		if got.Items[i].ServiceID != nil && *got.Items[i].ServiceID == svc.ID {
			line = &got.Items[i]
		}
	}
	require.NotNil(line)
	require.Equal(boughtAs, line.ServiceName)
	require.True(line.Price.Equal(decimal.NewFromInt(75000)))
	require.Equal(30, line.DurationDays)
	require.Nil(line.CategoryID)
	require.NotNil(line.SupplierID)
	require.Equal(supplier.ID, *line.SupplierID)
}

func (s *LedgerSuite) TestFailedConfirmKeepsDraft() {
	require := s.Require()
	ctx := context.Background()
	u := s.newUser(true)

	kept := s.newService("40000")
	gone := s.newService("60000")
	ids := []string{s.addToCart(u.ID, kept.ID, 30), s.addToCart(u.ID, gone.ID, 30)}
	_, err := s.checkout.CreateDraft(ctx, u.ID, ids)
	require.NoError(err)

	require.NoError(s.db.Delete(&models.Service{}, "id = ?", gone.ID).Error)

	_, err = s.checkout.ConfirmDraft(ctx, u.ID)
	require.ErrorIs(err, checkout.ErrCreateOrder)

	var orders int64
	require.NoError(s.db.Model(&models.Order{}).Where("user_id = ?", u.ID).Count(&orders).Error)
	require.Zero(orders)

	d, err := s.checkout.GetDraft(ctx, u.ID)
	require.NoError(err)
	require.Len(d.Items, 2)

	left, err := s.carts.List(ctx, u.ID)
	require.NoError(err)
	require.Len(left, 1)
	require.Equal(kept.ID, left[0].ServiceID)
}

func (s *LedgerSuite) TestOrderItemsKeepDraftOrder() {
	require := s.Require()
	ctx := context.Background()
	u := s.newUser(true)

	placed := s.placeOrder(u, "30000", "10000", "20000", "50000")
	want := make([]string, 0, len(placed.Items))
	for _, it := range placed.Items {
		want = append(want, it.ServiceName)
	}
	names := func(items []models.OrderItem) []string {
		out := make([]string, 0, len(items))
		for _, it := range items {
			out = append(out, it.ServiceName)
		}
		return out
	}

	got, err := s.orders.GetForUser(ctx, u.ID, placed.ID)
	require.NoError(err)
	require.Equal(want, names(got.Items))

	mine, err := s.orders.ListForUser(ctx, u.ID)
	require.NoError(err)
	require.Len(mine, 1)
	require.Equal(want, names(mine[0].Items))

	res, err := s.orders.UpdateStatus(ctx, s.staff.ID, placed.ID, types.OrderStatusConfirmed)
	require.NoError(err)
	require.Equal(want, names(res.Order.Items))
}
