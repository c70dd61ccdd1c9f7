package statistics

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/fatflowers/storetis/internal/models"
	"github.com/fatflowers/storetis/pkg/errs"
	"github.com/fatflowers/storetis/pkg/metrics"
	"github.com/fatflowers/storetis/pkg/types"
)

type StatisticType string

const (
	// Users registered in total, today, this week and this month.
	StatisticTypeUserCounts StatisticType = "user_counts"
	// Consultations still open and completed.
	StatisticTypeConsultationCounts StatisticType = "consultation_counts"
	// Subscriptions in total and started today.
	StatisticTypeSubscriptionCounts StatisticType = "subscription_counts"

	StatisticTypeSubscriptionsByService  StatisticType = "subscriptions_by_service"
	StatisticTypeSubscriptionsBySupplier StatisticType = "subscriptions_by_supplier"

	// Open and completed consultations per consultant. Superusers only.
	StatisticTypeStaffConsultations StatisticType = "staff_consultations"
)

var allTypes = []StatisticType{
	StatisticTypeUserCounts,
	StatisticTypeConsultationCounts,
	StatisticTypeSubscriptionCounts,
	StatisticTypeSubscriptionsByService,
	StatisticTypeSubscriptionsBySupplier,
	StatisticTypeStaffConsultations,
}

// Labels used by the count items.
const (
	LabelTotal     = "total"
	LabelToday     = "today"
	LabelWeek      = "week"
	LabelMonth     = "month"
	LabelOpen      = "open"
	LabelCompleted = "completed"
)

type DataItem struct {
	ID StatisticType `json:"id"`
}

// Request lists the items to compute. An empty list means every item the
// viewer may see.
type Request struct {
	DataItems []*DataItem `json:"data_items"`
}

// ResponseDataItem is one row of an item. Value2 is only used by
// staff_consultations, where Value is open and Value2 completed.
type ResponseDataItem struct {
	Label  string `json:"label"`
	Value  int64  `json:"value"`
	Value2 int64  `json:"value2,omitempty"`
}

type Response struct {
	DataItems map[StatisticType][]ResponseDataItem `json:"data_items"`
}

type Service struct {
	db      *gorm.DB
	log     *zap.SugaredLogger
	metrics *metrics.Registry
	now     func() time.Time
}

func New(db *gorm.DB, log *zap.SugaredLogger, m *metrics.Registry) *Service {
	return &Service{db: db, log: log, metrics: m, now: time.Now}
}

type periods struct {
	Today time.Time
	Week  time.Time
	Month time.Time
}

// periodStarts returns the midnight starting today, the current week (weeks
// start on Monday) and the current month, in now's location.
func periodStarts(now time.Time) periods {
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	sinceMonday := (int(today.Weekday()) + 6) % 7
	return periods{
		Today: today,
		Week:  today.AddDate(0, 0, -sinceMonday),
		Month: time.Date(y, m, 1, 0, 0, 0, 0, now.Location()),
	}
}

// countSpec is one labelled COUNT(*). A nil query counts every row.
type countSpec struct {
	label string
	query any
	args  []any
}

func (s *Service) counts(ctx context.Context, model any, specs []countSpec) ([]ResponseDataItem, error) {
	out := make([]ResponseDataItem, 0, len(specs))
	for _, spec := range specs {
		var n int64
		q := s.db.WithContext(ctx).Model(model)
		if spec.query != nil {
			q = q.Where(spec.query, spec.args...)
		}
		if err := q.Count(&n).Error; err != nil {
			return nil, fmt.Errorf("count %s: %w", spec.label, err)
		}
		out = append(out, ResponseDataItem{Label: spec.label, Value: n})
	}
	return out, nil
}

func (s *Service) getUserCounts(ctx context.Context, p periods) ([]ResponseDataItem, error) {
	return s.counts(ctx, &models.User{}, []countSpec{
		{label: LabelTotal},
		{label: LabelToday, query: "created_at >= ?", args: []any{p.Today}},
		{label: LabelWeek, query: "created_at >= ?", args: []any{p.Week}},
		{label: LabelMonth, query: "created_at >= ?", args: []any{p.Month}},
	})
}

func (s *Service) getConsultationCounts(ctx context.Context, _ periods) ([]ResponseDataItem, error) {
	open := []types.ConsultationStatus{types.ConsultationStatusNew, types.ConsultationStatusAssigned}
	return s.counts(ctx, &models.ConsultationRequest{}, []countSpec{
		{label: LabelOpen, query: "status IN ?", args: []any{open}},
		{label: LabelCompleted, query: "status = ?", args: []any{types.ConsultationStatusCompleted}},
	})
}

func (s *Service) getSubscriptionCounts(ctx context.Context, p periods) ([]ResponseDataItem, error) {
	return s.counts(ctx, &models.UserSubscription{}, []countSpec{
		{label: LabelTotal},
		{label: LabelToday, query: "start_date >= ? AND start_date < ?", args: []any{p.Today, p.Today.AddDate(0, 0, 1)}},
	})
}

func (s *Service) getSubscriptionsByService(ctx context.Context, _ periods) ([]ResponseDataItem, error) {
	results := make([]ResponseDataItem, 0)
	err := s.db.WithContext(ctx).Table("user_subscription").
		Select("service.name AS label, COUNT(user_subscription.id) AS value").
		Joins("JOIN service ON service.id = user_subscription.service_id").
		Group("service.name").
		Order("value DESC").
		Scan(&results).Error
	return results, err
}

func (s *Service) getSubscriptionsBySupplier(ctx context.Context, _ periods) ([]ResponseDataItem, error) {
	results := make([]ResponseDataItem, 0)
	err := s.db.WithContext(ctx).Table("user_subscription").
		Select("supplier.name AS label, COUNT(user_subscription.id) AS value").
		Joins("JOIN service ON service.id = user_subscription.service_id").
		Joins("JOIN supplier ON supplier.id = service.supplier_id").
		Group("supplier.name").
		Order("value DESC").
		Scan(&results).Error
	return results, err
}

type staffRow struct {
	ID        string
	FullName  string
	Email     *string
	Open      int64
	Completed int64
}

func (s *Service) getStaffConsultations(ctx context.Context, _ periods) ([]ResponseDataItem, error) {
	var rows []staffRow
	err := s.db.WithContext(ctx).Table("app_user").
		Select(`app_user.id, app_user.full_name, app_user.email,
  SUM(CASE WHEN c.status IN ('new', 'assigned') THEN 1 ELSE 0 END) AS open,
  SUM(CASE WHEN c.status = 'completed' THEN 1 ELSE 0 END) AS completed`).
		Joins("LEFT JOIN consultation_request c ON c.assigned_staff_id = app_user.id").
		Where("app_user.is_staff = ? AND app_user.is_superuser = ?", true, false).
		Group("app_user.id, app_user.full_name, app_user.email").
		Order("open DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return lo.Map(rows, func(r staffRow, _ int) ResponseDataItem {
		u := models.User{ID: r.ID, FullName: r.FullName, Email: r.Email}
		return ResponseDataItem{Label: u.DisplayName(), Value: r.Open, Value2: r.Completed}
	}), nil
}

func (s *Service) getStatistic(ctx context.Context, id StatisticType, p periods) ([]ResponseDataItem, error) {
	switch id {
	case StatisticTypeUserCounts:
		return s.getUserCounts(ctx, p)
	case StatisticTypeConsultationCounts:
		return s.getConsultationCounts(ctx, p)
	case StatisticTypeSubscriptionCounts:
		return s.getSubscriptionCounts(ctx, p)
	case StatisticTypeSubscriptionsByService:
		return s.getSubscriptionsByService(ctx, p)
	case StatisticTypeSubscriptionsBySupplier:
		return s.getSubscriptionsBySupplier(ctx, p)
	case StatisticTypeStaffConsultations:
		return s.getStaffConsultations(ctx, p)
	default:
		return nil, errs.Field("data_items", fmt.Sprintf("invalid data item id: %s", id))
	}
}

// resolveItems expands an empty request and drops items the viewer may not see.
func resolveItems(viewer *models.User, req *Request) []StatisticType {
	ids := allTypes
	if req != nil && len(req.DataItems) > 0 {
		ids = lo.Uniq(lo.FilterMap(req.DataItems, func(d *DataItem, _ int) (StatisticType, bool) {
			if d == nil {
				return "", false
			}
			return d.ID, true
		}))
	}
	if viewer == nil || !viewer.IsSuperuser {
		ids = lo.Without(ids, StatisticTypeStaffConsultations)
	}
	return ids
}

// Report computes the requested items concurrently. It never writes.
func (s *Service) Report(ctx context.Context, viewer *models.User, req *Request) (*Response, error) {
	begin := time.Now()
	ids := resolveItems(viewer, req)
	p := periodStarts(s.now())

	var mu sync.Mutex
	results := make(map[StatisticType][]ResponseDataItem, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	for _, id := range ids {
		g.Go(func() error {
			res, err := s.getStatistic(gctx, id, p)
			if err != nil {
				return err
			}
			mu.Lock()
			results[id] = res
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	s.metrics.ObserveProcess("report", "dashboard", metrics.MillisecondsSince(begin))
	return &Response{DataItems: results}, nil
}
