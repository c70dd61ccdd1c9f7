package subscription

import (
	"context"
	"fmt"

	"gorm.io/gorm/clause"

	"github.com/fatflowers/storetis/internal/models"
	"github.com/fatflowers/storetis/pkg/errs"
	"github.com/fatflowers/storetis/pkg/types"
)

var (
	scanFields = []string{"is_verified", "is_active", "user_id", "service_id", "created_at", "start_date", "expiration_date"}
	sortFields = []string{"created_at", "start_date", "expiration_date"}
)

// ScanRequest pages through subscriptions for the staff activation queue.
type ScanRequest struct {
	Filters   []*types.CommonFilter `json:"filters"`
	From      int                   `json:"from"`
	Size      int                   `json:"size"`
	SortBy    string                `json:"sort_by"`
	SortOrder string                `json:"sort_order"`
}

type ScanResponse struct {
	Items []*models.UserSubscription `json:"items"`
	Total int64                      `json:"total"`
}

func (req *ScanRequest) normalize() error {
	if f := types.UnknownField(req.Filters, scanFields...); f != "" {
		return errs.Field("filters", fmt.Sprintf("unsupported field %q", f))
	}
	if req.SortBy == "" {
		req.SortBy = "created_at"
	}
	if types.UnknownField([]*types.CommonFilter{{Field: req.SortBy}}, sortFields...) != "" {
		return errs.Field("sort_by", fmt.Sprintf("unsupported field %q", req.SortBy))
	}
	if req.Size <= 0 || req.Size > 100 {
		req.Size = 20
	}
	if req.From < 0 {
		req.From = 0
	}
	return nil
}

func (s *Service) Scan(ctx context.Context, req *ScanRequest) (*ScanResponse, error) {
	if req == nil {
		req = &ScanRequest{}
	}
	if err := req.normalize(); err != nil {
		return nil, err
	}

	tx := s.db.WithContext(ctx).Model(&models.UserSubscription{})
	if len(req.Filters) > 0 {
		tx = tx.Where(clause.Where{Exprs: []clause.Expression{types.FiltersAnd(req.Filters)}})
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count subscriptions: %w", err)
	}

	rows := make([]*models.UserSubscription, 0)
	q := tx.Preload("User").Preload("Service").
		Order(clause.OrderBy{Columns: []clause.OrderByColumn{{Column: clause.Column{Name: req.SortBy}, Desc: req.SortOrder != "asc"}}}).
		Limit(req.Size)
	if req.From > 0 {
		q = q.Offset(req.From)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	return &ScanResponse{Items: rows, Total: total}, nil
}
