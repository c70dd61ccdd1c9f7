package statistics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fatflowers/storetis/internal/models"
	"github.com/fatflowers/storetis/pkg/errs"
)

func TestPeriodStarts(t *testing.T) {
	loc := time.FixedZone("ICT", 7*3600)
	cases := []struct {
		name  string
		now   time.Time
		week  time.Time
		month time.Time
	}{
		{
			name:  "wednesday",
			now:   time.Date(2024, 5, 15, 13, 45, 0, 0, loc),
			week:  time.Date(2024, 5, 13, 0, 0, 0, 0, loc),
			month: time.Date(2024, 5, 1, 0, 0, 0, 0, loc),
		},
		{
			name:  "sunday belongs to the week started on monday",
			now:   time.Date(2024, 5, 19, 23, 59, 0, 0, loc),
			week:  time.Date(2024, 5, 13, 0, 0, 0, 0, loc),
			month: time.Date(2024, 5, 1, 0, 0, 0, 0, loc),
		},
		{
			name:  "monday",
			now:   time.Date(2024, 7, 1, 0, 0, 1, 0, loc),
			week:  time.Date(2024, 7, 1, 0, 0, 0, 0, loc),
			month: time.Date(2024, 7, 1, 0, 0, 0, 0, loc),
		},
		{
			name:  "week spans months",
			now:   time.Date(2024, 3, 2, 9, 0, 0, 0, loc),
			week:  time.Date(2024, 2, 26, 0, 0, 0, 0, loc),
			month: time.Date(2024, 3, 1, 0, 0, 0, 0, loc),
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := periodStarts(tc.now)
			y, m, d := tc.now.Date()
			assert.Equal(t, time.Date(y, m, d, 0, 0, 0, 0, loc), p.Today)
			assert.Equal(t, tc.week, p.Week)
			assert.Equal(t, tc.month, p.Month)
		})
	}
}

func TestResolveItems(t *testing.T) {
	staff := &models.User{IsStaff: true}
	root := &models.User{IsStaff: true, IsSuperuser: true}

	all := resolveItems(root, nil)
	assert.Equal(t, allTypes, all)
	assert.NotContains(t, resolveItems(staff, nil), StatisticTypeStaffConsultations)

	req := &Request{DataItems: []*DataItem{
		{ID: StatisticTypeUserCounts}, nil, {ID: StatisticTypeUserCounts}, {ID: StatisticTypeStaffConsultations},
	}}
	assert.Equal(t, []StatisticType{StatisticTypeUserCounts}, resolveItems(staff, req))
	assert.Equal(t, []StatisticType{StatisticTypeUserCounts, StatisticTypeStaffConsultations}, resolveItems(root, req))
}

func TestGetStatistic_Unknown(t *testing.T) {
	s := &Service{}
	_, err := s.getStatistic(context.Background(), "gmv", periods{})
	require.ErrorIs(t, err, errs.ErrInvalid)
}
