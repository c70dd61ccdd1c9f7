package statistics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fatflowers/storetis/internal/models"
	"github.com/fatflowers/storetis/internal/platform/dockertest"
	"github.com/fatflowers/storetis/pkg/types"
)

type ReportSuite struct {
	suite.Suite

	db  *gorm.DB
	svc *Service
}

func TestReportSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("integration test")
	}
	suite.Run(t, new(ReportSuite))
}

func (s *ReportSuite) SetupSuite() {
	s.db = dockertest.StartupPostgres(s.T())
	s.svc = New(s.db, zap.NewNop().Sugar(), nil)
}

func (s *ReportSuite) create(v any) {
	s.Require().NoError(s.db.Create(v).Error)
}

func strPtr(v string) *string { return &v }

func values(items []ResponseDataItem) map[string]int64 {
	out := make(map[string]int64, len(items))
	for _, it := range items {
		out[it.Label] = it.Value
	}
	return out
}

// One method so the empty database is observed before anything is inserted.
func (s *ReportSuite) TestReportOnEmptyAndPopulatedDatabase() {
	ctx := context.Background()
	root := &models.User{ID: "viewer", IsStaff: true, IsSuperuser: true}

	s.Run("empty", func() {
		require := s.Require()
		res, err := s.svc.Report(ctx, root, nil)
		require.NoError(err)
		require.Len(res.DataItems, len(allTypes))

		require.Equal(map[string]int64{LabelTotal: 0, LabelToday: 0, LabelWeek: 0, LabelMonth: 0},
			values(res.DataItems[StatisticTypeUserCounts]))
		require.Equal(map[string]int64{LabelOpen: 0, LabelCompleted: 0},
			values(res.DataItems[StatisticTypeConsultationCounts]))
		require.Equal(map[string]int64{LabelTotal: 0, LabelToday: 0},
			values(res.DataItems[StatisticTypeSubscriptionCounts]))
		require.Empty(res.DataItems[StatisticTypeSubscriptionsByService])
		require.Empty(res.DataItems[StatisticTypeSubscriptionsBySupplier])
		require.Empty(res.DataItems[StatisticTypeStaffConsultations])
	})

	s.Run("populated", func() {
		require := s.Require()
		consultant := &models.User{Email: strPtr("lan@example.com"), FullName: "Lan", PasswordHash: "x", IsActive: true, IsStaff: true}
		admin := &models.User{Email: strPtr("root@example.com"), PasswordHash: "x", IsActive: true, IsStaff: true, IsSuperuser: true}
		customer := &models.User{Email: strPtr("khach@example.com"), PasswordHash: "x", IsActive: true}
		for _, u := range []*models.User{consultant, admin, customer} {
			s.create(u)
		}

		supplier := &models.Supplier{Name: "Viettel"}
		s.create(supplier)
		withSupplier := &models.Service{Name: "Gói cước", SupplierID: &supplier.ID}
		standalone := &models.Service{Name: "Bảo hiểm"}
		s.create(withSupplier)
		s.create(standalone)

		now := time.Now()
		exp := now.AddDate(0, 0, 30)
		for _, sub := range []*models.UserSubscription{
			{UserID: customer.ID, ServiceID: withSupplier.ID, DurationDays: 30, IsActive: true, IsVerified: true, StartDate: &now, ExpirationDate: &exp},
			{UserID: customer.ID, ServiceID: withSupplier.ID, DurationDays: 30, IsActive: true},
			{UserID: customer.ID, ServiceID: standalone.ID, DurationDays: 90, IsActive: true},
		} {
			s.create(sub)
		}

		done := now
		for _, c := range []*models.ConsultationRequest{
			{UserID: customer.ID, ServiceID: &withSupplier.ID, AssignedStaffID: &consultant.ID, Status: types.ConsultationStatusAssigned},
			{UserID: customer.ID, ServiceID: &standalone.ID, AssignedStaffID: &consultant.ID, Status: types.ConsultationStatusCompleted, CompletedAt: &done},
			{UserID: customer.ID, ServiceID: &standalone.ID, Status: types.ConsultationStatusNew},
		} {
			s.create(c)
		}

		res, err := s.svc.Report(ctx, root, nil)
		require.NoError(err)

		users := values(res.DataItems[StatisticTypeUserCounts])
		require.EqualValues(3, users[LabelTotal])
		require.EqualValues(3, users[LabelMonth])
		require.Equal(map[string]int64{LabelOpen: 2, LabelCompleted: 1},
			values(res.DataItems[StatisticTypeConsultationCounts]))
		require.Equal(map[string]int64{LabelTotal: 3, LabelToday: 1},
			values(res.DataItems[StatisticTypeSubscriptionCounts]))
		require.Equal([]ResponseDataItem{{Label: "Gói cước", Value: 2}, {Label: "Bảo hiểm", Value: 1}},
			res.DataItems[StatisticTypeSubscriptionsByService])
		require.Equal([]ResponseDataItem{{Label: "Viettel", Value: 2}},
			res.DataItems[StatisticTypeSubscriptionsBySupplier])
		require.Equal([]ResponseDataItem{{Label: "Lan", Value: 1, Value2: 1}},
			res.DataItems[StatisticTypeStaffConsultations])

		staffOnly, err := s.svc.Report(ctx, consultant, nil)
		require.NoError(err)
		require.NotContains(staffOnly.DataItems, StatisticTypeStaffConsultations)
	})
}
