package consultation

import (
	"context"
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"github.com/fatflowers/storetis/internal/models"
	"github.com/fatflowers/storetis/internal/platform/dockertest"
	"github.com/fatflowers/storetis/internal/platform/kafka"
	"github.com/fatflowers/storetis/pkg/types"
)

type RoutingSuite struct {
	suite.Suite

	svc *Service
}

func TestRoutingSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("integration test")
	}
	suite.Run(t, new(RoutingSuite))
}

func (s *RoutingSuite) SetupSuite() {
	log := zap.NewNop().Sugar()
	s.svc = NewService(dockertest.StartupPostgres(s.T()), log, nil, kafka.NoopPublisher(log))
}

func (s *RoutingSuite) create(v any) {
	s.Require().NoError(s.svc.db.Create(v).Error)
}

func (s *RoutingSuite) user(opts ...func(*models.User)) *models.User {
	email := fmt.Sprintf("c%d@example.com", rand.IntN(1_000_000_000))
	u := &models.User{Email: &email, PasswordHash: "x", IsActive: true}
	for _, opt := range opts {
		opt(u)
	}
	s.create(u)
	return u
}

func (s *RoutingSuite) TestRequestAssignsAndDeduplicates() {
	require := s.Require()
	ctx := context.Background()

	consultant := s.user(func(u *models.User) { u.IsStaff = true })
	customer := s.user()
	svc := &models.Service{Name: "Tư vấn"}
	s.create(svc)

	var offered []models.User
	s.svc.pick = func(staff []models.User) *models.User {
		offered = staff
		for i := range staff {
			if staff[i].ID == consultant.ID {
				return &staff[i]
			}
		}
		return nil
	}

	first, err := s.svc.Request(ctx, customer.ID, svc.ID)
	require.NoError(err)
	require.False(first.Existed)
	require.Equal(types.ConsultationStatusAssigned, first.Request.Status)
	require.Equal(consultant.ID, *first.Request.AssignedStaffID)
	for _, u := range offered {
		require.True(u.IsStaff)
		require.True(u.IsActive)
		require.False(u.IsSuperuser)
	}

	again, err := s.svc.Request(ctx, customer.ID, svc.ID)
	require.NoError(err)
	require.True(again.Existed)
	require.Equal(first.Request.ID, again.Request.ID)

	_, err = s.svc.Get(ctx, customer, first.Request.ID)
	require.ErrorIs(err, ErrNotAssignee)

	notes := "called back"
	done, err := s.svc.Update(ctx, consultant, first.Request.ID, &UpdateInput{Status: types.ConsultationStatusCompleted, Notes: &notes})
	require.NoError(err)
	require.NotNil(done.CompletedAt)

	_, err = s.svc.Update(ctx, consultant, first.Request.ID, &UpdateInput{Status: types.ConsultationStatusAssigned})
	require.ErrorIs(err, ErrReopen)
	var stored models.ConsultationRequest
	require.NoError(s.svc.db.First(&stored, "id = ?", first.Request.ID).Error)
	require.Equal(types.ConsultationStatusCompleted, stored.Status)

	third, err := s.svc.Request(ctx, customer.ID, svc.ID)
	require.NoError(err)
	require.False(third.Existed)
	require.NotEqual(first.Request.ID, third.Request.ID)
}

func (s *RoutingSuite) TestRequestWithoutStaffStaysNew() {
	require := s.Require()
	s.svc.pick = func([]models.User) *models.User { return nil }

	customer := s.user()
	svc := &models.Service{Name: "Không ai trực"}
	s.create(svc)

	res, err := s.svc.Request(context.Background(), customer.ID, svc.ID)
	require.NoError(err)
	require.Equal(types.ConsultationStatusNew, res.Request.Status)
	require.Nil(res.Request.AssignedStaffID)
}
