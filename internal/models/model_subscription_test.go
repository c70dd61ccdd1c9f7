package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func verifiedAt(start time.Time, days int) *UserSubscription {
	exp := start.AddDate(0, 0, days)
	return &UserSubscription{
		DurationDays:   days,
		StartDate:      &start,
		ExpirationDate: &exp,
		IsActive:       true,
		IsVerified:     true,
	}
}

func TestUserSubscription_RemainingDays(t *testing.T) {
	start := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	s := verifiedAt(start, 30)

	require.Equal(t, 30, s.RemainingDays(start))
	require.Equal(t, 1, s.RemainingDays(start.Add(30*24*time.Hour-time.Second)))
	require.Equal(t, 0, s.RemainingDays(start.Add(30*24*time.Hour)))
	require.True(t, s.IsExpired(start.Add(30*24*time.Hour)))
	require.False(t, s.IsExpired(start.Add(30*24*time.Hour-time.Second)))
	require.Equal(t, 0, s.RemainingDays(start.Add(31*24*time.Hour)))
}

func TestUserSubscription_Unverified(t *testing.T) {
	s := &UserSubscription{DurationDays: 30, IsActive: true}
	now := time.Now()

	assert.False(t, s.IsExpired(now))
	assert.Equal(t, 0, s.RemainingDays(now))
	assert.True(t, s.Usable(now))
	assert.False(t, s.Expired(now))

	s.IsActive = false
	assert.False(t, s.Usable(now))
	assert.True(t, s.Expired(now))
}

func TestUserSubscription_UsableWindow(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s := verifiedAt(start, 90)

	assert.True(t, s.Usable(start.AddDate(0, 0, 89)))
	assert.False(t, s.Usable(start.AddDate(0, 0, 90)))
	assert.True(t, s.Expired(start.AddDate(0, 0, 91)))
}

func TestUser_MissingProfileFields(t *testing.T) {
	phone, email := "0900000000", "a@b.vn"
	u := &User{Phone: &phone}
	require.ElementsMatch(t, []string{"email", "address", "face_id_image"}, u.MissingProfileFields())
	require.False(t, u.ProfileComplete())

	u.Email, u.Address, u.FaceIDImage = &email, "Hà Nội", "/media/face.png"
	require.True(t, u.ProfileComplete())
	require.Equal(t, email, u.DisplayName())
	u.FullName = "Nguyễn An"
	require.Equal(t, "Nguyễn An", u.DisplayName())
}

func TestService_FixedPrice(t *testing.T) {
	s := &Service{}
	_, ok := s.FixedPrice()
	require.False(t, ok)
	require.Equal(t, "Khác", s.CategoryLabel())
}
