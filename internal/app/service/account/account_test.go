package account

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fatflowers/storetis/internal/models"
	"github.com/fatflowers/storetis/pkg/config"
)

func newTestService() *Service {
	cfg := &config.Config{Auth: config.AuthConfig{JWTSecret: "test-secret", TokenTTL: time.Hour}}
	return NewService(nil, zap.NewNop().Sugar(), cfg)
}

func TestToken_RoundTrip(t *testing.T) {
	s := newTestService()
	token, exp, err := s.IssueToken("user-1", time.Now())
	require.NoError(t, err)
	require.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	sub, err := s.ParseToken(token)
	require.NoError(t, err)
	require.Equal(t, "user-1", sub)
}

func TestToken_Rejects(t *testing.T) {
	s := newTestService()

	expired, _, err := s.IssueToken("user-1", time.Now().Add(-2*time.Hour))
	require.NoError(t, err)
	_, err = s.ParseToken(expired)
	require.ErrorIs(t, err, ErrInvalidToken)

	other := NewService(nil, zap.NewNop().Sugar(), &config.Config{Auth: config.AuthConfig{JWTSecret: "other", TokenTTL: time.Hour}})
	forged, _, err := other.IssueToken("user-1", time.Now())
	require.NoError(t, err)
	_, err = s.ParseToken(forged)
	require.ErrorIs(t, err, ErrInvalidToken)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: "user-1", Issuer: "storetis"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = s.ParseToken(none)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestRequireCompleteProfile(t *testing.T) {
	err := RequireCompleteProfile(&models.User{})
	require.ErrorIs(t, err, ErrProfileIncomplete)
	require.Contains(t, err.Error(), "face_id_image")

	phone, email := "0900000001", "x@y.vn"
	require.NoError(t, RequireCompleteProfile(&models.User{Phone: &phone, Email: &email, Address: "HCM", FaceIDImage: "/m/f.png"}))
}

func TestRegisterRequest_Identifiers(t *testing.T) {
	req := &RegisterRequest{Email: "  An@Example.COM ", Phone: " ", CCCD: "0123"}
	ids := req.identifiers()
	require.Equal(t, "an@example.com", *ids.Email)
	require.Nil(t, ids.Phone)
	require.Equal(t, "0123", *ids.CCCD)
}
