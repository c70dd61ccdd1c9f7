package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/fatflowers/storetis/internal/models"
	"github.com/fatflowers/storetis/pkg/logctx"
	"github.com/fatflowers/storetis/pkg/response"
)

type stubAuth struct {
	users map[string]*models.User
}

func (s *stubAuth) ParseToken(token string) (string, error) {
	if token == "good" || token == "inactive" {
		return token, nil
	}
	return "", errors.New("bad token")
}

func (s *stubAuth) Get(_ context.Context, id string) (*models.User, error) {
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, errors.New("not found")
}

func newAuthEngine(guard gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	auth := &stubAuth{users: map[string]*models.User{
		"good":     {ID: "good", IsActive: true},
		"inactive": {ID: "inactive", IsActive: false},
	}}
	r := gin.New()
	r.Use(TraceMiddleware(), RequestLoggerMiddleware(zap.NewNop().Sugar()), Authenticate(auth, zap.NewNop().Sugar()))
	handler := func(c *gin.Context) {
		id := ""
		if u := CurrentUser(c); u != nil {
			id = u.ID
		}
		c.JSON(http.StatusOK, response.OKT(id))
	}
	if guard != nil {
		r.GET("/x", guard, handler)
	} else {
		r.GET("/x", handler)
	}
	return r
}

func call(t *testing.T, r *gin.Engine, authz string) response.APIResponse[any] {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	var out response.APIResponse[any]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestAuthenticate(t *testing.T) {
	r := newAuthEngine(nil)

	res := call(t, r, "")
	require.Equal(t, response.APIResponseCodeOK, res.Code)
	require.Equal(t, "", res.Data)

	res = call(t, r, "Bearer good")
	require.Equal(t, response.APIResponseCodeOK, res.Code)
	require.Equal(t, "good", res.Data)

	require.Equal(t, response.APIResponseCodeUnauthorized, call(t, r, "Bearer nope").Code)
	require.Equal(t, response.APIResponseCodeUnauthorized, call(t, r, "Basic good").Code)
	require.Equal(t, response.APIResponseCodeUnauthorized, call(t, r, "Bearer inactive").Code)
}

func TestRequireAuth(t *testing.T) {
	r := newAuthEngine(RequireAuth())
	require.Equal(t, response.APIResponseCodeUnauthorized, call(t, r, "").Code)
	require.Equal(t, response.APIResponseCodeOK, call(t, r, "Bearer good").Code)
}

func guarded(u *models.User, guard gin.HandlerFunc) response.APIResponseCode {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/x", SetCurrentUser(u), guard, func(c *gin.Context) { c.JSON(http.StatusOK, response.OKT[any](nil)) })
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	var out response.APIResponse[any]
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return out.Code
}

func TestRoleGuards(t *testing.T) {
	customer := &models.User{ID: "c", IsActive: true}
	staff := &models.User{ID: "s", IsActive: true, IsStaff: true}
	root := &models.User{ID: "r", IsActive: true, IsSuperuser: true}

	require.Equal(t, response.APIResponseCodeUnauthorized, guarded(nil, RequireStaff()))
	require.Equal(t, response.APIResponseCodeForbidden, guarded(customer, RequireStaff()))
	require.Equal(t, response.APIResponseCodeOK, guarded(staff, RequireStaff()))
	require.Equal(t, response.APIResponseCodeOK, guarded(root, RequireStaff()))
}

func TestTraceAndRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zap.InfoLevel)
	r := gin.New()
	r.Use(TraceMiddleware(), RequestLoggerMiddleware(zap.New(core).Sugar()), AccessLogMiddleware())
	r.GET("/x", func(c *gin.Context) {
		logctx.FromCtx(c.Request.Context(), zap.NewNop().Sugar()).Infow("inside")
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(HeaderRequestID, "req-42")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, "req-42", w.Header().Get(HeaderRequestID))
	inside := logs.FilterMessage("inside").All()
	require.Len(t, inside, 1)
	require.Equal(t, "req-42", inside[0].ContextMap()["trace_id"])
	require.Equal(t, 1, logs.FilterMessage("http_access").Len())
}
