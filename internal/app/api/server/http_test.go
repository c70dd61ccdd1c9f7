package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	mw "github.com/fatflowers/storetis/internal/app/api/middleware"
	"github.com/fatflowers/storetis/internal/models"
	cfgpkg "github.com/fatflowers/storetis/pkg/config"
	"github.com/fatflowers/storetis/pkg/metrics"
	"github.com/fatflowers/storetis/pkg/response"
)

func testEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := &cfgpkg.Config{Storage: cfgpkg.StorageConfig{Driver: cfgpkg.StorageDriverLocal, LocalDir: t.TempDir(), BaseURL: "/media"}}
	r := newEngine(metrics.New())
	registerRoutes(r, routeDeps{Log: zap.NewNop().Sugar(), Cfg: cfg})
	return r
}

func TestRegisterRoutes_RegistersEndpoints(t *testing.T) {
	r := testEngine(t)
	routes := map[string]bool{}
	for _, rt := range r.Routes() {
		routes[rt.Method+" "+rt.Path] = true
	}

	for _, want := range []string{
		"GET /healthz",
		"POST /api/v1/auth/login",
		"GET /api/v1/services/:id",
		"POST /api/v1/services/:id/purchase",
		"POST /api/v1/services/:id/consultation",
		"GET /api/v1/posts/latest",
		"GET /api/v1/posts/:slug",
		"GET /api/v1/search",
		"GET /api/v1/me/dashboard",
		"POST /api/v1/checkout/confirm",
		"POST /api/v1/admin/orders/:id/status",
		"POST /api/v1/admin/subscriptions/:id/verify",
		"POST /api/v1/admin/statistics",
		"DELETE /api/v1/admin/staff/:id",
		"GET /media/*filepath",
	} {
		require.True(t, routes[want], want)
	}
}

func TestProtectedRoutesRequireLogin(t *testing.T) {
	r := testEngine(t)
	for _, path := range []string{"/api/v1/me", "/api/v1/cart", "/api/v1/admin/orders"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusOK, w.Code)

		var out response.APIResponse[any]
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
		require.Equal(t, response.APIResponseCodeUnauthorized, out.Code, path)
	}
}

func TestStaffManagementOpenToStaff(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		name string
		user *models.User
		want response.APIResponseCode
	}{
		{"customer", &models.User{ID: "c", IsActive: true}, response.APIResponseCodeForbidden},
		// An empty body gets past the guard and fails validation.
		{"staff", &models.User{ID: "s", IsActive: true, IsStaff: true}, response.APIResponseCodeBadRequest},
		{"superuser", &models.User{ID: "r", IsActive: true, IsSuperuser: true}, response.APIResponseCodeBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := gin.New()
			registerAdminRoutes(r.Group("/admin", mw.SetCurrentUser(tc.user)), routeDeps{})

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/admin/staff", strings.NewReader("{}")))
			require.Equal(t, http.StatusOK, w.Code)

			var out response.APIResponse[any]
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
			require.Equal(t, tc.want, out.Code)
		})
	}
}
