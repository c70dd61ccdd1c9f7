package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestRegistry_NilIsNoop(t *testing.T) {
	var r *Registry
	require.NotPanics(t, func() {
		r.OrderCreated()
		r.OrderTransition("confirmed")
		r.SubscriptionsCreated(3)
		r.EventPublished("x", nil)
	})
}

func TestRegistry_Counters(t *testing.T) {
	r := New()
	r.SubscriptionsCreated(3)
	r.EventPublished("orders", nil)
	r.EventPublished("orders", errors.New("down"))

	require.Equal(t, float64(3), testutil.ToFloat64(r.subscriptionsCreated))
	require.Equal(t, float64(1), testutil.ToFloat64(r.events.WithLabelValues("orders", "ok")))
	require.Equal(t, float64(1), testutil.ToFloat64(r.events.WithLabelValues("orders", "error")))
}

func TestMiddleware_LabelsByRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := New()
	e := gin.New()
	e.Use(r.Middleware("/metrics"))
	e.GET("/orders/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	e.GET("/metrics", r.Handler())

	for _, id := range []string{"a", "b"} {
		w := httptest.NewRecorder()
		e.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/orders/"+id, nil))
	}
	require.Equal(t, float64(2), testutil.ToFloat64(r.httpRequests.WithLabelValues("/orders/:id", "GET", "200")))

	w := httptest.NewRecorder()
	e.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "storetis_http_requests_total")
}
