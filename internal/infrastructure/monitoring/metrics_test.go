package monitoring

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestInstanceAndWrapperGauges(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.InstanceCreated()
	m.InstanceCreated()
	m.InstanceDestroyed()
	m.WrapperCreated()
	m.WrapperCreated()
	m.WrapperReleased()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.InstancesActive))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.InstancesTotal))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.WrappersCreated))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.WrappersLive))

	snap := m.Snapshot()
	assert.Equal(t, int64(1), snap.ActiveInstances)
	assert.Equal(t, int64(1), snap.LiveWrappers)
}

func TestExceptionsAndScripts(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.RecordException("unknown property")
	m.RecordException("unknown property")
	m.RecordException("other")
	NewTimer(m, "http").Stop("ok")
	NewTimer(m, "console").Stop("error")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Exceptions.WithLabelValues("unknown property")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ScriptRuns.WithLabelValues("console", "error")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.ScriptDuration))

	snap := m.Snapshot()
	assert.Equal(t, int64(3), snap.Exceptions)
	assert.Equal(t, int64(2), snap.ScriptRuns)
}

func TestMiddlewareUsesRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewMetrics(prometheus.NewRegistry())

	router := gin.New()
	router.Use(Middleware(m))
	router.GET("/classes/:name", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	for _, path := range []string{"/classes/a", "/classes/b", "/nope"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/classes/:name", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "unmatched", "404")))

	snap := m.Snapshot()
	assert.Equal(t, int64(3), snap.TotalRequests)
	assert.Equal(t, int64(1), snap.TotalErrors)
}

func TestUptime(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	time.Sleep(5 * time.Millisecond)
	assert.Greater(t, testutil.ToFloat64(m.Uptime), 0.0)
}
