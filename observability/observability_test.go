package observability

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMonitoringManager_RecordReadsCounters(t *testing.T) {
	req := require.New(t)
	mm := NewMonitoringManager(slog.Default(), DeliveryCounters{
		OnlineUsers: func() int { return 3 },
		Delivered:   func() uint64 { return 10 },
		Dropped:     func() uint64 { return 1 },
	})

	// Given nothing recorded yet
	req.True(mm.GetLatest().SampledAt.IsZero())

	// When a process sample is recorded
	mm.Record(ProcessStats{PID: 42, Status: "R", CPUPercent: 1.5})

	// Then the latest snapshot carries the sample and the counters
	latest := mm.GetLatest()
	req.Equal(int32(42), latest.Process.PID)
	req.Equal(3, latest.OnlineUsers)
	req.Equal(uint64(10), latest.Delivered)
	req.Equal(uint64(0), latest.Failed)
	req.Equal(uint64(1), latest.Dropped)
	req.Positive(latest.NumGoroutines)
	req.False(latest.SampledAt.IsZero())
}

func TestMetrics_ExposesRegisteredFuncs(t *testing.T) {
	req := require.New(t)
	m := NewMetrics()
	delivered := uint64(7)
	m.RegisterCounterFunc("pushes_delivered_total", "test", func() uint64 { return delivered })
	m.RegisterGaugeFunc("online_users", "test", func() float64 { return 2 })
	m.ObserveHTTP("GET", "/health", "200", 5*time.Millisecond)

	req.Equal(1.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("GET", "/health", "200")))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()
	req.Contains(body, "direct_chat_pushes_delivered_total 7")
	req.Contains(body, "direct_chat_online_users 2")
	req.Contains(body, "go_goroutines")
}
