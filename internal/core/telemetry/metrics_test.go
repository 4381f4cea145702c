package telemetry

import (
	"context"
	"testing"
	"time"

	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestAppMetrics_Counters(t *testing.T) {
	RegisterTestingT(t)

	ctx := context.Background()
	metrics := NewAppMetrics(prometheus.NewRegistry())

	metrics.RecordRequest(ctx, "GET", "/api/tasks", "200", 10*time.Millisecond)
	metrics.RecordRequest(ctx, "GET", "/api/tasks", "200", 20*time.Millisecond)
	metrics.RecordTaskOperation(ctx, "task_created")
	metrics.RecordCacheHit(ctx, "tasks:all")
	metrics.RecordCacheMiss(ctx, "tasks:all")
	metrics.RecordRateLimitHit(ctx, "/api/tasks")

	Expect(testutil.ToFloat64(metrics.requestTotal.WithLabelValues("GET", "/api/tasks", "200"))).To(Equal(2.0))
	Expect(testutil.ToFloat64(metrics.taskOperations.WithLabelValues("task_created"))).To(Equal(1.0))
	Expect(testutil.ToFloat64(metrics.cacheHits.WithLabelValues("tasks:all"))).To(Equal(1.0))
	Expect(testutil.ToFloat64(metrics.cacheMisses.WithLabelValues("tasks:all"))).To(Equal(1.0))
	Expect(testutil.ToFloat64(metrics.rateLimitHits.WithLabelValues("/api/tasks"))).To(Equal(1.0))
}

func TestAppMetrics_ActiveConnections(t *testing.T) {
	RegisterTestingT(t)

	ctx := context.Background()
	metrics := NewAppMetrics(prometheus.NewRegistry())

	metrics.IncrementActiveConnections(ctx)
	metrics.IncrementActiveConnections(ctx)
	metrics.DecrementActiveConnections(ctx)

	Expect(testutil.ToFloat64(metrics.activeConnections)).To(Equal(1.0))
}
