package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP 请求延迟（秒）
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path", "status"},
	)

	// 存储读写延迟（秒）
	StoreOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "store_operation_duration_seconds",
			Help:    "Collection load/save duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
		},
		[]string{"operation", "collection", "backend"},
	)

	// 写操作计数
	RecordMutationCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "record_mutation_total",
			Help: "Total number of persisted record mutations",
		},
		[]string{"collection", "action"}, // action: create, update, delete, batch
	)

	// 慢查询计数
	SlowQueryCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "slow_query_total",
			Help: "Total number of SQL statements slower than the tracer threshold",
		},
		[]string{"statement"},
	)

	// 快照计数
	SnapshotCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "snapshot_total",
			Help: "Total number of collection snapshots taken",
		},
		[]string{"status"}, // status: success, failed
	)
)

// RecordHTTPRequestDuration 记录 HTTP 请求延迟
func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// RecordStoreOperation 记录存储读写延迟
func RecordStoreOperation(operation, collection, backend string, duration time.Duration) {
	StoreOperationDuration.WithLabelValues(operation, collection, backend).Observe(duration.Seconds())
}

// IncrementMutation 增加写操作计数
func IncrementMutation(collection, action string) {
	RecordMutationCount.WithLabelValues(collection, action).Inc()
}

// IncrementSlowQuery 增加慢查询计数，statement 只保留语句的前缀
func IncrementSlowQuery(statement string, _ time.Duration) {
	if len(statement) > 40 {
		statement = statement[:40]
	}
	SlowQueryCount.WithLabelValues(statement).Inc()
}

// IncrementSnapshot 增加快照计数
func IncrementSnapshot(status string) {
	SnapshotCount.WithLabelValues(status).Inc()
}
