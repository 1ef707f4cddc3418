package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// MongoLatency is the duration of Mongo queries.
	MongoLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "dataaccess_mongo_latency",
			Help: "Duration of Mongo queries",
		},
		[]string{"dal", "query", "database", "collection"},
	)

	// MongoTotalRequests is the total number of Mongo requests.
	MongoTotalRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dataaccess_mongo_total_requests",
			Help: "Total number of Mongo requests",
		},
		[]string{"dal", "query", "database", "collection"},
	)

	// RedisLatency is the duration of Redis commands.
	RedisLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "dataaccess_redis_latency",
			Help: "Duration of Redis commands",
		},
		[]string{"dal", "query"},
	)

	// RedisTotalRequests is the total number of Redis commands.
	RedisTotalRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dataaccess_redis_total_requests",
			Help: "Total number of Redis commands",
		},
		[]string{"dal", "query"},
	)

	// FileStoreWrites is the total number of state file writes.
	FileStoreWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dataaccess_file_writes_total",
			Help: "Total number of state file writes",
		},
		[]string{"file", "status"},
	)
)
