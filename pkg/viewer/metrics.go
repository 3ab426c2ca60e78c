package viewer

import (
	"github.com/grafana/dskit/instrument"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	profilesLoaded *prometheus.CounterVec
	ingestFailures prometheus.Counter
	loadDuration   prometheus.Histogram
	layoutNodes    prometheus.Histogram
	cacheHits      prometheus.Counter
}

func newMetrics(reg prometheus.Registerer) *metrics {
	return &metrics{
		profilesLoaded: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: "profileview",
			Name:      "profiles_loaded_total",
			Help:      "Number of profiles loaded, by format.",
		}, []string{"format"}),
		ingestFailures: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: "profileview",
			Name:      "ingest_failures_total",
			Help:      "Number of profiles that could not be decoded.",
		}),
		loadDuration: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Namespace: "profileview",
			Name:      "load_duration_seconds",
			Help:      "Time spent reading, decoding and laying out a profile.",
			Buckets:   instrument.DefBuckets,
		}),
		layoutNodes: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Namespace: "profileview",
			Name:      "layout_nodes",
			Help:      "Number of nodes laid out per flame graph, after pruning.",
			Buckets:   prometheus.ExponentialBuckets(16, 4, 8),
		}),
		cacheHits: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: "profileview",
			Name:      "cache_hits_total",
		}),
	}
}
