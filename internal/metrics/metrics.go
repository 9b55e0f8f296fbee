// Package metrics exposes Prometheus instrumentation for the naming layer.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "klingnet_names"

var (
	// BlocksConnected counts blocks applied to the name index.
	BlocksConnected = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "blocks_connected_total",
		Help:      "Number of blocks connected to the name index.",
	})

	// BlocksDisconnected counts blocks rolled back from the name index.
	BlocksDisconnected = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "blocks_disconnected_total",
		Help:      "Number of blocks disconnected from the name index.",
	})

	// CovenantsAccepted counts accepted covenant transitions by type.
	CovenantsAccepted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "covenants_accepted_total",
		Help:      "Accepted covenant transitions by covenant type.",
	}, []string{"type"})

	// CovenantsRejected counts rejected covenants by rejection reason.
	CovenantsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "covenants_rejected_total",
		Help:      "Rejected covenants by rejection reason.",
	}, []string{"reason"})

	// ValueBurned totals the value destroyed by revocations.
	ValueBurned = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "value_burned_total",
		Help:      "Total value burned by REVOKE covenants.",
	})

	// ConnectDuration observes per-block connection latency.
	ConnectDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "connect_duration_seconds",
		Help:      "Time spent connecting a block to the name index.",
		Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
	})

	// TreeCommits counts name tree commitments.
	TreeCommits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tree_commits_total",
		Help:      "Number of name tree root commitments.",
	})
)

// ObserveConnect records a block connection and its duration.
func ObserveConnect(start time.Time) {
	BlocksConnected.Inc()
	ConnectDuration.Observe(time.Since(start).Seconds())
}

// Serve exposes the Prometheus scrape endpoint on addr. It blocks.
func Serve(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return server.ListenAndServe()
}
