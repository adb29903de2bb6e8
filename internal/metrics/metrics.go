// Package metrics exposes board activity as prometheus counters. Every method
// is safe on a nil *Metrics so components can run without instrumentation.
package metrics

import (
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "etapa"

// Mutation outcomes
const (
	OutcomeCommitted  = "committed"
	OutcomeRolledBack = "rolled_back"
)

// Metrics tracks board statistics
type Metrics struct {
	mutations     *prometheus.CounterVec
	cacheLookups  *prometheus.CounterVec
	requests      *prometheus.CounterVec
	notifications *prometheus.CounterVec

	committed  atomic.Int64
	rolledBack atomic.Int64
	hits       atomic.Int64
	misses     atomic.Int64
	StartTime  time.Time
}

// New creates the collectors and registers them with reg. A nil reg leaves
// them unregistered.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "board_mutations_total",
			Help:      "Optimistic board mutations by operation and outcome.",
		}, []string{"op", "outcome"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "board_cache_lookups_total",
			Help:      "Read-through cache lookups by result.",
		}, []string{"result"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"route", "code"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Notifications emitted by kind.",
		}, []string{"kind"}),
		StartTime: time.Now(),
	}
	if reg != nil {
		reg.MustRegister(m.mutations, m.cacheLookups, m.requests, m.notifications)
	}
	return m
}

// ObserveMutation counts one resolved board mutation
func (m *Metrics) ObserveMutation(op, outcome string) {
	if m == nil {
		return
	}
	m.mutations.WithLabelValues(op, outcome).Inc()
	if outcome == OutcomeCommitted {
		m.committed.Add(1)
	} else {
		m.rolledBack.Add(1)
	}
}

// ObserveCacheLookup counts a cache hit or miss
func (m *Metrics) ObserveCacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
		m.hits.Add(1)
	} else {
		m.misses.Add(1)
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

// ObserveRequest counts one served HTTP request
func (m *Metrics) ObserveRequest(route string, status int) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(route, strconv.Itoa(status)).Inc()
}

// ObserveNotification counts one emitted notification
func (m *Metrics) ObserveNotification(kind string) {
	if m == nil {
		return
	}
	m.notifications.WithLabelValues(kind).Inc()
}

// Handler serves the registry in the prometheus text format
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// Snapshot represents a point-in-time snapshot of metrics
type Snapshot struct {
	Committed   int64         `json:"committed"`
	RolledBack  int64         `json:"rolled_back"`
	CacheHits   int64         `json:"cache_hits"`
	CacheMisses int64         `json:"cache_misses"`
	Uptime      time.Duration `json:"uptime"`
}

// GetSnapshot returns the running totals
func (m *Metrics) GetSnapshot() Snapshot {
	if m == nil {
		return Snapshot{}
	}
	return Snapshot{
		Committed:   m.committed.Load(),
		RolledBack:  m.rolledBack.Load(),
		CacheHits:   m.hits.Load(),
		CacheMisses: m.misses.Load(),
		Uptime:      time.Since(m.StartTime),
	}
}
