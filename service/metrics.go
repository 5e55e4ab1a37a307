package service

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/rushteam/tripkit/core"
	"github.com/rushteam/tripkit/pipeline"
)

// 指标名。
const (
	MetricRankRequests  = "tripkit_rank_requests_total"
	MetricRankDuration  = "tripkit_rank_duration_seconds"
	MetricRankedItems   = "tripkit_ranked_items"
	MetricNodeDuration  = "tripkit_pipeline_node_duration_seconds"
	MetricStoreFailOpen = "tripkit_store_fail_open_total"
)

// Metrics 是排序服务的 Prometheus 指标，并发安全。
// NewMetrics 只创建 collector，需调用 Register 注册。
type Metrics struct {
	requests      *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	items         *prometheus.HistogramVec
	nodeDuration  *prometheus.HistogramVec
	storeFailOpen *prometheus.CounterVec
}

// NewMetrics 创建指标。
func NewMetrics() *Metrics {
	return &Metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricRankRequests,
				Help: "Total number of ranking requests by domain and outcome",
			},
			[]string{"domain", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    MetricRankDuration,
				Help:    "Ranking request duration in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
			},
			[]string{"domain"},
		),
		items: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    MetricRankedItems,
				Help:    "Number of items returned by a ranking request",
				Buckets: prometheus.ExponentialBuckets(1, 4, 6),
			},
			[]string{"domain"},
		),
		nodeDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    MetricNodeDuration,
				Help:    "Pipeline node duration in seconds",
				Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
			},
			[]string{"node", "kind"},
		),
		storeFailOpen: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricStoreFailOpen,
				Help: "Store reads that failed and were ignored while ranking",
			},
			[]string{"op"},
		),
	}
}

// Register 注册全部指标。
func (m *Metrics) Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		m.requests,
		m.duration,
		m.items,
		m.nodeDuration,
		m.storeFailOpen,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// ObserveRank 记录一次排序请求。
func (m *Metrics) ObserveRank(domain string, elapsed time.Duration, items int, err error) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(domain, outcome(err)).Inc()
	m.duration.WithLabelValues(domain).Observe(elapsed.Seconds())
	if err == nil {
		m.items.WithLabelValues(domain).Observe(float64(items))
	}
}

// IncStoreFailOpen 记录一次被忽略的存储读取失败。
func (m *Metrics) IncStoreFailOpen(op string) {
	if m == nil {
		return
	}
	m.storeFailOpen.WithLabelValues(op).Inc()
}

// Hook 返回记录各 Node 耗时的 Pipeline Hook。
func (m *Metrics) Hook() pipeline.PipelineHook {
	return &metricsHook{m: m}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case core.IsInvalidInput(err):
		return "invalid"
	case core.IsUnavailable(err):
		return "unavailable"
	default:
		return "error"
	}
}

type nodeKey struct {
	rctx *core.RankContext
	node string
}

type metricsHook struct {
	m      *Metrics
	starts sync.Map // nodeKey -> time.Time
}

func (h *metricsHook) BeforeNode(_ context.Context, rctx *core.RankContext, node pipeline.Node, items []*core.Item) ([]*core.Item, error) {
	h.starts.Store(nodeKey{rctx: rctx, node: node.Name()}, time.Now())
	return items, nil
}

func (h *metricsHook) AfterNode(_ context.Context, rctx *core.RankContext, node pipeline.Node, items []*core.Item, err error) ([]*core.Item, error) {
	if v, ok := h.starts.LoadAndDelete(nodeKey{rctx: rctx, node: node.Name()}); ok && h.m != nil {
		h.m.nodeDuration.WithLabelValues(node.Name(), string(node.Kind())).Observe(time.Since(v.(time.Time)).Seconds())
	}
	return items, err
}
