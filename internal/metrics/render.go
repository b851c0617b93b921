package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 渲染目标标签。
const (
	TargetScreen   = "screen"
	TargetDocument = "document"
)

var (
	renderDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "vitae",
			Subsystem: "render",
			Name:      "duration_seconds",
			Help:      "单次渲染耗时分布（秒）。",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"target", "template"},
	)

	renderOverflowTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vitae",
			Subsystem: "render",
			Name:      "overflow_total",
			Help:      "内容超出单页的渲染次数。",
		},
		[]string{"target", "template"},
	)

	renderCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vitae",
			Subsystem: "render",
			Name:      "cache_lookups_total",
			Help:      "预览缓存查询次数。",
		},
		[]string{"result"},
	)
)

// ObserveRender 记录一次渲染。
func ObserveRender(target, template string, d time.Duration, overflow bool) {
	renderDuration.WithLabelValues(target, template).Observe(d.Seconds())
	if overflow {
		renderOverflowTotal.WithLabelValues(target, template).Inc()
	}
}

// CacheLookup 记录预览缓存命中情况。
func CacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	renderCacheTotal.WithLabelValues(result).Inc()
}
