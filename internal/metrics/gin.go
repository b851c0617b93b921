package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// templateKey 是 gin.Context 中记录本次请求所渲染模板的键。
const templateKey = "metrics.template"

// 非渲染请求的模板标签。
const noTemplate = "-"

var (
	// 直方图的 _count 即请求总数，不再单独维护计数器。
	httpLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "vitae",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP 请求耗时分布（秒），按路由、状态段与模板区分。",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "route", "code", "template"},
	)

	httpInFlight = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "vitae",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "正在处理的 HTTP 请求数。",
		},
		[]string{"route"},
	)
)

// SetTemplate 标记本次请求渲染的模板，供中间件打标签。
func SetTemplate(c *gin.Context, id string) {
	if id != "" {
		c.Set(templateKey, id)
	}
}

// GinMiddleware 采集请求耗时。路由取注册时的模板路径，未匹配的统一记为 unmatched。
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		start := time.Now()
		inflight := httpInFlight.WithLabelValues(route)
		inflight.Inc()
		defer inflight.Dec()

		c.Next()

		tpl := c.GetString(templateKey)
		if tpl == "" {
			tpl = noTemplate
		}
		httpLatency.WithLabelValues(c.Request.Method, route, statusClass(c.Writer.Status()), tpl).
			Observe(time.Since(start).Seconds())
	}
}

// statusClass 把状态码归并为 2xx/4xx 等，404 与 429 单独保留。
func statusClass(code int) string {
	switch code {
	case 404, 429:
		return strconv.Itoa(code)
	}
	return strconv.Itoa(code/100) + "xx"
}
