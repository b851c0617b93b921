package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

func sampleCount(t *testing.T, o prometheus.Observer) uint64 {
	t.Helper()
	m := &dto.Metric{}
	if err := o.(prometheus.Metric).Write(m); err != nil {
		t.Fatalf("读取直方图失败: %v", err)
	}
	return m.GetHistogram().GetSampleCount()
}

func TestGinMiddlewareLabelsRouteAndTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(GinMiddleware())
	r.POST("/v1/render/document", func(c *gin.Context) {
		SetTemplate(c, "github")
		c.Status(http.StatusOK)
	})
	r.GET("/v1/exports/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/v1/render/document", nil))
	for _, id := range []string{"a", "b"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/exports/"+id, nil))
	}
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope", nil))

	if got := sampleCount(t, httpLatency.WithLabelValues("POST", "/v1/render/document", "2xx", "github")); got != 1 {
		t.Fatalf("渲染请求应带模板标签, 得到 %d", got)
	}
	if got := sampleCount(t, httpLatency.WithLabelValues("GET", "/v1/exports/:id", "2xx", noTemplate)); got != 2 {
		t.Fatalf("按路由模板计数, 期望 2, 得到 %d", got)
	}
	if got := sampleCount(t, httpLatency.WithLabelValues("GET", "unmatched", "404", noTemplate)); got < 1 {
		t.Fatalf("未匹配路由应归入 unmatched")
	}
	if got := testutil.ToFloat64(httpInFlight.WithLabelValues("/v1/exports/:id")); got != 0 {
		t.Fatalf("请求结束后 in flight = %v", got)
	}
}

func TestStatusClass(t *testing.T) {
	cases := map[int]string{200: "2xx", 201: "2xx", 302: "3xx", 400: "4xx", 404: "404", 429: "429", 503: "5xx"}
	for code, want := range cases {
		if got := statusClass(code); got != want {
			t.Fatalf("statusClass(%d) = %q, want %q", code, got, want)
		}
	}
}

func TestAsynqMiddlewareOutcomes(t *testing.T) {
	cases := []struct {
		typ  string
		err  error
		want string
	}{
		{"test:ok", nil, OutcomeDone},
		{"test:flaky", errors.New("boom"), OutcomeRetry},
		{"test:bad-payload", fmt.Errorf("%w: bad json", asynq.SkipRetry), OutcomeDropped},
	}
	for _, tc := range cases {
		tc := tc
		h := AsynqMiddleware()(asynq.HandlerFunc(func(context.Context, *asynq.Task) error { return tc.err }))
		if err := h.ProcessTask(context.Background(), asynq.NewTask(tc.typ, nil)); !errors.Is(err, tc.err) {
			t.Fatalf("%s: 应原样返回错误, 得到 %v", tc.typ, err)
		}
		if got := sampleCount(t, taskLatency.WithLabelValues(tc.typ, tc.want)); got != 1 {
			t.Fatalf("%s: outcome %s 计数 = %d", tc.typ, tc.want, got)
		}
		if got := testutil.ToFloat64(tasksRunning.WithLabelValues(tc.typ)); got != 0 {
			t.Fatalf("%s: running = %v", tc.typ, got)
		}
	}
}

func TestObserveRender(t *testing.T) {
	ObserveRender(TargetDocument, "executive", 10*time.Millisecond, true)
	ObserveRender(TargetDocument, "executive", 10*time.Millisecond, false)
	if got := testutil.ToFloat64(renderOverflowTotal.WithLabelValues(TargetDocument, "executive")); got != 1 {
		t.Fatalf("overflow = %v", got)
	}
	CacheLookup(true)
	if got := testutil.ToFloat64(renderCacheTotal.WithLabelValues("hit")); got < 1 {
		t.Fatalf("cache hit = %v", got)
	}
}
