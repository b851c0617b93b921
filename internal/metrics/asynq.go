package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 任务结果标签。
const (
	OutcomeDone    = "done"
	OutcomeRetry   = "retry"
	OutcomeDropped = "dropped"
)

var (
	taskLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "vitae",
			Subsystem: "worker",
			Name:      "task_duration_seconds",
			Help:      "导出任务处理耗时（秒），按任务类型与结果区分。",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"task_type", "outcome"},
	)

	tasksRunning = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "vitae",
			Subsystem: "worker",
			Name:      "tasks_running",
			Help:      "正在处理的任务数。",
		},
		[]string{"task_type"},
	)
)

// taskOutcome 区分会被队列重试的失败与带 SkipRetry 直接丢弃的失败。
func taskOutcome(err error) string {
	switch {
	case err == nil:
		return OutcomeDone
	case errors.Is(err, asynq.SkipRetry):
		return OutcomeDropped
	default:
		return OutcomeRetry
	}
}

// AsynqMiddleware 记录任务耗时与结果，错误原样返回给队列。
func AsynqMiddleware() asynq.MiddlewareFunc {
	return func(next asynq.Handler) asynq.Handler {
		return asynq.HandlerFunc(func(ctx context.Context, task *asynq.Task) error {
			running := tasksRunning.WithLabelValues(task.Type())
			running.Inc()
			defer running.Dec()

			start := time.Now()
			err := next.ProcessTask(ctx, task)
			taskLatency.WithLabelValues(task.Type(), taskOutcome(err)).Observe(time.Since(start).Seconds())
			return err
		})
	}
}
