package worker

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/hibiken/asynq"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"

	"github.com/ByLCY/vitae/engine"
	"github.com/ByLCY/vitae/internal/errcode"
	"github.com/ByLCY/vitae/internal/logger"
	"github.com/ByLCY/vitae/internal/metrics"
	"github.com/ByLCY/vitae/internal/store"
	"github.com/ByLCY/vitae/internal/tasks"
	"github.com/ByLCY/vitae/renderer"
	"github.com/ByLCY/vitae/resume"
	"github.com/ByLCY/vitae/scale"
	"github.com/ByLCY/vitae/screen"
	"github.com/ByLCY/vitae/template"
	"github.com/ByLCY/vitae/tier"
)

// ObjectStore 是导出产物的上传目标，由 storage.Client 实现。
type ObjectStore interface {
	UploadFile(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (*minio.UploadInfo, error)
}

// Options 配置导出处理器。
type Options struct {
	// Renderer 序列化文档布局，Printer 为空时使用。
	Renderer renderer.Renderer
	// Printer 非空时改为打印屏幕目标的 HTML。
	Printer Printer
	Timeout time.Duration
}

// ExportHandler 消费导出任务：读取快照、渲染、上传并通知。
type ExportHandler struct {
	store    *store.Store
	objects  ObjectStore
	notifier Publisher
	engine   *engine.Engine
	opts     Options
	logger   *zap.Logger
}

// NewExportHandler 创建任务处理器。
func NewExportHandler(st *store.Store, objects ObjectStore, notifier Publisher, eng *engine.Engine, log *zap.Logger, opts Options) *ExportHandler {
	if opts.Timeout <= 0 {
		opts.Timeout = time.Minute
	}
	return &ExportHandler{
		store:    st,
		objects:  objects,
		notifier: notifier,
		engine:   eng,
		opts:     opts,
		logger:   logger.WithFields(log, zap.String("component", "export")),
	}
}

// ProcessTask 实现 asynq.Handler。
func (h *ExportHandler) ProcessTask(ctx context.Context, t *asynq.Task) (retErr error) {
	p, err := tasks.ParseExportPayload(t)
	if err != nil {
		h.logger.Error("解析任务负载失败", zap.Error(err))
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}
	log := h.logger.With(
		zap.String("task_type", t.Type()),
		zap.String("export_id", p.ExportID),
		zap.String("resume_id", p.ResumeID),
		zap.String("correlation_id", p.CorrelationID),
	)
	log.Info("开始导出")

	r, err := h.store.GetResume(ctx, p.ResumeID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Warn("简历快照不存在，跳过任务")
			h.fail(ctx, log, p, errcode.ResourceMissing, "resume snapshot not found")
			return nil
		}
		log.Error("读取简历快照失败", zap.Error(err))
		return err
	}

	defer func() {
		if retErr == nil || !isFinalAttempt(ctx) {
			return
		}
		h.fail(ctx, log, p, errcode.SystemError, retErr.Error())
	}()

	tr := tier.Parse(p.Tier)
	start := time.Now()
	data, err := h.render(ctx, r, tr)
	if err != nil {
		log.Error("渲染失败", zap.Error(err))
		return err
	}
	height, overflow, err := h.engine.Preflight(r, tr)
	if err != nil {
		return fmt.Errorf("preflight: %w", err)
	}
	metrics.ObserveRender(metrics.TargetDocument, string(template.Lookup(r.SelectedTemplate).ID), time.Since(start), overflow)
	if overflow {
		log.Warn("内容超出单页", zap.Float64("content_height", height))
	}

	objectKey := fmt.Sprintf("exports/%s/%s.pdf", p.ResumeID, p.ExportID)
	if _, err := h.objects.UploadFile(ctx, objectKey, bytes.NewReader(data), int64(len(data)), "application/pdf"); err != nil {
		log.Error("上传导出文件失败", zap.Error(err))
		return err
	}

	filename := h.engine.Filename(r)
	if err := h.store.CompleteExport(ctx, p.ExportID, objectKey, filename, height, overflow); err != nil {
		log.Error("更新导出记录失败", zap.Error(err))
		return err
	}

	notify := ExportNotifyMessage{
		Status:        store.StatusCompleted,
		ExportID:      p.ExportID,
		ResumeID:      p.ResumeID,
		CorrelationID: p.CorrelationID,
		ErrorCode:     errcode.OK,
		Filename:      filename,
		Overflow:      overflow,
	}
	if err := publishNotify(ctx, h.notifier, notify); err != nil {
		// 记录已完成，客户端仍可轮询状态。
		log.Warn("发布完成通知失败", zap.Error(err))
	}

	log.Info("导出完成", zap.Int("bytes", len(data)), zap.String("object_key", objectKey))
	return nil
}

// printViewport 使屏幕目标按 1:1 输出，供浏览器打印。
const printViewport = scale.PageWidthPx + scale.ViewportPadding

func (h *ExportHandler) render(ctx context.Context, r *resume.Resume, tr tier.Tier) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, h.opts.Timeout)
	defer cancel()

	if h.opts.Printer == nil {
		return h.engine.Export(ctx, r, tr, h.opts.Renderer)
	}
	view, err := h.engine.RenderForScreen(r, tr, printViewport)
	if err != nil {
		return nil, err
	}
	doc, err := screen.Document(view, r.Name)
	if err != nil {
		return nil, err
	}
	return h.opts.Printer.PrintPDF(ctx, doc)
}

func (h *ExportHandler) fail(ctx context.Context, log *zap.Logger, p tasks.ExportPayload, code int, message string) {
	// 任务上下文可能已被取消，状态仍需落库。
	ctx = context.WithoutCancel(ctx)
	message = logger.Truncate(message, 512)
	if err := h.store.FailExport(ctx, p.ExportID, code, message); err != nil {
		log.Error("标记导出失败状态失败", zap.Error(err))
	}
	notify := ExportNotifyMessage{
		Status:        store.StatusFailed,
		ExportID:      p.ExportID,
		ResumeID:      p.ResumeID,
		CorrelationID: p.CorrelationID,
		ErrorCode:     code,
		ErrorMessage:  message,
	}
	if err := publishNotify(ctx, h.notifier, notify); err != nil {
		log.Error("发布失败通知失败", zap.Error(err))
	}
}

// isFinalAttempt 判断是否已无重试机会。不在 asynq 中执行时视为最后一次。
func isFinalAttempt(ctx context.Context) bool {
	retryCount, ok1 := asynq.GetRetryCount(ctx)
	maxRetry, ok2 := asynq.GetMaxRetry(ctx)
	if !ok1 || !ok2 {
		return true
	}
	return retryCount >= maxRetry
}
