package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/ByLCY/vitae/engine"
	"github.com/ByLCY/vitae/internal/api/middleware"
	"github.com/ByLCY/vitae/internal/errcode"
	"github.com/ByLCY/vitae/internal/store"
	"github.com/ByLCY/vitae/internal/tasks"
	"github.com/ByLCY/vitae/tier"
)

// Enqueuer 是 *asynq.Client 的入队子集。
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Presigner 签发导出文件的下载链接，由 storage.Client 实现。
type Presigner interface {
	GeneratePresignedURL(ctx context.Context, objectKey, filename string, duration time.Duration) (string, error)
}

// ExportHandler 提交异步导出并查询状态。
type ExportHandler struct {
	store    *store.Store
	queue    Enqueuer
	objects  Presigner
	engine   *engine.Engine
	maxRetry int
	linkTTL  time.Duration
}

func NewExportHandler(st *store.Store, queue Enqueuer, objects Presigner, eng *engine.Engine, maxRetry int, linkTTL time.Duration) *ExportHandler {
	if linkTTL <= 0 {
		linkTTL = time.Hour
	}
	return &ExportHandler{store: st, queue: queue, objects: objects, engine: eng, maxRetry: maxRetry, linkTTL: linkTTL}
}

// Create 为已保存的快照创建导出任务，立即返回 202 与预检结果。
func (h *ExportHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()
	log := middleware.LoggerFromContext(c)
	resumeID := c.Param("id")
	tr := tier.Parse(c.Query("tier"))

	r, err := h.store.GetResume(ctx, resumeID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			NotFound(c, "resume not found")
			return
		}
		log.Error("读取简历失败", zap.Error(err))
		Internal(c, "load resume failed")
		return
	}
	height, overflow, err := h.engine.Preflight(r, tr)
	if err != nil {
		log.Error("溢出预检失败", zap.Error(err))
		Internal(c, "preflight failed")
		return
	}

	rec := &store.Export{
		ID:            uuid.NewString(),
		ResumeID:      resumeID,
		Tier:          string(tr),
		Filename:      h.engine.Filename(r),
		ContentHeight: height,
		Overflow:      overflow,
		CorrelationID: middleware.GetCorrelationID(c),
	}
	if err := h.store.CreateExport(ctx, rec); err != nil {
		log.Error("创建导出记录失败", zap.Error(err))
		Internal(c, "create export failed")
		return
	}

	task, err := tasks.NewExportTask(tasks.ExportPayload{
		ExportID:      rec.ID,
		ResumeID:      resumeID,
		Tier:          rec.Tier,
		CorrelationID: rec.CorrelationID,
	})
	if err == nil {
		_, err = h.queue.EnqueueContext(ctx, task, asynq.MaxRetry(h.maxRetry))
	}
	if err != nil {
		log.Error("导出任务入队失败", zap.Error(err), zap.String("export_id", rec.ID))
		if ferr := h.store.FailExport(context.WithoutCancel(ctx), rec.ID, errcode.SystemError, "enqueue failed"); ferr != nil {
			log.Error("标记导出失败状态失败", zap.Error(ferr))
		}
		Internal(c, "enqueue export failed")
		return
	}

	log.Info("导出任务已入队", zap.String("export_id", rec.ID), zap.Bool("overflow", overflow))
	c.JSON(http.StatusAccepted, gin.H{
		"exportId":      rec.ID,
		"status":        store.StatusPending,
		"filename":      rec.Filename,
		"contentHeight": height,
		"overflow":      overflow,
	})
}

type exportStatus struct {
	ExportID      string  `json:"exportId"`
	ResumeID      string  `json:"resumeId"`
	Status        string  `json:"status"`
	Filename      string  `json:"filename"`
	URL           string  `json:"url,omitempty"`
	ContentHeight float64 `json:"contentHeight"`
	Overflow      bool    `json:"overflow"`
	ErrorCode     int     `json:"errorCode"`
	ErrorMessage  string  `json:"errorMessage,omitempty"`
}

// Get 返回导出状态，完成时附带限时下载链接。
func (h *ExportHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()
	rec, err := h.store.GetExport(ctx, c.Param("exportId"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			NotFound(c, "export not found")
			return
		}
		middleware.LoggerFromContext(c).Error("读取导出记录失败", zap.Error(err))
		Internal(c, "load export failed")
		return
	}

	out := exportStatus{
		ExportID:      rec.ID,
		ResumeID:      rec.ResumeID,
		Status:        rec.Status,
		Filename:      rec.Filename,
		ContentHeight: rec.ContentHeight,
		Overflow:      rec.Overflow,
		ErrorCode:     rec.ErrorCode,
		ErrorMessage:  rec.ErrorMessage,
	}
	if rec.Status == store.StatusCompleted && rec.ObjectKey != "" {
		url, err := h.objects.GeneratePresignedURL(ctx, rec.ObjectKey, rec.Filename, h.linkTTL)
		if err != nil {
			middleware.LoggerFromContext(c).Error("签发下载链接失败", zap.Error(err))
			Internal(c, "generate download link failed")
			return
		}
		out.URL = url
	}
	c.JSON(http.StatusOK, out)
}
