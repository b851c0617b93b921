package worker

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/minio/minio-go/v7"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ByLCY/vitae/engine"
	"github.com/ByLCY/vitae/internal/errcode"
	"github.com/ByLCY/vitae/internal/store"
	"github.com/ByLCY/vitae/internal/tasks"
	"github.com/ByLCY/vitae/layout"
	canvasrenderer "github.com/ByLCY/vitae/renderer/canvas"
	"github.com/ByLCY/vitae/resume"
)

type fakeObjects struct {
	mu       sync.Mutex
	uploaded map[string][]byte
}

func (f *fakeObjects) UploadFile(_ context.Context, objectName string, reader io.Reader, _ int64, _ string) (*minio.UploadInfo, error) {
	b, _ := io.ReadAll(reader)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.uploaded == nil {
		f.uploaded = map[string][]byte{}
	}
	f.uploaded[objectName] = b
	return &minio.UploadInfo{Key: objectName, Size: int64(len(b))}, nil
}

type published struct {
	channel string
	msg     ExportNotifyMessage
}

type fakePublisher struct {
	mu   sync.Mutex
	msgs []published
}

func (f *fakePublisher) Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd {
	var msg ExportNotifyMessage
	if b, ok := message.([]byte); ok {
		_ = json.Unmarshal(b, &msg)
	}
	f.mu.Lock()
	f.msgs = append(f.msgs, published{channel: channel, msg: msg})
	f.mu.Unlock()
	cmd := redis.NewIntCmd(ctx)
	cmd.SetVal(1)
	return cmd
}

func (f *fakePublisher) last(t *testing.T) published {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.msgs) == 0 {
		t.Fatalf("没有发布任何通知")
	}
	return f.msgs[len(f.msgs)-1]
}

type fakePrinter struct {
	document string
}

func (p *fakePrinter) PrintPDF(_ context.Context, document string) ([]byte, error) {
	p.document = document
	return []byte("%PDF-1.7 fake"), nil
}

type failingRenderer struct{}

func (failingRenderer) Render(*layout.Result) ([]byte, error) {
	return nil, errors.New("disk full")
}

type fixture struct {
	store   *store.Store
	objects *fakeObjects
	pub     *fakePublisher
	logs    *observer.ObservedLogs
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Discard})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	st := store.New(db)
	ctx := context.Background()
	if err := st.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	r := resume.New("r1")
	r.PersonalInfo.FullName = "Ada Lovelace"
	r.PersonalInfo.JobTitle = "Analyst"
	r.AddExperience(resume.Experience{Company: "Babbage", Role: "Programmer", StartDate: "1842", Current: true})
	if err := st.SaveResume(ctx, r); err != nil {
		t.Fatalf("save resume: %v", err)
	}
	if err := st.CreateExport(ctx, &store.Export{ID: "e1", ResumeID: "r1", Tier: "pro"}); err != nil {
		t.Fatalf("create export: %v", err)
	}
	return &fixture{store: st, objects: &fakeObjects{}, pub: &fakePublisher{}}
}

func (f *fixture) handler(opts Options) *ExportHandler {
	core, logs := observer.New(zapcore.InfoLevel)
	f.logs = logs
	return NewExportHandler(f.store, f.objects, f.pub, engine.New(engine.Options{}), zap.New(core), opts)
}

func exportTask(t *testing.T, resumeID string) *asynq.Task {
	t.Helper()
	task, err := tasks.NewExportTask(tasks.ExportPayload{ExportID: "e1", ResumeID: resumeID, Tier: "pro", CorrelationID: "c1"})
	if err != nil {
		t.Fatalf("NewExportTask: %v", err)
	}
	return task
}

func TestExportWithCanvas(t *testing.T) {
	f := newFixture(t)
	h := f.handler(Options{Renderer: canvasrenderer.NewRenderer()})

	if err := h.ProcessTask(context.Background(), exportTask(t, "r1")); err != nil {
		t.Fatalf("ProcessTask: %v", err)
	}
	data := f.objects.uploaded["exports/r1/e1.pdf"]
	if !strings.HasPrefix(string(data), "%PDF") {
		t.Fatalf("应上传 PDF，得到 %d 字节", len(data))
	}
	rec, err := f.store.GetExport(context.Background(), "e1")
	if err != nil {
		t.Fatalf("GetExport: %v", err)
	}
	if rec.Status != store.StatusCompleted || rec.Filename != "Ada_Lovelace_Resume.pdf" || rec.ContentHeight <= 0 {
		t.Fatalf("导出记录 = %+v", rec)
	}
	got := f.pub.last(t)
	if got.channel != "export_notify:e1" || got.msg.Status != store.StatusCompleted || got.msg.ErrorCode != errcode.OK {
		t.Fatalf("通知 = %+v", got)
	}
	start := f.logs.FilterMessage("开始导出").All()
	if len(start) != 1 || start[0].ContextMap()["correlation_id"] != "c1" {
		t.Fatalf("日志应带 correlation_id: %+v", start)
	}
}

func TestExportWithBrowserPrinter(t *testing.T) {
	f := newFixture(t)
	printer := &fakePrinter{}
	h := f.handler(Options{Printer: printer})

	if err := h.ProcessTask(context.Background(), exportTask(t, "r1")); err != nil {
		t.Fatalf("ProcessTask: %v", err)
	}
	if !strings.HasPrefix(printer.document, "<!DOCTYPE html>") || !strings.Contains(printer.document, `data-template="classic"`) {
		t.Fatalf("打印的应是完整 HTML 文档: %.120s", printer.document)
	}
	if !strings.Contains(printer.document, "scale(1)") {
		t.Fatalf("打印时视口应为 1:1")
	}
	if string(f.objects.uploaded["exports/r1/e1.pdf"]) != "%PDF-1.7 fake" {
		t.Fatalf("应上传打印结果")
	}
}

func TestExportMissingResume(t *testing.T) {
	f := newFixture(t)
	h := f.handler(Options{Renderer: canvasrenderer.NewRenderer()})

	if err := h.ProcessTask(context.Background(), exportTask(t, "gone")); err != nil {
		t.Fatalf("快照缺失不应重试: %v", err)
	}
	rec, _ := f.store.GetExport(context.Background(), "e1")
	if rec.Status != store.StatusFailed || rec.ErrorCode != errcode.ResourceMissing {
		t.Fatalf("导出记录 = %+v", rec)
	}
	if got := f.pub.last(t); got.msg.ErrorCode != errcode.ResourceMissing {
		t.Fatalf("通知 = %+v", got)
	}
}

func TestExportRenderFailure(t *testing.T) {
	f := newFixture(t)
	h := f.handler(Options{Renderer: failingRenderer{}})

	err := h.ProcessTask(context.Background(), exportTask(t, "r1"))
	if err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Fatalf("期望渲染错误，得到 %v", err)
	}
	rec, _ := f.store.GetExport(context.Background(), "e1")
	if rec.Status != store.StatusFailed || rec.ErrorCode != errcode.SystemError {
		t.Fatalf("最后一次尝试失败后应标记失败: %+v", rec)
	}
	if len(f.objects.uploaded) != 0 {
		t.Fatalf("失败时不应上传")
	}
}

func TestExportBadPayloadSkipsRetry(t *testing.T) {
	f := newFixture(t)
	h := f.handler(Options{Renderer: canvasrenderer.NewRenderer()})
	err := h.ProcessTask(context.Background(), asynq.NewTask(tasks.TypeResumeExport, []byte("not json")))
	if !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("非法负载应跳过重试: %v", err)
	}
}
