package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ByLCY/vitae/engine"
	"github.com/ByLCY/vitae/internal/store"
	"github.com/ByLCY/vitae/internal/tasks"
	canvasrenderer "github.com/ByLCY/vitae/renderer/canvas"
)

const sampleJSON = `{
  "id": "r1",
  "personalInfo": {"fullName": "Ada Lovelace", "jobTitle": "Analyst", "email": "ada@example.com", "summary": "Writes **programs**"},
  "experience": [{"id": "x1", "company": "Babbage", "role": "Programmer", "startDate": "1842", "current": true, "description": "First algorithm"}],
  "skills": "React, Node.js",
  "selectedTemplate": "modern"
}`

type fakeQueue struct {
	mu    sync.Mutex
	tasks []*asynq.Task
}

func (q *fakeQueue) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.tasks = append(q.tasks, task)
	return &asynq.TaskInfo{Type: task.Type()}, nil
}

type fakePresigner struct{}

func (fakePresigner) GeneratePresignedURL(_ context.Context, objectKey, filename string, _ time.Duration) (string, error) {
	return "https://example.invalid/" + objectKey + "?name=" + filename, nil
}

type testServer struct {
	router *gin.Engine
	store  *store.Store
	queue  *fakeQueue
	logs   *observer.ObservedLogs
}

func newTestServer(t *testing.T, opts Options) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Discard})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	st := store.New(db)
	if err := st.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	core, logs := observer.New(zapcore.InfoLevel)
	queue := &fakeQueue{}
	router := NewRouter(Deps{
		Engine:   engine.New(engine.Options{}),
		Renderer: canvasrenderer.NewRenderer(),
		Store:    st,
		Queue:    queue,
		Objects:  fakePresigner{},
		Redis:    redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"}),
		Logger:   zap.New(core),
		Options:  opts,
	})
	return &testServer{router: router, store: st, queue: queue, logs: logs}
}

func (s *testServer) do(method, path, body string, header ...string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("解析响应失败: %v (%s)", err, rec.Body.String())
	}
}

func TestHealthAndCorrelationID(t *testing.T) {
	s := newTestServer(t, Options{})

	rec := s.do(http.MethodGet, "/health", "", "X-Correlation-ID", "abc")
	if rec.Code != http.StatusOK || rec.Header().Get("X-Correlation-ID") != "abc" {
		t.Fatalf("status=%d header=%q", rec.Code, rec.Header().Get("X-Correlation-ID"))
	}
	rec = s.do(http.MethodGet, "/health", "")
	if len(rec.Header().Get("X-Correlation-ID")) != 36 {
		t.Fatalf("缺少 Correlation ID 时应生成 uuid")
	}

	entries := s.logs.FilterMessage("request completed").All()
	if len(entries) != 2 || entries[0].ContextMap()["correlation_id"] != "abc" {
		t.Fatalf("访问日志 = %+v", entries)
	}
}

func TestTemplateCatalog(t *testing.T) {
	s := newTestServer(t, Options{EnforceTemplateTier: true})

	var body struct {
		Templates []templateItem `json:"templates"`
	}
	decode(t, s.do(http.MethodGet, "/v1/templates?tier=free", ""), &body)
	if len(body.Templates) != 7 {
		t.Fatalf("模板数 = %d", len(body.Templates))
	}
	blocked := 0
	for _, tpl := range body.Templates {
		if tpl.Name == "" {
			t.Fatalf("%s 缺少名称", tpl.ID)
		}
		if !tpl.Allowed {
			blocked++
			if !tpl.IsPremium {
				t.Fatalf("免费模板 %s 不应被限制", tpl.ID)
			}
		}
	}
	if blocked != 4 {
		t.Fatalf("免费用户应有 4 个付费模板受限，得到 %d", blocked)
	}

	decode(t, s.do(http.MethodGet, "/v1/templates?tier=pro", ""), &body)
	for _, tpl := range body.Templates {
		if !tpl.Allowed {
			t.Fatalf("付费用户 %s 应可用", tpl.ID)
		}
	}
}

func TestFontCatalog(t *testing.T) {
	s := newTestServer(t, Options{})
	var body struct {
		Fonts   []fontItem `json:"fonts"`
		Default string     `json:"default"`
	}
	decode(t, s.do(http.MethodGet, "/v1/fonts?tier=free", ""), &body)
	if body.Default != "inter" {
		t.Fatalf("default = %s", body.Default)
	}
	for _, f := range body.Fonts {
		if f.Premium && f.Effective != "inter" {
			t.Fatalf("免费用户的付费字体 %s 应替换为 inter，得到 %s", f.ID, f.Effective)
		}
		if !f.Premium && f.Effective != f.ID {
			t.Fatalf("免费字体 %s 不应替换", f.ID)
		}
	}
}

func TestRenderScreen(t *testing.T) {
	s := newTestServer(t, Options{CacheTTL: time.Minute})

	rec := s.do(http.MethodPost, "/v1/render/screen?tier=free&viewport=700", sampleJSON)
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	var got screenResponse
	decode(t, rec, &got)
	if got.Template != "modern" || !strings.Contains(got.HTML, `data-template="modern"`) || !strings.Contains(got.HTML, "<strong>programs</strong>") {
		t.Fatalf("预览 = %+v", got)
	}
	if got.ContentHeight <= 0 || got.Overflow || got.ViewportScale <= 0 {
		t.Fatalf("测量结果 = %+v", got)
	}

	again := s.do(http.MethodPost, "/v1/render/screen?tier=free&viewport=700", sampleJSON)
	if again.Body.String() != rec.Body.String() {
		t.Fatalf("缓存结果应一致")
	}

	bad := s.do(http.MethodPost, "/v1/render/screen", `{"skills": 5}`)
	if bad.Code != http.StatusBadRequest {
		t.Fatalf("类型错误应返回 400，得到 %d", bad.Code)
	}
}

func TestRenderDocument(t *testing.T) {
	s := newTestServer(t, Options{})
	rec := s.do(http.MethodPost, "/v1/render/document?tier=pro", sampleJSON)
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("Content-Type") != "application/pdf" || !strings.HasPrefix(rec.Body.String(), "%PDF") {
		t.Fatalf("应返回 PDF: %s", rec.Header().Get("Content-Type"))
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "Ada_Lovelace_Resume.pdf") {
		t.Fatalf("Content-Disposition = %s", cd)
	}
	if rec.Header().Get("X-Content-Overflow") != "false" {
		t.Fatalf("应返回预检结果")
	}
}

func TestSnapshotAndExportFlow(t *testing.T) {
	s := newTestServer(t, Options{ExportRateLimit: 10})

	if rec := s.do(http.MethodPut, "/v1/resumes/r42", sampleJSON); rec.Code != http.StatusOK {
		t.Fatalf("PUT status=%d body=%s", rec.Code, rec.Body.String())
	}
	rec := s.do(http.MethodGet, "/v1/resumes/r42", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"fullName":"Ada Lovelace"`) || !strings.Contains(rec.Body.String(), `"id":"r42"`) {
		t.Fatalf("GET = %d %s", rec.Code, rec.Body.String())
	}
	if rec := s.do(http.MethodGet, "/v1/resumes/nope", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("不存在的快照应返回 404，得到 %d", rec.Code)
	}

	rec = s.do(http.MethodPost, "/v1/resumes/r42/exports?tier=pro", "", "X-Correlation-ID", "corr-1")
	if rec.Code != http.StatusAccepted {
		t.Fatalf("POST exports status=%d body=%s", rec.Code, rec.Body.String())
	}
	var created struct {
		ExportID string `json:"exportId"`
		Status   string `json:"status"`
		Overflow bool   `json:"overflow"`
	}
	decode(t, rec, &created)
	if created.ExportID == "" || created.Status != store.StatusPending {
		t.Fatalf("created = %+v", created)
	}
	if len(s.queue.tasks) != 1 {
		t.Fatalf("应入队 1 个任务，得到 %d", len(s.queue.tasks))
	}
	p, err := tasks.ParseExportPayload(s.queue.tasks[0])
	if err != nil || p.ExportID != created.ExportID || p.ResumeID != "r42" || p.Tier != "pro" || p.CorrelationID != "corr-1" {
		t.Fatalf("payload = %+v (%v)", p, err)
	}

	var status exportStatus
	decode(t, s.do(http.MethodGet, "/v1/exports/"+created.ExportID, ""), &status)
	if status.Status != store.StatusPending || status.URL != "" {
		t.Fatalf("未完成的导出不应有链接: %+v", status)
	}

	if err := s.store.CompleteExport(context.Background(), created.ExportID, "exports/r42/x.pdf", "Ada_Lovelace_Resume.pdf", 900, false); err != nil {
		t.Fatalf("CompleteExport: %v", err)
	}
	decode(t, s.do(http.MethodGet, "/v1/exports/"+created.ExportID, ""), &status)
	if status.Status != store.StatusCompleted || !strings.HasPrefix(status.URL, "https://example.invalid/exports/r42/x.pdf") {
		t.Fatalf("完成后应返回下载链接: %+v", status)
	}

	if rec := s.do(http.MethodPost, "/v1/resumes/nope/exports", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("快照不存在时应返回 404，得到 %d", rec.Code)
	}
	if rec := s.do(http.MethodGet, "/v1/exports/nope", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("导出不存在时应返回 404，得到 %d", rec.Code)
	}
}

func TestExportRateLimit(t *testing.T) {
	s := newTestServer(t, Options{ExportRateLimit: 1})
	if rec := s.do(http.MethodPut, "/v1/resumes/r1", sampleJSON); rec.Code != http.StatusOK {
		t.Fatalf("PUT status=%d", rec.Code)
	}
	if rec := s.do(http.MethodPost, "/v1/resumes/r1/exports", ""); rec.Code != http.StatusAccepted {
		t.Fatalf("首次提交应成功，得到 %d", rec.Code)
	}
	rec := s.do(http.MethodPost, "/v1/resumes/r1/exports", "")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("超出限额应返回 429，得到 %d", rec.Code)
	}
	if len(s.queue.tasks) != 1 {
		t.Fatalf("被限流的请求不应入队")
	}
}

func TestWebSocketReplaysFinishedExport(t *testing.T) {
	s := newTestServer(t, Options{})
	ctx := context.Background()
	if err := s.store.CreateExport(ctx, &store.Export{ID: "e1", ResumeID: "r1", Tier: "pro"}); err != nil {
		t.Fatalf("CreateExport: %v", err)
	}
	if err := s.store.FailExport(ctx, "e1", 5000, "boom"); err != nil {
		t.Fatalf("FailExport: %v", err)
	}

	srv := httptest.NewServer(s.router)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/v1/exports/e1/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var msg struct {
		Status    string `json:"status"`
		ErrorCode int    `json:"error_code"`
	}
	if err := json.Unmarshal(data, &msg); err != nil || msg.Status != store.StatusFailed || msg.ErrorCode != 5000 {
		t.Fatalf("msg = %s (%v)", data, err)
	}
	if _, _, err := conn.ReadMessage(); !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
		t.Fatalf("回放后应正常关闭: %v", err)
	}
}
