package api

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/ByLCY/vitae/compose"
	"github.com/ByLCY/vitae/engine"
	"github.com/ByLCY/vitae/internal/api/middleware"
	"github.com/ByLCY/vitae/internal/metrics"
	"github.com/ByLCY/vitae/internal/storage"
	"github.com/ByLCY/vitae/renderer"
	"github.com/ByLCY/vitae/resume"
	"github.com/ByLCY/vitae/screen"
	"github.com/ByLCY/vitae/template"
	"github.com/ByLCY/vitae/tier"
)

// maxResumeBytes 限制请求体大小，头像以 data URI 内联。
const maxResumeBytes = 8 << 20

var errBodyTooLarge = errors.New("request body too large")

// RenderHandler 提供同步的屏幕预览与 PDF 渲染。
type RenderHandler struct {
	engine   *engine.Engine
	renderer renderer.Renderer
	cache    *cache.Cache // nil 表示不缓存
	timeout  time.Duration
}

func NewRenderHandler(eng *engine.Engine, r renderer.Renderer, cacheTTL, timeout time.Duration) *RenderHandler {
	h := &RenderHandler{engine: eng, renderer: r, timeout: timeout}
	if cacheTTL > 0 {
		h.cache = cache.New(cacheTTL, 2*cacheTTL)
	}
	if h.timeout <= 0 {
		h.timeout = 30 * time.Second
	}
	return h
}

type screenResponse struct {
	HTML          string            `json:"html"`
	Template      string            `json:"template"`
	ContentHeight float64           `json:"contentHeight"`
	Overflow      bool              `json:"overflow"`
	ViewportScale float64           `json:"viewportScale"`
	Partition     compose.Partition `json:"partition"`
}

// Screen 渲染预览 HTML。相同内容、等级与视口的结果会被缓存。
func (h *RenderHandler) Screen(c *gin.Context) {
	body, err := readBody(c)
	if err != nil {
		bodyError(c, err)
		return
	}
	tr := tier.Parse(c.Query("tier"))
	viewport, _ := strconv.ParseFloat(c.Query("viewport"), 64)

	key := cacheKey(body, tr, viewport)
	if h.cache != nil {
		if v, ok := h.cache.Get(key); ok {
			metrics.CacheLookup(true)
			if resp, ok := v.(screenResponse); ok {
				metrics.SetTemplate(c, resp.Template)
			}
			c.JSON(http.StatusOK, v)
			return
		}
		metrics.CacheLookup(false)
	}

	r, err := resume.Parse(body)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}

	start := time.Now()
	view, err := h.engine.RenderForScreen(r, tr, viewport)
	if err != nil {
		middleware.LoggerFromContext(c).Error("屏幕渲染失败", zap.Error(err))
		Internal(c, "render failed")
		return
	}
	html, err := screen.HTML(view)
	if err != nil {
		middleware.LoggerFromContext(c).Error("序列化预览失败", zap.Error(err))
		Internal(c, "render failed")
		return
	}
	metrics.ObserveRender(metrics.TargetScreen, view.Template, time.Since(start), view.Overflow)
	metrics.SetTemplate(c, view.Template)

	resp := screenResponse{
		HTML:          html,
		Template:      view.Template,
		ContentHeight: view.ContentHeight,
		Overflow:      view.Overflow,
		ViewportScale: view.ViewportScale,
		Partition:     view.Partition,
	}
	if h.cache != nil {
		h.cache.SetDefault(key, resp)
	}
	c.JSON(http.StatusOK, resp)
}

// Document 同步渲染 PDF。超时或客户端断开时放弃本次序列化。
func (h *RenderHandler) Document(c *gin.Context) {
	body, err := readBody(c)
	if err != nil {
		bodyError(c, err)
		return
	}
	r, err := resume.Parse(body)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	tr := tier.Parse(c.Query("tier"))

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	start := time.Now()
	data, err := h.engine.Export(ctx, r, tr, h.renderer)
	if err != nil {
		log := middleware.LoggerFromContext(c)
		if errors.Is(err, engine.ErrExportCanceled) {
			log.Warn("文档渲染被取消", zap.Error(err))
			Unavailable(c, "render timed out")
			return
		}
		log.Error("文档渲染失败", zap.Error(err))
		Internal(c, "render failed")
		return
	}
	height, overflow, err := h.engine.Preflight(r, tr)
	if err == nil {
		c.Header("X-Content-Height", strconv.FormatFloat(height, 'f', 1, 64))
		c.Header("X-Content-Overflow", strconv.FormatBool(overflow))
	}
	tpl := string(template.Lookup(r.SelectedTemplate).ID)
	metrics.ObserveRender(metrics.TargetDocument, tpl, time.Since(start), overflow)
	metrics.SetTemplate(c, tpl)

	c.Header("Content-Disposition", storage.ContentDisposition(h.engine.Filename(r)))
	c.Data(http.StatusOK, renderer.ContentType(h.renderer), data)
}

func readBody(c *gin.Context) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxResumeBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if len(body) > maxResumeBytes {
		return nil, errBodyTooLarge
	}
	return body, nil
}

func bodyError(c *gin.Context, err error) {
	if errors.Is(err, errBodyTooLarge) {
		TooLarge(c, err.Error())
		return
	}
	BadRequest(c, err.Error())
}

func cacheKey(body []byte, tr tier.Tier, viewport float64) string {
	sum := sha256.Sum256(body)
	return fmt.Sprintf("%s|%s|%g", hex.EncodeToString(sum[:]), tr, viewport)
}
