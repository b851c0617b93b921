// Package engine 是渲染核心的门面：屏幕预览、文档布局、异步导出与溢出预检。
package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/ByLCY/vitae/binding"
	"github.com/ByLCY/vitae/layout"
	"github.com/ByLCY/vitae/renderer"
	"github.com/ByLCY/vitae/resume"
	"github.com/ByLCY/vitae/scale"
	"github.com/ByLCY/vitae/screen"
	"github.com/ByLCY/vitae/tier"
)

// ErrExportCanceled 表示导出在序列化完成前被取消，产物已丢弃。
var ErrExportCanceled = errors.New("导出已取消")

// Options 是渲染策略配置，通常来自 render 配置段。
type Options struct {
	BrandingText        string
	EnforceTemplateTier bool
	FilenamePattern     string
}

// Engine 持有渲染策略，本身无状态，可并发使用。
type Engine struct {
	opts Options
}

// New 创建引擎。
func New(opts Options) *Engine {
	return &Engine{opts: opts}
}

var defaultEngine = New(Options{})

// RenderForScreen 使用默认策略渲染屏幕预览。
func RenderForScreen(r *resume.Resume, t tier.Tier, viewportWidth float64) (*screen.View, error) {
	return defaultEngine.RenderForScreen(r, t, viewportWidth)
}

// RenderForDocument 使用默认策略计算文档布局。
func RenderForDocument(r *resume.Resume, t tier.Tier, ts layout.Typesetter) (*layout.Result, error) {
	return defaultEngine.RenderForDocument(r, t, ts)
}

// Export 使用默认策略导出。
func Export(ctx context.Context, r *resume.Resume, t tier.Tier, rr renderer.Renderer) ([]byte, error) {
	return defaultEngine.Export(ctx, r, t, rr)
}

// Preflight 使用默认策略做溢出预检。
func Preflight(r *resume.Resume, t tier.Tier) (float64, bool, error) {
	return defaultEngine.Preflight(r, t)
}

// RenderForScreen 按容器宽度渲染预览。
func (e *Engine) RenderForScreen(r *resume.Resume, t tier.Tier, viewportWidth float64) (*screen.View, error) {
	return screen.Render(r, t, viewportWidth, screen.Options{
		BrandingText:        e.opts.BrandingText,
		EnforceTemplateTier: e.opts.EnforceTemplateTier,
	})
}

// RenderForDocument 计算 A4 文档布局。ts 为空时使用估算排版。
func (e *Engine) RenderForDocument(r *resume.Resume, t tier.Tier, ts layout.Typesetter) (*layout.Result, error) {
	return layout.Build(r, t, e.buildOptions(ts))
}

func (e *Engine) buildOptions(ts layout.Typesetter) layout.BuildOptions {
	return layout.BuildOptions{
		Typesetter:          ts,
		BrandingText:        e.opts.BrandingText,
		EnforceTemplateTier: e.opts.EnforceTemplateTier,
	}
}

type outcome struct {
	data []byte
	err  error
}

// Export 对简历快照同步排版，再在独立 goroutine 中序列化。
// ctx 先于序列化结束时立即返回 ErrExportCanceled，迟到的产物被丢弃。
// 调用方的简历不会被读取到快照之外，也不会被修改。
func (e *Engine) Export(ctx context.Context, r *resume.Resume, t tier.Tier, rr renderer.Renderer) ([]byte, error) {
	if rr == nil {
		return nil, fmt.Errorf("renderer 不能为空")
	}
	if r == nil {
		return nil, fmt.Errorf("简历为空")
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExportCanceled, err)
	}
	snapshot := r.Clone()

	ts, _ := rr.(layout.Typesetter)
	result, err := layout.Build(snapshot, t, e.buildOptions(ts))
	if err != nil {
		return nil, fmt.Errorf("布局计算失败: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExportCanceled, err)
	}

	done := make(chan outcome, 1)
	go func() {
		data, err := rr.Render(result)
		done <- outcome{data: data, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", ErrExportCanceled, ctx.Err())
	case out := <-done:
		if out.err != nil {
			return nil, fmt.Errorf("序列化失败: %w", out.err)
		}
		return out.data, nil
	}
}

// Preflight 返回内容高度（规范页面 px）以及是否超出单页阈值。
func (e *Engine) Preflight(r *resume.Resume, t tier.Tier) (float64, bool, error) {
	res, err := layout.Build(r, t, e.buildOptions(nil))
	if err != nil {
		return 0, false, err
	}
	h := res.ContentHeightPx()
	return h, scale.Overflows(h), nil
}

// Filename 返回导出文件名。
func (e *Engine) Filename(r *resume.Resume) string {
	return binding.Filename(e.opts.FilenamePattern, r)
}
