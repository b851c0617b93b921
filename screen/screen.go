// Package screen 把简历渲染为可在编辑器中实时预览的 DOM 近似树。
//
// 页面框架固定为 794×1123px 并整体按视口缩放；内容层再按 contentScale 缩放，
// 宽度取 100/contentScale% 以保证缩放后仍铺满页宽；每个分区包装层以 zoom
// 应用分区缩放。模板、分栏与降级决策来自 compose.Plan，与文档目标一致。
package screen

import (
	"fmt"
	"strconv"

	"github.com/ByLCY/vitae/compose"
	"github.com/ByLCY/vitae/fonts"
	"github.com/ByLCY/vitae/layout"
	"github.com/ByLCY/vitae/resume"
	"github.com/ByLCY/vitae/scale"
	"github.com/ByLCY/vitae/template"
	"github.com/ByLCY/vitae/tier"
)

// Options 配置屏幕渲染。
type Options struct {
	BrandingText        string
	EnforceTemplateTier bool
	// Measurer 用于测量内容高度，为空时按平均字宽估算，结果确定。
	Measurer layout.Typesetter
}

// View 是一次屏幕渲染的结果。
type View struct {
	Root          *Node             `json:"root"`
	Template      string            `json:"template"`
	ViewportScale float64           `json:"viewportScale"`
	ContentHeight float64           `json:"contentHeight"` // px，已含内容缩放
	Overflow      bool              `json:"overflow"`
	Partition     compose.Partition `json:"partition"`
}

// Render 按容器宽度渲染简历。简历只被读取，数据缺口按空串处理。
func Render(r *resume.Resume, t tier.Tier, viewportWidth float64, opts Options) (*View, error) {
	if r == nil {
		return nil, fmt.Errorf("简历为空")
	}
	plan := compose.Resolve(r, t, compose.Options{
		EnforceTemplateTier: opts.EnforceTemplateTier,
		BrandingText:        opts.BrandingText,
	})
	plan.Scales.Viewport = scale.ViewportFit(viewportWidth)
	return RenderPlan(plan, opts)
}

// RenderPlan 按已解析的 Plan 构建节点树并测量内容高度。
func RenderPlan(plan compose.Plan, opts Options) (*View, error) {
	measured, err := layout.BuildPlan(plan, layout.BuildOptions{Typesetter: opts.Measurer})
	if err != nil {
		return nil, fmt.Errorf("测量内容高度失败: %w", err)
	}
	height := measured.ContentHeightPx()

	b := &builder{plan: plan, spec: plan.Template}
	draw, ok := pageBuilders[plan.Template.Header]
	if !ok {
		draw = (*builder).classic
	}
	return &View{
		Root:          b.frame(draw(b)),
		Template:      string(plan.Template.ID),
		ViewportScale: plan.Scales.Viewport,
		ContentHeight: height,
		Overflow:      scale.Overflows(height),
		Partition:     plan.Partition,
	}, nil
}

type builder struct {
	plan compose.Plan
	spec template.Spec
}

// frame 组装外层页面框架、内容缩放层与品牌页脚。
func (b *builder) frame(body *Node) *Node {
	cs := b.plan.Scales.Content
	if cs <= 0 {
		cs = 1
	}
	page := b.spec.Palette.Page
	if page == "" {
		page = "#ffffff"
	}
	inner := El("div", map[string]string{
		"width":            pct(100 / cs),
		"min-height":       pct(100 / cs),
		"transform":        "scale(" + num(cs) + ")",
		"transform-origin": "top left",
		"display":          "flex",
		"flex-direction":   "column",
	}, body).Attr("class", "resume-body")

	root := El("div", map[string]string{
		"width":            px(scale.PageWidthPx),
		"height":           px(scale.PageHeightPx),
		"transform":        "scale(" + num(b.plan.Scales.Viewport) + ")",
		"transform-origin": "top left",
		"position":         "relative",
		"overflow":         "hidden",
		"background":       b.color(page),
		"font-family":      b.plan.Font.CSS,
		"box-sizing":       "border-box",
	}, inner).Attr("class", "resume-page").Attr("data-template", string(b.spec.ID))

	if b.plan.Branding {
		root.Append(El("div", map[string]string{
			"position":    "absolute",
			"left":        "0",
			"right":       "0",
			"bottom":      px(ptToPx(20)),
			"text-align":  "center",
			"font-size":   px(ptToPx(8)),
			"color":       "#9ca3af",
			"font-family": fonts.System.CSS,
		}, Text(b.plan.BrandingText)).Attr("class", "resume-branding"))
	}
	return root
}

func (b *builder) color(v string) string {
	return b.spec.Color(v, b.plan.Theme)
}

// fontCSS 把样式表中的 body/serif/mono 映射为 CSS 字体声明。
func (b *builder) fontCSS(name string) string {
	switch name {
	case "serif":
		return "Georgia, 'Times New Roman', serif"
	case "mono":
		return "'JetBrains Mono', ui-monospace, Menlo, monospace"
	default:
		return b.plan.Font.CSS
	}
}

// tokenCSS 把样式表 token 换算为 CSS（pt → px）。
func (b *builder) tokenCSS(style string) map[string]string {
	tok := b.spec.Styles.Token(style)
	out := map[string]string{
		"font-size":   px(ptToPx(tok.Size)),
		"line-height": num(tok.LineHeight),
		"color":       b.color(tok.Color),
		"margin":      "0",
	}
	if tok.Bold {
		out["font-weight"] = "700"
	}
	if tok.Italic {
		out["font-style"] = "italic"
	}
	if tok.Uppercase {
		out["text-transform"] = "uppercase"
	}
	if tok.Tracking != 0 {
		out["letter-spacing"] = px(ptToPx(tok.Tracking))
	}
	if tok.Font != "body" {
		out["font-family"] = b.fontCSS(tok.Font)
	}
	return out
}

func ptToPx(pt float64) float64 { return pt * 96 / 72 }

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func px(v float64) string {
	return strconv.FormatFloat(roundTo(v, 2), 'f', -1, 64) + "px"
}

func pct(v float64) string {
	return strconv.FormatFloat(roundTo(v, 4), 'f', -1, 64) + "%"
}

func roundTo(v float64, places int) float64 {
	s := strconv.FormatFloat(v, 'f', places, 64)
	out, _ := strconv.ParseFloat(s, 64)
	return out
}
