// Package scale 计算三类相互独立的缩放：视口适配、内容密度与分区缩放。
// 这里只有纯函数，任何计算都不会回写简历。
package scale

import "math"

// 规范页面尺寸（A4 @ 96dpi），两个渲染目标与溢出预检共用，不随模板变化。
const (
	PageWidthPx  = 794.0
	PageHeightPx = 1123.0

	// OverflowThresholdPx 是导出前预检使用的高度阈值。
	OverflowThresholdPx = 1135.0
)

// 视口适配参数。
const (
	ViewportPadding = 64.0
	MinViewport     = 0.4
	MaxViewport     = 5.0
	DefaultViewport = 0.8
)

// 内容与分区缩放范围。
const (
	MinContent = 0.5
	MaxContent = 1.5
)

// ViewportFit 根据容器宽度计算页面在屏幕上的显示比例。
// 宽度未知（<=0）时返回默认值。
func ViewportFit(containerWidth float64) float64 {
	if containerWidth <= 0 || math.IsNaN(containerWidth) || math.IsInf(containerWidth, 0) {
		return DefaultViewport
	}
	return clamp((containerWidth-ViewportPadding)/PageWidthPx, MinViewport, MaxViewport)
}

// Clamp 将内容或分区缩放限制在 [0.5, 1.5]；非法值视为 1。
func Clamp(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 1
	}
	return clamp(v, MinContent, MaxContent)
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}

// Factors 汇总一次渲染中的缩放因子。Section 按分区 id 查询，缺省为 1。
type Factors struct {
	Viewport float64
	Content  float64
	Section  map[string]float64
}

// NewFactors 以只读方式拷贝内容与分区缩放。
func NewFactors(viewport, content float64, sections map[string]float64) Factors {
	f := Factors{
		Viewport: viewport,
		Content:  Clamp(content),
		Section:  make(map[string]float64, len(sections)),
	}
	if f.Viewport <= 0 {
		f.Viewport = 1
	}
	for id, v := range sections {
		f.Section[id] = Clamp(v)
	}
	return f
}

// SectionOf 返回分区缩放。
func (f Factors) SectionOf(id string) float64 {
	if v, ok := f.Section[id]; ok {
		return v
	}
	return 1
}

// Text 返回分区内文字在页面坐标下的尺寸：base × content × section。
func (f Factors) Text(base float64, sectionID string) float64 {
	return base * f.Content * f.SectionOf(sectionID)
}

// ScreenPx 把页面坐标换算为最终屏幕像素，只用于屏幕目标。
func (f Factors) ScreenPx(pagePx float64) float64 {
	return pagePx * f.Viewport
}

// Overflows 判断测得的内容高度是否超过单页阈值。
func Overflows(contentHeightPx float64) bool {
	return contentHeightPx > OverflowThresholdPx
}
