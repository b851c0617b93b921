package layout

import "github.com/ByLCY/vitae/compose"

// 该文件定义文档目标的布局结果，供渲染器与调试 JSON 共用。所有坐标单位均为 mm。

// Result 保存布局后的页面与资源信息。简历永远只有一页。
type Result struct {
	Pages     []Page            `json:"pages"`
	Resources ResourceSet       `json:"resources"`
	Meta      DocumentMeta      `json:"meta"`
	Template  string            `json:"template"`
	Partition compose.Partition `json:"partition"`
	// ContentHeight 是内容实际占用的高度（页面坐标，已乘内容缩放）。
	ContentHeight float64 `json:"contentHeight"`
}

// ContentHeightPx 把内容高度换算为规范页面像素，供溢出预检使用。
func (r *Result) ContentHeightPx() float64 {
	return r.ContentHeight * MmToPx
}

// Page 返回唯一的页面。
func (r *Result) Page() *Page {
	if r == nil || len(r.Pages) == 0 {
		return nil
	}
	return &r.Pages[0]
}

// ResourceSet 记录用到的字体。
type ResourceSet struct {
	Fonts map[string]FontResource `json:"fonts"`
}

// FontResource 描述字体资源，src 为 fonts 包可识别的 embed: 路径。
type FontResource struct {
	Name   string `json:"name"`
	Src    string `json:"src"`
	Style  string `json:"style"`  // regular/bold/italic/bolditalic
	Family string `json:"family"` // sans/serif/mono
}

// Color 采用 0-255 的 RGB 数值，A 为 0-1 的不透明度（0 视为不透明）。
type Color struct {
	R int     `json:"r"`
	G int     `json:"g"`
	B int     `json:"b"`
	A float64 `json:"a,omitempty"`
}

// Page 记录页面尺寸与最终可以直接渲染的元素。
// 绘制顺序：矩形、线、圆、图片、文本；同类元素按切片顺序。
type Page struct {
	Width   float64    `json:"width"`
	Height  float64    `json:"height"`
	Rects   []Rect     `json:"rects,omitempty"`
	Lines   []Line     `json:"lines,omitempty"`
	Circles []Circle   `json:"circles,omitempty"`
	Images  []ImageBox `json:"images,omitempty"`
	Texts   []TextBox  `json:"texts"`
	Blocks  []BlockBox `json:"blocks"`
}

// BlockBox 记录一个分区占用的区域，便于调试与一致性校验。
type BlockBox struct {
	ID     string  `json:"id"`
	Column string  `json:"column"` // sidebar/main/linear
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// TextBox 表示一个已经排好坐标的文本块。
type TextBox struct {
	Content    string        `json:"content"`
	X          float64       `json:"x"`
	Y          float64       `json:"y"`
	Width      float64       `json:"width"`
	LineHeight float64       `json:"lineHeight"`
	Font       string        `json:"font"`
	FontSize   float64       `json:"fontSize"`
	Color      Color         `json:"color"`
	Lines      []TextLine    `json:"lines"`
	Height     float64       `json:"height"`
	Align      string        `json:"align,omitempty"` // left/center/right（默认 left）
	Wrap       string        `json:"wrap,omitempty"`  // anywhere(默认)/break-word/nowrap
	Section    string        `json:"section,omitempty"`
	Debug      *TextBoxDebug `json:"debug,omitempty"`
}

// TextLine 表示排版后的一行文本内容及其宽高。Runs 非空时按片段绘制。
type TextLine struct {
	Content   string  `json:"content"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	GapBefore float64 `json:"gapBefore,omitempty"`
	Runs      []Run   `json:"runs,omitempty"`
}

// Run 是行内一段同样式文本，X 为相对行首的偏移。
type Run struct {
	Text   string  `json:"text"`
	Bold   bool    `json:"bold,omitempty"`
	Italic bool    `json:"italic,omitempty"`
	X      float64 `json:"x"`
	Width  float64 `json:"width"`
}

// TextBoxDebug holds optional debug info displayed only when enabled by BuildOptions.
type TextBoxDebug struct {
	Style  string  `json:"style"`
	SizePt float64 `json:"sizePt"`
	Scale  float64 `json:"scale"`
}

// ImageBox 描述头像位置与尺寸。Path 为 data URI。
type ImageBox struct {
	Path        string       `json:"path"`
	X           float64      `json:"x"`
	Y           float64      `json:"y"`
	Width       float64      `json:"width"`
	Height      float64      `json:"height"`
	Radius      float64      `json:"radius"` // 圆角半径，>= 宽度一半时为圆形
	Filter      *ImageFilter `json:"filter,omitempty"`
	BorderWidth float64      `json:"borderWidth,omitempty"`
	BorderColor Color        `json:"borderColor"`
}

// ImageFilter 对应头像滤镜。
type ImageFilter struct {
	Zoom       float64 `json:"zoom"`
	Brightness float64 `json:"brightness"`
	Contrast   float64 `json:"contrast"`
	Grayscale  float64 `json:"grayscale"`
}

// Line 表示一条线段。
type Line struct {
	X1    float64 `json:"x1"`
	Y1    float64 `json:"y1"`
	X2    float64 `json:"x2"`
	Y2    float64 `json:"y2"`
	Color Color   `json:"color"`
	Width float64 `json:"width"` // 线宽（mm），<=0 时由渲染器给默认值
}

// Rect 表示一个矩形，Radius > 0 时为圆角矩形。
type Rect struct {
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	Radius      float64 `json:"radius,omitempty"`
	StrokeColor Color   `json:"strokeColor"`
	StrokeWidth float64 `json:"strokeWidth"`         // mm，0 表示不描边
	FillColor   *Color  `json:"fillColor,omitempty"` // 为空表示不填充
}

// Circle 表示一个圆。
type Circle struct {
	CX          float64 `json:"cx"`
	CY          float64 `json:"cy"`
	R           float64 `json:"r"`
	StrokeColor Color   `json:"strokeColor"`
	StrokeWidth float64 `json:"strokeWidth"` // mm
	FillColor   *Color  `json:"fillColor,omitempty"`
}

// DocumentMeta 保存 PDF 元信息。
type DocumentMeta struct {
	Title    string   `json:"title"`
	Author   string   `json:"author"`
	Subject  string   `json:"subject"`
	Creator  string   `json:"creator"`
	Keywords []string `json:"keywords"`
}
