package canvasrenderer

import (
	"bytes"
	"fmt"
	"image/color"
	"math"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/ByLCY/vitae/fonts"
	"github.com/ByLCY/vitae/layout"
	"github.com/ByLCY/vitae/renderer"
)

// Renderer draws layout results via github.com/tdewolff/canvas.
type Renderer struct {
	fontMu       sync.Mutex
	fontFamilies map[string]*fontFamilyEntry
	fallback     *fontFamilyEntry
}

var (
	_ renderer.Renderer = (*Renderer)(nil)
	_ layout.Typesetter = (*Renderer)(nil)
)

type fontFamilyEntry struct {
	family *canvas.FontFamily
	style  canvas.FontStyle
}

// NewRenderer creates a renderer backed by the embedded font faces.
func NewRenderer() *Renderer {
	return &Renderer{fontFamilies: map[string]*fontFamilyEntry{}}
}

// Render renders the result into a PDF byte slice.
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	if len(result.Pages) == 0 {
		return nil, fmt.Errorf("缺少可渲染的页面")
	}

	var buf bytes.Buffer
	writer := pdf.New(&buf, result.Pages[0].Width, result.Pages[0].Height, nil)
	writer.SetInfo(result.Meta.Title, result.Meta.Subject, strings.Join(result.Meta.Keywords, ", "), result.Meta.Author, result.Meta.Creator)
	for i, page := range result.Pages {
		if i > 0 {
			writer.NewPage(page.Width, page.Height)
		}
		c := canvas.New(page.Width, page.Height)
		ctx := canvas.NewContext(c)
		ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与布局保持左上角为原点

		if err := r.drawPage(ctx, page, result.Resources); err != nil {
			return nil, err
		}
		c.RenderTo(writer)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

// LayoutLines 实现 layout.Typesetter，折行算法与屏幕目标共用 layout.Wrap，宽度来自真实字形度量。
// 约定：fontSize/lineHeight 入参均为毫米（mm）。字体面使用 pt，在边界做 mm↔pt 换算。
func (r *Renderer) LayoutLines(content string, width float64, font layout.FontResource, fontSize, lineHeight float64, wrap string) ([]layout.TextLine, error) {
	face, err := r.fontFace(font, toPt(fontSize), layout.Color{R: 30, G: 30, B: 30})
	if err != nil {
		return nil, err
	}
	lines := layout.Wrap(content, width, wrap, face.TextWidth)
	textHeight := face.Metrics().LineHeight
	if textHeight <= 0 {
		textHeight = lineHeight
	}
	leading := math.Max(lineHeight-textHeight, 0)
	if len(lines) == 0 {
		lines = []layout.TextLine{{Content: "", Width: 0, Height: textHeight}}
	}
	for i := range lines {
		if lines[i].Height <= 0 {
			lines[i].Height = textHeight
		}
		if i == 0 {
			lines[i].GapBefore = 0
		} else {
			lines[i].GapBefore = leading
		}
	}
	return lines, nil
}

// TextWidth 返回单行文本宽度（mm）。
func (r *Renderer) TextWidth(content string, font layout.FontResource, fontSize float64) (float64, error) {
	face, err := r.fontFace(font, toPt(fontSize), layout.Color{})
	if err != nil {
		return 0, err
	}
	return face.TextWidth(content), nil
}

// drawPage 按 矩形、线、圆、图片、文本 的顺序绘制，后者覆盖前者。
func (r *Renderer) drawPage(ctx *canvas.Context, page layout.Page, resources layout.ResourceSet) error {
	r.drawRects(ctx, page.Rects)
	r.drawLines(ctx, page.Lines)
	r.drawCircles(ctx, page.Circles)
	if err := r.drawImages(ctx, page.Images); err != nil {
		return err
	}
	for _, tb := range page.Texts {
		fontRes := resolveFontResource(tb.Font, resources.Fonts)
		if err := r.drawTextBox(ctx, tb, fontRes); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) drawTextBox(ctx *canvas.Context, tb layout.TextBox, fontRes layout.FontResource) error {
	// TextBox 的坐标/字号/行高均为 mm；创建字体面需要 pt，这里做一次 mm→pt。
	face, err := r.fontFace(fontRes, toPt(tb.FontSize), tb.Color)
	if err != nil {
		return err
	}
	ascent := face.Metrics().Ascent

	lines := tb.Lines
	if len(lines) == 0 {
		lines = []layout.TextLine{{Content: tb.Content, Width: tb.Width, Height: tb.LineHeight}}
	}

	align := strings.ToLower(tb.Align)
	cursorY := tb.Y
	for _, line := range lines {
		cursorY += line.GapBefore
		baseline := cursorY + ascent

		if len(line.Runs) > 0 {
			if err := r.drawRuns(ctx, tb, fontRes, line, align, baseline); err != nil {
				return err
			}
		} else {
			var textAlign canvas.TextAlign
			var anchorX float64
			switch align {
			case "center":
				textAlign, anchorX = canvas.Center, tb.X+tb.Width/2
			case "right", "end":
				textAlign, anchorX = canvas.Right, tb.X+tb.Width
			default:
				textAlign, anchorX = canvas.Left, tb.X
			}
			ctx.DrawText(anchorX, baseline, canvas.NewTextLine(face, line.Content, textAlign))
		}

		lineHeight := line.Height
		if lineHeight <= 0 {
			lineHeight = tb.FontSize
		}
		cursorY += lineHeight
	}
	return nil
}

// drawRuns 逐段绘制粗体/斜体片段，每段按自己的字形取字体面。
func (r *Renderer) drawRuns(ctx *canvas.Context, tb layout.TextBox, base layout.FontResource, line layout.TextLine, align string, baseline float64) error {
	left := tb.X
	switch align {
	case "center":
		left += (tb.Width - line.Width) / 2
	case "right", "end":
		left += tb.Width - line.Width
	}
	baseBold := strings.Contains(base.Style, "bold")
	baseItalic := strings.Contains(base.Style, "italic")
	for _, run := range line.Runs {
		res := variantOf(base, baseBold || run.Bold, baseItalic || run.Italic)
		face, err := r.fontFace(res, toPt(tb.FontSize), tb.Color)
		if err != nil {
			return err
		}
		ctx.DrawText(left+run.X, baseline, canvas.NewTextLine(face, run.Text, canvas.Left))
	}
	return nil
}

// variantOf 返回同一字形族的另一字重。
func variantOf(base layout.FontResource, bold, italic bool) layout.FontResource {
	fam := fonts.ParseFamily(base.Family)
	style := "regular"
	switch {
	case bold && italic:
		style = "bolditalic"
	case bold:
		style = "bold"
	case italic:
		style = "italic"
	}
	return layout.FontResource{
		Name:   string(fam) + "-" + style,
		Src:    fonts.Src(fam, bold, italic),
		Style:  style,
		Family: string(fam),
	}
}

func (r *Renderer) drawImages(ctx *canvas.Context, images []layout.ImageBox) error {
	for _, img := range images {
		if img.Path == "" || img.Width <= 0 || img.Height <= 0 {
			continue
		}
		src, err := decodeDataURI(img.Path)
		if err != nil {
			return err
		}
		processed := preparePhoto(src, img)
		dpmm := float64(processed.Bounds().Dx()) / img.Width
		if dpmm <= 0 {
			dpmm = 1
		}
		ctx.DrawImage(img.X, img.Y, processed, canvas.DPMM(dpmm))

		if img.BorderWidth > 0 {
			// 边框画在图片之上，沿内侧收进半个线宽
			inset := img.BorderWidth / 2
			w, h := img.Width-img.BorderWidth, img.Height-img.BorderWidth
			radius := math.Max(img.Radius-inset, 0)
			ctx.SetFillColor(color.RGBA{})
			ctx.SetStrokeColor(colorFromLayout(img.BorderColor))
			ctx.SetStrokeWidth(img.BorderWidth)
			ctx.DrawPath(img.X+inset, img.Y+inset, shape(w, h, radius))
		}
	}
	return nil
}

// shape 返回矩形路径；半径达到短边一半时退化为圆。
func shape(w, h, radius float64) *canvas.Path {
	if radius <= 0 {
		return canvas.Rectangle(w, h)
	}
	radius = math.Min(radius, math.Min(w, h)/2)
	return canvas.RoundedRectangle(w, h, radius)
}

// drawLines 绘制直线列表（毫米单位）
func (r *Renderer) drawLines(ctx *canvas.Context, lines []layout.Line) {
	for _, ln := range lines {
		if ln.Width <= 0 {
			continue
		}
		ctx.SetStrokeColor(colorFromLayout(ln.Color))
		ctx.SetStrokeWidth(ln.Width)
		p := &canvas.Path{}
		p.MoveTo(0, 0)
		p.LineTo(ln.X2-ln.X1, ln.Y2-ln.Y1)
		ctx.DrawPath(ln.X1, ln.Y1, p)
	}
}

// drawRects 绘制矩形，描边宽度为 0 时不描边。
func (r *Renderer) drawRects(ctx *canvas.Context, rects []layout.Rect) {
	for _, rc := range rects {
		setPaint(ctx, rc.FillColor, rc.StrokeColor, rc.StrokeWidth)
		ctx.DrawPath(rc.X, rc.Y, shape(rc.Width, rc.Height, rc.Radius))
	}
}

// drawCircles 绘制圆形，canvas.Circle 以原点为圆心。
func (r *Renderer) drawCircles(ctx *canvas.Context, circles []layout.Circle) {
	for _, c := range circles {
		setPaint(ctx, c.FillColor, c.StrokeColor, c.StrokeWidth)
		ctx.DrawPath(c.CX, c.CY, canvas.Circle(c.R))
	}
}

func setPaint(ctx *canvas.Context, fill *layout.Color, stroke layout.Color, strokeWidth float64) {
	if fill != nil {
		ctx.SetFillColor(colorFromLayout(*fill))
	} else {
		ctx.SetFillColor(color.RGBA{})
	}
	if strokeWidth > 0 {
		ctx.SetStrokeColor(colorFromLayout(stroke))
		ctx.SetStrokeWidth(strokeWidth)
	} else {
		ctx.SetStrokeColor(color.RGBA{})
		ctx.SetStrokeWidth(0)
	}
}

func (r *Renderer) fontFace(font layout.FontResource, size float64, col layout.Color) (*canvas.FontFace, error) {
	family, style, err := r.ensureFontFamily(font)
	if err != nil {
		return nil, err
	}
	return family.Face(size, colorFromLayout(col), style, canvas.FontNormal), nil
}

func (r *Renderer) ensureFontFamily(font layout.FontResource) (*canvas.FontFamily, canvas.FontStyle, error) {
	key := font.Src + "|" + font.Style
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if entry, ok := r.fontFamilies[key]; ok {
		return entry.family, entry.style, nil
	}

	style := parseFontStyle(font.Style)
	family := canvas.NewFontFamily(font.Name)
	data, err := fonts.Load(font.Src)
	if err == nil {
		err = family.LoadFont(data, 0, style)
	}
	if err != nil {
		fb, fbErr := r.fallbackLocked()
		if fbErr != nil {
			return nil, canvas.FontRegular, err
		}
		r.fontFamilies[key] = fb
		return fb.family, fb.style, nil
	}

	entry := &fontFamilyEntry{family: family, style: style}
	r.fontFamilies[key] = entry
	return family, style, nil
}

// fallbackLocked 返回系统字体，调用方需持有 fontMu。
func (r *Renderer) fallbackLocked() (*fontFamilyEntry, error) {
	if r.fallback != nil {
		return r.fallback, nil
	}
	src := fonts.Src(fonts.System.Family, false, false)
	data, err := fonts.Load(src)
	if err != nil {
		return nil, err
	}
	family := canvas.NewFontFamily("vitae-fallback")
	if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
		return nil, err
	}
	r.fallback = &fontFamilyEntry{family: family, style: canvas.FontRegular}
	return r.fallback, nil
}

func resolveFontResource(name string, fonts map[string]layout.FontResource) layout.FontResource {
	if font, ok := fonts[name]; ok {
		return font
	}
	// 名称形如 sans-bold，资源缺失时按名称推导
	fam, style, _ := strings.Cut(name, "-")
	return variantOf(layout.FontResource{Family: fam}, strings.Contains(style, "bold"), strings.Contains(style, "italic"))
}

func parseFontStyle(style string) canvas.FontStyle {
	s := strings.ToLower(style)
	result := canvas.FontRegular
	if strings.Contains(s, "bold") {
		result = canvas.FontBold
	}
	if strings.Contains(s, "italic") {
		result |= canvas.FontItalic
	}
	return result
}

func colorFromLayout(c layout.Color) color.Color {
	a := c.A
	if a <= 0 || a > 1 {
		a = 1
	}
	return canvas.RGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, a)
}

// toPt 将毫米(mm)转换为点(pt)。
func toPt(mm float64) float64 { return mm * layout.MmToPt }
