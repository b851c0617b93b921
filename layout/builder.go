package layout

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ByLCY/vitae/compose"
	"github.com/ByLCY/vitae/fonts"
	"github.com/ByLCY/vitae/resume"
	"github.com/ByLCY/vitae/template"
	"github.com/ByLCY/vitae/textfmt"
	"github.com/ByLCY/vitae/tier"
)

// 品牌页脚：固定在页面框架上，不受内容缩放影响。
const (
	brandingOffsetPt = 20.0
	brandingSizePt   = 8.0
	brandingColor    = "#9ca3af"
)

// Build 把简历排成一页 A4 文档布局。它只读取简历，数据缺口一律按空串处理。
func Build(r *resume.Resume, t tier.Tier, opts BuildOptions) (*Result, error) {
	if r == nil {
		return nil, fmt.Errorf("简历为空")
	}
	plan := compose.Resolve(r, t, compose.Options{
		EnforceTemplateTier: opts.EnforceTemplateTier,
		BrandingText:        opts.BrandingText,
	})
	res, err := BuildPlan(plan, opts)
	if err != nil {
		return nil, err
	}
	res.Meta = DocumentMeta{
		Title:    documentTitle(r),
		Author:   r.PersonalInfo.FullName,
		Subject:  r.PersonalInfo.JobTitle,
		Creator:  "vitae",
		Keywords: resume.Skills(r.Skills),
	}
	return res, nil
}

func documentTitle(r *resume.Resume) string {
	if r.PersonalInfo.FullName != "" {
		return r.PersonalInfo.FullName + " - Resume"
	}
	return r.Name
}

// BuildPlan 按已解析的 Plan 排版。内容在 页宽/contentScale 的未缩放坐标系中流式排布，
// 最后整体乘以 contentScale；页面框架与品牌页脚保持原尺寸。
func BuildPlan(plan compose.Plan, opts BuildOptions) (*Result, error) {
	ts := opts.Typesetter
	if ts == nil {
		ts = estimator{}
	}
	cs := plan.Scales.Content
	if cs <= 0 {
		cs = 1
	}
	b := &builder{
		plan:   plan,
		spec:   plan.Template,
		ts:     ts,
		debug:  opts.Debug,
		fonts:  map[string]FontResource{},
		width:  PageWidthMM / cs,
		height: PageHeightMM / cs,
	}

	if page := plan.Template.Palette.Page; page != "" && !strings.EqualFold(page, "#ffffff") {
		b.rect(0, 0, b.width, b.height, page, "", 0, 0)
	}
	draw, ok := pageBuilders[plan.Template.Header]
	if !ok {
		draw = (*builder).classic
	}
	if err := draw(b); err != nil {
		return nil, err
	}

	b.page.Width, b.page.Height = b.width, b.height
	scalePage(&b.page, cs)
	if plan.Branding {
		if err := b.branding(); err != nil {
			return nil, err
		}
	}
	if b.page.Texts == nil {
		b.page.Texts = []TextBox{}
	}
	if b.page.Blocks == nil {
		b.page.Blocks = []BlockBox{}
	}

	return &Result{
		Pages:         []Page{b.page},
		Resources:     ResourceSet{Fonts: b.fonts},
		Meta:          DocumentMeta{Creator: "vitae"},
		Template:      string(plan.Template.ID),
		Partition:     plan.Partition,
		ContentHeight: b.bottom * cs,
	}, nil
}

type builder struct {
	plan   compose.Plan
	spec   template.Spec
	ts     Typesetter
	debug  DebugOptions
	page   Page
	fonts  map[string]FontResource
	width  float64 // 未缩放坐标系下的页宽
	height float64
	bottom float64 // 内容最低点
}

func (b *builder) track(y float64) {
	if y > b.bottom {
		b.bottom = y
	}
}

func (b *builder) family(name string) fonts.Family {
	switch name {
	case "serif":
		return fonts.Serif
	case "mono":
		return fonts.Mono
	default:
		return b.plan.Font.Family
	}
}

func variantName(bold, italic bool) string {
	switch {
	case bold && italic:
		return "bolditalic"
	case bold:
		return "bold"
	case italic:
		return "italic"
	default:
		return "regular"
	}
}

// font 登记并返回字体资源，结果中只包含实际用到的字形。
func (b *builder) font(tok template.Token, bold, italic bool) FontResource {
	fam := b.family(tok.Font)
	style := variantName(bold, italic)
	name := string(fam) + "-" + style
	if fr, ok := b.fonts[name]; ok {
		return fr
	}
	fr := FontResource{Name: name, Src: fonts.Src(fam, bold, italic), Style: style, Family: string(fam)}
	b.fonts[name] = fr
	return fr
}

func (b *builder) color(v string) Color {
	c, err := parseColor(b.spec.Color(v, b.plan.Theme))
	if err != nil {
		return Color{R: 31, G: 41, B: 55}
	}
	return c
}

func (b *builder) rect(x, y, w, h float64, fill, stroke string, strokeW, radius float64) {
	rc := Rect{X: x, Y: y, Width: w, Height: h, Radius: radius, StrokeWidth: strokeW}
	if fill != "" {
		c := b.color(fill)
		rc.FillColor = &c
	}
	if stroke != "" {
		rc.StrokeColor = b.color(stroke)
	}
	b.page.Rects = append(b.page.Rects, rc)
}

func (b *builder) rectColor(x, y, w, h float64, fill Color, radius float64) {
	b.page.Rects = append(b.page.Rects, Rect{X: x, Y: y, Width: w, Height: h, Radius: radius, FillColor: &fill})
}

func (b *builder) line(x1, y1, x2, y2 float64, color string, widthPt float64) {
	b.page.Lines = append(b.page.Lines, Line{X1: x1, Y1: y1, X2: x2, Y2: y2, Color: b.color(color), Width: widthPt * PtToMm})
}

func (b *builder) circle(cx, cy, r float64, fill Color) {
	b.page.Circles = append(b.page.Circles, Circle{CX: cx, CY: cy, R: r, FillColor: &fill})
}

// branding 在最终页面坐标中绘制页脚，位于全部内容之上。
func (b *builder) branding() error {
	tok := template.Token{Size: brandingSizePt, LineHeight: 1.2, Font: "body"}
	font := b.font(tok, false, false)
	size := brandingSizePt * PtToMm
	lines, err := b.layoutLines(b.plan.BrandingText, PageWidthMM, font, size, size*1.2, "nowrap")
	if err != nil {
		return err
	}
	height := normalizeLines(lines, size, size*1.2)
	c, _ := parseColor(brandingColor)
	b.page.Texts = append(b.page.Texts, TextBox{
		Content:    b.plan.BrandingText,
		X:          0,
		Y:          PageHeightMM - brandingOffsetPt*PtToMm - height,
		Width:      PageWidthMM,
		LineHeight: size * 1.2,
		Font:       font.Name,
		FontSize:   size,
		Color:      c,
		Lines:      lines,
		Height:     height,
		Align:      "center",
		Wrap:       "nowrap",
		Section:    "branding",
	})
	return nil
}

func (b *builder) layoutLines(content string, width float64, font FontResource, fontSize, lineHeight float64, wrap string) ([]TextLine, error) {
	lines, err := b.ts.LayoutLines(content, width, font, fontSize, lineHeight, wrap)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		lines = []TextLine{{Content: "", Width: 0, Height: fontSize}}
	}
	lines[0].GapBefore = 0
	return lines, nil
}

// normalizeLines 回填行高与行距，返回 Σ(GapBefore+Height)。
func normalizeLines(lines []TextLine, fontSize, lineHeight float64) float64 {
	total := 0.0
	leading := math.Max(lineHeight-fontSize, 0)
	for i := range lines {
		if lines[i].Height <= 0 {
			lines[i].Height = fontSize
		}
		if i == 0 {
			lines[i].GapBefore = 0
		} else if lines[i].GapBefore <= 0 {
			lines[i].GapBefore = leading
		}
		total += lines[i].GapBefore + lines[i].Height
	}
	return total
}

// column 是一个纵向排版游标。scale 为当前分区缩放，只作用于字号与分区内间距。
type column struct {
	b       *builder
	x, y, w float64
	scale   float64
	section string
}

func (b *builder) column(x, y, w float64) *column {
	return &column{b: b, x: x, y: y, w: w, scale: 1}
}

type textOpts struct {
	align     string
	color     string // 覆盖样式颜色
	wrap      string
	indent    float64
	width     float64 // 0 表示列宽减缩进
	noAdvance bool
}

func (c *column) size(tok template.Token) float64 {
	return tok.Size * PtToMm * c.scale
}

// gap 推进分区内间距（pt），随分区缩放。
func (c *column) gap(pt float64) {
	c.y += pt * PtToMm * c.scale
}

// text 绘制单一样式文本并推进游标；空串不产生任何元素。
func (c *column) text(style, content string, o textOpts) (float64, error) {
	if strings.TrimSpace(content) == "" {
		return 0, nil
	}
	tok := c.b.spec.Styles.Token(style)
	if tok.Uppercase {
		content = strings.ToUpper(content)
	}
	size := c.size(tok)
	lh := size * tok.LineHeight
	font := c.b.font(tok, tok.Bold, tok.Italic)
	width := o.width
	if width <= 0 {
		width = c.w - o.indent
	}
	lines, err := c.b.layoutLines(content, width, font, size, lh, o.wrap)
	if err != nil {
		return 0, err
	}
	height := normalizeLines(lines, size, lh)
	color := tok.Color
	if o.color != "" {
		color = o.color
	}
	tb := TextBox{
		Content:    content,
		X:          c.x + o.indent,
		Y:          c.y,
		Width:      width,
		LineHeight: lh,
		Font:       font.Name,
		FontSize:   size,
		Color:      c.b.color(color),
		Lines:      lines,
		Height:     height,
		Align:      o.align,
		Wrap:       o.wrap,
		Section:    c.section,
	}
	c.debugStyle(&tb, style, tok)
	c.b.page.Texts = append(c.b.page.Texts, tb)
	c.b.track(c.y + height)
	if !o.noAdvance {
		c.y += height
	}
	return height, nil
}

// rich 绘制带粗体/斜体片段的文本。
func (c *column) rich(style string, spans []textfmt.Span, o textOpts) (float64, error) {
	if len(spans) == 0 || strings.TrimSpace(textfmt.Join(spans)) == "" {
		return 0, nil
	}
	tok := c.b.spec.Styles.Token(style)
	size := c.size(tok)
	lh := size * tok.LineHeight
	width := o.width
	if width <= 0 {
		width = c.w - o.indent
	}
	var measureErr error
	lines := WrapRuns(spans, width, func(s string, kind textfmt.Kind) float64 {
		font := c.b.font(tok, tok.Bold || kind == textfmt.Bold, tok.Italic || kind == textfmt.Italic)
		w, err := c.b.ts.TextWidth(s, font, size)
		if err != nil && measureErr == nil {
			measureErr = err
		}
		return w
	})
	if measureErr != nil {
		return 0, measureErr
	}
	height := normalizeLines(lines, size, lh)
	color := tok.Color
	if o.color != "" {
		color = o.color
	}
	font := c.b.font(tok, tok.Bold, tok.Italic)
	tb := TextBox{
		Content:    textfmt.Join(spans),
		X:          c.x + o.indent,
		Y:          c.y,
		Width:      width,
		LineHeight: lh,
		Font:       font.Name,
		FontSize:   size,
		Color:      c.b.color(color),
		Lines:      lines,
		Height:     height,
		Align:      o.align,
		Section:    c.section,
	}
	c.debugStyle(&tb, style, tok)
	c.b.page.Texts = append(c.b.page.Texts, tb)
	c.b.track(c.y + height)
	if !o.noAdvance {
		c.y += height
	}
	return height, nil
}

func (c *column) debugStyle(tb *TextBox, style string, tok template.Token) {
	if c.b.debug.Styles {
		tb.Debug = &TextBoxDebug{Style: style, SizePt: tok.Size, Scale: c.scale}
	}
}

// measure 返回单行文本宽度（mm）。
func (c *column) measure(style, content string) float64 {
	tok := c.b.spec.Styles.Token(style)
	if tok.Uppercase {
		content = strings.ToUpper(content)
	}
	w, err := c.b.ts.TextWidth(content, c.b.font(tok, tok.Bold, tok.Italic), c.size(tok))
	if err != nil {
		return EstimateWidth(content, c.size(tok), tok.Bold, tok.Font)
	}
	return w
}

// lineHeight 返回样式的单行高度（mm）。
func (c *column) lineHeight(style string) float64 {
	tok := c.b.spec.Styles.Token(style)
	return c.size(tok) * tok.LineHeight
}

// rule 画一条横贯列宽的分隔线。
func (c *column) rule(color string, widthPt float64) {
	w := widthPt * PtToMm
	c.b.line(c.x, c.y+w/2, c.x+c.w, c.y+w/2, color, widthPt)
	c.y += w
	c.b.track(c.y)
}

// row 左侧标题折行，右侧元信息右对齐，游标推进较高的一侧。
func (c *column) row(leftStyle, left, rightStyle, right string, indent float64) error {
	rw := 0.0
	var rh float64
	if strings.TrimSpace(right) != "" {
		rw = math.Min(c.measure(rightStyle, right)+0.5, (c.w-indent)/2)
		var err error
		rh, err = c.text(rightStyle, right, textOpts{align: "right", indent: c.w - rw, width: rw, noAdvance: true, wrap: "nowrap"})
		if err != nil {
			return err
		}
	}
	gutter := 0.0
	if rw > 0 {
		gutter = 2
	}
	lh, err := c.text(leftStyle, left, textOpts{indent: indent, width: c.w - indent - rw - gutter, noAdvance: true})
	if err != nil {
		return err
	}
	c.y += math.Max(lh, rh)
	return nil
}

// pills 把条目排成自动换行的圆角标签。
func (c *column) pills(style string, items []string, fill Color, stroke string) error {
	if len(items) == 0 {
		return nil
	}
	padX := 1.8 * c.scale
	padY := 0.7 * c.scale
	spacing := 1.5 * c.scale
	h := c.lineHeight(style) + 2*padY
	cx := 0.0
	for _, item := range items {
		w := c.measure(style, item) + 2*padX
		if w > c.w {
			w = c.w
		}
		if cx > 0 && cx+w > c.w {
			cx = 0
			c.y += h + spacing
		}
		rc := Rect{X: c.x + cx, Y: c.y, Width: w, Height: h, Radius: h / 2, FillColor: &fill}
		if stroke != "" {
			rc.StrokeColor = c.b.color(stroke)
			rc.StrokeWidth = 0.6 * PtToMm
		}
		c.b.page.Rects = append(c.b.page.Rects, rc)
		sub := &column{b: c.b, x: c.x + cx, y: c.y + padY, w: w, scale: c.scale, section: c.section}
		if _, err := sub.text(style, item, textOpts{align: "center", wrap: "nowrap"}); err != nil {
			return err
		}
		cx += w + spacing
	}
	c.y += h
	c.b.track(c.y)
	return nil
}

// openBlock/closeBlock 记录分区边界。
func (c *column) openBlock(id string, sectionScale float64) (start float64, restore func()) {
	prevSection, prevScale := c.section, c.scale
	c.section, c.scale = id, sectionScale
	return c.y, func() { c.section, c.scale = prevSection, prevScale }
}

func (c *column) closeBlock(id, where string, start float64) {
	c.b.page.Blocks = append(c.b.page.Blocks, BlockBox{ID: id, Column: where, X: c.x, Y: start, Width: c.w, Height: c.y - start})
	if c.b.debug.Outlines {
		c.b.page.Rects = append(c.b.page.Rects, Rect{
			X: c.x, Y: start, Width: c.w, Height: c.y - start,
			StrokeColor: Color{R: 239, G: 68, B: 68}, StrokeWidth: 0.2,
		})
	}
}

// scalePage 把未缩放坐标系中的全部元素乘以内容缩放。
func scalePage(p *Page, s float64) {
	if s == 1 {
		p.Width, p.Height = PageWidthMM, PageHeightMM
		return
	}
	for i := range p.Texts {
		tb := &p.Texts[i]
		tb.X *= s
		tb.Y *= s
		tb.Width *= s
		tb.LineHeight *= s
		tb.FontSize *= s
		tb.Height *= s
		for j := range tb.Lines {
			ln := &tb.Lines[j]
			ln.Width *= s
			ln.Height *= s
			ln.GapBefore *= s
			for k := range ln.Runs {
				ln.Runs[k].X *= s
				ln.Runs[k].Width *= s
			}
		}
	}
	for i := range p.Rects {
		rc := &p.Rects[i]
		rc.X, rc.Y, rc.Width, rc.Height, rc.Radius, rc.StrokeWidth = rc.X*s, rc.Y*s, rc.Width*s, rc.Height*s, rc.Radius*s, rc.StrokeWidth*s
	}
	for i := range p.Lines {
		ln := &p.Lines[i]
		ln.X1, ln.Y1, ln.X2, ln.Y2, ln.Width = ln.X1*s, ln.Y1*s, ln.X2*s, ln.Y2*s, ln.Width*s
	}
	for i := range p.Circles {
		c := &p.Circles[i]
		c.CX, c.CY, c.R, c.StrokeWidth = c.CX*s, c.CY*s, c.R*s, c.StrokeWidth*s
	}
	for i := range p.Images {
		img := &p.Images[i]
		img.X, img.Y, img.Width, img.Height, img.Radius, img.BorderWidth = img.X*s, img.Y*s, img.Width*s, img.Height*s, img.Radius*s, img.BorderWidth*s
	}
	for i := range p.Blocks {
		bb := &p.Blocks[i]
		bb.X, bb.Y, bb.Width, bb.Height = bb.X*s, bb.Y*s, bb.Width*s, bb.Height*s
	}
	p.Width, p.Height = PageWidthMM, PageHeightMM
}

func parseColor(value string) (Color, error) {
	value = strings.TrimPrefix(strings.TrimSpace(value), "#")
	switch len(value) {
	case 3:
		return Color{
			R: mustHex(strings.Repeat(string(value[0]), 2)),
			G: mustHex(strings.Repeat(string(value[1]), 2)),
			B: mustHex(strings.Repeat(string(value[2]), 2)),
		}, nil
	case 6, 8:
		return Color{
			R: mustHex(value[0:2]),
			G: mustHex(value[2:4]),
			B: mustHex(value[4:6]),
		}, nil
	default:
		return Color{}, fmt.Errorf("颜色值 %s 无法解析", value)
	}
}

func mustHex(s string) int {
	v, _ := strconv.ParseInt(s, 16, 64)
	return int(v)
}

// mix 把 over 以 alpha 比例叠加到 base 上。
func mix(base, over Color, alpha float64) Color {
	blend := func(a, b int) int {
		return int(math.Round(float64(a)*(1-alpha) + float64(b)*alpha))
	}
	return Color{R: blend(base.R, over.R), G: blend(base.G, over.G), B: blend(base.B, over.B)}
}

var white = Color{R: 255, G: 255, B: 255}
