package layout

import (
	"strings"

	"github.com/ByLCY/vitae/compose"
	"github.com/ByLCY/vitae/template"
)

// headingRule 描述主栏分区标题的绘制方式。
type headingRule struct {
	prefix  string
	rule    string // 分隔线颜色，空表示不画
	widthPt float64
	after   float64 // 标题后的间距（pt）
}

var headingRules = map[template.SectionRule]headingRule{
	template.Ruled:     {rule: "rule", widthPt: 0.75, after: 5},
	template.Timeline:  {rule: "rule", widthPt: 1, after: 6},
	template.Quiet:     {rule: "rule", widthPt: 0.5, after: 5},
	template.CodeBlock: {prefix: "// ", rule: "rule", widthPt: 0.75, after: 6},
	template.Accent:    {after: 5},
	template.Boxed:     {rule: "#d1d5db", widthPt: 1.5, after: 5},
	template.Gold:      {rule: "accent", widthPt: 1.5, after: 5},
}

// 条目相对列左缘的缩进（mm）。
var entryIndent = map[template.SectionRule]float64{
	template.Timeline:  4.5,
	template.Accent:    4,
	template.CodeBlock: 3,
}

const sectionGapPt = 12

func (b *builder) paletteColor(v string) string {
	switch v {
	case "rule":
		return b.spec.Palette.Rule
	case "muted":
		return b.spec.Palette.Muted
	}
	return v
}

// sections 依次绘制分区并登记 BlockBox。side 为真时使用侧栏样式。
func (c *column) sections(blocks []compose.Block, where string, side bool) error {
	for _, blk := range blocks {
		start, restore := c.openBlock(blk.ID, blk.Scale)
		var err error
		if side {
			err = c.sideBlock(blk)
		} else {
			err = c.mainBlock(blk)
		}
		if err != nil {
			restore()
			return err
		}
		c.closeBlock(blk.ID, where, start)
		restore()
		c.gap(sectionGapPt)
	}
	return nil
}

func (c *column) heading(title string) error {
	hr := headingRules[c.b.spec.Section]
	if _, err := c.text("heading", hr.prefix+title, textOpts{}); err != nil {
		return err
	}
	if hr.rule != "" {
		c.gap(1.5)
		c.rule(c.b.paletteColor(hr.rule), hr.widthPt*c.scale)
	}
	c.gap(hr.after)
	return nil
}

func (c *column) mainBlock(blk compose.Block) error {
	if err := c.heading(blk.Title); err != nil {
		return err
	}
	if blk.Kind == compose.KindSkills {
		return c.mainSkills(blk.Skills)
	}
	for i, e := range blk.Entries {
		if i > 0 {
			c.gap(7)
		}
		if err := c.entry(blk.Kind, e); err != nil {
			return err
		}
	}
	return nil
}

// entry 按模板的分区规则绘制一条记录并加上装饰（时间轴、圆点、卡片）。
func (c *column) entry(kind compose.Kind, e compose.Entry) error {
	rule := c.b.spec.Section
	indent := entryIndent[rule]
	if rule == template.CodeBlock {
		c.gap(4)
	}
	start := c.y

	title, subtitle, right := e.Fields(c.b.spec.ID, kind)
	rightStyle := "item-meta"
	if kind == compose.KindProjects {
		rightStyle = "link"
	}
	if err := c.row("item-title", title, rightStyle, right, indent); err != nil {
		return err
	}
	if _, err := c.text("item-subtitle", subtitle, textOpts{indent: indent}); err != nil {
		return err
	}
	if kind == compose.KindCustom && e.Place != "" {
		if _, err := c.text("item-meta", e.PlaceLine(c.b.spec.ID), textOpts{indent: indent}); err != nil {
			return err
		}
	}
	if kind == compose.KindProjects && e.Tech != "" {
		c.gap(1.5)
		if err := c.techTag(e.Tech, indent); err != nil {
			return err
		}
	}
	if len(e.Spans) > 0 {
		c.gap(2)
		if rule == template.CodeBlock && (kind == compose.KindExperience || kind == compose.KindCustom) {
			if _, err := c.rich("comment", e.CodeComment(), textOpts{indent: indent}); err != nil {
				return err
			}
		} else if _, err := c.rich("body", e.Spans, textOpts{indent: indent}); err != nil {
			return err
		}
	}
	c.decorate(rule, start)
	return nil
}

func (c *column) techTag(tech string, indent float64) error {
	switch c.b.spec.Section {
	case template.Boxed, template.Gold:
		sub := &column{b: c.b, x: c.x + indent, y: c.y, w: c.w - indent, scale: c.scale, section: c.section}
		if err := sub.pills("tag", []string{tech}, white, "accent"); err != nil {
			return err
		}
		c.y = sub.y
		return nil
	case template.CodeBlock:
		_, err := c.text("tag", "[ "+tech+" ]", textOpts{indent: indent})
		return err
	default:
		_, err := c.text("tag", tech, textOpts{indent: indent})
		return err
	}
}

func (c *column) decorate(rule template.SectionRule, start float64) {
	b := c.b
	dotY := start + c.lineHeight("item-title")/2
	switch rule {
	case template.Timeline:
		b.line(c.x+1.2, start, c.x+1.2, c.y, b.spec.Palette.Rule, 1)
		b.circle(c.x+1.2, dotY, 1.1*c.scale, b.color("theme"))
	case template.Accent:
		b.circle(c.x+1, dotY, 0.9*c.scale, b.color("theme"))
	case template.CodeBlock:
		c.gap(4)
		top := start - 4*PtToMm*c.scale
		b.page.Rects = append(b.page.Rects, Rect{
			X: c.x, Y: top, Width: c.w, Height: c.y - top, Radius: 1.5,
			FillColor:   ptr(b.color(b.spec.Palette.Card)),
			StrokeColor: b.color(b.spec.Palette.Rule), StrokeWidth: 0.5 * PtToMm,
		})
	}
}

func ptr(c Color) *Color { return &c }

func (c *column) mainSkills(skills []string) error {
	switch c.b.spec.Section {
	case template.CodeBlock:
		quoted := make([]string, len(skills))
		for i, s := range skills {
			quoted[i] = `"` + s + `"`
		}
		_, err := c.text("string", "const skills = ["+strings.Join(quoted, ", ")+"];", textOpts{})
		return err
	case template.Boxed, template.Gold:
		return c.pills("tag", skills, white, "accent")
	default:
		_, err := c.text("body", strings.Join(skills, " • "), textOpts{})
		return err
	}
}

// sideBlock 绘制侧栏分区：侧栏标题、简化条目、技能标签。
func (c *column) sideBlock(blk compose.Block) error {
	b := c.b
	if _, err := c.text("side-heading", blk.Title, textOpts{}); err != nil {
		return err
	}
	c.gap(1.5)
	c.rule(b.sideRule(), 0.75*c.scale)
	c.gap(5)

	if blk.Kind == compose.KindSkills {
		if b.spec.Palette.Sidebar == "" {
			_, err := c.text("side-text", strings.Join(blk.Skills, ", "), textOpts{})
			return err
		}
		stroke := ""
		if b.spec.ID == template.Executive {
			stroke = "accent"
		}
		return c.pills("pill", blk.Skills, b.sidePill(), stroke)
	}
	for i, e := range blk.Entries {
		if i > 0 {
			c.gap(5)
		}
		title, subtitle, right := e.Fields(b.spec.ID, blk.Kind)
		if _, err := c.text("side-title", title, textOpts{}); err != nil {
			return err
		}
		if _, err := c.text("side-text", subtitle, textOpts{}); err != nil {
			return err
		}
		if _, err := c.text("side-text", right, textOpts{}); err != nil {
			return err
		}
		if len(e.Spans) > 0 {
			if _, err := c.rich("side-text", e.Spans, textOpts{}); err != nil {
				return err
			}
		}
	}
	return nil
}

// sideRule 是侧栏分隔线颜色：有底色时取底色与白色的混合。
func (b *builder) sideRule() string {
	if b.spec.Palette.Sidebar == "" {
		return b.spec.Palette.Rule
	}
	if b.spec.ID == template.Executive {
		return "accent"
	}
	return hexOf(mix(b.color(b.spec.Palette.Sidebar), white, 0.4))
}

func (b *builder) sidePill() Color {
	return mix(b.color(b.spec.Palette.Sidebar), white, 0.2)
}

func hexOf(c Color) string {
	const digits = "0123456789abcdef"
	buf := []byte{'#', 0, 0, 0, 0, 0, 0}
	for i, v := range []int{c.R, c.G, c.B} {
		buf[1+i*2] = digits[(v>>4)&0xf]
		buf[2+i*2] = digits[v&0xf]
	}
	return string(buf)
}
