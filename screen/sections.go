package screen

import (
	"strings"

	"github.com/ByLCY/vitae/compose"
	"github.com/ByLCY/vitae/template"
	"github.com/ByLCY/vitae/textfmt"
)

// 各分区规则的标题样式。
var headingCSS = map[template.SectionRule]func(b *builder) map[string]string{
	template.Ruled: func(b *builder) map[string]string {
		return map[string]string{"border-bottom": "1px solid " + b.color(b.spec.Palette.Rule), "padding-bottom": "2px", "margin-bottom": "7px"}
	},
	template.Timeline: func(b *builder) map[string]string {
		return map[string]string{"border-bottom": "1px solid " + b.color(b.spec.Palette.Rule), "padding-bottom": "2px", "margin-bottom": "8px"}
	},
	template.Quiet: func(b *builder) map[string]string {
		return map[string]string{"border-bottom": "1px solid " + b.color(b.spec.Palette.Rule), "padding-bottom": "2px", "margin-bottom": "7px"}
	},
	template.CodeBlock: func(b *builder) map[string]string {
		return map[string]string{"border-bottom": "1px solid " + b.color(b.spec.Palette.Rule), "padding-bottom": "2px", "margin-bottom": "8px"}
	},
	template.Accent: func(b *builder) map[string]string {
		return map[string]string{"margin-bottom": "7px"}
	},
	template.Boxed: func(b *builder) map[string]string {
		return map[string]string{"border-bottom": "2px solid #d1d5db", "padding-bottom": "2px", "margin-bottom": "7px"}
	},
	template.Gold: func(b *builder) map[string]string {
		return map[string]string{"border-bottom": "2px solid " + b.color("accent"), "padding-bottom": "2px", "margin-bottom": "7px"}
	},
}

// text 渲染单一样式的文本；空串返回 nil。
func (b *builder) text(tag, style, content string, extra ...map[string]string) *Node {
	if strings.TrimSpace(content) == "" {
		return nil
	}
	groups := append([]map[string]string{b.tokenCSS(style)}, extra...)
	return El(tag, css(groups...), Text(content)).Attr("data-style", style)
}

// rich 渲染带粗体/斜体片段的段落。
func (b *builder) rich(style string, spans []textfmt.Span, extra ...map[string]string) *Node {
	if strings.TrimSpace(textfmt.Join(spans)) == "" {
		return nil
	}
	groups := append([]map[string]string{b.tokenCSS(style), {"white-space": "pre-wrap"}}, extra...)
	p := El("p", css(groups...)).Attr("data-style", style)
	for _, sp := range spans {
		switch sp.Kind {
		case textfmt.Bold:
			p.Append(El("strong", nil, Text(sp.Text)))
		case textfmt.Italic:
			p.Append(El("em", nil, Text(sp.Text)))
		default:
			p.Append(Text(sp.Text))
		}
	}
	return p
}

// section 包装一个分区，zoom 应用分区缩放。
func (b *builder) section(id string, sectionScale float64, children ...*Node) *Node {
	n := El("section", map[string]string{"zoom": num(sectionScale), "margin-bottom": "16px"}, children...)
	return n.Attr("data-section", id)
}

func (b *builder) heading(title string) *Node {
	prefix := ""
	if b.spec.Section == template.CodeBlock {
		prefix = "// "
	}
	extra := map[string]string{}
	if f, ok := headingCSS[b.spec.Section]; ok {
		extra = f(b)
	}
	return b.text("h2", "heading", prefix+title, extra)
}

// sections 依次渲染分区。side 为真时使用侧栏样式。
func (b *builder) sections(blocks []compose.Block, side bool) []*Node {
	out := make([]*Node, 0, len(blocks))
	for _, blk := range blocks {
		var children []*Node
		if side {
			children = b.sideBlock(blk)
		} else {
			children = b.mainBlock(blk)
		}
		out = append(out, b.section(blk.ID, blk.Scale, children...))
	}
	return out
}

func (b *builder) mainBlock(blk compose.Block) []*Node {
	nodes := []*Node{b.heading(blk.Title)}
	if blk.Kind == compose.KindSkills {
		return append(nodes, b.mainSkills(blk.Skills))
	}
	for i, e := range blk.Entries {
		n := b.entry(blk.Kind, e)
		if i > 0 {
			n.Style["margin-top"] = "9px"
		}
		nodes = append(nodes, n)
	}
	return nodes
}

// entry 渲染一条记录，并按分区规则加上时间轴、圆点或卡片装饰。
func (b *builder) entry(kind compose.Kind, e compose.Entry) *Node {
	title, subtitle, right := e.Fields(b.spec.ID, kind)
	rightStyle := "item-meta"
	if kind == compose.KindProjects {
		rightStyle = "link"
	}
	row := El("div", map[string]string{"display": "flex", "justify-content": "space-between", "align-items": "baseline", "gap": "8px"},
		b.text("h3", "item-title", title),
		b.text("span", rightStyle, right, map[string]string{"white-space": "nowrap"}),
	)
	n := El("div", map[string]string{"position": "relative"}, row, b.text("div", "item-subtitle", subtitle)).Attr("data-entry", e.ID)
	if kind == compose.KindCustom {
		n.Append(b.text("div", "item-meta", e.PlaceLine(b.spec.ID)))
	}
	if kind == compose.KindProjects && e.Tech != "" {
		n.Append(b.techTag(e.Tech))
	}
	if len(e.Spans) > 0 {
		if b.spec.Section == template.CodeBlock && (kind == compose.KindExperience || kind == compose.KindCustom) {
			n.Append(b.rich("comment", e.CodeComment(), map[string]string{"margin-top": "3px"}))
		} else {
			n.Append(b.rich("body", e.Spans, map[string]string{"margin-top": "3px"}))
		}
	}

	switch b.spec.Section {
	case template.Timeline:
		n.Style["padding-left"] = "17px"
		n.Style["border-left"] = "1px solid " + b.color(b.spec.Palette.Rule)
		n.Children = append([]*Node{b.dot(8, b.color("theme"), "-4.5px")}, n.Children...)
	case template.Accent:
		n.Style["padding-left"] = "15px"
		n.Children = append([]*Node{b.dot(7, b.color("theme"), "0")}, n.Children...)
	case template.CodeBlock:
		n.Style["padding"] = "8px 11px"
		n.Style["background"] = b.color(b.spec.Palette.Card)
		n.Style["border"] = "1px solid " + b.color(b.spec.Palette.Rule)
		n.Style["border-radius"] = "6px"
	}
	return n
}

func (b *builder) dot(size float64, color, left string) *Node {
	return El("span", map[string]string{
		"position":      "absolute",
		"left":          left,
		"top":           "6px",
		"width":         px(size),
		"height":        px(size),
		"border-radius": "50%",
		"background":    color,
	}).Attr("aria-hidden", "true")
}

func (b *builder) techTag(tech string) *Node {
	switch b.spec.Section {
	case template.Boxed, template.Gold:
		return b.pills("tag", []string{tech}, "#ffffff", b.color("accent"))
	case template.CodeBlock:
		return b.text("div", "tag", "[ "+tech+" ]")
	default:
		return b.text("div", "tag", tech)
	}
}

func (b *builder) mainSkills(skills []string) *Node {
	switch b.spec.Section {
	case template.CodeBlock:
		quoted := make([]string, len(skills))
		for i, s := range skills {
			quoted[i] = `"` + s + `"`
		}
		return b.text("p", "string", "const skills = ["+strings.Join(quoted, ", ")+"];")
	case template.Boxed, template.Gold:
		return b.pills("tag", skills, "#ffffff", b.color("accent"))
	default:
		return b.text("p", "body", strings.Join(skills, " • "))
	}
}

// pills 把条目排成自动换行的圆角标签。
func (b *builder) pills(style string, items []string, bg, border string) *Node {
	if len(items) == 0 {
		return nil
	}
	wrap := El("div", map[string]string{"display": "flex", "flex-wrap": "wrap", "gap": "6px"}).Attr("class", "pills")
	for _, item := range items {
		pill := map[string]string{"padding": "3px 7px", "border-radius": "9999px", "background": bg}
		if border != "" {
			pill["border"] = "1px solid " + border
		}
		wrap.Append(b.text("span", style, item, pill))
	}
	return wrap
}

// sideHeading 是侧栏分区标题，带半透明分隔线。
func (b *builder) sideHeading(title string) *Node {
	return b.text("h2", "side-heading", title, map[string]string{
		"border-bottom":  "1px solid " + b.sideRule(),
		"padding-bottom": "2px",
		"margin-bottom":  "7px",
	})
}

func (b *builder) sideBlock(blk compose.Block) []*Node {
	nodes := []*Node{b.sideHeading(blk.Title)}
	if blk.Kind == compose.KindSkills {
		if b.spec.Palette.Sidebar == "" {
			return append(nodes, b.text("p", "side-text", strings.Join(blk.Skills, ", ")))
		}
		border := ""
		if b.spec.ID == template.Executive {
			border = b.color("accent")
		}
		return append(nodes, b.pills("pill", blk.Skills, "rgba(255, 255, 255, 0.2)", border))
	}
	for i, e := range blk.Entries {
		title, subtitle, right := e.Fields(b.spec.ID, blk.Kind)
		item := El("div", nil,
			b.text("h3", "side-title", title),
			b.text("div", "side-text", subtitle),
			b.text("div", "side-text", right),
		).Attr("data-entry", e.ID)
		if i > 0 {
			item.Style = map[string]string{"margin-top": "7px"}
		}
		item.Append(b.rich("side-text", e.Spans))
		nodes = append(nodes, item)
	}
	return nodes
}

func (b *builder) sideRule() string {
	if b.spec.Palette.Sidebar == "" {
		return b.color(b.spec.Palette.Rule)
	}
	if b.spec.ID == template.Executive {
		return b.color("accent")
	}
	return "rgba(255, 255, 255, 0.4)"
}
