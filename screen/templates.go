package screen

import (
	"strings"

	"github.com/ByLCY/vitae/compose"
	"github.com/ByLCY/vitae/resume"
	"github.com/ByLCY/vitae/template"
)

// pageBuilders 与文档目标一一对应，按页眉规则分派整页结构。
var pageBuilders = map[template.HeaderRule]func(*builder) *Node{
	template.Centered:        (*builder).classic,
	template.SidebarContact:  (*builder).modern,
	template.SerifBanner:     (*builder).minimalist,
	template.CodeProfile:     (*builder).github,
	template.CreativeSidebar: (*builder).creative,
	template.PhotoSidebar:    (*builder).corporate,
	template.PhotoBar:        (*builder).executive,
}

func (b *builder) personal(children ...*Node) *Node {
	n := b.section(resume.SectionPersonal, b.plan.Profile.Scale, children...)
	if len(n.Children) == 0 {
		return nil
	}
	return n
}

func contactDisplays(p compose.Profile) []string {
	out := make([]string, 0, len(p.Contacts))
	for _, c := range p.Contacts {
		out = append(out, c.Display)
	}
	return out
}

// twoColumn 返回全高的左右两栏。
func twoColumn(left, right *Node) *Node {
	return El("div", map[string]string{"display": "flex", "flex": "1", "min-height": "100%"}, left, right)
}

func (b *builder) sidebar(widthPct float64, children ...*Node) *Node {
	return El("aside", map[string]string{
		"width":      pct(widthPct * 100),
		"flex":       "none",
		"padding":    "48px 26px",
		"background": b.color(b.spec.Palette.Sidebar),
		"box-sizing": "border-box",
	}, children...).Attr("class", "resume-sidebar")
}

func (b *builder) mainColumn(style map[string]string, children ...*Node) *Node {
	base := map[string]string{"flex": "1", "padding": "48px 40px", "box-sizing": "border-box"}
	return El("main", css(base, style), children...).Attr("class", "resume-main")
}

func (b *builder) classic() *Node {
	p := b.plan.Profile
	center := map[string]string{"text-align": "center"}
	head := b.personal(
		El("header", map[string]string{"border-bottom": "2px solid #d1d5db", "padding-bottom": "16px", "margin-bottom": "16px"},
			b.text("h1", "name", p.FullName, center),
			b.text("div", "title", p.JobTitle, center),
			b.text("div", "contact", strings.Join(contactDisplays(p), "  |  "), center, map[string]string{"margin-top": "6px", "white-space": "pre"}),
		),
		b.summary("Professional Summary"),
	)
	return El("div", map[string]string{"padding": "45px"}, head).Append(b.sections(b.plan.Linear(), false)...)
}

// summary 返回带标题的简介；无简介时返回 nil。
func (b *builder) summary(title string) *Node {
	text := b.rich("summary", b.plan.Profile.Summary)
	if text == nil {
		return nil
	}
	return El("div", map[string]string{"margin-bottom": "16px"}, b.heading(title), text)
}

// contactList 渲染侧栏联系方式。labels 为真时链接显示平台名称。
func (b *builder) contactList(labels bool) *Node {
	contacts := b.plan.Profile.Contacts
	if len(contacts) == 0 {
		return nil
	}
	list := El("ul", map[string]string{"list-style": "none", "padding": "0", "margin": "0"})
	for _, ct := range contacts {
		text := ct.Display
		if labels {
			switch ct.Kind {
			case "linkedin":
				text = "LinkedIn"
			case "github":
				text = "GitHub"
			}
		}
		li := El("li", map[string]string{"display": "flex", "align-items": "center", "gap": "6px", "margin-bottom": "4px", "word-break": "break-all"}).Attr("data-contact", ct.Kind)
		if b.spec.ID == template.Executive {
			li.Append(El("span", map[string]string{"width": "5px", "height": "5px", "border-radius": "50%", "background": b.color("accent"), "flex": "none"}))
		}
		li.Append(b.text("span", "contact", text))
		list.Append(li)
	}
	return El("div", map[string]string{"margin-bottom": "16px"}, b.sideHeading("Contact"), list)
}

func (b *builder) modern() *Node {
	p := b.plan.Profile
	side := b.sidebar(b.spec.SidebarRatio, b.personal(b.contactList(false))).Append(b.sections(b.plan.Sidebar(), true)...)
	main := b.mainColumn(nil,
		b.personal(
			b.text("h1", "name", p.FullName),
			b.text("div", "title", p.JobTitle),
			b.rich("summary", p.Summary, map[string]string{"margin-top": "8px"}),
		),
	).Append(b.sections(b.plan.Main(), false)...)
	return twoColumn(side, main)
}

func (b *builder) minimalist() *Node {
	p := b.plan.Profile
	head := b.personal(El("header", map[string]string{"border-bottom": "1px solid " + b.color("theme"), "padding-bottom": "12px", "margin-bottom": "20px"},
		b.text("h1", "name", p.FullName),
		b.text("div", "title", p.JobTitle, map[string]string{"margin-top": "3px"}),
		b.text("div", "contact", strings.Join(contactDisplays(p), "  •  "), map[string]string{"margin-top": "6px", "white-space": "pre"}),
	))
	left := El("div", map[string]string{"flex": "1"}).Append(b.sections(b.plan.Sidebar(), true)...)
	right := El("div", map[string]string{"flex": "2"}, b.personal(b.summary("Profile"))).Append(b.sections(b.plan.Main(), false)...)
	grid := El("div", map[string]string{"display": "flex", "gap": "30px"}, left, right)
	return El("div", map[string]string{"padding": "53px"}, head, grid)
}

func (b *builder) github() *Node {
	p := b.plan.Profile
	name := strings.ReplaceAll(strings.TrimSpace(p.FullName), " ", "_")
	if name == "" {
		name = "Anonymous"
	}
	signature := El("h1", css(b.tokenCSS("name"), map[string]string{"display": "flex", "gap": "0"}),
		b.text("span", "keyword", "function "),
		Text(name+"()"),
	)
	profile := El("pre", css(b.tokenCSS("body"), map[string]string{"margin": "8px 0 0", "white-space": "pre-wrap"}), Text("const profile = {\n"))
	fields := [][2]string{{"role", p.JobTitle}}
	for _, kind := range []string{"email", "phone", "location", "github"} {
		if ct, ok := p.Contact(kind); ok {
			fields = append(fields, [2]string{kind, ct.Display})
		}
	}
	for _, f := range fields {
		if f[1] == "" {
			continue
		}
		profile.Append(Text("  "+f[0]+": "), b.text("span", "string", `"`+f[1]+`",`), Text("\n"))
	}
	profile.Append(Text("};"))

	head := b.personal(signature, profile, b.rich("summary", p.Summary, map[string]string{"margin-top": "8px"}))
	return El("div", map[string]string{"padding": "45px"}, head).Append(b.sections(b.plan.Linear(), false)...)
}

func (b *builder) creative() *Node {
	p := b.plan.Profile
	nameStyle := "name"
	if len([]rune(p.FullName)) > 15 {
		nameStyle = "name-long"
	}
	side := b.sidebar(b.spec.SidebarRatio, b.personal(
		b.text("h1", nameStyle, p.FullName, map[string]string{"word-break": "break-word"}),
		b.text("div", "title", p.JobTitle, map[string]string{"margin": "4px 0 26px"}),
		b.contactList(true),
	)).Append(b.sections(b.plan.Sidebar(), true)...)

	var profile *Node
	if summary := b.rich("summary", p.Summary, map[string]string{"border-left": "4px solid #e5e7eb", "padding-left": "15px"}); summary != nil {
		profile = b.personal(b.text("h2", "profile-heading", "Profile", map[string]string{"margin-bottom": "6px"}), summary)
	}
	main := b.mainColumn(nil, profile).Append(b.sections(b.plan.Main(), false)...)
	return twoColumn(side, main)
}

// photo 渲染头像：有图片时带滤镜与边框，否则绘制首字母占位。
func (b *builder) photo(size float64, radius string) *Node {
	p := b.plan.Profile
	box := map[string]string{
		"width":         px(size),
		"height":        px(size),
		"border-radius": radius,
		"overflow":      "hidden",
		"flex":          "none",
	}
	if p.Photo == "" {
		box["display"] = "flex"
		box["align-items"] = "center"
		box["justify-content"] = "center"
		box["background"] = "rgba(255, 255, 255, 0.2)"
		return El("div", box, b.text("span", "initial", p.Initial)).Attr("class", "resume-photo-placeholder")
	}
	f := p.Filters
	switch {
	case f.BorderWidth > 0:
		box["border"] = px(f.BorderWidth) + " solid " + b.color(f.BorderColor)
	case b.spec.ID == template.Executive:
		box["border"] = "3px solid " + b.color("accent")
	}
	box["box-sizing"] = "border-box"
	img := El("img", map[string]string{
		"width":      "100%",
		"height":     "100%",
		"object-fit": "cover",
		"transform":  "scale(" + num(f.Scale) + ")",
		"filter":     "brightness(" + num(f.Brightness) + ") contrast(" + num(f.Contrast) + ") grayscale(" + num(f.Grayscale) + ")",
	}).Attr("src", p.Photo).Attr("alt", p.FullName)
	return El("div", box, img).Attr("class", "resume-photo")
}

func (b *builder) corporate() *Node {
	p := b.plan.Profile
	side := b.sidebar(b.spec.SidebarRatio, b.personal(
		El("div", map[string]string{"display": "flex", "justify-content": "center", "margin-bottom": "26px"}, b.photo(128, "50%")),
		b.contactList(false),
	)).Append(b.sections(b.plan.Sidebar(), true)...)

	main := b.mainColumn(map[string]string{"background": b.color(b.spec.Palette.Main)},
		b.personal(
			b.text("h1", "name", p.FullName),
			b.text("div", "title", p.JobTitle, map[string]string{"margin-bottom": "26px"}),
			b.summary("Summary"),
		),
	).Append(b.sections(b.plan.Main(), false)...)
	return twoColumn(side, main)
}

func (b *builder) executive() *Node {
	p := b.plan.Profile
	band := El("header", map[string]string{
		"display":     "flex",
		"align-items": "center",
		"gap":         "23px",
		"padding":     "38px",
		"background":  b.color(b.spec.Palette.Band),
	},
		b.photo(80, "8px"),
		El("div", nil,
			b.text("h1", "name", p.FullName),
			b.text("div", "title", p.JobTitle, map[string]string{"margin-top": "4px"}),
		),
	)

	main := b.mainColumn(map[string]string{"padding": "38px"}, b.personal(b.summary("Profile"))).Append(b.sections(b.plan.Main(), false)...)
	side := b.sidebar(b.spec.SidebarRatio, b.personal(b.contactList(false))).Append(b.sections(b.plan.Sidebar(), true)...)
	side.Style["padding"] = "38px 26px"
	head := b.personal(band)
	head.Style["margin-bottom"] = "0"
	return El("div", map[string]string{"display": "flex", "flex-direction": "column", "flex": "1", "min-height": "100%"},
		head,
		twoColumn(main, side),
	)
}
