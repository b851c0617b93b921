package layout

import (
	"math"
	"strings"

	"github.com/ByLCY/vitae/compose"
	"github.com/ByLCY/vitae/resume"
	"github.com/ByLCY/vitae/template"
)

// pageBuilders 按页眉规则分派整页排版，每个模板的结构集中在一个函数里。
var pageBuilders = map[template.HeaderRule]func(*builder) error{
	template.Centered:        (*builder).classic,
	template.SidebarContact:  (*builder).modern,
	template.SerifBanner:     (*builder).minimalist,
	template.CodeProfile:     (*builder).github,
	template.CreativeSidebar: (*builder).creative,
	template.PhotoSidebar:    (*builder).corporate,
	template.PhotoBar:        (*builder).executive,
}

const (
	pagePad    = 12.0
	sidebarPad = 7.0
)

func (b *builder) personal(c *column) (float64, func()) {
	return c.openBlock(resume.SectionPersonal, b.plan.Profile.Scale)
}

func contactDisplays(p compose.Profile) []string {
	out := make([]string, 0, len(p.Contacts))
	for _, c := range p.Contacts {
		out = append(out, c.Display)
	}
	return out
}

// classic：居中页眉，单栏线性分区。
func (b *builder) classic() error {
	p := b.plan.Profile
	col := b.column(pagePad, pagePad, b.width-2*pagePad)
	start, restore := b.personal(col)
	if _, err := col.text("name", p.FullName, textOpts{align: "center"}); err != nil {
		return err
	}
	if _, err := col.text("title", p.JobTitle, textOpts{align: "center"}); err != nil {
		return err
	}
	col.gap(4)
	if _, err := col.text("contact", strings.Join(contactDisplays(p), "  |  "), textOpts{align: "center"}); err != nil {
		return err
	}
	col.gap(6)
	col.rule("#d1d5db", 1.5*col.scale)
	col.gap(8)
	if len(p.Summary) > 0 {
		if err := col.heading("Professional Summary"); err != nil {
			return err
		}
		if _, err := col.rich("summary", p.Summary, textOpts{}); err != nil {
			return err
		}
		col.gap(sectionGapPt)
	}
	col.closeBlock(resume.SectionPersonal, "header", start)
	restore()
	return col.sections(b.plan.Linear(), "linear", false)
}

// modern：32% 主题色侧栏承载联系方式与侧栏分区，主栏为姓名、简介与时间轴分区。
func (b *builder) modern() error {
	p := b.plan.Profile
	sw := b.width * b.spec.SidebarRatio
	b.rect(0, 0, sw, b.height, b.spec.Palette.Sidebar, "", 0, 0)

	side := b.column(sidebarPad, pagePad, sw-2*sidebarPad)
	if len(p.Contacts) > 0 {
		start, restore := b.personal(side)
		if err := b.contactList(side, "Contact", false); err != nil {
			return err
		}
		side.closeBlock(resume.SectionPersonal, "sidebar", start)
		restore()
		side.gap(sectionGapPt)
	}
	if err := side.sections(b.plan.Sidebar(), "sidebar", true); err != nil {
		return err
	}

	main := b.column(sw+9, pagePad, b.width-sw-9-pagePad)
	start, restore := b.personal(main)
	if _, err := main.text("name", p.FullName, textOpts{}); err != nil {
		return err
	}
	if _, err := main.text("title", p.JobTitle, textOpts{}); err != nil {
		return err
	}
	main.gap(6)
	if _, err := main.rich("summary", p.Summary, textOpts{}); err != nil {
		return err
	}
	main.closeBlock(resume.SectionPersonal, "main", start)
	restore()
	main.gap(sectionGapPt)
	return main.sections(b.plan.Main(), "main", false)
}

// contactList 绘制侧栏联系方式。labels 为真时链接显示为平台名称。
func (b *builder) contactList(c *column, title string, labels bool) error {
	if _, err := c.text("side-heading", title, textOpts{}); err != nil {
		return err
	}
	c.gap(1.5)
	c.rule(b.sideRule(), 0.75*c.scale)
	c.gap(5)
	bullet := b.spec.ID == template.Executive
	indent := 0.0
	if bullet {
		indent = 3
	}
	for _, ct := range b.plan.Profile.Contacts {
		text := ct.Display
		if labels {
			switch ct.Kind {
			case "linkedin":
				text = "LinkedIn"
			case "github":
				text = "GitHub"
			}
		}
		if bullet {
			b.circle(c.x+0.8, c.y+c.lineHeight("contact")/2, 0.7*c.scale, b.color("accent"))
		}
		if _, err := c.text("contact", text, textOpts{indent: indent, wrap: "break-word"}); err != nil {
			return err
		}
		c.gap(2)
	}
	return nil
}

// minimalist：衬线页眉与主题色底线，下方 1:2 网格。
func (b *builder) minimalist() error {
	p := b.plan.Profile
	pad := 14.0
	col := b.column(pad, pad, b.width-2*pad)
	start, restore := b.personal(col)
	if _, err := col.text("name", p.FullName, textOpts{}); err != nil {
		return err
	}
	col.gap(2)
	if _, err := col.text("title", p.JobTitle, textOpts{}); err != nil {
		return err
	}
	col.gap(4)
	if _, err := col.text("contact", strings.Join(contactDisplays(p), "  •  "), textOpts{}); err != nil {
		return err
	}
	col.gap(6)
	col.rule("theme", 1*col.scale)
	col.closeBlock(resume.SectionPersonal, "header", start)
	restore()
	col.gap(10)

	gutter := 8.0
	lw := (col.w - gutter) * b.spec.SidebarRatio
	left := b.column(pad, col.y, lw)
	right := b.column(pad+lw+gutter, col.y, col.w-lw-gutter)
	if err := left.sections(b.plan.Sidebar(), "sidebar", true); err != nil {
		return err
	}
	if len(p.Summary) > 0 {
		start, restore := b.personal(right)
		if err := right.heading("Profile"); err != nil {
			return err
		}
		if _, err := right.rich("summary", p.Summary, textOpts{}); err != nil {
			return err
		}
		right.closeBlock(resume.SectionPersonal, "main", start)
		restore()
		right.gap(sectionGapPt)
	}
	return right.sections(b.plan.Main(), "main", false)
}

// github：function Full_Name() 与 const profile 代码块，全部分区线性排列。
func (b *builder) github() error {
	p := b.plan.Profile
	col := b.column(pagePad, pagePad, b.width-2*pagePad)
	start, restore := b.personal(col)

	kw := "function "
	kwW := col.measure("keyword", kw)
	if _, err := col.text("keyword", kw, textOpts{noAdvance: true, wrap: "nowrap"}); err != nil {
		return err
	}
	name := strings.ReplaceAll(strings.TrimSpace(p.FullName), " ", "_")
	if name == "" {
		name = "Anonymous"
	}
	if _, err := col.text("name", name+"()", textOpts{indent: kwW}); err != nil {
		return err
	}
	col.gap(6)

	fields := [][2]string{{"role", p.JobTitle}}
	for _, kind := range []string{"email", "phone", "location", "github"} {
		if ct, ok := p.Contact(kind); ok {
			fields = append(fields, [2]string{kind, ct.Display})
		}
	}
	if _, err := col.text("body", "const profile = {", textOpts{}); err != nil {
		return err
	}
	for _, f := range fields {
		if f[1] == "" {
			continue
		}
		key := "  " + f[0] + ": "
		keyW := col.measure("body", key)
		if _, err := col.text("body", key, textOpts{noAdvance: true, wrap: "nowrap"}); err != nil {
			return err
		}
		if _, err := col.text("string", `"`+f[1]+`",`, textOpts{indent: keyW}); err != nil {
			return err
		}
	}
	if _, err := col.text("body", "};", textOpts{}); err != nil {
		return err
	}
	if len(p.Summary) > 0 {
		col.gap(6)
		if _, err := col.rich("summary", p.Summary, textOpts{}); err != nil {
			return err
		}
	}
	col.closeBlock(resume.SectionPersonal, "header", start)
	restore()
	col.gap(sectionGapPt)
	return col.sections(b.plan.Linear(), "linear", false)
}

// creative：35% 侧栏承载大号姓名、联系方式与侧栏分区；主栏以 Profile 开头。
func (b *builder) creative() error {
	p := b.plan.Profile
	sw := b.width * b.spec.SidebarRatio
	b.rect(0, 0, sw, b.height, b.spec.Palette.Sidebar, "", 0, 0)

	side := b.column(sidebarPad, pagePad, sw-2*sidebarPad)
	start, restore := b.personal(side)
	nameStyle := "name"
	if len([]rune(p.FullName)) > 15 {
		nameStyle = "name-long"
	}
	if _, err := side.text(nameStyle, p.FullName, textOpts{}); err != nil {
		return err
	}
	side.gap(3)
	if _, err := side.text("title", p.JobTitle, textOpts{}); err != nil {
		return err
	}
	side.gap(10)
	if len(p.Contacts) > 0 {
		if err := b.contactList(side, "Contact", true); err != nil {
			return err
		}
	}
	side.closeBlock(resume.SectionPersonal, "sidebar", start)
	restore()
	side.gap(sectionGapPt)
	if err := side.sections(b.plan.Sidebar(), "sidebar", true); err != nil {
		return err
	}

	main := b.column(sw+9, pagePad, b.width-sw-9-pagePad)
	if len(p.Summary) > 0 {
		start, restore := b.personal(main)
		if _, err := main.text("profile-heading", "Profile", textOpts{}); err != nil {
			return err
		}
		main.gap(4)
		top := main.y
		if _, err := main.rich("summary", p.Summary, textOpts{indent: 4}); err != nil {
			return err
		}
		b.line(main.x+0.6, top, main.x+0.6, main.y, "#e5e7eb", 3)
		main.closeBlock(resume.SectionPersonal, "main", start)
		restore()
		main.gap(sectionGapPt)
	}
	return main.sections(b.plan.Main(), "main", false)
}

// corporate：侧栏圆形头像（或首字母占位）、联系方式与技能；主栏浅灰底。
func (b *builder) corporate() error {
	p := b.plan.Profile
	sw := b.width * b.spec.SidebarRatio
	b.rect(0, 0, sw, b.height, b.spec.Palette.Sidebar, "", 0, 0)
	b.rect(sw, 0, b.width-sw, b.height, b.spec.Palette.Main, "", 0, 0)

	side := b.column(sidebarPad, pagePad, sw-2*sidebarPad)
	start, restore := b.personal(side)
	d := Px(128).ToMM() * side.scale
	if err := b.photo(side, (side.w-d)/2, d, d/2); err != nil {
		return err
	}
	side.gap(10)
	if len(p.Contacts) > 0 {
		if err := b.contactList(side, "Contact", false); err != nil {
			return err
		}
	}
	side.closeBlock(resume.SectionPersonal, "sidebar", start)
	restore()
	side.gap(sectionGapPt)
	if err := side.sections(b.plan.Sidebar(), "sidebar", true); err != nil {
		return err
	}

	main := b.column(sw+9, pagePad, b.width-sw-9-pagePad)
	start, restore = b.personal(main)
	if _, err := main.text("name", p.FullName, textOpts{}); err != nil {
		return err
	}
	if _, err := main.text("title", p.JobTitle, textOpts{}); err != nil {
		return err
	}
	main.gap(10)
	if len(p.Summary) > 0 {
		if err := main.heading("Summary"); err != nil {
			return err
		}
		if _, err := main.rich("summary", p.Summary, textOpts{}); err != nil {
			return err
		}
	}
	main.closeBlock(resume.SectionPersonal, "main", start)
	restore()
	main.gap(sectionGapPt)
	return main.sections(b.plan.Main(), "main", false)
}

// executive：深色页眉条（圆角头像、姓名、职位），下方左 65% 主栏、右 35% 深色侧栏。
func (b *builder) executive() error {
	p := b.plan.Profile
	pad := 10.0

	head := b.column(pad, pad, b.width-2*pad)
	start, restore := b.personal(head)
	photo := Px(80).ToMM() * head.scale
	if err := b.photo(head, 0, photo, Px(8).ToMM()); err != nil {
		return err
	}
	info := b.column(pad+photo+6, pad, b.width-2*pad-photo-6)
	info.section, info.scale = head.section, head.scale
	if _, err := info.text("name", p.FullName, textOpts{}); err != nil {
		return err
	}
	info.gap(2)
	if _, err := info.text("title", p.JobTitle, textOpts{}); err != nil {
		return err
	}
	head.y = math.Max(head.y, info.y)
	bandH := head.y + pad
	b.page.Rects = append([]Rect{{
		X: 0, Y: 0, Width: b.width, Height: bandH,
		FillColor: ptr(b.color(b.spec.Palette.Band)),
	}}, b.page.Rects...)
	head.closeBlock(resume.SectionPersonal, "header", start)
	restore()

	split := b.width * (1 - b.spec.SidebarRatio)
	b.rect(split, bandH, b.width-split, b.height-bandH, b.spec.Palette.Sidebar, "", 0, 0)

	main := b.column(pad, bandH+pad, split-2*pad)
	if len(p.Summary) > 0 {
		start, restore := b.personal(main)
		if err := main.heading("Profile"); err != nil {
			return err
		}
		if _, err := main.rich("summary", p.Summary, textOpts{}); err != nil {
			return err
		}
		main.closeBlock(resume.SectionPersonal, "main", start)
		restore()
		main.gap(sectionGapPt)
	}
	if err := main.sections(b.plan.Main(), "main", false); err != nil {
		return err
	}

	side := b.column(split+sidebarPad, bandH+pad, b.width-split-2*sidebarPad)
	if len(p.Contacts) > 0 {
		start, restore := b.personal(side)
		if err := b.contactList(side, "Contact", false); err != nil {
			return err
		}
		side.closeBlock(resume.SectionPersonal, "sidebar", start)
		restore()
		side.gap(sectionGapPt)
	}
	return side.sections(b.plan.Sidebar(), "sidebar", true)
}

// photo 在列内 dx 处绘制边长 d 的头像；无头像时绘制首字母占位。
func (b *builder) photo(c *column, dx, d, radius float64) error {
	p := b.plan.Profile
	x, y := c.x+dx, c.y
	if p.Photo == "" {
		fill := mix(b.color(b.spec.Palette.Sidebar), white, 0.2)
		if radius >= d/2 {
			b.circle(x+d/2, y+d/2, d/2, fill)
		} else {
			b.rectColor(x, y, d, d, fill, radius)
		}
		if p.Initial != "" {
			tag := &column{b: b, x: x, y: y, w: d, scale: c.scale, section: c.section}
			tag.y += (d - tag.lineHeight("initial")) / 2
			if _, err := tag.text("initial", p.Initial, textOpts{align: "center", wrap: "nowrap"}); err != nil {
				return err
			}
		}
		c.y += d
		b.track(c.y)
		return nil
	}

	f := p.Filters
	img := ImageBox{
		Path:   p.Photo,
		X:      x,
		Y:      y,
		Width:  d,
		Height: d,
		Radius: radius,
		Filter: &ImageFilter{Zoom: f.Scale, Brightness: f.Brightness, Contrast: f.Contrast, Grayscale: f.Grayscale},
	}
	switch {
	case f.BorderWidth > 0:
		img.BorderWidth = Px(f.BorderWidth).ToMM()
		img.BorderColor = b.color(f.BorderColor)
	case b.spec.ID == template.Executive:
		img.BorderWidth = Px(3).ToMM()
		img.BorderColor = b.color("accent")
	}
	b.page.Images = append(b.page.Images, img)
	c.y += d
	b.track(c.y)
	return nil
}
