package screen

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/ByLCY/vitae/layout"
	"github.com/ByLCY/vitae/resume"
	"github.com/ByLCY/vitae/scale"
	"github.com/ByLCY/vitae/template"
	"github.com/ByLCY/vitae/tier"
)

func sampleResume() *resume.Resume {
	r := resume.New("r1")
	r.PersonalInfo = resume.PersonalInfo{
		FullName: "Ada Lovelace",
		JobTitle: "Analyst",
		Email:    "ada@example.com",
		LinkedIn: "https://www.linkedin.com/in/ada",
		GitHub:   "https://github.com/ada",
		Summary:  "Writes **programs** for the *engine*",
	}
	r.Skills = "React, Node.js"
	r.AddEducation(resume.Education{School: "Home", Degree: "Tutoring", StartDate: "1830", EndDate: "1835"})
	r.AddExperience(resume.Experience{Company: "Babbage", Role: "Programmer", StartDate: "1842", Current: true, Description: "First algorithm"})
	return r
}

func render(t *testing.T, r *resume.Resume, tr tier.Tier, width float64) *View {
	t.Helper()
	v, err := Render(r, tr, width, Options{})
	if err != nil {
		t.Fatalf("渲染失败: %v", err)
	}
	return v
}

func sectionIDs(n *Node, tag string) []string {
	var ids []string
	for _, s := range n.FindAll(func(x *Node) bool { return x.Attrs["data-section"] != "" && (tag == "" || x.Tag == tag) }) {
		if id := s.Attrs["data-section"]; id != resume.SectionPersonal {
			ids = append(ids, id)
		}
	}
	return ids
}

func TestFrameAndScales(t *testing.T) {
	t.Parallel()
	r := sampleResume()
	r.SetContentScale(0.8)
	r.SetSectionScale("skills", 1.2)
	v := render(t, r, tier.Free, 700)

	if v.ViewportScale != scale.ViewportFit(700) {
		t.Fatalf("viewport = %g", v.ViewportScale)
	}
	root := v.Root
	if root.Style["width"] != "794px" || root.Style["height"] != "1123px" {
		t.Fatalf("外层框架应固定为 794×1123: %v", root.Style)
	}
	if root.Style["transform"] != "scale("+num(v.ViewportScale)+")" {
		t.Fatalf("transform = %s", root.Style["transform"])
	}
	body := root.Children[0]
	if body.Style["width"] != "125%" || body.Style["transform"] != "scale(0.8)" {
		t.Fatalf("内容层缩放错误: %v", body.Style)
	}
	skills := root.Find(func(n *Node) bool { return n.Attrs["data-section"] == "skills" })
	if skills == nil || skills.Style["zoom"] != "1.2" {
		t.Fatalf("skills 分区缩放缺失: %+v", skills)
	}
	if exp := root.Find(func(n *Node) bool { return n.Attrs["data-section"] == "experience" }); exp.Style["zoom"] != "1" {
		t.Fatalf("experience zoom = %s", exp.Style["zoom"])
	}
}

func TestModernPartition(t *testing.T) {
	t.Parallel()
	r := sampleResume()
	r.SetTemplate("modern")
	r.SectionOrder = []string{"personal", "skills", "experience"}
	v := render(t, r, tier.Free, 0)

	aside := v.Root.Find(func(n *Node) bool { return n.Tag == "aside" })
	main := v.Root.Find(func(n *Node) bool { return n.Tag == "main" })
	if aside == nil || main == nil {
		t.Fatalf("modern 应为侧栏 + 主栏")
	}
	if got := sectionIDs(aside, "section"); !reflect.DeepEqual(got, []string{"skills"}) {
		t.Fatalf("侧栏分区 = %v", got)
	}
	if got := sectionIDs(main, "section"); !reflect.DeepEqual(got, []string{"experience"}) {
		t.Fatalf("主栏分区 = %v", got)
	}
	if !reflect.DeepEqual(v.Partition.Sidebar, []string{"skills"}) {
		t.Fatalf("partition = %+v", v.Partition)
	}
	pills := aside.FindAll(func(n *Node) bool { return n.Attrs["data-style"] == "pill" })
	if len(pills) != 2 || pills[0].TextContent() != "React" {
		t.Fatalf("技能标签 = %d", len(pills))
	}
	if education := v.Root.Find(func(n *Node) bool { return n.Attrs["data-section"] == "education" }); education != nil {
		t.Fatalf("不在 sectionOrder 中的分区不应渲染")
	}
}

func TestEveryTemplateRenders(t *testing.T) {
	t.Parallel()
	for _, spec := range template.All() {
		r := sampleResume()
		r.SetTemplate(string(spec.ID))
		v := render(t, r, tier.Pro, 900)
		if v.Template != string(spec.ID) || v.Root.Attrs["data-template"] != string(spec.ID) {
			t.Fatalf("template = %s", v.Template)
		}
		text := v.Root.TextContent()
		for _, want := range []string{"Programmer", "Home", "React"} {
			if !strings.Contains(text, want) {
				t.Fatalf("%s 缺少 %q", spec.ID, want)
			}
		}
		if _, err := HTML(v); err != nil {
			t.Fatalf("%s 序列化失败: %v", spec.ID, err)
		}
	}
}

func TestSpansBecomeInlineElements(t *testing.T) {
	t.Parallel()
	v := render(t, sampleResume(), tier.Free, 0)
	strong := v.Root.Find(func(n *Node) bool { return n.Tag == "strong" })
	em := v.Root.Find(func(n *Node) bool { return n.Tag == "em" })
	if strong == nil || strong.TextContent() != "programs" || em == nil || em.TextContent() != "engine" {
		t.Fatalf("粗体/斜体片段未转换")
	}
}

func TestBrandingFollowsTier(t *testing.T) {
	t.Parallel()
	r := sampleResume()
	r.IsBrandingEnabled = false
	isBranding := func(n *Node) bool { return n.Attrs["class"] == "resume-branding" }

	free := render(t, r, tier.Free, 0)
	if n := free.Root.Find(isBranding); n == nil || n.TextContent() == "" {
		t.Fatalf("免费用户应显示品牌页脚")
	}
	if render(t, r, tier.Pro, 0).Root.Find(isBranding) != nil {
		t.Fatalf("付费用户关闭后不应显示")
	}
}

func TestGithubHeader(t *testing.T) {
	t.Parallel()
	r := sampleResume()
	r.SetTemplate("github")
	v := render(t, r, tier.Pro, 0)
	text := v.Root.TextContent()
	for _, want := range []string{"function Ada_Lovelace()", "const profile = {", `"github.com/ada",`, "// Skills", `const skills = ["React", "Node.js"];`} {
		if !strings.Contains(text, want) {
			t.Fatalf("缺少 %q", want)
		}
	}
}

func TestPhotoAndPlaceholder(t *testing.T) {
	t.Parallel()
	r := sampleResume()
	r.SetTemplate("corporate")
	v := render(t, r, tier.Pro, 0)
	ph := v.Root.Find(func(n *Node) bool { return n.Attrs["class"] == "resume-photo-placeholder" })
	if ph == nil || ph.TextContent() != "A" || ph.Style["border-radius"] != "50%" {
		t.Fatalf("无头像时应显示圆形首字母占位: %+v", ph)
	}

	r.PersonalInfo.Photo = "data:image/png;base64,AAAA"
	r.PersonalInfo.PhotoFilters = &resume.PhotoFilters{Scale: 1.5, Brightness: 1.1, Contrast: 1, Grayscale: 1}
	r.SetTemplate("executive")
	v = render(t, r, tier.Pro, 0)
	img := v.Root.Find(func(n *Node) bool { return n.Tag == "img" })
	if img == nil || img.Attrs["src"] != r.PersonalInfo.Photo {
		t.Fatalf("应渲染头像")
	}
	if img.Style["transform"] != "scale(1.5)" || !strings.Contains(img.Style["filter"], "grayscale(1)") {
		t.Fatalf("滤镜 = %v", img.Style)
	}
	box := v.Root.Find(func(n *Node) bool { return n.Attrs["class"] == "resume-photo" })
	if box.Style["border"] != "3px solid #c9a050" {
		t.Fatalf("executive 默认金色边框: %s", box.Style["border"])
	}
}

func TestOverflowMatchesDocumentHeight(t *testing.T) {
	t.Parallel()
	r := sampleResume()
	for i := 0; i < 30; i++ {
		r.AddExperience(resume.Experience{Company: "Co", Role: "Role", StartDate: "2000", Description: strings.Repeat("long description text ", 12)})
	}
	v := render(t, r, tier.Pro, 0)
	if !v.Overflow {
		t.Fatalf("大量内容应溢出: height=%g", v.ContentHeight)
	}
	doc, err := layout.Build(r, tier.Pro, layout.BuildOptions{})
	if err != nil {
		t.Fatalf("文档布局失败: %v", err)
	}
	if doc.ContentHeightPx() != v.ContentHeight {
		t.Fatalf("屏幕与文档测量高度不一致: %g vs %g", v.ContentHeight, doc.ContentHeightPx())
	}

	small := render(t, sampleResume(), tier.Pro, 0)
	if small.Overflow || small.ContentHeight <= 0 {
		t.Fatalf("少量内容不应溢出: %g", small.ContentHeight)
	}
}

func TestHTMLIsStable(t *testing.T) {
	t.Parallel()
	r := sampleResume()
	v := render(t, r, tier.Free, 0)
	a, err := HTML(v)
	if err != nil {
		t.Fatalf("HTML: %v", err)
	}
	b, _ := HTML(render(t, r, tier.Free, 0))
	if a != b {
		t.Fatalf("相同输入应得到相同 HTML")
	}
	if !strings.HasPrefix(a, `<div class="resume-page" data-template="classic" style="`) {
		t.Fatalf("html = %.120s", a)
	}
	if !strings.Contains(a, "<strong>programs</strong>") {
		t.Fatalf("缺少粗体标记")
	}
	doc, err := Document(v, "Ada <CV>")
	if err != nil || !strings.Contains(doc, "<title>Ada &lt;CV&gt;</title>") {
		t.Fatalf("document = %.200s (%v)", doc, err)
	}
	if _, err := HTML(nil); err == nil {
		t.Fatalf("nil 视图应报错")
	}
}

func TestRenderDoesNotMutate(t *testing.T) {
	t.Parallel()
	r := sampleResume()
	r.FontFamily = "playfair"
	r.SelectedTemplate = "executive"
	before, _ := json.Marshal(r)
	render(t, r, tier.Free, 500)
	after, _ := json.Marshal(r)
	if string(before) != string(after) {
		t.Fatalf("渲染不应修改简历")
	}
}

func TestGitHubExperienceAsComment(t *testing.T) {
	t.Parallel()
	r := sampleResume()
	r.Experience[0].Description = "First **published** algorithm"
	r.SetTemplate(string(template.GitHub))
	v := render(t, r, tier.Pro, 794)

	comment := v.Root.Find(func(n *Node) bool { return n.Attrs["data-style"] == "comment" })
	if comment == nil {
		t.Fatalf("github 模板应输出注释样式的描述")
	}
	if got := comment.TextContent(); got != "/* First published algorithm */" {
		t.Fatalf("注释内容 = %q", got)
	}
	strong := comment.Find(func(n *Node) bool { return n.Tag == "strong" })
	if strong == nil || strong.TextContent() != "published" {
		t.Fatalf("注释中的粗体应被解析")
	}
	if !strings.Contains(v.Root.TextContent(), "@ Babbage") {
		t.Fatalf("github 模板的公司应写作 @ 公司")
	}
}
