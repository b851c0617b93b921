package compose

import (
	"reflect"
	"testing"

	"github.com/ByLCY/vitae/resume"
	"github.com/ByLCY/vitae/template"
	"github.com/ByLCY/vitae/textfmt"
	"github.com/ByLCY/vitae/tier"
)

func sampleResume() *resume.Resume {
	r := resume.New("r1")
	r.PersonalInfo.FullName = "ada lovelace"
	r.PersonalInfo.JobTitle = "Engineer"
	r.PersonalInfo.Email = "ada@example.com"
	r.PersonalInfo.LinkedIn = "https://www.linkedin.com/in/ada"
	r.PersonalInfo.Summary = "Built **engines**"
	r.Skills = "React, Node.js"
	r.AddExperience(resume.Experience{Company: "Analytical", Role: "Programmer", StartDate: "1842", Current: true, Description: "Wrote *notes*"})
	return r
}

func TestComposeRules(t *testing.T) {
	t.Parallel()
	known := func(id string) bool { return id != "ghost" }
	order := []string{"personal", "skills", "experience", "ghost", "skills", "custom-1", "education"}

	got := Compose(order, template.DefaultColumnPolicy(), known)
	if !reflect.DeepEqual(got.Sidebar, []string{"skills", "education"}) {
		t.Fatalf("sidebar = %v", got.Sidebar)
	}
	if !reflect.DeepEqual(got.Main, []string{"experience", "custom-1"}) {
		t.Fatalf("main = %v", got.Main)
	}
	if got.Linear != nil {
		t.Fatalf("双栏策略不应填充 Linear: %v", got.Linear)
	}

	lin := Compose(order, template.ColumnPolicy{Linear: true}, known)
	if !reflect.DeepEqual(lin.Linear, []string{"skills", "experience", "custom-1", "education"}) {
		t.Fatalf("linear = %v", lin.Linear)
	}
	if len(lin.Sidebar) != 0 || len(lin.Main) != 0 {
		t.Fatalf("线性策略不应填充侧栏/主栏")
	}
}

func TestResolveModernScenario(t *testing.T) {
	t.Parallel()
	r := sampleResume()
	r.SectionOrder = []string{"personal", "skills", "experience"}
	r.SelectedTemplate = "modern"

	p := Resolve(r, tier.Free, Options{})
	if p.Template.ID != template.Modern {
		t.Fatalf("template = %s", p.Template.ID)
	}
	if !reflect.DeepEqual(p.Partition.Sidebar, []string{"skills"}) || !reflect.DeepEqual(p.Partition.Main, []string{"experience"}) {
		t.Fatalf("partition = %+v", p.Partition)
	}
	skills, _ := p.Block("skills")
	if !reflect.DeepEqual(skills.Skills, []string{"React", "Node.js"}) {
		t.Fatalf("skills = %v", skills.Skills)
	}
	exp, _ := p.Block("experience")
	if exp.Title != "Professional Experience" || exp.Entries[0].Dates != "1842 - Present" {
		t.Fatalf("experience block = %+v", exp)
	}
	if len(exp.Entries[0].Spans) != 2 {
		t.Fatalf("description spans = %+v", exp.Entries[0].Spans)
	}
}

func TestResolveDropsEmptySections(t *testing.T) {
	t.Parallel()
	r := sampleResume()
	r.AddSection(resume.SectionProjects)
	p := Resolve(r, tier.Pro, Options{})
	for _, id := range p.Partition.IDs() {
		if id == resume.SectionProjects || id == resume.SectionEducation {
			t.Fatalf("空分区 %s 不应出现", id)
		}
	}
	if _, ok := p.Block(resume.SectionProjects); ok {
		t.Fatalf("空分区不应生成 Block")
	}
}

func TestResolveHonorsSectionOrderOnly(t *testing.T) {
	t.Parallel()
	r := sampleResume()
	r.RemoveSection(resume.SectionExperience)
	p := Resolve(r, tier.Pro, Options{})
	if _, ok := p.Block(resume.SectionExperience); ok {
		t.Fatalf("不在 sectionOrder 中的分区不应渲染")
	}
}

func TestResolveTierSubstitution(t *testing.T) {
	t.Parallel()
	r := sampleResume()
	r.FontFamily = "playfair"
	r.IsBrandingEnabled = false
	r.SelectedTemplate = "executive"

	free := Resolve(r, tier.Free, Options{})
	if free.Font.ID != "inter" || !free.Branding {
		t.Fatalf("free: font=%s branding=%v", free.Font.ID, free.Branding)
	}
	if free.Template.ID != template.Executive {
		t.Fatalf("默认不在渲染时限制付费模板")
	}
	if r.FontFamily != "playfair" {
		t.Fatalf("渲染不应修改存储的字体")
	}

	pro := Resolve(r, tier.Pro, Options{})
	if pro.Font.ID != "playfair" || pro.Branding {
		t.Fatalf("pro: font=%s branding=%v", pro.Font.ID, pro.Branding)
	}
	if pro.Accent != "#c9a050" {
		t.Fatalf("executive 强调色 = %s", pro.Accent)
	}

	enforced := Resolve(r, tier.Free, Options{EnforceTemplateTier: true})
	if enforced.Template.ID != template.Classic || enforced.Requested != "executive" {
		t.Fatalf("启用限制后应回退到 classic，得到 %s", enforced.Template.ID)
	}
	if enforced.BrandingText != DefaultBrandingText {
		t.Fatalf("branding text = %q", enforced.BrandingText)
	}
}

func TestResolveUnknownTemplate(t *testing.T) {
	t.Parallel()
	r := sampleResume()
	r.SelectedTemplate = "unknown-id"
	if p := Resolve(r, tier.Free, Options{}); p.Template.ID != template.Classic || p.Partition.Linear == nil {
		t.Fatalf("未知模板应回退到 classic 线性布局: %+v", p.Partition)
	}
}

func TestProfile(t *testing.T) {
	t.Parallel()
	r := sampleResume()
	r.SectionScales[resume.SectionPersonal] = 1.2
	p := Resolve(r, tier.Free, Options{})
	if p.Profile.Initial != "A" {
		t.Fatalf("initial = %q", p.Profile.Initial)
	}
	li, ok := p.Profile.Contact("linkedin")
	if !ok || li.Display != "linkedin.com/in/ada" {
		t.Fatalf("linkedin = %+v", li)
	}
	if len(p.Profile.Contacts) != 2 {
		t.Fatalf("contacts = %+v", p.Profile.Contacts)
	}
	if p.Profile.Scale != 1.2 {
		t.Fatalf("personal scale = %g", p.Profile.Scale)
	}
}

func TestTitle(t *testing.T) {
	t.Parallel()
	r := sampleResume()
	id := r.AddCustomSection("Awards")
	if Title(r, id) != "Awards" || Title(r, "skills") != "Skills" {
		t.Fatalf("默认标题错误")
	}
	r.RenameSection("skills", "Toolbox")
	if Title(r, "skills") != "Toolbox" {
		t.Fatalf("覆盖标题未生效")
	}
}

func TestDates(t *testing.T) {
	t.Parallel()
	cases := []struct {
		start, end string
		current    bool
		want       string
	}{
		{"2020", "2022", false, "2020 - 2022"},
		{"2020", "", true, "2020 - Present"},
		{"2020", "", false, "2020"},
		{"", "2022", false, "2022"},
		{"", "", false, ""},
	}
	for _, c := range cases {
		if got := Dates(c.start, c.end, c.current); got != c.want {
			t.Fatalf("Dates(%q,%q,%v) = %q, want %q", c.start, c.end, c.current, got, c.want)
		}
	}
}

func TestEntryFields(t *testing.T) {
	t.Parallel()
	exp := Entry{Title: "Programmer", Subtitle: "Analytical", Dates: "1842"}
	if ti, sub, right := exp.Fields(template.Executive, KindExperience); ti != "Analytical | Programmer" || sub != "" || right != "1842" {
		t.Fatalf("executive experience = %q %q %q", ti, sub, right)
	}
	if ti, sub, _ := exp.Fields(template.Modern, KindExperience); ti != "Programmer" || sub != "Analytical" {
		t.Fatalf("modern experience = %q %q", ti, sub)
	}
	edu := Entry{Title: "MIT", Subtitle: "BSc"}
	if ti, sub, _ := edu.Fields(template.Corporate, KindEducation); ti != "BSc" || sub != "MIT" {
		t.Fatalf("corporate education = %q %q", ti, sub)
	}
	proj := Entry{Title: "Vitae", Link: "https://www.example.com/vitae"}
	if _, _, right := proj.Fields(template.Classic, KindProjects); right != "example.com/vitae" {
		t.Fatalf("project link = %q", right)
	}
	proj.LinkText = "Demo"
	if _, _, right := proj.Fields(template.Classic, KindProjects); right != "Demo" {
		t.Fatalf("project link text = %q", right)
	}
}

func TestGitHubCodeFields(t *testing.T) {
	t.Parallel()
	exp := Entry{Title: "Programmer", Subtitle: "Analytical", Description: "Built **engines**"}
	if ti, sub, _ := exp.Fields(template.GitHub, KindExperience); ti != "Programmer" || sub != "@ Analytical" {
		t.Fatalf("github experience = %q %q", ti, sub)
	}
	if _, sub, _ := (Entry{Title: "x"}).Fields(template.GitHub, KindExperience); sub != "" {
		t.Fatalf("无公司时不应输出 @: %q", sub)
	}
	spans := exp.CodeComment()
	if textfmt.Join(spans) != "/* Built engines */" {
		t.Fatalf("comment = %q", textfmt.Join(spans))
	}
	if len(spans) != 3 || spans[1].Kind != textfmt.Bold || spans[1].Text != "engines" {
		t.Fatalf("注释中的粗体应被解析: %+v", spans)
	}
	item := Entry{Place: "London"}
	if item.PlaceLine(template.GitHub) != "@ London" || item.PlaceLine(template.Classic) != "London" {
		t.Fatalf("place = %q / %q", item.PlaceLine(template.GitHub), item.PlaceLine(template.Classic))
	}
}
