package compose

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ByLCY/vitae/fonts"
	"github.com/ByLCY/vitae/resume"
	"github.com/ByLCY/vitae/scale"
	"github.com/ByLCY/vitae/template"
	"github.com/ByLCY/vitae/textfmt"
	"github.com/ByLCY/vitae/tier"
)

// DefaultBrandingText 是所有模板共用的品牌页脚文案。
const DefaultBrandingText = "Powered by LoneStar"

// Kind 区分分区内容的形态。
type Kind int

const (
	KindEducation Kind = iota
	KindExperience
	KindProjects
	KindSkills
	KindCustom
)

func (k Kind) String() string {
	switch k {
	case KindEducation:
		return "education"
	case KindExperience:
		return "experience"
	case KindProjects:
		return "projects"
	case KindSkills:
		return "skills"
	default:
		return "custom"
	}
}

// Entry 是分区中的一条记录，字段按语义而不是来源命名：
// 教育 Title=学校 Subtitle=学位；经历 Title=职位 Subtitle=公司；
// 项目 Title=名称 Tech=技术栈；自定义 Title=名称 Place=城市。
type Entry struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Subtitle    string         `json:"subtitle,omitempty"`
	Dates       string         `json:"dates,omitempty"`
	Place       string         `json:"place,omitempty"`
	Tech        string         `json:"tech,omitempty"`
	Link        string         `json:"link,omitempty"`
	LinkText    string         `json:"linkText,omitempty"`
	Description string         `json:"description,omitempty"`
	Spans       []textfmt.Span `json:"-"`
}

// Block 是一个待绘制的分区。
type Block struct {
	ID      string   `json:"id"`
	Kind    Kind     `json:"kind"`
	Title   string   `json:"title"`
	Scale   float64  `json:"scale"`
	Entries []Entry  `json:"entries,omitempty"`
	Skills  []string `json:"skills,omitempty"`
}

// Contact 是一条联系方式。Display 已去掉链接协议头。
type Contact struct {
	Kind    string `json:"kind"`
	Value   string `json:"value"`
	Display string `json:"display"`
}

// Profile 是页眉/个人信息块的内容。
type Profile struct {
	FullName string
	JobTitle string
	Summary  []textfmt.Span
	Contacts []Contact
	Photo    string
	Filters  resume.PhotoFilters
	Initial  string
	Scale    float64
}

// Options 控制解析策略。
type Options struct {
	// EnforceTemplateTier 为真时免费用户的付费模板回退为 classic；默认放行。
	EnforceTemplateTier bool
	BrandingText        string
}

// Plan 是一次渲染所需的全部决策。
type Plan struct {
	Template     template.Spec
	Requested    string // 简历中存储的模板 id
	Font         fonts.Option
	Theme        string
	Accent       string
	Branding     bool
	BrandingText string
	Profile      Profile
	Partition    Partition
	Blocks       map[string]Block
	Scales       scale.Factors
}

// Resolve 从简历快照与用户等级推导 Plan。它只读取简历。
func Resolve(r *resume.Resume, t tier.Tier, opts Options) Plan {
	spec := template.Lookup(r.SelectedTemplate)
	if !tier.TemplateAllowed(spec.IsPremium, t, opts.EnforceTemplateTier) {
		spec = template.Lookup(string(template.Classic))
	}
	theme := spec.Theme(r.ThemeColor)
	factors := scale.NewFactors(1, r.ContentScale, r.SectionScales)

	p := Plan{
		Template:     spec,
		Requested:    r.SelectedTemplate,
		Font:         fonts.Effective(r.FontFamily, t),
		Theme:        theme,
		Accent:       spec.AccentColor(theme),
		Branding:     tier.ShowBranding(r.IsBrandingEnabled, t),
		BrandingText: opts.BrandingText,
		Profile:      profileOf(r.PersonalInfo, factors.SectionOf(resume.SectionPersonal)),
		Blocks:       map[string]Block{},
		Scales:       factors,
	}
	if p.BrandingText == "" {
		p.BrandingText = DefaultBrandingText
	}

	full := Compose(r.SectionOrder, spec.Columns, r.IsKnownSection)
	p.Partition = full.filter(r.HasContent)
	for _, id := range p.Partition.IDs() {
		p.Blocks[id] = blockOf(r, id, factors.SectionOf(id))
	}
	return p
}

// Sidebar 返回侧栏分区。
func (p Plan) Sidebar() []Block { return p.blocks(p.Partition.Sidebar) }

// Main 返回主栏分区。
func (p Plan) Main() []Block { return p.blocks(p.Partition.Main) }

// Linear 返回线性模板的分区。
func (p Plan) Linear() []Block { return p.blocks(p.Partition.Linear) }

// Ordered 返回全部分区。
func (p Plan) Ordered() []Block { return p.blocks(p.Partition.IDs()) }

// Block 按 id 取分区。
func (p Plan) Block(id string) (Block, bool) {
	b, ok := p.Blocks[id]
	return b, ok
}

func (p Plan) blocks(ids []string) []Block {
	out := make([]Block, 0, len(ids))
	for _, id := range ids {
		if b, ok := p.Blocks[id]; ok {
			out = append(out, b)
		}
	}
	return out
}

func blockOf(r *resume.Resume, id string, sectionScale float64) Block {
	b := Block{ID: id, Title: Title(r, id), Scale: sectionScale}
	switch id {
	case resume.SectionEducation:
		b.Kind = KindEducation
		for _, e := range r.Education {
			b.Entries = append(b.Entries, Entry{
				ID:       e.ID,
				Title:    e.School,
				Subtitle: e.Degree,
				Dates:    Dates(e.StartDate, e.EndDate, e.Current),
			})
		}
	case resume.SectionExperience:
		b.Kind = KindExperience
		for _, e := range r.Experience {
			b.Entries = append(b.Entries, Entry{
				ID:          e.ID,
				Title:       e.Role,
				Subtitle:    e.Company,
				Dates:       Dates(e.StartDate, e.EndDate, e.Current),
				Description: e.Description,
				Spans:       textfmt.Parse(e.Description),
			})
		}
	case resume.SectionProjects:
		b.Kind = KindProjects
		for _, pr := range r.Projects {
			b.Entries = append(b.Entries, Entry{
				ID:          pr.ID,
				Title:       pr.Name,
				Tech:        pr.Technologies,
				Link:        pr.Link,
				LinkText:    pr.LinkText,
				Description: pr.Description,
				Spans:       textfmt.Parse(pr.Description),
			})
		}
	case resume.SectionSkills:
		b.Kind = KindSkills
		b.Skills = resume.Skills(r.Skills)
	default:
		b.Kind = KindCustom
		if cs, ok := r.CustomSection(id); ok {
			for _, it := range cs.Items {
				b.Entries = append(b.Entries, Entry{
					ID:          it.ID,
					Title:       it.Name,
					Dates:       it.Date,
					Place:       it.City,
					Description: it.Description,
					Spans:       textfmt.Parse(it.Description),
				})
			}
		}
	}
	return b
}

func profileOf(info resume.PersonalInfo, sectionScale float64) Profile {
	p := Profile{
		FullName: info.FullName,
		JobTitle: info.JobTitle,
		Summary:  textfmt.Parse(info.Summary),
		Photo:    info.Photo,
		Filters:  info.Filters(),
		Scale:    sectionScale,
	}
	if r, _ := utf8.DecodeRuneInString(strings.TrimSpace(info.FullName)); r != utf8.RuneError {
		p.Initial = string(unicode.ToUpper(r))
	}
	for _, c := range []Contact{
		{Kind: "email", Value: info.Email},
		{Kind: "phone", Value: info.Phone},
		{Kind: "location", Value: info.Location},
		{Kind: "linkedin", Value: info.LinkedIn},
		{Kind: "website", Value: info.Website},
		{Kind: "github", Value: info.GitHub},
	} {
		if c.Value == "" {
			continue
		}
		c.Display = c.Value
		switch c.Kind {
		case "linkedin", "website", "github":
			c.Display = StripScheme(c.Value)
		}
		p.Contacts = append(p.Contacts, c)
	}
	return p
}

// Contact 按类别取联系方式。
func (p Profile) Contact(kind string) (Contact, bool) {
	for _, c := range p.Contacts {
		if c.Kind == kind {
			return c, true
		}
	}
	return Contact{}, false
}

var schemePattern = regexp.MustCompile(`^https?://(www\.)?`)

// StripScheme 去掉链接的 http(s):// 与 www. 前缀，用于显示。
func StripScheme(link string) string {
	return schemePattern.ReplaceAllString(strings.TrimSpace(link), "")
}

// Dates 拼接起止日期；进行中的条目结束日期显示为 Present。
func Dates(start, end string, current bool) string {
	if current && end == "" {
		end = "Present"
	}
	switch {
	case start != "" && end != "":
		return start + " - " + end
	case start != "":
		return start
	default:
		return end
	}
}

// Fields 按模板与分区类型决定条目的标题、副标题与右侧信息，两个渲染目标共用。
func (e Entry) Fields(id template.ID, kind Kind) (title, subtitle, right string) {
	switch kind {
	case KindExperience:
		switch id {
		case template.Executive:
			return joinNonEmpty(" | ", e.Subtitle, e.Title), "", e.Dates
		case template.GitHub:
			return e.Title, atPrefix(e.Subtitle), e.Dates
		}
		return e.Title, e.Subtitle, e.Dates
	case KindEducation:
		if id == template.Corporate {
			return e.Subtitle, e.Title, e.Dates
		}
		return e.Title, e.Subtitle, e.Dates
	case KindProjects:
		link := e.LinkText
		if link == "" {
			link = StripScheme(e.Link)
		}
		return e.Title, "", link
	default:
		return e.Title, "", e.Dates
	}
}

// PlaceLine 返回自定义条目的地点行，github 模板写作 "@ 地点"。
func (e Entry) PlaceLine(id template.ID) string {
	if id == template.GitHub {
		return atPrefix(e.Place)
	}
	return e.Place
}

// CodeComment 把描述包进 /* */，描述本身仍解析粗体/斜体，供代码块样式使用。
func (e Entry) CodeComment() []textfmt.Span {
	return textfmt.Wrap("/* ", e.Description, " */")
}

func atPrefix(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	return "@ " + s
}

func joinNonEmpty(sep string, parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, sep)
}
