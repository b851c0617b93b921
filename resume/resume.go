package resume

import "time"

// 该文件定义简历的规范数据模型，渲染核心只读取它，不持有它。

// 固定分区标识。自定义分区使用 custom- 前缀的生成 id。
const (
	SectionPersonal   = "personal"
	SectionEducation  = "education"
	SectionExperience = "experience"
	SectionProjects   = "projects"
	SectionSkills     = "skills"
)

// Scale bounds shared by contentScale and sectionScales.
const (
	MinScale = 0.5
	MaxScale = 1.5
)

// Defaults applied by New and Normalize.
const (
	DefaultTemplate   = "classic"
	DefaultThemeColor = "#3b82f6"
	DefaultFont       = "inter"
	CustomIDPrefix    = "custom-"
)

// DefaultSectionOrder 是新建简历的分区顺序。
var DefaultSectionOrder = []string{
	SectionPersonal,
	SectionEducation,
	SectionExperience,
	SectionProjects,
	SectionSkills,
}

// Resume 是简历的根聚合。
type Resume struct {
	ID                string             `json:"id"`
	Name              string             `json:"name,omitempty"`
	PersonalInfo      PersonalInfo       `json:"personalInfo"`
	Education         []Education        `json:"education"`
	Experience        []Experience       `json:"experience"`
	Projects          []Project          `json:"projects"`
	Skills            string             `json:"skills"`
	CustomSections    []CustomSection    `json:"customSections"`
	SectionOrder      []string           `json:"sectionOrder"`
	SectionTitles     map[string]string  `json:"sectionTitles"`
	SelectedTemplate  string             `json:"selectedTemplate"`
	ThemeColor        string             `json:"themeColor"`
	FontFamily        string             `json:"fontFamily"`
	ContentScale      float64            `json:"contentScale"`
	SectionScales     map[string]float64 `json:"sectionScales"`
	IsBrandingEnabled bool               `json:"isBrandingEnabled"`
	IsPublic          bool               `json:"isPublic"`
	AnalysisResult    any                `json:"analysisResult,omitempty"`
	LastModified      int64              `json:"lastModified"`
}

// PersonalInfo 对应页眉/个人信息块。
type PersonalInfo struct {
	FullName     string        `json:"fullName"`
	JobTitle     string        `json:"jobTitle"`
	Email        string        `json:"email"`
	Phone        string        `json:"phone"`
	Location     string        `json:"location"`
	LinkedIn     string        `json:"linkedin"`
	Website      string        `json:"website"`
	GitHub       string        `json:"github"`
	Summary      string        `json:"summary"`
	Photo        string        `json:"photo,omitempty"` // data URI
	PhotoFilters *PhotoFilters `json:"photoFilters,omitempty"`
}

// PhotoFilters 记录头像的显示参数。
type PhotoFilters struct {
	Scale        float64 `json:"scale"`
	Brightness   float64 `json:"brightness"`
	Contrast     float64 `json:"contrast"`
	Grayscale    float64 `json:"grayscale"`
	BorderWidth  float64 `json:"borderWidth"`
	BorderColor  string  `json:"borderColor"`
	BorderRadius float64 `json:"borderRadius"`
}

type Education struct {
	ID        string `json:"id"`
	School    string `json:"school"`
	Degree    string `json:"degree"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Current   bool   `json:"current,omitempty"`
}

type Experience struct {
	ID          string `json:"id"`
	Company     string `json:"company"`
	Role        string `json:"role"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Current     bool   `json:"current,omitempty"`
	Description string `json:"description"`
}

type Project struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Technologies string `json:"technologies"`
	Link         string `json:"link"`
	LinkText     string `json:"linkText,omitempty"`
}

// CustomSection 是用户自定义的分区。
type CustomSection struct {
	ID    string       `json:"id"`
	Title string       `json:"title"`
	Items []CustomItem `json:"items"`
}

type CustomItem struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Date        string `json:"date"`
	City        string `json:"city,omitempty"`
}

// DefaultPhotoFilters 返回头像滤镜默认值。
func DefaultPhotoFilters() PhotoFilters {
	return PhotoFilters{
		Scale:        1,
		Brightness:   1,
		Contrast:     1,
		Grayscale:    0,
		BorderWidth:  0,
		BorderColor:  "#ffffff",
		BorderRadius: 50,
	}
}

// Filters 返回头像滤镜；未设置时返回默认值。
func (p PersonalInfo) Filters() PhotoFilters {
	if p.PhotoFilters == nil {
		return DefaultPhotoFilters()
	}
	f := *p.PhotoFilters
	if f.Scale <= 0 {
		f.Scale = 1
	}
	if f.Brightness <= 0 {
		f.Brightness = 1
	}
	if f.Contrast <= 0 {
		f.Contrast = 1
	}
	return f
}

// HasContact reports whether any contact line would be rendered.
func (p PersonalInfo) HasContact() bool {
	return p.Email != "" || p.Phone != "" || p.Location != "" ||
		p.LinkedIn != "" || p.Website != "" || p.GitHub != ""
}

// IsFixedSection 判断 id 是否为固定分区。
func IsFixedSection(id string) bool {
	switch id {
	case SectionPersonal, SectionEducation, SectionExperience, SectionProjects, SectionSkills:
		return true
	}
	return false
}

// CustomSection 按 id 查找自定义分区。
func (r *Resume) CustomSection(id string) (*CustomSection, bool) {
	for i := range r.CustomSections {
		if r.CustomSections[i].ID == id {
			return &r.CustomSections[i], true
		}
	}
	return nil, false
}

// IsKnownSection 判断 id 是固定分区或已存在的自定义分区。
func (r *Resume) IsKnownSection(id string) bool {
	if IsFixedSection(id) {
		return true
	}
	_, ok := r.CustomSection(id)
	return ok
}

// HasContent 实现“存在但为空等同于缺席”的规则。
func (r *Resume) HasContent(id string) bool {
	switch id {
	case SectionPersonal:
		return true
	case SectionEducation:
		return len(r.Education) > 0
	case SectionExperience:
		return len(r.Experience) > 0
	case SectionProjects:
		return len(r.Projects) > 0
	case SectionSkills:
		return len(Skills(r.Skills)) > 0
	}
	cs, ok := r.CustomSection(id)
	return ok && len(cs.Items) > 0
}

// SectionScale 返回分区缩放，缺省为 1。
func (r *Resume) SectionScale(id string) float64 {
	if v, ok := r.SectionScales[id]; ok && v > 0 {
		return ClampScale(v)
	}
	return 1
}

func (r *Resume) touch() {
	r.LastModified = time.Now().UnixMilli()
}
