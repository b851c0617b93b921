package resume

import (
	"encoding/json"
	"math"
	"time"
)

// New 创建结构完整的简历：切片与映射均非 nil，分区顺序、模板、字体等取默认值。
func New(id string) *Resume {
	r := &Resume{ID: id}
	r.applyDefaults()
	r.LastModified = time.Now().UnixMilli()
	return r
}

func (r *Resume) applyDefaults() {
	r.Name = "Untitled Resume"
	r.PersonalInfo = PersonalInfo{}
	f := DefaultPhotoFilters()
	r.PersonalInfo.PhotoFilters = &f
	r.Education = []Education{}
	r.Experience = []Experience{}
	r.Projects = []Project{}
	r.Skills = ""
	r.CustomSections = []CustomSection{}
	r.SectionOrder = append([]string(nil), DefaultSectionOrder...)
	r.SectionTitles = map[string]string{}
	r.SelectedTemplate = DefaultTemplate
	r.ThemeColor = DefaultThemeColor
	r.FontFamily = DefaultFont
	r.ContentScale = 1
	r.SectionScales = map[string]float64{}
	r.IsBrandingEnabled = true
	r.IsPublic = false
	r.AnalysisResult = nil
}

// Normalize 修复从存储或网络解码而来的快照，使其满足模型不变式。
// 它不会改变 lastModified。
func (r *Resume) Normalize() {
	if r.Education == nil {
		r.Education = []Education{}
	}
	if r.Experience == nil {
		r.Experience = []Experience{}
	}
	if r.Projects == nil {
		r.Projects = []Project{}
	}
	if r.CustomSections == nil {
		r.CustomSections = []CustomSection{}
	}
	for i := range r.CustomSections {
		if r.CustomSections[i].Items == nil {
			r.CustomSections[i].Items = []CustomItem{}
		}
	}
	if r.SectionTitles == nil {
		r.SectionTitles = map[string]string{}
	}
	if r.SectionScales == nil {
		r.SectionScales = map[string]float64{}
	}
	if r.SectionOrder == nil {
		r.SectionOrder = append([]string(nil), DefaultSectionOrder...)
	}
	if r.SelectedTemplate == "" {
		r.SelectedTemplate = DefaultTemplate
	}
	if r.FontFamily == "" {
		r.FontFamily = DefaultFont
	}
	if r.ContentScale == 0 {
		r.ContentScale = 1
	}
	r.ContentScale = ClampScale(r.ContentScale)

	seen := make(map[string]bool, len(r.SectionOrder))
	order := make([]string, 0, len(r.SectionOrder)+1)
	for _, id := range r.SectionOrder {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		order = append(order, id)
	}
	if !seen[SectionPersonal] {
		order = append([]string{SectionPersonal}, order...)
	}
	r.SectionOrder = order

	for id, v := range r.SectionScales {
		if !r.IsKnownSection(id) {
			delete(r.SectionScales, id)
			continue
		}
		r.SectionScales[id] = ClampScale(v)
	}
}

// ClampScale 将缩放值限制在 [MinScale, MaxScale]；非法值视为 1。
func ClampScale(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 1
	}
	return math.Min(MaxScale, math.Max(MinScale, v))
}

// Clone 深拷贝简历，渲染与导出基于快照而不是共享状态。
func (r *Resume) Clone() *Resume {
	if r == nil {
		return nil
	}
	out := *r
	if r.PersonalInfo.PhotoFilters != nil {
		f := *r.PersonalInfo.PhotoFilters
		out.PersonalInfo.PhotoFilters = &f
	}
	out.Education = append([]Education(nil), r.Education...)
	out.Experience = append([]Experience(nil), r.Experience...)
	out.Projects = append([]Project(nil), r.Projects...)
	out.CustomSections = make([]CustomSection, len(r.CustomSections))
	for i, cs := range r.CustomSections {
		cs.Items = append([]CustomItem(nil), cs.Items...)
		out.CustomSections[i] = cs
	}
	out.SectionOrder = append([]string(nil), r.SectionOrder...)
	out.SectionTitles = make(map[string]string, len(r.SectionTitles))
	for k, v := range r.SectionTitles {
		out.SectionTitles[k] = v
	}
	out.SectionScales = make(map[string]float64, len(r.SectionScales))
	for k, v := range r.SectionScales {
		out.SectionScales[k] = v
	}
	return &out
}

// Decode 解析 JSON 快照并做规范化。缺失的字段保留默认值（例如 isBrandingEnabled 缺省为 true）。
func Decode(data []byte) (*Resume, error) {
	var r Resume
	r.applyDefaults()
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	r.Normalize()
	return &r, nil
}
