// Package compose 汇总与渲染目标无关的布局决策：分栏、标题、字体/品牌替换与缩放。
// 两个渲染器都只消费 Plan，不再各自重复判断。
package compose

import (
	"github.com/ByLCY/vitae/resume"
	"github.com/ByLCY/vitae/template"
)

// Partition 是分区的落位结果。双栏模板填充 Sidebar/Main，线性模板只填充 Linear。
type Partition struct {
	Sidebar []string `json:"sidebar"`
	Main    []string `json:"main"`
	Linear  []string `json:"linear,omitempty"`
}

// Compose 按分栏策略拆分 sectionOrder：
// personal 永远排除，未知 id 丢弃，重复 id 只保留首次，组内保持原有相对顺序。
func Compose(order []string, policy template.ColumnPolicy, known func(id string) bool) Partition {
	p := Partition{Sidebar: []string{}, Main: []string{}}
	seen := make(map[string]bool, len(order))
	for _, id := range order {
		if id == resume.SectionPersonal || seen[id] {
			continue
		}
		if known != nil && !known(id) {
			continue
		}
		seen[id] = true
		switch {
		case policy.Linear:
			p.Linear = append(p.Linear, id)
		case policy.InSidebar(id):
			p.Sidebar = append(p.Sidebar, id)
		default:
			p.Main = append(p.Main, id)
		}
	}
	if policy.Linear && p.Linear == nil {
		p.Linear = []string{}
	}
	return p
}

// IDs 返回按绘制顺序排列的全部分区：线性模板即 Linear，双栏模板为侧栏在前。
func (p Partition) IDs() []string {
	if p.Linear != nil {
		return append([]string(nil), p.Linear...)
	}
	out := make([]string, 0, len(p.Sidebar)+len(p.Main))
	out = append(out, p.Sidebar...)
	return append(out, p.Main...)
}

func (p Partition) filter(keep func(id string) bool) Partition {
	pick := func(ids []string) []string {
		if ids == nil {
			return nil
		}
		out := make([]string, 0, len(ids))
		for _, id := range ids {
			if keep(id) {
				out = append(out, id)
			}
		}
		return out
	}
	return Partition{Sidebar: pick(p.Sidebar), Main: pick(p.Main), Linear: pick(p.Linear)}
}

var defaultTitles = map[string]string{
	resume.SectionPersonal:   "Personal Information",
	resume.SectionEducation:  "Education",
	resume.SectionExperience: "Professional Experience",
	resume.SectionProjects:   "Projects",
	resume.SectionSkills:     "Skills",
}

// Title 返回分区显示标题：用户覆盖 > 固定分区默认标题 > 自定义分区自身标题。
func Title(r *resume.Resume, id string) string {
	if t := r.SectionTitles[id]; t != "" {
		return t
	}
	if t, ok := defaultTitles[id]; ok {
		return t
	}
	if cs, ok := r.CustomSection(id); ok {
		return cs.Title
	}
	return ""
}
