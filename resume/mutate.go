package resume

import (
	"strings"

	"github.com/google/uuid"
)

// 以下修改器对应编辑器中的操作，均会更新 lastModified。
// 缩放值在这里夹紧，渲染器不做夹紧。

// SetContentScale 设置整体内容缩放。
func (r *Resume) SetContentScale(v float64) {
	r.ContentScale = ClampScale(v)
	r.touch()
}

// SetSectionScale 设置单个分区的缩放；未知分区 id 会被忽略。
func (r *Resume) SetSectionScale(id string, v float64) bool {
	if !r.IsKnownSection(id) {
		return false
	}
	if r.SectionScales == nil {
		r.SectionScales = map[string]float64{}
	}
	r.SectionScales[id] = ClampScale(v)
	r.touch()
	return true
}

// SetTemplate 切换模板，同时重置整体与分区缩放。
func (r *Resume) SetTemplate(id string) {
	r.SelectedTemplate = id
	r.ContentScale = 1
	r.SectionScales = map[string]float64{}
	r.touch()
}

func (r *Resume) SetThemeColor(color string) {
	r.ThemeColor = color
	r.touch()
}

// SetFont 只记录用户选择；付费字体的降级发生在渲染阶段。
func (r *Resume) SetFont(id string) {
	r.FontFamily = id
	r.touch()
}

func (r *Resume) SetBranding(enabled bool) {
	r.IsBrandingEnabled = enabled
	r.touch()
}

func (r *Resume) SetPersonalInfo(info PersonalInfo) {
	if info.PhotoFilters == nil {
		info.PhotoFilters = r.PersonalInfo.PhotoFilters
	}
	r.PersonalInfo = info
	r.touch()
}

func (r *Resume) SetSkills(raw string) {
	r.Skills = raw
	r.touch()
}

// AddSection 将分区加入顺序末尾；已存在时不做任何事。
func (r *Resume) AddSection(id string) bool {
	if id == "" || !r.IsKnownSection(id) || r.sectionIndex(id) >= 0 {
		return false
	}
	r.SectionOrder = append(r.SectionOrder, id)
	r.touch()
	return true
}

// RemoveSection 将分区从顺序中移除。固定分区只是隐藏，
// 自定义分区的数据、标题与缩放会一并删除。personal 不可移除。
func (r *Resume) RemoveSection(id string) bool {
	if id == SectionPersonal {
		return false
	}
	removed := false
	if idx := r.sectionIndex(id); idx >= 0 {
		r.SectionOrder = append(r.SectionOrder[:idx], r.SectionOrder[idx+1:]...)
		removed = true
	}
	if !IsFixedSection(id) {
		for i := range r.CustomSections {
			if r.CustomSections[i].ID == id {
				r.CustomSections = append(r.CustomSections[:i], r.CustomSections[i+1:]...)
				removed = true
				break
			}
		}
		delete(r.SectionTitles, id)
		delete(r.SectionScales, id)
	}
	if removed {
		r.touch()
	}
	return removed
}

// MoveSection 把 from 位置的分区移动到 to 位置。
func (r *Resume) MoveSection(from, to int) bool {
	if !moveItem(r.SectionOrder, from, to) {
		return false
	}
	r.touch()
	return true
}

// RenameSection 覆盖分区显示标题；title 为空时恢复默认标题。
func (r *Resume) RenameSection(id, title string) bool {
	if !r.IsKnownSection(id) {
		return false
	}
	if r.SectionTitles == nil {
		r.SectionTitles = map[string]string{}
	}
	title = strings.TrimSpace(title)
	if title == "" {
		delete(r.SectionTitles, id)
	} else {
		r.SectionTitles[id] = title
	}
	r.touch()
	return true
}

// AddCustomSection 新建自定义分区并追加到顺序末尾，返回新 id。
func (r *Resume) AddCustomSection(title string) string {
	id := CustomIDPrefix + strings.ReplaceAll(uuid.NewString(), "-", "")[:7]
	for r.IsKnownSection(id) {
		id = CustomIDPrefix + strings.ReplaceAll(uuid.NewString(), "-", "")[:7]
	}
	r.CustomSections = append(r.CustomSections, CustomSection{ID: id, Title: title, Items: []CustomItem{}})
	r.SectionOrder = append(r.SectionOrder, id)
	r.touch()
	return id
}

func (r *Resume) AddCustomItem(sectionID string, item CustomItem) (string, bool) {
	cs, ok := r.CustomSection(sectionID)
	if !ok {
		return "", false
	}
	item.ID = newEntryID(item.ID, func(id string) bool {
		for _, it := range cs.Items {
			if it.ID == id {
				return true
			}
		}
		return false
	})
	cs.Items = append(cs.Items, item)
	r.touch()
	return item.ID, true
}

func (r *Resume) UpdateCustomItem(sectionID string, item CustomItem) bool {
	cs, ok := r.CustomSection(sectionID)
	if !ok {
		return false
	}
	for i := range cs.Items {
		if cs.Items[i].ID == item.ID {
			cs.Items[i] = item
			r.touch()
			return true
		}
	}
	return false
}

func (r *Resume) RemoveCustomItem(sectionID, itemID string) bool {
	cs, ok := r.CustomSection(sectionID)
	if !ok {
		return false
	}
	for i := range cs.Items {
		if cs.Items[i].ID == itemID {
			cs.Items = append(cs.Items[:i], cs.Items[i+1:]...)
			r.touch()
			return true
		}
	}
	return false
}

// AddEducation 追加教育经历；id 为空或重复时重新生成。
func (r *Resume) AddEducation(e Education) string {
	e.ID = newEntryID(e.ID, func(id string) bool {
		for _, x := range r.Education {
			if x.ID == id {
				return true
			}
		}
		return false
	})
	r.Education = append(r.Education, e)
	r.touch()
	return e.ID
}

func (r *Resume) UpdateEducation(e Education) bool {
	for i := range r.Education {
		if r.Education[i].ID == e.ID {
			r.Education[i] = e
			r.touch()
			return true
		}
	}
	return false
}

func (r *Resume) RemoveEducation(id string) bool {
	for i := range r.Education {
		if r.Education[i].ID == id {
			r.Education = append(r.Education[:i], r.Education[i+1:]...)
			r.touch()
			return true
		}
	}
	return false
}

func (r *Resume) MoveEducation(from, to int) bool {
	if !moveItem(r.Education, from, to) {
		return false
	}
	r.touch()
	return true
}

func (r *Resume) AddExperience(e Experience) string {
	e.ID = newEntryID(e.ID, func(id string) bool {
		for _, x := range r.Experience {
			if x.ID == id {
				return true
			}
		}
		return false
	})
	r.Experience = append(r.Experience, e)
	r.touch()
	return e.ID
}

func (r *Resume) UpdateExperience(e Experience) bool {
	for i := range r.Experience {
		if r.Experience[i].ID == e.ID {
			r.Experience[i] = e
			r.touch()
			return true
		}
	}
	return false
}

func (r *Resume) RemoveExperience(id string) bool {
	for i := range r.Experience {
		if r.Experience[i].ID == id {
			r.Experience = append(r.Experience[:i], r.Experience[i+1:]...)
			r.touch()
			return true
		}
	}
	return false
}

func (r *Resume) MoveExperience(from, to int) bool {
	if !moveItem(r.Experience, from, to) {
		return false
	}
	r.touch()
	return true
}

func (r *Resume) AddProject(p Project) string {
	p.ID = newEntryID(p.ID, func(id string) bool {
		for _, x := range r.Projects {
			if x.ID == id {
				return true
			}
		}
		return false
	})
	r.Projects = append(r.Projects, p)
	r.touch()
	return p.ID
}

func (r *Resume) UpdateProject(p Project) bool {
	for i := range r.Projects {
		if r.Projects[i].ID == p.ID {
			r.Projects[i] = p
			r.touch()
			return true
		}
	}
	return false
}

func (r *Resume) RemoveProject(id string) bool {
	for i := range r.Projects {
		if r.Projects[i].ID == id {
			r.Projects = append(r.Projects[:i], r.Projects[i+1:]...)
			r.touch()
			return true
		}
	}
	return false
}

func (r *Resume) MoveProject(from, to int) bool {
	if !moveItem(r.Projects, from, to) {
		return false
	}
	r.touch()
	return true
}

// Reset 清空内容并恢复默认结构，保留 id。
func (r *Resume) Reset() {
	id := r.ID
	r.applyDefaults()
	r.ID = id
	r.touch()
}

// Duplicate 返回深拷贝，名称追加 " (Copy)"，且不再公开分享。
func (r *Resume) Duplicate(newID string) *Resume {
	out := r.Clone()
	out.ID = newID
	out.Name = r.Name + " (Copy)"
	out.IsPublic = false
	out.touch()
	return out
}

func (r *Resume) sectionIndex(id string) int {
	for i, s := range r.SectionOrder {
		if s == id {
			return i
		}
	}
	return -1
}

func moveItem[T any](items []T, from, to int) bool {
	if from < 0 || from >= len(items) || to < 0 || to >= len(items) || from == to {
		return false
	}
	item := items[from]
	if from < to {
		copy(items[from:to], items[from+1:to+1])
	} else {
		copy(items[to+1:from+1], items[to:from])
	}
	items[to] = item
	return true
}

func newEntryID(id string, exists func(string) bool) string {
	if id != "" && !exists(id) {
		return id
	}
	for {
		id = uuid.NewString()
		if !exists(id) {
			return id
		}
	}
}
