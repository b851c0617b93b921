package resume

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestNewHasFullDefaultStructure(t *testing.T) {
	r := New("r1")
	if r.Education == nil || r.Experience == nil || r.Projects == nil || r.CustomSections == nil {
		t.Fatalf("新建简历的切片不应为 nil: %+v", r)
	}
	if r.SectionTitles == nil || r.SectionScales == nil {
		t.Fatalf("新建简历的映射不应为 nil")
	}
	if !reflect.DeepEqual(r.SectionOrder, DefaultSectionOrder) {
		t.Fatalf("默认分区顺序错误: %v", r.SectionOrder)
	}
	if r.SelectedTemplate != "classic" || r.FontFamily != "inter" || r.ContentScale != 1 {
		t.Fatalf("默认模板/字体/缩放错误: %s %s %g", r.SelectedTemplate, r.FontFamily, r.ContentScale)
	}
	if !r.IsBrandingEnabled {
		t.Fatalf("默认应开启品牌水印")
	}
	if r.LastModified == 0 {
		t.Fatalf("lastModified 未设置")
	}
	// 修改默认顺序副本不能影响包级变量
	r.SectionOrder[0] = "x"
	if DefaultSectionOrder[0] != SectionPersonal {
		t.Fatalf("DefaultSectionOrder 被意外修改")
	}
}

func TestScaleMutatorsClamp(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0.2, 0.5},
		{0.5, 0.5},
		{1.1, 1.1},
		{3, 1.5},
		{-1, 1},
		{0, 1},
	}
	for _, tt := range tests {
		r := New("r")
		r.SetContentScale(tt.in)
		if r.ContentScale != tt.want {
			t.Fatalf("SetContentScale(%g) = %g, want %g", tt.in, r.ContentScale, tt.want)
		}
		if !r.SetSectionScale(SectionSkills, tt.in) {
			t.Fatalf("SetSectionScale 对固定分区应成功")
		}
		if got := r.SectionScales[SectionSkills]; got != tt.want {
			t.Fatalf("SetSectionScale(%g) = %g, want %g", tt.in, got, tt.want)
		}
	}
}

func TestSetSectionScaleRejectsUnknownIDs(t *testing.T) {
	r := New("r")
	if r.SetSectionScale("custom-ghost", 1.2) {
		t.Fatalf("未知分区不应写入缩放")
	}
	if _, ok := r.SectionScales["custom-ghost"]; ok {
		t.Fatalf("未知分区缩放不应落入存储")
	}
}

func TestSetTemplateResetsScales(t *testing.T) {
	r := New("r")
	r.SetContentScale(0.8)
	r.SetSectionScale(SectionPersonal, 1.2)
	r.SetTemplate("modern")
	if r.ContentScale != 1 || len(r.SectionScales) != 0 {
		t.Fatalf("切换模板应重置缩放: %g %v", r.ContentScale, r.SectionScales)
	}
}

func TestAddSectionIsIdempotent(t *testing.T) {
	r := New("r")
	r.RemoveSection(SectionSkills)
	if !r.AddSection(SectionSkills) {
		t.Fatalf("首次添加应成功")
	}
	if r.AddSection(SectionSkills) {
		t.Fatalf("重复添加应为 no-op")
	}
	count := 0
	for _, id := range r.SectionOrder {
		if id == SectionSkills {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("skills 出现 %d 次", count)
	}
}

func TestRemoveSectionSemantics(t *testing.T) {
	r := New("r")
	r.AddEducation(Education{School: "MIT"})
	if r.RemoveSection(SectionPersonal) {
		t.Fatalf("personal 不可移除")
	}
	r.RemoveSection(SectionEducation)
	if len(r.Education) != 1 {
		t.Fatalf("固定分区只隐藏，不删除数据")
	}
	for _, id := range r.SectionOrder {
		if id == SectionEducation {
			t.Fatalf("education 应从顺序中移除")
		}
	}

	id := r.AddCustomSection("Awards")
	if !strings.HasPrefix(id, CustomIDPrefix) || len(id) != len(CustomIDPrefix)+7 {
		t.Fatalf("自定义分区 id 格式错误: %q", id)
	}
	r.RenameSection(id, "Honors")
	r.SetSectionScale(id, 0.9)
	r.RemoveSection(id)
	if _, ok := r.CustomSection(id); ok {
		t.Fatalf("移除自定义分区应删除数据")
	}
	if _, ok := r.SectionTitles[id]; ok {
		t.Fatalf("移除自定义分区应删除标题覆盖")
	}
	if _, ok := r.SectionScales[id]; ok {
		t.Fatalf("移除自定义分区应删除缩放")
	}
}

func TestEntryIDsStayUnique(t *testing.T) {
	r := New("r")
	a := r.AddExperience(Experience{ID: "e1", Company: "A"})
	b := r.AddExperience(Experience{ID: "e1", Company: "B"})
	if a != "e1" {
		t.Fatalf("未冲突的 id 应保留: %q", a)
	}
	if b == "e1" || b == "" {
		t.Fatalf("冲突的 id 应重新生成: %q", b)
	}
}

func TestMoveSection(t *testing.T) {
	r := New("r")
	if !r.MoveSection(4, 1) {
		t.Fatalf("移动失败")
	}
	want := []string{"personal", "skills", "education", "experience", "projects"}
	if !reflect.DeepEqual(r.SectionOrder, want) {
		t.Fatalf("got %v want %v", r.SectionOrder, want)
	}
	if r.MoveSection(0, 9) {
		t.Fatalf("越界移动应失败")
	}
}

func TestSkillsSplitTrimDedupe(t *testing.T) {
	got := Skills(" React, Node.js ,, react ,Go")
	want := []string{"React", "Node.js", "Go"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
	if Skills("  ") != nil {
		t.Fatalf("空白文本应返回 nil")
	}
}

func TestHasContent(t *testing.T) {
	r := New("r")
	for _, id := range []string{SectionEducation, SectionExperience, SectionProjects, SectionSkills} {
		if r.HasContent(id) {
			t.Fatalf("%s 为空时不应有内容", id)
		}
	}
	r.SetSkills(" , ")
	if r.HasContent(SectionSkills) {
		t.Fatalf("只有分隔符的技能文本视为空")
	}
	id := r.AddCustomSection("Awards")
	if r.HasContent(id) {
		t.Fatalf("没有条目的自定义分区视为空")
	}
	r.AddCustomItem(id, CustomItem{Name: "Prize"})
	if !r.HasContent(id) {
		t.Fatalf("自定义分区有条目时应有内容")
	}
	if !r.HasContent(SectionPersonal) {
		t.Fatalf("personal 总是有内容")
	}
}

func TestDuplicateIsDeep(t *testing.T) {
	r := New("r")
	r.Name = "Main"
	r.AddProject(Project{Name: "P"})
	r.SectionTitles[SectionProjects] = "Work"
	cp := r.Duplicate("r2")
	if cp.Name != "Main (Copy)" || cp.ID != "r2" {
		t.Fatalf("副本名称/id 错误: %q %q", cp.Name, cp.ID)
	}
	cp.Projects[0].Name = "changed"
	cp.SectionTitles[SectionProjects] = "changed"
	cp.PersonalInfo.PhotoFilters.Scale = 2
	if r.Projects[0].Name != "P" || r.SectionTitles[SectionProjects] != "Work" || r.PersonalInfo.PhotoFilters.Scale != 1 {
		t.Fatalf("副本修改影响了原简历")
	}
}

func TestResetKeepsID(t *testing.T) {
	r := New("keep")
	r.AddEducation(Education{School: "X"})
	r.SetTemplate("github")
	r.Reset()
	if r.ID != "keep" || len(r.Education) != 0 || r.SelectedTemplate != DefaultTemplate {
		t.Fatalf("Reset 结果错误: %+v", r)
	}
}

func TestDecodeAppliesDefaultsAndNormalizes(t *testing.T) {
	raw := `{
  "id": "abc",
  "personalInfo": {"fullName": "Ada"},
  "sectionOrder": ["skills", "skills", "experience"],
  "sectionScales": {"skills": 9, "custom-gone": 1.1},
  "contentScale": 0.1
}`
	r, err := Decode([]byte(raw))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !r.IsBrandingEnabled {
		t.Fatalf("缺省 isBrandingEnabled 应为 true")
	}
	want := []string{"personal", "skills", "experience"}
	if !reflect.DeepEqual(r.SectionOrder, want) {
		t.Fatalf("sectionOrder 规范化错误: %v", r.SectionOrder)
	}
	if r.SectionScales["skills"] != MaxScale {
		t.Fatalf("sectionScales 未夹紧: %v", r.SectionScales)
	}
	if _, ok := r.SectionScales["custom-gone"]; ok {
		t.Fatalf("未知分区缩放应被丢弃")
	}
	if r.ContentScale != MinScale {
		t.Fatalf("contentScale 未夹紧: %g", r.ContentScale)
	}
	if r.Education == nil || r.SectionTitles == nil {
		t.Fatalf("缺失集合应补齐为空值")
	}
}

func TestValidateRejectsWrongTypes(t *testing.T) {
	if err := Validate([]byte(`{"id":"x","skills":"Go, SQL","sectionOrder":["personal"]}`)); err != nil {
		t.Fatalf("合法输入被拒绝: %v", err)
	}
	err := Validate([]byte(`{"education": "not-an-array"}`))
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("期望 ErrInvalid，得到 %v", err)
	}
	if _, err := Parse([]byte(`{"contentScale": "big"}`)); !errors.Is(err, ErrInvalid) {
		t.Fatalf("Parse 应拒绝错误类型: %v", err)
	}
}
