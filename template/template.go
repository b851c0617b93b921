// Package template 是模板注册表：每个模板的分栏策略、页眉/分区绘制规则与样式表。
// 具体的绘制由 screen 与 layout 两个渲染目标各自完成。
package template

import (
	"github.com/ByLCY/vitae/resume"
)

// ID 标识一个模板。
type ID string

const (
	Classic    ID = "classic"
	Modern     ID = "modern"
	Minimalist ID = "minimalist"
	GitHub     ID = "github"
	Creative   ID = "creative"
	Corporate  ID = "corporate"
	Executive  ID = "executive"
)

// Layout 描述页面骨架。
type Layout int

const (
	SingleColumn Layout = iota // 单栏
	SidebarLeft                // 左侧色块侧栏 + 主栏
	SplitGrid                  // 页眉 + 1:2 网格
	HeaderBar                  // 顶部色条 + 左主栏右侧栏
	Code                       // 深色代码风单栏
)

func (l Layout) String() string {
	switch l {
	case SidebarLeft:
		return "sidebar-left"
	case SplitGrid:
		return "split-grid"
	case HeaderBar:
		return "header-bar"
	case Code:
		return "code"
	default:
		return "single-column"
	}
}

// HeaderRule 选择个人信息块的绘制算法。
type HeaderRule int

const (
	Centered        HeaderRule = iota // classic
	SidebarContact                    // modern：主栏姓名，侧栏联系方式
	SerifBanner                       // minimalist
	CodeProfile                       // github：function Name() 与 const profile
	CreativeSidebar                   // creative：侧栏姓名
	PhotoSidebar                      // corporate：侧栏圆形头像
	PhotoBar                          // executive：页眉条圆角头像
)

// SectionRule 选择分区条目的绘制算法。
type SectionRule int

const (
	Ruled     SectionRule = iota // 标题下划线，条目平铺
	Timeline                     // 左边框与主题色圆点
	Quiet                        // 小号大写标题，无底色
	CodeBlock                    // // 标题，卡片底色
	Accent                       // 主题色小圆点
	Boxed                        // 标题下粗边框
	Gold                         // 金色标题与边框
)

// ColumnPolicy 决定分区落在侧栏还是主栏。Linear 为真时忽略侧栏集合。
type ColumnPolicy struct {
	Sidebar map[string]bool
	Linear  bool
}

// InSidebar 判断分区是否进入侧栏。
func (p ColumnPolicy) InSidebar(id string) bool {
	return !p.Linear && p.Sidebar[id]
}

// DefaultColumnPolicy 把教育与技能放进侧栏，其余（含自定义分区）进入主栏。
func DefaultColumnPolicy() ColumnPolicy {
	return ColumnPolicy{Sidebar: map[string]bool{
		resume.SectionEducation: true,
		resume.SectionSkills:    true,
	}}
}

func linearPolicy() ColumnPolicy {
	return ColumnPolicy{Linear: true}
}

func skillsSidebarPolicy() ColumnPolicy {
	return ColumnPolicy{Sidebar: map[string]bool{resume.SectionSkills: true}}
}

// Spec 是一个模板的完整描述。
type Spec struct {
	ID           ID
	Name         string
	Description  string
	IsPremium    bool
	Layout       Layout
	Columns      ColumnPolicy
	SidebarRatio float64 // 侧栏占页宽比例，单栏为 0
	DefaultTheme string  // 简历未设置主题色时使用
	Accent       string  // 固定强调色，空表示跟随主题色
	Header       HeaderRule
	Section      SectionRule
	Photo        bool
	Styles       Styles
	Palette      Palette
}

// Theme 返回生效的主题色：合法的用户主题色优先，否则用模板默认值。
func (s Spec) Theme(themeColor string) string {
	if IsHex(themeColor) {
		return themeColor
	}
	return s.DefaultTheme
}

// AccentColor 返回强调色；未固定时等于主题色。
func (s Spec) AccentColor(theme string) string {
	if s.Accent != "" {
		return s.Accent
	}
	return theme
}

// Color 把样式表中的颜色取值解析为十六进制。
func (s Spec) Color(value, theme string) string {
	switch value {
	case "":
		return defaultText
	case "theme":
		return theme
	case "accent":
		return s.AccentColor(theme)
	case "white":
		return "#ffffff"
	case "black":
		return "#000000"
	}
	if IsHex(value) {
		return value
	}
	return defaultText
}

var registry = map[ID]Spec{}

var catalog = []Spec{
	{
		ID:           Classic,
		Layout:       SingleColumn,
		Columns:      linearPolicy(),
		DefaultTheme: resume.DefaultThemeColor,
		Header:       Centered,
		Section:      Ruled,
	},
	{
		ID:           Modern,
		Layout:       SidebarLeft,
		Columns:      DefaultColumnPolicy(),
		SidebarRatio: 0.32,
		DefaultTheme: resume.DefaultThemeColor,
		Header:       SidebarContact,
		Section:      Timeline,
	},
	{
		ID:           Minimalist,
		Layout:       SplitGrid,
		Columns:      DefaultColumnPolicy(),
		SidebarRatio: 1.0 / 3.0,
		DefaultTheme: resume.DefaultThemeColor,
		Header:       SerifBanner,
		Section:      Quiet,
	},
	{
		ID:           GitHub,
		IsPremium:    true,
		Layout:       Code,
		Columns:      linearPolicy(),
		DefaultTheme: "#58a6ff",
		Header:       CodeProfile,
		Section:      CodeBlock,
	},
	{
		ID:           Creative,
		IsPremium:    true,
		Layout:       SidebarLeft,
		Columns:      DefaultColumnPolicy(),
		SidebarRatio: 0.35,
		DefaultTheme: resume.DefaultThemeColor,
		Header:       CreativeSidebar,
		Section:      Accent,
	},
	{
		ID:           Corporate,
		IsPremium:    true,
		Layout:       SidebarLeft,
		Columns:      skillsSidebarPolicy(),
		SidebarRatio: 0.35,
		DefaultTheme: "#1e4d7b",
		Header:       PhotoSidebar,
		Section:      Boxed,
		Photo:        true,
	},
	{
		ID:           Executive,
		IsPremium:    true,
		Layout:       HeaderBar,
		Columns:      skillsSidebarPolicy(),
		SidebarRatio: 0.35,
		DefaultTheme: "#333333",
		Accent:       "#c9a050",
		Header:       PhotoBar,
		Section:      Gold,
		Photo:        true,
	},
}

func init() {
	for i := range catalog {
		sheet := mustLoadSheet(catalog[i].ID)
		catalog[i].Name = sheet.Name
		catalog[i].Description = sheet.Description
		catalog[i].Styles = sheet.Styles
		catalog[i].Palette = sheet.Palette
		registry[catalog[i].ID] = catalog[i]
	}
}

// Lookup 返回模板描述。未知 id 静默回退到 classic，从不报错。
func Lookup(id string) Spec {
	if s, ok := registry[ID(id)]; ok {
		return s
	}
	return registry[Classic]
}

// Known 判断 id 是否为注册过的模板。
func Known(id string) bool {
	_, ok := registry[ID(id)]
	return ok
}

// All 按展示顺序返回全部模板。
func All() []Spec {
	return append([]Spec(nil), catalog...)
}
