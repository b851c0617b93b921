package template

import (
	"embed"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ByLCY/vitae/dsl"
)

//go:embed styles/*.vss
var sheetFS embed.FS

const defaultText = "#1f2937"

var hexPattern = regexp.MustCompile(`^#(?:[0-9A-Fa-f]{3}|[0-9A-Fa-f]{6})$`)

// IsHex 判断颜色是否为 #rgb 或 #rrggbb。
func IsHex(s string) bool {
	return hexPattern.MatchString(strings.TrimSpace(s))
}

// Style 是样式表中一条已展开继承的样式。
type Style struct {
	Name    string            `json:"name"`
	Extends string            `json:"extends,omitempty"`
	Props   map[string]string `json:"props"`
}

// Styles 以样式名索引。
type Styles map[string]Style

// Token 是两种渲染目标共用的排版参数，尺寸单位为 pt。
type Token struct {
	Size       float64
	LineHeight float64 // 行高倍数
	Bold       bool
	Italic     bool
	Color      string // 十六进制或 theme/accent/white
	Uppercase  bool
	Tracking   float64
	Font       string // body/serif/mono
}

// 样式缺失时的内置默认值。
var defaultToken = Token{
	Size:       10,
	LineHeight: 1.4,
	Color:      defaultText,
	Font:       "body",
}

// Token 解析样式；样式或属性缺失时取 base，再缺失时取内置默认值。
func (s Styles) Token(name string) Token {
	tok := defaultToken
	if base, ok := s["base"]; ok {
		tok = applyProps(tok, base.Props)
	}
	if st, ok := s[name]; ok {
		tok = applyProps(tok, st.Props)
	}
	return tok
}

func applyProps(tok Token, props map[string]string) Token {
	for key, raw := range props {
		val := strings.TrimSpace(raw)
		switch strings.ToLower(key) {
		case "size":
			if v, ok := parsePt(val); ok {
				tok.Size = v
			}
		case "line-height":
			if v, err := strconv.ParseFloat(strings.TrimSuffix(val, "x"), 64); err == nil && v > 0 {
				tok.LineHeight = v
			}
		case "weight":
			tok.Bold = strings.EqualFold(val, "bold")
		case "italic":
			tok.Italic = strings.EqualFold(val, "true")
		case "color":
			tok.Color = val
		case "transform":
			tok.Uppercase = strings.EqualFold(val, "uppercase")
		case "tracking":
			if v, ok := parsePt(val); ok {
				tok.Tracking = v
			}
		case "font":
			tok.Font = strings.ToLower(val)
		}
	}
	return tok
}

// parsePt 解析 10pt / 10 形式的字号；其他单位不接受。
func parsePt(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSuffix(s, "pt"), 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}

// Palette 是模板的面板颜色，取值同样允许 theme/accent。
type Palette struct {
	Page    string `json:"page"`
	Sidebar string `json:"sidebar,omitempty"`
	Main    string `json:"main,omitempty"`
	Band    string `json:"band,omitempty"`
	Card    string `json:"card,omitempty"`
	Rule    string `json:"rule"`
	Muted   string `json:"muted"`
}

type sheet struct {
	Name        string
	Description string
	Palette     Palette
	Styles      Styles
}

func mustLoadSheet(id ID) sheet {
	name := "styles/" + string(id) + ".vss"
	data, err := sheetFS.ReadFile(name)
	if err != nil {
		panic(fmt.Sprintf("模板 %s 缺少样式表: %v", id, err))
	}
	sh, err := parseSheet(name, string(data))
	if err != nil {
		panic(fmt.Sprintf("模板 %s 样式表解析失败: %v", id, err))
	}
	return sh
}

func parseSheet(name, src string) (sheet, error) {
	doc, err := dsl.ParseString(name, src)
	if err != nil {
		return sheet{}, err
	}
	meta := doc.Meta()
	sh := sheet{
		Name:        meta["name"],
		Description: meta["description"],
		Palette:     Palette{Page: "#ffffff", Rule: "#e5e7eb", Muted: "#6b7280"},
	}
	if sh.Name == "" {
		sh.Name = doc.ID
	}
	colors := doc.Palette()
	for key, dst := range map[string]*string{
		"page": &sh.Palette.Page, "sidebar": &sh.Palette.Sidebar, "main": &sh.Palette.Main,
		"band": &sh.Palette.Band, "card": &sh.Palette.Card, "rule": &sh.Palette.Rule,
		"muted": &sh.Palette.Muted,
	} {
		if v, ok := colors[key]; ok {
			*dst = v
		}
	}

	raw := map[string]Style{}
	for _, decl := range doc.Styles() {
		raw[decl.Name] = Style{Name: decl.Name, Extends: decl.Extends, Props: decl.Body.Map()}
	}
	sh.Styles, err = resolveStyles(raw)
	return sh, err
}

// resolveStyles 展开 extends 继承链，检测未定义与循环引用。
func resolveStyles(styles map[string]Style) (Styles, error) {
	resolved := Styles{}
	visiting := map[string]bool{}

	var dfs func(name string) (Style, error)
	dfs = func(name string) (Style, error) {
		if st, ok := resolved[name]; ok {
			return st, nil
		}
		st, ok := styles[name]
		if !ok {
			return Style{}, fmt.Errorf("style %s 未定义", name)
		}
		if visiting[name] {
			return Style{}, fmt.Errorf("style 继承存在循环：%s", name)
		}
		visiting[name] = true

		props := map[string]string{}
		if st.Extends != "" {
			parent, err := dfs(st.Extends)
			if err != nil {
				return Style{}, err
			}
			for k, v := range parent.Props {
				props[k] = v
			}
		}
		for k, v := range st.Props {
			props[k] = v
		}
		st.Props = props
		resolved[name] = st
		delete(visiting, name)
		return st, nil
	}

	for name := range styles {
		if _, err := dfs(name); err != nil {
			return nil, err
		}
	}
	return resolved, nil
}
