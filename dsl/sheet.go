package dsl

import (
	"fmt"
	"io"
	"strings"
)

// Parse 从 r 读取并解析样式表，name 只用于错误位置。
func Parse(name string, r io.Reader) (*Sheet, error) {
	sh, err := sheetParser.Parse(name, r)
	if err != nil {
		return nil, err
	}
	return sh, sh.check()
}

// ParseString 解析字符串形式的样式表。
func ParseString(name, src string) (*Sheet, error) {
	sh, err := sheetParser.ParseString(name, src)
	if err != nil {
		return nil, err
	}
	return sh, sh.check()
}

// check 拒绝重复的 meta/palette 块与重名样式。
func (s *Sheet) check() error {
	var meta, palette bool
	seen := map[string]bool{}
	for _, e := range s.Entries {
		switch {
		case e.Meta != nil:
			if meta {
				return fmt.Errorf("%s: meta 块重复", s.ID)
			}
			meta = true
		case e.Palette != nil:
			if palette {
				return fmt.Errorf("%s: palette 块重复", s.ID)
			}
			palette = true
		case e.Style != nil:
			if seen[e.Style.Name] {
				return fmt.Errorf("%s: style %s 重复定义", e.Style.Pos, e.Style.Name)
			}
			seen[e.Style.Name] = true
		}
	}
	return nil
}

// Meta 返回 meta 块的属性，未声明时为空表。
func (s *Sheet) Meta() map[string]string {
	for _, e := range s.Entries {
		if e.Meta != nil {
			return e.Meta.Map()
		}
	}
	return map[string]string{}
}

// Palette 返回 palette 块的属性，未声明时为空表。
func (s *Sheet) Palette() map[string]string {
	for _, e := range s.Entries {
		if e.Palette != nil {
			return e.Palette.Map()
		}
	}
	return map[string]string{}
}

// Styles 按声明顺序返回样式。
func (s *Sheet) Styles() []*StyleDecl {
	var out []*StyleDecl
	for _, e := range s.Entries {
		if e.Style != nil {
			out = append(out, e.Style)
		}
	}
	return out
}

// Map 把属性块展平为 key → 文本值，同名属性后者覆盖前者。
func (b *Block) Map() map[string]string {
	out := map[string]string{}
	if b == nil {
		return out
	}
	for _, p := range b.Props {
		out[p.Key] = p.Value.Text()
	}
	return out
}

// Text 返回值的文本形式，列表以逗号连接。
func (v *Value) Text() string {
	switch {
	case v == nil:
		return ""
	case v.String != nil:
		return *v.String
	case v.Color != nil:
		return *v.Color
	case v.Number != nil:
		return v.Number.String()
	case v.Keyword != nil:
		return *v.Keyword
	default:
		// 列表（含空列表 []，此时 List 为 nil）
		items := make([]string, 0, len(v.List))
		for _, item := range v.List {
			items = append(items, item.Text())
		}
		return strings.Join(items, ", ")
	}
}

// Strings 返回列表项的文本；标量视为单元素列表。
func (v *Value) Strings() []string {
	if v == nil {
		return nil
	}
	if v.List == nil {
		if t := v.Text(); t != "" {
			return []string{t}
		}
		return nil
	}
	out := make([]string, 0, len(v.List))
	for _, item := range v.List {
		out = append(out, item.Text())
	}
	return out
}
