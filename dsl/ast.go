// Package dsl 解析模板样式表（.vss）。
//
//	sheet modern v1 {
//	  meta { name: "Modern" }
//	  palette { sidebar: theme }
//	  style name extends base {
//	    size: 27pt
//	    color: theme
//	  }
//	}
package dsl

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

// Sheet 是一份样式表的语法树。
type Sheet struct {
	Pos     lexer.Position `parser:"" json:"-"`
	ID      string         `parser:"Newline* 'sheet' @Ident"`
	Version string         `parser:"@Ident"`
	Entries []*Entry       `parser:"'{' Newline* ( @@ Newline* )* '}' Newline*"`
}

// Entry 是样式表顶层的一项。
type Entry struct {
	Meta    *Block     `parser:"  'meta' @@"`
	Palette *Block     `parser:"| 'palette' @@"`
	Style   *StyleDecl `parser:"| @@"`
}

// StyleDecl 声明一条样式，可继承另一条样式。
type StyleDecl struct {
	Pos     lexer.Position `parser:"" json:"-"`
	Name    string         `parser:"'style' @Ident"`
	Extends string         `parser:"( 'extends' @Ident )?"`
	Body    *Block         `parser:"@@"`
}

// Block 是 { key: value } 属性块，属性以换行或分号分隔。
type Block struct {
	Props []*Prop `parser:"'{' ( Newline | ';' )* ( @@ ( Newline | ';' )* )* '}'"`
}

// Prop 是一条属性。
type Prop struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Key   string         `parser:"@Ident ':'"`
	Value *Value         `parser:"@@"`
}

// Value 是属性值：字符串、颜色、带单位的数、关键字或列表。
type Value struct {
	String  *string   `parser:"  @String"`
	Color   *string   `parser:"| @Color"`
	Number  *Quantity `parser:"| @Number"`
	Keyword *string   `parser:"| @Ident"`
	List    []*Value  `parser:"| '[' ( Newline | ',' )* ( @@ ( Newline | ',' )* )* ']'"`
}

// Quantity 是数值与可选单位，如 10pt、1.4x、32%。
type Quantity struct {
	Value float64
	Unit  string
}

// Capture 实现 participle.Capture。
func (q *Quantity) Capture(values []string) error {
	raw := values[0]
	num := strings.TrimRight(raw, "ptxm%")
	v, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return fmt.Errorf("无效数值 %q: %w", raw, err)
	}
	q.Value, q.Unit = v, raw[len(num):]
	return nil
}

func (q Quantity) String() string {
	return strconv.FormatFloat(q.Value, 'f', -1, 64) + q.Unit
}
