package dsl

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// 颜色规则必须排在 # 注释之前，且长格式优先，否则 #1f2937 会被截成 #1f2。
var sheetLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Whitespace", Pattern: `[ \t\r]+`},
	{Name: "Newline", Pattern: `\n+`},
	{Name: "BlockComment", Pattern: `/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`},
	{Name: "LineComment", Pattern: `//[^\n]*`},
	{Name: "Color", Pattern: `#(?:[0-9A-Fa-f]{8}|[0-9A-Fa-f]{6}|[0-9A-Fa-f]{3})\b`},
	{Name: "HashComment", Pattern: `#[^\n]*`},
	{Name: "Number", Pattern: `-?(?:\d+\.\d+|\d+)(?:pt|px|mm|%|x)?`},
	{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
	{Name: "Punct", Pattern: `[][{},:;]`},
})

var sheetParser = participle.MustBuild[Sheet](
	participle.Lexer(sheetLexer),
	participle.Elide("Whitespace", "BlockComment", "LineComment", "HashComment"),
	participle.Unquote("String"),
)
