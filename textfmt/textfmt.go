// Package textfmt 解析简历文本中的行内强调标记（**粗体**、*斜体*）。
// 屏幕渲染与文档渲染共用同一份解析结果。
package textfmt

import (
	"regexp"
	"strings"
)

// Kind 表示行内片段的样式。
type Kind int

const (
	Plain Kind = iota
	Bold
	Italic
)

func (k Kind) String() string {
	switch k {
	case Bold:
		return "bold"
	case Italic:
		return "italic"
	default:
		return "plain"
	}
}

// Span 是一段带样式的文本。
type Span struct {
	Kind Kind   `json:"kind"`
	Text string `json:"text"`
}

// 非贪婪、不跨行；粗体分支优先。
var emphasisPattern = regexp.MustCompile(`\*\*.*?\*\*|\*.*?\*`)

// Parse 将文本拆分为有序片段。空文本返回 nil。
// 不成对的标记按字面文本保留在 Plain 片段中。
func Parse(text string) []Span {
	if text == "" {
		return nil
	}
	var spans []Span
	emit := func(kind Kind, s string) {
		if s == "" {
			return
		}
		// 相邻的普通文本合并，避免产生碎片
		if kind == Plain && len(spans) > 0 && spans[len(spans)-1].Kind == Plain {
			spans[len(spans)-1].Text += s
			return
		}
		spans = append(spans, Span{Kind: kind, Text: s})
	}

	last := 0
	for _, loc := range emphasisPattern.FindAllStringIndex(text, -1) {
		emit(Plain, text[last:loc[0]])
		match := text[loc[0]:loc[1]]
		kind, body := Italic, inner(match, 1)
		if strings.HasPrefix(match, "**") && strings.HasSuffix(match, "**") {
			kind, body = Bold, inner(match, 2)
		}
		if body == "" {
			// "**" 之类没有内容的标记按字面保留
			emit(Plain, match)
		} else {
			emit(kind, body)
		}
		last = loc[1]
	}
	emit(Plain, text[last:])
	return spans
}

func inner(s string, n int) string {
	if len(s) < 2*n {
		return ""
	}
	return s[n : len(s)-n]
}

// PlainText 返回去掉标记后的纯文本，用于测量与元数据。
func PlainText(text string) string {
	return Join(Parse(text))
}

// Join 拼接片段文本，丢弃样式。
func Join(spans []Span) string {
	var b strings.Builder
	for _, sp := range spans {
		b.WriteString(sp.Text)
	}
	return b.String()
}

// Wrap 在解析结果两侧加上字面前后缀（如代码注释的 "/* " 与 " */"）。
// 前后缀不参与标记匹配，避免其中的 * 被当作强调符。
func Wrap(prefix, text, suffix string) []Span {
	spans := []Span{{Kind: Plain, Text: prefix}}
	for _, sp := range append(Parse(text), Span{Kind: Plain, Text: suffix}) {
		last := &spans[len(spans)-1]
		if sp.Kind == Plain && last.Kind == Plain {
			last.Text += sp.Text
			continue
		}
		spans = append(spans, sp)
	}
	return spans
}
