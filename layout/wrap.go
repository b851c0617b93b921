package layout

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ByLCY/vitae/textfmt"
)

// WidthFunc 返回一段文本的宽度，单位与 Wrap 的 limit 一致。
type WidthFunc func(s string) float64

// Wrap 是贪心折行算法，文档目标（字体度量）与屏幕目标（估算字宽）共用。
// wrap 取 nowrap/break-word/anywhere（默认）。
func Wrap(content string, limit float64, wrap string, width WidthFunc) []TextLine {
	if limit <= 0 {
		limit = math.MaxFloat64
	}

	// nowrap：仅按显式换行划分，不基于宽度折行
	if wrap == "nowrap" {
		parts := strings.Split(content, "\n")
		lines := make([]TextLine, 0, len(parts))
		for _, p := range parts {
			lines = append(lines, TextLine{Content: p, Width: width(p)})
		}
		return lines
	}

	// break-word：忽略空白机会，纯按宽度切分（但仍然尊重显式换行）
	if wrap == "break-word" {
		var lines []TextLine
		var builder strings.Builder
		current := 0.0
		emit := func(force bool) {
			if builder.Len() == 0 {
				if force {
					lines = append(lines, TextLine{Content: "", Width: 0})
				}
				return
			}
			lines = append(lines, TextLine{Content: builder.String(), Width: current})
			builder.Reset()
			current = 0
		}
		for _, r := range content {
			if r == '\r' {
				continue
			}
			if r == '\n' {
				emit(true)
				continue
			}
			s := string(r)
			cw := width(s)
			if current > 0 && current+cw > limit {
				emit(false)
			}
			builder.WriteString(s)
			current += cw
		}
		emit(true)
		return lines
	}

	// 默认：优先在空白处分割，超过限制时在词内拆分
	var lines []TextLine
	var builder strings.Builder
	currentWidth := 0.0

	emit := func(force bool) {
		if builder.Len() == 0 {
			if force {
				lines = append(lines, TextLine{Content: "", Width: 0})
			}
			return
		}
		lines = append(lines, TextLine{Content: builder.String(), Width: currentWidth})
		builder.Reset()
		currentWidth = 0
	}
	appendToken := func(token string, w float64) {
		builder.WriteString(token)
		currentWidth += w
	}

	for _, token := range tokenize(content) {
		if token == "\n" {
			emit(true)
			continue
		}
		if currentWidth == 0 && isBlank(token) && len(lines) > 0 {
			// 折行后的行首空白不保留
			continue
		}

		tokenWidth := width(token)
		if currentWidth > 0 && currentWidth+tokenWidth > limit {
			emit(false)
			if isBlank(token) {
				continue
			}
		}
		if tokenWidth <= limit {
			appendToken(token, tokenWidth)
			continue
		}
		for _, chunk := range splitByWidth(token, limit, width) {
			chunkWidth := width(chunk)
			if currentWidth > 0 && currentWidth+chunkWidth > limit {
				emit(false)
			}
			appendToken(chunk, chunkWidth)
		}
	}

	emit(true)
	return lines
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func tokenize(s string) []string {
	var tokens []string
	var builder strings.Builder
	lastWasSpace := false
	flush := func() {
		if builder.Len() == 0 {
			return
		}
		tokens = append(tokens, builder.String())
		builder.Reset()
	}

	for _, r := range s {
		if r == '\r' {
			continue
		}
		if r == '\n' {
			flush()
			tokens = append(tokens, "\n")
			lastWasSpace = false
			continue
		}
		isSpace := unicode.IsSpace(r)
		if builder.Len() == 0 {
			lastWasSpace = isSpace
		} else if lastWasSpace != isSpace {
			flush()
			lastWasSpace = isSpace
		}
		builder.WriteRune(r)
	}
	flush()
	return tokens
}

func splitByWidth(token string, limit float64, width WidthFunc) []string {
	if limit <= 0 || limit == math.MaxFloat64 {
		return []string{token}
	}
	var parts []string
	var builder strings.Builder
	for _, r := range token {
		builder.WriteRune(r)
		if width(builder.String()) > limit && utf8.RuneCountInString(builder.String()) > 1 {
			runes := []rune(builder.String())
			parts = append(parts, string(runes[:len(runes)-1]))
			builder.Reset()
			builder.WriteRune(r)
		}
	}
	if builder.Len() > 0 {
		parts = append(parts, builder.String())
	}
	return parts
}

// RunWidthFunc 按片段样式返回文本宽度。
type RunWidthFunc func(s string, kind textfmt.Kind) float64

type styledToken struct {
	text string
	kind textfmt.Kind
}

// WrapRuns 对带粗体/斜体的片段做贪心折行，返回的每行都带 Runs。
func WrapRuns(spans []textfmt.Span, limit float64, width RunWidthFunc) []TextLine {
	if limit <= 0 {
		limit = math.MaxFloat64
	}
	var tokens []styledToken
	for _, sp := range spans {
		for _, tok := range tokenize(sp.Text) {
			tokens = append(tokens, styledToken{text: tok, kind: sp.Kind})
		}
	}

	var lines []TextLine
	var current []styledToken
	currentWidth := 0.0
	emit := func(force bool) {
		if len(current) == 0 && !force {
			return
		}
		lines = append(lines, buildRunLine(current, width))
		current = nil
		currentWidth = 0
	}
	push := func(tok styledToken, w float64) {
		current = append(current, tok)
		currentWidth += w
	}

	for _, tok := range tokens {
		if tok.text == "\n" {
			emit(true)
			continue
		}
		if len(current) == 0 && isBlank(tok.text) && len(lines) > 0 {
			continue
		}
		w := width(tok.text, tok.kind)
		if currentWidth > 0 && currentWidth+w > limit {
			emit(false)
			if isBlank(tok.text) {
				continue
			}
		}
		if w <= limit {
			push(tok, w)
			continue
		}
		for _, chunk := range splitByWidth(tok.text, limit, func(s string) float64 { return width(s, tok.kind) }) {
			cw := width(chunk, tok.kind)
			if currentWidth > 0 && currentWidth+cw > limit {
				emit(false)
			}
			push(styledToken{text: chunk, kind: tok.kind}, cw)
		}
	}
	if len(current) > 0 || len(lines) == 0 {
		emit(true)
	}
	return lines
}

func buildRunLine(tokens []styledToken, width RunWidthFunc) TextLine {
	var line TextLine
	var content strings.Builder
	x := 0.0
	for i := 0; i < len(tokens); {
		kind := tokens[i].kind
		var text strings.Builder
		for ; i < len(tokens) && tokens[i].kind == kind; i++ {
			text.WriteString(tokens[i].text)
		}
		s := text.String()
		w := width(s, kind)
		line.Runs = append(line.Runs, Run{
			Text:   s,
			Bold:   kind == textfmt.Bold,
			Italic: kind == textfmt.Italic,
			X:      x,
			Width:  w,
		})
		content.WriteString(s)
		x += w
	}
	line.Content = content.String()
	line.Width = x
	return line
}

// 估算排版器使用的平均字宽（相对字号）。
const (
	avgGlyphWidth  = 0.5
	boldGlyphWidth = 0.55
	monoGlyphWidth = 0.6
)

// EstimateWidth 以平均字宽估算文本宽度，单位与 size 相同。
func EstimateWidth(s string, size float64, bold bool, family string) float64 {
	factor := avgGlyphWidth
	switch {
	case family == "mono":
		factor = monoGlyphWidth
	case bold:
		factor = boldGlyphWidth
	}
	return float64(utf8.RuneCountInString(s)) * size * factor
}

// estimator 是不依赖字体文件的 Typesetter。
type estimator struct{}

func (estimator) LayoutLines(content string, width float64, font FontResource, fontSize, lineHeight float64, wrap string) ([]TextLine, error) {
	bold := strings.Contains(font.Style, "bold")
	lines := Wrap(content, width, wrap, func(s string) float64 {
		return EstimateWidth(s, fontSize, bold, font.Family)
	})
	leading := math.Max(lineHeight-fontSize, 0)
	for i := range lines {
		lines[i].Height = fontSize
		if i > 0 {
			lines[i].GapBefore = leading
		}
	}
	return lines, nil
}

func (estimator) TextWidth(content string, font FontResource, fontSize float64) (float64, error) {
	return EstimateWidth(content, fontSize, strings.Contains(font.Style, "bold"), font.Family), nil
}
