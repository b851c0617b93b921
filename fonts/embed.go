package fonts

import (
	"fmt"
	"strings"

	"github.com/go-fonts/latin-modern/lmroman10bold"
	"github.com/go-fonts/latin-modern/lmroman10bolditalic"
	"github.com/go-fonts/latin-modern/lmroman10italic"
	"github.com/go-fonts/latin-modern/lmroman10regular"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"
)

// Family 是实际可嵌入的字形族。用户可选字体映射到其中之一。
type Family string

const (
	Sans  Family = "sans"
	Serif Family = "serif"
	Mono  Family = "mono"
)

// ParseFamily 解析样式表中的 font 值，无法识别时返回 Sans。
func ParseFamily(s string) Family {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "serif":
		return Serif
	case "mono", "monospace":
		return Mono
	default:
		return Sans
	}
}

var faces = map[Family][4][]byte{
	Sans:  {goregular.TTF, gobold.TTF, goitalic.TTF, gobolditalic.TTF},
	Serif: {lmroman10regular.TTF, lmroman10bold.TTF, lmroman10italic.TTF, lmroman10bolditalic.TTF},
	Mono:  {gomono.TTF, gomonobold.TTF, gomonoitalic.TTF, gomonobolditalic.TTF},
}

// Load 返回内置字形的 TTF 数据。src 形如 "embed:sans-bold"、"serif-italic" 或 "mono"。
func Load(src string) ([]byte, error) {
	name := strings.TrimPrefix(strings.TrimSpace(src), "embed:")
	famName, variant, _ := strings.Cut(name, "-")
	set, ok := faces[Family(famName)]
	if !ok {
		return nil, fmt.Errorf("读取内置字体 %s 失败: 未知字形族 %q", src, famName)
	}
	switch variant {
	case "", "regular":
		return set[0], nil
	case "bold":
		return set[1], nil
	case "italic":
		return set[2], nil
	case "bolditalic", "bold-italic":
		return set[3], nil
	default:
		return nil, fmt.Errorf("读取内置字体 %s 失败: 未知字重 %q", src, variant)
	}
}

// Src 拼出 Load 可识别的资源路径。
func Src(f Family, bold, italic bool) string {
	variant := "regular"
	switch {
	case bold && italic:
		variant = "bolditalic"
	case bold:
		variant = "bold"
	case italic:
		variant = "italic"
	}
	return "embed:" + string(f) + "-" + variant
}
