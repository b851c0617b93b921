package dsl_test

import (
	"reflect"
	"strings"
	"testing"

	"github.com/ByLCY/vitae/dsl"
)

const sampleSheet = `
// sample
sheet sample v1 {
  meta {
    name: "Sample \"CV\""
    keywords: [
      serif
      "two-column",
    ]
  }

  palette { sidebar: theme; rule: #e5e7eb }

  style base {
    size: 10pt
    line-height: 1.4x
    color: #1f2937
    tracking: -0.5pt
  }

  /* 标题 */
  style name extends base {
    size: 27pt
    weight: bold
    color: theme
  }

  style muted extends base { color: #fff }
}
`

func TestParseSheet(t *testing.T) {
	sh, err := dsl.ParseString("sample.vss", sampleSheet)
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	if sh.ID != "sample" || sh.Version != "v1" {
		t.Fatalf("表头 = %s %s", sh.ID, sh.Version)
	}

	meta := sh.Meta()
	if meta["name"] != `Sample "CV"` {
		t.Fatalf("name = %q", meta["name"])
	}
	keywords := sh.Entries[0].Meta.Props[1].Value.Strings()
	if !reflect.DeepEqual(keywords, []string{"serif", "two-column"}) {
		t.Fatalf("keywords = %v", keywords)
	}
	if p := sh.Palette(); p["sidebar"] != "theme" || p["rule"] != "#e5e7eb" {
		t.Fatalf("palette = %v", p)
	}

	styles := sh.Styles()
	if len(styles) != 3 {
		t.Fatalf("应有 3 条样式，得到 %d", len(styles))
	}
	base := styles[0].Body
	if got := base.Map(); got["size"] != "10pt" || got["line-height"] != "1.4x" || got["color"] != "#1f2937" {
		t.Fatalf("base = %v", got)
	}
	if q := base.Props[3].Value.Number; q == nil || q.Value != -0.5 || q.Unit != "pt" {
		t.Fatalf("tracking = %+v", q)
	}
	if styles[1].Name != "name" || styles[1].Extends != "base" || styles[0].Extends != "" {
		t.Fatalf("继承关系错误: %+v", styles[1])
	}
	if styles[1].Pos.Line != 22 {
		t.Fatalf("位置 = %v", styles[1].Pos)
	}
	if got := styles[2].Body.Map()["color"]; got != "#fff" {
		t.Fatalf("单行块 color = %q", got)
	}
}

func TestParseEmptyList(t *testing.T) {
	sh, err := dsl.ParseString("x.vss", "sheet x v1 {\n  meta { tags: []; name: \"x\" }\n  palette { rule: [ ] }\n}\n")
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	meta := sh.Meta()
	if got, ok := meta["tags"]; !ok || got != "" || meta["name"] != "x" {
		t.Fatalf("meta = %v", meta)
	}
	if got := sh.Palette()["rule"]; got != "" {
		t.Fatalf("空列表文本应为空: %q", got)
	}
	if got := sh.Entries[0].Meta.Props[0].Value.Strings(); len(got) != 0 {
		t.Fatalf("空列表应无元素: %v", got)
	}
}

func TestParseRejects(t *testing.T) {
	cases := map[string]string{
		"未知块":     "sheet x v1 {\n  page A4 {\n  }\n}\n",
		"重名样式":    "sheet x v1 {\n  style a { size: 1pt }\n  style a { size: 2pt }\n}\n",
		"重复 meta": "sheet x v1 {\n  meta { name: \"a\" }\n  meta { name: \"b\" }\n}\n",
		"缺少冒号":    "sheet x v1 {\n  style a { size 1pt }\n}\n",
	}
	for name, src := range cases {
		if _, err := dsl.ParseString("x.vss", src); err == nil {
			t.Fatalf("%s 应报错", name)
		}
	}
}

func TestParseErrorCarriesFilename(t *testing.T) {
	_, err := dsl.Parse("broken.vss", strings.NewReader("sheet x {\n}"))
	if err == nil || !strings.Contains(err.Error(), "broken.vss") {
		t.Fatalf("错误应包含文件名: %v", err)
	}
}
