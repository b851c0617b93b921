package screen

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// HTML 把视图序列化为 HTML 片段。属性与样式按键名排序，输出稳定。
func HTML(v *View) (string, error) {
	if v == nil || v.Root == nil {
		return "", fmt.Errorf("视图为空")
	}
	var buf bytes.Buffer
	if err := html.Render(&buf, toHTML(v.Root)); err != nil {
		return "", fmt.Errorf("序列化 HTML 失败: %w", err)
	}
	return buf.String(), nil
}

// Document 把视图包装为完整的 HTML 文档，供无头浏览器打印。
func Document(v *View, title string) (string, error) {
	body, err := HTML(v)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteString("<!DOCTYPE html><html><head><meta charset=\"utf-8\"><title>")
	b.WriteString(html.EscapeString(title))
	b.WriteString("</title><style>@page{size:A4;margin:0}html,body{margin:0;padding:0}</style></head><body>")
	b.WriteString(body)
	b.WriteString("</body></html>")
	return b.String(), nil
}

func toHTML(n *Node) *html.Node {
	if n.Text != "" {
		return &html.Node{Type: html.TextNode, Data: n.Text}
	}
	el := &html.Node{Type: html.ElementNode, Data: n.Tag, DataAtom: atom.Lookup([]byte(n.Tag))}
	keys := make([]string, 0, len(n.Attrs))
	for k := range n.Attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		el.Attr = append(el.Attr, html.Attribute{Key: k, Val: n.Attrs[k]})
	}
	if style := styleString(n.Style); style != "" {
		el.Attr = append(el.Attr, html.Attribute{Key: "style", Val: style})
	}
	for _, c := range n.Children {
		el.AppendChild(toHTML(c))
	}
	return el
}

func styleString(style map[string]string) string {
	if len(style) == 0 {
		return ""
	}
	keys := make([]string, 0, len(style))
	for k := range style {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+style[k])
	}
	return strings.Join(parts, "; ")
}
