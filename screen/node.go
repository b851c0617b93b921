package screen

import "strings"

// Node 是屏幕目标的 DOM 近似树。Text 非空的节点是文本节点，忽略 Tag。
type Node struct {
	Tag      string            `json:"tag,omitempty"`
	Attrs    map[string]string `json:"attrs,omitempty"`
	Style    map[string]string `json:"style,omitempty"`
	Text     string            `json:"text,omitempty"`
	Children []*Node           `json:"children,omitempty"`
}

// El 创建元素节点，nil 子节点会被跳过。
func El(tag string, style map[string]string, children ...*Node) *Node {
	n := &Node{Tag: tag, Style: style}
	n.Append(children...)
	return n
}

// Text 创建文本节点。
func Text(s string) *Node {
	return &Node{Text: s}
}

// Append 追加非 nil 子节点。
func (n *Node) Append(children ...*Node) *Node {
	for _, c := range children {
		if c != nil {
			n.Children = append(n.Children, c)
		}
	}
	return n
}

// Attr 设置属性并返回节点本身。
func (n *Node) Attr(key, value string) *Node {
	if n.Attrs == nil {
		n.Attrs = map[string]string{}
	}
	n.Attrs[key] = value
	return n
}

// Find 深度优先查找第一个满足条件的节点。
func (n *Node) Find(match func(*Node) bool) *Node {
	if n == nil {
		return nil
	}
	if match(n) {
		return n
	}
	for _, c := range n.Children {
		if found := c.Find(match); found != nil {
			return found
		}
	}
	return nil
}

// FindAll 返回全部满足条件的节点，按文档顺序。
func (n *Node) FindAll(match func(*Node) bool) []*Node {
	var out []*Node
	var walk func(*Node)
	walk = func(cur *Node) {
		if cur == nil {
			return
		}
		if match(cur) {
			out = append(out, cur)
		}
		for _, c := range cur.Children {
			walk(c)
		}
	}
	walk(n)
	return out
}

// TextContent 拼接子树中全部文本。
func (n *Node) TextContent() string {
	var b strings.Builder
	for _, t := range n.FindAll(func(x *Node) bool { return x.Text != "" }) {
		b.WriteString(t.Text)
	}
	return b.String()
}

// css 合并多组样式，后者覆盖前者。
func css(groups ...map[string]string) map[string]string {
	out := map[string]string{}
	for _, g := range groups {
		for k, v := range g {
			out[k] = v
		}
	}
	return out
}
