// Package binding 把 ${path} 占位符绑定到简历字段，用于生成导出文件名。
package binding

import (
	"regexp"
	"strconv"
	"strings"
)

var placeholder = regexp.MustCompile(`\$\{\s*([^}]*?)\s*\}`)

// Expand 把 text 中的 ${path} 替换为 data 中对应的标量值。
// 路径段以点分隔，数组下标可写作 items[0] 或 items.0。
// 无法解析或指向对象/数组的占位符交给 missing；missing 为 nil 时保留原文。
func Expand(text string, data any, missing func(expr string) string) string {
	return placeholder.ReplaceAllStringFunc(text, func(match string) string {
		expr := placeholder.FindStringSubmatch(match)[1]
		if v, ok := Lookup(data, expr); ok {
			if s, ok := scalar(v); ok {
				return s
			}
		}
		if missing == nil {
			return match
		}
		return missing(expr)
	})
}

// Interpolate 是保留未解析占位符的 Expand。
func Interpolate(text string, data any) string {
	return Expand(text, data, nil)
}

// Lookup 沿路径在 JSON 形态的数据（map[string]any 与 []any）中取值。
func Lookup(data any, path string) (any, bool) {
	steps, ok := splitPath(path)
	if !ok || data == nil {
		return nil, false
	}
	cur := data
	for _, step := range steps {
		switch node := cur.(type) {
		case map[string]any:
			next, found := node[step]
			if !found {
				return nil, false
			}
			cur = next
		case []any:
			i, err := strconv.Atoi(step)
			if err != nil || i < 0 || i >= len(node) {
				return nil, false
			}
			cur = node[i]
		default:
			return nil, false
		}
	}
	return cur, true
}

// splitPath 把 a.b[0].c 拆为 [a b 0 c]。空段或未闭合的下标视为非法。
func splitPath(path string) ([]string, bool) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, false
	}
	var steps []string
	for _, seg := range strings.Split(path, ".") {
		name, rest, _ := strings.Cut(seg, "[")
		if name != "" {
			steps = append(steps, name)
		}
		for rest != "" {
			idx, tail, closed := strings.Cut(rest, "]")
			if !closed || idx == "" {
				return nil, false
			}
			steps = append(steps, idx)
			if tail == "" {
				break
			}
			if !strings.HasPrefix(tail, "[") {
				return nil, false
			}
			rest = tail[1:]
		}
		if name == "" && !strings.Contains(seg, "[") {
			return nil, false
		}
	}
	return steps, true
}

func scalar(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(x), true
	case nil:
		return "", true
	default:
		return "", false
	}
}
