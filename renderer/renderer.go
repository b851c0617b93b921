// Package renderer 定义把文档布局序列化为最终文件的接口。
package renderer

import "github.com/ByLCY/vitae/layout"

// Renderer 将布局结果输出为最终文件，例如 PDF。
// 实现必须只读取 result，engine.Export 会在独立 goroutine 中调用它。
type Renderer interface {
	Render(result *layout.Result) ([]byte, error)
}

// ContentType 返回渲染产物的 MIME 类型，未实现 Typed 的渲染器视为 PDF。
func ContentType(r Renderer) string {
	if t, ok := r.(Typed); ok {
		return t.ContentType()
	}
	return "application/pdf"
}

// Typed 由输出非 PDF 格式的渲染器实现。
type Typed interface {
	ContentType() string
}
