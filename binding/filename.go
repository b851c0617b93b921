package binding

import (
	"encoding/json"
	"path"
	"regexp"
	"strings"

	"github.com/ByLCY/vitae/resume"
)

// DefaultFilenamePattern 是导出文件名模板。
const DefaultFilenamePattern = "${personalInfo.fullName}_Resume.pdf"

const fallbackFilename = "resume.pdf"

var (
	spacePattern  = regexp.MustCompile(`\s+`)
	unsafePattern = regexp.MustCompile(`[^\p{L}\p{N}\s._-]+`)
)

// Fields 把简历转成 Interpolate 可寻址的 map，键名与 JSON 字段一致。
func Fields(r *resume.Resume) map[string]any {
	if r == nil {
		return nil
	}
	raw, err := json.Marshal(r)
	if err != nil {
		return nil
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}

// Filename 按模板生成导出文件名。无法解析的占位符替换为空，结果经 Sanitize 处理；
// 文件名主体为空时返回 resume.pdf。
func Filename(pattern string, r *resume.Resume) string {
	if r == nil {
		return fallbackFilename
	}
	if strings.TrimSpace(pattern) == "" {
		pattern = DefaultFilenamePattern
	}
	name := Sanitize(Expand(pattern, Fields(r), func(string) string { return "" }))
	ext := path.Ext(name)
	base := strings.Trim(strings.TrimSuffix(name, ext), "._-")
	if base == "" {
		return fallbackFilename
	}
	if ext == "" {
		ext = ".pdf"
	}
	return base + ext
}

// Sanitize 把空白替换为下划线并去掉路径分隔符等不安全字符。
func Sanitize(name string) string {
	name = unsafePattern.ReplaceAllString(name, "")
	return spacePattern.ReplaceAllString(strings.TrimSpace(name), "_")
}
