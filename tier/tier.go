// Package tier 把订阅等级映射为渲染期的能力开关。
// 它是纯函数集合：不持久化，也不会修改简历。
package tier

import "strings"

// Tier 是订阅等级。
type Tier string

const (
	Free Tier = "free"
	Pro  Tier = "pro"
)

// Parse 解析等级字符串，无法识别时按 free 处理。
func Parse(s string) Tier {
	if strings.EqualFold(strings.TrimSpace(s), string(Pro)) {
		return Pro
	}
	return Free
}

// Feature 是受等级限制的能力。
type Feature int

const (
	// PremiumFont 允许使用付费字体渲染。
	PremiumFont Feature = iota
	// RemoveBranding 允许隐藏品牌水印。
	RemoveBranding
	// PremiumTemplate 允许在启用模板门控时渲染付费模板。
	PremiumTemplate
)

func (f Feature) String() string {
	switch f {
	case PremiumFont:
		return "premium-font"
	case RemoveBranding:
		return "remove-branding"
	case PremiumTemplate:
		return "premium-template"
	default:
		return "unknown"
	}
}

// IsAllowed 判断某等级是否具备某能力。
func IsAllowed(f Feature, t Tier) bool {
	switch f {
	case PremiumFont, RemoveBranding, PremiumTemplate:
		return t == Pro
	default:
		return false
	}
}

// ShowBranding 计算是否渲染品牌水印：
// 免费用户即使关闭了开关也会渲染，付费用户按存储值决定。
func ShowBranding(enabled bool, t Tier) bool {
	return enabled || !IsAllowed(RemoveBranding, t)
}

// TemplateAllowed 判断模板能否按原样渲染。enforce 为 false 时始终放行，
// 门控只发生在编辑器的选择界面。
func TemplateAllowed(isPremium bool, t Tier, enforce bool) bool {
	if !enforce || !isPremium {
		return true
	}
	return IsAllowed(PremiumTemplate, t)
}
