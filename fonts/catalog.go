package fonts

import "github.com/ByLCY/vitae/tier"

// Option 是编辑器中可选的字体。
type Option struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	CSS     string `json:"css"`    // 屏幕端使用的 font-family 声明
	Family  Family `json:"family"` // 文档端嵌入的字形族
	Premium bool   `json:"premium"`
}

// DefaultID 是免费用户的回退字体。
const DefaultID = "inter"

// System 是字体表未命中时使用的基础系统字体。
var System = Option{
	ID:     "system",
	Label:  "System",
	CSS:    "Helvetica, Arial, sans-serif",
	Family: Sans,
}

// poppins 在选择界面标记为付费，但渲染端的付费名单里没有它；这里统一视为付费。
var catalog = []Option{
	{ID: "inter", Label: "Inter", CSS: "'Inter', sans-serif", Family: Sans},
	{ID: "roboto", Label: "Roboto", CSS: "'Roboto', sans-serif", Family: Sans},
	{ID: "open-sans", Label: "Open Sans", CSS: "'Open Sans', sans-serif", Family: Sans},
	{ID: "lato", Label: "Lato", CSS: "'Lato', sans-serif", Family: Sans},
	{ID: "montserrat", Label: "Montserrat", CSS: "'Montserrat', sans-serif", Family: Sans},
	{ID: "source-sans", Label: "Source Sans 3", CSS: "'Source Sans 3', sans-serif", Family: Sans},
	{ID: "poppins", Label: "Poppins", CSS: "'Poppins', sans-serif", Family: Sans, Premium: true},
	{ID: "lora", Label: "Lora", CSS: "'Lora', serif", Family: Serif, Premium: true},
	{ID: "playfair", Label: "Playfair Display", CSS: "'Playfair Display', serif", Family: Serif, Premium: true},
	{ID: "oswald", Label: "Oswald", CSS: "'Oswald', sans-serif", Family: Sans, Premium: true},
	{ID: "merriweather", Label: "Merriweather", CSS: "'Merriweather', serif", Family: Serif, Premium: true},
	{ID: "jetbrains", Label: "JetBrains Mono", CSS: "'JetBrains Mono', monospace", Family: Mono, Premium: true},
}

// All 返回字体表的副本。
func All() []Option {
	return append([]Option(nil), catalog...)
}

// Lookup 按 id 查找字体；未命中时返回 System 与 false。
func Lookup(id string) (Option, bool) {
	for _, o := range catalog {
		if o.ID == id {
			return o, true
		}
	}
	return System, false
}

// Effective 返回渲染时实际使用的字体：免费用户的付费字体替换为默认字体，
// 未知字体回退到基础系统字体。存储中的选择不受影响。
func Effective(id string, t tier.Tier) Option {
	o, ok := Lookup(id)
	if !ok {
		return System
	}
	if o.Premium && !tier.IsAllowed(tier.PremiumFont, t) {
		def, _ := Lookup(DefaultID)
		return def
	}
	return o
}
