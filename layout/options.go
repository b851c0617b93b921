package layout

// BuildOptions 配置布局阶段所需的依赖，例如排版后端。
type BuildOptions struct {
	// Typesetter 为空时使用按平均字宽估算的排版器，结果确定但不精确。
	Typesetter          Typesetter
	BrandingText        string
	EnforceTemplateTier bool
	Debug               DebugOptions
}

// DebugOptions 控制调试相关输出。
type DebugOptions struct {
	Styles   bool // 在调试 JSON 中输出每个文本块使用的样式名与原始字号
	Outlines bool // 为每个分区绘制轮廓框
}

// Typesetter 负责根据字体与宽度约束将文本拆成可绘制的行。宽度、字号与行高均为 mm。
type Typesetter interface {
	LayoutLines(content string, width float64, font FontResource, fontSize float64, lineHeight float64, wrap string) ([]TextLine, error)
	TextWidth(content string, font FontResource, fontSize float64) (float64, error)
}
