package worker

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"
)

// Printer 把完整的 HTML 文档打印为 PDF。
type Printer interface {
	PrintPDF(ctx context.Context, document string) ([]byte, error)
}

// RodPrinter 用无头 Chromium 打印屏幕目标生成的 HTML，每次打印启动独立浏览器。
type RodPrinter struct {
	logger *zap.Logger
}

// NewRodPrinter 创建浏览器打印器。
func NewRodPrinter(logger *zap.Logger) *RodPrinter {
	return &RodPrinter{logger: logger}
}

// PrintPDF 实现 Printer。
func (p *RodPrinter) PrintPDF(ctx context.Context, document string) ([]byte, error) {
	launch := launcher.New().
		Context(ctx).
		Headless(true).
		NoSandbox(true)
	if path, ok := launcher.LookPath(); ok {
		launch = launch.Bin(path)
	}
	defer launch.Cleanup()

	controlURL, err := launch.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch chromium: %w", err)
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connect browser: %w", err)
	}
	defer func() {
		_ = browser.Close()
	}()

	page, err := browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, fmt.Errorf("open page: %w", err)
	}
	if err := page.SetDocumentContent(document); err != nil {
		return nil, fmt.Errorf("set document content: %w", err)
	}
	if err := page.Timeout(10 * time.Second).WaitLoad(); err != nil {
		p.logger.Warn("等待页面加载超时，继续打印", zap.Error(err))
	}

	reader, err := page.PDF(&proto.PagePrintToPDF{
		PrintBackground:   true,
		PaperWidth:        float64Ptr(8.27),
		PaperHeight:       float64Ptr(11.69),
		MarginTop:         float64Ptr(0),
		MarginBottom:      float64Ptr(0),
		MarginLeft:        float64Ptr(0),
		MarginRight:       float64Ptr(0),
		PreferCSSPageSize: true,
	})
	if err != nil {
		return nil, fmt.Errorf("export pdf: %w", err)
	}
	defer func() {
		_ = reader.Close()
	}()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read pdf bytes: %w", err)
	}
	return data, nil
}

func float64Ptr(v float64) *float64 { return &v }
