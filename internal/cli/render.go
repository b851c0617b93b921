package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ByLCY/vitae/layout"
	canvasrenderer "github.com/ByLCY/vitae/renderer/canvas"
	"github.com/ByLCY/vitae/resume"
	"github.com/ByLCY/vitae/screen"
	"github.com/ByLCY/vitae/tier"
)

var renderFlags struct {
	out       string
	tier      string
	html      string
	viewport  float64
	debugJSON string
	timeout   time.Duration
}

var renderCmd = &cobra.Command{
	Use:   "render <resume.json>",
	Short: "Render a resume JSON snapshot to an A4 PDF",
	Args:  cobra.ExactArgs(1),
	RunE:  runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringVarP(&renderFlags.out, "out", "o", "", "PDF output path (default: the export filename pattern, in the current directory)")
	renderCmd.Flags().StringVarP(&renderFlags.tier, "tier", "t", string(tier.Free), "subscription tier: free or pro")
	renderCmd.Flags().StringVar(&renderFlags.html, "html", "", "also write the screen preview as a standalone HTML page")
	renderCmd.Flags().Float64Var(&renderFlags.viewport, "viewport", 0, "container width in px for the HTML preview (0: default scale)")
	renderCmd.Flags().StringVar(&renderFlags.debugJSON, "debug-json", "", "write the document layout as JSON for inspection")
	renderCmd.Flags().DurationVar(&renderFlags.timeout, "timeout", time.Minute, "abort PDF serialization after this long")
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("无法读取简历文件 %s: %w", args[0], err)
	}
	r, err := resume.Parse(data)
	if err != nil {
		return err
	}
	tr := tier.Parse(renderFlags.tier)
	eng := newEngine(cfg)
	rr := canvasrenderer.NewRenderer()

	height, overflow, err := eng.Preflight(r, tr)
	if err != nil {
		return fmt.Errorf("溢出预检失败: %w", err)
	}
	if overflow {
		log.Warn("内容超出单页，超出部分不会分页", zap.Float64("content_height_px", height))
	}

	if renderFlags.debugJSON != "" {
		result, err := eng.RenderForDocument(r, tr, rr)
		if err != nil {
			return fmt.Errorf("布局计算失败: %w", err)
		}
		if err := writeWithDir(renderFlags.debugJSON, func(path string) error {
			return layout.WriteDebugJSON(result, path)
		}); err != nil {
			return fmt.Errorf("输出调试 JSON 失败: %w", err)
		}
		log.Info("已输出布局调试 JSON", zap.String("path", renderFlags.debugJSON))
	}

	if renderFlags.html != "" {
		view, err := eng.RenderForScreen(r, tr, renderFlags.viewport)
		if err != nil {
			return fmt.Errorf("屏幕渲染失败: %w", err)
		}
		doc, err := screen.Document(view, r.Name)
		if err != nil {
			return err
		}
		if err := writeWithDir(renderFlags.html, func(path string) error {
			return os.WriteFile(path, []byte(doc), 0o644)
		}); err != nil {
			return fmt.Errorf("写入 HTML 失败: %w", err)
		}
		log.Info("已输出预览 HTML", zap.String("path", renderFlags.html))
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), renderFlags.timeout)
	defer cancel()
	pdf, err := eng.Export(ctx, r, tr, rr)
	if err != nil {
		return fmt.Errorf("生成 PDF 失败: %w", err)
	}

	out := renderFlags.out
	if out == "" {
		out = eng.Filename(r)
	}
	if err := writeWithDir(out, func(path string) error {
		return os.WriteFile(path, pdf, 0o644)
	}); err != nil {
		return fmt.Errorf("写入 PDF 文件失败: %w", err)
	}
	log.Info("已生成 PDF",
		zap.String("path", out),
		zap.Int("bytes", len(pdf)),
		zap.String("tier", string(tr)),
		zap.Bool("overflow", overflow),
	)
	return nil
}

func writeWithDir(path string, write func(string) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return write(path)
}
