package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ByLCY/vitae/engine"
	"github.com/ByLCY/vitae/internal/config"
	"github.com/ByLCY/vitae/internal/logger"
)

const (
	app = "vitae"
)

var (
	// Used for flags.
	cfgFile  string
	debugLog bool
	jsonLog  bool

	rootCmd = &cobra.Command{
		Use:           app,
		Short:         "vitae renders resumes into live previews and print-ready A4 PDFs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute executes the root command. SIGINT/SIGTERM 会取消命令的上下文。
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return err
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default: built-in defaults and environment variables)")
	rootCmd.PersistentFlags().BoolVarP(&debugLog, "debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolVarP(&jsonLog, "json", "j", false, "json format for logging")
}

// setup 加载配置并创建日志器。命令行开关与配置中的 log 段取或。
func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	log, err := logger.New(jsonLog || cfg.Log.JSON, debugLog || cfg.Log.Debug)
	if err != nil {
		return nil, nil, fmt.Errorf("creating a logger: %w", err)
	}
	return cfg, log, nil
}

func newEngine(cfg *config.Config) *engine.Engine {
	return engine.New(engine.Options{
		BrandingText:        cfg.Render.BrandingText,
		EnforceTemplateTier: cfg.Render.EnforceTemplateTier,
		FilenamePattern:     cfg.Render.FilenamePattern,
	})
}
