package cli

import (
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ByLCY/vitae/internal/config"
	"github.com/ByLCY/vitae/internal/metrics"
	"github.com/ByLCY/vitae/internal/tasks"
	"github.com/ByLCY/vitae/internal/worker"
	canvasrenderer "github.com/ByLCY/vitae/renderer/canvas"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Consume export jobs and upload the finished PDFs",
	Args:  cobra.NoArgs,
	RunE:  runWorker,
}

func init() {
	rootCmd.AddCommand(workerCmd)
}

func runWorker(cmd *cobra.Command, _ []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	ctx := cmd.Context()
	svc, err := openServices(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer svc.close()

	opts := worker.Options{
		Renderer: canvasrenderer.NewRenderer(),
		Timeout:  cfg.Export.Timeout,
	}
	if cfg.Export.Engine == config.EngineBrowser {
		opts.Printer = worker.NewRodPrinter(log)
	}
	handler := worker.NewExportHandler(svc.store, svc.objects, svc.redis, newEngine(cfg), log, opts)

	server := asynq.NewServer(
		asynq.RedisClientOpt{Addr: cfg.Redis.Addr()},
		asynq.Config{
			Concurrency: cfg.Export.Concurrency,
			Logger:      log.Named("asynq").Sugar(),
		},
	)
	mux := asynq.NewServeMux()
	mux.Use(metrics.AsynqMiddleware())
	mux.Handle(tasks.TypeResumeExport, handler)

	if err := server.Start(mux); err != nil {
		return fmt.Errorf("启动任务消费者失败: %w", err)
	}
	log.Info("导出 worker 已启动",
		zap.Int("concurrency", cfg.Export.Concurrency),
		zap.String("engine", cfg.Export.Engine),
	)

	<-ctx.Done()
	log.Info("正在关闭导出 worker")
	server.Shutdown()
	return nil
}
