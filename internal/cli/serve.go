package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ByLCY/vitae/internal/api"
	canvasrenderer "github.com/ByLCY/vitae/renderer/canvas"
)

var serveOrigins []string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API: previews, PDF rendering, snapshots and export jobs",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringSliceVar(&serveOrigins, "allowed-origin", nil, "origins allowed to open export WebSockets (default: any)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	if !(debugLog || cfg.Log.Debug) {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := cmd.Context()
	svc, err := openServices(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer svc.close()

	queue := asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.Redis.Addr()})
	defer queue.Close()

	opts := api.OptionsFromConfig(cfg)
	opts.AllowedOrigins = serveOrigins
	router := api.NewRouter(api.Deps{
		Engine:   newEngine(cfg),
		Renderer: canvasrenderer.NewRenderer(),
		Store:    svc.store,
		Queue:    queue,
		Objects:  svc.objects,
		Redis:    svc.redis,
		Logger:   log,
		Options:  opts,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.API.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	log.Info("API 服务已启动", zap.String("addr", srv.Addr), zap.String("export_engine", cfg.Export.Engine))

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP 服务异常退出: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("正在关闭 API 服务")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
