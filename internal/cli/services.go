package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ByLCY/vitae/internal/config"
	"github.com/ByLCY/vitae/internal/storage"
	"github.com/ByLCY/vitae/internal/store"
)

// services 是 serve 与 worker 共用的后端连接。
type services struct {
	store   *store.Store
	objects *storage.Client
	redis   *redis.Client
	close   func()
}

func openServices(ctx context.Context, cfg *config.Config, log *zap.Logger) (*services, error) {
	if err := cfg.ValidateServices(); err != nil {
		return nil, err
	}

	db, err := store.Open(cfg.Database, cfg.Log.Debug || debugLog)
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	st := store.New(db)
	if err := st.Migrate(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}

	objects, err := storage.NewClient(ctx, cfg.MinIO)
	if err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("初始化对象存储失败: %w", err)
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr()})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		sqlDB.Close()
		return nil, fmt.Errorf("连接 Redis 失败: %w", err)
	}

	log.Info("后端服务已连接",
		zap.String("database", cfg.Database.Host),
		zap.String("redis", cfg.Redis.Addr()),
		zap.String("bucket", cfg.MinIO.Bucket),
	)
	return &services{
		store:   st,
		objects: objects,
		redis:   rdb,
		close: func() {
			if err := rdb.Close(); err != nil {
				log.Warn("关闭 Redis 连接失败", zap.Error(err))
			}
			if err := sqlDB.Close(); err != nil {
				log.Warn("关闭数据库连接失败", zap.Error(err))
			}
		},
	}, nil
}
