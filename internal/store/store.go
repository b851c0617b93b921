// Package store 持久化简历快照与导出记录。渲染核心本身不读写存储，
// 这里只是 API 与导出任务之间共享的协作者。
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/ByLCY/vitae/internal/config"
	"github.com/ByLCY/vitae/resume"
)

// ErrNotFound 表示记录不存在。
var ErrNotFound = errors.New("store: record not found")

// 导出状态。
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// ResumeRecord 保存一份简历的 JSON 快照。
type ResumeRecord struct {
	ID        string         `gorm:"primaryKey;size:64"`
	Name      string         `gorm:"size:255"`
	Content   datatypes.JSON // ResumeData 快照
	Template  string         `gorm:"size:32"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (ResumeRecord) TableName() string { return "resumes" }

// Export 记录一次异步导出。
type Export struct {
	ID            string `gorm:"primaryKey;size:36"`
	ResumeID      string `gorm:"index;size:64"`
	Tier          string `gorm:"size:16"`
	Status        string `gorm:"size:16;index"`
	Filename      string `gorm:"size:255"`
	ObjectKey     string `gorm:"size:512"`
	ContentHeight float64
	Overflow      bool
	ErrorCode     int
	ErrorMessage  string `gorm:"size:1024"`
	CorrelationID string `gorm:"size:64"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Open 使用配置连接 PostgreSQL。
func Open(cfg config.DatabaseConfig, debug bool) (*gorm.DB, error) {
	level := logger.Warn
	if debug {
		level = logger.Info
	}
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(level),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("unwrap db: %w", err)
	}
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

// Store 是基于 GORM 的仓储。
type Store struct {
	db *gorm.DB
}

// New 包装已打开的连接。
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Migrate 创建或更新表结构。
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&ResumeRecord{}, &Export{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// SaveResume 以 ID 为键写入快照，已存在时覆盖。
func (s *Store) SaveResume(ctx context.Context, r *resume.Resume) error {
	if r == nil || r.ID == "" {
		return errors.New("store: resume id is required")
	}
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal resume %s: %w", r.ID, err)
	}
	rec := ResumeRecord{
		ID:       r.ID,
		Name:     r.Name,
		Content:  datatypes.JSON(data),
		Template: r.SelectedTemplate,
	}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "content", "template", "updated_at"}),
	}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("save resume %s: %w", r.ID, err)
	}
	return nil
}

// GetResume 读取并解码快照。
func (s *Store) GetResume(ctx context.Context, id string) (*resume.Resume, error) {
	var rec ResumeRecord
	if err := s.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		return nil, wrapNotFound(err, "resume", id)
	}
	r, err := resume.Decode(rec.Content)
	if err != nil {
		return nil, fmt.Errorf("decode resume %s: %w", id, err)
	}
	if r.ID == "" {
		r.ID = rec.ID
	}
	return r, nil
}

// CreateExport 新建导出记录，状态为 pending。
func (s *Store) CreateExport(ctx context.Context, e *Export) error {
	if e.Status == "" {
		e.Status = StatusPending
	}
	if err := s.db.WithContext(ctx).Create(e).Error; err != nil {
		return fmt.Errorf("create export %s: %w", e.ID, err)
	}
	return nil
}

// GetExport 读取导出记录。
func (s *Store) GetExport(ctx context.Context, id string) (*Export, error) {
	var e Export
	if err := s.db.WithContext(ctx).First(&e, "id = ?", id).Error; err != nil {
		return nil, wrapNotFound(err, "export", id)
	}
	return &e, nil
}

// CompleteExport 标记导出成功。
func (s *Store) CompleteExport(ctx context.Context, id, objectKey, filename string, heightPx float64, overflow bool) error {
	return s.updateExport(ctx, id, map[string]any{
		"status":         StatusCompleted,
		"object_key":     objectKey,
		"filename":       filename,
		"content_height": heightPx,
		"overflow":       overflow,
		"error_code":     0,
		"error_message":  "",
	})
}

// FailExport 标记导出失败。
func (s *Store) FailExport(ctx context.Context, id string, code int, message string) error {
	return s.updateExport(ctx, id, map[string]any{
		"status":        StatusFailed,
		"error_code":    code,
		"error_message": message,
	})
}

func (s *Store) updateExport(ctx context.Context, id string, fields map[string]any) error {
	res := s.db.WithContext(ctx).Model(&Export{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return fmt.Errorf("update export %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("update export %s: %w", id, ErrNotFound)
	}
	return nil
}

func wrapNotFound(err error, kind, id string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
	}
	return fmt.Errorf("query %s %s: %w", kind, id, err)
}
