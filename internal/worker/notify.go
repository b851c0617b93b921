package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// ExportNotifyMessage 是导出状态通知，经 Redis Pub/Sub 转发给 WebSocket 客户端。
type ExportNotifyMessage struct {
	Status        string `json:"status"`
	ExportID      string `json:"export_id"`
	ResumeID      string `json:"resume_id"`
	CorrelationID string `json:"correlation_id"`
	ErrorCode     int    `json:"error_code"`
	ErrorMessage  string `json:"error_message"`
	Filename      string `json:"filename,omitempty"`
	Overflow      bool   `json:"overflow"`
}

// Publisher 是 *redis.Client 的发布子集。
type Publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// NotifyChannel 返回某次导出的通知频道。
func NotifyChannel(exportID string) string {
	return "export_notify:" + exportID
}

func publishNotify(ctx context.Context, pub Publisher, msg ExportNotifyMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal notification payload: %w", err)
	}
	channel := NotifyChannel(msg.ExportID)
	if err := pub.Publish(ctx, channel, data).Err(); err != nil {
		return fmt.Errorf("publish redis notification to %q: %w", channel, err)
	}
	return nil
}
