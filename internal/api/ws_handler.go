package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ByLCY/vitae/internal/api/middleware"
	"github.com/ByLCY/vitae/internal/store"
	"github.com/ByLCY/vitae/internal/worker"
)

// Subscriber 是 *redis.Client 的订阅子集。
type Subscriber interface {
	Subscribe(ctx context.Context, channels ...string) *redis.PubSub
}

// WsHandler 把某次导出的状态通知从 Redis 频道转发到 WebSocket。
type WsHandler struct {
	store          *store.Store
	redisClient    Subscriber
	upgrader       websocket.Upgrader
	allowedOrigins []string
}

func NewWsHandler(st *store.Store, redisClient Subscriber, allowedOrigins []string) *WsHandler {
	h := &WsHandler{store: st, redisClient: redisClient, allowedOrigins: allowedOrigins}
	h.upgrader = websocket.Upgrader{CheckOrigin: h.checkOrigin}
	return h
}

func (h *WsHandler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	if len(h.allowedOrigins) == 0 {
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return strings.EqualFold(u.Host, r.Host)
	}
	for _, allowed := range h.allowedOrigins {
		if origin == allowed {
			return true
		}
	}
	return false
}

// HandleConnection 升级连接并推送状态，导出结束（完成或失败）后关闭。
func (h *WsHandler) HandleConnection(c *gin.Context) {
	exportID := c.Param("exportId")
	rec, err := h.store.GetExport(c.Request.Context(), exportID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			NotFound(c, "export not found")
			return
		}
		Internal(c, "load export failed")
		return
	}

	log := middleware.LoggerFromContext(c).With(zap.String("export_id", exportID))
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn("升级 WebSocket 失败", zap.Error(err))
		return
	}
	defer conn.Close()

	// 已结束的导出直接回放最终状态。
	if rec.Status != store.StatusPending {
		_ = writeJSON(conn, snapshotMessage(rec))
		writeClose(conn, websocket.CloseNormalClosure, rec.Status)
		return
	}

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()
	go drain(conn, cancel)

	if err := h.forward(ctx, conn, exportID); err != nil {
		log.Info("websocket connection closed", zap.Error(err))
		return
	}
	writeClose(conn, websocket.CloseNormalClosure, "done")
}

// forward 订阅通知频道，直到收到终态消息或连接断开。
func (h *WsHandler) forward(ctx context.Context, conn *websocket.Conn, exportID string) error {
	pubsub := h.redisClient.Subscribe(ctx, worker.NotifyChannel(exportID))
	defer pubsub.Close()
	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}
	// 订阅生效前任务可能已结束，补读一次记录。
	if rec, err := h.store.GetExport(ctx, exportID); err == nil && rec.Status != store.StatusPending {
		return writeJSON(conn, snapshotMessage(rec))
	}

	ch := pubsub.Channel()
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return fmt.Errorf("pubsub channel closed")
			}
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg.Payload)); err != nil {
				return fmt.Errorf("write message: %w", err)
			}
			var notify worker.ExportNotifyMessage
			if err := json.Unmarshal([]byte(msg.Payload), &notify); err == nil && notify.Status != store.StatusPending {
				return nil
			}
		case <-ticker.C:
			deadline := time.Now().Add(5 * time.Second)
			if err := conn.WriteControl(websocket.PingMessage, []byte("ping"), deadline); err != nil {
				return fmt.Errorf("write ping: %w", err)
			}
		}
	}
}

// drain 读取并丢弃客户端消息，用于感知断开。
func drain(conn *websocket.Conn, cancel context.CancelFunc) {
	defer cancel()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func snapshotMessage(rec *store.Export) worker.ExportNotifyMessage {
	return worker.ExportNotifyMessage{
		Status:        rec.Status,
		ExportID:      rec.ID,
		ResumeID:      rec.ResumeID,
		CorrelationID: rec.CorrelationID,
		ErrorCode:     rec.ErrorCode,
		ErrorMessage:  rec.ErrorMessage,
		Filename:      rec.Filename,
		Overflow:      rec.Overflow,
	}
}

func writeJSON(conn *websocket.Conn, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, data)
}

func writeClose(conn *websocket.Conn, code int, text string) {
	deadline := time.Now().Add(5 * time.Second)
	_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, text), deadline)
}
