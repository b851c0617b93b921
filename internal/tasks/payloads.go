package tasks

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

// 任务类型常量，确保队列生产者与消费者一致。
const (
	TypeResumeExport = "resume:export"
)

// ExportPayload 描述一次导出所需的最小信息。简历内容由 worker 从快照库读取。
type ExportPayload struct {
	ExportID      string `json:"export_id"`
	ResumeID      string `json:"resume_id"`
	Tier          string `json:"tier"`
	CorrelationID string `json:"correlation_id"`
}

// NewExportTask 构造导出任务。任务 ID 取导出 ID，重复提交会被队列拒绝。
func NewExportTask(p ExportPayload, opts ...asynq.Option) (*asynq.Task, error) {
	if p.ExportID == "" || p.ResumeID == "" {
		return nil, fmt.Errorf("export task requires export and resume id")
	}
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	opts = append([]asynq.Option{asynq.TaskID(p.ExportID)}, opts...)
	return asynq.NewTask(TypeResumeExport, payload, opts...), nil
}

// ParseExportPayload 解析任务负载。
func ParseExportPayload(t *asynq.Task) (ExportPayload, error) {
	var p ExportPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return p, fmt.Errorf("unmarshal %s payload: %w", t.Type(), err)
	}
	return p, nil
}
