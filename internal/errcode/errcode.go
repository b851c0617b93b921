package errcode

// 导出通知中的错误码：
// - 0：成功
// - 4xxx：数据问题，任务不再重试（例如简历快照已被删除）
// - 5xxx：系统错误（渲染、存储或队列故障）
const (
	OK              = 0
	ResourceMissing = 4004
	SystemError     = 5000
)
