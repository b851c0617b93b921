package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	t.Parallel()
	for _, tc := range []struct {
		json, debug bool
	}{{false, false}, {true, false}, {true, true}} {
		l, err := New(tc.json, tc.debug)
		if err != nil {
			t.Fatalf("New(%v, %v): %v", tc.json, tc.debug, err)
		}
		if got := l.Core().Enabled(-1); got != tc.debug {
			t.Fatalf("debug 级别开关 = %v，期望 %v", got, tc.debug)
		}
	}
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		limit  int
		expect string
	}{
		{name: "非正上限返回空串", input: "hello", limit: 0, expect: ""},
		{name: "未超出", input: "hello", limit: 10, expect: "hello"},
		{name: "截断并追加省略号", input: "hello world", limit: 5, expect: "hello..."},
		{name: "按字符截断", input: "简历导出失败", limit: 2, expect: "简历..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Truncate(tt.input, tt.limit); got != tt.expect {
				t.Fatalf("expected %q, got %q", tt.expect, got)
			}
		})
	}
}

func TestWithFields(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)

	WithFields(zap.New(core), zap.String("component", "export")).Info("test log")

	entries := observed.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if got := entries[0].ContextMap()["component"]; got != "export" {
		t.Fatalf("expected component field, got %v", got)
	}

	// 空日志器不应 panic。
	WithFields(nil, zap.String("a", "b")).Info("ignored")
}
