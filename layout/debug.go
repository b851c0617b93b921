package layout

import (
	"encoding/json"
	"io"
	"os"
)

// EncodeDebug 把布局结果以缩进 JSON 写入 w，供预检接口与 CLI 调试输出共用。
func EncodeDebug(w io.Writer, res *Result) error {
	if res == nil {
		return nil
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

// WriteDebugJSON 将布局结果输出到文件，便于对照屏幕渲染检查分区位置。
func WriteDebugJSON(res *Result, path string) error {
	if res == nil {
		return nil
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := EncodeDebug(f, res); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
