package resume

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema.json
var schemaJSON []byte

var (
	schemaOnce sync.Once
	schema     *gojsonschema.Schema
	schemaErr  error
)

// ErrInvalid 表示输入未通过 JSON Schema 校验。
var ErrInvalid = errors.New("resume: schema validation failed")

// Validate 使用内置 JSON Schema 校验原始 JSON。
// 只拒绝结构错误（类型不符等），缺字段属于正常的“未完成简历”。
func Validate(data []byte) error {
	schemaOnce.Do(func() {
		schema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaJSON))
	})
	if schemaErr != nil {
		return fmt.Errorf("load resume schema: %w", schemaErr)
	}
	res, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if res.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
}

// Parse 校验并解码 JSON 快照。
func Parse(data []byte) (*Resume, error) {
	if err := Validate(data); err != nil {
		return nil, err
	}
	r, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode resume: %w", err)
	}
	return r, nil
}
