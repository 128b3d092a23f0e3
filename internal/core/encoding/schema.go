package encoding

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema/acquisition.schema.json
var acquisitionSchema string

const acquisitionSchemaURL = "https://nmrml.org/schemas/converter/acquisition.schema.json"

// SchemaValidator 按内嵌 JSON Schema 校验 JSON 输出
type SchemaValidator struct {
	schema *jsonschema.Schema
}

var (
	defaultValidator     *SchemaValidator
	defaultValidatorErr  error
	defaultValidatorOnce sync.Once
)

// NewSchemaValidator 编译内嵌的采集参数 schema
func NewSchemaValidator() (*SchemaValidator, error) {
	defaultValidatorOnce.Do(func() {
		c := jsonschema.NewCompiler()
		c.Draft = jsonschema.Draft2020
		if err := c.AddResource(acquisitionSchemaURL, bytes.NewReader([]byte(acquisitionSchema))); err != nil {
			defaultValidatorErr = fmt.Errorf("加载采集参数 schema 失败: %w", err)
			return
		}
		compiled, err := c.Compile(acquisitionSchemaURL)
		if err != nil {
			defaultValidatorErr = fmt.Errorf("编译采集参数 schema 失败: %w", err)
			return
		}
		defaultValidator = &SchemaValidator{schema: compiled}
	})
	return defaultValidator, defaultValidatorErr
}

// Validate 校验一段 JSON 文本
func (v *SchemaValidator) Validate(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("JSON 解析失败: %w", err)
	}
	if err := v.schema.Validate(doc); err != nil {
		return fmt.Errorf("JSON schema 校验失败: %w", err)
	}
	return nil
}
