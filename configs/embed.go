// Package configs 内嵌示例配置文件
package configs

import _ "embed"

//go:embed nmrml.example.yaml
var exampleConfig []byte

// ExampleFormat 示例配置的格式
const ExampleFormat = "yaml"

// Example 获取示例配置内容
func Example() []byte {
	return exampleConfig
}
