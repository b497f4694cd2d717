// Package tasktemplate 各阶段默认任务模板（嵌入的 YAML）。
package tasktemplate

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"abroad-compass/backend/internal/stage"
)

//go:embed templates.yaml
var templatesYAML []byte

// Set 阶段 → 默认任务标题
type Set map[stage.Stage][]string

// For 返回阶段的默认任务标题，未知阶段返回 nil
func (s Set) For(st stage.Stage) []string {
	return s[st]
}

// Load 解析内置模板
func Load() (Set, error) {
	return Parse(templatesYAML)
}

// MustLoad 解析内置模板，失败时 panic（内置文件由测试覆盖）
func MustLoad() Set {
	s, err := Load()
	if err != nil {
		panic(err)
	}
	return s
}

// Parse 解析模板 YAML 并校验阶段名
func Parse(data []byte) (Set, error) {
	var raw map[string][]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("解析任务模板失败: %w", err)
	}
	out := make(Set, len(raw))
	for k, titles := range raw {
		if !stage.Valid(k) {
			return nil, fmt.Errorf("任务模板包含未知阶段 %q", k)
		}
		out[stage.Stage(k)] = titles
	}
	return out, nil
}
