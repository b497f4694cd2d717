// Package action 大模型（或客户端）提出的动作模型。
//
// 原始 JSON 只在边界处解析一次，得到下列具体类型之一；
// 无法识别或参数格式错误的对象统一解析为 Unrecognized，由执行器逐条拒绝。
package action

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// 动作类型
const (
	TypeShortlist     = "shortlist"
	TypeLock          = "lock"
	TypeUnlock        = "unlock"
	TypeRemove        = "remove"
	TypeCreateTask    = "create_task"
	TypeUpdateTask    = "update_task"
	TypeGenerateTasks = "generate_tasks"
	TypeUnknown       = "unknown"
)

// Types 允许的动作类型（按提示词中的顺序）
var Types = []string{
	TypeShortlist, TypeLock, TypeUnlock, TypeRemove,
	TypeCreateTask, TypeUpdateTask, TypeGenerateTasks,
}

// Action 动作
type Action interface {
	Type() string
	isAction()
}

// Shortlist 收藏院校；UniversityID 为 0 表示缺失，Category 为空表示未指定
type Shortlist struct {
	UniversityID int
	Category     string
}

// Lock 锁定已收藏院校
type Lock struct{ UniversityID int }

// Unlock 解除锁定
type Unlock struct{ UniversityID int }

// Remove 移出收藏
type Remove struct{ UniversityID int }

// CreateTask 创建任务；Stage 为空表示使用当前阶段
type CreateTask struct {
	Title string
	Stage string
}

// UpdateTask 更新任务状态
type UpdateTask struct {
	TaskID int
	Status string
}

// GenerateTasks 为当前阶段生成默认任务
type GenerateTasks struct{}

// Unrecognized 无法识别的动作
type Unrecognized struct {
	RawType string
	Reason  string
}

func (Shortlist) Type() string     { return TypeShortlist }
func (Lock) Type() string          { return TypeLock }
func (Unlock) Type() string        { return TypeUnlock }
func (Remove) Type() string        { return TypeRemove }
func (CreateTask) Type() string    { return TypeCreateTask }
func (UpdateTask) Type() string    { return TypeUpdateTask }
func (GenerateTasks) Type() string { return TypeGenerateTasks }

func (u Unrecognized) Type() string {
	if u.RawType == "" {
		return TypeUnknown
	}
	return u.RawType
}

func (Shortlist) isAction()     {}
func (Lock) isAction()          {}
func (Unlock) isAction()        {}
func (Remove) isAction()        {}
func (CreateTask) isAction()    {}
func (UpdateTask) isAction()    {}
func (GenerateTasks) isAction() {}
func (Unrecognized) isAction()  {}

// UniversityID 返回动作涉及的院校 ID（没有则为 0）
func UniversityID(a Action) int {
	switch v := a.(type) {
	case Shortlist:
		return v.UniversityID
	case Lock:
		return v.UniversityID
	case Unlock:
		return v.UniversityID
	case Remove:
		return v.UniversityID
	}
	return 0
}

type envelope struct {
	Type         string  `json:"type"`
	UniversityID flexInt `json:"university_id"`
	Category     string  `json:"category"`
	Title        string  `json:"title"`
	Stage        string  `json:"stage"`
	TaskID       flexInt `json:"task_id"`
	Status       string  `json:"status"`
}

// Parse 解析单个动作对象，永不返回 nil
func Parse(raw json.RawMessage) Action {
	var probe struct {
		Type any `json:"type"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return Unrecognized{Reason: "action is not an object"}
	}
	rawType, _ := probe.Type.(string)
	rawType = strings.ToLower(strings.TrimSpace(rawType))

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Unrecognized{RawType: rawType, Reason: "invalid action parameters"}
	}

	switch rawType {
	case TypeShortlist:
		return Shortlist{UniversityID: int(env.UniversityID), Category: normalizeCategory(env.Category)}
	case TypeLock:
		return Lock{UniversityID: int(env.UniversityID)}
	case TypeUnlock:
		return Unlock{UniversityID: int(env.UniversityID)}
	case TypeRemove:
		return Remove{UniversityID: int(env.UniversityID)}
	case TypeCreateTask:
		return CreateTask{Title: strings.TrimSpace(env.Title), Stage: strings.TrimSpace(env.Stage)}
	case TypeUpdateTask:
		return UpdateTask{TaskID: int(env.TaskID), Status: strings.ToLower(strings.TrimSpace(env.Status))}
	case TypeGenerateTasks:
		return GenerateTasks{}
	default:
		return Unrecognized{RawType: rawType}
	}
}

// ParseList 解析动作数组；null 或缺失视为空列表，非数组返回错误
func ParseList(raw json.RawMessage) ([]Action, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, fmt.Errorf("actions must be an array: %w", err)
	}
	out := make([]Action, 0, len(items))
	for _, item := range items {
		out = append(out, Parse(item))
	}
	return out, nil
}

// normalizeCategory "dream" → "Dream"；空串保持为空
func normalizeCategory(c string) string {
	c = strings.TrimSpace(c)
	if c == "" {
		return ""
	}
	return strings.ToUpper(c[:1]) + strings.ToLower(c[1:])
}

// flexInt 同时接受 JSON 数字与数字字符串；null 与空串视为 0
type flexInt int

func (f *flexInt) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" || s == `""` {
		*f = 0
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		s = strings.TrimSpace(str)
		if s == "" {
			*f = 0
			return nil
		}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("not a number: %q", s)
	}
	if v != math.Trunc(v) || v < 0 || v > math.MaxInt32 {
		return fmt.Errorf("not a valid id: %q", s)
	}
	*f = flexInt(v)
	return nil
}
