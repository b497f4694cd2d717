package action

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Action
	}{
		{"收藏带分类", `{"type":"shortlist","university_id":7,"category":"dream"}`, Shortlist{UniversityID: 7, Category: "Dream"}},
		{"字符串ID", `{"type":"lock","university_id":"12"}`, Lock{UniversityID: 12}},
		{"浮点整数ID", `{"type":"unlock","university_id":3.0}`, Unlock{UniversityID: 3}},
		{"缺少ID", `{"type":"remove"}`, Remove{}},
		{"类型大小写", `{"type":" Create_Task ","title":"  Draft SOP  "}`, CreateTask{Title: "Draft SOP"}},
		{"更新任务", `{"type":"update_task","task_id":"4","status":"Completed"}`, UpdateTask{TaskID: 4, Status: "completed"}},
		{"生成任务", `{"type":"generate_tasks"}`, GenerateTasks{}},
		{"未知类型", `{"type":"book_flight"}`, Unrecognized{RawType: "book_flight"}},
		{"缺少类型", `{"university_id":1}`, Unrecognized{}},
		{"非对象", `"lock"`, Unrecognized{Reason: "action is not an object"}},
		{"非法ID", `{"type":"lock","university_id":"abc"}`, Unrecognized{RawType: "lock", Reason: "invalid action parameters"}},
		{"小数ID", `{"type":"lock","university_id":1.5}`, Unrecognized{RawType: "lock", Reason: "invalid action parameters"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(json.RawMessage(tt.in)))
		})
	}
}

func TestUnrecognized_Type(t *testing.T) {
	assert.Equal(t, TypeUnknown, Unrecognized{}.Type())
	assert.Equal(t, "book_flight", Unrecognized{RawType: "book_flight"}.Type())
}

func TestParseList(t *testing.T) {
	list, err := ParseList(json.RawMessage(`[{"type":"shortlist","university_id":1},{"type":"nope"},{"type":"lock","university_id":1}]`))
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.IsType(t, Shortlist{}, list[0])
	assert.IsType(t, Unrecognized{}, list[1])
	assert.IsType(t, Lock{}, list[2])

	empty, err := ParseList(json.RawMessage(`null`))
	require.NoError(t, err)
	assert.Empty(t, empty)

	empty, err = ParseList(nil)
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = ParseList(json.RawMessage(`{"type":"lock"}`))
	assert.Error(t, err)
}

func TestUniversityID(t *testing.T) {
	assert.Equal(t, 5, UniversityID(Lock{UniversityID: 5}))
	assert.Equal(t, 0, UniversityID(CreateTask{Title: "x"}))
}
