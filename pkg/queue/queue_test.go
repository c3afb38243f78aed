package queue

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueFor(t *testing.T) {
	assert.Equal(t, QueueCritical, queueFor(1))
	assert.Equal(t, QueueDefault, queueFor(2))
	assert.Equal(t, QueueLow, queueFor(0))
	assert.Equal(t, QueueLow, queueFor(9))
}

func TestConvertAsynqStatus(t *testing.T) {
	done := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	tests := []struct {
		name     string
		info     *asynq.TaskInfo
		status   string
		progress float64
		errMsg   string
	}{
		{"pending", &asynq.TaskInfo{ID: "t1", State: asynq.TaskStatePending}, StatusPending, 0, ""},
		{"scheduled", &asynq.TaskInfo{ID: "t1", State: asynq.TaskStateScheduled}, StatusPending, 0, ""},
		{"active", &asynq.TaskInfo{ID: "t1", State: asynq.TaskStateActive}, StatusRunning, 0.5, ""},
		{"completed", &asynq.TaskInfo{ID: "t1", State: asynq.TaskStateCompleted, CompletedAt: done}, StatusCompleted, 1, ""},
		{"archived", &asynq.TaskInfo{ID: "t1", State: asynq.TaskStateArchived, LastErr: "boom"}, StatusFailed, 0, "boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := convertAsynqStatus(tt.info)
			assert.Equal(t, "t1", got.TaskID)
			assert.Equal(t, tt.status, got.Status)
			assert.Equal(t, tt.progress, got.Progress)
			assert.Equal(t, tt.errMsg, got.Error)
		})
	}

	assert.Equal(t, done, convertAsynqStatus(tests[3].info).FinishedAt)
}

func TestTaskStatusJSON(t *testing.T) {
	data, err := json.Marshal(&TaskStatus{TaskID: "org_1", Status: StatusPending})
	require.NoError(t, err)
	assert.NotContains(t, string(data), "finishedAt")
	assert.NotContains(t, string(data), "error")

	assert.True(t, (&TaskStatus{Status: StatusCancelled}).Finished())
	assert.False(t, (&TaskStatus{Status: StatusRunning}).Finished())
}

func TestTaskPayloadRoundTrip(t *testing.T) {
	task := Task{ID: "org_abc", Type: TaskTypeOrganizePlan, Payload: json.RawMessage(`{"files":["/a.pdf"]}`)}
	data, err := json.Marshal(task)
	require.NoError(t, err)

	var back Task
	require.NoError(t, json.Unmarshal(data, &back))
	assert.JSONEq(t, `{"files":["/a.pdf"]}`, string(back.Payload))
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "task_status:org_1", statusKey("org_1"))
	assert.Equal(t, "task_result:org_1", resultKey("org_1"))
}
