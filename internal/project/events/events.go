// Package events defines the task lifecycle event envelope and its producer.
//
// Events are published to one topic, keyed by task ID so all events for a
// task land on the same partition in publish order. Across tasks there is no
// ordering guarantee; consumers must not assume global order.
package events

import "time"

// Type is the closed set of task lifecycle transitions. Adding a transition
// means adding a constant here and a message case in the consumer; the
// exhaustive switch there keeps the two in sync.
type Type string

const (
	TypeTaskCreated   Type = "TASK_CREATED"
	TypeTaskUpdated   Type = "TASK_UPDATED"
	TypeTaskCompleted Type = "TASK_COMPLETED"
)

// TaskEvent is the immutable record describing one task lifecycle transition.
// Produced once per committed mutation (best effort), consumed at least once.
type TaskEvent struct {
	EventType    Type      `json:"eventType"`
	TaskID       int64     `json:"taskId"`
	TaskTitle    string    `json:"taskTitle"`
	AssigneeID   int64     `json:"assigneeId"`
	AssigneeName string    `json:"assigneeName"`
	ProjectID    int64     `json:"projectId"`
	ProjectName  string    `json:"projectName"`
	Timestamp    time.Time `json:"timestamp"`
}
