package models

// OrganizeJob is the payload of an async organize task.
type OrganizeJob struct {
	RequestID    string          `json:"request_id"`
	Files        []string        `json:"files"`
	Destinations []string        `json:"destinations"`
	Options      OrganizeOptions `json:"options"`
}

// TaskAccepted is returned when an organize job is queued.
type TaskAccepted struct {
	TaskID string `json:"task_id"`
	Status string `json:"status"`
}
