package model

// JobStatus is shared by parsing jobs and job-description analyses.
type JobStatus string

const (
	StatusPending    JobStatus = "pending"
	StatusProcessing JobStatus = "processing"
	StatusCompleted  JobStatus = "completed"
	StatusError      JobStatus = "error"
)

const (
	ProgressPending    = 0
	ProgressProcessing = 25
	ProgressCompleted  = 100
)

// Terminal reports whether no further transition may leave s.
func (s JobStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusError
}

// MigrateAble lists every table owned by the service.
var MigrateAble = []any{
	&ParsingJob{},
	&JobAnalysis{},
	&ChatSession{},
	&ChatMessage{},
}
