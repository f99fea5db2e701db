package db

import "time"

// Job status values, in lifecycle order.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusComplete   = "complete"
	StatusError      = "error"
)

// Job represents a row in the trim_jobs table.
type Job struct {
	ID             int64
	Source         string
	Output         string
	Start          float64
	End            float64
	Mode           string
	Status         string
	SourceDuration float64
	CreatedAt      time.Time
	StartedAt      *time.Time
	FinishedAt     *time.Time
	ErrorAt        *time.Time
	Log            string
	Filesize       int64
}

// NewJob is the input to InsertJob.
type NewJob struct {
	Source         string
	Output         string
	Start          float64
	End            float64
	Mode           string
	SourceDuration float64
}
