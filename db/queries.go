package db

import (
	_ "embed"
)

// Schema and migrations

//go:embed sql/create_tables.sql
var CreateTablesSQL string

// Trim job queries

//go:embed sql/insert_job.sql
var InsertJobSQL string

//go:embed sql/select_job_by_id.sql
var SelectJobByIDSQL string

//go:embed sql/select_jobs.sql
var SelectJobsSQL string

//go:embed sql/select_next_pending_job.sql
var SelectNextPendingJobSQL string

//go:embed sql/count_jobs_by_status.sql
var CountJobsByStatusSQL string

// Job lifecycle updates

//go:embed sql/claim_job.sql
var ClaimJobSQL string

//go:embed sql/touch_job.sql
var TouchJobSQL string

//go:embed sql/mark_job_complete.sql
var MarkJobCompleteSQL string

//go:embed sql/mark_job_error.sql
var MarkJobErrorSQL string

//go:embed sql/requeue_job.sql
var RequeueJobSQL string

//go:embed sql/reset_stale_processing.sql
var ResetStaleProcessingSQL string

//go:embed sql/delete_finished_jobs.sql
var DeleteFinishedJobsSQL string

//go:embed sql/release_job.sql
var ReleaseJobSQL string
