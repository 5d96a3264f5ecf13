package database

import (
	"database/sql"
	"errors"
	"time"
)

// JobStatus represents the status of a batch job
type JobStatus string

const (
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// ErrJobNotFound is returned when no job matches the lookup key.
var ErrJobNotFound = errors.New("job not found")

// Job represents one background batch run over an uploaded CSV
type Job struct {
	ID            string    `json:"id"`
	InputFile     string    `json:"input_file"`
	ResultFile    string    `json:"result_file"`
	Status        JobStatus `json:"status"`
	TotalRows     int       `json:"total_rows"`
	ProcessedRows int       `json:"processed_rows"`
	MatchedRows   int       `json:"matched_rows"`
	LastError     string    `json:"last_error,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// JobRepository handles job bookkeeping operations
type JobRepository struct {
	db *sql.DB
}

// NewJobRepository creates a new job repository
func NewJobRepository(db *DB) *JobRepository {
	return &JobRepository{db: db.GetConn()}
}

// CreateJob records a new processing job
func (jr *JobRepository) CreateJob(id, inputFile, resultFile string, totalRows int) error {
	_, err := jr.db.Exec(`
		INSERT INTO jobs (id, input_file, result_file, total_rows)
		VALUES (?, ?, ?, ?)
	`, id, inputFile, resultFile, totalRows)
	return err
}

// UpdateJobStatus updates the status of a job
func (jr *JobRepository) UpdateJobStatus(id string, status JobStatus, lastError string) error {
	_, err := jr.db.Exec(`
		UPDATE jobs
		SET status = ?, last_error = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, status, lastError, id)
	return err
}

// UpdateJobProgress updates the row counters of a job
func (jr *JobRepository) UpdateJobProgress(id string, processedRows, matchedRows int) error {
	_, err := jr.db.Exec(`
		UPDATE jobs
		SET processed_rows = ?, matched_rows = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, processedRows, matchedRows, id)
	return err
}

// GetJobByResultFile returns the most recent job that writes the given
// result file
func (jr *JobRepository) GetJobByResultFile(resultFile string) (*Job, error) {
	row := jr.db.QueryRow(`
		SELECT id, input_file, result_file, status, total_rows, processed_rows,
		       matched_rows, COALESCE(last_error, ''), created_at, updated_at
		FROM jobs
		WHERE result_file = ?
		ORDER BY created_at DESC
		LIMIT 1
	`, resultFile)

	var job Job
	err := row.Scan(&job.ID, &job.InputFile, &job.ResultFile, &job.Status,
		&job.TotalRows, &job.ProcessedRows, &job.MatchedRows, &job.LastError,
		&job.CreatedAt, &job.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrJobNotFound
	}
	if err != nil {
		return nil, err
	}

	return &job, nil
}
