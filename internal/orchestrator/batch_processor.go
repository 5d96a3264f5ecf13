// Package orchestrator runs uploaded CSV batches through the profile
// validator, one row at a time, over a single shared browser session.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"linkedin-leads/internal/database"
	"linkedin-leads/internal/models"
	"linkedin-leads/internal/scraper"
	"linkedin-leads/internal/storage"
	"linkedin-leads/internal/utils"
)

// ErrBatchInProgress is returned when a batch is scheduled while another is
// still running. The single browser session cannot serve two batches.
var ErrBatchInProgress = errors.New("a batch is already being processed")

// leadColumns are the derived output columns, in output order.
var leadColumns = []string{
	"lead_status",
	"profile_job_title",
	"profile_connections",
	"company_url",
	"company_about",
	"product_category",
}

// Validator produces a profile result for one URL, or nil when the profile
// is not a lead. The live implementation is scraper.Validator.
type Validator interface {
	Validate(ctx context.Context, s scraper.Session, profileURL string) *models.ProfileResult
}

// SessionFactory creates a browser session and returns its release func.
// The processor acquires one session per batch and always releases it.
type SessionFactory func(ctx context.Context) (scraper.Session, func(), error)

// BatchProcessor handles batch processing of uploaded lead tables
type BatchProcessor struct {
	cfg        models.Config
	validator  Validator
	newSession SessionFactory
	db         *database.Storage // may be nil; job tracking is then skipped
	sem        *semaphore.Weighted
}

// NewBatchProcessor creates a new BatchProcessor instance
func NewBatchProcessor(cfg models.Config, validator Validator, newSession SessionFactory, db *database.Storage) *BatchProcessor {
	return &BatchProcessor{
		cfg:        cfg,
		validator:  validator,
		newSession: newSession,
		db:         db,
		sem:        semaphore.NewWeighted(1),
	}
}

// Enqueue schedules the table for background processing and returns
// immediately. Callers poll for the result file, or ask /status.
func (bp *BatchProcessor) Enqueue(table *storage.Table, inputFile, resultFile, resultPath string) error {
	if !bp.sem.TryAcquire(1) {
		return ErrBatchInProgress
	}

	go func() {
		defer bp.sem.Release(1)
		bp.run(table, inputFile, resultFile, resultPath)
	}()

	return nil
}

func (bp *BatchProcessor) run(table *storage.Table, inputFile, resultFile, resultPath string) {
	jobID := uuid.NewString()
	start := time.Now()

	if bp.db != nil {
		if err := bp.db.Jobs.CreateJob(jobID, inputFile, resultFile, len(table.Rows)); err != nil {
			log.Printf("⚠️ Failed to record job %s: %v", jobID, err)
		}
		urls := make([]string, 0, len(table.Rows))
		for _, row := range table.Rows {
			urls = append(urls, row[bp.cfg.URLColumn])
		}
		if err := bp.db.Profiles.ImportProfiles(jobID, urls); err != nil {
			log.Printf("⚠️ Failed to import profile rows for job %s: %v", jobID, err)
		}
	}

	log.Printf("🚀 Starting batch %s: %d rows from %s", jobID, len(table.Rows), inputFile)

	err := bp.Process(context.Background(), jobID, table, resultPath)

	if bp.db != nil {
		status, lastError := database.JobStatusCompleted, ""
		if err != nil {
			status, lastError = database.JobStatusFailed, err.Error()
		}
		if dbErr := bp.db.Jobs.UpdateJobStatus(jobID, status, lastError); dbErr != nil {
			log.Printf("⚠️ Failed to update job %s: %v", jobID, dbErr)
		}
	}

	if err != nil {
		log.Printf("❌ Batch %s failed after %s: %v", jobID, utils.FormatDuration(time.Since(start)), err)
		return
	}
	log.Printf("🎉 Batch %s finished in %s, results in %s", jobID, utils.FormatDuration(time.Since(start)), resultPath)
}

// Process runs the batch synchronously: one browser session for the whole
// table, rows strictly sequential, per-row failures logged and skipped. Its
// error reflects only session initialization or the final write.
func (bp *BatchProcessor) Process(ctx context.Context, jobID string, table *storage.Table, resultPath string) error {
	session, release, err := bp.newSession(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize browser session: %w", err)
	}
	defer release()

	var leads []map[string]string
	processed := 0

	for i, row := range table.Rows {
		url := strings.TrimSpace(row[bp.cfg.URLColumn])
		if !strings.HasPrefix(url, "http") {
			bp.trackStatus(jobID, url, database.ProfileStatusSkippedNoURL, "")
			continue
		}

		log.Printf("🔍 Validating profile %d/%d: %s", i+1, len(table.Rows), url)
		result := bp.validateRow(ctx, jobID, session, url)
		processed++

		if result == nil || len(result.Companies) == 0 {
			bp.trackStatus(jobID, url, database.ProfileStatusNoMatch, "")
			bp.trackProgress(jobID, processed, len(leads))
			continue
		}

		// One lead per profile: keep the first matching company only.
		company := result.Companies[0]

		lead := make(map[string]string, len(row)+len(leadColumns))
		for k, v := range row {
			lead[k] = v
		}
		leadStatus := "invalid"
		if result.HasPhoto && result.JobTitle != "" {
			leadStatus = "valid"
		}
		lead["lead_status"] = leadStatus
		lead["profile_job_title"] = result.JobTitle
		lead["profile_connections"] = result.Connections
		lead["company_url"] = company.CompanyURL
		lead["company_about"] = company.About
		lead["product_category"] = "" // reserved for a later classification stage

		leads = append(leads, lead)

		if bp.db != nil {
			if err := bp.db.Profiles.UpdateProfileWithLead(jobID, url, result.JobTitle, result.Connections, company.CompanyURL); err != nil {
				log.Printf("⚠️ Failed to record lead for %s: %v", url, err)
			}
		}
		bp.trackProgress(jobID, processed, len(leads))
	}

	out := &storage.Table{Headers: table.Headers}
	if len(leads) > 0 {
		sort.SliceStable(leads, func(i, j int) bool {
			return leads[i]["profile_job_title"] < leads[j]["profile_job_title"]
		})
		out.Headers = outputHeaders(table.Headers)
		out.Rows = leads
	}

	if err := storage.WriteTable(resultPath, out); err != nil {
		return fmt.Errorf("failed to write result table: %w", err)
	}

	log.Printf("💾 Wrote %d lead rows to %s", len(leads), resultPath)
	return nil
}

// validateRow isolates one row: a panicking or failing validator never takes
// the batch down with it.
func (bp *BatchProcessor) validateRow(ctx context.Context, jobID string, session scraper.Session, url string) (result *models.ProfileResult) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("❌ Row failed for %s: %v", url, r)
			bp.trackStatus(jobID, url, database.ProfileStatusFailed, fmt.Sprint(r))
			result = nil
		}
	}()
	return bp.validator.Validate(ctx, session, url)
}

func (bp *BatchProcessor) trackStatus(jobID, url string, status database.ProfileStatus, lastError string) {
	if bp.db == nil || jobID == "" {
		return
	}
	if err := bp.db.Profiles.UpdateProfileStatus(jobID, url, status, lastError); err != nil {
		log.Printf("⚠️ Failed to update profile status for %s: %v", url, err)
	}
}

func (bp *BatchProcessor) trackProgress(jobID string, processed, matched int) {
	if bp.db == nil || jobID == "" {
		return
	}
	if err := bp.db.Jobs.UpdateJobProgress(jobID, processed, matched); err != nil {
		log.Printf("⚠️ Failed to update job progress: %v", err)
	}
}

// outputHeaders appends the derived columns to the input headers, keeping
// input order and skipping any the input already carries.
func outputHeaders(input []string) []string {
	headers := make([]string, 0, len(input)+len(leadColumns))
	seen := make(map[string]struct{}, len(input))
	for _, h := range input {
		headers = append(headers, h)
		seen[h] = struct{}{}
	}
	for _, h := range leadColumns {
		if _, ok := seen[h]; !ok {
			headers = append(headers, h)
		}
	}
	return headers
}
