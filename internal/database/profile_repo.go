package database

import (
	"database/sql"
	"strings"
)

// ProfileStatus represents the outcome of one batch row
type ProfileStatus string

const (
	ProfileStatusPending      ProfileStatus = "pending"
	ProfileStatusSkippedNoURL ProfileStatus = "skipped_no_url"
	ProfileStatusNoMatch      ProfileStatus = "no_match"
	ProfileStatusMatched      ProfileStatus = "matched"
	ProfileStatusFailed       ProfileStatus = "failed"
)

// ProfileRepository handles per-row profile tracking
type ProfileRepository struct {
	db *sql.DB
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *DB) *ProfileRepository {
	return &ProfileRepository{db: db.GetConn()}
}

// ImportProfiles inserts the batch's profile URLs in one transaction
func (pr *ProfileRepository) ImportProfiles(jobID string, urls []string) error {
	if len(urls) == 0 {
		return nil
	}

	tx, err := pr.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO profiles (job_id, profile_url) VALUES (?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, url := range urls {
		if _, err := stmt.Exec(jobID, strings.TrimSpace(url)); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// UpdateProfileStatus updates the status of one profile row
func (pr *ProfileRepository) UpdateProfileStatus(jobID, url string, status ProfileStatus, lastError string) error {
	_, err := pr.db.Exec(`
		UPDATE profiles
		SET status = ?, last_error = ?, updated_at = CURRENT_TIMESTAMP
		WHERE job_id = ? AND profile_url = ?
	`, status, lastError, jobID, url)
	return err
}

// UpdateProfileWithLead marks a profile matched and stores its lead fields
func (pr *ProfileRepository) UpdateProfileWithLead(jobID, url, jobTitle, connections, companyURL string) error {
	_, err := pr.db.Exec(`
		UPDATE profiles
		SET status = ?,
			job_title = ?,
			connections = ?,
			company_url = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE job_id = ? AND profile_url = ?
	`, ProfileStatusMatched, jobTitle, connections, companyURL, jobID, url)
	return err
}

// GetProfileStats returns per-status counts for one job
func (pr *ProfileRepository) GetProfileStats(jobID string) (map[string]int, error) {
	rows, err := pr.db.Query(`
		SELECT status, COUNT(*) as count
		FROM profiles
		WHERE job_id = ?
		GROUP BY status
	`, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := make(map[string]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var total int
	if err := pr.db.QueryRow(`SELECT COUNT(*) FROM profiles WHERE job_id = ?`, jobID).Scan(&total); err != nil {
		return nil, err
	}
	stats["total"] = total

	return stats, nil
}
