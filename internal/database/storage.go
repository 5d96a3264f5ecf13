// Package database tracks batch jobs and per-profile outcomes in SQLite.
// It is bookkeeping only; the CSV files in the upload and results
// directories remain the source of truth.
package database

// Storage bundles the connection with its repositories
type Storage struct {
	db       *DB
	Jobs     *JobRepository
	Profiles *ProfileRepository
}

// Open opens the database and initializes the repositories
func Open(dbPath string) (*Storage, error) {
	db, err := New(dbPath)
	if err != nil {
		return nil, err
	}

	return &Storage{
		db:       db,
		Jobs:     NewJobRepository(db),
		Profiles: NewProfileRepository(db),
	}, nil
}

// Close closes the underlying connection
func (s *Storage) Close() error {
	return s.db.Close()
}
