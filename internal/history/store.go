package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"klemmenplan/internal/db"
)

// Store provides persistence for request records.
type Store struct {
	db *db.DB
}

// NewStore creates a Store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Log inserts a new record. If rec.ID is empty a UUID is generated.
func (s *Store) Log(ctx context.Context, rec Record) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.Outcome == "" {
		rec.Outcome = OutcomeOK
	}

	names, err := json.Marshal(rec.FileNames)
	if err != nil {
		return fmt.Errorf("marshalling file names: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO requests (
			id, kind, thread_id, file_count, file_names,
			outcome, table_found, duration_ms
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		string(rec.Kind),
		rec.ThreadID,
		rec.FileCount,
		string(names),
		string(rec.Outcome),
		boolToInt(rec.TableFound),
		rec.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("inserting request record: %w", err)
	}
	return nil
}

// GetByID retrieves a single record.
func (s *Store) GetByID(ctx context.Context, id string) (*Record, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, created_at, kind, thread_id, file_count, file_names,
			   outcome, table_found, duration_ms
		FROM requests WHERE id = ?`, id)

	rec, err := scanInto(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return rec, err
}

// QueryFilter controls which records are returned by Query.
type QueryFilter struct {
	Kind     Kind
	ThreadID string
	Since    *time.Time
	Limit    int
	Offset   int
}

// Query returns records matching the filter, newest first.
func (s *Store) Query(ctx context.Context, filter QueryFilter) ([]Record, error) {
	var (
		clauses []string
		args    []any
	)

	if filter.Kind != "" {
		clauses = append(clauses, "kind = ?")
		args = append(args, string(filter.Kind))
	}
	if filter.ThreadID != "" {
		clauses = append(clauses, "thread_id = ?")
		args = append(args, filter.ThreadID)
	}
	if filter.Since != nil {
		clauses = append(clauses, "created_at >= ?")
		args = append(args, filter.Since.UTC().Format(time.DateTime))
	}

	query := "SELECT id, created_at, kind, thread_id, file_count, file_names, outcome, table_found, duration_ms FROM requests"
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY created_at DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying request records: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		rec, err := scanInto(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

// DeleteBefore removes records older than the given time. Returns the
// number of deleted rows.
func (s *Store) DeleteBefore(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM requests WHERE created_at < ?",
		before.UTC().Format(time.DateTime),
	)
	if err != nil {
		return 0, fmt.Errorf("deleting old request records: %w", err)
	}
	return res.RowsAffected()
}

// scanner is implemented by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanInto(sc scanner) (*Record, error) {
	var (
		rec        Record
		ts         string
		kind       string
		outcome    string
		namesJSON  string
		tableFound int
		durationMS int64
	)

	err := sc.Scan(
		&rec.ID, &ts, &kind, &rec.ThreadID, &rec.FileCount, &namesJSON,
		&outcome, &tableFound, &durationMS,
	)
	if err != nil {
		return nil, err
	}

	rec.Kind = Kind(kind)
	rec.Outcome = Outcome(outcome)
	rec.TableFound = tableFound != 0
	rec.Duration = time.Duration(durationMS) * time.Millisecond

	if t, parseErr := time.Parse(time.DateTime, ts); parseErr == nil {
		rec.CreatedAt = t
	} else if t, parseErr := time.Parse("2006-01-02T15:04:05Z", ts); parseErr == nil {
		rec.CreatedAt = t
	}

	if err := json.Unmarshal([]byte(namesJSON), &rec.FileNames); err != nil {
		rec.FileNames = nil
	}

	return &rec, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
