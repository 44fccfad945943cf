package history

import "time"

// Kind identifies which endpoint produced a record.
type Kind string

const (
	KindAnalyze Kind = "analyze"
	KindChat    Kind = "chat"
)

// Outcome summarizes how a request ended.
type Outcome string

const (
	OutcomeOK         Outcome = "ok"
	OutcomeClientErr  Outcome = "client_error"
	OutcomeRunFailed  Outcome = "run_failed"
	OutcomeRunTimeout Outcome = "run_timeout"
	OutcomeRemoteErr  Outcome = "remote_error"
)

// Record is the metadata of one orchestrator invocation. It never
// carries message or document content; conversation state stays at the
// external service.
type Record struct {
	ID         string        `json:"id"`
	CreatedAt  time.Time     `json:"created_at"`
	Kind       Kind          `json:"kind"`
	ThreadID   string        `json:"thread_id"`
	FileCount  int           `json:"file_count"`
	FileNames  []string      `json:"file_names"`
	Outcome    Outcome       `json:"outcome"`
	TableFound bool          `json:"table_found"`
	Duration   time.Duration `json:"duration_ms"`
}
