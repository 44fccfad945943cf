package analysis

import (
	"context"

	"klemmenplan/internal/assistant"
	"klemmenplan/internal/klemmen"
)

// Conversations is the orchestrator surface the handlers depend on.
// *assistant.Orchestrator satisfies it; tests substitute a fake.
type Conversations interface {
	ResolveThread(ctx context.Context, existingID string) (string, error)
	UploadFiles(ctx context.Context, files []assistant.RawFile) ([]assistant.UploadedFile, error)
	RunTurn(ctx context.Context, req assistant.TurnRequest) (string, error)
}

// Config holds the per-endpoint settings the handlers consume.
type Config struct {
	// AnalyzeAssistantID is fixed server-side; the analyze endpoint
	// never accepts an identity from the request body.
	AnalyzeAssistantID string
	// ChatAssistantID is the default chat identity. A request may
	// override it via the assistantId field.
	ChatAssistantID string
	// MaxFiles bounds the file count of one analyze request.
	MaxFiles int
	// StrictTable applies full schema validation to extracted tables.
	StrictTable bool
	// APIKeySet records whether the OpenAI credential was present at
	// startup. When false, both endpoints answer 500 with a diagnostic
	// instead of attempting remote calls.
	APIKeySet bool
}

// FileSummary echoes an uploaded file back to the client.
type FileSummary struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
	Type string `json:"type"`
}

// AnalyzeResponse is the payload of POST /api/analyze. Table is null
// when no schema-conforming table could be extracted; that is not an
// error and Note tells the user how to re-request the structured form.
type AnalyzeResponse struct {
	Received int            `json:"received"`
	Files    []FileSummary  `json:"files"`
	ThreadID string         `json:"threadId"`
	Reply    string         `json:"reply"`
	Table    *klemmen.Table `json:"table"`
	Note     string         `json:"note"`
}

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	Message     string `json:"message"`
	ThreadID    string `json:"threadId,omitempty"`
	AssistantID string `json:"assistantId,omitempty"`
}

// ChatResponse is the payload of POST /api/chat.
type ChatResponse struct {
	ThreadID string `json:"threadId"`
	Reply    string `json:"reply"`
}
