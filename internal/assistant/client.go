// Package assistant drives conversations with the OpenAI Assistants
// API: it resolves threads, uploads documents, submits runs and polls
// them to a terminal status. All conversation state lives at OpenAI,
// addressed by an opaque thread id the caller persists and resubmits.
package assistant

import (
	"context"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// API is the subset of *openai.Client the orchestrator uses. Injecting
// it instead of holding a package-level client keeps the orchestrator
// testable with a fake.
type API interface {
	CreateThread(ctx context.Context, request openai.ThreadRequest) (openai.Thread, error)
	CreateMessage(ctx context.Context, threadID string, request openai.MessageRequest) (openai.Message, error)
	CreateRun(ctx context.Context, threadID string, request openai.RunRequest) (openai.Run, error)
	RetrieveRun(ctx context.Context, threadID, runID string) (openai.Run, error)
	ListMessage(ctx context.Context, threadID string, limit *int, order, after, before, runID *string) (openai.MessagesList, error)
	CreateFileBytes(ctx context.Context, request openai.FileBytesRequest) (openai.File, error)
}

// Orchestrator composes thread resolution, file ingestion and run
// execution over a single API client. It holds no per-request state;
// one instance serves all requests concurrently.
//
// Concurrent runs against the same thread id are not serialized here:
// they race at the OpenAI side, and callers are expected to await one
// request before issuing the next on the same thread.
type Orchestrator struct {
	api          API
	pollInterval time.Duration
	maxPolls     int
}

// Options tune the run polling protocol.
type Options struct {
	// PollInterval is the wait between status polls. Defaults to 1s.
	PollInterval time.Duration
	// MaxPollAttempts bounds the polls per run. Defaults to 120, a
	// two-minute ceiling at the default interval.
	MaxPollAttempts int
}

// New creates an Orchestrator over the given API client.
func New(api API, opts Options) *Orchestrator {
	if opts.PollInterval <= 0 {
		opts.PollInterval = time.Second
	}
	if opts.MaxPollAttempts <= 0 {
		opts.MaxPollAttempts = 120
	}
	return &Orchestrator{
		api:          api,
		pollInterval: opts.PollInterval,
		maxPolls:     opts.MaxPollAttempts,
	}
}
