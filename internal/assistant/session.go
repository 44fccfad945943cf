package assistant

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// ResolveThread returns the conversation thread to use for a request.
// A non-empty caller-supplied id is returned unchanged without remote
// validation; whether it still exists is discovered on first use.
// Otherwise a new thread is created at OpenAI.
func (o *Orchestrator) ResolveThread(ctx context.Context, existingID string) (string, error) {
	if existingID != "" {
		return existingID, nil
	}
	thread, err := o.api.CreateThread(ctx, openai.ThreadRequest{})
	if err != nil {
		return "", fmt.Errorf("creating thread: %w", err)
	}
	return thread.ID, nil
}
