package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// ErrRunTimeout reports that a run did not reach a terminal status
// within the polling budget. The remote run keeps executing; it is
// not cancelled or cleaned up.
var ErrRunTimeout = errors.New("run did not finish within the polling budget")

// RunFailedError reports a run that ended in a terminal failure status.
type RunFailedError struct {
	Status openai.RunStatus
}

func (e *RunFailedError) Error() string {
	return fmt.Sprintf("run ended with status %s", e.Status)
}

// recentMessagesWindow is how many thread messages are listed when
// looking for the newest assistant reply.
const recentMessagesWindow = 15

// TurnRequest describes one conversational turn.
type TurnRequest struct {
	ThreadID    string
	AssistantID string
	Text        string
	// Attachments are referenced by the user message and tagged for
	// file_search retrieval. May be empty (chat path).
	Attachments []UploadedFile
}

// RunTurn appends a user message to the thread, starts a run with the
// given assistant identity and polls it to a terminal status. On
// completion it returns the newest assistant reply with its text
// segments joined by a blank line; non-text segments are ignored.
//
// The driver only observes run state: every transition happens at
// OpenAI. Terminal failure statuses surface as *RunFailedError and an
// exhausted polling budget as ErrRunTimeout.
func (o *Orchestrator) RunTurn(ctx context.Context, req TurnRequest) (string, error) {
	msg := openai.MessageRequest{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Text,
	}
	for _, f := range req.Attachments {
		msg.Attachments = append(msg.Attachments, openai.ThreadAttachment{
			FileID: f.RemoteID,
			Tools:  []openai.ThreadAttachmentTool{{Type: string(openai.AssistantToolTypeFileSearch)}},
		})
	}
	if _, err := o.api.CreateMessage(ctx, req.ThreadID, msg); err != nil {
		return "", fmt.Errorf("appending user message: %w", err)
	}

	run, err := o.api.CreateRun(ctx, req.ThreadID, openai.RunRequest{
		AssistantID: req.AssistantID,
	})
	if err != nil {
		return "", fmt.Errorf("starting run: %w", err)
	}

	for attempt := 0; attempt < o.maxPolls; attempt++ {
		r, err := o.api.RetrieveRun(ctx, req.ThreadID, run.ID)
		if err != nil {
			return "", fmt.Errorf("polling run %s: %w", run.ID, err)
		}

		switch r.Status {
		case openai.RunStatusCompleted:
			return o.latestAssistantReply(ctx, req.ThreadID)
		case openai.RunStatusFailed, openai.RunStatusCancelled,
			openai.RunStatusExpired, openai.RunStatusIncomplete:
			return "", &RunFailedError{Status: r.Status}
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(o.pollInterval):
		}
	}

	return "", ErrRunTimeout
}

// latestAssistantReply returns the text of the newest assistant message
// in the thread. Messages are listed newest first.
func (o *Orchestrator) latestAssistantReply(ctx context.Context, threadID string) (string, error) {
	limit := recentMessagesWindow
	list, err := o.api.ListMessage(ctx, threadID, &limit, nil, nil, nil, nil)
	if err != nil {
		return "", fmt.Errorf("listing messages: %w", err)
	}

	for _, m := range list.Messages {
		if m.Role != openai.ChatMessageRoleAssistant {
			continue
		}
		var parts []string
		for _, c := range m.Content {
			// Content is a tagged union; only text segments matter here.
			if c.Type == "text" && c.Text != nil && c.Text.Value != "" {
				parts = append(parts, c.Text.Value)
			}
		}
		return strings.Join(parts, "\n\n"), nil
	}
	return "", nil
}
