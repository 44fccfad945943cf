package assistant

import (
	"context"
	"errors"
	"fmt"
	"sync"

	openai "github.com/sashabaranov/go-openai"
)

// RawFile is an uploaded document as received from the client.
type RawFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// UploadedFile references a document stored at OpenAI. RemoteID is
// consumed exactly once, when attached to a user message.
type UploadedFile struct {
	Name        string
	Size        int64
	ContentType string
	RemoteID    string
}

// UploadFiles stores all files at OpenAI with the assistants purpose
// tag so they are reachable by file_search. Uploads run concurrently;
// the result preserves input order. Any single failure fails the whole
// batch — a message must never carry a mix of uploaded and missing
// attachments. Callers validate the file count beforehand.
func (o *Orchestrator) UploadFiles(ctx context.Context, files []RawFile) ([]UploadedFile, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make([]UploadedFile, len(files))
	errs := make([]error, len(files))

	var wg sync.WaitGroup
	for i, f := range files {
		wg.Add(1)
		go func(i int, f RawFile) {
			defer wg.Done()

			up, err := o.api.CreateFileBytes(ctx, openai.FileBytesRequest{
				Name:    f.Name,
				Bytes:   f.Data,
				Purpose: openai.PurposeAssistants,
			})
			if err != nil {
				errs[i] = fmt.Errorf("uploading %s: %w", f.Name, err)
				cancel()
				return
			}

			contentType := f.ContentType
			if contentType == "" {
				contentType = "application/octet-stream"
			}
			results[i] = UploadedFile{
				Name:        f.Name,
				Size:        int64(len(f.Data)),
				ContentType: contentType,
				RemoteID:    up.ID,
			}
		}(i, f)
	}
	wg.Wait()

	// Prefer the upload that actually failed over siblings that were
	// cancelled because of it.
	var firstErr error
	for _, err := range errs {
		if err == nil {
			continue
		}
		if firstErr == nil || errors.Is(firstErr, context.Canceled) {
			firstErr = err
		}
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return results, nil
}
