// Package analysis exposes the two orchestration endpoints: bulk
// document analysis and incremental chat against an existing thread.
//
// Neither endpoint serializes concurrent requests on the same thread
// id; two simultaneous runs race at the external service. The calling
// UI is expected to await one request before issuing the next on the
// same thread.
package analysis

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"klemmenplan/internal/assistant"
	"klemmenplan/internal/history"
	"klemmenplan/internal/klemmen"
)

// maxMultipartMemory caps the in-memory portion of multipart parsing.
const maxMultipartMemory = 32 << 20

// Handler serves the analyze and chat endpoints.
type Handler struct {
	conv Conversations
	cfg  Config
	// hist records request metadata; may be nil.
	hist *history.Store
}

// NewHandler creates a Handler. historyStore may be nil to disable
// request logging.
func NewHandler(conv Conversations, cfg Config, historyStore *history.Store) *Handler {
	return &Handler{conv: conv, cfg: cfg, hist: historyStore}
}

// RegisterRoutes mounts the orchestration endpoints.
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/api/analyze", h.handleAnalyze)
	r.Post("/api/chat", h.handleChat)
}

func (h *Handler) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	rec := history.Record{Kind: history.KindAnalyze}
	defer h.logRecord(r, &rec, started)

	if msg := h.misconfiguredAnalyze(); msg != "" {
		rec.Outcome = history.OutcomeRemoteErr
		respondError(w, http.StatusInternalServerError, msg)
		return
	}

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		rec.Outcome = history.OutcomeClientErr
		respondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		rec.Outcome = history.OutcomeClientErr
		respondError(w, http.StatusBadRequest, "no files received")
		return
	}
	if len(headers) > h.cfg.MaxFiles {
		rec.Outcome = history.OutcomeClientErr
		respondError(w, http.StatusBadRequest,
			fmt.Sprintf("too many files: %d exceeds the limit of %d", len(headers), h.cfg.MaxFiles))
		return
	}

	files := make([]assistant.RawFile, 0, len(headers))
	for _, fh := range headers {
		part, err := fh.Open()
		if err != nil {
			rec.Outcome = history.OutcomeClientErr
			respondError(w, http.StatusBadRequest, fmt.Sprintf("reading %s: %v", fh.Filename, err))
			return
		}
		data, err := io.ReadAll(part)
		part.Close()
		if err != nil {
			rec.Outcome = history.OutcomeClientErr
			respondError(w, http.StatusBadRequest, fmt.Sprintf("reading %s: %v", fh.Filename, err))
			return
		}
		files = append(files, assistant.RawFile{
			Name:        fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Data:        data,
		})
		rec.FileNames = append(rec.FileNames, fh.Filename)
	}
	rec.FileCount = len(files)

	ctx := r.Context()

	threadID, err := h.conv.ResolveThread(ctx, r.FormValue("threadId"))
	if err != nil {
		rec.Outcome = history.OutcomeRemoteErr
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	rec.ThreadID = threadID

	uploaded, err := h.conv.UploadFiles(ctx, files)
	if err != nil {
		rec.Outcome = history.OutcomeRemoteErr
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	log.Printf("analyze: thread=%s files=%d", threadID, len(uploaded))

	reply, err := h.conv.RunTurn(ctx, assistant.TurnRequest{
		ThreadID:    threadID,
		AssistantID: h.cfg.AnalyzeAssistantID,
		Text:        klemmen.AnalysisInstruction,
		Attachments: uploaded,
	})
	if err != nil {
		rec.Outcome = runOutcome(err)
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if reply == "" {
		reply = "Analysis completed, but the assistant returned no text."
	}

	table := klemmen.Extract(reply)
	note := "JSON table detected and included."
	if table != nil && h.cfg.StrictTable {
		if err := table.Validate(); err != nil {
			log.Printf("analyze: discarding table, strict validation failed: %v", err)
			table = nil
			note = "A table was found but failed strict validation; it was discarded."
		}
	}
	if table == nil && !strings.HasPrefix(note, "A table was found") {
		note = "No JSON table detected. You can request it in the chat: " +
			"'Gib die Klemmenbelegung nur als JSON gemäß Schema aus.'"
	}
	rec.TableFound = table != nil

	summaries := make([]FileSummary, len(uploaded))
	for i, f := range uploaded {
		summaries[i] = FileSummary{Name: f.Name, Size: f.Size, Type: f.ContentType}
	}

	respondJSON(w, AnalyzeResponse{
		Received: len(uploaded),
		Files:    summaries,
		ThreadID: threadID,
		Reply:    reply,
		Table:    table,
		Note:     note,
	})
}

func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	rec := history.Record{Kind: history.KindChat}
	defer h.logRecord(r, &rec, started)

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rec.Outcome = history.OutcomeClientErr
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		rec.Outcome = history.OutcomeClientErr
		respondError(w, http.StatusBadRequest, "message is required")
		return
	}

	assistantID := h.cfg.ChatAssistantID
	if req.AssistantID != "" {
		assistantID = req.AssistantID
	}
	if msg := h.misconfiguredChat(assistantID); msg != "" {
		rec.Outcome = history.OutcomeRemoteErr
		respondError(w, http.StatusInternalServerError, msg)
		return
	}

	ctx := r.Context()

	threadID, err := h.conv.ResolveThread(ctx, req.ThreadID)
	if err != nil {
		rec.Outcome = history.OutcomeRemoteErr
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	rec.ThreadID = threadID

	reply, err := h.conv.RunTurn(ctx, assistant.TurnRequest{
		ThreadID:    threadID,
		AssistantID: assistantID,
		Text:        strings.TrimSpace(req.Message),
	})
	if err != nil {
		rec.Outcome = runOutcome(err)
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, ChatResponse{ThreadID: threadID, Reply: reply})
}

// misconfiguredAnalyze names the missing configuration value, if any.
// Diagnostics are safe to surface: they never contain secrets.
func (h *Handler) misconfiguredAnalyze() string {
	if !h.cfg.APIKeySet {
		return "server misconfigured: OPENAI_API_KEY is not set"
	}
	if h.cfg.AnalyzeAssistantID == "" {
		return "server misconfigured: analyze_assistant_id is not set"
	}
	return ""
}

func (h *Handler) misconfiguredChat(assistantID string) string {
	if !h.cfg.APIKeySet {
		return "server misconfigured: OPENAI_API_KEY is not set"
	}
	if assistantID == "" {
		return "server misconfigured: chat_assistant_id is not set"
	}
	return ""
}

func runOutcome(err error) history.Outcome {
	var failed *assistant.RunFailedError
	switch {
	case errors.Is(err, assistant.ErrRunTimeout):
		return history.OutcomeRunTimeout
	case errors.As(err, &failed):
		return history.OutcomeRunFailed
	default:
		return history.OutcomeRemoteErr
	}
}

// logRecord persists request metadata. Failures are logged and
// swallowed; history must never break a request.
func (h *Handler) logRecord(r *http.Request, rec *history.Record, started time.Time) {
	if h.hist == nil {
		return
	}
	rec.Duration = time.Since(started)
	if err := h.hist.Log(r.Context(), *rec); err != nil {
		log.Printf("history: logging request: %v", err)
	}
}

func respondJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
