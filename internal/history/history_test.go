package history

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"klemmenplan/internal/db"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return NewStore(database)
}

func TestLogAndGetByID(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	rec := Record{
		ID:         "req-1",
		Kind:       KindAnalyze,
		ThreadID:   "thread_abc",
		FileCount:  2,
		FileNames:  []string{"schema.pdf", "datenblatt.pdf"},
		Outcome:    OutcomeOK,
		TableFound: true,
		Duration:   42 * time.Second,
	}
	if err := store.Log(ctx, rec); err != nil {
		t.Fatalf("Log: %v", err)
	}

	got, err := store.GetByID(ctx, "req-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got == nil {
		t.Fatal("GetByID returned nil")
	}
	if got.Kind != KindAnalyze {
		t.Errorf("Kind = %q", got.Kind)
	}
	if got.ThreadID != "thread_abc" {
		t.Errorf("ThreadID = %q", got.ThreadID)
	}
	if got.FileCount != 2 || len(got.FileNames) != 2 || got.FileNames[0] != "schema.pdf" {
		t.Errorf("files = %d %v", got.FileCount, got.FileNames)
	}
	if !got.TableFound {
		t.Error("TableFound lost")
	}
	if got.Duration != 42*time.Second {
		t.Errorf("Duration = %v", got.Duration)
	}
}

func TestLogGeneratesID(t *testing.T) {
	store := setupStore(t)

	if err := store.Log(context.Background(), Record{Kind: KindChat}); err != nil {
		t.Fatalf("Log: %v", err)
	}

	records, err := store.Query(context.Background(), QueryFilter{})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(records) != 1 || records[0].ID == "" {
		t.Errorf("records = %+v, want one with generated id", records)
	}
}

func TestGetByIDNotFound(t *testing.T) {
	store := setupStore(t)

	rec, err := store.GetByID(context.Background(), "missing")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if rec != nil {
		t.Errorf("rec = %+v, want nil", rec)
	}
}

func TestQueryFilters(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	for _, rec := range []Record{
		{ID: "a", Kind: KindAnalyze, ThreadID: "t1"},
		{ID: "b", Kind: KindChat, ThreadID: "t1"},
		{ID: "c", Kind: KindChat, ThreadID: "t2", Outcome: OutcomeRunTimeout},
	} {
		if err := store.Log(ctx, rec); err != nil {
			t.Fatalf("Log %s: %v", rec.ID, err)
		}
	}

	chats, err := store.Query(ctx, QueryFilter{Kind: KindChat})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(chats) != 2 {
		t.Errorf("chat records = %d, want 2", len(chats))
	}

	t1, err := store.Query(ctx, QueryFilter{ThreadID: "t1"})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(t1) != 2 {
		t.Errorf("t1 records = %d, want 2", len(t1))
	}

	limited, err := store.Query(ctx, QueryFilter{Limit: 1})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("limited records = %d, want 1", len(limited))
	}
}

func TestRoutes(t *testing.T) {
	store := setupStore(t)
	if err := store.Log(context.Background(), Record{ID: "req-1", Kind: KindAnalyze, ThreadID: "t1"}); err != nil {
		t.Fatalf("Log: %v", err)
	}

	r := chi.NewRouter()
	RegisterRoutes(r, store)

	req := httptest.NewRequest("GET", "/api/history?kind=analyze", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d", w.Code)
	}
	var records []Record
	if err := json.Unmarshal(w.Body.Bytes(), &records); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(records) != 1 || records[0].ID != "req-1" {
		t.Errorf("records = %+v", records)
	}

	req = httptest.NewRequest("GET", "/api/history/req-1", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d", w.Code)
	}

	req = httptest.NewRequest("GET", "/api/history/nope", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("missing record status = %d, want 404", w.Code)
	}
}
