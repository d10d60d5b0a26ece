package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/yisuchen/bananaguava/internal/api"
	"github.com/yisuchen/bananaguava/internal/github"
	"github.com/yisuchen/bananaguava/internal/prompt"
	"github.com/yisuchen/bananaguava/internal/snapshot"
	"github.com/yisuchen/bananaguava/internal/store"
	"github.com/yisuchen/bananaguava/internal/submit"
	"github.com/yisuchen/bananaguava/internal/testutil"
	"github.com/yisuchen/bananaguava/internal/vocab"
)

// testEnv wires a full router over an in-memory database, a fake GitHub
// server, and a stubbed snapshot refresher.
type testEnv struct {
	Router      http.Handler
	PromptStore *store.PromptStore
	VocabStore  *store.VocabStore
	Vocab       *vocab.Table
	Reporter    *vocab.Reporter
	Submit      *submit.Service
	GitHub      *fakeGitHub
	Refresher   *stubRefresher
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.NewTestDB(t)
	promptStore := store.NewPromptStore(db)
	vocabStore := store.NewVocabStore(db)
	table := vocab.NewTable()

	fake := newFakeGitHub()
	srv := httptest.NewServer(fake.handler())
	t.Cleanup(srv.Close)
	gh := github.New(srv.URL, "o", "r", "token")

	reporter := vocab.NewReporter(table, vocabStore)
	ctx, cancel := context.WithCancel(context.Background())
	go reporter.Run(ctx)
	t.Cleanup(func() {
		cancel()
		reporter.Wait()
	})

	refresher := &stubRefresher{}

	env := &testEnv{
		PromptStore: promptStore,
		VocabStore:  vocabStore,
		Vocab:       table,
		Reporter:    reporter,
		Submit:      submit.NewService(gh, "pepper", "pending"),
		GitHub:      fake,
		Refresher:   refresher,
	}
	env.Router = api.NewRouter(api.Deps{
		PromptStore: promptStore,
		Vocab:       table,
		Reporter:    reporter,
		Submit:      env.Submit,
		Snapshot:    refresher,
	})
	return env
}

// do builds a routed request, JSON-encoding body when present, and records
// the response.
func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		req = httptest.NewRequest(method, path, bytes.NewReader(raw))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	e.Router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v; body: %s", err, rec.Body.String())
	}
	return out
}

func seedSnapshot(t *testing.T, env *testEnv, prompts ...prompt.Prompt) {
	t.Helper()
	if err := env.PromptStore.ReplaceAll(context.Background(), prompts); err != nil {
		t.Fatalf("seed snapshot: %v", err)
	}
}

type stubRefresher struct {
	mu    sync.Mutex
	calls int
	stats snapshot.Stats
	err   error
}

func (s *stubRefresher) Refresh(context.Context) (snapshot.Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.stats, s.err
}

func (s *stubRefresher) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// fakeGitHub is the same minimal issues API the submit package tests use.
type fakeGitHub struct {
	mu       sync.Mutex
	issues   map[int]map[string]any
	next     int
	created  []map[string]any
	updated  []map[string]any
	uploaded []string
}

func newFakeGitHub() *fakeGitHub {
	return &fakeGitHub{issues: make(map[int]map[string]any), next: 100}
}

func (f *fakeGitHub) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /repos/o/r/issues", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		var req map[string]any
		_ = json.NewDecoder(r.Body).Decode(&req)
		f.next++
		f.created = append(f.created, req)
		f.issues[f.next] = req
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"number":   f.next,
			"title":    req["title"],
			"body":     req["body"],
			"html_url": "https://github.com/o/r/issues/" + strconv.Itoa(f.next),
		})
	})

	mux.HandleFunc("GET /repos/o/r/issues/{number}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		n, _ := strconv.Atoi(r.PathValue("number"))
		issue, ok := f.issues[n]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "Not Found"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"number": n,
			"title":  issue["title"],
			"body":   issue["body"],
		})
	})

	mux.HandleFunc("PATCH /repos/o/r/issues/{number}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		var req map[string]any
		_ = json.NewDecoder(r.Body).Decode(&req)
		f.updated = append(f.updated, req)
		_ = json.NewEncoder(w).Encode(map[string]any{})
	})

	mux.HandleFunc("PUT /repos/o/r/contents/", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.uploaded = append(f.uploaded, r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"content": map[string]string{"download_url": "https://raw.example.com/uploads/x.png"},
		})
	})

	return mux
}
