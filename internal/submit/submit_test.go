package submit

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/yisuchen/bananaguava/internal/github"
	"github.com/yisuchen/bananaguava/internal/prompt"
)

// fakeGitHub is a minimal in-memory issues API. It records created and
// updated issues so tests can assert on the forwarded bodies.
type fakeGitHub struct {
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
		var req map[string]any
		_ = json.NewDecoder(r.Body).Decode(&req)
		f.updated = append(f.updated, req)
		_ = json.NewEncoder(w).Encode(map[string]any{})
	})

	mux.HandleFunc("PUT /repos/o/r/contents/", func(w http.ResponseWriter, r *http.Request) {
		f.uploaded = append(f.uploaded, r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"content": map[string]string{
				"download_url": "https://raw.example.com" + strings.TrimPrefix(r.URL.Path, "/repos/o/r/contents"),
			},
		})
	})

	return mux
}

func newTestService(t *testing.T) (*Service, *fakeGitHub) {
	t.Helper()
	fake := newFakeGitHub()
	srv := httptest.NewServer(fake.handler())
	t.Cleanup(srv.Close)
	gh := github.New(srv.URL, "o", "r", "token")
	return NewService(gh, "pepper", "pending"), fake
}

func TestHashPassword(t *testing.T) {
	s := NewService(nil, "pepper", "pending")
	h1 := s.HashPassword("secret")
	h2 := s.HashPassword("secret")
	if h1 != h2 {
		t.Error("hash is not deterministic")
	}
	if len(h1) != 64 {
		t.Errorf("hash length = %d, want 64 hex chars", len(h1))
	}
	if h1 == NewService(nil, "other", "pending").HashPassword("secret") {
		t.Error("salt does not affect the hash")
	}
}

func TestCreate(t *testing.T) {
	s, fake := newTestService(t)

	url, err := s.Create(context.Background(), Submission{
		Title:     "月球之貓",
		Prompt:    "一隻貓在{{scene}}上",
		Category:  "風格",
		Tags:      "可愛, 動物",
		Variables: "scene = 月球 | 海邊",
		Password:  "secret",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if url == "" {
		t.Error("no issue URL returned")
	}
	if len(fake.created) != 1 {
		t.Fatalf("created %d issues, want 1", len(fake.created))
	}

	issue := fake.created[0]
	if got := issue["title"]; got != prompt.TitlePrefix+" 月球之貓" {
		t.Errorf("title = %v", got)
	}

	body, _ := issue["body"].(string)
	// The round trip matters: the body Create writes must parse back
	// through the same sections the snapshot reads.
	if text, ok := prompt.ExtractSection(body, prompt.HeadingPromptText); !ok || !strings.Contains(text, "{{scene}}") {
		t.Errorf("prompt section = %q, ok = %v", text, ok)
	}
	if cat, _ := prompt.ExtractSection(body, prompt.HeadingCategory); cat != "風格" {
		t.Errorf("category section = %q", cat)
	}
	vars := prompt.ParseVariableBlock(body)
	if len(vars["scene"]) != 2 {
		t.Errorf("variables = %v", vars)
	}
	if !strings.Contains(body, "<!-- auth: "+s.HashPassword("secret")+" -->") {
		t.Error("auth marker missing or wrong")
	}

	labels, _ := issue["labels"].([]any)
	if len(labels) != 1 || labels[0] != "pending" {
		t.Errorf("labels = %v, want [pending]", labels)
	}
}

func TestCreate_EmptyOptionalSections(t *testing.T) {
	s, fake := newTestService(t)

	if _, err := s.Create(context.Background(), Submission{Title: "t", Password: "p"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	body, _ := fake.created[0]["body"].(string)
	if src, ok := prompt.ExtractSection(body, prompt.HeadingSource); !ok || src != "" {
		t.Errorf("source = %q, ok = %v; want empty via no-response filler", src, ok)
	}
	if cat, _ := prompt.ExtractSection(body, prompt.HeadingCategory); cat != prompt.Uncategorized {
		t.Errorf("category = %q, want %q", cat, prompt.Uncategorized)
	}
}

func TestCreate_Validation(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		sub     Submission
		wantErr error
	}{
		{name: "missing title", sub: Submission{Password: "p"}, wantErr: ErrMissingFields},
		{name: "missing password", sub: Submission{Title: "t"}, wantErr: ErrMissingFields},
		{name: "whitespace title", sub: Submission{Title: "  ", Password: "p"}, wantErr: ErrMissingFields},
		{
			name:    "prompt too long",
			sub:     Submission{Title: "t", Password: "p", Prompt: strings.Repeat("a", MaxPromptLen+1)},
			wantErr: ErrPromptTooLong,
		},
		{
			// The limit counts characters, so a multi-byte CJK prompt
			// at the boundary is still accepted.
			name:    "cjk prompt at limit",
			sub:     Submission{Title: "t", Password: "p", Prompt: strings.Repeat("貓", MaxPromptLen)},
			wantErr: nil,
		},
		{
			name:    "cjk prompt over limit",
			sub:     Submission{Title: "t", Password: "p", Prompt: strings.Repeat("貓", MaxPromptLen+1)},
			wantErr: ErrPromptTooLong,
		},
		{
			name: "image too large",
			sub: Submission{
				Title: "t", Password: "p",
				Image: &ImageUpload{Content: strings.Repeat("A", (MaxImageBytes/3)*4+8)},
			},
			wantErr: ErrImageTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Create(ctx, tt.sub)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCreate_UploadsImage(t *testing.T) {
	s, fake := newTestService(t)

	_, err := s.Create(context.Background(), Submission{
		Title:    "t",
		Password: "p",
		Image:    &ImageUpload{Content: "aGVsbG8=", Name: "x.png", Type: "image/png"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(fake.uploaded) != 1 {
		t.Fatalf("uploads = %v, want 1", fake.uploaded)
	}
	if !strings.Contains(fake.uploaded[0], "/contents/uploads/") {
		t.Errorf("upload path = %q", fake.uploaded[0])
	}

	body, _ := fake.created[0]["body"].(string)
	if img := prompt.ExtractImage(body); !strings.HasPrefix(img, "https://raw.example.com/uploads/") {
		t.Errorf("image url = %q", img)
	}
}

func TestUpdate(t *testing.T) {
	s, fake := newTestService(t)
	ctx := context.Background()

	if _, err := s.Create(ctx, Submission{Title: "原標題", Prompt: "舊內容", Password: "secret"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	number := fake.next

	err := s.Update(ctx, number, Submission{Title: "新標題", Prompt: "新內容", Password: "secret"})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if len(fake.updated) != 1 {
		t.Fatalf("updated %d times, want 1", len(fake.updated))
	}

	body, _ := fake.updated[0]["body"].(string)
	if text, _ := prompt.ExtractSection(body, prompt.HeadingPromptText); text != "新內容" {
		t.Errorf("prompt section = %q", text)
	}
	// The stored hash survives the rewrite so the password keeps working.
	if !strings.Contains(body, "<!-- auth: "+s.HashPassword("secret")+" -->") {
		t.Error("auth marker lost on update")
	}
}

func TestUpdate_PasswordMismatch(t *testing.T) {
	s, fake := newTestService(t)
	ctx := context.Background()

	if _, err := s.Create(ctx, Submission{Title: "t", Password: "right"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	err := s.Update(ctx, fake.next, Submission{Title: "t", Password: "wrong"})
	if !errors.Is(err, ErrPasswordMismatch) {
		t.Errorf("err = %v, want ErrPasswordMismatch", err)
	}
	if len(fake.updated) != 0 {
		t.Error("issue was updated despite password mismatch")
	}
}

func TestUpdate_MissingIssue(t *testing.T) {
	s, _ := newTestService(t)
	err := s.Update(context.Background(), 9999, Submission{Title: "t", Password: "p"})
	if !errors.Is(err, ErrSubmissionMissing) {
		t.Errorf("err = %v, want ErrSubmissionMissing", err)
	}
}

func TestUpdate_NoAuthMarker(t *testing.T) {
	s, fake := newTestService(t)
	fake.issues[500] = map[string]any{"title": "manual issue", "body": "hand-written, no marker"}

	err := s.Update(context.Background(), 500, Submission{Title: "t", Password: "p"})
	if !errors.Is(err, ErrNotEditable) {
		t.Errorf("err = %v, want ErrNotEditable", err)
	}
}
