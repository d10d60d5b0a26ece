package api_test

import (
	"net/http"
	"testing"

	"github.com/yisuchen/bananaguava/internal/api"
	"github.com/yisuchen/bananaguava/internal/prompt"
)

func galleryFixture() []prompt.Prompt {
	return []prompt.Prompt{
		{
			Number:       5,
			DisplayTitle: "月球之貓",
			Category:     "風格",
			PromptText:   "一隻{{animal:貓}}在{{scene}}上",
			Tags:         []string{"可愛", "動物"},
			LocalVariables: map[string][]string{
				"scene": {"月球", "海邊"},
			},
		},
		{Number: 4, DisplayTitle: "產品照", Category: "產品", PromptText: "白底商品攝影", Tags: []string{"攝影"}},
		{Number: 2, DisplayTitle: "待審稿件", Category: "未分類", IsPreview: true},
	}
}

func TestPrompts_List(t *testing.T) {
	env := newTestEnv(t)
	seedSnapshot(t, env, galleryFixture()...)

	rec := env.do(t, "GET", "/api/v1/prompts", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; body: %s", rec.Code, rec.Body.String())
	}

	resp := decode[api.PromptListResponse](t, rec)
	if resp.Total != 2 {
		t.Errorf("total = %d, want 2 (previews hidden)", resp.Total)
	}
	if len(resp.Prompts) != 2 || resp.Prompts[0].Number != 5 {
		t.Errorf("prompts = %+v", resp.Prompts)
	}
	// The listing omits local variables; the detail endpoint carries them.
	if resp.Prompts[0].LocalVariables != nil {
		t.Error("listing leaked local variables")
	}
}

func TestPrompts_ListFilters(t *testing.T) {
	env := newTestEnv(t)
	seedSnapshot(t, env, galleryFixture()...)

	tests := []struct {
		name        string
		path        string
		wantNumbers []int
	}{
		{name: "preview included", path: "/api/v1/prompts?preview=true", wantNumbers: []int{5, 4, 2}},
		{name: "category", path: "/api/v1/prompts?category=風格", wantNumbers: []int{5}},
		{name: "category All", path: "/api/v1/prompts?category=All", wantNumbers: []int{5, 4}},
		{name: "tag", path: "/api/v1/prompts?tag=攝影", wantNumbers: []int{4}},
		{name: "search", path: "/api/v1/prompts?q=月球", wantNumbers: []int{5}},
		{name: "pagination", path: "/api/v1/prompts?per_page=1&page=2", wantNumbers: []int{4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, "GET", tt.path, nil)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d", rec.Code)
			}
			resp := decode[api.PromptListResponse](t, rec)
			var got []int
			for _, p := range resp.Prompts {
				got = append(got, p.Number)
			}
			if len(got) != len(tt.wantNumbers) {
				t.Fatalf("numbers = %v, want %v", got, tt.wantNumbers)
			}
			for i := range got {
				if got[i] != tt.wantNumbers[i] {
					t.Errorf("numbers = %v, want %v", got, tt.wantNumbers)
					break
				}
			}
		})
	}
}

func TestPrompts_Get(t *testing.T) {
	env := newTestEnv(t)
	seedSnapshot(t, env, galleryFixture()...)

	rec := env.do(t, "GET", "/api/v1/prompts/5", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; body: %s", rec.Code, rec.Body.String())
	}
	resp := decode[api.PromptResponse](t, rec)
	if resp.DisplayTitle != "月球之貓" {
		t.Errorf("display title = %q", resp.DisplayTitle)
	}
	if len(resp.LocalVariables["scene"]) != 2 {
		t.Errorf("local variables = %v", resp.LocalVariables)
	}
}

func TestPrompts_GetNotFound(t *testing.T) {
	env := newTestEnv(t)
	seedSnapshot(t, env, galleryFixture()...)

	rec := env.do(t, "GET", "/api/v1/prompts/12345", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	rec = env.do(t, "GET", "/api/v1/prompts/notanumber", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestPrompts_Placeholders(t *testing.T) {
	env := newTestEnv(t)
	seedSnapshot(t, env, galleryFixture()...)
	env.Vocab.Merge(map[string][]string{"animal": {"狗"}, "scene": {"森林"}})

	rec := env.do(t, "GET", "/api/v1/prompts/5/placeholders", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; body: %s", rec.Code, rec.Body.String())
	}
	resp := decode[api.PlaceholderListResponse](t, rec)
	if len(resp.Placeholders) != 2 {
		t.Fatalf("placeholders = %+v", resp.Placeholders)
	}

	first := resp.Placeholders[0]
	if first.Key != "animal" || first.Default != "貓" {
		t.Errorf("first = %+v", first)
	}
	if len(first.Candidates) != 1 || first.Candidates[0] != "狗" {
		t.Errorf("animal candidates = %v", first.Candidates)
	}

	// Local options come before global ones.
	second := resp.Placeholders[1]
	want := []string{"月球", "海邊", "森林"}
	if len(second.Candidates) != len(want) {
		t.Fatalf("scene candidates = %v, want %v", second.Candidates, want)
	}
	for i := range want {
		if second.Candidates[i] != want[i] {
			t.Errorf("scene candidates = %v, want %v", second.Candidates, want)
			break
		}
	}
}

func TestPrompts_Render(t *testing.T) {
	env := newTestEnv(t)
	seedSnapshot(t, env, galleryFixture()...)

	rec := env.do(t, "POST", "/api/v1/prompts/5/render", api.RenderRequest{
		Values: map[string]string{"scene": "月球"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; body: %s", rec.Code, rec.Body.String())
	}
	resp := decode[api.RenderResponse](t, rec)
	// animal falls back to its default, scene is chosen.
	if resp.Text != "一隻貓在月球上" {
		t.Errorf("text = %q", resp.Text)
	}
}

func TestPrompts_RenderUnresolvedKeepsToken(t *testing.T) {
	env := newTestEnv(t)
	seedSnapshot(t, env, galleryFixture()...)

	rec := env.do(t, "POST", "/api/v1/prompts/5/render", api.RenderRequest{})
	resp := decode[api.RenderResponse](t, rec)
	if resp.Text != "一隻貓在{{scene}}上" {
		t.Errorf("text = %q", resp.Text)
	}
}

func TestMeta_Categories(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, "GET", "/api/v1/categories", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	resp := decode[api.CategoryListResponse](t, rec)
	if len(resp.Categories) != len(prompt.FixedCategories) {
		t.Errorf("categories = %v", resp.Categories)
	}
}

func TestMeta_Tags(t *testing.T) {
	env := newTestEnv(t)
	seedSnapshot(t, env, galleryFixture()...)

	rec := env.do(t, "GET", "/api/v1/tags", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	resp := decode[api.TagListResponse](t, rec)
	if len(resp.Tags) != 3 {
		t.Errorf("tags = %v, want 3 distinct", resp.Tags)
	}
}

func TestVocabulary_ListAndCandidates(t *testing.T) {
	env := newTestEnv(t)
	env.Vocab.Merge(map[string][]string{"style": {"水彩", "油畫"}})

	rec := env.do(t, "GET", "/api/v1/vocabulary", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	list := decode[api.VocabularyResponse](t, rec)
	if len(list.Variables["style"]) != 2 {
		t.Errorf("variables = %v", list.Variables)
	}

	rec = env.do(t, "GET", "/api/v1/vocabulary/style", nil)
	resp := decode[api.CandidateResponse](t, rec)
	if len(resp.Candidates) != 2 {
		t.Errorf("candidates = %v", resp.Candidates)
	}

	// Numbered keys share their base key's pool.
	rec = env.do(t, "GET", "/api/v1/vocabulary/style_2", nil)
	resp = decode[api.CandidateResponse](t, rec)
	if len(resp.Candidates) != 2 {
		t.Errorf("style_2 candidates = %v", resp.Candidates)
	}

	// Unknown keys return an empty list, not an error.
	rec = env.do(t, "GET", "/api/v1/vocabulary/unknown", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	resp = decode[api.CandidateResponse](t, rec)
	if len(resp.Candidates) != 0 {
		t.Errorf("candidates = %v, want empty", resp.Candidates)
	}
}

func TestSnapshot_Refresh(t *testing.T) {
	env := newTestEnv(t)
	env.Refresher.stats.Accepted = 12

	rec := env.do(t, "POST", "/api/v1/snapshot", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; body: %s", rec.Code, rec.Body.String())
	}
	resp := decode[api.SnapshotResponse](t, rec)
	if resp.Accepted != 12 {
		t.Errorf("accepted = %d, want 12", resp.Accepted)
	}
	if env.Refresher.callCount() != 1 {
		t.Errorf("refresh calls = %d, want 1", env.Refresher.callCount())
	}
}
