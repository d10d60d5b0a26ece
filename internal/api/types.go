package api

import "github.com/yisuchen/bananaguava/internal/submit"

// PromptResponse is the JSON representation of one gallery prompt.
type PromptResponse struct {
	Number         int                 `json:"number"`
	Title          string              `json:"title"`
	DisplayTitle   string              `json:"display_title"`
	Category       string              `json:"category"`
	PromptText     string              `json:"prompt_text"`
	Notes          string              `json:"notes,omitempty"`
	Source         string              `json:"source,omitempty"`
	ImageURL       string              `json:"image_url,omitempty"`
	Tags           []string            `json:"tags"`
	LocalVariables map[string][]string `json:"local_variables,omitempty"`
	IsPreview      bool                `json:"is_preview"`
	URL            string              `json:"url,omitempty"`
}

// PromptListResponse is the paginated gallery listing.
type PromptListResponse struct {
	Prompts    []PromptResponse `json:"prompts"`
	Total      int              `json:"total"`
	Page       int              `json:"page"`
	PerPage    int              `json:"per_page"`
	TotalPages int              `json:"total_pages"`
}

// PlaceholderResponse is one parsed placeholder slot with its suggestions.
type PlaceholderResponse struct {
	Key        string   `json:"key"`
	Default    string   `json:"default,omitempty"`
	Candidates []string `json:"candidates"`
}

// PlaceholderListResponse lists a prompt's placeholder slots in order.
type PlaceholderListResponse struct {
	Placeholders []PlaceholderResponse `json:"placeholders"`
}

// RenderRequest asks for a prompt's text with placeholder values filled in.
type RenderRequest struct {
	Values map[string]string `json:"values"`
}

// RenderResponse carries the resolved text. Unresolved slots stay in their
// bare {{key}} token form.
type RenderResponse struct {
	Text string `json:"text"`
}

// CategoryListResponse is the fixed category filter list.
type CategoryListResponse struct {
	Categories []string `json:"categories"`
}

// TagListResponse is the distinct tag filter list.
type TagListResponse struct {
	Tags []string `json:"tags"`
}

// VocabularyResponse is the merged vocabulary table.
type VocabularyResponse struct {
	Variables map[string][]string `json:"variables"`
}

// CandidateResponse is the suggestion list for one key.
type CandidateResponse struct {
	Key        string   `json:"key"`
	Candidates []string `json:"candidates"`
}

// SubmitRequest is the write-endpoint payload. It keeps the original worker
// contract: a POST with action "sync_variables" grows the vocabulary, any
// other POST creates a submission, and PUT (with number) updates one.
type SubmitRequest struct {
	Action string `json:"action,omitempty"`
	Key    string `json:"key,omitempty"`
	Value  string `json:"value,omitempty"`

	Number int `json:"number,omitempty"`
	submit.Submission
}

// SubmitResponse is the write-endpoint envelope.
type SubmitResponse struct {
	Success bool   `json:"success"`
	URL     string `json:"url,omitempty"`
	Mode    string `json:"mode,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ErrorResponse is the standard error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// SnapshotResponse reports a refresh's resulting counts.
type SnapshotResponse struct {
	Accepted  int `json:"accepted"`
	Preview   int `json:"preview"`
	VocabKeys int `json:"vocabulary_keys"`
}
