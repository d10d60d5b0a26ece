package github

import (
	"encoding/json"
	"strings"
)

// Label is a GitHub issue label. The Issues API returns labels either as plain
// strings or as objects with a "name" field depending on the endpoint, so the
// duck-typed shape is normalized here at the ingestion boundary and the rest
// of the code only ever sees the name string.
type Label struct {
	Name string
}

// UnmarshalJSON accepts both `"accepted"` and `{"name": "accepted"}`.
func (l *Label) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		l.Name = s
		return nil
	}
	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	l.Name = obj.Name
	return nil
}

// MarshalJSON emits the object form, matching what the API returns.
func (l Label) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name string `json:"name"`
	}{Name: l.Name})
}

// Issue is the subset of a GitHub issue record the gallery consumes.
type Issue struct {
	Number      int              `json:"number"`
	Title       string           `json:"title"`
	Body        string           `json:"body"`
	Labels      []Label          `json:"labels"`
	HTMLURL     string           `json:"html_url"`
	PullRequest *json.RawMessage `json:"pull_request,omitempty"`
}

// IsPullRequest reports whether the record is actually a pull request.
// The Issues API returns PRs in issue listings; the gallery skips them.
func (i Issue) IsPullRequest() bool {
	return i.PullRequest != nil
}

// LabelNames returns the issue's label names.
func (i Issue) LabelNames() []string {
	names := make([]string, 0, len(i.Labels))
	for _, l := range i.Labels {
		if strings.TrimSpace(l.Name) != "" {
			names = append(names, l.Name)
		}
	}
	return names
}
