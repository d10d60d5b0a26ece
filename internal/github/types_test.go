package github

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestLabelUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{name: "object labels", in: `[{"name": "accepted"}, {"name": "風格"}]`, want: []string{"accepted", "風格"}},
		{name: "string labels", in: `["accepted", "風格"]`, want: []string{"accepted", "風格"}},
		{name: "mixed", in: `["accepted", {"name": "風格"}]`, want: []string{"accepted", "風格"}},
		{name: "empty names dropped by LabelNames", in: `[{"name": ""}, "x"]`, want: []string{"x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var labels []Label
			if err := json.Unmarshal([]byte(tt.in), &labels); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			issue := Issue{Labels: labels}
			if got := issue.LabelNames(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("LabelNames() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIssueIsPullRequest(t *testing.T) {
	var issue Issue
	if err := json.Unmarshal([]byte(`{"number": 1, "title": "t"}`), &issue); err != nil {
		t.Fatal(err)
	}
	if issue.IsPullRequest() {
		t.Error("plain issue reported as PR")
	}

	if err := json.Unmarshal([]byte(`{"number": 2, "pull_request": {"url": "x"}}`), &issue); err != nil {
		t.Fatal(err)
	}
	if !issue.IsPullRequest() {
		t.Error("PR not detected")
	}
}
