package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/avast/retry-go/v4"
)

const defaultBaseURL = "https://api.github.com"

// Client is a minimal GitHub REST client covering what the gallery needs:
// issue listing and CRUD, the contents API for image uploads, and issue
// search for the variable growth pool.
type Client struct {
	baseURL string
	owner   string
	repo    string
	token   string
	http    *http.Client
}

// New creates a Client for the given repository. token may be empty for
// read-only access to public repos; writes require it. baseURL overrides the
// public API host (used by tests); pass "" for the default.
func New(baseURL, owner, repo, token string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		owner:   owner,
		repo:    repo,
		token:   token,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// APIError is a non-2xx response from the GitHub API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("github: %d %s", e.StatusCode, e.Message)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rdr io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		rdr = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", "bananaguava")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Message string `json:"message"`
		}
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		_ = json.Unmarshal(raw, &apiErr)
		return &APIError{StatusCode: resp.StatusCode, Message: apiErr.Message}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// retryable wraps read calls in a short bounded retry. Client errors (4xx)
// are not retried.
func retryable(ctx context.Context, fn func() error) error {
	return retry.Do(fn,
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(500*time.Millisecond),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			var apiErr *APIError
			if ok := asAPIError(err, &apiErr); ok {
				return apiErr.StatusCode >= 500 || apiErr.StatusCode == http.StatusTooManyRequests
			}
			return true
		}),
	)
}

func asAPIError(err error, target **APIError) bool {
	e, ok := err.(*APIError)
	if ok {
		*target = e
	}
	return ok
}

// ListIssues returns open issues carrying the given label.
func (c *Client) ListIssues(ctx context.Context, label string, perPage int) ([]Issue, error) {
	path := fmt.Sprintf("/repos/%s/%s/issues?state=open&labels=%s&per_page=%d",
		c.owner, c.repo, url.QueryEscape(label), perPage)

	var issues []Issue
	err := retryable(ctx, func() error {
		issues = nil
		return c.do(ctx, http.MethodGet, path, nil, &issues)
	})
	if err != nil {
		return nil, fmt.Errorf("list issues with label %q: %w", label, err)
	}
	return issues, nil
}

// GetIssue fetches a single issue by number.
func (c *Client) GetIssue(ctx context.Context, number int) (*Issue, error) {
	var issue Issue
	path := fmt.Sprintf("/repos/%s/%s/issues/%d", c.owner, c.repo, number)
	err := retryable(ctx, func() error {
		return c.do(ctx, http.MethodGet, path, nil, &issue)
	})
	if err != nil {
		return nil, fmt.Errorf("get issue %d: %w", number, err)
	}
	return &issue, nil
}

// CreateIssue opens a new issue and returns the created record.
func (c *Client) CreateIssue(ctx context.Context, title, body string, labels []string) (*Issue, error) {
	req := struct {
		Title  string   `json:"title"`
		Body   string   `json:"body"`
		Labels []string `json:"labels,omitempty"`
	}{Title: title, Body: body, Labels: labels}

	var issue Issue
	path := fmt.Sprintf("/repos/%s/%s/issues", c.owner, c.repo)
	if err := c.do(ctx, http.MethodPost, path, req, &issue); err != nil {
		return nil, fmt.Errorf("create issue: %w", err)
	}
	return &issue, nil
}

// UpdateIssue patches an existing issue's title and body.
func (c *Client) UpdateIssue(ctx context.Context, number int, title, body string) error {
	req := struct {
		Title string `json:"title"`
		Body  string `json:"body"`
	}{Title: title, Body: body}

	path := fmt.Sprintf("/repos/%s/%s/issues/%d", c.owner, c.repo, number)
	if err := c.do(ctx, http.MethodPatch, path, req, nil); err != nil {
		return fmt.Errorf("update issue %d: %w", number, err)
	}
	return nil
}

// UpdateIssueBody patches only the body of an existing issue.
func (c *Client) UpdateIssueBody(ctx context.Context, number int, body string) error {
	req := struct {
		Body string `json:"body"`
	}{Body: body}

	path := fmt.Sprintf("/repos/%s/%s/issues/%d", c.owner, c.repo, number)
	if err := c.do(ctx, http.MethodPatch, path, req, nil); err != nil {
		return fmt.Errorf("update issue %d body: %w", number, err)
	}
	return nil
}

// UploadFile commits a base64-encoded file to the repository via the contents
// API and returns its raw download URL.
func (c *Client) UploadFile(ctx context.Context, path, message, contentB64 string) (string, error) {
	req := struct {
		Message  string `json:"message"`
		Content  string `json:"content"`
		Encoding string `json:"encoding"`
	}{Message: message, Content: contentB64, Encoding: "base64"}

	var resp struct {
		Content struct {
			DownloadURL string `json:"download_url"`
		} `json:"content"`
	}
	apiPath := fmt.Sprintf("/repos/%s/%s/contents/%s", c.owner, c.repo, path)
	if err := c.do(ctx, http.MethodPut, apiPath, req, &resp); err != nil {
		return "", fmt.Errorf("upload %s: %w", path, err)
	}
	return resp.Content.DownloadURL, nil
}

// SearchIssueByTitle finds an open issue in the repository whose title
// contains the given text. Returns nil when nothing matches.
func (c *Client) SearchIssueByTitle(ctx context.Context, title string) (*Issue, error) {
	q := fmt.Sprintf("repo:%s/%s type:issue state:open in:title %s", c.owner, c.repo, title)
	path := "/search/issues?q=" + url.QueryEscape(q)

	var result struct {
		TotalCount int     `json:"total_count"`
		Items      []Issue `json:"items"`
	}
	err := retryable(ctx, func() error {
		return c.do(ctx, http.MethodGet, path, nil, &result)
	})
	if err != nil {
		return nil, fmt.Errorf("search issues: %w", err)
	}
	if result.TotalCount == 0 || len(result.Items) == 0 {
		return nil, nil
	}
	return &result.Items[0], nil
}
