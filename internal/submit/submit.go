// Package submit is the anonymous submission proxy: it turns form data into
// the gallery's issue-body format and forwards creates and updates to GitHub.
// Writes are guarded by a salted password hash embedded in the issue body —
// there are no user accounts anywhere in this system.
package submit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/yisuchen/bananaguava/internal/github"
	"github.com/yisuchen/bananaguava/internal/prompt"
)

const (
	// MaxPromptLen caps prompt text on submission, counted in characters.
	MaxPromptLen = 5000
	// MaxImageBytes caps the decoded upload size at 10 MB.
	MaxImageBytes = 10 * 1024 * 1024

	submissionFooter = "*此 Issue 由 BananaGuava 網頁版匿名投稿*"
)

var (
	ErrMissingFields     = errors.New("title and password are required")
	ErrPromptTooLong     = fmt.Errorf("prompt text exceeds %d characters", MaxPromptLen)
	ErrImageTooLarge     = errors.New("image exceeds 10 MB")
	ErrPasswordMismatch  = errors.New("password mismatch")
	ErrNotEditable       = errors.New("submission has no auth marker and cannot be edited anonymously")
	ErrSubmissionMissing = errors.New("submission not found")
)

// authMarkerRe extracts the password hash hidden in the issue body.
var authMarkerRe = regexp.MustCompile(`<!-- auth: (.*?) -->`)

// ImageUpload is an optional image attached to a submission, base64-encoded.
type ImageUpload struct {
	Content string `json:"content"`
	Name    string `json:"name"`
	Type    string `json:"type"`
}

// Submission is the write-side form payload.
type Submission struct {
	Title            string       `json:"title"`
	Prompt           string       `json:"prompt"`
	Category         string       `json:"category"`
	Tags             string       `json:"tags"`
	Source           string       `json:"source"`
	Variables        string       `json:"variables"`
	Password         string       `json:"password"`
	Image            *ImageUpload `json:"image,omitempty"`
	ExistingImageURL string       `json:"existingImageUrl,omitempty"`
}

// Service forwards submissions to the GitHub repository.
type Service struct {
	gh           *github.Client
	salt         string
	pendingLabel string
}

// NewService creates a submission Service. salt is mixed into password hashes
// and must stay stable across deployments or existing submissions become
// uneditable.
func NewService(gh *github.Client, salt, pendingLabel string) *Service {
	return &Service{gh: gh, salt: salt, pendingLabel: pendingLabel}
}

// HashPassword returns the hex SHA-256 of password+salt, the scheme the
// anonymous-edit auth marker uses.
func (s *Service) HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password + s.salt))
	return hex.EncodeToString(sum[:])
}

// Create validates a new submission, uploads its image if present, and opens
// a pending issue. Returns the created issue's URL.
func (s *Service) Create(ctx context.Context, sub Submission) (string, error) {
	if err := validate(sub); err != nil {
		return "", err
	}

	imageURL := ""
	if sub.Image != nil && sub.Image.Content != "" {
		url, err := s.uploadImage(ctx, sub.Image, "submission")
		if err != nil {
			return "", err
		}
		imageURL = url
	}

	body := buildIssueBody(sub, imageURL, s.HashPassword(sub.Password))
	issue, err := s.gh.CreateIssue(ctx, prompt.TitlePrefix+" "+sub.Title, body, []string{s.pendingLabel})
	if err != nil {
		return "", fmt.Errorf("create submission: %w", err)
	}
	return issue.HTMLURL, nil
}

// Update edits an existing submission after validating the password against
// the hash stored in the issue body. The original hash is preserved verbatim
// so the same password keeps working.
func (s *Service) Update(ctx context.Context, number int, sub Submission) error {
	if err := validate(sub); err != nil {
		return err
	}

	issue, err := s.gh.GetIssue(ctx, number)
	if err != nil {
		var apiErr *github.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == 404 {
			return ErrSubmissionMissing
		}
		return fmt.Errorf("fetch submission %d: %w", number, err)
	}

	m := authMarkerRe.FindStringSubmatch(issue.Body)
	if m == nil {
		return ErrNotEditable
	}
	storedHash := m[1]
	if s.HashPassword(sub.Password) != storedHash {
		return ErrPasswordMismatch
	}

	imageURL := sub.ExistingImageURL
	if sub.Image != nil && sub.Image.Content != "" {
		url, err := s.uploadImage(ctx, sub.Image, "update")
		if err != nil {
			return err
		}
		imageURL = url
	}

	body := buildIssueBody(sub, imageURL, storedHash)
	if err := s.gh.UpdateIssue(ctx, number, prompt.TitlePrefix+" "+sub.Title, body); err != nil {
		return fmt.Errorf("update submission %d: %w", number, err)
	}
	return nil
}

func validate(sub Submission) error {
	if strings.TrimSpace(sub.Title) == "" || sub.Password == "" {
		return ErrMissingFields
	}
	// Character count, not bytes: CJK prompts are the common case.
	if utf8.RuneCountInString(sub.Prompt) > MaxPromptLen {
		return ErrPromptTooLong
	}
	if sub.Image != nil {
		// Base64 decodes to roughly 3/4 of its encoded length.
		if int(float64(len(sub.Image.Content))*0.75) > MaxImageBytes {
			return ErrImageTooLarge
		}
	}
	return nil
}

func (s *Service) uploadImage(ctx context.Context, img *ImageUpload, kind string) (string, error) {
	date := time.Now().UTC().Format("2006-01-02")
	filename := fmt.Sprintf("%s_%s.png", uuid.New().String(), kind)
	path := fmt.Sprintf("uploads/%s/%s", date, filename)

	url, err := s.gh.UploadFile(ctx, path, "upload image: "+filename, img.Content)
	if err != nil {
		return "", fmt.Errorf("store image: %w", err)
	}
	return url, nil
}

// buildIssueBody renders the fixed-heading issue body the parser reads back.
// Optional sections fall back to the form's "No response" filler and the
// image section embeds the uploaded preview.
func buildIssueBody(sub Submission, imageURL, authHash string) string {
	category := strings.TrimSpace(sub.Category)
	if category == "" {
		category = prompt.Uncategorized
	}

	image := "No response"
	if imageURL != "" {
		image = fmt.Sprintf("![Preview Image](%s)", imageURL)
	}

	return fmt.Sprintf(`### %s
%s

### %s
%s

### %s
%s

### %s
%s

### Variables (key=value)
%s

### %s
%s

---
%s
<!-- auth: %s -->`,
		prompt.HeadingPromptText, sub.Prompt,
		prompt.HeadingCategory, category,
		prompt.HeadingSource, orNoResponse(sub.Source),
		prompt.HeadingTags, orNoResponse(sub.Tags),
		sub.Variables,
		prompt.HeadingImage, image,
		submissionFooter, authHash)
}

func orNoResponse(s string) string {
	if strings.TrimSpace(s) == "" {
		return "No response"
	}
	return s
}
