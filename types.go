package main

import (
	"time"

	"github.com/google/uuid"
)

// GenerationRequest is one unit of work: the keyword and link placement
// details pulled from a sheet row or from the generate command flags.
// After normalization every field is populated; the generator never sees
// an absent value.
type GenerationRequest struct {
	ID          string `json:"id"`
	Keyword     string `json:"keyword"`
	HostNiche   string `json:"host_niche"`
	TargetLink  string `json:"target_link"`
	AnchorText  string `json:"anchor_text"`
	TargetNiche string `json:"target_niche"`
}

// ArticleStatus represents the lifecycle state of a generated article
type ArticleStatus string

const (
	ArticlePending   ArticleStatus = "pending"
	ArticleCompleted ArticleStatus = "completed"
	ArticleFailed    ArticleStatus = "failed"
)

// GeneratedArticle is the persisted result of one pipeline run. Content is
// immutable once produced; only the Drive fields may be attached later by a
// separate upload.
type GeneratedArticle struct {
	ID        string        `json:"id"`
	RequestID string        `json:"request_id"`
	Title     string        `json:"title"`
	Content   string        `json:"content"`
	CreatedAt time.Time     `json:"created_at"`
	Status    ArticleStatus `json:"status"`
	DriveURL  string        `json:"drive_url,omitempty"`
	DriveID   string        `json:"drive_id,omitempty"`
}

// newArticle builds a completed article for the given request.
func newArticle(req GenerationRequest, title, content string) GeneratedArticle {
	return GeneratedArticle{
		ID:        uuid.NewString(),
		RequestID: req.ID,
		Title:     title,
		Content:   content,
		CreatedAt: time.Now(),
		Status:    ArticleCompleted,
	}
}

// BatchStatus represents the orchestrator state machine:
// idle → processing → {done, error}.
type BatchStatus string

const (
	BatchIdle       BatchStatus = "idle"
	BatchProcessing BatchStatus = "processing"
	BatchDone       BatchStatus = "done"
	BatchError      BatchStatus = "error"
)

// BatchProgress is the orchestrator's visible state for one run. Current is
// monotonic and never exceeds Total; Logs is append-only.
type BatchProgress struct {
	Current int
	Total   int
	Status  BatchStatus
	Logs    []string
}

// RowWorkItem pairs a sheet row with its original index so write-back
// targets the right cell even after empty rows are filtered out.
type RowWorkItem struct {
	Row   []string
	Index int
}

// DriveFile identifies a document created by the publisher.
type DriveFile struct {
	ID          string `json:"id"`
	WebViewLink string `json:"webViewLink"`
}
