package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"
)

// Store owns the persisted application state: the article history
// (most-recent-first) and the demo-mode flag. State is loaded once at open
// and the whole file is rewritten on every change, under a file lock so
// concurrent invocations cannot interleave writes.
type Store struct {
	path string
	lock *flock.Flock
	mu   sync.Mutex

	state storeState
}

type storeState struct {
	Articles []GeneratedArticle `json:"articles"`
	DemoMode bool               `json:"demo_mode"`
}

// OpenStore loads the state file at path, creating parent directories as
// needed. A missing file yields an empty store.
func OpenStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating state directory: %w", err)
	}

	s := &Store{
		path: path,
		lock: flock.New(path + ".lock"),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("reading state file: %w", err)
	}

	if err := json.Unmarshal(data, &s.state); err != nil {
		return nil, fmt.Errorf("parsing state file %s: %w", path, err)
	}

	return s, nil
}

// Append prepends a completed article to the history and persists it.
func (s *Store) Append(article GeneratedArticle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Articles = append([]GeneratedArticle{article}, s.state.Articles...)
	return s.save()
}

// AttachDrive records the Drive location on an existing history entry. This
// is the only mutation allowed on a completed article.
func (s *Store) AttachDrive(articleID string, file *DriveFile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.state.Articles {
		if s.state.Articles[i].ID == articleID {
			s.state.Articles[i].DriveURL = file.WebViewLink
			s.state.Articles[i].DriveID = file.ID
			return s.save()
		}
	}
	return fmt.Errorf("article not found: %s", articleID)
}

// Articles returns a copy of the history, most recent first.
func (s *Store) Articles() []GeneratedArticle {
	s.mu.Lock()
	defer s.mu.Unlock()

	articles := make([]GeneratedArticle, len(s.state.Articles))
	copy(articles, s.state.Articles)
	return articles
}

// FindArticle looks up a history entry by ID or ID prefix.
func (s *Store) FindArticle(id string) (GeneratedArticle, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, article := range s.state.Articles {
		if article.ID == id || (len(id) >= 8 && len(article.ID) >= len(id) && article.ID[:len(id)] == id) {
			return article, true
		}
	}
	return GeneratedArticle{}, false
}

// Clear wipes the article history. The demo flag is unaffected.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Articles = nil
	return s.save()
}

// DemoMode reports whether demo mode is enabled.
func (s *Store) DemoMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.DemoMode
}

// SetDemoMode persists the demo-mode flag.
func (s *Store) SetDemoMode(enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.DemoMode = enabled
	return s.save()
}

// save rewrites the state file in full. Callers hold s.mu.
func (s *Store) save() error {
	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("locking state file: %w", err)
	}
	defer s.lock.Unlock()

	data, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling state: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("writing state file: %w", err)
	}
	return nil
}
