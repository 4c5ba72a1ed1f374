package main

import (
	"fmt"
	"os"
	"path/filepath"
)

// articleFilename places an article under the output directory as
// <date>-<slug>.md.
func articleFilename(outputDir string, article GeneratedArticle) string {
	slug := generateSlugFromTitle(article.Title)
	date := article.CreatedAt.Format("2006-01-02")
	return filepath.Join(outputDir, fmt.Sprintf("%s-%s.md", date, slug))
}

// saveArticleFile writes the article markdown to disk, creating the output
// directory if needed.
func saveArticleFile(filename string, article GeneratedArticle) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := os.WriteFile(filename, []byte(article.Content), 0644); err != nil {
		return fmt.Errorf("writing article file: %w", err)
	}
	return nil
}
