package main

import (
	"fmt"
	"regexp"
	"strings"
)

// The converter supports exactly the constructs the generator is prompted to
// produce: level 1-3 headings, bold, italic, links and line breaks. Anything
// else passes through untouched.
var (
	h1Pattern     = regexp.MustCompile(`(?m)^# (.*)$`)
	h2Pattern     = regexp.MustCompile(`(?m)^## (.*)$`)
	h3Pattern     = regexp.MustCompile(`(?m)^### (.*)$`)
	boldPattern   = regexp.MustCompile(`\*\*(.*?)\*\*`)
	italicPattern = regexp.MustCompile(`\*(.*?)\*`)
	linkPattern   = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
)

// extractTitle derives a display title from generated markdown: the first
// level-1 heading wins, otherwise the first non-empty line, otherwise the
// fallback (the originating request's keyword). Bold markers are stripped.
func extractTitle(markdown, fallback string) string {
	lines := strings.Split(markdown, "\n")

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "# ") {
			return stripBold(strings.TrimSpace(trimmed[2:]))
		}
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" {
			return stripBold(trimmed)
		}
	}

	return fallback
}

// stripBold removes markdown bold markers from a title line
func stripBold(s string) string {
	return strings.ReplaceAll(s, "**", "")
}

// convertMarkdownToHTML converts article markdown to the minimal HTML
// document the Drive import expects. Headings must be replaced deepest
// first so "###" is not consumed by the "#" pattern.
func convertMarkdownToHTML(markdown, title string) string {
	html := markdown
	html = h3Pattern.ReplaceAllString(html, "<h3>$1</h3>")
	html = h2Pattern.ReplaceAllString(html, "<h2>$1</h2>")
	html = h1Pattern.ReplaceAllString(html, "<h1>$1</h1>")
	html = boldPattern.ReplaceAllString(html, "<b>$1</b>")
	html = italicPattern.ReplaceAllString(html, "<i>$1</i>")
	html = linkPattern.ReplaceAllString(html, `<a href="$2">$1</a>`)
	html = strings.ReplaceAll(html, "\n", "<br>")

	return fmt.Sprintf(`<html><head><meta charset='utf-8'><title>%s</title></head><body style="font-family: Arial; font-size: 11pt;">%s</body></html>`, title, html)
}

// generateSlugFromTitle creates a filesystem slug from an article title
func generateSlugFromTitle(title string) string {
	if title == "" {
		return "artigo"
	}

	slug := strings.ToLower(title)
	slug = regexp.MustCompile(`[^a-z0-9]+`).ReplaceAllString(slug, "-")
	slug = regexp.MustCompile(`-+`).ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")

	// Limit length to avoid filesystem issues
	if len(slug) > 50 {
		slug = slug[:50]
		slug = strings.Trim(slug, "-")
	}

	if slug == "" {
		return "artigo"
	}

	return slug
}
