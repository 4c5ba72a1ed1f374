package main

import (
	"fmt"

	md "github.com/JohannesKaufmann/html-to-markdown"
)

// docToMarkdown converts an exported Google Doc's HTML back into markdown so
// a published article can be reused (for example as a WordPress draft).
func docToMarkdown(html string) (string, error) {
	converter := md.NewConverter("", true, nil)
	markdown, err := converter.ConvertString(html)
	if err != nil {
		return "", fmt.Errorf("converting document HTML: %w", err)
	}
	return markdown, nil
}
