package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// WordpressCategory is a category as returned by the wp-json API.
type WordpressCategory struct {
	ID     int    `json:"id"`
	Count  int    `json:"count"`
	Name   string `json:"name"`
	Slug   string `json:"slug"`
	Parent int    `json:"parent"`
}

// WordpressPost is the payload for creating a post.
type WordpressPost struct {
	Title      string `json:"title"`
	Content    string `json:"content"`
	Slug       string `json:"slug,omitempty"`
	Status     string `json:"status"`
	Excerpt    string `json:"excerpt,omitempty"`
	Categories []int  `json:"categories,omitempty"`
}

// WordpressClient talks to a site's wp-json REST API using application
// password Basic auth.
type WordpressClient struct {
	client *http.Client
}

// NewWordpressClient creates a WordPress REST client.
func NewWordpressClient() *WordpressClient {
	return &WordpressClient{
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// FetchCategories lists the site's categories, including empty ones.
func (w *WordpressClient) FetchCategories(site WordpressSite) ([]WordpressCategory, error) {
	url := siteBaseURL(site) + "/wp-json/wp/v2/categories?per_page=100&hide_empty=0"
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building categories request: %w", err)
	}
	req.SetBasicAuth(site.Username, site.AppPassword)

	resp, err := w.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching categories from %s: %w", site.Name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, wordpressAPIError(resp, "falha ao buscar categorias")
	}

	var categories []WordpressCategory
	if err := json.NewDecoder(resp.Body).Decode(&categories); err != nil {
		return nil, fmt.Errorf("parsing categories response: %w", err)
	}

	return categories, nil
}

// CreatePost creates a post on the site and returns its public link.
func (w *WordpressClient) CreatePost(site WordpressSite, post WordpressPost) (string, error) {
	body, err := json.Marshal(post)
	if err != nil {
		return "", fmt.Errorf("marshaling post: %w", err)
	}

	url := siteBaseURL(site) + "/wp-json/wp/v2/posts"
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building post request: %w", err)
	}
	req.SetBasicAuth(site.Username, site.AppPassword)
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("publishing to %s: %w", site.Name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", wordpressAPIError(resp, "falha ao publicar o post")
	}

	var created struct {
		Link string `json:"link"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return "", fmt.Errorf("parsing post response: %w", err)
	}

	return created.Link, nil
}

// siteBaseURL normalizes the configured site URL (no trailing slash).
func siteBaseURL(site WordpressSite) string {
	return strings.TrimRight(site.URL, "/")
}

// wordpressAPIError surfaces the wp-json error message when present.
func wordpressAPIError(resp *http.Response, fallback string) error {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil && payload.Message != "" {
		return fmt.Errorf("%s", payload.Message)
	}
	return fmt.Errorf("%s (HTTP %d)", fallback, resp.StatusCode)
}
