package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	driveUploadBaseURL = "https://www.googleapis.com/upload/drive/v3"
	driveBaseURL       = "https://www.googleapis.com/drive/v3"

	multipartBoundary = "guestpost_doc_boundary"
)

// DriveClient publishes articles as Google Docs and exports existing Docs
// back as HTML.
type DriveClient struct {
	client        *http.Client
	uploadBaseURL string
	baseURL       string
}

// NewDriveClient creates a Drive client against the public API endpoints.
func NewDriveClient() *DriveClient {
	return &DriveClient{
		client:        &http.Client{Timeout: 60 * time.Second},
		uploadBaseURL: driveUploadBaseURL,
		baseURL:       driveBaseURL,
	}
}

// Publish uploads htmlContent as a new Google Doc named title and returns
// its ID and web view link. The multipart/related body carries the file
// metadata and the HTML payload, which Drive converts into Docs format.
func (d *DriveClient) Publish(token, title, htmlContent string) (*DriveFile, error) {
	metadata, err := json.Marshal(map[string]string{
		"name":     title,
		"mimeType": "application/vnd.google-apps.document",
	})
	if err != nil {
		return nil, fmt.Errorf("marshaling file metadata: %w", err)
	}

	body := strings.Join([]string{
		"--" + multipartBoundary,
		"Content-Type: application/json; charset=UTF-8",
		"",
		string(metadata),
		"--" + multipartBoundary,
		"Content-Type: text/html",
		"",
		htmlContent,
		"--" + multipartBoundary + "--",
	}, "\r\n")

	url := d.uploadBaseURL + "/files?uploadType=multipart&fields=id,webViewLink"
	req, err := http.NewRequest(http.MethodPost, url, strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building upload request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "multipart/related; boundary="+multipartBoundary)

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("uploading to Drive: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, googleAPIError(resp, "falha no upload para o Google Drive")
	}

	var file DriveFile
	if err := json.NewDecoder(resp.Body).Decode(&file); err != nil {
		return nil, fmt.Errorf("parsing upload response: %w", err)
	}

	return &file, nil
}

// ExportHTML downloads an existing Google Doc rendered as HTML.
func (d *DriveClient) ExportHTML(token, fileID string) (string, error) {
	url := fmt.Sprintf("%s/files/%s/export?mimeType=text/html", d.baseURL, fileID)
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("building export request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := d.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("exporting document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", googleAPIError(resp, "falha ao exportar o documento")
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading export response: %w", err)
	}

	return string(data), nil
}
