package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"time"
)

const sheetsBaseURL = "https://sheets.googleapis.com"

// Data rows start at A2: row 1 is the header, and A1 notation is 1-based.
const sheetRowOffset = 2

var (
	fileIDInURLPattern = regexp.MustCompile(`/d/([a-zA-Z0-9_-]+)`)
	bareFileIDPattern  = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
)

// extractFileID accepts a full Google Sheets/Docs URL or a bare file ID and
// returns the ID, or "" when neither form matches.
func extractFileID(urlOrID string) string {
	if m := fileIDInURLPattern.FindStringSubmatch(urlOrID); len(m) == 2 {
		return m[1]
	}
	if bareFileIDPattern.MatchString(urlOrID) {
		return urlOrID
	}
	return ""
}

// SheetClient reads rows from and writes links back to a spreadsheet via the
// Sheets REST API. It is both the batch row source and the row writer.
type SheetClient struct {
	client     *http.Client
	baseURL    string
	linkColumn string
}

// NewSheetClient creates a Sheets client writing publish links to linkColumn.
func NewSheetClient(linkColumn string) *SheetClient {
	return &SheetClient{
		client:     &http.Client{Timeout: 30 * time.Second},
		baseURL:    sheetsBaseURL,
		linkColumn: linkColumn,
	}
}

// FetchRows returns the data rows of the sheet (below the header), each as
// an ordered slice of cell strings.
func (c *SheetClient) FetchRows(token, sheetID string) ([][]string, error) {
	url := fmt.Sprintf("%s/v4/spreadsheets/%s/values/A2:E?majorDimension=ROWS", c.baseURL, sheetID)
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building sheets request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching sheet rows: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, googleAPIError(resp, "falha ao ler a planilha")
	}

	var payload struct {
		Values [][]string `json:"values"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("parsing sheet values: %w", err)
	}

	return payload.Values, nil
}

// WriteLink writes value into the link column of the row at rowIndex.
// rowIndex is zero-based over the original unfiltered data rows, exactly as
// returned by FetchRows.
func (c *SheetClient) WriteLink(token, sheetID string, rowIndex int, value string) error {
	cell := c.cellRangeForRow(rowIndex)
	url := fmt.Sprintf("%s/v4/spreadsheets/%s/values/%s?valueInputOption=RAW", c.baseURL, sheetID, cell)

	body, err := json.Marshal(map[string]any{
		"range":  cell,
		"values": [][]string{{value}},
	})
	if err != nil {
		return fmt.Errorf("marshaling cell update: %w", err)
	}

	req, err := http.NewRequest(http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building cell update request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("updating sheet cell: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return googleAPIError(resp, "falha ao atualizar a planilha")
	}

	io.Copy(io.Discard, resp.Body)
	return nil
}

// cellRangeForRow maps a zero-based data-row index onto A1 notation.
func (c *SheetClient) cellRangeForRow(rowIndex int) string {
	return fmt.Sprintf("%s%d", c.linkColumn, rowIndex+sheetRowOffset)
}

// googleAPIError surfaces the remote service's own error message when one is
// present, falling back to the HTTP status.
func googleAPIError(resp *http.Response, fallback string) error {
	var payload struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil && payload.Error.Message != "" {
		return fmt.Errorf("%s", payload.Error.Message)
	}
	return fmt.Errorf("%s (HTTP %d)", fallback, resp.StatusCode)
}
