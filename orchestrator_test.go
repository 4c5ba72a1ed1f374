package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// stubGenerator returns canned markdown per keyword and can fail on demand.
type stubGenerator struct {
	failOn map[string]error
	calls  []GenerationRequest
}

func (g *stubGenerator) Generate(req GenerationRequest) (string, error) {
	g.calls = append(g.calls, req)
	if err, ok := g.failOn[req.Keyword]; ok {
		return "", err
	}
	return fmt.Sprintf("# Artigo sobre %s\n\nTexto com [%s](%s).", req.Keyword, req.AnchorText, req.TargetLink), nil
}

type stubPublisher struct {
	calls int
	err   error
}

func (p *stubPublisher) Publish(token, title, htmlContent string) (*DriveFile, error) {
	if p.err != nil {
		return nil, p.err
	}
	p.calls++
	return &DriveFile{
		ID:          fmt.Sprintf("doc-%d", p.calls),
		WebViewLink: fmt.Sprintf("https://docs.google.com/doc-%d", p.calls),
	}, nil
}

type stubRowWriter struct {
	indices []int
	values  []string
	err     error
}

func (w *stubRowWriter) WriteLink(token, sheetID string, rowIndex int, value string) error {
	if w.err != nil {
		return w.err
	}
	w.indices = append(w.indices, rowIndex)
	w.values = append(w.values, value)
	return nil
}

type stubRowSource struct {
	rows [][]string
	err  error
}

func (s *stubRowSource) FetchRows(token, sheetID string) ([][]string, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.rows, nil
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := OpenStore(filepath.Join(t.TempDir(), "state.json"))
	if err != nil {
		t.Fatalf("OpenStore() error = %v", err)
	}
	return store
}

func newTestOrchestrator(t *testing.T, gen Generator, pub Publisher, src RowSource, w RowWriter) (*Orchestrator, *Store) {
	t.Helper()
	store := newTestStore(t)
	o := NewOrchestrator(gen, pub, src, w, store)
	o.sleep = func(time.Duration) {}
	return o, store
}

func countLogsContaining(logs []string, substr string) int {
	count := 0
	for _, line := range logs {
		if strings.Contains(line, substr) {
			count++
		}
	}
	return count
}

func TestNormalizeRowDefaults(t *testing.T) {
	tests := []struct {
		name string
		row  []string
		want GenerationRequest
	}{
		{
			name: "full row",
			row:  []string{"Yoga", "RH", "https://x.com", "kits", "E-commerce"},
			want: GenerationRequest{Keyword: "Yoga", HostNiche: "RH", TargetLink: "https://x.com", AnchorText: "kits", TargetNiche: "E-commerce"},
		},
		{
			name: "short row",
			row:  []string{"Yoga"},
			want: GenerationRequest{Keyword: "Yoga", HostNiche: "Geral", TargetLink: "#", AnchorText: "link", TargetNiche: "Geral"},
		},
		{
			name: "empty cells",
			row:  []string{"", "", "https://x.com", "", ""},
			want: GenerationRequest{Keyword: "Sem Título", HostNiche: "Geral", TargetLink: "https://x.com", AnchorText: "link", TargetNiche: "Geral"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeRow(tt.row)
			if got.ID == "" {
				t.Error("normalizeRow() did not assign an ID")
			}
			got.ID = ""
			if got != tt.want {
				t.Errorf("normalizeRow() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestNormalizeRowIdempotence(t *testing.T) {
	row := []string{"Yoga", "RH", "https://x.com", "kits", "E-commerce"}

	first := normalizeRow(row)
	second := normalizeRow(row)

	if first.ID == second.ID {
		t.Error("normalizeRow() produced the same ID twice")
	}

	first.ID = ""
	second.ID = ""
	if first != second {
		t.Errorf("normalizeRow() not idempotent: %+v vs %+v", first, second)
	}
}

func TestCollectWorkItemsKeepsOriginalIndices(t *testing.T) {
	rows := [][]string{
		{"A"},
		{},
		{"C"},
	}

	items := collectWorkItems(rows)

	if len(items) != 2 {
		t.Fatalf("collectWorkItems() kept %d rows, want 2", len(items))
	}
	if items[0].Index != 0 || items[1].Index != 2 {
		t.Errorf("collectWorkItems() indices = [%d, %d], want [0, 2]", items[0].Index, items[1].Index)
	}
}

func TestRunBatchWriteBackTargetsOriginalIndex(t *testing.T) {
	gen := &stubGenerator{}
	pub := &stubPublisher{}
	writer := &stubRowWriter{}
	o, _ := newTestOrchestrator(t, gen, pub, nil, writer)

	rows := [][]string{
		{"Primeira"},
		{},
		{"Terceira"},
	}

	if err := o.RunBatch("token", "sheet", collectWorkItems(rows)); err != nil {
		t.Fatalf("RunBatch() error = %v", err)
	}

	want := []int{0, 2}
	if len(writer.indices) != len(want) {
		t.Fatalf("WriteLink called %d times, want %d", len(writer.indices), len(want))
	}
	for i, index := range want {
		if writer.indices[i] != index {
			t.Errorf("write-back %d targeted index %d, want %d", i, writer.indices[i], index)
		}
	}
}

func TestRunBatchPerRowIsolation(t *testing.T) {
	gen := &stubGenerator{failOn: map[string]error{"Segunda": errors.New("quota exceeded")}}
	pub := &stubPublisher{}
	writer := &stubRowWriter{}
	o, store := newTestOrchestrator(t, gen, pub, nil, writer)

	rows := [][]string{
		{"Primeira"},
		{"Segunda"},
		{"Terceira"},
	}

	if err := o.RunBatch("token", "sheet", collectWorkItems(rows)); err != nil {
		t.Fatalf("RunBatch() error = %v", err)
	}

	progress := o.Progress()
	if progress.Status != BatchDone {
		t.Errorf("status = %s, want %s", progress.Status, BatchDone)
	}
	if progress.Current != 3 || progress.Total != 3 {
		t.Errorf("progress = %d/%d, want 3/3", progress.Current, progress.Total)
	}

	articles := store.Articles()
	if len(articles) != 2 {
		t.Fatalf("history has %d articles, want 2", len(articles))
	}
	for _, article := range articles {
		if article.Status != ArticleCompleted {
			t.Errorf("article %q status = %s, want %s", article.Title, article.Status, ArticleCompleted)
		}
	}

	errorLines := 0
	for _, line := range progress.Logs {
		if strings.Contains(line, "Erro") {
			errorLines++
			if !strings.Contains(line, "Segunda") {
				t.Errorf("error line does not mention the failed keyword: %q", line)
			}
		}
	}
	if errorLines != 1 {
		t.Errorf("log has %d error lines, want 1", errorLines)
	}

	// Every valid row ends as either a write-back or a logged row error.
	if len(writer.indices)+errorLines != progress.Total {
		t.Errorf("write-backs (%d) + row errors (%d) != total (%d)", len(writer.indices), errorLines, progress.Total)
	}
}

func TestRunBatchHistoryIsMostRecentFirst(t *testing.T) {
	gen := &stubGenerator{}
	o, store := newTestOrchestrator(t, gen, &stubPublisher{}, nil, &stubRowWriter{})

	rows := [][]string{{"Primeira"}, {"Segunda"}}
	if err := o.RunBatch("token", "sheet", collectWorkItems(rows)); err != nil {
		t.Fatalf("RunBatch() error = %v", err)
	}

	articles := store.Articles()
	if len(articles) != 2 {
		t.Fatalf("history has %d articles, want 2", len(articles))
	}
	if !strings.Contains(articles[0].Title, "Segunda") {
		t.Errorf("most recent article = %q, want the last processed row first", articles[0].Title)
	}
}

func TestRunBatchEmptySheet(t *testing.T) {
	o, store := newTestOrchestrator(t, &stubGenerator{}, &stubPublisher{}, nil, &stubRowWriter{})

	if err := o.RunBatch("token", "sheet", nil); err != nil {
		t.Fatalf("RunBatch() error = %v", err)
	}

	progress := o.Progress()
	if progress.Status != BatchDone {
		t.Errorf("status = %s, want %s", progress.Status, BatchDone)
	}
	if progress.Total != 0 || progress.Current != 0 {
		t.Errorf("progress = %d/%d, want 0/0", progress.Current, progress.Total)
	}
	if countLogsContaining(progress.Logs, "Planilha vazia") != 1 {
		t.Error("missing empty-sheet log line")
	}
	if len(store.Articles()) != 0 {
		t.Error("empty batch recorded articles")
	}
}

func TestRunBatchProgressMonotonic(t *testing.T) {
	gen := &stubGenerator{failOn: map[string]error{"Segunda": errors.New("boom")}}
	o, _ := newTestOrchestrator(t, gen, &stubPublisher{}, nil, &stubRowWriter{})

	var snapshots []BatchProgress
	o.OnUpdate = func(p BatchProgress) {
		snapshots = append(snapshots, p)
	}

	rows := [][]string{{"Primeira"}, {"Segunda"}, {"Terceira"}}
	if err := o.RunBatch("token", "sheet", collectWorkItems(rows)); err != nil {
		t.Fatalf("RunBatch() error = %v", err)
	}

	last := 0
	for i, snapshot := range snapshots {
		if snapshot.Current < last {
			t.Errorf("snapshot %d: current decreased from %d to %d", i, last, snapshot.Current)
		}
		if snapshot.Total != 0 && snapshot.Current > snapshot.Total {
			t.Errorf("snapshot %d: current %d exceeds total %d", i, snapshot.Current, snapshot.Total)
		}
		last = snapshot.Current
	}
	if last != 3 {
		t.Errorf("final current = %d, want 3", last)
	}
}

func TestProcessSheetFatalFetchError(t *testing.T) {
	src := &stubRowSource{err: errors.New("permission denied")}
	o, store := newTestOrchestrator(t, &stubGenerator{}, &stubPublisher{}, src, &stubRowWriter{})

	err := o.ProcessSheet("token", "sheet")
	if err == nil {
		t.Fatal("ProcessSheet() expected error")
	}

	progress := o.Progress()
	if progress.Status != BatchError {
		t.Errorf("status = %s, want %s", progress.Status, BatchError)
	}
	if countLogsContaining(progress.Logs, "Erro fatal") != 1 {
		t.Error("missing fatal error log line")
	}
	if len(store.Articles()) != 0 {
		t.Error("fatal run recorded articles")
	}
}

func TestProcessSheetDrivesFullPipeline(t *testing.T) {
	src := &stubRowSource{rows: [][]string{{"Primeira", "RH", "https://x.com", "ancora", "Loja"}}}
	pub := &stubPublisher{}
	writer := &stubRowWriter{}
	o, store := newTestOrchestrator(t, &stubGenerator{}, pub, src, writer)

	if err := o.ProcessSheet("token", "sheet"); err != nil {
		t.Fatalf("ProcessSheet() error = %v", err)
	}

	if o.Progress().Status != BatchDone {
		t.Errorf("status = %s, want %s", o.Progress().Status, BatchDone)
	}
	if len(writer.values) != 1 || writer.values[0] != "https://docs.google.com/doc-1" {
		t.Errorf("write-back values = %v, want the publish link", writer.values)
	}

	articles := store.Articles()
	if len(articles) != 1 {
		t.Fatalf("history has %d articles, want 1", len(articles))
	}
	if articles[0].DriveURL != "https://docs.google.com/doc-1" || articles[0].DriveID != "doc-1" {
		t.Errorf("article drive fields = %q/%q", articles[0].DriveURL, articles[0].DriveID)
	}
	if countLogsContaining(o.Progress().Logs, "Sucesso") != 1 {
		t.Error("missing success log line")
	}
}

func TestRunSimulationSuccess(t *testing.T) {
	gen := &stubGenerator{}
	o, store := newTestOrchestrator(t, gen, nil, nil, nil)

	if err := o.RunSimulation(); err != nil {
		t.Fatalf("RunSimulation() error = %v", err)
	}

	progress := o.Progress()
	if progress.Status != BatchDone {
		t.Errorf("status = %s, want %s", progress.Status, BatchDone)
	}
	if progress.Current != len(demoRows) || progress.Total != len(demoRows) {
		t.Errorf("progress = %d/%d, want %d/%d", progress.Current, progress.Total, len(demoRows), len(demoRows))
	}
	if countLogsContaining(progress.Logs, "[MODO DEMO]") == 0 {
		t.Error("simulation logs missing demo markers")
	}

	articles := store.Articles()
	if len(articles) != len(demoRows) {
		t.Fatalf("history has %d articles, want %d", len(articles), len(demoRows))
	}
	for _, article := range articles {
		if article.DriveURL != demoDriveURL || article.DriveID != demoDriveID {
			t.Errorf("article drive fields = %q/%q, want mock pair", article.DriveURL, article.DriveID)
		}
	}

	// The generator is real in demo mode: one call per fixture row.
	if len(gen.calls) != len(demoRows) {
		t.Errorf("generator called %d times, want %d", len(gen.calls), len(demoRows))
	}
}

func TestRunSimulationAbortsOnGeneratorError(t *testing.T) {
	failKeyword := demoRows[1][0]
	gen := &stubGenerator{failOn: map[string]error{failKeyword: errors.New("model overloaded")}}
	o, store := newTestOrchestrator(t, gen, nil, nil, nil)

	err := o.RunSimulation()
	if err == nil {
		t.Fatal("RunSimulation() expected error")
	}

	progress := o.Progress()
	if progress.Status != BatchError {
		t.Errorf("status = %s, want %s", progress.Status, BatchError)
	}
	if countLogsContaining(progress.Logs, "Erro") != 1 {
		t.Error("missing abort log line")
	}

	// The whole run aborts: no per-row skipping past the failure.
	if len(gen.calls) != 2 {
		t.Errorf("generator called %d times, want 2 (abort after the failure)", len(gen.calls))
	}
	if len(store.Articles()) != 1 {
		t.Errorf("history has %d articles, want 1 (only the row before the failure)", len(store.Articles()))
	}
}

func TestProgressSnapshotIsDetached(t *testing.T) {
	o, _ := newTestOrchestrator(t, &stubGenerator{}, &stubPublisher{}, nil, &stubRowWriter{})

	if err := o.RunBatch("token", "sheet", collectWorkItems([][]string{{"Primeira"}})); err != nil {
		t.Fatalf("RunBatch() error = %v", err)
	}

	snapshot := o.Progress()
	before := len(o.Progress().Logs)
	snapshot.Logs[0] = "mutated"
	snapshot.Logs = append(snapshot.Logs, "extra")

	after := o.Progress()
	if len(after.Logs) != before {
		t.Error("mutating a snapshot changed the orchestrator's log length")
	}
	if after.Logs[0] == "mutated" {
		t.Error("mutating a snapshot changed the orchestrator's logs")
	}
}
