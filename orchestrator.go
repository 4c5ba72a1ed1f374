package main

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
)

// Default values for cells the source row omits. The keyword default only
// applies when the row exists but its first cell is empty.
const (
	defaultKeyword = "Sem Título"
	defaultNiche   = "Geral"
	defaultLink    = "#"
	defaultAnchor  = "link"
)

// Collaborator contracts. The orchestrator sees only these, so tests and
// demo mode can substitute any step.

// Generator produces article markdown for a request.
type Generator interface {
	Generate(req GenerationRequest) (string, error)
}

// Publisher stores an article externally and returns its location.
type Publisher interface {
	Publish(token, title, htmlContent string) (*DriveFile, error)
}

// RowSource supplies the spreadsheet's data rows.
type RowSource interface {
	FetchRows(token, sheetID string) ([][]string, error)
}

// RowWriter writes a value back into a specific sheet row.
type RowWriter interface {
	WriteLink(token, sheetID string, rowIndex int, value string) error
}

// Orchestrator drives the per-row pipeline (normalize, generate, publish,
// write back) strictly sequentially in original row order. It is the single
// writer of its BatchProgress; consumers receive immutable snapshots via
// OnUpdate.
type Orchestrator struct {
	generator Generator
	publisher Publisher
	source    RowSource
	writer    RowWriter
	store     *Store

	// OnUpdate, when set, receives a progress snapshot after every state
	// change. Snapshots own their log slice and must not be mutated back.
	OnUpdate func(BatchProgress)

	progress BatchProgress
	sleep    func(time.Duration)
}

// NewOrchestrator wires the batch pipeline. Publisher, source and writer may
// be nil when only the simulation path will run.
func NewOrchestrator(generator Generator, publisher Publisher, source RowSource, writer RowWriter, store *Store) *Orchestrator {
	return &Orchestrator{
		generator: generator,
		publisher: publisher,
		source:    source,
		writer:    writer,
		store:     store,
		progress:  BatchProgress{Status: BatchIdle},
		sleep:     time.Sleep,
	}
}

// Progress returns an immutable snapshot of the current batch state.
func (o *Orchestrator) Progress() BatchProgress {
	snapshot := o.progress
	snapshot.Logs = make([]string, len(o.progress.Logs))
	copy(snapshot.Logs, o.progress.Logs)
	return snapshot
}

// normalizeRow maps a raw sheet row onto the fixed column schema:
// 0 keyword, 1 host niche, 2 target link, 3 anchor text, 4 target niche.
// Missing and empty cells take their defaults, so every field is populated
// after normalization.
func normalizeRow(row []string) GenerationRequest {
	return GenerationRequest{
		ID:          uuid.NewString(),
		Keyword:     cellOrDefault(row, 0, defaultKeyword),
		HostNiche:   cellOrDefault(row, 1, defaultNiche),
		TargetLink:  cellOrDefault(row, 2, defaultLink),
		AnchorText:  cellOrDefault(row, 3, defaultAnchor),
		TargetNiche: cellOrDefault(row, 4, defaultNiche),
	}
}

func cellOrDefault(row []string, index int, fallback string) string {
	if index >= len(row) || row[index] == "" {
		return fallback
	}
	return row[index]
}

// collectWorkItems filters out empty rows while preserving each remaining
// row's original index, which write-back depends on.
func collectWorkItems(rows [][]string) []RowWorkItem {
	items := make([]RowWorkItem, 0, len(rows))
	for index, row := range rows {
		if len(row) >= 1 {
			items = append(items, RowWorkItem{Row: row, Index: index})
		}
	}
	return items
}

// ProcessSheet runs the live batch: fetch all rows, then drive the pipeline
// over every valid one. The credential is acquired by the caller before any
// batch state exists. A failure to read the sheet at all is fatal and ends
// the run in the error state.
func (o *Orchestrator) ProcessSheet(token, sheetID string) error {
	o.progress = BatchProgress{Status: BatchProcessing}
	o.emit()
	o.logf("Lendo planilha...")

	rows, err := o.source.FetchRows(token, sheetID)
	if err != nil {
		o.fatal(err)
		return err
	}

	return o.RunBatch(token, sheetID, collectWorkItems(rows))
}

// RunBatch processes the given work items sequentially. Failures inside a
// row are isolated: the row is logged with an "Erro" marker and skipped, and
// the batch continues. The run always terminates in done unless a fatal
// error occurred before the loop.
func (o *Orchestrator) RunBatch(token, sheetID string, items []RowWorkItem) error {
	if o.progress.Status != BatchProcessing {
		o.progress = BatchProgress{Status: BatchProcessing}
		o.emit()
	}

	if len(items) == 0 {
		o.logf("Planilha vazia ou sem dados válidos.")
		o.setStatus(BatchDone)
		return nil
	}

	o.progress.Total = len(items)
	o.progress.Current = 0
	o.logf("Encontradas %d linhas para processar.", len(items))

	for _, item := range items {
		req := normalizeRow(item.Row)
		o.logf("Processando: %s...", req.Keyword)

		if err := o.processRow(token, sheetID, req, item.Index); err != nil {
			o.logf("Erro em \"%s\": %v", req.Keyword, err)
		}

		o.progress.Current++
		o.emit()
	}

	o.logf("Processamento finalizado!")
	o.setStatus(BatchDone)
	return nil
}

// processRow runs the generate → publish → write-back pipeline for one row.
// Any error leaves the row unrecorded in history and is reported to the
// caller for row-scoped logging.
func (o *Orchestrator) processRow(token, sheetID string, req GenerationRequest, rowIndex int) error {
	content, err := o.generator.Generate(req)
	if err != nil {
		return fmt.Errorf("gerando conteúdo: %w", err)
	}

	title := extractTitle(content, req.Keyword)
	htmlContent := convertMarkdownToHTML(content, title)

	file, err := o.publisher.Publish(token, title, htmlContent)
	if err != nil {
		return fmt.Errorf("salvando no Drive: %w", err)
	}

	// Write-back targets the row's original sheet index, not its position
	// in the filtered list.
	if err := o.writer.WriteLink(token, sheetID, rowIndex, file.WebViewLink); err != nil {
		return fmt.Errorf("atualizando planilha: %w", err)
	}

	article := newArticle(req, title, content)
	article.DriveURL = file.WebViewLink
	article.DriveID = file.ID
	if err := o.store.Append(article); err != nil {
		return fmt.Errorf("gravando histórico: %w", err)
	}

	o.logf("Sucesso: \"%s\" - Link salvo na planilha.", req.Keyword)
	return nil
}

// RunSimulation mirrors the live batch over the three fixture rows, with the
// Drive and Sheets steps replaced by fixed-delay stand-ins. The generator
// call is real, so demo mode still proves end-to-end generation. Unlike the
// live path there is no per-row recovery: the first error aborts the whole
// simulation. The asymmetry is deliberate and pinned by tests.
func (o *Orchestrator) RunSimulation() error {
	o.progress = BatchProgress{Status: BatchProcessing}
	o.emit()
	o.logf("[MODO DEMO] Iniciando simulação...")

	o.sleep(time.Second)
	o.logf("[MODO DEMO] Conectando à planilha simulada...")
	o.sleep(time.Second)

	items := demoWorkItems()
	o.progress.Total = len(items)
	o.progress.Current = 0
	o.logf("[MODO DEMO] Encontradas %d linhas para processar.", len(items))

	for _, item := range items {
		req := normalizeRow(item.Row)
		o.logf("Processando: %s... (IA Gerando)", req.Keyword)

		content, err := o.generator.Generate(req)
		if err != nil {
			o.abort(err)
			return err
		}
		title := extractTitle(content, req.Keyword)

		o.logf("[MODO DEMO] Salvando no Drive (Simulado)...")
		o.sleep(800 * time.Millisecond)
		o.logf("[MODO DEMO] Atualizando planilha...")
		o.sleep(500 * time.Millisecond)

		article := newArticle(req, title, content)
		article.DriveURL = demoDriveURL
		article.DriveID = demoDriveID
		if err := o.store.Append(article); err != nil {
			o.abort(err)
			return err
		}

		o.logf("Sucesso: \"%s\" - Link salvo.", req.Keyword)
		o.progress.Current++
		o.emit()
	}

	o.logf("Processamento finalizado!")
	o.setStatus(BatchDone)
	return nil
}

// fatal ends a live run that failed outside the per-row boundary.
func (o *Orchestrator) fatal(err error) {
	o.logf("Erro fatal: %v", err)
	o.setStatus(BatchError)
}

// abort ends a simulation run on its first error.
func (o *Orchestrator) abort(err error) {
	o.logf("Erro: %v", err)
	o.setStatus(BatchError)
}

func (o *Orchestrator) setStatus(status BatchStatus) {
	o.progress.Status = status
	o.emit()
}

// logf appends a batch log line, mirrors it to the CLI log, and emits a
// progress snapshot.
func (o *Orchestrator) logf(format string, args ...any) {
	line := fmt.Sprintf(format, args...)
	o.progress.Logs = append(o.progress.Logs, line)
	log.Printf("%s", line)
	o.emit()
}

func (o *Orchestrator) emit() {
	if o.OnUpdate != nil {
		o.OnUpdate(o.Progress())
	}
}
