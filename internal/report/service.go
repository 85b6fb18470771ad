package report

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/zombor/invoice-ledger/internal/document"
	"github.com/zombor/invoice-ledger/internal/extract"
	"github.com/zombor/invoice-ledger/internal/lookup"
	"github.com/zombor/invoice-ledger/internal/reconcile"
)

var (
	// ErrReferenceTable means the reference table could not be loaded. No
	// document is processed after it.
	ErrReferenceTable = errors.New("could not load reference table")

	// ErrDocument means a document's pages could not be read.
	ErrDocument = errors.New("could not read document")

	// ErrNotFound is returned for unknown report IDs.
	ErrNotFound = errors.New("not found")
)

// Config selects where pages and reference rows come from
type Config struct {
	// Pages defaults to document.Detect
	Pages     document.Source
	Reference lookup.Source
	// Layout defaults to extract.DefaultLayout
	Layout extract.Layout
}

// IDGenerator generates unique report IDs
type IDGenerator interface {
	Generate() string
}

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

type uuidGenerator struct{}

func (uuidGenerator) Generate() string {
	return uuid.NewString()
}

type defaultTimeSource struct{}

func (defaultTimeSource) Now() time.Time {
	return time.Now()
}

// Analysis is the in-memory outcome of processing one document
type Analysis struct {
	Pages  int
	Result reconcile.Result
}

// Service processes invoice documents against one reference table
type Service struct {
	db          DB
	storage     Storage
	pages       document.Source
	pipeline    *extract.Pipeline
	engine      *reconcile.Engine
	idGenerator IDGenerator
	timeSource  TimeSource
}

// NewService loads the reference table and compiles the layout. Errors
// here are fatal configuration errors.
func NewService(cfg Config, db DB, storage Storage) (*Service, error) {
	return NewServiceWithDeps(cfg, db, storage, uuidGenerator{}, defaultTimeSource{})
}

// NewServiceWithDeps creates a Service with custom dependencies for testing
func NewServiceWithDeps(cfg Config, db DB, storage Storage, idGen IDGenerator, timeSrc TimeSource) (*Service, error) {
	if cfg.Reference == nil {
		return nil, fmt.Errorf("%w: no reference source configured", ErrReferenceTable)
	}
	index, err := lookup.Load(cfg.Reference)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReferenceTable, err)
	}

	layout := cfg.Layout
	if layout == (extract.Layout{}) {
		layout = extract.DefaultLayout()
	}
	pipeline, err := extract.NewPipeline(layout)
	if err != nil {
		return nil, fmt.Errorf("compiling layout: %w", err)
	}

	pages := cfg.Pages
	if pages == nil {
		pages = document.Detect{}
	}

	return &Service{
		db:          db,
		storage:     storage,
		pages:       pages,
		pipeline:    pipeline,
		engine:      reconcile.NewEngine(index),
		idGenerator: idGen,
		timeSource:  timeSrc,
	}, nil
}

// Analyze extracts and reconciles a document without storing anything
func (s *Service) Analyze(data []byte) (*Analysis, error) {
	pages, err := s.pages.Pages(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDocument, err)
	}

	candidates, singleton := s.pipeline.Extract(pages)
	result := s.engine.Reconcile(candidates, singleton)

	slog.Info("Processed document",
		"pages", len(pages),
		"items", len(result.Items),
		"invoice_number", singleton.InvoiceNumber,
	)
	return &Analysis{Pages: len(pages), Result: result}, nil
}

// sanitizeFilename strips special characters and truncates long names
func sanitizeFilename(filename string) string {
	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filepath.Base(filename), ext)

	base = regexp.MustCompile(`[^a-zA-Z0-9\s\-_]`).ReplaceAllString(base, "")
	base = regexp.MustCompile(`\s+`).ReplaceAllString(base, " ")
	base = strings.TrimSpace(base)

	if len(base) > 50 {
		base = base[:50]
	}
	if base == "" {
		base = "invoice"
	}
	return base + ext
}

// ProcessDocument analyzes a document, archives it and saves the report
func (s *Service) ProcessDocument(filename string, data []byte, contentType string) (*Record, error) {
	analysis, err := s.Analyze(data)
	if err != nil {
		slog.Error("Failed to read document",
			"filename", filename,
			"content_type", contentType,
			"file_size", len(data),
			"error", err,
		)
		return nil, err
	}

	id := s.idGenerator.Generate()
	cleanFilename := sanitizeFilename(filename)

	storedAs, err := s.storage.Save(fmt.Sprintf("%s_%s", id, cleanFilename), data)
	if err != nil {
		return nil, fmt.Errorf("saving document: %w", err)
	}

	report := &Record{
		ID:          id,
		Filename:    cleanFilename,
		StoredAs:    storedAs,
		ContentType: contentType,
		Pages:       analysis.Pages,
		Result:      analysis.Result,
		CreatedAt:   s.timeSource.Now(),
	}
	if err := s.db.SaveReport(report); err != nil {
		s.storage.Delete(storedAs)
		return nil, fmt.Errorf("saving report to database: %w", err)
	}
	return report, nil
}

// GetReport retrieves a report by ID
func (s *Service) GetReport(id string) (*Record, error) {
	report, err := s.db.GetReport(id)
	if err != nil {
		return nil, fmt.Errorf("getting report: %w", err)
	}
	return report, nil
}

// ListReports returns all reports, newest first
func (s *Service) ListReports() ([]*Record, error) {
	reports, err := s.db.ListReports()
	if err != nil {
		return nil, fmt.Errorf("listing reports: %w", err)
	}
	slices.SortStableFunc(reports, func(a, b *Record) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return reports, nil
}

// DeleteReport removes a report and its archived document
func (s *Service) DeleteReport(id string) error {
	report, err := s.db.GetReport(id)
	if err != nil {
		return fmt.Errorf("getting report for deletion: %w", err)
	}

	if err := s.storage.Delete(report.StoredAs); err != nil {
		slog.Warn("Failed to delete document", "stored_as", report.StoredAs, "error", err)
	}

	if err := s.db.DeleteReport(id); err != nil {
		return fmt.Errorf("deleting report from database: %w", err)
	}
	return nil
}

// GetReportFile returns the archived document of a report
func (s *Service) GetReportFile(id string) ([]byte, string, error) {
	report, err := s.db.GetReport(id)
	if err != nil {
		return nil, "", fmt.Errorf("getting report: %w", err)
	}

	data, err := s.storage.Get(report.StoredAs)
	if err != nil {
		return nil, "", fmt.Errorf("getting report file: %w", err)
	}
	return data, report.ContentType, nil
}
