package main

import (
	"bytes"
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"github.com/zombor/invoice-ledger/internal/extract"
	"github.com/zombor/invoice-ledger/internal/lookup"
	"github.com/zombor/invoice-ledger/internal/report"
)

//go:embed VERSION.txt
var versionFile string

var version = strings.TrimSpace(versionFile)

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "--version" || arg == "-version" || arg == "-v" {
			fmt.Println(version)
			os.Exit(0)
		}
	}

	fs := ff.NewFlagSet("invoice-ledger")
	var (
		referencePath = fs.StringLong("reference", "", "Reference table with Item Code, GL Code and GL Description columns (.xlsx or .csv)")
		sheet         = fs.StringLong("sheet", "", "Worksheet of the reference table (default: first sheet)")
		layoutPath    = fs.StringLong("layout", "", "YAML file overriding the invoice layout patterns")
		currency      = fs.StringLong("currency", report.DefaultCurrency, "ISO 4217 currency code for displayed amounts")
		xlsxOut       = fs.StringLong("xlsx-out", "", "Directory to write one workbook per document (optional)")
		serve         = fs.BoolLong("serve", "Run the HTTP API instead of processing files")
		port          = fs.IntLong("port", 8080, "HTTP server port")
		dbPath        = fs.StringLong("db", "invoice-ledger.db", "Database file path")
		storagePath   = fs.StringLong("storage", "./invoices", "Storage directory path")
		authUser      = fs.StringLong("auth-user", "", "Basic auth username (optional)")
		authPass      = fs.StringLong("auth-pass", "", "Basic auth password (optional)")
		logLevel      = fs.StringLong("log-level", "info", "Log level: debug, info, warn or error")
		_             = fs.StringLong("config", "", "Config file (optional)")
		showVersion   = fs.BoolLong("version", "Show version information")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("INVOICE_LEDGER"),
		ff.WithConfigFileFlag("config"),
		ff.WithConfigFileParser(ff.PlainParser),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	// Check version flag after parsing
	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		fmt.Fprintf(os.Stderr, "error: invalid log level %q\n", *logLevel)
		os.Exit(1)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if *referencePath == "" {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintln(os.Stderr, "error: --reference is required")
		os.Exit(1)
	}

	source, err := lookup.SourceFor(*referencePath, *sheet)
	if err != nil {
		slog.Error("Invalid reference table", "path", *referencePath, "error", err)
		os.Exit(1)
	}
	cfg := report.Config{Reference: source}
	if *layoutPath != "" {
		cfg.Layout, err = extract.LoadLayout(*layoutPath)
		if err != nil {
			slog.Error("Failed to load layout", "path", *layoutPath, "error", err)
			os.Exit(1)
		}
	}

	if !*serve {
		service, err := report.NewService(cfg, nil, nil)
		if err != nil {
			slog.Error("Failed to initialize service", "error", err)
			os.Exit(1)
		}
		os.Exit(processFiles(service, fs.GetArgs(), *currency, *xlsxOut))
	}

	// Initialize database
	slog.Info("Initializing database...")
	db, err := report.NewBoltDB(*dbPath)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Initialize storage
	slog.Info("Initializing storage...")
	store, err := report.NewLocalStorage(*storagePath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}

	service, err := report.NewService(cfg, db, store)
	if err != nil {
		slog.Error("Failed to initialize service", "error", err)
		os.Exit(1)
	}

	basicAuth := report.BasicAuth{
		Username: *authUser,
		Password: *authPass,
	}
	server := report.NewServer(service, basicAuth, *currency)

	// Start server in goroutine
	addr := fmt.Sprintf(":%d", *port)
	go func() {
		if err := server.Start(addr); err != nil {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	slog.Info("Server started", "address", fmt.Sprintf("http://localhost%s", addr))
	if *authUser != "" || *authPass != "" {
		slog.Info("Basic auth enabled", "user", *authUser)
	}

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	slog.Info("Shutting down...")
}

// processFiles prints a text report for each path and returns the exit code.
// A failed document does not stop the others.
func processFiles(service *report.Service, paths []string, currency, xlsxDir string) int {
	if len(paths) == 0 {
		fmt.Fprintln(os.Stderr, "error: no invoice documents given")
		return 1
	}

	code := 0
	for i, path := range paths {
		if err := processFile(service, path, currency, xlsxDir, i > 0); err != nil {
			slog.Error("Failed to process document", "path", path, "error", err)
			code = 1
		}
	}
	return code
}

func processFile(service *report.Service, path, currency, xlsxDir string, separate bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: %w", report.ErrDocument, err)
	}

	analysis, err := service.Analyze(data)
	if err != nil {
		return err
	}

	if separate {
		fmt.Println()
	}
	fmt.Printf("%s (%d pages)\n", filepath.Base(path), analysis.Pages)
	if err := report.WriteText(os.Stdout, analysis.Result, currency); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}

	if xlsxDir == "" {
		return nil
	}
	var buf bytes.Buffer
	if err := report.WriteXLSX(&buf, analysis.Result); err != nil {
		return err
	}
	if err := os.MkdirAll(xlsxDir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	out := filepath.Join(xlsxDir, strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))+".xlsx")
	if err := os.WriteFile(out, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	slog.Info("Wrote workbook", "path", out)
	return nil
}
