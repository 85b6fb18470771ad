package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
)

const (
	maxUploadSize = int64(50 << 20)
	xlsxMIME      = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// setCORSHeaders sets CORS headers on a response
func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
	w.Header().Set("Access-Control-Max-Age", "3600")
}

// writeJSON encodes v with the given status
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// jsonError writes {"error": message} with CORS headers set
func jsonError(w http.ResponseWriter, message string, code int) {
	setCORSHeaders(w)
	writeJSON(w, code, map[string]string{"error": message})
}

// statusFor maps service errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDocument):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// contentTypeFor guesses a content type from the file extension
func contentTypeFor(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return "application/pdf"
	case ".txt":
		return "text/plain"
	default:
		return "application/octet-stream"
	}
}

// handleListInvoices returns summaries of all reports
func (s *Server) handleListInvoices(w http.ResponseWriter, r *http.Request) {
	reports, err := s.service.ListReports()
	if err != nil {
		slog.Error("Error listing reports", "error", err)
		jsonError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	summaries := make([]Summary, 0, len(reports))
	for _, report := range reports {
		summaries = append(summaries, report.Summary())
	}
	writeJSON(w, http.StatusOK, summaries)
}

// handleUploadInvoice processes an uploaded invoice document
func (s *Server) handleUploadInvoice(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		slog.Error("Error parsing multipart form", "error", err)
		msg := "Error parsing form"
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			msg = "File is too large. Maximum size is 50MB."
		}
		jsonError(w, msg, http.StatusBadRequest)
		return
	}

	f, header, err := r.FormFile("file")
	if err != nil {
		slog.Error("Error getting file from form", "error", err)
		jsonError(w, "No file provided", http.StatusBadRequest)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		slog.Error("Error reading file data", "error", err, "filename", header.Filename)
		jsonError(w, "Error reading file. Please try again.", http.StatusInternalServerError)
		return
	}

	contentType := strings.ToLower(strings.TrimSpace(header.Header.Get("Content-Type")))
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = contentTypeFor(header.Filename)
	}

	report, err := s.service.ProcessDocument(header.Filename, data, contentType)
	if err != nil {
		slog.Error("Error processing invoice", "filename", header.Filename, "error", err)
		jsonError(w, err.Error(), statusFor(err))
		return
	}

	writeJSON(w, http.StatusCreated, report)
}

// handleGetInvoice returns a single report
func (s *Server) handleGetInvoice(w http.ResponseWriter, r *http.Request) {
	report, err := s.service.GetReport(r.PathValue("id"))
	if err != nil {
		jsonError(w, "Invoice not found", statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// handleGetInvoiceFile returns the archived source document
func (s *Server) handleGetInvoiceFile(w http.ResponseWriter, r *http.Request) {
	data, contentType, err := s.service.GetReportFile(r.PathValue("id"))
	if err != nil {
		jsonError(w, "File not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Write(data)
}

// handleGetInvoiceXLSX exports a report as a workbook
func (s *Server) handleGetInvoiceXLSX(w http.ResponseWriter, r *http.Request) {
	report, err := s.service.GetReport(r.PathValue("id"))
	if err != nil {
		jsonError(w, "Invoice not found", statusFor(err))
		return
	}

	var buf bytes.Buffer
	if err := WriteXLSX(&buf, report.Result); err != nil {
		slog.Error("Error exporting workbook", "id", report.ID, "error", err)
		jsonError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	name := strings.TrimSuffix(report.Filename, filepath.Ext(report.Filename)) + ".xlsx"
	w.Header().Set("Content-Type", xlsxMIME)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Write(buf.Bytes())
}

// handleGetInvoiceText renders a report as the plain text summary
func (s *Server) handleGetInvoiceText(w http.ResponseWriter, r *http.Request) {
	report, err := s.service.GetReport(r.PathValue("id"))
	if err != nil {
		jsonError(w, "Invoice not found", statusFor(err))
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if err := WriteText(w, report.Result, s.currency); err != nil {
		slog.Error("Error writing text report", "id", report.ID, "error", err)
	}
}

// handleDeleteInvoice deletes a report and its document
func (s *Server) handleDeleteInvoice(w http.ResponseWriter, r *http.Request) {
	if err := s.service.DeleteReport(r.PathValue("id")); err != nil {
		jsonError(w, "Error deleting invoice", statusFor(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
