package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/solardesk/pvtopo/internal/pagetext"
	"github.com/solardesk/pvtopo/internal/pipeline"
	"github.com/solardesk/pvtopo/internal/render"
	"github.com/solardesk/pvtopo/internal/report"
	"github.com/solardesk/pvtopo/internal/tables"
)

// handleParse parses one uploaded report synchronously. The format query
// parameter selects the response body: json (default), md, or html.
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	filename, data, sidecar, ok := s.readUpload(w, r)
	if !ok {
		return
	}

	pages, err := s.extractPages(filename, data)
	if err != nil {
		jsonError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	session := report.NewSession(pages, s.log)
	session.SetTables(sidecar)
	res := session.Parse()

	switch r.URL.Query().Get("format") {
	case "", "json":
		body, err := res.JSON()
		if err != nil {
			jsonError(w, "encode result: "+err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(body)
	case "md":
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		io.WriteString(w, render.Markdown(res))
	case "html":
		body, err := render.HTML(res)
		if err != nil {
			jsonError(w, "render html: "+err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(body)
	default:
		jsonError(w, "unknown format, want json, md or html", http.StatusBadRequest)
	}
}

// handleSubmitReport queues an asynchronous parse job.
func (s *Server) handleSubmitReport(w http.ResponseWriter, r *http.Request) {
	filename, data, sidecar, ok := s.readUpload(w, r)
	if !ok {
		return
	}

	job := pipeline.NewJob(filename, data, sidecar)
	if err := s.orchestrator.Submit(job); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]any{
		"job_id":   job.ID,
		"status":   job.Status,
		"poll_url": fmt.Sprintf("/api/reports/%s/status", job.ID),
	})
}

func (s *Server) handleReportStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	snap := job.Snapshot()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(snap)
}

func (s *Server) handleReportResult(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	res := job.Result()
	if res == nil {
		snap := job.Snapshot()
		jsonError(w, fmt.Sprintf("result not ready, job is %s", snap.Status), http.StatusConflict)
		return
	}
	body, err := res.JSON()
	if err != nil {
		jsonError(w, "encode result: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}

func (s *Server) handleParseStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"queue_depth": s.orchestrator.QueueDepth(),
		"stats":       s.orchestrator.Stats().Snapshot(),
	})
}

// readUpload validates the multipart form and returns the report file plus
// the optional "tables" CSV sidecar. On failure it has already written the
// error response.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (filename string, data []byte, sidecar []report.Table, ok bool) {
	// Limit total request size, extra 1MB for form overhead.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return "", nil, nil, false
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return "", nil, nil, false
	}
	defer file.Close()

	filename = sanitizeFilename(header.Filename)
	if !pagetext.IsSupportedExtension(filename) {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
		return "", nil, nil, false
	}

	data, err = io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return "", nil, nil, false
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return "", nil, nil, false
	}

	if tf, _, err := r.FormFile("tables"); err == nil {
		defer tf.Close()
		sidecar, err = tables.Load(io.LimitReader(tf, s.cfg.MaxUploadBytes), "sidecar")
		if err != nil {
			jsonError(w, "invalid tables sidecar: "+err.Error(), http.StatusBadRequest)
			return "", nil, nil, false
		}
	}

	return filename, data, sidecar, true
}

func (s *Server) extractPages(filename string, data []byte) ([]report.PageText, error) {
	provider, err := pagetext.ForFile(filename)
	if err != nil {
		return nil, err
	}
	if p, ok := provider.(*pagetext.PDFProvider); ok {
		p.FallbackPdftotext = s.cfg.PDFFallbackPdftotext
	}
	pages, err := provider.Pages(bytes.NewReader(data), filename)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", filename, err)
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("no extractable text in %s", filename)
	}
	return pages, nil
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
