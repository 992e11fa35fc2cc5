package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/ternarybob/adhyayan/internal/common"
	"github.com/ternarybob/adhyayan/internal/interfaces"
	"github.com/ternarybob/adhyayan/internal/services/pdf"
	"github.com/ternarybob/arbor"
)

// PaperHandler serves paper upload, listing, and per-paper endpoints
type PaperHandler struct {
	config    *common.Config
	storage   interfaces.StorageManager
	ingest    interfaces.IngestService
	discovery interfaces.DiscoveryService
	reports   interfaces.PDFService
	logger    arbor.ILogger
}

// NewPaperHandler creates a new paper handler
func NewPaperHandler(
	config *common.Config,
	storage interfaces.StorageManager,
	ingest interfaces.IngestService,
	discovery interfaces.DiscoveryService,
	reports interfaces.PDFService,
	logger arbor.ILogger,
) *PaperHandler {
	return &PaperHandler{
		config:    config,
		storage:   storage,
		ingest:    ingest,
		discovery: discovery,
		reports:   reports,
		logger:    logger,
	}
}

// PapersHandler serves the papers collection.
// GET /api/papers lists all papers; POST /api/papers uploads a new PDF.
func (h *PaperHandler) PapersHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listPapers(w, r)
	case http.MethodPost:
		h.uploadPaper(w, r)
	default:
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (h *PaperHandler) listPapers(w http.ResponseWriter, r *http.Request) {
	papers, err := h.storage.PaperStorage().ListPapers(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list papers")
		WriteError(w, http.StatusInternalServerError, "Failed to list papers")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"papers": papers,
		"count":  len(papers),
	})
}

func (h *PaperHandler) uploadPaper(w http.ResponseWriter, r *http.Request) {
	maxBytes := h.config.MaxUploadBytes()
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	if err := r.ParseMultipartForm(maxBytes); err != nil {
		WriteError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("Upload exceeds the %d MB limit", h.config.Storage.Uploads.MaxSizeMB))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Missing 'file' form field")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Failed to read uploaded file")
		return
	}

	paper, err := h.ingest.IngestPaper(r.Context(), header.Filename, content)
	if err != nil {
		h.logger.Warn().Err(err).Str("filename", header.Filename).Msg("Upload rejected")
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	WriteJSON(w, http.StatusAccepted, paper)
}

// PaperRoutesHandler dispatches /api/papers/{id} and its subpaths
func (h *PaperHandler) PaperRoutesHandler(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/papers/")
	parts := strings.SplitN(rest, "/", 2)
	paperID := parts[0]
	if paperID == "" {
		WriteError(w, http.StatusBadRequest, "Paper ID is required")
		return
	}

	if paperID == "stats" && len(parts) == 1 {
		h.getStats(w, r)
		return
	}

	if len(parts) == 1 {
		switch r.Method {
		case http.MethodGet:
			h.getPaper(w, r, paperID)
		case http.MethodDelete:
			h.deletePaper(w, r, paperID)
		default:
			WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
		return
	}

	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	switch parts[1] {
	case "citations":
		h.getCitations(w, r, paperID)
	case "related":
		h.getRelated(w, r, paperID)
	case "report":
		h.getReport(w, r, paperID)
	default:
		WriteError(w, http.StatusNotFound, "Not found")
	}
}

// getStats serves GET /api/papers/stats
func (h *PaperHandler) getStats(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	stats, err := h.storage.PaperStorage().GetStats(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to collect paper stats")
		WriteError(w, http.StatusInternalServerError, "Failed to collect stats")
		return
	}

	WriteJSON(w, http.StatusOK, stats)
}

func (h *PaperHandler) getPaper(w http.ResponseWriter, r *http.Request, paperID string) {
	paper, err := h.storage.PaperStorage().GetPaper(r.Context(), paperID)
	if err != nil {
		h.writeLookupError(w, paperID, err)
		return
	}
	WriteJSON(w, http.StatusOK, paper)
}

func (h *PaperHandler) deletePaper(w http.ResponseWriter, r *http.Request, paperID string) {
	if err := h.ingest.DeletePaper(r.Context(), paperID); err != nil {
		h.writeLookupError(w, paperID, err)
		return
	}
	WriteSuccess(w, fmt.Sprintf("Paper %s deleted", paperID))
}

func (h *PaperHandler) getCitations(w http.ResponseWriter, r *http.Request, paperID string) {
	paper, err := h.storage.PaperStorage().GetPaper(r.Context(), paperID)
	if err != nil {
		h.writeLookupError(w, paperID, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"paper_id":  paper.ID,
		"citations": paper.Citations,
		"dois":      paper.DOIs,
	})
}

func (h *PaperHandler) getRelated(w http.ResponseWriter, r *http.Request, paperID string) {
	paper, err := h.storage.PaperStorage().GetPaper(r.Context(), paperID)
	if err != nil {
		h.writeLookupError(w, paperID, err)
		return
	}

	related, err := h.discovery.FindRelated(r.Context(), paper)
	if err != nil {
		h.logger.Error().Err(err).Str("paper_id", paperID).Msg("Discovery failed")
		WriteError(w, http.StatusInternalServerError, "Failed to find related papers")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"paper_id": paper.ID,
		"related":  related,
		"count":    len(related),
	})
}

func (h *PaperHandler) getReport(w http.ResponseWriter, r *http.Request, paperID string) {
	paper, err := h.storage.PaperStorage().GetPaper(r.Context(), paperID)
	if err != nil {
		h.writeLookupError(w, paperID, err)
		return
	}

	related, err := h.discovery.FindRelated(r.Context(), paper)
	if err != nil {
		h.logger.Warn().Err(err).Str("paper_id", paperID).Msg("Discovery failed, report proceeds without related papers")
		related = nil
	}

	markdown := pdf.BuildPaperReport(paper, related)
	title := paper.Title
	if title == "" {
		title = paper.Filename
	}

	pdfBytes, err := h.reports.ConvertMarkdownToPDF(markdown, title)
	if err != nil {
		h.logger.Error().Err(err).Str("paper_id", paperID).Msg("Report generation failed")
		WriteError(w, http.StatusInternalServerError, "Failed to generate report")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", paperID+"_report.pdf"))
	w.WriteHeader(http.StatusOK)
	w.Write(pdfBytes)
}

func (h *PaperHandler) writeLookupError(w http.ResponseWriter, paperID string, err error) {
	if errors.Is(err, interfaces.ErrNotFound) || strings.Contains(err.Error(), "not found") {
		WriteError(w, http.StatusNotFound, fmt.Sprintf("Paper %s not found", paperID))
		return
	}
	h.logger.Error().Err(err).Str("paper_id", paperID).Msg("Paper lookup failed")
	WriteError(w, http.StatusInternalServerError, "Internal error")
}
