package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/ternarybob/adhyayan/internal/interfaces"
	"github.com/ternarybob/arbor"
)

// QAHandler serves the question answering endpoint
type QAHandler struct {
	qaService interfaces.QAService
	logger    arbor.ILogger
}

// NewQAHandler creates a new QA handler
func NewQAHandler(qaService interfaces.QAService, logger arbor.ILogger) *QAHandler {
	return &QAHandler{
		qaService: qaService,
		logger:    logger,
	}
}

// AskHandler answers a question about an ingested paper.
// POST /api/ask with {"paper_id": "...", "question": "...", "history": [...]}
func (h *QAHandler) AskHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req interfaces.AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	answer, err := h.qaService.AskQuestion(r.Context(), &req)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			WriteError(w, http.StatusNotFound, err.Error())
			return
		}
		if strings.Contains(err.Error(), "cannot be empty") || strings.Contains(err.Error(), "is required") || strings.Contains(err.Error(), "no indexed content") {
			WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error().Err(err).Str("paper_id", req.PaperID).Msg("Question answering failed")
		WriteError(w, http.StatusInternalServerError, "Failed to answer question")
		return
	}

	WriteJSON(w, http.StatusOK, answer)
}
