package http

import (
	"net/http"
	"strings"
)

type breakdownRequest struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// BreakdownTask asks the assist service to decompose a task.
func (h *Handlers) BreakdownTask(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[breakdownRequest](w, r)
	if !ok {
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}

	bd, err := h.Assist.BreakdownTask(r.Context(), req.Title, req.Description)
	if err != nil {
		writeError(w, http.StatusBadGateway, "assist backend unavailable")
		return
	}
	writeJSON(w, http.StatusOK, bd)
}

type polishRequest struct {
	Text string `json:"text"`
}

type polishResponse struct {
	Text string `json:"text"`
}

// PolishText asks the assist service to rewrite task text.
func (h *Handlers) PolishText(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[polishRequest](w, r)
	if !ok {
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	polished, err := h.Assist.PolishText(r.Context(), req.Text)
	if err != nil {
		writeError(w, http.StatusBadGateway, "assist backend unavailable")
		return
	}
	writeJSON(w, http.StatusOK, polishResponse{Text: polished})
}
