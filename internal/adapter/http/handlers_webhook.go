package http

import (
	"io"
	"net/http"

	"github.com/nexboard/nexboard/internal/service"
)

// maxWebhookBodySize caps inbound webhook payloads. GitHub caps push
// deliveries at 25 MB.
const maxWebhookBodySize = 25 << 20

// HandleGitHubWebhook receives GitHub webhook deliveries and hands push
// events to commit synchronization. Signature verification happens in
// middleware before this handler runs.
func (h *Handlers) HandleGitHubWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBodySize))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	eventType := r.Header.Get("X-GitHub-Event")
	result, err := h.Sync.HandleEvent(r.Context(), eventType, body)
	if err != nil {
		// Storage failure: tell the sender to redeliver.
		writeInternalError(w, err)
		return
	}

	writeJSON(w, webhookStatus(result), result)
}

// webhookStatus maps a sync result to the HTTP status the sender sees.
func webhookStatus(result *service.SyncResult) int {
	switch result.Outcome {
	case service.OutcomeRejected:
		if result.Reason == service.RejectProjectNotFound {
			return http.StatusNotFound
		}
		return http.StatusBadRequest
	default:
		return http.StatusOK
	}
}
