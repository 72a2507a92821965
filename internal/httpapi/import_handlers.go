package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"bulletin-engine/internal/events"
	"bulletin-engine/internal/reconcile"
	"bulletin-engine/internal/runlock"
)

type ImportHandler struct {
	Deps Deps
}

type previewRequest struct {
	Text string `json:"text"`
}

// Preview classifies pasted source text against the current corpus and
// returns the three buckets. Read-only: nothing is written here.
func (h ImportHandler) Preview(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "bad_json", "invalid JSON: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		WriteError(w, r, http.StatusBadRequest, "empty_text", "text is required")
		return
	}

	buckets, err := h.Deps.Pipeline.Preview(r.Context(), req.Text)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "preview_failed", err.Error())
		return
	}
	writeJSON(w, buckets)
}

// Commit writes reviewed buckets. The operator may have edited any
// candidate since preview; buckets arrive as edited. One import run writes
// at a time; a concurrent run gets 409, not a queue slot.
func (h ImportHandler) Commit(w http.ResponseWriter, r *http.Request) {
	var buckets reconcile.Buckets
	if err := json.NewDecoder(r.Body).Decode(&buckets); err != nil {
		WriteError(w, r, http.StatusBadRequest, "bad_json", "invalid JSON: "+err.Error())
		return
	}

	if err := h.Deps.Lock.Acquire(); err != nil {
		if errors.Is(err, runlock.ErrBusy) {
			WriteError(w, r, http.StatusConflict, "import_busy", err.Error())
			return
		}
		WriteError(w, r, http.StatusInternalServerError, "lock_failed", err.Error())
		return
	}
	defer h.Deps.Lock.Release()

	tally := h.Deps.Committer.Commit(r.Context(), buckets)

	reqID := RequestIDFrom(r.Context())
	h.Deps.Hub.Publish(events.Make(reqID, "commit_done", tally))
	writeJSON(w, tally)
}

func (h ImportHandler) Pending(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.Deps.Pending.List())
}

// DismissPending drops a mailbox preview without committing it.
// Expects /import/pending/{id}.
func (h ImportHandler) DismissPending(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/import/pending/")
	if id == "" {
		WriteError(w, r, http.StatusBadRequest, "bad_id", "missing preview id")
		return
	}
	if !h.Deps.Pending.Remove(id) {
		WriteError(w, r, http.StatusNotFound, "not_found", "no such pending preview")
		return
	}
	writeJSON(w, map[string]any{"ok": true, "id": id})
}
