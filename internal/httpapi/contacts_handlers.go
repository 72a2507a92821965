package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"bulletin-engine/internal/domain"
	"bulletin-engine/internal/events"
	"bulletin-engine/internal/runlock"
)

type ContactsHandler struct {
	Deps Deps
}

type contactImportRequest struct {
	Records []domain.Contact `json:"records"`
}

// Import runs the bulk contact importer over the posted records. Shares
// the import run lock with announcement commits so only one writer runs.
func (h ContactsHandler) Import(w http.ResponseWriter, r *http.Request) {
	var req contactImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "bad_json", "invalid JSON: "+err.Error())
		return
	}
	if len(req.Records) == 0 {
		WriteError(w, r, http.StatusBadRequest, "empty_records", "records is required")
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

	res, err := h.Deps.Contacts.ImportBatch(r.Context(), req.Records)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "import_failed", err.Error())
		return
	}

	reqID := RequestIDFrom(r.Context())
	h.Deps.Hub.Publish(events.Make(reqID, "contacts_imported", res))
	writeJSON(w, res)
}
