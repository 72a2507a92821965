package httpapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"bulletin-engine/internal/docstore"
	"bulletin-engine/internal/domain"
	"bulletin-engine/internal/events"
	"bulletin-engine/internal/ingest"
)

type AnnouncementsHandler struct {
	Deps Deps
}

type announcementView struct {
	ID string `json:"id"`
	domain.Announcement
	Expired   bool      `json:"expired"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// List returns the corpus, pinned first, then by priority and date.
// ?active=true hides archived records, ?status= filters by status.
func (h AnnouncementsHandler) List(w http.ResponseWriter, r *http.Request) {
	all, err := ingest.LoadAnnouncements(r.Context(), h.Deps.Store)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "list_failed", err.Error())
		return
	}

	q := r.URL.Query()
	activeOnly := q.Get("active") == "true"
	status := q.Get("status")

	now := time.Now()
	out := make([]announcementView, 0, len(all))
	for _, a := range all {
		if activeOnly && !a.IsActive {
			continue
		}
		if status != "" && string(a.Status) != status {
			continue
		}
		out = append(out, announcementView{
			ID:           a.ID,
			Announcement: a,
			Expired:      a.Expired(now),
			CreatedAt:    a.CreatedAt,
			UpdatedAt:    a.UpdatedAt,
		})
	}
	sortAnnouncements(out)
	writeJSON(w, out)
}

func sortAnnouncements(views []announcementView) {
	// Pinned first, then lower priority, then soonest date.
	for i := 1; i < len(views); i++ {
		for j := i; j > 0 && before(views[j], views[j-1]); j-- {
			views[j], views[j-1] = views[j-1], views[j]
		}
	}
}

func before(a, b announcementView) bool {
	if a.IsPinned != b.IsPinned {
		return a.IsPinned
	}
	if a.Priority != b.Priority {
		return a.Priority < b.Priority
	}
	return a.Date.Time().Before(b.Date.Time())
}

// DeleteByPath expects /announcements/{id}.
func (h AnnouncementsHandler) DeleteByPath(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/announcements/")
	id = strings.TrimSuffix(id, "/")
	if id == "" || strings.Contains(id, "/") {
		WriteError(w, r, http.StatusBadRequest, "bad_id", "invalid announcement id")
		return
	}

	if err := h.Deps.Store.Delete(r.Context(), docstore.CollAnnouncements, id); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			WriteError(w, r, http.StatusNotFound, "not_found", "no such announcement")
			return
		}
		WriteError(w, r, http.StatusInternalServerError, "delete_failed", err.Error())
		return
	}

	reqID := RequestIDFrom(r.Context())
	h.Deps.Hub.Publish(events.Make(reqID, "announcement_deleted", map[string]any{"id": id}))
	writeJSON(w, map[string]any{"ok": true, "id": id})
}

// ArchiveByPath expects /announcements/{id}/archive and flips isActive off.
// Archival is an operator action, never a pipeline output.
func (h AnnouncementsHandler) ArchiveByPath(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/announcements/")
	id := strings.TrimSuffix(path, "/archive")
	if id == "" || id == path || strings.Contains(id, "/") {
		WriteError(w, r, http.StatusBadRequest, "bad_id", "invalid announcement id")
		return
	}

	patch := docstore.Patch{"isActive": docstore.Set(false)}
	if err := h.Deps.Store.Update(r.Context(), docstore.CollAnnouncements, id, patch); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			WriteError(w, r, http.StatusNotFound, "not_found", "no such announcement")
			return
		}
		WriteError(w, r, http.StatusInternalServerError, "archive_failed", err.Error())
		return
	}

	reqID := RequestIDFrom(r.Context())
	h.Deps.Hub.Publish(events.Make(reqID, "announcement_archived", map[string]any{"id": id}))
	writeJSON(w, map[string]any{"ok": true, "id": id})
}
