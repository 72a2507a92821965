package httpapi

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewMux returns the raw mux so main() can still attach /shutdown (needs srv+token).
func NewMux(d Deps) *http.ServeMux {
	mux := http.NewServeMux()

	// Import pipeline
	ih := ImportHandler{Deps: d}
	mux.HandleFunc("/import/preview", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: ih.Preview,
	}))
	mux.HandleFunc("/import/commit", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: ih.Commit,
	}))
	mux.HandleFunc("/import/pending", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ih.Pending,
	}))
	mux.HandleFunc("/import/pending/", methodMux(map[string]http.HandlerFunc{
		http.MethodDelete: ih.DismissPending, // expects /import/pending/{id}
	}))

	// Announcements
	ah := AnnouncementsHandler{Deps: d}
	mux.HandleFunc("/announcements", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ah.List,
	}))
	mux.HandleFunc("/announcements/", methodMux(map[string]http.HandlerFunc{
		http.MethodDelete: ah.DeleteByPath,  // expects /announcements/{id}
		http.MethodPost:   ah.ArchiveByPath, // expects /announcements/{id}/archive
	}))

	// Contacts
	coh := ContactsHandler{Deps: d}
	mux.HandleFunc("/contacts/import", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: coh.Import,
	}))

	// Config
	ch := ConfigHandler{
		CfgVal:      d.CfgVal,
		UserCfgPath: d.UserCfgPath,
		LoadCfg:     d.LoadCfg,
	}
	mux.HandleFunc("/config", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Get,
		http.MethodPut: ch.Put,
	}))
	mux.HandleFunc("/config/path", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Path,
	}))
	mux.HandleFunc("/config/validate", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Validate,
	}))

	// Secrets (use cfgVal, NOT a snapshot cfg)
	sh := SecretsHandler{CfgVal: d.CfgVal}
	mux.HandleFunc("/api/secrets/mail", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: sh.SetMailPassword,
	}))

	// SSE events
	eh := EventsHandler{Hub: d.Hub}
	mux.HandleFunc("/events", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: eh.ServeSSE,
	}))

	// Prometheus scrape endpoint
	mux.Handle("/metrics", promhttp.Handler())

	hh := HealthHandler{}
	mux.HandleFunc("/health", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: hh.Health,
	}))

	return mux
}
