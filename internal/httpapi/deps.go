package httpapi

import (
	"sync/atomic"

	"bulletin-engine/internal/config"
	"bulletin-engine/internal/docstore"
	"bulletin-engine/internal/events"
	"bulletin-engine/internal/importer"
	"bulletin-engine/internal/ingest"
	"bulletin-engine/internal/reconcile"
	"bulletin-engine/internal/runlock"
)

type Deps struct {
	Store docstore.Store

	Hub *events.Hub

	// CfgVal holds the current config.Config; handlers read it per request
	// so a config save takes effect without a restart.
	CfgVal      *atomic.Value
	UserCfgPath string
	LoadCfg     func() (config.Config, error)

	Pipeline  ingest.Pipeline
	Committer reconcile.Committer
	Contacts  importer.Contacts

	// Lock serializes the writing phase of import runs.
	Lock *runlock.Lock

	// Pending holds mailbox previews awaiting operator review.
	Pending *PendingReviews
}
