package runlock

import (
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"
)

// Lock serializes import runs on one data dir. The pipeline's dedupe logic
// assumes a single operator writing sequentially; a second concurrent run
// would reintroduce the duplicates the classifier just ruled out.
type Lock struct {
	fl *flock.Flock
}

func New(dataDir string) *Lock {
	return &Lock{fl: flock.New(filepath.Join(dataDir, "import.lock"))}
}

var ErrBusy = fmt.Errorf("an import run is already in progress")

// Acquire takes the lock without blocking; a held lock means another run is
// in flight and the caller should report that, not queue behind it.
func (l *Lock) Acquire() error {
	ok, err := l.fl.TryLock()
	if err != nil {
		return fmt.Errorf("acquire import lock: %w", err)
	}
	if !ok {
		return ErrBusy
	}
	return nil
}

func (l *Lock) Release() {
	_ = l.fl.Unlock()
}
