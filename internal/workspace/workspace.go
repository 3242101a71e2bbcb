// Package workspace holds the one canonical in-memory dataset. Projections
// are computed against an immutable snapshot, so a reader can never observe
// a half-replaced dataset while a new workbook is being installed.
package workspace

import (
	"sync"

	"github.com/daniyalishaq1/data-aggregator/internal/report"
)

// Snapshot bundles everything that must be swapped as one unit when a new
// workbook is processed or a persisted dataset is loaded.
type Snapshot struct {
	Filename   string
	RawBytes   []byte
	SheetNames []string
	Result     report.Result
	Buckets    report.BucketMap
}

// Workspace guards the current snapshot.
type Workspace struct {
	mu      sync.RWMutex
	current *Snapshot
}

func New() *Workspace {
	return &Workspace{}
}

// Replace installs a fully-built snapshot as the canonical dataset.
func (w *Workspace) Replace(s Snapshot) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.current = &s
}

// Current returns the canonical snapshot, if one has been installed.
func (w *Workspace) Current() (Snapshot, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.current == nil {
		return Snapshot{}, false
	}
	return *w.current, true
}

// Clear drops the canonical dataset.
func (w *Workspace) Clear() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.current = nil
}
