package handler

import (
	"sync/atomic"

	"github.com/dukerupert/siag/internal/model"
)

// Dataset holds the snapshot every request reads. Reloads swap it whole.
type Dataset struct {
	snap atomic.Pointer[model.Snapshot]
}

func NewDataset(snap *model.Snapshot) *Dataset {
	d := &Dataset{}
	d.Swap(snap)
	return d
}

// Snapshot returns the current snapshot. Callers must not modify it.
func (d *Dataset) Snapshot() *model.Snapshot {
	return d.snap.Load()
}

func (d *Dataset) Swap(snap *model.Snapshot) {
	if snap == nil {
		snap = &model.Snapshot{}
	}
	d.snap.Store(snap)
}
