// SPDX-License-Identifier: MIT

package route6

import "github.com/sirupsen/logrus"

// dustbin is a per-worker list of entries queued for deferred
// reclamation. An engine hands an entry to free() when it is
// logically deleted from the table; if the entry still has
// outstanding transient references (refcount > 1) it is parked here
// until a later tick observes refcount <= 1, meaning only the dustbin
// itself still holds it.
//
// dustbin is touched only by its owning worker's goroutine -- from the
// engine's del()/destroy() (via free) and from the worker's periodic
// tick -- so, like the table it backs, it needs no lock.
type dustbin struct {
	pending []*Entry
	logger  *logrus.Entry
}

func newDustbin(logger *logrus.Entry) *dustbin {
	return &dustbin{logger: logger}
}

// free is called by the owning engine when an entry is removed from
// its table. If the entry is still referenced by in-flight packet
// processing, it is parked for later reclamation; otherwise it is
// already unreferenced and there is nothing further to do (the Go
// garbage collector reclaims its memory once it is unreachable).
func (d *dustbin) free(e *Entry) {
	if e.Refcount() > 1 {
		d.pending = append(d.pending, e)
		if d.logger != nil {
			d.logger.WithField("dst", e.Dst).Debug("route6: entry parked in dustbin")
		}
		return
	}
}

// tick walks the pending list once, unlinking and releasing every
// entry whose refcount has fallen to one -- meaning only the dustbin's
// own bookkeeping reference remains, so no fast-path reader can still
// be holding it.
func (d *dustbin) tick() {
	if len(d.pending) == 0 {
		return
	}
	kept := d.pending[:0]
	for _, e := range d.pending {
		if e.Refcount() <= 1 {
			if d.logger != nil {
				d.logger.WithField("dst", e.Dst).Debug("route6: dustbin reclaimed entry")
			}
			continue
		}
		kept = append(kept, e)
	}
	d.pending = kept
}

// len reports the number of entries awaiting reclamation, for metrics.
func (d *dustbin) len() int { return len(d.pending) }
