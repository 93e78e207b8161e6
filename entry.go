// SPDX-License-Identifier: MIT

package route6

import (
	"net/netip"
	"sync/atomic"
)

// EntryFlags distinguishes how a route came to be installed.
type EntryFlags uint32

const (
	// FlagStatic marks a user-configured route, installed through the
	// admin surface.
	FlagStatic EntryFlags = 1 << iota
	// FlagAutoconf marks an auto-configured route, e.g. one derived
	// from SLAAC processing on a worker.
	FlagAutoconf
)

func (f EntryFlags) has(bit EntryFlags) bool { return f&bit != 0 }

// Entry is an immutable-once-published descriptor of a single
// prefix-to-gateway/device binding. Its fields are frozen at
// publication (insertion into a table) and never rewritten in place;
// an update is modelled as a delete followed by an insert of a new
// Entry.
//
// Entry is reference counted. It is created with a refcount of one,
// owned by the table that holds it. A lookup that returns an Entry
// increments the refcount on the caller's behalf (a "borrowed"
// reference, valid for the duration of packet processing); the caller
// must call Release when done. Acquire/Release never deallocate Go
// memory directly -- the Go runtime's garbage collector owns that --
// but the refcount itself is a real, load-bearing part of the
// contract: it is how the dustbin (see dustbin.go) decides whether an
// Entry removed from a table is still reachable from in-flight packet
// processing and must be kept around a little longer.
type Entry struct {
	Dst     netip.Prefix
	Src     netip.Prefix
	PrefSrc netip.Prefix
	Gateway netip.Addr
	Device  *Device
	MTU     uint32
	Flags   EntryFlags

	refcount atomic.Int32
}

func newEntry(cfg RouteConfig, dev *Device) *Entry {
	e := &Entry{
		Dst:     cfg.Dst,
		Src:     cfg.Src,
		PrefSrc: cfg.PrefSrc,
		Gateway: cfg.Gateway,
		Device:  dev,
		MTU:     cfg.MTU,
		Flags:   cfg.Flags,
	}
	e.refcount.Store(1)
	return e
}

// directlyAttached reports whether the route's gateway is the
// all-zero address, meaning the destination is reachable on-link via
// Device rather than through a next hop.
func (e *Entry) directlyAttached() bool {
	return !e.Gateway.IsValid() || e.Gateway.IsUnspecified()
}

// Acquire atomically increments the refcount and returns e, for
// callers that already hold a reference and need to hand out another
// one (e.g. to code that may outlive the current packet).
func (e *Entry) Acquire() *Entry {
	e.refcount.Add(1)
	return e
}

// Release atomically decrements the refcount. It is always safe to
// call exactly once per Acquire/lookup-issued reference.
func (e *Entry) Release() {
	e.refcount.Add(-1)
}

// Refcount returns the current reference count, chiefly for tests and
// diagnostics.
func (e *Entry) Refcount() int32 { return e.refcount.Load() }
