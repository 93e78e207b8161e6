// SPDX-License-Identifier: MIT

package route6

// Method names the lookup engine variant, selected once at startup.
type Method string

const (
	MethodLPM   Method = "lpm"
	MethodHlist Method = "hlist"

	// DefaultMethod is used when configuration omits or misconfigures
	// the method keyword.
	DefaultMethod = MethodHlist
)

// engine is the contract shared by both lookup engine variants. It is
// owned exclusively by one Worker: nothing outside that worker's
// goroutine may call these methods concurrently with it.
type engine interface {
	// setup initialises the table for this worker's dustbin. Idempotent.
	setup(db *dustbin)

	// destroy releases all entries held by this table, forwarding
	// each through the dustbin.
	destroy()

	// input returns the route to use for a received packet, or
	// ErrNoRoute. The returned Entry has been Acquire'd on the
	// caller's behalf.
	input(flow Flow) (*Entry, error)

	// output returns the route to use for a packet about to be
	// transmitted, or ErrNoRoute. The returned Entry has been
	// Acquire'd on the caller's behalf.
	output(flow Flow) (*Entry, error)

	// get returns the entry matching cfg's identity tuple, without
	// incrementing a user-visible refcount.
	get(cfg RouteConfig) (*Entry, bool)

	// add installs one entry. Fails with ErrExists if get(cfg) would
	// succeed.
	add(cfg RouteConfig, dev *Device) error

	// del removes one entry. Fails with ErrNotExist if get(cfg) would
	// not succeed. The removed entry is handed to the dustbin.
	del(cfg RouteConfig) error

	// dump returns a control-plane-visible encoding of all entries,
	// optionally filtered.
	dump(filter *DumpFilter) []RouteRecord

	// size returns the number of installed entries, for metrics.
	size() int
}

func newEngine(m Method) engine {
	switch m {
	case MethodLPM:
		return newLPMEngine()
	default:
		return newHlistEngine()
	}
}

// devicePredicate implements input()'s device-matching rule: a route
// with no device matches any ingress device, and a flow with no
// ingress device matches any route; otherwise the route's device must
// equal the packet's ingress device.
func devicePredicate(want *Device) func(*Entry) bool {
	return func(e *Entry) bool {
		return e.Device == nil || want == nil || e.Device == want
	}
}

func always(*Entry) bool { return true }

// selectBest picks the winning entry among candidates already known to
// share the same (longest) matching prefix. If preferDirect is set,
// the earliest directly-attached entry wins when any exists; otherwise
// the earliest entry satisfying predicate wins.
func selectBest(entries []*Entry, predicate func(*Entry) bool, preferDirect bool) *Entry {
	var firstMatch *Entry
	if preferDirect {
		for _, e := range entries {
			if !predicate(e) {
				continue
			}
			if firstMatch == nil {
				firstMatch = e
			}
			if e.directlyAttached() {
				return e
			}
		}
		return firstMatch
	}
	for _, e := range entries {
		if predicate(e) {
			return e
		}
	}
	return nil
}
