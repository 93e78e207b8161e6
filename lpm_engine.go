// SPDX-License-Identifier: MIT

package route6

import "net/netip"

// lpmEngine is the longest-prefix-match lookup engine: a binary trie
// keyed bit-by-bit by the canonical destination address, one level
// per bit of the 128-bit IPv6 address space. Every node may carry the
// entries whose destination prefix terminates exactly at that node's
// depth; a lookup descends the trie following the address's bits and
// remembers the deepest node visited that carries a match, which is
// the longest-prefix match by construction.
//
// This is a from-scratch, depth-per-bit simplification of a multibit
// (8-bit-stride), popcount-compressed ART trie design: that design
// targets a generic, copy-on-write, set-algebra-capable routing table
// library and is out of scope for a single refcounted, per-worker
// fast-path table. The algorithmic shape -- descend, remember the
// deepest match, that is the LPM result -- is preserved.
type lpmEngine struct {
	root  lpmNode
	db    *dustbin
	count int
}

type lpmNode struct {
	children [2]*lpmNode
	entries  []*Entry
}

func newLPMEngine() *lpmEngine {
	return &lpmEngine{}
}

func (t *lpmEngine) setup(db *dustbin) { t.db = db }

func (t *lpmEngine) destroy() {
	t.root.walk(func(e *Entry) {
		t.db.free(e)
	})
	t.root = lpmNode{}
	t.count = 0
}

func (n *lpmNode) walk(fn func(*Entry)) {
	for _, e := range n.entries {
		fn(e)
	}
	for _, c := range n.children {
		if c != nil {
			c.walk(fn)
		}
	}
}

// bitAt returns bit i (0-indexed from the MSB) of addr.
func bitAt(addr netip.Addr, i int) int {
	b := addr.As16()
	return int((b[i/8] >> (7 - uint(i%8))) & 1)
}

// descendTo returns the node at depth pfx.Bits(), creating intermediate
// nodes as needed when create is true; it returns nil, false if create
// is false and the path doesn't fully exist.
func (t *lpmEngine) descendTo(pfx netip.Prefix, create bool) (*lpmNode, bool) {
	n := &t.root
	bits := pfx.Bits()
	addr := pfx.Addr()
	for i := 0; i < bits; i++ {
		bit := bitAt(addr, i)
		if n.children[bit] == nil {
			if !create {
				return nil, false
			}
			n.children[bit] = &lpmNode{}
		}
		n = n.children[bit]
	}
	return n, true
}

func (t *lpmEngine) get(cfg RouteConfig) (*Entry, bool) {
	n, ok := t.descendTo(cfg.Dst, false)
	if !ok {
		return nil, false
	}
	want := cfg.identity()
	for _, e := range n.entries {
		if e.identity() == want {
			return e, true
		}
	}
	return nil, false
}

func (t *lpmEngine) add(cfg RouteConfig, dev *Device) error {
	if _, ok := t.get(cfg); ok {
		return newErr(KindExists, "add", nil)
	}
	n, _ := t.descendTo(cfg.Dst, true)
	n.entries = append(n.entries, newEntry(cfg, dev))
	t.count++
	return nil
}

func (t *lpmEngine) del(cfg RouteConfig) error {
	n, ok := t.descendTo(cfg.Dst, false)
	if !ok {
		return newErr(KindNotExist, "del", nil)
	}
	want := cfg.identity()
	for i, e := range n.entries {
		if e.identity() == want {
			n.entries = append(n.entries[:i], n.entries[i+1:]...)
			t.db.free(e)
			t.count--
			return nil
		}
	}
	return newErr(KindNotExist, "del", nil)
}

func (t *lpmEngine) size() int { return t.count }

func (t *lpmEngine) lookup(addr netip.Addr, predicate func(*Entry) bool, preferDirect bool) *Entry {
	var best *Entry
	n := &t.root
	if cand := selectBest(n.entries, predicate, preferDirect); cand != nil {
		best = cand
	}
	for i := 0; i < addr.BitLen(); i++ {
		bit := bitAt(addr, i)
		n = n.children[bit]
		if n == nil {
			break
		}
		if cand := selectBest(n.entries, predicate, preferDirect); cand != nil {
			best = cand
		}
	}
	return best
}

func (t *lpmEngine) input(flow Flow) (*Entry, error) {
	e := t.lookup(flow.Dst, devicePredicate(flow.Device), false)
	if e == nil {
		return nil, newErr(KindNoRoute, "input", nil)
	}
	return e.Acquire(), nil
}

func (t *lpmEngine) output(flow Flow) (*Entry, error) {
	e := t.lookup(flow.Dst, always, true)
	if e == nil {
		return nil, newErr(KindNoRoute, "output", nil)
	}
	return e.Acquire(), nil
}

func (t *lpmEngine) dump(filter *DumpFilter) []RouteRecord {
	var out []RouteRecord
	t.root.walk(func(e *Entry) {
		if filter.match(e) {
			out = append(out, recordOf(e))
		}
	})
	return out
}
