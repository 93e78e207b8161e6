// SPDX-License-Identifier: MIT

package route6

// hlistEngine is the hash-list lookup engine: entries are bucketed by
// prefix length (0..128) in a plain map, and a lookup degrades to a
// linear scan of the buckets from the longest prefix length down to
// zero, testing each bucket's entries for a match. Correctness is
// identical to lpmEngine; throughput is lower for large tables because
// every bucket up to the first match must be visited.
type hlistEngine struct {
	buckets map[int][]*Entry
	db      *dustbin
	count   int
}

func newHlistEngine() *hlistEngine {
	return &hlistEngine{buckets: make(map[int][]*Entry)}
}

func (t *hlistEngine) setup(db *dustbin) { t.db = db }

func (t *hlistEngine) destroy() {
	for _, bucket := range t.buckets {
		for _, e := range bucket {
			t.db.free(e)
		}
	}
	t.buckets = make(map[int][]*Entry)
	t.count = 0
}

func (t *hlistEngine) get(cfg RouteConfig) (*Entry, bool) {
	want := cfg.identity()
	for _, e := range t.buckets[cfg.Dst.Bits()] {
		if e.identity() == want {
			return e, true
		}
	}
	return nil, false
}

func (t *hlistEngine) add(cfg RouteConfig, dev *Device) error {
	if _, ok := t.get(cfg); ok {
		return newErr(KindExists, "add", nil)
	}
	plen := cfg.Dst.Bits()
	t.buckets[plen] = append(t.buckets[plen], newEntry(cfg, dev))
	t.count++
	return nil
}

func (t *hlistEngine) del(cfg RouteConfig) error {
	plen := cfg.Dst.Bits()
	bucket := t.buckets[plen]
	want := cfg.identity()
	for i, e := range bucket {
		if e.identity() == want {
			t.buckets[plen] = append(bucket[:i], bucket[i+1:]...)
			t.db.free(e)
			t.count--
			return nil
		}
	}
	return newErr(KindNotExist, "del", nil)
}

func (t *hlistEngine) size() int { return t.count }

func (t *hlistEngine) lookup(flow Flow, predicate func(*Entry) bool, preferDirect bool) *Entry {
	for plen := 128; plen >= 0; plen-- {
		bucket, ok := t.buckets[plen]
		if !ok || len(bucket) == 0 {
			continue
		}
		var candidates []*Entry
		for _, e := range bucket {
			if e.Dst.Contains(flow.Dst) {
				candidates = append(candidates, e)
			}
		}
		if best := selectBest(candidates, predicate, preferDirect); best != nil {
			return best
		}
	}
	return nil
}

func (t *hlistEngine) input(flow Flow) (*Entry, error) {
	e := t.lookup(flow, devicePredicate(flow.Device), false)
	if e == nil {
		return nil, newErr(KindNoRoute, "input", nil)
	}
	return e.Acquire(), nil
}

func (t *hlistEngine) output(flow Flow) (*Entry, error) {
	e := t.lookup(flow, always, true)
	if e == nil {
		return nil, newErr(KindNoRoute, "output", nil)
	}
	return e.Acquire(), nil
}

func (t *hlistEngine) dump(filter *DumpFilter) []RouteRecord {
	var out []RouteRecord
	for _, bucket := range t.buckets {
		for _, e := range bucket {
			if filter.match(e) {
				out = append(out, recordOf(e))
			}
		}
	}
	return out
}
