// SPDX-License-Identifier: MIT

package route6

import "testing"

func TestRouteConfigCanonical(t *testing.T) {
	cfg := RouteConfig{Op: OpAdd, Dst: mpp("2001:db8::1/32")}
	got := cfg.canonical()
	if got.Dst != mpp("2001:db8::/32") {
		t.Fatalf("canonical().Dst = %v, want masked /32", got.Dst)
	}

	// an already-canonical prefix round-trips unchanged, and an unset
	// Dst is left alone rather than panicking on IsValid().
	if again := got.canonical(); again.Dst != got.Dst {
		t.Fatalf("canonical() of canonical %v = %v, want unchanged", got.Dst, again.Dst)
	}
	unset := RouteConfig{Op: OpDel}
	if got := unset.canonical(); got.Dst.IsValid() {
		t.Fatalf("canonical() of unset Dst produced a valid prefix: %v", got.Dst)
	}
}

func TestIdentityRoundTrip(t *testing.T) {
	dev := &Device{Name: "eth0"}
	cfg := cfgAdd("2001:db8::/32", "2001:db8::1", "eth0")
	e := newEntry(cfg, dev)

	if cfg.identity() != e.identity() {
		t.Fatalf("identity() mismatch: cfg=%+v entry=%+v", cfg.identity(), e.identity())
	}

	other := cfgAdd("2001:db8::/32", "2001:db8::2", "eth0")
	if cfg.identity() == other.identity() {
		t.Fatalf("identity() equal for distinct gateways")
	}
}

func TestDumpFilterMatch(t *testing.T) {
	e := newEntry(cfgAdd("2001:db8::/32", "", "eth0"), &Device{Name: "eth0"})
	e.Flags = FlagStatic

	cases := []struct {
		name   string
		filter *DumpFilter
		want   bool
	}{
		{"nil filter matches anything", nil, true},
		{"matching ifname", &DumpFilter{IfName: "eth0"}, true},
		{"non-matching ifname", &DumpFilter{IfName: "eth1"}, false},
		{"matching flags", &DumpFilter{Flags: FlagStatic}, true},
		{"non-matching flags", &DumpFilter{Flags: FlagAutoconf}, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.filter.match(e); got != c.want {
				t.Fatalf("match() = %v, want %v", got, c.want)
			}
		})
	}
}
