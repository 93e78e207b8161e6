// SPDX-License-Identifier: MIT

package route6

import (
	"errors"
	"net/netip"
	"testing"
)

var mpp = netip.MustParsePrefix
var mpa = netip.MustParseAddr

func cfgAdd(dst, gw string, ifname string) RouteConfig {
	c := RouteConfig{Op: OpAdd, Dst: mpp(dst), IfName: ifname}
	if gw != "" {
		c.Gateway = mpa(gw)
	}
	return c
}

// newEngines returns a fresh instance of each engine variant, so shared
// contract tests run identically against both backends: lpmEngine and
// hlistEngine must agree on every observable behaviour, only their
// internal storage differs.
func newEngines() map[Method]engine {
	return map[Method]engine{
		MethodLPM:   newLPMEngine(),
		MethodHlist: newHlistEngine(),
	}
}

func withEngine(t *testing.T, fn func(t *testing.T, e engine)) {
	t.Helper()
	for method, e := range newEngines() {
		method, e := method, e
		t.Run(string(method), func(t *testing.T) {
			e.setup(newDustbin(nil))
			fn(t, e)
		})
	}
}

func TestEngineAddGetDel(t *testing.T) {
	withEngine(t, func(t *testing.T, e engine) {
		dev := &Device{Name: "eth0"}
		cfg := cfgAdd("2001:db8::/32", "", "eth0")

		if err := e.add(cfg, dev); err != nil {
			t.Fatalf("add: %v", err)
		}
		if got, ok := e.get(cfg); !ok || got.Dst != cfg.Dst {
			t.Fatalf("get after add: got=%v ok=%v", got, ok)
		}
		if e.size() != 1 {
			t.Fatalf("size = %d, want 1", e.size())
		}

		if err := e.add(cfg, dev); !errors.Is(err, ErrExists) {
			t.Fatalf("duplicate add: err=%v, want ErrExists", err)
		}

		if err := e.del(cfg); err != nil {
			t.Fatalf("del: %v", err)
		}
		if _, ok := e.get(cfg); ok {
			t.Fatalf("get after del: still present")
		}
		if e.size() != 0 {
			t.Fatalf("size after del = %d, want 0", e.size())
		}

		if err := e.del(cfg); !errors.Is(err, ErrNotExist) {
			t.Fatalf("double del: err=%v, want ErrNotExist", err)
		}
	})
}

func TestEngineLongestPrefixMatch(t *testing.T) {
	withEngine(t, func(t *testing.T, e engine) {
		dev := &Device{Name: "eth0"}
		wide := cfgAdd("2001:db8::/32", "", "eth0")
		narrow := cfgAdd("2001:db8::/48", "", "eth0")

		if err := e.add(wide, dev); err != nil {
			t.Fatalf("add wide: %v", err)
		}
		if err := e.add(narrow, dev); err != nil {
			t.Fatalf("add narrow: %v", err)
		}

		got, err := e.input(Flow{Dst: mpa("2001:db8::1")})
		if err != nil {
			t.Fatalf("input: %v", err)
		}
		defer got.Release()
		if got.Dst != narrow.Dst {
			t.Fatalf("input matched %v, want the /48", got.Dst)
		}

		got2, err := e.input(Flow{Dst: mpa("2001:db8:1::1")})
		if err != nil {
			t.Fatalf("input outside /48: %v", err)
		}
		defer got2.Release()
		if got2.Dst != wide.Dst {
			t.Fatalf("input matched %v, want the /32", got2.Dst)
		}
	})
}

func TestEngineNoRoute(t *testing.T) {
	withEngine(t, func(t *testing.T, e engine) {
		_, err := e.input(Flow{Dst: mpa("2001:db8::1")})
		if !errors.Is(err, ErrNoRoute) {
			t.Fatalf("input on empty table: err=%v, want ErrNoRoute", err)
		}
		_, err = e.output(Flow{Dst: mpa("2001:db8::1")})
		if !errors.Is(err, ErrNoRoute) {
			t.Fatalf("output on empty table: err=%v, want ErrNoRoute", err)
		}
	})
}

func TestEngineInputRespectsDevice(t *testing.T) {
	withEngine(t, func(t *testing.T, e engine) {
		eth0 := &Device{Name: "eth0"}
		eth1 := &Device{Name: "eth1"}
		cfg := cfgAdd("2001:db8::/32", "", "eth0")
		if err := e.add(cfg, eth0); err != nil {
			t.Fatalf("add: %v", err)
		}

		if _, err := e.input(Flow{Dst: mpa("2001:db8::1"), Device: eth1}); !errors.Is(err, ErrNoRoute) {
			t.Fatalf("input from wrong device: err=%v, want ErrNoRoute", err)
		}

		got, err := e.input(Flow{Dst: mpa("2001:db8::1"), Device: eth0})
		if err != nil {
			t.Fatalf("input from right device: %v", err)
		}
		got.Release()
	})
}

// TestEngineOutputPrefersDirect exercises the output()-only tie-break
// rule: among entries sharing the deepest matching node, a directly
// attached entry (no gateway) wins over a gatewayed one, but only
// within that single deepest node -- a gatewayed entry at a longer
// prefix still wins over a directly attached entry at a shorter one.
func TestEngineOutputPrefersDirect(t *testing.T) {
	withEngine(t, func(t *testing.T, e engine) {
		dev := &Device{Name: "eth0"}
		gw := cfgAdd("2001:db8::/32", "2001:db8::1", "eth0")
		if err := e.add(gw, dev); err != nil {
			t.Fatalf("add gw: %v", err)
		}
		direct := cfgAdd("2001:db8::/32", "", "eth0")
		if err := e.add(direct, dev); err != nil {
			t.Fatalf("add direct: %v", err)
		}

		got, err := e.output(Flow{Dst: mpa("2001:db8::1")})
		if err != nil {
			t.Fatalf("output: %v", err)
		}
		defer got.Release()
		if !got.directlyAttached() {
			t.Fatalf("output picked gatewayed entry %v, want the directly attached one", got)
		}

		narrower := cfgAdd("2001:db8::/48", "2001:db8::2", "eth0")
		if err := e.add(narrower, dev); err != nil {
			t.Fatalf("add narrower gw: %v", err)
		}
		got2, err := e.output(Flow{Dst: mpa("2001:db8::1")})
		if err != nil {
			t.Fatalf("output after narrower: %v", err)
		}
		defer got2.Release()
		if got2.Dst != narrower.Dst {
			t.Fatalf("output matched %v, want the narrower gatewayed entry", got2.Dst)
		}
	})
}

func TestEngineDumpFilter(t *testing.T) {
	withEngine(t, func(t *testing.T, e engine) {
		eth0 := &Device{Name: "eth0"}
		eth1 := &Device{Name: "eth1"}
		if err := e.add(cfgAdd("2001:db8::/32", "", "eth0"), eth0); err != nil {
			t.Fatal(err)
		}
		if err := e.add(cfgAdd("2001:db8:1::/48", "", "eth1"), eth1); err != nil {
			t.Fatal(err)
		}

		all := e.dump(nil)
		if len(all) != 2 {
			t.Fatalf("dump(nil) returned %d entries, want 2", len(all))
		}

		filtered := e.dump(&DumpFilter{IfName: "eth1"})
		if len(filtered) != 1 || filtered[0].IfName != "eth1" {
			t.Fatalf("dump(eth1) = %+v, want one eth1 record", filtered)
		}
	})
}

func TestEngineDestroyFreesThroughDustbin(t *testing.T) {
	withEngine(t, func(t *testing.T, e engine) {
		db := newDustbin(nil)
		e.setup(db)
		dev := &Device{Name: "eth0"}
		if err := e.add(cfgAdd("2001:db8::/32", "", "eth0"), dev); err != nil {
			t.Fatal(err)
		}
		held, err := e.input(Flow{Dst: mpa("2001:db8::1")})
		if err != nil {
			t.Fatalf("input: %v", err)
		}
		e.destroy()
		if db.len() != 1 {
			t.Fatalf("dustbin len after destroy with outstanding ref = %d, want 1", db.len())
		}
		held.Release()
		if e.size() != 0 {
			t.Fatalf("size after destroy = %d, want 0", e.size())
		}
		if len(e.dump(nil)) != 0 {
			t.Fatalf("dump after destroy not empty")
		}
	})
}
