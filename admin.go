// SPDX-License-Identifier: MIT

package route6

import "net/netip"

// Admin is the control-plane-facing surface of the routing core: it
// validates requests before handing accepted add/del requests to the
// master's Replicator, and serves show requests from the master's own
// table.
//
// Admin must be built against the master Worker; every mutation this
// package accepts flows through exactly one master, never a slave.
type Admin struct {
	master   *Worker
	registry InterfaceRegistry
}

// NewAdmin builds an Admin bound to master, which must have been
// constructed with WorkerConfig.Master == true.
func NewAdmin(master *Worker, registry InterfaceRegistry) *Admin {
	return &Admin{master: master, registry: registry}
}

// AddDel validates cfg and, if accepted, applies it via the master-
// first replication protocol. Validation failures mutate nothing and
// never reach the replicator or any slave.
func (a *Admin) AddDel(cfg RouteConfig) error {
	if err := a.validate(cfg); err != nil {
		return err
	}
	switch cfg.Op {
	case OpAdd, OpDel:
		return a.master.replicator.AddDel(cfg)
	case OpGet, OpFlush:
		return newErr(KindNotSupported, "admin", nil)
	default:
		return newErr(KindInvalid, "admin", nil)
	}
}

// Show returns the master's table contents, optionally filtered.
func (a *Admin) Show(filter *DumpFilter) []RouteRecord {
	return a.master.Dump(filter)
}

func validPlen(p netip.Prefix) bool {
	if !p.IsValid() {
		// the zero Prefix (unset Src/PrefSrc) is always acceptable;
		// only a Prefix that was built with an address but an
		// out-of-range bit count is rejected.
		return p == netip.Prefix{}
	}
	return p.Bits() >= 0 && p.Bits() <= 128
}

func (a *Admin) validate(cfg RouteConfig) error {
	if !cfg.Op.valid() {
		return newErr(KindInvalid, "admin", nil)
	}
	if !cfg.Dst.IsValid() {
		return newErr(KindInvalid, "admin", nil)
	}
	if !validPlen(cfg.Dst) || !validPlen(cfg.Src) || !validPlen(cfg.PrefSrc) {
		return newErr(KindInvalid, "admin", nil)
	}
	if _, ok := a.registry.ByName(cfg.IfName); !ok {
		return newErr(KindInvalid, "admin", nil)
	}
	return nil
}
