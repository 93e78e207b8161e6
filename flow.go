// SPDX-License-Identifier: MIT

package route6

import "net/netip"

// OpCode is the operation carried by a RouteConfig, on both the
// control-plane socket and the inter-core bus.
type OpCode uint8

const (
	// OpGet is reserved; currently unsupported over the bus.
	OpGet OpCode = iota
	// OpAdd installs a route.
	OpAdd
	// OpDel removes a route.
	OpDel
	// OpFlush is reserved; currently unsupported.
	OpFlush
)

func (o OpCode) String() string {
	switch o {
	case OpGet:
		return "GET"
	case OpAdd:
		return "ADD"
	case OpDel:
		return "DEL"
	case OpFlush:
		return "FLUSH"
	default:
		return "UNKNOWN"
	}
}

func (o OpCode) valid() bool {
	return o >= OpGet && o <= OpFlush
}

// RouteConfig is the route-configuration record exchanged on the
// control-plane socket and on the inter-core bus: an opcode plus the
// attributes of one route.
type RouteConfig struct {
	Op      OpCode
	Dst     netip.Prefix
	Src     netip.Prefix
	PrefSrc netip.Prefix
	Gateway netip.Addr
	IfName  string
	MTU     uint32
	Flags   EntryFlags
}

// canonical returns a copy of cfg with Dst masked to its own prefix
// length. Src and PrefSrc are never rewritten here: they are
// source-selection prefixes independent of the destination prefix.
func (cfg RouteConfig) canonical() RouteConfig {
	if cfg.Dst.IsValid() {
		cfg.Dst = cfg.Dst.Masked()
	}
	return cfg
}

// identity is the administrative identity tuple used by get/add/del:
// (dst prefix, ifname, gateway).
type identity struct {
	dst     netip.Prefix
	ifname  string
	gateway netip.Addr
}

func (cfg RouteConfig) identity() identity {
	return identity{dst: cfg.Dst, ifname: cfg.IfName, gateway: cfg.Gateway}
}

func (e *Entry) identity() identity {
	name := ""
	if e.Device != nil {
		name = e.Device.Name
	}
	return identity{dst: e.Dst, ifname: name, gateway: e.Gateway}
}

// Flow carries the fields of a packet relevant to route resolution.
type Flow struct {
	// Dst is the packet's destination address.
	Dst netip.Addr
	// Src is the packet's source address; zero value means
	// "unspecified". Neither input() nor output() consults it.
	Src netip.Addr
	// Device is the ingress interface for input() lookups. output()
	// does not consult it: output picks its route from Dst alone.
	Device *Device
}

// RouteRecord is the decoded, control-plane-visible encoding of one
// table entry, as returned by dump/show. The wire encoding of a dump
// blob is an external collaborator's concern (out of scope here); this
// is the Go value such a collaborator would encode.
type RouteRecord struct {
	Dst     netip.Prefix
	Src     netip.Prefix
	PrefSrc netip.Prefix
	Gateway netip.Addr
	IfName  string
	MTU     uint32
	Flags   EntryFlags
}

func recordOf(e *Entry) RouteRecord {
	name := ""
	if e.Device != nil {
		name = e.Device.Name
	}
	return RouteRecord{
		Dst:     e.Dst,
		Src:     e.Src,
		PrefSrc: e.PrefSrc,
		Gateway: e.Gateway,
		IfName:  name,
		MTU:     e.MTU,
		Flags:   e.Flags,
	}
}

// DumpFilter narrows a dump to entries matching IfName (if non-empty)
// and carrying all bits of Flags (if non-zero). A nil *DumpFilter
// matches every entry.
type DumpFilter struct {
	IfName string
	Flags  EntryFlags
}

func (f *DumpFilter) match(e *Entry) bool {
	if f == nil {
		return true
	}
	if f.IfName != "" {
		if e.Device == nil || e.Device.Name != f.IfName {
			return false
		}
	}
	if f.Flags != 0 && e.Flags&f.Flags != f.Flags {
		return false
	}
	return true
}
