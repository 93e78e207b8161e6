// SPDX-License-Identifier: MIT

// Package route6 implements the per-core IPv6 routing core of a
// user-space, kernel-bypass load balancer.
//
// A fixed pool of workers ("lcores"), pinned one-per-CPU-core, each own
// a private routing table and answer two kinds of lookups for every
// forwarded packet: input() decides whether a packet should be
// accepted, delivered locally, or forwarded; output() picks the egress
// device, next-hop gateway, preferred source address and MTU for a
// packet about to be transmitted.
//
// Two interchangeable lookup engines back the per-worker table: a
// longest-prefix-match trie (lpmEngine) and a hash-list engine
// (hlistEngine), selected once at startup. Administrative mutations
// (add/del) are serialised through a single master worker and
// replicated to every other ("slave") worker over an inter-core bus;
// replication is best-effort and asynchronous, so workers may briefly
// diverge. Entries handed out by a lookup are reference counted:
// deleting a route that is still referenced by an in-flight packet
// defers the entry's reclamation to a per-worker "dustbin" drained by
// a periodic timer, rather than invalidating the caller's reference.
package route6
