// SPDX-License-Identifier: MIT

// Package chanbus is a buffered-channel implementation of the
// route6.Bus contract, standing in for the inter-core message bus a
// real DPDK-based dataplane would provide (lockless SPSC/MPMC rings
// between pinned lcores). One inbox channel backs each worker; Pump
// drains whatever has arrived without blocking, mirroring a worker's
// cooperative per-iteration mailbox check.
package chanbus

import (
	"sync"

	"github.com/dpvs-project/route6"
)

const inboxCapacity = 1024

// Hub owns the shared inboxes and per-worker handler tables for a
// fixed set of workers.
type Hub struct {
	mu       sync.RWMutex
	workers  []route6.WorkerID
	inboxes  map[route6.WorkerID]chan route6.Message
	handlers map[route6.WorkerID]map[route6.MessageType]route6.Handler
}

// NewHub builds a Hub wired for exactly the given workers.
func NewHub(workers []route6.WorkerID) *Hub {
	h := &Hub{
		workers:  append([]route6.WorkerID(nil), workers...),
		inboxes:  make(map[route6.WorkerID]chan route6.Message, len(workers)),
		handlers: make(map[route6.WorkerID]map[route6.MessageType]route6.Handler, len(workers)),
	}
	for _, w := range workers {
		h.inboxes[w] = make(chan route6.Message, inboxCapacity)
		h.handlers[w] = make(map[route6.MessageType]route6.Handler)
	}
	return h
}

// Endpoint returns the route6.Bus handle for worker id.
func (h *Hub) Endpoint(id route6.WorkerID) route6.Bus {
	return &endpoint{hub: h, self: id}
}

type endpoint struct {
	hub  *Hub
	self route6.WorkerID
}

func (e *endpoint) SendMulticast(msg route6.Message) error {
	msg.From = e.self
	e.hub.mu.RLock()
	defer e.hub.mu.RUnlock()
	for _, w := range e.hub.workers {
		if w == e.self {
			continue
		}
		select {
		case e.hub.inboxes[w] <- msg:
		default:
			return &route6.Error{Kind: route6.KindNoMemory, Op: "multicast"}
		}
	}
	return nil
}

func (e *endpoint) SendUnicast(to route6.WorkerID, msg route6.Message) error {
	msg.From = e.self
	e.hub.mu.RLock()
	inbox, ok := e.hub.inboxes[to]
	e.hub.mu.RUnlock()
	if !ok {
		return &route6.Error{Kind: route6.KindInvalid, Op: "unicast"}
	}
	select {
	case inbox <- msg:
		return nil
	default:
		return &route6.Error{Kind: route6.KindNoMemory, Op: "unicast"}
	}
}

func (e *endpoint) RegisterHandler(t route6.MessageType, h route6.Handler) {
	e.hub.mu.Lock()
	defer e.hub.mu.Unlock()
	e.hub.handlers[e.self][t] = h
}

func (e *endpoint) Pump() {
	inbox := e.hub.inboxes[e.self]
	for {
		select {
		case msg := <-inbox:
			e.hub.mu.RLock()
			h, ok := e.hub.handlers[e.self][msg.Type]
			e.hub.mu.RUnlock()
			if ok {
				_ = h(msg)
			}
		default:
			return
		}
	}
}
