// SPDX-License-Identifier: MIT

package route6

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// WorkerConfig configures one Worker.
type WorkerConfig struct {
	ID          WorkerID
	Master      bool
	MasterID    WorkerID
	Method      Method
	RecycleTime time.Duration
	Bus         Bus
	Registry    InterfaceRegistry
	Logger      *logrus.Logger
	Metrics     *Metrics
}

// Worker is one lcore: it owns a private routing table (via its
// engine), a dustbin, and an endpoint on the inter-core bus. Nothing
// outside a Worker's own goroutine may call Input/Output/add/del
// against it concurrently; that single-owner discipline is what lets
// the fast path run lock-free.
type Worker struct {
	ID       WorkerID
	master   bool
	masterID WorkerID
	method   Method

	engine  engine
	db      *dustbin
	bus     Bus
	registry InterfaceRegistry

	recycle time.Duration

	replicator *Replicator

	logger  *logrus.Entry
	metrics *Metrics
}

// NewWorker builds a Worker and wires its bus handlers. Call Run to
// start its cooperative loop.
func NewWorker(cfg WorkerConfig) *Worker {
	if cfg.Logger == nil {
		cfg.Logger = NewLogger()
	}
	entry := workerLogger(cfg.Logger, cfg.ID, cfg.Master)

	w := &Worker{
		ID:       cfg.ID,
		master:   cfg.Master,
		masterID: cfg.MasterID,
		method:   cfg.Method,
		bus:      cfg.Bus,
		registry: cfg.Registry,
		recycle:  cfg.RecycleTime,
		logger:   entry,
		metrics:  cfg.Metrics,
	}
	if w.recycle <= 0 {
		w.recycle = DefaultRecycleTime
	}

	w.db = newDustbin(entry)
	w.engine = newEngine(cfg.Method)
	w.engine.setup(w.db)

	if w.master {
		w.replicator = newReplicator(w)
	}

	w.bus.RegisterHandler(MsgRoute6, w.handleReplicated)
	if w.master {
		w.bus.RegisterHandler(MsgRoute6Slaac, w.handleSlaacSync)
	}

	return w
}

// Input performs an input-route lookup for flow, returning a reference
// the caller must Release when done with it.
func (w *Worker) Input(flow Flow) (*Entry, error) {
	return w.engine.input(flow)
}

// Output performs an output-route lookup for flow, returning a
// reference the caller must Release when done with it.
func (w *Worker) Output(flow Flow) (*Entry, error) {
	return w.engine.output(flow)
}

// Dump returns this worker's table contents, optionally filtered.
func (w *Worker) Dump(filter *DumpFilter) []RouteRecord {
	return w.engine.dump(filter)
}

// Size returns the number of entries in this worker's table.
func (w *Worker) Size() int { return w.engine.size() }

// DustbinLen returns the number of entries awaiting reclamation.
func (w *Worker) DustbinLen() int { return w.db.len() }

// Destroy releases every entry this worker's table holds, forwarding
// each through the dustbin exactly as a del() would.
func (w *Worker) Destroy() { w.engine.destroy() }

// Tick runs one dustbin reclamation pass. Exported so tests and
// callers that drive their own scheduling loop (rather than Run) can
// advance the dustbin deterministically.
func (w *Worker) Tick() { w.db.tick() }

// Pump drains this worker's bus inbox, dispatching any pending
// messages to their registered handlers.
func (w *Worker) Pump() { w.bus.Pump() }

// Run drives this worker's cooperative loop until ctx is cancelled:
// each iteration pumps the bus mailbox, drains one packet (if
// packets is non-nil) through Input, and services the dustbin timer.
// Run never itself calls Output: which of Input/Output a real NIC
// path needs is a decision for the packet-processing caller, out of
// scope here; Run exists to exercise the replication and dustbin
// machinery end to end in tests and demos.
func (w *Worker) Run(ctx context.Context, packets <-chan Flow) {
	ticker := time.NewTicker(w.recycle)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.db.tick()
			w.metrics.observeDustbin(w.ID, w.db.len())
			w.metrics.observeTableSize(w.ID, w.method, w.engine.size())
		default:
		}

		w.bus.Pump()

		if packets != nil {
			select {
			case flow, ok := <-packets:
				if !ok {
					packets = nil
				} else if e, err := w.Input(flow); err == nil {
					e.Release()
				}
			default:
			}
		}

		time.Sleep(time.Millisecond)
	}
}
