// SPDX-License-Identifier: MIT

package route6

import (
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// Replicator implements the master-first, best-effort broadcast
// protocol: every admin mutation is applied to the master's own table
// first: if that fails, nothing is sent anywhere and the error goes
// back to the caller. If it succeeds, the same (now-canonical)
// request is multicast to every slave asynchronously; the master does
// not wait for slave acknowledgement, and a slave that fails to apply
// the mutation only logs the failure. This bounds control-plane
// latency and keeps the master's view authoritative, at the cost of
// transient per-worker divergence when a slave fails -- an
// operational alarm (Metrics.slaveApplyFailures), not a data-plane
// bug, since route selection is a per-worker decision for per-worker
// traffic.
//
// Exactly one Worker in a pool owns a Replicator; it must be the
// worker designated master.
type Replicator struct {
	worker *Worker
	seq    atomic.Uint32
}

func newReplicator(w *Worker) *Replicator {
	return &Replicator{worker: w}
}

func (r *Replicator) nextSeq() uint32 {
	seq := r.seq.Add(1)
	r.worker.metrics.observeSeq(seq)
	return seq
}

// AddDel runs the admin add/del protocol for cfg, which must already
// be known-valid (Admin.validate has run). Dst is normalised to
// canonical form before it is applied or broadcast.
func (r *Replicator) AddDel(cfg RouteConfig) error {
	w := r.worker
	cfg = cfg.canonical()

	if err := r.applyLocal(cfg); err != nil {
		w.logger.WithError(err).WithField("op", cfg.Op).Warn("route6: master failed to apply mutation")
		return err
	}

	seq := r.nextSeq()
	msg := Message{Type: MsgRoute6, Seq: seq, Cfg: cfg}
	if err := w.bus.SendMulticast(msg); err != nil {
		w.logger.WithError(err).WithField("seq", seq).Warn("route6: multicast dispatch failed")
		w.metrics.observeDispatchFailure(w.ID)
	}
	return nil
}

func (r *Replicator) applyLocal(cfg RouteConfig) error {
	w := r.worker
	switch cfg.Op {
	case OpAdd:
		dev, ok := w.registry.ByName(cfg.IfName)
		if !ok {
			return newErr(KindInvalid, "add", nil)
		}
		return w.engine.add(cfg, dev)
	case OpDel:
		return w.engine.del(cfg)
	default:
		return newErr(KindNotSupported, "replicate", nil)
	}
}

// handleReplicated is installed as the MsgRoute6 handler on every
// worker (including the master, harmlessly idempotent-checked via
// add/del's own Exists/NotExist errors if ever double-applied).
// Failures are logged, never surfaced: the master has already
// committed.
func (w *Worker) handleReplicated(msg Message) error {
	var err error
	switch msg.Cfg.Op {
	case OpAdd:
		dev, ok := w.registry.ByName(msg.Cfg.IfName)
		if !ok {
			err = newErr(KindInvalid, "replicate", nil)
		} else {
			err = w.engine.add(msg.Cfg, dev)
		}
	case OpDel:
		err = w.engine.del(msg.Cfg)
	case OpGet, OpFlush:
		err = newErr(KindNotSupported, "replicate", nil)
	default:
		err = newErr(KindInvalid, "replicate", nil)
	}
	if err != nil {
		w.logger.WithFields(logrus.Fields{
			"seq":  msg.Seq,
			"from": msg.From,
			"op":   msg.Cfg.Op,
		}).WithError(err).Warn("route6: slave failed to apply replicated mutation")
		w.metrics.observeSlaveApplyFailure(w.ID)
	}
	return err
}

// handleSlaacSync is installed as the MsgRoute6Slaac handler on the
// master only. It runs the standard admin protocol so the master
// remains the single serialiser of all mutations, including ones
// discovered by a slave's own SLAAC processing.
func (w *Worker) handleSlaacSync(msg Message) error {
	return NewAdmin(w, w.registry).AddDel(msg.Cfg)
}

// NotifySlaac is called on a non-master worker after it discovers an
// auto-configured route (e.g. from a Router Advertisement it
// processed); it unicasts the request to the master rather than
// applying it locally, so every mutation still goes through the
// master-first protocol.
func (w *Worker) NotifySlaac(cfg RouteConfig) error {
	cfg.Flags |= FlagAutoconf
	msg := Message{Type: MsgRoute6Slaac, Cfg: cfg}
	return w.bus.SendUnicast(w.masterID, msg)
}
