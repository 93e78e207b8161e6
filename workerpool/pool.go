// SPDX-License-Identifier: MIT

// Package workerpool wires a fixed set of route6.Worker instances
// together over a chanbus.Hub -- the Go equivalent of route6_init()'s
// rte_eal_mp_remote_launch across every lcore. It lives outside
// package route6 itself to avoid a dependency cycle: chanbus imports
// route6 for the Bus contract's types, and this package imports both.
package workerpool

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/dpvs-project/route6"
	"github.com/dpvs-project/route6/internal/chanbus"
)

// Config configures a fixed pool of workers sharing one inter-core
// bus, one interface registry, and one metrics set.
type Config struct {
	// NumWorkers is the number of lcores to simulate; worker 0 is
	// always the master, matching rte_get_master_lcore()'s fixed
	// assignment.
	NumWorkers int
	Route6     route6.Config
	Registry   route6.InterfaceRegistry
	Logger     *logrus.Logger
	Registerer prometheus.Registerer
}

// Pool is a fixed set of Workers wired together over one chanbus.Hub.
type Pool struct {
	Workers  []*route6.Worker
	Admin    *route6.Admin
	Metrics  *route6.Metrics
	MasterID route6.WorkerID
}

// New builds and wires a Pool. It does not start any worker's Run
// loop; callers that want the cooperative loop running call
// w.Run(ctx, packets) themselves, typically one per goroutine.
func New(cfg Config) *Pool {
	if cfg.NumWorkers < 1 {
		cfg.NumWorkers = 1
	}
	if cfg.Logger == nil {
		cfg.Logger = route6.NewLogger()
	}
	if cfg.Registerer == nil {
		cfg.Registerer = prometheus.NewRegistry()
	}

	ids := make([]route6.WorkerID, cfg.NumWorkers)
	for i := range ids {
		ids[i] = route6.WorkerID(i)
	}
	hub := chanbus.NewHub(ids)
	metrics := route6.NewMetrics(cfg.Registerer)

	const masterID route6.WorkerID = 0
	workers := make([]*route6.Worker, cfg.NumWorkers)
	for i, id := range ids {
		workers[i] = route6.NewWorker(route6.WorkerConfig{
			ID:          id,
			Master:      id == masterID,
			MasterID:    masterID,
			Method:      cfg.Route6.Method,
			RecycleTime: cfg.Route6.RecycleTime,
			Bus:         hub.Endpoint(id),
			Registry:    cfg.Registry,
			Logger:      cfg.Logger,
			Metrics:     metrics,
		})
	}

	return &Pool{
		Workers:  workers,
		Admin:    route6.NewAdmin(workers[masterID], cfg.Registry),
		Metrics:  metrics,
		MasterID: masterID,
	}
}

// Master returns the pool's single master worker.
func (p *Pool) Master() *route6.Worker { return p.Workers[p.MasterID] }

// Settle drains every worker's bus mailbox once, for tests that need
// replicated mutations visible on every worker without running a full
// Run loop. It is not part of the production control flow: a real
// deployment relies on each worker's own Run loop to pump its mailbox.
func (p *Pool) Settle() {
	for _, w := range p.Workers {
		w.Pump()
	}
}
