// SPDX-License-Identifier: MIT

// Command route6ctl is a minimal admin client for the route6 control
// plane. It wires up an in-process pool of -workers workers (worker 0
// is the master), connects to the master's admin surface
// over a net.Pipe as if it were a real socket, and issues one
// ROUTE6_ADD_DEL or ROUTE6_SHOW request -- useful for demos and for
// integration-testing the admin/replication/wire stack end to end
// without an external NIC/driver layer.
package main

import (
	"flag"
	"fmt"
	"net"
	"net/netip"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dpvs-project/route6"
	"github.com/dpvs-project/route6/workerpool"
)

func main() {
	op := flag.String("op", "show", "add|del|show")
	dst := flag.String("dst", "", "destination prefix, e.g. 2001:db8::/32")
	gateway := flag.String("gateway", "", "gateway address, empty for a directly attached route")
	ifname := flag.String("ifname", "eth0", "egress interface name")
	workers := flag.Int("workers", 1, "number of simulated lcores")
	method := flag.String("method", string(route6.DefaultMethod), "lpm|hlist")
	flag.Parse()

	logger := route6.NewLogger()

	registry := route6.NewStaticRegistry(*ifname)
	pool := workerpool.New(workerpool.Config{
		NumWorkers: *workers,
		Route6:     route6.Config{Method: route6.Method(*method), RecycleTime: route6.DefaultRecycleTime},
		Registry:   registry,
		Logger:     logger,
		Registerer: prometheus.NewRegistry(),
	})
	mux := route6.NewSockoptMux(pool.Admin)

	serverSide, clientSide := net.Pipe()
	go func() {
		if err := route6.Serve(serverSide, mux); err != nil {
			logger.WithError(err).Debug("route6ctl: server loop ended")
		}
	}()
	defer clientSide.Close()

	req, err := buildRequest(*op, *dst, *gateway, *ifname)
	if err != nil {
		logger.WithError(err).Fatal("route6ctl: bad arguments")
	}

	resp, err := route6.Call(clientSide, req)
	if err != nil {
		logger.WithError(err).Fatal("route6ctl: call failed")
	}
	if resp.Err != "" {
		fmt.Fprintln(os.Stderr, resp.Err)
		os.Exit(1)
	}
	for _, r := range resp.Records {
		fmt.Printf("%-32s dev %-8s gw %s\n", r.Dst, r.IfName, r.Gateway)
	}

	pool.Settle()
}

func buildRequest(op, dst, gateway, ifname string) (route6.WireRequest, error) {
	switch op {
	case "add", "del":
		if dst == "" {
			return route6.WireRequest{}, fmt.Errorf("-dst is required for -op=%s", op)
		}
		pfx, err := netip.ParsePrefix(dst)
		if err != nil {
			return route6.WireRequest{}, fmt.Errorf("bad -dst: %w", err)
		}
		cfg := route6.RouteConfig{Dst: pfx, IfName: ifname}
		if gateway != "" {
			gw, err := netip.ParseAddr(gateway)
			if err != nil {
				return route6.WireRequest{}, fmt.Errorf("bad -gateway: %w", err)
			}
			cfg.Gateway = gw
		}
		if op == "add" {
			cfg.Op = route6.OpAdd
		} else {
			cfg.Op = route6.OpDel
		}
		return route6.WireRequest{Opt: route6.OptRoute6AddDel, Cfg: cfg}, nil
	case "show":
		return route6.WireRequest{Opt: route6.OptRoute6Show}, nil
	default:
		return route6.WireRequest{}, fmt.Errorf("unknown -op %q", op)
	}
}
