// SPDX-License-Identifier: MIT

package route6

import (
	"net"
	"testing"

	"github.com/dpvs-project/route6/internal/chanbus"
)

func TestWireAddAndShowRoundTrip(t *testing.T) {
	admin, _ := newTestAdmin(t)
	mux := NewSockoptMux(admin)

	server, client := net.Pipe()
	defer client.Close()
	done := make(chan error, 1)
	go func() { done <- Serve(server, mux) }()

	addReq := WireRequest{
		Opt: OptRoute6AddDel,
		Cfg: RouteConfig{Op: OpAdd, Dst: mpp("2001:db8::/32"), IfName: "eth0"},
	}
	resp, err := Call(client, addReq)
	if err != nil {
		t.Fatalf("Call(add): %v", err)
	}
	if resp.Err != "" {
		t.Fatalf("Call(add) response error: %s", resp.Err)
	}

	showReq := WireRequest{Opt: OptRoute6Show}
	resp, err = Call(client, showReq)
	if err != nil {
		t.Fatalf("Call(show): %v", err)
	}
	if len(resp.Records) != 1 {
		t.Fatalf("Call(show) returned %d records, want 1", len(resp.Records))
	}
	if resp.Records[0].Dst != mpp("2001:db8::/32") {
		t.Fatalf("Call(show) record = %+v", resp.Records[0])
	}

	client.Close()
	<-done
}

func TestWireSetErrorIsReportedNotPropagated(t *testing.T) {
	hub := chanbus.NewHub([]WorkerID{0})
	registry := NewStaticRegistry("eth0")
	w := NewWorker(WorkerConfig{ID: 0, Master: true, Bus: hub.Endpoint(0), Registry: registry})
	mux := NewSockoptMux(NewAdmin(w, registry))

	server, client := net.Pipe()
	defer client.Close()
	go Serve(server, mux)

	req := WireRequest{
		Opt: OptRoute6AddDel,
		Cfg: RouteConfig{Op: OpAdd, Dst: mpp("2001:db8::/32"), IfName: "nonexistent"},
	}
	resp, err := Call(client, req)
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if resp.Err == "" {
		t.Fatalf("Call response Err is empty, want a validation error")
	}
}
