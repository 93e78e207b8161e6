// SPDX-License-Identifier: MIT

package route6

import (
	"encoding/gob"
	"io"
)

// WireRequest is one control-plane request as it crosses a net.Conn:
// the gob-encoded equivalent of a getsockopt/setsockopt call. There is
// no third-party wire codec in this corpus to draw on for a narrow,
// in-process admin pipe such as this one, so it uses the standard
// library's encoding/gob, which is already what Go programs reach for
// absent a specific wire-format requirement.
type WireRequest struct {
	Opt    SockOpt
	Cfg    RouteConfig
	Filter *DumpFilter
}

// WireResponse is the gob-encoded reply to a WireRequest. Err is the
// empty string on success; Records is populated only by a get-style
// request.
type WireResponse struct {
	Err     string
	Records []RouteRecord
}

func (o SockOpt) isSet() bool {
	return o == OptRoute6AddDel || o == OptRoute6Flush
}

// Serve reads WireRequests from conn until it errors or is closed,
// dispatching each to mux and writing back a WireResponse. It returns
// the error that ended the loop; io.EOF signals a clean shutdown by
// the peer.
func Serve(conn io.ReadWriter, mux *SockoptMux) error {
	for {
		// Call builds a fresh encoder and decoder for every request, so
		// each request carries its own gob type definitions; the server
		// side mirrors that with one codec pair per request.
		dec := gob.NewDecoder(conn)
		enc := gob.NewEncoder(conn)

		var req WireRequest
		if err := dec.Decode(&req); err != nil {
			return err
		}

		var resp WireResponse
		if req.Opt.isSet() {
			if err := mux.Set(req.Opt, req.Cfg); err != nil {
				resp.Err = err.Error()
			}
		} else {
			records, err := mux.Get(req.Opt, req.Filter)
			if err != nil {
				resp.Err = err.Error()
			}
			resp.Records = records
		}

		if err := enc.Encode(resp); err != nil {
			return err
		}
	}
}

// Call sends one WireRequest on conn and decodes the WireResponse,
// for clients built against Serve.
func Call(conn io.ReadWriter, req WireRequest) (WireResponse, error) {
	enc := gob.NewEncoder(conn)
	if err := enc.Encode(req); err != nil {
		return WireResponse{}, err
	}

	var resp WireResponse
	dec := gob.NewDecoder(conn)
	if err := dec.Decode(&resp); err != nil {
		return WireResponse{}, err
	}
	return resp, nil
}
