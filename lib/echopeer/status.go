// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package echopeer

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/bureau-foundation/echoline/lib/codec"
	"github.com/bureau-foundation/echoline/lib/netutil"
	"github.com/bureau-foundation/echoline/transport"
)

// StatusPath is the HTTP path of the status endpoint.
const StatusPath = "/status"

// Status is a point-in-time snapshot of the peer's counters. Served as
// CBOR and printed as JSON by "echoline-peer status".
type Status struct {
	Address    string    `json:"address,omitempty"`
	Transform  string    `json:"transform"`
	BufferSize int       `json:"buffer_size"`
	StartedAt  time.Time `json:"started_at"`

	// Connections counts accepted connections; each ends as exactly
	// one of an exchange, a disconnect, or a failure.
	Connections uint64 `json:"connections"`
	Exchanges   uint64 `json:"exchanges"`
	Disconnects uint64 `json:"disconnects"`
	Failures    uint64 `json:"failures"`

	BytesIn  uint64 `json:"bytes_in"`
	BytesOut uint64 `json:"bytes_out"`

	LastExchangeAt *time.Time `json:"last_exchange_at,omitempty"`
}

// Status returns the current counters.
func (s *Server) Status() Status {
	status := Status{
		Transform:   string(s.config.Transform),
		BufferSize:  s.config.BufferSize,
		StartedAt:   s.startedAt,
		Connections: s.connections.Load(),
		Exchanges:   s.exchanges.Load(),
		Disconnects: s.disconnects.Load(),
		Failures:    s.failures.Load(),
		BytesIn:     s.bytesIn.Load(),
		BytesOut:    s.bytesOut.Load(),
	}
	if address, ok := s.address.Load().(string); ok {
		status.Address = address
	}
	if nanos := s.lastExchange.Load(); nanos != 0 {
		last := time.Unix(0, nanos).UTC()
		status.LastExchangeAt = &last
	}
	return status
}

// StatusHandler serves GET /status as CBOR. Other methods get 405.
func (s *Server) StatusHandler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(StatusPath, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", http.MethodGet)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		data, err := codec.Marshal(s.Status())
		if err != nil {
			s.logger.Error("encoding status failed", "error", err)
			http.Error(w, "encoding status failed", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", codec.ContentType)
		w.Write(data)
	})
	return mux
}

// FetchStatus retrieves and decodes a peer's status from its status
// listener at address.
func FetchStatus(ctx context.Context, dialer transport.Dialer, address string) (Status, error) {
	data, err := FetchStatusDocument(ctx, dialer, address)
	if err != nil {
		return Status{}, err
	}
	var status Status
	if err := codec.Unmarshal(data, &status); err != nil {
		return Status{}, fmt.Errorf("decoding status from %s: %w", address, err)
	}
	return status, nil
}

// FetchStatusDocument retrieves the raw CBOR status document from the
// status listener at address.
func FetchStatusDocument(ctx context.Context, dialer transport.Dialer, address string) ([]byte, error) {
	client := &http.Client{Transport: transport.HTTPTransport(dialer, address)}

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://echoline-peer"+StatusPath, nil)
	if err != nil {
		return nil, err
	}
	response, err := client.Do(request)
	if err != nil {
		return nil, fmt.Errorf("fetching status from %s: %w", address, err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching status from %s: %s: %s",
			address, response.Status, netutil.ErrorBody(response.Body))
	}
	if contentType := response.Header.Get("Content-Type"); contentType != codec.ContentType {
		return nil, fmt.Errorf("fetching status from %s: unexpected content type %q", address, contentType)
	}

	data, err := netutil.ReadResponse(response.Body)
	if err != nil {
		return nil, fmt.Errorf("reading status from %s: %w", address, err)
	}
	return data, nil
}
