// Package rpcproxy forwards JSON-RPC traffic to the development node and
// observes it for contract deployments.
package rpcproxy

import (
	"bytes"
	"encoding/json"
)

const vsn = "2.0"

// message is the JSON-RPC 2.0 envelope, request or response.
type message struct {
	Version string          `json:"jsonrpc,omitempty"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
	Error   *jsonError      `json:"error,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
}

type jsonError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// parseMessages decodes a request or response body into its envelope
// messages. The second return reports whether the body was a batch. A body
// that cannot be decoded yields no messages; the proxy still relays it.
func parseMessages(data []byte) ([]*message, bool) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, false
	}

	if trimmed[0] == '[' {
		var msgs []*message
		if err := json.Unmarshal(trimmed, &msgs); err != nil {
			return nil, true
		}
		return msgs, true
	}

	var msg message
	if err := json.Unmarshal(trimmed, &msg); err != nil {
		return nil, false
	}
	return []*message{&msg}, false
}
