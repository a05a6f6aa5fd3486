package rpcproxy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/ashbridge/spyglass/internal/observability/metrics"
	"github.com/ashbridge/spyglass/internal/tracker"
)

// Handler relays JSON-RPC POST bodies to the upstream node and returns the
// node's responses untouched. Request/response pairs are observed on the way
// through to feed the deployment tracker; observation failures never affect
// the relay.
type Handler struct {
	upstream string
	client   *http.Client
	tracker  *tracker.Tracker
	links    *LinkPrinter
	logger   *slog.Logger
}

// NewHandler creates a proxy handler for the node at upstreamURL.
func NewHandler(upstreamURL string, tracker *tracker.Tracker, links *LinkPrinter, logger *slog.Logger) *Handler {
	return &Handler{
		upstream: upstreamURL,
		client:   &http.Client{Timeout: 30 * time.Second},
		tracker:  tracker,
		links:    links,
		logger:   logger,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("Upgrade") != "" {
		http.Error(w, "websocket connections are not proxied; connect to the node directly", http.StatusNotImplemented)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.logger.Debug("reading rpc request body", "error", err)
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	reqs, batch := parseMessages(body)

	respBody, status, contentType, err := h.forward(r.Context(), body)
	if err != nil {
		h.logger.Warn("upstream node unreachable", "url", h.upstream, "error", err)
		metrics.RPCUpstreamError()
		h.writeUpstreamError(w, reqs, batch, err)
		return
	}

	h.observeAll(reqs, respBody)

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	if _, err := w.Write(respBody); err != nil {
		h.logger.Debug("writing rpc response", "error", err)
	}
}

// forward posts the raw body to the upstream node and returns its response
// verbatim.
func (h *Handler) forward(ctx context.Context, body []byte) ([]byte, int, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.upstream, bytes.NewReader(body))
	if err != nil {
		return nil, 0, "", fmt.Errorf("building upstream request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, 0, "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, "", fmt.Errorf("reading upstream response: %w", err)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/json"
	}
	return data, resp.StatusCode, contentType, nil
}

// observeAll pairs requests with their responses by envelope ID and runs the
// method-specific observers.
func (h *Handler) observeAll(reqs []*message, respBody []byte) {
	if len(reqs) == 0 {
		return
	}

	resps, _ := parseMessages(respBody)

	if len(reqs) == 1 && len(resps) == 1 {
		h.observe(reqs[0], resps[0])
		return
	}

	byID := make(map[string]*message, len(resps))
	for _, resp := range resps {
		if resp != nil && len(resp.ID) > 0 {
			byID[string(resp.ID)] = resp
		}
	}
	for _, req := range reqs {
		if req == nil {
			continue
		}
		h.observe(req, byID[string(req.ID)])
	}
}

// writeUpstreamError answers every request in the body with a JSON-RPC
// internal error when the node cannot be reached.
func (h *Handler) writeUpstreamError(w http.ResponseWriter, reqs []*message, batch bool, cause error) {
	rpcErr := &jsonError{
		Code:    -32603,
		Message: fmt.Sprintf("upstream node unreachable: %v", cause),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadGateway)

	if batch {
		out := make([]*message, 0, len(reqs))
		for _, req := range reqs {
			out = append(out, &message{Version: vsn, ID: messageID(req), Error: rpcErr})
		}
		if len(out) == 0 {
			out = append(out, &message{Version: vsn, ID: json.RawMessage("null"), Error: rpcErr})
		}
		if err := json.NewEncoder(w).Encode(out); err != nil {
			h.logger.Debug("writing upstream error", "error", err)
		}
		return
	}

	var req *message
	if len(reqs) == 1 {
		req = reqs[0]
	}
	if err := json.NewEncoder(w).Encode(&message{Version: vsn, ID: messageID(req), Error: rpcErr}); err != nil {
		h.logger.Debug("writing upstream error", "error", err)
	}
}

func messageID(req *message) json.RawMessage {
	if req != nil && len(req.ID) > 0 {
		return req.ID
	}
	return json.RawMessage("null")
}
