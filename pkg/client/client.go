// Package client provides a Go client for the spyglass local API.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client is a spyglass API client
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(c *http.Client) Option {
	return func(client *Client) {
		client.httpClient = c
	}
}

// New creates a new spyglass client
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Status is a running instance's self-description
type Status struct {
	Service   string `json:"service"`
	Version   string `json:"version"`
	ChainID   uint64 `json:"chainId"`
	ChainName string `json:"chainName"`
	RPCURL    string `json:"rpcUrl"`
	SessionID string `json:"sessionId"`
	Artifacts int    `json:"artifacts"`
	Tracked   int    `json:"tracked"`
}

// Contract is one entry of the merged contract state, keyed by its deployed
// address
type Contract struct {
	ABI          json.RawMessage `json:"abi"`
	ContractName string          `json:"contractName"`
	SourceName   string          `json:"sourceName,omitempty"`
	BuildInfoID  string          `json:"buildInfoId,omitempty"`
	SourceCode   string          `json:"sourceCode,omitempty"`
	BuildInfo    json.RawMessage `json:"buildInfo,omitempty"`
	Deployments  []string        `json:"deployments"`
}

// Status fetches the instance status
func (c *Client) Status(ctx context.Context) (*Status, error) {
	var status Status
	if err := c.get(ctx, "/api/v1/status", &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// Contracts fetches the merged contract state, keyed by lowercased address
func (c *Client) Contracts(ctx context.Context) (map[string]Contract, error) {
	var contracts map[string]Contract
	if err := c.get(ctx, "/api/v1/contracts", &contracts); err != nil {
		return nil, err
	}
	return contracts, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: unexpected status %d: %s", path, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
