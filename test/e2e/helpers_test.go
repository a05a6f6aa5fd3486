//go:build e2e

package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ashbridge/spyglass/internal/artifacts"
	"github.com/ashbridge/spyglass/internal/config"
	"github.com/ashbridge/spyglass/internal/rpcproxy"
	"github.com/ashbridge/spyglass/internal/server"
	"github.com/ashbridge/spyglass/internal/tracker"
)

// TestContext holds shared test infrastructure
type TestContext struct {
	ProjectDir string
	Node       *fakeNode
	TestServer *httptest.Server
}

const (
	testChainID = 31337

	// Token is a compiled artifact the tracker can match against.
	tokenBytecode = "0x6080604052600a600b"

	// Registry lives only in the structured deployment records.
	registryAddress = "0xcccccccccccccccccccccccccccccccccccccccc"
)

// writeProjectFixture lays out a minimal host project: compiled artifacts,
// contract sources, and a chain-scoped deployment record set.
func writeProjectFixture() (string, error) {
	root, err := os.MkdirTemp("", "spyglass-e2e-*")
	if err != nil {
		return "", err
	}

	files := map[string]string{
		"artifacts/Token.json": fmt.Sprintf(`{
			"contractName": "Token",
			"sourceName": "contracts/Token.sol",
			"abi": [{"type":"function","name":"transfer"}],
			"bytecode": %q,
			"buildInfoId": "build-1"
		}`, tokenBytecode),
		"artifacts/build-info/build-1.json": `{"solcVersion":"0.8.24"}`,
		"contracts/Token.sol":               "contract Token {}",
		"contracts/Registry.sol":            "contract Registry {}",
		fmt.Sprintf("deployments/chain-%d/deployed_addresses.json", testChainID): fmt.Sprintf(
			`{"CoreModule#Registry": %q}`, registryAddress),
		fmt.Sprintf("deployments/chain-%d/artifacts/Registry.json", testChainID): `{
			"contractName": "Registry",
			"sourceName": "contracts/Registry.sol",
			"abi": [],
			"bytecode": "0x60806040aa"
		}`,
	}

	for name, content := range files {
		path := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			os.RemoveAll(root)
			return "", err
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			os.RemoveAll(root)
			return "", err
		}
	}

	return root, nil
}

// startServer wires a spyglass server over the fixture project and node.
func startServer(projectDir, nodeURL string) *httptest.Server {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	cfg := &config.Config{
		Server: config.ServerConfig{Host: "127.0.0.1", Port: 9545, MaxBodySizeMB: 10},
		Node:   config.NodeConfig{RPCURL: nodeURL, ChainID: testChainID},
		Project: config.ProjectConfig{
			Root:           projectDir,
			ArtifactsDir:   filepath.Join(projectDir, "artifacts"),
			DeploymentsDir: filepath.Join(projectDir, "deployments"),
			ContractsDir:   filepath.Join(projectDir, "contracts"),
		},
	}

	snapshot := artifacts.ScanDir(cfg.Project.ArtifactsDir, logger)
	enricher := artifacts.NewDirEnricher(
		cfg.Project.ContractsDir,
		filepath.Join(cfg.Project.ArtifactsDir, "build-info"),
	)
	trk := tracker.New(snapshot, enricher, logger)
	records := artifacts.NewRecordStore(cfg.Project.DeploymentsDir, testChainID, cfg.Project.ContractsDir, logger)

	srv := server.New(cfg, server.Deps{
		Version:   "e2e",
		ChainID:   testChainID,
		Artifacts: len(snapshot),
		Tracker:   trk,
		Records:   records,
		Links:     rpcproxy.NewLinkPrinter(cfg.BaseURL(), false),
	}, logger)

	return httptest.NewServer(srv.Handler())
}

// fakeNode is a minimal JSON-RPC node: it assigns transaction hashes and
// contract addresses, and answers receipt polls.
type fakeNode struct {
	srv *httptest.Server

	mu    sync.Mutex
	seq   int
	mined map[string]string // txHash -> contractAddress
}

func newFakeNode() *fakeNode {
	n := &fakeNode{mined: make(map[string]string)}
	n.srv = httptest.NewServer(http.HandlerFunc(n.handle))
	return n
}

func (n *fakeNode) URL() string { return n.srv.URL }
func (n *fakeNode) Close()      { n.srv.Close() }

func (n *fakeNode) handle(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID     json.RawMessage   `json:"id"`
		Method string            `json:"method"`
		Params []json.RawMessage `json:"params"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var result any
	switch req.Method {
	case "eth_chainId":
		result = fmt.Sprintf("0x%x", testChainID)

	case "eth_sendTransaction":
		n.mu.Lock()
		n.seq++
		txHash := fmt.Sprintf("0x%064x", n.seq)
		n.mined[txHash] = fmt.Sprintf("0x%040x", n.seq)
		n.mu.Unlock()
		result = txHash

	case "eth_getTransactionReceipt":
		var txHash string
		if len(req.Params) > 0 {
			_ = json.Unmarshal(req.Params[0], &txHash)
		}
		n.mu.Lock()
		address, ok := n.mined[txHash]
		n.mu.Unlock()
		if ok {
			result = map[string]any{
				"transactionHash": txHash,
				"contractAddress": address,
				"status":          "0x1",
			}
		}

	default:
		// Everything else answers null, which is enough for the proxy.
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"jsonrpc": "2.0",
		"id":      req.ID,
		"result":  result,
	})
}

// rpcCall posts one JSON-RPC request through the spyglass proxy and decodes
// the result.
func rpcCall(t *testing.T, method string, params any, result any) {
	t.Helper()

	body, err := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  method,
		"params":  params,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, testCtx.TestServer.URL+"/", bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var envelope struct {
		Result json.RawMessage `json:"result"`
		Error  *struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	require.Nil(t, envelope.Error)
	if result != nil {
		require.NoError(t, json.Unmarshal(envelope.Result, result))
	}
}
