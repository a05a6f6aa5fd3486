package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/status", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"service": "spyglass",
			"version": "1.2.3",
			"chainId": 31337,
			"chainName": "anvil",
			"rpcUrl": "http://127.0.0.1:8545",
			"sessionId": "abc-123",
			"artifacts": 4,
			"tracked": 1
		}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	status, err := c.Status(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "spyglass", status.Service)
	assert.Equal(t, "1.2.3", status.Version)
	assert.Equal(t, uint64(31337), status.ChainID)
	assert.Equal(t, "anvil", status.ChainName)
	assert.Equal(t, 4, status.Artifacts)
	assert.Equal(t, 1, status.Tracked)
}

func TestContracts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/contracts", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa": {
				"abi": [],
				"contractName": "Token",
				"sourceName": "contracts/Token.sol",
				"deployments": ["0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"]
			}
		}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	contracts, err := c.Contracts(context.Background())
	require.NoError(t, err)

	require.Len(t, contracts, 1)
	entry := contracts["0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"]
	assert.Equal(t, "Token", entry.ContractName)
	assert.Equal(t, []string{"0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"}, entry.Deployments)
}

func TestContracts_Empty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	contracts, err := New(srv.URL).Contracts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, contracts)
}

func TestGet_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := New(srv.URL).Status(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestNew_TrimsTrailingSlash(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/status", r.URL.Path)
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL + "/").Status(context.Background())
	require.NoError(t, err)
}
