//go:build e2e

package e2e

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fetchPage(t *testing.T, path string) (*http.Response, string) {
	t.Helper()

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, testCtx.TestServer.URL+path, nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

// TestExplorerPageInjection checks every HTML page carries the contract
// state handoff script.
func TestExplorerPageInjection(t *testing.T) {
	resp, body := fetchPage(t, "/")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	assert.Equal(t, "no-store", resp.Header.Get("Cache-Control"))

	// The fixture's recorded Registry deployment rides in through the
	// injected session-storage script.
	assert.Contains(t, body, "spyglass.contracts.v1")
	assert.Contains(t, body, "Registry")
	assert.NotContains(t, body, "</script></script>", "no stray script terminators")
}

// TestExplorerAssets checks non-HTML assets are served raw
func TestExplorerAssets(t *testing.T) {
	resp, body := fetchPage(t, "/app.js")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "javascript")
	assert.NotContains(t, body, "sessionStorage.setItem(\"spyglass.contracts.v1\"", "assets are not injected")
}

// TestExplorerSPAFallback checks client-side routes serve the shell page
func TestExplorerSPAFallback(t *testing.T) {
	resp, body := fetchPage(t, "/address/0xcccccccccccccccccccccccccccccccccccccccc")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	assert.Contains(t, body, "spyglass.contracts.v1")
}
