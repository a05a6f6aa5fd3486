// Package tracker correlates deployment transactions observed on the wire
// with compiled contract artifacts.
package tracker

import (
	"encoding/json"
	"log/slog"
	"strings"
	"sync"

	"github.com/ashbridge/spyglass/internal/artifacts"
	"github.com/ashbridge/spyglass/internal/hexdata"
	"github.com/ashbridge/spyglass/internal/observability/metrics"
)

// Enricher resolves optional source and build-info data for a matched
// contract. Implementations are free to read from disk; the tracker itself
// never touches the filesystem.
type Enricher interface {
	Source(sourceName string) (string, bool)
	BuildInfo(id string) (json.RawMessage, bool)
}

// Tracker resolves the contract behind each deployment transaction by
// matching its creation bytecode against a snapshot of compiled artifacts
// taken at construction time. The snapshot is never refreshed.
type Tracker struct {
	mu       sync.Mutex
	snapshot []artifacts.Artifact
	pending  map[string]string
	tracked  artifacts.AddressMap
	enricher Enricher
	logger   *slog.Logger
}

// New creates a tracker over a fixed artifact snapshot.
func New(snapshot []artifacts.Artifact, enricher Enricher, logger *slog.Logger) *Tracker {
	return &Tracker{
		snapshot: snapshot,
		pending:  make(map[string]string),
		tracked:  make(artifacts.AddressMap),
		enricher: enricher,
		logger:   logger,
	}
}

// TrackSendTransaction records a submitted deployment transaction and its
// creation data. A repeated hash overwrites the earlier submission.
func (t *Tracker) TrackSendTransaction(txHash, data string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.pending[hexdata.Normalize(txHash)] = data
}

// TrackDeploymentReceipt resolves a mined deployment transaction to its
// contract address. Receipts for transactions the tracker never saw are
// ignored. The pending entry is consumed whether or not an artifact matches.
func (t *Tracker) TrackDeploymentReceipt(txHash, contractAddress string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	hash := hexdata.Normalize(txHash)
	data, ok := t.pending[hash]
	if !ok {
		return
	}
	delete(t.pending, hash)

	artifact, ok := t.match(data)
	if !ok {
		t.logger.Debug("no artifact matches deployment", "tx", hash)
		metrics.DeploymentTracked("unmatched")
		return
	}

	address := hexdata.Normalize(contractAddress)
	entry := &artifacts.DeployedContract{
		ABI:          artifact.ABI,
		ContractName: artifact.ContractName,
		SourceName:   artifact.SourceName,
		BuildInfoID:  artifact.BuildInfoID,
		Deployments:  []string{contractAddress},
	}
	if t.enricher != nil {
		if source, ok := t.enricher.Source(artifact.SourceName); ok {
			entry.SourceCode = source
		}
		if buildInfo, ok := t.enricher.BuildInfo(artifact.BuildInfoID); ok {
			entry.BuildInfo = buildInfo
		}
	}
	t.tracked[address] = entry

	t.logger.Info("tracked contract deployment",
		"contract", artifact.ContractName,
		"address", address,
		"tx", hash,
	)
	metrics.DeploymentTracked("matched")
}

// Artifacts returns a deep copy of the tracked contracts, keyed by lowercased
// address.
func (t *Tracker) Artifacts() artifacts.AddressMap {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.tracked.Clone()
}

// PendingCount reports deployment submissions still awaiting a receipt.
func (t *Tracker) PendingCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return len(t.pending)
}

// match finds the first snapshot artifact whose creation bytecode is a prefix
// of the submitted data. Artifacts with no code beyond the 0x prefix never
// match.
func (t *Tracker) match(data string) (artifacts.Artifact, bool) {
	normalized := hexdata.Normalize(data)
	for _, candidate := range t.snapshot {
		bytecode := hexdata.Normalize(candidate.Bytecode)
		if !hexdata.HasCode(bytecode) {
			continue
		}
		if strings.HasPrefix(normalized, bytecode) {
			return candidate, true
		}
	}
	return artifacts.Artifact{}, false
}
