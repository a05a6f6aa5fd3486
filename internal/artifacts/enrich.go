package artifacts

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// DirEnricher resolves optional contract enrichment data (source code and
// build info) from conventional project paths. All lookups are best-effort:
// a missing or unusable file reports not-found.
type DirEnricher struct {
	contractsDir string
	buildInfoDir string
}

// NewDirEnricher creates an enricher reading sources from contractsDir and
// build-info documents from buildInfoDir. Either directory may be empty to
// disable that lookup.
func NewDirEnricher(contractsDir, buildInfoDir string) *DirEnricher {
	return &DirEnricher{contractsDir: contractsDir, buildInfoDir: buildInfoDir}
}

// Source returns the contract source text for a compiled source name,
// resolved by base name under the contracts directory.
func (e *DirEnricher) Source(sourceName string) (string, bool) {
	if e.contractsDir == "" || sourceName == "" {
		return "", false
	}
	data, err := os.ReadFile(filepath.Join(e.contractsDir, filepath.Base(sourceName)))
	if err != nil {
		return "", false
	}
	return string(data), true
}

// BuildInfo returns the raw build-info document for a build info ID.
func (e *DirEnricher) BuildInfo(id string) (json.RawMessage, bool) {
	if e.buildInfoDir == "" || id == "" {
		return nil, false
	}
	data, err := os.ReadFile(filepath.Join(e.buildInfoDir, filepath.Base(id)+".json"))
	if err != nil || !json.Valid(data) {
		return nil, false
	}
	return json.RawMessage(data), true
}
