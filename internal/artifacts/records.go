package artifacts

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ashbridge/spyglass/internal/hexdata"
)

const (
	addressListFile  = "deployed_addresses.json"
	artifactsSubdir  = "artifacts"
	buildInfoSubdir  = "build-info"
	chainDirTemplate = "chain-%d"
)

// RecordStore reads structured deployment records written by a deployment
// system into a chain-scoped directory:
//
//	<deploymentsDir>/chain-<id>/deployed_addresses.json
//	<deploymentsDir>/chain-<id>/artifacts/*.json
//	<deploymentsDir>/chain-<id>/build-info/<id>.json
//
// The store never fails: malformed or incomplete records are skipped.
type RecordStore struct {
	root     string
	enricher *DirEnricher
	logger   *slog.Logger
	announce sync.Once
}

// NewRecordStore creates a record store for one chain. Source enrichment is
// resolved under contractsDir.
func NewRecordStore(deploymentsDir string, chainID uint64, contractsDir string, logger *slog.Logger) *RecordStore {
	root := filepath.Join(deploymentsDir, fmt.Sprintf(chainDirTemplate, chainID))
	return &RecordStore{
		root:     root,
		enricher: NewDirEnricher(contractsDir, filepath.Join(root, buildInfoSubdir)),
		logger:   logger,
	}
}

// Load reads the current record set. It returns nil when the chain-scoped
// record directory does not exist (no deployment system in use), and an
// empty map when the directory exists but holds no usable records. The first
// successful find is logged once; repeated polling stays quiet.
func (s *RecordStore) Load() AddressMap {
	if _, err := os.Stat(s.root); err != nil {
		return nil
	}

	addresses := s.loadAddresses()
	entries := make(AddressMap)

	dir := filepath.Join(s.root, artifactsSubdir)
	files, err := os.ReadDir(dir)
	if err != nil {
		s.logger.Debug("deployment record artifacts not readable", "path", dir, "error", err)
	}

	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".json") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, f.Name()))
		if err != nil {
			s.logger.Debug("skipping unreadable record artifact", "path", f.Name(), "error", err)
			continue
		}

		artifact, err := parseArtifact(data)
		if err != nil {
			s.logger.Debug("skipping record artifact", "path", f.Name(), "error", err)
			continue
		}

		address, ok := addresses[artifact.ContractName]
		if !ok {
			s.logger.Debug("no recorded address for contract", "contract", artifact.ContractName)
			continue
		}

		entry := &DeployedContract{
			ABI:          artifact.ABI,
			ContractName: artifact.ContractName,
			SourceName:   artifact.SourceName,
			BuildInfoID:  artifact.BuildInfoID,
			Deployments:  []string{address},
		}
		if source, ok := s.enricher.Source(artifact.SourceName); ok {
			entry.SourceCode = source
		}
		if buildInfo, ok := s.enricher.BuildInfo(artifact.BuildInfoID); ok {
			entry.BuildInfo = buildInfo
		}

		entries[hexdata.Normalize(address)] = entry
	}

	s.announce.Do(func() {
		s.logger.Info("deployment records found", "path", s.root, "contracts", len(entries))
	})

	return entries
}

// loadAddresses reads the address list and keys it by bare contract name.
// Entries are recorded as "<module>#<ContractName>"; the segment after the
// last separator is the contract name.
func (s *RecordStore) loadAddresses() map[string]string {
	addresses := make(map[string]string)

	path := filepath.Join(s.root, addressListFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return addresses
	}

	var recorded map[string]string
	if err := json.Unmarshal(data, &recorded); err != nil {
		s.logger.Debug("skipping malformed address list", "path", path, "error", err)
		return addresses
	}

	for key, address := range recorded {
		name := key
		if i := strings.LastIndex(key, "#"); i >= 0 {
			name = key[i+1:]
		}
		addresses[name] = address
	}

	return addresses
}
