package artifacts

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
)

// Scan walks a compiled-artifacts tree and returns every parseable artifact
// in lexical walk order. Files that cannot be read or parsed, and JSON files
// that are not contract artifacts, are skipped. Build-info directories are
// not descended into.
func Scan(fsys fs.FS, logger *slog.Logger) []Artifact {
	var found []Artifact

	_ = fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}

		if d.IsDir() {
			if d.Name() == "build-info" {
				return fs.SkipDir
			}
			return nil
		}

		if !strings.HasSuffix(path, ".json") {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			logger.Debug("skipping unreadable artifact", "path", path, "error", err)
			return nil
		}

		artifact, err := parseArtifact(data)
		if err != nil {
			logger.Debug("skipping artifact", "path", path, "error", err)
			return nil
		}

		found = append(found, artifact)
		return nil
	})

	return found
}

// ScanDir scans the compiled-artifacts directory at dir. A missing directory
// yields an empty snapshot.
func ScanDir(dir string, logger *slog.Logger) []Artifact {
	if _, err := os.Stat(dir); err != nil {
		logger.Debug("artifact directory not available", "path", dir, "error", err)
		return nil
	}
	return Scan(os.DirFS(dir), logger)
}

// parseArtifact decodes an artifact file and enforces the fields a usable
// artifact must carry.
func parseArtifact(data []byte) (Artifact, error) {
	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return Artifact{}, fmt.Errorf("parsing artifact JSON: %w", err)
	}
	if a.ContractName == "" {
		return Artifact{}, errors.New("missing contractName")
	}
	if !isPresent(a.ABI) {
		return Artifact{}, errors.New("missing abi")
	}
	if a.Bytecode == "" {
		return Artifact{}, errors.New("missing bytecode")
	}
	return a, nil
}
