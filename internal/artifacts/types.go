// Package artifacts loads compiled contract artifacts and structured
// deployment records from a project directory.
package artifacts

import (
	"bytes"
	"encoding/json"
)

// Artifact represents a compiled contract artifact (hh-sol-artifact-1 format).
type Artifact struct {
	ContractName string          `json:"contractName"`
	SourceName   string          `json:"sourceName,omitempty"`
	ABI          json.RawMessage `json:"abi,omitempty"`
	Bytecode     string          `json:"bytecode,omitempty"`
	BuildInfoID  string          `json:"buildInfoId,omitempty"`
}

// DeployedContract is the payload served to the explorer for one deployed
// contract address.
type DeployedContract struct {
	ABI          json.RawMessage `json:"abi"`
	ContractName string          `json:"contractName"`
	SourceName   string          `json:"sourceName,omitempty"`
	BuildInfoID  string          `json:"buildInfoId,omitempty"`
	SourceCode   string          `json:"sourceCode,omitempty"`
	BuildInfo    json.RawMessage `json:"buildInfo,omitempty"`
	Deployments  []string        `json:"deployments"`
}

// Clone returns a deep copy of the contract.
func (d *DeployedContract) Clone() *DeployedContract {
	if d == nil {
		return nil
	}
	out := *d
	out.ABI = bytes.Clone(d.ABI)
	out.BuildInfo = bytes.Clone(d.BuildInfo)
	out.Deployments = append([]string(nil), d.Deployments...)
	return &out
}

// AddressMap maps lowercased contract addresses to their deployed contracts.
type AddressMap map[string]*DeployedContract

// Clone returns a deep copy of the map. A nil map clones to nil.
func (m AddressMap) Clone() AddressMap {
	if m == nil {
		return nil
	}
	out := make(AddressMap, len(m))
	for addr, contract := range m {
		out[addr] = contract.Clone()
	}
	return out
}

// Merge combines two address maps into a fresh one. Entries from overlay win
// on address collision. The result is never nil.
func Merge(base, overlay AddressMap) AddressMap {
	out := make(AddressMap, len(base)+len(overlay))
	for addr, contract := range base {
		out[addr] = contract
	}
	for addr, contract := range overlay {
		out[addr] = contract
	}
	return out
}

// isPresent reports whether a raw JSON field was present with a non-null value.
func isPresent(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}
