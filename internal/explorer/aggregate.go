// Package explorer serves the block-explorer webapp and assembles the
// contract state injected into it.
package explorer

import (
	"github.com/ashbridge/spyglass/internal/artifacts"
)

// RecordSource loads deployment records written by an external deployment
// system. A nil result means no record set exists.
type RecordSource interface {
	Load() artifacts.AddressMap
}

// TrackedSource exposes contracts tracked from live deployment traffic.
type TrackedSource interface {
	Artifacts() artifacts.AddressMap
}

// Aggregator merges recorded and tracked contracts into the state the webapp
// renders.
type Aggregator struct {
	records RecordSource
	tracked TrackedSource
}

// NewAggregator creates an aggregator over the two contract sources.
func NewAggregator(records RecordSource, tracked TrackedSource) *Aggregator {
	return &Aggregator{records: records, tracked: tracked}
}

// Snapshot merges both sources fresh on every call, so deployments completed
// since the last page load are visible immediately. Tracked contracts win on
// address collision. An empty result collapses to nil so callers can skip
// injection work.
func (a *Aggregator) Snapshot() artifacts.AddressMap {
	merged := artifacts.Merge(a.records.Load(), a.tracked.Artifacts())
	if len(merged) == 0 {
		return nil
	}
	return merged
}
