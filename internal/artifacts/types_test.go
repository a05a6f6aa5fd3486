package artifacts

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMerge(t *testing.T) {
	t.Run("overlay wins on collision", func(t *testing.T) {
		base := AddressMap{
			"0xaaa": {ContractName: "FromRecords", Deployments: []string{"0xaaa"}},
			"0xbbb": {ContractName: "OnlyRecords", Deployments: []string{"0xbbb"}},
		}
		overlay := AddressMap{
			"0xaaa": {ContractName: "FromTracker", Deployments: []string{"0xaaa"}},
			"0xccc": {ContractName: "OnlyTracker", Deployments: []string{"0xccc"}},
		}

		got := Merge(base, overlay)

		require.Len(t, got, 3)
		assert.Equal(t, "FromTracker", got["0xaaa"].ContractName)
		assert.Equal(t, "OnlyRecords", got["0xbbb"].ContractName)
		assert.Equal(t, "OnlyTracker", got["0xccc"].ContractName)
	})

	t.Run("inputs are not mutated", func(t *testing.T) {
		base := AddressMap{"0xaaa": {ContractName: "Base"}}
		overlay := AddressMap{"0xaaa": {ContractName: "Overlay"}}

		got := Merge(base, overlay)
		got["0xddd"] = &DeployedContract{ContractName: "Added"}

		assert.Len(t, base, 1)
		assert.Len(t, overlay, 1)
		assert.Equal(t, "Base", base["0xaaa"].ContractName)
	})

	t.Run("nil inputs yield empty map", func(t *testing.T) {
		got := Merge(nil, nil)
		require.NotNil(t, got)
		assert.Empty(t, got)
	})
}

func TestAddressMapClone(t *testing.T) {
	t.Run("deep copies entries", func(t *testing.T) {
		original := AddressMap{
			"0xaaa": {
				ContractName: "Lock",
				ABI:          json.RawMessage(`[{"type":"constructor"}]`),
				Deployments:  []string{"0xaaa"},
			},
		}

		clone := original.Clone()
		clone["0xaaa"].ContractName = "Changed"
		clone["0xaaa"].Deployments[0] = "0xfff"
		clone["0xaaa"].ABI[0] = 'X'
		clone["0xbbb"] = &DeployedContract{ContractName: "New"}

		assert.Equal(t, "Lock", original["0xaaa"].ContractName)
		assert.Equal(t, "0xaaa", original["0xaaa"].Deployments[0])
		assert.Equal(t, json.RawMessage(`[{"type":"constructor"}]`), original["0xaaa"].ABI)
		assert.Len(t, original, 1)
	})

	t.Run("nil stays nil", func(t *testing.T) {
		var m AddressMap
		assert.Nil(t, m.Clone())
	})
}
