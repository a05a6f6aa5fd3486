package explorer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/ashbridge/spyglass/internal/artifacts"
	"github.com/ashbridge/spyglass/internal/observability/metrics"
)

// StorageKey is the session-storage key the webapp reads injected contract
// state from.
const StorageKey = "spyglass.contracts.v1"

var openingBodyTag = regexp.MustCompile(`(?i)<body[^>]*>`)

// InjectState splices a script into an HTML page that hands the contract
// state to the webapp through session storage. The state is JSON-encoded
// twice so it embeds as a plain quoted literal inside the script. Nil or
// empty state, pages without a body tag, and unencodable state all pass the
// page through unchanged.
func InjectState(page []byte, state artifacts.AddressMap) []byte {
	if len(state) == 0 {
		return page
	}

	loc := openingBodyTag.FindIndex(page)
	if loc == nil {
		return page
	}

	encoded, err := json.Marshal(state)
	if err != nil {
		return page
	}
	literal, err := json.Marshal(string(encoded))
	if err != nil {
		return page
	}
	// json.Marshal escapes angle brackets, so no "</script" sequence can
	// survive inside the literal; the replace keeps that guaranteed even if
	// the encoder configuration changes.
	payload := strings.ReplaceAll(string(literal), "</", `<\/`)

	script := fmt.Sprintf(
		`<script>try{window.sessionStorage.setItem(%q,%s)}catch(err){console.warn("spyglass: unable to store contract state",err)}</script>`,
		StorageKey, payload,
	)

	var out bytes.Buffer
	out.Grow(len(page) + len(script))
	out.Write(page[:loc[1]])
	out.WriteString(script)
	out.Write(page[loc[1]:])

	metrics.StateInjection()
	return out.Bytes()
}
