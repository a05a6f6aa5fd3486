package rpcproxy

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"golang.org/x/term"
	"golang.org/x/time/rate"

	"github.com/ashbridge/spyglass/internal/hexdata"
)

var (
	linkLabel   = color.New(color.FgCyan, color.Bold)
	deployLabel = color.New(color.FgGreen, color.Bold)
)

// LinkPrinter writes explorer links to the terminal as transactions and
// deployments flow through the proxy. Output is rate limited so a test suite
// hammering the node cannot flood the console; excess lines are dropped, not
// queued. On a TTY the links are emitted as OSC 8 hyperlinks.
type LinkPrinter struct {
	baseURL string
	out     io.Writer
	enabled bool
	isTTY   bool
	limiter *rate.Limiter

	mu   sync.Mutex
	seen map[string]struct{}
}

// NewLinkPrinter creates a printer targeting the explorer at baseURL.
func NewLinkPrinter(baseURL string, enabled bool) *LinkPrinter {
	return newLinkPrinter(baseURL, enabled, os.Stdout, term.IsTerminal(int(os.Stdout.Fd())))
}

func newLinkPrinter(baseURL string, enabled bool, out io.Writer, isTTY bool) *LinkPrinter {
	return &LinkPrinter{
		baseURL: strings.TrimRight(baseURL, "/"),
		out:     out,
		enabled: enabled,
		isTTY:   isTTY,
		limiter: rate.NewLimiter(rate.Every(200*time.Millisecond), 5),
		seen:    make(map[string]struct{}),
	}
}

// TransactionSubmitted prints a link to the transaction view.
func (p *LinkPrinter) TransactionSubmitted(txHash string) {
	p.print(linkLabel.Sprint("tx"), p.baseURL+"/#/tx/"+hexdata.Normalize(txHash), "")
}

// ContractDeployed prints a link to the address view, once per address.
// Receipt polling delivers the same deployment many times over.
func (p *LinkPrinter) ContractDeployed(address string) {
	p.print(deployLabel.Sprint("contract deployed"), p.baseURL+"/#/address/"+hexdata.Normalize(address), hexdata.Normalize(address))
}

func (p *LinkPrinter) print(label, url, dedupeKey string) {
	if !p.enabled {
		return
	}

	if dedupeKey != "" {
		p.mu.Lock()
		if _, dup := p.seen[dedupeKey]; dup {
			p.mu.Unlock()
			return
		}
		p.seen[dedupeKey] = struct{}{}
		p.mu.Unlock()
	}

	if !p.limiter.Allow() {
		return
	}

	line := url
	if p.isTTY {
		line = fmt.Sprintf("\x1b]8;;%s\x1b\\%s\x1b]8;;\x1b\\", url, url)
	}
	fmt.Fprintf(p.out, "%s %s\n", label, line)
}
