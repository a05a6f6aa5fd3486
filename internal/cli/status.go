package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ashbridge/spyglass/internal/config"
	"github.com/ashbridge/spyglass/pkg/client"
)

var statusHeader = color.New(color.FgCyan, color.Bold)

func newStatusCmd() *cobra.Command {
	var serverURL string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the status of a running spyglass instance",
		RunE: func(cmd *cobra.Command, args []string) error {
			if serverURL == "" {
				cfg, err := config.Load()
				if err != nil {
					return fmt.Errorf("loading config: %w", err)
				}
				serverURL = cfg.BaseURL()
			}
			return runStatus(cmd.OutOrStdout(), serverURL, jsonOutput)
		},
	}

	cmd.Flags().StringVar(&serverURL, "server", "", "spyglass URL (default from config)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")

	return cmd
}

func runStatus(out io.Writer, serverURL string, jsonOutput bool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c := client.New(serverURL)
	status, err := c.Status(ctx)
	if err != nil {
		return fmt.Errorf("querying %s: %w", serverURL, err)
	}

	if jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(status)
	}

	fmt.Fprintln(out, statusHeader.Sprintf("%s %s", status.Service, status.Version))
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "explorer:\t%s\n", serverURL)
	fmt.Fprintf(w, "node:\t%s\n", status.RPCURL)
	fmt.Fprintf(w, "chain:\t%s (%d)\n", status.ChainName, status.ChainID)
	fmt.Fprintf(w, "session:\t%s\n", status.SessionID)
	fmt.Fprintf(w, "artifacts:\t%d\n", status.Artifacts)
	fmt.Fprintf(w, "tracked:\t%d\n", status.Tracked)
	return w.Flush()
}
