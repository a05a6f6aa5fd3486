package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/ashbridge/spyglass/internal/artifacts"
	"github.com/ashbridge/spyglass/internal/config"
	"github.com/ashbridge/spyglass/internal/hexdata"
)

func newArtifactsCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "artifacts",
		Short: "List the compiled contract artifacts spyglass would match against",
		Long: `Scan the project's compiled-artifacts directory and list every usable
artifact. This is the snapshot the deployment tracker matches creation
bytecode against; a contract missing here cannot be recognized.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runArtifacts(cmd.OutOrStdout(), jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")

	return cmd
}

func runArtifacts(out io.Writer, jsonOutput bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Scan diagnostics stay off the table output.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	snapshot := artifacts.ScanDir(cfg.Project.ArtifactsDir, logger)

	if jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(snapshot)
	}

	if len(snapshot) == 0 {
		fmt.Fprintf(out, "no artifacts found under %s\n", cfg.Project.ArtifactsDir)
		return nil
	}

	renderArtifactsTable(out, snapshot)
	return nil
}

func renderArtifactsTable(out io.Writer, snapshot []artifacts.Artifact) {
	tw := table.NewWriter()
	tw.SetOutputMirror(out)
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"Contract", "Source", "Bytecode", "Build Info"})

	for _, a := range snapshot {
		tw.AppendRow(table.Row{
			a.ContractName,
			a.SourceName,
			fmt.Sprintf("%d bytes", bytecodeBytes(a.Bytecode)),
			a.BuildInfoID,
		})
	}
	tw.Render()

	total := lo.SumBy(snapshot, func(a artifacts.Artifact) int { return bytecodeBytes(a.Bytecode) })
	fmt.Fprintf(out, "%d contracts, %d bytes of creation bytecode\n", len(snapshot), total)
}

// bytecodeBytes returns the byte length of a hex bytecode string.
func bytecodeBytes(bytecode string) int {
	return (len(hexdata.Normalize(bytecode)) - 2) / 2
}
