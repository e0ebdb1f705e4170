package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/statichaus/staticd/internal/assets"
	"github.com/statichaus/staticd/internal/config"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate configuration and asset root",
	Long: `check loads the configuration, verifies the asset root is a
readable directory, and confirms the index file exists at the root.
Exits non-zero on failure, so it can gate a container image build.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runCheck(cmd.OutOrStdout())
	},
}

func runCheck(out io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	resolver, err := assets.NewResolver(cfg.Root, cfg.IndexFile)
	if err != nil {
		return fmt.Errorf("asset root: %w", err)
	}

	// GET / must succeed for the container health check, so the root
	// index is required, not just recommended.
	indexPath := filepath.Join(resolver.Root(), cfg.IndexFile)
	if _, err := os.Stat(indexPath); err != nil {
		return fmt.Errorf("index file %s: %w", indexPath, err)
	}

	fmt.Fprintf(out, "configuration OK\n")
	fmt.Fprintf(out, "  listen_addr: %s\n", cfg.ListenAddr)
	fmt.Fprintf(out, "  root:        %s\n", resolver.Root())
	fmt.Fprintf(out, "  index_file:  %s\n", cfg.IndexFile)
	return nil
}
