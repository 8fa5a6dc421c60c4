// Command naab is the thin CLI entrypoint (spec §1): it loads
// configuration, opens a naab.Runtime, and dispatches to a cobra
// subcommand. All the actual wiring lives in the top-level naab.go
// facade so the same wiring is available to embedders that skip this
// binary entirely.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/naab-lang/naab"
	"github.com/naab-lang/naab/internal/audit"
	"github.com/naab-lang/naab/internal/config"
	"github.com/naab-lang/naab/internal/value"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "naab",
		Short: "naab interpreter",
		Long:  "naab runs programs written in the naab scripting language, with inline polyglot code blocks and a named-block registry.",
	}

	var searchCap int

	runCmd := &cobra.Command{
		Use:   "run <file>",
		Short: "Parse and evaluate a naab source file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			rt, err := naab.Open(cfg)
			if err != nil {
				return fmt.Errorf("naab: failed to open runtime: %w", err)
			}
			defer rt.Close()

			result, err := rt.RunFile(context.Background(), args[0])
			if err != nil {
				return fmt.Errorf("naab: %w", err)
			}
			if result != nil {
				fmt.Println(value.TextForm(result))
			}
			return nil
		},
	}

	searchCmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Query the Block Registry's search index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			rt, err := naab.Open(cfg)
			if err != nil {
				return fmt.Errorf("naab: failed to open runtime: %w", err)
			}
			defer rt.Close()

			results, err := rt.Search(args[0], searchCap)
			if err != nil {
				return fmt.Errorf("naab: %w", err)
			}
			for _, r := range results {
				fmt.Printf("%s [%s] %s\n", r.ID, r.Language, r.Description)
			}
			return nil
		},
	}
	searchCmd.Flags().IntVar(&searchCap, "cap", 0, "maximum results (0 = use the default cap of 100)")

	verifyAuditCmd := &cobra.Command{
		Use:   "verify-audit",
		Short: "Verify the audit log's hash chain (and decrypt, if encrypted)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			result, err := audit.Verify(cfg.AuditLogPath, cfg.EncryptionMode, cfg.EncryptionAlgo, cfg.MasterKeyHex)
			if err != nil {
				return fmt.Errorf("naab: %w", err)
			}
			if !result.OK {
				return fmt.Errorf("naab: audit chain invalid at sequence %d: %s", result.BadSequence, result.Reason)
			}
			fmt.Printf("%d entries verified\n", result.Entries)
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, searchCmd, verifyAuditCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
