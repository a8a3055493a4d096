package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/solgrid/fieldmatch/app/plugins"
	"github.com/solgrid/fieldmatch/config"
	"github.com/solgrid/fieldmatch/core/audit"
	"github.com/solgrid/fieldmatch/pkg/export"
)

var (
	auditJobID  string
	auditFormat string
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Audit trail commands",
}

var auditLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List audit trail entries",
	RunE:  runAuditLs,
}

func init() {
	auditLsCmd.Flags().StringVar(&auditJobID, "job", "", "filter by job id")
	auditLsCmd.Flags().StringVarP(&auditFormat, "format", "f", "json", "output format: json or csv")
	auditCmd.AddCommand(auditLsCmd)
	rootCmd.AddCommand(auditCmd)
}

func runAuditLs(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	factory, ok := plugins.AuditStores[cfg.Audit.Backend]
	if !ok {
		return fmt.Errorf("unknown audit backend %s", cfg.Audit.Backend)
	}
	store, err := factory(cfg.Audit.Backend, map[string]any{"path": cfg.Audit.Path})
	if err != nil {
		return fmt.Errorf("audit store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "error while closing store: %v\n", err)
		}
	}()

	entries, err := store.Query(context.Background(), audit.Query{JobID: auditJobID})
	if err != nil {
		return err
	}
	switch auditFormat {
	case "json":
		return export.WriteJSON(cmd.OutOrStdout(), entries)
	case "csv":
		return export.WriteCSV(cmd.OutOrStdout(), entries)
	default:
		return fmt.Errorf("unknown format %s", auditFormat)
	}
}
