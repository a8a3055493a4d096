package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/solgrid/fieldmatch/app"
	"github.com/solgrid/fieldmatch/config"
	"github.com/solgrid/fieldmatch/core/allocation"
	"github.com/solgrid/fieldmatch/core/model"
	"github.com/solgrid/fieldmatch/infra/logger"
)

var (
	allocateInput string
	allocateMode  string
	allocateForce string
)

var allocateCmd = &cobra.Command{
	Use:   "allocate",
	Short: "Run a one-shot allocation from a JSON request file",
	RunE:  runAllocate,
}

func init() {
	allocateCmd.Flags().StringVarP(&allocateInput, "input", "i", "", "JSON file with the job and installers")
	allocateCmd.Flags().StringVarP(&allocateMode, "mode", "m", "", "allocation mode override")
	allocateCmd.Flags().StringVar(&allocateForce, "force", "", "force this installer id")
	_ = allocateCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(allocateCmd)
}

// allocateRequest is the on-disk request format.
type allocateRequest struct {
	Job        model.Job           `json:"job"`
	Installers []model.Installer   `json:"installers"`
	Mode       string              `json:"mode"`
	Weights    *allocation.Weights `json:"weights"`
}

func runAllocate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	data, err := os.ReadFile(allocateInput)
	if err != nil {
		return fmt.Errorf("read request: %w", err)
	}
	var req allocateRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return fmt.Errorf("parse request: %w", err)
	}

	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	logg := logger.New("allocate-command")
	defer func() {
		if err := svc.Close(); err != nil {
			logg.Errorf("service close: %v", err)
		}
	}()

	if err := svc.Manager.Directory().PutJob(req.Job); err != nil {
		return fmt.Errorf("job: %w", err)
	}
	for _, ins := range req.Installers {
		if err := svc.Manager.Directory().PutInstaller(ins); err != nil {
			return fmt.Errorf("installer %s: %w", ins.ID, err)
		}
	}

	modeName := cfg.Allocation.DefaultMode
	if req.Mode != "" {
		modeName = req.Mode
	}
	if allocateMode != "" {
		modeName = allocateMode
	}
	mode, err := model.ParseAllocationMode(modeName)
	if err != nil {
		return err
	}

	res, err := svc.Manager.Allocate(context.Background(), "cli", req.Job.ID, allocation.Options{
		Mode:             mode,
		CustomWeights:    req.Weights,
		ForceInstallerID: allocateForce,
	})
	if err != nil {
		return err
	}
	out, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
