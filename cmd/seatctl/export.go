package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arnavshah/seat-planner-go/pkg/export"
	"github.com/arnavshah/seat-planner-go/pkg/models"
)

func newExportCommand() *cobra.Command {
	var (
		input    string
		snapshot string
		out      string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Render a plan JSON file as .xlsx or .csv",
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := readPlan(input)
			if err != nil {
				return err
			}
			var snap models.Snapshot
			if snapshot != "" {
				data, err := os.ReadFile(snapshot)
				if err != nil {
					return fmt.Errorf("read snapshot: %w", err)
				}
				if snap, err = decodeSnapshot(data); err != nil {
					return fmt.Errorf("snapshot %s: %w", snapshot, err)
				}
			}

			f, err := os.Create(out)
			if err != nil {
				return err
			}
			defer f.Close()

			switch strings.ToLower(filepath.Ext(out)) {
			case ".csv":
				err = export.WriteCSV(f, plan, snap)
			case ".xlsx":
				err = export.WriteXLSX(f, plan, snap)
			default:
				err = fmt.Errorf("unsupported output format %q", filepath.Ext(out))
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d assignments to %s\n", len(plan.Assignments), out)
			return f.Close()
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "Plan JSON, either a plan or an optimize response")
	cmd.Flags().StringVar(&snapshot, "snapshot", "", "Optional snapshot JSON for names, labels and zones")
	cmd.Flags().StringVarP(&out, "out", "o", "plan.xlsx", "Output file (.xlsx or .csv)")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

// readPlan accepts either a bare plan or the {"plan": ...} optimize response
func readPlan(path string) (models.Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.Plan{}, fmt.Errorf("read plan: %w", err)
	}
	var wrapped models.OptimizeResponse
	if err := json.Unmarshal(data, &wrapped); err == nil && wrapped.Plan.Assignments != nil {
		return wrapped.Plan, nil
	}
	var plan models.Plan
	if err := json.Unmarshal(data, &plan); err != nil {
		return models.Plan{}, fmt.Errorf("parse plan %s: %w", path, err)
	}
	return plan, nil
}
