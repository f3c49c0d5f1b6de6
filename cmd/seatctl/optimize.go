package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/arnavshah/seat-planner-go/pkg/logging"
	"github.com/arnavshah/seat-planner-go/pkg/models"
	"github.com/arnavshah/seat-planner-go/pkg/seating"
)

func newOptimizeCommand() *cobra.Command {
	var (
		input    string
		strategy string
		weights  string
		workers  int
		verbose  bool
	)

	cmd := &cobra.Command{
		Use:   "optimize",
		Short: "Optimize a directory snapshot and print the plan as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := parseWeights(weights)
			if err != nil {
				return err
			}
			solver, err := seating.NewSolver(strategy)
			if err != nil {
				return err
			}

			data, err := os.ReadFile(input)
			if err != nil {
				return fmt.Errorf("read snapshot: %w", err)
			}
			snap, err := decodeSnapshot(data)
			if err != nil {
				return fmt.Errorf("snapshot %s: %w", input, err)
			}

			logger := zap.NewNop()
			if verbose {
				if logger, err = logging.New("debug", "console"); err != nil {
					return err
				}
			}

			opt := seating.NewOptimizer(
				seating.WithSolver(solver),
				seating.WithWorkers(workers),
				seating.WithLogger(logger),
			)
			res, err := opt.Optimize(cmd.Context(), seating.Input{
				Snapshot:   snap,
				Parameters: params,
				Name:       "seatctl",
				CreatedBy:  "seatctl",
			})
			if err != nil {
				return fmt.Errorf("optimization failed: %w", err)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(models.OptimizeResponse{Plan: res.Plan, Excluded: res.Excluded})
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "Path to a snapshot JSON file")
	cmd.Flags().StringVarP(&strategy, "strategy", "s", seating.StrategyGreedy, "Solver strategy (greedy|optimal)")
	cmd.Flags().StringVarP(&weights, "weights", "w", "75,60,40,85", "Team proximity, tech stack, cross-team and deadline weights")
	cmd.Flags().IntVar(&workers, "workers", 1, "Goroutines used for scoring")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log optimization details to stderr")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

// parseWeights reads "a,b,c,d" into Parameters in slider order
func parseWeights(s string) (models.Parameters, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return models.Parameters{}, fmt.Errorf("weights must have 4 comma separated values, got %q", s)
	}
	var w [4]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return models.Parameters{}, fmt.Errorf("weight %q: %w", p, err)
		}
		w[i] = n
	}
	params := models.Parameters{
		TeamProximityWeight: w[0],
		TechStackWeight:     w[1],
		CrossTeamWeight:     w[2],
		DeadlineWeight:      w[3],
	}
	return params, seating.ValidateParameters(params)
}

// decodeSnapshot applies the same binding rules the HTTP API enforces
func decodeSnapshot(data []byte) (models.Snapshot, error) {
	var snap models.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return snap, err
	}
	v := validator.New()
	v.SetTagName("binding")
	if err := v.Struct(snap); err != nil {
		return snap, err
	}
	return snap, nil
}
