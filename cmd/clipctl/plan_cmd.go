package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"clipforge/internal/engine"
)

type planOutput struct {
	Removed       engine.Span   `json:"removed"`
	Spans         []engine.Span `json:"spans"`
	FilterComplex string        `json:"filter_complex"`
	Args          []string      `json:"args"`
}

func planCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan [operation.json]",
		Short: "Plan a removeClip as a trim/concat segment graph",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			duration, _ := cmd.Flags().GetFloat64("duration")
			input, _ := cmd.Flags().GetString("input")
			output, _ := cmd.Flags().GetString("output")

			op, err := readOperation(args)
			if err != nil {
				return err
			}
			if op.Kind != engine.KindRemoveClip {
				return fmt.Errorf("plan applies to removeClip, got %q", op.Kind)
			}
			if duration <= 0 {
				return fmt.Errorf("--duration must be positive")
			}

			eng := newEngine()
			if result := eng.Validate(op); !result.Valid {
				return fmt.Errorf("operation invalid: %s", strings.Join(result.Errors, "; "))
			}
			plan, ok := eng.PlanRemoval(op, duration)
			if !ok {
				return fmt.Errorf("removal range is empty or out of bounds, nothing to plan")
			}

			graph := eng.BuildSegmentGraph(plan)
			return writeJSON(cmd.OutOrStdout(), planOutput{
				Removed:       plan.Removed,
				Spans:         plan.Spans,
				FilterComplex: graph.FilterComplex,
				Args:          graph.Args(input, output),
			})
		},
	}
	cmd.Flags().Float64("duration", 0, "Source duration in seconds")
	cmd.Flags().String("input", "input.mp4", "Input path used in the printed argument list")
	cmd.Flags().String("output", "output.mp4", "Output path used in the printed argument list")
	_ = cmd.MarkFlagRequired("duration")
	return cmd
}
