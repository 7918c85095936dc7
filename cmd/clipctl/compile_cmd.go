package main

import (
	"github.com/spf13/cobra"

	"clipforge/internal/engine"
)

type compileOutput struct {
	Kind        engine.OperationKind `json:"kind"`
	VideoFilter string               `json:"video_filter,omitempty"`
	AudioFilter string               `json:"audio_filter,omitempty"`
	InputArgs   []string             `json:"input_args,omitempty"`
	Args        []string             `json:"args"`
}

func compileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile [operation.json]",
		Short: "Compile one operation to its FFmpeg filter expression",
		Long: `Compiles an operation for the authoritative render path and prints the
filter chains plus the full argument list. removeClip compiles to a segment
graph instead; use "plan" for it.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, _ := cmd.Flags().GetString("input")
			output, _ := cmd.Flags().GetString("output")

			op, err := readOperation(args)
			if err != nil {
				return err
			}
			expr, err := newEngine().CompileFilter(op)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), compileOutput{
				Kind:        expr.Kind,
				VideoFilter: expr.VideoFilter(),
				AudioFilter: expr.AudioFilter(),
				InputArgs:   expr.InputArgs,
				Args:        expr.Args(input, output),
			})
		},
	}
	cmd.Flags().String("input", "input.mp4", "Input path used in the printed argument list")
	cmd.Flags().String("output", "output.mp4", "Output path used in the printed argument list")
	return cmd
}
