package main

import (
	"errors"

	"github.com/spf13/cobra"
)

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [operation.json]",
		Short: "Check one operation against the catalog rules",
		Long: `Reads an operation as JSON ({"kind": ..., "params": ...}) from the file
argument or stdin and prints the validation result. Exits non-zero when the
operation is invalid.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			op, err := readOperation(args)
			if err != nil {
				return err
			}

			result := newEngine().Validate(op)
			if err := writeJSON(cmd.OutOrStdout(), result); err != nil {
				return err
			}
			if !result.Valid {
				return errors.New("operation invalid")
			}
			return nil
		},
	}
}
