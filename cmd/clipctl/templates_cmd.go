package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"clipforge/internal/engine"
)

func templatesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "List the built-in edit templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			category, _ := cmd.Flags().GetString("category")
			id, _ := cmd.Flags().GetString("id")

			catalog := engine.NewTemplateCatalog()
			if id != "" {
				tpl, ok := catalog.Get(id)
				if !ok {
					return fmt.Errorf("no template with id %q", id)
				}
				return writeJSON(cmd.OutOrStdout(), tpl)
			}

			templates := catalog.List()
			if category != "" {
				templates = catalog.ByCategory(category)
			}
			return writeJSON(cmd.OutOrStdout(), map[string]any{"templates": templates})
		},
	}
	cmd.Flags().String("category", "", "Filter by category")
	cmd.Flags().String("id", "", "Show one template with its operations")
	return cmd
}
