package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"clipforge/log"
)

func main() {
	_ = godotenv.Load() // best-effort: load .env if present
	log.InitConsoleLogger()

	root := &cobra.Command{
		Use:          "clipctl",
		Short:        "Inspect and compile edit operations without a running server",
		SilenceUsage: true,
	}
	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)
	root.SilenceErrors = true

	root.AddCommand(
		validateCmd(),
		compileCmd(),
		previewCmd(),
		planCmd(),
		templatesCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
