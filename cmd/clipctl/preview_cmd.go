package main

import (
	"os"

	"github.com/spf13/cobra"

	"clipforge/internal/engine"
	"clipforge/pkg/cloudinary"
)

type previewOutput struct {
	Kind           engine.OperationKind `json:"kind"`
	Transformation string               `json:"transformation"`
	Warnings       []string             `json:"warnings,omitempty"`
	Url            string               `json:"url,omitempty"`
}

func previewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview [operation.json]",
		Short: "Compile one operation to its preview transformation",
		Long: `Compiles an operation for the preview path and prints the transformation
chain. With a cloud name a full delivery URL is printed too.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cloud, _ := cmd.Flags().GetString("cloud")
			publicId, _ := cmd.Flags().GetString("public-id")
			baseURL, _ := cmd.Flags().GetString("base-url")

			op, err := readOperation(args)
			if err != nil {
				return err
			}
			tr, err := newEngine().CompileTransformation(op)
			if err != nil {
				return err
			}

			out := previewOutput{
				Kind:           tr.Kind,
				Transformation: tr.String(),
				Warnings:       tr.Warnings,
			}
			client := cloudinary.New(cloudinary.Config{
				CloudName: cloud,
				BaseURL:   baseURL,
				Secure:    true,
			})
			if client.Configured() {
				out.Url = client.VideoURL(out.Transformation, publicId)
			}
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().String("cloud", os.Getenv("CLIPFORGE_PREVIEW_CLOUD"), "Cloud name for the delivery URL")
	cmd.Flags().String("public-id", "sample", "Public id for the delivery URL")
	cmd.Flags().String("base-url", "", "Delivery base URL override")
	return cmd
}
