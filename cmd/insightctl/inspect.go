package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"insights-backend/internal/inference"
	"insights-backend/internal/pdftext"
	"insights-backend/internal/shared/util"
)

type inspection struct {
	File     string `json:"file"`
	Pages    int    `json:"pages"`
	Bytes    int    `json:"bytes"`
	Checksum string `json:"checksum"`
	Title    string `json:"title"`
	Author   string `json:"author,omitempty"`
	Excerpt  string `json:"excerpt"`
}

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect FILE.pdf",
		Short: "Print the metadata an upload of FILE would produce, without storing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			res, err := pdftext.NewExtractor().Extract(cmd.Context(), data)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			md := inference.Infer(res.Text)
			out := inspection{
				File:     args[0],
				Pages:    res.Pages,
				Bytes:    len(data),
				Checksum: util.Checksum(data),
				Title:    md.Title,
				Excerpt:  md.Excerpt,
			}
			if md.HasAuthor {
				out.Author = md.Author
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}
}
