// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Print the plain text of a PDF",
	Long: `Extract downloads a PDF (--url) or reads a local one (--file) and prints the
text of every page in page order.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		url, _ := cmd.Flags().GetString("url")
		file, _ := cmd.Flags().GetString("file")
		if (url == "") == (file == "") {
			return fmt.Errorf("exactly one of --url or --file is required")
		}

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		var text string
		if url != "" {
			text, err = a.extractor.FromURL(cmd.Context(), url)
		} else {
			var data []byte
			data, err = os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("reading %s: %w", file, err)
			}
			text, err = a.extractor.FromBytes(cmd.Context(), data)
		}
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), text)
		return nil
	},
}

func init() {
	extractCmd.Flags().String("url", "", "PDF URL to download")
	extractCmd.Flags().String("file", "", "local PDF file")
	extractCmd.Flags().String("backend", "", "extraction backend: plain, unipdf, markitdown")
	_ = viper.BindPFlag("extraction.backend", extractCmd.Flags().Lookup("backend"))

	rootCmd.AddCommand(extractCmd)
}
