// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/curioquest/internal/search"
	"github.com/pdiddy/curioquest/internal/session"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search arXiv for papers matching a keyword",
	Long: `Search sends the keyword to the arXiv API as an all-fields query and prints
the top matches with their titles, authors and PDF links. An upstream
failure prints the error record instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		keyword, _ := cmd.Flags().GetString("keyword")
		asJSON, _ := cmd.Flags().GetBool("json")
		asCSL, _ := cmd.Flags().GetBool("csl")
		if asJSON && asCSL {
			return fmt.Errorf("use either --json or --csl, not both")
		}

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		st, _ := session.NewManager().Get("")
		records, err := a.svc.Search(cmd.Context(), st, keyword)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		switch {
		case asJSON:
			return search.FormatJSON(records, out)
		case asCSL:
			return search.FormatCSL(records, out)
		}
		search.FormatTable(records, out)
		return nil
	},
}

func init() {
	searchCmd.Flags().String("keyword", "", "search keyword (sent as-is, may be empty)")
	searchCmd.Flags().Int("max-results", search.DefaultMaxResults, "maximum number of results (at most 5)")
	searchCmd.Flags().Bool("json", false, "output results as JSON")
	searchCmd.Flags().Bool("csl", false, "output results as CSL-YAML")
	_ = viper.BindPFlag("search.max_results", searchCmd.Flags().Lookup("max-results"))

	rootCmd.AddCommand(searchCmd)
}
