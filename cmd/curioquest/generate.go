// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/curioquest/internal/session"
	"github.com/pdiddy/curioquest/pkg/types"
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize",
	Short: "Summarize a PDF",
	Long: `Summarize extracts the text of a PDF (--url or --file) and asks the model
for a short, moderate or detailed summary.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		url, _ := cmd.Flags().GetString("url")
		file, _ := cmd.Flags().GetString("file")
		lengthFlag, _ := cmd.Flags().GetString("length")
		length, err := types.ParseSummaryLength(lengthFlag)
		if err != nil {
			return err
		}

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		st, _ := session.NewManager().Get("")
		if err := loadDocument(cmd.Context(), a, st, url, file); err != nil {
			return err
		}
		summary, err := a.svc.SummarizeUpload(cmd.Context(), st, length)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), summary)
		return nil
	},
}

var translateCmd = &cobra.Command{
	Use:   "translate",
	Short: "Translate text into another language",
	Long: `Translate asks the model to translate --text into --lang. English targets
are refused because the source text is already English.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		text, _ := cmd.Flags().GetString("text")
		lang, _ := cmd.Flags().GetString("lang")
		if text == "" {
			return fmt.Errorf("--text is required")
		}

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		out, err := a.svc.TranslateText(cmd.Context(), text, lang)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	},
}

var askCmd = &cobra.Command{
	Use:   "ask",
	Short: "Answer a question about a PDF",
	Long:  `Ask extracts the text of a PDF (--url or --file) and answers --question using it as context.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		url, _ := cmd.Flags().GetString("url")
		file, _ := cmd.Flags().GetString("file")
		question, _ := cmd.Flags().GetString("question")

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		st, _ := session.NewManager().Get("")
		if err := loadDocument(cmd.Context(), a, st, url, file); err != nil {
			return err
		}
		turn, err := a.svc.AskUpload(cmd.Context(), st, question)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), turn.Answer)
		return nil
	},
}

func init() {
	summarizeCmd.Flags().String("url", "", "PDF URL to download")
	summarizeCmd.Flags().String("file", "", "local PDF file")
	summarizeCmd.Flags().String("length", string(types.SummaryModerate), "summary length: "+types.SummaryLengthChoices())

	translateCmd.Flags().String("text", "", "text to translate")
	translateCmd.Flags().String("lang", "", "target language code (e.g. fr, de, es)")

	askCmd.Flags().String("url", "", "PDF URL to download")
	askCmd.Flags().String("file", "", "local PDF file")
	askCmd.Flags().String("question", "", "question to answer")

	rootCmd.AddCommand(summarizeCmd, translateCmd, askCmd)
}
