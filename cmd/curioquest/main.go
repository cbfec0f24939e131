// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the curioquest CLI. It serves the
// HTTP API and exposes each assistant operation as a one-shot subcommand.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/curioquest/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns fallback when set, otherwise the secret stored under key.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	return loadedSecrets[key]
}

var rootCmd = &cobra.Command{
	Use:   "curioquest",
	Short: "Search arXiv papers and summarize, translate and question them",
	Long: `curioquest searches arXiv by keyword, extracts the text of paper PDFs
(or an uploaded PDF) and prompts a text-to-text model to summarize,
translate, or answer questions about them.

Run "curioquest serve" for the HTTP API, or use the one-shot subcommands
search, extract, summarize, translate and ask from the shell.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		if unknown := secrets.Unknown(s); len(unknown) > 0 {
			fmt.Fprintf(os.Stderr, "warning: unrecognized secret files: %v\n", unknown)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./curioquest.yaml or ~/.config/curioquest/curioquest.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("model", "", "model identifier (e.g. google/flan-t5-large)")
	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("model.model", rootCmd.PersistentFlags().Lookup("model"))
}

func initConfig() {
	// A missing .env is fine; real environment variables still apply.
	_ = godotenv.Load()

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("curioquest")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "curioquest"))
		}
	}

	setDefaults(viper.GetViper())

	viper.SetEnvPrefix("CURIOQUEST")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
