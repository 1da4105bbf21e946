// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "rawtxn",
	Short: "Encode, inspect and share unsigned multisig wallet transactions",
	Long: `A CLI for moving raw transactions between wallet participants as tagged
envelopes and for keeping proposals that still need signatures.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	os.Exit(0)
}

func init() {
	rootCmd.PersistentFlags().StringP("output", "o", "text", "Output format (text, json or yaml)")
	rootCmd.PersistentFlags().String("config", "", "Config file (default $HOME/.rawtxn/config.yaml)")
}

func main() {
	Execute()
}
