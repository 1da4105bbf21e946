// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"

	"github.com/vaultkit/wallet-api/config"
)

var cfg = config.NewDefaultConfig()

func loadConfig(cmd *cobra.Command) error {
	configFile, err := cmd.Flags().GetString("config")
	if err != nil {
		return err
	}
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(filepath.Join(homeDir, ".rawtxn"))
	}
	viper.SetEnvPrefix("rawtxn")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}
	if err := viper.Unmarshal(cfg); err != nil {
		return fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg.Validate()
}

func getOutputFormat(cmd *cobra.Command) (string, error) {
	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return "", fmt.Errorf("failed to get output format: %w", err)
	}
	switch output = strings.ToLower(output); output {
	case "text", "json", "yaml":
		return output, nil
	default:
		return "", fmt.Errorf("unknown output format %q", output)
	}
}

func printValue(cmd *cobra.Command, v fmt.Stringer) error {
	output, err := getOutputFormat(cmd)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	switch output {
	case "json":
		jsonBytes, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Fprintln(w, string(jsonBytes))
	case "yaml":
		// Go through JSON so custom field encodings are kept.
		jsonBytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		var doc yaml.MapSlice
		if err := yaml.Unmarshal(jsonBytes, &doc); err != nil {
			return fmt.Errorf("failed to convert to YAML: %w", err)
		}
		yamlBytes, err := yaml.Marshal(doc)
		if err != nil {
			return fmt.Errorf("failed to marshal YAML: %w", err)
		}
		fmt.Fprint(w, string(yamlBytes))
	default:
		fmt.Fprintln(w, v.String())
	}
	return nil
}

// readInput returns [arg] itself, the contents of the file it names, or
// stdin when it is "-".
func readInput(cmd *cobra.Command, arg string) ([]byte, error) {
	// JSON and hex forms are larger than the canonical bytes.
	maxInput := 4 * cfg.SizeLimit

	var (
		b   []byte
		err error
	)
	switch {
	case arg == "-":
		b, err = io.ReadAll(io.LimitReader(cmd.InOrStdin(), int64(maxInput)+1))
	case strings.HasPrefix(strings.TrimSpace(arg), "{"):
		b = []byte(arg)
	default:
		b, err = os.ReadFile(arg)
	}
	if err != nil {
		return nil, fmt.Errorf("unable to read input as JSON, file path or stdin: %w", err)
	}
	if len(b) > maxInput {
		return nil, fmt.Errorf("input of %d bytes exceeds the configured limit", len(b))
	}
	return b, nil
}
