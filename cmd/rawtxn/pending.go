// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/vaultkit/wallet-api/chain"
	"github.com/vaultkit/wallet-api/config"
	"github.com/vaultkit/wallet-api/internal/logging"
	"github.com/vaultkit/wallet-api/pebble"
	"github.com/vaultkit/wallet-api/pending"
	"github.com/vaultkit/wallet-api/serialization"
	"github.com/vaultkit/wallet-api/trace"
)

var pendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "Manage proposals waiting for signatures",
}

var pendingAddCmd = &cobra.Command{
	Use:   "add <json|file|->",
	Short: "Store a JSON raw transaction",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := readInput(cmd, args[0])
		if err != nil {
			return err
		}
		v, _, err := serialization.ParseJSON(b)
		if err != nil {
			return fmt.Errorf("failed to parse raw transaction: %w", err)
		}
		label, err := cmd.Flags().GetString("label")
		if err != nil {
			return err
		}
		return withService(cmd, func(s *pending.Service) error {
			r, err := s.Add(cmd.Context(), v, label)
			if err != nil {
				return err
			}
			return printValue(cmd, r)
		})
	},
}

var pendingImportCmd = &cobra.Command{
	Use:   "import <envelopes json|file|->",
	Short: "Store a JSON array of envelopes if every one of them decodes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := readInput(cmd, args[0])
		if err != nil {
			return err
		}
		var envs []serialization.Envelope
		if err := json.Unmarshal(b, &envs); err != nil {
			return fmt.Errorf("failed to parse envelopes: %w", err)
		}
		label, err := cmd.Flags().GetString("label")
		if err != nil {
			return err
		}
		return withService(cmd, func(s *pending.Service) error {
			records, err := s.ImportBatch(cmd.Context(), envs, label)
			if err != nil {
				return err
			}
			return printValue(cmd, recordsCmdResponse(records))
		})
	},
}

var pendingGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Print a stored proposal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd, func(s *pending.Service) error {
			v, r, err := s.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printValue(cmd, pendingGetCmdResponse{Record: r, Transaction: v})
		})
	},
}

type pendingGetCmdResponse struct {
	Record      pending.Record            `json:"record"`
	Transaction chain.RawTransactionValue `json:"transaction"`
}

func (r pendingGetCmdResponse) String() string {
	return r.Record.String() + "\n" + describe(r.Record.Envelope.Type, r.Transaction)
}

var pendingListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored proposals, oldest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withService(cmd, func(s *pending.Service) error {
			records, err := s.List(cmd.Context())
			if err != nil {
				return err
			}
			return printValue(cmd, recordsCmdResponse(records))
		})
	},
}

type recordsCmdResponse []pending.Record

func (r recordsCmdResponse) String() string {
	lines := make([]string, len(r))
	for i, record := range r {
		lines[i] = record.String()
	}
	return strings.Join(lines, "\n")
}

var pendingRemoveCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"remove"},
	Short:   "Remove a stored proposal",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd, func(s *pending.Service) error {
			return s.Remove(cmd.Context(), args[0])
		})
	},
}

// withService opens the configured backend for the duration of [f]. With
// --metrics the service and store metrics are written to stderr once [f]
// returns.
func withService(cmd *cobra.Command, f func(*pending.Service) error) error {
	showMetrics, err := cmd.Flags().GetBool("metrics")
	if err != nil {
		return err
	}

	log, err := logging.New("rawtxn", cfg.Log, os.Stderr)
	if err != nil {
		return err
	}
	defer log.Stop()

	tracer, err := trace.New(cfg.GetTraceConfig())
	if err != nil {
		return err
	}
	defer tracer.Close()

	backend, storeMetrics, err := openBackend(cfg.Store)
	if err != nil {
		return err
	}
	registry := prometheus.NewRegistry()
	s, err := pending.NewService(backend, log, tracer, registry, cfg.BatchWorkers, cfg.SizeLimit)
	if err != nil {
		_ = backend.Close()
		return err
	}
	defer s.Close()

	err = f(s)
	if showMetrics {
		gatherers := prometheus.Gatherers{registry}
		if storeMetrics != nil {
			gatherers = append(gatherers, storeMetrics)
		}
		if merr := writeMetrics(cmd.ErrOrStderr(), gatherers); merr != nil && err == nil {
			err = merr
		}
	}
	if err != nil {
		return fmt.Errorf("%s: %w", cmd.Name(), err)
	}
	return nil
}

// openBackend returns the configured backend and, for pebble, the registry
// of its store metrics.
func openBackend(store config.StoreConfig) (pending.Backend, prometheus.Gatherer, error) {
	switch store.Backend {
	case config.RedisBackend:
		client := redis.NewClient(&redis.Options{
			Addr:         store.RedisAddr,
			DB:           store.RedisDB,
			ReadTimeout:  store.RedisTimeout,
			WriteTimeout: store.RedisTimeout,
		})
		return pending.NewRedisBackend(client, store.RedisPrefix), nil, nil
	default:
		db, registry, err := pebble.New(store.PebbleDir, store.Pebble)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open %s: %w", store.PebbleDir, err)
		}
		return pending.NewPebbleBackend(db), registry, nil
	}
}

func init() {
	pendingAddCmd.Flags().String("label", "", "Label stored with the proposal")
	pendingImportCmd.Flags().String("label", "", "Label stored with every imported proposal")
	pendingCmd.PersistentFlags().Bool("metrics", false, "Print service and store metrics to stderr after the command")
	pendingCmd.AddCommand(pendingAddCmd, pendingImportCmd, pendingGetCmd, pendingListCmd, pendingRemoveCmd)
	rootCmd.AddCommand(pendingCmd)
}
