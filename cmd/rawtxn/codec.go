// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vaultkit/wallet-api/chain"
	"github.com/vaultkit/wallet-api/codec"
	"github.com/vaultkit/wallet-api/serialization"
)

var encodeCmd = &cobra.Command{
	Use:   "encode <json|file|->",
	Short: "Wrap a JSON raw transaction in a tagged envelope",
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
		env, err := newCodec().Serialize(v)
		if err != nil {
			return fmt.Errorf("failed to serialize: %w", err)
		}
		return printValue(cmd, envelopeCmdResponse(env))
	},
}

type envelopeCmdResponse serialization.Envelope

func (r envelopeCmdResponse) String() string {
	return fmt.Sprintf("type: %s\nvalue: %s", r.Type, r.Value)
}

var decodeCmd = &cobra.Command{
	Use:   "decode <envelope json|file|->",
	Short: "Decode an envelope into its raw transaction",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := readEnvelope(cmd, args[0])
		if err != nil {
			return err
		}
		v, err := newCodec().Deserialize(env)
		if err != nil {
			return err
		}
		return printValue(cmd, decodeCmdResponse{Type: env.Type, Transaction: v})
	},
}

type decodeCmdResponse struct {
	Type        serialization.Type        `json:"type"`
	Transaction chain.RawTransactionValue `json:"transaction"`
}

func (r decodeCmdResponse) String() string {
	return describe(r.Type, r.Transaction)
}

var classifyCmd = &cobra.Command{
	Use:   "classify <json|file|->",
	Short: "Print the envelope tag a JSON raw transaction would get",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := readInput(cmd, args[0])
		if err != nil {
			return err
		}
		t, err := serialization.ClassifyJSON(b)
		if err != nil {
			return err
		}
		return printValue(cmd, classifyCmdResponse{Type: t})
	},
}

type classifyCmdResponse struct {
	Type serialization.Type `json:"type"`
}

func (r classifyCmdResponse) String() string {
	return r.Type.String()
}

var hashCmd = &cobra.Command{
	Use:   "hash <envelope json|file|->",
	Short: "Print the signing message and hash of an envelope",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := readEnvelope(cmd, args[0])
		if err != nil {
			return err
		}
		v, err := newCodec().Deserialize(env)
		if err != nil {
			return err
		}
		msg, err := chain.SigningMessage(v)
		if err != nil {
			return err
		}
		h, err := chain.Hash(v)
		if err != nil {
			return err
		}
		return printValue(cmd, hashCmdResponse{
			Hash:           codec.ToHex(h[:]),
			SigningMessage: codec.ToHex(msg),
		})
	},
}

type hashCmdResponse struct {
	Hash           string `json:"hash"`
	SigningMessage string `json:"signingMessage"`
}

func (r hashCmdResponse) String() string {
	return r.Hash
}

func newCodec() serialization.Codec {
	return serialization.NewCodec(cfg.SizeLimit)
}

func readEnvelope(cmd *cobra.Command, arg string) (serialization.Envelope, error) {
	b, err := readInput(cmd, arg)
	if err != nil {
		return serialization.Envelope{}, err
	}
	var env serialization.Envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return serialization.Envelope{}, fmt.Errorf("failed to parse envelope: %w", err)
	}
	return env, nil
}

// describe renders [v] for the text output.
func describe(t serialization.Type, v chain.RawTransactionValue) string {
	core := v.Core()
	var sb strings.Builder
	fmt.Fprintf(&sb, "type: %s\n", t)
	fmt.Fprintf(&sb, "sender: %s\n", core.Sender)
	fmt.Fprintf(&sb, "sequence number: %d\n", core.SequenceNumber)
	fmt.Fprintf(&sb, "payload: %s\n", describePayload(core.Payload))
	fmt.Fprintf(&sb, "max gas amount: %d\n", core.MaxGasAmount)
	fmt.Fprintf(&sb, "gas unit price: %d\n", core.GasUnitPrice)
	fmt.Fprintf(&sb, "expiration: %s\n", core.Expiration())
	fmt.Fprintf(&sb, "chain id: %d", core.ChainID)
	if s, ok := v.(chain.SecondarySignerCarrier); ok {
		fmt.Fprintf(&sb, "\nsecondary signers: %d", len(s.SecondarySigners()))
		for i, a := range s.SecondarySigners() {
			fmt.Fprintf(&sb, "\n  %d: %s", i, a)
		}
	}
	if f, ok := v.(chain.FeePayerCarrier); ok {
		fmt.Fprintf(&sb, "\nfee payer: %s", f.FeePayer())
	}
	return sb.String()
}

func describePayload(p chain.TransactionPayload) string {
	switch p := p.(type) {
	case *chain.EntryFunction:
		return fmt.Sprintf("entry function %s (%d args)", p.FunctionID(), len(p.Args))
	case *chain.Script:
		return fmt.Sprintf("script of %d bytes (%d args)", len(p.Code), len(p.Args))
	case *chain.Multisig:
		if p.Payload == nil {
			return fmt.Sprintf("multisig %s (stored payload)", p.MultisigAddress)
		}
		return fmt.Sprintf("multisig %s: %s", p.MultisigAddress, p.Payload.FunctionID())
	default:
		return fmt.Sprintf("%T", p)
	}
}

func init() {
	rootCmd.AddCommand(encodeCmd, decodeCmd, classifyCmd, hashCmd)
}
