// Copyright 2023 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/blinklabs-io/gobyron"
	"github.com/blinklabs-io/gobyron/cbor"
	"github.com/blinklabs-io/gobyron/ledger/byron"
	"github.com/blinklabs-io/gobyron/ledger/common"
	"github.com/blinklabs-io/gobyron/protocol/legacy"
)

type globalFlags struct {
	flagset      *flag.FlagSet
	network      string
	networkMagic int
	debug        bool
}

func newGlobalFlags() *globalFlags {
	f := &globalFlags{
		flagset: flag.NewFlagSet(os.Args[0], flag.ExitOnError),
	}
	f.flagset.StringVar(
		&f.network,
		"network",
		"mainnet",
		"specifies network that node is participating in",
	)
	f.flagset.IntVar(
		&f.networkMagic,
		"network-magic",
		0,
		"specifies network magic value. this overrides the -network option",
	)
	f.flagset.BoolVar(&f.debug, "debug", false, "enable debug logging")
	return f
}

type subcommand struct {
	usage string
	run   func(*globalFlags, *slog.Logger, []string) error
}

var subcommands = map[string]subcommand{
	"handshake": {
		usage: "handshake [-describe]",
		run:   cmdHandshake,
	},
	"decode-handshake": {
		usage: "decode-handshake <hex>",
		run:   cmdDecodeHandshake,
	},
	"decode-headers": {
		usage: "decode-headers <hex>",
		run:   cmdDecodeHeaders,
	},
	"decode-block": {
		usage: "decode-block <hex>",
		run:   cmdDecodeBlock,
	},
	"subscribe": {
		usage: "subscribe [-keep-alive]",
		run:   cmdSubscribe,
	},
	"get-headers": {
		usage: "get-headers <to hash|-> <from hash>...",
		run:   cmdGetHeaders,
	},
	"get-blocks": {
		usage: "get-blocks <from hash> <to hash>",
		run:   cmdGetBlocks,
	},
	"announce-tx": {
		usage: "announce-tx <txid>",
		run:   cmdAnnounceTx,
	},
	"dump": {
		usage: "dump <hex>",
		run:   cmdDump,
	},
}

func main() {
	f := newGlobalFlags()
	err := f.flagset.Parse(os.Args[1:])
	if err != nil {
		fmt.Printf("failed to parse command args: %s\n", err)
		os.Exit(1)
	}

	logLevel := slog.LevelInfo
	if f.debug {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(
		slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}),
	)

	if f.networkMagic == 0 {
		network := gobyron.NetworkByName(f.network)
		if network == gobyron.NetworkInvalid {
			fmt.Printf("Invalid network specified: %s\n", f.network)
			os.Exit(1)
		}
		f.networkMagic = int(network.ProtocolMagic)
	}

	if len(f.flagset.Args()) == 0 {
		fmt.Printf("You must specify a subcommand:\n")
		printUsage()
		os.Exit(1)
	}
	cmd, ok := subcommands[f.flagset.Arg(0)]
	if !ok {
		fmt.Printf("Unknown subcommand: %s\n", f.flagset.Arg(0))
		printUsage()
		os.Exit(1)
	}
	if err := cmd.run(f, logger, f.flagset.Args()[1:]); err != nil {
		logger.Error(
			"command failed",
			"command", f.flagset.Arg(0),
			"error", err,
		)
		os.Exit(1)
	}
}

func printUsage() {
	for _, name := range []string{
		"handshake",
		"decode-handshake",
		"decode-headers",
		"decode-block",
		"subscribe",
		"get-headers",
		"get-blocks",
		"announce-tx",
		"dump",
	} {
		fmt.Printf("  %s\n", subcommands[name].usage)
	}
}

func (f *globalFlags) protocolMagic() byron.ProtocolMagic {
	// #nosec G115 -- protocol magic values are 32-bit
	return byron.ProtocolMagic(uint32(f.networkMagic))
}

func decodeHexArg(args []string) ([]byte, error) {
	if len(args) != 1 {
		return nil, errors.New("expected a single hex argument")
	}
	data, err := hex.DecodeString(strings.TrimSpace(args[0]))
	if err != nil {
		return nil, fmt.Errorf("invalid hex: %w", err)
	}
	return data, nil
}

func printMessage(logger *slog.Logger, msg *legacy.Message) {
	logger.Debug(
		"built message",
		"type", msg.Type.String(),
		"payload_size", len(msg.Payload),
	)
	fmt.Printf("%s\n", msg.String())
}

func cmdHandshake(f *globalFlags, logger *slog.Logger, args []string) error {
	flagset := flag.NewFlagSet("handshake", flag.ExitOnError)
	describe := flagset.Bool("describe", false, "print the decoded handshake")
	if err := flagset.Parse(args); err != nil {
		return err
	}
	hs := legacy.NewHandshake(
		legacy.WithProtocolMagic(f.protocolMagic()),
	)
	data, err := hs.Encode()
	if err != nil {
		return err
	}
	logger.Debug(
		"encoded handshake",
		"protocol_magic", uint32(hs.ProtocolMagic),
		"version", hs.Version.String(),
		"size", len(data),
	)
	fmt.Printf("%s\n", hex.EncodeToString(data))
	if *describe {
		fmt.Print(hs.String())
	}
	return nil
}

func cmdDecodeHandshake(f *globalFlags, logger *slog.Logger, args []string) error {
	data, err := decodeHexArg(args)
	if err != nil {
		return err
	}
	hs, err := legacy.DecodeHandshake(data)
	if err != nil {
		return err
	}
	if hs.ProtocolMagic != f.protocolMagic() {
		logger.Warn(
			"peer protocol magic does not match selected network",
			"peer", uint32(hs.ProtocolMagic),
			"expected", uint32(f.protocolMagic()),
			"peer_network", gobyron.NetworkByProtocolMagic(hs.ProtocolMagic).String(),
		)
	}
	if hs.Equal(legacy.NewHandshake(legacy.WithProtocolMagic(hs.ProtocolMagic))) {
		logger.Debug("peer advertises the default handler tables")
	}
	fmt.Print(hs.String())
	return nil
}

func cmdDecodeHeaders(_ *globalFlags, logger *slog.Logger, args []string) error {
	data, err := decodeHexArg(args)
	if err != nil {
		return err
	}
	resp, err := legacy.DecodeBlockHeaderResponse(data)
	if err != nil {
		return err
	}
	switch r := resp.(type) {
	case *legacy.BlockHeaderResponseOk:
		logger.Debug("decoded header response", "headers", len(r.Headers))
	case *legacy.BlockHeaderResponseErr:
		logger.Warn("peer returned error", "message", r.Message)
	}
	fmt.Print(resp.String())
	return nil
}

func cmdDecodeBlock(_ *globalFlags, logger *slog.Logger, args []string) error {
	data, err := decodeHexArg(args)
	if err != nil {
		return err
	}
	resp, err := legacy.DecodeBlockResponse(data)
	if err != nil {
		return err
	}
	okResp, ok := resp.(*legacy.BlockResponseOk)
	if !ok {
		return fmt.Errorf("unexpected block response: %T", resp)
	}
	block := okResp.Block
	logger.Debug(
		"decoded block",
		"hash", block.Hash().String(),
		"epoch_boundary", block.IsEpochBoundary(),
	)
	fmt.Printf("%s\n", resp.String())
	for _, tx := range block.Transactions() {
		fmt.Printf("  %s\n", tx.String())
		for _, input := range tx.Inputs() {
			fmt.Printf("    input:  %s\n", input.String())
		}
		for _, output := range tx.Outputs() {
			fmt.Printf("    output: %s\n", output.String())
		}
	}
	return nil
}

func cmdSubscribe(_ *globalFlags, logger *slog.Logger, args []string) error {
	flagset := flag.NewFlagSet("subscribe", flag.ExitOnError)
	keepAlive := flagset.Bool("keep-alive", false, "request a keep-alive subscription")
	if err := flagset.Parse(args); err != nil {
		return err
	}
	msg, err := legacy.NewMsgSubscribe(*keepAlive)
	if err != nil {
		return err
	}
	printMessage(logger, msg)
	return nil
}

func parseHashes(args []string) ([]common.Blake2b256, error) {
	ret := make([]common.Blake2b256, 0, len(args))
	for _, arg := range args {
		hash, err := common.NewBlake2b256FromHex(arg)
		if err != nil {
			return nil, err
		}
		ret = append(ret, hash)
	}
	return ret, nil
}

func cmdGetHeaders(_ *globalFlags, logger *slog.Logger, args []string) error {
	if len(args) < 1 {
		return errors.New("expected a to hash (or -) and zero or more from hashes")
	}
	var to *byron.HeaderHash
	if args[0] != "-" {
		toHash, err := common.NewBlake2b256FromHex(args[0])
		if err != nil {
			return err
		}
		to = &toHash
	}
	froms, err := parseHashes(args[1:])
	if err != nil {
		return err
	}
	msg, err := legacy.NewMsgGetHeaders(froms, to)
	if err != nil {
		return err
	}
	printMessage(logger, msg)
	return nil
}

func cmdGetBlocks(_ *globalFlags, logger *slog.Logger, args []string) error {
	if len(args) != 2 {
		return errors.New("expected from and to hashes")
	}
	hashes, err := parseHashes(args)
	if err != nil {
		return err
	}
	msg, err := legacy.NewMsgGetBlocks(hashes[0], hashes[1])
	if err != nil {
		return err
	}
	printMessage(logger, msg)
	return nil
}

func cmdAnnounceTx(_ *globalFlags, logger *slog.Logger, args []string) error {
	if len(args) != 1 {
		return errors.New("expected a single transaction ID")
	}
	txId, err := common.NewBlake2b256FromHex(args[0])
	if err != nil {
		return err
	}
	msg, err := legacy.NewMsgAnnounceTx(txId)
	if err != nil {
		return err
	}
	printMessage(logger, msg)
	return nil
}

func cmdDump(_ *globalFlags, _ *slog.Logger, args []string) error {
	data, err := decodeHexArg(args)
	if err != nil {
		return err
	}
	var tmpData any
	if _, err := cbor.Decode(data, &tmpData); err != nil {
		return err
	}
	fmt.Print(cbor.DumpCborStructure(tmpData, ""))
	return nil
}
