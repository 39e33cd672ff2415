// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// echoline-peer is the TCP peer for the echoline client. Each accepted
// connection gets one read, one transformed reply, and a close.
//
// Usage:
//
//	echoline-peer [--config FILE] [--listen ADDR] [--transform NAME] [--buffer-size N]
//	              [--read-timeout D] [--status-listen ADDR] [--reuse-port]
//	echoline-peer status --address ADDR [--format json|diag]
//
// The status subcommand fetches the CBOR status document from a
// running peer's --status-listen address and prints it as JSON, or in
// CBOR diagnostic notation with --format diag.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/echoline/lib/clock"
	"github.com/bureau-foundation/echoline/lib/codec"
	"github.com/bureau-foundation/echoline/lib/config"
	"github.com/bureau-foundation/echoline/lib/echopeer"
	"github.com/bureau-foundation/echoline/lib/process"
	"github.com/bureau-foundation/echoline/lib/version"
	"github.com/bureau-foundation/echoline/transport"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	command := &peerCommand{
		stdout: os.Stdout,
		logger: process.NewLogger().With("binary", "echoline-peer"),
		clock:  clock.Real(),
	}
	if err := command.run(ctx, os.Args[1:]); err != nil {
		process.Fatal(err)
	}
}

type peerCommand struct {
	stdout io.Writer
	logger *slog.Logger
	clock  clock.Clock

	// listening, when set, receives the line and status addresses once
	// both listeners are bound. Tests use it to learn ephemeral ports.
	listening func(lineAddress, statusAddress string)
}

func (c *peerCommand) run(ctx context.Context, args []string) error {
	if len(args) > 0 && args[0] == "status" {
		return c.runStatus(ctx, args[1:])
	}
	return c.runServe(ctx, args)
}

func (c *peerCommand) runServe(ctx context.Context, args []string) error {
	var (
		configPath   string
		listen       string
		transform    string
		bufferSize   int
		readTimeout  time.Duration
		statusListen string
		reusePort    bool
		showVersion  bool
		help         bool
	)
	flagSet := pflag.NewFlagSet("echoline-peer", pflag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagSet.StringVar(&configPath, "config", "", "path to config file (default: $"+config.EnvironmentVariable+", else built-in defaults)")
	flagSet.StringVar(&listen, "listen", "", "line listener address (overrides peer.listen)")
	flagSet.StringVar(&transform, "transform", "", "reply transform: echo, upper, reverse (overrides peer.transform)")
	flagSet.IntVar(&bufferSize, "buffer-size", 0, "maximum bytes read per connection (overrides peer.buffer_size)")
	flagSet.DurationVar(&readTimeout, "read-timeout", 0, "wait limit for client bytes (overrides peer.read_timeout)")
	flagSet.StringVar(&statusListen, "status-listen", "", "HTTP status listener address (overrides peer.status_listen)")
	flagSet.BoolVar(&reusePort, "reuse-port", false, "set SO_REUSEPORT so several peers can share the listen address (overrides peer.reuse_port)")
	flagSet.BoolVar(&showVersion, "version", false, "print version information and exit")
	flagSet.BoolVarP(&help, "help", "h", false, "show help")

	if err := flagSet.Parse(args); err != nil {
		return err
	}
	if help {
		printHelp(c.stdout, flagSet)
		return nil
	}
	if showVersion {
		version.Fprint(c.stdout, "echoline-peer")
		return nil
	}
	if flagSet.NArg() > 0 {
		return fmt.Errorf("unexpected argument: %s", flagSet.Arg(0))
	}

	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}
	if flagSet.Changed("listen") {
		cfg.Peer.Listen = listen
	}
	if flagSet.Changed("transform") {
		cfg.Peer.Transform = transform
	}
	if flagSet.Changed("buffer-size") {
		cfg.Peer.BufferSize = bufferSize
	}
	if flagSet.Changed("read-timeout") {
		cfg.Peer.ReadTimeout = config.Duration(readTimeout)
	}
	if flagSet.Changed("status-listen") {
		cfg.Peer.StatusListen = statusListen
	}
	if flagSet.Changed("reuse-port") {
		cfg.Peer.ReusePort = reusePort
	}
	if err := cfg.ValidatePeer(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	parsedTransform, err := echopeer.ParseTransform(cfg.Peer.Transform)
	if err != nil {
		return err
	}
	server := echopeer.New(echopeer.Config{
		BufferSize:  cfg.Peer.BufferSize,
		Transform:   parsedTransform,
		ReadTimeout: time.Duration(cfg.Peer.ReadTimeout),
	}, c.logger, c.clock)

	lineListener, err := transport.NewStreamListener(cfg.Peer.Listen,
		transport.ListenOptions{ReusePort: cfg.Peer.ReusePort}, c.logger)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", cfg.Peer.Listen, err)
	}
	defer lineListener.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	statusDone := make(chan error, 1)
	statusAddress := ""
	if cfg.Peer.StatusListen != "" {
		statusListener, err := transport.NewTCPListener(cfg.Peer.StatusListen)
		if err != nil {
			return fmt.Errorf("listening for status on %s: %w", cfg.Peer.StatusListen, err)
		}
		defer statusListener.Close()
		statusAddress = statusListener.Address()
		c.logger.Info("status endpoint listening", "address", statusAddress)
		go func() {
			statusDone <- statusListener.Serve(ctx, server.StatusHandler())
		}()
	} else {
		statusDone <- nil
	}

	if c.listening != nil {
		c.listening(lineListener.Address(), statusAddress)
	}

	serveErr := server.Serve(ctx, lineListener)
	cancel()
	if err := <-statusDone; err != nil {
		c.logger.Error("status endpoint failed", "error", err)
	}

	status := server.Status()
	c.logger.Info("echo peer stopped",
		"connections", status.Connections,
		"exchanges", status.Exchanges,
		"failures", status.Failures,
	)
	return serveErr
}

func (c *peerCommand) runStatus(ctx context.Context, args []string) error {
	var address, format string
	var dialTimeout time.Duration
	flagSet := pflag.NewFlagSet("echoline-peer status", pflag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagSet.StringVar(&address, "address", "", "status listener address of the peer (required)")
	flagSet.StringVar(&format, "format", "json", "output format: json, or diag for CBOR diagnostic notation")
	flagSet.DurationVar(&dialTimeout, "dial-timeout", 5*time.Second, "connect timeout")
	if err := flagSet.Parse(args); err != nil {
		return err
	}
	if address == "" {
		return fmt.Errorf("--address is required")
	}
	if format != "json" && format != "diag" {
		return fmt.Errorf("unknown --format %q (want json or diag)", format)
	}

	dialer := &transport.TCPDialer{Timeout: dialTimeout}
	if format == "diag" {
		document, err := echopeer.FetchStatusDocument(ctx, dialer, address)
		if err != nil {
			return err
		}
		diagnostic, err := codec.Diagnose(document)
		if err != nil {
			return fmt.Errorf("rendering status from %s: %w", address, err)
		}
		fmt.Fprintln(c.stdout, diagnostic)
		return nil
	}

	status, err := echopeer.FetchStatus(ctx, dialer, address)
	if err != nil {
		return err
	}
	encoder := json.NewEncoder(c.stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(status)
}

func printHelp(w io.Writer, flagSet *pflag.FlagSet) {
	fmt.Fprintf(w, `echoline-peer: answer each connection with one transformed reply.

For every client: read once (up to --buffer-size bytes), apply the
transform, write the result, close. Stops on SIGINT or SIGTERM after
in-flight exchanges finish.

Usage:
  echoline-peer [flags]
  echoline-peer status --address ADDR [--format json|diag]

Flags:
%s`, flagSet.FlagUsages())
}
