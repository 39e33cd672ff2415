// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// echoline sends one line of text to a peer and prints the reply.
//
// It prompts for a sentence, connects to the configured peer over TCP,
// sends the line's bytes exactly (without the line terminator), reads
// one reply of at most buffer-size bytes, prints it prefixed with
// "From Server: ", and exits. Empty input exits with status 1 before
// any connection is made. Connection failures are not retried.
//
// Usage:
//
//	echoline [--config FILE] [--host HOST] [--port PORT] [--buffer-size N] [--dial-timeout D]
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/echoline/lib/config"
	"github.com/bureau-foundation/echoline/lib/process"
	"github.com/bureau-foundation/echoline/lib/session"
	"github.com/bureau-foundation/echoline/lib/version"
	"github.com/bureau-foundation/echoline/transport"
)

const (
	prompt      = "Input lowercase sentence: "
	replyPrefix = "From Server: "
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	command := &lineCommand{
		stdin:  os.Stdin,
		stdout: os.Stdout,
		logger: process.NewLogger().With("binary", "echoline"),
		dialer: func(timeout time.Duration) transport.Dialer {
			return &transport.TCPDialer{Timeout: timeout}
		},
	}
	if err := command.run(ctx, os.Args[1:]); err != nil {
		process.Fatal(err)
	}
}

// lineCommand holds the process-level collaborators so tests can run
// the command against in-memory streams and peers.
type lineCommand struct {
	stdin  io.Reader
	stdout io.Writer
	logger *slog.Logger
	dialer func(timeout time.Duration) transport.Dialer
}

type lineFlags struct {
	configPath  string
	host        string
	port        int
	bufferSize  int
	dialTimeout time.Duration
	showVersion bool
	help        bool
}

func (c *lineCommand) run(ctx context.Context, args []string) error {
	var flags lineFlags
	flagSet := pflag.NewFlagSet("echoline", pflag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagSet.StringVar(&flags.configPath, "config", "", "path to config file (default: $"+config.EnvironmentVariable+", else built-in defaults)")
	flagSet.StringVar(&flags.host, "host", "", "peer host (overrides client.host)")
	flagSet.IntVar(&flags.port, "port", 0, "peer port (overrides client.port)")
	flagSet.IntVar(&flags.bufferSize, "buffer-size", 0, "maximum reply bytes (overrides client.buffer_size)")
	flagSet.DurationVar(&flags.dialTimeout, "dial-timeout", 0, "connect timeout (overrides client.dial_timeout)")
	flagSet.BoolVar(&flags.showVersion, "version", false, "print version information and exit")
	flagSet.BoolVarP(&flags.help, "help", "h", false, "show help")

	if err := flagSet.Parse(args); err != nil {
		return err
	}
	if flags.help {
		printHelp(c.stdout, flagSet)
		return nil
	}
	if flags.showVersion {
		version.Fprint(c.stdout, "echoline")
		return nil
	}
	if flagSet.NArg() > 0 {
		return fmt.Errorf("unexpected argument: %s", flagSet.Arg(0))
	}

	cfg, err := loadConfig(flags.configPath)
	if err != nil {
		return err
	}
	if flagSet.Changed("host") {
		cfg.Client.Host = flags.host
	}
	if flagSet.Changed("port") {
		cfg.Client.Port = flags.port
	}
	if flagSet.Changed("buffer-size") {
		cfg.Client.BufferSize = flags.bufferSize
	}
	if flagSet.Changed("dial-timeout") {
		cfg.Client.DialTimeout = config.Duration(flags.dialTimeout)
	}
	if err := cfg.ValidateClient(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	fmt.Fprint(c.stdout, prompt)
	line, err := readLine(c.stdin)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	if line == "" {
		return session.ErrEmptyMessage
	}

	logger := c.logger.With("peer", cfg.Client.Address())
	logger.Debug("sending line", "bytes", len(line))

	dialer := c.dialer(time.Duration(cfg.Client.DialTimeout))
	reply, err := session.Exchange(ctx, cfg.Client.Session(), dialer, []byte(line))
	if err != nil {
		return err
	}
	logger.Debug("received reply", "bytes", len(reply))

	fmt.Fprintf(c.stdout, "%s%s\n", replyPrefix, reply)
	return nil
}

// loadConfig honours --config first, then ECHOLINE_CONFIG, then the
// built-in defaults.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}

// readLine reads one line from r and strips its terminator. End of
// input without a newline still yields the text read so far.
func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	return line, nil
}

func printHelp(w io.Writer, flagSet *pflag.FlagSet) {
	fmt.Fprintf(w, `echoline: send one line to a peer and print its reply.

Reads one line from stdin after the prompt, sends it to the peer
without framing, waits for one reply of at most --buffer-size bytes,
and prints it. Empty input exits with status 1 without connecting.

Usage:
  echoline [flags]

Flags:
%s`, flagSet.FlagUsages())
}
