// Copyright (C) 2020 The floof Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package app holds the shared execution logic behind both the floof root command
// and its run subcommand (spec.md §6's CLI surface): resolve flags into a logger and
// a Config, run the named task, and translate its Outcome into a process exit code.
package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	cage_zap "github.com/codeactual/floof/internal/cage/log/zap"
	"github.com/codeactual/floof/internal/floof"
)

// DefaultConfigPath is used when --config/-c is not given.
const DefaultConfigPath = "./floof.yaml"

// Flags collects the CLI surface shared by the root command and "run" subcommand.
type Flags struct {
	ConfigPath  string
	DebugConfig bool
	Verbosity   int
	Color       string
}

// flagNames are the keys BindFlags registers, in both cmd.Flags() and viper.
var flagNames = []string{"config", "debug-config", "verbose", "color"}

// BindFlags registers the CLI surface named in spec.md §6 on cmd and binds each flag
// through its own viper instance, so a FLOOF_-prefixed environment variable overrides
// the flag's default whenever the flag itself isn't given on the command line
// (matching the teacher's BOONE_ env-prefix convention, spec.md SPEC_FULL §2.9). Call
// ResolveFlags after cmd.Execute to read back the effective values.
func BindFlags(cmd *cobra.Command) *viper.Viper {
	cmd.Flags().StringP("config", "c", DefaultConfigPath, "path to the task config file")
	cmd.Flags().Bool("debug-config", false, "print the loaded task names before running")
	cmd.Flags().CountP("verbose", "v", "increase log verbosity (-v, -vv)")
	cmd.Flags().String("color", "auto", "color mode: never, auto, always")

	v := viper.New()
	v.SetEnvPrefix("FLOOF")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	for _, name := range flagNames {
		_ = v.BindPFlag(name, cmd.Flags().Lookup(name))
	}

	return v
}

// ResolveFlags snapshots v's effective flag values -- explicit flag, else FLOOF_ env
// var, else default -- into a Flags struct.
func ResolveFlags(v *viper.Viper) Flags {
	return Flags{
		ConfigPath:  v.GetString("config"),
		DebugConfig: v.GetBool("debug-config"),
		Verbosity:   v.GetInt("verbose"),
		Color:       v.GetString("color"),
	}
}

// Run resolves flags, loads the config, runs taskName to completion (or until ctx
// is cancelled by a signal), and returns the process exit code named in spec.md §3:
// 0 success, 1 error or missing task, 2 cancelled.
func Run(flags Flags, taskName string) int {
	logger := newLogger(flags.Verbosity, flags.Color)
	defer func() { _ = logger.Sync() }()
	floof.SetLogger(logger)

	configPath := flags.ConfigPath
	if configPath == "" {
		configPath = DefaultConfigPath
	}

	cfg, err := floof.ReadConfigFile(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read config file [%s]: %s\n", configPath, err)
		return 1
	}

	if flags.DebugConfig {
		fmt.Fprintf(os.Stderr, "%d task(s) loaded from [%s]:\n", len(cfg.Tasks), configPath)
		for name := range cfg.Tasks {
			fmt.Fprintf(os.Stderr, "- %s\n", name)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received signal, cancelling", cage_zap.Tag("floof", "cli"), zap.String("signal", sig.String()))
		cancel()
	}()

	root := floof.NewRootFrame()
	floof.SetVar(root, floof.WorkDir(cfg.RootDir))

	runner := &floof.TaskRunner{Config: cfg}
	res := runner.Run(ctx, root, taskName)

	if res.Err != nil {
		fmt.Fprintln(os.Stderr, errors.Cause(res.Err))
	}

	return res.Outcome.ExitCode()
}

// newLogger builds the process-wide zap logger from -v/-vv verbosity (0 is Info, 1+
// is Debug) and --color (never/auto/always select the level encoder; auto behaves
// like always since the actual TTY-detection formatter is an external collaborator
// per spec.md §1).
func newLogger(verbosity int, color string) *zap.Logger {
	cfg := zap.NewDevelopmentConfig()

	if color == "never" {
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	} else {
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	if verbosity >= 1 {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	} else {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}

	l, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return l
}
