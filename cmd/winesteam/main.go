// Winesteam
// Copyright (c) 2026 The Zaparoo Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Winesteam.
//
// Winesteam is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Winesteam is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Winesteam.  If not, see <http://www.gnu.org/licenses/>.

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/ZaparooProject/winesteam/pkg/cli"
	"github.com/ZaparooProject/winesteam/pkg/config"
	"github.com/ZaparooProject/winesteam/pkg/helpers/command"
	"github.com/ZaparooProject/winesteam/pkg/procprobe"
	"github.com/ZaparooProject/winesteam/pkg/runner"
	"github.com/ZaparooProject/winesteam/pkg/ui/dialogs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cli.Exit(run())
}

func run() error {
	flags := cli.SetupFlags(flag.CommandLine)
	if exit, err := flags.Pre(os.Args[1:], os.Stdout); exit {
		return err
	}

	cfg, err := cli.Setup(
		config.BaseDefaults,
		[]io.Writer{zerolog.ConsoleWriter{Out: os.Stderr}},
	)
	if err != nil {
		return err
	}

	defer func() {
		if err := recover(); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Panic: %s\n", err)
			log.Fatal().Msgf("panic: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts := []runner.Option{}
	switch {
	case *flags.SteamDir != "":
		opts = append(opts,
			runner.WithPrompter(dialogs.Fixed(*flags.SteamDir)),
			runner.WithReporter(dialogs.Log{}),
		)
	case *flags.Headless:
		opts = append(opts, runner.WithReporter(dialogs.Log{}))
	default:
		native := dialogs.Native{}
		opts = append(opts, runner.WithPrompter(native), runner.WithReporter(native))
	}

	r := runner.New(cfg, &command.RealExecutor{}, procprobe.New(), opts...)
	return flags.Post(ctx, r, os.Stdout)
}
