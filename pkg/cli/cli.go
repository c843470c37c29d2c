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

// Package cli implements the winesteam command line.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ZaparooProject/winesteam/internal/telemetry"
	"github.com/ZaparooProject/winesteam/pkg/config"
	"github.com/ZaparooProject/winesteam/pkg/helpers"
	"github.com/ZaparooProject/winesteam/pkg/launchplan"
	"github.com/ZaparooProject/winesteam/pkg/runner"
	"github.com/rs/zerolog/log"
)

var (
	ErrNoAction        = errors.New("no action given")
	ErrFlagNeedsValue  = errors.New("flag requires a value")
	ErrDataPathMissing = errors.New("game data path not found")
)

// Runner is the part of runner.Runner the command line drives.
type Runner interface {
	Install(ctx context.Context, installerPath string) error
	Prelaunch(ctx context.Context) error
	Play() (launchplan.Plan, error)
	Launch(ctx context.Context) (launchplan.Plan, error)
	Stop(ctx context.Context) error
	InstallGame(ctx context.Context, appID string) error
	ValidateGame(ctx context.Context, appID string) error
	GameData(appID string) runner.InstalledApp
	BrowseDir(ctx context.Context) (string, bool)
	AppIDs() []string
	SteamAppsPath() (string, error)
	Status(ctx context.Context) runner.Status
}

type Flags struct {
	set          *flag.FlagSet
	Installer    *string
	InstallGame  *string
	ValidateGame *string
	GameData     *string
	SteamDir     *string
	Version      *bool
	Install      *bool
	Status       *bool
	Play         *bool
	Launch       *bool
	Prelaunch    *bool
	Stop         *bool
	ListApps     *bool
	SteamApps    *bool
	Browse       *bool
	Headless     *bool
}

// SetupFlags defines every flag on set.
func SetupFlags(set *flag.FlagSet) *Flags {
	return &Flags{
		set: set,
		Version: set.Bool(
			"version",
			false,
			"print version and exit",
		),
		Install: set.Bool(
			"install",
			false,
			"register Steam for Windows, prompting for its folder unless -installer is set",
		),
		Installer: set.String(
			"installer",
			"",
			"path to SteamSetup.msi to install quietly with -install",
		),
		SteamDir: set.String(
			"steam-dir",
			"",
			"answer the install folder prompt with this directory",
		),
		Status: set.Bool(
			"status",
			false,
			"print installation and process status",
		),
		Play: set.Bool(
			"play",
			false,
			"print the launch command for the configured game",
		),
		Launch: set.Bool(
			"launch",
			false,
			"stop any running Steam and launch the configured game",
		),
		Prelaunch: set.Bool(
			"prelaunch",
			false,
			"stop any running Steam client",
		),
		Stop: set.Bool(
			"stop",
			false,
			"shut down Steam and the Wine prefix",
		),
		InstallGame: set.String(
			"install-game",
			"",
			"ask Steam to install an app ID",
		),
		ValidateGame: set.String(
			"validate-game",
			"",
			"ask Steam to verify the files of an app ID",
		),
		GameData: set.String(
			"game-data",
			"",
			"print the data directory of an app ID",
		),
		ListApps: set.Bool(
			"list-apps",
			false,
			"list the app IDs known to Steam",
		),
		SteamApps: set.Bool(
			"steamapps",
			false,
			"print the steamapps/common directory",
		),
		Browse: set.Bool(
			"browse",
			false,
			"print the configured game's directory",
		),
		Headless: set.Bool(
			"headless",
			false,
			"never open dialogs, log errors instead",
		),
	}
}

func (f *Flags) isFlagPassed(name string) bool {
	found := false
	f.set.Visit(func(fl *flag.Flag) {
		if fl.Name == name {
			found = true
		}
	})
	return found
}

// Pre parses args and handles flags that need no setup. It reports true
// when the program should exit straight away.
func (f *Flags) Pre(args []string, out io.Writer) (bool, error) {
	if err := f.set.Parse(args); err != nil {
		return true, fmt.Errorf("failed to parse flags: %w", err)
	}

	if *f.Version {
		_, _ = fmt.Fprintf(out, "winesteam v%s\n", config.AppVersion)
		return true, nil
	}
	return false, nil
}

func requireValue(name, value string) error {
	if value == "" {
		return fmt.Errorf("%w: -%s", ErrFlagNeedsValue, name)
	}
	return nil
}

// Post runs the requested action against r and writes results to out.
func (f *Flags) Post(ctx context.Context, r Runner, out io.Writer) error {
	switch {
	case *f.Install:
		if err := r.Install(ctx, *f.Installer); err != nil {
			return fmt.Errorf("install failed: %w", err)
		}
		_, _ = fmt.Fprintln(out, "Steam for Windows installed")
	case *f.Status:
		st := r.Status(ctx)
		_, _ = fmt.Fprintf(out, "steam_path: %s\n", st.SteamPath)
		_, _ = fmt.Fprintf(out, "wine: %t\n", st.WineAvailable)
		_, _ = fmt.Fprintf(out, "installed: %t\n", st.Installed)
		_, _ = fmt.Fprintf(out, "running: %t\n", st.SteamRunning)
	case *f.Play:
		plan, err := r.Play()
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(out, plan.CommandLine())
	case *f.Launch:
		plan, err := r.Launch(ctx)
		if err != nil {
			return fmt.Errorf("launch failed: %w", err)
		}
		log.Info().Str("command", plan.CommandLine()).Msg("launched game")
	case *f.Prelaunch:
		if err := r.Prelaunch(ctx); err != nil {
			return err
		}
	case *f.Stop:
		if err := r.Stop(ctx); err != nil {
			return err
		}
	case f.isFlagPassed("install-game"):
		if err := requireValue("install-game", *f.InstallGame); err != nil {
			return err
		}
		return r.InstallGame(ctx, *f.InstallGame)
	case f.isFlagPassed("validate-game"):
		if err := requireValue("validate-game", *f.ValidateGame); err != nil {
			return err
		}
		return r.ValidateGame(ctx, *f.ValidateGame)
	case f.isFlagPassed("game-data"):
		app := r.GameData(*f.GameData)
		if !app.Installed() {
			return fmt.Errorf("%w: %s", ErrDataPathMissing, app.AppID)
		}
		_, _ = fmt.Fprintln(out, app.DataPath)
	case *f.ListApps:
		ids := r.AppIDs()
		if len(ids) > 0 {
			_, _ = fmt.Fprintln(out, strings.Join(ids, "\n"))
		}
	case *f.SteamApps:
		path, err := r.SteamAppsPath()
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(out, path)
	case *f.Browse:
		dir, ok := r.BrowseDir(ctx)
		if !ok {
			return ErrDataPathMissing
		}
		_, _ = fmt.Fprintln(out, dir)
	default:
		return ErrNoAction
	}
	return nil
}

// Setup initializes logging and the user config.
//
//nolint:gocritic // config struct copied for immutability
func Setup(defaultConfig config.Values, writers []io.Writer) (*config.Instance, error) {
	cfgDir := helpers.ConfigDir()
	if err := helpers.EnsureDirectories(cfgDir, helpers.LogDir()); err != nil {
		return nil, fmt.Errorf("error creating directories: %w", err)
	}

	if err := helpers.InitLogging(helpers.LogDir(), writers...); err != nil {
		return nil, fmt.Errorf("error initializing logging: %w", err)
	}

	cfg, err := config.NewConfig(cfgDir, defaultConfig)
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}

	helpers.SetLogLevel(cfg.DebugLogging())
	log.Info().Str("path", cfg.Path()).Msg("loaded config")

	// Initialize error reporting (opt-in)
	if err := telemetry.Init(
		cfg.ErrorReporting(),
		cfg.SentryDSN(),
		cfg.DeviceID(),
		config.AppVersion,
	); err != nil {
		log.Warn().Err(err).Msg("failed to initialize error reporting")
	}

	return cfg, nil
}

// Exit prints err to stderr and exits non-zero, flushing telemetry first.
func Exit(err error) {
	telemetry.Close()
	if err == nil {
		os.Exit(0)
	}
	_, _ = fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	os.Exit(1)
}
