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

// Package launchplan assembles the Wine command lines used to drive the
// Windows Steam client.
package launchplan

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/ZaparooProject/winesteam/pkg/config"
	"github.com/ZaparooProject/winesteam/pkg/steam"
	"github.com/kballard/go-shellquote"
)

const (
	// CompatFlag disables DirectWrite, which renders the Steam UI unreadable under Wine.
	CompatFlag = "-no-dwrite"
	// AppLaunchFlag makes Steam start the given app ID.
	AppLaunchFlag = "-applaunch"

	EnvWineDebug  = "WINEDEBUG"
	EnvWinePrefix = "WINEPREFIX"
	// DefaultWineDebug silences Wine's fixme channel.
	DefaultWineDebug = "fixme-all"
)

// Mode selects what the plan asks Steam to do.
type Mode int

const (
	ModeLaunch Mode = iota
	ModeInstall
	ModeValidate
)

func (m Mode) String() string {
	switch m {
	case ModeLaunch:
		return "launch"
	case ModeInstall:
		return "install"
	case ModeValidate:
		return "validate"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

var (
	ErrMissingAppID   = errors.New("app ID is required")
	ErrUnknownMode    = errors.New("unknown launch mode")
	ErrMissingExePath = errors.New("steam executable path is empty")
)

// Plan is a ready-to-run command. It is built per launch and handed straight
// to the executor.
type Plan struct {
	Env      map[string]string
	Args     []string
	Detached bool
}

// Name returns the program to execute.
func (p Plan) Name() string {
	if len(p.Args) == 0 {
		return ""
	}
	return p.Args[0]
}

// Argv returns the arguments after the program name.
func (p Plan) Argv() []string {
	if len(p.Args) < 2 {
		return nil
	}
	return p.Args[1:]
}

// Environ returns the env overrides as sorted KEY=VALUE pairs.
func (p Plan) Environ() []string {
	keys := make([]string, 0, len(p.Env))
	for k := range p.Env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	env := make([]string, 0, len(keys))
	for _, k := range keys {
		env = append(env, k+"="+p.Env[k])
	}
	return env
}

// CommandLine renders the plan as a shell command, env assignments first and
// the Wine and Steam.exe paths double-quoted.
func (p Plan) CommandLine() string {
	parts := make([]string, 0, len(p.Env)+len(p.Args))
	for _, kv := range p.Environ() {
		k, v, _ := strings.Cut(kv, "=")
		parts = append(parts, k+"="+shellquote.Join(v))
	}
	for i, arg := range p.Args {
		if i < 2 {
			parts = append(parts, `"`+strings.ReplaceAll(arg, `"`, `\"`)+`"`)
			continue
		}
		parts = append(parts, shellquote.Join(arg))
	}
	return strings.Join(parts, " ")
}

// Env returns the environment overrides for running anything under the
// given Wine prefix. An empty prefix leaves Wine on its default.
func Env(prefix string) map[string]string {
	env := map[string]string{
		EnvWineDebug: DefaultWineDebug,
	}
	if prefix != "" {
		env[EnvWinePrefix] = prefix
	}
	return env
}

// Build assembles the plan for mode. appID and args override the values in
// cfg when non-empty. Build never touches the filesystem: a missing
// Steam.exe is reported by whoever executes the plan.
//
//nolint:gocritic // config snapshot passed by value on purpose
func Build(cfg config.RunnerConfig, mode Mode, appID, args string) (Plan, error) {
	if cfg.SteamPath == "" {
		return Plan{}, ErrMissingExePath
	}
	if appID == "" {
		appID = cfg.AppID
	}
	if args == "" {
		args = cfg.Args
	}

	wine := cfg.WinePath
	if wine == "" {
		wine = config.DefaultWinePath
	}

	plan := Plan{
		Args: []string{wine, cfg.SteamPath, CompatFlag},
		Env:  Env(cfg.Prefix),
	}

	switch mode {
	case ModeLaunch:
		if appID != "" {
			if err := steam.ValidateAppID(appID); err != nil {
				return Plan{}, err
			}
			plan.Args = append(plan.Args, AppLaunchFlag, appID)
		}
		if args != "" {
			extra, err := shellquote.Split(args)
			if err != nil {
				return Plan{}, fmt.Errorf("failed to parse game arguments: %w", err)
			}
			plan.Args = append(plan.Args, extra...)
		}
	case ModeInstall, ModeValidate:
		if appID == "" {
			return Plan{}, ErrMissingAppID
		}
		if err := steam.ValidateAppID(appID); err != nil {
			return Plan{}, err
		}
		uri := steam.InstallURI(appID)
		if mode == ModeValidate {
			uri = steam.ValidateURI(appID)
		}
		plan.Args = append(plan.Args, uri)
		// Steam is already running; it takes over from here.
		plan.Detached = true
	default:
		return Plan{}, fmt.Errorf("%w: %v", ErrUnknownMode, mode)
	}

	return plan, nil
}
