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

// Package procprobe finds processes that were not started by us by matching
// against the live process table.
//
// When several processes match a pattern, the first one enumerated wins.
// Enumeration order comes from the OS (via gopsutil) and is not guaranteed
// to be stable across platforms or calls, so callers must not rely on which
// of several matches is returned.
package procprobe

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v4/process"
)

// SteamPattern matches the Windows Steam client process running under Wine.
var SteamPattern = regexp.MustCompile(`Steam\.exe$`)

// Handle is a snapshot of a matched process. It is only valid for the step
// that probed it; the process may exit at any time afterwards.
type Handle struct {
	Cwd     string
	Cmdline string
	Args    []string
	PID     int32
}

// Table is the process-table capability used by the shutdown sequencer and
// runner. Each Wine-based runner variant supplies its own pattern.
type Table interface {
	// FindPID returns the pid of the first process whose name matches pattern.
	FindPID(ctx context.Context, pattern *regexp.Regexp) (int32, bool)
	// Cwd returns the working directory of pid, or false if it has exited.
	Cwd(ctx context.Context, pid int32) (string, bool)
	// Cmdline returns the argument vector of pid, or false if it has exited.
	Cmdline(ctx context.Context, pid int32) ([]string, bool)
	// Kill sends an unconditional kill. A pid that no longer exists is not an error.
	Kill(ctx context.Context, pid int32) error
}

type entry struct {
	name string
	pid  int32
}

// Probe implements Table using gopsutil.
type Probe struct {
	list func(ctx context.Context) ([]entry, error)
}

// New creates a Probe backed by the OS process table.
func New() *Probe {
	return &Probe{list: listProcesses}
}

// Compile-time interface implementation check.
var _ Table = (*Probe)(nil)

func listProcesses(ctx context.Context) ([]entry, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list processes: %w", err)
	}

	entries := make([]entry, 0, len(procs))
	for _, p := range procs {
		name, err := p.NameWithContext(ctx)
		if err != nil {
			// exited or not readable, either way not a candidate
			continue
		}
		entries = append(entries, entry{pid: p.Pid, name: name})
	}
	return entries, nil
}

// FindPID returns the pid of the first enumerated process whose name matches.
func (p *Probe) FindPID(ctx context.Context, pattern *regexp.Regexp) (int32, bool) {
	entries, err := p.list(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("failed to scan process table")
		return 0, false
	}

	for _, e := range entries {
		if pattern.MatchString(e.name) {
			log.Debug().Int32("pid", e.pid).Str("name", e.name).Msg("matched process")
			return e.pid, true
		}
	}
	return 0, false
}

// Cwd returns the working directory of pid.
func (*Probe) Cwd(ctx context.Context, pid int32) (string, bool) {
	proc, err := process.NewProcessWithContext(ctx, pid)
	if err != nil {
		return "", false
	}
	cwd, err := proc.CwdWithContext(ctx)
	if err != nil || cwd == "" {
		log.Debug().Err(err).Int32("pid", pid).Msg("failed to read process cwd")
		return "", false
	}
	return cwd, true
}

// Cmdline returns the argument vector of pid.
func (*Probe) Cmdline(ctx context.Context, pid int32) ([]string, bool) {
	proc, err := process.NewProcessWithContext(ctx, pid)
	if err != nil {
		return nil, false
	}
	args, err := proc.CmdlineSliceWithContext(ctx)
	if err != nil || len(args) == 0 {
		log.Debug().Err(err).Int32("pid", pid).Msg("failed to read process cmdline")
		return nil, false
	}
	return args, true
}

// Kill sends SIGKILL (TerminateProcess on Windows) to pid.
func (*Probe) Kill(ctx context.Context, pid int32) error {
	proc, err := process.NewProcessWithContext(ctx, pid)
	if errors.Is(err, process.ErrorProcessNotRunning) {
		log.Debug().Int32("pid", pid).Msg("process already gone, nothing to kill")
		return nil
	} else if err != nil {
		return fmt.Errorf("failed to open process %d: %w", pid, err)
	}

	if err := proc.KillWithContext(ctx); err != nil {
		if exists, existsErr := process.PidExistsWithContext(ctx, pid); existsErr == nil && !exists {
			log.Debug().Int32("pid", pid).Msg("process exited before kill")
			return nil
		}
		return fmt.Errorf("failed to kill process %d: %w", pid, err)
	}

	log.Debug().Int32("pid", pid).Msg("sent kill to process")
	return nil
}

// Find probes table for pattern and returns a full Handle. It returns false
// if nothing matches or the match exits before its details can be read.
func Find(ctx context.Context, table Table, pattern *regexp.Regexp) (Handle, bool) {
	pid, ok := table.FindPID(ctx, pattern)
	if !ok {
		return Handle{}, false
	}

	cwd, ok := table.Cwd(ctx, pid)
	if !ok {
		return Handle{}, false
	}

	args, ok := table.Cmdline(ctx, pid)
	if !ok {
		return Handle{}, false
	}

	return Handle{
		PID:     pid,
		Cwd:     cwd,
		Args:    args,
		Cmdline: strings.Join(args, " "),
	}, true
}
