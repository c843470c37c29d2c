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

// Package command provides an abstraction over exec.Command for testability.
package command

import (
	"context"
	"os"
	"os/exec"
	"sort"
	"strings"
)

// StartOptions configures how a command is started.
type StartOptions struct {
	// Env is merged over the current process environment.
	Env map[string]string
	// Dir is the working directory. Empty means the current directory.
	Dir string
}

// Executor provides an abstraction over exec.Command for testability.
// This allows commands to be mocked in tests without executing real system commands.
type Executor interface {
	// Run executes a command and waits for it to complete.
	// Returns an error if the command fails to start or exits with non-zero status.
	Run(ctx context.Context, name string, args ...string) error

	// RunWithOptions executes a command with environment overrides and waits for it.
	RunWithOptions(ctx context.Context, opts StartOptions, name string, args ...string) error

	// Start starts a command without waiting for it to complete (fire-and-forget).
	// Returns an error if the command fails to start.
	Start(ctx context.Context, name string, args ...string) error

	// StartWithOptions starts a command with environment overrides without waiting.
	StartWithOptions(ctx context.Context, opts StartOptions, name string, args ...string) error
}

// RealExecutor uses actual exec.Command to execute system commands.
// This is the production implementation used in normal operation.
type RealExecutor struct{}

// Run executes a system command using exec.CommandContext.
//
//nolint:wrapcheck // Wrapping exec errors loses important context
func (*RealExecutor) Run(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Run()
}

// RunWithOptions executes a system command with the given options and waits for it.
//
//nolint:wrapcheck // Wrapping exec errors loses important context
func (*RealExecutor) RunWithOptions(
	ctx context.Context,
	opts StartOptions,
	name string,
	args ...string,
) error {
	return newCmd(ctx, opts, name, args...).Run()
}

// Start starts a command without waiting for it to complete. Cancelling ctx
// after Start returns does not kill the child.
//
//nolint:wrapcheck // Wrapping exec errors loses important context
func (e *RealExecutor) Start(ctx context.Context, name string, args ...string) error {
	return e.StartWithOptions(ctx, StartOptions{}, name, args...)
}

// StartWithOptions starts a command with the given options without waiting.
// The child is reaped in the background and outlives ctx.
//
//nolint:wrapcheck // Wrapping exec errors loses important context
func (*RealExecutor) StartWithOptions(
	ctx context.Context,
	opts StartOptions,
	name string,
	args ...string,
) error {
	cmd := newCmd(context.WithoutCancel(ctx), opts, name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() {
		_ = cmd.Wait()
	}()
	return nil
}

func newCmd(ctx context.Context, opts StartOptions, name string, args ...string) *exec.Cmd {
	//nolint:gosec // G204: callers build argv from validated config
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = opts.Dir
	if len(opts.Env) > 0 {
		cmd.Env = MergeEnv(os.Environ(), opts.Env)
	}
	return cmd
}

// MergeEnv returns base with every key in overrides set, replacing any
// existing entry for that key. Added keys are appended in sorted order.
func MergeEnv(base []string, overrides map[string]string) []string {
	result := make([]string, 0, len(base)+len(overrides))
	seen := make(map[string]bool, len(overrides))
	for _, kv := range base {
		key, _, _ := strings.Cut(kv, "=")
		if v, ok := overrides[key]; ok {
			if !seen[key] {
				result = append(result, key+"="+v)
				seen[key] = true
			}
			continue
		}
		result = append(result, kv)
	}

	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		if !seen[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		result = append(result, k+"="+overrides[k])
	}
	return result
}
