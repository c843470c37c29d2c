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

// Package shutdown stops an externally launched Steam client, first asking
// it to exit and then killing it if it does not go away in time.
package shutdown

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"time"

	"github.com/ZaparooProject/winesteam/pkg/config"
	"github.com/ZaparooProject/winesteam/pkg/helpers/command"
	"github.com/ZaparooProject/winesteam/pkg/procprobe"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// DefaultGracePeriod is how long the client gets to react to each step.
const DefaultGracePeriod = 2 * time.Second

// ShutdownFlag asks a running Steam client to exit.
const ShutdownFlag = "-shutdown"

var ErrShutdownFailed = errors.New("steam did not shut down")

// State is a step of the shutdown escalation.
type State int

const (
	Running State = iota
	GracefulRequested
	Waiting1
	Recheck1
	ForceKillRequested
	Waiting2
	Recheck2
	Stopped
	Failed
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case GracefulRequested:
		return "graceful_requested"
	case Waiting1:
		return "waiting_1"
	case Recheck1:
		return "recheck_1"
	case ForceKillRequested:
		return "force_kill_requested"
	case Waiting2:
		return "waiting_2"
	case Recheck2:
		return "recheck_2"
	case Stopped:
		return "stopped"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Terminal reports whether no further transition follows s.
func (s State) Terminal() bool {
	return s == Stopped || s == Failed
}

// Sequencer drives the escalation for one process pattern.
type Sequencer struct {
	table       procprobe.Table
	executor    command.Executor
	clock       clockwork.Clock
	pattern     *regexp.Regexp
	env         map[string]string
	winePath    string
	gracePeriod time.Duration
}

// Option configures a Sequencer.
type Option func(*Sequencer)

// WithClock replaces the real clock, mainly for tests.
func WithClock(clock clockwork.Clock) Option {
	return func(s *Sequencer) {
		s.clock = clock
	}
}

// WithGracePeriod sets the wait between escalation steps.
func WithGracePeriod(d time.Duration) Option {
	return func(s *Sequencer) {
		s.gracePeriod = d
	}
}

// WithPattern sets the process name pattern. Defaults to procprobe.SteamPattern.
func WithPattern(pattern *regexp.Regexp) Option {
	return func(s *Sequencer) {
		s.pattern = pattern
	}
}

// WithWine sets the Wine binary and the environment overrides used when
// asking the client to exit.
func WithWine(winePath string, env map[string]string) Option {
	return func(s *Sequencer) {
		s.winePath = winePath
		s.env = env
	}
}

// New creates a Sequencer.
func New(table procprobe.Table, executor command.Executor, opts ...Option) *Sequencer {
	s := &Sequencer{
		table:       table,
		executor:    executor,
		clock:       clockwork.NewRealClock(),
		pattern:     procprobe.SteamPattern,
		winePath:    config.DefaultWinePath,
		gracePeriod: DefaultGracePeriod,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.clock == nil {
		s.clock = clockwork.NewRealClock()
	}
	return s
}

// GracePeriod returns the configured wait between steps.
func (s *Sequencer) GracePeriod() time.Duration {
	return s.gracePeriod
}

// Running reports whether a matching process currently exists.
func (s *Sequencer) Running(ctx context.Context) bool {
	_, ok := s.table.FindPID(ctx, s.pattern)
	return ok
}

// RequestShutdown asks the current match to exit and returns without
// waiting. It returns false if nothing was running or the request could not
// be sent.
func (s *Sequencer) RequestShutdown(ctx context.Context) bool {
	h, ok := procprobe.Find(ctx, s.table, s.pattern)
	if !ok {
		return false
	}

	exe := Executable(h)
	if exe == "" {
		log.Warn().Int32("pid", h.PID).Msg("cannot determine steam executable from command line")
		return false
	}

	log.Debug().Str("exe", exe).Int32("pid", h.PID).Msg("requesting steam shutdown")
	err := s.executor.StartWithOptions(
		ctx,
		command.StartOptions{Env: s.env},
		s.winePath, exe, ShutdownFlag,
	)
	if err != nil {
		log.Warn().Err(err).Str("exe", exe).Msg("failed to request steam shutdown")
		return false
	}
	return true
}

// Kill force-kills the current match. It returns false if nothing was
// running or the kill failed.
func (s *Sequencer) Kill(ctx context.Context) bool {
	pid, ok := s.table.FindPID(ctx, s.pattern)
	if !ok {
		return false
	}
	if err := s.table.Kill(ctx, pid); err != nil {
		log.Warn().Err(err).Int32("pid", pid).Msg("failed to kill steam")
		return false
	}
	return true
}

// Stop runs the full escalation: graceful request, wait, kill, wait. Each
// recheck looks the process up again, so one that exits between steps counts
// as stopped. The kill targets the pid found by the first recheck.
// It returns Failed and ErrShutdownFailed if the process outlives both
// steps. If ctx is cancelled during a wait, the state reached so far is
// returned with ctx.Err().
func (s *Sequencer) Stop(ctx context.Context) (State, error) {
	state := Running
	if !s.Running(ctx) {
		return s.transition(state, Stopped), nil
	}

	state = s.transition(state, GracefulRequested)
	s.RequestShutdown(ctx)

	state = s.transition(state, Waiting1)
	if err := s.wait(ctx); err != nil {
		return state, err
	}

	state = s.transition(state, Recheck1)
	pid, ok := s.table.FindPID(ctx, s.pattern)
	if !ok {
		return s.transition(state, Stopped), nil
	}

	log.Info().Int32("pid", pid).Msg("steam did not shut down, killing it")
	state = s.transition(state, ForceKillRequested)
	if err := s.table.Kill(ctx, pid); err != nil {
		log.Warn().Err(err).Int32("pid", pid).Msg("failed to kill steam")
	}

	state = s.transition(state, Waiting2)
	if err := s.wait(ctx); err != nil {
		return state, err
	}

	state = s.transition(state, Recheck2)
	if !s.Running(ctx) {
		return s.transition(state, Stopped), nil
	}

	log.Error().Msg("failed to shut down steam for windows")
	return s.transition(state, Failed), ErrShutdownFailed
}

func (s *Sequencer) wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-s.clock.After(s.gracePeriod):
		return nil
	}
}

func (*Sequencer) transition(from, to State) State {
	log.Debug().Stringer("from", from).Stringer("to", to).Msg("shutdown state")
	return to
}

var drivePath = regexp.MustCompile(`^[A-Za-z]:[\\/]`)

// Executable rebuilds the path of the running client from its working
// directory and first argument. Absolute Unix and drive-letter paths are
// used as they are.
func Executable(h procprobe.Handle) string {
	if len(h.Args) == 0 || h.Args[0] == "" {
		return ""
	}
	argv0 := h.Args[0]
	if filepath.IsAbs(argv0) || drivePath.MatchString(argv0) || h.Cwd == "" {
		return argv0
	}
	return filepath.Join(h.Cwd, argv0)
}
