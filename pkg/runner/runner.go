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

// Package runner runs Windows Steam games through a Wine-hosted Steam client
// that is launched, observed and stopped from the outside.
package runner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/ZaparooProject/winesteam/pkg/config"
	"github.com/ZaparooProject/winesteam/pkg/helpers/command"
	"github.com/ZaparooProject/winesteam/pkg/launchplan"
	"github.com/ZaparooProject/winesteam/pkg/procprobe"
	"github.com/ZaparooProject/winesteam/pkg/shutdown"
	"github.com/ZaparooProject/winesteam/pkg/steam"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

const (
	// SteamExe is the client executable inside a Steam install directory.
	SteamExe = "Steam.exe"
	// InstallPromptTitle is shown when asking for an existing install.
	InstallPromptTitle = "Where is Steam.exe installed?"
	// MsgSteamNotFound is shown when the chosen directory has no Steam.exe.
	MsgSteamNotFound = "Can't find Steam.exe in the selected folder"

	// DependencyWine names Wine in a DependencyMissingError.
	DependencyWine = "wine"

	defaultPrefixDir = ".wine"
	steamInstallDir  = "drive_c/Program Files/Steam"
)

var (
	ErrInstallValidation = errors.New("steam executable not found in install directory")
	ErrInstallCancelled  = errors.New("steam install cancelled")
	ErrShutdownFailed    = shutdown.ErrShutdownFailed
)

// DependencyMissingError reports a runtime dependency that is not installed.
// Name is either the Wine binary or the runner itself when Steam.exe is
// missing.
type DependencyMissingError struct {
	Name string
}

func (e *DependencyMissingError) Error() string {
	return fmt.Sprintf("dependency not installed: %s", e.Name)
}

// DirectoryPrompter asks the user to pick a directory. ok is false when the
// prompt was dismissed.
type DirectoryPrompter interface {
	PromptDirectory(title string) (dir string, ok bool)
}

// ErrorReporter shows an error to the user.
type ErrorReporter interface {
	ShowError(msg string)
}

// ConfigStore supplies runner settings and persists the Steam path found by
// Install.
type ConfigStore interface {
	RunnerConfig() config.RunnerConfig
	SetSteamPath(path string)
	Save() error
}

// BaseRuntime tears down whatever the generic Wine runtime left behind.
type BaseRuntime interface {
	Stop(ctx context.Context) error
}

// InstalledApp is the on-disk location of a Steam game.
type InstalledApp struct {
	AppID    string
	DataPath string
}

// Installed reports whether the game's data directory was found.
func (a InstalledApp) Installed() bool {
	return a.DataPath != ""
}

// Status is a point-in-time summary of the runner.
type Status struct {
	SteamPath     string
	Installed     bool
	WineAvailable bool
	SteamRunning  bool
}

// Runner composes the process probe, path resolver, launch builder and
// shutdown sequencer. Calls on one Runner must not overlap.
type Runner struct {
	cfg      ConfigStore
	executor command.Executor
	table    procprobe.Table
	fs       afero.Fs
	clock    clockwork.Clock
	prompter DirectoryPrompter
	reporter ErrorReporter
	runtime  BaseRuntime
	lookPath func(string) (string, error)
	homeDir  func() (string, error)
}

// Option configures a Runner.
type Option func(*Runner)

func WithFs(fs afero.Fs) Option {
	return func(r *Runner) {
		r.fs = fs
	}
}

func WithClock(clock clockwork.Clock) Option {
	return func(r *Runner) {
		r.clock = clock
	}
}

func WithPrompter(p DirectoryPrompter) Option {
	return func(r *Runner) {
		r.prompter = p
	}
}

func WithReporter(rep ErrorReporter) Option {
	return func(r *Runner) {
		r.reporter = rep
	}
}

// WithRuntime overrides the default wineserver teardown used by Stop.
func WithRuntime(rt BaseRuntime) Option {
	return func(r *Runner) {
		r.runtime = rt
	}
}

// WithLookPath replaces exec.LookPath when checking for Wine.
func WithLookPath(fn func(string) (string, error)) Option {
	return func(r *Runner) {
		r.lookPath = fn
	}
}

// WithHomeDir replaces os.UserHomeDir when locating the default prefix.
func WithHomeDir(fn func() (string, error)) Option {
	return func(r *Runner) {
		r.homeDir = fn
	}
}

// New creates a Runner. Without a prompter, Install needs an installer path;
// without a reporter, install errors are only logged.
func New(cfg ConfigStore, executor command.Executor, table procprobe.Table, opts ...Option) *Runner {
	r := &Runner{
		cfg:      cfg,
		executor: executor,
		table:    table,
		fs:       afero.NewOsFs(),
		clock:    clockwork.NewRealClock(),
		prompter: noPrompt{},
		reporter: logReporter{},
		lookPath: exec.LookPath,
		homeDir:  os.UserHomeDir,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Runner) exists(path string) bool {
	if path == "" {
		return false
	}
	ok, err := afero.Exists(r.fs, path)
	if err != nil {
		log.Debug().Err(err).Str("path", path).Msg("failed to stat path")
		return false
	}
	return ok
}

func (r *Runner) winePath() string {
	if p := r.cfg.RunnerConfig().WinePath; p != "" {
		return p
	}
	return config.DefaultWinePath
}

// WineAvailable reports whether the configured Wine binary can be found,
// either at its explicit path or on PATH.
func (r *Runner) WineAvailable() bool {
	wine := r.winePath()
	if strings.ContainsRune(wine, filepath.Separator) {
		return r.exists(wine)
	}
	_, err := r.lookPath(wine)
	return err == nil
}

// DefaultSteamDir returns where the Steam installer puts the client inside
// prefix, or inside ~/.wine when prefix is empty.
func (r *Runner) DefaultSteamDir(prefix string) string {
	if prefix == "" {
		home, err := r.homeDir()
		if err != nil {
			log.Warn().Err(err).Msg("failed to get home directory")
			return ""
		}
		prefix = filepath.Join(home, defaultPrefixDir)
	}
	return filepath.Join(prefix, steamInstallDir)
}

// SteamPath returns the configured Steam.exe if it exists, otherwise the
// location inside the default prefix. The result may not exist.
func (r *Runner) SteamPath() string {
	if p := r.cfg.RunnerConfig().SteamPath; r.exists(p) {
		return p
	}
	dir := r.DefaultSteamDir("")
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, SteamExe)
}

// IsInstalled is true when Wine is available and Steam.exe exists on disk.
func (r *Runner) IsInstalled() bool {
	if !r.WineAvailable() {
		return false
	}
	return r.exists(r.SteamPath())
}

// Install registers a Steam client. With installerPath set, the MSI is run
// quietly into the default prefix; otherwise the user is asked for an
// existing install directory. The Steam path is only saved once Steam.exe
// is confirmed to exist there.
func (r *Runner) Install(ctx context.Context, installerPath string) error {
	var steamDir string
	if installerPath != "" {
		log.Info().Str("installer", installerPath).Msg("running steam installer")
		err := r.executor.RunWithOptions(
			ctx,
			command.StartOptions{Env: launchplan.Env("")},
			r.winePath(), "msiexec", "/i", installerPath, "/q",
		)
		if err != nil {
			return fmt.Errorf("failed to run steam installer: %w", err)
		}
		steamDir = r.DefaultSteamDir("")
	} else {
		dir, ok := r.prompter.PromptDirectory(InstallPromptTitle)
		if !ok {
			log.Info().Msg("steam install directory prompt dismissed")
			return ErrInstallCancelled
		}
		steamDir = dir
	}

	exe := filepath.Join(steamDir, SteamExe)
	if steamDir == "" || !r.exists(exe) {
		r.reporter.ShowError(MsgSteamNotFound)
		return fmt.Errorf("%w: %s", ErrInstallValidation, steamDir)
	}

	r.cfg.SetSteamPath(exe)
	if err := r.cfg.Save(); err != nil {
		return fmt.Errorf("failed to save steam path: %w", err)
	}
	log.Info().Str("path", exe).Msg("steam for windows installed")
	return nil
}

func (r *Runner) sequencer() *shutdown.Sequencer {
	return shutdown.New(
		r.table,
		r.executor,
		shutdown.WithClock(r.clock),
		shutdown.WithWine(r.winePath(), launchplan.Env(r.cfg.RunnerConfig().Prefix)),
	)
}

// SteamRunning reports whether a Steam client is currently running.
func (r *Runner) SteamRunning(ctx context.Context) bool {
	return r.sequencer().Running(ctx)
}

// Prelaunch stops an already running Steam client so the game starts in a
// fresh one. It fails with ErrShutdownFailed if the client will not exit,
// in which case the game must not be launched.
func (r *Runner) Prelaunch(ctx context.Context) error {
	seq := r.sequencer()
	if !seq.Running(ctx) {
		return nil
	}

	log.Info().Msg("waiting for steam to shut down")
	state, err := seq.Stop(ctx)
	if err != nil {
		return fmt.Errorf("steam shutdown ended in state %s: %w", state, err)
	}
	return nil
}

func (r *Runner) launchConfig() config.RunnerConfig {
	cfg := r.cfg.RunnerConfig()
	cfg.SteamPath = r.SteamPath()
	cfg.WinePath = r.winePath()
	return cfg
}

// Play returns the command that launches the configured game. Wine is
// checked before Steam.exe, so a missing Wine is always the error reported.
func (r *Runner) Play() (launchplan.Plan, error) {
	if !r.WineAvailable() {
		return launchplan.Plan{}, &DependencyMissingError{Name: DependencyWine}
	}
	if !r.IsInstalled() {
		return launchplan.Plan{}, &DependencyMissingError{Name: config.RunnerName}
	}

	log.Debug().Msg("checking steam installation")
	plan, err := launchplan.Build(r.launchConfig(), launchplan.ModeLaunch, "", "")
	if err != nil {
		return launchplan.Plan{}, fmt.Errorf("failed to build launch command: %w", err)
	}
	return plan, nil
}

func (r *Runner) start(ctx context.Context, plan launchplan.Plan) error {
	log.Debug().Str("command", plan.CommandLine()).Bool("detached", plan.Detached).Msg("starting")
	err := r.executor.StartWithOptions(ctx, command.StartOptions{Env: plan.Env}, plan.Name(), plan.Argv()...)
	if err != nil {
		return fmt.Errorf("failed to start %s: %w", plan.Name(), err)
	}
	return nil
}

// Launch runs Prelaunch and then starts the plan from Play without waiting
// for the game.
func (r *Runner) Launch(ctx context.Context) (launchplan.Plan, error) {
	if err := r.Prelaunch(ctx); err != nil {
		return launchplan.Plan{}, err
	}
	plan, err := r.Play()
	if err != nil {
		return launchplan.Plan{}, err
	}
	if err := r.start(ctx, plan); err != nil {
		return plan, err
	}
	return plan, nil
}

func (r *Runner) baseRuntime() BaseRuntime {
	if r.runtime != nil {
		return r.runtime
	}
	return NewWineServerRuntime(r.executor, r.winePath(), r.cfg.RunnerConfig().Prefix)
}

// Stop asks Steam to exit, gives it one grace period and then tears down
// the Wine runtime.
func (r *Runner) Stop(ctx context.Context) error {
	seq := r.sequencer()
	seq.RequestShutdown(ctx)

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-r.clock.After(seq.GracePeriod()):
	}

	if err := r.baseRuntime().Stop(ctx); err != nil {
		return fmt.Errorf("failed to stop wine runtime: %w", err)
	}
	return nil
}

func (r *Runner) handOff(ctx context.Context, mode launchplan.Mode, appID string) error {
	plan, err := launchplan.Build(r.launchConfig(), mode, appID, "")
	if err != nil {
		return fmt.Errorf("failed to build %s command: %w", mode, err)
	}
	return r.start(ctx, plan)
}

// InstallGame asks Steam to install appID. It returns once Steam has been
// handed the request.
func (r *Runner) InstallGame(ctx context.Context, appID string) error {
	return r.handOff(ctx, launchplan.ModeInstall, appID)
}

// ValidateGame asks Steam to verify the files of appID.
func (r *Runner) ValidateGame(ctx context.Context, appID string) error {
	return r.handOff(ctx, launchplan.ModeValidate, appID)
}

func (r *Runner) resolver() *steam.Resolver {
	return steam.NewResolver(filepath.Dir(r.SteamPath()), steam.WithFs(r.fs))
}

// GameData looks up where appID is installed. An empty appID uses the
// configured game.
func (r *Runner) GameData(appID string) InstalledApp {
	if appID == "" {
		appID = r.cfg.RunnerConfig().AppID
	}
	app := InstalledApp{AppID: appID}
	if appID == "" {
		return app
	}
	if path, ok := r.resolver().ResolveDataPath(appID); ok {
		app.DataPath = path
	}
	return app
}

// BrowseDir returns the configured game's directory, running the install
// prompt first when Steam is not set up.
func (r *Runner) BrowseDir(ctx context.Context) (string, bool) {
	if !r.IsInstalled() {
		if err := r.Install(ctx, ""); err != nil {
			log.Debug().Err(err).Msg("steam not installed, nothing to browse")
			return "", false
		}
	}
	app := r.GameData("")
	return app.DataPath, app.Installed()
}

// AppIDs lists every app Steam knows about.
func (r *Runner) AppIDs() []string {
	return r.resolver().AppIDs()
}

// SteamAppsPath returns the common directory games are installed into.
func (r *Runner) SteamAppsPath() (string, error) {
	path, err := r.resolver().SteamAppsCommonDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate steamapps: %w", err)
	}
	return path, nil
}

// Status summarises installation and process state.
func (r *Runner) Status(ctx context.Context) Status {
	return Status{
		SteamPath:     r.SteamPath(),
		Installed:     r.IsInstalled(),
		WineAvailable: r.WineAvailable(),
		SteamRunning:  r.SteamRunning(ctx),
	}
}

type noPrompt struct{}

func (noPrompt) PromptDirectory(string) (string, bool) {
	return "", false
}

type logReporter struct{}

func (logReporter) ShowError(msg string) {
	log.Error().Msg(msg)
}
