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

package steam

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// Resolver finds the on-disk data directory of installed Steam apps.
//
// The appmanifest is authoritative but missing for apps installed by other
// means. config.vdf is present once Steam has run but may list removed apps.
// Manifest wins; results are never merged.
type Resolver struct {
	fs       afero.Fs
	log      zerolog.Logger
	steamDir string
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithFs sets the filesystem the resolver reads from.
func WithFs(fs afero.Fs) ResolverOption {
	return func(r *Resolver) {
		r.fs = fs
	}
}

// WithLogger sets the logger used for unresolved app warnings.
func WithLogger(l zerolog.Logger) ResolverOption {
	return func(r *Resolver) {
		r.log = l
	}
}

// NewResolver creates a resolver rooted at the Steam install directory
// (the directory containing Steam.exe).
func NewResolver(steamDir string, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		fs:       afero.NewOsFs(),
		log:      log.Logger,
		steamDir: steamDir,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SteamDir returns the Steam root the resolver reads from.
func (r *Resolver) SteamDir() string {
	return r.steamDir
}

// ResolveDataPath returns the data directory for appID. A false result means
// "not installed here" and is logged once as a warning.
func (r *Resolver) ResolveDataPath(appID string) (string, bool) {
	if err := ValidateAppID(appID); err == nil {
		if path, ok := PathFromAppManifest(r.fs, r.steamDir, appID); ok {
			return path, true
		}

		if cfg, ok := ReadConfig(r.fs, r.steamDir); ok {
			if path, ok := PathFromConfig(cfg, appID); ok {
				return path, true
			}
		}
	}

	r.log.Warn().Str("appID", appID).Msgf("data path for SteamApp %s not found", appID)
	return "", false
}

// AppIDs returns the app IDs Steam's config knows about.
func (r *Resolver) AppIDs() []string {
	cfg, ok := ReadConfig(r.fs, r.steamDir)
	if !ok {
		return nil
	}
	return AppIDs(cfg)
}

// SteamAppsCommonDir returns the library's common directory.
func (r *Resolver) SteamAppsCommonDir() (string, error) {
	return SteamAppsCommonDir(r.fs, r.steamDir)
}
