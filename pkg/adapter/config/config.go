// Copyright (c) 2024-2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package config is an adapter which allows users to write a yaml
// configuration file and allow mirrorctl to instantiate different
// components, from the adapter or use cases layers, using those
// configuration settings.
// These settings may be versioned and maintained by migrations later.
// However, the parsed and validated configurations should be passed
// to their ultimate components as a series of individual params (for
// the mandatory items) and a series of functional options (for
// the optional items), so they may be accumulated and validated
// in another (possibly non-exported) config struct (or directly in the
// relevant end-component such as a UseCase instance). This design
// decision causes a bit of redundancy in favor of a defensive solution.
package config

import (
	"context"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/sourcecred/mirror/pkg/adapter/config/settings"
	"github.com/sourcecred/mirror/pkg/adapter/db/sqlite"
	"github.com/sourcecred/mirror/pkg/adapter/db/sqlite/mirrorrp"
	"github.com/sourcecred/mirror/pkg/core/repo"
	"github.com/sourcecred/mirror/pkg/core/schema"
	"github.com/sourcecred/mirror/pkg/core/schema/load"
	"github.com/sourcecred/mirror/pkg/core/usecase/mirroruc"
)

// Config contains all settings which are required by different parts
// of the project such as adapters or use cases. It is preferred to
// implement Config with primitive fields or other structs which are
// defined in this package, not models or structs which are defined in
// other layers, so the configuration can be versioned and kept intact
// while other layers can change freely. If two versions of the Config
// struct were implemented, the newer version may embed/depend on the
// older version (which is freezed).
type Config struct {
	Database Database `yaml:"database" validate:"required"`
	Mirror   Mirror   `yaml:"mirror" validate:"required"`
}

// Database contains the database related configuration settings.
type Database struct {
	// Path is the sqlite database file's path. It is created on first
	// use if it does not already exist.
	Path string `yaml:"path" validate:"required"`
	// BusyTimeoutMillis bounds how long a statement waits on a lock
	// held by another connection before failing. Zero uses the driver
	// default.
	BusyTimeoutMillis int `yaml:"busy-timeout-millis"`
}

// NewPool instantiates a new database connection pool based on the
// connection information which are stored in d instance.
func (d Database) NewPool(ctx context.Context) (*sqlite.Pool, error) {
	p, err := sqlite.NewPool(ctx, d.Path, d.BusyTimeoutMillis)
	if err != nil {
		return nil, fmt.Errorf("pool creation: %w", err)
	}
	return p, nil
}

// Mirror contains the configuration settings for the mirror use case.
type Mirror struct {
	// SchemaFile is the path of the YAML document describing the
	// object graph this mirror instance tracks.
	SchemaFile string `yaml:"schema-file" validate:"required"`
	// PageSize bounds how many connection entries are requested per
	// page. Zero selects the use case's own default.
	PageSize int `yaml:"page-size" validate:"gte=0"`
	// StaleAfter is how long an object or connection's last
	// successful fetch may stand before FindOutdated reports it
	// again. It is a caller-side convenience: the duration is
	// subtracted from the moment a plan is requested to compute the
	// sinceEpochMillis argument the use case actually takes.
	StaleAfter settings.Duration `yaml:"stale-after" validate:"required"`
}

// LoadSchema reads and decomposes the schema document named by
// m.SchemaFile.
func (m Mirror) LoadSchema() (*schema.Decomposed, error) {
	s, err := load.File(m.SchemaFile)
	if err != nil {
		return nil, fmt.Errorf("loading schema file: %w", err)
	}
	d, err := schema.Decompose(s)
	if err != nil {
		return nil, fmt.Errorf("decomposing schema: %w", err)
	}
	return d, nil
}

// NewUseCase instantiates a new mirror use case based on the settings
// in the m struct, wired against the given pool and schema.
func (m Mirror) NewUseCase(
	p repo.Pool, d *schema.Decomposed,
) (*mirroruc.UseCase, error) {
	opts := make([]mirroruc.Option, 0, 1)
	if m.PageSize > 0 {
		opts = append(opts, mirroruc.WithPageSize(m.PageSize))
	}
	return mirroruc.New(p, sqlite.NewInstaller(), mirrorrp.New(), d, opts...)
}

// SinceEpochMillis returns the sinceEpochMillis argument FindOutdated
// should be called with when a plan is requested at nowEpochMillis,
// given this mirror's configured staleness window.
func (m Mirror) SinceEpochMillis(nowEpochMillis int64) int64 {
	return nowEpochMillis - m.StaleAfter.Duration().Milliseconds()
}

// Load function loads, validates, and normalizes the configuration
// file and returns its settings as an instance of the Config struct.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	c := &Config{}
	if err = yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("unmarshalling yaml: %w", err)
	}
	if err = c.ValidateAndNormalize(); err != nil {
		return nil, fmt.Errorf("validating configs: %w", err)
	}
	return c, nil
}

// ValidateAndNormalize validates the configuration settings and
// returns an error if they were not acceptable. It can also modify
// settings in order to normalize them or replace some zero values with
// their expected default values (if any).
func (c *Config) ValidateAndNormalize() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}
	return nil
}
