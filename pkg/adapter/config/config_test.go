// Copyright (c) 2024-2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sourcecred/mirror/pkg/adapter/config"
)

const schemaDoc = `
types:
  Repo:
    kind: OBJECT
    fields:
      - {name: id, kind: ID}
      - {name: name, kind: PRIMITIVE}
      - {name: issues, kind: CONNECTION, elementType: Issue}
  Issue:
    kind: OBJECT
    fields:
      - {name: id, kind: ID}
      - {name: title, kind: PRIMITIVE}
`

func writeConfig(t *testing.T, dir string, body string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadValidConfig(t *testing.T) {
	dir := t.TempDir()
	schemaPath := filepath.Join(dir, "schema.yaml")
	require.NoError(t, os.WriteFile(schemaPath, []byte(schemaDoc), 0o644))

	body := `
database:
  path: ` + filepath.Join(dir, "mirror.db") + `
  busy-timeout-millis: 2000
mirror:
  schema-file: ` + schemaPath + `
  page-size: 25
  stale-after: 6h
`
	cfgPath := writeConfig(t, dir, body)

	c, err := config.Load(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, 25, c.Mirror.PageSize)
	assert.Equal(t, 2000, c.Database.BusyTimeoutMillis)

	d, err := c.Mirror.LoadSchema()
	require.NoError(t, err)
	assert.Contains(t, d.Objects, "Repo")
	assert.Contains(t, d.Objects, "Issue")
}

func TestLoadRejectsMissingRequiredFields(t *testing.T) {
	dir := t.TempDir()
	body := `
database:
  path: ""
mirror:
  schema-file: ""
  stale-after: 0s
`
	cfgPath := writeConfig(t, dir, body)

	_, err := config.Load(cfgPath)
	assert.Error(t, err)
}

func TestLoadReportsMissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	assert.Error(t, err)
}

func TestMirrorSinceEpochMillisSubtractsStaleAfter(t *testing.T) {
	dir := t.TempDir()
	schemaPath := filepath.Join(dir, "schema.yaml")
	require.NoError(t, os.WriteFile(schemaPath, []byte(schemaDoc), 0o644))

	body := `
database:
  path: ` + filepath.Join(dir, "mirror.db") + `
mirror:
  schema-file: ` + schemaPath + `
  stale-after: 1h
`
	cfgPath := writeConfig(t, dir, body)
	c, err := config.Load(cfgPath)
	require.NoError(t, err)

	since := c.Mirror.SinceEpochMillis(3600_000 * 2)
	assert.Equal(t, int64(3600_000), since)
}
