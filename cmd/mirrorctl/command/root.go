// Copyright (c) 2024-2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package command provides the root and sub-commands for mirrorctl.
// Commands are organized using the cobra library.
//
//	mirrorctl install  -c cfg.yaml
//	mirrorctl register -c cfg.yaml --type T --id ID
//	mirrorctl plan      -c cfg.yaml [--since DURATION]
//	mirrorctl query shallow    -c cfg.yaml --type T
//	mirrorctl query connection -c cfg.yaml --type T --field F [--cursor C] [--page-size N]
//	mirrorctl version
package command

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "mirrorctl",
	Short: "Drive a GraphQL object graph mirror's store",
	Long: `mirrorctl installs and queries a mirror store: a local
relational reflection of a remote GraphQL object graph, tracked object
by object and connection page by connection page so that only what has
gone stale since the last successful fetch needs to be asked for again.

It does not itself speak GraphQL over the network: install loads a
schema document and prepares (or verifies) the store for it, register
and plan drive the object registry and staleness planner, and query
synthesizes the GraphQL selection text an external fetch loop sends,
handing its response back through an ingestion step outside this CLI's
scope.`,
}

// Execute runs rootCmd which in turn parses CLI arguments and flags
// and runs the most specific cobra command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(fixConfigPath)
	rootCmd.PersistentFlags().StringVarP(
		&cfgPath, "config", "c", "", "config file path",
	)
}

// fixConfigPath ensures that cfgPath is set respectively by either the
// CLI args, the MIRROR_CONFIG_FILE environment variable, or its
// default value.
func fixConfigPath() {
	if cfgPath != "" {
		return
	}
	var found bool
	if cfgPath, found = os.LookupEnv("MIRROR_CONFIG_FILE"); !found {
		cfgPath = "configs/sample-config.yaml"
	}
}
