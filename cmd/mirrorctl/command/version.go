// Copyright (c) 2024-2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sourcecred/mirror/pkg/adapter/db/sqlite"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the store's schema fingerprint version",
	RunE: func(_ *cobra.Command, _ []string) error {
		fmt.Println(sqlite.FingerprintVersion)
		return nil
	},
	Args: cobra.NoArgs,
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
