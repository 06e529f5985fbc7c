// Copyright (c) 2024-2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Prepare (or verify) the store for the configured schema",
	Long: `Loads the schema document named in the config file, decomposes
it, and either creates the store's structural and per-type tables (on
first use) or verifies that the store already matches this schema's
fingerprint. A mismatch is reported without modifying the store.`,
	RunE: install,
	Args: cobra.NoArgs,
}

func install(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	w, err := wireUseCase(ctx)
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.uc.Install(ctx); err != nil {
		return fmt.Errorf("installing schema: %w", err)
	}
	fmt.Println("store ready")
	return nil
}

func init() {
	rootCmd.AddCommand(installCmd)
}
