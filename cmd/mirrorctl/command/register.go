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

var (
	registerType string
	registerID   string
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Register an object in the store, idempotently",
	Long: `Registers an object's (typename, id) pair in the store, creating
its primitives row and the placeholder rows for its link and connection
fields. Re-registering the same (typename, id) pair is a no-op;
registering an id already known under a different typename fails.`,
	RunE: register,
	Args: cobra.NoArgs,
}

func register(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	w, err := wireUseCase(ctx)
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.uc.RegisterObject(ctx, registerType, registerID); err != nil {
		return fmt.Errorf("registering object: %w", err)
	}
	fmt.Printf("registered %s %s\n", registerType, registerID)
	return nil
}

func init() {
	registerCmd.Flags().StringVar(&registerType, "type", "", "object typename")
	registerCmd.Flags().StringVar(&registerID, "id", "", "object id")
	registerCmd.MarkFlagRequired("type")
	registerCmd.MarkFlagRequired("id")
	rootCmd.AddCommand(registerCmd)
}
