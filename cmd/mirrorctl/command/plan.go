// Copyright (c) 2024-2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

var planSince string

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Print the plan of objects and connections due for a refresh",
	Long: `Computes which registered objects and connection fields have
gone stale since the staleness window (the config file's mirror.
stale-after, or the value given by --since) elapsed, and prints the
resulting plan as indented JSON.`,
	RunE: plan,
	Args: cobra.NoArgs,
}

func plan(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	w, err := wireUseCase(ctx)
	if err != nil {
		return err
	}
	defer w.Close()

	staleAfter := w.cfg.Mirror.StaleAfter.Duration()
	if planSince != "" {
		staleAfter, err = time.ParseDuration(planSince)
		if err != nil {
			return fmt.Errorf("parsing --since: %w", err)
		}
	}
	since := time.Now().Add(-staleAfter).UnixMilli()

	p, err := w.uc.FindOutdated(ctx, since)
	if err != nil {
		return fmt.Errorf("computing plan: %w", err)
	}
	b, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling plan: %w", err)
	}
	fmt.Println(string(b))
	return nil
}

func init() {
	planCmd.Flags().StringVar(
		&planSince, "since", "",
		"staleness window, e.g. 1h (default: the config file's mirror.stale-after)",
	)
	rootCmd.AddCommand(planCmd)
}
