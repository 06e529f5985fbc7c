// Copyright (c) 2024-2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sourcecred/mirror/pkg/core/gqlquery"
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Synthesize GraphQL selection text for a planned fetch",
	Long: `Query sub-commands synthesize the GraphQL selection-set text
a fetch loop sends for one plan entry. Neither sub-command touches the
store or the network; they are pure functions of the schema.`,
}

var queryShallowType string

var queryShallowCmd = &cobra.Command{
	Use:   "shallow",
	Short: "Print the shallow selection (typename plus id) for a type",
	RunE:  queryShallow,
	Args:  cobra.NoArgs,
}

func queryShallow(_ *cobra.Command, _ []string) error {
	_, d, err := wireSchema()
	if err != nil {
		return err
	}
	text, err := gqlquery.QueryShallow(d, queryShallowType)
	if err != nil {
		return fmt.Errorf("synthesizing shallow query: %w", err)
	}
	fmt.Println(text)
	return nil
}

var (
	queryConnType     string
	queryConnField    string
	queryConnCursor   string
	queryConnPageSize int
)

var queryConnectionCmd = &cobra.Command{
	Use:   "connection",
	Short: "Print the paginated selection for a connection field",
	Long: `Prints the paginated GraphQL selection for the --field
connection of --type, requesting --page-size nodes starting after
--cursor. Omitting --cursor asks for the first page; passing an empty
string asks for the page after a fetched-null cursor (a connection
whose last completed fetch returned a null endCursor).`,
	RunE: queryConnection,
	Args: cobra.NoArgs,
}

func queryConnection(cmd *cobra.Command, _ []string) error {
	c, d, err := wireSchema()
	if err != nil {
		return err
	}
	pageSize := queryConnPageSize
	if pageSize <= 0 {
		pageSize = c.Mirror.PageSize
	}
	if pageSize <= 0 {
		pageSize = 50
	}
	cursor := gqlquery.Unfetched()
	if cmd.Flags().Changed("cursor") {
		if queryConnCursor == "" {
			cursor = gqlquery.Fetched(nil)
		} else {
			v := queryConnCursor
			cursor = gqlquery.Fetched(&v)
		}
	}
	text, err := gqlquery.QueryConnection(d, queryConnType, queryConnField, cursor, pageSize)
	if err != nil {
		return fmt.Errorf("synthesizing connection query: %w", err)
	}
	fmt.Println(text)
	return nil
}

func init() {
	queryShallowCmd.Flags().StringVar(&queryShallowType, "type", "", "object typename")
	queryShallowCmd.MarkFlagRequired("type")

	queryConnectionCmd.Flags().StringVar(&queryConnType, "type", "", "parent object typename")
	queryConnectionCmd.Flags().StringVar(&queryConnField, "field", "", "connection fieldname")
	queryConnectionCmd.Flags().StringVar(&queryConnCursor, "cursor", "", "end cursor to resume after")
	queryConnectionCmd.Flags().IntVar(&queryConnPageSize, "page-size", 0, "page size (default: config, then 50)")
	queryConnectionCmd.MarkFlagRequired("type")
	queryConnectionCmd.MarkFlagRequired("field")

	queryCmd.AddCommand(queryShallowCmd)
	queryCmd.AddCommand(queryConnectionCmd)
	rootCmd.AddCommand(queryCmd)
}
