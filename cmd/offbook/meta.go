// Meta commands for the offbook CLI.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/stageloft/offbook/pkg/types"
)

var metaCmd = &cobra.Command{
	Use:   "meta",
	Short: "Read and write per-project metadata",
}

var metaGetCmd = &cobra.Command{
	Use:   "get <id|name> [key]",
	Short: "Print a project's metadata, or one key",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := resolveProject(args[0])
		if err != nil {
			fail("meta get", err)
		}
		if len(args) == 1 {
			printJSON(p.Meta)
			return nil
		}
		value, ok := p.Meta.Get(args[1])
		if !ok {
			fmt.Fprintf(os.Stderr, "meta get: no key %q\n", args[1])
			os.Exit(exitUserError)
		}
		printJSON(value)
		return nil
	},
}

var metaSetCmd = &cobra.Command{
	Use:   "set <id|name> <key> <value>",
	Short: "Set one metadata key",
	Long: `Set one metadata key. The value is parsed as JSON when possible
(numbers, booleans, objects) and stored as a string otherwise.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := resolveProject(args[0])
		if err != nil {
			fail("meta set", err)
		}
		key := args[1]
		var value any
		if err := json.Unmarshal([]byte(args[2]), &value); err != nil {
			value = args[2]
		}
		p, err = manager.UpdateMeta(p.ID, func(m types.Meta) types.Meta {
			m.Set(key, value)
			return m
		})
		if err != nil {
			fail("meta set", err)
		}
		printJSON(p.Meta)
		return nil
	},
}

var metaDeleteCmd = &cobra.Command{
	Use:   "delete <id|name> <key>",
	Short: "Delete one metadata key",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := resolveProject(args[0])
		if err != nil {
			fail("meta delete", err)
		}
		key := args[1]
		p, err = manager.UpdateMeta(p.ID, func(m types.Meta) types.Meta {
			m.Delete(key)
			return m
		})
		if err != nil {
			fail("meta delete", err)
		}
		printJSON(p.Meta)
		return nil
	},
}

func init() {
	metaCmd.AddCommand(metaGetCmd)
	metaCmd.AddCommand(metaSetCmd)
	metaCmd.AddCommand(metaDeleteCmd)
}
