// Character command for the offbook CLI.
package main

import (
	"github.com/spf13/cobra"
)

var characterClear bool

var characterCmd = &cobra.Command{
	Use:   "character <id|name> [character]",
	Short: "Set or clear a project's chosen character",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := resolveProject(args[0])
		if err != nil {
			fail("character", err)
		}
		value := ""
		if len(args) == 2 && !characterClear {
			value = args[1]
		}
		p, err = manager.SetCharacter(p.ID, value)
		if err != nil {
			fail("character", err)
		}
		printProject(p)
		return nil
	},
}

func init() {
	characterCmd.Flags().BoolVar(&characterClear, "clear", false, "clear the chosen character")
}
