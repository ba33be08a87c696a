// Replace command for the offbook CLI.
package main

import (
	"github.com/spf13/cobra"
)

var replaceReference bool

var replaceCmd = &cobra.Command{
	Use:   "replace <id|name> <path>",
	Short: "Point a project at a new content file",
	Long: `Replace a project's content file. The new file is copied into the
library unless --reference is given, mirroring create.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := resolveProject(args[0])
		if err != nil {
			fail("replace", err)
		}
		p, err = manager.ReplaceContent(p.ID, args[1], !replaceReference)
		if err != nil {
			fail("replace", err)
		}
		printProject(p)
		return nil
	},
}

func init() {
	replaceCmd.Flags().BoolVar(&replaceReference, "reference", false, "store the path without copying it in")
}
