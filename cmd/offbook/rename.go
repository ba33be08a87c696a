// Rename command for the offbook CLI.
package main

import (
	"github.com/spf13/cobra"
)

var renameCmd = &cobra.Command{
	Use:   "rename <id|name> <new-name>",
	Short: "Rename a project",
	Long: `Rename a project. Only the record changes; the content on disk keeps
its location and filename.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := resolveProject(args[0])
		if err != nil {
			fail("rename", err)
		}
		p, err = manager.Rename(p.ID, args[1])
		if err != nil {
			fail("rename", err)
		}
		printProject(p)
		return nil
	},
}
