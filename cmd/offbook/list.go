// List command for the offbook CLI.
package main

import (
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all projects, most recently touched first",
	RunE: func(cmd *cobra.Command, args []string) error {
		all, err := manager.List()
		if err != nil {
			fail("list", err)
		}
		printProjects(all)
		return nil
	},
}
