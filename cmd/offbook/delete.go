// Delete command for the offbook CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var deleteKeepContent bool

var deleteCmd = &cobra.Command{
	Use:   "delete <id|name>",
	Short: "Delete a project",
	Long: `Delete a project's record and, unless --keep-content is given, its
managed content and attachments. Referenced content outside the library is
never removed. Cleanup problems are reported as warnings; the record is
gone either way.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := resolveProject(args[0])
		if err != nil {
			fail("delete", err)
		}
		warnings, err := manager.Delete(p.ID, !deleteKeepContent)
		if err != nil {
			fail("delete", err)
		}
		for _, w := range warnings {
			fmt.Fprintln(os.Stderr, "warning:", w)
		}
		fmt.Printf("deleted %q\n", p.Name)
		return nil
	},
}

func init() {
	deleteCmd.Flags().BoolVar(&deleteKeepContent, "keep-content", false, "delete only the record, leave files in place")
}
