// Scan command for the offbook CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Adopt folders dropped into the content directory",
	Long: `Reconcile the record store with the content directory: folders copied
in by hand become projects, and records whose managed content disappeared
are pruned. Content is never deleted by a scan.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		added, err := manager.ScanAndRegister()
		if err != nil {
			fail("scan", err)
		}
		if flagJSON {
			printJSON(added)
			return nil
		}
		for _, p := range added {
			fmt.Printf("registered %d\t%s\n", p.ID, p.Name)
		}
		fmt.Printf("%d new project(s)\n", len(added))
		return nil
	},
}
