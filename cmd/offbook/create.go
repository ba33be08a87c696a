// Create command for the offbook CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/stageloft/offbook/pkg/types"
)

var (
	createSource    string
	createReference bool
	createCharacter string
)

var createCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Register a new project",
	Long: `Register a new project in the bound library. By default the source
file is copied into the library's content directory; with --reference the
path is stored as-is and the content stays where it is.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if createSource == "" {
			fmt.Fprintln(os.Stderr, "create: --source is required")
			os.Exit(exitUserError)
		}
		p, err := manager.Create(args[0], createSource, !createReference, createCharacter, types.Meta{})
		if err != nil {
			fail("create", err)
		}
		printProject(p)
		return nil
	},
}

func init() {
	createCmd.Flags().StringVarP(&createSource, "source", "s", "", "content file to register (required)")
	createCmd.Flags().BoolVar(&createReference, "reference", false, "store the source path without copying it in")
	createCmd.Flags().StringVarP(&createCharacter, "character", "c", "", "initial chosen character")
}
