// Root command for the offbook CLI.
package main

import (
	"github.com/spf13/cobra"
)

// Exit codes: 1 for user errors (bad arguments, unknown projects),
// 2 for system errors (I/O, storage).
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// Global flag values.
var (
	flagConfigDir string
	flagJSON      bool
	flagVerbose   bool
)

var rootCmd = &cobra.Command{
	Use:   "offbook",
	Short: "Offbook manages rehearsal project libraries",
	Long: `Offbook is a local-first project library: one folder on disk holding
script content, shared voice customizations, and an embedded record store.
Bind a library once with "offbook library set" and every other command
operates on it.`,
	SilenceUsage:       true,
	PersistentPreRunE:  initSession,
	PersistentPostRunE: closeSession,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default: platform app-support dir)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "log engine warnings to stderr")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(libraryCmd)
	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(renameCmd)
	rootCmd.AddCommand(characterCmd)
	rootCmd.AddCommand(replaceCmd)
	rootCmd.AddCommand(metaCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(scanCmd)
}
