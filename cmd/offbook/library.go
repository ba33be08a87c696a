// Library binding commands for the offbook CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "Bind, inspect, or forget the active library",
}

var librarySetCmd = &cobra.Command{
	Use:   "set <path>",
	Short: "Bind a library folder and remember it",
	Long: `Bind the library at (or around) the given folder. The path may point
at the library root, a folder inside its content directory, or an empty
folder where a new library should be created. The resolved root is
remembered for future invocations.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := manager.SetLibrary(args[0]); err != nil {
			fail("library set", err)
		}
		lib, err := manager.Library()
		if err != nil {
			fail("library set", err)
		}
		fmt.Println(lib.Root())
		return nil
	},
}

var libraryShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the bound library root",
	RunE: func(cmd *cobra.Command, args []string) error {
		lib, err := manager.Library()
		if err != nil {
			fmt.Fprintln(os.Stderr, "no library bound; run \"offbook library set <path>\"")
			os.Exit(exitUserError)
		}
		if flagJSON {
			printJSON(map[string]string{
				"root":          lib.Root(),
				"voice_presets": lib.VoicePresetsDir(),
				"models":        lib.ModelsDir(),
				"resources":     lib.ResourcesDir(),
			})
			return nil
		}
		fmt.Println(lib.Root())
		return nil
	},
}

var libraryClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget the remembered library",
	RunE: func(cmd *cobra.Command, args []string) error {
		manager.ClearLibrary()
		return nil
	},
}

func init() {
	libraryCmd.AddCommand(librarySetCmd)
	libraryCmd.AddCommand(libraryShowCmd)
	libraryCmd.AddCommand(libraryClearCmd)
}
