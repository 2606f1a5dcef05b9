package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the on-disk state of every manifest dependency",
	Long: `Shows each dependency's source, local path, pinned revision (classified as
version tag, commit hash, or other ref), whether it is required for a default
build, and whether its working copy is present on disk.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := loadManifest()
		if err != nil {
			return err
		}

		root, err := manifestRoot()
		if err != nil {
			return err
		}

		fmt.Printf("%-55s %-28s %-14s %-8s %-9s %s\n", "SOURCE", "PATH", "REVISION", "KIND", "REQUIRED", "STATE")
		for _, e := range m.Entries {
			state := "missing"
			dir := filepath.Join(root, filepath.FromSlash(e.Path))
			if fi, statErr := os.Stat(dir); statErr == nil && fi.IsDir() {
				state = "present"
			}

			required := "yes"
			if !e.Required {
				required = "internal"
			}

			rev := e.Revision
			if len(rev) > 14 {
				rev = rev[:11] + "..."
			}
			fmt.Printf("%-55s %-28s %-14s %-8s %-9s %s\n", e.Source, e.Path, rev, e.RevisionKind(), required, state)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
