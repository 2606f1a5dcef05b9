package cmd

import (
	"github.com/mwbennett/prebuild/internal/generate"
	"github.com/spf13/cobra"
)

var (
	cleanInternal  bool
	cleanOutput    string
	cleanToolchain string
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Delete all directories generated by this tool",
	Long: `Removes the CMake output directory and the per-configuration build output
directories. Dependency working copies are never touched.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := manifestRoot()
		if err != nil {
			return err
		}

		eng := newGenerateEngine(root, "")
		params := generate.Params{
			OutputRoot: cleanOutput,
			Internal:   cleanInternal,
			Toolchain:  cleanToolchain,
		}

		info("Cleaning build ...")
		actions, err := eng.Clean(params)
		for _, a := range actions {
			info("  %-60s %s", a.Path, a.Status)
		}
		return err
	},
}

func init() {
	cleanCmd.Flags().BoolVar(&cleanInternal, "internal", false, "clean the internal build's directories")
	cleanCmd.Flags().StringVar(&cleanOutput, "output", "", "output root to clean (default: platform subdirectory next to the manifest)")
	cleanCmd.Flags().StringVar(&cleanToolchain, "toolchain", "2017", "compiler toolchain the build files were generated for")
	rootCmd.AddCommand(cleanCmd)
}
