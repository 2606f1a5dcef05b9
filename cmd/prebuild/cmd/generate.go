package cmd

import (
	"github.com/mwbennett/prebuild/internal/fetch"
	"github.com/mwbennett/prebuild/internal/generate"
	"github.com/spf13/cobra"
)

var (
	genInternal  bool
	genUpdate    bool
	genHeadless  bool
	genQtVersion string
	genQtRoot    string
	genVS        string
	genToolchain string
	genXcode     bool
	genNoBundle  bool
	genOutput    string
	genSource    string
	genDefines   []string
	genBuild     bool
	genJobs      int
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Fetch dependencies and generate the build files",
	Long: `Runs the full pre-build flow: synchronizes all pinned dependencies, creates
the platform-specific output directories, locates the Qt install, and invokes
CMake with the appropriate generator for every build configuration. With
--build the compiled build is run afterwards.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := loadManifest()
		if err != nil {
			return err
		}

		root, err := manifestRoot()
		if err != nil {
			return err
		}

		info("Fetching project dependencies ...")
		fetchEng := newFetchEngine(root)
		result, err := fetchEng.Sync(cmd.Context(), m, fetch.Options{Update: genUpdate, Internal: genInternal})
		if result != nil {
			for _, a := range result.Actions {
				detail("%-60s %s", a.Source, a.Status)
			}
		}
		if err != nil {
			return err
		}

		eng := newGenerateEngine(root, genSource)
		params := generate.Params{
			OutputRoot: genOutput,
			Internal:   genInternal,
			Headless:   genHeadless,
			QtRoot:     genQtRoot,
			QtVersion:  genQtVersion,
			VS:         genVS,
			Toolchain:  genToolchain,
			Xcode:      genXcode,
			NoBundle:   genNoBundle,
			Defines:    genDefines,
			Jobs:       genJobs,
		}

		info("Generating build files ...")
		if err := eng.Generate(cmd.Context(), params); err != nil {
			return err
		}

		if genBuild {
			info("Building all configurations ...")
			if err := eng.Build(cmd.Context(), params); err != nil {
				return err
			}
		}

		info("Pre-build complete.")
		return nil
	},
}

func init() {
	generateCmd.Flags().BoolVar(&genInternal, "internal", false, "configure an internal build (includes internal-only dependencies)")
	generateCmd.Flags().BoolVar(&genUpdate, "update", false, "refresh dependency working copies that already exist")
	generateCmd.Flags().BoolVar(&genHeadless, "no-qt", false, "generate a headless build without the Qt UI")
	generateCmd.Flags().StringVar(&genQtVersion, "qt", "5.12.6", "Qt version to build against")
	generateCmd.Flags().StringVar(&genQtRoot, "qt-root", "", "root directory of the Qt install (default: C:\\Qt on Windows, ~/Qt elsewhere)")
	generateCmd.Flags().StringVar(&genVS, "vs", "2017", "Visual Studio version to generate for (2017 or 2019)")
	generateCmd.Flags().StringVar(&genToolchain, "toolchain", "2017", "compiler toolchain version (2017 or 2019)")
	generateCmd.Flags().BoolVar(&genXcode, "xcode", false, "generate an Xcode project instead of makefiles (macOS)")
	generateCmd.Flags().BoolVar(&genNoBundle, "no-bundle", false, "build a plain executable instead of an app bundle (macOS)")
	generateCmd.Flags().StringVar(&genOutput, "output", "", "output root for generated and built files (default: platform subdirectory next to the manifest)")
	generateCmd.Flags().StringVar(&genSource, "source", "", "directory containing the top-level CMakeLists.txt (default: parent of the manifest directory)")
	generateCmd.Flags().StringArrayVar(&genDefines, "define", nil, "extra CMake definition, key=value (repeatable)")
	generateCmd.Flags().BoolVar(&genBuild, "build", false, "build all configurations after generating")
	generateCmd.Flags().IntVar(&genJobs, "build-jobs", 4, "number of simultaneous build jobs")
	rootCmd.AddCommand(generateCmd)
}
