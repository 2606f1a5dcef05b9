package cmd

import (
	"github.com/mwbennett/prebuild/internal/fetch"
	"github.com/spf13/cobra"
)

var (
	fetchInternal bool
	fetchUpdate   bool
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Bring every pinned dependency to its exact revision",
	Long: `Reads the dependency manifest and reconciles each local working copy with
its pinned revision: missing copies are cloned, existing copies are refreshed
and re-checked-out when --update is given, and otherwise left exactly as
found. The first failing dependency aborts the whole pass.`,
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
		eng := newFetchEngine(root)
		opts := fetch.Options{Update: fetchUpdate, Internal: fetchInternal}
		result, err := eng.Sync(cmd.Context(), m, opts)
		if result != nil {
			for _, a := range result.Actions {
				info("  %-60s %s", a.Source, a.Status)
			}
		}
		if err != nil {
			return err
		}

		info("")
		info("All dependencies synchronized.")
		return nil
	},
}

func init() {
	fetchCmd.Flags().BoolVar(&fetchInternal, "internal", false, "also fetch dependencies only needed for internal builds")
	fetchCmd.Flags().BoolVar(&fetchUpdate, "update", false, "refresh working copies that already exist")
	rootCmd.AddCommand(fetchCmd)
}
