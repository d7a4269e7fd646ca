// Package listflags registers the flags shared by commands that list tasks.
package listflags

import "github.com/spf13/cobra"

// AddAllFlag adds --all (-a), which widens a listing to archived tasks.
func AddAllFlag(cmd *cobra.Command, target *bool) {
	const usage = "Include archived tasks"
	if target == nil {
		cmd.Flags().BoolP("all", "a", false, usage)
		return
	}

	cmd.Flags().BoolVarP(target, "all", "a", false, usage)
}

// AddSortFlags adds --oldest and --newest, which override the configured
// sort order. At most one may be given.
func AddSortFlags(cmd *cobra.Command, oldest, newest *bool) {
	cmd.Flags().BoolVar(oldest, "oldest", false, "Sort oldest first")
	cmd.Flags().BoolVar(newest, "newest", false, "Sort newest first")
	cmd.MarkFlagsMutuallyExclusive("oldest", "newest")
}
