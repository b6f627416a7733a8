package cli

import (
	"fmt"

	"github.com/kodictl/kodictl/internal/ensure"
	"github.com/kodictl/kodictl/internal/kodidir"
	"github.com/kodictl/kodictl/internal/release"
	"github.com/kodictl/kodictl/internal/store"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List addons recorded in the Addons database",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	addTargetFlags(listCmd)
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	req, err := buildRequest(cmd, "", ensure.StatePresent, false)
	if err != nil {
		return err
	}

	ch, err := release.Lookup(req.Release)
	if err != nil {
		return err
	}

	home := req.Home
	if home == "" {
		home, err = kodidir.DefaultHome(req.User)
		if err != nil {
			return err
		}
	}

	st := store.New(kodidir.DatabasePath(home, ch.Database))

	records, err := st.List()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(records) == 0 {
		fmt.Fprintln(out, "No addons recorded.")
		return nil
	}
	for _, r := range records {
		flag := "disabled"
		if r.Enabled {
			flag = "enabled"
		}
		fmt.Fprintf(out, "%-40s %-9s %s\n", r.AddonID, flag, r.InstallDate)
	}
	return nil
}
