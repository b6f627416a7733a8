package cli

import (
	"fmt"
	"os"

	"github.com/kodictl/kodictl/internal/ensure"
	"github.com/kodictl/kodictl/internal/kodidir"
	"github.com/kodictl/kodictl/internal/release"
	"github.com/kodictl/kodictl/internal/store"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status <addon-id>",
	Short: "Show an addon's local state",
	Long: `Report both local signals for an addon without touching the network: the
addon directory on disk and the record in the Addons database. The two can
disagree after out-of-band changes; kodictl repairs the divergence on the
next ensure run.`,
	Args: cobra.ExactArgs(1),
	RunE: runStatus,
}

func init() {
	addTargetFlags(statusCmd)
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	// Reuse the ensure request plumbing for flag/config fallback; state is
	// irrelevant here.
	req, err := buildRequest(cmd, args[0], ensure.StatePresent, false)
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

	addonDir := kodidir.AddonPath(home, req.Addon)
	onDisk := false
	if info, err := os.Stat(addonDir); err == nil && info.IsDir() {
		onDisk = true
	}

	installed, err := st.IsInstalled(req.Addon)
	if err != nil {
		return err
	}
	enabled, err := st.IsEnabled(req.Addon)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "addon:     %s\n", req.Addon)
	fmt.Fprintf(out, "directory: %s (%s)\n", addonDir, presentWord(onDisk))
	fmt.Fprintf(out, "record:    %s\n", presentWord(installed))
	if installed {
		fmt.Fprintf(out, "enabled:   %t\n", enabled)
	}
	if onDisk != installed {
		fmt.Fprintln(out, "warning:   directory and database disagree; run `kodictl ensure` to reconcile")
	}
	return nil
}

func presentWord(b bool) string {
	if b {
		return "present"
	}
	return "missing"
}
