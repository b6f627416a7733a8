package cli

import (
	"fmt"

	"github.com/kodictl/kodictl/internal/config"
	"github.com/kodictl/kodictl/internal/ensure"
	"github.com/spf13/cobra"
)

var (
	ensureState string
	ensureCheck bool
)

var ensureCmd = &cobra.Command{
	Use:   "ensure <addon-id>",
	Short: "Drive an addon to a target state",
	Long: `Ensure an addon is in the requested state: present/enabled install the
addon and its dependencies and enable it, disabled installs it without
enabling, absent removes it. With --check nothing is touched and the command
only reports whether a change would occur.`,
	Args: cobra.ExactArgs(1),
	RunE: runEnsure,
}

func init() {
	ensureCmd.Flags().StringVar(&ensureState, "state", string(ensure.StateEnabled),
		"Target state: present, enabled, disabled, or absent")
	ensureCmd.Flags().BoolVar(&ensureCheck, "check", false,
		"Only report whether a change would occur")
	addTargetFlags(ensureCmd)
	rootCmd.AddCommand(ensureCmd)
}

func runEnsure(cmd *cobra.Command, args []string) error {
	state, err := ensure.ParseState(ensureState)
	if err != nil {
		return err
	}

	req, err := buildRequest(cmd, args[0], state, ensureCheck)
	if err != nil {
		return err
	}

	changed, err := ensure.Apply(req)
	if err != nil {
		return err
	}

	reportVerdict(cmd, changed, req.Check)
	return nil
}

// addTargetFlags registers the flags shared by every command that operates
// on a Kodi installation.
func addTargetFlags(cmd *cobra.Command) {
	cmd.Flags().String("release", "", "Kodi release channel (e.g. leia)")
	cmd.Flags().String("user", "", "OS user that runs Kodi (default from config, falls back to kodi)")
	cmd.Flags().String("home", "", "Kodi data directory (default ~<user>/.kodi)")
	cmd.Flags().String("mirror", "", "Addon mirror base URL")
}

// buildRequest assembles an ensure.Request from flags, falling back to the
// user config for anything not set on the command line.
func buildRequest(cmd *cobra.Command, addon string, state ensure.State, check bool) (ensure.Request, error) {
	flagOrConfig := func(flag, key string) string {
		if v, _ := cmd.Flags().GetString(flag); v != "" {
			return v
		}
		return config.Get(key)
	}

	req := ensure.Request{
		Addon:   addon,
		State:   state,
		User:    flagOrConfig("user", config.KeyUser),
		Release: flagOrConfig("release", config.KeyRelease),
		Home:    flagOrConfig("home", config.KeyHome),
		Mirror:  flagOrConfig("mirror", config.KeyMirror),
		Check:   check,
	}

	if req.Release == "" {
		return ensure.Request{}, fmt.Errorf("no release given: pass --release or run `kodictl config set release <name>`")
	}
	return req, nil
}

func reportVerdict(cmd *cobra.Command, changed, check bool) {
	switch {
	case check && changed:
		fmt.Fprintln(cmd.OutOrStdout(), "would change")
	case check:
		fmt.Fprintln(cmd.OutOrStdout(), "no change")
	case changed:
		fmt.Fprintln(cmd.OutOrStdout(), "changed")
	default:
		fmt.Fprintln(cmd.OutOrStdout(), "unchanged")
	}
}
