package cli

import (
	"github.com/kodictl/kodictl/internal/ensure"
	"github.com/spf13/cobra"
)

var (
	installDisabled bool
	installCheck    bool
)

var installCmd = &cobra.Command{
	Use:   "install <addon-id>",
	Short: "Install an addon and its dependencies",
	Long: `Install an addon and everything it depends on from the release-channel
mirror, enabling the addon unless --disabled is given. Dependencies that are
already present are left untouched.`,
	Args: cobra.ExactArgs(1),
	RunE: runInstall,
}

func init() {
	installCmd.Flags().BoolVar(&installDisabled, "disabled", false,
		"Install the addon but leave it disabled")
	installCmd.Flags().BoolVar(&installCheck, "check", false,
		"Only report whether a change would occur")
	addTargetFlags(installCmd)
	rootCmd.AddCommand(installCmd)
}

func runInstall(cmd *cobra.Command, args []string) error {
	state := ensure.StateEnabled
	if installDisabled {
		state = ensure.StateDisabled
	}

	req, err := buildRequest(cmd, args[0], state, installCheck)
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
