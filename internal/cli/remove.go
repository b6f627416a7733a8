package cli

import (
	"github.com/kodictl/kodictl/internal/ensure"
	"github.com/spf13/cobra"
)

var removeCheck bool

var removeCmd = &cobra.Command{
	Use:   "remove <addon-id>",
	Short: "Remove an installed addon",
	Long: `Remove an addon's directory and its record in the Addons database.
Dependencies are left untouched.`,
	Args: cobra.ExactArgs(1),
	RunE: runRemove,
}

func init() {
	removeCmd.Flags().BoolVar(&removeCheck, "check", false,
		"Only report whether a change would occur")
	addTargetFlags(removeCmd)
	rootCmd.AddCommand(removeCmd)
}

func runRemove(cmd *cobra.Command, args []string) error {
	req, err := buildRequest(cmd, args[0], ensure.StateAbsent, removeCheck)
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
