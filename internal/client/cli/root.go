package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command. Flags override the configuration a
// was built with.
func NewRootCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "phoneauth",
		Short: "PhoneAuth command-line client",
		Long: `Register, log in and manage a PhoneAuth session from the terminal.
The current token is kept in a file readable only by you.`,
		SilenceUsage: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			a.setup()
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&a.config.ServerURL, "server", "u", a.config.ServerURL, "base URL of the PhoneAuth server")
	pf.StringVarP(&a.config.TokenFile, "token-file", "f", a.config.TokenFile, "file holding the current token")
	pf.DurationVar(&a.config.Timeout, "timeout", a.config.Timeout, "request timeout")

	cmd.AddCommand(newRegisterCmd(a))
	cmd.AddCommand(newLoginCmd(a))
	cmd.AddCommand(newMeCmd(a))
	cmd.AddCommand(newRefreshCmd(a))
	cmd.AddCommand(newLogoutCmd(a))

	return cmd
}
