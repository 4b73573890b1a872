package cmd

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/zfogg/otakulist/pkg/service"
)

var authTokenTTL time.Duration

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authentication commands",
	Long: `Store the access token issued by the otakulist website.
Sign in through the browser, copy the token from your account page and
hand it to 'otakulist auth token'.`,
}

var authTokenCmd = &cobra.Command{
	Use:   "token [token]",
	Short: "Save an access token (prompts when omitted)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		token := ""
		if len(args) == 1 {
			token = args[0]
		}
		return service.NewAuthService().SaveToken(token, authTokenTTL)
	},
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored token",
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewAuthService().Logout()
	},
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check whether the stored token is accepted",
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewAuthService().Status()
	},
}

func init() {
	authTokenCmd.Flags().DurationVar(&authTokenTTL, "ttl", 0, "Forget the token after this long (e.g. 720h)")

	authCmd.AddCommand(authTokenCmd)
	authCmd.AddCommand(authLogoutCmd)
	authCmd.AddCommand(authStatusCmd)
}
