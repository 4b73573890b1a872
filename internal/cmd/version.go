package cmd

import (
	"github.com/spf13/cobra"
	"github.com/zfogg/otakulist/pkg/client"
	"github.com/zfogg/otakulist/pkg/output"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show CLI version",
	Run: func(cmd *cobra.Command, args []string) {
		output.Printf("%s\n", client.UserAgent)
	},
}
