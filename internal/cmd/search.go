package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/zfogg/otakulist/pkg/service"
)

var (
	searchType  string
	searchLimit int
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the anime and manga catalog",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewSearchService().Search(strings.Join(args, " "), searchType, searchLimit)
	},
}

func init() {
	searchCmd.Flags().StringVarP(&searchType, "type", "t", "", "Restrict to anime or manga")
	searchCmd.Flags().IntVar(&searchLimit, "limit", 20, "Maximum number of results (1-50)")
}
