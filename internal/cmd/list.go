package cmd

import (
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/zfogg/otakulist/pkg/config"
	clierrors "github.com/zfogg/otakulist/pkg/errors"
	"github.com/zfogg/otakulist/pkg/service"
)

var (
	listPage        int
	listPageSize    int
	listPublic      bool
	listDescription string
	listNotes       string
	listOnConflict  string
	arrangeFile     string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Custom list commands",
	Long: `Create and curate ordered lists of anime and manga.

Items are referred to by their position in the list ("3" or "#3") or by
item id.`,
}

var listLsCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"all"},
	Short:   "List your lists",
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewListService().ListLists(listPage, listPageSize)
	},
}

var listViewCmd = &cobra.Command{
	Use:   "view <list-id>",
	Short: "Show a list in order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewListService().ViewList(args[0])
	},
}

var listCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a new list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := service.NewListService().CreateList(args[0], listDescription, listPublic)
		return err
	},
}

var listDeleteCmd = &cobra.Command{
	Use:   "delete <list-id>",
	Short: "Delete a list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewListService().DeleteList(args[0])
	},
}

var listAddCmd = &cobra.Command{
	Use:   "add <list-id> <media-id>",
	Short: "Append a catalog entry to a list",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := service.NewListService().AddItem(args[0], args[1], listNotes)
		return err
	},
}

var listRmCmd = &cobra.Command{
	Use:     "rm <list-id> <item>",
	Aliases: []string{"remove"},
	Short:   "Remove an item from a list",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewListService().RemoveItem(args[0], args[1])
	},
}

var listMoveCmd = &cobra.Command{
	Use:   "move <list-id> <item> <target>",
	Short: "Move an item into another item's slot",
	Long: `Move an item into the slot currently held by target. Items in
between shift by one. The new order is shown at once and rolled back if
the server refuses it.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := applyConflictFlag(); err != nil {
			return err
		}
		return service.NewListService().MoveItem(cmd.Context(), args[0], args[1], args[2])
	},
}

var listArrangeCmd = &cobra.Command{
	Use:   "arrange <list-id>",
	Short: "Reorder a list interactively",
	Long: `Read move commands, one per line, and apply each immediately
without waiting for the previous one to be saved:

  move <item> <target>   (or: mv)
  show
  quit

Commands are read from stdin unless --file is given.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := applyConflictFlag(); err != nil {
			return err
		}

		var in io.Reader = cmd.InOrStdin()
		if arrangeFile != "" {
			f, err := os.Open(arrangeFile)
			if err != nil {
				return err
			}
			defer f.Close()
			in = f
		}
		return service.NewListService().Arrange(cmd.Context(), args[0], in)
	},
}

var listFollowCmd = &cobra.Command{
	Use:   "follow <list-id>",
	Short: "Follow someone else's public list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewListService().FollowList(args[0])
	},
}

var listUnfollowCmd = &cobra.Command{
	Use:   "unfollow <list-id>",
	Short: "Stop following a list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewListService().UnfollowList(args[0])
	},
}

// applyConflictFlag overrides reorder.on_conflict for this run
func applyConflictFlag() error {
	switch listOnConflict {
	case "":
		return nil
	case config.ConflictPrompt, config.ConflictReload, config.ConflictKeep:
		config.Set("reorder.on_conflict", listOnConflict)
		return nil
	}
	return clierrors.ValidationError("on-conflict", "must be prompt, reload or keep")
}

func init() {
	listLsCmd.Flags().IntVar(&listPage, "page", 1, "Page number")
	listLsCmd.Flags().IntVar(&listPageSize, "page-size", 20, "Results per page")

	listCreateCmd.Flags().BoolVar(&listPublic, "public", false, "Make the list public")
	listCreateCmd.Flags().StringVarP(&listDescription, "description", "d", "", "List description")

	listAddCmd.Flags().StringVar(&listNotes, "notes", "", "Notes shown under the entry")

	for _, c := range []*cobra.Command{listMoveCmd, listArrangeCmd} {
		c.Flags().StringVar(&listOnConflict, "on-conflict", "", "What to do when someone else changed the list: prompt, reload or keep")
	}
	listArrangeCmd.Flags().StringVarP(&arrangeFile, "file", "f", "", "Read move commands from a file")

	listCmd.AddCommand(listLsCmd)
	listCmd.AddCommand(listViewCmd)
	listCmd.AddCommand(listCreateCmd)
	listCmd.AddCommand(listDeleteCmd)
	listCmd.AddCommand(listAddCmd)
	listCmd.AddCommand(listRmCmd)
	listCmd.AddCommand(listMoveCmd)
	listCmd.AddCommand(listArrangeCmd)
	listCmd.AddCommand(listFollowCmd)
	listCmd.AddCommand(listUnfollowCmd)

	rootCmd.AddCommand(listCmd)
}
