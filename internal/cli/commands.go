package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/tada/internal/model"
	"github.com/idilsaglam/tada/internal/store/jsonstore"
	"github.com/idilsaglam/tada/internal/todos"
	"github.com/idilsaglam/tada/internal/ui"
)

func newListCmd(app *App) *cobra.Command {
	var group bool
	cmd := &cobra.Command{
		Use:   "ls",
		Short: "List items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctl := app.controller()
			ctl.Settle(ctl.Refresh())
			if err := ctl.Err(); err != nil {
				return fmt.Errorf("load: %w", err)
			}
			if !cmd.Flags().Changed("group") {
				group = app.cfg.UI.Group
			}
			ui.Panel(cmd.OutOrStdout(), listLines(ctl.Items(), group))
			return nil
		},
	}
	cmd.Flags().BoolVar(&group, "group", false, "group output by pending/done")
	return cmd
}

func newAddCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add <title...>",
		Short: "Add a new item (title can be multiple words)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctl := app.controller()
			ctl.SetDraft(strings.Join(args, " "))
			create := ctl.Create()
			if create == nil {
				return fmt.Errorf("add: empty title")
			}
			ctl.Settle(create)
			if err := ctl.Err(); err != nil {
				// The draft is cleared only once the create succeeded.
				if ctl.Draft() != "" {
					return fmt.Errorf("add: %w", err)
				}
				return fmt.Errorf("load: %w", err)
			}
			ui.OK(cmd.OutOrStdout(), "added")
			return nil
		},
	}
}

func newDoneCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "done <index>",
		Short: "Toggle done for item at 1-based index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctl := app.controller()
			item, err := itemAt(cmd, &ctl, args[0])
			if err != nil {
				return err
			}
			ctl.Settle(ctl.ToggleDone(item))
			if err := ctl.Err(); err != nil {
				return fmt.Errorf("done: %w", err)
			}
			ui.OK(cmd.OutOrStdout(), "toggled")
			return nil
		},
	}
}

func newRenameCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <index> <title...>",
		Short: "Rename item at 1-based index",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctl := app.controller()
			item, err := itemAt(cmd, &ctl, args[0])
			if err != nil {
				return err
			}
			rename := ctl.Rename(item, strings.Join(args[1:], " "))
			if rename == nil {
				ui.Hint(cmd.OutOrStdout(), "unchanged")
				return nil
			}
			ctl.Settle(rename)
			if err := ctl.Err(); err != nil {
				return fmt.Errorf("rename: %w", err)
			}
			ui.OK(cmd.OutOrStdout(), "renamed")
			return nil
		},
	}
}

func newRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <index>",
		Short: "Remove item at 1-based index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctl := app.controller()
			item, err := itemAt(cmd, &ctl, args[0])
			if err != nil {
				return err
			}
			ctl.Settle(ctl.Remove(item))
			if err := ctl.Err(); err != nil {
				return fmt.Errorf("rm: %w", err)
			}
			ui.OK(cmd.OutOrStdout(), "removed")
			return nil
		},
	}
}

func newExportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "export <file>",
		Short: "Write the current list to a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctl := app.controller()
			ctl.Settle(ctl.Refresh())
			if err := ctl.Err(); err != nil {
				return fmt.Errorf("load: %w", err)
			}
			items := ctl.Items()
			if err := jsonstore.Save(args[0], items); err != nil {
				return fmt.Errorf("export: %w", err)
			}
			ui.OK(cmd.OutOrStdout(), fmt.Sprintf("exported %d items to %s", len(items), args[0]))
			return nil
		},
	}
}

func newHealthCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the API is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := contextWithTimeout(cmd, app.cfg.API.Timeout())
			defer cancel()
			if err := app.client.Health(ctx); err != nil {
				return fmt.Errorf("health: %w", err)
			}
			ui.OK(cmd.OutOrStdout(), "api ok at "+app.client.BaseURL())
			return nil
		},
	}
}

// itemAt refreshes ctl and resolves a 1-based index against the snapshot.
func itemAt(cmd *cobra.Command, ctl *todos.Controller, arg string) (model.Item, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return model.Item{}, fmt.Errorf("not a number: %s", arg)
	}
	ctl.Settle(ctl.Refresh())
	if err := ctl.Err(); err != nil {
		return model.Item{}, fmt.Errorf("load: %w", err)
	}
	items := ctl.Items()
	if n < 1 || n > len(items) {
		ui.Hint(cmd.ErrOrStderr(), "Hint: run `todo ls` to see valid indexes")
		return model.Item{}, fmt.Errorf("index out of range: have %d, got %d", len(items), n)
	}
	return items[n-1], nil
}
