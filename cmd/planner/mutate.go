package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pkordes/tripboard/internal/presenter"
	"github.com/pkordes/tripboard/internal/render"
)

func addAdd(topLevel *cobra.Command, ro *rootOptions) {
	do := &draftOptions{}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a trip event",
		Example: `
planner add --type taxi --destination Amsterdam --from "2025-06-10 08:00" --to "2025-06-10 08:40" --price 40 --offer "Order Uber"
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), ro.cfg, ro.log)
			if err != nil {
				return err
			}
			defer s.close()

			s.do(func(o *presenter.Orchestrator) {
				if err = o.CreateEvent(); err != nil {
					return
				}
				c := o.Creation()
				draft, applyErr := do.apply(c.Draft(), cmd.Flags().Changed, s.store.Destinations(), s.store.Offers())
				if applyErr != nil {
					c.Cancel()
					err = applyErr
					return
				}
				err = c.Submit(draft)
			})
			if err != nil {
				return err
			}
			s.settle()

			var rejected bool
			s.do(func(o *presenter.Orchestrator) {
				c := o.Creation()
				rejected = c != nil && c.State() == presenter.CreationAborting
			})
			return report(s, rejected, "event added")
		},
	}

	addDraftArgs(cmd, do)
	topLevel.AddCommand(cmd)
}

func addUpdate(topLevel *cobra.Command, ro *rootOptions) {
	do := &draftOptions{}

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Edit a trip event",
		Example: `
planner update 6f1c2a9b --price 120 --offer Upgrade
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOnItem(cmd, ro, args[0], "event updated", func(s *session, c *presenter.ItemController) error {
				if err := c.OpenEditor(); err != nil {
					return err
				}
				draft, err := do.apply(c.Event(), cmd.Flags().Changed, s.store.Destinations(), s.store.Offers())
				if err != nil {
					c.CloseEditor()
					return err
				}
				return c.Submit(draft)
			})
		},
	}

	addDraftArgs(cmd, do)
	topLevel.AddCommand(cmd)
}

func addFavorite(topLevel *cobra.Command, ro *rootOptions) {
	cmd := &cobra.Command{
		Use:   "favorite ID",
		Short: "Toggle the favorite mark of a trip event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOnItem(cmd, ro, args[0], "favorite toggled", func(_ *session, c *presenter.ItemController) error {
				return c.ToggleFavorite()
			})
		},
	}
	topLevel.AddCommand(cmd)
}

func addDelete(topLevel *cobra.Command, ro *rootOptions) {
	cmd := &cobra.Command{
		Use:     "delete ID",
		Aliases: []string{"rm"},
		Short:   "Delete a trip event",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOnItem(cmd, ro, args[0], "event deleted", func(_ *session, c *presenter.ItemController) error {
				if err := c.OpenEditor(); err != nil {
					return err
				}
				return c.Delete()
			})
		},
	}
	topLevel.AddCommand(cmd)
}

// runOnItem loads the board, runs act on the controller of the event ref
// names, waits for the change to settle and prints the outcome.
func runOnItem(cmd *cobra.Command, ro *rootOptions, ref, done string,
	act func(s *session, c *presenter.ItemController) error) error {
	s, err := openSession(cmd.Context(), ro.cfg, ro.log)
	if err != nil {
		return err
	}
	defer s.close()

	id, err := matchEvent(s.store.Events(), ref)
	if err != nil {
		return err
	}

	s.do(func(o *presenter.Orchestrator) {
		c, ok := o.Item(id)
		if !ok {
			err = fmt.Errorf("event %s is not on the board", id)
			return
		}
		err = act(s, c)
	})
	if err != nil {
		return err
	}
	s.settle()

	var rejected bool
	s.do(func(o *presenter.Orchestrator) {
		rejected = itemFailed(o, id)
	})
	return report(s, rejected, done)
}

// itemFailed reports whether the controller for id shows a rolled-back change.
// A controller that is gone was deleted.
func itemFailed(o *presenter.Orchestrator, id uuid.UUID) bool {
	c, ok := o.Item(id)
	if !ok {
		return false
	}
	switch v := c.View().(type) {
	case render.EventView:
		return v.Failed
	case render.EditorView:
		return v.Failed
	default:
		return false
	}
}

func report(s *session, rejected bool, done string) error {
	var out string
	s.do(func(o *presenter.Orchestrator) { out = printBoard(o) })
	if _, err := io.WriteString(color.Output, out); err != nil {
		return err
	}
	if rejected {
		return errRejected
	}
	_, err := fmt.Fprintln(color.Output, color.GreenString(done))
	return err
}
