package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/pkordes/tripboard/internal/domain"
	"github.com/pkordes/tripboard/internal/listing"
	"github.com/pkordes/tripboard/internal/presenter"
	"github.com/pkordes/tripboard/internal/render"
)

const timeLayout = "02 Jan 15:04"

type listOptions struct {
	filter string
	sort   string
}

func addList(topLevel *cobra.Command, ro *rootOptions) {
	lo := &listOptions{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the trip events",
		Example: `
planner list
planner list --filter past
planner list --sort price
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), ro.cfg, ro.log)
			if err != nil {
				return err
			}
			defer s.close()

			var out string
			var applyErr error
			s.do(func(o *presenter.Orchestrator) {
				if lo.filter != "" {
					if applyErr = o.SetFilter(listing.FilterName(lo.filter)); applyErr != nil {
						return
					}
				}
				if lo.sort != "" {
					if applyErr = o.SetSort(listing.SortName(lo.sort)); applyErr != nil {
						return
					}
				}
				out = printBoard(o)
			})
			if applyErr != nil {
				return applyErr
			}
			_, err = io.WriteString(color.Output, out)
			return err
		},
	}

	cmd.Flags().StringVarP(&lo.filter, "filter", "f", "",
		"filter: everything, future, present or past")
	cmd.Flags().StringVarP(&lo.sort, "sort", "s", "",
		"sort: day, time or price")

	topLevel.AddCommand(cmd)
}

// printBoard renders the filter tabs, the sort panel and the list.
// Must run on the loop.
func printBoard(o *presenter.Orchestrator) string {
	var b strings.Builder

	counts := o.FilterCounts()
	tabs := make([]string, 0, len(counts))
	for _, f := range listing.DefaultFilters().All() {
		label := fmt.Sprintf("%s (%d)", f.Name, counts[f.Name])
		if counts[f.Name] == 0 {
			label = color.New(color.Faint).Sprint(label)
		}
		tabs = append(tabs, label)
	}
	fmt.Fprintln(&b, strings.Join(tabs, "  "))

	for _, v := range o.Panel().Views() {
		fmt.Fprintln(&b, render.Text(v))
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	for _, v := range o.List().Views() {
		switch v := v.(type) {
		case render.EventView:
			tbl.AddRow(eventRow(v)...)
		case render.EmptyView:
			fmt.Fprintln(&b, color.New(color.Italic).Sprint(v.Message))
		default:
			tbl.AddRow(render.Text(v))
		}
	}
	if len(tbl.Rows) > 0 {
		fmt.Fprintln(&b, tbl)
	}
	return b.String()
}

func eventRow(v render.EventView) []any {
	star := " "
	if v.Event.IsFavorite {
		star = color.YellowString("★")
	}
	titles := make([]string, len(v.Offers))
	for i, o := range v.Offers {
		titles[i] = fmt.Sprintf("%s +€%d", o.Title, o.Price)
	}
	id := v.Event.ID.String()[:8]
	if v.Failed {
		id = color.RedString(id)
	}
	return []any{
		star,
		id,
		color.CyanString(string(v.Event.Type)),
		v.Destination.Name,
		v.Event.DateFrom.Local().Format(timeLayout),
		v.Event.DateTo.Local().Format(timeLayout),
		formatDuration(v.Event),
		fmt.Sprintf("€%d", v.Event.BasePrice),
		strings.Join(titles, ", "),
	}
}

// formatDuration prints 1D 02H 30M style durations, dropping leading zero units.
func formatDuration(e domain.TripEvent) string {
	d := e.Duration()
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	switch {
	case days > 0:
		return fmt.Sprintf("%02dD %02dH %02dM", days, hours, minutes)
	case hours > 0:
		return fmt.Sprintf("%02dH %02dM", hours, minutes)
	default:
		return fmt.Sprintf("%02dM", minutes)
	}
}
