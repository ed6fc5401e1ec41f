package render

import (
	"fmt"
	"strings"
)

const timeLayout = "02 Jan 15:04"

// Text renders a one-line description of v for terminal output and logs.
func Text(v View) string {
	switch v := v.(type) {
	case EventView:
		star := " "
		if v.Event.IsFavorite {
			star = "*"
		}
		line := fmt.Sprintf("%s %-11s %-12s %s - %s  €%d",
			star, v.Event.Type, v.Destination.Name,
			v.Event.DateFrom.Format(timeLayout), v.Event.DateTo.Format(timeLayout),
			v.Event.BasePrice)
		if len(v.Offers) > 0 {
			titles := make([]string, len(v.Offers))
			for i, o := range v.Offers {
				titles[i] = o.Title
			}
			line += "  [" + strings.Join(titles, ", ") + "]"
		}
		if v.Failed {
			line += "  (failed)"
		}
		return line
	case EditorView:
		verb := "edit"
		if v.Mode == EditorCreate {
			verb = "new"
		}
		state := ""
		switch {
		case v.Saving:
			state = " saving..."
		case v.Deleting:
			state = " deleting..."
		case v.Failed:
			state = " failed, retry"
		}
		return fmt.Sprintf("[%s %s €%d]%s", verb, v.Draft.Type, v.Draft.BasePrice, state)
	case EmptyView:
		return v.Message
	case SortPanelView:
		parts := make([]string, len(v.Items))
		for i, it := range v.Items {
			switch {
			case it.Checked:
				parts[i] = "(" + it.Name + ")"
			case it.Disabled:
				parts[i] = "-" + it.Name + "-"
			default:
				parts[i] = it.Name
			}
		}
		return "sort: " + strings.Join(parts, " ")
	default:
		return v.Kind()
	}
}
