package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/Makepad-fr/shoplist/internal/model"
	"github.com/Makepad-fr/shoplist/internal/shoplist"
	"github.com/Makepad-fr/shoplist/internal/ui"
)

func (a *app) listCmd() *cobra.Command {
	var (
		view  shoplist.ViewState
		theme string
		color string
		group bool
	)
	cmd := &cobra.Command{
		Use:   "ls",
		Short: "Print the list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open()
			if err != nil {
				return err
			}
			defer s.Close()
			c, err := s.client()
			if err != nil {
				return err
			}
			items, err := c.List(cmd.Context())
			if err != nil {
				return err
			}
			switch color {
			case "always":
				ui.SetColorForcing(true, false)
			case "never":
				ui.SetColorForcing(false, true)
			}
			ui.SetTheme(theme)
			if view.Tag != "" && !strings.HasPrefix(view.Tag, "#") {
				view.Tag = "#" + view.Tag
			}
			printList(cmd.OutOrStdout(), items, view, group)
			return nil
		},
	}
	cmd.Flags().BoolVar(&view.HideDone, "hide-done", false, "hide completed items")
	cmd.Flags().StringVar(&view.Tag, "tag", "", "only items carrying this #tag")
	cmd.Flags().StringVar(&view.Search, "search", "", "only items whose title contains this text")
	cmd.Flags().StringVar(&theme, "theme", "classic", "output theme: "+strings.Join(ui.Themes, "|"))
	cmd.Flags().StringVar(&color, "color", "auto", "colorize output: auto|always|never")
	cmd.Flags().BoolVar(&group, "group", false, "list pending and done items in separate sections")
	return cmd
}

// printList renders the filtered view in a panel. Counts and the progress
// bar cover the whole list, not just the filtered rows.
func printList(w io.Writer, items []model.Item, view shoplist.ViewState, group bool) {
	t := ui.Current()
	var done int
	for _, it := range items {
		if it.IsDone {
			done++
		}
	}
	header := fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		ui.C(t.Title, "Shopping list"),
		ui.C(t.Success, "✔"), done,
		ui.C(t.Pending, "•"), len(items)-done,
		ui.C(t.Accent, "Total"), len(items),
	)

	lines := []string{
		header,
		ui.C(t.Muted, ui.ProgressBar(done, len(items), 28)),
		"",
	}
	visible := shoplist.Visible(items, view)
	if group {
		lines = append(lines, groupLines(visible)...)
	} else {
		lines = append(lines, itemLines(visible)...)
	}
	lines = append(lines, "", ui.C(t.Muted, "Tip: add with `shoplist add \"Milk #dairy\"`"))
	ui.Panel(w, lines)
}

func itemLines(items []model.Item) []string {
	t := ui.Current()
	if len(items) == 0 {
		return []string{ui.C(t.Muted, "no items")}
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		box, color := t.BoxUnchecked, t.Muted
		if it.IsDone {
			box, color = t.BoxChecked, t.Success
		}
		title := runewidth.Truncate(shoplist.StripTags(it.Title), 60, "...")
		line := fmt.Sprintf("%s %s %s", ui.C(t.Muted, fmt.Sprintf("%4s", it.ID)), ui.C(color, box), title)
		for _, tag := range shoplist.ExtractTags(it.Title) {
			line += " " + ui.C(t.Tag, tag)
		}
		out = append(out, line)
	}
	return out
}

// groupLines splits items into a pending and a done section, each keeping
// the sorted order.
func groupLines(items []model.Item) []string {
	t := ui.Current()
	var pend, done []model.Item
	for _, it := range items {
		if it.IsDone {
			done = append(done, it)
		} else {
			pend = append(pend, it)
		}
	}
	section := func(title string, its []model.Item) []string {
		lines := []string{ui.C(t.Accent, title)}
		if len(its) == 0 {
			return append(lines, ui.C(t.Muted, "(none)"))
		}
		return append(lines, itemLines(its)...)
	}
	lines := section("Pending", pend)
	lines = append(lines, "")
	return append(lines, section("Done", done)...)
}
