package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Makepad-fr/shoplist/internal/model"
	"github.com/Makepad-fr/shoplist/internal/shoplist"
)

// listItem adapts model.Item to bubbles/list.Item
type listItem struct {
	model.Item
}

func (i listItem) FilterValue() string { return i.Title }

// itemDelegate renders one line per item: box, stripped title, tag chips.
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(listItem)
	if !ok {
		return
	}
	box := mutedStyle.Render(boxUnchecked)
	text := shoplist.StripTags(it.Title)
	if it.IsDone {
		box = successStyle.Render(boxChecked)
		text = doneStyle.Render(text)
	}

	var tags []string
	for _, t := range shoplist.ExtractTags(it.Title) {
		tags = append(tags, tagStyle.Render(t))
	}
	line := fmt.Sprintf("%s %s", box, text)
	if len(tags) > 0 {
		line += " " + strings.Join(tags, " ")
	}

	prefix := "  "
	if index == m.Index() {
		prefix = selectedStyle.Render("> ")
	}
	fmt.Fprint(w, prefix+line)
}
