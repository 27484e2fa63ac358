package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Makepad-fr/shoplist/internal/model"
	"github.com/Makepad-fr/shoplist/internal/nocodb"
)

// Remote is the backend surface the UI drives.
type Remote interface {
	List(ctx context.Context) ([]model.Item, error)
	Create(ctx context.Context, fields nocodb.Fields) error
	Update(ctx context.Context, id model.ID, fields nocodb.Fields) error
	Delete(ctx context.Context, id model.ID) error
}

type itemsFetchedMsg struct {
	items []model.Item
	err   error
}

type pollTickMsg struct{ gen uint64 }

type itemCreatedMsg struct {
	title string
	err   error
}

type itemUpdatedMsg struct {
	id model.ID
	// refresh asks for a list reload on success (edits do, toggles don't)
	refresh bool
	err     error
}

type itemDeletedMsg struct {
	id  model.ID
	err error
}

type copiedMsg struct {
	n   int
	err error
}

func fetchCmd(r Remote) tea.Cmd {
	return func() tea.Msg {
		items, err := r.List(context.Background())
		return itemsFetchedMsg{items: items, err: err}
	}
}

func createCmd(r Remote, title string) tea.Cmd {
	return func() tea.Msg {
		err := r.Create(context.Background(), nocodb.Fields{
			model.FieldTitle:  title,
			model.FieldIsDone: false,
		})
		return itemCreatedMsg{title: title, err: err}
	}
}

func updateCmd(r Remote, id model.ID, fields nocodb.Fields, refresh bool) tea.Cmd {
	return func() tea.Msg {
		err := r.Update(context.Background(), id, fields)
		return itemUpdatedMsg{id: id, refresh: refresh, err: err}
	}
}

func deleteCmd(r Remote, id model.ID) tea.Cmd {
	return func() tea.Msg {
		return itemDeletedMsg{id: id, err: r.Delete(context.Background(), id)}
	}
}

func tickCmd(d time.Duration, gen uint64) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return pollTickMsg{gen: gen}
	})
}

func copyCmd(write func(string) error, text string, n int) tea.Cmd {
	return func() tea.Msg {
		return copiedMsg{n: n, err: write(text)}
	}
}
