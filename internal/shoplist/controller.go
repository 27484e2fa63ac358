// Package shoplist holds the client-side state of the shopping list: the
// item snapshot, the view filters derived from it, and the poll schedule
// that keeps it in step with the backend.
package shoplist

import (
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/Makepad-fr/shoplist/internal/model"
)

// Controller owns the item collection and view state. It is not safe for
// concurrent use; the UI event loop is its only caller.
type Controller struct {
	items []model.Item
	view  ViewState
}

func NewController() *Controller {
	return &Controller{}
}

// Items returns a copy of the current snapshot in backend order.
func (c *Controller) Items() []model.Item {
	return append([]model.Item(nil), c.items...)
}

// ApplySnapshot replaces the collection with next when it differs from the
// current one and reports whether it did. The comparison is structural
// and order-sensitive: the same rows in another order count as a change.
func (c *Controller) ApplySnapshot(next []model.Item) bool {
	if cmp.Equal(c.items, next, cmpopts.EquateEmpty()) {
		return false
	}
	c.items = append([]model.Item(nil), next...)
	return true
}

// Find looks an item up by id.
func (c *Controller) Find(id model.ID) (model.Item, bool) {
	if i := c.index(id); i >= 0 {
		return c.items[i], true
	}
	return model.Item{}, false
}

// Toggle sets the done flag locally ahead of the remote confirmation.
func (c *Controller) Toggle(id model.ID, done bool) bool {
	i := c.index(id)
	if i < 0 {
		return false
	}
	c.items[i].IsDone = done
	return true
}

// Rename sets the title locally ahead of the remote confirmation.
func (c *Controller) Rename(id model.ID, title string) bool {
	i := c.index(id)
	if i < 0 {
		return false
	}
	c.items[i].Title = title
	return true
}

// Remove drops an item once the backend confirmed the delete.
func (c *Controller) Remove(id model.ID) bool {
	i := c.index(id)
	if i < 0 {
		return false
	}
	c.items = append(c.items[:i:i], c.items[i+1:]...)
	return true
}

func (c *Controller) index(id model.ID) int {
	for i := range c.items {
		if c.items[i].ID == id {
			return i
		}
	}
	return -1
}

func (c *Controller) View() ViewState { return c.view }

func (c *Controller) SetSearch(q string) { c.view.Search = q }

// SetTag activates a tag filter; the empty tag clears it.
func (c *Controller) SetTag(tag string) { c.view.Tag = tag }

func (c *Controller) ToggleHideDone() bool {
	c.view.HideDone = !c.view.HideDone
	return c.view.HideDone
}

// CycleTag moves the tag filter delta steps along the chip row, wrapping
// around through "All", and returns the new tag.
func (c *Controller) CycleTag(delta int) string {
	chips := c.Chips()
	cur := 0
	for i, ch := range chips {
		if ch.Tag == c.view.Tag {
			cur = i
			break
		}
	}
	n := len(chips)
	next := ((cur+delta)%n + n) % n
	c.view.Tag = chips[next].Tag
	return c.view.Tag
}

// Visible is the filtered, sorted list to display.
func (c *Controller) Visible() []model.Item { return Visible(c.items, c.view) }

// Chips is the tag filter row for the whole collection.
func (c *Controller) Chips() []Chip { return Chips(c.items) }

// Counts tallies done and pending items across the whole collection.
func (c *Controller) Counts() (done, pending int) {
	for _, it := range c.items {
		if it.IsDone {
			done++
		} else {
			pending++
		}
	}
	return
}
