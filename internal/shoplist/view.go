package shoplist

import (
	"sort"
	"strings"

	"github.com/Makepad-fr/shoplist/internal/model"
)

// ViewState is the ephemeral filter state of the list. It is never persisted.
type ViewState struct {
	Tag      string // empty means no tag filter
	Search   string
	HideDone bool
}

// Match reports whether it passes every active filter.
func (v ViewState) Match(it model.Item) bool {
	title := strings.ToLower(it.Title)
	if v.Search != "" && !strings.Contains(title, strings.ToLower(v.Search)) {
		return false
	}
	if v.Tag != "" && !strings.Contains(title, strings.ToLower(v.Tag)) {
		return false
	}
	if v.HideDone && it.IsDone {
		return false
	}
	return true
}

// Visible filters items through v and sorts the result by tag-stripped
// title, case-insensitively. Completion never affects the order.
func Visible(items []model.Item, v ViewState) []model.Item {
	out := make([]model.Item, 0, len(items))
	for _, it := range items {
		if v.Match(it) {
			out = append(out, it)
		}
	}
	SortByTitle(out)
	return out
}

// SortByTitle sorts in place. Items whose stripped titles collate equal
// keep their relative order.
func SortByTitle(items []model.Item) {
	col := newCollator()
	sort.SliceStable(items, func(i, j int) bool {
		return col.CompareString(StripTags(items[i].Title), StripTags(items[j].Title)) < 0
	})
}
