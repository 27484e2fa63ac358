package shoplist

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Makepad-fr/shoplist/internal/model"
)

func titles(items []model.Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Title)
	}
	return out
}

func TestViewState_Match(t *testing.T) {
	milk := model.Item{ID: "1", Title: "Milk #dairy"}
	assert.True(t, ViewState{Search: "milk"}.Match(milk))
	assert.True(t, ViewState{Search: "MILK"}.Match(milk))
	assert.True(t, ViewState{Tag: "#Dairy"}.Match(milk))
	assert.False(t, ViewState{Tag: "#fruit"}.Match(milk))

	done := milk
	done.IsDone = true
	assert.False(t, ViewState{Search: "milk", HideDone: true}.Match(done))
	assert.True(t, ViewState{Search: "milk"}.Match(done))
}

func TestVisible_HideDoneAndSearchIntersect(t *testing.T) {
	items := []model.Item{
		{ID: "1", Title: "Milk #dairy", IsDone: true},
		{ID: "2", Title: "Oat milk"},
		{ID: "3", Title: "Bread"},
		{ID: "4", Title: "Butter", IsDone: true},
	}
	v := ViewState{Search: "milk", HideDone: true}

	got := Visible(items, v)
	assert.Equal(t, []string{"Oat milk"}, titles(got))

	for _, it := range items {
		inBoth := ViewState{Search: "milk"}.Match(it) && ViewState{HideDone: true}.Match(it)
		assert.Equal(t, inBoth, v.Match(it), it.Title)
	}
}

func TestVisible_SortsByStrippedTitleIgnoringCase(t *testing.T) {
	items := []model.Item{
		{ID: "1", Title: "Bananas #fruit"},
		{ID: "2", Title: "apples"},
	}
	assert.Equal(t, []string{"apples", "Bananas #fruit"}, titles(Visible(items, ViewState{})))
}

func TestVisible_TagPrefixDoesNotAffectOrder(t *testing.T) {
	items := []model.Item{
		{ID: "1", Title: "#zzz Carrots"},
		{ID: "2", Title: "Beans #aaa", IsDone: true},
		{ID: "3", Title: "apricots"},
	}
	assert.Equal(t, []string{"apricots", "Beans #aaa", "#zzz Carrots"}, titles(Visible(items, ViewState{})))
}

func TestVisible_DoesNotMutateInput(t *testing.T) {
	items := []model.Item{{ID: "1", Title: "b"}, {ID: "2", Title: "a"}}
	_ = Visible(items, ViewState{})
	assert.Equal(t, []string{"b", "a"}, titles(items))
}
