package shoplist

import (
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/Makepad-fr/shoplist/internal/model"
)

var tagPattern = regexp.MustCompile(`#[\w-]+`)

// ExtractTags returns the hashtag tokens of title in order of appearance.
func ExtractTags(title string) []string {
	return tagPattern.FindAllString(title, -1)
}

// StripTags removes every tag token from title.
func StripTags(title string) string {
	return strings.TrimSpace(tagPattern.ReplaceAllString(title, ""))
}

// AllLabel is the label of the chip that clears the tag filter.
const AllLabel = "All"

// Chip is one entry of the tag filter row. The zero Tag is the "All" chip.
type Chip struct {
	Tag   string
	Count int
}

func (c Chip) Label() string {
	if c.Tag == "" {
		return AllLabel
	}
	return c.Tag
}

// Chips counts tag occurrences across items and returns them most
// frequent first, ties alphabetical, preceded by the "All" chip.
func Chips(items []model.Item) []Chip {
	counts := map[string]int{}
	for _, it := range items {
		for _, tag := range ExtractTags(it.Title) {
			counts[tag]++
		}
	}
	out := make([]Chip, 0, len(counts)+1)
	for tag, n := range counts {
		out = append(out, Chip{Tag: tag, Count: n})
	}
	col := newCollator()
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return compareText(col, out[i].Tag, out[j].Tag) < 0
	})
	return append([]Chip{{Count: len(items)}}, out...)
}

// collate.Collator keeps scratch buffers, so callers build one per sort.
func newCollator() *collate.Collator {
	return collate.New(language.Und, collate.IgnoreCase)
}

// compareText orders like a locale-aware compare and falls back to a
// byte comparison so distinct strings never tie.
func compareText(col *collate.Collator, a, b string) int {
	if c := col.CompareString(a, b); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}
