package site

import (
	"fmt"
	"maps"

	"git.home.luguber.info/inful/malvolio/internal/config"
	"git.home.luguber.info/inful/malvolio/internal/meta"
	"git.home.luguber.info/inful/malvolio/internal/util/sets"
)

// Item is the render record for one metadata entry. Fields is a copy of the
// parsed attributes; Href and ReadingTime are derived during the build.
type Item struct {
	Key         string
	Fields      map[string]any
	Href        string
	ReadingTime int
	tags        []string
}

func newItem(p config.PageType, e meta.Entry, readingTime int) Item {
	return Item{
		Key:         e.Key,
		Fields:      maps.Clone(e.Fields),
		Href:        p.Href(e.Key),
		ReadingTime: readingTime,
		tags:        e.Tags(),
	}
}

// Field returns the named attribute, or nil.
func (i Item) Field(name string) any {
	return i.Fields[name]
}

// Title returns the title attribute in textual form, falling back to the slug.
func (i Item) Title() string {
	if v, ok := i.Fields["title"]; ok && v != nil {
		return fmt.Sprint(v)
	}
	return i.Key
}

// Tags returns the item's tags in file order.
func (i Item) Tags() []string {
	return i.tags
}

// collectTags returns the sorted, deduplicated union of every item's tags.
func collectTags(items []Item) []string {
	all := sets.New[string]()
	for _, it := range items {
		all.AddAll(it.tags...)
	}
	return all.Sorted()
}
