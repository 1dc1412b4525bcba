package asterix

import (
	"fmt"
	"strconv"
	"strings"
)

// FilterEntry is one parsed element of a filter_spec: a category, the item
// within it, and optionally a single field of that item. An empty Field
// means "every field of this item".
type FilterEntry struct {
	Category int
	ItemID   string
	Field    string
}

// Filter is an immutable set of FilterEntry values built from a filter_spec
// configuration string, per spec.md §6. Once Apply'd to a Catalogue it
// narrows every subsequent decode through that catalogue to only the named
// categories/items/fields: every BitsDescriptor's Filtered flag and every
// Category's IncludedInFilter flag are set accordingly.
type Filter struct {
	entries []FilterEntry
}

// ParseFilterSpec parses a comma-separated list of "CATnnn/itemID[:FIELD]"
// tokens (e.g. "CAT048/010,CAT048/040:SAC") into a Filter. Whitespace around
// tokens is ignored. An empty spec yields a Filter with no entries, which
// Apply treats as "nothing passes" — the caller should not call Apply at
// all if no filtering was requested.
func ParseFilterSpec(spec string) (*Filter, error) {
	f := &Filter{}
	for _, tok := range strings.Split(spec, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		entry, err := parseFilterToken(tok)
		if err != nil {
			return nil, err
		}
		f.entries = append(f.entries, entry)
	}
	return f, nil
}

func parseFilterToken(tok string) (FilterEntry, error) {
	catPart, rest, ok := strings.Cut(tok, "/")
	if !ok {
		return FilterEntry{}, fmt.Errorf("filter token %q missing '/' between category and item", tok)
	}
	catPart = strings.TrimSpace(catPart)
	catPart = strings.TrimPrefix(strings.ToUpper(catPart), "CAT")
	catNum, err := strconv.Atoi(catPart)
	if err != nil {
		return FilterEntry{}, fmt.Errorf("filter token %q: invalid category %q", tok, catPart)
	}

	itemID, field, _ := strings.Cut(rest, ":")
	return FilterEntry{Category: catNum, ItemID: strings.TrimSpace(itemID), Field: strings.TrimSpace(field)}, nil
}

// Apply narrows cat to exactly this filter's entries: every category is
// first marked excluded, then every entry's category is marked included and
// has ApplyFilter propagated into its named item (or, with no Field, into
// every field of that item via an empty-string match).
func (f *Filter) Apply(cat *Catalogue) {
	cat.Each(func(c *Category) {
		c.IncludedInFilter = false
	})
	for _, e := range f.entries {
		c, ok := cat.Lookup(e.Category)
		if !ok {
			continue
		}
		c.IncludedInFilter = true
		desc, ok := c.DescriptionFor(e.ItemID)
		if !ok || desc.Format == nil {
			continue
		}
		desc.Format.ApplyFilter(e.Field)
	}
}
