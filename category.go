package asterix

import "fmt"

// BDSCategoryID is the sentinel catalogue slot holding the Mode-S register
// definitions loaded from asterix_bds.xml, distinct from the 1..255 range
// of real ASTERIX category numbers.
const BDSCategoryID = 256

// Category is a numbered ASTERIX dialect: a set of item descriptions and
// one or more UAPs, the first of which without a non-ALWAYS guard acts as
// the default.
type Category struct {
	ID      int
	Name    string
	Version string

	items map[string]*ItemDescription
	uaps  []*UAP

	// IncludedInFilter mirrors spec.md §4.K: when the global filter is
	// active and this is false, DataBlock stores header info only and
	// skips record parsing for this category.
	IncludedInFilter bool
}

// NewCategory returns an empty category ready for the schema loader to
// populate via AddItemDescription / AddUAP.
func NewCategory(id int, name, version string) *Category {
	return &Category{
		ID:               id,
		Name:             name,
		Version:          version,
		items:            make(map[string]*ItemDescription),
		IncludedInFilter: true,
	}
}

// AddItemDescription registers desc under its IDString, used only by the
// schema loader.
func (c *Category) AddItemDescription(desc *ItemDescription) {
	c.items[desc.IDString] = desc
}

// AddUAP appends uap to this category's UAP list, used only by the schema
// loader. Order matters: the first matching guard wins.
func (c *Category) AddUAP(uap *UAP) {
	c.uaps = append(c.uaps, uap)
}

// DescriptionFor looks up an item description by its three-hex-digit (or
// "RE"/"SP") ID string.
func (c *Category) DescriptionFor(idString string) (*ItemDescription, bool) {
	d, ok := c.items[idString]
	return d, ok
}

// SelectUAP iterates this category's UAPs in definition order and returns
// the first whose guard matches recordBytes (the record's bytes following
// the FSPEC). Returns ok=false if no UAP's guard matches, including when no
// UAP is defined at all.
func (c *Category) SelectUAP(recordBytes []byte) (*UAP, bool) {
	for _, u := range c.uaps {
		if u.Guard.Matches(recordBytes) {
			return u, true
		}
	}
	return nil, false
}

func (c *Category) String() string {
	return fmt.Sprintf("CAT%03d %s v%s", c.ID, c.Name, c.Version)
}
