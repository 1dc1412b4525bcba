package asterix

// SpareItemID marks a UAP slot with no backing item ("-" in the schema
// vocabulary): the FRN exists in the FSPEC bit layout but carries no data.
const SpareItemID = "-"

// GuardKind distinguishes a UAP that always applies from one gated by a bit
// test against the record's content (used when a category defines more than
// one UAP, selected by data).
type GuardKind int

const (
	GuardAlways GuardKind = iota
	GuardBitTest
)

// Guard decides whether a UAP applies to a given record.
type Guard struct {
	Kind     GuardKind
	ByteIdx  int  // 0-based index into the record bytes (post-FSPEC)
	BitMask  byte
	Expected byte
}

// Matches reports whether this guard applies to recordBytes (the bytes
// following the FSPEC, per spec.md §4.E "select_uap").
func (g Guard) Matches(recordBytes []byte) bool {
	if g.Kind == GuardAlways {
		return true
	}
	if g.ByteIdx < 0 || g.ByteIdx >= len(recordBytes) {
		return false
	}
	return recordBytes[g.ByteIdx]&g.BitMask == g.Expected
}

// UAPItem maps one Field Reference Number to an item ID, or to SpareItemID
// if that FRN has no backing item.
type UAPItem struct {
	FRN    int
	ItemID string
}

// UAP (User Application Profile) is an ordered FRN -> item-ID map, gated by
// an optional Guard. A Category may carry several UAPs; the first whose
// Guard matches wins. A guard-less (ALWAYS) UAP always matches, so the first
// one in the list acts as the default and any UAP after it is never chosen.
type UAP struct {
	Guard Guard
	Items []UAPItem
}

// NewUAP returns a UAP with the ALWAYS guard, ready for the schema loader to
// append items to.
func NewUAP() *UAP {
	return &UAP{Guard: Guard{Kind: GuardAlways}}
}

// ItemIDForFRN looks up the item ID mapped to frn, returning ok=false if
// frn is not defined in this UAP (a "FSPEC refers to an undefined FRN" wire
// error at the call site).
func (u *UAP) ItemIDForFRN(frn int) (string, bool) {
	for _, it := range u.Items {
		if it.FRN == frn {
			return it.ItemID, true
		}
	}
	return "", false
}
