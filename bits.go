package asterix

import (
	"fmt"
	"strings"
)

// ValueEntry is one row of a BitsDescriptor's value table: an enumerated
// meaning attached to a specific extracted numeric value. First match wins.
type ValueEntry struct {
	Value       int64
	Description string
}

// BitsDescriptor is a leaf node of a format tree: a named bit span with an
// encoding, optional scale/unit/range, optional constant check, optional
// value-table lookup, and the two cross-cutting flags (IsExtension,
// PresenceOfField) that let Variable and Compound interpret specific bits
// structurally rather than just render them.
//
// BitsDescriptor is created by the schema loader and owned exclusively by
// its containing format node; it is immutable after catalogue freeze except
// for Filtered, which apply_filter mutates at configuration time only.
type BitsDescriptor struct {
	ShortName string
	FullName  string

	From, To int // 1-based, MSB-first over the whole item; may be given inverted
	Encoding Encoding

	Scale    float64
	Unit     string
	HasMin   bool
	Min      float64
	HasMax   bool
	Max      float64

	IsConst    bool
	ConstValue int64

	ValueTable []ValueEntry

	// IsExtension marks the FX continuation bit of a Variable part.
	IsExtension bool

	// PresenceOfField is the 1-based index into a Compound's secondaries
	// that this bit (inside the Compound's primary) gates. Zero means this
	// bit does not gate a secondary.
	PresenceOfField int

	Filtered bool
}

// span normalizes From/To into ascending order, per "if from > to at parse
// time, swap; both orders appear in schemas."
func (b *BitsDescriptor) span() (from, to int) {
	if b.From <= b.To {
		return b.From, b.To
	}
	return b.To, b.From
}

func (b *BitsDescriptor) bitLen() int {
	from, to := b.span()
	return to - from + 1
}

// names returns the short/full name pair with the cross-default applied:
// an empty name defaults to the other.
func (b *BitsDescriptor) names() (short, full string) {
	short, full = b.ShortName, b.FullName
	if short == "" {
		short = full
	}
	if full == "" {
		full = short
	}
	return
}

// Extract reads this descriptor's bit span out of data and converts it.
// dataLength is the byte length of the containing item; it bounds the
// legal bit range (1..8*dataLength) independently of len(data), so a
// caller can validate a schema-declared span against an item's declared
// length even when data itself is shorter (e.g. while computing length()).
func (b *BitsDescriptor) Extract(tr *Tracer, data []byte, dataLength int) (ConvertResult, bool) {
	from, to := b.span()
	if from < 1 || to > 8*dataLength {
		if tr == nil {
			tr = _lg
		}
		tr.Errorf("bits %s: span [%d,%d] outside item of %d bytes", b.ShortName, from, to, dataLength)
		return ConvertResult{Display: badConversion}, false
	}
	raw := ReadBits(data, from, to)
	if raw == nil {
		return ConvertResult{Display: badConversion}, false
	}
	return Convert(tr, b.Encoding, raw, to-from+1), true
}

// meaning looks up the value table for a numeric conversion result; returns
// "" if no entry matches or the conversion had no numeric value.
func (b *BitsDescriptor) meaning(res ConvertResult) string {
	if !res.HasNumeric {
		return ""
	}
	for _, e := range b.ValueTable {
		if e.Value == res.Numeric {
			return e.Description
		}
	}
	return ""
}

// checkRanges evaluates const/min/max against a numeric conversion result
// and returns a "Warning: ..." suffix if any breach is found. Breaches never
// fail the parse; they only annotate the rendered text.
func (b *BitsDescriptor) checkRanges(res ConvertResult) string {
	if !res.HasNumeric {
		return ""
	}
	var warns []string
	if b.IsConst && res.Numeric != b.ConstValue {
		warns = append(warns, fmt.Sprintf("expected const %d, got %d", b.ConstValue, res.Numeric))
	}
	scaled := float64(res.Numeric) * b.Scale
	if b.Scale == 0 {
		scaled = float64(res.Numeric)
	}
	if b.HasMin && scaled < b.Min {
		warns = append(warns, fmt.Sprintf("%.6g below min %.6g", scaled, b.Min))
	}
	if b.HasMax && scaled > b.Max {
		warns = append(warns, fmt.Sprintf("%.6g above max %.6g", scaled, b.Max))
	}
	if len(warns) == 0 {
		return ""
	}
	return "Warning: " + strings.Join(warns, "; ")
}

// Render produces this descriptor's textual representation: the converted
// value, optionally followed by "(scaled value unit)" and "(meaning)"
// annotations and a warning suffix. It returns ok=false (emits nothing)
// when the global filter is active and Filtered is false.
func (b *BitsDescriptor) Render(tr *Tracer, data []byte, dataLength int, filterActive bool) (string, bool) {
	if filterActive && !b.Filtered {
		return "", false
	}
	res, _ := b.Extract(tr, data, dataLength)

	var sb strings.Builder
	sb.WriteString(res.Display)
	if ann := ScaleAnnotation(res.Numeric, b.Scale, b.Unit); res.HasNumeric && ann != "" {
		sb.WriteString(" ")
		sb.WriteString(ann)
	}
	if m := b.meaning(res); m != "" {
		sb.WriteString(" (")
		sb.WriteString(m)
		sb.WriteString(")")
	}
	if w := b.checkRanges(res); w != "" {
		sb.WriteString(" ")
		sb.WriteString(w)
	}
	return sb.String(), true
}

// RenderTag produces this descriptor's complete emitted fragment for
// ctx.format: a bare "name: value" line for Text/EOut, a JSON key/value
// pair (numeric literal when unannotated, quoted string otherwise, or the
// extensive {"val":...} object) for the JSON shapes, or an XML element for
// the XML shapes. ok is false when the global filter suppressed this field.
func (b *BitsDescriptor) RenderTag(ctx *renderCtx, data []byte, dataLength int) (string, bool) {
	if ctx.filterActive && !b.Filtered {
		return "", false
	}
	short, _ := b.names()
	res, _ := b.Extract(ctx.tracer(), data, dataLength)
	text, _ := b.Render(ctx.tracer(), data, dataLength, ctx.filterActive)
	annotated := text != res.Display

	switch {
	case ctx.format == Text:
		return fmt.Sprintf("\n\t%s: %s", short, text), true

	case ctx.format == EOut:
		return fmt.Sprintf("\n%d.%s %s", ctx.category, short, text), true

	case ctx.format == ExtensiveJSON:
		from, to := b.span()
		return fmt.Sprintf(`"%s":{"val":%s,"hex":"%s","mask":"%d-%d","name":"%s","meaning":"%s"}`,
			short, jsonScalar(res, annotated, text), jsonHexOf(data, from, to, dataLength), from, to,
			jsonEscape(b.FullName), jsonEscape(b.meaning(res))), true

	case ctx.format.isJSON():
		return fmt.Sprintf(`"%s":%s`, short, jsonScalar(res, annotated, text)), true

	case ctx.format == CompactXML:
		return fmt.Sprintf("<%s>%s</%s>", short, xmlEscape(text), short), true

	case ctx.format == HumanXML:
		return fmt.Sprintf("\n%s<%s>%s</%s>", indentString(ctx.indent), short, xmlEscape(text), short), true

	default:
		return text, true
	}
}

func jsonScalar(res ConvertResult, annotated bool, text string) string {
	if res.HasNumeric && !annotated {
		return fmt.Sprintf("%d", res.Numeric)
	}
	return fmt.Sprintf("%q", text)
}

func jsonHexOf(data []byte, from, to, dataLength int) string {
	raw := ReadBits(data, min(from, to), max(from, to))
	return fmt.Sprintf("%X", raw)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func jsonEscape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return s
}

func xmlEscape(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}

// PrintDescriptor renders a one-line diagnostic dump of this descriptor,
// prefixed by header, for print_descriptors output.
func (b *BitsDescriptor) PrintDescriptor(header string) string {
	short, full := b.names()
	from, to := b.span()
	return fmt.Sprintf("%s%s (%s) [%d..%d] %s", header, short, full, from, to, b.Encoding)
}

// ApplyFilter sets Filtered=true and returns true iff name is a
// case-sensitive prefix of the short name, length-bounded by the short
// name's own length (so a longer candidate than the short name never
// matches).
func (b *BitsDescriptor) ApplyFilter(name string) bool {
	short, _ := b.names()
	if len(name) > len(short) {
		return false
	}
	if !strings.HasPrefix(short, name) {
		return false
	}
	b.Filtered = true
	return true
}

// IsFiltered reports the current filter flag.
func (b *BitsDescriptor) IsFiltered() bool {
	return b.Filtered
}

// Describe resolves field (a short name) to a human description, optionally
// annotated by value when non-nil: either the matching value-table entry's
// description, or a generic "<full name> [<encoding>]" fallback.
func (b *BitsDescriptor) Describe(field string, value *int64) (string, bool) {
	short, full := b.names()
	if field != short {
		return "", false
	}
	if value != nil {
		for _, e := range b.ValueTable {
			if e.Value == *value {
				return e.Description, true
			}
		}
	}
	return fmt.Sprintf("%s [%s]", full, b.Encoding), true
}
