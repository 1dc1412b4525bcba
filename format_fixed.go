package asterix

import (
	"fmt"
	"strings"
)

// fixedFormat is a compile-time-length span of bytes annotated by one or
// more BitsDescriptors. It is also the building block Variable uses for
// each of its FX-chained parts, and Compound uses for its primary octets.
type fixedFormat struct {
	id     int
	length int
	bits   []*BitsDescriptor
}

func (f *fixedFormat) formatNodeKind() string { return "fixed" }

// Length always returns the compile-time configured length, regardless of
// data.
func (f *fixedFormat) Length(data []byte) (int, error) {
	return f.length, nil
}

// partName returns the short name of the bit whose PresenceOfField equals
// index (1-based), or "" if none gates that secondary — used by Compound.
func (f *fixedFormat) partName(index int) string {
	for _, b := range f.bits {
		if b.PresenceOfField == index {
			short, _ := b.names()
			return short
		}
	}
	return ""
}

// isSecondaryPresent returns the set of 1-based secondary indices whose
// gating bit (PresenceOfField) is set in data — used by Compound to decide
// which secondaries to parse.
func (f *fixedFormat) isSecondaryPresent(data []byte) map[int]bool {
	present := make(map[int]bool)
	for _, b := range f.bits {
		if b.PresenceOfField == 0 {
			continue
		}
		res, ok := b.Extract(_lg, data, f.length)
		if ok && res.HasNumeric && res.Numeric != 0 {
			present[b.PresenceOfField] = true
		}
	}
	return present
}

// isLastPart reports whether none of this part's bits is both IsExtension
// and set to 1 — i.e. there is no FX continuation after this octet.
func (f *fixedFormat) isLastPart(data []byte) bool {
	for _, b := range f.bits {
		if !b.IsExtension {
			continue
		}
		res, ok := b.Extract(_lg, data, f.length)
		if ok && res.HasNumeric && res.Numeric != 0 {
			return false
		}
	}
	return true
}

func (f *fixedFormat) Render(ctx *renderCtx, data []byte, totalLength int, out *strings.Builder) (bool, error) {
	if len(data) < f.length {
		return false, &RecordError{Reason: fmt.Sprintf("fixed item needs %d bytes, have %d", f.length, len(data))}
	}

	any := false
	switch {
	case ctx.format.isJSON():
		if len(f.bits) == 0 {
			out.WriteString("{}")
			return true, nil
		}
		out.WriteString("{")
		wrote := false
		for _, b := range f.bits {
			tag, ok := b.RenderTag(ctx, data, f.length)
			if !ok {
				continue
			}
			if wrote {
				out.WriteString(",")
			}
			out.WriteString(tag)
			wrote = true
			any = true
		}
		out.WriteString("}")

	default:
		for _, b := range f.bits {
			tag, ok := b.RenderTag(ctx, data, f.length)
			if !ok {
				continue
			}
			out.WriteString(tag)
			any = true
		}
	}
	return any || len(f.bits) == 0, nil
}

func (f *fixedFormat) PrintDescriptors(header string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%sFixed(%d)\n", header, f.length))
	for _, b := range f.bits {
		sb.WriteString(b.PrintDescriptor(header + "  "))
		sb.WriteString("\n")
	}
	return sb.String()
}

func (f *fixedFormat) ApplyFilter(name string) bool {
	any := false
	for _, b := range f.bits {
		if b.ApplyFilter(name) {
			any = true
		}
	}
	return any
}

func (f *fixedFormat) Describe(field string, value *int64) (string, bool) {
	for _, b := range f.bits {
		if desc, ok := b.Describe(field, value); ok {
			return desc, true
		}
	}
	return "", false
}

func (f *fixedFormat) DeepClone() formatNode {
	clone := &fixedFormat{id: f.id, length: f.length}
	for _, b := range f.bits {
		bc := *b
		bc.ValueTable = append([]ValueEntry(nil), b.ValueTable...)
		clone.bits = append(clone.bits, &bc)
	}
	return clone
}
