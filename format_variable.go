package asterix

import (
	"fmt"
	"strings"
)

// variableFormat is an ordered list of Fixed parts, each carrying exactly
// one FX (field-extension) bit; octets are consumed until a part's FX bit
// is clear. The last defined part is NOT reused indefinitely if the input
// extends further — this repo keeps that observed (and spec-flagged)
// behaviour rather than guessing at an alternative.
type variableFormat struct {
	id    int
	parts []*fixedFormat
}

func (v *variableFormat) formatNodeKind() string { return "variable" }

// scan walks parts against data, returning the number of parts consumed and
// the total byte length. It stops at the first part whose isLastPart is
// true, or after the last defined part if the FX chain never clears (the
// documented limitation: a schema is expected to define enough parts).
func (v *variableFormat) scan(data []byte) (partsUsed, total int) {
	cursor := 0
	for i, part := range v.parts {
		if cursor > len(data) {
			break
		}
		remaining := data[cursor:]
		if len(remaining) < part.length {
			// Not enough data to even read this part's FX bit; stop here,
			// matching the spec's lenient "trailing padding" tolerance.
			break
		}
		total += part.length
		cursor += part.length
		partsUsed = i + 1
		if part.isLastPart(remaining[:part.length]) {
			return
		}
	}
	if partsUsed == len(v.parts) {
		_lg.Debugf("variable item: FX still set after the last of %d defined parts; stopping", len(v.parts))
	}
	return
}

func (v *variableFormat) Length(data []byte) (int, error) {
	if len(v.parts) == 0 {
		return 0, &SchemaError{Reason: "variable format has no parts"}
	}
	_, total := v.scan(data)
	if total == 0 {
		return 0, &RecordError{Reason: "variable format could not read its first part"}
	}
	return total, nil
}

func (v *variableFormat) Render(ctx *renderCtx, data []byte, totalLength int, out *strings.Builder) (bool, error) {
	partsUsed, total := v.scan(data)
	if partsUsed == 0 {
		return false, &RecordError{Reason: "variable format could not read its first part"}
	}
	if total > len(data) {
		return false, &RecordError{Reason: "variable format overruns its data"}
	}
	_ = totalLength

	switch {
	case ctx.format.isJSON() && partsUsed == 1:
		// Single part: each octet becomes a separate array element. There
		// is only one octet when partsUsed==1, but the shape is still an
		// array per spec.md §4.D.2.
		out.WriteString("[")
		var inner strings.Builder
		if _, err := v.parts[0].Render(ctx, data[:v.parts[0].length], v.parts[0].length, &inner); err != nil {
			return false, err
		}
		out.WriteString(stripOuterBraces(inner.String()))
		out.WriteString("]")

	case ctx.format.isJSON():
		out.WriteString("{")
		cursor := 0
		wrote := false
		for i := 0; i < partsUsed; i++ {
			part := v.parts[i]
			var inner strings.Builder
			if _, err := part.Render(ctx, data[cursor:cursor+part.length], part.length, &inner); err != nil {
				return false, err
			}
			frag := stripOuterBraces(inner.String())
			if frag != "" {
				if wrote {
					out.WriteString(",")
				}
				out.WriteString(frag)
				wrote = true
			}
			cursor += part.length
		}
		out.WriteString("}")

	default:
		cursor := 0
		for i := 0; i < partsUsed; i++ {
			part := v.parts[i]
			if _, err := part.Render(ctx, data[cursor:cursor+part.length], part.length, out); err != nil {
				return false, err
			}
			cursor += part.length
		}
	}
	return true, nil
}

// stripOuterBraces removes exactly one matching pair of leading "{"/"}"
// (or "[", "]") from a rendered fragment, used when flattening a part's own
// object/array into its parent's container per spec.md §4.D.2.
func stripOuterBraces(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && ((s[0] == '{' && s[len(s)-1] == '}') || (s[0] == '[' && s[len(s)-1] == ']')) {
		return s[1 : len(s)-1]
	}
	return s
}

func (v *variableFormat) PrintDescriptors(header string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%sVariable(%d parts)\n", header, len(v.parts)))
	for _, p := range v.parts {
		sb.WriteString(p.PrintDescriptors(header + "  "))
	}
	return sb.String()
}

func (v *variableFormat) ApplyFilter(name string) bool {
	any := false
	for _, p := range v.parts {
		if p.ApplyFilter(name) {
			any = true
		}
	}
	return any
}

func (v *variableFormat) Describe(field string, value *int64) (string, bool) {
	for _, p := range v.parts {
		if desc, ok := p.Describe(field, value); ok {
			return desc, true
		}
	}
	return "", false
}

func (v *variableFormat) DeepClone() formatNode {
	clone := &variableFormat{id: v.id}
	for _, p := range v.parts {
		clone.parts = append(clone.parts, p.DeepClone().(*fixedFormat))
	}
	return clone
}
