package asterix

import (
	"fmt"
	"strings"
)

// maxItemSize is the maximum byte length of a single Repetitive item,
// matching the 65536 ceiling in spec.md §4.D.4.
const maxItemSize = 65536

// repetitiveFormat wraps a single element format node, repeated data[0]
// times. The repetition count is itself the first byte of the item.
type repetitiveFormat struct {
	id      int
	element formatNode
}

func (r *repetitiveFormat) formatNodeKind() string { return "repetitive" }

func (r *repetitiveFormat) Length(data []byte) (int, error) {
	if len(data) < 1 {
		return 0, &RecordError{Reason: "repetitive item missing count byte"}
	}
	rep := int(data[0])
	if rep == 0 {
		return 1, nil
	}
	eltData := data[1:]
	eltLen, err := r.element.Length(eltData)
	if err != nil {
		return 0, err
	}
	// Overflow guard: reject if rep*eltLen would overflow, matching
	// spec.md's "rep > 0 && elt_len > (LONG_MAX-1)/rep" check expressed
	// directly against Go's int range.
	if eltLen != 0 && rep > (maxInt-1)/eltLen {
		return 0, &OverflowError{Reason: "repetitive count * element length overflows"}
	}
	total := 1 + rep*eltLen
	if total > maxItemSize {
		return 0, &OverflowError{Reason: fmt.Sprintf("repetitive item size %d exceeds %d", total, maxItemSize)}
	}
	return total, nil
}

const maxInt = int(^uint(0) >> 1)

func (r *repetitiveFormat) Render(ctx *renderCtx, data []byte, totalLength int, out *strings.Builder) (bool, error) {
	if len(data) < 1 {
		return false, &RecordError{Reason: "repetitive item missing count byte"}
	}
	rep := int(data[0])
	if rep == 0 {
		if ctx.format.isJSON() {
			out.WriteString("[]")
		}
		return true, nil
	}

	eltLen, err := r.element.Length(data[1:])
	if err != nil {
		return false, err
	}
	want := 1 + rep*eltLen
	if want != totalLength {
		return false, &RecordError{Reason: fmt.Sprintf("repetitive length mismatch: computed %d, declared %d", want, totalLength)}
	}
	if 1+rep*eltLen > len(data) {
		return false, &RecordError{Reason: "repetitive item overruns data"}
	}

	json := ctx.format.isJSON()
	if json {
		out.WriteString("[")
	}
	cursor := 1
	for i := 0; i < rep; i++ {
		if i > 0 && json {
			out.WriteString(",")
		}
		if i > 0 && !json {
			out.WriteString(" ")
		}
		if _, err := r.element.Render(ctx, data[cursor:cursor+eltLen], eltLen, out); err != nil {
			return false, err
		}
		cursor += eltLen
	}
	if json {
		out.WriteString("]")
	}
	return true, nil
}

func (r *repetitiveFormat) PrintDescriptors(header string) string {
	return fmt.Sprintf("%sRepetitive\n", header) + r.element.PrintDescriptors(header+"  ")
}

func (r *repetitiveFormat) ApplyFilter(name string) bool {
	return r.element.ApplyFilter(name)
}

func (r *repetitiveFormat) Describe(field string, value *int64) (string, bool) {
	return r.element.Describe(field, value)
}

func (r *repetitiveFormat) DeepClone() formatNode {
	return &repetitiveFormat{id: r.id, element: r.element.DeepClone()}
}
