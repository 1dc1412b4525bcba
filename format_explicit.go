package asterix

import (
	"fmt"
	"strings"
)

// explicitFormat describes a payload whose total length is carried in its
// own first byte, followed by one or more repetitions of a single element
// format.
type explicitFormat struct {
	id      int
	element formatNode
}

func (e *explicitFormat) formatNodeKind() string { return "explicit" }

// Length returns the value of the first byte as-is, including the length
// byte itself.
func (e *explicitFormat) Length(data []byte) (int, error) {
	if len(data) < 1 {
		return 0, &RecordError{Reason: "explicit item missing length byte"}
	}
	return int(data[0]), nil
}

func (e *explicitFormat) Render(ctx *renderCtx, data []byte, totalLength int, out *strings.Builder) (bool, error) {
	if totalLength < 1 || totalLength > len(data) {
		return false, &RecordError{Reason: "explicit item length inconsistent with data"}
	}
	body := data[1:totalLength]
	if e.element == nil {
		return false, &SchemaError{Reason: "explicit format has no element"}
	}
	eltLen, err := e.element.Length(body)
	if err != nil {
		return false, err
	}
	if eltLen <= 0 || len(body)%eltLen != 0 {
		return false, &RecordError{Reason: fmt.Sprintf("explicit body length %d is not a multiple of element length %d", len(body), eltLen)}
	}
	count := len(body) / eltLen

	json := ctx.format.isJSON()
	if json && count > 1 {
		out.WriteString("[")
	}
	cursor := 0
	for i := 0; i < count; i++ {
		if json && i > 0 && count > 1 {
			out.WriteString(",")
		}
		if !json && i > 0 {
			out.WriteString(" ")
		}
		if _, err := e.element.Render(ctx, body[cursor:cursor+eltLen], eltLen, out); err != nil {
			return false, err
		}
		cursor += eltLen
	}
	if json && count > 1 {
		out.WriteString("]")
	}
	return true, nil
}

func (e *explicitFormat) PrintDescriptors(header string) string {
	return fmt.Sprintf("%sExplicit\n", header) + e.element.PrintDescriptors(header+"  ")
}

func (e *explicitFormat) ApplyFilter(name string) bool {
	return e.element.ApplyFilter(name)
}

func (e *explicitFormat) Describe(field string, value *int64) (string, bool) {
	return e.element.Describe(field, value)
}

func (e *explicitFormat) DeepClone() formatNode {
	return &explicitFormat{id: e.id, element: e.element.DeepClone()}
}
