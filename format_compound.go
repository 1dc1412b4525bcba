package asterix

import (
	"fmt"
	"strings"
)

// compoundFormat pairs a primary Variable node (whose bits carry
// PresenceOfField markers) with an ordered list of secondary format nodes.
// Each set presence bit in the primary gates the corresponding secondary's
// presence in the record.
type compoundFormat struct {
	id         int
	primary    *variableFormat
	secondaries []formatNode
}

func (c *compoundFormat) formatNodeKind() string { return "compound" }

// presentSecondaries scans every primary part actually consumed by data and
// returns the set of 1-based secondary indices whose presence bit is set,
// plus the primary's own total length.
func (c *compoundFormat) presentSecondaries(data []byte) (present map[int]bool, primaryLen int, err error) {
	partsUsed, total := c.primary.scan(data)
	if partsUsed == 0 {
		return nil, 0, &RecordError{Reason: "compound primary could not be read"}
	}
	present = make(map[int]bool)
	cursor := 0
	for i := 0; i < partsUsed; i++ {
		part := c.primary.parts[i]
		for idx := range part.isSecondaryPresent(data[cursor : cursor+part.length]) {
			present[idx] = true
		}
		cursor += part.length
	}
	return present, total, nil
}

func (c *compoundFormat) Length(data []byte) (int, error) {
	if len(c.secondaries) == 0 {
		return 0, &SchemaError{Reason: "compound format has no secondaries"}
	}
	present, primaryLen, err := c.presentSecondaries(data)
	if err != nil {
		return 0, err
	}
	total := primaryLen
	cursor := primaryLen
	for idx := 1; idx <= len(c.secondaries); idx++ {
		if !present[idx] {
			continue
		}
		if cursor > len(data) {
			return 0, &RecordError{Reason: "compound secondary overruns data"}
		}
		l, err := c.secondaries[idx-1].Length(data[cursor:])
		if err != nil {
			return 0, err
		}
		total += l
		cursor += l
	}
	return total, nil
}

func (c *compoundFormat) Render(ctx *renderCtx, data []byte, totalLength int, out *strings.Builder) (bool, error) {
	if len(c.secondaries) == 0 {
		return false, &SchemaError{Reason: "compound format has no secondaries"}
	}
	present, primaryLen, err := c.presentSecondaries(data)
	if err != nil {
		return false, err
	}

	cursor := primaryLen
	json := ctx.format.isJSON()
	if json {
		out.WriteString("{")
	}
	wrote := false
	for idx := 1; idx <= len(c.secondaries); idx++ {
		if !present[idx] {
			continue
		}
		if cursor > len(data) {
			return false, &RecordError{Reason: "compound secondary overruns data"}
		}
		sec := c.secondaries[idx-1]
		l, err := sec.Length(data[cursor:])
		if err != nil {
			return false, err
		}
		if cursor+l > len(data) {
			return false, &RecordError{Reason: "compound secondary overruns data"}
		}

		name := "" // best-effort; stays "" if no primary bit names this secondary
		for _, part := range c.primary.parts {
			if name = part.partName(idx); name != "" {
				break
			}
		}
		if json {
			var inner strings.Builder
			ok, err := sec.Render(ctx, data[cursor:cursor+l], l, &inner)
			if err != nil {
				return false, err
			}
			if ok {
				if wrote {
					out.WriteString(",")
				}
				if name == "" {
					name = fmt.Sprintf("sec%d", idx)
				}
				out.WriteString(fmt.Sprintf("%q:%s", name, inner.String()))
				wrote = true
			}
		} else {
			ok, err := sec.Render(ctx, data[cursor:cursor+l], l, out)
			if err != nil {
				return false, err
			}
			wrote = wrote || ok
		}
		cursor += l
	}
	if json {
		out.WriteString("}")
	}
	return true, nil
}

func (c *compoundFormat) PrintDescriptors(header string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%sCompound\n", header))
	sb.WriteString(c.primary.PrintDescriptors(header + "  primary: "))
	for i, s := range c.secondaries {
		sb.WriteString(fmt.Sprintf("%s  secondary[%d]:\n", header, i+1))
		sb.WriteString(s.PrintDescriptors(header + "    "))
	}
	return sb.String()
}

func (c *compoundFormat) ApplyFilter(name string) bool {
	any := c.primary.ApplyFilter(name)
	for _, s := range c.secondaries {
		if s.ApplyFilter(name) {
			any = true
		}
	}
	return any
}

func (c *compoundFormat) Describe(field string, value *int64) (string, bool) {
	if desc, ok := c.primary.Describe(field, value); ok {
		return desc, true
	}
	for _, s := range c.secondaries {
		if desc, ok := s.Describe(field, value); ok {
			return desc, true
		}
	}
	return "", false
}

func (c *compoundFormat) DeepClone() formatNode {
	clone := &compoundFormat{id: c.id, primary: c.primary.DeepClone().(*variableFormat)}
	for _, s := range c.secondaries {
		clone.secondaries = append(clone.secondaries, s.DeepClone())
	}
	return clone
}
