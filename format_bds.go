package asterix

import (
	"fmt"
	"strconv"
	"strings"
)

// bdsLength is the fixed length of every BDS item: the Mode-S register
// payload (7 bytes) plus its 1-byte selector.
const bdsLength = 8

// bdsFormat is a fixed 8-byte item whose last byte selects which register
// format describes the preceding bytes. registers[i].id == 0 acts as a
// catch-all matched by any selector value that has no dedicated register.
type bdsFormat struct {
	id        int
	registers []*fixedFormat
}

func (b *bdsFormat) formatNodeKind() string { return "bds" }

func (b *bdsFormat) Length(data []byte) (int, error) {
	return bdsLength, nil
}

func (b *bdsFormat) selectRegister(code byte) *fixedFormat {
	var catchAll *fixedFormat
	for _, r := range b.registers {
		if r.id == int(code) {
			return r
		}
		if r.id == 0 {
			catchAll = r
		}
	}
	return catchAll
}

func (b *bdsFormat) Render(ctx *renderCtx, data []byte, totalLength int, out *strings.Builder) (bool, error) {
	if len(data) < bdsLength {
		return false, &RecordError{Reason: "BDS item shorter than 8 bytes"}
	}
	code := data[7]
	reg := b.selectRegister(code)
	if reg == nil {
		return false, &RecordError{Reason: fmt.Sprintf("BDS selector 0x%02X has no matching register and no catch-all", code)}
	}
	return reg.Render(ctx, data, bdsLength, out)
}

func (b *bdsFormat) PrintDescriptors(header string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%sBDS\n", header))
	for _, r := range b.registers {
		sb.WriteString(fmt.Sprintf("%s  register 0x%02X:\n", header, r.id))
		sb.WriteString(r.PrintDescriptors(header + "    "))
	}
	return sb.String()
}

// ApplyFilter parses a "BDS<hh>:<field>" prefix, resolves the register by
// its two hex digits, and forwards the remainder to its filter.
// Unrecognised prefixes return false.
func (b *bdsFormat) ApplyFilter(name string) bool {
	if len(name) < 6 || !strings.HasPrefix(name, "BDS") || name[5] != ':' {
		return false
	}
	code, err := strconv.ParseUint(name[3:5], 16, 8)
	if err != nil {
		return false
	}
	reg := b.selectRegister(byte(code))
	if reg == nil {
		return false
	}
	return reg.ApplyFilter(name[6:])
}

func (b *bdsFormat) Describe(field string, value *int64) (string, bool) {
	for _, r := range b.registers {
		if desc, ok := r.Describe(field, value); ok {
			return desc, true
		}
	}
	return "", false
}

func (b *bdsFormat) DeepClone() formatNode {
	clone := &bdsFormat{id: b.id}
	for _, r := range b.registers {
		clone.registers = append(clone.registers, r.DeepClone().(*fixedFormat))
	}
	return clone
}
