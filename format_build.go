package asterix

// The constructors below are the schema loader's only way to build a
// format tree: formatNode itself is unexported (so every concrete variant
// stays closed to this package, per the sum-type design in format.go), but
// an external package can still hold and assemble values of that type
// through these functions, then hand the finished tree to an
// ItemDescription's exported Format field.

// NewFixedNode builds a Fixed format item of the given compile-time length,
// annotated by bits.
func NewFixedNode(id, length int, bits []*BitsDescriptor) formatNode {
	return &fixedFormat{id: id, length: length, bits: bits}
}

// NewVariableNode builds a Variable format item out of its ordered,
// FX-chained Fixed parts.
func NewVariableNode(id int, parts []formatNode) formatNode {
	ff := make([]*fixedFormat, 0, len(parts))
	for _, p := range parts {
		ff = append(ff, p.(*fixedFormat))
	}
	return &variableFormat{id: id, parts: ff}
}

// NewCompoundNode builds a Compound format item: a primary presence-bitmap
// (itself a Variable node built with NewVariableNode) plus its ordered
// secondaries.
func NewCompoundNode(id int, primary formatNode, secondaries []formatNode) formatNode {
	return &compoundFormat{id: id, primary: primary.(*variableFormat), secondaries: secondaries}
}

// NewRepetitiveNode builds a Repetitive format item wrapping a single
// repeated element.
func NewRepetitiveNode(id int, element formatNode) formatNode {
	return &repetitiveFormat{id: id, element: element}
}

// NewExplicitNode builds an Explicit format item wrapping a single repeated
// element, whose count is derived from the item's own declared length.
func NewExplicitNode(id int, element formatNode) formatNode {
	return &explicitFormat{id: id, element: element}
}

// NewBDSNode builds a BDS format item from its selectable fixed-format
// registers; a register built with id 0 acts as the catch-all.
func NewBDSNode(id int, registers []formatNode) formatNode {
	rs := make([]*fixedFormat, 0, len(registers))
	for _, r := range registers {
		rs = append(rs, r.(*fixedFormat))
	}
	return &bdsFormat{id: id, registers: rs}
}
