package asterix

import "strings"

// Rule states whether an item is required to be present in a well-formed
// record.
type Rule int

const (
	RuleUnknown Rule = iota
	RuleOptional
	RuleMandatory
)

// ItemDescription binds an item ID (e.g. "010", or the special "RE"/"SP")
// to its format tree and its presence rule. It is created by the schema
// loader and is immutable after catalogue freeze.
type ItemDescription struct {
	IDString   string
	IDNumeric  int
	Name       string
	Definition string
	Note       string
	Format     formatNode
	RuleKind   Rule
}

// NewItemDescription parses idString (three hex digits, or the literal
// "RE"/"SP") into IDNumeric and returns a zero-value description otherwise
// ready for the schema loader to populate.
func NewItemDescription(idString string) *ItemDescription {
	return &ItemDescription{IDString: idString, IDNumeric: parseItemIDNumeric(idString)}
}

func parseItemIDNumeric(idString string) int {
	switch strings.ToUpper(idString) {
	case "RE", "SP":
		return -1
	}
	n := 0
	for _, c := range idString {
		n <<= 4
		switch {
		case c >= '0' && c <= '9':
			n |= int(c - '0')
		case c >= 'A' && c <= 'F':
			n |= int(c-'A') + 10
		case c >= 'a' && c <= 'f':
			n |= int(c-'a') + 10
		default:
			return -1
		}
	}
	return n
}

// Length forwards to the owned format tree.
func (d *ItemDescription) Length(data []byte) (int, error) {
	if d.Format == nil {
		return 0, &SchemaError{Item: d.IDString, Reason: "item has no format"}
	}
	return d.Format.Length(data)
}
