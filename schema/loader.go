package schema

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/asterixgo/asterix"
)

// LoadCategory parses one category definition file and returns the
// resulting *asterix.Category, not yet registered with any catalogue.
func LoadCategory(path string) (*asterix.Category, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var cx categoryXML
	if err := xml.Unmarshal(data, &cx); err != nil {
		return nil, &asterix.SchemaError{Reason: fmt.Sprintf("parsing %s: %v", path, err)}
	}
	return buildCategory(cx)
}

// LoadBDS parses the Mode-S register catalogue file and returns it as a
// *asterix.Category under asterix.BDSCategoryID.
func LoadBDS(path string) (*asterix.Category, error) {
	cat, err := LoadCategory(path)
	if err != nil {
		return nil, err
	}
	cat.ID = asterix.BDSCategoryID
	return cat, nil
}

// LoadDirectory walks dir for "cat*.xml"-style category files plus
// "asterix_bds.xml", loading every one cfg accepts (cfg.WantsCategory) into
// cat, then Freezes it. A malformed individual file is skipped silently
// (nothing is logged) rather than aborting the whole load, per spec.md §4.H's
// load-once-and-move-on posture; LoadDirectory itself only fails if dir
// cannot be read at all.
func LoadDirectory(cat *asterix.Catalogue, dir string, cfg *asterix.Config) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading catalogue directory %s: %w", dir, err)
	}

	for _, ent := range entries {
		if ent.IsDir() || !strings.HasSuffix(ent.Name(), ".xml") {
			continue
		}
		path := filepath.Join(dir, ent.Name())

		if strings.EqualFold(ent.Name(), "asterix_bds.xml") {
			bds, err := LoadBDS(path)
			if err != nil {
				continue
			}
			cat.Register(bds)
			continue
		}

		one, err := LoadCategory(path)
		if err != nil {
			continue
		}
		if cfg != nil && !cfg.WantsCategory(one.ID) {
			continue
		}
		cat.Register(one)
	}
	cat.Freeze()
	return nil
}

func buildCategory(cx categoryXML) (*asterix.Category, error) {
	id, err := strconv.Atoi(cx.ID)
	if err != nil {
		return nil, &asterix.SchemaError{Reason: fmt.Sprintf("category id %q is not numeric", cx.ID)}
	}
	cat := asterix.NewCategory(id, cx.Name, cx.Version)

	for _, dix := range cx.Items {
		desc := asterix.NewItemDescription(dix.ID)
		desc.Name = dix.Name
		desc.Definition = dix.Definition
		desc.Note = dix.Note
		desc.RuleKind = parseRule(dix.Rule)

		node, err := buildFormat(dix.Format)
		if err != nil {
			return nil, &asterix.SchemaError{Category: id, Item: dix.ID, Reason: err.Error()}
		}
		desc.Format = node
		cat.AddItemDescription(desc)
	}

	for _, ux := range cx.UAPs {
		u := asterix.NewUAP()
		if ux.Guard != nil {
			mask, _ := strconv.ParseUint(strings.TrimPrefix(ux.Guard.Mask, "0x"), 16, 8)
			value, _ := strconv.ParseUint(strings.TrimPrefix(ux.Guard.Value, "0x"), 16, 8)
			u.Guard = asterix.Guard{
				Kind:     asterix.GuardBitTest,
				ByteIdx:  ux.Guard.Byte,
				BitMask:  byte(mask),
				Expected: byte(value),
			}
		}
		for _, item := range ux.Items {
			itemID := strings.TrimSpace(item.ItemID)
			if itemID == "" {
				itemID = asterix.SpareItemID
			}
			u.Items = append(u.Items, asterix.UAPItem{FRN: item.FRN, ItemID: itemID})
		}
		cat.AddUAP(u)
	}

	return cat, nil
}

func parseRule(rule string) asterix.Rule {
	switch strings.ToLower(rule) {
	case "mandatory":
		return asterix.RuleMandatory
	case "optional":
		return asterix.RuleOptional
	default:
		return asterix.RuleUnknown
	}
}

// buildFormat dispatches on whichever of fx's six shapes is populated.
func buildFormat(fx formatXML) (asterix.FormatNode, error) {
	switch {
	case fx.Fixed != nil:
		return buildFixed(*fx.Fixed), nil

	case fx.Variable != nil:
		parts := make([]asterix.FormatNode, 0, len(fx.Variable.Parts))
		for _, p := range fx.Variable.Parts {
			parts = append(parts, buildFixed(p))
		}
		return asterix.NewVariableNode(0, parts), nil

	case fx.Compound != nil:
		primary := buildFixed(fx.Compound.Primary)
		secs := make([]asterix.FormatNode, 0, len(fx.Compound.Secondaries))
		for _, s := range fx.Compound.Secondaries {
			node, err := buildFormat(s)
			if err != nil {
				return nil, err
			}
			secs = append(secs, node)
		}
		return asterix.NewCompoundNode(0, asterix.NewVariableNode(0, []asterix.FormatNode{primary}), secs), nil

	case fx.Repetitive != nil:
		elt, err := buildFormat(fx.Repetitive.Element)
		if err != nil {
			return nil, err
		}
		return asterix.NewRepetitiveNode(0, elt), nil

	case fx.Explicit != nil:
		elt, err := buildFormat(fx.Explicit.Element)
		if err != nil {
			return nil, err
		}
		return asterix.NewExplicitNode(0, elt), nil

	case fx.BDS != nil:
		regs := make([]asterix.FormatNode, 0, len(fx.BDS.Registers))
		for _, r := range fx.BDS.Registers {
			node := buildFixed(r.Fixed)
			regs = append(regs, node)
			_ = r.Code // register selector is read back off the built fixedFormat's own id, set below
		}
		// Re-derive each register's selector id from its Code attribute; a
		// second pass keeps buildFixed itself ignorant of BDS-specific
		// concerns.
		for i, r := range fx.BDS.Registers {
			code := strings.ToLower(strings.TrimSpace(r.Code))
			if code == "" || code == "catch-all" {
				continue
			}
			n, err := strconv.ParseUint(strings.TrimPrefix(code, "0x"), 16, 8)
			if err != nil {
				return nil, fmt.Errorf("BDS register code %q: %w", r.Code, err)
			}
			regs[i] = asterix.NewFixedNode(int(n), fx.BDS.Registers[i].Fixed.Length, collectBits(fx.BDS.Registers[i].Fixed))
		}
		return asterix.NewBDSNode(0, regs), nil

	default:
		return nil, fmt.Errorf("DataItem has no recognized format element")
	}
}

func buildFixed(fx fixedXML) asterix.FormatNode {
	return asterix.NewFixedNode(0, fx.Length, collectBits(fx))
}

func collectBits(fx fixedXML) []*asterix.BitsDescriptor {
	bits := make([]*asterix.BitsDescriptor, 0, len(fx.Bits))
	for _, b := range fx.Bits {
		bits = append(bits, buildBits(b))
	}
	return bits
}

func buildBits(b bitXML) *asterix.BitsDescriptor {
	from, to := b.From, b.To
	if b.Bit != nil {
		from, to = *b.Bit, *b.Bit
	}
	d := &asterix.BitsDescriptor{
		ShortName:       b.ShortName,
		FullName:        b.FullName,
		From:            from,
		To:              to,
		Encoding:        parseEncoding(b.Encode),
		IsExtension:     b.FX,
		PresenceOfField: b.Presence,
	}
	if b.Unit != nil {
		d.Unit = b.Unit.Name
		if b.Unit.Scale != nil {
			d.Scale = *b.Unit.Scale
		}
		if b.Unit.Min != nil {
			d.HasMin, d.Min = true, *b.Unit.Min
		}
		if b.Unit.Max != nil {
			d.HasMax, d.Max = true, *b.Unit.Max
		}
	}
	if b.Const != nil {
		d.IsConst, d.ConstValue = true, *b.Const
	}
	for _, v := range b.Values {
		d.ValueTable = append(d.ValueTable, asterix.ValueEntry{Value: v.N, Description: strings.TrimSpace(v.Description)})
	}
	return d
}

func parseEncoding(name string) asterix.Encoding {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "signed":
		return asterix.Signed
	case "six-bit-char", "sixbitchar", "icao":
		return asterix.SixBitChar
	case "hex-bit-char", "hex":
		return asterix.HexBitChar
	case "octal":
		return asterix.Octal
	case "ascii":
		return asterix.ASCII
	default:
		return asterix.Unsigned
	}
}
