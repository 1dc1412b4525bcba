// Package schema loads ASTERIX category definitions from XML files into an
// asterix.Catalogue. It is an external collaborator: it reaches the core
// only through asterix's exported constructors and never touches an
// unexported type.
package schema

import "encoding/xml"

// categoryXML is the root element of one category definition file.
type categoryXML struct {
	XMLName xml.Name      `xml:"Category"`
	ID      string        `xml:"id,attr"`
	Name    string        `xml:"name,attr"`
	Version string        `xml:"ver,attr"`
	Items   []dataItemXML `xml:"DataItem"`
	UAPs    []uapXML      `xml:"UAP"`
}

type dataItemXML struct {
	ID         string `xml:"id,attr"`
	Rule       string `xml:"rule,attr"`
	Name       string `xml:"DataItemName"`
	Definition string `xml:"DataItemDefinition"`
	Note       string `xml:"DataItemNote"`
	// Format wraps the six mutually-exclusive format shapes in the
	// spec.md §6 "DataItemFormat desc" element; desc is carried for
	// schema-authoring tools but has no decoder-side meaning.
	Format formatXML `xml:"DataItemFormat"`
}

// formatXML holds the six mutually-exclusive format shapes a DataItem (or
// any structural sub-node) may carry; exactly one is populated.
type formatXML struct {
	Desc       string         `xml:"desc,attr"`
	Fixed      *fixedXML      `xml:"Fixed"`
	Variable   *variableXML   `xml:"Variable"`
	Compound   *compoundXML   `xml:"Compound"`
	Repetitive *repetitiveXML `xml:"Repetitive"`
	Explicit   *explicitXML   `xml:"Explicit"`
	BDS        *bdsXML        `xml:"BDS"`
}

type fixedXML struct {
	Length int      `xml:"length,attr"`
	Bits   []bitXML `xml:"Bits"`
}

// bitXML mirrors spec.md §6's abridged `<Bits bit | from to encode fx>`
// element: a bit position is given either as a single `bit` attribute or as
// a `from`/`to` pair.
type bitXML struct {
	Bit       *int         `xml:"bit,attr"`
	From      int          `xml:"from,attr"`
	To        int          `xml:"to,attr"`
	Encode    string       `xml:"encode,attr"`
	FX        bool         `xml:"fx,attr"`
	Presence  int          `xml:"presence,attr"`
	ShortName string       `xml:"BitsShortName"`
	FullName  string       `xml:"BitsName"`
	Unit      *bitsUnitXML `xml:"BitsUnit"`
	Const     *int64       `xml:"BitsConst"`
	Values    []valueXML   `xml:"BitsValue"`
}

// bitsUnitXML mirrors spec.md §6's `<BitsUnit scale min max>` element; its
// character data is the unit name itself (e.g. "m/s").
type bitsUnitXML struct {
	Scale *float64 `xml:"scale,attr"`
	Min   *float64 `xml:"min,attr"`
	Max   *float64 `xml:"max,attr"`
	Name  string   `xml:",chardata"`
}

type valueXML struct {
	N           int64  `xml:"val,attr"`
	Description string `xml:",chardata"`
}

type variableXML struct {
	Parts []fixedXML `xml:"Part"`
}

type compoundXML struct {
	Primary     fixedXML    `xml:"Primary"`
	Secondaries []formatXML `xml:"Secondary"`
}

type repetitiveXML struct {
	Element formatXML `xml:"Element"`
}

type explicitXML struct {
	Element formatXML `xml:"Element"`
}

type bdsXML struct {
	Registers []registerXML `xml:"Register"`
}

type registerXML struct {
	Code  string   `xml:"code,attr"` // two hex digits, or "catch-all"
	Fixed fixedXML `xml:"Fixed"`
}

type uapXML struct {
	Guard *guardXML    `xml:"Guard"`
	Items []uapItemXML `xml:"UAPItem"`
}

// guardXML gates a non-default UAP: present iff byte byteIdx (0-based, into
// the record bytes following the FSPEC) matches mask/value.
type guardXML struct {
	Byte  int    `xml:"byte,attr"`
	Mask  string `xml:"mask,attr"`  // hex, e.g. "0x80"
	Value string `xml:"value,attr"` // hex, e.g. "0x80"
}

type uapItemXML struct {
	FRN    int    `xml:"frn,attr"`
	ItemID string `xml:",chardata"`
}
