package asterix

import (
	"fmt"
	"hash/crc32"
	"strings"
)

// DataRecord is one decoded record within a DataBlock: its FSPEC-driven set
// of present items, resolved against the category's selected UAP.
type DataRecord struct {
	Category int
	Sequence int

	// Timestamp is seconds since epoch or capture-relative, per spec.md §3;
	// it is carried through from the DecodeBlock call that produced this
	// record, not derived from the record's own bytes.
	Timestamp float64

	// Bytes is the full record span, FSPEC included, aliasing the owning
	// DataBlock's backing array.
	Bytes []byte

	FormatOK bool
	Items    []DataItem

	// Err holds the first error encountered, if FormatOK is false: a
	// *RecordError, or whatever error an item format's Length returned
	// (e.g. a *SchemaError or *OverflowError).
	Err error
}

// CRC32 returns the IEEE checksum of the record's raw bytes, used only as a
// diagnostic fingerprint in the Text/EOut, JSON and XML record headers —
// ASTERIX records carry no checksum of their own.
func (r *DataRecord) CRC32() uint32 {
	return crc32.ChecksumIEEE(r.Bytes)
}

// HexDump renders the record's raw bytes as contiguous upper-case hex pairs
// with no separators (e.g. "800A14").
func (r *DataRecord) HexDump() string {
	var sb strings.Builder
	for _, b := range r.Bytes {
		fmt.Fprintf(&sb, "%02X", b)
	}
	return sb.String()
}

// decodeFSPEC reads the leading Field Specification octets of data: for each
// octet, bits 7..1 (MSB-first) are presence flags for consecutive Field
// Reference Numbers and bit 0 is the FX continuation flag. It returns the
// FRNs found present, in ascending order, and the number of bytes consumed.
func decodeFSPEC(data []byte) (present []int, fspecLen int, err error) {
	for i := 0; ; i++ {
		if i >= len(data) {
			return nil, 0, &RecordError{Reason: "FSPEC runs past end of data"}
		}
		b := data[i]
		for bitPos := 7; bitPos >= 1; bitPos-- {
			if b&(1<<uint(bitPos)) != 0 {
				frn := i*7 + (8 - bitPos)
				present = append(present, frn)
			}
		}
		fspecLen = i + 1
		if b&0x01 == 0 {
			return present, fspecLen, nil
		}
	}
}

// DecodeRecord parses one record out of data, which spans everything still
// owned by the enclosing block (i.e. it may run past this record's end; the
// returned consumed count tells the caller where the next record begins).
// A *RecordError never aborts the block: the returned record has
// FormatOK=false and the caller skips to consumed bytes (or, if consumed is
// 0, abandons the rest of the block, since the FSPEC itself could not be
// read).
func DecodeRecord(tr *Tracer, cat *Category, seq int, timestamp float64, data []byte) (rec *DataRecord, consumed int, err error) {
	if tr == nil {
		tr = _lg
	}
	present, fspecLen, ferr := decodeFSPEC(data)
	if ferr != nil {
		return nil, 0, ferr
	}

	rec = &DataRecord{Category: cat.ID, Sequence: seq, Timestamp: timestamp, FormatOK: true}
	body := data[fspecLen:]

	uap, ok := cat.SelectUAP(body)
	if !ok {
		rec.FormatOK = false
		rec.Err = &RecordError{Sequence: seq, Reason: fmt.Sprintf("CAT%03d has no matching UAP", cat.ID)}
		tr.Warnf(rec.Err.Error())
		rec.Bytes = data[:fspecLen]
		return rec, fspecLen, nil
	}

	cursor := 0
	for _, frn := range present {
		itemID, ok := uap.ItemIDForFRN(frn)
		if !ok {
			rec.FormatOK = false
			rec.Err = &RecordError{Sequence: seq, Reason: fmt.Sprintf("FRN %d not defined by UAP", frn)}
			tr.Warnf(rec.Err.Error())
			break
		}
		if itemID == SpareItemID {
			continue
		}
		desc, ok := cat.DescriptionFor(itemID)
		if !ok {
			rec.FormatOK = false
			rec.Err = &RecordError{Sequence: seq, Reason: fmt.Sprintf("item %s has no description in CAT%03d", itemID, cat.ID)}
			tr.Warnf(rec.Err.Error())
			break
		}
		if cursor > len(body) {
			rec.FormatOK = false
			rec.Err = &RecordError{Sequence: seq, Reason: fmt.Sprintf("item %s starts past end of record", itemID)}
			tr.Warnf(rec.Err.Error())
			break
		}
		itemLen, lerr := desc.Length(body[cursor:])
		if lerr != nil {
			rec.FormatOK = false
			rec.Err = lerr
			tr.Warnf("item %s: %v", itemID, lerr)
			break
		}
		if itemLen < 0 || cursor+itemLen > len(body) {
			rec.FormatOK = false
			rec.Err = &RecordError{Sequence: seq, Reason: fmt.Sprintf("item %s length %d overruns record", itemID, itemLen)}
			tr.Warnf(rec.Err.Error())
			break
		}
		rec.Items = append(rec.Items, DataItem{Description: desc, Bytes: body[cursor : cursor+itemLen]})
		cursor += itemLen
	}

	total := fspecLen + cursor
	rec.Bytes = data[:total]
	return rec, total, nil
}

// Render writes this record's complete emitted fragment — header plus every
// item — into out, per ctx.format's shape.
func (r *DataRecord) Render(ctx *renderCtx, out *strings.Builder) error {
	recCtx := *ctx
	recCtx.category = r.Category

	switch {
	case ctx.format == Text, ctx.format == EOut:
		fmt.Fprintf(out, "\nRecord %d (CAT%03d, %d bytes, CRC %08X)\nTimestamp: %f", r.Sequence, r.Category, len(r.Bytes), r.CRC32(), r.Timestamp)
		if !r.FormatOK {
			fmt.Fprintf(out, "\n  ERROR: %v", r.Err)
			return nil
		}
		for _, it := range r.Items {
			if _, err := it.Render(&recCtx, out); err != nil {
				return err
			}
		}

	case ctx.format.isJSON():
		fmt.Fprintf(out, `{"sequence":%d,"category":%d,"timestamp":%f,"crc":"%08X"`, r.Sequence, r.Category, r.Timestamp, r.CRC32())
		if !r.FormatOK {
			fmt.Fprintf(out, `,"error":%q}`, r.Err.Error())
			return nil
		}
		out.WriteString(`,"items":{`)
		wrote := false
		for _, it := range r.Items {
			var inner strings.Builder
			ok, err := it.Render(&recCtx, &inner)
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
			if wrote {
				out.WriteString(",")
			}
			fmt.Fprintf(out, `"%s":%s`, it.Description.IDString, inner.String())
			wrote = true
		}
		out.WriteString("}}")

	case ctx.format.isXML():
		fmt.Fprintf(out, `<record sequence="%d" category="%d" timestamp="%f" crc="%08X">`, r.Sequence, r.Category, r.Timestamp, r.CRC32())
		if !r.FormatOK {
			fmt.Fprintf(out, "<error>%s</error></record>", xmlEscape(r.Err.Error()))
			return nil
		}
		itemCtx := recCtx.indented()
		for _, it := range r.Items {
			var inner strings.Builder
			if _, err := it.Render(itemCtx, &inner); err != nil {
				return err
			}
			fmt.Fprintf(out, `<item id="%s">%s</item>`, it.Description.IDString, inner.String())
		}
		out.WriteString("</record>")
	}
	return nil
}
