package asterix

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// blockHeaderLength is the category byte plus the 16-bit big-endian length
// field that precedes every DataBlock's records.
const blockHeaderLength = 3

// DataBlock is one ASTERIX data block: a category, a declared length
// (category byte and length field included), and the sequence of records
// that fill it.
type DataBlock struct {
	Category int
	Length   int

	// Timestamp is seconds since epoch or capture-relative, per spec.md §3;
	// it is supplied by the caller (the transport shim that read this
	// buffer) and carried unchanged into every record the block produces.
	Timestamp float64

	FormatOK bool
	Err      error

	Records []*DataRecord
}

// DecodeBlock reads one block from the front of data. It returns the block
// and the number of bytes consumed (always Length on success, so the
// caller can always advance by the returned count even when FormatOK is
// false and Records is empty).
//
// A missing category (cat.Lookup miss) or an inconsistent length field
// marks FormatOK=false per spec.md §4.H/§4.K: the block is skipped, not
// fatal to the surrounding stream.
func DecodeBlock(tr *Tracer, cat *Catalogue, timestamp float64, data []byte) (blk *DataBlock, consumed int, err error) {
	if tr == nil {
		tr = _lg
	}
	if len(data) < blockHeaderLength {
		return nil, 0, &BlockError{Reason: "buffer shorter than block header"}
	}

	category := int(data[0])
	length := int(binary.BigEndian.Uint16(data[1:3]))
	blk = &DataBlock{Category: category, Length: length, Timestamp: timestamp, FormatOK: true}

	if length < blockHeaderLength {
		blk.FormatOK = false
		blk.Err = &BlockError{Category: category, Reason: fmt.Sprintf("declared length %d shorter than header", length)}
		tr.Errorf(blk.Err.Error())
		return blk, blockHeaderLength, nil
	}
	if length > len(data) {
		blk.FormatOK = false
		blk.Err = &BlockError{Category: category, Reason: fmt.Sprintf("declared length %d exceeds available %d bytes", length, len(data))}
		tr.Errorf(blk.Err.Error())
		return blk, len(data), nil
	}

	catDef, ok := cat.Lookup(category)
	if !ok {
		blk.FormatOK = false
		blk.Err = &BlockError{Category: category, Reason: "category not present in catalogue"}
		tr.Warnf(blk.Err.Error())
		return blk, length, nil
	}
	if !catDef.IncludedInFilter {
		// Header-only: the global filter excludes this category's records
		// entirely, per spec.md §4.K.
		return blk, length, nil
	}

	body := data[blockHeaderLength:length]
	cursor := 0
	seq := 1 // spec.md §4.K: sequence numbers run 1..N, not 0-based.
	for cursor < len(body) {
		rec, used, rerr := DecodeRecord(tr, catDef, seq, timestamp, body[cursor:])
		if rerr != nil {
			// FSPEC itself unreadable: the remainder of the block cannot be
			// resynchronized, so stop here rather than guess a boundary.
			blk.FormatOK = false
			blk.Err = rerr
			tr.Errorf("CAT%03d block: %v", category, rerr)
			break
		}
		if used == 0 {
			break
		}
		blk.Records = append(blk.Records, rec)
		if !rec.FormatOK {
			blk.FormatOK = false
		}
		cursor += used
		seq++
	}
	return blk, length, nil
}

// Render writes this block's complete emitted fragment — header plus every
// record — into out, per ctx.format's shape.
func (b *DataBlock) Render(ctx *renderCtx, out *strings.Builder) error {
	switch {
	case ctx.format == Text, ctx.format == EOut:
		fmt.Fprintf(out, "\n=== CAT%03d, %d bytes, Timestamp: %f ===", b.Category, b.Length, b.Timestamp)
		if !b.FormatOK && len(b.Records) == 0 {
			fmt.Fprintf(out, "\n  ERROR: %v", b.Err)
			return nil
		}
		for _, r := range b.Records {
			if err := r.Render(ctx, out); err != nil {
				return err
			}
		}

	case ctx.format.isJSON():
		fmt.Fprintf(out, `{"category":%d,"length":%d,"timestamp":%f`, b.Category, b.Length, b.Timestamp)
		if !b.FormatOK && len(b.Records) == 0 {
			fmt.Fprintf(out, `,"error":%q}`, errString(b.Err))
			return nil
		}
		out.WriteString(`,"records":[`)
		for i, r := range b.Records {
			if i > 0 {
				out.WriteString(",")
			}
			if err := r.Render(ctx, out); err != nil {
				return err
			}
		}
		out.WriteString("]}")

	case ctx.format.isXML():
		fmt.Fprintf(out, `<block category="%d" length="%d" timestamp="%f">`, b.Category, b.Length, b.Timestamp)
		if !b.FormatOK && len(b.Records) == 0 {
			fmt.Fprintf(out, "<error>%s</error></block>", xmlEscape(errString(b.Err)))
			return nil
		}
		for _, r := range b.Records {
			if err := r.Render(ctx, out); err != nil {
				return err
			}
		}
		out.WriteString("</block>")
	}
	return nil
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
