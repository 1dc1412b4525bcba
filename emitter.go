package asterix

import "strings"

// Emitter drives a full decode pass over a buffer of concatenated data
// blocks and renders the result in one of the seven output shapes. It is
// the package's top-level entry point for whole buffers; DecodeBlock and
// DecodeRecord remain exported for callers that work one block or record at
// a time.
type Emitter struct {
	Tracer   *Tracer
	Catalogue *Catalogue
	Format   OutputFormat
	Filter   *Filter
	Verbose  bool
}

// NewEmitter returns an Emitter with the package default tracer and no
// active filter.
func NewEmitter(cat *Catalogue, format OutputFormat) *Emitter {
	return &Emitter{Tracer: _lg, Catalogue: cat, Format: format}
}

// DecodeAll splits data into consecutive data blocks (each self-delimited
// by its own category+length header, per spec.md §4.K) and decodes every
// one, stamping every block (and every record within it) with timestamp —
// seconds since epoch or capture-relative, per spec.md §3, supplied by
// whichever transport shim read data off the wire. It never stops early on
// a single block's error: a bad block is recorded with FormatOK=false and
// decoding resumes at its declared length.
func (e *Emitter) DecodeAll(data []byte, timestamp float64) []*DataBlock {
	tr := e.Tracer
	if tr == nil {
		tr = _lg
	}
	var blocks []*DataBlock
	cursor := 0
	for cursor < len(data) {
		blk, used, err := DecodeBlock(tr, e.Catalogue, timestamp, data[cursor:])
		if err != nil || used == 0 {
			// Cannot even read a header: nothing left to resynchronize on.
			break
		}
		blocks = append(blocks, blk)
		cursor += used
	}
	return blocks
}

// Render decodes data and returns the complete rendered output for all of
// its blocks, wrapped in the container shape ctx.format calls for (a JSON
// array, an XML root element, or plain concatenated text).
func (e *Emitter) Render(data []byte, timestamp float64) (string, error) {
	blocks := e.DecodeAll(data, timestamp)
	ctx := &renderCtx{
		tr:           e.Tracer,
		format:       e.Format,
		filterActive: e.Filter != nil,
		verbose:      e.Verbose,
	}

	var out strings.Builder
	switch {
	case e.Format.isJSON():
		out.WriteString("[")
		for i, b := range blocks {
			if i > 0 {
				out.WriteString(",")
			}
			if err := b.Render(ctx, &out); err != nil {
				return "", err
			}
		}
		out.WriteString("]")

	case e.Format.isXML():
		out.WriteString("<asterix>")
		for _, b := range blocks {
			if err := b.Render(ctx, &out); err != nil {
				return "", err
			}
		}
		out.WriteString("</asterix>")

	default: // Text, EOut
		for _, b := range blocks {
			if err := b.Render(ctx, &out); err != nil {
				return "", err
			}
		}
	}
	return out.String(), nil
}
