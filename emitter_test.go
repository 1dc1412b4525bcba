package asterix

import (
	"strings"
	"testing"
)

func buildSacSicCatalogue() *Catalogue {
	cat := NewCatalogue()
	cat.Register(buildSacSicCategory())
	return cat
}

func TestEmitter_decodeAllAcrossMultipleBlocks(t *testing.T) {
	catalogue := buildSacSicCatalogue()
	block1 := encodeBlock(48, []byte{0x80, 0x0A, 0x14})
	block2 := encodeBlock(48, []byte{0x80, 0x01, 0x02})
	data := append(append([]byte{}, block1...), block2...)

	e := NewEmitter(catalogue, CompactJSON)
	blocks := e.DecodeAll(data, testTimestamp)
	if len(blocks) != 2 {
		t.Fatalf("len(blocks) = %d, want 2", len(blocks))
	}
	for _, b := range blocks {
		if !b.FormatOK {
			t.Errorf("block FormatOK = false, err = %v", b.Err)
		}
	}
}

func TestEmitter_renderCompactJSON(t *testing.T) {
	catalogue := buildSacSicCatalogue()
	data := encodeBlock(48, []byte{0x80, 0x0A, 0x14})

	e := NewEmitter(catalogue, CompactJSON)
	out, err := e.Render(data, testTimestamp)
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if !strings.HasPrefix(out, "[") || !strings.HasSuffix(out, "]") {
		t.Errorf("Render() = %s, want a JSON array", out)
	}
	if !strings.Contains(out, `"SAC":10`) || !strings.Contains(out, `"SIC":20`) {
		t.Errorf("Render() = %s, want SAC:10 and SIC:20", out)
	}
}

func TestEmitter_renderCompactXML(t *testing.T) {
	catalogue := buildSacSicCatalogue()
	data := encodeBlock(48, []byte{0x80, 0x0A, 0x14})

	e := NewEmitter(catalogue, CompactXML)
	out, err := e.Render(data, testTimestamp)
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if !strings.HasPrefix(out, "<asterix>") || !strings.HasSuffix(out, "</asterix>") {
		t.Errorf("Render() = %s, want an <asterix> root element", out)
	}
	if !strings.Contains(out, "<SAC>10</SAC>") || !strings.Contains(out, "<SIC>20</SIC>") {
		t.Errorf("Render() = %s, want SAC/SIC elements", out)
	}
}

func TestEmitter_renderText(t *testing.T) {
	catalogue := buildSacSicCatalogue()
	data := encodeBlock(48, []byte{0x80, 0x0A, 0x14})

	e := NewEmitter(catalogue, Text)
	out, err := e.Render(data, testTimestamp)
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if !strings.Contains(out, "CAT048") || !strings.Contains(out, "SAC: 10") || !strings.Contains(out, "SIC: 20") {
		t.Errorf("Render() = %s, want CAT048 header and SAC/SIC lines", out)
	}
}

func TestEmitter_unknownCategoryDoesNotStopTheStream(t *testing.T) {
	catalogue := buildSacSicCatalogue()
	good := encodeBlock(48, []byte{0x80, 0x0A, 0x14})
	bad := encodeBlock(99, []byte{0x00})
	data := append(append([]byte{}, bad...), good...)

	e := NewEmitter(catalogue, CompactJSON)
	blocks := e.DecodeAll(data, testTimestamp)
	if len(blocks) != 2 {
		t.Fatalf("len(blocks) = %d, want 2", len(blocks))
	}
	if blocks[0].FormatOK {
		t.Error("blocks[0].FormatOK = true, want false for the unregistered category")
	}
	if !blocks[1].FormatOK {
		t.Error("blocks[1].FormatOK = false, want true; one bad block must not poison the rest of the stream")
	}
}

func TestEmitter_filterSuppressesNonMatchingFields(t *testing.T) {
	catalogue := buildSacSicCatalogue()
	f, err := ParseFilterSpec("CAT048/010:SAC")
	if err != nil {
		t.Fatalf("ParseFilterSpec error: %v", err)
	}
	f.Apply(catalogue)

	data := encodeBlock(48, []byte{0x80, 0x0A, 0x14})
	e := &Emitter{Tracer: _lg, Catalogue: catalogue, Format: CompactJSON, Filter: f}
	out, err := e.Render(data, testTimestamp)
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if !strings.Contains(out, `"SAC":10`) {
		t.Errorf("Render() = %s, want SAC present", out)
	}
	if strings.Contains(out, "SIC") {
		t.Errorf("Render() = %s, want SIC suppressed by the filter", out)
	}
}
