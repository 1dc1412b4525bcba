package asterix

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testTimestamp is an arbitrary capture-relative timestamp used across this
// file's scenarios; its exact value is irrelevant, only that it round-trips.
const testTimestamp = 1234.5

// buildSacSicCategory builds the spec.md §8 scenario 1 category: CAT048,
// a single FRN-1 item "010" which is a 2-byte Fixed SAC/SIC pair.
func buildSacSicCategory() *Category {
	bits := []*BitsDescriptor{
		{ShortName: "SAC", FullName: "System Area Code", From: 16, To: 9, Encoding: Unsigned},
		{ShortName: "SIC", FullName: "System Identification Code", From: 8, To: 1, Encoding: Unsigned},
	}
	desc := NewItemDescription("010")
	desc.RuleKind = RuleMandatory
	desc.Format = NewFixedNode(1, 2, bits)

	cat := NewCategory(48, "Monoradar Target Reports", "1.15")
	cat.AddItemDescription(desc)
	uap := NewUAP()
	uap.Items = append(uap.Items, UAPItem{FRN: 1, ItemID: "010"})
	cat.AddUAP(uap)
	return cat
}

func TestDecodeRecord_scenario1_sacSic(t *testing.T) {
	cat := buildSacSicCategory()
	// FSPEC 0x80 (FRN1 only, FX clear), then SAC=10, SIC=20.
	data := []byte{0x80, 0x0A, 0x14}

	rec, consumed, err := DecodeRecord(nil, cat, 1, testTimestamp, data)
	require.NoError(t, err)
	require.Equal(t, 3, consumed)
	require.True(t, rec.FormatOK, "err = %v", rec.Err)
	require.Len(t, rec.Items, 1)
	assert.Equal(t, testTimestamp, rec.Timestamp)

	var out strings.Builder
	ctx := &renderCtx{format: CompactJSON, category: cat.ID}
	ok, err := rec.Items[0].Render(ctx, &out)
	require.NoError(t, err)
	require.True(t, ok)
	got := out.String()
	assert.Contains(t, got, `"SAC":10`)
	assert.Contains(t, got, `"SIC":20`)
}

func TestDataRecord_hexDumpIsUpperHexOfConsumedBytes(t *testing.T) {
	cat := buildSacSicCategory()
	data := []byte{0x80, 0x0A, 0x14, 0xFF, 0xFF} // trailing bytes belong to a later record
	rec, consumed, err := DecodeRecord(nil, cat, 0, testTimestamp, data)
	require.NoError(t, err)
	assert.Equal(t, "800A14", rec.HexDump())
	assert.Equal(t, 3, consumed, "trailing bytes belong to the next record")
}

func TestDataRecord_itemBytesReconstituteBody(t *testing.T) {
	cat := buildSacSicCategory()
	data := []byte{0x80, 0x0A, 0x14}
	rec, _, err := DecodeRecord(nil, cat, 0, testTimestamp, data)
	require.NoError(t, err)
	var joined []byte
	for _, it := range rec.Items {
		joined = append(joined, it.Bytes...)
	}
	assert.Equal(t, data[1:], joined)
}

func TestDataRecord_crcDeterminism(t *testing.T) {
	cat := buildSacSicCategory()
	data := []byte{0x80, 0x0A, 0x14}
	rec1, _, _ := DecodeRecord(nil, cat, 0, testTimestamp, data)
	rec2, _, _ := DecodeRecord(nil, cat, 0, testTimestamp, append([]byte(nil), data...))
	assert.Equal(t, rec1.CRC32(), rec2.CRC32())
}

// buildAllSparesCategory builds a UAP with seven FRNs, each bound to a
// trivial 1-byte Fixed item with no bits — used for the FSPEC boundary
// scenarios in spec.md §8.
func buildAllSparesCategory() *Category {
	cat := NewCategory(1, "test", "1.0")
	uap := NewUAP()
	for frn := 1; frn <= 7; frn++ {
		id := itemIDForFRN(frn)
		desc := NewItemDescription(id)
		desc.Format = NewFixedNode(frn, 1, nil)
		cat.AddItemDescription(desc)
		uap.Items = append(uap.Items, UAPItem{FRN: frn, ItemID: id})
	}
	cat.AddUAP(uap)
	return cat
}

func itemIDForFRN(frn int) string {
	return []string{"", "001", "002", "003", "004", "005", "006", "007"}[frn]
}

func TestDecodeRecord_fspecOnlyFX_zeroItems(t *testing.T) {
	cat := buildAllSparesCategory()
	// FSPEC byte with FX clear and no presence bits set.
	data := []byte{0x00}
	rec, consumed, err := DecodeRecord(nil, cat, 0, testTimestamp, data)
	require.NoError(t, err)
	assert.Equal(t, 1, consumed)
	require.True(t, rec.FormatOK, "err = %v", rec.Err)
	assert.Empty(t, rec.Items)
}

func TestDecodeRecord_allSevenBitsSet_sevenItems(t *testing.T) {
	cat := buildAllSparesCategory()
	// 0xFE = bits 7..1 set, FX (bit 0) clear.
	data := []byte{0xFE, 1, 2, 3, 4, 5, 6, 7}
	rec, consumed, err := DecodeRecord(nil, cat, 0, testTimestamp, data)
	require.NoError(t, err)
	assert.Equal(t, 8, consumed)
	require.True(t, rec.FormatOK, "err = %v", rec.Err)
	assert.Len(t, rec.Items, 7)
}

func TestDecodeRecord_spareFRN_skipped(t *testing.T) {
	cat := NewCategory(1, "test", "1.0")
	desc := NewItemDescription("001")
	desc.Format = NewFixedNode(1, 1, nil)
	cat.AddItemDescription(desc)
	uap := NewUAP()
	uap.Items = append(uap.Items, UAPItem{FRN: 1, ItemID: SpareItemID}, UAPItem{FRN: 2, ItemID: "001"})
	cat.AddUAP(uap)

	// FSPEC 0xC0: FRN1 and FRN2 both present, FX clear.
	data := []byte{0xC0, 0x99}
	rec, consumed, err := DecodeRecord(nil, cat, 0, testTimestamp, data)
	require.NoError(t, err)
	assert.Equal(t, 2, consumed)
	assert.Len(t, rec.Items, 1, "spare FRN1 should be skipped")
}

func TestDecodeRecord_undefinedFRN_abortsRecordOnly(t *testing.T) {
	cat := NewCategory(1, "test", "1.0")
	uap := NewUAP() // no items defined at all
	cat.AddUAP(uap)

	data := []byte{0x80, 0xFF} // FRN1 present but UAP has no entry for it
	rec, _, err := DecodeRecord(nil, cat, 0, testTimestamp, data)
	require.NoError(t, err, "want a per-record FormatOK=false, not a top-level error")
	assert.False(t, rec.FormatOK, "want false for an undefined FRN")
	assert.True(t, IsRecordError(rec.Err), "Err = %v (%T), want *RecordError", rec.Err, rec.Err)
}
