package transport

import (
	"bytes"
	"testing"
)

func TestHDLC_roundTrip(t *testing.T) {
	payload := []byte{0x30, 0x00, 0x06, 0x80, 0x0A, 0x14}
	frame := EncodeHDLCFrame(payload)

	got, err := DecodeHDLCFrame(frame)
	if err != nil {
		t.Fatalf("DecodeHDLCFrame error: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("round-tripped payload = % X, want % X", got, payload)
	}
}

func TestHDLC_headerMismatchIsRejected(t *testing.T) {
	frame := EncodeHDLCFrame([]byte{0x01, 0x02})
	frame[0] = 0x02 // corrupt the fixed 01 03 header
	if _, err := DecodeHDLCFrame(frame); err == nil {
		t.Error("DecodeHDLCFrame with corrupted header = nil error, want an error")
	}
}

func TestHDLC_corruptPayloadFailsResidueCheck(t *testing.T) {
	frame := EncodeHDLCFrame([]byte{0x01, 0x02, 0x03})
	frame[3] ^= 0xFF // flip a payload bit without recomputing the FCS
	if _, err := DecodeHDLCFrame(frame); err == nil {
		t.Error("DecodeHDLCFrame with corrupted payload = nil error, want a residue mismatch")
	}
}

func TestHDLC_tooShortIsRejected(t *testing.T) {
	if _, err := DecodeHDLCFrame([]byte{0x01, 0x03, 0x00}); err == nil {
		t.Error("DecodeHDLCFrame on a too-short frame = nil error, want an error")
	}
}

func TestHDLC_emptyPayloadRoundTrips(t *testing.T) {
	frame := EncodeHDLCFrame(nil)
	got, err := DecodeHDLCFrame(frame)
	if err != nil {
		t.Fatalf("DecodeHDLCFrame error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("round-tripped empty payload = % X, want empty", got)
	}
}
