package asterix

import (
	"bytes"
	"testing"
)

func TestReadBits_wholeBuffer(t *testing.T) {
	data := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	got := ReadBits(data, 1, 32)
	if !bytes.Equal(got, data) {
		t.Errorf("ReadBits whole buffer = % X, want % X", got, data)
	}
}

func TestReadBits_twoByteItem(t *testing.T) {
	// In a 2-byte item, bit 16 is the MSB of byte 0, bit 1 is the LSB of
	// byte 1 — spec.md §3's worked example.
	data := []byte{0b10110000, 0b00001111}
	tests := []struct {
		name     string
		from, to int
		want     byte
	}{
		{"MSB of byte 0", 16, 16, 1},
		{"LSB of byte 1", 1, 1, 1},
		{"high nibble of byte 0", 13, 16, 0b1011},
		{"low nibble of byte 1", 1, 4, 0b1111},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ReadBits(data, tt.from, tt.to)
			if len(got) != 1 || got[0] != tt.want {
				t.Errorf("ReadBits(%d,%d) = % X, want [%02X]", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestReadBits_outputLength(t *testing.T) {
	data := []byte{0xFF, 0xFF, 0xFF, 0xFF}
	tests := []struct {
		from, to, wantLen int
	}{
		{1, 1, 1},
		{1, 8, 1},
		{1, 9, 2},
		{1, 32, 4},
		{5, 20, 2},
	}
	for _, tt := range tests {
		got := ReadBits(data, tt.from, tt.to)
		if len(got) != tt.wantLen {
			t.Errorf("ReadBits(%d,%d) length = %d, want %d", tt.from, tt.to, len(got), tt.wantLen)
		}
	}
}

func TestReadBits_invalidRangesReturnNil(t *testing.T) {
	data := []byte{0x01, 0x02}
	tests := []struct {
		name     string
		from, to int
	}{
		{"from greater than to", 10, 2},
		{"from below 1", 0, 4},
		{"to beyond buffer", 1, 17},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ReadBits(data, tt.from, tt.to); got != nil {
				t.Errorf("ReadBits(%d,%d) = % X, want nil", tt.from, tt.to, got)
			}
		})
	}
}

func TestReadBits_longSpanGeneralPath(t *testing.T) {
	// 96-bit span exercises the >64-bit fallback path.
	data := make([]byte, 12)
	for i := range data {
		data[i] = byte(i + 1)
	}
	got := ReadBits(data, 1, 96)
	if !bytes.Equal(got, data) {
		t.Errorf("ReadBits full 96-bit span = % X, want % X", got, data)
	}
}
