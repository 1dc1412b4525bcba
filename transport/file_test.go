package transport

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestReadBlocksFile_roundTrip(t *testing.T) {
	data := []byte{0x30, 0x00, 0x06, 0x80, 0x0A, 0x14}
	path := filepath.Join(t.TempDir(), "blocks.bin")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	got, err := ReadBlocksFile(path)
	if err != nil {
		t.Fatalf("ReadBlocksFile error: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Errorf("ReadBlocksFile = % X, want % X", got, data)
	}
}

func TestReadBlocksFile_missingFileIsError(t *testing.T) {
	_, err := ReadBlocksFile(filepath.Join(t.TempDir(), "does-not-exist.bin"))
	if err == nil {
		t.Error("ReadBlocksFile on a missing file = nil error, want an error")
	}
}
