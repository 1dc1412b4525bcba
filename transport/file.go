package transport

import (
	"fmt"
	"os"
)

// ReadBlocksFile reads the entire contents of path: a plain file of
// concatenated ASTERIX data blocks, each self-delimited by its own
// category+length header. The returned slice is handed directly to
// asterix.Emitter.DecodeAll / asterix.DecodeBlock in a loop.
func ReadBlocksFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading block file %s: %w", path, err)
	}
	return data, nil
}
