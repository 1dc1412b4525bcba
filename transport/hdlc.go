// Package transport reads three of the envelopes spec.md's "Transport
// envelopes" section names for delivering ASTERIX data blocks to the core
// decoder: a plain file of concatenated blocks, HDLC-framed blocks protected
// by a CRC-16-CCITT frame check sequence, and UDP multicast datagrams. All
// three hand payload-only byte slices to asterix.DataBlock; none reaches
// into asterix's unexported internals.
package transport

import "fmt"

const (
	hdlcHeaderByte0 = 0x01
	hdlcHeaderByte1 = 0x03
	hdlcHeaderLen   = 2
	hdlcFCSLen      = 2

	// hdlcResidue is the fixed register value a correctly received frame's
	// running CRC-16-CCITT settles to once its own (complemented)
	// frame-check-sequence bytes are folded into the same computation —
	// the standard CRC-16/X-25 residue, per spec.md §6.
	hdlcResidue = 0xF0B8
)

// crc16Table is the CRC-16/X-25 (CCITT, reflected, poly 0x1021 bit-reversed
// to 0x8408) lookup table, built once at package init.
var crc16Table = buildCRC16Table()

func buildCRC16Table() [256]uint16 {
	var t [256]uint16
	for i := 0; i < 256; i++ {
		crc := uint16(i)
		for b := 0; b < 8; b++ {
			if crc&1 != 0 {
				crc = (crc >> 1) ^ 0x8408
			} else {
				crc >>= 1
			}
		}
		t[i] = crc
	}
	return t
}

// crc16Register runs the CRC-16-CCITT shift register over data starting
// from init, without applying any final XOR. Both the transmit-side FCS
// computation and the receive-side residue check share this one loop; they
// differ only in what they do with the returned register value.
func crc16Register(data []byte, init uint16) uint16 {
	crc := init
	for _, b := range data {
		crc = (crc >> 8) ^ crc16Table[byte(crc)^b]
	}
	return crc
}

// crc16CCITT computes the transmitted frame-check-sequence for data: the
// CRC-16-CCITT register after processing data from init 0xFFFF, complemented
// (the X-25 convention), matching spec.md §6's "init 0xFFFF".
func crc16CCITT(data []byte) uint16 {
	return ^crc16Register(data, 0xFFFF)
}

// DecodeHDLCFrame validates and strips one HDLC frame: a 2-byte 0x01 0x03
// header, a payload of ASTERIX data blocks, and a trailing little-endian
// CRC-16-CCITT frame check sequence. Rather than recomputing the FCS and
// comparing it to the trailing bytes, it folds the received FCS back into
// the running CRC and checks the result against the fixed residue 0xF0B8 —
// the standard X-25 verification method and the one spec.md §6 names
// directly ("expected residue 0xF0B8").
func DecodeHDLCFrame(frame []byte) ([]byte, error) {
	if len(frame) < hdlcHeaderLen+hdlcFCSLen {
		return nil, fmt.Errorf("hdlc frame too short: %d bytes", len(frame))
	}
	if frame[0] != hdlcHeaderByte0 || frame[1] != hdlcHeaderByte1 {
		return nil, fmt.Errorf("hdlc frame header %02X%02X, want %02X%02X", frame[0], frame[1], hdlcHeaderByte0, hdlcHeaderByte1)
	}
	residue := crc16Register(frame, 0xFFFF)
	if residue != hdlcResidue {
		return nil, fmt.Errorf("hdlc frame FCS residue %04X, want %04X", residue, hdlcResidue)
	}
	payload := frame[hdlcHeaderLen : len(frame)-hdlcFCSLen]
	out := make([]byte, len(payload))
	copy(out, payload)
	return out, nil
}

// EncodeHDLCFrame wraps payload with the 0x01 0x03 header and appends the
// CRC-16-CCITT FCS that makes DecodeHDLCFrame's residue check pass — the
// inverse of DecodeHDLCFrame, used by tests to build fixtures.
func EncodeHDLCFrame(payload []byte) []byte {
	body := make([]byte, 0, hdlcHeaderLen+len(payload))
	body = append(body, hdlcHeaderByte0, hdlcHeaderByte1)
	body = append(body, payload...)
	fcs := crc16CCITT(body)
	return append(body, byte(fcs), byte(fcs>>8))
}
