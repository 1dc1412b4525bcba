package asterix

import (
	"strings"
	"testing"

	"pgregory.net/rapid"
)

// TestFixed_lengthIsAlwaysDeclaredLength checks spec.md §8's invariant that
// a Fixed node's Length never depends on data, only on its own compile-time
// configured length.
func TestFixed_lengthIsAlwaysDeclaredLength(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		declared := rapid.IntRange(1, 32).Draw(rt, "declared")
		data := rapid.SliceOfN(rapid.Byte(), 0, 64).Draw(rt, "data")
		f := NewFixedNode(1, declared, nil)
		length, err := f.Length(data)
		if err != nil {
			rt.Fatalf("Length error: %v", err)
		}
		if length != declared {
			rt.Fatalf("Length(% X) = %d, want declared length %d", data, length, declared)
		}
	})
}

// TestBDS_lengthIsAlwaysEight checks spec.md §8's invariant that a BDS
// node's Length is always 8 regardless of its registers or input data.
func TestBDS_lengthIsAlwaysEight(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		data := rapid.SliceOfN(rapid.Byte(), 0, 16).Draw(rt, "data")
		b := NewBDSNode(1, []formatNode{NewFixedNode(0, 8, nil)})
		length, err := b.Length(data)
		if err != nil {
			rt.Fatalf("Length error: %v", err)
		}
		if length != 8 {
			rt.Fatalf("Length(% X) = %d, want 8", data, length)
		}
	})
}

// TestExplicit_lengthEqualsFirstByte checks spec.md §8's invariant that an
// Explicit node's Length is exactly the value of data's first byte.
func TestExplicit_lengthEqualsFirstByte(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		first := rapid.Byte().Draw(rt, "first")
		rest := rapid.SliceOfN(rapid.Byte(), 0, 16).Draw(rt, "rest")
		data := append([]byte{first}, rest...)

		e := NewExplicitNode(1, NewFixedNode(1, 1, nil))
		length, err := e.Length(data)
		if err != nil {
			rt.Fatalf("Length error: %v", err)
		}
		if length != int(first) {
			rt.Fatalf("Length(% X) = %d, want %d", data, length, first)
		}
	})
}

// TestRepetitive_lengthFormula checks spec.md §8's invariant that a
// Repetitive node's Length is 1 + count*eltLen for any count whose result
// stays within the maxItemSize ceiling, and that the zero-count case always
// yields exactly 1.
func TestRepetitive_lengthFormula(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		eltLen := rapid.IntRange(1, 4).Draw(rt, "eltLen")
		count := rapid.IntRange(0, 200).Draw(rt, "count")
		data := make([]byte, 1+count*eltLen)
		data[0] = byte(count)

		r := NewRepetitiveNode(1, NewFixedNode(1, eltLen, nil))
		length, err := r.Length(data)
		if err != nil {
			rt.Fatalf("Length error: %v", err)
		}
		var want int
		if count == 0 {
			want = 1
		} else {
			want = 1 + count*eltLen
		}
		if length != want {
			rt.Fatalf("Length(count=%d, eltLen=%d) = %d, want %d", count, eltLen, length, want)
		}
	})
}

// TestDeepClone_fidelity checks spec.md §8's invariant that DeepClone
// produces a tree whose Length and Render output are identical to the
// original for the same input, across all six format shapes exercised by
// this package's scenario builders.
func TestDeepClone_fidelity(t *testing.T) {
	sacSicDesc, _ := buildSacSicCategory().DescriptionFor("010")
	cases := []struct {
		name string
		node formatNode
		data []byte
	}{
		{"fixed", sacSicDesc.Format, []byte{0x0A, 0x14}},
		{"variable", buildVariableScenario(), []byte{0b00001011, 0b00010100}},
		{"repetitive", NewRepetitiveNode(1, repetitiveElement()), []byte{0x03, 0x11, 0x22, 0x33, 0x44, 0x55, 0x66}},
		{"explicit", NewExplicitNode(1, explicitElement()), []byte{0x05, 0x41, 0x42, 0x43, 0x44}},
		{"bds", buildCallsignBDS(), []byte{0x20, 0x21, 0x0A, 0xC4, 0xA4, 0x80, 0x00, 0x20}},
		{"compound", buildCompoundScenario(), []byte{0xE0, 0x12, 0x34, 0x56, 0xAA}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			clone := tc.node.DeepClone()

			origLen, origErr := tc.node.Length(tc.data)
			cloneLen, cloneErr := clone.Length(tc.data)
			if (origErr == nil) != (cloneErr == nil) || origLen != cloneLen {
				t.Fatalf("Length mismatch: orig=(%d,%v) clone=(%d,%v)", origLen, origErr, cloneLen, cloneErr)
			}

			var origOut, cloneOut strings.Builder
			ctx := &renderCtx{format: CompactJSON}
			_, oerr := tc.node.Render(ctx, tc.data, origLen, &origOut)
			_, cerr := clone.Render(ctx, tc.data, cloneLen, &cloneOut)
			if (oerr == nil) != (cerr == nil) {
				t.Fatalf("Render error mismatch: orig=%v clone=%v", oerr, cerr)
			}
			if origOut.String() != cloneOut.String() {
				t.Errorf("Render mismatch: orig=%s clone=%s", origOut.String(), cloneOut.String())
			}
		})
	}
}
