//go:build fuzz
// +build fuzz

package codec

import (
	"testing"
)

// FuzzEffectCodec_DecodeBinary feeds random frames to the effect decoder
func FuzzEffectCodec_DecodeBinary(f *testing.F) {
	c := NewEffectCodec()

	seed, _ := c.EncodeBinary(sampleEffect())
	f.Add(seed)
	f.Add([]byte{})
	f.Add(make([]byte, 66))

	f.Fuzz(func(t *testing.T, frame []byte) {
		rec, err := c.DecodeBinary(frame)
		if err != nil {
			return
		}

		// whatever decodes must encode to the same frame length
		out, err := c.EncodeBinary(rec)
		if err != nil {
			t.Fatalf("re-encode failed: %v", err)
		}
		size, _ := c.FrameSize(frame)
		if len(out) != size {
			t.Fatalf("re-encoded %d bytes, frame was %d", len(out), size)
		}
	})
}

// FuzzMeshCodec_DecodeText ensures arbitrary line input never panics
func FuzzMeshCodec_DecodeText(f *testing.F) {
	c := NewMeshCodec(nil)

	f.Add("[1]", "Part=1", "Mesh0=1")
	f.Add("[x", "Part=9", "")
	f.Add("[0]", "Part=0", "Material0=Material255")

	f.Fuzz(func(t *testing.T, a, b, d string) {
		lines := []string{a, b, d, "Texture0=1", "MixTex0=1", "Asb0=1", "Adb0=1", "Material0=m"}
		rec, next, err := c.DecodeText(lines, 0)
		if err != nil {
			if IsSkippable(err) {
				t.Fatalf("mesh decode must never produce skippable errors: %v", err)
			}
			return
		}
		if next > len(lines) {
			t.Fatalf("next %d beyond input %d", next, len(lines))
		}
		if _, err := c.EncodeText(rec); err != nil {
			t.Fatalf("re-encode failed: %v", err)
		}
	})
}

// FuzzMaterialCodec_DecodeText checks that bad material lines stay soft errors
func FuzzMaterialCodec_DecodeText(f *testing.F) {
	c := NewMaterialCodec()

	f.Add("water FFFFFFFF FFFFFFFF FF60DEE6 FF47607E 5")
	f.Add("a b c d e f")
	f.Add("")

	f.Fuzz(func(t *testing.T, line string) {
		_, next, err := c.DecodeText([]string{line}, 0)
		if err != nil && !IsSkippable(err) {
			t.Fatalf("material line errors must be skippable: %v", err)
		}
		if next != 1 {
			t.Fatalf("next = %d, want 1", next)
		}
	})
}
