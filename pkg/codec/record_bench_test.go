//go:build bench
// +build bench

package codec

import (
	"testing"
)

func BenchmarkEffectCodec_EncodeBinary(b *testing.B) {
	c := NewEffectCodec()

	benchmarks := []struct {
		name   string
		frames int
	}{
		{"one frame", 1},
		{"sixty frames", 60},
		{"max frames", MaxEffectFrames},
	}

	for _, bm := range benchmarks {
		e := NewEffect("bench")
		for i := 0; i < bm.frames; i++ {
			e.Parts = append(e.Parts, NewEffectPart())
		}

		b.Run(bm.name, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := c.EncodeBinary(e); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkEffectCodec_DecodeText(b *testing.B) {
	c := NewEffectCodec()
	lines := sampleEffectLines()

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, _, err := c.DecodeText(lines, 0); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkMaterialCodec_DecodeText(b *testing.B) {
	c := NewMaterialCodec()
	lines := []string{"water FFFFFFFF FFFFFFFF FF60DEE6 FF47607E 5"}

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, _, err := c.DecodeText(lines, 0); err != nil {
			b.Fatal(err)
		}
	}
}
