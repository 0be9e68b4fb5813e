package codec_test

import (
	"fmt"
	"log"

	"github.com/ssargent/dbckit/pkg/codec"
)

// ExampleMaterialCodec_EncodeText writes a material as a text line
func ExampleMaterialCodec_EncodeText() {
	c := codec.NewMaterialCodec()

	m := codec.NewMaterial("water")
	m.Specular = 0xFF60DEE6
	m.Emissive = 0xFF47607E
	m.Power = 5

	lines, err := c.EncodeText(m)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(lines[0])
	// Output: water FFFFFFFF FFFFFFFF FF60DEE6 FF47607E 5
}

// ExampleEffectCodec_basic demonstrates binary encoding and decoding of an effect
func ExampleEffectCodec_basic() {
	c := codec.NewEffectCodec()

	e := codec.NewEffect("fire01")
	e.Parts = append(e.Parts, codec.NewEffectPart(), codec.NewEffectPart())

	frame, err := c.EncodeBinary(e)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Encoded %d bytes\n", len(frame))

	rec, err := c.DecodeBinary(frame)
	if err != nil {
		log.Fatal(err)
	}
	decoded := rec.(*codec.Effect)
	fmt.Printf("Title: %s\n", decoded.Title)
	fmt.Printf("Frames: %d\n", len(decoded.Parts))

	// Output:
	// Encoded 98 bytes
	// Title: fire01
	// Frames: 2
}

// ExampleMeshCodec_DecodeText reads a mesh block written without part indices
func ExampleMeshCodec_DecodeText() {
	c := codec.NewMeshCodec(nil)

	lines := []string{
		"[1001]",
		"Part=1",
		"Mesh=1001",
		"Texture=1001",
		"MixTex=0",
		"Asb=5",
		"Adb=6",
		"Material=default",
	}

	rec, next, err := c.DecodeText(lines, 0)
	if err != nil {
		log.Fatal(err)
	}
	m := rec.(*codec.Mesh)
	fmt.Println(m.Key(), len(m.Parts), m.Parts[0].Adb, next)
	// Output: 1001 1 inv-src-alpha 8
}
