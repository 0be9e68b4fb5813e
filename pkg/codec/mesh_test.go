package codec

import (
	"encoding/binary"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleMeshLines() []string {
	return []string{
		"[100]",
		"Part=2",
		"Mesh0=1",
		"Texture0=2",
		"MixTex0=0",
		"Asb0=5",
		"Adb0=6",
		"Material0=default",
		"Mesh1=3",
		"Texture1=4",
		"MixTex1=7",
		"MixOpt1=2",
		"Asb1=5",
		"Adb1=2",
		"Material1=water",
	}
}

func sampleMesh() *Mesh {
	return &Mesh{
		ID: 100,
		Parts: []MeshPart{
			{Mesh: 1, Texture: 2, MixTex: 0, Asb: BlendSrcAlpha, Adb: BlendInvSrcAlpha, Material: "default"},
			{Mesh: 3, Texture: 4, MixTex: 7, MixOpt: 2, Asb: BlendSrcAlpha, Adb: BlendOne, Material: "water"},
		},
	}
}

func TestMeshCodec_DecodeText(t *testing.T) {
	c := NewMeshCodec(nil)

	rec, next, err := c.DecodeText(sampleMeshLines(), 0)
	require.NoError(t, err)
	assert.Equal(t, 15, next)
	if diff := cmp.Diff(sampleMesh(), rec); diff != "" {
		t.Errorf("decode mismatch (-want +got):\n%s", diff)
	}
}

func TestMeshCodec_DecodeTextWithoutIndex(t *testing.T) {
	lines := []string{
		"[7]",
		"Part=1",
		"Mesh=11",
		"Texture=12",
		"MixTex=13",
		"Asb=5",
		"Adb=6",
		"Material=default",
	}

	rec, next, err := NewMeshCodec(nil).DecodeText(lines, 0)
	require.NoError(t, err)
	assert.Equal(t, len(lines), next)

	m := rec.(*Mesh)
	assert.Equal(t, uint32(7), m.ID)
	require.Len(t, m.Parts, 1)
	assert.Equal(t, uint32(13), m.Parts[0].MixTex)
	assert.Equal(t, uint8(0), m.Parts[0].MixOpt)
}

func TestMeshCodec_DecodeTextStopsAtRecordEnd(t *testing.T) {
	lines := append([]string{"; before"}, sampleMeshLines()...)
	lines = append(lines, "[101]")

	_, next, err := NewMeshCodec(nil).DecodeText(lines, 1)
	require.NoError(t, err)
	assert.Equal(t, 16, next)
	assert.Equal(t, "[101]", lines[next])
}

func TestMeshCodec_DecodeTextErrors(t *testing.T) {
	testCases := []struct {
		name  string
		lines []string
		want  error
		line  int
	}{
		{
			name:  "too many parts",
			lines: []string{"[1]", "Part=6"},
			want:  ErrTooManyParts,
			line:  1,
		},
		{
			name:  "too few lines",
			lines: append(sampleMeshLines()[:8], "Mesh1=3"),
			want:  ErrTooFewLines,
			line:  2,
		},
		{
			name:  "non numeric id",
			lines: []string{"[abc]", "Part=0"},
			want:  ErrBadField,
			line:  0,
		},
		{
			name:  "missing Part line",
			lines: []string{"[1]", "Mesh0=1"},
			want:  ErrBadField,
			line:  1,
		},
		{
			name:  "bad number",
			lines: []string{"[1]", "Part=1", "Mesh0=x", "Texture0=1", "MixTex0=1", "Asb0=1", "Adb0=1", "Material0=m"},
			want:  ErrBadField,
			line:  2,
		},
		{
			name:  "blend out of byte range",
			lines: []string{"[1]", "Part=1", "Mesh0=1", "Texture0=1", "MixTex0=1", "Asb0=300", "Adb0=1", "Material0=m"},
			want:  ErrBadField,
			line:  5,
		},
		{
			name:  "header only",
			lines: []string{"[1]"},
			want:  ErrTooFewLines,
			line:  0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec, _, err := NewMeshCodec(nil).DecodeText(tc.lines, 0)
			require.Error(t, err)
			assert.Nil(t, rec)
			assert.ErrorIs(t, err, tc.want)
			assert.False(t, IsSkippable(err))

			var re *RecordError
			require.ErrorAs(t, err, &re)
			assert.Equal(t, tc.line, re.Line)
		})
	}
}

func TestMeshCodec_EncodeText(t *testing.T) {
	lines, err := NewMeshCodec(nil).EncodeText(sampleMesh())
	require.NoError(t, err)
	// MixOpt0 is 0 and left out
	assert.Equal(t, sampleMeshLines(), lines)
}

func TestMeshCodec_TextRoundTrip(t *testing.T) {
	c := NewMeshCodec(nil)
	for _, m := range []*Mesh{sampleMesh(), {ID: 9, Parts: []MeshPart{NewMeshPart()}}, {ID: 0, Parts: []MeshPart{}}} {
		lines, err := c.EncodeText(m)
		require.NoError(t, err)

		got, next, err := c.DecodeText(lines, 0)
		require.NoError(t, err)
		assert.Equal(t, len(lines), next)
		if diff := cmp.Diff(m, got); diff != "" {
			t.Errorf("text round trip mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestMeshCodec_BinaryRoundTrip(t *testing.T) {
	table := NewMaterialIndex([]string{"default", "water"})
	c := NewMeshCodec(table)

	m := sampleMesh()
	frame, err := c.EncodeBinary(m)
	require.NoError(t, err)
	require.Len(t, frame, 8+16*2)

	size, err := c.FrameSize(frame[:c.PrefixSize()])
	require.NoError(t, err)
	assert.Equal(t, len(frame), size)

	assert.Equal(t, uint32(100), binary.LittleEndian.Uint32(frame[0:]))
	assert.Equal(t, uint32(2), binary.LittleEndian.Uint32(frame[4:]))
	assert.Equal(t, byte(2), frame[8+16+12], "MixOpt")
	assert.Equal(t, byte(1), frame[8+16+15], "material index of water")

	got, err := c.DecodeBinary(frame)
	require.NoError(t, err)
	if diff := cmp.Diff(m, got); diff != "" {
		t.Errorf("binary round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestMeshCodec_MaterialNamesWithoutTable(t *testing.T) {
	c := NewMeshCodec(nil)
	m := &Mesh{ID: 1, Parts: []MeshPart{
		{Material: "Material3"},
		{Material: "water"},
	}}

	frame, err := c.EncodeBinary(m)
	require.NoError(t, err)
	assert.Equal(t, byte(3), frame[8+15])
	assert.Equal(t, byte(0), frame[8+16+15], "unknown names fall back to index 0")

	got, err := c.DecodeBinary(frame)
	require.NoError(t, err)
	parts := got.(*Mesh).Parts
	assert.Equal(t, "Material3", parts[0].Material)
	assert.Equal(t, "Material0", parts[1].Material)
}

func TestMeshCodec_BinaryErrors(t *testing.T) {
	c := NewMeshCodec(nil)

	prefix := make([]byte, 8)
	binary.LittleEndian.PutUint32(prefix[4:], 5)
	_, err := c.FrameSize(prefix)
	assert.ErrorIs(t, err, ErrTooManyParts)

	binary.LittleEndian.PutUint32(prefix[4:], 2)
	_, err = c.DecodeBinary(append(prefix, make([]byte, 16)...))
	assert.ErrorIs(t, err, ErrShortFrame)

	_, err = c.EncodeBinary(&Mesh{Parts: make([]MeshPart, 5)})
	assert.ErrorIs(t, err, ErrTooManyParts)
}

func TestMaterialIndex(t *testing.T) {
	idx := NewMaterialIndex([]string{"a", "b", "a"})

	i, ok := idx.Index("b")
	assert.True(t, ok)
	assert.Equal(t, uint8(1), i)

	i, ok = idx.Index("a")
	assert.True(t, ok)
	assert.Equal(t, uint8(0), i, "first occurrence wins")

	name, ok := idx.Name(2)
	assert.True(t, ok)
	assert.Equal(t, "a", name)

	_, ok = idx.Name(3)
	assert.False(t, ok)
}
