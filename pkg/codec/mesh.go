package codec

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	"github.com/ssargent/dbckit/pkg/ini"
)

const (
	// MaxMeshParts is the most parts a single Mesh record may hold.
	MaxMeshParts = 4

	meshPrefixSize = 8
	meshPartSize   = 16

	// lines per part in text form, MixOpt excluded
	meshPartLines = 6
)

// MeshPart is one textured mesh of a Mesh record.
type MeshPart struct {
	Mesh     uint32    `json:"mesh" yaml:"mesh"`
	Texture  uint32    `json:"texture" yaml:"texture"`
	MixTex   uint32    `json:"mix_tex" yaml:"mix_tex"`
	MixOpt   uint8     `json:"mix_opt" yaml:"mix_opt"`
	Asb      BlendMode `json:"asb" yaml:"asb"`
	Adb      BlendMode `json:"adb" yaml:"adb"`
	Material string    `json:"material" yaml:"material"`
}

// NewMeshPart returns a part blending source alpha over inverse source
// alpha with the default material.
func NewMeshPart() MeshPart {
	return MeshPart{
		Asb:      BlendSrcAlpha,
		Adb:      BlendInvSrcAlpha,
		Material: "default",
	}
}

// Mesh lists the parts of one model.
type Mesh struct {
	Annotation `yaml:",inline"`
	ID         uint32     `json:"id" yaml:"id"`
	Parts      []MeshPart `json:"parts" yaml:"parts"`
}

func (m *Mesh) Key() Key {
	return IDKey(m.ID)
}

// MaterialTable maps material names to the one byte index binary Mesh
// frames store. Indices follow the order of a Material container.
type MaterialTable interface {
	Index(name string) (uint8, bool)
	Name(index uint8) (string, bool)
}

// MaterialIndex is a MaterialTable over an ordered list of names.
type MaterialIndex struct {
	names []string
	index map[string]uint8
}

// NewMaterialIndex indexes names by position. Only the first 256 names are
// addressable; a repeated name keeps its first index.
func NewMaterialIndex(names []string) *MaterialIndex {
	if len(names) > 256 {
		names = names[:256]
	}
	idx := &MaterialIndex{
		names: append([]string(nil), names...),
		index: make(map[string]uint8, len(names)),
	}
	for i, n := range idx.names {
		if _, dup := idx.index[n]; !dup {
			idx.index[n] = uint8(i)
		}
	}
	return idx
}

func (t *MaterialIndex) Index(name string) (uint8, bool) {
	i, ok := t.index[name]
	return i, ok
}

func (t *MaterialIndex) Name(index uint8) (string, bool) {
	if int(index) >= len(t.names) {
		return "", false
	}
	return t.names[index], true
}

const materialPlaceholder = "Material"

// MeshCodec encodes Mesh records.
//
// Binary frame:
//
//	[ID(4)][PartCount(4)] then per part
//	[Mesh(4)][Texture(4)][MixTex(4)][MixOpt(1)][Asb(1)][Adb(1)][MaterialIndex(1)]
//
// Text form:
//
//	[id]
//	Part=n
//	Mesh0=  Texture0=  MixTex0=  MixOpt0= (optional)  Asb0=  Adb0=  Material0=
type MeshCodec struct {
	materials MaterialTable
}

// NewMeshCodec creates a mesh codec resolving material names through
// materials. A nil table writes names as "Material<n>".
func NewMeshCodec(materials MaterialTable) *MeshCodec {
	return &MeshCodec{materials: materials}
}

func (c *MeshCodec) PrefixSize() int {
	return meshPrefixSize
}

func (c *MeshCodec) FrameSize(prefix []byte) (int, error) {
	if len(prefix) < meshPrefixSize {
		return 0, frameError(len(prefix), ErrShortFrame, "mesh prefix needs %d bytes", meshPrefixSize)
	}
	n := binary.LittleEndian.Uint32(prefix[4:8])
	if n > MaxMeshParts {
		return 0, frameError(4, ErrTooManyParts, "mesh %d declares %d parts, max %d",
			binary.LittleEndian.Uint32(prefix[0:4]), n, MaxMeshParts)
	}
	return meshPrefixSize + meshPartSize*int(n), nil
}

func (c *MeshCodec) DecodeBinary(frame []byte) (Record, error) {
	size, err := c.FrameSize(frame)
	if err != nil {
		return nil, err
	}
	if len(frame) < size {
		return nil, frameError(len(frame), ErrShortFrame, "mesh needs %d bytes, got %d", size, len(frame))
	}

	m := &Mesh{ID: binary.LittleEndian.Uint32(frame[0:4])}
	n := (size - meshPrefixSize) / meshPartSize
	m.Parts = make([]MeshPart, n)
	for i := range m.Parts {
		b := frame[meshPrefixSize+i*meshPartSize:]
		m.Parts[i] = MeshPart{
			Mesh:     binary.LittleEndian.Uint32(b[0:4]),
			Texture:  binary.LittleEndian.Uint32(b[4:8]),
			MixTex:   binary.LittleEndian.Uint32(b[8:12]),
			MixOpt:   b[12],
			Asb:      BlendMode(b[13]),
			Adb:      BlendMode(b[14]),
			Material: c.materialName(b[15]),
		}
	}
	return m, nil
}

func (c *MeshCodec) EncodeBinary(r Record) ([]byte, error) {
	m, ok := r.(*Mesh)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrWrongRecord, r)
	}
	if len(m.Parts) > MaxMeshParts {
		return nil, fmt.Errorf("%w: mesh %d has %d parts", ErrTooManyParts, m.ID, len(m.Parts))
	}

	buf := make([]byte, meshPrefixSize+meshPartSize*len(m.Parts))
	binary.LittleEndian.PutUint32(buf[0:], m.ID)
	binary.LittleEndian.PutUint32(buf[4:], uint32(len(m.Parts)))
	for i, p := range m.Parts {
		b := buf[meshPrefixSize+i*meshPartSize:]
		binary.LittleEndian.PutUint32(b[0:], p.Mesh)
		binary.LittleEndian.PutUint32(b[4:], p.Texture)
		binary.LittleEndian.PutUint32(b[8:], p.MixTex)
		b[12] = p.MixOpt
		b[13] = byte(p.Asb)
		b[14] = byte(p.Adb)
		b[15] = c.materialIndex(p.Material)
	}
	return buf, nil
}

func (c *MeshCodec) materialName(idx uint8) string {
	if c.materials != nil {
		if name, ok := c.materials.Name(idx); ok {
			return name
		}
	}
	return materialPlaceholder + strconv.Itoa(int(idx))
}

func (c *MeshCodec) materialIndex(name string) uint8 {
	if c.materials != nil {
		if idx, ok := c.materials.Index(name); ok {
			return idx
		}
	}
	if rest, ok := strings.CutPrefix(name, materialPlaceholder); ok {
		if n, err := strconv.ParseUint(rest, 10, 8); err == nil {
			return uint8(n)
		}
	}
	return 0
}

func (c *MeshCodec) DecodeText(lines []string, start int) (Record, int, error) {
	cur := &cursor{lines: lines, pos: start}
	if cur.remaining() < 2 {
		return nil, start, textError(start, ErrTooFewLines, "mesh header needs 2 lines, %d left", cur.remaining())
	}

	title, ok := bracket(lines[start])
	if !ok {
		return nil, start, textError(start, ErrBadField, "expected [id], found %q", lines[start])
	}
	id, err := strconv.ParseUint(strings.TrimSpace(title), 10, 32)
	if err != nil {
		return nil, start, textError(start, ErrBadField, "mesh id %q: %v", title, err)
	}
	cur.pos++

	n, err := cur.readUint32("Part")
	if err != nil {
		return nil, start, err
	}
	if n > MaxMeshParts {
		return nil, start, textError(cur.pos-1, ErrTooManyParts, "mesh %d declares %d parts, max %d", id, n, MaxMeshParts)
	}
	if need := meshPartLines * int(n); cur.remaining() < need {
		return nil, start, textError(cur.pos, ErrTooFewLines, "mesh %d needs %d lines, %d left", id, need, cur.remaining())
	}

	m := &Mesh{ID: uint32(id), Parts: make([]MeshPart, n)}
	for i := range m.Parts {
		p := &m.Parts[i]
		if p.Mesh, err = cur.readUint32("Mesh"); err != nil {
			return nil, start, err
		}
		if p.Texture, err = cur.readUint32("Texture"); err != nil {
			return nil, start, err
		}
		if p.MixTex, err = cur.readUint32("MixTex"); err != nil {
			return nil, start, err
		}
		if p.MixOpt, err = cur.optUint8("MixOpt", 0); err != nil {
			return nil, start, err
		}
		asb, err := cur.readUint8("Asb")
		if err != nil {
			return nil, start, err
		}
		adb, err := cur.readUint8("Adb")
		if err != nil {
			return nil, start, err
		}
		p.Asb, p.Adb = BlendMode(asb), BlendMode(adb)
		if p.Material, err = cur.value("Material"); err != nil {
			return nil, start, err
		}
	}

	return m, cur.pos, nil
}

func (c *MeshCodec) EncodeText(r Record) ([]string, error) {
	m, ok := r.(*Mesh)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrWrongRecord, r)
	}
	if len(m.Parts) > MaxMeshParts {
		return nil, fmt.Errorf("%w: mesh %d has %d parts", ErrTooManyParts, m.ID, len(m.Parts))
	}

	lines := ini.Comment(m.Comment())
	lines = append(lines,
		fmt.Sprintf("[%d]", m.ID),
		kv("Part", -1, len(m.Parts)),
	)
	for i, p := range m.Parts {
		lines = append(lines,
			kv("Mesh", i, p.Mesh),
			kv("Texture", i, p.Texture),
			kv("MixTex", i, p.MixTex),
		)
		if p.MixOpt != 0 {
			lines = append(lines, kv("MixOpt", i, p.MixOpt))
		}
		lines = append(lines,
			kv("Asb", i, uint8(p.Asb)),
			kv("Adb", i, uint8(p.Adb)),
			kv("Material", i, p.Material),
		)
	}
	return lines, nil
}
