package codec

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"

	"github.com/ssargent/dbckit/pkg/ini"
)

// MaterialSize is the length of one binary Material frame.
const MaterialSize = 52

// Material is a named set of lighting colours.
type Material struct {
	Annotation `yaml:",inline"`
	Name       string  `json:"name" yaml:"name"`
	Diffuse    Color   `json:"diffuse" yaml:"diffuse"`
	Ambient    Color   `json:"ambient" yaml:"ambient"`
	Specular   Color   `json:"specular" yaml:"specular"`
	Emissive   Color   `json:"emissive" yaml:"emissive"`
	Power      float32 `json:"power" yaml:"power"`
}

// NewMaterial returns a material with white diffuse, ambient and specular
// light and no emission.
func NewMaterial(name string) *Material {
	return &Material{
		Name:     name,
		Diffuse:  White,
		Ambient:  White,
		Specular: White,
	}
}

func (m *Material) Key() Key {
	return NameKey(m.Name)
}

// MaterialCodec encodes Material records.
//
// Binary frame:
//
//	[Name(32)][Diffuse(4)][Ambient(4)][Specular(4)][Emissive(4)][Power(4)]
//
// Colours are stored A, R, G, B. The text form is one line per record:
//
//	name AARRGGBB AARRGGBB AARRGGBB AARRGGBB power
type MaterialCodec struct{}

// NewMaterialCodec creates a new material codec instance
func NewMaterialCodec() *MaterialCodec {
	return &MaterialCodec{}
}

func (c *MaterialCodec) PrefixSize() int {
	return MaterialSize
}

func (c *MaterialCodec) FrameSize(prefix []byte) (int, error) {
	return MaterialSize, nil
}

func (c *MaterialCodec) DecodeBinary(frame []byte) (Record, error) {
	if len(frame) < MaterialSize {
		return nil, frameError(len(frame), ErrShortFrame, "material needs %d bytes, got %d", MaterialSize, len(frame))
	}

	name, err := getString(frame[0:NameSize])
	if err != nil {
		return nil, frameError(0, ErrBadField, "name: %v", err)
	}

	return &Material{
		Name:     name,
		Diffuse:  Color(binary.BigEndian.Uint32(frame[32:36])),
		Ambient:  Color(binary.BigEndian.Uint32(frame[36:40])),
		Specular: Color(binary.BigEndian.Uint32(frame[40:44])),
		Emissive: Color(binary.BigEndian.Uint32(frame[44:48])),
		Power:    math.Float32frombits(binary.LittleEndian.Uint32(frame[48:52])),
	}, nil
}

func (c *MaterialCodec) EncodeBinary(r Record) ([]byte, error) {
	m, ok := r.(*Material)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrWrongRecord, r)
	}

	buf := make([]byte, MaterialSize)
	if err := putString(buf[0:NameSize], m.Name); err != nil {
		return nil, err
	}
	binary.BigEndian.PutUint32(buf[32:], uint32(m.Diffuse))
	binary.BigEndian.PutUint32(buf[36:], uint32(m.Ambient))
	binary.BigEndian.PutUint32(buf[40:], uint32(m.Specular))
	binary.BigEndian.PutUint32(buf[44:], uint32(m.Emissive))
	binary.LittleEndian.PutUint32(buf[48:], math.Float32bits(m.Power))

	return buf, nil
}

// DecodeText decodes the single line at lines[start]. Malformed lines are
// reported as *LineError so the caller can drop them and go on.
func (c *MaterialCodec) DecodeText(lines []string, start int) (Record, int, error) {
	if start >= len(lines) {
		return nil, start, textError(start, ErrTooFewLines, "no material line")
	}
	next := start + 1

	fields := strings.Fields(lines[start])
	if len(fields) != 6 {
		return nil, next, &LineError{Line: start, Err: ErrBadField, Detail: fmt.Sprintf("want 6 fields, got %d", len(fields))}
	}

	m := &Material{Name: fields[0]}
	colors := []*Color{&m.Diffuse, &m.Ambient, &m.Specular, &m.Emissive}
	for i, dst := range colors {
		v, err := ParseColor(fields[1+i])
		if err != nil {
			return nil, next, &LineError{Line: start, Err: ErrBadField, Detail: err.Error()}
		}
		*dst = v
	}

	power, err := parseFloat(fields[5])
	if err != nil {
		return nil, next, &LineError{Line: start, Err: ErrBadField, Detail: fmt.Sprintf("power %q: %v", fields[5], err)}
	}
	m.Power = power

	return m, next, nil
}

func (c *MaterialCodec) EncodeText(r Record) ([]string, error) {
	m, ok := r.(*Material)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrWrongRecord, r)
	}
	if m.Name == "" || strings.ContainsAny(m.Name, " \t") {
		return nil, fmt.Errorf("%w: material name %q cannot be written as text", ErrBadField, m.Name)
	}

	lines := ini.Comment(m.Comment())
	return append(lines, fmt.Sprintf("%s %s %s %s %s %s",
		m.Name, m.Diffuse, m.Ambient, m.Specular, m.Emissive, formatFloat(m.Power))), nil
}
