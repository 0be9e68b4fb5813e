package dbc

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// Schema identifies the record type a container holds.
type Schema int

const (
	SchemaUndefined Schema = iota
	SchemaUnsupported
	SchemaMaterial
	SchemaMesh
	SchemaEffect
	SchemaResourceStrings
	SchemaSimpleObject
	SchemaSimpleObjectExt
	SchemaEmotionIcon
	SchemaRoleParts
)

var schemaNames = map[Schema]string{
	SchemaUndefined:       "undefined",
	SchemaUnsupported:     "unsupported",
	SchemaMaterial:        "material",
	SchemaMesh:            "mesh",
	SchemaEffect:          "effect",
	SchemaResourceStrings: "resource-strings",
	SchemaSimpleObject:    "simple-object",
	SchemaSimpleObjectExt: "simple-object-ext",
	SchemaEmotionIcon:     "emotion-icon",
	SchemaRoleParts:       "role-parts",
}

var schemaMagics = map[Schema]string{
	SchemaMaterial:        "MATR",
	SchemaMesh:            "MESH",
	SchemaEffect:          "EFFE",
	SchemaResourceStrings: "RSDB",
	SchemaSimpleObject:    "SIMO",
	SchemaSimpleObjectExt: "SIMX",
	SchemaEmotionIcon:     "EMOI",
	SchemaRoleParts:       "ROPT",
}

func (s Schema) String() string {
	if n, ok := schemaNames[s]; ok {
		return n
	}
	return fmt.Sprintf("schema(%d)", int(s))
}

func (s Schema) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Magic returns the four byte tag that starts binary containers of s.
func (s Schema) Magic() ([]byte, bool) {
	m, ok := schemaMagics[s]
	if !ok {
		return nil, false
	}
	return []byte(m), true
}

// MagicValue returns the tag as the little-endian word it reads as on disk.
func (s Schema) MagicValue() (uint32, bool) {
	m, ok := s.Magic()
	if !ok {
		return 0, false
	}
	return binary.LittleEndian.Uint32(m), true
}

// SchemaFromMagic maps a four byte tag to its schema.
func SchemaFromMagic(tag []byte) (Schema, bool) {
	if len(tag) < 4 {
		return SchemaUndefined, false
	}
	for s, m := range schemaMagics {
		if string(tag[:4]) == m {
			return s, true
		}
	}
	return SchemaUndefined, false
}

// ParseSchema parses a schema name as printed by String.
func ParseSchema(name string) (Schema, error) {
	for s, n := range schemaNames {
		if strings.EqualFold(name, n) {
			return s, nil
		}
	}
	return SchemaUndefined, fmt.Errorf("unknown schema %q", name)
}

// Format is the on-disk representation of a container.
type Format int

const (
	Binary Format = iota
	Text
)

func (f Format) String() string {
	if f == Text {
		return "text"
	}
	return "binary"
}

func (f Format) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// ParseFormat parses "text" or "binary".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "binary", "bin", "dbc":
		return Binary, nil
	case "text", "txt", "ini":
		return Text, nil
	}
	return Binary, fmt.Errorf("unknown format %q", s)
}
