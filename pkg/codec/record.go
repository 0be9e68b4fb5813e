package codec

import (
	"strconv"
)

// Key identifies a record inside a container. Material and Effect records
// are keyed by name, Mesh records by numeric id.
type Key struct {
	ID   uint32
	Name string
}

// IDKey returns the key of a numerically keyed record.
func IDKey(id uint32) Key {
	return Key{ID: id}
}

// NameKey returns the key of a record keyed by its name.
func NameKey(name string) Key {
	return Key{Name: name}
}

func (k Key) String() string {
	if k.Name != "" {
		return k.Name
	}
	return strconv.FormatUint(uint64(k.ID), 10)
}

// Record is one entry of a container.
type Record interface {
	Key() Key
	// Comment returns the comment lines attached above the record, joined
	// with "\r\n", or "" when there are none.
	Comment() string
	SetComment(text string)
}

// Annotation carries the free-form comment authors attach to a record in
// text files. Record types embed it.
type Annotation struct {
	Text string `json:"comment,omitempty" yaml:"comment,omitempty"`
}

func (a *Annotation) Comment() string {
	return a.Text
}

func (a *Annotation) SetComment(text string) {
	a.Text = text
}

// Codec converts records of one schema between their binary frame, their
// text lines and the in-memory Record.
//
// Binary records are read in two steps: PrefixSize bytes first, from which
// FrameSize derives the length of the whole frame.
//
// DecodeText receives the data lines of a container with comments already
// removed and starts at lines[start]. It returns the index of the first
// line it did not consume. EncodeText writes the record's comment lines
// first, then its data lines.
type Codec interface {
	PrefixSize() int
	FrameSize(prefix []byte) (int, error)
	DecodeBinary(frame []byte) (Record, error)
	EncodeBinary(r Record) ([]byte, error)
	DecodeText(lines []string, start int) (Record, int, error)
	EncodeText(r Record) ([]string, error)
}
