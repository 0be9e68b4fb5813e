package codec

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/ssargent/dbckit/pkg/ini"
)

const (
	// MaxEffectFrames is the most parts a single Effect record may hold.
	MaxEffectFrames = 0x0FFF

	effectPrefixSize = 34
	effectHeaderSize = 66
	effectPartSize   = 16

	// required lines per part and after the parts in text form
	effectPartLines  = 4
	effectTrailLines = 7

	defaultLevel = 1
)

// EffectPart is one frame of an effect animation.
type EffectPart struct {
	EffectID  uint32    `json:"effect_id" yaml:"effect_id"`
	TextureID uint32    `json:"texture_id" yaml:"texture_id"`
	Scale     float32   `json:"scale" yaml:"scale"`
	Asb       BlendMode `json:"asb" yaml:"asb"`
	Adb       BlendMode `json:"adb" yaml:"adb"`
	ZBuffer   uint8     `json:"zbuffer" yaml:"zbuffer"`
	Billboard uint8     `json:"billboard" yaml:"billboard"`
}

// NewEffectPart returns an unscaled frame with source alpha blending.
func NewEffectPart() EffectPart {
	return EffectPart{
		Scale: 1,
		Asb:   BlendSrcAlpha,
		Adb:   BlendInvSrcAlpha,
	}
}

// Effect is a looping particle animation. The frame count is len(Parts).
type Effect struct {
	Annotation    `yaml:",inline"`
	Title         string       `json:"title" yaml:"title"`
	Parts         []EffectPart `json:"parts" yaml:"parts"`
	Delay         uint32       `json:"delay" yaml:"delay"`
	LoopTime      uint32       `json:"loop_time" yaml:"loop_time"`
	FrameInterval uint32       `json:"frame_interval" yaml:"frame_interval"`
	LoopInterval  uint32       `json:"loop_interval" yaml:"loop_interval"`
	OffsetX       float32      `json:"offset_x" yaml:"offset_x"`
	OffsetY       float32      `json:"offset_y" yaml:"offset_y"`
	OffsetZ       float32      `json:"offset_z" yaml:"offset_z"`
	Billboard     uint8        `json:"billboard" yaml:"billboard"`
	ColorEnable   ColorMode    `json:"color_enable" yaml:"color_enable"`
	Level         uint8        `json:"level" yaml:"level"`
	Reserved      uint8        `json:"reserved" yaml:"reserved"`
}

// NewEffect returns an effect with no frames, looping once at 33ms per
// frame with priority level 1.
func NewEffect(title string) *Effect {
	return &Effect{
		Title:         title,
		LoopTime:      1,
		FrameInterval: 33,
		Level:         defaultLevel,
	}
}

func (e *Effect) Key() Key {
	return NameKey(e.Title)
}

// EffectCodec encodes Effect records.
//
// Binary frame:
//
//	[Title(32)][Frames(2)][Delay(4)][LoopTime(4)][FrameInterval(4)][LoopInterval(4)]
//	[OffsetX(4)][OffsetY(4)][OffsetZ(4)][Billboard(1)][ColorEnable(1)][Level(1)][Reserved(1)]
//	then per part
//	[EffectId(4)][TextureId(4)][Scale(4)][Asb(1)][Adb(1)][ZBuffer(1)][Billboard(1)]
//
// In text form Scale is a percentage. Optional fields at their default are
// left out when writing.
type EffectCodec struct{}

// NewEffectCodec creates a new effect codec instance
func NewEffectCodec() *EffectCodec {
	return &EffectCodec{}
}

func (c *EffectCodec) PrefixSize() int {
	return effectPrefixSize
}

func (c *EffectCodec) FrameSize(prefix []byte) (int, error) {
	if len(prefix) < effectPrefixSize {
		return 0, frameError(len(prefix), ErrShortFrame, "effect prefix needs %d bytes", effectPrefixSize)
	}
	n := binary.LittleEndian.Uint16(prefix[32:34])
	if n > MaxEffectFrames {
		return 0, frameError(32, ErrTooManyParts, "effect declares %d frames, max %d", n, MaxEffectFrames)
	}
	return effectHeaderSize + effectPartSize*int(n), nil
}

func (c *EffectCodec) DecodeBinary(frame []byte) (Record, error) {
	size, err := c.FrameSize(frame)
	if err != nil {
		return nil, err
	}
	if len(frame) < size {
		return nil, frameError(len(frame), ErrShortFrame, "effect needs %d bytes, got %d", size, len(frame))
	}

	title, err := getString(frame[0:NameSize])
	if err != nil {
		return nil, frameError(0, ErrBadField, "title: %v", err)
	}

	le := binary.LittleEndian
	e := &Effect{
		Title:         title,
		Delay:         le.Uint32(frame[34:]),
		LoopTime:      le.Uint32(frame[38:]),
		FrameInterval: le.Uint32(frame[42:]),
		LoopInterval:  le.Uint32(frame[46:]),
		OffsetX:       math.Float32frombits(le.Uint32(frame[50:])),
		OffsetY:       math.Float32frombits(le.Uint32(frame[54:])),
		OffsetZ:       math.Float32frombits(le.Uint32(frame[58:])),
		Billboard:     frame[62],
		ColorEnable:   ColorMode(frame[63]),
		Level:         frame[64],
		Reserved:      frame[65],
	}

	n := (size - effectHeaderSize) / effectPartSize
	e.Parts = make([]EffectPart, n)
	for i := range e.Parts {
		b := frame[effectHeaderSize+i*effectPartSize:]
		e.Parts[i] = EffectPart{
			EffectID:  le.Uint32(b[0:]),
			TextureID: le.Uint32(b[4:]),
			Scale:     math.Float32frombits(le.Uint32(b[8:])),
			Asb:       BlendMode(b[12]),
			Adb:       BlendMode(b[13]),
			ZBuffer:   b[14],
			Billboard: b[15],
		}
	}
	return e, nil
}

func (c *EffectCodec) EncodeBinary(r Record) ([]byte, error) {
	e, ok := r.(*Effect)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrWrongRecord, r)
	}
	if len(e.Parts) > MaxEffectFrames {
		return nil, fmt.Errorf("%w: effect %q has %d frames", ErrTooManyParts, e.Title, len(e.Parts))
	}

	buf := make([]byte, effectHeaderSize+effectPartSize*len(e.Parts))
	if err := putString(buf[0:NameSize], e.Title); err != nil {
		return nil, err
	}

	le := binary.LittleEndian
	le.PutUint16(buf[32:], uint16(len(e.Parts)))
	le.PutUint32(buf[34:], e.Delay)
	le.PutUint32(buf[38:], e.LoopTime)
	le.PutUint32(buf[42:], e.FrameInterval)
	le.PutUint32(buf[46:], e.LoopInterval)
	le.PutUint32(buf[50:], math.Float32bits(e.OffsetX))
	le.PutUint32(buf[54:], math.Float32bits(e.OffsetY))
	le.PutUint32(buf[58:], math.Float32bits(e.OffsetZ))
	buf[62] = e.Billboard
	buf[63] = byte(e.ColorEnable)
	buf[64] = e.Level
	buf[65] = e.Reserved

	for i, p := range e.Parts {
		b := buf[effectHeaderSize+i*effectPartSize:]
		le.PutUint32(b[0:], p.EffectID)
		le.PutUint32(b[4:], p.TextureID)
		le.PutUint32(b[8:], math.Float32bits(p.Scale))
		b[12] = byte(p.Asb)
		b[13] = byte(p.Adb)
		b[14] = p.ZBuffer
		b[15] = p.Billboard
	}
	return buf, nil
}

func (c *EffectCodec) DecodeText(lines []string, start int) (Record, int, error) {
	cur := &cursor{lines: lines, pos: start}
	if cur.remaining() < 2 {
		return nil, start, textError(start, ErrTooFewLines, "effect header needs 2 lines, %d left", cur.remaining())
	}

	title, ok := bracket(lines[start])
	if !ok {
		return nil, start, textError(start, ErrBadField, "expected [title], found %q", lines[start])
	}
	cur.pos++

	n, err := cur.readUint32("Amount")
	if err != nil {
		return nil, start, err
	}
	if n > MaxEffectFrames {
		return nil, start, textError(cur.pos-1, ErrTooManyParts, "effect %q declares %d frames, max %d", title, n, MaxEffectFrames)
	}
	if need := effectPartLines*int(n) + effectTrailLines; cur.remaining() < need {
		return nil, start, textError(cur.pos, ErrTooFewLines, "effect %q needs %d lines, %d left", title, need, cur.remaining())
	}

	e := &Effect{Title: title, Parts: make([]EffectPart, n)}
	for i := range e.Parts {
		if e.Parts[i], err = decodeEffectPart(cur); err != nil {
			return nil, start, err
		}
	}

	if e.Delay, err = cur.readUint32("Delay"); err != nil {
		return nil, start, err
	}
	if e.LoopTime, err = cur.readUint32("LoopTime"); err != nil {
		return nil, start, err
	}
	if e.FrameInterval, err = cur.readUint32("FrameInterval"); err != nil {
		return nil, start, err
	}
	if e.LoopInterval, err = cur.readUint32("LoopInterval"); err != nil {
		return nil, start, err
	}
	if e.OffsetX, err = cur.readFloat32("OffsetX"); err != nil {
		return nil, start, err
	}
	if e.OffsetY, err = cur.readFloat32("OffsetY"); err != nil {
		return nil, start, err
	}
	if e.OffsetZ, err = cur.readFloat32("OffsetZ"); err != nil {
		return nil, start, err
	}

	if e.Billboard, err = cur.optUint8("Billboard", 0); err != nil {
		return nil, start, err
	}
	color, err := cur.optUint8("ColorEnable", uint8(ColorNormal))
	if err != nil {
		return nil, start, err
	}
	e.ColorEnable = ColorMode(color)
	if e.Level, err = cur.optUint8("Lev", defaultLevel); err != nil {
		return nil, start, err
	}
	// the reserved byte follows under any key; Unknown is what we write
	if e.Reserved, err = cur.anyUint8(0); err != nil {
		return nil, start, err
	}

	return e, cur.pos, nil
}

func decodeEffectPart(cur *cursor) (EffectPart, error) {
	p := EffectPart{Scale: 1}
	var err error

	if p.EffectID, err = cur.readUint32("EffectId"); err != nil {
		return p, err
	}
	if p.TextureID, err = cur.readUint32("TextureId"); err != nil {
		return p, err
	}
	if cur.has("Scale") {
		v, _ := cur.value("Scale")
		if p.Scale, err = parsePercent(v); err != nil {
			return p, textError(cur.pos-1, ErrBadField, "Scale=%q: %v", v, err)
		}
	}
	asb, err := cur.readUint8("ASB")
	if err != nil {
		return p, err
	}
	adb, err := cur.readUint8("ADB")
	if err != nil {
		return p, err
	}
	p.Asb, p.Adb = BlendMode(asb), BlendMode(adb)
	if p.ZBuffer, err = cur.optUint8("ZBuffer", 0); err != nil {
		return p, err
	}
	// the record level Billboard only follows OffsetZ, so one here is the part's
	if p.Billboard, err = cur.optUint8("Billboard", 0); err != nil {
		return p, err
	}
	return p, nil
}

func (c *EffectCodec) EncodeText(r Record) ([]string, error) {
	e, ok := r.(*Effect)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrWrongRecord, r)
	}
	if len(e.Parts) > MaxEffectFrames {
		return nil, fmt.Errorf("%w: effect %q has %d frames", ErrTooManyParts, e.Title, len(e.Parts))
	}

	lines := ini.Comment(e.Comment())
	lines = append(lines,
		"["+e.Title+"]",
		kv("Amount", -1, len(e.Parts)),
	)
	for i, p := range e.Parts {
		lines = append(lines,
			kv("EffectId", i, p.EffectID),
			kv("TextureId", i, p.TextureID),
		)
		if p.Scale != 1 {
			lines = append(lines, kv("Scale", i, formatPercent(p.Scale)))
		}
		lines = append(lines,
			kv("ASB", i, uint8(p.Asb)),
			kv("ADB", i, uint8(p.Adb)),
		)
		if p.ZBuffer != 0 {
			lines = append(lines, kv("ZBuffer", i, p.ZBuffer))
		}
		if p.Billboard != 0 {
			lines = append(lines, kv("Billboard", i, p.Billboard))
		}
	}

	lines = append(lines,
		kv("Delay", -1, e.Delay),
		kv("LoopTime", -1, e.LoopTime),
		kv("FrameInterval", -1, e.FrameInterval),
		kv("LoopInterval", -1, e.LoopInterval),
		kv("OffsetX", -1, formatFloat(e.OffsetX)),
		kv("OffsetY", -1, formatFloat(e.OffsetY)),
		kv("OffsetZ", -1, formatFloat(e.OffsetZ)),
	)
	if e.Billboard != 0 {
		lines = append(lines, kv("Billboard", -1, e.Billboard))
	}
	if e.ColorEnable != ColorNormal {
		lines = append(lines, kv("ColorEnable", -1, uint8(e.ColorEnable)))
	}
	if e.Level != defaultLevel {
		lines = append(lines, kv("Lev", -1, e.Level))
	}
	if e.Reserved != 0 {
		lines = append(lines, kv("Unknown", -1, e.Reserved))
	}
	return lines, nil
}
