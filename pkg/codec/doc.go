// Package codec provides record serialization and deserialization for dbc
// containers.
//
// Every container holds records of a single schema. Each schema has a Codec
// that moves a record between three forms: a fixed layout binary frame, a
// run of text lines, and the in-memory Record.
//
// # Schemas
//
//   - Material: 52 byte frames, one text line per record, keyed by name.
//   - Mesh: an 8 byte prefix plus 16 bytes per part (at most 4), a [id]
//     block in text, keyed by numeric id.
//   - Effect: a 66 byte header plus 16 bytes per frame (at most 0x0FFF), a
//     [title] block in text, keyed by title.
//
// All numbers are little-endian, except Material colours which are stored
// byte by byte as A, R, G, B. String fields are 32 bytes of GB18030 text
// padded with NUL bytes.
//
// # Text form
//
// Text records are key=value lines. Keys of sub-records carry the part
// index ("EffectId0", "Asb1") but readers accept them without it. Optional
// fields are left out when they hold their default value:
//
//	[IceRay01_Atk1]
//	Amount=1
//	EffectId0=50974
//	TextureId0=50974
//	Scale0=51
//	ASB0=5
//	ADB0=2
//	ZBuffer0=1
//	Delay=0
//	LoopTime=1
//	FrameInterval=33
//	LoopInterval=0
//	OffsetX=0
//	OffsetY=0
//	OffsetZ=0
//	Lev=2
//
// # Usage
//
//	c := codec.NewEffectCodec()
//
//	frame, err := c.EncodeBinary(effect)
//	if err != nil {
//	    return err
//	}
//
//	rec, err := c.DecodeBinary(frame)
//	if err != nil {
//	    return err
//	}
//
// # Error Handling
//
// Decoders return two kinds of error. A *RecordError is fatal: the record
// (and the container load driving it) cannot continue. A *LineError, which
// only the Material text decoder produces, marks a single unusable line;
// IsSkippable tells the two apart.
//
// # Thread Safety
//
// Codecs hold no mutable state and are safe for concurrent use. A
// MaterialIndex must not be modified while a MeshCodec uses it.
package codec
