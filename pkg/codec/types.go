package codec

import (
	"fmt"
	"strconv"
)

// BlendMode is a Direct3D blend factor as stored in the ASB and ADB fields.
type BlendMode uint8

const (
	BlendZero         BlendMode = 1
	BlendOne          BlendMode = 2
	BlendSrcColor     BlendMode = 3
	BlendInvSrcColor  BlendMode = 4
	BlendSrcAlpha     BlendMode = 5
	BlendInvSrcAlpha  BlendMode = 6
	BlendDestAlpha    BlendMode = 7
	BlendInvDestAlpha BlendMode = 8
	BlendDestColor    BlendMode = 9
	BlendInvDestColor BlendMode = 10
)

var blendNames = map[BlendMode]string{
	BlendZero:         "zero",
	BlendOne:          "one",
	BlendSrcColor:     "src-color",
	BlendInvSrcColor:  "inv-src-color",
	BlendSrcAlpha:     "src-alpha",
	BlendInvSrcAlpha:  "inv-src-alpha",
	BlendDestAlpha:    "dest-alpha",
	BlendInvDestAlpha: "inv-dest-alpha",
	BlendDestColor:    "dest-color",
	BlendInvDestColor: "inv-dest-color",
}

// String returns the factor's name, or its number when it is not a known
// factor. Unknown values are kept as-is by every codec.
func (b BlendMode) String() string {
	if n, ok := blendNames[b]; ok {
		return n
	}
	return strconv.Itoa(int(b))
}

// ColorMode selects how an effect is coloured.
type ColorMode uint8

const (
	ColorNormal ColorMode = 0
	ColorLight  ColorMode = 1
)

func (m ColorMode) String() string {
	switch m {
	case ColorNormal:
		return "normal"
	case ColorLight:
		return "light"
	}
	return strconv.Itoa(int(m))
}

// Color is a packed 0xAARRGGBB value.
type Color uint32

// White is the default diffuse, ambient and specular colour.
const White Color = 0xFFFFFFFF

func ARGB(a, r, g, b uint8) Color {
	return Color(uint32(a)<<24 | uint32(r)<<16 | uint32(g)<<8 | uint32(b))
}

func (c Color) A() uint8 { return uint8(c >> 24) }
func (c Color) R() uint8 { return uint8(c >> 16) }
func (c Color) G() uint8 { return uint8(c >> 8) }
func (c Color) B() uint8 { return uint8(c) }

// String returns the eight hex digit form used in text files.
func (c Color) String() string {
	return fmt.Sprintf("%08X", uint32(c))
}

// ParseColor parses the eight hex digit AARRGGBB form.
func ParseColor(s string) (Color, error) {
	n, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("color %q: %w", s, err)
	}
	return Color(n), nil
}

func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Color) UnmarshalText(text []byte) error {
	v, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = v
	return nil
}
