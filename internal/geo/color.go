package geo

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// RGB is an 8-bit per channel colour.
type RGB struct {
	R, G, B uint8
}

var (
	White = RGB{255, 255, 255}
	Blue  = RGB{0, 0, 255}
	Red   = RGB{255, 0, 0}
)

func (c RGB) colorful() colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

func fromColorful(c colorful.Color) RGB {
	r, g, b := c.RGB255()
	return RGB{r, g, b}
}

// Hex formats the colour as "#rrggbb".
func (c RGB) Hex() string { return c.colorful().Hex() }

// CSS formats the colour as "rgb(r, g, b)".
func (c RGB) CSS() string { return fmt.Sprintf("rgb(%d, %d, %d)", c.R, c.G, c.B) }

func (c RGB) MarshalText() ([]byte, error) { return []byte(c.Hex()), nil }

func (c *RGB) UnmarshalText(text []byte) error {
	parsed, err := ParseHex(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseHex parses "#rrggbb".
func ParseHex(s string) (RGB, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return RGB{}, fmt.Errorf("parsing colour %q: %w", s, err)
	}
	return fromColorful(c), nil
}

// MustParseHex is ParseHex for package-level palettes; it panics on bad input.
func MustParseHex(s string) RGB {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// ProximityToColor maps proximity onto a white -> blue -> red gradient:
// 0 is white, 0.5 is blue and 1 is red. Each half is a linear blend per
// channel. Values outside [0, 1] are not clamped.
func ProximityToColor(proximity float64) RGB {
	if proximity < 0.5 {
		return fromColorful(White.colorful().BlendRgb(Blue.colorful(), proximity/0.5))
	}
	return fromColorful(Blue.colorful().BlendRgb(Red.colorful(), (proximity-0.5)/0.5))
}
