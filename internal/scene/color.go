package scene

// RGB is an 8-bit per channel colour.
type RGB struct {
	R, G, B uint8
}

// Hex builds an RGB from a 0xRRGGBB literal.
func Hex(v uint32) RGB {
	return RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}
}

func (c RGB) Mul(k uint8) RGB {
	return RGB{
		R: uint8((uint16(c.R) * uint16(k)) / 255),
		G: uint8((uint16(c.G) * uint16(k)) / 255),
		B: uint8((uint16(c.B) * uint16(k)) / 255),
	}
}

func (c RGB) Add(dr, dg, db int) RGB {
	return RGB{R: addU8(c.R, dr), G: addU8(c.G, dg), B: addU8(c.B, db)}
}

func addU8(v uint8, d int) uint8 {
	n := int(v) + d
	if n < 0 {
		return 0
	}
	if n > 255 {
		return 255
	}
	return uint8(n)
}

// Floats returns the channels normalised to [0, 1].
func (c RGB) Floats() (r, g, b float32) {
	return float32(c.R) / 255.0, float32(c.G) / 255.0, float32(c.B) / 255.0
}

var (
	White = RGB{R: 255, G: 255, B: 255}
	Black = RGB{}
)
