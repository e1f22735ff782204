package target

// faceBands lists the face colors from the centre outwards.
var faceBands = []string{
	"#F5C518", // gold
	"#E53935", // red
	"#1E88E5", // blue
	"#212121", // black
	"#F5F5F5", // white
}

// RingColors returns one color per ring ordered from the outermost ring to
// the innermost. Each color band covers an equal share of the rings.
func RingColors(rings int) []string {
	if rings <= 0 {
		return nil
	}
	out := make([]string, rings)
	for k := 0; k < rings; k++ {
		band := k * len(faceBands) / rings
		out[rings-1-k] = faceBands[band]
	}
	return out
}

// RingColor returns the color of ring idx counted from the centre.
func RingColor(rings, idx int) string {
	if rings <= 0 || idx < 0 || idx >= rings {
		return ""
	}
	return faceBands[idx*len(faceBands)/rings]
}
