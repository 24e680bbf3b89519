// Package palette holds the fixed color registries shared by both nodes.
//
// Scheme indexes are 1-based on the wire and in the selector; they are always
// clamped to [MinIndex, MaxIndex] and never wrap.
package palette

import "image/color"

const (
	MinIndex = 1
	MaxIndex = 25

	// Bands is the number of envelope bands and of colors in a band table.
	Bands = 7
)

var (
	Black    = rgb(0, 0, 0)
	White    = rgb(255, 255, 255)
	PalePink = rgb(255, 192, 203)
)

func rgb(r, g, b uint8) color.RGBA {
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// EyeScheme names the four color roles of an iris.
type EyeScheme struct {
	Name      string
	Outer     color.RGBA
	Inner     color.RGBA
	Pupil     color.RGBA
	Highlight color.RGBA
}

// BandTable maps each envelope band to its color on the mouth node.
type BandTable [Bands]color.RGBA

// Clamp pins a scheme index to the registry bounds.
func Clamp(index int) int {
	return max(MinIndex, min(MaxIndex, index))
}

// Valid reports whether index addresses a registry entry.
func Valid(index int) bool {
	return index >= MinIndex && index <= MaxIndex
}

// Eye returns the eye scheme for index, clamping out-of-range values.
func Eye(index int) EyeScheme {
	return eyeSchemes[Clamp(index)-1]
}

// Band returns the band table for index, clamping out-of-range values.
func Band(index int) BandTable {
	return bandTables[Clamp(index)-1]
}

// Scale multiplies each channel of c by ratio in [0, 1], fading it toward black.
func Scale(c color.RGBA, ratio float64) color.RGBA {
	ratio = max(0, min(1, ratio))
	return color.RGBA{
		R: uint8(float64(c.R) * ratio),
		G: uint8(float64(c.G) * ratio),
		B: uint8(float64(c.B) * ratio),
		A: 255,
	}
}

var eyeSchemes = [MaxIndex]EyeScheme{
	{Name: "Golden Eagle", Outer: rgb(255, 215, 0), Inner: rgb(80, 40, 0), Pupil: rgb(0, 0, 0), Highlight: rgb(255, 255, 255)},
	{Name: "Blue", Outer: rgb(0, 0, 255), Inner: rgb(100, 149, 237), Pupil: rgb(0, 0, 0), Highlight: rgb(173, 216, 230)},
	{Name: "Green", Outer: rgb(0, 255, 0), Inner: rgb(34, 139, 34), Pupil: rgb(0, 0, 0), Highlight: rgb(144, 238, 144)},
	{Name: "Red", Outer: rgb(255, 0, 0), Inner: rgb(178, 34, 34), Pupil: rgb(0, 0, 0), Highlight: rgb(255, 160, 122)},
	{Name: "Purple", Outer: rgb(128, 0, 128), Inner: rgb(147, 112, 219), Pupil: rgb(0, 0, 0), Highlight: rgb(216, 191, 216)},
	{Name: "Cyan", Outer: rgb(0, 255, 255), Inner: rgb(0, 206, 209), Pupil: rgb(0, 0, 0), Highlight: rgb(224, 255, 255)},
	{Name: "Orange", Outer: rgb(255, 165, 0), Inner: rgb(255, 140, 0), Pupil: rgb(0, 0, 0), Highlight: rgb(255, 228, 181)},
	{Name: "Pink", Outer: rgb(255, 105, 180), Inner: rgb(219, 112, 147), Pupil: rgb(0, 0, 0), Highlight: rgb(255, 182, 193)},
	{Name: "Yellow", Outer: rgb(255, 255, 0), Inner: rgb(238, 232, 170), Pupil: rgb(0, 0, 0), Highlight: rgb(255, 250, 205)},
	{Name: "Magenta", Outer: rgb(255, 0, 255), Inner: rgb(218, 112, 214), Pupil: rgb(0, 0, 0), Highlight: rgb(255, 192, 203)},
	{Name: "Brown", Outer: rgb(139, 69, 19), Inner: rgb(160, 82, 45), Pupil: rgb(0, 0, 0), Highlight: rgb(210, 180, 140)},
	{Name: "Grey Scale", Outer: rgb(192, 192, 192), Inner: rgb(128, 128, 128), Pupil: rgb(0, 0, 0), Highlight: rgb(255, 255, 255)},
	{Name: "Teal", Outer: rgb(0, 128, 128), Inner: rgb(32, 178, 170), Pupil: rgb(0, 0, 0), Highlight: rgb(175, 238, 238)},
	{Name: "Lavender", Outer: rgb(230, 230, 250), Inner: rgb(216, 191, 216), Pupil: rgb(0, 0, 0), Highlight: rgb(255, 240, 245)},
	{Name: "Olive", Outer: rgb(128, 128, 0), Inner: rgb(107, 142, 35), Pupil: rgb(0, 0, 0), Highlight: rgb(189, 183, 107)},
	{Name: "Maroon", Outer: rgb(128, 0, 0), Inner: rgb(165, 42, 42), Pupil: rgb(0, 0, 0), Highlight: rgb(205, 92, 92)},
	{Name: "Coral", Outer: rgb(255, 127, 80), Inner: rgb(240, 128, 128), Pupil: rgb(0, 0, 0), Highlight: rgb(255, 160, 122)},
	{Name: "Turquoise", Outer: rgb(64, 224, 208), Inner: rgb(72, 209, 204), Pupil: rgb(0, 0, 0), Highlight: rgb(175, 238, 238)},
	{Name: "Indigo", Outer: rgb(75, 0, 130), Inner: rgb(138, 43, 226), Pupil: rgb(0, 0, 0), Highlight: rgb(216, 191, 216)},
	{Name: "Deep Pink", Outer: rgb(255, 20, 147), Inner: rgb(219, 112, 147), Pupil: rgb(0, 0, 0), Highlight: rgb(255, 182, 193)},
	{Name: "Gold", Outer: rgb(255, 215, 0), Inner: rgb(218, 165, 32), Pupil: rgb(0, 0, 0), Highlight: rgb(255, 250, 205)},
	{Name: "Crimson", Outer: rgb(220, 20, 60), Inner: rgb(178, 34, 34), Pupil: rgb(0, 0, 0), Highlight: rgb(255, 192, 203)},
	{Name: "Khaki", Outer: rgb(240, 230, 140), Inner: rgb(189, 183, 107), Pupil: rgb(0, 0, 0), Highlight: rgb(255, 255, 224)},
	{Name: "Peru", Outer: rgb(205, 133, 63), Inner: rgb(210, 105, 30), Pupil: rgb(0, 0, 0), Highlight: rgb(244, 164, 96)},
	{Name: "Steel Blue", Outer: rgb(70, 130, 180), Inner: rgb(100, 149, 237), Pupil: rgb(0, 0, 0), Highlight: rgb(176, 196, 222)},
}

var bandTables = [MaxIndex]BandTable{
	{rgb(0, 0, 255), rgb(0, 128, 255), rgb(0, 255, 255), rgb(0, 255, 128), rgb(255, 255, 0), rgb(255, 128, 0), rgb(255, 0, 0)},
	{rgb(173, 216, 230), rgb(255, 182, 193), rgb(152, 251, 152), rgb(216, 191, 216), rgb(255, 255, 204), rgb(255, 228, 196), rgb(240, 230, 140)},
	{rgb(139, 69, 19), rgb(160, 82, 45), rgb(210, 180, 140), rgb(222, 184, 135), rgb(188, 143, 143), rgb(128, 128, 0), rgb(85, 107, 47)},
	{rgb(255, 0, 255), rgb(0, 255, 255), rgb(255, 255, 0), rgb(0, 255, 0), rgb(0, 0, 255), rgb(255, 165, 0), rgb(255, 0, 0)},
	{rgb(0, 0, 0), rgb(64, 64, 64), rgb(128, 128, 128), rgb(192, 192, 192), rgb(224, 224, 224), rgb(240, 240, 240), rgb(255, 255, 255)},
	{rgb(255, 0, 127), rgb(255, 127, 0), rgb(127, 255, 0), rgb(0, 255, 127), rgb(0, 127, 255), rgb(127, 0, 255), rgb(255, 0, 0)},
	{rgb(255, 94, 77), rgb(255, 127, 80), rgb(255, 160, 122), rgb(255, 182, 193), rgb(255, 228, 196), rgb(255, 218, 185), rgb(255, 105, 180)},
	{rgb(0, 100, 0), rgb(34, 139, 34), rgb(0, 128, 0), rgb(46, 139, 87), rgb(60, 179, 113), rgb(32, 178, 170), rgb(0, 250, 154)},
	{rgb(0, 0, 139), rgb(0, 0, 205), rgb(65, 105, 225), rgb(30, 144, 255), rgb(135, 206, 250), rgb(176, 224, 230), rgb(0, 191, 255)},
	{rgb(255, 182, 193), rgb(255, 105, 180), rgb(255, 20, 147), rgb(255, 99, 71), rgb(255, 140, 0), rgb(255, 165, 0), rgb(255, 215, 0)},
	{rgb(255, 69, 0), rgb(255, 99, 71), rgb(255, 140, 0), rgb(255, 165, 0), rgb(255, 215, 0), rgb(255, 160, 122), rgb(255, 127, 80)},
	{rgb(50, 205, 50), rgb(124, 252, 0), rgb(0, 255, 0), rgb(127, 255, 0), rgb(173, 255, 47), rgb(152, 251, 152), rgb(0, 128, 0)},
	{rgb(75, 0, 130), rgb(138, 43, 226), rgb(148, 0, 211), rgb(186, 85, 211), rgb(216, 191, 216), rgb(221, 160, 221), rgb(238, 130, 238)},
	{rgb(0, 105, 148), rgb(0, 191, 255), rgb(70, 130, 180), rgb(100, 149, 237), rgb(135, 206, 235), rgb(176, 224, 230), rgb(30, 144, 255)},
	{rgb(255, 0, 0), rgb(255, 69, 0), rgb(255, 140, 0), rgb(255, 165, 0), rgb(255, 215, 0), rgb(255, 160, 122), rgb(255, 105, 180)},
	{rgb(255, 182, 193), rgb(255, 192, 203), rgb(221, 160, 221), rgb(216, 191, 216), rgb(240, 230, 140), rgb(255, 228, 196), rgb(255, 250, 205)},
	{rgb(0, 128, 128), rgb(72, 209, 204), rgb(95, 158, 160), rgb(32, 178, 170), rgb(0, 206, 209), rgb(64, 224, 208), rgb(0, 255, 255)},
	{rgb(255, 160, 122), rgb(255, 127, 80), rgb(255, 99, 71), rgb(255, 69, 0), rgb(255, 140, 0), rgb(255, 165, 0), rgb(255, 215, 0)},
	{rgb(57, 255, 20), rgb(0, 255, 255), rgb(255, 20, 147), rgb(255, 105, 180), rgb(138, 43, 226), rgb(0, 255, 0), rgb(255, 0, 255)},
	{rgb(105, 105, 105), rgb(169, 169, 169), rgb(192, 192, 192), rgb(128, 128, 128), rgb(112, 128, 144), rgb(119, 136, 153), rgb(47, 79, 79)},
	{rgb(65, 105, 225), rgb(72, 61, 139), rgb(106, 90, 205), rgb(123, 104, 238), rgb(0, 0, 205), rgb(25, 25, 112), rgb(70, 130, 180)},
	{rgb(199, 21, 133), rgb(218, 112, 214), rgb(219, 112, 147), rgb(255, 20, 147), rgb(255, 105, 180), rgb(255, 182, 193), rgb(255, 192, 203)},
	{rgb(210, 105, 30), rgb(244, 164, 96), rgb(222, 184, 135), rgb(205, 133, 63), rgb(160, 82, 45), rgb(139, 69, 19), rgb(128, 0, 0)},
	{rgb(255, 192, 203), rgb(255, 182, 193), rgb(216, 191, 216), rgb(221, 160, 221), rgb(238, 130, 238), rgb(230, 230, 250), rgb(255, 240, 245)},
	{rgb(0, 255, 0), rgb(0, 255, 255), rgb(255, 0, 255), rgb(255, 255, 0), rgb(255, 69, 0), rgb(255, 20, 147), rgb(0, 191, 255)},
}
