package flow

// DefaultSpacing is the gap between items on a row and between rows.
const DefaultSpacing = 10.0

// Size is the natural footprint of one item, or the bounding size of a layout.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Point is a placement offset relative to the packed region's origin.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Rect is a region proposed by a layout host for final placement.
type Rect struct {
	Origin Point `json:"origin"`
	Size   Size  `json:"size"`
}

// Result holds one offset per packed item, in input order, plus the
// bounding size of the whole layout.
type Result struct {
	Offsets []Point
	Size    Size
}

// Options tunes the packer.
type Options struct {
	Spacing float64
	// InlineFirst skips the overflow test for the first item, so an item
	// wider than the container stays at the origin instead of starting one
	// spacing below it.
	InlineFirst bool
}
