package town

// BoundingBox is an axis-aligned rectangle described by its top-left
// corner and extents, in map pixel coordinates.
type BoundingBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Contains reports whether the point (x, y) falls inside the rectangle.
// Points on the rectangle's edges count as inside.
func (b BoundingBox) Contains(x, y float64) bool {
	return x >= b.X && x <= b.X+b.Width &&
		y >= b.Y && y <= b.Y+b.Height
}

// Overlaps reports whether the two rectangles share any interior area.
// Rectangles that only touch along an edge do not overlap, so adjacent
// areas in a map remain valid.
func (b BoundingBox) Overlaps(other BoundingBox) bool {
	return b.X < other.X+other.Width && other.X < b.X+b.Width &&
		b.Y < other.Y+other.Height && other.Y < b.Y+b.Height
}
