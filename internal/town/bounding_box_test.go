package town

import (
	"testing"

	"github.com/pixil98/go-testutil"
)

func TestBoundingBoxContains(t *testing.T) {
	box := BoundingBox{X: 10, Y: 20, Width: 30, Height: 40}

	tests := map[string]struct {
		x, y float64
		exp  bool
	}{
		"center": {x: 25, y: 40, exp: true},
		"top left corner": {x: 10, y: 20, exp: true},
		"bottom right edge": {x: 40, y: 60, exp: true},
		"left of box": {x: 9, y: 40, exp: false},
		"right of box": {x: 41, y: 40, exp: false},
		"above box": {x: 25, y: 19, exp: false},
		"below box": {x: 25, y: 61, exp: false},
		"far away": {x: -100, y: -100, exp: false},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, "contains", box.Contains(tt.x, tt.y), tt.exp)
		})
	}
}

func TestBoundingBoxOverlaps(t *testing.T) {
	box := BoundingBox{X: 0, Y: 0, Width: 10, Height: 10}

	tests := map[string]struct {
		other BoundingBox
		exp   bool
	}{
		"identical": {other: BoundingBox{X: 0, Y: 0, Width: 10, Height: 10}, exp: true},
		"partial overlap": {other: BoundingBox{X: 5, Y: 5, Width: 10, Height: 10}, exp: true},
		"contained": {other: BoundingBox{X: 2, Y: 2, Width: 4, Height: 4}, exp: true},
		"disjoint": {other: BoundingBox{X: 20, Y: 20, Width: 5, Height: 5}, exp: false},
		"shared edge": {other: BoundingBox{X: 10, Y: 0, Width: 10, Height: 10}, exp: false},
		"shared corner": {other: BoundingBox{X: 10, Y: 10, Width: 10, Height: 10}, exp: false},
		"overlap one pixel": {other: BoundingBox{X: 9, Y: 9, Width: 10, Height: 10}, exp: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, "overlaps", box.Overlaps(tt.other), tt.exp)
			testutil.AssertEqual(t, "overlaps symmetric", tt.other.Overlaps(box), tt.exp)
		})
	}
}
