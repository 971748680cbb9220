package server

import (
	"math"
	"testing"
)

func TestWrapAngleNormalizesToHalfTurn(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{0, 0},
		{math.Pi / 2, math.Pi / 2},
		{3 * math.Pi, math.Pi},
		{-3 * math.Pi, -math.Pi},
		{2*math.Pi + 0.25, 0.25},
		{-2*math.Pi - 0.25, -0.25},
	}
	for _, tc := range cases {
		got := wrapAngle(tc.in)
		if math.Abs(got-tc.want) > 1e-9 {
			t.Fatalf("wrapAngle(%.4f) = %.4f, want %.4f", tc.in, got, tc.want)
		}
	}
}

func TestSegmentIntersectsRect(t *testing.T) {
	wall := Wall{X: 100, Y: 100, Width: 50, Height: 50}

	if !segmentIntersectsRect(vec2{X: 0, Y: 125}, vec2{X: 300, Y: 125}, wall) {
		t.Fatal("horizontal segment through the wall should intersect")
	}
	if !segmentIntersectsRect(vec2{X: 125, Y: 0}, vec2{X: 125, Y: 300}, wall) {
		t.Fatal("vertical segment through the wall should intersect")
	}
	if segmentIntersectsRect(vec2{X: 0, Y: 0}, vec2{X: 300, Y: 0}, wall) {
		t.Fatal("segment passing above the wall should not intersect")
	}
	if segmentIntersectsRect(vec2{X: 0, Y: 200}, vec2{X: 50, Y: 250}, wall) {
		t.Fatal("segment entirely below the wall should not intersect")
	}
	if !segmentIntersectsRect(vec2{X: 110, Y: 110}, vec2{X: 140, Y: 140}, wall) {
		t.Fatal("segment entirely inside the wall should intersect")
	}
}

func TestSegmentClearOfWalls(t *testing.T) {
	walls := []Wall{
		{X: 100, Y: 100, Width: 50, Height: 50},
		{X: 400, Y: 100, Width: 50, Height: 50},
	}
	if segmentClearOfWalls(vec2{X: 0, Y: 125}, vec2{X: 600, Y: 125}, walls) {
		t.Fatal("segment crossing both walls reported clear")
	}
	if !segmentClearOfWalls(vec2{X: 0, Y: 300}, vec2{X: 600, Y: 300}, walls) {
		t.Fatal("segment below both walls reported blocked")
	}
}

func TestPointSegmentDistance(t *testing.T) {
	a := vec2{X: 0, Y: 0}
	b := vec2{X: 100, Y: 0}

	if d := pointSegmentDistance(vec2{X: 50, Y: 30}, a, b); math.Abs(d-30) > 1e-9 {
		t.Fatalf("perpendicular distance = %.4f, want 30", d)
	}
	// Beyond the far endpoint the distance is to the endpoint itself.
	if d := pointSegmentDistance(vec2{X: 130, Y: 40}, a, b); math.Abs(d-50) > 1e-9 {
		t.Fatalf("endpoint distance = %.4f, want 50", d)
	}
	// Degenerate segment behaves like a point.
	if d := pointSegmentDistance(vec2{X: 3, Y: 4}, a, a); math.Abs(d-5) > 1e-9 {
		t.Fatalf("degenerate segment distance = %.4f, want 5", d)
	}
}

func TestCircleRectOverlap(t *testing.T) {
	wall := Wall{X: 100, Y: 100, Width: 50, Height: 50}
	if !circleRectOverlap(90, 125, 15, wall) {
		t.Fatal("circle touching the left edge should overlap")
	}
	if circleRectOverlap(50, 125, 15, wall) {
		t.Fatal("circle well left of the wall should not overlap")
	}
}
